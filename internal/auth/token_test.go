package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/dil-ansh-rochan/BoardKonect-hackfest-2025/internal/models"
)

var priya = models.User{
	ID:      2,
	Email:   "priya.sharma@example.com",
	Profile: models.Profile{Name: "Priya Sharma", Country: "India"},
}

func TestIssueAndParse(t *testing.T) {
	issuer := NewIssuer("s3cret", time.Hour)

	token, err := issuer.Issue(priya)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	require.Equal(t, "priya.sharma@example.com", claims.Email)
	require.Equal(t, "India", claims.Country)
	id, err := claims.UserID()
	require.NoError(t, err)
	require.Equal(t, 2, id)
}

func TestParseRejectsExpired(t *testing.T) {
	issuer := NewIssuer("s3cret", time.Minute)
	issued := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return issued }

	token, err := issuer.Issue(priya)
	require.NoError(t, err)

	issuer.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = issuer.Parse(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsOtherSecretAndAlgorithm(t *testing.T) {
	token, err := NewIssuer("other", time.Hour).Issue(priya)
	require.NoError(t, err)

	issuer := NewIssuer("s3cret", time.Hour)
	_, err = issuer.Parse(token)
	require.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "2"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = issuer.Parse(none)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestNilIssuerDisablesTokens(t *testing.T) {
	issuer := NewIssuer("", time.Hour)
	require.Nil(t, issuer)

	token, err := issuer.Issue(priya)
	require.NoError(t, err)
	require.Empty(t, token)

	_, err = issuer.Parse("anything")
	require.ErrorIs(t, err, ErrInvalidToken)
}
