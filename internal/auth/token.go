package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dil-ansh-rochan/BoardKonect-hackfest-2025/internal/models"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims carried by a login token.
type Claims struct {
	Email   string `json:"email"`
	Country string `json:"country"`
	jwt.RegisteredClaims
}

// UserID returns the numeric subject.
func (c Claims) UserID() (int, error) {
	return strconv.Atoi(c.Subject)
}

// Issuer signs HS256 login tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer returns nil when secret is empty, which disables token issuance.
func NewIssuer(secret string, ttl time.Duration) *Issuer {
	if secret == "" {
		return nil
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for user. A nil Issuer returns an empty token.
func (i *Issuer) Issue(user models.User) (string, error) {
	if i == nil {
		return "", nil
	}
	now := i.now().UTC()
	claims := Claims{
		Email:   user.Email,
		Country: user.Profile.Country,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(user.ID),
			Issuer:    "boardkonnect",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Parse verifies signature, algorithm and expiry.
func (i *Issuer) Parse(token string) (Claims, error) {
	if i == nil {
		return Claims{}, ErrInvalidToken
	}
	var claims Claims
	tok, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer("boardkonnect"),
		jwt.WithLeeway(5*time.Second),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}
