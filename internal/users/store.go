package users

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/dil-ansh-rochan/BoardKonect-hackfest-2025/internal/models"
)

var (
	// ErrNotFound is returned when no user has the requested id.
	ErrNotFound = errors.New("user not found")
	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type record struct {
	user models.User
	hash []byte
}

// Store is a read-only, in-memory user directory. Safe for concurrent use.
type Store struct {
	byID    map[int]record
	byEmail map[string]int
}

// NewStore hashes every account password with the given bcrypt cost.
// A cost outside bcrypt's range falls back to bcrypt.DefaultCost.
func NewStore(accounts []Account, cost int) (*Store, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	s := &Store{
		byID:    make(map[int]record, len(accounts)),
		byEmail: make(map[string]int, len(accounts)),
	}
	for _, acc := range accounts {
		email := normalizeEmail(acc.Email)
		if email == "" {
			return nil, fmt.Errorf("user %d: empty email", acc.ID)
		}
		if _, dup := s.byID[acc.ID]; dup {
			return nil, fmt.Errorf("user %d: duplicate id", acc.ID)
		}
		if _, dup := s.byEmail[email]; dup {
			return nil, fmt.Errorf("user %d: duplicate email %q", acc.ID, email)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(acc.Password), cost)
		if err != nil {
			return nil, fmt.Errorf("hash password for user %d: %w", acc.ID, err)
		}

		s.byID[acc.ID] = record{
			user: models.User{ID: acc.ID, Email: email, Profile: acc.Profile},
			hash: hash,
		}
		s.byEmail[email] = acc.ID
	}
	return s, nil
}

// Get returns the public view of the user with the given id.
func (s *Store) Get(id int) (models.User, error) {
	rec, ok := s.byID[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return rec.user, nil
}

// Authenticate checks the credentials and returns the matching user.
func (s *Store) Authenticate(email, password string) (models.User, error) {
	id, ok := s.byEmail[normalizeEmail(email)]
	if !ok {
		return models.User{}, ErrInvalidCredentials
	}
	rec := s.byID[id]
	if err := bcrypt.CompareHashAndPassword(rec.hash, []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return rec.user, nil
}

// Len reports the number of users.
func (s *Store) Len() int {
	return len(s.byID)
}

func normalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
