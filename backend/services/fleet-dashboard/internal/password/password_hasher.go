package password

import (
	"crypto/subtle"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ErrMismatch is returned when a password does not match the stored credential.
var ErrMismatch = errors.New("password: mismatch")

// Hasher defines password hashing contract.
type Hasher interface {
	Hash(password string) (string, error)
	Compare(stored, password string) error
}

// BcryptHasher stores bcrypt hashes. When AllowPlaintext is set, a stored
// credential that is not a bcrypt hash is compared verbatim; that path only
// exists for legacy demo rows and is off by default.
type BcryptHasher struct {
	cost           int
	allowPlaintext bool
}

// NewBcryptHasher returns a bcrypt-backed hasher; cost 0 means bcrypt.DefaultCost.
func NewBcryptHasher(cost int, allowPlaintext bool) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost, allowPlaintext: allowPlaintext}
}

// Hash converts a plain password into a bcrypt hash.
func (h *BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", errors.New("password: empty password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Compare checks password against the stored credential.
func (h *BcryptHasher) Compare(stored, password string) error {
	if IsBcryptHash(stored) {
		if err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)); err != nil {
			return ErrMismatch
		}
		return nil
	}
	if h.allowPlaintext && stored != "" && subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1 {
		return nil
	}
	return ErrMismatch
}

// IsBcryptHash reports whether s looks like a modular-crypt bcrypt hash.
func IsBcryptHash(s string) bool {
	if len(s) != 60 {
		return false
	}
	for _, prefix := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}
