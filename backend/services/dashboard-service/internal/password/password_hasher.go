package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// Hasher defines the passphrase hashing contract.
type Hasher interface {
	Hash(passphrase string) (string, error)
	Compare(hash, passphrase string) error
}

// BcryptHasher implements Hasher using bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a bcrypt-backed hasher.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash converts a plain passphrase into a hash suitable for config storage.
func (h *BcryptHasher) Hash(passphrase string) (string, error) {
	if passphrase == "" {
		return "", errors.New("password: empty passphrase")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(passphrase), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Compare checks if the provided passphrase matches the stored hash.
func (h *BcryptHasher) Compare(hash, passphrase string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(passphrase))
}
