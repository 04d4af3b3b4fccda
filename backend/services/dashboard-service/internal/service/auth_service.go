package service

import (
	"errors"

	"go.uber.org/zap"

	"voltboard/backend/services/dashboard-service/internal/password"
)

// ErrInvalidPassphrase represents a failed dashboard login.
var ErrInvalidPassphrase = errors.New("auth: invalid passphrase")

// AuthService exchanges the configured dashboard passphrase for a viewer
// token. The dashboard has no user accounts; one shared passphrase guards the
// whole page when access control is enabled.
type AuthService struct {
	hasher         password.Hasher
	passphraseHash string
	tokenizer      *TokenService
	logger         *zap.Logger
}

// NewAuthService builds AuthService.
func NewAuthService(hasher password.Hasher, passphraseHash string, tokenizer *TokenService, logger *zap.Logger) *AuthService {
	return &AuthService{
		hasher:         hasher,
		passphraseHash: passphraseHash,
		tokenizer:      tokenizer,
		logger:         logger,
	}
}

// Login validates the passphrase and issues a viewer token.
func (s *AuthService) Login(passphrase string) (string, error) {
	if passphrase == "" {
		return "", ErrInvalidPassphrase
	}
	if err := s.hasher.Compare(s.passphraseHash, passphrase); err != nil {
		return "", ErrInvalidPassphrase
	}

	token, err := s.tokenizer.GenerateToken()
	if err != nil {
		return "", err
	}

	s.logger.Info("dashboard viewer logged in")
	return token, nil
}
