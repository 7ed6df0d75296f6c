package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/comitanigiacomo/kanso-dashboard/internal/core/domain"
)

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	GenerateToken(subject string) (string, error)
}

// AuthService guards the dashboard behind a single shared viewer password.
type AuthService struct {
	passwordHash []byte
	tokens       TokenIssuer
}

func NewAuthService(passwordHash string, tokens TokenIssuer) *AuthService {
	return &AuthService{
		passwordHash: []byte(passwordHash),
		tokens:       tokens,
	}
}

// HashPassword returns the bcrypt hash stored in auth.viewer_password_hash.
func HashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", fmt.Errorf("%w: need at least 8 characters", domain.ErrWeakPassword)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *AuthService) Login(ctx context.Context, password string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(s.passwordHash) == 0 {
		return "", domain.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("auth service: compare password: %w", err)
	}

	token, err := s.tokens.GenerateToken(ViewerSubject)
	if err != nil {
		return "", err
	}
	return token, nil
}
