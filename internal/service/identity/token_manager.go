package identity

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/google/uuid"
	"storefront/internal/domain"
	tokenrepo "storefront/internal/repository/token"
)

type tokenManager struct {
	repo tokenrepo.Repository
}

func newTokenManager(repo tokenrepo.Repository) *tokenManager {
	return &tokenManager{
		repo: repo,
	}
}

// Issue stores a new token. Access tokens are random URL-safe strings;
// verification codes are UUIDs so they survive being typed into a link.
func (m *tokenManager) Issue(ctx context.Context, userID, kind string, now, expiresAt time.Time) (string, error) {
	for i := 0; i < 5; i++ {
		value, err := newTokenValue(kind)
		if err != nil {
			return "", err
		}
		err = m.repo.Create(ctx, tokenrepo.Token{
			Token:           value,
			UserID:          userID,
			Kind:            kind,
			ExpiresAt:       expiresAt,
			AuthenticatedAt: now,
		})
		if err == nil {
			return value, nil
		}
		if errors.Is(err, domain.ErrAlreadyExists) {
			continue
		}
		return "", err
	}
	return "", errors.New("token collision")
}

// Lookup returns the stored token when it exists with the wanted kind.
// Expiry is left to the caller.
func (m *tokenManager) Lookup(ctx context.Context, value, kind string) (*tokenrepo.Token, error) {
	if value == "" {
		return nil, ErrInvalidToken
	}
	tok, err := m.repo.Get(ctx, value)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if tok.Kind != kind || tok.UserID == "" {
		return nil, ErrInvalidToken
	}
	return tok, nil
}

func (m *tokenManager) Revoke(ctx context.Context, value string) error {
	if err := m.repo.Delete(ctx, value); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return nil
}

func (m *tokenManager) Touch(ctx context.Context, value string, at time.Time) error {
	if err := m.repo.Touch(ctx, value, at); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	return nil
}

func newTokenValue(kind string) (string, error) {
	if kind == tokenrepo.KindVerify {
		return uuid.NewString(), nil
	}
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
