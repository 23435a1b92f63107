package token

import (
	"context"
	"errors"
	"time"
)

// ErrExpired is returned by stores that cannot hold a token whose expiry has
// already passed.
var ErrExpired = errors.New("token already expired")

const (
	KindAccess = "access"
	KindVerify = "verify"
)

// Token is an opaque credential bound to one account. Access tokens double
// as device ids; verify tokens carry an email confirmation code.
type Token struct {
	Token           string    `json:"token"`
	UserID          string    `json:"userId"`
	Kind            string    `json:"kind"`
	ExpiresAt       time.Time `json:"expiresAt"`
	AuthenticatedAt time.Time `json:"authenticatedAt"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Expired reports whether t is past its expiry at now.
func (t Token) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

type Repository interface {
	Create(ctx context.Context, token Token) error
	Get(ctx context.Context, token string) (*Token, error)
	Delete(ctx context.Context, token string) error
	// Touch records a fresh authentication for the token.
	Touch(ctx context.Context, token string, authenticatedAt time.Time) error
}
