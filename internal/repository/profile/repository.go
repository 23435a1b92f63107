package profile

import (
	"context"

	"storefront/internal/domain"
)

// Repository stores the profile document kept beside each account.
type Repository interface {
	Set(ctx context.Context, p domain.Profile) error
	Get(ctx context.Context, userID string) (*domain.Profile, error)
	Update(ctx context.Context, userID string, upd domain.ProfileUpdate) error
}
