package order

import (
	"context"

	"storefront/internal/domain"
)

// Repository is the per-user order collection. There is no update or delete.
type Repository interface {
	Add(ctx context.Context, userID string, o domain.Order) (string, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
}
