package cart

import (
	"context"

	"storefront/internal/domain"
)

// Repository is the per-user cart collection. Add returns the id assigned to
// the new document; ListByUser returns every document in store order.
type Repository interface {
	Add(ctx context.Context, userID string, line domain.CartLine) (string, error)
	ListByUser(ctx context.Context, userID string) ([]domain.CartLine, error)
}
