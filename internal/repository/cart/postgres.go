package cart

import (
	"context"
	"io"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"storefront/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Add(ctx context.Context, userID string, line domain.CartLine) (string, error) {
	const q = `
INSERT INTO cart_lines (user_id, product_name, price, image_url, quantity)
VALUES ($1, $2, $3::numeric, $4, $5)
RETURNING id::text
`
	var id string
	if err := r.pool.QueryRow(ctx, q, userID, line.ProductName, line.Price.String(), line.ImageURL, line.Quantity).Scan(&id); err != nil {
		r.logger.Printf("cart repo: add user_id=%s product=%q error=%v", userID, line.ProductName, err)
		return "", err
	}
	r.logger.Printf("cart repo: added user_id=%s id=%s", userID, id)
	return id, nil
}

// ListByUser deliberately has no ORDER BY: callers must not rely on store order.
func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.CartLine, error) {
	const q = `
SELECT id::text, product_name, price::text, image_url, quantity
FROM cart_lines
WHERE user_id = $1
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		r.logger.Printf("cart repo: list user_id=%s error=%v", userID, err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.CartLine
	for rows.Next() {
		var (
			line  domain.CartLine
			price string
		)
		if err := rows.Scan(&line.ID, &line.ProductName, &price, &line.ImageURL, &line.Quantity); err != nil {
			return nil, err
		}
		if line.Price, err = decimal.NewFromString(price); err != nil {
			return nil, err
		}
		result = append(result, line)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("cart repo: list rows user_id=%s error=%v", userID, err)
		return nil, err
	}
	return result, nil
}
