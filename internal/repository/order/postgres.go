package order

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

func (r *postgresRepo) Add(ctx context.Context, userID string, o domain.Order) (string, error) {
	const q = `
INSERT INTO orders (user_id, product_name, price, image_url, quantity, ordered_at)
VALUES ($1, $2, $3::numeric, $4, $5, $6)
RETURNING id::text
`
	var id string
	err := r.pool.QueryRow(ctx, q, userID, o.ProductName, o.Price.String(), o.ImageURL, o.Quantity, o.Date).Scan(&id)
	if err != nil {
		r.logger.Printf("order repo: add user_id=%s product=%q error=%v", userID, o.ProductName, err)
		return "", err
	}
	r.logger.Printf("order repo: added user_id=%s id=%s", userID, id)
	return id, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	const q = `
SELECT id::text, product_name, price::text, image_url, quantity, ordered_at
FROM orders
WHERE user_id = $1
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		r.logger.Printf("order repo: list user_id=%s error=%v", userID, err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		var (
			o     domain.Order
			price string
		)
		if err := rows.Scan(&o.ID, &o.ProductName, &price, &o.ImageURL, &o.Quantity, &o.Date); err != nil {
			return nil, err
		}
		if o.Price, err = decimal.NewFromString(price); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("order repo: list rows user_id=%s error=%v", userID, err)
		return nil, err
	}
	return result, nil
}
