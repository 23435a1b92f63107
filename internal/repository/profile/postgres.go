package profile

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
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

// Set writes the whole document, replacing any existing one.
func (r *postgresRepo) Set(ctx context.Context, p domain.Profile) error {
	const q = `
INSERT INTO profiles (user_id, first_name, last_name, email, phone, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (user_id) DO UPDATE SET
    first_name = EXCLUDED.first_name,
    last_name = EXCLUDED.last_name,
    email = EXCLUDED.email,
    phone = EXCLUDED.phone,
    created_at = EXCLUDED.created_at
`
	if _, err := r.pool.Exec(ctx, q, p.UserID, p.FirstName, p.LastName, p.Email, p.Phone, p.CreatedAt); err != nil {
		r.logger.Printf("profile repo: set user_id=%s error=%v", p.UserID, err)
		return err
	}
	return nil
}

func (r *postgresRepo) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	const q = `
SELECT user_id::text, first_name, last_name, email, phone, created_at
FROM profiles
WHERE user_id = $1
`
	var p domain.Profile
	err := r.pool.QueryRow(ctx, q, userID).Scan(&p.UserID, &p.FirstName, &p.LastName, &p.Email, &p.Phone, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("profile repo: get user_id=%s error=%v", userID, err)
		return nil, err
	}
	return &p, nil
}

// Update changes only the non-nil fields of upd.
func (r *postgresRepo) Update(ctx context.Context, userID string, upd domain.ProfileUpdate) error {
	const q = `
UPDATE profiles SET
    first_name = COALESCE($2, first_name),
    last_name = COALESCE($3, last_name),
    email = COALESCE($4, email),
    phone = COALESCE($5, phone)
WHERE user_id = $1
`
	cmd, err := r.pool.Exec(ctx, q, userID, upd.FirstName, upd.LastName, upd.Email, upd.Phone)
	if err != nil {
		r.logger.Printf("profile repo: update user_id=%s error=%v", userID, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
