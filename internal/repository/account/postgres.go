package account

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"storefront/internal/domain"
)

const uniqueViolation = "23505"

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Create(ctx context.Context, a domain.Account) (*domain.Account, error) {
	const q = `
INSERT INTO accounts (email, password_hash, email_verified)
VALUES ($1, $2, $3)
RETURNING id::text, email, password_hash, email_verified, created_at
`
	return r.scanAccount(r.pool.QueryRow(ctx, q, strings.ToLower(a.Email), a.PasswordHash, a.EmailVerified))
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	const q = `
SELECT id::text, email, password_hash, email_verified, created_at
FROM accounts
WHERE lower(email) = lower($1)
LIMIT 1
`
	return r.scanAccount(r.pool.QueryRow(ctx, q, email))
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	const q = `
SELECT id::text, email, password_hash, email_verified, created_at
FROM accounts
WHERE id = $1
LIMIT 1
`
	return r.scanAccount(r.pool.QueryRow(ctx, q, id))
}

// UpdateEmail also clears the verified flag; a new address starts unverified.
func (r *postgresRepo) UpdateEmail(ctx context.Context, id, email string) error {
	const q = `UPDATE accounts SET email = $2, email_verified = false WHERE id = $1`
	return r.exec(ctx, "update email", q, id, strings.ToLower(email))
}

func (r *postgresRepo) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	const q = `UPDATE accounts SET password_hash = $2 WHERE id = $1`
	return r.exec(ctx, "update password", q, id, hash)
}

func (r *postgresRepo) SetEmailVerified(ctx context.Context, id string, verified bool) error {
	const q = `UPDATE accounts SET email_verified = $2 WHERE id = $1`
	return r.exec(ctx, "set verified", q, id, verified)
}

func (r *postgresRepo) exec(ctx context.Context, op, q string, args ...interface{}) error {
	cmd, err := r.pool.Exec(ctx, q, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyExists
		}
		r.logger.Printf("account repo: %s error=%v", op, err)
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.EmailVerified, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("account repo: scan error=%v", err)
		return nil, err
	}
	return &a, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
