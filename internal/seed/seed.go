package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
	"storefront/internal/catalog"
	"storefront/internal/domain"
)

// Demo account credentials created by Apply.
const (
	DemoEmail    = "demo@storefront.local"
	DemoPassword = "demo123"
)

type lineSeed struct {
	ProductID string
	Quantity  int
	DaysAgo   int
}

// Apply inserts a verified demo account with a profile, a cart and some order
// history for manual testing. Re-running it only refreshes the account and
// profile; cart and orders are seeded once.
func Apply(ctx context.Context, pool *pgxpool.Pool) (string, error) {
	menu := catalog.New(catalog.DefaultMenu())

	userID, err := ensureAccount(ctx, pool, DemoEmail, DemoPassword)
	if err != nil {
		return "", fmt.Errorf("ensure account: %w", err)
	}
	if err := upsertProfile(ctx, pool, domain.Profile{
		UserID:    userID,
		FirstName: "Demo",
		LastName:  "User",
		Email:     DemoEmail,
		Phone:     "555-0100",
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		return "", fmt.Errorf("upsert profile: %w", err)
	}

	cart := []lineSeed{{ProductID: "1", Quantity: 1}, {ProductID: "11", Quantity: 2}, {ProductID: "14", Quantity: 2}}
	orders := []lineSeed{{ProductID: "8", Quantity: 1, DaysAgo: 1}, {ProductID: "15", Quantity: 2, DaysAgo: 1}, {ProductID: "3", Quantity: 1, DaysAgo: 4}}

	empty, err := isEmpty(ctx, pool, "cart_lines", userID)
	if err != nil {
		return "", err
	}
	if empty {
		for _, l := range cart {
			line, err := lineFor(menu, l)
			if err != nil {
				return "", err
			}
			if err := insertCartLine(ctx, pool, userID, line); err != nil {
				return "", fmt.Errorf("insert cart line %s: %w", l.ProductID, err)
			}
		}
	}

	empty, err = isEmpty(ctx, pool, "orders", userID)
	if err != nil {
		return "", err
	}
	if empty {
		now := time.Now().UTC()
		for _, l := range orders {
			line, err := lineFor(menu, l)
			if err != nil {
				return "", err
			}
			at := now.AddDate(0, 0, -l.DaysAgo)
			if err := insertOrder(ctx, pool, userID, domain.Order{CartLine: line, Date: at}); err != nil {
				return "", fmt.Errorf("insert order %s: %w", l.ProductID, err)
			}
		}
	}

	return userID, nil
}

func lineFor(menu *catalog.Service, l lineSeed) (domain.CartLine, error) {
	p, err := menu.Get(l.ProductID)
	if err != nil {
		return domain.CartLine{}, fmt.Errorf("menu item %s: %w", l.ProductID, err)
	}
	return domain.CartLine{ProductName: p.Name, Price: p.Price, ImageURL: p.Image, Quantity: l.Quantity}, nil
}

func ensureAccount(ctx context.Context, pool *pgxpool.Pool, email, password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	const q = `
INSERT INTO accounts (email, password_hash, email_verified)
VALUES ($1, $2, true)
ON CONFLICT ((lower(email))) DO UPDATE SET password_hash = EXCLUDED.password_hash, email_verified = true
RETURNING id::text
`
	var id string
	if err := pool.QueryRow(ctx, q, email, string(hash)).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func upsertProfile(ctx context.Context, pool *pgxpool.Pool, p domain.Profile) error {
	const q = `
INSERT INTO profiles (user_id, first_name, last_name, email, phone, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (user_id) DO UPDATE
SET first_name = EXCLUDED.first_name,
    last_name = EXCLUDED.last_name,
    email = EXCLUDED.email,
    phone = EXCLUDED.phone
`
	_, err := pool.Exec(ctx, q, p.UserID, p.FirstName, p.LastName, p.Email, p.Phone, p.CreatedAt)
	return err
}

// isEmpty reports whether the user has no rows in table. table is one of the
// two fixed collection names.
func isEmpty(ctx context.Context, pool *pgxpool.Pool, table, userID string) (bool, error) {
	var exists bool
	q := `SELECT EXISTS (SELECT 1 FROM ` + table + ` WHERE user_id = $1)`
	if err := pool.QueryRow(ctx, q, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check %s: %w", table, err)
	}
	return !exists, nil
}

func insertCartLine(ctx context.Context, pool *pgxpool.Pool, userID string, l domain.CartLine) error {
	const q = `
INSERT INTO cart_lines (user_id, product_name, price, image_url, quantity)
VALUES ($1, $2, $3::numeric, $4, $5)
`
	_, err := pool.Exec(ctx, q, userID, l.ProductName, l.Price.String(), l.ImageURL, l.Quantity)
	return err
}

func insertOrder(ctx context.Context, pool *pgxpool.Pool, userID string, o domain.Order) error {
	const q = `
INSERT INTO orders (user_id, product_name, price, image_url, quantity, ordered_at)
VALUES ($1, $2, $3::numeric, $4, $5, $6)
`
	_, err := pool.Exec(ctx, q, userID, o.ProductName, o.Price.String(), o.ImageURL, o.Quantity, o.Date)
	return err
}
