package token

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"storefront/internal/domain"
)

const redisKeyPrefix = "storefront:token:"

type redisRepo struct {
	client *redis.Client
	logger *log.Logger
	now    func() time.Time
}

// NewRedis stores tokens as JSON values whose key TTL tracks ExpiresAt.
// Create refuses tokens that are already expired with ErrExpired.
func NewRedis(client *redis.Client, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &redisRepo{client: client, logger: logger, now: time.Now}
}

func (r *redisRepo) Create(ctx context.Context, token Token) error {
	if token.CreatedAt.IsZero() {
		token.CreatedAt = r.now().UTC()
	}
	ttl := token.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return ErrExpired
	}
	raw, err := json.Marshal(token)
	if err != nil {
		return err
	}
	ok, err := r.client.SetNX(ctx, redisKeyPrefix+token.Token, raw, ttl).Result()
	if err != nil {
		r.logger.Printf("token repo: redis create kind=%s user_id=%s error=%v", token.Kind, token.UserID, err)
		return err
	}
	if !ok {
		return domain.ErrAlreadyExists
	}
	return nil
}

func (r *redisRepo) Get(ctx context.Context, token string) (*Token, error) {
	raw, err := r.client.Get(ctx, redisKeyPrefix+token).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("token repo: redis get error=%v", err)
		return nil, err
	}
	var out Token
	if err := json.Unmarshal(raw, &out); err != nil {
		r.logger.Printf("token repo: redis decode error=%v", err)
		return nil, err
	}
	return &out, nil
}

func (r *redisRepo) Delete(ctx context.Context, token string) error {
	n, err := r.client.Del(ctx, redisKeyPrefix+token).Result()
	if err != nil {
		r.logger.Printf("token repo: redis delete error=%v", err)
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *redisRepo) Touch(ctx context.Context, token string, authenticatedAt time.Time) error {
	current, err := r.Get(ctx, token)
	if err != nil {
		return err
	}
	current.AuthenticatedAt = authenticatedAt
	raw, err := json.Marshal(current)
	if err != nil {
		return err
	}
	ok, err := r.client.SetXX(ctx, redisKeyPrefix+token, raw, redis.KeepTTL).Result()
	if err != nil {
		r.logger.Printf("token repo: redis touch error=%v", err)
		return err
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}
