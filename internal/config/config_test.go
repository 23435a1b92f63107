package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("TOKEN_STORE", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "")

	cfg := FromEnv()
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "postgres", cfg.TokenStore)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("TOKEN_STORE", "Redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CORS_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "2")

	cfg := FromEnv()
	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.Equal(t, "redis", cfg.TokenStore)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 2*time.Second, cfg.ShutdownTimeout)
}

func TestFromEnv_IgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("REDIS_DB", "x")
	t.Setenv("SHUTDOWN_TIMEOUT_SECONDS", "soon")

	cfg := FromEnv()
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestFromEnv_PoolAndRedisSettings(t *testing.T) {
	t.Setenv("DB_MAX_CONNS", "12")
	t.Setenv("DB_MIN_CONNS", "2")
	t.Setenv("DB_MAX_CONN_IDLE_SECONDS", "60")
	t.Setenv("DB_MAX_CONN_LIFETIME_SECONDS", "")
	t.Setenv("PING_TIMEOUT_SECONDS", "3")
	t.Setenv("SESSION_IDLE_SECONDS", "")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("REDIS_DB", "1")

	cfg := FromEnv()
	pool := cfg.Pool()
	assert.EqualValues(t, 12, pool.MaxConns)
	assert.EqualValues(t, 2, pool.MinConns)
	assert.Equal(t, time.Minute, pool.MaxConnIdleTime)
	assert.Equal(t, 30*time.Minute, pool.MaxConnLifetime)
	assert.Equal(t, 3*time.Second, pool.PingTimeout)
	assert.Equal(t, time.Hour, cfg.SessionIdle)

	redis := cfg.Redis()
	assert.Equal(t, "cache:6379", redis.Addr)
	assert.Equal(t, 1, redis.DB)
	assert.Equal(t, 3*time.Second, redis.PingTimeout)
}
