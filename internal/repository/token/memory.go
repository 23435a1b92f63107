package token

import (
	"context"
	"sync"
	"time"

	"storefront/internal/domain"
)

// Memory keeps tokens in process. Like the Postgres store it returns expired
// tokens as-is and leaves expiry handling to the caller.
type Memory struct {
	mu     sync.RWMutex
	tokens map[string]Token
	now    func() time.Time
}

func NewMemory() *Memory {
	return &Memory{tokens: make(map[string]Token), now: time.Now}
}

func (m *Memory) Create(_ context.Context, token Token) error {
	if token.CreatedAt.IsZero() {
		token.CreatedAt = m.now().UTC()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tokens[token.Token]; ok {
		return domain.ErrAlreadyExists
	}
	m.tokens[token.Token] = token
	return nil
}

func (m *Memory) Get(_ context.Context, token string) (*Token, error) {
	m.mu.RLock()
	t, ok := m.tokens[token]
	m.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (m *Memory) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tokens[token]; !ok {
		return domain.ErrNotFound
	}
	delete(m.tokens, token)
	return nil
}

func (m *Memory) Touch(_ context.Context, token string, authenticatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[token]
	if !ok {
		return domain.ErrNotFound
	}
	t.AuthenticatedAt = authenticatedAt
	m.tokens[token] = t
	return nil
}
