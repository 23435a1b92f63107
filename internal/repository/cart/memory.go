package cart

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"storefront/internal/domain"
)

// Memory is an in-process cart collection keyed by user id.
type Memory struct {
	mu     sync.RWMutex
	byUser map[string][]domain.CartLine
}

func NewMemory() *Memory {
	return &Memory{byUser: make(map[string][]domain.CartLine)}
}

func (m *Memory) Add(_ context.Context, userID string, line domain.CartLine) (string, error) {
	line.ID = uuid.NewString()
	m.mu.Lock()
	m.byUser[userID] = append(m.byUser[userID], line)
	m.mu.Unlock()
	return line.ID, nil
}

func (m *Memory) ListByUser(_ context.Context, userID string) ([]domain.CartLine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.CartLine(nil), m.byUser[userID]...), nil
}
