package order

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"storefront/internal/domain"
)

// Memory is an in-process order collection keyed by user id.
type Memory struct {
	mu     sync.RWMutex
	byUser map[string][]domain.Order
}

func NewMemory() *Memory {
	return &Memory{byUser: make(map[string][]domain.Order)}
}

func (m *Memory) Add(_ context.Context, userID string, o domain.Order) (string, error) {
	o.ID = uuid.NewString()
	m.mu.Lock()
	m.byUser[userID] = append(m.byUser[userID], o)
	m.mu.Unlock()
	return o.ID, nil
}

func (m *Memory) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.Order(nil), m.byUser[userID]...), nil
}
