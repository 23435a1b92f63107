package profile

import (
	"context"
	"sync"

	"storefront/internal/domain"
)

// Memory is an in-process profile store.
type Memory struct {
	mu   sync.RWMutex
	docs map[string]domain.Profile
}

func NewMemory() *Memory {
	return &Memory{docs: make(map[string]domain.Profile)}
}

func (m *Memory) Set(_ context.Context, p domain.Profile) error {
	m.mu.Lock()
	m.docs[p.UserID] = p
	m.mu.Unlock()
	return nil
}

func (m *Memory) Get(_ context.Context, userID string) (*domain.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.docs[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (m *Memory) Update(_ context.Context, userID string, upd domain.ProfileUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.docs[userID]
	if !ok {
		return domain.ErrNotFound
	}
	p = upd.Apply(p)
	m.docs[userID] = p
	return nil
}
