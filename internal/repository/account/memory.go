package account

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"storefront/internal/domain"
)

// Memory is an in-process account store keyed by id with a lowercase email
// index.
type Memory struct {
	mu      sync.RWMutex
	byID    map[string]domain.Account
	byEmail map[string]string
}

func NewMemory() *Memory {
	return &Memory{byID: make(map[string]domain.Account), byEmail: make(map[string]string)}
}

func (m *Memory) Create(_ context.Context, a domain.Account) (*domain.Account, error) {
	a.Email = strings.ToLower(a.Email)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byEmail[a.Email]; exists {
		return nil, domain.ErrAlreadyExists
	}
	a.ID = uuid.NewString()
	a.CreatedAt = time.Now().UTC()
	m.byID[a.ID] = a
	m.byEmail[a.Email] = a.ID
	return &a, nil
}

func (m *Memory) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	a := m.byID[id]
	return &a, nil
}

func (m *Memory) GetByID(_ context.Context, id string) (*domain.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &a, nil
}

func (m *Memory) UpdateEmail(_ context.Context, id, email string) error {
	email = strings.ToLower(email)
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	if owner, taken := m.byEmail[email]; taken && owner != id {
		return domain.ErrAlreadyExists
	}
	delete(m.byEmail, a.Email)
	a.Email = email
	a.EmailVerified = false
	m.byID[id] = a
	m.byEmail[email] = id
	return nil
}

func (m *Memory) UpdatePasswordHash(_ context.Context, id, hash string) error {
	return m.update(id, func(a *domain.Account) { a.PasswordHash = hash })
}

func (m *Memory) SetEmailVerified(_ context.Context, id string, verified bool) error {
	return m.update(id, func(a *domain.Account) { a.EmailVerified = verified })
}

func (m *Memory) update(id string, fn func(a *domain.Account)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	fn(&a)
	m.byID[id] = a
	return nil
}
