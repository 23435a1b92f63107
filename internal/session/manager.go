package session

import (
	"context"
	"io"
	"log"
	"sync"
	"time"

	"storefront/internal/domain"
	"storefront/internal/service/identity"
)

// AuthSource is the auth-state observable of the identity provider. It also
// re-validates a device's token when a session has to be created for it.
type AuthSource interface {
	Subscribe(fn identity.Observer) func()
	CurrentUser(ctx context.Context, token string) (*domain.Account, error)
}

type entry struct {
	session *Session
	seen    time.Time
}

// Manager owns one Session per device and routes auth-state events to them.
type Manager struct {
	source AuthSource
	carts  CartStore
	orders OrderStore
	logger *log.Logger
	now    func() time.Time

	// OnRelease, when set before Start, is called after a device's session
	// has signed out and been dropped.
	OnRelease func(deviceID string)

	mu          sync.Mutex
	sessions    map[string]*entry
	unsubscribe func()
}

func NewManager(source AuthSource, carts CartStore, orders OrderStore, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Manager{
		source:   source,
		carts:    carts,
		orders:   orders,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
}

// Start subscribes to auth-state events. Calling it twice is a no-op.
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unsubscribe != nil {
		return
	}
	m.unsubscribe = m.source.Subscribe(m.handle)
}

// Close unsubscribes. Sessions already handed out keep working.
func (m *Manager) Close() {
	m.mu.Lock()
	unsubscribe := m.unsubscribe
	m.unsubscribe = nil
	m.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

// Acquire returns the device's session signed in as userID, creating and
// signing it in when needed. It covers tokens issued before a restart.
//
// A freshly created session is kept only if the token still resolves to
// userID afterwards, so a sign-out that raced the caller's own token check
// cannot leave a session behind.
func (m *Manager) Acquire(ctx context.Context, deviceID, userID string) (*Session, error) {
	s, created := m.getOrCreate(deviceID)
	if created {
		acct, err := m.source.CurrentUser(ctx, deviceID)
		if err == nil && acct.ID != userID {
			err = identity.ErrInvalidToken
		}
		if err != nil {
			m.Release(ctx, deviceID)
			return nil, err
		}
	}
	if s.currentUser() == userID {
		return s, nil
	}
	if err := s.HandleAuthState(ctx, userID); err != nil {
		return s, err
	}
	return s, nil
}

// Release signs the device's session out and drops it. Unknown devices are
// ignored.
func (m *Manager) Release(ctx context.Context, deviceID string) {
	m.mu.Lock()
	e, ok := m.sessions[deviceID]
	delete(m.sessions, deviceID)
	m.mu.Unlock()
	if !ok {
		return
	}
	if err := e.session.HandleAuthState(ctx, ""); err != nil {
		m.logger.Printf("session manager: sign_out device=%s error=%v", shortID(deviceID), err)
	}
	if m.OnRelease != nil {
		m.OnRelease(deviceID)
	}
}

// Prune releases every session that has not been acquired for idle. A device
// that comes back later gets a fresh session on its next request.
func (m *Manager) Prune(ctx context.Context, idle time.Duration) int {
	cutoff := m.now().Add(-idle)
	m.mu.Lock()
	var stale []string
	for id, e := range m.sessions {
		if e.seen.Before(cutoff) {
			stale = append(stale, id)
		}
	}
	m.mu.Unlock()

	for _, id := range stale {
		m.Release(ctx, id)
	}
	if len(stale) > 0 {
		m.logger.Printf("session manager: prune released=%d", len(stale))
	}
	return len(stale)
}

// PruneEvery runs Prune on a ticker until ctx is done.
func (m *Manager) PruneEvery(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Prune(ctx, idle)
		}
	}
}

// Get returns the device's session if one exists.
func (m *Manager) Get(deviceID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[deviceID]
	if !ok {
		return nil, false
	}
	return e.session, true
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) handle(ctx context.Context, ev identity.AuthEvent) {
	if ev.SignedIn() {
		s, _ := m.getOrCreate(ev.DeviceID)
		if err := s.HandleAuthState(ctx, ev.UserID); err != nil {
			m.logger.Printf("session manager: sign_in device=%s user_id=%s error=%v", shortID(ev.DeviceID), ev.UserID, err)
		}
		return
	}
	m.Release(ctx, ev.DeviceID)
}

func (m *Manager) getOrCreate(deviceID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	if e, ok := m.sessions[deviceID]; ok {
		e.seen = now
		return e.session, false
	}
	s := New(m.carts, m.orders, m.logger)
	m.sessions[deviceID] = &entry{session: s, seen: now}
	return s, true
}

// shortID keeps bearer tokens out of the logs.
func shortID(deviceID string) string {
	if len(deviceID) <= 6 {
		return deviceID
	}
	return deviceID[:6] + "…"
}
