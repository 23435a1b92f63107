// Package session keeps the per-device view of a signed-in user's cart and
// orders in sync with the document store.
package session

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"storefront/internal/domain"
)

// CartStore is the per-user cart collection.
type CartStore interface {
	Add(ctx context.Context, userID string, line domain.CartLine) (string, error)
	ListByUser(ctx context.Context, userID string) ([]domain.CartLine, error)
}

// OrderStore is the per-user order collection.
type OrderStore interface {
	Add(ctx context.Context, userID string, o domain.Order) (string, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
}

// Snapshot is a copy of the session state. Cart and Orders are exactly the
// last applied fetch results.
type Snapshot struct {
	UserID      string
	Cart        []domain.CartLine
	Orders      []domain.Order
	CartVersion uint64
}

// SignedIn reports whether the snapshot belongs to a user.
func (s Snapshot) SignedIn() bool { return s.UserID != "" }

// Session is the state machine for one device. It starts signed out.
type Session struct {
	carts  CartStore
	orders OrderStore
	logger *log.Logger
	now    func() time.Time

	transition sync.Mutex

	mu          sync.Mutex
	userID      string
	cart        []domain.CartLine
	orderList   []domain.Order
	cartGen     uint64
	orderGen    uint64
	cartVersion uint64
}

func New(carts CartStore, orders OrderStore, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Session{carts: carts, orders: orders, logger: logger, now: time.Now}
}

// HandleAuthState moves the session to SignedIn for a non-empty userID,
// fetching both collections, or to SignedOut, clearing everything.
// Transitions never overlap.
func (s *Session) HandleAuthState(ctx context.Context, userID string) error {
	s.transition.Lock()
	defer s.transition.Unlock()

	s.mu.Lock()
	if userID != s.userID || userID == "" {
		s.cart = nil
		s.orderList = nil
		s.cartGen++
		s.orderGen++
		s.cartVersion++
	}
	s.userID = userID
	s.mu.Unlock()

	if userID == "" {
		return nil
	}
	return s.fetchAll(ctx)
}

// AddToCart writes one cart document and refetches the cart. Signed out it
// does nothing. Identical lines are not merged.
func (s *Session) AddToCart(ctx context.Context, line domain.CartLine) error {
	userID := s.currentUser()
	if userID == "" {
		return nil
	}
	if err := line.Validate(); err != nil {
		return err
	}
	line.ID = ""
	if _, err := s.carts.Add(ctx, userID, line); err != nil {
		s.logger.Printf("session: add_to_cart user_id=%s error=%v", userID, err)
		return fmt.Errorf("add to cart: %w", err)
	}
	return s.fetchCart(ctx)
}

// PlaceOrder writes one order document and refetches the orders. The cart is
// left as it is. A zero Date is stamped with the current time.
func (s *Session) PlaceOrder(ctx context.Context, o domain.Order) error {
	userID := s.currentUser()
	if userID == "" {
		return nil
	}
	if err := o.Validate(); err != nil {
		return err
	}
	if o.Date.IsZero() {
		o.Date = s.now()
	}
	o.ID = ""
	if _, err := s.orders.Add(ctx, userID, o); err != nil {
		s.logger.Printf("session: place_order user_id=%s error=%v", userID, err)
		return fmt.Errorf("place order: %w", err)
	}
	return s.fetchOrders(ctx)
}

// RefreshData replaces both collections with fresh fetches.
func (s *Session) RefreshData(ctx context.Context) error {
	if s.currentUser() == "" {
		return nil
	}
	return s.fetchAll(ctx)
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		UserID:      s.userID,
		Cart:        append([]domain.CartLine(nil), s.cart...),
		Orders:      append([]domain.Order(nil), s.orderList...),
		CartVersion: s.cartVersion,
	}
}

func (s *Session) currentUser() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

func (s *Session) fetchAll(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.fetchCart(ctx) })
	g.Go(func() error { return s.fetchOrders(ctx) })
	return g.Wait()
}

// fetchCart reads the whole cart collection and applies it only if no newer
// cart fetch or sign-out started in the meantime.
func (s *Session) fetchCart(ctx context.Context) error {
	s.mu.Lock()
	userID := s.userID
	s.cartGen++
	gen := s.cartGen
	s.mu.Unlock()
	if userID == "" {
		return nil
	}

	lines, err := s.carts.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Printf("session: fetch_cart user_id=%s error=%v", userID, err)
		return fmt.Errorf("fetch cart: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.cartGen {
		s.logger.Printf("session: fetch_cart user_id=%s stale generation=%d", userID, gen)
		return nil
	}
	s.cart = lines
	s.cartVersion++
	return nil
}

func (s *Session) fetchOrders(ctx context.Context) error {
	s.mu.Lock()
	userID := s.userID
	s.orderGen++
	gen := s.orderGen
	s.mu.Unlock()
	if userID == "" {
		return nil
	}

	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Printf("session: fetch_orders user_id=%s error=%v", userID, err)
		return fmt.Errorf("fetch orders: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.orderGen {
		s.logger.Printf("session: fetch_orders user_id=%s stale generation=%d", userID, gen)
		return nil
	}
	s.orderList = orders
	return nil
}
