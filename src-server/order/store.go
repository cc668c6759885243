package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNoPendingOrder = errors.New("no pending order")
	ErrWrongStep      = errors.New("pending order is at a different step")
	ErrStoreFull      = errors.New("too many pending orders")
)

// Store keeps at most one pending order per user ID. discordgo runs every
// handler in its own goroutine, so all access goes through the mutex.
type Store struct {
	mu        sync.Mutex
	orders    map[string]*Order
	maxOrders int
	now       func() time.Time
}

// NewStore creates an empty store. maxOrders <= 0 means unlimited.
func NewStore(maxOrders int) *Store {
	return &Store{
		orders:    make(map[string]*Order),
		maxOrders: maxOrders,
		now:       time.Now,
	}
}

// Begin starts a new order for userID in AwaitingStep1, replacing any order
// the user already had pending.
func (s *Store) Begin(userID, username string) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[userID]; !ok && s.maxOrders > 0 && len(s.orders) >= s.maxOrders {
		return Order{}, ErrStoreFull
	}

	now := s.now()
	o := &Order{
		ID:        uuid.New(),
		UserID:    userID,
		Username:  username,
		Step:      AwaitingStep1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.orders[userID] = o
	return *o, nil
}

// Get returns a copy of the user's pending order.
func (s *Store) Get(userID string) (Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[userID]
	if !ok {
		return Order{}, false
	}
	return *o, true
}

// Update applies fn to the user's order if it is currently at step expect.
// fn mutates the order and returns the step to move to. The check, the
// mutation and the transition happen under one lock, so two racing submits of
// the same step cannot both succeed.
func (s *Store) Update(userID string, expect Step, fn func(o *Order) Step) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[userID]
	if !ok {
		return Order{}, ErrNoPendingOrder
	}
	if o.Step != expect {
		return *o, fmt.Errorf("%w: want %s, have %s", ErrWrongStep, expect, o.Step)
	}
	o.Step = fn(o)
	o.UpdatedAt = s.now()
	return *o, nil
}

// Delete drops the user's order. It reports whether there was one.
func (s *Store) Delete(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.orders[userID]
	delete(s.orders, userID)
	return ok
}

// Finish drops the user's order only if it is still the one with id. A user
// who ran /order_form again while the email was going out keeps the new one.
func (s *Store) Finish(userID string, id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[userID]
	if !ok || o.ID != id {
		return false
	}
	delete(s.orders, userID)
	return true
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

// Sweep removes every order that has not been touched for maxAge and returns
// the removed orders.
func (s *Store) Sweep(maxAge time.Duration) []Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	var evicted []Order
	now := s.now()
	for userID, o := range s.orders {
		if now.Sub(o.UpdatedAt) > maxAge {
			evicted = append(evicted, *o)
			delete(s.orders, userID)
		}
	}
	return evicted
}

// RunSweeper calls Sweep every interval until ctx is done. onEvict, if not
// nil, is called once per abandoned order.
func (s *Store) RunSweeper(ctx context.Context, interval, maxAge time.Duration, onEvict func(Order)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, o := range s.Sweep(maxAge) {
				slog.Info("abandoned order removed", "user_id", o.UserID, "order_id", o.ID, "step", o.Step)
				if onEvict != nil {
					onEvict(o)
				}
			}
		}
	}
}
