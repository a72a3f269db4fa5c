package order

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store keeps the order collection in memory, backed by a Repository.
// Writes go to the repository first; the cache is touched only after the
// backing call succeeds, so a failed write leaves the cached state intact.
type Store struct {
	mu     sync.Mutex
	orders []Order
	repo   Repository
	logger *zap.SugaredLogger
}

func NewStore(repo Repository, logger *zap.SugaredLogger) *Store {
	return &Store{repo: repo, logger: logger}
}

// Load replaces the cache with the backing collection. On failure the cache
// is left empty and the error is logged; callers keep going.
func (s *Store) Load(ctx context.Context) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Errorw("failed to load orders", "error", err)
		return
	}
	s.mu.Lock()
	s.orders = orders
	s.mu.Unlock()
}

// Add persists the draft as a new order and returns the assigned id. The
// items slice is deep-copied: later changes to the caller's slice must not
// reach the stored order.
func (s *Store) Add(ctx context.Context, d Draft) (string, error) {
	o := Order{
		ID:              "order-" + uuid.NewString(),
		Restaurant:      d.Restaurant,
		Location:        d.Location,
		Items:           copyItems(d.Items),
		Total:           d.Total,
		Date:            d.Date,
		Time:            d.Time,
		Status:          StatusRegistrado,
		PaymentMethod:   d.PaymentMethod,
		AdditionalNotes: d.AdditionalNotes,
	}

	if err := s.repo.Create(ctx, &o); err != nil {
		s.logger.Errorw("failed to create order", "error", err)
		return "", err
	}

	s.mu.Lock()
	s.orders = append(s.orders, o)
	s.mu.Unlock()
	return o.ID, nil
}

// Get looks an order up by id. The collection is small; a linear scan is
// fine here.
func (s *Store) Get(id string) (Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.orders {
		if o.ID == id {
			o.Items = copyItems(o.Items)
			return o, true
		}
	}
	return Order{}, false
}

// All returns a copy of every cached order in insertion order.
func (s *Store) All() []Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Order, len(s.orders))
	for i, o := range s.orders {
		o.Items = copyItems(o.Items)
		out[i] = o
	}
	return out
}

// UpdateStatus persists the new status and then, only on success, applies it
// to the cached record. There is no optimistic update.
func (s *Store) UpdateStatus(ctx context.Context, id, status string) error {
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		s.logger.Errorw("failed to update order status", "order_id", id, "error", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.orders {
		if s.orders[i].ID == id {
			s.orders[i].Status = status
			break
		}
	}
	return nil
}

// Advance moves the order to the next fulfillment stage. Advancing a
// delivered order is a no-op. The read and the write happen under the same
// lock, so concurrent advances each apply exactly one transition.
func (s *Store) Advance(ctx context.Context, id string) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cur *Order
	for i := range s.orders {
		if s.orders[i].ID == id {
			cur = &s.orders[i]
			break
		}
	}
	if cur == nil {
		return Order{}, ErrNotFound
	}

	next := NextStatus(cur.Status)
	if next != cur.Status {
		if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
			s.logger.Errorw("failed to advance order", "order_id", id, "error", err)
			return Order{}, err
		}
		cur.Status = next
	}

	o := *cur
	o.Items = copyItems(o.Items)
	return o, nil
}

// DisplayClock formats a timestamp the way orders carry it: separate
// display-formatted date and time strings.
func DisplayClock(t time.Time) (date, clock string) {
	return t.Format("2006-01-02"), t.Format("15:04:05")
}
