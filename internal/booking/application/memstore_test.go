package application

import (
	"context"
	"errors"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/dmehra2102/bookit/internal/booking/domain"
	inventory "github.com/dmehra2102/bookit/internal/inventory/domain"
	"github.com/dmehra2102/bookit/pkg/outbox"
)

var errInjected = errors.New("injected store failure")

// memStore is a transactional store with one mutex per slot row. A tx holds
// the mutex of every slot it locked until Commit or Rollback, and writes are
// buffered in the tx until Commit.
type memStore struct {
	mu       sync.Mutex
	slots    map[int64]*memSlot
	bookings map[string]domain.Booking
	events   []outbox.Event
	failOn   string
}

type memSlot struct {
	lock sync.Mutex
	slot inventory.Slot
}

func newMemStore(slots ...inventory.Slot) *memStore {
	s := &memStore{slots: map[int64]*memSlot{}, bookings: map[string]domain.Booking{}}
	for _, sl := range slots {
		s.slots[sl.ID] = &memSlot{slot: sl}
	}
	return s
}

func (s *memStore) fail(op string) error {
	if s.failOn == op {
		return errInjected
	}
	return nil
}

func (s *memStore) slot(id int64) inventory.Slot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slots[id].slot
}

func (s *memStore) bookingList() []domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		out = append(out, b)
	}
	return out
}

func (s *memStore) Begin(context.Context) (pgx.Tx, error) {
	if err := s.fail("begin"); err != nil {
		return nil, err
	}
	return &memTx{store: s, decrements: map[int64]int{}}, nil
}

type memTx struct {
	pgx.Tx

	store      *memStore
	held       []*memSlot
	decrements map[int64]int
	bookings   []domain.Booking
	events     []outbox.Event
	closed     bool
}

func (t *memTx) release() {
	for _, m := range t.held {
		m.lock.Unlock()
	}
	t.held = nil
	t.closed = true
}

func (t *memTx) Commit(context.Context) error {
	if t.closed {
		return pgx.ErrTxClosed
	}
	defer t.release()
	if err := t.store.fail("commit"); err != nil {
		return err
	}
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for id, n := range t.decrements {
		t.store.slots[id].slot.Available -= n
	}
	for _, b := range t.bookings {
		t.store.bookings[b.ID] = b
	}
	t.store.events = append(t.store.events, t.events...)
	return nil
}

func (t *memTx) Rollback(context.Context) error {
	if t.closed {
		return pgx.ErrTxClosed
	}
	t.release()
	return nil
}

func (s *memStore) GetSlotForUpdate(_ context.Context, tx pgx.Tx, slotID int64) (inventory.Slot, error) {
	t := tx.(*memTx)
	s.mu.Lock()
	m, ok := s.slots[slotID]
	s.mu.Unlock()
	if !ok {
		return inventory.Slot{}, inventory.ErrSlotNotFound
	}
	m.lock.Lock()
	t.held = append(t.held, m)
	return s.slot(slotID), nil
}

func (s *memStore) DecrementAvailability(_ context.Context, tx pgx.Tx, slotID int64, amount int) error {
	if err := s.fail("decrement"); err != nil {
		return err
	}
	t := tx.(*memTx)
	if s.slot(slotID).Available-t.decrements[slotID] < amount {
		return inventory.ErrInsufficientCapacity
	}
	t.decrements[slotID] += amount
	return nil
}

func (s *memStore) Insert(_ context.Context, tx pgx.Tx, b domain.Booking) error {
	if err := s.fail("insert"); err != nil {
		return err
	}
	t := tx.(*memTx)
	t.bookings = append(t.bookings, b)
	return nil
}

func (s *memStore) Get(_ context.Context, id string) (domain.BookingDetails, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return domain.BookingDetails{}, domain.ErrBookingNotFound
	}
	sl := s.slots[b.SlotID].slot
	return domain.BookingDetails{Booking: b, SlotDate: sl.Date, SlotTime: sl.Time}, nil
}

func (s *memStore) Append(_ context.Context, tx pgx.Tx, ev outbox.Event) error {
	if err := s.fail("append"); err != nil {
		return err
	}
	t := tx.(*memTx)
	t.events = append(t.events, ev)
	return nil
}
