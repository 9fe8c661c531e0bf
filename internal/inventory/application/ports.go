package application

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dmehra2102/bookit/internal/inventory/domain"
)

// SlotRepository reads slots outside of any transaction.
type SlotRepository interface {
	ListSlots(ctx context.Context, experienceID int64, date *time.Time) ([]domain.Slot, error)
}

// SlotLocker mutates slot capacity inside a caller-owned transaction. The
// row lock taken by GetSlotForUpdate lasts until tx commits or rolls back,
// so callers holding it are serialized per slot.
type SlotLocker interface {
	GetSlotForUpdate(ctx context.Context, tx pgx.Tx, slotID int64) (domain.Slot, error)
	DecrementAvailability(ctx context.Context, tx pgx.Tx, slotID int64, amount int) error
}
