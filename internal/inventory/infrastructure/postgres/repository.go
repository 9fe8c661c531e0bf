package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmehra2102/bookit/internal/inventory/domain"
	"github.com/dmehra2102/bookit/pkg/apperr"
	"github.com/dmehra2102/bookit/pkg/database"
)

// lockNotAvailable is raised when lock_timeout expires while waiting.
const lockNotAvailable = "55P03"

var errSlotBusy = apperr.New(apperr.ReservationFailed, "slot is busy, please retry")

type Repository struct {
	log *slog.Logger
	db  database.DB
}

func NewRepository(log *slog.Logger, db database.DB) *Repository {
	return &Repository{log: log, db: db}
}

func (r *Repository) ListSlots(ctx context.Context, experienceID int64, date *time.Time) ([]domain.Slot, error) {
	query := `SELECT id, experience_id, date, time, available, total FROM slots WHERE experience_id = $1`
	args := []any{experienceID}
	if date != nil {
		query += ` AND date = $2`
		args = append(args, *date)
	}
	query += ` ORDER BY date, start_time, time`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	defer rows.Close()

	var slots []domain.Slot
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan slot: %w", err)
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

func (r *Repository) GetSlotForUpdate(ctx context.Context, tx pgx.Tx, slotID int64) (domain.Slot, error) {
	s, err := scanSlot(tx.QueryRow(ctx,
		`SELECT id, experience_id, date, time, available, total FROM slots WHERE id = $1 FOR UPDATE`, slotID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Slot{}, domain.ErrSlotNotFound
	}
	if err != nil {
		return domain.Slot{}, lockError(fmt.Errorf("lock slot %d: %w", slotID, err))
	}
	return s, nil
}

// DecrementAvailability takes amount places from the slot. The guard in the
// WHERE clause keeps available non-negative even if a caller skipped the
// locked check.
func (r *Repository) DecrementAvailability(ctx context.Context, tx pgx.Tx, slotID int64, amount int) error {
	ct, err := tx.Exec(ctx,
		`UPDATE slots SET available = available - $1 WHERE id = $2 AND available >= $1`, amount, slotID)
	if err != nil {
		return lockError(fmt.Errorf("decrement slot %d: %w", slotID, err))
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrInsufficientCapacity
	}
	return nil
}

func scanSlot(row pgx.Row) (domain.Slot, error) {
	var s domain.Slot
	err := row.Scan(&s.ID, &s.ExperienceID, &s.Date, &s.Time, &s.Available, &s.Total)
	return s, err
}

func lockError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == lockNotAvailable {
		return apperr.Wrap(errSlotBusy.Kind, errSlotBusy.Message, err)
	}
	return err
}
