package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dmehra2102/bookit/internal/booking/domain"
	"github.com/dmehra2102/bookit/pkg/database"
)

type Repository struct {
	log *slog.Logger
	db  database.DB
}

func NewRepository(log *slog.Logger, db database.DB) *Repository {
	return &Repository{log: log, db: db}
}

func (r *Repository) Insert(ctx context.Context, tx pgx.Tx, b domain.Booking) error {
	_, err := tx.Exec(ctx, `INSERT INTO bookings (id, experience_id, slot_id, name, email, phone, guests, total_price, promo_code, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		b.ID, b.ExperienceID, b.SlotID, b.Name, b.Email, b.Phone, b.Guests, b.TotalPrice, b.PromoCode, b.Status, b.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert booking %s: %w", b.ID, err)
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, id string) (domain.BookingDetails, error) {
	var d domain.BookingDetails
	err := r.db.QueryRow(ctx, `SELECT b.id, b.experience_id, b.slot_id, b.name, b.email, b.phone, b.guests, b.total_price, b.promo_code, b.status, b.created_at, e.title, e.location, s.date, s.time FROM bookings b JOIN experiences e ON e.id = b.experience_id JOIN slots s ON s.id = b.slot_id WHERE b.id = $1`, id).
		Scan(&d.ID, &d.ExperienceID, &d.SlotID, &d.Name, &d.Email, &d.Phone, &d.Guests, &d.TotalPrice, &d.PromoCode, &d.Status,
			&d.CreatedAt, &d.ExperienceTitle, &d.ExperienceLocation, &d.SlotDate, &d.SlotTime)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.BookingDetails{}, domain.ErrBookingNotFound
	}
	if err != nil {
		return domain.BookingDetails{}, fmt.Errorf("get booking %s: %w", id, err)
	}
	return d, nil
}

// Transactor begins reservation transactions. A non-zero lockTimeout bounds
// how long the slot row lock is waited for.
type Transactor struct {
	db          database.DB
	lockTimeout time.Duration
}

func NewTransactor(db database.DB, lockTimeout time.Duration) *Transactor {
	return &Transactor{db: db, lockTimeout: lockTimeout}
}

func (t *Transactor) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := t.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	if t.lockTimeout > 0 {
		ms := fmt.Sprintf("%dms", t.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, `SELECT set_config('lock_timeout', $1, true)`, ms); err != nil {
			_ = tx.Rollback(ctx)
			return nil, fmt.Errorf("set lock timeout: %w", err)
		}
	}
	return tx, nil
}
