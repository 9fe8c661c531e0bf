package application

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dmehra2102/bookit/internal/booking/domain"
	catalog "github.com/dmehra2102/bookit/internal/catalog/domain"
	inventory "github.com/dmehra2102/bookit/internal/inventory/application"
	promo "github.com/dmehra2102/bookit/internal/promo/domain"
	"github.com/dmehra2102/bookit/pkg/outbox"
)

// Transactor opens the transaction a reservation runs in.
type Transactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type BookingRepository interface {
	Insert(ctx context.Context, tx pgx.Tx, b domain.Booking) error
	Get(ctx context.Context, id string) (domain.BookingDetails, error)
}

type OutboxAppender interface {
	Append(ctx context.Context, tx pgx.Tx, ev outbox.Event) error
}

type ExperienceReader interface {
	GetExperience(ctx context.Context, id int64) (catalog.Experience, error)
}

type PromoValidator interface {
	Validate(ctx context.Context, code string) (promo.Discount, error)
}

type Observer interface {
	ObserveReservation(outcome string, d time.Duration)
}

type Deps struct {
	Tx          Transactor
	Slots       inventory.SlotLocker
	Bookings    BookingRepository
	Outbox      OutboxAppender
	Experiences ExperienceReader
	Promos      PromoValidator
	Observer    Observer
}
