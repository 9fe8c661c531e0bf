package application

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dmehra2102/bookit/internal/booking/domain"
	inventory "github.com/dmehra2102/bookit/internal/inventory/domain"
	promo "github.com/dmehra2102/bookit/internal/promo/domain"
	"github.com/dmehra2102/bookit/pkg/apperr"
	"github.com/dmehra2102/bookit/pkg/outbox"
)

const outcomeConfirmed = "confirmed"

type Service struct {
	log       *slog.Logger
	deps      Deps
	validate  *validator.Validate
	tracer    trace.Tracer
	maxGuests int
	now       func() time.Time
}

// NewService builds the reservation engine. maxGuests caps a single booking;
// zero disables the cap.
func NewService(log *slog.Logger, deps Deps, maxGuests int) *Service {
	return &Service{
		log:       log,
		deps:      deps,
		validate:  newValidator(),
		tracer:    otel.Tracer("booking-service"),
		maxGuests: maxGuests,
		now:       time.Now,
	}
}

// Reserve takes req.Guests places from the slot and records the booking.
// Either both happen or neither does: the slot row stays locked from the
// capacity check until commit, so concurrent calls for one slot cannot
// sell more places than it has.
func (s *Service) Reserve(ctx context.Context, req ReserveRequest) (_ domain.BookingDetails, err error) {
	start := s.now()
	ctx, span := s.tracer.Start(ctx, "Reserve", trace.WithAttributes(
		attribute.Int64("experience.id", req.ExperienceID),
		attribute.Int64("slot.id", req.SlotID),
		attribute.Int("booking.guests", req.Guests),
	))
	defer func() {
		outcome := outcomeConfirmed
		if err != nil {
			outcome = string(apperr.KindOf(err))
			span.SetStatus(codes.Error, outcome)
		}
		if s.deps.Observer != nil {
			s.deps.Observer.ObserveReservation(outcome, time.Since(start))
		}
		span.End()
	}()

	req = req.normalize()
	if err := validateRequest(s.validate, req, s.maxGuests); err != nil {
		return domain.BookingDetails{}, err
	}

	exp, err := s.deps.Experiences.GetExperience(ctx, req.ExperienceID)
	if err != nil {
		return domain.BookingDetails{}, classify(err)
	}

	var discount *promo.Discount
	if req.PromoCode != nil {
		d, err := s.deps.Promos.Validate(ctx, *req.PromoCode)
		if err != nil {
			return domain.BookingDetails{}, classify(err)
		}
		discount = &d
		req.PromoCode = &d.Code
	}

	total := promo.ComputeTotal(exp.Price, req.Guests, discount)
	if !total.Equal(*req.TotalPrice) {
		s.log.Warn("client total differs from computed total",
			"experience_id", req.ExperienceID, "client_total", req.TotalPrice.String(), "total", total.String())
	}

	b := domain.Booking{
		ID:           uuid.NewString(),
		ExperienceID: req.ExperienceID,
		SlotID:       req.SlotID,
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Guests:       req.Guests,
		TotalPrice:   total,
		PromoCode:    req.PromoCode,
		Status:       domain.StatusConfirmed,
		CreatedAt:    s.now().UTC(),
	}

	slot, err := s.reserve(ctx, b)
	if err != nil {
		s.log.Info("reservation rejected", "slot_id", b.SlotID, "guests", b.Guests, "kind", apperr.KindOf(err), "err", err)
		return domain.BookingDetails{}, err
	}
	s.log.Info("reservation confirmed", "booking_id", b.ID, "slot_id", b.SlotID, "guests", b.Guests, "available", slot.Available-b.Guests)

	return domain.BookingDetails{
		Booking:            b,
		ExperienceTitle:    exp.Title,
		ExperienceLocation: exp.Location,
		SlotDate:           slot.Date,
		SlotTime:           slot.Time,
	}, nil
}

// reserve runs the locked section. It returns the slot as read under the
// lock, before the decrement.
func (s *Service) reserve(ctx context.Context, b domain.Booking) (inventory.Slot, error) {
	payload, err := json.Marshal(domain.NewBookingConfirmed(b))
	if err != nil {
		return inventory.Slot{}, classify(err)
	}

	tx, err := s.deps.Tx.Begin(ctx)
	if err != nil {
		return inventory.Slot{}, classify(err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	slot, err := s.deps.Slots.GetSlotForUpdate(ctx, tx, b.SlotID)
	if err != nil {
		return inventory.Slot{}, classify(err)
	}
	if slot.ExperienceID != b.ExperienceID {
		return inventory.Slot{}, inventory.ErrSlotNotFound
	}
	if !slot.CanFit(b.Guests) {
		return inventory.Slot{}, apperr.New(apperr.InsufficientCapacity,
			fmt.Sprintf("only %d places left in this slot", slot.Available))
	}

	if err := s.deps.Bookings.Insert(ctx, tx, b); err != nil {
		return inventory.Slot{}, classify(err)
	}
	if err := s.deps.Slots.DecrementAvailability(ctx, tx, b.SlotID, b.Guests); err != nil {
		return inventory.Slot{}, classify(err)
	}
	err = s.deps.Outbox.Append(ctx, tx, outbox.Event{
		AggregateType: domain.AggregateType,
		AggregateID:   b.ID,
		Type:          domain.EventBookingConfirmed,
		Payload:       payload,
	})
	if err != nil {
		return inventory.Slot{}, classify(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return inventory.Slot{}, classify(err)
	}
	return slot, nil
}

// GetBooking returns a confirmed booking. Ids that are not UUIDs cannot
// exist and are reported as not found.
func (s *Service) GetBooking(ctx context.Context, id string) (domain.BookingDetails, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.BookingDetails{}, domain.ErrBookingNotFound
	}
	return s.deps.Bookings.Get(ctx, id)
}

// classify keeps domain errors and turns everything else into a retryable
// ReservationFailed.
func classify(err error) error {
	if apperr.KindOf(err) != apperr.Internal {
		return err
	}
	return apperr.Wrap(apperr.ReservationFailed, "reservation could not be completed, please retry", err)
}
