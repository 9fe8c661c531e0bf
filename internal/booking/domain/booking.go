package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dmehra2102/bookit/pkg/apperr"
)

var ErrBookingNotFound = apperr.New(apperr.BookingNotFound, "booking not found")

type Status string

// StatusConfirmed is the only state a booking has; there is no cancellation.
const StatusConfirmed Status = "confirmed"

// Booking is written once, in the same transaction that takes its places
// from the slot, and never changes afterwards.
type Booking struct {
	ID           string
	ExperienceID int64
	SlotID       int64
	Name         string
	Email        string
	Phone        *string
	Guests       int
	TotalPrice   decimal.Decimal
	PromoCode    *string
	Status       Status
	CreatedAt    time.Time
}

// BookingDetails is a booking joined with what the customer sees on the
// confirmation page.
type BookingDetails struct {
	Booking
	ExperienceTitle    string
	ExperienceLocation string
	SlotDate           time.Time
	SlotTime           string
}
