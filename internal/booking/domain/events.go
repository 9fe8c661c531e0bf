package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	AggregateType         = "booking"
	EventBookingConfirmed = "BookingConfirmed"
)

type BookingConfirmed struct {
	BookingID    string          `json:"booking_id"`
	ExperienceID int64           `json:"experience_id"`
	SlotID       int64           `json:"slot_id"`
	Email        string          `json:"email"`
	Guests       int             `json:"guests"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	PromoCode    *string         `json:"promo_code,omitempty"`
	ConfirmedAt  time.Time       `json:"confirmed_at"`
}

func NewBookingConfirmed(b Booking) BookingConfirmed {
	return BookingConfirmed{
		BookingID:    b.ID,
		ExperienceID: b.ExperienceID,
		SlotID:       b.SlotID,
		Email:        b.Email,
		Guests:       b.Guests,
		TotalPrice:   b.TotalPrice,
		PromoCode:    b.PromoCode,
		ConfirmedAt:  b.CreatedAt,
	}
}
