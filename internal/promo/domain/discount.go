package domain

import (
	"github.com/shopspring/decimal"

	"github.com/dmehra2102/bookit/pkg/apperr"
)

var ErrPromoNotFound = apperr.New(apperr.PromoNotFound, "invalid promo code")

type Kind string

const (
	Percentage Kind = "percentage"
	Fixed      Kind = "fixed"
)

// Discount is what a promo code resolves to. Amount is a percent for
// Percentage and a currency amount for Fixed.
type Discount struct {
	Code   string          `json:"code"`
	Amount decimal.Decimal `json:"discount"`
	Kind   Kind            `json:"type"`
}

var hundred = decimal.NewFromInt(100)

// ComputeTotal prices guests places at unitPrice, applies d if present and
// never goes below zero. The result is rounded to cents.
func ComputeTotal(unitPrice decimal.Decimal, guests int, d *Discount) decimal.Decimal {
	total := unitPrice.Mul(decimal.NewFromInt(int64(guests)))
	if d != nil {
		switch d.Kind {
		case Percentage:
			total = total.Mul(hundred.Sub(d.Amount)).Div(hundred)
		case Fixed:
			total = total.Sub(d.Amount)
		}
	}
	if total.IsNegative() {
		return decimal.Zero
	}
	return total.Round(2)
}
