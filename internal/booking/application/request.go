package application

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/dmehra2102/bookit/pkg/apperr"
)

// ReserveRequest is a customer's submission. TotalPrice is what the client
// showed the customer; the stored price is always recomputed.
type ReserveRequest struct {
	ExperienceID int64            `json:"experience_id" validate:"gt=0"`
	SlotID       int64            `json:"slot_id" validate:"gt=0"`
	Name         string           `json:"name" validate:"required,max=200"`
	Email        string           `json:"email" validate:"required,email,max=254"`
	Phone        *string          `json:"phone,omitempty" validate:"omitempty,max=32"`
	Guests       int              `json:"guests" validate:"gte=1"`
	TotalPrice   *decimal.Decimal `json:"total_price" validate:"required"`
	PromoCode    *string          `json:"promo_code,omitempty" validate:"omitempty,max=64"`
}

func (r ReserveRequest) normalize() ReserveRequest {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = trimmedOrNil(r.Phone)
	r.PromoCode = trimmedOrNil(r.PromoCode)
	return r
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validateRequest(v *validator.Validate, r ReserveRequest, maxGuests int) error {
	if err := v.Struct(r); err != nil {
		return apperr.Wrap(apperr.InvalidRequest, describe(err), err)
	}
	if r.TotalPrice.IsNegative() {
		return apperr.New(apperr.InvalidRequest, "total_price must not be negative")
	}
	if maxGuests > 0 && r.Guests > maxGuests {
		return apperr.New(apperr.InvalidRequest, fmt.Sprintf("guests must be at most %d", maxGuests))
	}
	return nil
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "invalid request"
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "gt", "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), minimum(fe))
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	default:
		return fe.Field() + " is invalid"
	}
}

func minimum(fe validator.FieldError) string {
	if fe.Tag() == "gt" {
		return "1"
	}
	return fe.Param()
}
