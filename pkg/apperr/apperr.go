package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	InvalidRequest       Kind = "invalid_request"
	ExperienceNotFound   Kind = "experience_not_found"
	SlotNotFound         Kind = "slot_not_found"
	BookingNotFound      Kind = "booking_not_found"
	PromoNotFound        Kind = "promo_not_found"
	InsufficientCapacity Kind = "insufficient_capacity"
	ReservationFailed    Kind = "reservation_failed"
	RequestInProgress    Kind = "request_in_progress"
	Internal             Kind = "internal"
)

// Retryable reports whether the whole operation can be repeated as-is.
func (k Kind) Retryable() bool {
	return k == ReservationFailed
}

// Error carries a machine-readable kind next to a message that is safe to
// show to clients. The wrapped cause is for logs only.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind, so a wrapped sentinel still
// compares equal to the bare one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in the chain, or Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// MessageOf returns the client-safe message for err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}
