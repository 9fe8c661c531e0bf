package domain

import (
	"time"

	"github.com/dmehra2102/bookit/pkg/apperr"
)

var (
	ErrSlotNotFound         = apperr.New(apperr.SlotNotFound, "slot not found")
	ErrInsufficientCapacity = apperr.New(apperr.InsufficientCapacity, "not enough places left in this slot")
)

// DateLayout is the wire and query format of Slot.Date.
const DateLayout = "2006-01-02"

// Slot is one bookable date/time of an experience. Total is fixed at
// creation; Available only ever goes down, and 0 <= Available <= Total.
type Slot struct {
	ID           int64
	ExperienceID int64
	Date         time.Time
	Time         string
	Available    int
	Total        int
}

// Booked is how many places have been sold.
func (s Slot) Booked() int {
	return s.Total - s.Available
}

// CanFit reports whether guests places can still be taken.
func (s Slot) CanFit(guests int) bool {
	return guests > 0 && s.Available >= guests
}
