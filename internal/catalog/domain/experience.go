package domain

import (
	"github.com/shopspring/decimal"

	"github.com/dmehra2102/bookit/pkg/apperr"
)

var ErrExperienceNotFound = apperr.New(apperr.ExperienceNotFound, "experience not found")

// Experience is catalog data. The booking core only reads it.
type Experience struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Location    string          `json:"location"`
	Price       decimal.Decimal `json:"price"`
	Rating      float64         `json:"rating"`
	Reviews     int             `json:"reviews"`
	ImageURL    string          `json:"image"`
	Description string          `json:"description"`
	Duration    string          `json:"duration"`
	GroupSize   string          `json:"group_size"`
}
