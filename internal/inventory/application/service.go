package application

import (
	"context"
	"time"

	"github.com/dmehra2102/bookit/internal/inventory/domain"
)

type Service struct {
	repo SlotRepository
}

func NewService(repo SlotRepository) *Service {
	return &Service{repo: repo}
}

// ListSlots returns the slots of an experience ordered by date then time,
// optionally limited to one day. No match is an empty slice, not an error.
func (s *Service) ListSlots(ctx context.Context, experienceID int64, date *time.Time) ([]domain.Slot, error) {
	slots, err := s.repo.ListSlots(ctx, experienceID, date)
	if err != nil {
		return nil, err
	}
	if slots == nil {
		slots = []domain.Slot{}
	}
	return slots, nil
}
