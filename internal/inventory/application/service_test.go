package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmehra2102/bookit/internal/inventory/domain"
)

type stubRepo struct{ slots []domain.Slot }

func (s stubRepo) ListSlots(context.Context, int64, *time.Time) ([]domain.Slot, error) {
	return s.slots, nil
}

func TestService_ListSlots(t *testing.T) {
	slots, err := NewService(stubRepo{}).ListSlots(context.Background(), 1, nil)
	require.NoError(t, err)
	assert.NotNil(t, slots)
	assert.Empty(t, slots)

	want := []domain.Slot{{ID: 1, ExperienceID: 1, Time: "09:00 AM", Available: 2, Total: 15}}
	slots, err = NewService(stubRepo{slots: want}).ListSlots(context.Background(), 1, nil)
	require.NoError(t, err)
	assert.Equal(t, want, slots)
}
