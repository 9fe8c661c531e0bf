package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmehra2102/bookit/internal/promo/domain"
)

func TestService_Validate(t *testing.T) {
	svc := NewService()
	ctx := context.Background()

	d, err := svc.Validate(ctx, " save10 ")
	require.NoError(t, err)
	assert.Equal(t, "SAVE10", d.Code)
	assert.Equal(t, domain.Percentage, d.Kind)
	assert.Equal(t, "10", d.Amount.String())

	d, err = svc.Validate(ctx, "FLAT100")
	require.NoError(t, err)
	assert.Equal(t, domain.Fixed, d.Kind)

	_, err = svc.Validate(ctx, "FREE")
	assert.ErrorIs(t, err, domain.ErrPromoNotFound)
	_, err = svc.Validate(ctx, "")
	assert.ErrorIs(t, err, domain.ErrPromoNotFound)
}
