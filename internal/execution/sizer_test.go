package execution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"accumbot/internal/ports"
)

func TestCalculateOrderParams(t *testing.T) {
	params, err := CalculateOrderParams(1.00, 50, 0.98)
	require.NoError(t, err)

	assert.Equal(t, "0.98000000", params.PriceString())
	assert.Equal(t, "51.020408", params.QuantityString())
	assert.InDelta(t, 50.0, params.Cost().InexactFloat64(), 0.0001)
}

func TestCalculateOrderParams_LowPricedAsset(t *testing.T) {
	// A sub-dollar pair exercises the full 8 price decimals.
	params, err := CalculateOrderParams(0.45, 50, 0.98)
	require.NoError(t, err)

	assert.Equal(t, "0.44100000", params.PriceString())
	assert.InDelta(t, 113.378684, params.Quantity.InexactFloat64(), 0.0001)
	assert.InDelta(t, 50.0, params.Cost().InexactFloat64(), 0.0001)
}

func TestCalculateOrderParams_Deterministic(t *testing.T) {
	first, err := CalculateOrderParams(1.2345, 50, 0.98)
	require.NoError(t, err)
	second, err := CalculateOrderParams(1.2345, 50, 0.98)
	require.NoError(t, err)

	assert.True(t, first.LimitPrice.Equal(second.LimitPrice))
	assert.True(t, first.Quantity.Equal(second.Quantity))
	assert.Equal(t, first.PriceString(), second.PriceString())
	assert.Equal(t, first.QuantityString(), second.QuantityString())
}

func TestCalculateOrderParams_Validation(t *testing.T) {
	tests := []struct {
		name           string
		referencePrice float64
		budget         float64
		offset         float64
		wantErr        error
	}{
		{name: "zero price", referencePrice: 0, budget: 50, offset: 0.98, wantErr: ports.ErrInvalidPrice},
		{name: "negative price", referencePrice: -1, budget: 50, offset: 0.98, wantErr: ports.ErrInvalidPrice},
		{name: "zero offset", referencePrice: 1, budget: 50, offset: 0, wantErr: ports.ErrInvalidPrice},
		{name: "offset of one", referencePrice: 1, budget: 50, offset: 1.0, wantErr: ports.ErrInvalidPrice},
		{name: "offset above one", referencePrice: 1, budget: 50, offset: 1.05, wantErr: ports.ErrInvalidPrice},
		{name: "zero budget", referencePrice: 1, budget: 0, offset: 0.98, wantErr: ports.ErrInvalidRequest},
		{name: "negative budget", referencePrice: 1, budget: -50, offset: 0.98, wantErr: ports.ErrInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CalculateOrderParams(tt.referencePrice, tt.budget, tt.offset)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
