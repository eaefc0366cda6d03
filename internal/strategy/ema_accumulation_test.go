package strategy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"accumbot/internal/domain"
	"accumbot/internal/ports"
)

// mockLogger implements ports.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

func candlesFromCloses(closes []float64) []domain.Candle {
	candles := make([]domain.Candle, len(closes))
	for i, c := range closes {
		candles[i] = domain.Candle{
			Timestamp: int64(i+1) * 60_000,
			Open:      c,
			High:      c,
			Low:       c,
			Close:     c,
			Volume:    100,
		}
	}
	return candles
}

func TestNew_Validation(t *testing.T) {
	logger := &mockLogger{}

	tests := []struct {
		name        string
		cfg         Config
		logger      ports.Logger
		expectError bool
	}{
		{
			name:        "valid config",
			cfg:         Config{ShortPeriod: 20, LongPeriod: 60, SupportThreshold: 1.02},
			logger:      logger,
			expectError: false,
		},
		{
			name:        "nil logger",
			cfg:         Config{ShortPeriod: 20, LongPeriod: 60, SupportThreshold: 1.02},
			logger:      nil,
			expectError: true,
		},
		{
			name:        "zero short period",
			cfg:         Config{ShortPeriod: 0, LongPeriod: 60, SupportThreshold: 1.02},
			logger:      logger,
			expectError: true,
		},
		{
			name:        "short period not below long",
			cfg:         Config{ShortPeriod: 60, LongPeriod: 60, SupportThreshold: 1.02},
			logger:      logger,
			expectError: true,
		},
		{
			name:        "non-positive threshold",
			cfg:         Config{ShortPeriod: 20, LongPeriod: 60, SupportThreshold: 0},
			logger:      logger,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.cfg, tt.logger)
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, s)
			} else {
				assert.NoError(t, err)
				require.NotNil(t, s)
				assert.Equal(t, "EMA Accumulation", s.Name())
				assert.Equal(t, 60, s.RequiredDataPoints())
			}
		})
	}
}

func TestEvaluate_DataErrors(t *testing.T) {
	s, err := New(Config{ShortPeriod: 3, LongPeriod: 5, SupportThreshold: 1.02}, &mockLogger{})
	require.NoError(t, err)

	_, err = s.Evaluate(context.Background(), nil)
	assert.ErrorIs(t, err, ports.ErrEmptyData)

	_, err = s.Evaluate(context.Background(), candlesFromCloses([]float64{1, 1, 1, 1}))
	assert.ErrorIs(t, err, ports.ErrInsufficientData)

	// Exactly the required number of candles is enough.
	_, err = s.Evaluate(context.Background(), candlesFromCloses([]float64{1, 1, 1, 1, 1}))
	assert.NoError(t, err)
}

func TestEvaluate_BuySignal(t *testing.T) {
	s, err := New(Config{ShortPeriod: 3, LongPeriod: 5, SupportThreshold: 1.02}, &mockLogger{})
	require.NoError(t, err)

	// Flat prices: both EMAs equal the price, close sits exactly on the
	// long EMA, so the signal fires.
	closes := []float64{1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0}
	signal, err := s.Evaluate(context.Background(), candlesFromCloses(closes))
	require.NoError(t, err)

	assert.True(t, signal.ShouldBuy)
	assert.True(t, signal.NearSupport)
	assert.True(t, signal.PositiveMomentum)
	assert.InDelta(t, 1.0, signal.ReferencePrice, 1e-9)
	assert.InDelta(t, 1.0, signal.ShortAverage, 1e-9)
	assert.InDelta(t, 1.0, signal.LongAverage, 1e-9)
}

func TestEvaluate_NoBuyOnNegativeMomentum(t *testing.T) {
	s, err := New(Config{ShortPeriod: 3, LongPeriod: 5, SupportThreshold: 1.02}, &mockLogger{})
	require.NoError(t, err)

	// Steadily declining prices: the short EMA tracks the drop faster
	// than the long EMA, so momentum is negative even near support.
	closes := []float64{2.0, 1.9, 1.8, 1.7, 1.6, 1.5, 1.4, 1.3, 1.2, 1.1}
	signal, err := s.Evaluate(context.Background(), candlesFromCloses(closes))
	require.NoError(t, err)

	assert.False(t, signal.ShouldBuy)
	assert.True(t, signal.NearSupport)
	assert.False(t, signal.PositiveMomentum)
	assert.Less(t, signal.ShortAverage, signal.LongAverage)
}

func TestEvaluate_NoBuyWhenExtended(t *testing.T) {
	s, err := New(Config{ShortPeriod: 3, LongPeriod: 5, SupportThreshold: 1.02}, &mockLogger{})
	require.NoError(t, err)

	// A sharp rally on the last candle leaves momentum positive but the
	// close well above the long EMA support band.
	closes := []float64{1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 2.0}
	signal, err := s.Evaluate(context.Background(), candlesFromCloses(closes))
	require.NoError(t, err)

	assert.False(t, signal.ShouldBuy)
	assert.False(t, signal.NearSupport)
	assert.True(t, signal.PositiveMomentum)
	assert.Greater(t, signal.ReferencePrice, signal.LongAverage*1.02)
}

func TestEvaluate_SupportThresholdBoundary(t *testing.T) {
	s, err := New(Config{ShortPeriod: 3, LongPeriod: 5, SupportThreshold: 1.5}, &mockLogger{})
	require.NoError(t, err)

	closes := []float64{1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.0, 1.2}
	signal, err := s.Evaluate(context.Background(), candlesFromCloses(closes))
	require.NoError(t, err)

	// Close 1.2 against a long EMA still close to 1.0: inside a 1.5 band.
	assert.True(t, signal.NearSupport)
	assert.True(t, signal.ShouldBuy)
}
