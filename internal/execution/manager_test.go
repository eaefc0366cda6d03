package execution

import (
	"context"
	"errors"
	"fmt"
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

// mockExchange implements ports.ExchangeClient for testing
type mockExchange struct {
	placeErr  error
	lastOrder ports.LimitOrder
	ack       *ports.OrderAck
}

func (m *mockExchange) GetCandles(ctx context.Context, symbol, timeframe string, limit int) ([]domain.Candle, error) {
	return nil, nil
}

func (m *mockExchange) GetTickerPrice(ctx context.Context, symbol string) (float64, error) {
	return 0, nil
}

func (m *mockExchange) PlaceLimitBuy(ctx context.Context, order ports.LimitOrder) (*ports.OrderAck, error) {
	m.lastOrder = order
	if m.placeErr != nil {
		return nil, m.placeErr
	}
	if m.ack != nil {
		return m.ack, nil
	}
	return &ports.OrderAck{OrderID: "12345", Status: "NEW"}, nil
}

func TestNewOrderManager_Validation(t *testing.T) {
	_, err := NewOrderManager(nil, &mockLogger{})
	assert.Error(t, err)

	_, err = NewOrderManager(&mockExchange{}, nil)
	assert.Error(t, err)

	mgr, err := NewOrderManager(&mockExchange{}, &mockLogger{})
	assert.NoError(t, err)
	assert.NotNil(t, mgr)
}

func TestPlaceLimitBuy_Success(t *testing.T) {
	exchange := &mockExchange{ack: &ports.OrderAck{OrderID: "777", Status: "NEW"}}
	mgr, err := NewOrderManager(exchange, &mockLogger{})
	require.NoError(t, err)

	params, err := CalculateOrderParams(1.00, 50, 0.98)
	require.NoError(t, err)

	outcome := mgr.PlaceLimitBuy(context.Background(), "QRLUSDT", params)

	assert.True(t, outcome.Success)
	assert.Equal(t, "777", outcome.ExchangeOrderID)
	assert.InDelta(t, 0.98, outcome.LimitPrice, 1e-9)
	assert.InDelta(t, 50.0, outcome.Cost, 0.0001)
	assert.NoError(t, outcome.Err)

	// The exchange receives fixed-precision strings, not floats.
	assert.Equal(t, "QRLUSDT", exchange.lastOrder.Symbol)
	assert.Equal(t, "0.98000000", exchange.lastOrder.Price)
	assert.Equal(t, "51.020408", exchange.lastOrder.Quantity)
}

func TestPlaceLimitBuy_FailureClassification(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind domain.OrderFailureKind
	}{
		{
			name:     "insufficient funds",
			err:      fmt.Errorf("order rejected: %w", ports.ErrInsufficientFunds),
			wantKind: domain.FailureInsufficientFunds,
		},
		{
			name:     "invalid order",
			err:      fmt.Errorf("order rejected: %w", ports.ErrInvalidOrder),
			wantKind: domain.FailureInvalidOrder,
		},
		{
			name:     "invalid request",
			err:      fmt.Errorf("bad params: %w", ports.ErrInvalidRequest),
			wantKind: domain.FailureInvalidOrder,
		},
		{
			name:     "connection failure",
			err:      fmt.Errorf("send: %w", ports.ErrConnectionFailed),
			wantKind: domain.FailureNetwork,
		},
		{
			name:     "rate limited",
			err:      fmt.Errorf("send: %w", ports.ErrRateLimited),
			wantKind: domain.FailureNetwork,
		},
		{
			name:     "unclassified error",
			err:      errors.New("something odd"),
			wantKind: domain.FailureUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr, err := NewOrderManager(&mockExchange{placeErr: tt.err}, &mockLogger{})
			require.NoError(t, err)

			params, err := CalculateOrderParams(1.00, 50, 0.98)
			require.NoError(t, err)

			outcome := mgr.PlaceLimitBuy(context.Background(), "QRLUSDT", params)

			assert.False(t, outcome.Success)
			assert.Equal(t, tt.wantKind, outcome.FailureKind)
			assert.ErrorIs(t, outcome.Err, tt.err)
			assert.Empty(t, outcome.ExchangeOrderID)
		})
	}
}
