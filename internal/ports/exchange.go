package ports

import (
	"context"

	"accumbot/internal/domain"
)

// LimitOrder carries the already-formatted parameters for a limit buy.
// Price and Quantity are exchange-ready decimal strings; the float fields
// are the same values for bookkeeping.
type LimitOrder struct {
	Symbol        string
	Price         string
	Quantity      string
	PriceValue    float64
	QuantityValue float64
}

// OrderAck is the exchange's acknowledgement of a placed order.
type OrderAck struct {
	OrderID string // Exchange-assigned order ID
	Status  string // Exchange order status, e.g. NEW
}

// ExchangeClient defines the interface for interacting with an exchange.
// Implementations must wrap SDK errors with the ports sentinel errors.
type ExchangeClient interface {
	// GetCandles retrieves up to limit historical candles for the symbol,
	// oldest first, strictly increasing timestamps.
	GetCandles(ctx context.Context, symbol, timeframe string, limit int) ([]domain.Candle, error)

	// GetTickerPrice retrieves the last traded price for the symbol.
	GetTickerPrice(ctx context.Context, symbol string) (float64, error)

	// PlaceLimitBuy submits a limit buy order and returns the exchange
	// acknowledgement. It does not retry and has no side effects on
	// application state.
	PlaceLimitBuy(ctx context.Context, order LimitOrder) (*OrderAck, error)
}
