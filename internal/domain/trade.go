package domain

import "time"

// TradeAction is the side of a recorded trade. The bot never sells, so
// only ActionBuy is ever written; the type exists so the trade log schema
// does not bake that assumption in.
type TradeAction string

const (
	ActionBuy  TradeAction = "BUY"
	ActionSell TradeAction = "SELL"
)

// Trade is one append-only trade-history record, created once per
// successfully placed order and never mutated.
type Trade struct {
	ID        int64       // Assigned by the repository
	Timestamp time.Time   // When the order was placed
	Action    TradeAction // BUY
	Symbol    string      // Trading pair, e.g. "QRLUSDT"
	Price     float64     // Limit price of the order
	Quantity  float64     // Base-asset quantity
	Cost      float64     // Price * Quantity, in USDT
	Strategy  string      // Name of the strategy that produced the signal
}

// TradeStats aggregates the buy history for reporting.
type TradeStats struct {
	TotalTrades   int
	TotalCost     float64
	TotalQuantity float64
	AveragePrice  float64 // TotalCost / TotalQuantity, 0 when empty
}
