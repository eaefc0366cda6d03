package ports

import (
	"context"

	"accumbot/internal/domain"
)

// PositionLedger is the durable record of cumulative USDT committed.
// It is the sole source of truth the risk gate consults. The ledger does
// no clamping of its own: callers only write current + order size after a
// confirmed placement, so the position limit is enforced upstream.
type PositionLedger interface {
	// GetPosition returns the current committed value, 0 if never written.
	GetPosition(ctx context.Context) (float64, error)
	// UpdatePosition replaces the committed value. Returns
	// ErrNegativePosition when value < 0.
	UpdatePosition(ctx context.Context, value float64) error
}

// TradeRepository stores the append-only trade history.
type TradeRepository interface {
	// RecordTrade appends a trade record and returns its assigned ID.
	// Storage errors are propagated, never swallowed.
	RecordTrade(ctx context.Context, trade *domain.Trade) (int64, error)
	// GetTradeHistory retrieves the most recent trades, newest first.
	GetTradeHistory(ctx context.Context, limit int) ([]*domain.Trade, error)
	// CountTodayBySymbol counts trades recorded today (UTC) for a symbol.
	CountTodayBySymbol(ctx context.Context, symbol string) (int, error)
	// GetStats aggregates the buy history.
	GetStats(ctx context.Context) (*domain.TradeStats, error)
}

// CandleArchive stores historical candles long term, independent of any
// cache. Used by the archival tool, not by the trading cycle.
type CandleArchive interface {
	// SaveCandles upserts candles for a symbol/timeframe and returns the
	// number of newly inserted rows.
	SaveCandles(ctx context.Context, symbol, timeframe string, candles []domain.Candle) (int, error)
	// GetCandles retrieves stored candles, oldest first.
	GetCandles(ctx context.Context, symbol, timeframe string, limit int) ([]domain.Candle, error)
	// CountCandles returns the number of stored candles for a symbol/timeframe.
	CountCandles(ctx context.Context, symbol, timeframe string) (int, error)
}
