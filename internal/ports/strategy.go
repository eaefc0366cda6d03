package ports

import (
	"context"

	"accumbot/internal/domain"
)

// Strategy produces a buy recommendation from historical candles.
// Evaluate is a pure function of its input: no I/O, no retained state.
type Strategy interface {
	// Name identifies the strategy in logs and trade records.
	Name() string

	// RequiredDataPoints returns the minimum number of candles Evaluate needs.
	RequiredDataPoints() int

	// Evaluate computes the signal for the given candles, oldest first.
	// Returns ErrEmptyData for an empty sequence and ErrInsufficientData
	// when fewer than RequiredDataPoints candles are supplied.
	Evaluate(ctx context.Context, candles []domain.Candle) (domain.Signal, error)
}
