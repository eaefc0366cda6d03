package strategy

import (
	"context"
	"fmt"

	"accumbot/internal/domain"
	"accumbot/internal/ports"
	"accumbot/internal/strategy/indicators"
)

// Config holds parameters for the EMA accumulation strategy.
type Config struct {
	ShortPeriod      int     // e.g., 20
	LongPeriod       int     // e.g., 60
	SupportThreshold float64 // e.g., 1.02 = close within 2% above the long EMA
}

// EMAAccumulation buys when price sits near a longer-term average while
// short-term momentum has not turned down:
//
//  1. near support:      close <= longEMA * supportThreshold
//  2. positive momentum: shortEMA >= longEMA
//
// Both must hold. Evaluation is a pure function of the candle input.
type EMAAccumulation struct {
	cfg    Config
	logger ports.Logger
}

// New creates a new EMAAccumulation strategy instance.
func New(cfg Config, logger ports.Logger) (*EMAAccumulation, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required for strategy")
	}
	if cfg.ShortPeriod <= 0 || cfg.LongPeriod <= 0 {
		return nil, fmt.Errorf("strategy EMA periods must be positive")
	}
	if cfg.ShortPeriod >= cfg.LongPeriod {
		return nil, fmt.Errorf("short EMA period must be less than long EMA period")
	}
	if cfg.SupportThreshold <= 0 {
		return nil, fmt.Errorf("support threshold must be positive")
	}
	return &EMAAccumulation{cfg: cfg, logger: logger}, nil
}

// Name identifies the strategy in logs and trade records.
func (s *EMAAccumulation) Name() string {
	return "EMA Accumulation"
}

// RequiredDataPoints returns the minimum number of candles Evaluate needs.
func (s *EMAAccumulation) RequiredDataPoints() int {
	if s.cfg.ShortPeriod > s.cfg.LongPeriod {
		return s.cfg.ShortPeriod
	}
	return s.cfg.LongPeriod
}

// Evaluate computes the buy signal for the given candles, oldest first.
func (s *EMAAccumulation) Evaluate(ctx context.Context, candles []domain.Candle) (domain.Signal, error) {
	if len(candles) == 0 {
		return domain.Signal{}, fmt.Errorf("strategy evaluation: %w", ports.ErrEmptyData)
	}
	if required := s.RequiredDataPoints(); len(candles) < required {
		return domain.Signal{}, fmt.Errorf("strategy evaluation: have %d candles, need %d: %w",
			len(candles), required, ports.ErrInsufficientData)
	}

	closes := domain.Closes(candles)

	shortEMA, err := indicators.EMA(closes, s.cfg.ShortPeriod)
	if err != nil {
		return domain.Signal{}, fmt.Errorf("short EMA: %w", err)
	}
	longEMA, err := indicators.EMA(closes, s.cfg.LongPeriod)
	if err != nil {
		return domain.Signal{}, fmt.Errorf("long EMA: %w", err)
	}

	latest := candles[len(candles)-1]

	// "Near support" tests the close at or below supportThreshold of the
	// long EMA, so a price slightly above the average still qualifies.
	nearSupport := latest.Close <= longEMA*s.cfg.SupportThreshold
	positiveMomentum := shortEMA >= longEMA

	signal := domain.Signal{
		ShouldBuy:        nearSupport && positiveMomentum,
		NearSupport:      nearSupport,
		PositiveMomentum: positiveMomentum,
		ReferencePrice:   latest.Close,
		ShortAverage:     shortEMA,
		LongAverage:      longEMA,
	}

	s.logger.Debug(ctx, "Strategy evaluated", map[string]interface{}{
		"shouldBuy":        signal.ShouldBuy,
		"nearSupport":      nearSupport,
		"positiveMomentum": positiveMomentum,
		"close":            latest.Close,
		"shortEMA":         shortEMA,
		"longEMA":          longEMA,
	})
	return signal, nil
}
