package marketcache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"accumbot/internal/domain"
	"accumbot/internal/ports"
)

// Exchange decorates a ports.ExchangeClient with advisory read caching.
// Candle and ticker reads are served from the cache when fresh; order
// placement always passes straight through. A broken cache only costs
// latency, never correctness.
type Exchange struct {
	next      ports.ExchangeClient
	cache     ports.Cache
	logger    ports.Logger
	candleTTL time.Duration
	tickerTTL time.Duration
}

// Config holds TTLs for the cached read paths.
type Config struct {
	CandleTTL time.Duration // historical candles change rarely
	TickerTTL time.Duration // ticker is fast-moving, keep short
}

// New wraps next with read caching backed by cache.
func New(next ports.ExchangeClient, cache ports.Cache, cfg Config, logger ports.Logger) *Exchange {
	candleTTL := cfg.CandleTTL
	if candleTTL <= 0 {
		candleTTL = 24 * time.Hour
	}
	tickerTTL := cfg.TickerTTL
	if tickerTTL <= 0 {
		tickerTTL = 5 * time.Second
	}
	return &Exchange{
		next:      next,
		cache:     cache,
		logger:    logger,
		candleTTL: candleTTL,
		tickerTTL: tickerTTL,
	}
}

// GetCandles serves candles from cache when possible.
func (e *Exchange) GetCandles(ctx context.Context, symbol, timeframe string, limit int) ([]domain.Candle, error) {
	key := fmt.Sprintf("ohlcv:%s:%s:%d", symbol, timeframe, limit)

	if raw, ok := e.cache.Get(ctx, key); ok {
		var candles []domain.Candle
		if err := json.Unmarshal(raw, &candles); err == nil {
			e.logger.Debug(ctx, "Candle cache hit", map[string]interface{}{"key": key, "count": len(candles)})
			return candles, nil
		}
		// A corrupt entry is dropped and refetched.
		e.cache.Delete(ctx, key)
	}

	candles, err := e.next.GetCandles(ctx, symbol, timeframe, limit)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(candles); err == nil {
		e.cache.Set(ctx, key, raw, e.candleTTL)
	}
	return candles, nil
}

// GetTickerPrice serves the ticker from cache when fresh.
func (e *Exchange) GetTickerPrice(ctx context.Context, symbol string) (float64, error) {
	key := "ticker:" + symbol

	if raw, ok := e.cache.Get(ctx, key); ok {
		if price, err := strconv.ParseFloat(string(raw), 64); err == nil {
			e.logger.Debug(ctx, "Ticker cache hit", map[string]interface{}{"key": key, "price": price})
			return price, nil
		}
		e.cache.Delete(ctx, key)
	}

	price, err := e.next.GetTickerPrice(ctx, symbol)
	if err != nil {
		return 0, err
	}

	e.cache.Set(ctx, key, []byte(strconv.FormatFloat(price, 'f', -1, 64)), e.tickerTTL)
	return price, nil
}

// PlaceLimitBuy is never cached.
func (e *Exchange) PlaceLimitBuy(ctx context.Context, order ports.LimitOrder) (*ports.OrderAck, error) {
	return e.next.PlaceLimitBuy(ctx, order)
}
