package marketcache

import (
	"context"
	"testing"
	"time"

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

// memoryCache implements ports.Cache in memory, ignoring TTLs.
type memoryCache struct {
	entries map[string][]byte
	sets    int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, bool) {
	value, ok := c.entries[key]
	return value, ok
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	c.entries[key] = value
	c.sets++
}

func (c *memoryCache) Delete(ctx context.Context, key string) {
	delete(c.entries, key)
}

// countingExchange implements ports.ExchangeClient and counts calls.
type countingExchange struct {
	candleCalls int
	tickerCalls int
	orderCalls  int
}

func (e *countingExchange) GetCandles(ctx context.Context, symbol, timeframe string, limit int) ([]domain.Candle, error) {
	e.candleCalls++
	return []domain.Candle{{Timestamp: 1000, Close: 1.0}}, nil
}

func (e *countingExchange) GetTickerPrice(ctx context.Context, symbol string) (float64, error) {
	e.tickerCalls++
	return 0.45, nil
}

func (e *countingExchange) PlaceLimitBuy(ctx context.Context, order ports.LimitOrder) (*ports.OrderAck, error) {
	e.orderCalls++
	return &ports.OrderAck{OrderID: "1", Status: "NEW"}, nil
}

func TestGetCandles_CachesSecondRead(t *testing.T) {
	inner := &countingExchange{}
	cache := newMemoryCache()
	wrapped := New(inner, cache, Config{}, &mockLogger{})
	ctx := context.Background()

	first, err := wrapped.GetCandles(ctx, "QRLUSDT", "1d", 120)
	require.NoError(t, err)
	second, err := wrapped.GetCandles(ctx, "QRLUSDT", "1d", 120)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.candleCalls)
	assert.Equal(t, first, second)

	// Different parameters miss and fetch again.
	_, err = wrapped.GetCandles(ctx, "QRLUSDT", "1h", 120)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.candleCalls)
}

func TestGetCandles_CorruptEntryRefetched(t *testing.T) {
	inner := &countingExchange{}
	cache := newMemoryCache()
	cache.entries["ohlcv:QRLUSDT:1d:120"] = []byte("not json")
	wrapped := New(inner, cache, Config{}, &mockLogger{})

	candles, err := wrapped.GetCandles(context.Background(), "QRLUSDT", "1d", 120)
	require.NoError(t, err)
	assert.Len(t, candles, 1)
	assert.Equal(t, 1, inner.candleCalls)
}

func TestGetTickerPrice_CachesSecondRead(t *testing.T) {
	inner := &countingExchange{}
	wrapped := New(inner, newMemoryCache(), Config{}, &mockLogger{})
	ctx := context.Background()

	price, err := wrapped.GetTickerPrice(ctx, "QRLUSDT")
	require.NoError(t, err)
	assert.InDelta(t, 0.45, price, 1e-9)

	price, err = wrapped.GetTickerPrice(ctx, "QRLUSDT")
	require.NoError(t, err)
	assert.InDelta(t, 0.45, price, 1e-9)
	assert.Equal(t, 1, inner.tickerCalls)
}

func TestPlaceLimitBuy_NeverCached(t *testing.T) {
	inner := &countingExchange{}
	cache := newMemoryCache()
	wrapped := New(inner, cache, Config{}, &mockLogger{})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := wrapped.PlaceLimitBuy(ctx, ports.LimitOrder{Symbol: "QRLUSDT"})
		require.NoError(t, err)
	}

	assert.Equal(t, 3, inner.orderCalls)
	assert.Zero(t, cache.sets)
}
