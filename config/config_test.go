package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("BINANCE_API_KEY", "test-key")
	t.Setenv("BINANCE_API_SECRET", "test-secret")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "QRLUSDT", cfg.Symbol)
	assert.Equal(t, "1d", cfg.Timeframe)
	assert.Equal(t, 120, cfg.CandleLimit)
	assert.InDelta(t, 50.0, cfg.BaseOrderUSDT, 1e-9)
	assert.InDelta(t, 500.0, cfg.MaxPositionUSDT, 1e-9)
	assert.InDelta(t, 0.98, cfg.PriceOffset, 1e-9)
	assert.Equal(t, 10, cfg.MaxDailyOrders)
	assert.Equal(t, 20, cfg.EMAShortPeriod)
	assert.Equal(t, 60, cfg.EMALongPeriod)
	assert.InDelta(t, 1.02, cfg.SupportThreshold, 1e-9)
	assert.Equal(t, "./data/state.db", cfg.DBPath)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, "accumbot", cfg.CacheNamespace)
	assert.Equal(t, 24*time.Hour, cfg.CandleCacheTTL)
	assert.Equal(t, 5*time.Second, cfg.TickerCacheTTL)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 3, cfg.RetryMaxAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.RetryBaseDelay)
	assert.Equal(t, "./data/accumbot.lock", cfg.LockPath)
	assert.True(t, cfg.IsTestnet)
}

func TestLoadConfig_Overrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SYMBOL", "ETHUSDT")
	t.Setenv("TIMEFRAME", "4h")
	t.Setenv("BASE_ORDER_USDT", "25")
	t.Setenv("MAX_POSITION_USDT", "250")
	t.Setenv("PRICE_OFFSET", "0.95")
	t.Setenv("IS_TESTNET", "false")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "30")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "ETHUSDT", cfg.Symbol)
	assert.Equal(t, "4h", cfg.Timeframe)
	assert.InDelta(t, 25.0, cfg.BaseOrderUSDT, 1e-9)
	assert.InDelta(t, 250.0, cfg.MaxPositionUSDT, 1e-9)
	assert.InDelta(t, 0.95, cfg.PriceOffset, 1e-9)
	assert.False(t, cfg.IsTestnet)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}

func TestLoadConfig_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantMsg string
	}{
		{
			name:    "missing api key",
			env:     map[string]string{"BINANCE_API_SECRET": "s"},
			wantMsg: "BINANCE_API_KEY must be set",
		},
		{
			name: "price offset at one",
			env: map[string]string{
				"BINANCE_API_KEY": "k", "BINANCE_API_SECRET": "s",
				"PRICE_OFFSET": "1.0",
			},
			wantMsg: "PRICE_OFFSET must be between 0.0 and 1.0",
		},
		{
			name: "position ceiling below order size",
			env: map[string]string{
				"BINANCE_API_KEY": "k", "BINANCE_API_SECRET": "s",
				"BASE_ORDER_USDT": "100", "MAX_POSITION_USDT": "50",
			},
			wantMsg: "MAX_POSITION_USDT must be >= BASE_ORDER_USDT",
		},
		{
			name: "short period not below long",
			env: map[string]string{
				"BINANCE_API_KEY": "k", "BINANCE_API_SECRET": "s",
				"EMA_SHORT_PERIOD": "60", "EMA_LONG_PERIOD": "60",
			},
			wantMsg: "EMA_SHORT_PERIOD must be less than EMA_LONG_PERIOD",
		},
		{
			name: "candle limit below long period",
			env: map[string]string{
				"BINANCE_API_KEY": "k", "BINANCE_API_SECRET": "s",
				"CANDLE_LIMIT": "30",
			},
			wantMsg: "CANDLE_LIMIT must be >= EMA_LONG_PERIOD",
		},
		{
			name: "unparseable budget",
			env: map[string]string{
				"BINANCE_API_KEY": "k", "BINANCE_API_SECRET": "s",
				"BASE_ORDER_USDT": "fifty",
			},
			wantMsg: "invalid BASE_ORDER_USDT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := LoadConfig()
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoadConfig_AggregatesErrors(t *testing.T) {
	t.Setenv("BINANCE_API_KEY", "")
	t.Setenv("BINANCE_API_SECRET", "")
	t.Setenv("PRICE_OFFSET", "2.0")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BINANCE_API_KEY must be set")
	assert.Contains(t, err.Error(), "BINANCE_API_SECRET must be set")
	assert.Contains(t, err.Error(), "PRICE_OFFSET must be between")
}
