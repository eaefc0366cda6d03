package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"accumbot/internal/adapters/logger" // Import the logger package for LogLevel
)

// Config holds all application configuration. It is constructed once at
// process start and passed by parameter; there is no ambient global.
type Config struct {
	// Binance API
	APIKey    string
	SecretKey string
	IsTestnet bool

	// Trading Parameters
	Symbol          string
	Timeframe       string
	CandleLimit     int     // Candles fetched per cycle
	BaseOrderUSDT   float64 // Single order budget
	MaxPositionUSDT float64 // Position ceiling
	PriceOffset     float64 // Limit price multiplier, strictly in (0,1)
	MaxDailyOrders  int     // Daily order cap, 0 disables

	// Strategy Parameters
	EMAShortPeriod   int     // e.g., 20
	EMALongPeriod    int     // e.g., 60
	SupportThreshold float64 // e.g., 1.02

	// Database
	DBPath string

	// Cache (advisory; empty RedisURL disables caching entirely)
	RedisURL       string
	CacheNamespace string
	CandleCacheTTL time.Duration
	TickerCacheTTL time.Duration

	// Network boundary
	RequestTimeout   time.Duration
	RetryMaxAttempts int
	RetryBaseDelay   time.Duration

	// Mutual exclusion between overlapping scheduled runs
	LockPath string

	// Logging
	LogLevel logger.LogLevel
}

// LoadConfig loads configuration from environment variables (.env file).
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var err error
	var errs []string // Collect validation errors

	// Binance API
	cfg.APIKey = getEnv("BINANCE_API_KEY", "")
	cfg.SecretKey = getEnv("BINANCE_API_SECRET", "")
	cfg.IsTestnet = getEnvAsBool("IS_TESTNET", true) // Default to testnet for safety

	if cfg.APIKey == "" {
		errs = append(errs, "BINANCE_API_KEY must be set")
	}
	if cfg.SecretKey == "" {
		errs = append(errs, "BINANCE_API_SECRET must be set")
	}

	// Trading Parameters
	cfg.Symbol = getEnv("SYMBOL", "QRLUSDT")
	if cfg.Symbol == "" {
		errs = append(errs, "SYMBOL must be set")
	}
	cfg.Timeframe = getEnv("TIMEFRAME", "1d")
	if cfg.Timeframe == "" {
		errs = append(errs, "TIMEFRAME must be set")
	}

	cfg.CandleLimit = getEnvAsInt("CANDLE_LIMIT", 120)
	if cfg.CandleLimit <= 0 {
		errs = append(errs, "CANDLE_LIMIT must be positive")
	}

	cfg.BaseOrderUSDT, err = getEnvAsFloatRequired("BASE_ORDER_USDT", 50.0)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid BASE_ORDER_USDT: %v", err))
	} else if cfg.BaseOrderUSDT <= 0 {
		errs = append(errs, "BASE_ORDER_USDT must be positive")
	}

	cfg.MaxPositionUSDT, err = getEnvAsFloatRequired("MAX_POSITION_USDT", 500.0)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid MAX_POSITION_USDT: %v", err))
	} else if cfg.MaxPositionUSDT <= 0 {
		errs = append(errs, "MAX_POSITION_USDT must be positive")
	} else if cfg.MaxPositionUSDT < cfg.BaseOrderUSDT {
		errs = append(errs, "MAX_POSITION_USDT must be >= BASE_ORDER_USDT")
	}

	cfg.PriceOffset, err = getEnvAsFloatRequired("PRICE_OFFSET", 0.98)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid PRICE_OFFSET: %v", err))
	} else if cfg.PriceOffset <= 0 || cfg.PriceOffset >= 1.0 {
		errs = append(errs, "PRICE_OFFSET must be between 0.0 and 1.0 (exclusive)")
	}

	cfg.MaxDailyOrders = getEnvAsInt("MAX_DAILY_ORDERS", 10)
	if cfg.MaxDailyOrders < 0 {
		errs = append(errs, "MAX_DAILY_ORDERS cannot be negative")
	}

	// Strategy Parameters
	cfg.EMAShortPeriod = getEnvAsInt("EMA_SHORT_PERIOD", 20)
	cfg.EMALongPeriod = getEnvAsInt("EMA_LONG_PERIOD", 60)
	cfg.SupportThreshold = getEnvAsFloat("SUPPORT_THRESHOLD", 1.02)

	if cfg.EMAShortPeriod <= 0 || cfg.EMALongPeriod <= 0 {
		errs = append(errs, "EMA periods must be positive")
	}
	if cfg.EMAShortPeriod >= cfg.EMALongPeriod {
		errs = append(errs, "EMA_SHORT_PERIOD must be less than EMA_LONG_PERIOD")
	}
	if cfg.SupportThreshold <= 0 {
		errs = append(errs, "SUPPORT_THRESHOLD must be positive")
	}
	if cfg.CandleLimit > 0 && cfg.CandleLimit < cfg.EMALongPeriod {
		errs = append(errs, "CANDLE_LIMIT must be >= EMA_LONG_PERIOD")
	}

	// Database
	cfg.DBPath = getEnv("DB_PATH", "./data/state.db")
	if cfg.DBPath == "" {
		errs = append(errs, "DB_PATH must be set")
	}

	// Cache
	cfg.RedisURL = getEnv("REDIS_URL", "")
	cfg.CacheNamespace = getEnv("CACHE_NAMESPACE", "accumbot")
	cfg.CandleCacheTTL = time.Duration(getEnvAsInt("CANDLE_CACHE_TTL_SECONDS", 86400)) * time.Second
	cfg.TickerCacheTTL = time.Duration(getEnvAsInt("TICKER_CACHE_TTL_SECONDS", 5)) * time.Second

	// Network boundary
	requestTimeoutSeconds := getEnvAsInt("REQUEST_TIMEOUT_SECONDS", 15)
	if requestTimeoutSeconds <= 0 {
		errs = append(errs, "REQUEST_TIMEOUT_SECONDS must be positive")
	}
	cfg.RequestTimeout = time.Duration(requestTimeoutSeconds) * time.Second

	cfg.RetryMaxAttempts = getEnvAsInt("RETRY_MAX_ATTEMPTS", 3)
	if cfg.RetryMaxAttempts <= 0 {
		errs = append(errs, "RETRY_MAX_ATTEMPTS must be positive")
	}
	retryBaseDelayMs := getEnvAsInt("RETRY_BASE_DELAY_MS", 500)
	if retryBaseDelayMs <= 0 {
		errs = append(errs, "RETRY_BASE_DELAY_MS must be positive")
	}
	cfg.RetryBaseDelay = time.Duration(retryBaseDelayMs) * time.Millisecond

	// Lock
	cfg.LockPath = getEnv("LOCK_PATH", "./data/accumbot.lock")
	if cfg.LockPath == "" {
		errs = append(errs, "LOCK_PATH must be set")
	}

	// Logging
	logLevelStr := getEnv("LOG_LEVEL", "INFO")
	cfg.LogLevel = logger.ParseLevel(logLevelStr)

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloatRequired(key string, defaultValue float64) (float64, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
