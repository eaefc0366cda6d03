package main

import (
	"context"
	"errors"
	"log" // Use standard log only for initial fatal errors before logger is set up
	"os"

	"accumbot/config"
	"accumbot/internal/adapters/binanceclient"
	"accumbot/internal/adapters/logger"
	"accumbot/internal/adapters/marketcache"
	"accumbot/internal/adapters/rediscache"
	"accumbot/internal/adapters/sqlite"
	"accumbot/internal/app"
	"accumbot/internal/execution"
	"accumbot/internal/lockfile"
	"accumbot/internal/ports"
	"accumbot/internal/retry"
	"accumbot/internal/risk"
	"accumbot/internal/strategy"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx := context.Background()

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("FATAL: Failed to load configuration: %v", err)
		return 1
	}

	// 2. Initialize Logger
	appLogger := logger.NewStdLogger(cfg.LogLevel)
	appLogger.Info(ctx, "Logger initialized", map[string]interface{}{"level": cfg.LogLevel.String()})

	// 3. Exclusive lock: the read-decide-write cycle must never overlap
	// with another scheduled run.
	lock, err := lockfile.Acquire(cfg.LockPath)
	if err != nil {
		if errors.Is(err, lockfile.ErrAlreadyLocked) {
			appLogger.Warn(ctx, "Another cycle is already running, exiting", map[string]interface{}{"lockPath": cfg.LockPath})
		} else {
			appLogger.Error(ctx, err, "Failed to acquire cycle lock")
		}
		return 1
	}
	defer func() {
		if err := lock.Release(); err != nil {
			appLogger.Error(ctx, err, "Error releasing cycle lock")
		}
	}()

	// 4. Initialize Repository (Database Adapter)
	repo, err := sqlite.NewRepository(sqlite.Config{
		DBPath: cfg.DBPath,
		Logger: appLogger,
	})
	if err != nil {
		appLogger.Error(ctx, err, "Failed to initialize database repository")
		return 1
	}
	defer func() {
		if err := repo.Close(); err != nil {
			appLogger.Error(ctx, err, "Error closing database repository")
		}
	}()

	// 5. Initialize Exchange Client (Binance Adapter)
	binanceClient, err := binanceclient.New(binanceclient.Config{
		APIKey:     cfg.APIKey,
		SecretKey:  cfg.SecretKey,
		UseTestnet: cfg.IsTestnet,
		Logger:     appLogger,
	})
	if err != nil {
		appLogger.Error(ctx, err, "Failed to initialize Binance client")
		return 1
	}

	// 6. Network-boundary retry policy around the exchange.
	policy := retry.NewPolicy(retry.Config{
		MaxAttempts: cfg.RetryMaxAttempts,
		BaseDelay:   cfg.RetryBaseDelay,
		Jitter:      true,
	}, appLogger)
	var exchange ports.ExchangeClient = retry.WrapExchange(binanceClient, policy)

	// 7. Optional advisory cache in front of the exchange reads.
	if cfg.RedisURL != "" {
		cache, err := rediscache.New(ctx, rediscache.Config{
			URL:       cfg.RedisURL,
			Namespace: cfg.CacheNamespace,
			Logger:    appLogger,
		})
		if err != nil {
			// The cache is advisory; a dead Redis never blocks trading.
			appLogger.Warn(ctx, "Redis cache unavailable, continuing without cache", map[string]interface{}{"error": err.Error()})
		} else {
			defer cache.Close()
			exchange = marketcache.New(exchange, cache, marketcache.Config{
				CandleTTL: cfg.CandleCacheTTL,
				TickerTTL: cfg.TickerCacheTTL,
			}, appLogger)
		}
	}

	// 8. Initialize Strategy
	strat, err := strategy.New(strategy.Config{
		ShortPeriod:      cfg.EMAShortPeriod,
		LongPeriod:       cfg.EMALongPeriod,
		SupportThreshold: cfg.SupportThreshold,
	}, appLogger)
	if err != nil {
		appLogger.Error(ctx, err, "Failed to initialize strategy")
		return 1
	}

	// 9. Risk gate and order manager.
	gate := risk.NewGate(risk.Config{
		MaxPositionUSDT: cfg.MaxPositionUSDT,
		MaxOrderUSDT:    cfg.BaseOrderUSDT,
		MaxDailyOrders:  cfg.MaxDailyOrders,
	})

	orders, err := execution.NewOrderManager(exchange, appLogger)
	if err != nil {
		appLogger.Error(ctx, err, "Failed to initialize order manager")
		return 1
	}

	// 10. Initialize Application Service
	service, err := app.NewTradingService(cfg, appLogger, exchange, repo, repo, strat, gate, orders)
	if err != nil {
		appLogger.Error(ctx, err, "Failed to initialize trading service")
		return 1
	}

	// 11. Run one cycle. No-signal and risk rejections are clean exits;
	// anything else non-zero.
	result, err := service.RunCycle(ctx)
	if err != nil {
		appLogger.Error(ctx, err, "Trading cycle failed")
		return 1
	}

	appLogger.Info(ctx, "Trading cycle finished", map[string]interface{}{"state": string(result.State)})
	return 0
}
