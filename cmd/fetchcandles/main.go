package main

import (
	"context"
	"log"
	"os"

	"accumbot/config"
	"accumbot/internal/adapters/binanceclient"
	"accumbot/internal/adapters/logger"
	"accumbot/internal/adapters/sqlite"
	"accumbot/internal/retry"
)

// fetchcandles pulls the configured symbol's recent candles from the
// exchange and archives them in SQLite for offline analysis, independent
// of any cache TTL.
func main() {
	os.Exit(run())
}

func run() int {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("FATAL: Failed to load configuration: %v", err)
		return 1
	}

	appLogger := logger.NewStdLogger(cfg.LogLevel)

	repo, err := sqlite.NewRepository(sqlite.Config{DBPath: cfg.DBPath, Logger: appLogger})
	if err != nil {
		appLogger.Error(ctx, err, "Failed to initialize database repository")
		return 1
	}
	defer repo.Close()

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
	policy := retry.NewPolicy(retry.Config{
		MaxAttempts: cfg.RetryMaxAttempts,
		BaseDelay:   cfg.RetryBaseDelay,
		Jitter:      true,
	}, appLogger)
	exchange := retry.WrapExchange(binanceClient, policy)

	fetchCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
	defer cancel()

	candles, err := exchange.GetCandles(fetchCtx, cfg.Symbol, cfg.Timeframe, cfg.CandleLimit)
	if err != nil {
		appLogger.Error(ctx, err, "Failed to fetch candles")
		return 1
	}

	inserted, err := repo.SaveCandles(ctx, cfg.Symbol, cfg.Timeframe, candles)
	if err != nil {
		appLogger.Error(ctx, err, "Failed to archive candles")
		return 1
	}

	total, err := repo.CountCandles(ctx, cfg.Symbol, cfg.Timeframe)
	if err != nil {
		appLogger.Error(ctx, err, "Failed to count archived candles")
		return 1
	}

	appLogger.Info(ctx, "Candles archived", map[string]interface{}{
		"symbol":    cfg.Symbol,
		"timeframe": cfg.Timeframe,
		"fetched":   len(candles),
		"inserted":  inserted,
		"total":     total,
	})
	return 0
}
