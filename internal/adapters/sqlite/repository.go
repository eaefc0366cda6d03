package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"accumbot/internal/domain"
	"accumbot/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Repository implements the ports.PositionLedger, ports.TradeRepository and
// ports.CandleArchive interfaces using SQLite.
type Repository struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite repository.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewRepository creates a new SQLite repository instance.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite repository")
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/state.db"
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		err = fmt.Errorf("failed to open database at '%s': %w", dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("failed to ping database at '%s': %w", dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// SQLite handles concurrency internally; the Go driver benefits from a
	// single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	repo := &Repository{db: db, logger: cfg.Logger}

	if err := repo.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}
	cfg.Logger.Info(context.Background(), "Database schema initialized/verified", map[string]interface{}{"path": dbPath})

	return repo, nil
}

// initializeSchema creates tables if they don't exist.
func (r *Repository) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS position (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		total_committed_usdt REAL NOT NULL DEFAULT 0,
		last_updated TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS trades (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp TIMESTAMP NOT NULL,
		action TEXT NOT NULL,
		symbol TEXT NOT NULL,
		price REAL NOT NULL,
		quantity REAL NOT NULL,
		cost REAL NOT NULL,
		strategy TEXT NULL
	);

	CREATE TABLE IF NOT EXISTS candles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		timeframe TEXT NOT NULL,
		timestamp INTEGER NOT NULL,
		open REAL NOT NULL,
		high REAL NOT NULL,
		low REAL NOT NULL,
		close REAL NOT NULL,
		volume REAL NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_trades_symbol_timestamp ON trades (symbol, timestamp);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_candles_symbol_timeframe_timestamp ON candles (symbol, timeframe, timestamp);
	`
	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to execute schema initialization: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	if r.db != nil {
		r.logger.Info(context.Background(), "Closing SQLite database connection")
		return r.db.Close()
	}
	return nil
}

// --- PositionLedger Implementation ---

// GetPosition returns the current committed position value in USDT,
// 0 if it has never been written.
func (r *Repository) GetPosition(ctx context.Context) (float64, error) {
	const query = `SELECT total_committed_usdt FROM position WHERE id = 1`
	var value float64
	err := r.db.QueryRowContext(ctx, query).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read position: %w: %w", ports.ErrQueryFailed, err)
	}
	return value, nil
}

// UpdatePosition replaces the committed position value.
func (r *Repository) UpdatePosition(ctx context.Context, value float64) error {
	if value < 0 {
		return fmt.Errorf("update position to %.2f: %w", value, ports.ErrNegativePosition)
	}

	const query = `
	INSERT INTO position (id, total_committed_usdt, last_updated) VALUES (1, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		total_committed_usdt = excluded.total_committed_usdt,
		last_updated = excluded.last_updated`

	_, err := r.db.ExecContext(ctx, query, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to update position to %.2f: %w: %w", value, ports.ErrUpdateFailed, err)
	}
	r.logger.Debug(ctx, "Position updated", map[string]interface{}{"totalCommittedUSDT": value})
	return nil
}

// --- TradeRepository Implementation ---

// RecordTrade appends a trade record and returns its assigned ID.
func (r *Repository) RecordTrade(ctx context.Context, trade *domain.Trade) (int64, error) {
	const query = `
	INSERT INTO trades (timestamp, action, symbol, price, quantity, cost, strategy)
	VALUES (?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		trade.Timestamp, string(trade.Action), trade.Symbol, trade.Price, trade.Quantity, trade.Cost, trade.Strategy)
	if err != nil {
		return 0, fmt.Errorf("failed to insert trade for symbol %s: %w: %w", trade.Symbol, ports.ErrUpdateFailed, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for trade %s: %w", trade.Symbol, err)
	}
	trade.ID = id
	r.logger.Debug(ctx, "Trade recorded", map[string]interface{}{"tradeID": id, "symbol": trade.Symbol, "cost": trade.Cost})
	return id, nil
}

// GetTradeHistory retrieves the most recent trades, newest first.
func (r *Repository) GetTradeHistory(ctx context.Context, limit int) ([]*domain.Trade, error) {
	const query = `
	SELECT id, timestamp, action, symbol, price, quantity, cost, COALESCE(strategy, '')
	FROM trades ORDER BY timestamp DESC, id DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query trade history: %w: %w", ports.ErrQueryFailed, err)
	}
	defer rows.Close()

	trades := make([]*domain.Trade, 0)
	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade during GetTradeHistory: %w", err)
		}
		trades = append(trades, trade)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trade rows: %w", err)
	}
	return trades, nil
}

// CountTodayBySymbol counts trades recorded today (UTC) for a symbol.
func (r *Repository) CountTodayBySymbol(ctx context.Context, symbol string) (int, error) {
	const query = `SELECT COUNT(*) FROM trades WHERE symbol = ? AND timestamp >= ?`
	startOfDay := time.Now().UTC().Truncate(24 * time.Hour)
	var count int
	err := r.db.QueryRowContext(ctx, query, symbol, startOfDay).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count trades today for symbol %s: %w: %w", symbol, ports.ErrQueryFailed, err)
	}
	return count, nil
}

// GetStats aggregates the buy history.
func (r *Repository) GetStats(ctx context.Context) (*domain.TradeStats, error) {
	const query = `
	SELECT COUNT(*), COALESCE(SUM(cost), 0), COALESCE(SUM(quantity), 0)
	FROM trades WHERE action = ?`

	stats := &domain.TradeStats{}
	err := r.db.QueryRowContext(ctx, query, string(domain.ActionBuy)).
		Scan(&stats.TotalTrades, &stats.TotalCost, &stats.TotalQuantity)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate trade stats: %w: %w", ports.ErrQueryFailed, err)
	}
	if stats.TotalQuantity > 0 {
		stats.AveragePrice = stats.TotalCost / stats.TotalQuantity
	}
	return stats, nil
}

// --- CandleArchive Implementation ---

// SaveCandles upserts candles for a symbol/timeframe and returns the number
// of newly inserted rows.
func (r *Repository) SaveCandles(ctx context.Context, symbol, timeframe string, candles []domain.Candle) (int, error) {
	if len(candles) == 0 {
		return 0, nil
	}

	const insertQuery = `
	INSERT OR IGNORE INTO candles (symbol, timeframe, timestamp, open, high, low, close, volume)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	// Existing candles are refreshed in case the exchange corrected them.
	const updateQuery = `
	UPDATE candles SET open = ?, high = ?, low = ?, close = ?, volume = ?
	WHERE symbol = ? AND timeframe = ? AND timestamp = ?`

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin candle transaction: %w", err)
	}

	inserted := 0
	for _, c := range candles {
		result, err := tx.ExecContext(ctx, insertQuery, symbol, timeframe, c.Timestamp, c.Open, c.High, c.Low, c.Close, c.Volume)
		if err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("failed to insert candle %d for %s/%s: %w: %w", c.Timestamp, symbol, timeframe, ports.ErrUpdateFailed, err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("failed to get rows affected for candle %d: %w", c.Timestamp, err)
		}
		if rows > 0 {
			inserted++
			continue
		}
		if _, err := tx.ExecContext(ctx, updateQuery, c.Open, c.High, c.Low, c.Close, c.Volume, symbol, timeframe, c.Timestamp); err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("failed to update candle %d for %s/%s: %w: %w", c.Timestamp, symbol, timeframe, ports.ErrUpdateFailed, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit candle transaction: %w", err)
	}
	r.logger.Debug(ctx, "Candles saved", map[string]interface{}{"symbol": symbol, "timeframe": timeframe, "count": len(candles)})
	return inserted, nil
}

// GetCandles retrieves stored candles, oldest first.
func (r *Repository) GetCandles(ctx context.Context, symbol, timeframe string, limit int) ([]domain.Candle, error) {
	const query = `
	SELECT timestamp, open, high, low, close, volume
	FROM candles WHERE symbol = ? AND timeframe = ?
	ORDER BY timestamp ASC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, symbol, timeframe, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query candles for %s/%s: %w: %w", symbol, timeframe, ports.ErrQueryFailed, err)
	}
	defer rows.Close()

	candles := make([]domain.Candle, 0)
	for rows.Next() {
		var c domain.Candle
		if err := rows.Scan(&c.Timestamp, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			return nil, fmt.Errorf("failed to scan candle: %w", err)
		}
		candles = append(candles, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating candle rows: %w", err)
	}
	return candles, nil
}

// CountCandles returns the number of stored candles for a symbol/timeframe.
func (r *Repository) CountCandles(ctx context.Context, symbol, timeframe string) (int, error) {
	const query = `SELECT COUNT(*) FROM candles WHERE symbol = ? AND timeframe = ?`
	var count int
	err := r.db.QueryRowContext(ctx, query, symbol, timeframe).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count candles for %s/%s: %w: %w", symbol, timeframe, ports.ErrQueryFailed, err)
	}
	return count, nil
}

// --- Helper Scan Functions ---

// scanner defines an interface compatible with *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanTrade scans a row into a domain.Trade struct.
func scanTrade(s scanner) (*domain.Trade, error) {
	t := &domain.Trade{}
	var action string
	err := s.Scan(&t.ID, &t.Timestamp, &action, &t.Symbol, &t.Price, &t.Quantity, &t.Cost, &t.Strategy)
	if err != nil {
		return nil, err
	}
	t.Action = domain.TradeAction(action)
	return t, nil
}
