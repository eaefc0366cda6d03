package app

import (
	"context"
	"fmt"
	"time"

	"accumbot/config"
	"accumbot/internal/domain"
	"accumbot/internal/execution"
	"accumbot/internal/ports"
	"accumbot/internal/risk"
)

// CycleState is the terminal state of one trading cycle.
type CycleState string

const (
	StateNoSignal    CycleState = "NO_SIGNAL"
	StateRiskFailed  CycleState = "RISK_FAILED"
	StateOrderFailed CycleState = "ORDER_FAILED"
	StateSuccess     CycleState = "SUCCESS"
)

// CycleResult summarizes how a cycle terminated. NoSignal and RiskFailed
// are clean "no action taken" outcomes, not errors.
type CycleResult struct {
	State    CycleState
	Signal   domain.Signal
	Decision risk.Decision
	Outcome  domain.OrderOutcome
}

// TradingService orchestrates one trading cycle: signal evaluation, risk
// check, order sizing and placement, then the ledger write. Each stage is
// a hard gate; nothing later runs once a stage fails or declines. The
// cycle keeps no state of its own between runs, only the ledger and the
// trade log persist, so it is re-entrant as long as runs do not overlap
// (see the lock in main).
type TradingService struct {
	cfg      *config.Config
	logger   ports.Logger
	exchange ports.ExchangeClient
	ledger   ports.PositionLedger
	trades   ports.TradeRepository
	strategy ports.Strategy
	gate     *risk.Gate
	orders   *execution.OrderManager
}

// NewTradingService creates a new application service instance.
func NewTradingService(
	cfg *config.Config,
	logger ports.Logger,
	exchange ports.ExchangeClient,
	ledger ports.PositionLedger,
	trades ports.TradeRepository,
	strat ports.Strategy,
	gate *risk.Gate,
	orders *execution.OrderManager,
) (*TradingService, error) {
	if cfg == nil || logger == nil || exchange == nil || ledger == nil || trades == nil || strat == nil || gate == nil || orders == nil {
		return nil, fmt.Errorf("missing required dependencies for TradingService")
	}
	if cfg.BaseOrderUSDT <= 0 {
		return nil, fmt.Errorf("configuration BaseOrderUSDT must be positive")
	}
	if cfg.MaxPositionUSDT < cfg.BaseOrderUSDT {
		return nil, fmt.Errorf("configuration MaxPositionUSDT must be >= BaseOrderUSDT")
	}

	return &TradingService{
		cfg:      cfg,
		logger:   logger,
		exchange: exchange,
		ledger:   ledger,
		trades:   trades,
		strategy: strat,
		gate:     gate,
		orders:   orders,
	}, nil
}

// RunCycle executes one complete trading cycle and returns its terminal
// state. A non-nil error means the cycle failed (input error, exhausted
// retries, exchange rejection or persistence failure); NoSignal and
// RiskFailed return a nil error.
func (s *TradingService) RunCycle(ctx context.Context) (*CycleResult, error) {
	s.logger.Info(ctx, "Starting trading cycle", map[string]interface{}{
		"symbol":    s.cfg.Symbol,
		"timeframe": s.cfg.Timeframe,
		"strategy":  s.strategy.Name(),
	})

	// Step 1: market data.
	candles, err := s.fetchCandles(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch candles: %w", err)
	}
	s.logger.Debug(ctx, "Market data fetched", map[string]interface{}{"candles": len(candles)})

	// Step 2: signal.
	signal, err := s.strategy.Evaluate(ctx, candles)
	if err != nil {
		return nil, fmt.Errorf("strategy evaluation: %w", err)
	}
	result := &CycleResult{Signal: signal}

	if !signal.ShouldBuy {
		result.State = StateNoSignal
		s.logger.Info(ctx, "No buy signal, cycle ends", map[string]interface{}{
			"nearSupport":      signal.NearSupport,
			"positiveMomentum": signal.PositiveMomentum,
			"close":            signal.ReferencePrice,
		})
		return result, nil
	}

	// Step 3: risk gate against the ledger's current position.
	currentPosition, err := s.ledger.GetPosition(ctx)
	if err != nil {
		return nil, fmt.Errorf("read position: %w", err)
	}
	dailyOrders, err := s.trades.CountTodayBySymbol(ctx, s.cfg.Symbol)
	if err != nil {
		return nil, fmt.Errorf("count today's trades: %w", err)
	}

	decision := s.gate.Check(currentPosition, s.cfg.BaseOrderUSDT, dailyOrders)
	result.Decision = decision
	if !decision.Passed {
		result.State = StateRiskFailed
		s.logger.Warn(ctx, "Risk check rejected order, cycle ends", map[string]interface{}{
			"reason":          string(decision.Reason),
			"detail":          decision.Detail,
			"currentPosition": decision.CurrentPosition,
			"maxPosition":     decision.MaxPosition,
		})
		return result, nil
	}
	s.logger.Info(ctx, "Risk check passed", map[string]interface{}{
		"currentPosition":     decision.CurrentPosition,
		"proposedNewPosition": decision.ProposedNewPosition,
		"utilization":         s.gate.Utilization(decision.ProposedNewPosition),
	})

	// Step 4: size and place the order.
	referencePrice, err := s.fetchTickerPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch ticker price: %w", err)
	}

	params, err := execution.CalculateOrderParams(referencePrice, s.cfg.BaseOrderUSDT, s.cfg.PriceOffset)
	if err != nil {
		return nil, fmt.Errorf("calculate order params: %w", err)
	}

	outcome := s.placeOrder(ctx, params)
	result.Outcome = outcome
	if !outcome.Success {
		result.State = StateOrderFailed
		return result, fmt.Errorf("order placement (%s): %w", outcome.FailureKind, outcome.Err)
	}

	// Step 5: ledger update, only after a confirmed placement. A failure
	// past this point leaves the exchange ahead of the ledger; that must
	// be surfaced loudly for manual reconciliation, never swallowed.
	if err := s.ledger.UpdatePosition(ctx, decision.ProposedNewPosition); err != nil {
		s.logger.Error(ctx, err, "INCONSISTENT STATE: order placed but position update failed, manual reconciliation required", map[string]interface{}{
			"orderID":          outcome.ExchangeOrderID,
			"orderCost":        outcome.Cost,
			"intendedPosition": decision.ProposedNewPosition,
		})
		return nil, fmt.Errorf("position update after placed order %s: %w", outcome.ExchangeOrderID, err)
	}

	trade := &domain.Trade{
		Timestamp: time.Now().UTC(),
		Action:    domain.ActionBuy,
		Symbol:    s.cfg.Symbol,
		Price:     outcome.LimitPrice,
		Quantity:  outcome.Quantity,
		Cost:      outcome.Cost,
		Strategy:  s.strategy.Name(),
	}
	if _, err := s.trades.RecordTrade(ctx, trade); err != nil {
		s.logger.Error(ctx, err, "INCONSISTENT STATE: order placed and position updated but trade record failed, manual reconciliation required", map[string]interface{}{
			"orderID":     outcome.ExchangeOrderID,
			"orderCost":   outcome.Cost,
			"newPosition": decision.ProposedNewPosition,
		})
		return nil, fmt.Errorf("record trade after placed order %s: %w", outcome.ExchangeOrderID, err)
	}

	result.State = StateSuccess
	s.logger.Info(ctx, "Cycle completed, order placed", map[string]interface{}{
		"orderID":     outcome.ExchangeOrderID,
		"limitPrice":  outcome.LimitPrice,
		"quantity":    outcome.Quantity,
		"cost":        outcome.Cost,
		"newPosition": decision.ProposedNewPosition,
		"utilization": s.gate.Utilization(decision.ProposedNewPosition),
	})
	return result, nil
}

func (s *TradingService) fetchCandles(ctx context.Context) ([]domain.Candle, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.exchange.GetCandles(ctx, s.cfg.Symbol, s.cfg.Timeframe, s.cfg.CandleLimit)
}

func (s *TradingService) fetchTickerPrice(ctx context.Context) (float64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.exchange.GetTickerPrice(ctx, s.cfg.Symbol)
}

func (s *TradingService) placeOrder(ctx context.Context, params execution.OrderParams) domain.OrderOutcome {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.orders.PlaceLimitBuy(ctx, s.cfg.Symbol, params)
}

// withTimeout bounds a single exchange interaction so one hung call
// cannot stall the whole cycle.
func (s *TradingService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.cfg.RequestTimeout)
}
