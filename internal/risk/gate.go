package risk

import "fmt"

// Reason classifies why the gate passed or rejected an order.
type Reason string

const (
	ReasonOK                    Reason = "OK"
	ReasonPositionLimitExceeded Reason = "POSITION_LIMIT_EXCEEDED"
	ReasonOrderTooLarge         Reason = "ORDER_TOO_LARGE"
	ReasonDailyLimitReached     Reason = "DAILY_LIMIT_REACHED"
)

// DailyCountUnknown disables the daily-order check for a single call,
// for callers that cannot supply a count.
const DailyCountUnknown = -1

// Decision is the result of one risk check, produced and consumed within
// a single cycle.
type Decision struct {
	Passed              bool
	Reason              Reason
	Detail              string
	CurrentPosition     float64
	ProposedNewPosition float64
	MaxPosition         float64
}

// Config holds the static limits the gate enforces.
type Config struct {
	MaxPositionUSDT float64 // position ceiling; must be > 0
	MaxOrderUSDT    float64 // single-order ceiling; must be > 0
	MaxDailyOrders  int     // daily order cap; <= 0 disables the check
}

// Gate applies static position and order limits. It is pure: no I/O, no
// retained state between checks. MaxPositionUSDT == 0 is a configuration
// error the caller must prevent upstream; the gate does not defend
// against it.
type Gate struct {
	cfg Config
}

// NewGate creates a risk gate with the given limits.
func NewGate(cfg Config) *Gate {
	return &Gate{cfg: cfg}
}

// Check validates an order against the limits. Checks run in a fixed
// order and short-circuit on the first failure, so the reported reason is
// deterministic when several limits are violated at once:
//
//  1. position limit
//  2. single-order size
//  3. daily order count (skipped when dailyOrders is DailyCountUnknown
//     or no cap is configured)
func (g *Gate) Check(currentPosition, orderSize float64, dailyOrders int) Decision {
	newPosition := currentPosition + orderSize

	if newPosition > g.cfg.MaxPositionUSDT {
		return Decision{
			Passed: false,
			Reason: ReasonPositionLimitExceeded,
			Detail: fmt.Sprintf("position limit exceeded: %.2f > %.2f USDT",
				newPosition, g.cfg.MaxPositionUSDT),
			CurrentPosition:     currentPosition,
			ProposedNewPosition: newPosition,
			MaxPosition:         g.cfg.MaxPositionUSDT,
		}
	}

	if orderSize > g.cfg.MaxOrderUSDT {
		return Decision{
			Passed: false,
			Reason: ReasonOrderTooLarge,
			Detail: fmt.Sprintf("order size too large: %.2f > %.2f USDT",
				orderSize, g.cfg.MaxOrderUSDT),
			CurrentPosition:     currentPosition,
			ProposedNewPosition: newPosition,
			MaxPosition:         g.cfg.MaxPositionUSDT,
		}
	}

	if dailyOrders != DailyCountUnknown && g.cfg.MaxDailyOrders > 0 && dailyOrders >= g.cfg.MaxDailyOrders {
		return Decision{
			Passed: false,
			Reason: ReasonDailyLimitReached,
			Detail: fmt.Sprintf("daily order limit reached: %d >= %d",
				dailyOrders, g.cfg.MaxDailyOrders),
			CurrentPosition:     currentPosition,
			ProposedNewPosition: newPosition,
			MaxPosition:         g.cfg.MaxPositionUSDT,
		}
	}

	return Decision{
		Passed:              true,
		Reason:              ReasonOK,
		Detail:              "risk checks passed",
		CurrentPosition:     currentPosition,
		ProposedNewPosition: newPosition,
		MaxPosition:         g.cfg.MaxPositionUSDT,
	}
}

// Utilization returns the share of the position ceiling in use, 0-100.
func (g *Gate) Utilization(currentPosition float64) float64 {
	return currentPosition / g.cfg.MaxPositionUSDT * 100
}

// AvailableCapacity returns the remaining position headroom in USDT,
// never negative.
func (g *Gate) AvailableCapacity(currentPosition float64) float64 {
	available := g.cfg.MaxPositionUSDT - currentPosition
	if available < 0 {
		return 0
	}
	return available
}
