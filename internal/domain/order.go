package domain

// OrderFailureKind classifies why an order placement failed.
type OrderFailureKind string

const (
	FailureInsufficientFunds OrderFailureKind = "INSUFFICIENT_FUNDS"
	FailureInvalidOrder      OrderFailureKind = "INVALID_ORDER"
	FailureNetwork           OrderFailureKind = "NETWORK"
	FailureUnknown           OrderFailureKind = "UNKNOWN"
)

// OrderOutcome is the structured result of one limit-buy placement attempt.
// Exactly one of the two halves is meaningful: exchange fields on success,
// FailureKind and Err on failure.
type OrderOutcome struct {
	Success         bool
	LimitPrice      float64
	Quantity        float64
	Cost            float64          // LimitPrice * Quantity
	ExchangeOrderID string           // Exchange-assigned ID, empty on failure
	FailureKind     OrderFailureKind // Set only when Success is false
	Err             error            // Underlying error, set only on failure
}
