package ports

import "errors"

// Standard application-level errors.
// Adapters wrap underlying infrastructure errors with these standard errors
// so callers can classify failures with errors.Is without importing SDKs.
var (
	// General errors
	ErrUnknown            = errors.New("unknown error occurred")
	ErrInvalidRequest     = errors.New("invalid request parameters or format")
	ErrNotFound           = errors.New("resource not found")
	ErrTimeout            = errors.New("operation timed out")
	ErrConfigurationError = errors.New("invalid or missing configuration")

	// Domain input errors
	ErrEmptyData        = errors.New("candle data is empty")
	ErrInsufficientData = errors.New("not enough candle data")
	ErrInvalidPrice     = errors.New("invalid price or price offset")
	ErrNegativePosition = errors.New("position value cannot be negative")

	// Exchange errors. Unavailable, connection-failed, rate-limited and
	// timeout are the transient kinds eligible for a bounded retry.
	ErrExchangeUnavailable  = errors.New("exchange API is unavailable")
	ErrConnectionFailed     = errors.New("failed to connect to the exchange")
	ErrRateLimited          = errors.New("API rate limit exceeded")
	ErrAuthenticationFailed = errors.New("exchange authentication failed (check API keys)")
	ErrInsufficientFunds    = errors.New("insufficient funds for order")
	ErrInvalidOrder         = errors.New("order rejected as invalid")
	ErrOrderPlacementFailed = errors.New("failed to place order")

	// Storage errors
	ErrQueryFailed  = errors.New("database query failed")
	ErrUpdateFailed = errors.New("database update failed")
)

// IsTransient reports whether err is a transient infrastructure error that
// a retry policy may attempt again. Application-level rejections
// (insufficient funds, invalid order) are never transient.
func IsTransient(err error) bool {
	return errors.Is(err, ErrExchangeUnavailable) ||
		errors.Is(err, ErrConnectionFailed) ||
		errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrTimeout)
}
