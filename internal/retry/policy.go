package retry

import (
	"context"
	"fmt"
	"time"

	"accumbot/internal/ports"

	"github.com/jpillora/backoff"
)

// Policy retries an operation a bounded number of times with exponential
// backoff. Only transient infrastructure errors (see ports.IsTransient)
// are retried; application-level rejections surface immediately.
type Policy struct {
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
	jitter      bool
	logger      ports.Logger
}

// Config holds retry policy parameters.
type Config struct {
	MaxAttempts int           // total attempts including the first, default 3
	BaseDelay   time.Duration // first backoff delay, default 500ms
	MaxDelay    time.Duration // backoff ceiling, default 10s
	Jitter      bool          // randomize delays to avoid thundering herds
}

// NewPolicy creates a retry policy.
func NewPolicy(cfg Config, logger ports.Logger) *Policy {
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	baseDelay := cfg.BaseDelay
	if baseDelay <= 0 {
		baseDelay = 500 * time.Millisecond
	}
	maxDelay := cfg.MaxDelay
	if maxDelay <= 0 {
		maxDelay = 10 * time.Second
	}
	return &Policy{
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		maxDelay:    maxDelay,
		jitter:      cfg.Jitter,
		logger:      logger,
	}
}

// Do runs fn, retrying transient failures until the attempt budget is
// exhausted or ctx is done. The last error is returned wrapped with the
// operation name and attempt count.
func (p *Policy) Do(ctx context.Context, operation string, fn func() error) error {
	b := &backoff.Backoff{
		Min:    p.baseDelay,
		Max:    p.maxDelay,
		Factor: 2,
		Jitter: p.jitter,
	}

	var lastErr error
	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !ports.IsTransient(lastErr) {
			return lastErr
		}
		if attempt == p.maxAttempts {
			break
		}

		delay := b.Duration()
		if p.logger != nil {
			p.logger.Warn(ctx, "Transient failure, retrying", map[string]interface{}{
				"operation": operation,
				"attempt":   attempt,
				"delay":     delay.String(),
				"error":     lastErr.Error(),
			})
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%s aborted during retry: %w", operation, ctx.Err())
		case <-time.After(delay):
		}
	}
	return fmt.Errorf("%s failed after %d attempts: %w", operation, p.maxAttempts, lastErr)
}
