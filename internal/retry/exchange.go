package retry

import (
	"context"

	"accumbot/internal/domain"
	"accumbot/internal/ports"
)

// Exchange wraps a ports.ExchangeClient so that every network-boundary
// call runs under the retry policy. Risk rejections and exchange-level
// order rejections are not transient and pass through untouched.
type Exchange struct {
	next   ports.ExchangeClient
	policy *Policy
}

// WrapExchange applies policy to all calls on next.
func WrapExchange(next ports.ExchangeClient, policy *Policy) *Exchange {
	return &Exchange{next: next, policy: policy}
}

// GetCandles retries transient fetch failures.
func (e *Exchange) GetCandles(ctx context.Context, symbol, timeframe string, limit int) ([]domain.Candle, error) {
	var candles []domain.Candle
	err := e.policy.Do(ctx, "GetCandles", func() error {
		var err error
		candles, err = e.next.GetCandles(ctx, symbol, timeframe, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return candles, nil
}

// GetTickerPrice retries transient fetch failures.
func (e *Exchange) GetTickerPrice(ctx context.Context, symbol string) (float64, error) {
	var price float64
	err := e.policy.Do(ctx, "GetTickerPrice", func() error {
		var err error
		price, err = e.next.GetTickerPrice(ctx, symbol)
		return err
	})
	if err != nil {
		return 0, err
	}
	return price, nil
}

// PlaceLimitBuy retries transient placement failures. Insufficient funds
// and invalid-order rejections surface on the first attempt.
func (e *Exchange) PlaceLimitBuy(ctx context.Context, order ports.LimitOrder) (*ports.OrderAck, error) {
	var ack *ports.OrderAck
	err := e.policy.Do(ctx, "PlaceLimitBuy", func() error {
		var err error
		ack, err = e.next.PlaceLimitBuy(ctx, order)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ack, nil
}
