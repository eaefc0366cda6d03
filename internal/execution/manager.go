package execution

import (
	"context"
	"errors"
	"fmt"

	"accumbot/internal/domain"
	"accumbot/internal/ports"
)

// OrderManager submits sized limit buys through the exchange collaborator
// and translates the result into a structured OrderOutcome. It never
// retries (retry lives at the exchange boundary) and never touches the
// position ledger; the caller updates the ledger only on success.
type OrderManager struct {
	exchange ports.ExchangeClient
	logger   ports.Logger
}

// NewOrderManager creates an order manager.
func NewOrderManager(exchange ports.ExchangeClient, logger ports.Logger) (*OrderManager, error) {
	if exchange == nil {
		return nil, fmt.Errorf("exchange client is required for order manager")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for order manager")
	}
	return &OrderManager{exchange: exchange, logger: logger}, nil
}

// PlaceLimitBuy submits the order and returns a structured outcome. The
// outcome carries a failure kind instead of propagating an error so the
// caller can distinguish terminal rejections from cycle failures.
func (m *OrderManager) PlaceLimitBuy(ctx context.Context, symbol string, params OrderParams) domain.OrderOutcome {
	order := ports.LimitOrder{
		Symbol:        symbol,
		Price:         params.PriceString(),
		Quantity:      params.QuantityString(),
		PriceValue:    params.LimitPrice.InexactFloat64(),
		QuantityValue: params.Quantity.InexactFloat64(),
	}

	ack, err := m.exchange.PlaceLimitBuy(ctx, order)
	if err != nil {
		kind := classifyFailure(err)
		m.logger.Warn(ctx, "Order placement failed", map[string]interface{}{
			"symbol":      symbol,
			"price":       order.Price,
			"quantity":    order.Quantity,
			"failureKind": string(kind),
			"error":       err.Error(),
		})
		return domain.OrderOutcome{
			Success:     false,
			LimitPrice:  order.PriceValue,
			Quantity:    order.QuantityValue,
			FailureKind: kind,
			Err:         err,
		}
	}

	outcome := domain.OrderOutcome{
		Success:         true,
		LimitPrice:      order.PriceValue,
		Quantity:        order.QuantityValue,
		Cost:            params.Cost().InexactFloat64(),
		ExchangeOrderID: ack.OrderID,
	}
	m.logger.Info(ctx, "Limit buy placed", map[string]interface{}{
		"symbol":   symbol,
		"price":    order.Price,
		"quantity": order.Quantity,
		"cost":     outcome.Cost,
		"orderID":  ack.OrderID,
		"status":   ack.Status,
	})
	return outcome
}

func classifyFailure(err error) domain.OrderFailureKind {
	switch {
	case errors.Is(err, ports.ErrInsufficientFunds):
		return domain.FailureInsufficientFunds
	case errors.Is(err, ports.ErrInvalidOrder), errors.Is(err, ports.ErrInvalidRequest):
		return domain.FailureInvalidOrder
	case ports.IsTransient(err):
		return domain.FailureNetwork
	default:
		return domain.FailureUnknown
	}
}
