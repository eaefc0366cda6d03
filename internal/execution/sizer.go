package execution

import (
	"fmt"

	"accumbot/internal/ports"

	"github.com/shopspring/decimal"
)

// Exchange string formatting widths. Spot pairs for low-priced assets
// need the full 8 price decimals; quantity precision is coarser.
const (
	pricePrecision    = 8
	quantityPrecision = 6
)

// OrderParams are the computed limit-order parameters. Decimal is used so
// the strings sent to the exchange are exact, not float-formatted.
type OrderParams struct {
	LimitPrice decimal.Decimal
	Quantity   decimal.Decimal
}

// PriceString returns the limit price as an exchange-ready string.
func (p OrderParams) PriceString() string {
	return p.LimitPrice.StringFixed(pricePrecision)
}

// QuantityString returns the quantity as an exchange-ready string.
func (p OrderParams) QuantityString() string {
	return p.Quantity.StringFixed(quantityPrecision)
}

// Cost returns LimitPrice * Quantity.
func (p OrderParams) Cost() decimal.Decimal {
	return p.LimitPrice.Mul(p.Quantity)
}

// CalculateOrderParams converts a market reference price into limit-order
// parameters: limitPrice = referencePrice * priceOffset, quantity =
// budgetUSDT / limitPrice. The offset must lie strictly in (0,1) so the
// limit always bids below the current market price.
func CalculateOrderParams(referencePrice, budgetUSDT, priceOffset float64) (OrderParams, error) {
	if referencePrice <= 0 {
		return OrderParams{}, fmt.Errorf("reference price %.8f must be positive: %w", referencePrice, ports.ErrInvalidPrice)
	}
	if priceOffset <= 0 || priceOffset >= 1 {
		return OrderParams{}, fmt.Errorf("price offset %.4f must be in (0,1): %w", priceOffset, ports.ErrInvalidPrice)
	}
	if budgetUSDT <= 0 {
		return OrderParams{}, fmt.Errorf("order budget %.2f must be positive: %w", budgetUSDT, ports.ErrInvalidRequest)
	}

	limitPrice := decimal.NewFromFloat(referencePrice).Mul(decimal.NewFromFloat(priceOffset))
	quantity := decimal.NewFromFloat(budgetUSDT).Div(limitPrice)

	return OrderParams{LimitPrice: limitPrice, Quantity: quantity}, nil
}
