// Package money is the single place where base catalog prices become display
// amounts. Nothing else multiplies prices by a rate.
package money

import (
	"github.com/shopspring/decimal"
)

const places = 2

type Converter struct {
	Rate     decimal.Decimal
	TaxRate  decimal.Decimal
	Symbol   string
	Currency string
}

func Default() Converter {
	return Converter{
		Rate:     decimal.NewFromInt(75),
		TaxRate:  decimal.RequireFromString("0.08"),
		Symbol:   "₹",
		Currency: "INR",
	}
}

// Display converts a base amount into the display currency.
func (c Converter) Display(base decimal.Decimal) decimal.Decimal {
	return base.Mul(c.Rate).Round(places)
}

func (c Converter) Format(base decimal.Decimal) string {
	return c.Symbol + c.Display(base).StringFixed(places)
}

type Summary struct {
	Currency string          `json:"currency"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

// Summarize prices a base subtotal for display. Shipping is free.
func (c Converter) Summarize(baseSubtotal decimal.Decimal) Summary {
	subtotal := c.Display(baseSubtotal)
	tax := subtotal.Mul(c.TaxRate).Round(places)
	shipping := decimal.Zero

	return Summary{
		Currency: c.Currency,
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal.Add(tax).Add(shipping),
	}
}
