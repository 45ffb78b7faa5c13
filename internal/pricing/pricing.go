// Package pricing computes markup-adjusted prices and cart aggregates over integral cents.
//
// Markup multiplication is done in exact decimal arithmetic and rounded once, half away
// from zero, so results match JavaScript's Math.round on the non-negative domain.
package pricing

import (
	"math"

	"github.com/shopspring/decimal"
)

const DefaultMarkupPercentage = 25.0

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// Item is the pricing view of a cart line.
type Item struct {
	PriceCents       Cents
	MarkupPercentage float64
	Quantity         int
}

type CartTotals struct {
	SubtotalCents     Cents  `json:"subtotalCents"`
	TotalCents        Cents  `json:"totalCents"`
	AverageMarkup     int    `json:"averageMarkup"`
	SubtotalFormatted string `json:"subtotalFormatted"`
	TotalFormatted    string `json:"totalFormatted"`
}

// ZeroTotals is what an empty cart totals to.
func ZeroTotals() CartTotals {
	return CartTotals{
		SubtotalFormatted: FormatCurrency(0),
		TotalFormatted:    FormatCurrency(0),
	}
}

// ApplyMarkup returns round(price * (1 + markup/100)).
func ApplyMarkup(price Cents, markupPercentage float64) (Cents, error) {
	if price < 0 {
		return 0, NewInvalidArgumentf("%s: %d", ErrMsgNegativePrice, price)
	}
	if math.IsNaN(markupPercentage) || math.IsInf(markupPercentage, 0) {
		return 0, NewInvalidArgument(ErrMsgInvalidMarkup)
	}

	factor := decimal.NewFromFloat(markupPercentage).Div(hundred).Add(one)
	marked := decimal.NewFromInt(int64(price)).Mul(factor).Round(0)
	return Cents(marked.IntPart()), nil
}

// CalculateAverageMarkup is the blended uplift across items weighted by pre-markup price.
// Quantity is deliberately not a weight here.
func CalculateAverageMarkup(items []Item) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	var totalPrice, totalAfterMarkup int64
	for _, it := range items {
		marked, err := ApplyMarkup(it.PriceCents, it.MarkupPercentage)
		if err != nil {
			return 0, err
		}
		totalPrice += int64(it.PriceCents)
		totalAfterMarkup += int64(marked)
	}

	if totalPrice == 0 {
		return 0, nil
	}

	ratio := decimal.NewFromInt(totalAfterMarkup).Div(decimal.NewFromInt(totalPrice))
	return int(ratio.Sub(one).Mul(hundred).Round(0).IntPart()), nil
}

// CalculateCartTotals applies markup per unit price, rounds, and only then multiplies by quantity.
func CalculateCartTotals(items []Item) (CartTotals, error) {
	if len(items) == 0 {
		return ZeroTotals(), nil
	}

	var subtotal, total Cents
	for _, it := range items {
		marked, err := ApplyMarkup(it.PriceCents, it.MarkupPercentage)
		if err != nil {
			return CartTotals{}, err
		}
		q := Cents(it.Quantity)
		subtotal += it.PriceCents * q
		total += marked * q
	}

	avg, err := CalculateAverageMarkup(items)
	if err != nil {
		return CartTotals{}, err
	}

	return CartTotals{
		SubtotalCents:     subtotal,
		TotalCents:        total,
		AverageMarkup:     avg,
		SubtotalFormatted: FormatCurrency(subtotal),
		TotalFormatted:    FormatCurrency(total),
	}, nil
}
