package domain

import "github.com/shopspring/decimal"

// VariationDirection represents the sign of a price or valuation change
type VariationDirection string

const (
	VariationUp   VariationDirection = "UP"
	VariationDown VariationDirection = "DOWN"
	VariationFlat VariationDirection = "FLAT"
)

var oneHundred = decimal.NewFromInt(100)

// Variation is the absolute and percentage change between two values over
// a comparison window, with a directional sign.
type Variation struct {
	Amount    decimal.Decimal
	Percent   decimal.Decimal
	Direction VariationDirection
}

// ZeroVariation is the variation of an empty or single-point window.
func ZeroVariation() Variation {
	return Variation{
		Amount:    decimal.Zero,
		Percent:   decimal.Zero,
		Direction: VariationFlat,
	}
}

// CompareValues computes the variation of latest against base:
// amount = latest - base, percent relative to base (0 when base is 0).
// Amount and percent are rounded half-up to 2 decimal places; the
// direction is taken from the unrounded amount.
func CompareValues(latest, base decimal.Decimal) Variation {
	amount := latest.Sub(base)

	direction := VariationFlat
	if amount.IsPositive() {
		direction = VariationUp
	} else if amount.IsNegative() {
		direction = VariationDown
	}

	percent := decimal.Zero
	if !base.IsZero() {
		percent = amount.Div(base).Mul(oneHundred)
	}

	return Variation{
		Amount:    amount.Round(2),
		Percent:   percent.Round(2),
		Direction: direction,
	}
}
