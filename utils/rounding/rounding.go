package rounding

import "github.com/shopspring/decimal"

// Quantity rounds a stock quantity to the 2-decimal precision used everywhere
// in the engine. Every mutation path goes through this so that repeated
// partial deductions cannot accumulate float noise into the ledger.
func Quantity(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Floor truncates a quantity to a whole unit, used when placing orders.
func Floor(v float64) int {
	return int(decimal.NewFromFloat(v).Floor().IntPart())
}

// Ceil rounds a quantity up to a whole unit.
func Ceil(v float64) int {
	return int(decimal.NewFromFloat(v).Ceil().IntPart())
}
