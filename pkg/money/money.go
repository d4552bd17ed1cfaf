// Package money provides exact fixed-point USD amounts for metered API costs.
//
// Amounts are stored as int64 micro-dollars (1e-6 USD) because per-request LLM
// costs are routinely sub-cent. Integer arithmetic keeps period totals exact
// under any partitioning of the ledger.
package money

import (
	"fmt"
	"math"
)

// Money is an amount of US dollars in micro-dollar units.
type Money int64

const microsPerDollar = 1_000_000

// FromDollars converts a float dollar amount to Money, rounding half away
// from zero at micro-dollar precision.
func FromDollars(d float64) Money {
	return Money(math.Round(d * microsPerDollar))
}

// Dollars returns the amount as a float64 dollar value.
func (m Money) Dollars() float64 {
	return float64(m) / microsPerDollar
}

// Format renders the amount as a dollar string with four decimal places,
// the precision used throughout cost reports.
func (m Money) Format() string {
	return fmt.Sprintf("$%.4f", m.Dollars())
}

// FormatCents renders the amount with two decimal places, used for balances
// and configured thresholds.
func (m Money) FormatCents() string {
	return fmt.Sprintf("$%.2f", m.Dollars())
}
