// SPDX-License-Identifier: Apache-2.0

// Package money holds the exact-decimal conventions shared by every line
// calculation: all amounts are base-10 decimals, and a single canonical
// rounding rule (round half away from zero, to whole dollars) is applied only
// at each line's defined output point, never to intermediate sub-expressions
// and never to inputs.
package money

import "github.com/shopspring/decimal"

// Zero is the canonical zero amount.
var Zero = decimal.Zero

// RoundToDollar rounds an amount to the nearest whole dollar, with ties
// rounding away from zero. Rounding an already-rounded amount is a no-op.
func RoundToDollar(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(0)
}

// RoundTo rounds to the given number of decimal places with the same
// half-away-from-zero tie rule. Used by the ratio and factor lines that the
// forms define to four decimals.
func RoundTo(amount decimal.Decimal, places int32) decimal.Decimal {
	return amount.Round(places)
}

// Min returns the smaller of two amounts.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThanOrEqual(b) {
		return a
	}
	return b
}

// Max returns the larger of two amounts.
func Max(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThanOrEqual(b) {
		return a
	}
	return b
}
