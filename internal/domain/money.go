package domain

import "math"

// MoneyEpsilon is the single tolerance used for money comparisons.
// Amounts closer than this are considered equal.
const MoneyEpsilon = 0.01

// MoneyEqual reports whether two amounts are equal within MoneyEpsilon.
func MoneyEqual(a, b float64) bool {
	return math.Abs(a-b) <= MoneyEpsilon
}

// MoneyLess reports whether a is below b by more than MoneyEpsilon.
func MoneyLess(a, b float64) bool {
	return a < b-MoneyEpsilon
}

// MoneySameCents reports whether two amounts round to the same cent.
// Stricter than MoneyEqual: a split one cent short of the total must
// not settle.
func MoneySameCents(a, b float64) bool {
	return math.Round(a*100) == math.Round(b*100)
}
