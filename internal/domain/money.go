package domain

import (
	"fmt"
	"math"
)

// Money is an amount in cents.
type Money int64

func MoneyFromFloat(v float64) Money {
	return Money(math.Round(v * 100))
}

// String renders the amount as a plain two-decimal number, e.g. "42.97".
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Dollars renders the amount with a leading dollar sign.
func (m Money) Dollars() string {
	return "$" + m.String()
}
