package kernel

import (
	"fmt"
	"math"

	"dispatch/internal/pkg/errs"
)

// minorUnitsPerMajor is the number of minor units (cents, paise) in one major unit.
const minorUnitsPerMajor = 100

// Money is an amount in minor currency units. Order totals, earnings and
// withdrawals are all Money so ledger arithmetic stays exact.
type Money int64

// MoneyFromMajor converts a major-unit amount such as 1000.00 into minor units,
// rounding half away from zero.
func MoneyFromMajor(amount float64) (Money, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%v is not a finite number", amount))
	}
	return Money(math.Round(amount * minorUnitsPerMajor)), nil
}

// Major returns the amount in major units.
func (m Money) Major() float64 {
	return float64(m) / minorUnitsPerMajor
}

// MulRate applies a fractional rate (0.15 for 15%) and rounds to the nearest minor unit.
func (m Money) MulRate(rate float64) Money {
	return Money(math.Round(float64(m) * rate))
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m < 0
}

// String formats the amount with two decimals, e.g. "150.00".
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/minorUnitsPerMajor, v%minorUnitsPerMajor)
}
