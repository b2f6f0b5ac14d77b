package services

import (
	"fmt"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// DefaultCommissionRate is the partner's share of the order total.
const DefaultCommissionRate = 0.15

// CommissionPolicy computes a partner's earning for a delivered order.
// A single deployment-wide rate applies to every order.
type CommissionPolicy struct {
	rate float64
}

// NewCommissionPolicy validates rate is within [0, 1].
func NewCommissionPolicy(rate float64) (CommissionPolicy, error) {
	if rate < 0 || rate > 1 {
		return CommissionPolicy{}, errs.NewValueIsOutOfRangeError("commission rate", rate, 0, 1)
	}
	return CommissionPolicy{rate: rate}, nil
}

// Rate returns the configured fraction.
func (p CommissionPolicy) Rate() float64 {
	return p.rate
}

// EarningFor returns total × rate rounded to the nearest minor unit.
func (p CommissionPolicy) EarningFor(total kernel.Money) (kernel.Money, error) {
	if total.IsNegative() {
		return 0, errs.NewValueIsInvalidErrorWithCause("order total", fmt.Errorf("%s is negative", total))
	}
	return total.MulRate(p.rate), nil
}
