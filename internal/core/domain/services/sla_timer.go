package services

import (
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

const (
	// DefaultSLABudget is the delivery promise used when none is configured.
	DefaultSLABudget = 10 * time.Minute
	// DefaultPartnerSLABudget is the partner's own countdown from the moment of the claim.
	DefaultPartnerSLABudget = 8 * time.Minute
)

// SLASnapshot is the timer state of one order at one instant.
type SLASnapshot struct {
	Budget           time.Duration
	Elapsed          time.Duration
	Remaining        time.Duration
	Overdue          bool
	Frozen           bool
	PartnerElapsed   time.Duration
	PartnerRemaining time.Duration
}

// SLATimer computes the delivery-promise clock of an order. It holds no state
// besides the deployment-wide budgets; every result is a function of the
// order's timestamps and the instant passed in.
//
// The order clock starts at created_at. It freezes at delivered_at once the
// order is delivered. The partner clock starts at accepted_at and is
// informational only: it never affects overdue classification.
type SLATimer struct {
	budget        time.Duration
	partnerBudget time.Duration
}

// NewSLATimer validates both budgets are positive.
func NewSLATimer(budget, partnerBudget time.Duration) (SLATimer, error) {
	if budget <= 0 {
		return SLATimer{}, errs.NewValueIsInvalidErrorWithCause("sla budget", fmt.Errorf("%s is not greater than 0", budget))
	}
	if partnerBudget <= 0 {
		return SLATimer{}, errs.NewValueIsInvalidErrorWithCause("partner sla budget", fmt.Errorf("%s is not greater than 0", partnerBudget))
	}
	return SLATimer{budget: budget, partnerBudget: partnerBudget}, nil
}

// Budget returns the configured order budget.
func (t SLATimer) Budget() time.Duration {
	return t.budget
}

// Elapsed returns now - created_at, or delivered_at - created_at once delivered.
// A clock skewed into the past yields zero.
func (t SLATimer) Elapsed(o *order.Order, now time.Time) time.Duration {
	end := now
	if at := o.DeliveredAt(); at != nil {
		end = *at
	}
	return nonNegative(end.Sub(o.CreatedAt()))
}

// Remaining returns max(0, budget - elapsed).
func (t SLATimer) Remaining(o *order.Order, now time.Time) time.Duration {
	return nonNegative(t.budget - t.Elapsed(o, now))
}

// IsOverdue reports elapsed > budget for any order that is not delivered.
func (t SLATimer) IsOverdue(o *order.Order, now time.Time) bool {
	return o.Status() != order.Delivered && t.Elapsed(o, now) > t.budget
}

// PartnerElapsed returns the time since the current partner claimed the order,
// or zero when unassigned.
func (t SLATimer) PartnerElapsed(o *order.Order, now time.Time) time.Duration {
	accepted := o.AcceptedAt()
	if accepted == nil {
		return 0
	}

	end := now
	if at := o.DeliveredAt(); at != nil {
		end = *at
	}
	return nonNegative(end.Sub(*accepted))
}

// PartnerRemaining returns the partner countdown, or zero when unassigned.
func (t SLATimer) PartnerRemaining(o *order.Order, now time.Time) time.Duration {
	if o.AcceptedAt() == nil {
		return 0
	}
	return nonNegative(t.partnerBudget - t.PartnerElapsed(o, now))
}

// FinalDuration returns the frozen delivery duration; ok is false until delivered.
func (t SLATimer) FinalDuration(o *order.Order) (time.Duration, bool) {
	at := o.DeliveredAt()
	if at == nil {
		return 0, false
	}
	return nonNegative(at.Sub(o.CreatedAt())), true
}

// Snapshot evaluates every clock at once.
func (t SLATimer) Snapshot(o *order.Order, now time.Time) SLASnapshot {
	return SLASnapshot{
		Budget:           t.budget,
		Elapsed:          t.Elapsed(o, now),
		Remaining:        t.Remaining(o, now),
		Overdue:          t.IsOverdue(o, now),
		Frozen:           o.DeliveredAt() != nil,
		PartnerElapsed:   t.PartnerElapsed(o, now),
		PartnerRemaining: t.PartnerRemaining(o, now),
	}
}

func nonNegative(d time.Duration) time.Duration {
	if d < 0 {
		return 0
	}
	return d
}
