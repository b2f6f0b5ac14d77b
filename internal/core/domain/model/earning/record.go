package earning

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// ErrDuplicate is returned when an earning for the order already exists.
// Callers recording an earning treat it as success.
var ErrDuplicate = errors.New("earning already recorded for order")

// ErrOrderNotDelivered is returned when crediting an order that has not been delivered.
var ErrOrderNotDelivered = errors.New("order is not delivered")

// Record is the partner's credit for one delivered order. There is at most
// one Record per order id.
type Record struct {
	id              kernel.UUID
	orderID         kernel.UUID
	partnerID       kernel.UUID
	amount          kernel.Money
	durationMinutes int
	createdAt       time.Time
}

// NewRecord creates the earning of a delivered order. amount is the partner's
// share as computed by the commission policy.
func NewRecord(orderID, partnerID kernel.UUID, amount kernel.Money, durationMinutes int, createdAt time.Time) (Record, error) {
	return RestoreRecord(kernel.NewUUID(), orderID, partnerID, amount, durationMinutes, createdAt)
}

// RestoreRecord rebuilds a stored earning.
func RestoreRecord(
	id, orderID, partnerID kernel.UUID,
	amount kernel.Money,
	durationMinutes int,
	createdAt time.Time,
) (Record, error) {
	var amountErr, durationErr, createdErr error
	if amount.IsNegative() {
		amountErr = errs.NewValueIsInvalidErrorWithCause("amount is invalid", fmt.Errorf("%s is negative", amount))
	}
	if durationMinutes < 0 {
		durationErr = errs.NewValueIsOutOfRangeError("delivery duration minutes", durationMinutes, 0, "unbounded")
	}
	if createdAt.IsZero() {
		createdErr = errs.NewValueIsRequiredError("created at")
	}

	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		partnerID.Validate(),
		amountErr,
		durationErr,
		createdErr,
	); err != nil {
		return Record{}, err
	}

	return Record{
		id:              id,
		orderID:         orderID,
		partnerID:       partnerID,
		amount:          amount,
		durationMinutes: durationMinutes,
		createdAt:       createdAt,
	}, nil
}

func (r Record) ID() kernel.UUID {
	return r.id
}

func (r Record) OrderID() kernel.UUID {
	return r.orderID
}

func (r Record) PartnerID() kernel.UUID {
	return r.partnerID
}

// Amount is the credited amount in minor units.
func (r Record) Amount() kernel.Money {
	return r.amount
}

// DurationMinutes is the frozen SLA clock of the delivery.
func (r Record) DurationMinutes() int {
	return r.durationMinutes
}

func (r Record) CreatedAt() time.Time {
	return r.createdAt
}
