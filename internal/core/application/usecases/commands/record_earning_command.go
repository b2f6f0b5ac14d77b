package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrRecordEarningCommandIsNotConstructed = errors.New(
	"RecordEarningCommand must be created via NewRecordEarningCommand constructor",
)

// RecordEarningCommand credits a partner for a delivered order outside the
// delivered transition, for retries and backfills. The total and the delivery
// duration are taken from the stored order. Recording the same order twice is a no-op.
type RecordEarningCommand struct {
	orderID   kernel.UUID
	partnerID kernel.UUID

	guard guard.ConstructorGuard
}

// NewRecordEarningCommand validates both identifiers.
func NewRecordEarningCommand(orderID, partnerID kernel.UUID) (RecordEarningCommand, error) {
	if err := errors.Join(orderID.Validate(), partnerID.Validate()); err != nil {
		return RecordEarningCommand{}, err
	}

	return RecordEarningCommand{
		orderID:   orderID,
		partnerID: partnerID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RecordEarningCommand) Validate() error {
	return c.guard.Validate(ErrRecordEarningCommandIsNotConstructed)
}

func (c RecordEarningCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c RecordEarningCommand) PartnerID() kernel.UUID {
	return c.partnerID
}
