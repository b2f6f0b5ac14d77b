package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrRejectOrderCommandIsNotConstructed = errors.New(
	"RejectOrderCommand must be created via NewRejectOrderCommand constructor",
)

// RejectOrderCommand hands a claimed order back before pickup.
type RejectOrderCommand struct {
	orderID   kernel.UUID
	partnerID kernel.UUID
	reason    string

	guard guard.ConstructorGuard
}

// NewRejectOrderCommand validates both identifiers; reason is optional.
func NewRejectOrderCommand(orderID, partnerID kernel.UUID, reason string) (RejectOrderCommand, error) {
	if err := errors.Join(orderID.Validate(), partnerID.Validate()); err != nil {
		return RejectOrderCommand{}, err
	}

	return RejectOrderCommand{
		orderID:   orderID,
		partnerID: partnerID,
		reason:    reason,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c RejectOrderCommand) Validate() error {
	return c.guard.Validate(ErrRejectOrderCommandIsNotConstructed)
}

func (c RejectOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c RejectOrderCommand) PartnerID() kernel.UUID {
	return c.partnerID
}

func (c RejectOrderCommand) Reason() string {
	return c.reason
}
