package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var ErrTransitionOrderCommandIsNotConstructed = errors.New(
	"TransitionOrderCommand must be created via NewTransitionOrderCommand constructor",
)

// TransitionOrderCommand asks to move an order one step along its lifecycle.
// actingPartner is set when a partner drives the change (pickup, delivery)
// and nil for store or operator actions.
//
// Example:
//
//	cmd, err := NewTransitionOrderCommand(orderID, order.Delivered, &partnerID, "handed to customer")
//	if err != nil {
//	    return err
//	}
//	o, err := handler.Handle(ctx, cmd)
type TransitionOrderCommand struct {
	orderID       kernel.UUID
	target        order.Status
	actingPartner *kernel.UUID
	note          string

	guard guard.ConstructorGuard
}

// NewTransitionOrderCommand validates the order id, the target status and the actor if present.
func NewTransitionOrderCommand(
	orderID kernel.UUID,
	target order.Status,
	actingPartner *kernel.UUID,
	note string,
) (TransitionOrderCommand, error) {
	var actorErr error
	if actingPartner != nil {
		actorErr = actingPartner.Validate()
	}

	if err := errors.Join(orderID.Validate(), target.Validate(), actorErr); err != nil {
		return TransitionOrderCommand{}, err
	}

	return TransitionOrderCommand{
		orderID:       orderID,
		target:        target,
		actingPartner: actingPartner,
		note:          note,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c TransitionOrderCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderCommandIsNotConstructed)
}

func (c TransitionOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c TransitionOrderCommand) Target() order.Status {
	return c.target
}

func (c TransitionOrderCommand) ActingPartner() *kernel.UUID {
	return c.actingPartner
}

func (c TransitionOrderCommand) Note() string {
	return c.note
}
