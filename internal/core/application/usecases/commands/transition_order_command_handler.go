package commands

import (
	"context"
	"errors"
	"log/slog"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/clock"
)

// TransitionOrderCommandHandler drives the order state machine.
//
// Each attempt reads the order fresh, validates the edge on the aggregate and
// writes it back with a compare-and-set on the status it read. The history
// entry, and on delivery the earning and the partner's delivery count, are
// written in the same transaction. A lost race (order.ErrStaleTransition) is
// retried once against a fresh read; a second loss is returned to the caller.
//
// Example:
//
//	handler := NewTransitionOrderCommandHandler(uowFactory, policy, notifier, clock.System{}, logger)
//	o, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, order.ErrInvalidTransition):
//	    // edge not in the table, do not retry
//	case errors.Is(err, order.ErrStaleTransition):
//	    // another actor moved the order twice in a row
//	}
type TransitionOrderCommandHandler struct {
	uowFactory UoWFactory
	policy     services.CommissionPolicy
	notifier   EventNotifier
	clock      clock.Clock
	logger     *slog.Logger
}

// NewTransitionOrderCommandHandler creates a handler for lifecycle transitions.
func NewTransitionOrderCommandHandler(
	uowFactory UoWFactory,
	policy services.CommissionPolicy,
	notifier EventNotifier,
	clk clock.Clock,
	logger *slog.Logger,
) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
		notifier:   notifier,
		clock:      clk,
		logger:     logger.With("component", "TransitionOrderCommandHandler"),
	}
}

// Handle applies the transition and returns the committed order.
func (h TransitionOrderCommandHandler) Handle(ctx context.Context, cmd TransitionOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	o, err := h.attempt(ctx, cmd)
	if errors.Is(err, order.ErrStaleTransition) {
		h.logger.InfoContext(ctx, "stale transition, retrying once",
			"order_id", cmd.OrderID().String(),
			"target", cmd.Target().String(),
		)
		o, err = h.attempt(ctx, cmd)
	}
	if err != nil {
		return nil, err
	}

	h.notifier.StatusChanged(ctx, o)
	return o, nil
}

func (h TransitionOrderCommandHandler) attempt(ctx context.Context, cmd TransitionOrderCommand) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	expected := o.Status()
	now := h.clock.Now()

	if err = o.Transition(cmd.Target(), cmd.ActingPartner(), now); err != nil {
		return nil, err
	}

	if err = orderRepo.UpdateStatus(ctx, o, expected); err != nil {
		return nil, err
	}

	event, err := order.NewStatusEvent(o.ID(), o.Status(), o.Partner(), cmd.Note(), now)
	if err != nil {
		return nil, err
	}
	if err = orderRepo.AppendEvent(ctx, event); err != nil {
		return nil, err
	}

	if o.Status() == order.Delivered {
		record, created, creditErr := creditDelivery(ctx, uow, h.policy,
			o.ID(), *o.Partner(), o.Total(), *o.DeliveryDurationMinutes(), now)
		if creditErr != nil {
			return nil, creditErr
		}
		if created {
			h.logger.InfoContext(ctx, "earning recorded",
				"order_id", o.ID().String(),
				"partner_id", o.Partner().String(),
				"amount", record.Amount().String(),
			)
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
