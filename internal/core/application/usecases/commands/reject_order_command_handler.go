package commands

import (
	"context"
	"log/slog"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/clock"
)

// RejectOrderCommandHandler unassigns an order from the partner who claimed it.
// Only the assigned partner may reject, and only while the order is still
// dispatched; after pickup the conditional write matches nothing and the
// handler returns order.ErrRejectNotAllowed. The order re-enters the
// claimable pool and is announced again after commit.
type RejectOrderCommandHandler struct {
	uowFactory UoWFactory
	notifier   EventNotifier
	clock      clock.Clock
	logger     *slog.Logger
}

// NewRejectOrderCommandHandler creates a handler for rejections.
func NewRejectOrderCommandHandler(
	uowFactory UoWFactory,
	notifier EventNotifier,
	clk clock.Clock,
	logger *slog.Logger,
) RejectOrderCommandHandler {
	return RejectOrderCommandHandler{
		uowFactory: uowFactory,
		notifier:   notifier,
		clock:      clk,
		logger:     logger.With("component", "RejectOrderCommandHandler"),
	}
}

// Handle returns the order back in ready_for_pickup.
func (h RejectOrderCommandHandler) Handle(ctx context.Context, cmd RejectOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	o, err := orderRepo.Unassign(ctx, cmd.OrderID(), cmd.PartnerID())
	if err != nil {
		return nil, err
	}

	note := "rejected by partner"
	if cmd.Reason() != "" {
		note += ": " + cmd.Reason()
	}

	partnerID := cmd.PartnerID()
	event, err := order.NewStatusEvent(o.ID(), order.ReadyForPickup, &partnerID, note, h.clock.Now())
	if err != nil {
		return nil, err
	}
	if err = orderRepo.AppendEvent(ctx, event); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "order rejected",
		"order_id", o.ID().String(),
		"partner_id", partnerID.String(),
	)
	h.notifier.StatusChanged(ctx, o)
	return o, nil
}
