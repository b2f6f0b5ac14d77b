package commands

import (
	"context"
	"fmt"

	"dispatch/internal/core/domain/model/earning"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/clock"
)

// RecordEarningCommandHandler credits one delivered order idempotently.
type RecordEarningCommandHandler struct {
	uowFactory UoWFactory
	policy     services.CommissionPolicy
	clock      clock.Clock
}

// NewRecordEarningCommandHandler creates a handler using the deployment's commission policy.
func NewRecordEarningCommandHandler(
	uowFactory UoWFactory,
	policy services.CommissionPolicy,
	clk clock.Clock,
) RecordEarningCommandHandler {
	return RecordEarningCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
		clock:      clk,
	}
}

// Handle returns the earning of the order and whether it was newly stored.
// A duplicate is not an error. The order must be delivered by cmd.PartnerID().
func (h RecordEarningCommandHandler) Handle(ctx context.Context, cmd RecordEarningCommand) (earning.Record, bool, error) {
	if err := cmd.Validate(); err != nil {
		return earning.Record{}, false, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return earning.Record{}, false, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return earning.Record{}, false, err
	}
	if o.Status() != order.Delivered || o.DeliveryDurationMinutes() == nil {
		return earning.Record{}, false, fmt.Errorf("%w: order %s is %s", earning.ErrOrderNotDelivered, o.ID(), o.Status())
	}
	if !o.IsAssignedTo(cmd.PartnerID()) {
		return earning.Record{}, false, fmt.Errorf("%w: %s", order.ErrNotAssignedPartner, cmd.PartnerID())
	}

	record, created, err := creditDelivery(ctx, uow, h.policy,
		o.ID(), *o.Partner(), o.Total(), *o.DeliveryDurationMinutes(), h.clock.Now())
	if err != nil {
		return earning.Record{}, false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return earning.Record{}, false, err
	}

	return record, created, nil
}
