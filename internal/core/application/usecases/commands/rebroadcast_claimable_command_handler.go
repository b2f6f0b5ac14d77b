package commands

import (
	"context"

	"dispatch/internal/core/domain/model/order"
)

// ClaimableBroadcaster announces one claimable order synchronously.
type ClaimableBroadcaster interface {
	BroadcastClaimable(ctx context.Context, o *order.Order)
}

// RebroadcastClaimableCommandHandler re-publishes order_claimable for every
// unassigned ready_for_pickup order. Receivers are idempotent, so repeating
// an announcement is harmless; it reaches partners who came online after the
// first one.
type RebroadcastClaimableCommandHandler struct {
	uowFactory  UoWFactory
	broadcaster ClaimableBroadcaster
}

func NewRebroadcastClaimableCommandHandler(
	uowFactory UoWFactory,
	broadcaster ClaimableBroadcaster,
) RebroadcastClaimableCommandHandler {
	return RebroadcastClaimableCommandHandler{uowFactory: uowFactory, broadcaster: broadcaster}
}

// Handle returns how many orders were announced. Confirmed orders are
// claimable too but are only announced once the store marks them ready.
func (h RebroadcastClaimableCommandHandler) Handle(ctx context.Context, cmd RebroadcastClaimableCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	orders, err := h.uowFactory.Create().OrderRepository().ListClaimable(ctx, cmd.Limit())
	if err != nil {
		return 0, err
	}

	announced := 0
	for _, o := range orders {
		if ctx.Err() != nil {
			return announced, ctx.Err()
		}
		if o.Status() != order.ReadyForPickup {
			continue
		}
		h.broadcaster.BroadcastClaimable(ctx, o)
		announced++
	}

	return announced, nil
}
