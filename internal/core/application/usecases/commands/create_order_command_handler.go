package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/clock"
)

// CreateOrderCommandHandler inserts a pending order together with its first
// history entry.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, clock.System{})
//	number, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("order creation failed: %w", err)
//	}
//	// number looks like "QC-20261019-550E8400"
type CreateOrderCommandHandler struct {
	uowFactory UoWFactory
	clock      clock.Clock
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
func NewCreateOrderCommandHandler(uowFactory UoWFactory, clk clock.Clock) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		clock:      clk,
	}
}

// Handle persists the order and returns its human-readable number.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (string, error) {
	if err := cmd.Validate(); err != nil {
		return "", err
	}

	now := h.clock.Now()
	o, err := order.NewOrder(
		cmd.OrderID(),
		orderNumber(cmd.OrderID(), now),
		cmd.CustomerID(),
		cmd.DeliveryAddress(),
		cmd.Total(),
		now,
	)
	if err != nil {
		return "", err
	}

	event, err := order.NewStatusEvent(o.ID(), order.Pending, nil, "order placed", now)
	if err != nil {
		return "", err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return "", err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	if err = orderRepo.Add(ctx, o); err != nil {
		return "", err
	}

	if err = orderRepo.AppendEvent(ctx, event); err != nil {
		return "", err
	}

	if err = uow.Commit(ctx); err != nil {
		return "", err
	}

	return o.Number(), nil
}

func orderNumber(id kernel.UUID, at time.Time) string {
	short := strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
	return fmt.Sprintf("QC-%s-%s", at.UTC().Format("20060102"), short)
}
