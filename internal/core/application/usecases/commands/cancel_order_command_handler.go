package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/clock"
)

// DefaultCancellationWindow is how long after placement an order may be cancelled.
const DefaultCancellationWindow = 60 * time.Second

// CancelOrderCommandHandler cancels orders inside the cancellation window.
//
// The window check is part of the conditional write (status unchanged and
// created_at not before the cutoff), so a cancel racing a confirm or a claim
// can never overwrite it. When the write matches nothing the handler re-reads
// the order: past the window it returns order.ErrCancellationWindowClosed,
// otherwise the status moved and the cancel is retried once.
type CancelOrderCommandHandler struct {
	uowFactory UoWFactory
	window     time.Duration
	notifier   EventNotifier
	clock      clock.Clock
	logger     *slog.Logger
}

// NewCancelOrderCommandHandler creates a handler with the deployment's cancellation window.
func NewCancelOrderCommandHandler(
	uowFactory UoWFactory,
	window time.Duration,
	notifier EventNotifier,
	clk clock.Clock,
	logger *slog.Logger,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		window:     window,
		notifier:   notifier,
		clock:      clk,
		logger:     logger.With("component", "CancelOrderCommandHandler"),
	}
}

// Handle cancels the order and returns it.
func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	o, err := h.attempt(ctx, cmd)
	if errors.Is(err, order.ErrStaleTransition) {
		h.logger.InfoContext(ctx, "stale cancel, retrying once", "order_id", cmd.OrderID().String())
		o, err = h.attempt(ctx, cmd)
	}
	if err != nil {
		return nil, err
	}

	h.notifier.StatusChanged(ctx, o)
	return o, nil
}

func (h CancelOrderCommandHandler) attempt(ctx context.Context, cmd CancelOrderCommand) (*order.Order, error) {
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
	releasedPartner := o.Partner()
	now := h.clock.Now()

	if err = o.Cancel(now, h.window); err != nil {
		return nil, err
	}

	err = orderRepo.Cancel(ctx, o, expected, now.Add(-h.window))
	if errors.Is(err, order.ErrStaleTransition) {
		return nil, h.classifyRefusal(ctx, uow, cmd, err)
	}
	if err != nil {
		return nil, err
	}

	note := "cancelled"
	if cmd.Reason() != "" {
		note += ": " + cmd.Reason()
	}

	event, err := order.NewStatusEvent(o.ID(), order.Cancelled, releasedPartner, note, now)
	if err != nil {
		return nil, err
	}
	if err = orderRepo.AppendEvent(ctx, event); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}

func (h CancelOrderCommandHandler) classifyRefusal(ctx context.Context, uow UoW, cmd CancelOrderCommand, stale error) error {
	fresh, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if !fresh.IsWithinCancellationWindow(h.clock.Now(), h.window) {
		return fmt.Errorf("%w: window is %s", order.ErrCancellationWindowClosed, h.window)
	}
	return stale
}
