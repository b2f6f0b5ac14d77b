package commands

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/partner"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/clock"
)

// publishTimeout bounds one fan-out so a slow broker cannot pile up goroutines.
const publishTimeout = 5 * time.Second

// EventNotifier announces committed order changes. Handlers call it only
// after a successful commit; it never reports failures back to them.
type EventNotifier interface {
	StatusChanged(ctx context.Context, o *order.Order)
	OrderClaimable(ctx context.Context, o *order.Order)
}

// OnlinePartnerLister lists partners that may receive claimable broadcasts.
type OnlinePartnerLister interface {
	ListOnlineApproved(ctx context.Context) ([]*partner.Profile, error)
}

// OrderEventNotifier fans order events out to the event channel in the
// background. Delivery is best effort and at least once: a partner may see
// the same claimable order again and must still win the claim.
type OrderEventNotifier struct {
	partners  OnlinePartnerLister
	selector  services.RecipientSelector
	publisher ports.EventPublisher
	clock     clock.Clock
	logger    *slog.Logger
	wg        sync.WaitGroup

	// tails holds, per order, the completion of the last queued publish.
	mu    sync.Mutex
	tails map[kernel.UUID]chan struct{}
}

// NewOrderEventNotifier wires the fan-out.
func NewOrderEventNotifier(
	partners OnlinePartnerLister,
	selector services.RecipientSelector,
	publisher ports.EventPublisher,
	clk clock.Clock,
	logger *slog.Logger,
) *OrderEventNotifier {
	return &OrderEventNotifier{
		partners:  partners,
		selector:  selector,
		publisher: publisher,
		clock:     clk,
		logger:    logger.With("component", "OrderEventNotifier"),
		tails:     make(map[kernel.UUID]chan struct{}),
	}
}

// StatusChanged publishes status_changed, and order_claimable as well when the
// order just became claimable.
func (n *OrderEventNotifier) StatusChanged(ctx context.Context, o *order.Order) {
	status := o.Status()
	claimable := status == order.ReadyForPickup && o.Partner() == nil
	occurredAt := n.clock.Now()

	n.goPublish(ctx, o.ID(), func(ctx context.Context) {
		n.publish(ctx, ports.OrderEvent{
			OrderID:     o.ID(),
			OrderNumber: o.Number(),
			EventType:   ports.EventStatusChanged,
			NewStatus:   status,
			OccurredAt:  occurredAt,
		})

		if claimable {
			n.broadcastClaimable(ctx, o)
		}
	})
}

// OrderClaimable announces the order to online, KYC-approved partners.
func (n *OrderEventNotifier) OrderClaimable(ctx context.Context, o *order.Order) {
	n.goPublish(ctx, o.ID(), func(ctx context.Context) {
		n.broadcastClaimable(ctx, o)
	})
}

// BroadcastClaimable announces synchronously; used by the periodic re-broadcast.
func (n *OrderEventNotifier) BroadcastClaimable(ctx context.Context, o *order.Order) {
	n.broadcastClaimable(ctx, o)
}

// Wait blocks until every background publish has finished.
func (n *OrderEventNotifier) Wait() {
	n.wg.Wait()
}

// goPublish runs fn in the background. Publishes for the same order run one
// at a time, in the order they were queued.
func (n *OrderEventNotifier) goPublish(ctx context.Context, orderID kernel.UUID, fn func(ctx context.Context)) {
	done := make(chan struct{})

	n.mu.Lock()
	prev := n.tails[orderID]
	n.tails[orderID] = done
	n.mu.Unlock()

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		defer n.release(orderID, done)

		if prev != nil {
			<-prev
		}

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		defer cancel()

		fn(ctx)
	}()
}

func (n *OrderEventNotifier) release(orderID kernel.UUID, done chan struct{}) {
	close(done)

	n.mu.Lock()
	if n.tails[orderID] == done {
		delete(n.tails, orderID)
	}
	n.mu.Unlock()
}

func (n *OrderEventNotifier) broadcastClaimable(ctx context.Context, o *order.Order) {
	online, err := n.partners.ListOnlineApproved(ctx)
	if err != nil {
		n.logger.ErrorContext(ctx, "failed to list online partners", "order_id", o.ID().String(), "error", err)
		return
	}

	recipients, err := n.selector.Select(o.Destination(), online)
	if errors.Is(err, services.ErrNoEligiblePartners) {
		n.logger.InfoContext(ctx, "no partner online for claimable order", "order_id", o.ID().String())
		return
	}
	if err != nil {
		n.logger.ErrorContext(ctx, "failed to select recipients", "order_id", o.ID().String(), "error", err)
		return
	}

	ids := make([]kernel.UUID, 0, len(recipients))
	for _, p := range recipients {
		ids = append(ids, p.ID())
	}

	n.publish(ctx, ports.OrderEvent{
		OrderID:     o.ID(),
		OrderNumber: o.Number(),
		EventType:   ports.EventOrderClaimable,
		NewStatus:   o.Status(),
		Recipients:  ids,
		OccurredAt:  n.clock.Now(),
	})
}

func (n *OrderEventNotifier) publish(ctx context.Context, event ports.OrderEvent) {
	if err := n.publisher.Publish(ctx, event); err != nil {
		n.logger.WarnContext(ctx, "failed to publish order event",
			"order_id", event.OrderID.String(),
			"event_type", string(event.EventType),
			"error", err,
		)
		return
	}

	n.logger.DebugContext(ctx, "order event published",
		"order_id", event.OrderID.String(),
		"event_type", string(event.EventType),
		"recipients", len(event.Recipients),
	)
}
