package commands_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/partner"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type stubPartnerLister struct {
	partners []*partner.Profile
	err      error
}

func (s stubPartnerLister) ListOnlineApproved(context.Context) ([]*partner.Profile, error) {
	return s.partners, s.err
}

func eventOfType(eventType ports.EventType) any {
	return mock.MatchedBy(func(e ports.OrderEvent) bool {
		return e.EventType == eventType
	})
}

func TestOrderEventNotifier_StatusChanged(t *testing.T) {
	t.Run("should announce a claimable order to online partners", func(t *testing.T) {
		publisher := new(MockEventPublisher)
		p := approvedOnlinePartner(t)
		o := orderWithStatus(t, order.ReadyForPickup, nil, now.Add(-2*time.Minute))

		publisher.On("Publish", mock.Anything, eventOfType(ports.EventStatusChanged)).Return(nil).Once()
		publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e ports.OrderEvent) bool {
			return e.EventType == ports.EventOrderClaimable &&
				len(e.Recipients) == 1 && e.Recipients[0].IsEqual(p.ID())
		})).Return(nil).Once()

		notifier := commands.NewOrderEventNotifier(stubPartnerLister{partners: []*partner.Profile{p}},
			services.NewRecipientSelector(0), publisher, fixedClock(), discardLogger())
		notifier.StatusChanged(t.Context(), o)
		notifier.Wait()

		publisher.AssertExpectations(t)
	})

	t.Run("should publish only the status change for an assigned order", func(t *testing.T) {
		publisher := new(MockEventPublisher)
		partnerID := kernel.NewUUID()
		o := orderWithStatus(t, order.Dispatched, &partnerID, now.Add(-2*time.Minute))

		publisher.On("Publish", mock.Anything, eventOfType(ports.EventStatusChanged)).Return(nil).Once()

		notifier := commands.NewOrderEventNotifier(stubPartnerLister{},
			services.NewRecipientSelector(0), publisher, fixedClock(), discardLogger())
		notifier.StatusChanged(t.Context(), o)
		notifier.Wait()

		publisher.AssertExpectations(t)
		publisher.AssertNumberOfCalls(t, "Publish", 1)
	})

	t.Run("should skip the broadcast when nobody is online", func(t *testing.T) {
		publisher := new(MockEventPublisher)
		o := orderWithStatus(t, order.ReadyForPickup, nil, now)

		notifier := commands.NewOrderEventNotifier(stubPartnerLister{},
			services.NewRecipientSelector(0), publisher, fixedClock(), discardLogger())
		notifier.BroadcastClaimable(t.Context(), o)

		publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("should swallow publish failures", func(t *testing.T) {
		publisher := new(MockEventPublisher)
		o := orderWithStatus(t, order.Confirmed, nil, now)

		publisher.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

		notifier := commands.NewOrderEventNotifier(stubPartnerLister{err: errors.New("unused")},
			services.NewRecipientSelector(0), publisher, fixedClock(), discardLogger())
		require.NotPanics(t, func() {
			notifier.StatusChanged(t.Context(), o)
			notifier.Wait()
		})

		publisher.AssertExpectations(t)
	})
}

// gatedPublisher holds the first publish until gate is closed and records
// the statuses it receives.
type gatedPublisher struct {
	gate chan struct{}

	mu       sync.Mutex
	statuses []order.Status
}

func (p *gatedPublisher) Publish(_ context.Context, event ports.OrderEvent) error {
	p.mu.Lock()
	first := len(p.statuses) == 0
	p.mu.Unlock()

	if first {
		<-p.gate
	}

	p.mu.Lock()
	p.statuses = append(p.statuses, event.NewStatus)
	p.mu.Unlock()
	return nil
}

func TestOrderEventNotifier_PreservesPerOrderOrder(t *testing.T) {
	partnerID := kernel.NewUUID()
	dispatched := orderWithStatus(t, order.Dispatched, &partnerID, now.Add(-5*time.Minute))

	pickedUp := now.Add(-time.Minute)
	outForDelivery, err := order.RestoreOrder(order.State{
		ID:              dispatched.ID(),
		Number:          dispatched.Number(),
		CustomerID:      dispatched.CustomerID(),
		DeliveryAddress: dispatched.DeliveryAddress(),
		Total:           dispatched.Total(),
		Status:          order.OutForDelivery,
		PartnerID:       &partnerID,
		CreatedAt:       dispatched.CreatedAt(),
		AcceptedAt:      dispatched.AcceptedAt(),
		PickedUpAt:      &pickedUp,
	})
	require.NoError(t, err)

	publisher := &gatedPublisher{gate: make(chan struct{})}
	notifier := commands.NewOrderEventNotifier(stubPartnerLister{},
		services.NewRecipientSelector(0), publisher, fixedClock(), discardLogger())

	notifier.StatusChanged(t.Context(), dispatched)
	notifier.StatusChanged(t.Context(), outForDelivery)

	// The second event would overtake the first here if publishes were not queued per order.
	time.Sleep(100 * time.Millisecond)
	close(publisher.gate)
	notifier.Wait()

	assert.Equal(t, []order.Status{order.Dispatched, order.OutForDelivery}, publisher.statuses)
}
