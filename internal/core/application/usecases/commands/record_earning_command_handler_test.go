package commands_test

import (
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/earning"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func deliveredOrder(t *testing.T, partnerID kernel.UUID, total kernel.Money, minutes int) *order.Order {
	t.Helper()

	placed := now.Add(-time.Hour)
	accepted := placed.Add(time.Minute)
	delivered := placed.Add(time.Duration(minutes) * time.Minute)

	o, err := order.RestoreOrder(order.State{
		ID:                      kernel.NewUUID(),
		Number:                  "QC-20261019-0002",
		CustomerID:              kernel.NewUUID(),
		DeliveryAddress:         "Flat 4B, 12.9716,77.5946",
		Total:                   total,
		Status:                  order.Delivered,
		PartnerID:               &partnerID,
		CreatedAt:               placed,
		AcceptedAt:              &accepted,
		PickedUpAt:              &accepted,
		DeliveredAt:             &delivered,
		DeliveryDurationMinutes: &minutes,
	})
	require.NoError(t, err)
	return o
}

func TestNewRecordEarningCommand(t *testing.T) {
	t.Run("should reject missing identifiers", func(t *testing.T) {
		_, err := commands.NewRecordEarningCommand(kernel.UUID{}, kernel.NewUUID())

		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})

	t.Run("should fail validation for zero value", func(t *testing.T) {
		var cmd commands.RecordEarningCommand

		require.ErrorIs(t, cmd.Validate(), commands.ErrRecordEarningCommandIsNotConstructed)
	})
}

func TestRecordEarningCommandHandler_Handle(t *testing.T) {
	policy, err := services.NewCommissionPolicy(services.DefaultCommissionRate)
	require.NoError(t, err)

	newHandler := func(u *testUoW) commands.RecordEarningCommandHandler {
		return commands.NewRecordEarningCommandHandler(u.factory, policy, fixedClock())
	}

	t.Run("should credit 15 percent of the stored total", func(t *testing.T) {
		ctx := t.Context()
		u := newTestUoW(t)

		partnerID := kernel.NewUUID()
		o := deliveredOrder(t, partnerID, kernel.Money(100000), 18)
		cmd, err := commands.NewRecordEarningCommand(o.ID(), partnerID)
		require.NoError(t, err)

		u.uow.On("Begin", ctx).Return(nil).Once()
		u.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
		u.earnings.On("AddIfAbsent", ctx, mock.MatchedBy(func(r earning.Record) bool {
			return r.OrderID().IsEqual(o.ID()) && r.PartnerID().IsEqual(partnerID) && r.Amount() == kernel.Money(15000)
		})).Return(nil).Once()
		u.partners.On("IncrementDeliveryCount", ctx, partnerID).Return(nil).Once()
		u.uow.On("Commit", ctx).Return(nil).Once()

		record, created, err := newHandler(u).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, "150.00", record.Amount().String())
		assert.Equal(t, 18, record.DurationMinutes())
		u.assertExpectations(t)
	})

	t.Run("should return the stored earning when the order was already credited", func(t *testing.T) {
		ctx := t.Context()
		u := newTestUoW(t)

		partnerID := kernel.NewUUID()
		o := deliveredOrder(t, partnerID, kernel.Money(100000), 18)
		stored, err := earning.NewRecord(o.ID(), partnerID, kernel.Money(15000), 18, now.Add(-30*time.Minute))
		require.NoError(t, err)
		cmd, err := commands.NewRecordEarningCommand(o.ID(), partnerID)
		require.NoError(t, err)

		u.uow.On("Begin", ctx).Return(nil).Once()
		u.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
		u.earnings.On("AddIfAbsent", ctx, mock.Anything).Return(earning.ErrDuplicate).Once()
		u.earnings.On("GetByOrder", ctx, o.ID()).Return(stored, nil).Once()
		u.uow.On("Commit", ctx).Return(nil).Once()

		record, created, err := newHandler(u).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.False(t, created)
		assert.True(t, record.ID().IsEqual(stored.ID()))
		assert.Equal(t, stored.CreatedAt(), record.CreatedAt())
		u.partners.AssertNotCalled(t, "IncrementDeliveryCount", mock.Anything, mock.Anything)
		u.assertExpectations(t)
	})

	t.Run("should refuse an order that is not delivered", func(t *testing.T) {
		ctx := t.Context()
		u := newTestUoW(t)

		o := orderWithStatus(t, order.Pending, nil, now.Add(-time.Minute))
		cmd, err := commands.NewRecordEarningCommand(o.ID(), kernel.NewUUID())
		require.NoError(t, err)

		u.uow.On("Begin", ctx).Return(nil).Once()
		u.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()

		_, created, err := newHandler(u).Handle(ctx, cmd)

		require.ErrorIs(t, err, earning.ErrOrderNotDelivered)
		assert.False(t, created)
		u.earnings.AssertNotCalled(t, "AddIfAbsent", mock.Anything, mock.Anything)
		u.partners.AssertNotCalled(t, "IncrementDeliveryCount", mock.Anything, mock.Anything)
		u.uow.AssertNotCalled(t, "Commit", mock.Anything)
	})

	t.Run("should refuse a partner who did not deliver the order", func(t *testing.T) {
		ctx := t.Context()
		u := newTestUoW(t)

		o := deliveredOrder(t, kernel.NewUUID(), kernel.Money(100000), 18)
		cmd, err := commands.NewRecordEarningCommand(o.ID(), kernel.NewUUID())
		require.NoError(t, err)

		u.uow.On("Begin", ctx).Return(nil).Once()
		u.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()

		_, _, err = newHandler(u).Handle(ctx, cmd)

		require.ErrorIs(t, err, order.ErrNotAssignedPartner)
		u.earnings.AssertNotCalled(t, "AddIfAbsent", mock.Anything, mock.Anything)
		u.uow.AssertNotCalled(t, "Commit", mock.Anything)
	})

	t.Run("should report an unknown order", func(t *testing.T) {
		ctx := t.Context()
		u := newTestUoW(t)

		orderID := kernel.NewUUID()
		cmd, err := commands.NewRecordEarningCommand(orderID, kernel.NewUUID())
		require.NoError(t, err)

		u.uow.On("Begin", ctx).Return(nil).Once()
		u.orders.On("Get", ctx, orderID).Return(nil, errs.NewObjectNotFoundError("order", orderID.String())).Once()

		_, _, err = newHandler(u).Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
		u.earnings.AssertNotCalled(t, "AddIfAbsent", mock.Anything, mock.Anything)
	})
}
