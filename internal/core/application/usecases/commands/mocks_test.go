package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/earning"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/partner"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/clock"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func fixedClock() clock.Clock {
	return clock.Fixed(now)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, o *order.Order, expected order.Status) error {
	args := m.Called(ctx, o, expected)
	return args.Error(0)
}

func (m *MockOrderRepository) Claim(ctx context.Context, orderID, partnerID kernel.UUID, at time.Time) (*order.Order, error) {
	args := m.Called(ctx, orderID, partnerID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) Unassign(ctx context.Context, orderID, partnerID kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, orderID, partnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) Cancel(ctx context.Context, o *order.Order, expected order.Status, cutoff time.Time) error {
	args := m.Called(ctx, o, expected, cutoff)
	return args.Error(0)
}

func (m *MockOrderRepository) CacheDestination(ctx context.Context, orderID kernel.UUID, point kernel.GeoPoint) error {
	args := m.Called(ctx, orderID, point)
	return args.Error(0)
}

func (m *MockOrderRepository) AppendEvent(ctx context.Context, event order.StatusEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockOrderRepository) ListEvents(ctx context.Context, orderID kernel.UUID) ([]order.StatusEvent, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.StatusEvent), args.Error(1)
}

func (m *MockOrderRepository) ListClaimable(ctx context.Context, limit int) ([]*order.Order, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) ListActive(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) ListInTransitByPartner(ctx context.Context, partnerID kernel.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, partnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockPartnerRepository struct{ mock.Mock }

func (m *MockPartnerRepository) Add(ctx context.Context, p *partner.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPartnerRepository) Update(ctx context.Context, p *partner.Profile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPartnerRepository) Get(ctx context.Context, id kernel.UUID) (*partner.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Profile), args.Error(1)
}

func (m *MockPartnerRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*partner.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Profile), args.Error(1)
}

func (m *MockPartnerRepository) ListOnlineApproved(ctx context.Context) ([]*partner.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*partner.Profile), args.Error(1)
}

func (m *MockPartnerRepository) IncrementDeliveryCount(ctx context.Context, id kernel.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPartnerRepository) SaveLastLocation(ctx context.Context, id kernel.UUID, point kernel.GeoPoint, at time.Time) error {
	args := m.Called(ctx, id, point, at)
	return args.Error(0)
}

type MockEarningRepository struct{ mock.Mock }

func (m *MockEarningRepository) AddIfAbsent(ctx context.Context, r earning.Record) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockEarningRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) (earning.Record, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(earning.Record), args.Error(1)
}

func (m *MockEarningRepository) ListByPartner(ctx context.Context, partnerID kernel.UUID) ([]earning.Record, error) {
	args := m.Called(ctx, partnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]earning.Record), args.Error(1)
}

func (m *MockEarningRepository) Balance(ctx context.Context, partnerID kernel.UUID) (earning.Balance, error) {
	args := m.Called(ctx, partnerID)
	return args.Get(0).(earning.Balance), args.Error(1)
}

func (m *MockEarningRepository) AddWithdrawal(ctx context.Context, w earning.Withdrawal) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

func (m *MockEarningRepository) GetWithdrawal(ctx context.Context, id kernel.UUID) (earning.Withdrawal, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(earning.Withdrawal), args.Error(1)
}

func (m *MockEarningRepository) ResolveWithdrawal(ctx context.Context, w earning.Withdrawal) error {
	args := m.Called(ctx, w)
	return args.Error(0)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) PartnerRepository() ports.PartnerRepository {
	args := m.Called()
	return args.Get(0).(ports.PartnerRepository)
}

func (m *MockUoW) EarningRepository() ports.EarningRepository {
	args := m.Called()
	return args.Get(0).(ports.EarningRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockPartnerUoWFactory struct{ mock.Mock }

func (m *MockPartnerUoWFactory) Create() commands.PartnerUoW {
	args := m.Called()
	return args.Get(0).(commands.PartnerUoW)
}

type MockKYCVerifier struct{ mock.Mock }

func (m *MockKYCVerifier) VerificationStatus(ctx context.Context, partnerID kernel.UUID) (partner.KYCStatus, error) {
	args := m.Called(ctx, partnerID)
	return args.Get(0).(partner.KYCStatus), args.Error(1)
}

type MockEventNotifier struct{ mock.Mock }

func (m *MockEventNotifier) StatusChanged(ctx context.Context, o *order.Order) {
	m.Called(ctx, o)
}

func (m *MockEventNotifier) OrderClaimable(ctx context.Context, o *order.Order) {
	m.Called(ctx, o)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) Publish(ctx context.Context, event ports.OrderEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// testUoW wires a MockUoW with fresh repositories. Accessors may be called any
// number of times; Rollback is always deferred by the handlers.
type testUoW struct {
	uow      *MockUoW
	orders   *MockOrderRepository
	partners *MockPartnerRepository
	earnings *MockEarningRepository
	factory  *MockUoWFactory
}

func newTestUoW(t *testing.T) *testUoW {
	t.Helper()

	u := &testUoW{
		uow:      new(MockUoW),
		orders:   new(MockOrderRepository),
		partners: new(MockPartnerRepository),
		earnings: new(MockEarningRepository),
		factory:  new(MockUoWFactory),
	}

	u.factory.On("Create").Return(u.uow)
	u.uow.On("OrderRepository").Return(u.orders).Maybe()
	u.uow.On("PartnerRepository").Return(u.partners).Maybe()
	u.uow.On("EarningRepository").Return(u.earnings).Maybe()
	u.uow.On("Rollback", mock.Anything).Return(nil).Maybe()

	return u
}

func (u *testUoW) assertExpectations(t *testing.T) {
	t.Helper()

	u.uow.AssertExpectations(t)
	u.orders.AssertExpectations(t)
	u.partners.AssertExpectations(t)
	u.earnings.AssertExpectations(t)
}

func orderWithStatus(t *testing.T, status order.Status, partnerID *kernel.UUID, createdAt time.Time) *order.Order {
	t.Helper()

	state := order.State{
		ID:              kernel.NewUUID(),
		Number:          "QC-20261019-0001",
		CustomerID:      kernel.NewUUID(),
		DeliveryAddress: "Flat 4B, 12.9716,77.5946",
		Total:           kernel.Money(100000),
		Status:          status,
		PartnerID:       partnerID,
		CreatedAt:       createdAt,
	}
	if partnerID != nil {
		accepted := createdAt.Add(time.Minute)
		state.AcceptedAt = &accepted
	}

	o, err := order.RestoreOrder(state)
	require.NoError(t, err)
	return o
}

func approvedOnlinePartner(t *testing.T) *partner.Profile {
	t.Helper()

	p, err := partner.RestoreProfile(kernel.NewUUID(), "Ravi", "", partner.KYCApproved, true, nil, nil, 0)
	require.NoError(t, err)
	return p
}
