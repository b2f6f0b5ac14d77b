package tracking_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

type MockOrderStore struct {
	mock.Mock
}

func (m *MockOrderStore) ListInTransitByPartner(ctx context.Context, partnerID kernel.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, partnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderStore) CacheDestination(ctx context.Context, orderID kernel.UUID, point kernel.GeoPoint) error {
	args := m.Called(ctx, orderID, point)
	return args.Error(0)
}

type MockLocationRecorder struct {
	mock.Mock
}

func (m *MockLocationRecorder) SaveLastLocation(ctx context.Context, id kernel.UUID, point kernel.GeoPoint, capturedAt time.Time) error {
	args := m.Called(ctx, id, point, capturedAt)
	return args.Error(0)
}

type MockGeocoder struct {
	mock.Mock
}

func (m *MockGeocoder) Geocode(ctx context.Context, address string) (kernel.GeoPoint, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(kernel.GeoPoint), args.Error(1)
}

type MockDirectionsProvider struct {
	mock.Mock
}

func (m *MockDirectionsProvider) Route(ctx context.Context, origin, destination kernel.GeoPoint) (ports.Route, error) {
	args := m.Called(ctx, origin, destination)
	return args.Get(0).(ports.Route), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func point(t *testing.T, lat, lng float64) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lat, lng)
	require.NoError(t, err)
	return p
}

// dispatchedOrder returns an order assigned to partnerID and delivered to address.
func dispatchedOrder(t *testing.T, partnerID kernel.UUID, address string) *order.Order {
	t.Helper()
	acceptedAt := now.Add(-2 * time.Minute)
	o, err := order.RestoreOrder(order.State{
		ID:              kernel.NewUUID(),
		Number:          "QC-20261019-5B1C9E07",
		CustomerID:      kernel.NewUUID(),
		DeliveryAddress: address,
		Total:           kernel.Money(54900),
		Status:          order.Dispatched,
		PartnerID:       &partnerID,
		CreatedAt:       now.Add(-4 * time.Minute),
		AcceptedAt:      &acceptedAt,
	})
	require.NoError(t, err)
	return o
}
