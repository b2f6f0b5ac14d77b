package http_test

import (
	"context"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/location"
	"dispatch/internal/core/domain/model/order"

	"github.com/stretchr/testify/mock"
)

type MockOrderCreator struct {
	mock.Mock
}

func (m *MockOrderCreator) Handle(ctx context.Context, cmd commands.CreateOrderCommand) (string, error) {
	args := m.Called(ctx, cmd)
	return args.String(0), args.Error(1)
}

type MockOrderClaimer struct {
	mock.Mock
}

func (m *MockOrderClaimer) Handle(ctx context.Context, cmd commands.ClaimOrderCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockOrderTransitioner struct {
	mock.Mock
}

func (m *MockOrderTransitioner) Handle(ctx context.Context, cmd commands.TransitionOrderCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockOrderCanceller struct {
	mock.Mock
}

func (m *MockOrderCanceller) Handle(ctx context.Context, cmd commands.CancelOrderCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockOrderReader struct {
	mock.Mock
}

func (m *MockOrderReader) Handle(ctx context.Context, query queries.GetOrderQuery) (queries.GetOrderQueryResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.GetOrderQueryResponse), args.Error(1)
}

type MockClaimableOrdersReader struct {
	mock.Mock
}

func (m *MockClaimableOrdersReader) Handle(
	ctx context.Context,
	query queries.GetClaimableOrdersQuery,
) ([]queries.GetClaimableOrdersQueryResponse, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]queries.GetClaimableOrdersQueryResponse), args.Error(1)
}

type MockLocationIngester struct {
	mock.Mock
}

func (m *MockLocationIngester) Ingest(ctx context.Context, sample location.Sample) error {
	return m.Called(ctx, sample).Error(0)
}
