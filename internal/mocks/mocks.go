package mocks

import (
	"context"

	"voice-order-service/internal/dialogue"
	"voice-order-service/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct {
	mock.Mock
}

type MockPublisher struct {
	mock.Mock
}

type MockOrderRecorder struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, message interface{}) error {
	args := m.Called(ctx, topic, message)
	return args.Error(0)
}

func (m *MockOrderRecorder) RecordOrder(ctx context.Context, state *dialogue.OrderState) (string, error) {
	args := m.Called(ctx, state)
	return args.String(0), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) ExistsShortID(ctx context.Context, shortID string) (bool, error) {
	args := m.Called(ctx, shortID)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) FindByShortID(ctx context.Context, shortID string) (*domain.Order, error) {
	args := m.Called(ctx, shortID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context, limit int) ([]domain.Order, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, shortID string, status domain.OrderStatus) error {
	args := m.Called(ctx, shortID, status)
	return args.Error(0)
}
