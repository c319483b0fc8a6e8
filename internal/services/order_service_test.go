package services

import (
	"context"
	"errors"
	"testing"

	"voice-order-service/internal/dialogue"
	"voice-order-service/internal/domain"
	"voice-order-service/internal/mocks"
	"voice-order-service/internal/repository"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestOrderService_RecordOrder(t *testing.T) {
	service, repo, pub, mt := newTestService(t)
	service.newID = sequentialIDs()

	repo.On("ExistsShortID", mock.Anything, "AAA-100").Return(false, nil).Once()
	repo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil).Once().Run(func(args mock.Arguments) {
		order := args.Get(1).(*domain.Order)
		order.ID = 7
	})
	published := expectPublish(pub, "order.confirmed")

	id, err := service.RecordOrder(context.Background(), CreateConfirmedState())

	require.NoError(t, err)
	assert.Equal(t, "AAA-100", id)
	waitFor(t, published)

	saved := repo.Calls[1].Arguments.Get(1).(*domain.Order)
	assert.Equal(t, domain.StatusConfirmed, saved.Status)
	assert.Equal(t, domain.ChannelVoice, saved.Channel)
	assert.Equal(t, int64(4297), saved.TotalCents)
	assert.Len(t, saved.Items, 2)
	assert.Equal(t, 1.0, testutil.ToFloat64(mt.OrdersConfirmed.WithLabelValues("voice")))

	repo.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestOrderService_RecordOrder_IDRetry(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(*mocks.MockOrderRepository)
		wantID     string
		wantErr    error
	}{
		{
			name: "taken ids are redrawn",
			setupMocks: func(repo *mocks.MockOrderRepository) {
				repo.On("ExistsShortID", mock.Anything, "AAA-100").Return(true, nil).Once()
				repo.On("ExistsShortID", mock.Anything, "AAA-101").Return(true, nil).Once()
				repo.On("ExistsShortID", mock.Anything, "AAA-102").Return(false, nil).Once()
				repo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil).Once()
			},
			wantID: "AAA-102",
		},
		{
			name: "lost insert race is redrawn",
			setupMocks: func(repo *mocks.MockOrderRepository) {
				repo.On("ExistsShortID", mock.Anything, mock.Anything).Return(false, nil).Twice()
				repo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(repository.ErrDuplicateOrder).Once()
				repo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil).Once()
			},
			wantID: "AAA-101",
		},
		{
			name: "exhausted after bounded attempts",
			setupMocks: func(repo *mocks.MockOrderRepository) {
				repo.On("ExistsShortID", mock.Anything, mock.Anything).Return(true, nil).Times(maxIDAttempts)
			},
			wantErr: ErrOrderIDExhausted,
		},
		{
			name: "save failure surfaces",
			setupMocks: func(repo *mocks.MockOrderRepository) {
				repo.On("ExistsShortID", mock.Anything, "AAA-100").Return(false, nil).Once()
				repo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(errors.New("database error")).Once()
			},
			wantErr: errors.New("database error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo, pub, mt := newTestService(t)
			service.newID = sequentialIDs()
			tt.setupMocks(repo)

			var published <-chan struct{}
			if tt.wantErr == nil {
				published = expectPublish(pub, "order.confirmed")
			}

			id, err := service.RecordOrder(context.Background(), CreateConfirmedState())

			if tt.wantErr != nil {
				assert.Error(t, err)
				if errors.Is(tt.wantErr, ErrOrderIDExhausted) {
					assert.ErrorIs(t, err, ErrOrderIDExhausted)
				} else {
					assert.Contains(t, err.Error(), tt.wantErr.Error())
				}
				assert.Empty(t, id)
				assert.Equal(t, 1.0, testutil.ToFloat64(mt.PersistFailures))
				pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, id)
				waitFor(t, published)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestOrderService_RecordOrder_Empty(t *testing.T) {
	service, repo, _, _ := newTestService(t)

	_, err := service.RecordOrder(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyOrder)

	_, err = service.RecordOrder(context.Background(), dialogue.NewOrderState())
	assert.ErrorIs(t, err, ErrEmptyOrder)

	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestOrderService_BreakerOpensOnStoreFailures(t *testing.T) {
	service, repo, _, _ := newTestService(t)
	repo.On("ExistsShortID", mock.Anything, mock.Anything).Return(false, errors.New("connection refused"))

	for i := 0; i < 5; i++ {
		_, err := service.RecordOrder(context.Background(), CreateConfirmedState())
		assert.ErrorContains(t, err, "connection refused")
	}

	_, err := service.RecordOrder(context.Background(), CreateConfirmedState())
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	repo.AssertNumberOfCalls(t, "ExistsShortID", 5)
}

func TestOrderService_PlaceOrder(t *testing.T) {
	tests := []struct {
		name     string
		checkout Checkout
		wantErr  error
		check    func(*testing.T, *domain.Order)
	}{
		{
			name: "delivery order priced from the menu",
			checkout: Checkout{
				Items: []CheckoutItem{
					{Name: "pizzas", Quantity: 2},
					{Name: "Chocolate Cake", Quantity: 1, Special: " no nuts "},
				},
				CustomerName: "Mia",
				PhoneNumber:  "(555) 987-6543",
				DeliveryType: domain.Delivery,
				Address:      "9 Elm Road",
				DeliveryTime: "7:30 PM",
			},
			check: func(t *testing.T, o *domain.Order) {
				assert.Equal(t, "Margherita Pizza", o.Items[0].Name)
				assert.Equal(t, int64(1699), o.Items[0].UnitPriceCents)
				assert.Equal(t, "no nuts", o.Items[1].Special)
				assert.Equal(t, int64(2*1699+799), o.TotalCents)
				assert.Equal(t, "5559876543", o.PhoneNumber)
				assert.Equal(t, domain.StatusPending, o.Status)
				assert.Equal(t, domain.ChannelOnline, o.Channel)
				assert.Equal(t, "AAA-100", o.ShortID)
			},
		},
		{
			name: "pickup uses the store address",
			checkout: Checkout{
				Items:        []CheckoutItem{{Name: "salad", Quantity: 1}},
				PhoneNumber:  TestPhone,
				DeliveryType: domain.Pickup,
			},
			check: func(t *testing.T, o *domain.Order) {
				assert.Equal(t, domain.PickupAddress, o.Address)
			},
		},
		{
			name: "unknown item",
			checkout: Checkout{
				Items:       []CheckoutItem{{Name: "flying dragon", Quantity: 1}},
				PhoneNumber: TestPhone,
			},
			wantErr: ErrUnknownItem,
		},
		{
			name: "bad phone",
			checkout: Checkout{
				Items:       []CheckoutItem{{Name: "burger", Quantity: 1}},
				PhoneNumber: "123",
				Address:     "9 Elm Road",
			},
			wantErr: ErrInvalidCheckout,
		},
		{
			name: "delivery without address",
			checkout: Checkout{
				Items:       []CheckoutItem{{Name: "burger", Quantity: 1}},
				PhoneNumber: TestPhone,
			},
			wantErr: ErrInvalidCheckout,
		},
		{
			name:     "empty cart",
			checkout: Checkout{PhoneNumber: TestPhone},
			wantErr:  ErrEmptyOrder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo, pub, mt := newTestService(t)
			service.newID = sequentialIDs()

			published := make(chan struct{})
			if tt.wantErr == nil {
				repo.On("ExistsShortID", mock.Anything, "AAA-100").Return(false, nil).Once()
				repo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil).Once()
				pub.On("Publish", mock.Anything, "order.created", mock.MatchedBy(func(e domain.OrderCreatedEvent) bool {
					return e.OrderID == "AAA-100" && e.Status == domain.StatusPending
				})).Return(nil).Once().Run(func(mock.Arguments) { close(published) })
			}

			order, err := service.PlaceOrder(context.Background(), tt.checkout)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, order)
				repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			tt.check(t, order)
			waitFor(t, published)
			repo.AssertExpectations(t)
			pub.AssertExpectations(t)
			assert.Equal(t, 1.0, testutil.ToFloat64(mt.OrdersCreated.WithLabelValues("online")))
			assert.Zero(t, testutil.ToFloat64(mt.OrdersConfirmed.WithLabelValues("online")))
		})
	}
}

func TestOrderService_GetOrder(t *testing.T) {
	tests := []struct {
		name       string
		lookup     string
		setupMocks func(*mocks.MockOrderRepository)
		wantErr    error
	}{
		{
			name:   "found, id normalized",
			lookup: " qkd-481 ",
			setupMocks: func(repo *mocks.MockOrderRepository) {
				repo.On("FindByShortID", mock.Anything, TestShortID).Return(CreateMockOrder(TestShortID, domain.StatusConfirmed), nil)
			},
		},
		{
			name:   "not found",
			lookup: "ZZZ-999",
			setupMocks: func(repo *mocks.MockOrderRepository) {
				repo.On("FindByShortID", mock.Anything, "ZZZ-999").Return(nil, repository.ErrOrderNotFound)
			},
			wantErr: ErrOrderNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo, _, _ := newTestService(t)
			tt.setupMocks(repo)

			order, err := service.GetOrder(context.Background(), tt.lookup)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, order)
			} else {
				require.NoError(t, err)
				assert.Equal(t, TestShortID, order.ShortID)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestOrderService_ListOrders(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		wantLimit int
	}{
		{"default", 0, defaultListLimit},
		{"as asked", 5, 5},
		{"clamped", 500, maxListLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo, _, _ := newTestService(t)
			repo.On("List", mock.Anything, tt.wantLimit).Return(nil, nil).Once()

			orders, err := service.ListOrders(context.Background(), tt.limit)

			require.NoError(t, err)
			assert.NotNil(t, orders)
			assert.Empty(t, orders)
			repo.AssertExpectations(t)
		})
	}
}

func TestOrderService_UpdateStatus(t *testing.T) {
	t.Run("invalid status", func(t *testing.T) {
		service, repo, _, _ := newTestService(t)

		_, err := service.UpdateStatus(context.Background(), TestShortID, domain.OrderStatus("shipped"))

		assert.ErrorIs(t, err, ErrInvalidStatus)
		repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("updated and announced", func(t *testing.T) {
		service, repo, pub, _ := newTestService(t)
		repo.On("UpdateStatus", mock.Anything, TestShortID, domain.StatusCompleted).Return(nil).Once()
		repo.On("FindByShortID", mock.Anything, TestShortID).Return(CreateMockOrder(TestShortID, domain.StatusCompleted), nil).Once()
		published := expectPublish(pub, "order.status_changed")

		order, err := service.UpdateStatus(context.Background(), "qkd-481", domain.StatusCompleted)

		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, order.Status)
		waitFor(t, published)
		repo.AssertExpectations(t)
	})

	t.Run("unknown order", func(t *testing.T) {
		service, repo, pub, _ := newTestService(t)
		repo.On("UpdateStatus", mock.Anything, "ZZZ-999", domain.StatusCancelled).Return(repository.ErrOrderNotFound).Once()

		_, err := service.UpdateStatus(context.Background(), "ZZZ-999", domain.StatusCancelled)

		assert.ErrorIs(t, err, ErrOrderNotFound)
		pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestNewShortID(t *testing.T) {
	for i := 0; i < 200; i++ {
		assert.Regexp(t, `^[A-Z]{3}-[1-9]\d{2}$`, NewShortID())
	}
}
