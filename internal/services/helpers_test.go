package services

import (
	"fmt"
	"testing"
	"time"

	"voice-order-service/internal/dialogue"
	"voice-order-service/internal/domain"
	"voice-order-service/internal/menu"
	"voice-order-service/internal/metrics"
	"voice-order-service/internal/mocks"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	TestShortID      = "QKD-481"
	TestCustomerName = "John"
	TestPhone        = "5551234567"
)

func newTestService(t *testing.T) (*OrderService, *mocks.MockOrderRepository, *mocks.MockPublisher, *metrics.Metrics) {
	t.Helper()
	m, err := menu.Default()
	require.NoError(t, err)

	repo := new(mocks.MockOrderRepository)
	pub := new(mocks.MockPublisher)
	mt := metrics.New()
	return NewOrderService(repo, pub, m, zap.NewNop(), mt), repo, pub, mt
}

// sequentialIDs yields AAA-100, AAA-101, ... so retries are predictable.
func sequentialIDs() func() string {
	n := 100
	return func() string {
		id := fmt.Sprintf("AAA-%d", n)
		n++
		return id
	}
}

// expectPublish registers a publish expectation and returns a channel closed
// once the event goroutine has delivered it.
func expectPublish(pub *mocks.MockPublisher, pattern string) <-chan struct{} {
	done := make(chan struct{})
	pub.On("Publish", mock.Anything, pattern, mock.Anything).Return(nil).Once().Run(func(mock.Arguments) {
		close(done)
	})
	return done
}

func waitFor(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("event was not published")
	}
}

func CreateConfirmedState() *dialogue.OrderState {
	s := dialogue.NewOrderState()
	s.AddItems([]dialogue.LineItem{
		{Name: "Signature Pasta", Quantity: 2, UnitPrice: 1499},
		{Name: "Gourmet Burger", Quantity: 1, UnitPrice: 1299},
	})
	s.CustomerName = TestCustomerName
	s.PhoneNumber = TestPhone
	s.PhoneConfirmed = true
	s.Address = "123 Main St"
	s.DeliveryTime = "6pm"
	s.Step = dialogue.StepReviewConfirmation
	return s
}

func CreateMockOrder(shortID string, status domain.OrderStatus) *domain.Order {
	o := &domain.Order{
		ID:           1,
		ShortID:      shortID,
		CustomerName: TestCustomerName,
		PhoneNumber:  TestPhone,
		DeliveryType: domain.Delivery,
		Address:      "123 Main St",
		DeliveryTime: "6pm",
		Status:       status,
		Channel:      domain.ChannelVoice,
		Items: []domain.OrderItem{
			{Name: "Gourmet Burger", Quantity: 1, UnitPriceCents: 1299},
		},
		CreatedAt: time.Now(),
	}
	o.Recompute()
	return o
}
