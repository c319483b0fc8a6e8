package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"voice-order-service/internal/dialogue"
	"voice-order-service/internal/domain"
	rabbit "voice-order-service/internal/infra/rabbitmq"
	"voice-order-service/internal/menu"
	"voice-order-service/internal/metrics"
	"voice-order-service/internal/repository"

	"github.com/go-redis/redis/v8"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const (
	maxIDAttempts    = 20
	defaultListLimit = 20
	maxListLimit     = 100
	publishTimeout   = 5 * time.Second
)

// CheckoutItem is one line of an online cart.
type CheckoutItem struct {
	Name     string
	Quantity int
	Special  string
}

// Checkout is an online order submitted in one request.
type Checkout struct {
	Items        []CheckoutItem
	CustomerName string
	PhoneNumber  string
	DeliveryType domain.DeliveryType
	Address      string
	DeliveryTime string
}

type OrderService struct {
	repo        repository.OrderRepository
	publisher   rabbit.PublisherInterface
	menu        *menu.Menu
	logger      *zap.Logger
	metrics     *metrics.Metrics
	cb          *gobreaker.CircuitBreaker
	redisClient *redis.Client
	cacheTTL    time.Duration
	newID       func() string
}

var _ dialogue.OrderRecorder = (*OrderService)(nil)

func NewOrderService(r repository.OrderRepository, pub rabbit.PublisherInterface, m *menu.Menu, logger *zap.Logger, mt *metrics.Metrics) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		repo:      r,
		publisher: pub,
		menu:      m,
		logger:    logger,
		metrics:   mt,
		cb:        newStoreBreaker(logger),
		cacheTTL:  5 * time.Minute,
		newID:     NewShortID,
	}
}

func (u *OrderService) SetRedisClient(client *redis.Client, ttl time.Duration) {
	u.redisClient = client
	if ttl > 0 {
		u.cacheTTL = ttl
	}
}

// RecordOrder saves a conversation the customer has just confirmed and
// returns its short id.
func (u *OrderService) RecordOrder(ctx context.Context, state *dialogue.OrderState) (string, error) {
	if !state.HasItems() {
		return "", ErrEmptyOrder
	}

	order := state.ToOrder()
	if err := u.persist(ctx, order); err != nil {
		u.metrics.PersistFailed()
		return "", err
	}

	u.metrics.OrderConfirmed(string(order.Channel))
	go u.publishEvent("order.confirmed", domain.NewOrderConfirmedEvent(order))

	u.logger.Info("voice order recorded",
		zap.String("order_id", order.ShortID),
		zap.Int64("total_cents", order.TotalCents),
	)
	return order.ShortID, nil
}

// PlaceOrder prices an online cart from the menu and stores it as pending.
func (u *OrderService) PlaceOrder(ctx context.Context, c Checkout) (*domain.Order, error) {
	order, err := u.buildOnlineOrder(c)
	if err != nil {
		return nil, err
	}

	if err := u.persist(ctx, order); err != nil {
		u.metrics.PersistFailed()
		return nil, err
	}

	u.metrics.OrderCreated(string(order.Channel))
	go u.publishEvent("order.created", domain.NewOrderCreatedEvent(order))

	return order, nil
}

func (u *OrderService) buildOnlineOrder(c Checkout) (*domain.Order, error) {
	if len(c.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	order := &domain.Order{
		CustomerName: strings.TrimSpace(c.CustomerName),
		DeliveryType: c.DeliveryType,
		DeliveryTime: strings.TrimSpace(c.DeliveryTime),
		Status:       domain.StatusPending,
		Channel:      domain.ChannelOnline,
	}

	for _, it := range c.Items {
		entry, ok := u.menu.Match(menu.Normalize(it.Name))
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownItem, it.Name)
		}
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity for %s must be positive", ErrInvalidCheckout, entry.Name)
		}
		order.Items = append(order.Items, domain.OrderItem{
			Name:           entry.Name,
			Quantity:       it.Quantity,
			UnitPriceCents: int64(entry.Price),
			Special:        strings.TrimSpace(it.Special),
		})
	}

	phone, ok := dialogue.ExtractPhone(c.PhoneNumber)
	if !ok {
		return nil, fmt.Errorf("%w: phone number %q", ErrInvalidCheckout, c.PhoneNumber)
	}
	order.PhoneNumber = phone

	switch c.DeliveryType {
	case domain.Pickup:
		order.Address = domain.PickupAddress
	case domain.Delivery, "":
		order.DeliveryType = domain.Delivery
		order.Address = strings.TrimSpace(c.Address)
		if order.Address == "" {
			return nil, fmt.Errorf("%w: delivery address required", ErrInvalidCheckout)
		}
	default:
		return nil, fmt.Errorf("%w: delivery type %q", ErrInvalidCheckout, c.DeliveryType)
	}

	order.Recompute()
	return order, nil
}

// persist allocates a short id and saves the order. Ids that turn out to be
// taken are redrawn, up to maxIDAttempts in total.
func (u *OrderService) persist(ctx context.Context, order *domain.Order) error {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := u.newID()

		var exists bool
		err := u.guard(func() error {
			var err error
			exists, err = u.repo.ExistsShortID(ctx, id)
			return err
		})
		if err != nil {
			return fmt.Errorf("check order id: %w", err)
		}
		if exists {
			continue
		}

		order.ShortID = id
		err = u.guard(func() error { return u.repo.Save(ctx, order) })
		if errors.Is(err, repository.ErrDuplicateOrder) {
			continue
		}
		return err
	}

	u.logger.Error("order id space exhausted", zap.Int("attempts", maxIDAttempts))
	return ErrOrderIDExhausted
}

func (u *OrderService) GetOrder(ctx context.Context, shortID string) (*domain.Order, error) {
	shortID = strings.ToUpper(strings.TrimSpace(shortID))
	cacheKey := orderCacheKey(shortID)

	if u.redisClient != nil {
		cached, err := u.redisClient.Get(ctx, cacheKey).Result()
		if err == nil {
			var o domain.Order
			if err := json.Unmarshal([]byte(cached), &o); err == nil {
				return &o, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			u.logger.Warn("order cache read failed", zap.String("order_id", shortID), zap.Error(err))
		}
	}

	var o *domain.Order
	err := u.guard(func() error {
		var err error
		o, err = u.repo.FindByShortID(ctx, shortID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if u.redisClient != nil {
		if data, err := json.Marshal(o); err == nil {
			u.redisClient.Set(ctx, cacheKey, data, u.cacheTTL)
		}
	}

	return o, nil
}

// ListOrders returns the newest orders. limit is clamped to [1, 100].
func (u *OrderService) ListOrders(ctx context.Context, limit int) ([]domain.Order, error) {
	switch {
	case limit <= 0:
		limit = defaultListLimit
	case limit > maxListLimit:
		limit = maxListLimit
	}

	var out []domain.Order
	err := u.guard(func() error {
		var err error
		out, err = u.repo.List(ctx, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Order{}
	}
	return out, nil
}

func (u *OrderService) UpdateStatus(ctx context.Context, shortID string, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	shortID = strings.ToUpper(strings.TrimSpace(shortID))

	if err := u.guard(func() error { return u.repo.UpdateStatus(ctx, shortID, status) }); err != nil {
		return nil, err
	}

	if u.redisClient != nil {
		if err := u.redisClient.Del(ctx, orderCacheKey(shortID)).Err(); err != nil {
			u.logger.Warn("order cache invalidation failed", zap.String("order_id", shortID), zap.Error(err))
		}
	}

	go u.publishEvent("order.status_changed", domain.OrderStatusChangedEvent{
		OrderID:   shortID,
		Status:    status,
		ChangedAt: time.Now(),
	})

	var o *domain.Order
	err := u.guard(func() error {
		var err error
		o, err = u.repo.FindByShortID(ctx, shortID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (u *OrderService) publishEvent(pattern string, evt any) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := u.publisher.Publish(ctx, pattern, evt); err != nil {
		u.logger.Warn("failed to publish event", zap.String("pattern", pattern), zap.Error(err))
		return
	}
	u.logger.Debug("event published", zap.String("pattern", pattern))
}

func orderCacheKey(shortID string) string {
	return "order:" + shortID
}
