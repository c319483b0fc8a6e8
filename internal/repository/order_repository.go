package repository

import (
	"context"

	"voice-order-service/internal/domain"
)

type OrderRepository interface {
	Save(ctx context.Context, order *domain.Order) error
	ExistsShortID(ctx context.Context, shortID string) (bool, error)
	FindByShortID(ctx context.Context, shortID string) (*domain.Order, error)
	List(ctx context.Context, limit int) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, shortID string, status domain.OrderStatus) error
}
