package gormrepo

import (
	"context"
	"errors"
	"fmt"

	"voice-order-service/internal/domain"
	"voice-order-service/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type orderRepo struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewOrderRepository(db *gorm.DB, logger *zap.Logger) repository.OrderRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &orderRepo{db: db, logger: logger}
}

// Save inserts the order and its items in one transaction.
func (r *orderRepo) Save(ctx context.Context, order *domain.Order) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(order).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("save order %s: %w", order.ShortID, repository.ErrDuplicateOrder)
		}
		r.logger.Error("database save error", zap.String("order_id", order.ShortID), zap.Error(err))
		return fmt.Errorf("save order %s: %w", order.ShortID, err)
	}

	if order.ID == 0 {
		return errors.New("failed to assign order ID")
	}

	r.logger.Debug("order saved", zap.String("order_id", order.ShortID), zap.Uint64("row_id", order.ID))
	return nil
}

func (r *orderRepo) ExistsShortID(ctx context.Context, shortID string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&domain.Order{}).Where("short_id = ?", shortID).Count(&n).Error; err != nil {
		return false, fmt.Errorf("check order id %s: %w", shortID, err)
	}
	return n > 0, nil
}

func (r *orderRepo) FindByShortID(ctx context.Context, shortID string) (*domain.Order, error) {
	var o domain.Order
	err := r.db.WithContext(ctx).Preload("Items").Where("short_id = ?", shortID).First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}
		r.logger.Error("find order error", zap.String("order_id", shortID), zap.Error(err))
		return nil, err
	}
	return &o, nil
}

// List returns the newest orders first.
func (r *orderRepo) List(ctx context.Context, limit int) ([]domain.Order, error) {
	var out []domain.Order
	q := r.db.WithContext(ctx).Preload("Items").Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		r.logger.Error("list orders error", zap.Error(err))
		return nil, err
	}
	return out, nil
}

func (r *orderRepo) UpdateStatus(ctx context.Context, shortID string, status domain.OrderStatus) error {
	res := r.db.WithContext(ctx).Model(&domain.Order{}).
		Where("short_id = ?", shortID).
		Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("update status of %s: %w", shortID, res.Error)
	}
	if res.RowsAffected == 0 {
		return repository.ErrOrderNotFound
	}
	return nil
}
