package services

import (
	"errors"
	"time"

	"voice-order-service/internal/repository"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

func newStoreBreaker(logger *zap.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "OrderStore",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
		// a taken id or a missing row says nothing about store health
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, repository.ErrDuplicateOrder) ||
				errors.Is(err, repository.ErrOrderNotFound)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn(
				"Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}

// guard runs fn through the breaker, mapping an open breaker to ErrStoreUnavailable.
func (u *OrderService) guard(fn func() error) error {
	_, err := u.cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrStoreUnavailable
	}
	return err
}
