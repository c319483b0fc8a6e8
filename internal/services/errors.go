package services

import (
	"errors"

	"voice-order-service/internal/repository"
)

var (
	ErrOrderNotFound    = repository.ErrOrderNotFound
	ErrInvalidStatus    = errors.New("invalid order status")
	ErrOrderIDExhausted = errors.New("could not allocate a unique order id")
	ErrEmptyOrder       = errors.New("order has no items")
	ErrUnknownItem      = errors.New("item is not on the menu")
	ErrInvalidCheckout  = errors.New("invalid checkout")
	ErrStoreUnavailable = errors.New("order store temporarily unavailable")
)
