package http

import (
	"voice-order-service/internal/dialogue"
	"voice-order-service/internal/domain"
)

// TurnRequest is one recognized utterance plus the conversation so far, as
// the browser voice client posts it.
type TurnRequest struct {
	Transcript       string               `json:"transcript" binding:"required"`
	CurrentOrder     *dialogue.OrderState `json:"currentOrder"`
	ConfirmationStep int                  `json:"confirmationStep" binding:"min=0,max=9"`
}

type TurnResponse struct {
	Success          bool                 `json:"success"`
	Response         string               `json:"response"`
	OrderDetails     *dialogue.OrderState `json:"orderDetails"`
	ConfirmationStep int                  `json:"confirmationStep"`
	OrderConfirmed   bool                 `json:"orderConfirmed"`
	InvalidItems     []string             `json:"invalidItems"`
}

type MenuItemResponse struct {
	Name       string   `json:"name"`
	Price      string   `json:"price"`
	PriceCents int64    `json:"priceCents"`
	Aliases    []string `json:"aliases"`
}

type CheckoutItemRequest struct {
	Name     string `json:"name" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,gt=0,lte=50"`
	Special  string `json:"special" binding:"max=255"`
}

type CheckoutRequest struct {
	Items        []CheckoutItemRequest `json:"items" binding:"required,min=1,dive"`
	CustomerName string                `json:"customerName" binding:"required,max=128"`
	PhoneNumber  string                `json:"phoneNumber" binding:"required"`
	DeliveryType domain.DeliveryType   `json:"deliveryType" binding:"omitempty,oneof=delivery pickup"`
	Address      string                `json:"address" binding:"max=255"`
	DeliveryTime string                `json:"deliveryTime" binding:"required,max=64"`
}

type StatusRequest struct {
	Status domain.OrderStatus `json:"status" binding:"required,oneof=pending confirmed completed cancelled"`
}

type CreateOrderResponse struct {
	Success bool          `json:"success"`
	OrderID string        `json:"orderId"`
	Order   *domain.Order `json:"order"`
}
