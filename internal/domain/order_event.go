package domain

import "time"

type OrderConfirmedEvent struct {
	OrderID      string       `json:"orderId"`
	CustomerName string       `json:"customerName"`
	DeliveryType DeliveryType `json:"deliveryType"`
	DeliveryTime string       `json:"deliveryTime"`
	TotalCents   int64        `json:"totalCents"`
	Channel      Channel      `json:"channel"`
	Items        []OrderItem  `json:"items"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// OrderCreatedEvent announces an order taken but not yet confirmed by the
// kitchen, e.g. an online checkout.
type OrderCreatedEvent struct {
	OrderID      string       `json:"orderId"`
	Status       OrderStatus  `json:"status"`
	CustomerName string       `json:"customerName"`
	DeliveryType DeliveryType `json:"deliveryType"`
	DeliveryTime string       `json:"deliveryTime"`
	TotalCents   int64        `json:"totalCents"`
	Channel      Channel      `json:"channel"`
	Items        []OrderItem  `json:"items"`
	CreatedAt    time.Time    `json:"createdAt"`
}

type OrderStatusChangedEvent struct {
	OrderID   string      `json:"orderId"`
	Status    OrderStatus `json:"status"`
	ChangedAt time.Time   `json:"changedAt"`
}

func NewOrderConfirmedEvent(o *Order) OrderConfirmedEvent {
	return OrderConfirmedEvent{
		OrderID:      o.ShortID,
		CustomerName: o.CustomerName,
		DeliveryType: o.DeliveryType,
		DeliveryTime: o.DeliveryTime,
		TotalCents:   o.TotalCents,
		Channel:      o.Channel,
		Items:        o.Items,
		CreatedAt:    o.CreatedAt,
	}
}

func NewOrderCreatedEvent(o *Order) OrderCreatedEvent {
	return OrderCreatedEvent{
		OrderID:      o.ShortID,
		Status:       o.Status,
		CustomerName: o.CustomerName,
		DeliveryType: o.DeliveryType,
		DeliveryTime: o.DeliveryTime,
		TotalCents:   o.TotalCents,
		Channel:      o.Channel,
		Items:        o.Items,
		CreatedAt:    o.CreatedAt,
	}
}
