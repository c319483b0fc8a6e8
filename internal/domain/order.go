package domain

import "time"

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type DeliveryType string

const (
	Delivery DeliveryType = "delivery"
	Pickup   DeliveryType = "pickup"
)

type Channel string

const (
	ChannelVoice  Channel = "voice"
	ChannelOnline Channel = "online"
)

// Sentinels stored when a value could not be collected but the order went ahead.
const (
	PhoneNotProvided = "Not provided"
	PickupAddress    = "In-store pickup"
)

type Order struct {
	ID           uint64       `json:"-" gorm:"primaryKey;autoIncrement"`
	ShortID      string       `json:"orderId" gorm:"size:16;not null;uniqueIndex"`
	Items        []OrderItem  `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CustomerName string       `json:"customerName" gorm:"size:128"`
	PhoneNumber  string       `json:"phoneNumber" gorm:"size:32"`
	DeliveryType DeliveryType `json:"deliveryType" gorm:"type:varchar(16);not null;default:'delivery'"`
	Address      string       `json:"address" gorm:"size:255"`
	DeliveryTime string       `json:"deliveryTime" gorm:"size:64"`
	TotalCents   int64        `json:"totalCents" gorm:"not null"`
	Status       OrderStatus  `json:"status" gorm:"type:varchar(16);not null;default:'pending';index"`
	Channel      Channel      `json:"channel" gorm:"type:varchar(16);not null;default:'voice'"`
	CreatedAt    time.Time    `json:"createdAt" gorm:"autoCreateTime;index"`
	UpdatedAt    time.Time    `json:"updatedAt" gorm:"autoUpdateTime"`
}

type OrderItem struct {
	ID             uint64 `json:"-" gorm:"primaryKey;autoIncrement"`
	OrderID        uint64 `json:"-" gorm:"not null;index"`
	Name           string `json:"name" gorm:"size:128;not null"`
	Quantity       int    `json:"quantity" gorm:"not null"`
	UnitPriceCents int64  `json:"unitPriceCents" gorm:"not null"`
	Special        string `json:"special,omitempty" gorm:"size:255"`
}

// Recompute sets TotalCents from the line items.
func (o *Order) Recompute() {
	var total int64
	for _, it := range o.Items {
		total += int64(it.Quantity) * it.UnitPriceCents
	}
	o.TotalCents = total
}

func (o *Order) Total() Money {
	return Money(o.TotalCents)
}
