package dialogue

import (
	"fmt"
	"strings"

	"voice-order-service/internal/domain"
)

// Step marks where a conversation sits in the ordering dialogue.
type Step int

const (
	StepIdle Step = iota
	StepCollectingItems
	StepCollectingName
	StepCollectingPhone
	StepCollectingDeliveryType
	StepCollectingAddress
	StepCollectingTime
	StepReviewConfirmation
	StepPaymentChoice
	StepDone
)

var stepNames = [...]string{
	"idle",
	"collecting_items",
	"collecting_name",
	"collecting_phone",
	"collecting_delivery_type",
	"collecting_address",
	"collecting_time",
	"review_confirmation",
	"payment_choice",
	"done",
}

func (s Step) Valid() bool {
	return s >= StepIdle && s <= StepDone
}

func (s Step) String() string {
	if !s.Valid() {
		return fmt.Sprintf("step(%d)", int(s))
	}
	return stepNames[s]
}

// MaxQuantity caps one line of an order.
const MaxQuantity = 50

type LineItem struct {
	Name      string       `json:"name"`
	Quantity  int          `json:"quantity"`
	UnitPrice domain.Money `json:"unitPriceCents"`
}

func (li LineItem) Subtotal() domain.Money {
	return li.UnitPrice * domain.Money(li.Quantity)
}

// OrderState is the order being built by one conversation. It travels with
// each turn; the engine never keeps it between calls.
type OrderState struct {
	Items           []LineItem          `json:"items"`
	CustomerName    string              `json:"customerName"`
	PhoneNumber     string              `json:"phoneNumber"`
	PhoneConfirmed  bool                `json:"phoneConfirmed"`
	PhoneRetryCount int                 `json:"phoneRetryCount"`
	DeliveryType    domain.DeliveryType `json:"deliveryType"`
	Address         string              `json:"address"`
	DeliveryTime    string              `json:"deliveryTime"`
	Total           domain.Money        `json:"totalCents"`
	Step            Step                `json:"confirmationStep"`
	OrderID         string              `json:"orderId,omitempty"`
}

func NewOrderState() *OrderState {
	return &OrderState{
		Items:        []LineItem{},
		DeliveryType: domain.Delivery,
	}
}

func (s *OrderState) Clone() *OrderState {
	if s == nil {
		return nil
	}
	c := *s
	c.Items = make([]LineItem, len(s.Items))
	copy(c.Items, s.Items)
	return &c
}

func (s *OrderState) HasItems() bool {
	return s != nil && len(s.Items) > 0
}

// Recompute derives Total from Items. Call it after every item change.
func (s *OrderState) Recompute() {
	var total domain.Money
	for _, it := range s.Items {
		total += it.Subtotal()
	}
	s.Total = total
}

// AddItems merges items by name, summing quantities up to MaxQuantity and
// keeping first-seen order.
func (s *OrderState) AddItems(items []LineItem) {
	for _, in := range items {
		merged := false
		for i := range s.Items {
			if s.Items[i].Name == in.Name {
				s.Items[i].Quantity = min(s.Items[i].Quantity+min(in.Quantity, MaxQuantity), MaxQuantity)
				merged = true
				break
			}
		}
		if !merged {
			in.Quantity = min(in.Quantity, MaxQuantity)
			s.Items = append(s.Items, in)
		}
	}
	s.Recompute()
}

func (s *OrderState) RemoveItem(name string) bool {
	for i, it := range s.Items {
		if it.Name == name {
			s.Items = append(s.Items[:i], s.Items[i+1:]...)
			s.Recompute()
			return true
		}
	}
	return false
}

// nextStep is the first step whose field is still missing.
func (s *OrderState) nextStep() Step {
	switch {
	case !s.HasItems():
		return StepCollectingItems
	case s.CustomerName == "":
		return StepCollectingName
	case !s.PhoneConfirmed:
		return StepCollectingPhone
	case s.Address == "":
		return StepCollectingDeliveryType
	case s.DeliveryTime == "":
		return StepCollectingTime
	default:
		return StepReviewConfirmation
	}
}

// ToOrder converts a confirmed conversation into the persisted order shape.
func (s *OrderState) ToOrder() *domain.Order {
	o := &domain.Order{
		ShortID:      s.OrderID,
		CustomerName: s.CustomerName,
		PhoneNumber:  s.PhoneNumber,
		DeliveryType: s.DeliveryType,
		Address:      s.Address,
		DeliveryTime: s.DeliveryTime,
		Status:       domain.StatusConfirmed,
		Channel:      domain.ChannelVoice,
	}
	for _, it := range s.Items {
		o.Items = append(o.Items, domain.OrderItem{
			Name:           it.Name,
			Quantity:       it.Quantity,
			UnitPriceCents: int64(it.UnitPrice),
		})
	}
	o.Recompute()
	return o
}

func (s *OrderState) itemLines() string {
	var b strings.Builder
	for _, it := range s.Items {
		fmt.Fprintf(&b, "%dx %s at %s each\n", it.Quantity, it.Name, it.UnitPrice.Dollars())
	}
	return b.String()
}
