package dialogue

import (
	"fmt"
	"strings"

	"voice-order-service/internal/domain"
)

const (
	msgGreeting         = "Hello! Thank you for calling. How can I help you with your order today?"
	msgAskName          = "Great! May I have your name for the order?"
	msgNameAgain        = "I didn't catch your name. Could you please repeat it?"
	msgAskPhone         = "Could I have your phone number? (Please provide a 10-digit number, e.g., 1234567890)"
	msgPhoneAgain       = "I didn't get a valid phone number. Could you please repeat it? (Please provide a 10-digit number, e.g., 1234567890)"
	msgPhoneGaveUp      = "I couldn't validate your phone number after a few attempts. We'll proceed without it for now. Would you like delivery or pickup?"
	msgAskDeliveryType  = "Would you like delivery or pickup?"
	msgAskAddress       = "Please provide your delivery address."
	msgAddressAgain     = "Sorry, I need your full delivery address, including the street."
	msgAskTime          = "When would you like your order delivered or picked up? (e.g., 6:00 PM)"
	msgSummaryHeader    = "Here's your order summary:"
	msgAskConfirm       = "Is this order correct? Please say 'yes' to confirm or 'no' to make changes."
	msgConfirmAgain     = "Please say 'yes' to confirm your order or 'no' to start over."
	msgStartOver        = "I apologize for any mistakes. Let's start over. What would you like to order?"
	msgAnythingElse     = "Would you like to add or remove anything else?"
	msgItemsNotFound    = "I apologize, but I couldn't identify those items in our menu. Could you please try again?"
	msgNothingToCancel  = "You don't have any items in your order to cancel. Would you like to order something?"
	msgCancelUnknown    = "I couldn't identify the item to cancel. Please specify the item, e.g., 'cancel my burger'."
	msgOrderEmpty       = "Your order is now empty. Would you like to order something?"
	msgPaymentTransfer  = "I'll transfer you to our secure payment system now. You can complete your payment there."
	msgNotUnderstood    = "I didn't understand that. Could you please repeat or rephrase?"
	msgUnrecognizedHint = "Please try rephrasing or ask about our menu options."
)

func handoff(t domain.DeliveryType) string {
	if t == domain.Pickup {
		return "pickup"
	}
	return "delivery"
}

func phoneNote(s *OrderState) string {
	if s.PhoneNumber == "" || s.PhoneNumber == domain.PhoneNotProvided {
		return ""
	}
	return fmt.Sprintf(" (Your phone number is %s)", FormatPhone(s.PhoneNumber))
}

func cartSummary(s *OrderState) string {
	return "Your current order:\n" + s.itemLines() + "\nTotal: " + s.Total.Dollars()
}

func orderSummary(s *OrderState) string {
	var b strings.Builder
	b.WriteString(msgSummaryHeader + "\n")
	b.WriteString(cartSummary(s) + "\n")
	fmt.Fprintf(&b, "\nCustomer: %s\n", s.CustomerName)
	if s.PhoneNumber != domain.PhoneNotProvided {
		fmt.Fprintf(&b, "Phone: %s\n", FormatPhone(s.PhoneNumber))
	}
	if s.DeliveryType == domain.Pickup {
		b.WriteString("Delivery Type: Pickup\n")
	} else {
		fmt.Fprintf(&b, "Delivery Type: Delivery to %s\n", s.Address)
	}
	fmt.Fprintf(&b, "Scheduled Time: %s\n", s.DeliveryTime)
	b.WriteString(msgAskConfirm)
	return b.String()
}

func askPayment(s *OrderState) string {
	return fmt.Sprintf("Great! Your order total is %s. Would you like to pay now or at %s? Please say 'pay now' or 'pay later'.",
		s.Total.Dollars(), handoff(s.DeliveryType))
}

func payLater(s *OrderState) string {
	order := "Your order"
	if s.OrderID != "" {
		order = fmt.Sprintf("Your order (ID: %s)", s.OrderID)
	}
	return fmt.Sprintf("No problem! You can pay %s at %s. %s has been confirmed and will be ready at %s. You can track your order status on our website. Have a great day!",
		s.Total.Dollars(), handoff(s.DeliveryType), order, s.DeliveryTime)
}

func askPaymentAgain(s *OrderState) string {
	return "Please say 'pay now' to complete payment or 'pay later' to pay at " + handoff(s.DeliveryType) + "."
}

// prompt is what the assistant asks when a conversation arrives at step.
func prompt(step Step, s *OrderState) string {
	switch step {
	case StepCollectingItems:
		return "What would you like to order?"
	case StepCollectingName:
		return msgAskName
	case StepCollectingPhone:
		return msgAskPhone
	case StepCollectingDeliveryType:
		return msgAskDeliveryType + phoneNote(s)
	case StepCollectingAddress:
		return msgAskAddress
	case StepCollectingTime:
		return msgAskTime
	case StepReviewConfirmation:
		return orderSummary(s)
	}
	return msgNotUnderstood
}
