package dialogue

import (
	"fmt"
	"strings"

	"voice-order-service/internal/domain"

	"go.uber.org/zap"
)

// rule is one guarded transition. Rules are evaluated in order and the first
// whose guard holds handles the turn.
type rule struct {
	name string
	when func(t *turn) bool
	then func(t *turn)
}

func defaultRules() []rule {
	return []rule{
		{"menu", wantsMenu, showMenu},
		{"remove_item", wantsRemoval, removeItem},
		{"greeting", isGreeting, greet},
		{"add_items", wantsToOrder, addItems},
		{"items_done", finishedOrdering, askForName},
		{"name", givesName, takeName},
		{"phone", awaitingPhone, takePhone},
		{"delivery_type_prompt", missingDeliveryChoice, repromptDeliveryType},
		{"delivery_type", awaitingDeliveryOrAddress, takeDeliveryOrAddress},
		{"delivery_time", awaitingTime, takeTime},
		{"review", awaitingReview, review},
		{"payment", awaitingPayment, choosePayment},
		{"fallback", always, notUnderstood},
	}
}

var orderingWords = []string{"order", "want", "like", "get", "have", "add"}

func wantsMenu(t *turn) bool {
	return t.hasWord("menu")
}

func showMenu(t *turn) {
	t.reply = t.menu.Listing()
}

func wantsRemoval(t *turn) bool {
	return t.step <= StepReviewConfirmation && t.hasWord("cancel", "remove")
}

func removeItem(t *turn) {
	if !t.state.HasItems() {
		t.reply = msgNothingToCancel
		return
	}

	var removed string
	for _, it := range t.state.Items {
		e, ok := t.menu.Lookup(it.Name)
		if ok && e.Mentions(t.raw) {
			removed = it.Name
			break
		}
	}
	if removed == "" {
		t.reply = msgCancelUnknown
		return
	}

	t.state.RemoveItem(removed)
	msg := fmt.Sprintf("I've removed %s from your order.\n", removed)
	if !t.state.HasItems() {
		t.state = nil
		t.step = StepIdle
		t.reply = msg + msgOrderEmpty
		return
	}
	t.resume(msg + cartSummary(t.state))
}

func isGreeting(t *turn) bool {
	return !t.state.HasItems() && t.hasWord("hello", "hi", "hey")
}

func greet(t *turn) {
	t.reply = msgGreeting
}

func wantsToOrder(t *turn) bool {
	if t.step >= StepPaymentChoice {
		return false
	}
	intent := t.hasWord(orderingWords...) || t.mentionsCanonical() ||
		(t.step <= StepCollectingItems && t.mentionsAlias())
	if !intent {
		return false
	}
	// Past the cart, ordering words only count when they name real items,
	// so "I'd like pickup" still reaches the delivery rules.
	return t.step <= StepCollectingItems || len(t.extraction().Items) > 0
}

func addItems(t *turn) {
	ex := t.extraction()
	t.unrecognized = ex.Unrecognized
	t.ensureState()

	if len(ex.Items) == 0 {
		t.step = StepCollectingItems
		t.reply = msgItemsNotFound
		return
	}

	t.state.AddItems(ex.Items)

	var b strings.Builder
	b.WriteString("I've added the following items to your order:\n")
	for _, it := range ex.Items {
		fmt.Fprintf(&b, "%dx %s at %s each\n", it.Quantity, it.Name, it.UnitPrice.Dollars())
	}
	if len(ex.Unrecognized) > 0 {
		fmt.Fprintf(&b, "\nNote: I couldn't recognize these items: %s. %s\n",
			strings.Join(ex.Unrecognized, ", "), msgUnrecognizedHint)
	}
	b.WriteString("\n" + cartSummary(t.state))
	t.resume(b.String())
}

// resume follows a cart change. Until a name is known the caller keeps
// adding items; after that the conversation goes back to the first field
// still missing and asks for it.
func (t *turn) resume(summary string) {
	if t.state.CustomerName == "" {
		t.step = StepCollectingItems
		t.reply = summary + "\n" + msgAnythingElse
		return
	}
	t.step = t.state.nextStep()
	t.reply = summary + "\n\n" + prompt(t.step, t.state)
}

func (t *turn) closing() bool {
	return t.hasWord("no", "nope", "nah", "thats") ||
		t.hasPhrase("that is all", "that is everything", "nothing else", "im done", "all done")
}

func finishedOrdering(t *turn) bool {
	return t.step == StepCollectingItems && t.state.HasItems() && t.closing()
}

func askForName(t *turn) {
	t.advance()
}

func givesName(t *turn) bool {
	if !t.state.HasItems() || t.state.CustomerName != "" || t.closing() {
		return false
	}
	switch t.step {
	case StepCollectingName:
		return true
	case StepCollectingItems:
		return len(strings.TrimSpace(t.raw)) > 2
	}
	return false
}

func takeName(t *turn) {
	name, ok := ExtractName(t.raw)
	if !ok {
		t.step = StepCollectingName
		t.reply = msgNameAgain
		return
	}
	t.state.CustomerName = name
	t.step = t.state.nextStep()
	t.reply = fmt.Sprintf("Thank you, %s. %s", name, prompt(t.step, t.state))
}

// collectingDetails holds once the cart and the name are in and payment has
// not started. The detail rules below key on which fields are still empty,
// not on the step, so an answer is accepted whatever the last prompt was.
func (t *turn) collectingDetails() bool {
	return t.state.HasItems() && t.state.CustomerName != "" && t.step < StepPaymentChoice
}

func awaitingPhone(t *turn) bool {
	return t.collectingDetails() && !t.state.PhoneConfirmed
}

const maxPhoneAttempts = 3

func takePhone(t *turn) {
	if phone, ok := ExtractPhone(t.raw); ok {
		t.state.PhoneNumber = phone
		t.state.PhoneConfirmed = true
		t.state.PhoneRetryCount = 0
		t.advance()
		return
	}

	t.state.PhoneRetryCount++
	if t.state.PhoneRetryCount < maxPhoneAttempts {
		t.reply = msgPhoneAgain
		return
	}

	t.state.PhoneNumber = domain.PhoneNotProvided
	t.state.PhoneConfirmed = true
	t.state.PhoneRetryCount = 0
	t.step = t.state.nextStep()
	t.reply = msgPhoneGaveUp
}

func (t *turn) mentionsDelivery() bool {
	return t.hasWord("delivery", "deliver", "delivered")
}

func (t *turn) mentionsPickup() bool {
	return t.hasWord("pickup", "collect", "collection") || t.hasPhrase("pick up", "pick it up")
}

func needsAddress(t *turn) bool {
	return t.collectingDetails() && t.state.PhoneConfirmed && t.state.Address == ""
}

// missingDeliveryChoice skips CollectingAddress: there delivery was already
// chosen and the utterance is the address itself.
func missingDeliveryChoice(t *turn) bool {
	return needsAddress(t) && t.step != StepCollectingAddress &&
		!t.mentionsDelivery() && !t.mentionsPickup()
}

func repromptDeliveryType(t *turn) {
	t.reply = prompt(StepCollectingDeliveryType, t.state)
}

func awaitingDeliveryOrAddress(t *turn) bool {
	return needsAddress(t)
}

func takeDeliveryOrAddress(t *turn) {
	switch {
	case t.mentionsPickup():
		t.state.DeliveryType = domain.Pickup
		t.state.Address = domain.PickupAddress
		t.advance()
	case t.step != StepCollectingAddress:
		t.state.DeliveryType = domain.Delivery
		t.state.Address = ""
		t.step = StepCollectingAddress
		t.reply = msgAskAddress
	case len(strings.TrimSpace(t.raw)) > 10:
		t.state.DeliveryType = domain.Delivery
		t.state.Address = strings.TrimSpace(t.raw)
		t.advance()
	default:
		t.reply = msgAddressAgain
	}
}

func awaitingTime(t *turn) bool {
	return t.collectingDetails() && t.state.PhoneConfirmed &&
		t.state.Address != "" && t.state.DeliveryTime == ""
}

func takeTime(t *turn) {
	t.state.DeliveryTime = ExtractTime(t.raw)
	t.advance()
}

func awaitingReview(t *turn) bool {
	return t.step == StepReviewConfirmation && t.state.HasItems()
}

func review(t *turn) {
	switch {
	case t.hasWord("yes", "yeah", "yep", "yup", "correct", "confirm", "sure"):
		t.confirm()
	case t.hasWord("no", "nope", "wrong"):
		t.state = nil
		t.step = StepIdle
		t.reply = msgStartOver
	default:
		t.reply = msgConfirmAgain
	}
}

func awaitingPayment(t *turn) bool {
	return t.step == StepPaymentChoice && t.state != nil
}

func choosePayment(t *turn) {
	switch {
	case t.hasWord("now"):
		t.step = StepDone
		t.reply = msgPaymentTransfer
	case t.hasWord("later"):
		t.step = StepDone
		t.reply = payLater(t.state)
	default:
		t.reply = askPaymentAgain(t.state)
	}
}

func always(*turn) bool { return true }

func notUnderstood(t *turn) {
	t.reply = msgNotUnderstood
}

// confirm hands the order to the recorder. It runs only from
// ReviewConfirmation and moves the conversation on to PaymentChoice, so one
// confirmation records one order.
func (t *turn) confirm() {
	t.confirmed = true
	t.step = StepPaymentChoice

	var idNote string
	if t.recorder != nil {
		id, err := t.recorder.RecordOrder(t.ctx, t.state.Clone())
		if err != nil {
			t.logger.Error("failed to persist confirmed order",
				zap.Error(err),
				zap.String("customer", t.state.CustomerName),
				zap.Int64("total_cents", int64(t.state.Total)),
			)
		} else {
			t.state.OrderID = id
		}
	}
	if t.state.OrderID != "" {
		idNote = fmt.Sprintf("\n\nYour order ID is %s. Please keep it for your reference.", t.state.OrderID)
	}
	t.reply = askPayment(t.state) + idNote
}

// advance moves to the first step still missing data and asks for it.
func (t *turn) advance() {
	t.step = t.state.nextStep()
	t.reply = prompt(t.step, t.state)
}

func (t *turn) mentionsCanonical() bool {
	padded := " " + t.text + " "
	for _, e := range t.menu.Entries() {
		if strings.Contains(padded, " "+strings.ToLower(e.Name)) {
			return true
		}
	}
	return false
}

func (t *turn) mentionsAlias() bool {
	for _, e := range t.menu.Entries() {
		if e.Mentions(t.text) {
			return true
		}
	}
	return false
}
