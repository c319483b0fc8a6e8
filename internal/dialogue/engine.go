package dialogue

import (
	"context"
	"strings"

	"voice-order-service/internal/domain"
	"voice-order-service/internal/menu"

	"go.uber.org/zap"
)

// OrderRecorder persists a confirmed order and returns its short id.
type OrderRecorder interface {
	RecordOrder(ctx context.Context, state *OrderState) (string, error)
}

// Result is everything one turn produces.
type Result struct {
	Reply          string      `json:"reply"`
	State          *OrderState `json:"state"`
	Step           Step        `json:"confirmationStep"`
	OrderConfirmed bool        `json:"orderConfirmed"`
	Unrecognized   []string    `json:"unrecognizedItems"`
	Rule           string      `json:"-"`
}

// Engine runs the ordering dialogue. It is safe for concurrent use: all
// conversation state arrives with the call and leaves with the result.
type Engine struct {
	menu     *menu.Menu
	recorder OrderRecorder
	logger   *zap.Logger
	rules    []rule
}

func NewEngine(m *menu.Menu, recorder OrderRecorder, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		menu:     m,
		recorder: recorder,
		logger:   logger,
		rules:    defaultRules(),
	}
}

func (e *Engine) Menu() *menu.Menu {
	return e.menu
}

// Greeting is the opening line of a call.
func (e *Engine) Greeting() string {
	return msgGreeting
}

type turn struct {
	ctx      context.Context
	menu     *menu.Menu
	recorder OrderRecorder
	logger   *zap.Logger

	raw   string
	text  string
	words map[string]bool

	state        *OrderState
	step         Step
	reply        string
	confirmed    bool
	unrecognized []string

	extracted *Extraction
}

// Turn advances a conversation by one utterance. prior is never modified.
func (e *Engine) Turn(ctx context.Context, utterance string, prior *OrderState, step Step) Result {
	t := &turn{
		ctx:          ctx,
		menu:         e.menu,
		recorder:     e.recorder,
		logger:       e.logger,
		raw:          utterance,
		text:         menu.Normalize(utterance),
		state:        e.restore(prior, step),
		step:         step,
		unrecognized: []string{},
	}
	t.words = make(map[string]bool)
	for _, w := range strings.Fields(t.text) {
		t.words[w] = true
	}

	if !t.step.Valid() || t.step == StepDone {
		t.state = nil
		t.step = StepIdle
	}
	if t.state == nil && t.step > StepCollectingItems {
		t.step = StepIdle
	}
	if t.state.HasItems() && t.step == StepIdle {
		t.step = StepCollectingItems
	}

	var fired string
	for _, r := range e.rules {
		if r.when(t) {
			fired = r.name
			r.then(t)
			break
		}
	}

	if t.state != nil {
		t.state.Recompute()
		t.state.Step = t.step
	}

	return Result{
		Reply:          t.reply,
		State:          t.state,
		Step:           t.step,
		OrderConfirmed: t.confirmed,
		Unrecognized:   t.unrecognized,
		Rule:           fired,
	}
}

// restore copies the caller's state and re-prices it from the menu. Items no
// longer on the menu are dropped, quantities are capped and totals are
// recomputed, so nothing the client sent about money is trusted. An order id
// is only kept once the conversation is past confirmation.
func (e *Engine) restore(prior *OrderState, step Step) *OrderState {
	if prior == nil {
		return nil
	}
	s := prior.Clone()

	items := s.Items
	s.Items = make([]LineItem, 0, len(items))
	for _, it := range items {
		entry, ok := e.menu.Lookup(it.Name)
		if !ok || it.Quantity <= 0 {
			continue
		}
		s.AddItems([]LineItem{{Name: entry.Name, Quantity: it.Quantity, UnitPrice: entry.Price}})
	}

	if step != StepPaymentChoice {
		s.OrderID = ""
	}
	if s.DeliveryType != domain.Pickup {
		s.DeliveryType = domain.Delivery
	}
	if s.PhoneRetryCount < 0 {
		s.PhoneRetryCount = 0
	}
	s.Recompute()
	return s
}

func (t *turn) hasWord(words ...string) bool {
	for _, w := range words {
		if t.words[w] {
			return true
		}
	}
	return false
}

func (t *turn) hasPhrase(phrases ...string) bool {
	padded := " " + t.text + " "
	for _, p := range phrases {
		if strings.Contains(padded, " "+p+" ") {
			return true
		}
	}
	return false
}

func (t *turn) ensureState() {
	if t.state == nil {
		t.state = NewOrderState()
	}
}

func (t *turn) extraction() Extraction {
	if t.extracted == nil {
		ex := ExtractItems(t.menu, t.raw)
		t.extracted = &ex
	}
	return *t.extracted
}
