package dialogue

import (
	"testing"

	"voice-order-service/internal/domain"
	"voice-order-service/internal/menu"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMenu(t *testing.T) *menu.Menu {
	t.Helper()
	m, err := menu.Default()
	require.NoError(t, err)
	return m
}

func TestExtractItems(t *testing.T) {
	m := testMenu(t)

	tests := []struct {
		name         string
		utterance    string
		items        []LineItem
		unrecognized []string
	}{
		{
			name:      "alias with article",
			utterance: "I'd like a burger",
			items:     []LineItem{{Name: "Gourmet Burger", Quantity: 1, UnitPrice: 1299}},
		},
		{
			name:      "quantities and conjunction",
			utterance: "I'd like two signature pasta and one gourmet burger",
			items: []LineItem{
				{Name: "Signature Pasta", Quantity: 2, UnitPrice: 1499},
				{Name: "Gourmet Burger", Quantity: 1, UnitPrice: 1299},
			},
		},
		{
			name:         "unknown item reported",
			utterance:    "I want a burger and a flying dragon",
			items:        []LineItem{{Name: "Gourmet Burger", Quantity: 1, UnitPrice: 1299}},
			unrecognized: []string{"flying dragon"},
		},
		{
			name:      "repeated mentions accumulate",
			utterance: "two burgers plus a cheeseburger",
			items:     []LineItem{{Name: "Gourmet Burger", Quantity: 3, UnitPrice: 1299}},
		},
		{
			name:      "digits as quantities",
			utterance: "3 pizzas with 2 cakes",
			items: []LineItem{
				{Name: "Margherita Pizza", Quantity: 3, UnitPrice: 1699},
				{Name: "Chocolate Cake", Quantity: 2, UnitPrice: 799},
			},
		},
		{
			name:         "long unmatched phrase flushed at three words",
			utterance:    "some purple spicy noodles and a salad",
			items:        []LineItem{{Name: "Caesar Salad", Quantity: 1, UnitPrice: 999}},
			unrecognized: []string{"some purple spicy"},
		},
		{
			name:      "quantity does not leak past a rejected phrase",
			utterance: "two purple spicy noodles pizza",
			items: []LineItem{
				{Name: "Margherita Pizza", Quantity: 1, UnitPrice: 1699},
			},
			unrecognized: []string{"purple spicy noodles"},
		},
		{
			name:      "filler only",
			utterance: "I would like to order please",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractItems(m, tt.utterance)

			want := tt.items
			if want == nil {
				want = []LineItem{}
			}
			assert.Equal(t, want, got.Items)

			wantUnrec := tt.unrecognized
			if wantUnrec == nil {
				wantUnrec = []string{}
			}
			assert.Equal(t, wantUnrec, got.Unrecognized)
		})
	}
}

func TestExtractItems_TotalMatchesItems(t *testing.T) {
	m := testMenu(t)
	ex := ExtractItems(m, "two pasta and a burger and five cakes")

	s := NewOrderState()
	s.AddItems(ex.Items)

	var want domain.Money
	for _, it := range s.Items {
		want += it.UnitPrice * domain.Money(it.Quantity)
	}
	assert.Equal(t, want, s.Total)
	assert.Equal(t, domain.Money(2*1499+1299+5*799), s.Total)
}
