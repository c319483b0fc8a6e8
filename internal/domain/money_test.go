package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMoney_String(t *testing.T) {
	tests := []struct {
		in   Money
		want string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{4297, "42.97"},
		{-150, "-1.50"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.in.String())
	}
	assert.Equal(t, "$14.99", Money(1499).Dollars())
}

func TestMoneyFromFloat(t *testing.T) {
	assert.Equal(t, Money(1499), MoneyFromFloat(14.99))
	assert.Equal(t, Money(799), MoneyFromFloat(7.99))
	assert.Equal(t, Money(1699), MoneyFromFloat(16.99))
}

func TestOrder_Recompute(t *testing.T) {
	o := &Order{Items: []OrderItem{
		{Name: "Signature Pasta", Quantity: 2, UnitPriceCents: 1499},
		{Name: "Gourmet Burger", Quantity: 1, UnitPriceCents: 1299},
	}}
	o.TotalCents = 1
	o.Recompute()
	assert.Equal(t, int64(4297), o.TotalCents)
	assert.Equal(t, "42.97", o.Total().String())
}

func TestOrderStatus_Valid(t *testing.T) {
	assert.True(t, StatusCompleted.Valid())
	assert.False(t, OrderStatus("shipped").Valid())
}
