package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_RejectsNonPositiveVolume(t *testing.T) {
	o := NewLimitOrder(1, "trader", Buy, 100, 0)
	assert.ErrorIs(t, o.Validate(), ErrNonPositiveVolume)

	o = NewMarketOrder(2, "trader", Sell, -1)
	assert.ErrorIs(t, o.Validate(), ErrNonPositiveVolume)
}

func TestValidate_RejectsLimitOrderWithoutPrice(t *testing.T) {
	o := NewLimitOrder(1, "trader", Buy, 100, 5)
	o.HasPrice = false
	assert.ErrorIs(t, o.Validate(), ErrPriceMarketMismatch)
}

func TestValidate_RejectsMarketOrderWithPrice(t *testing.T) {
	o := NewMarketOrder(1, "trader", Buy, 5)
	o.HasPrice = true
	assert.ErrorIs(t, o.Validate(), ErrPriceMarketMismatch)
}

func TestValidate_AcceptsWellFormedOrders(t *testing.T) {
	assert.NoError(t, NewLimitOrder(1, "trader", Buy, 100, 5).Validate())
	assert.NoError(t, NewMarketOrder(2, "trader", Sell, 5).Validate())
}

func TestValidate_RejectsUnknownOrderType(t *testing.T) {
	o := NewLimitOrder(1, "trader", Buy, 100, 5)
	o.Type = OrderType(99)
	assert.ErrorIs(t, o.Validate(), ErrUnknownOrderType)
}

func TestSide_String(t *testing.T) {
	assert.Equal(t, "buy", Buy.String())
	assert.Equal(t, "sell", Sell.String())
}

func TestOrder_IsBidIsMarket(t *testing.T) {
	limit := NewLimitOrder(1, "trader", Buy, 100, 5)
	assert.True(t, limit.IsBid())
	assert.False(t, limit.IsMarket())

	market := NewMarketOrder(2, "trader", Sell, 5)
	assert.False(t, market.IsBid())
	assert.True(t, market.IsMarket())
}
