package book

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"orderbooksim/internal/common"
)

func TestBidBook_BestPriceIsMax(t *testing.T) {
	pb := NewBidBook()
	pb.Add(common.NewLimitOrder(1, "a", common.Buy, 98, 10))
	pb.Add(common.NewLimitOrder(2, "a", common.Buy, 99, 10))
	pb.Add(common.NewLimitOrder(3, "a", common.Buy, 97, 10))

	best, ok := pb.BestPrice()
	assert.True(t, ok)
	assert.Equal(t, int64(99), best)
}

func TestAskBook_BestPriceIsMin(t *testing.T) {
	pb := NewAskBook()
	pb.Add(common.NewLimitOrder(1, "a", common.Sell, 102, 10))
	pb.Add(common.NewLimitOrder(2, "a", common.Sell, 100, 10))
	pb.Add(common.NewLimitOrder(3, "a", common.Sell, 101, 10))

	best, ok := pb.BestPrice()
	assert.True(t, ok)
	assert.Equal(t, int64(100), best)
}

func TestPriceBook_EmptyHasNoBestPrice(t *testing.T) {
	pb := NewBidBook()
	_, ok := pb.BestPrice()
	assert.False(t, ok)
}

func TestPriceBook_RemoveFromLevel_DeletesEmptyLevel(t *testing.T) {
	pb := NewBidBook()
	h := pb.Add(common.NewLimitOrder(1, "a", common.Buy, 99, 10))
	assert.Equal(t, 1, pb.Len())

	pb.RemoveFromLevel(h)
	assert.Equal(t, 0, pb.Len())
	_, ok := pb.BestPrice()
	assert.False(t, ok)
}

func TestPriceBook_RemoveFromLevel_KeepsLevelWithOthers(t *testing.T) {
	pb := NewBidBook()
	h1 := pb.Add(common.NewLimitOrder(1, "a", common.Buy, 99, 10))
	pb.Add(common.NewLimitOrder(2, "a", common.Buy, 99, 20))

	pb.RemoveFromLevel(h1)

	assert.Equal(t, 1, pb.Len())
	lvl, ok := pb.BestLevel()
	assert.True(t, ok)
	assert.Equal(t, int64(20), lvl.SumVolume())
}

func TestOrderIndex_InsertRemove(t *testing.T) {
	idx := NewOrderIndex()
	idx.Insert(7, Handle{Side: common.Buy, Price: 100})

	assert.True(t, idx.Has(7))
	assert.Equal(t, 1, idx.Len())

	h, ok := idx.Remove(7)
	assert.True(t, ok)
	assert.Equal(t, int64(100), h.Price)
	assert.False(t, idx.Has(7))

	_, ok = idx.Remove(7)
	assert.False(t, ok)
}
