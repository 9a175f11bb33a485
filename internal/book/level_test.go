package book

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"orderbooksim/internal/common"
)

func order(id uint64, volume int64) common.Order {
	return common.NewLimitOrder(id, "trader", common.Buy, 100, volume)
}

func TestPriceLevel_AppendFIFO(t *testing.T) {
	lvl := newPriceLevel(100)

	lvl.append(order(1, 10))
	lvl.append(order(2, 20))
	lvl.append(order(3, 30))

	assert.Equal(t, 3, lvl.Count())
	assert.Equal(t, int64(60), lvl.SumVolume())

	front, ok := lvl.Front()
	assert.True(t, ok)
	assert.Equal(t, uint64(1), front.ID)

	orders := lvl.Orders()
	assert.Equal(t, []uint64{1, 2, 3}, idsOf(orders))
}

func TestPriceLevel_ReduceFrontPops(t *testing.T) {
	lvl := newPriceLevel(100)
	lvl.append(order(1, 10))
	lvl.append(order(2, 20))

	updated := lvl.ReduceFront(10)
	assert.Equal(t, int64(0), updated.Volume)
	assert.Equal(t, 1, lvl.Count())
	assert.Equal(t, int64(20), lvl.SumVolume())

	front, ok := lvl.Front()
	assert.True(t, ok)
	assert.Equal(t, uint64(2), front.ID)
}

func TestPriceLevel_ReduceFrontPartial(t *testing.T) {
	lvl := newPriceLevel(100)
	lvl.append(order(1, 10))

	updated := lvl.ReduceFront(4)
	assert.Equal(t, int64(6), updated.Volume)
	assert.Equal(t, 1, lvl.Count())
	assert.Equal(t, int64(6), lvl.SumVolume())
	assert.False(t, lvl.Empty())
}

func TestPriceLevel_RemoveArbitraryNode(t *testing.T) {
	lvl := newPriceLevel(100)
	n1 := lvl.append(order(1, 10))
	lvl.append(order(2, 20))
	lvl.append(order(3, 30))

	lvl.remove(n1)

	assert.Equal(t, 2, lvl.Count())
	assert.Equal(t, int64(50), lvl.SumVolume())
	assert.Equal(t, []uint64{2, 3}, idsOf(lvl.Orders()))
}

func TestPriceLevel_EmptyAfterDraining(t *testing.T) {
	lvl := newPriceLevel(100)
	lvl.append(order(1, 10))
	lvl.ReduceFront(10)
	assert.True(t, lvl.Empty())
}

func idsOf(orders []common.Order) []uint64 {
	ids := make([]uint64, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	return ids
}
