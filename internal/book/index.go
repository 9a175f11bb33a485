package book

import "orderbooksim/internal/common"

// Handle is what the OrderIndex hands back on removal: enough to find
// the order's level on the correct side, plus the intrusive queue node
// itself so PriceBook can unlink it in O(1) (spec.md §4.3, §9).
type Handle struct {
	Side  common.Side
	Price int64
	node  *node
}

// OrderIndex maps order id to its resting location, giving O(1) average
// lookup for cancellation. Emptied of an id on full fill or cancel
// before the engine returns from Submit (spec.md §3 invariant).
type OrderIndex struct {
	byID map[uint64]Handle
}

// NewOrderIndex creates an empty index.
func NewOrderIndex() *OrderIndex {
	return &OrderIndex{byID: make(map[uint64]Handle)}
}

// Len reports the number of resting orders tracked.
func (idx *OrderIndex) Len() int { return len(idx.byID) }

// Insert records a newly-rested order's handle.
func (idx *OrderIndex) Insert(id uint64, h Handle) {
	idx.byID[id] = h
}

// delete removes id without returning its handle. Used once a fill has
// already reduced the order's queue node directly.
func (idx *OrderIndex) delete(id uint64) {
	delete(idx.byID, id)
}

// Remove deletes id and returns its handle, or false if id is unknown
// or already resolved (spec.md §7 Cancel-miss).
func (idx *OrderIndex) Remove(id uint64) (Handle, bool) {
	h, ok := idx.byID[id]
	if !ok {
		return Handle{}, false
	}
	delete(idx.byID, id)
	return h, true
}

// Has reports whether id currently resides on the book.
func (idx *OrderIndex) Has(id uint64) bool {
	_, ok := idx.byID[id]
	return ok
}
