package book

import (
	"orderbooksim/internal/common"

	"github.com/tidwall/btree"
)

// levels is the ordered-by-price structure backing one side of the
// book. A balanced ordered map (tidwall/btree) gives O(log U) best-price
// and insert/delete in the number of distinct price levels U, matching
// spec.md §4.2's requirement and the teacher's own choice in
// internal/engine/orderbook.go.
type levels = btree.BTreeG[*PriceLevel]

// PriceBook is one side of the book (bids or asks): a price -> PriceLevel
// map ordered by price, with the extremum (best price) a Min() query
// away (spec.md §3, §4.2).
type PriceBook struct {
	tree *levels
	isBid bool
}

// NewBidBook returns a PriceBook ordered so the highest price sorts first.
func NewBidBook() *PriceBook {
	return &PriceBook{
		isBid: true,
		tree: btree.NewBTreeG(func(a, b *PriceLevel) bool {
			return a.Price > b.Price
		}),
	}
}

// NewAskBook returns a PriceBook ordered so the lowest price sorts first.
func NewAskBook() *PriceBook {
	return &PriceBook{
		tree: btree.NewBTreeG(func(a, b *PriceLevel) bool {
			return a.Price < b.Price
		}),
	}
}

// BestLevel returns the best (extremal) non-empty level, or false if the
// side is empty. O(log U).
func (pb *PriceBook) BestLevel() (*PriceLevel, bool) {
	lvl, ok := pb.tree.MinMut()
	if !ok {
		return nil, false
	}
	return lvl, true
}

// BestPrice returns the best price on this side, or false if empty.
func (pb *PriceBook) BestPrice() (int64, bool) {
	lvl, ok := pb.BestLevel()
	if !ok {
		return 0, false
	}
	return lvl.Price, true
}

// Add appends order to the level at its price, creating the level (and
// inserting it into the ordered structure) if it does not already
// exist. Returns the opaque handle the caller should hand to the
// OrderIndex so a later Cancel can find its way back here. O(log U).
func (pb *PriceBook) Add(order common.Order) Handle {
	lvl, ok := pb.tree.GetMut(&PriceLevel{Price: order.Price})
	if !ok {
		lvl = newPriceLevel(order.Price)
		pb.tree.Set(lvl)
	}
	n := lvl.append(order)
	return Handle{Side: order.Side, Price: order.Price, node: n}
}

// RemoveFromLevel removes a resting order's node from its level and
// deletes the level from the ordered structure if it becomes empty.
func (pb *PriceBook) RemoveFromLevel(h Handle) {
	lvl, ok := pb.tree.GetMut(&PriceLevel{Price: h.Price})
	if !ok {
		return
	}
	lvl.remove(h.node)
	if lvl.Empty() {
		pb.tree.Delete(lvl)
	}
}

// RemoveLevelIfEmpty deletes a level that the matching loop has just
// drained to zero orders.
func (pb *PriceBook) RemoveLevelIfEmpty(lvl *PriceLevel) {
	if lvl.Empty() {
		pb.tree.Delete(lvl)
	}
}

// Len reports the number of distinct price levels.
func (pb *PriceBook) Len() int { return pb.tree.Len() }

// Levels returns every price level, ordered best-first. Intended for
// tests and diagnostics.
func (pb *PriceBook) Levels() []*PriceLevel {
	out := make([]*PriceLevel, 0, pb.tree.Len())
	pb.tree.Scan(func(lvl *PriceLevel) bool {
		out = append(out, lvl)
		return true
	})
	return out
}
