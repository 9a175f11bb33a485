// Package engine is the matching engine: it owns both price ladders,
// the order index, and the notification bus, and implements the
// process_order/cancel_order contract from spec.md §4.4.
package engine

import (
	"orderbooksim/internal/book"
	"orderbooksim/internal/common"

	"github.com/rs/zerolog/log"
)

// Engine is a single-instrument Level-3 matching engine. One instance
// is the unit of state; a simulation worker owns exactly one Engine and
// never shares it across goroutines (spec.md §5).
type Engine struct {
	bids  *book.PriceBook
	asks  *book.PriceBook
	index *book.OrderIndex
	bus   *NotificationBus

	nextOrderID uint64 // monotonic order id counter
	arrivalSeq  uint64 // arrival_sequence counter, advanced only on resting insertion
	engineSeq   uint64 // global sequence counter for receipts
}

// New creates an empty engine.
func New() *Engine {
	return &Engine{
		bids:  book.NewBidBook(),
		asks:  book.NewAskBook(),
		index: book.NewOrderIndex(),
		bus:   NewNotificationBus(),
	}
}

// Submit assigns order an id, attempts to match it immediately, and
// rests any limit residual. Market residual is discarded (spec.md §4.4,
// §9 Open Question ii). Returns the assigned order id and the receipts
// generated by this call.
func (e *Engine) Submit(order common.Order) (uint64, []TradeReceipt, error) {
	if err := order.Validate(); err != nil {
		return 0, nil, err
	}

	e.nextOrderID++
	order.ID = e.nextOrderID

	receipts := e.match(&order)

	if order.Type == common.LimitOrder && order.Volume > 0 {
		e.arrivalSeq++
		order.ArrivalSequence = e.arrivalSeq
		e.rest(order)
	}

	log.Debug().
		Uint64("orderID", order.ID).
		Str("trader", order.TraderID).
		Str("side", order.Side.String()).
		Int("fills", len(receipts)).
		Int64("residual", order.Volume).
		Msg("order processed")

	return order.ID, receipts, nil
}

// match runs the crossing loop of spec.md §4.4 steps 1-6 against the
// opposite side until the incoming order's residual is exhausted or it
// no longer crosses.
func (e *Engine) match(incoming *common.Order) []TradeReceipt {
	var receipts []TradeReceipt

	opposite := e.asks
	if !incoming.IsBid() {
		opposite = e.bids
	}

	for incoming.Volume > 0 {
		lvl, ok := opposite.BestLevel()
		if !ok {
			break
		}
		if incoming.Type == common.LimitOrder {
			if incoming.IsBid() && incoming.Price < lvl.Price {
				break
			}
			if !incoming.IsBid() && incoming.Price > lvl.Price {
				break
			}
		}

		maker, ok := lvl.Front()
		if !ok {
			// An empty level should already have been removed; defensive
			// break rather than a panic on an unreachable state.
			break
		}

		tradeVolume := incoming.Volume
		if maker.Volume < tradeVolume {
			tradeVolume = maker.Volume
		}
		tradePrice := lvl.Price

		e.engineSeq++
		receipt := TradeReceipt{
			TakerOrderID:   incoming.ID,
			MakerOrderID:   maker.ID,
			TakerID:        incoming.TraderID,
			MakerID:        maker.TraderID,
			Price:          tradePrice,
			Volume:         tradeVolume,
			TakerIsBid:     incoming.IsBid(),
			EngineSequence: e.engineSeq,
		}
		receipts = append(receipts, receipt)
		e.bus.push(incoming.TraderID, receipt)
		e.bus.push(maker.TraderID, receipt)

		incoming.Volume -= tradeVolume
		updatedMaker := lvl.ReduceFront(tradeVolume)
		if updatedMaker.Volume <= 0 {
			e.index.delete(updatedMaker.ID)
		}
		opposite.RemoveLevelIfEmpty(lvl)
	}

	return receipts
}

// rest inserts a resting limit order into its own side's PriceBook and
// the OrderIndex.
func (e *Engine) rest(order common.Order) {
	pb := e.bids
	if !order.IsBid() {
		pb = e.asks
	}
	h := pb.Add(order)
	e.index.Insert(order.ID, h)
}

// Cancel removes a resting order. Returns false for an unknown id or an
// id already fully filled/cancelled — never an error (spec.md §7
// Cancel-miss).
func (e *Engine) Cancel(orderID uint64) bool {
	removed, ok := e.index.Remove(orderID)
	if !ok {
		return false
	}
	pb := e.bids
	if removed.Side == common.Sell {
		pb = e.asks
	}
	pb.RemoveFromLevel(removed)
	return true
}

// BestBid returns the highest resting bid price, or false if the bid
// side is empty.
func (e *Engine) BestBid() (int64, bool) { return e.bids.BestPrice() }

// BestAsk returns the lowest resting ask price, or false if the ask
// side is empty.
func (e *Engine) BestAsk() (int64, bool) { return e.asks.BestPrice() }

// Mid returns (best_bid+best_ask)/2, or false if either side is empty
// (spec.md §4.4, §8 boundary property 10).
func (e *Engine) Mid() (float64, bool) {
	bid, ok := e.BestBid()
	if !ok {
		return 0, false
	}
	ask, ok := e.BestAsk()
	if !ok {
		return 0, false
	}
	return float64(bid+ask) / 2.0, true
}

// PollReceipts drains and returns traderID's pending trade receipts.
func (e *Engine) PollReceipts(traderID string) []TradeReceipt {
	return e.bus.Poll(traderID)
}

// RestingCount returns the number of resting orders across both sides,
// used by the OrderIndex-size invariant (spec.md §8 property 3).
func (e *Engine) RestingCount() int { return e.index.Len() }

// CheckInvariants re-verifies the book invariants from spec.md §8. It
// returns an error rather than panicking — the engine must never abort
// on a state reachable through its own public contract (spec.md §7) —
// and exists for tests and for harness replicate sanity-checking rather
// than as part of the hot path. Grounded on the pack's
// execution-fairness-simulator's Book.AssertInvariants(), converted
// from a panicking assertion to an error return.
func (e *Engine) CheckInvariants() error {
	bestBid, bidOK := e.BestBid()
	bestAsk, askOK := e.BestAsk()
	if bidOK && askOK && bestBid >= bestAsk {
		return errCrossedBook
	}

	restingCount := 0
	for _, lvl := range e.bids.Levels() {
		if err := checkLevel(lvl); err != nil {
			return err
		}
		restingCount += lvl.Count()
	}
	for _, lvl := range e.asks.Levels() {
		if err := checkLevel(lvl); err != nil {
			return err
		}
		restingCount += lvl.Count()
	}
	if restingCount != e.index.Len() {
		return errIndexSizeMismatch
	}
	return nil
}

func checkLevel(lvl *book.PriceLevel) error {
	if lvl.Empty() {
		return errEmptyLevel
	}
	var sum int64
	for _, o := range lvl.Orders() {
		if o.Volume <= 0 {
			return errNonPositiveResting
		}
		sum += o.Volume
	}
	if sum != lvl.SumVolume() {
		return errVolumeMismatch
	}
	return nil
}
