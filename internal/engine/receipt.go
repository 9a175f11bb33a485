package engine

// TradeReceipt is emitted once per fill and delivered to both the
// taker's and the maker's inboxes (spec.md §3). Price is always the
// maker's resting price: price priority belongs to the maker.
type TradeReceipt struct {
	TakerOrderID   uint64
	MakerOrderID   uint64
	TakerID        string
	MakerID        string
	Price          int64
	Volume         int64
	TakerIsBid     bool
	EngineSequence uint64
}
