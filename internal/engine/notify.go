package engine

import "sync"

// NotificationBus is an append-only per-trader inbox of trade receipts
// (spec.md §4.5). It plays the role the teacher's internal/net.Server
// plays for ClientSessions — routing engine output back to the
// participant that should see it — but in-process: agents drain their
// own queue each tick instead of the engine writing to a TCP socket.
type NotificationBus struct {
	mu     sync.Mutex
	inbox  map[string][]TradeReceipt
}

// NewNotificationBus creates an empty bus.
func NewNotificationBus() *NotificationBus {
	return &NotificationBus{inbox: make(map[string][]TradeReceipt)}
}

// push appends a receipt to traderID's inbox. Called twice per fill by
// the engine: once for the taker, once for the maker.
func (b *NotificationBus) push(traderID string, receipt TradeReceipt) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.inbox[traderID] = append(b.inbox[traderID], receipt)
}

// Poll drains and returns traderID's pending receipts in the order the
// engine emitted them, preserving the engine's global sequence ordering
// within and across process_order calls.
func (b *NotificationBus) Poll(traderID string) []TradeReceipt {
	b.mu.Lock()
	defer b.mu.Unlock()
	pending := b.inbox[traderID]
	delete(b.inbox, traderID)
	return pending
}

// Pending reports how many receipts are queued for traderID without
// draining them.
func (b *NotificationBus) Pending(traderID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.inbox[traderID])
}
