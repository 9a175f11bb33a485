package sim

import (
	"math"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"orderbooksim/internal/common"
	"orderbooksim/internal/engine"
)

// MarketMakerID is the trader id the maker submits all of its quotes
// under. Self-trades are permitted by the engine (spec.md §9), but the
// maker's own bid is always strictly below its own ask so it never
// crosses itself.
const MarketMakerID = "maker"

// MakerConfig is the subset of Config the maker consumes.
type MakerConfig struct {
	Spread          int64
	SkewCoefficient float64
	QuoteSize       int64
	InitialMid      float64
	InitialCash     float64
}

// MarketMakerAgent posts a two-sided inventory-skewed quote every tick
// (spec.md §4.8). Its internal mid drifts purely from its own prior
// quote, never observing the fundamental directly — this lack of
// observation is the mechanism the simulation studies.
type MarketMakerAgent struct {
	cfg MakerConfig
	eng *engine.Engine

	mid       float64
	inventory int64
	cash      decimal.Decimal

	bidID, askID   uint64
	hasBid, hasAsk bool
}

// NewMarketMakerAgent creates a maker quoting against eng.
func NewMarketMakerAgent(eng *engine.Engine, cfg MakerConfig) *MarketMakerAgent {
	return &MarketMakerAgent{
		cfg:  cfg,
		eng:  eng,
		mid:  cfg.InitialMid,
		cash: decimal.NewFromFloat(cfg.InitialCash),
	}
}

// Mid returns the maker's current internal reservation mid m_t.
func (m *MarketMakerAgent) Mid() float64 { return m.mid }

// Inventory returns the maker's current signed position I_t.
func (m *MarketMakerAgent) Inventory() int64 { return m.inventory }

// Wealth returns W_t = C_t + I_t*m_t, marked to the maker's own mid
// since it has no other observation of value (spec.md §4.8).
func (m *MarketMakerAgent) Wealth() float64 {
	marked := m.cash.Add(decimal.NewFromFloat(float64(m.inventory) * m.mid))
	return marked.InexactFloat64()
}

// Quote cancels the maker's two previously-resting orders, if any, and
// posts a fresh inventory-skewed pair (spec.md §4.8 steps 1-5).
func (m *MarketMakerAgent) Quote() {
	if m.hasBid {
		m.eng.Cancel(m.bidID)
		m.hasBid = false
	}
	if m.hasAsk {
		m.eng.Cancel(m.askID)
		m.hasAsk = false
	}

	skew := m.cfg.SkewCoefficient * float64(m.inventory) * m.mid
	bidRaw := m.mid - float64(m.cfg.Spread) - skew
	askRaw := m.mid + float64(m.cfg.Spread) - skew

	bidTick := int64(math.Round(bidRaw))
	askTick := int64(math.Round(askRaw))
	if bidTick >= askTick {
		// Widen by one tick outward around m_t (spec.md §4.8 step 4).
		bidTick--
		askTick++
	}

	bidOrder := common.NewLimitOrder(0, MarketMakerID, common.Buy, bidTick, m.cfg.QuoteSize)
	askOrder := common.NewLimitOrder(0, MarketMakerID, common.Sell, askTick, m.cfg.QuoteSize)

	// Receipts from these two submits (and from any flow order that
	// crosses the maker's resting quote later in the tick) are folded
	// in once, at end of tick, via ApplyReceipts draining the
	// NotificationBus (spec.md §4.5) — not inline here — so a fill is
	// never counted twice.
	bidID, _, err := m.eng.Submit(bidOrder)
	if err != nil {
		log.Warn().Err(err).Msg("maker bid rejected")
	} else {
		m.bidID, m.hasBid = bidID, true
	}

	askID, _, err := m.eng.Submit(askOrder)
	if err != nil {
		log.Warn().Err(err).Msg("maker ask rejected")
	} else {
		m.askID, m.hasAsk = askID, true
	}

	// m_{t+1} is the maker's own posted mid from this tick (spec.md §9
	// Open Question i): it drifts only via inventory skew, never via
	// direct observation of the fundamental.
	m.mid = float64(bidTick+askTick) / 2.0
}

// ApplyReceipts folds externally-delivered fills (from the notification
// bus) into inventory and cash. Safe to call with receipts this maker
// had no part in; those are ignored.
func (m *MarketMakerAgent) ApplyReceipts(receipts []engine.TradeReceipt) {
	m.applyReceipts(receipts)
}

func (m *MarketMakerAgent) applyReceipts(receipts []engine.TradeReceipt) {
	for _, r := range receipts {
		notional := decimal.NewFromInt(r.Price).Mul(decimal.NewFromInt(r.Volume))
		if r.TakerID == MarketMakerID {
			if r.TakerIsBid {
				m.inventory += r.Volume
				m.cash = m.cash.Sub(notional)
			} else {
				m.inventory -= r.Volume
				m.cash = m.cash.Add(notional)
			}
		}
		if r.MakerID == MarketMakerID {
			if r.TakerIsBid {
				// The resting order crossed was an ask: the maker sold.
				m.inventory -= r.Volume
				m.cash = m.cash.Add(notional)
			} else {
				m.inventory += r.Volume
				m.cash = m.cash.Sub(notional)
			}
		}
	}
}
