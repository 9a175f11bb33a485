package sim

import (
	"math"
	"math/rand"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"orderbooksim/internal/engine"
)

// TickObservation is one row of a trajectory's recorded time series
// (spec.md §4.9).
type TickObservation struct {
	Tick            int
	Fundamental     float64
	MakerMid        float64
	BestBid         int64
	HasBestBid      bool
	BestAsk         int64
	HasBestAsk      bool
	Inventory       int64
	Cash            float64
	Wealth          float64
	FillsThisTick   int
}

// TickEvent is additive dashboard-style instrumentation (SPEC_FULL.md
// §3), not a spec.md invariant: quote posted, skew, inventory, wealth,
// one per tick, consumed by whatever observer SimulationLoop.Events
// feeds.
type TickEvent struct {
	Tick      int
	MakerMid  float64
	Inventory int64
	Wealth    float64
	Skew      float64
}

// Trajectory is the output contract between the core and external
// analysis (spec.md §6): one run's summary statistics plus, always,
// the raw per-tick series (external callers that only want the
// summary simply ignore Observations).
type Trajectory struct {
	RunID               string
	Regime              Regime
	SkewCoefficient      float64
	Horizon             int
	Observations        []TickObservation
	MeanReturn          float64
	FinalWealth         float64
	MeanSquaredDistance float64
	FinalInventory      int64
	NumTrades           int
}

// SimulationLoop orchestrates one trajectory: FundamentalProcess,
// InformedFlowGenerator, MarketMakerAgent, and one Engine (spec.md
// §4.9). A loop and everything it owns is single-threaded; it must
// never be shared across goroutines (spec.md §5).
type SimulationLoop struct {
	cfg         Config
	eng         *engine.Engine
	fundamental *FundamentalProcess
	flow        *InformedFlowGenerator
	maker       *MarketMakerAgent

	// Events is a buffered per-tick instrumentation channel; nil unless
	// WithEvents is used. Never required for Run's return value.
	Events chan TickEvent
}

// NewSimulationLoop builds one trajectory's worth of engine and agents,
// all seeded from cfg.Seed.
func NewSimulationLoop(cfg Config) *SimulationLoop {
	rng := rand.New(rand.NewSource(int64(cfg.Seed)))
	eng := engine.New()
	makerCfg := MakerConfig{
		Spread:          cfg.Spread,
		SkewCoefficient: cfg.SkewCoefficient,
		QuoteSize:       cfg.QuoteSize,
		InitialMid:      cfg.InitialMid,
		InitialCash:     cfg.InitialCash,
	}
	return &SimulationLoop{
		cfg:         cfg,
		eng:         eng,
		fundamental: NewFundamentalProcess(cfg.InitialMid, cfg.Sigma, rng),
		flow:        NewInformedFlowGenerator(cfg, rng),
		maker:       NewMarketMakerAgent(eng, makerCfg),
	}
}

// WithEvents attaches a buffered dashboard-event channel the loop
// sends tick observables into; capacity bounds how many events can
// queue, and once it is full further events are dropped rather than
// blocking the run.
func (l *SimulationLoop) WithEvents(capacity int) *SimulationLoop {
	l.Events = make(chan TickEvent, capacity)
	return l
}

// Run executes the fixed T-tick loop and returns the trajectory
// summary. Order within a tick is fixed: fundamental advances, maker
// quotes, flow emits and is dispatched, then observables are recorded
// (spec.md §4.9 — implementations must not reorder this).
func (l *SimulationLoop) Run() Trajectory {
	observations := make([]TickObservation, 0, l.cfg.Horizon)
	numTrades := 0
	sumSquaredDistance := 0.0
	initialWealth := l.maker.Wealth()

	for t := 0; t < l.cfg.Horizon; t++ {
		s := l.fundamental.Advance()

		l.maker.Quote()

		mid, midKnown := l.eng.Mid()

		orders := l.flow.Emit(s, mid, midKnown)
		fillsThisTick := 0
		for _, order := range orders {
			_, receipts, err := l.eng.Submit(order)
			if err != nil {
				log.Debug().Err(err).Msg("flow order rejected")
				continue
			}
			fillsThisTick += len(receipts)
		}
		numTrades += fillsThisTick

		l.maker.ApplyReceipts(l.eng.PollReceipts(MarketMakerID))

		bestBid, hasBid := l.eng.BestBid()
		bestAsk, hasAsk := l.eng.BestAsk()

		makerMid := l.maker.Mid()
		distance := makerMid - s
		sumSquaredDistance += distance * distance

		obs := TickObservation{
			Tick:          t,
			Fundamental:   s,
			MakerMid:      makerMid,
			BestBid:       bestBid,
			HasBestBid:    hasBid,
			BestAsk:       bestAsk,
			HasBestAsk:    hasAsk,
			Inventory:     l.maker.Inventory(),
			Cash:          l.maker.Wealth() - float64(l.maker.Inventory())*makerMid,
			Wealth:        l.maker.Wealth(),
			FillsThisTick: fillsThisTick,
		}
		observations = append(observations, obs)

		if l.Events != nil {
			select {
			case l.Events <- TickEvent{
				Tick:      t,
				MakerMid:  makerMid,
				Inventory: l.maker.Inventory(),
				Wealth:    l.maker.Wealth(),
				Skew:      l.cfg.SkewCoefficient * float64(l.maker.Inventory()) * makerMid,
			}:
			default:
				// Consumer can't keep up; drop the event rather than block the run.
			}
		}
	}

	finalWealth := l.maker.Wealth()
	meanReturn := 0.0
	if initialWealth != 0 {
		meanReturn = (finalWealth - initialWealth) / math.Abs(initialWealth)
	} else {
		meanReturn = finalWealth - initialWealth
	}

	return Trajectory{
		RunID:               uuid.New().String(),
		Regime:              Regime{Sigma: l.cfg.Sigma, Gamma: l.cfg.InformedFraction},
		SkewCoefficient:     l.cfg.SkewCoefficient,
		Horizon:             l.cfg.Horizon,
		Observations:        observations,
		MeanReturn:          meanReturn,
		FinalWealth:         finalWealth,
		MeanSquaredDistance: sumSquaredDistance / float64(l.cfg.Horizon),
		FinalInventory:      l.maker.Inventory(),
		NumTrades:           numTrades,
	}
}
