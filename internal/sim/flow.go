package sim

import (
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"

	"orderbooksim/internal/common"
)

// Informed and noise traders are drawn from a two-member pool (spec.md
// §4.7 permits either "two trader-ids or a range"; this repo uses two
// fixed ids since nothing downstream needs finer trader resolution).
const (
	InformedTraderID = "informed"
	NoiseTraderID    = "noise"
)

// InformedFlowGenerator emits, per tick, K ~ Poisson(lambda) market
// orders of uniform volume in [VolMin, VolMax]. Each order is informed
// (side = sign(S_t - mid_t)) with probability InformedFraction, else
// its side is uniform random (spec.md §4.7).
type InformedFlowGenerator struct {
	p              float64
	volMin, volMax int64
	rng            *rand.Rand
	arrivals       distuv.Poisson
	nextSeq        uint64
}

// NewInformedFlowGenerator builds a generator drawing all randomness
// from rng.
func NewInformedFlowGenerator(cfg Config, rng *rand.Rand) *InformedFlowGenerator {
	return &InformedFlowGenerator{
		p:       cfg.InformedFraction,
		volMin:  cfg.VolMin,
		volMax:  cfg.VolMax,
		rng:     rng,
		arrivals: distuv.Poisson{Lambda: cfg.Lambda, Src: rng},
	}
}

// Emit draws this tick's K arrivals and returns them as unsubmitted
// market orders (IDs are assigned by the engine on Submit).
func (g *InformedFlowGenerator) Emit(fundamental, mid float64, midKnown bool) []common.Order {
	k := int(g.arrivals.Rand())
	if k <= 0 {
		return nil
	}

	orders := make([]common.Order, 0, k)
	for i := 0; i < k; i++ {
		volume := g.drawVolume()
		side, informed := g.pickSide(fundamental, mid, midKnown)
		traderID := NoiseTraderID
		if informed {
			traderID = InformedTraderID
		}
		g.nextSeq++
		orders = append(orders, common.NewMarketOrder(0, traderID, side, volume))
	}
	return orders
}

func (g *InformedFlowGenerator) drawVolume() int64 {
	if g.volMax <= g.volMin {
		return g.volMin
	}
	span := g.volMax - g.volMin + 1
	return g.volMin + int64(g.rng.Int63n(span))
}

// pickSide chooses the side for one arrival and reports whether it was
// classified as informed flow.
func (g *InformedFlowGenerator) pickSide(fundamental, mid float64, midKnown bool) (common.Side, bool) {
	if g.rng.Float64() < g.p {
		if midKnown && fundamental != mid {
			if fundamental > mid {
				return common.Buy, true
			}
			return common.Sell, true
		}
		return g.uniformSide(), true
	}
	return g.uniformSide(), false
}

func (g *InformedFlowGenerator) uniformSide() common.Side {
	if g.rng.Float64() < 0.5 {
		return common.Buy
	}
	return common.Sell
}
