// Package sim implements the per-tick market simulation loop: a latent
// fundamental random walk, an informed/noise order-flow generator, and
// a single inventory-skew market maker, all dispatched through one
// internal/engine.Engine (spec.md §4.6-4.9).
package sim

// Regime is a point in the (volatility, informed-fraction) parameter
// space the harness searches over.
type Regime struct {
	Sigma float64 // fundamental volatility per tick
	Gamma float64 // informed fraction, a.k.a. p, in [0, 1]
}

// Config fully parameterizes one trajectory (spec.md §6).
type Config struct {
	Sigma            float64 // fundamental volatility per tick
	InformedFraction float64 // gamma/p: probability an arrival is informed
	Lambda           float64 // Poisson rate of arrivals per tick
	VolMin, VolMax   int64   // inclusive uniform volume bounds per arrival
	Spread           int64   // maker half-spread in ticks
	SkewCoefficient  float64 // maker inventory-skew strength c
	QuoteSize        int64   // maker per-side quote size
	InitialMid       float64 // maker's starting internal mid, and S_0
	InitialCash      float64 // maker's starting cash
	Horizon          int     // T, number of ticks
	Seed             uint64  // RNG seed; identical seed -> identical trajectory
}
