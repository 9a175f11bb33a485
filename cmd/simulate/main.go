// Command simulate wires one sim.Config through the simulation loop and
// prints the resulting trajectory summary. It is a demonstration of the
// wiring, not the deliverable (SPEC_FULL.md §5); real drivers,
// plotting, and result-table I/O live outside this module.
package main

import (
	"github.com/rs/zerolog/log"

	"orderbooksim/internal/sim"
)

func main() {
	cfg := sim.Config{
		Sigma:            0.05,
		InformedFraction: 0.5,
		Lambda:           12,
		VolMin:           1,
		VolMax:           3,
		Spread:           2,
		SkewCoefficient:  8e-6,
		QuoteSize:        5,
		InitialMid:       100,
		InitialCash:      0,
		Horizon:          10000,
		Seed:             42,
	}

	traj := sim.NewSimulationLoop(cfg).Run()

	log.Info().
		Str("runID", traj.RunID).
		Float64("meanReturn", traj.MeanReturn).
		Float64("finalWealth", traj.FinalWealth).
		Float64("meanSquaredDistance", traj.MeanSquaredDistance).
		Int64("finalInventory", traj.FinalInventory).
		Int("numTrades", traj.NumTrades).
		Msg("trajectory complete")
}
