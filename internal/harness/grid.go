// Package harness implements the GridSearchHarness: a two-stage
// coarse/fine Monte-Carlo search for the skew coefficient that
// optimizes an objective, evaluated in parallel across independent
// (sigma, gamma) regimes (spec.md §4.10).
package harness

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"orderbooksim/internal/sim"
)

// Objective selects which trajectory statistic the search optimizes.
type Objective int

const (
	MeanReturn Objective = iota
	FinalWealth
	MeanSquaredDistance
)

// RegimeGrid is the harness's full input: the regimes to search, the
// coarse/fine grid shape, the replicate count, and a base Config template
// supplying every field except Sigma, InformedFraction, SkewCoefficient,
// and Seed, which the search fills in per candidate.
type RegimeGrid struct {
	Regimes    []sim.Regime
	CoarseLo   float64
	CoarseHi   float64
	CoarseN    int
	FineN      int
	Replicates int
	BaseConfig sim.Config
	Objective  Objective
	BaseSeed   uint64
	Workers    int
}

// CandidateResult is one skew-coefficient candidate's Monte-Carlo
// average over surviving replicates.
type CandidateResult struct {
	SkewCoefficient     float64
	ObjectiveMean       float64
	SurvivingReplicates int
	Usable              bool
}

// RegimeResult is one regime's search outcome. Err is set only when the
// regime's evaluation failed outright (spec.md §4.10 "failed regime
// yields a sentinel record, not a process abort").
type RegimeResult struct {
	Regime          sim.Regime
	BestCoefficient float64
	BestObjective   float64
	Usable          bool
	Err             error
}

// GridSearchHarness runs RegimeGrid.Search.
type GridSearchHarness struct {
	grid RegimeGrid
}

// NewGridSearchHarness builds a harness over grid.
func NewGridSearchHarness(grid RegimeGrid) *GridSearchHarness {
	return &GridSearchHarness{grid: grid}
}

type regimeTask struct {
	index  int
	regime sim.Regime
}

// Search evaluates every regime in the grid in parallel and returns one
// RegimeResult per regime, in the same order as grid.Regimes (spec.md
// §5: "Regime points are independent and evaluated in parallel").
func (h *GridSearchHarness) Search() []RegimeResult {
	results := make([]RegimeResult, len(h.grid.Regimes))

	tasks := make([]any, len(h.grid.Regimes))
	for i, regime := range h.grid.Regimes {
		tasks[i] = regimeTask{index: i, regime: regime}
	}

	workers := h.grid.Workers
	if workers < 1 {
		workers = len(h.grid.Regimes)
		if workers < 1 {
			workers = 1
		}
	}
	pool := NewWorkerPool(workers)

	work := func(_ *tomb.Tomb, task any) (err error) {
		rt := task.(regimeTask)
		defer func() {
			if r := recover(); r != nil {
				results[rt.index] = RegimeResult{
					Regime: rt.regime,
					Usable: false,
					Err:    fmt.Errorf("regime %d panicked: %v", rt.index, r),
				}
			}
		}()
		results[rt.index] = h.searchRegime(rt.index, rt.regime)
		return nil
	}

	var t tomb.Tomb
	pool.Run(&t, work, tasks)
	t.Wait()

	return results
}

// searchRegime runs the coarse stage, narrows around its argmax (argmin
// for MeanSquaredDistance), then runs the fine stage (spec.md §4.10).
func (h *GridSearchHarness) searchRegime(regimeIndex int, regime sim.Regime) RegimeResult {
	coarse := logSpace(h.grid.CoarseLo, h.grid.CoarseHi, h.grid.CoarseN)
	coarseResults := make([]CandidateResult, len(coarse))
	for ci, c := range coarse {
		coarseResults[ci] = h.evaluateCandidate(regimeIndex, regime, c)
	}

	bestIdx, ok := bestCandidate(coarseResults, h.grid.Objective)
	if !ok {
		log.Warn().Int("regime", regimeIndex).Msg("coarse stage produced no usable candidate")
		return RegimeResult{Regime: regime, Usable: false}
	}

	lo, hi := fineRange(coarse, bestIdx)
	fine := logSpace(lo, hi, h.grid.FineN)
	fineResults := make([]CandidateResult, len(fine))
	for fi, c := range fine {
		fineResults[fi] = h.evaluateCandidate(regimeIndex, regime, c)
	}

	bestFineIdx, ok := bestCandidate(fineResults, h.grid.Objective)
	if !ok {
		return RegimeResult{
			Regime:          regime,
			BestCoefficient: coarse[bestIdx],
			BestObjective:   coarseResults[bestIdx].ObjectiveMean,
			Usable:          true,
		}
	}

	return RegimeResult{
		Regime:          regime,
		BestCoefficient: fine[bestFineIdx],
		BestObjective:   fineResults[bestFineIdx].ObjectiveMean,
		Usable:          true,
	}
}

// evaluateCandidate simulates Replicates trajectories for one (regime,
// skew coefficient) pair, discarding non-finite objectives, and marks
// the candidate unusable if fewer than ceil(R/2) replicates survive
// (spec.md §4.10 failure semantics).
func (h *GridSearchHarness) evaluateCandidate(regimeIndex int, regime sim.Regime, c float64) CandidateResult {
	var sum float64
	surviving := 0

	for replicate := 0; replicate < h.grid.Replicates; replicate++ {
		// Seed depends only on (regime, replicate), never on the
		// candidate: this is what gives candidates at the same regime
		// common random numbers across their replicate draws, which is
		// what reduces variance in the argmax (spec.md §4.10).
		seed := deriveSeed(h.grid.BaseSeed, regimeIndex, replicate)

		cfg := h.grid.BaseConfig
		cfg.Sigma = regime.Sigma
		cfg.InformedFraction = regime.Gamma
		cfg.SkewCoefficient = c
		cfg.Seed = seed

		traj := sim.NewSimulationLoop(cfg).Run()
		value := objectiveValue(traj, h.grid.Objective)
		if math.IsNaN(value) || math.IsInf(value, 0) {
			continue
		}
		sum += value
		surviving++
	}

	needed := (h.grid.Replicates + 1) / 2
	if surviving < needed {
		return CandidateResult{SkewCoefficient: c, SurvivingReplicates: surviving, Usable: false}
	}
	return CandidateResult{
		SkewCoefficient:     c,
		ObjectiveMean:       sum / float64(surviving),
		SurvivingReplicates: surviving,
		Usable:              true,
	}
}

func objectiveValue(traj sim.Trajectory, obj Objective) float64 {
	switch obj {
	case MeanReturn:
		return traj.MeanReturn
	case FinalWealth:
		return traj.FinalWealth
	case MeanSquaredDistance:
		return traj.MeanSquaredDistance
	default:
		return math.NaN()
	}
}

// bestCandidate returns the index of the best usable candidate: argmax
// for MeanReturn/FinalWealth, argmin for MeanSquaredDistance.
func bestCandidate(results []CandidateResult, obj Objective) (int, bool) {
	best := -1
	for i, r := range results {
		if !r.Usable {
			continue
		}
		if best == -1 {
			best = i
			continue
		}
		if obj == MeanSquaredDistance {
			if r.ObjectiveMean < results[best].ObjectiveMean {
				best = i
			}
		} else if r.ObjectiveMean > results[best].ObjectiveMean {
			best = i
		}
	}
	return best, best != -1
}

// logSpace returns n points log-spaced across [lo, hi] inclusive.
func logSpace(lo, hi float64, n int) []float64 {
	if n <= 1 {
		return []float64{lo}
	}
	logLo, logHi := math.Log(lo), math.Log(hi)
	step := (logHi - logLo) / float64(n-1)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = math.Exp(logLo + step*float64(i))
	}
	return out
}

// fineRange narrows to a tighter interval centered on coarse[bestIdx],
// bounded by its immediate coarse-grid neighbors (spec.md §4.10 "a
// tighter log-spaced grid of N_f points centered on c*").
func fineRange(coarse []float64, bestIdx int) (float64, float64) {
	cStar := coarse[bestIdx]
	lo, hi := cStar, cStar
	if bestIdx > 0 {
		lo = coarse[bestIdx-1]
	} else {
		lo = cStar / 2
	}
	if bestIdx < len(coarse)-1 {
		hi = coarse[bestIdx+1]
	} else {
		hi = cStar * 2
	}
	return lo, hi
}

// deriveSeed combines a base seed with (regimeIndex, replicateIndex)
// into a distinct, deterministic, reproducible seed.
func deriveSeed(base uint64, regimeIndex, replicateIndex int) uint64 {
	h := base
	h = h*1000003 + uint64(regimeIndex)
	h = h*1000003 + uint64(replicateIndex)
	return h
}
