package sim

import (
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"
)

// FundamentalProcess is the latent random-walk price S_t, observable
// only to informed traders (spec.md §4.6). S_{t+1} = S_t + sigma*eps,
// eps ~ N(0,1).
type FundamentalProcess struct {
	sigma float64
	value float64
	tick  uint64
	noise distuv.Normal
}

// NewFundamentalProcess creates a process starting at initialValue,
// drawing its innovations from rng so the whole trajectory is
// reproducible under a fixed seed.
func NewFundamentalProcess(initialValue, sigma float64, rng *rand.Rand) *FundamentalProcess {
	return &FundamentalProcess{
		sigma: sigma,
		value: initialValue,
		noise: distuv.Normal{Mu: 0, Sigma: 1, Src: rng},
	}
}

// Value returns S_t without advancing the process.
func (f *FundamentalProcess) Value() float64 { return f.value }

// Tick returns the number of Advance calls made so far.
func (f *FundamentalProcess) Tick() uint64 { return f.tick }

// Advance draws one innovation and returns the new S_t. Boundedness is
// not enforced; downstream consumers round to integer ticks themselves
// (spec.md §9).
func (f *FundamentalProcess) Advance() float64 {
	f.value += f.sigma * f.noise.Rand()
	f.tick++
	return f.value
}
