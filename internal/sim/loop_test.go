package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimulationLoop_ProducesOneObservationPerTick(t *testing.T) {
	cfg := testConfig()
	cfg.Horizon = 25
	traj := NewSimulationLoop(cfg).Run()

	assert.Len(t, traj.Observations, 25)
	assert.Equal(t, 25, traj.Horizon)
	assert.NotEmpty(t, traj.RunID)
}

func TestSimulationLoop_DeterministicUnderSameSeed(t *testing.T) {
	cfg := testConfig()
	cfg.Horizon = 50

	t1 := NewSimulationLoop(cfg).Run()
	t2 := NewSimulationLoop(cfg).Run()

	assert.Equal(t, t1.MeanReturn, t2.MeanReturn)
	assert.Equal(t, t1.FinalWealth, t2.FinalWealth)
	assert.Equal(t, t1.MeanSquaredDistance, t2.MeanSquaredDistance)
	assert.Equal(t, t1.FinalInventory, t2.FinalInventory)
	assert.Equal(t, t1.NumTrades, t2.NumTrades)

	for i := range t1.Observations {
		assert.Equal(t, t1.Observations[i].Fundamental, t2.Observations[i].Fundamental)
	}
}

func TestSimulationLoop_DifferentSeedDiverges(t *testing.T) {
	cfg := testConfig()
	cfg.Horizon = 50
	cfg.Seed = 1

	other := cfg
	other.Seed = 2

	t1 := NewSimulationLoop(cfg).Run()
	t2 := NewSimulationLoop(other).Run()

	assert.NotEqual(t, t1.Observations[len(t1.Observations)-1].Fundamental, t2.Observations[len(t2.Observations)-1].Fundamental)
}

func TestSimulationLoop_NoNaNOrInfUnderModestVolatility(t *testing.T) {
	cfg := testConfig()
	cfg.Horizon = 200
	traj := NewSimulationLoop(cfg).Run()

	assert.False(t, math.IsNaN(traj.FinalWealth))
	assert.False(t, math.IsInf(traj.FinalWealth, 0))
	assert.False(t, math.IsNaN(traj.MeanSquaredDistance))
}

func TestSimulationLoop_EventsChannelReceivesOneEventPerTick(t *testing.T) {
	cfg := testConfig()
	cfg.Horizon = 10
	loop := NewSimulationLoop(cfg).WithEvents(100)
	loop.Run()

	close(loop.Events)
	count := 0
	for range loop.Events {
		count++
	}
	assert.Equal(t, 10, count)
}
