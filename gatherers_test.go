package lsjam

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinIterationsGatherer(t *testing.T) {
	g := MinIterationsGatherer{MinCycles: 5}
	assert.False(t, g.Done(EquilibrationContext{Cycle: 4}))
	assert.True(t, g.Done(EquilibrationContext{Cycle: 5}))
}

func TestEquilibrationPressureGatherer(t *testing.T) {
	g := EquilibrationPressureGatherer{Tolerance: 0.01}
	assert.False(t, g.Done(EquilibrationContext{PressureHistory: []float64{100}}))
	assert.False(t, g.Done(EquilibrationContext{PressureHistory: []float64{100, 110}}))
	assert.True(t, g.Done(EquilibrationContext{PressureHistory: []float64{100, 100.5}}))
}

func TestErrorRateGatherer(t *testing.T) {
	g := ErrorRateGatherer{Window: 4, MaxRate: 0.25}
	assert.False(t, g.Done(EquilibrationContext{CollisionErrorHistory: []bool{true, true, false, false}}))
	assert.True(t, g.Done(EquilibrationContext{CollisionErrorHistory: []bool{false, false, false, true}}))
}

func TestScatterAndDiffusionGatherer(t *testing.T) {
	g := ScatterAndDiffusionGatherer{}
	assert.False(t, g.Done(EquilibrationContext{MeanSquaredDisplacement: 0.1, ScatterThreshold: 1.0}))
	assert.True(t, g.Done(EquilibrationContext{MeanSquaredDisplacement: 1.5, ScatterThreshold: 1.0}))
}

func TestEquilibrationChain_IsConjunctive(t *testing.T) {
	chain := NewEquilibrationChain(
		MinIterationsGatherer{MinCycles: 1},
		ScatterAndDiffusionGatherer{},
	)
	assert.False(t, chain.Done(EquilibrationContext{Cycle: 1, MeanSquaredDisplacement: 0, ScatterThreshold: 1}))
	assert.True(t, chain.Done(EquilibrationContext{Cycle: 1, MeanSquaredDisplacement: 2, ScatterThreshold: 1}))
}
