package lsjam

import "math"

// EquilibrationContext is the rolling state an EquilibrationGatherer
// inspects to decide whether the system has settled enough to resume
// compression (spec.md §4.8, C8). Only headers for these gatherers
// survived retrieval from original_source/; bodies are reconstructed
// from spec.md §4.8's prose description of each gatherer's criterion.
type EquilibrationContext struct {
	Cycle                  int
	ReducedPressure        float64
	PressureHistory        []float64
	CollisionErrorHistory  []bool
	MeanSquaredDisplacement float64
	ScatterThreshold       float64
}

// EquilibrationGatherer reports whether its own criterion for "settled"
// has been met.
type EquilibrationGatherer interface {
	Done(ctx EquilibrationContext) bool
}

// EquilibrationChain is conjunctive: the system is considered settled
// only once every gatherer in the chain agrees (spec.md §4.8).
type EquilibrationChain struct {
	gatherers []EquilibrationGatherer
}

func NewEquilibrationChain(gatherers ...EquilibrationGatherer) *EquilibrationChain {
	return &EquilibrationChain{gatherers: gatherers}
}

func (c *EquilibrationChain) Done(ctx EquilibrationContext) bool {
	for _, g := range c.gatherers {
		if !g.Done(ctx) {
			return false
		}
	}
	return true
}

// MinIterationsGatherer refuses to call the system settled before a
// minimum number of cycles have run, regardless of what the other
// gatherers see — a guard against a lucky single quiet cycle.
type MinIterationsGatherer struct {
	MinCycles int
}

func (g MinIterationsGatherer) Done(ctx EquilibrationContext) bool {
	return ctx.Cycle >= g.MinCycles
}

// EquilibrationPressureGatherer reports settled once the reduced
// pressure's recent trend has flattened: the relative change between
// the last two recorded values falls under Tolerance.
type EquilibrationPressureGatherer struct {
	Tolerance float64
}

func (g EquilibrationPressureGatherer) Done(ctx EquilibrationContext) bool {
	n := len(ctx.PressureHistory)
	if n < 2 {
		return false
	}
	prev, last := ctx.PressureHistory[n-2], ctx.PressureHistory[n-1]
	if prev == 0 {
		return false
	}
	return math.Abs(last-prev)/math.Abs(prev) < g.Tolerance
}

// ErrorRateGatherer reports settled once the fraction of recent cycles
// that hit a closest-pair invariant violation (spec.md §5) has dropped
// under MaxRate, over the last Window cycles.
type ErrorRateGatherer struct {
	Window  int
	MaxRate float64
}

func (g ErrorRateGatherer) Done(ctx EquilibrationContext) bool {
	n := len(ctx.CollisionErrorHistory)
	window := g.Window
	if window > n {
		window = n
	}
	if window == 0 {
		return false
	}
	errors := 0
	for _, had := range ctx.CollisionErrorHistory[n-window:] {
		if had {
			errors++
		}
	}
	return float64(errors)/float64(window) <= g.MaxRate
}

// ScatterAndDiffusionGatherer reports settled once particles have
// diffused past the scatter threshold since the last compression
// step, so the configuration is no longer a frozen snapshot of the
// pre-equilibration state.
type ScatterAndDiffusionGatherer struct{}

func (ScatterAndDiffusionGatherer) Done(ctx EquilibrationContext) bool {
	return ctx.MeanSquaredDisplacement >= ctx.ScatterThreshold
}
