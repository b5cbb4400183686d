package lsjam

import "math"

// CycleStatistics accumulates the per-cycle quantities spec.md §4.7
// reads back after each DisplaceParticles call: exchanged momentum
// (for the virial pressure estimate), kinetic energy, and the derived
// reduced pressure. Grounded on
// LubachevsckyStillingerStep::CalculateStatistics.
type CycleStatistics struct {
	ExchangedMomentum       float64 // Σ |exchanged momentum| over the cycle's collisions, spec.md §4.7
	SignedExchangedMomentum float64 // diagnostic-only signed accumulator, spec.md §9 Open Question #3
	KineticEnergy           float64
	ReducedPressure         float64
	CycleDuration           float64
	DiameterRatio           float64
}

// AddExchangedMomentum implements MomentumSink; it is called once per
// collision processed during a cycle.
func (s *CycleStatistics) AddExchangedMomentum(m float64) {
	s.SignedExchangedMomentum += m
	s.ExchangedMomentum += math.Abs(m)
}

func (s *CycleStatistics) reset() {
	s.ExchangedMomentum = 0
	s.SignedExchangedMomentum = 0
}

// Finalize computes the reduced pressure p_red = 1 + M / (2 E Δt) from
// the accumulated momentum, the current kinetic energy, and the cycle
// duration, per spec.md §4.7.
func (s *CycleStatistics) Finalize(kineticEnergy, cycleDuration float64) {
	s.KineticEnergy = kineticEnergy
	s.CycleDuration = cycleDuration
	if kineticEnergy <= 0 || cycleDuration <= 0 {
		s.ReducedPressure = 1
		return
	}
	s.ReducedPressure = 1 + s.ExchangedMomentum/(2*kineticEnergy*cycleDuration)
}
