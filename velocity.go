package lsjam

import (
	"math"
	"math/rand"
)

// mass and boltzmannConstant are fixed unit conventions shared by
// every particle, matching VelocityService.cpp's mass = 1.0 and
// boltzmannConstant = 1.0.
const (
	mass              = 1.0
	boltzmannConstant = 1.0
	dimensions        = 3

	// defaultTemperature is VelocityService's default construction
	// temperature, used whenever a driver is not given an explicit one.
	defaultTemperature = 0.2
)

// gaussianSource wraps math/rand with a cached Marsaglia-polar spare
// value, mirroring Math::GetNextGaussianRandom's cache-one-discard-one
// shape without pulling in a distributions package the teacher never
// imports.
type gaussianSource struct {
	rng   *rand.Rand
	spare float64
	have  bool
}

func newGaussianSource(seed int64) *gaussianSource {
	return &gaussianSource{rng: rand.New(rand.NewSource(seed))}
}

func (g *gaussianSource) next() float64 {
	if g.have {
		g.have = false
		return g.spare
	}
	var u, v, s float64
	for {
		u = 2*g.rng.Float64() - 1
		v = 2*g.rng.Float64() - 1
		s = u*u + v*v
		if s > 0 && s < 1 {
			break
		}
	}
	factor := math.Sqrt(-2 * math.Log(s) / s)
	g.spare = v * factor
	g.have = true
	return u * factor
}

// VelocityService is the thermostat from spec.md §4.4 (C4), grounded
// on original_source/.../VelocityService.cpp. It samples, rescales and
// reports on the velocity field of a particle slice; it owns no
// particles, only the random source and target temperature.
type VelocityService struct {
	temperature float64
	gaussian    *gaussianSource
	logger      Logger
}

// NewVelocityService builds a thermostat targeting the given
// temperature, sampling with the given seed for reproducibility.
func NewVelocityService(temperature float64, seed int64, logger Logger) *VelocityService {
	if logger == nil {
		logger = NewNopLogger()
	}
	return &VelocityService{
		temperature: temperature,
		gaussian:    newGaussianSource(seed),
		logger:      logger,
	}
}

// FillVelocities draws a fresh Maxwell-Boltzmann field over particles:
// every component is an independent Gaussian sample, the drift (center
// of mass velocity) is subtracted out, and the field is rescaled to
// exactly match the target temperature. Mirrors
// VelocityService::FillVelocities.
func (s *VelocityService) FillVelocities(particles []Particle) {
	n := len(particles)
	if n == 0 {
		return
	}

	for i := range particles {
		particles[i].Velocity = s.sampleInitialVelocity()
	}

	var drift vec3
	for i := range particles {
		drift = drift.Add(particles[i].Velocity)
	}
	drift = drift.Mul(1.0 / float64(n))
	for i := range particles {
		particles[i].Velocity = particles[i].Velocity.Sub(drift)
	}

	actual := s.GetActualTemperature(particles)
	if expected := s.temperature; actual > 0 {
		excess := math.Abs(actual-expected) / mass / float64(n)
		if excess > 500 {
			s.logger.Warnf("initial velocity sampling produced an unusually large temperature excess (%.6g) before rescaling", excess)
		}
	}

	s.RescaleVelocities(particles)
}

// sampleInitialVelocity draws one particle's velocity components from
// a Gaussian with variance kT/m, per FillInitialVelocity.
func (s *VelocityService) sampleInitialVelocity() vec3 {
	sigma := math.Sqrt(boltzmannConstant * s.temperature / mass)
	return vec3{
		sigma * s.gaussian.next(),
		sigma * s.gaussian.next(),
		sigma * s.gaussian.next(),
	}
}

// GetActualKineticEnergy returns Σ 0.5 m v_i².
func (s *VelocityService) GetActualKineticEnergy(particles []Particle) float64 {
	var energy float64
	for i := range particles {
		energy += 0.5 * mass * selfDot(particles[i].Velocity)
	}
	return energy
}

// GetExpectedKineticEnergy returns N D kT / 2, the equipartition target.
func (s *VelocityService) GetExpectedKineticEnergy(n int) float64 {
	return float64(n) * dimensions * boltzmannConstant * s.temperature / 2
}

// GetActualTemperature inverts the equipartition relation for the
// current velocity field: T = 2E / (N D k_B).
func (s *VelocityService) GetActualTemperature(particles []Particle) float64 {
	n := len(particles)
	if n == 0 {
		return 0
	}
	energy := s.GetActualKineticEnergy(particles)
	return 2 * energy / (float64(n) * dimensions * boltzmannConstant)
}

// RescaleVelocities multiplies every velocity by
// sqrt(expected / actual) so the field exactly matches the target
// temperature. It does not move particles or touch LastEventTime;
// Driver.DisplaceParticles synchronizes every particle to the current
// global time before calling it, so the rescale does not retroactively
// change in-flight trajectories. Mirrors
// VelocityService::RescaleVelocities.
func (s *VelocityService) RescaleVelocities(particles []Particle) {
	n := len(particles)
	if n == 0 {
		return
	}
	actual := s.GetActualKineticEnergy(particles)
	if actual == 0 {
		return
	}
	expected := s.GetExpectedKineticEnergy(n)
	factor := math.Sqrt(expected / actual)
	for i := range particles {
		particles[i].Velocity = particles[i].Velocity.Mul(factor)
	}
}

// SynchronizeParticleWithCurrentTime advances a single particle's
// position to the given global time under free flight, without
// touching velocity. Exposed so event processors can bring a particle
// up to date before reading or overwriting its velocity.
func (s *VelocityService) SynchronizeParticleWithCurrentTime(p *Particle, t float64) {
	p.Synchronize(t)
}
