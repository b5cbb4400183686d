package lsjam

// InscribedSphere is a precomputed bound on how far a particle may
// grow before it would pierce its own Voronoi cell, supplied
// externally (spec.md §4.6's "Non-goal: full Voronoi tessellation
// construction" — this package only consumes the artifact, it never
// builds one). Grounded on
// original_source/.../Types.h's VoronoiPolytope/VoronoiPlane, scaled
// down to the one field the optional transfer events need.
type InscribedSphere struct {
	Radius float64
}

// VoronoiTransferEventProvider proposes a VoronoiTransfer event at the
// time a particle's radius would reach its precomputed inscribed-sphere
// bound, assuming the current global growth rate holds until then.
// Only armed when the driver is given inscribed-sphere data; otherwise
// it always reports InvalidEvent and the driver runs without this
// refinement, matching spec.md's Non-goal.
type VoronoiTransferEventProvider struct {
	spheres []InscribedSphere
	growth  func() (diameterRatio, growthRate float64)
}

func NewVoronoiTransferEventProvider(spheres []InscribedSphere, growth func() (float64, float64)) *VoronoiTransferEventProvider {
	return &VoronoiTransferEventProvider{spheres: spheres, growth: growth}
}

func (p *VoronoiTransferEventProvider) SetNextEvent(t float64, i int, particles []Particle) Event {
	if i >= len(p.spheres) {
		return InvalidEvent
	}
	bound := p.spheres[i].Radius
	if bound <= 0 {
		return InvalidEvent
	}
	ratio, rate := p.growth()
	if rate <= 0 {
		return InvalidEvent
	}
	currentRadius := particles[i].Radius(ratio)
	if currentRadius >= bound {
		return Event{Kind: VoronoiTransfer, Time: t, Particle: i, Neighbor: InvalidIndex, Wall: InvalidIndex}
	}
	// radius grows at Diameter*rate/2 per unit time under the shared
	// linear growth law.
	dRadiusDt := particles[i].Diameter * rate / 2
	dt := (bound - currentRadius) / dRadiusDt
	return Event{Kind: VoronoiTransfer, Time: t + dt, Particle: i, Neighbor: InvalidIndex, Wall: InvalidIndex}
}

// VoronoiTransferEventProcessor handles a VoronoiTransfer event by
// only marking the particle as having reached its bound in Reached.
// The particle's velocity is left unchanged (no reflection), and the
// driver does not read Reached.
type VoronoiTransferEventProcessor struct {
	Reached map[int]bool
}

func NewVoronoiTransferEventProcessor() *VoronoiTransferEventProcessor {
	return &VoronoiTransferEventProcessor{Reached: make(map[int]bool)}
}

func (p *VoronoiTransferEventProcessor) Process(t float64, ev Event, particles []Particle) []int {
	p.Reached[ev.Particle] = true
	return []int{ev.Particle}
}
