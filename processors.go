package lsjam

// neighborTransferEpsilon nudges the recompute time forward by a hair
// after a NeighborTransfer event, matching
// NeighborTransferEventProvider.cpp's "+1e-10" guard against
// immediately proposing the same boundary crossing again.
const neighborTransferEpsilon = 1e-10

// MomentumSink receives the exchanged-momentum contribution of each
// collision, for the reduced-pressure estimator (spec.md §4.3/§4.7).
type MomentumSink interface {
	AddExchangedMomentum(float64)
}

// EventProcessor applies one event kind's physics and reports which
// particles need their next event recomputed (spec.md §4.6, C6).
// Grounded on the per-kind processors under
// original_source/.../LubachevsckyStillinger/Source/*EventProcessor.cpp.
type EventProcessor interface {
	Process(t float64, ev Event, particles []Particle) []int
}

// MoveEventProcessor is the no-op terminal case: the particle was only
// synchronized (by CompositeEventProcessor's preamble) and needs a
// fresh next event. Grounded on MoveEventProcessor.cpp.
type MoveEventProcessor struct{}

func (MoveEventProcessor) Process(t float64, ev Event, particles []Particle) []int {
	return []int{ev.Particle}
}

// CollisionEventProcessor applies the elastic-plus-growth-impulse
// velocity update and records the exchanged momentum. Grounded on
// CollisionEventProcessor.cpp.
type CollisionEventProcessor struct {
	collision *CollisionService
	momentum  MomentumSink
}

func NewCollisionEventProcessor(collision *CollisionService, momentum MomentumSink) *CollisionEventProcessor {
	return &CollisionEventProcessor{collision: collision, momentum: momentum}
}

func (p *CollisionEventProcessor) Process(t float64, ev Event, particles []Particle) []int {
	i, j := ev.Particle, ev.Neighbor
	vi, vj, exchanged := p.collision.PostCollisionVelocities(t, particles[i], particles[j])
	particles[i].Velocity = vi
	particles[j].Velocity = vj
	if p.momentum != nil {
		p.momentum.AddExchangedMomentum(exchanged)
	}
	return []int{i, j}
}

// WallTransferEventProcessor wraps a particle's position across a
// periodic cell face. Reconstructed from WallTransferEventProcessor's
// wrap math ("coordinates[axis] -= outerNormalDirection *
// packingSize[axis]"); the Verlet center is intentionally left
// untouched here (see spec.md §9's Open Question #2 resolution), only
// Position moves by the full box vector.
type WallTransferEventProcessor struct {
	box Box
}

func NewWallTransferEventProcessor(box Box) *WallTransferEventProcessor {
	return &WallTransferEventProcessor{box: box}
}

func (p *WallTransferEventProcessor) Process(t float64, ev Event, particles []Particle) []int {
	wall := Walls()[ev.Wall]
	i := ev.Particle
	shift := wall.OuterNormalSign * wall.Axis.size(p.box)
	current := wall.Axis.component(particles[i].Position)
	particles[i].Position = wall.Axis.withComponent(particles[i].Position, current-shift)
	return []int{i}
}

// NeighborTransferEventProcessor rebuilds a particle's Verlet list
// when it reaches the cached sphere boundary. Grounded on
// NeighborTransferEventProcessor.cpp.
type NeighborTransferEventProcessor struct {
	verlet *VerletProvider
}

func NewNeighborTransferEventProcessor(verlet *VerletProvider) *NeighborTransferEventProcessor {
	return &NeighborTransferEventProcessor{verlet: verlet}
}

func (p *NeighborTransferEventProcessor) Process(t float64, ev Event, particles []Particle) []int {
	p.verlet.RebuildList(ev.Particle)
	return []int{ev.Particle}
}

// CompositeEventProcessor is the dispatcher from spec.md §4.6: it
// synchronizes the affected particles to the event time, dispatches to
// the per-kind processor, recomputes next events for whichever
// particles the processor reports as affected, and performs the
// "reset a stale pointed-at Collision to Move" maintenance that keeps
// third-party particles honest (CompositeEventProcessor.cpp's single
// synchronize-then-dispatch preamble, generalized here to cover the
// symmetric invalidation CompositeEventProvider otherwise leaves to
// chance when neighbor lists, not just velocities, change).
type CompositeEventProcessor struct {
	byKind    map[EventKind]EventProcessor
	particles []Particle
	provider  *CompositeEventProvider
	verlet    *VerletProvider
	time      float64
}

func NewCompositeEventProcessor(particles []Particle, provider *CompositeEventProvider, verlet *VerletProvider, processors map[EventKind]EventProcessor) *CompositeEventProcessor {
	return &CompositeEventProcessor{byKind: processors, particles: particles, provider: provider, verlet: verlet}
}

// Dispatch synchronizes the triggering particle(s), applies the
// per-kind processor, and recomputes next events for everything it
// reports as affected.
func (c *CompositeEventProcessor) Dispatch(ev Event) {
	t := ev.Time
	c.particles[ev.Particle].Synchronize(t)
	if ev.Neighbor != InvalidIndex {
		c.particles[ev.Neighbor].Synchronize(t)
	}

	processor, ok := c.byKind[ev.Kind]
	if !ok {
		return
	}
	affected := processor.Process(t, ev, c.particles)

	recomputeAt := t
	if ev.Kind == NeighborTransfer {
		recomputeAt = t + neighborTransferEpsilon
	}

	for _, i := range affected {
		c.provider.SetNextEvent(recomputeAt, i)
	}
	c.invalidateStalePointers(t, affected)
}

// invalidateStalePointers resets any neighbor's scheduled Collision
// event to Move when it points back at a particle that was just
// synchronized or re-listed, since that neighbor's estimate of the
// collision time is no longer trustworthy.
func (c *CompositeEventProcessor) invalidateStalePointers(t float64, affected []int) {
	touched := make(map[int]bool, len(affected))
	for _, i := range affected {
		touched[i] = true
	}
	for _, i := range affected {
		for _, k := range c.verlet.Neighbors(i) {
			if touched[k] {
				continue
			}
			next := c.particles[k].Next
			if next.Kind == Collision && touched[next.Neighbor] {
				c.particles[k].Next = Event{Kind: Move, Time: t, Particle: k, Neighbor: InvalidIndex, Wall: InvalidIndex}
				c.provider.queue.Update(k)
			}
		}
	}
}
