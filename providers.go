package lsjam

// EventProvider proposes the next candidate event for one particle, or
// InvalidEvent if it has nothing to propose (spec.md §4.5, C5).
// Grounded on original_source/.../CompositeEventProvider.cpp and its
// per-kind providers (CollisionEventProvider.cpp,
// NeighborTransferEventProvider.cpp; WallTransferEventProvider's body
// did not survive retrieval, reconstructed from
// WallTransferEventProcessor.cpp's wall-wrap math and spec.md §4.5).
type EventProvider interface {
	SetNextEvent(t float64, i int, particles []Particle) Event
}

// CollisionEventProvider proposes the earliest collision with any
// currently tracked Verlet neighbor, grounded on
// CollisionEventProvider.cpp.
type CollisionEventProvider struct {
	verlet    *VerletProvider
	collision *CollisionService
}

func NewCollisionEventProvider(verlet *VerletProvider, collision *CollisionService) *CollisionEventProvider {
	return &CollisionEventProvider{verlet: verlet, collision: collision}
}

func (p *CollisionEventProvider) SetNextEvent(t float64, i int, particles []Particle) Event {
	best := InvalidEvent
	for _, j := range p.verlet.Neighbors(i) {
		ct, ok := p.collision.CollisionTime(t, particles[i], particles[j])
		if !ok {
			continue
		}
		// neighborIsAvailable: only propose a collision that happens no
		// later than the neighbor's own currently scheduled event, since
		// anything the neighbor does first can change its trajectory and
		// invalidate this estimate.
		if ct > particles[j].Next.Time {
			continue
		}
		if ct < best.Time {
			best = Event{Kind: Collision, Time: ct, Particle: i, Neighbor: j, Wall: InvalidIndex}
		}
	}
	return best
}

// NeighborTransferEventProvider proposes the time at which particle i
// would cross its cached Verlet sphere boundary, forcing a list
// rebuild. Grounded on NeighborTransferEventProvider.cpp.
type NeighborTransferEventProvider struct {
	verlet *VerletProvider
}

func NewNeighborTransferEventProvider(verlet *VerletProvider) *NeighborTransferEventProvider {
	return &NeighborTransferEventProvider{verlet: verlet}
}

func (p *NeighborTransferEventProvider) SetNextEvent(t float64, i int, particles []Particle) Event {
	x := particles[i].PositionAt(t)
	dt, ok := p.verlet.TimeToBoundary(i, x, particles[i].Velocity)
	if !ok {
		return InvalidEvent
	}
	return Event{Kind: NeighborTransfer, Time: t + dt, Particle: i, Neighbor: InvalidIndex, Wall: InvalidIndex}
}

// WallTransferEventProvider proposes the time at which particle i
// crosses a periodic cell face. Reconstructed from
// WallTransferEventProcessor.cpp's wrap convention (coordinates are
// taken modulo the box, not reflected).
type WallTransferEventProvider struct {
	box Box
}

func NewWallTransferEventProvider(box Box) *WallTransferEventProvider {
	return &WallTransferEventProvider{box: box}
}

func (p *WallTransferEventProvider) SetNextEvent(t float64, i int, particles []Particle) Event {
	x := particles[i].PositionAt(t)
	v := particles[i].Velocity

	best := InvalidEvent
	for wallIndex, wall := range Walls() {
		component := wall.Axis.component(v)
		if component*wall.OuterNormalSign <= 0 {
			continue
		}
		boundary := 0.0
		if wall.OuterNormalSign > 0 {
			boundary = wall.Axis.size(p.box)
		}
		dt := (boundary - wall.Axis.component(x)) / component
		if dt <= 0 {
			continue
		}
		candidate := t + dt
		if candidate < best.Time {
			best = Event{Kind: WallTransfer, Time: candidate, Particle: i, Neighbor: InvalidIndex, Wall: wallIndex}
		}
	}
	return best
}

// CompositeEventProvider is the Composite from spec.md §4.5: it asks
// every registered sub-provider for particle i's candidate event and
// keeps the earliest. When i's previous event was a Collision whose
// partner still points back at i, that partner's event is reset to a
// Move at the current time so it is recomputed. The partner of i's
// newly chosen Collision is not given a matching event: its own slot,
// and any third particle expecting it, are left as they were.
type CompositeEventProvider struct {
	providers []EventProvider
	particles []Particle
	queue     *EventQueue
}

func NewCompositeEventProvider(particles []Particle, queue *EventQueue, providers ...EventProvider) *CompositeEventProvider {
	return &CompositeEventProvider{providers: providers, particles: particles, queue: queue}
}

// SetNextEvent recomputes and installs particle i's next event,
// invalidating any neighbor whose own scheduled Collision pointed back
// at i (since i's trajectory or neighbor list just changed under it).
func (p *CompositeEventProvider) SetNextEvent(t float64, i int) {
	old := p.particles[i].Next

	best := InvalidEvent
	for _, provider := range p.providers {
		candidate := provider.SetNextEvent(t, i, p.particles)
		if candidate.Time < best.Time {
			best = candidate
		}
	}
	p.particles[i].Next = best
	p.queue.Update(i)

	if old.Kind == Collision && old.Neighbor != InvalidIndex {
		neighbor := old.Neighbor
		if p.particles[neighbor].Next.Kind == Collision && p.particles[neighbor].Next.Neighbor == i {
			p.particles[neighbor].Next = Event{Kind: Move, Time: t, Particle: neighbor, Neighbor: InvalidIndex, Wall: InvalidIndex}
			p.queue.Update(neighbor)
		}
	}
}

// SetAllNextEvents seeds every particle's next event; used by
// InitializeEvents (spec.md §4.7).
func (p *CompositeEventProvider) SetAllNextEvents(t float64) {
	for i := range p.particles {
		p.SetNextEvent(t, i)
	}
}
