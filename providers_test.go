package lsjam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWallTransferEventProvider_ProposesCrossingTime(t *testing.T) {
	box := NewBox(vec3{10, 10, 10})
	p := NewWallTransferEventProvider(box)
	particles := []Particle{
		{Position: vec3{8, 5, 5}, Velocity: vec3{1, 0, 0}},
	}
	ev := p.SetNextEvent(0, 0, particles)
	require.Equal(t, WallTransfer, ev.Kind)
	assert.InDelta(t, 2.0, ev.Time, 1e-9)
}

func TestWallTransferEventProvider_NoEventForStationaryParticle(t *testing.T) {
	box := NewBox(vec3{10, 10, 10})
	p := NewWallTransferEventProvider(box)
	particles := []Particle{{Position: vec3{5, 5, 5}}}
	ev := p.SetNextEvent(0, 0, particles)
	assert.Equal(t, InvalidEvent, ev)
}

func TestCollisionEventProvider_ProposesEarliestNeighborCollision(t *testing.T) {
	box := NewBox(vec3{100, 100, 100})
	particles := []Particle{
		{Position: vec3{0, 0, 0}, Diameter: 1, Next: InvalidEvent},
		{Position: vec3{2, 0, 0}, Velocity: vec3{-1, 0, 0}, Diameter: 1, Next: InvalidEvent},
	}
	ratio := func() float64 { return 1.0 }
	verlet := NewVerletProvider(box, particles, 5.0, ratio)
	collision := NewCollisionService(box)
	collision.Reinitialize(1.0, 0)

	provider := NewCollisionEventProvider(verlet, collision)
	ev := provider.SetNextEvent(0, 0, particles)
	require.Equal(t, Collision, ev.Kind)
	assert.Equal(t, 1, ev.Neighbor)
	assert.InDelta(t, 1.0, ev.Time, 1e-9)
}

func TestCompositeEventProvider_PicksEarliestAcrossSubProviders(t *testing.T) {
	box := NewBox(vec3{1000, 1000, 1000})
	particles := []Particle{
		{Position: vec3{0, 0, 0}, Velocity: vec3{1, 0, 0}, Diameter: 1},
	}
	queue := NewEventQueue(1, func(i, j int) bool { return eventLess(particles[i].Next, particles[j].Next) })
	wallProvider := NewWallTransferEventProvider(box)
	composite := NewCompositeEventProvider(particles, queue, wallProvider)

	composite.SetAllNextEvents(0)
	assert.Equal(t, WallTransfer, particles[0].Next.Kind)
}
