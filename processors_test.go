package lsjam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWallTransferEventProcessor_WrapsPosition(t *testing.T) {
	box := NewBox(vec3{10, 10, 10})
	proc := NewWallTransferEventProcessor(box)
	particles := []Particle{
		{Position: vec3{10, 5, 5}},
	}
	ev := Event{Kind: WallTransfer, Particle: 0, Wall: 1, Neighbor: InvalidIndex} // {AxisX, +1}
	affected := proc.Process(0, ev, particles)

	require.Equal(t, []int{0}, affected)
	assert.InDelta(t, 0.0, particles[0].Position.X(), 1e-9)
}

type stubMomentumSink struct{ total float64 }

func (s *stubMomentumSink) AddExchangedMomentum(m float64) { s.total += m }

func TestCollisionEventProcessor_UpdatesVelocitiesAndRecordsMomentum(t *testing.T) {
	box := NewBox(vec3{100, 100, 100})
	collision := NewCollisionService(box)
	collision.Reinitialize(1.0, 0)
	sink := &stubMomentumSink{}
	proc := NewCollisionEventProcessor(collision, sink)

	particles := []Particle{
		{Position: vec3{0, 0, 0}, Velocity: vec3{1, 0, 0}, Diameter: 1},
		{Position: vec3{1, 0, 0}, Velocity: vec3{-1, 0, 0}, Diameter: 1},
	}
	ev := Event{Kind: Collision, Particle: 0, Neighbor: 1}
	affected := proc.Process(0, ev, particles)

	assert.ElementsMatch(t, []int{0, 1}, affected)
	assert.Greater(t, sink.total, 0.0)
	assert.InDelta(t, -1.0, particles[0].Velocity.X(), 1e-9)
	assert.InDelta(t, 1.0, particles[1].Velocity.X(), 1e-9)
}

func TestNeighborTransferEventProcessor_RebuildsList(t *testing.T) {
	box := NewBox(vec3{1000, 1000, 1000})
	particles := []Particle{
		{Position: vec3{0, 0, 0}, Diameter: 1},
		{Position: vec3{500, 500, 500}, Diameter: 1},
	}
	ratio := func() float64 { return 1.0 }
	verlet := NewVerletProvider(box, particles, 1.0, ratio)
	proc := NewNeighborTransferEventProcessor(verlet)

	particles[0].Position = vec3{500, 500, 500.5}
	affected := proc.Process(0, Event{Kind: NeighborTransfer, Particle: 0}, particles)
	require.Equal(t, []int{0}, affected)
	assert.Contains(t, verlet.Neighbors(0), 1)
}
