package lsjam

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventQueue_TopIsMinimum(t *testing.T) {
	times := []float64{5, 1, 4, 2, 9, 0, 7}
	q := NewEventQueue(len(times), func(i, j int) bool { return times[i] < times[j] })

	min := 0
	for i, v := range times {
		if v < times[min] {
			min = i
		}
	}
	assert.Equal(t, min, q.Top())
}

func TestEventQueue_UpdateRestoresHeapProperty(t *testing.T) {
	n := 200
	times := make([]float64, n)
	rng := rand.New(rand.NewSource(42))
	for i := range times {
		times[i] = rng.Float64() * 1000
	}
	q := NewEventQueue(n, func(i, j int) bool { return times[i] < times[j] })

	for step := 0; step < 500; step++ {
		top := q.Top()
		require.GreaterOrEqual(t, top, 0)
		for i, v := range times {
			assert.LessOrEqualf(t, times[top], v, "top %d (%f) should be <= particle %d (%f)", top, times[top], i, v)
		}

		i := rng.Intn(n)
		times[i] = rng.Float64() * 1000
		q.Update(i)
	}
}

func TestEventQueue_EmptyQueueReturnsInvalid(t *testing.T) {
	q := NewEventQueue(0, func(i, j int) bool { return false })
	assert.Equal(t, InvalidIndex, q.Top())
}

func TestEventLess_InvalidSortsLast(t *testing.T) {
	valid := Event{Kind: Move, Time: 10, Particle: 0}
	assert.True(t, eventLess(valid, InvalidEvent))
	assert.False(t, eventLess(InvalidEvent, valid))
}

func TestEventLess_TieBreaksOnParticleIndex(t *testing.T) {
	a := Event{Kind: Move, Time: 5, Particle: 1}
	b := Event{Kind: Move, Time: 5, Particle: 2}
	assert.True(t, eventLess(a, b))
	assert.False(t, eventLess(b, a))
}

func TestEventLess_InfiniteTimesAreBothInvalid(t *testing.T) {
	a := Event{Time: math.Inf(1), Particle: 0}
	b := Event{Time: math.Inf(1), Particle: 1}
	assert.False(t, eventLess(a, b))
	assert.False(t, eventLess(b, a))
}
