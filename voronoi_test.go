package lsjam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoronoiTransferEventProvider_FiresWhenRadiusReachesBound(t *testing.T) {
	growth := func() (float64, float64) { return 1.0, 0.1 }
	provider := NewVoronoiTransferEventProvider([]InscribedSphere{{Radius: 0.6}}, growth)
	particles := []Particle{{Diameter: 1}}

	ev := provider.SetNextEvent(0, 0, particles)
	require.Equal(t, VoronoiTransfer, ev.Kind)
	// radius(t) = D(t)/2 = (1 + 0.1t)/2 reaches 0.6 at t = 2.
	assert.InDelta(t, 2.0, ev.Time, 1e-9)
}

func TestVoronoiTransferEventProvider_InvalidWithoutGrowth(t *testing.T) {
	growth := func() (float64, float64) { return 1.0, 0 }
	provider := NewVoronoiTransferEventProvider([]InscribedSphere{{Radius: 0.6}}, growth)
	particles := []Particle{{Diameter: 1}}

	ev := provider.SetNextEvent(0, 0, particles)
	assert.Equal(t, InvalidEvent, ev)
}

func TestDriver_EnableVoronoiTransfersWiresProcessor(t *testing.T) {
	box, particles := smallSystem(4, 20.0)
	cfg := DefaultDriverConfig()
	driver, err := NewDriver(cfg, box, particles, nil)
	require.NoError(t, err)

	spheres := make([]InscribedSphere, len(particles))
	for i := range spheres {
		spheres[i] = InscribedSphere{Radius: 10}
	}
	driver.EnableVoronoiTransfers(spheres)

	_, ok := driver.processor.byKind[VoronoiTransfer]
	assert.True(t, ok)
}
