package lsjam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallSystem(n int, boxSize float64) (Box, []Particle) {
	box := NewBox(vec3{boxSize, boxSize, boxSize})
	particles := make([]Particle, n)
	step := boxSize / float64(n)
	for i := range particles {
		particles[i] = Particle{
			Position: vec3{float64(i) * step, boxSize / 2, boxSize / 2},
			Diameter: 0.1,
		}
	}
	return box, particles
}

func TestDriver_RunsWithoutError(t *testing.T) {
	box, particles := smallSystem(8, 10.0)
	cfg := DefaultDriverConfig()
	cfg.InitialGrowthRate = 1e-4
	cfg.FinalGrowthRate = 1e-4
	cfg.EventsPerParticle = 2

	driver, err := NewDriver(cfg, box, particles, nil)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		err := driver.DisplaceParticles()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, driver.stats.ReducedPressure, 1.0)
	}
}

func TestDriver_GrowthIncreasesDiameterRatio(t *testing.T) {
	box, particles := smallSystem(6, 20.0)
	cfg := DefaultDriverConfig()
	cfg.InitialGrowthRate = 1e-3
	cfg.FinalGrowthRate = 1e-3

	driver, err := NewDriver(cfg, box, particles, nil)
	require.NoError(t, err)

	initial := driver.DiameterRatio()
	for i := 0; i < 5; i++ {
		require.NoError(t, driver.DisplaceParticles())
	}
	assert.GreaterOrEqual(t, driver.DiameterRatio(), initial)
}

func TestDriver_SuppressGrowthKeepsRateAtZero(t *testing.T) {
	box, particles := smallSystem(6, 20.0)
	cfg := DefaultDriverConfig()
	cfg.SuppressGrowth = true

	driver, err := NewDriver(cfg, box, particles, nil)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, driver.DisplaceParticles())
		assert.Equal(t, 0.0, driver.GrowthRate())
	}
}

func TestDriverConfig_ValidateRejectsBadValues(t *testing.T) {
	cfg := DefaultDriverConfig()
	cfg.MaxPressure = 0
	_, err := NewDriver(cfg, NewBox(vec3{1, 1, 1}), nil, nil)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestClosestPairDiameterRatio_SinglePairTouching(t *testing.T) {
	box := NewBox(vec3{100, 100, 100})
	particles := []Particle{
		{Position: vec3{0, 0, 0}, Diameter: 1},
		{Position: vec3{2, 0, 0}, Diameter: 1},
	}
	ratio := closestPairDiameterRatio(box, particles)
	assert.InDelta(t, 2.0, ratio, 1e-9)
}
