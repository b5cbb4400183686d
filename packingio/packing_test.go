package packingio

import (
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vbaranau/lsjam"
)

func TestWriteReadPacking_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "packing.xyzd")

	box := lsjam.NewBox(mgl64.Vec3{5, 5, 5})
	particles := []lsjam.Particle{
		{Diameter: 1, Position: mgl64.Vec3{0.1, 0.2, 0.3}},
		{Diameter: 1.5, Position: mgl64.Vec3{4.0, 4.1, 4.2}},
	}

	require.NoError(t, WritePacking(path, box, 1.25, particles))

	readBox, ratio, readParticles, err := ReadPacking(path)
	require.NoError(t, err)

	assert.InDelta(t, 5.0, readBox.Size.X(), 1e-12)
	assert.InDelta(t, 1.25, ratio, 1e-12)
	require.Len(t, readParticles, 2)
	assert.InDelta(t, 0.1, readParticles[0].Position.X(), 1e-12)
	assert.InDelta(t, 1.5, readParticles[1].Diameter, 1e-12)
}

func TestWritePacking_BacksUpExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "packing.xyzd")
	box := lsjam.NewBox(mgl64.Vec3{1, 1, 1})

	require.NoError(t, WritePacking(path, box, 1.0, nil))
	require.NoError(t, WritePacking(path, box, 1.1, nil))

	_, ratio, _, err := ReadPacking(filepath.Join(dir, "packing.prev.xyzd"))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, ratio, 1e-12)
}

func TestReadDiameters_WriteDiameters_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "diameters.txt")
	diameters := []float64{1.0, 1.2, 0.8}

	require.NoError(t, WriteDiameters(path, diameters))
	got, err := ReadDiameters(path)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, d := range diameters {
		assert.InDelta(t, d, got[i], 1e-12)
	}
}
