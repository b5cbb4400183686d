package lsjam

import "github.com/go-gl/mathgl/mgl64"

// vec3 is the concrete realization of spec's generic ℝ^D: this core
// always runs in three dimensions. Kept as a local alias so the D=3
// decision is visible in one place rather than scattered across the
// package.
type vec3 = mgl64.Vec3

func selfDot(v vec3) float64 {
	return v.Dot(v)
}
