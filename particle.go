package lsjam

// Particle is a mobile hard sphere (spec.md §3). Position and Velocity
// describe the free-flight invariant: at global time t, the true
// position is Position + Velocity*(t - LastEventTime).
type Particle struct {
	Position      vec3
	Velocity      vec3
	Diameter      float64
	LastEventTime float64
	Next          Event
}

// PositionAt returns the particle's true position at time t, assuming
// free flight since LastEventTime.
func (p Particle) PositionAt(t float64) vec3 {
	dt := t - p.LastEventTime
	return p.Position.Add(p.Velocity.Mul(dt))
}

// Synchronize advances the particle to time t under free flight and
// moves the last-event timestamp forward. This is the one place
// position catches up with time; callers never mutate Position
// directly except here and in WallTransfer/NeighborTransfer handling.
func (p *Particle) Synchronize(t float64) {
	p.Position = p.PositionAt(t)
	p.LastEventTime = t
}

// Radius returns the effective radius r_i(t) = d_i * D(t) / 2 for the
// given global diameter ratio D(t).
func (p Particle) Radius(diameterRatio float64) float64 {
	return p.Diameter * diameterRatio / 2
}
