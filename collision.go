package lsjam

import "math"

// epsilon mirrors Core::EPSILON from the original C++ source: the
// machine epsilon for float64, used to clamp a marginally negative
// discriminant to zero for near-tangent collisions (spec.md §4.3,
// PrecisionError in §7).
const epsilon = 2.220446049250313e-16

// CollisionService is the exact time-to-contact and post-collision
// velocity calculus from spec.md §4.3 (C3), grounded on
// original_source/.../ParticleCollisionService.cpp. It caches the
// shared growth state (D0, γ) the way the C++ class does, so that a
// change of growth rate requires an explicit Reinitialize call and a
// full event recompute — exactly the contract spec.md §4.7 describes
// ("Whenever γ changes, the collision calculus's cached (D0, γ) must
// be reinitialized and all events recomputed").
type CollisionService struct {
	box                   Box
	initialDiameterRatio  float64
	growthRate            float64
}

// NewCollisionService builds the service over a periodic cell.
func NewCollisionService(box Box) *CollisionService {
	return &CollisionService{box: box}
}

// Reinitialize resets the cached (D0, γ) pair.
func (s *CollisionService) Reinitialize(initialDiameterRatio, growthRate float64) {
	s.initialDiameterRatio = initialDiameterRatio
	s.growthRate = growthRate
}

func (s *CollisionService) GrowthRate() float64 { return s.growthRate }

// difference returns x_j(t) - x_i(t) under the minimum-image
// convention, matching ParticleCollisionService::FillDifference.
func (s *CollisionService) difference(t float64, pi, pj Particle) vec3 {
	raw := pj.PositionAt(t).Sub(pi.PositionAt(t))
	return s.box.MinimumImage(raw)
}

// CollisionTime returns the absolute time of the next collision
// between pi and pj (false if they never collide), per spec.md §4.3's
// quadratic a τ² + 2 b τ + c = 0.
func (s *CollisionService) CollisionTime(t float64, pi, pj Particle) (float64, bool) {
	currentDiameterRatio := s.initialDiameterRatio + s.growthRate*t

	relativeVelocity := pj.Velocity.Sub(pi.Velocity)
	relativeVelocitySquare := selfDot(relativeVelocity)

	difference := s.difference(t, pi, pj)
	distanceSquare := selfDot(difference)

	rSum := (pi.Diameter + pj.Diameter) / 2
	rSumSquare := rSum * rSum

	a := relativeVelocitySquare - rSumSquare*s.growthRate*s.growthRate
	// b is halved relative to the classical a τ² + b τ + c = 0 form, so
	// the root formula below divides by a (not 2a).
	b := relativeVelocity.Dot(difference) - rSumSquare*currentDiameterRatio*s.growthRate
	c := distanceSquare - rSumSquare*currentDiameterRatio*currentDiameterRatio

	return collisionTimeFromABC(t, a, b, c)
}

// collisionTimeFromABC implements the case analysis of spec.md §4.3
// directly (ParticleCollisionService::GetCollisionTime(t, a, b, c)).
func collisionTimeFromABC(currentTime, a, b, c float64) (float64, bool) {
	switch {
	case c < 0:
		// Spheres already overlapping.
		if b <= 0 {
			return currentTime, true
		}
		return 0, false

	case c == 0:
		// Spheres exactly in contact.
		if b < 0 {
			return currentTime, true
		}
		return 0, false

	default:
		// c > 0: spheres are apart.
		if a == 0 {
			if b < 0 {
				return currentTime - c/b*0.5, true
			}
			return 0, false
		}

		discriminant := b*b - a*c
		if discriminant < 0 {
			if discriminant > -10*epsilon {
				discriminant = 0
			} else {
				return 0, false
			}
		}

		if b <= 0 || a < 0 {
			root := math.Sqrt(discriminant)
			return currentTime + (-b-root)/a, true
		}
		return 0, false
	}
}

// PostCollisionVelocities computes the elastic-plus-growth-impulse
// post-collision velocities for the colliding pair and the exchanged
// momentum contribution used for the pressure estimator (spec.md
// §4.3's momentum accumulator). Ported from
// ParticleCollisionService::FillVelocitiesAfterCollision.
func (s *CollisionService) PostCollisionVelocities(t float64, pi, pj Particle) (vi, vj vec3, exchangedMomentum float64) {
	diff := s.difference(t, pi, pj)
	length := math.Sqrt(selfDot(diff))
	normal := diff.Mul(1 / length)

	piParallel, piTransverse, piParallelLen := splitAlongNormal(pi.Velocity, normal)
	pjParallel, pjTransverse, pjParallelLen := splitAlongNormal(pj.Velocity, normal)

	radiusGrowthSum := (pi.Diameter + pj.Diameter) * s.growthRate * 0.5

	// Boundary ("growth impulse") velocities guarantee separation even
	// when both parallel components vanish; the source uses twice the
	// minimal separating rate for safety margin.
	piBoundary := normal.Mul(2 * radiusGrowthSum)
	pjBoundary := normal.Mul(-2 * radiusGrowthSum)

	vi = piTransverse.Add(pjBoundary).Add(pjParallel)
	vj = pjTransverse.Add(piParallel).Add(piBoundary)

	exchangedMomentum = (piParallelLen + pjParallelLen) * length
	return vi, vj, exchangedMomentum
}

// splitAlongNormal decomposes v into components parallel and
// transverse to the unit vector normal, returning the absolute length
// of the parallel component (the projection's magnitude, sign dropped).
func splitAlongNormal(v, normal vec3) (parallel, transverse vec3, parallelLen float64) {
	projection := normal.Dot(v)
	parallel = normal.Mul(projection)
	transverse = v.Sub(parallel)
	return parallel, transverse, math.Abs(projection)
}
