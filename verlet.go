package lsjam

import "math"

// baseProvider is the cheap broad-phase neighbor source the Verlet
// list decorates, grounded on original_source/.../VerletListNeighborProvider.h
// ("Essentially it's a decorator over a baseNeighborProvider") and on
// the teacher's SpatialHashGrid (mod_spatialgrid.go) for the bucketing
// idiom itself.
type baseProvider interface {
	// rebuild re-indexes the provider over the given centers, each
	// augmented by the radius in augmentedRadius.
	rebuild(centers []vec3, augmentedRadius []float64, box Box)
	// query returns candidate indices whose augmented sphere may
	// overlap a sphere of the given radius centered at point.
	query(point vec3, radius float64) []int
}

// gridProvider is a uniform cell-hash base provider in the bucketing
// idiom of the teacher's SpatialHashGrid, generalized from AABB buckets
// of entity ids to buckets of particle indices keyed by augmented
// sphere centers. The bucket key is the integer cell triple itself;
// hashKey does no hash mixing.
type gridProvider struct {
	cellSize float64
	cells    map[[3]int64][]int
	centers  []vec3
	radii    []float64
	box      Box
}

func newGridProvider(cellSize float64) *gridProvider {
	return &gridProvider{cellSize: cellSize, cells: make(map[[3]int64][]int)}
}

func (g *gridProvider) cellIndex(x float64) int64 {
	return int64(math.Floor(x / g.cellSize))
}

func (g *gridProvider) hashKey(cx, cy, cz int64) [3]int64 {
	return [3]int64{cx, cy, cz}
}

func (g *gridProvider) rebuild(centers []vec3, augmentedRadius []float64, box Box) {
	g.centers = centers
	g.radii = augmentedRadius
	g.box = box
	for k := range g.cells {
		delete(g.cells, k)
	}
	for i, c := range centers {
		wrapped := box.Wrap(c)
		key := g.hashKey(g.cellIndex(wrapped.X()), g.cellIndex(wrapped.Y()), g.cellIndex(wrapped.Z()))
		g.cells[key] = append(g.cells[key], i)
	}
}

func (g *gridProvider) query(point vec3, radius float64) []int {
	wrapped := g.box.Wrap(point)
	span := int64(math.Ceil(radius / g.cellSize))
	cx, cy, cz := g.cellIndex(wrapped.X()), g.cellIndex(wrapped.Y()), g.cellIndex(wrapped.Z())

	var out []int
	for dx := -span; dx <= span; dx++ {
		for dy := -span; dy <= span; dy++ {
			for dz := -span; dz <= span; dz++ {
				key := g.hashKey(cx+dx, cy+dy, cz+dz)
				for _, j := range g.cells[key] {
					dist := math.Sqrt(selfDot(g.box.MinimumImage(g.centers[j].Sub(point))))
					if dist < radius+g.radii[j] {
						out = append(out, j)
					}
				}
			}
		}
	}
	return out
}

// VerletProvider maintains per-particle candidate-neighbor lists valid
// under growing radii (spec.md §4.2, C2). Grounded on
// VerletListNeighborProvider.h; the key correctness note from that
// header (quoted in spec.md §4.2) is why rebuild always reads from
// centers, never from the particles' instantaneous positions.
type VerletProvider struct {
	box      Box
	base     baseProvider
	cutoff   float64 // R_c
	centers  []vec3  // Verlet centers x̂_i, set at the last rebuild of i
	lists    [][]int // L_i
	particles []Particle
	diameterRatio func() float64
}

// NewVerletProvider builds a Verlet neighbor provider over n particles
// with cutoff distance cutoff, reading current positions/diameters
// from particles and the current global diameter ratio D(t) from
// diameterRatio.
func NewVerletProvider(box Box, particles []Particle, cutoff float64, diameterRatio func() float64) *VerletProvider {
	n := len(particles)
	v := &VerletProvider{
		box:           box,
		base:          newGridProvider(math.Max(cutoff, 1e-9)),
		cutoff:        cutoff,
		centers:       make([]vec3, n),
		lists:         make([][]int, n),
		particles:     particles,
		diameterRatio: diameterRatio,
	}
	for i := range particles {
		v.centers[i] = particles[i].Position
	}
	v.rebuildBase()
	for i := range particles {
		v.RebuildList(i)
	}
	return v
}

func (v *VerletProvider) rebuildBase() {
	n := len(v.centers)
	augmented := make([]float64, n)
	ratio := v.diameterRatio()
	for i := range augmented {
		augmented[i] = v.particles[i].Radius(ratio) + v.cutoff/2
	}
	v.base.rebuild(v.centers, augmented, v.box)
}

// Neighbors returns the cached candidate list L_i.
func (v *VerletProvider) Neighbors(i int) []int {
	return v.lists[i]
}

// RebuildList recomputes L_i around the particle's current position,
// which becomes the new Verlet center, and performs the symmetric
// add/remove maintenance described in spec.md §4.2.
func (v *VerletProvider) RebuildList(i int) {
	v.centers[i] = v.particles[i].Position
	v.rebuildBase()

	ratio := v.diameterRatio()
	ri := v.particles[i].Radius(ratio)
	candidates := v.base.query(v.centers[i], ri+v.cutoff/2)

	newSet := make(map[int]bool, len(candidates))
	for _, j := range candidates {
		if j == i {
			continue
		}
		dist := math.Sqrt(selfDot(v.box.MinimumImage(v.centers[j].Sub(v.centers[i]))))
		rj := v.particles[j].Radius(ratio)
		if dist < ri+rj+v.cutoff {
			newSet[j] = true
		}
	}

	oldSet := make(map[int]bool, len(v.lists[i]))
	for _, j := range v.lists[i] {
		oldSet[j] = true
	}

	for j := range oldSet {
		if !newSet[j] {
			v.removeFromList(j, i)
		}
	}
	for j := range newSet {
		if !oldSet[j] {
			v.addToList(j, i)
		}
	}

	newList := make([]int, 0, len(newSet))
	for j := range newSet {
		newList = append(newList, j)
	}
	v.lists[i] = newList
}

func (v *VerletProvider) addToList(owner, neighbor int) {
	for _, j := range v.lists[owner] {
		if j == neighbor {
			return
		}
	}
	v.lists[owner] = append(v.lists[owner], neighbor)
}

func (v *VerletProvider) removeFromList(owner, neighbor int) {
	list := v.lists[owner]
	for idx, j := range list {
		if j == neighbor {
			v.lists[owner] = append(list[:idx], list[idx+1:]...)
			return
		}
	}
}

// TimeToBoundary returns the earliest positive time at which a
// particle flying from x with velocity v exits its Verlet sphere of
// radius R_c/2 around its cached center; ok is false if it never
// exits (v is zero, or the flight is parallel/receding).
func (v *VerletProvider) TimeToBoundary(i int, x, velocity vec3) (float64, bool) {
	delta := v.box.MinimumImage(x.Sub(v.centers[i]))
	radius := v.cutoff / 2

	a := selfDot(velocity)
	if a == 0 {
		return 0, false
	}
	b := delta.Dot(velocity)
	c := selfDot(delta) - radius*radius

	discriminant := b*b - a*c
	if discriminant < 0 {
		return 0, false
	}
	root := math.Sqrt(discriminant)
	t := (-b + root) / a
	if t < 0 {
		return 0, false
	}
	return t, true
}

// CheckCutoff warns (via logger) when R_c does not exceed half the
// mean nominal diameter scaled by the largest outer ratio the system
// may reach, per spec.md §4.2's cutoff-choice requirement.
func CheckCutoff(logger Logger, cutoff, meanDiameter, maxOuterRatio float64) {
	bound := 0.5 * meanDiameter * maxOuterRatio
	if cutoff <= bound {
		logger.Warnf("Verlet cutoff %.6g does not exceed required bound %.6g (0.5 * mean diameter * max outer ratio); neighbor safety is not guaranteed", cutoff, bound)
	}
}
