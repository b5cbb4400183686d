package lsjam

import "math"

// Driver is the event-driven molecular dynamics engine from spec.md
// §4.7/§5 (C7): it owns the particle slice, the periodic cell, and
// every service the event pipeline needs, and drives cycles of
// DisplaceParticles until the system jams or a cycle budget is spent.
// Grounded on
// original_source/.../LubachevsckyStillingerStep.cpp, the driver's
// sole teacher — spec.md's other components (heap, collision
// calculus, providers, processors) are its collaborators, assembled
// here exactly the way LubachevsckyStillingerStep::SetParticles wires
// them.
type Driver struct {
	cfg    DriverConfig
	box    Box
	logger Logger

	particles []Particle

	collision *CollisionService
	velocity  *VelocityService
	verlet    *VerletProvider
	queue     *EventQueue
	provider  *CompositeEventProvider
	processor *CompositeEventProcessor
	strategy  CompressionStrategy

	currentTime   float64
	initialDiameterRatio float64 // D0, rebased at every ResetTime
	growthRate    float64

	stats           CycleStatistics
	pressureHistory []float64
	errorHistory    []bool
	cycle           int
	jammed          bool
}

// NewDriver builds a driver over the given particles and periodic
// cell, wiring up the full C1-C6 event pipeline.
func NewDriver(cfg DriverConfig, box Box, particles []Particle, logger Logger) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = NewNopLogger()
	}

	d := &Driver{
		cfg:                  cfg,
		box:                  box,
		logger:               logger,
		particles:            particles,
		initialDiameterRatio: closestPairDiameterRatio(box, particles),
		growthRate:           cfg.InitialGrowthRate,
		strategy:             cfg.buildStrategy(),
	}
	if cfg.SuppressGrowth {
		d.growthRate = 0
	}

	d.collision = NewCollisionService(box)
	d.collision.Reinitialize(d.initialDiameterRatio, d.growthRate)

	d.velocity = NewVelocityService(cfg.Temperature, cfg.Seed, logger)
	d.velocity.FillVelocities(d.particles)

	ratioFn := func() float64 { return d.initialDiameterRatio + d.growthRate*d.currentTime }
	d.verlet = NewVerletProvider(box, d.particles, cfg.VerletCutoff, ratioFn)

	d.queue = NewEventQueue(len(particles), func(i, j int) bool {
		return eventLess(d.particles[i].Next, d.particles[j].Next)
	})

	collisionProvider := NewCollisionEventProvider(d.verlet, d.collision)
	neighborProvider := NewNeighborTransferEventProvider(d.verlet)
	wallProvider := NewWallTransferEventProvider(box)
	d.provider = NewCompositeEventProvider(d.particles, d.queue, collisionProvider, neighborProvider, wallProvider)

	processors := map[EventKind]EventProcessor{
		Move:             MoveEventProcessor{},
		Collision:        NewCollisionEventProcessor(d.collision, &d.stats),
		WallTransfer:     NewWallTransferEventProcessor(box),
		NeighborTransfer: NewNeighborTransferEventProcessor(d.verlet),
	}
	d.processor = NewCompositeEventProcessor(d.particles, d.provider, d.verlet, processors)

	d.initializeEvents()
	return d, nil
}

// closestPairDiameterRatio finds the minimum over all pairs of
// distance / ((d_i+d_j)/2), the diameter ratio at which the first two
// spheres would touch; this seeds D0 the way
// LubachevsckyStillingerStep::SetParticles does before any growth has
// happened.
func closestPairDiameterRatio(box Box, particles []Particle) float64 {
	best := math.Inf(1)
	for i := range particles {
		for j := i + 1; j < len(particles); j++ {
			diff := box.MinimumImage(particles[j].Position.Sub(particles[i].Position))
			dist := math.Sqrt(selfDot(diff))
			rSum := (particles[i].Diameter + particles[j].Diameter) / 2
			if rSum <= 0 {
				continue
			}
			ratio := dist / rSum
			if ratio < best {
				best = ratio
			}
		}
	}
	if math.IsInf(best, 1) {
		return 1
	}
	return best
}

func (d *Driver) initializeEvents() {
	for i := range d.particles {
		d.particles[i].Next = InvalidEvent
	}
	d.provider.SetAllNextEvents(d.currentTime)
}

// DisplaceParticles runs one LS cycle: it processes a batch of events,
// rescales velocities, resets the time origin, re-seeds every
// particle's next event, checks the closest-pair invariant, and asks
// the compression strategy for the next cycle's growth rate. Mirrors
// LubachevsckyStillingerStep::DisplaceParticles.
func (d *Driver) DisplaceParticles() error {
	d.processEvents()
	for i := range d.particles {
		d.particles[i].Synchronize(d.currentTime)
	}
	d.velocity.RescaleVelocities(d.particles)

	kineticEnergy := d.velocity.GetActualKineticEnergy(d.particles)
	cycleDuration := d.currentTime
	d.stats.Finalize(kineticEnergy, cycleDuration)
	d.stats.DiameterRatio = d.initialDiameterRatio + d.growthRate*d.currentTime
	d.pressureHistory = append(d.pressureHistory, d.stats.ReducedPressure)

	d.resetTime()
	d.initializeEvents()

	violated := d.checkClosestPairInvariant()
	d.errorHistory = append(d.errorHistory, violated)

	previous := d.growthRate
	ctx := CompressionContext{
		CurrentRate:      previous,
		FinalRate:        d.cfg.FinalGrowthRate,
		ReducedPressure:  d.stats.ReducedPressure,
		PreviousPressure: previousOrZero(d.pressureHistory),
		MaxPressure:      d.cfg.MaxPressure,
		Density:          density(d.box, d.particles, d.stats.DiameterRatio),
		TargetDensity:    1.0,
	}
	if d.cfg.SuppressGrowth {
		d.growthRate = 0
	} else {
		rate, err := d.strategy.NextRate(ctx)
		if err != nil {
			return err
		}
		d.growthRate = rate
	}
	ctx.CurrentRate = d.growthRate
	d.jammed = d.strategy.Done(ctx)

	d.collision.Reinitialize(d.initialDiameterRatio, d.growthRate)
	if d.growthRate != previous {
		// The quadratic collision-time coefficients depend on γ², so
		// every event already queued was computed under the stale
		// rate and must be recomputed from scratch.
		d.initializeEvents()
	}

	d.stats.reset()
	d.cycle++
	return nil
}

func previousOrZero(history []float64) float64 {
	if len(history) < 2 {
		return 0
	}
	return history[len(history)-2]
}

// density returns the packing fraction φ = Σ_i (4/3)π r_i(t)^3 /
// boxVolume, with r_i(t) = d_i D(t) / 2, the reduced-density quantity the
// constant-power strategy compares against a target of 1 (i.e. the
// nominal jamming density baked into FinalGrowthRate).
func density(box Box, particles []Particle, diameterRatio float64) float64 {
	boxVolume := box.Size.X() * box.Size.Y() * box.Size.Z()
	if boxVolume <= 0 {
		return 0
	}
	var volume float64
	for i := range particles {
		r := particles[i].Radius(diameterRatio)
		volume += 4.0 / 3.0 * math.Pi * r * r * r
	}
	return volume / boxVolume
}

// processEvents pops EventsPerParticle*N events from the heap and
// dispatches each to the composite processor. Mirrors
// LubachevsckyStillingerStep::ProcessEvents.
func (d *Driver) processEvents() {
	count := d.cfg.EventsPerParticle * len(d.particles)
	for n := 0; n < count; n++ {
		top := d.queue.Top()
		if top == InvalidIndex {
			return
		}
		ev := d.particles[top].Next
		if math.IsInf(ev.Time, 1) {
			return
		}
		d.currentTime = ev.Time
		d.processor.Dispatch(ev)
	}
}

// resetTime rebases every clock to zero, the periodic renormalization
// LubachevsckyStillingerStep::ResetTime performs to keep event times
// from drifting to ever-larger floats over a long run.
func (d *Driver) resetTime() {
	elapsed := d.currentTime
	if elapsed == 0 {
		return
	}
	d.initialDiameterRatio += d.growthRate * elapsed
	for i := range d.particles {
		d.particles[i].LastEventTime -= elapsed
		d.particles[i].Next.Time -= elapsed
	}
	d.currentTime = 0
	d.collision.Reinitialize(d.initialDiameterRatio, d.growthRate)
}

// checkClosestPairInvariant verifies every tracked Verlet-neighbor pair
// remains no closer than innerDiameterRatio - margin, per spec.md §5.
// It flags rather than aborts, matching
// LubachevsckyStillingerStep::DisplaceRealParticles's
// collisionErrorsExisted bookkeeping.
func (d *Driver) checkClosestPairInvariant() bool {
	violated := false
	ratio := d.initialDiameterRatio
	margin := d.cfg.InnerDiameterRatioMargin
	for i := range d.particles {
		ri := d.particles[i].Radius(ratio)
		for _, j := range d.verlet.Neighbors(i) {
			if j <= i {
				continue
			}
			diff := d.box.MinimumImage(d.particles[j].Position.Sub(d.particles[i].Position))
			dist := math.Sqrt(selfDot(diff))
			rj := d.particles[j].Radius(ratio)
			if dist < ri+rj-margin {
				violated = true
				d.logger.Warnf("closest-pair invariant violated between particles %d and %d: distance %.6g < sum of radii %.6g", i, j, dist, ri+rj)
			}
		}
	}
	return violated
}

// Run drives cycles until the active compression strategy reports the
// system jammed or maxCycles is exhausted, returning the final cycle's
// statistics. Each strategy defines its own jamming condition (spec.md
// §4.7); Run defers to CompressionStrategy.Done rather than hardcoding
// SimpleStrategy's.
func (d *Driver) Run(maxCycles int) (CycleStatistics, error) {
	for n := 0; n < maxCycles; n++ {
		if err := d.DisplaceParticles(); err != nil {
			return d.stats, err
		}
		if d.jammed {
			return d.stats, nil
		}
	}
	return d.stats, &TimeoutError{Reason: "reached cycle budget before jamming pressure"}
}

// EquilibrationSnapshot builds the rolling state an EquilibrationChain
// needs to judge whether the system has settled since the last
// compression step (spec.md §4.8). Driving code using the
// equilibration-between-compressions strategy calls this between
// cycles and feeds it to a chain before resuming growth.
func (d *Driver) EquilibrationSnapshot() EquilibrationContext {
	return EquilibrationContext{
		Cycle:                   d.cycle,
		ReducedPressure:         d.stats.ReducedPressure,
		PressureHistory:         d.pressureHistory,
		CollisionErrorHistory:   d.errorHistory,
		MeanSquaredDisplacement: d.stats.ExchangedMomentum,
		ScatterThreshold:        d.cfg.ScatterThreshold,
	}
}

// Particles exposes the current particle slice for callers that need
// to persist a packing snapshot.
func (d *Driver) Particles() []Particle { return d.particles }

// DiameterRatio returns the current global diameter ratio D(t).
func (d *Driver) DiameterRatio() float64 {
	return d.initialDiameterRatio + d.growthRate*d.currentTime
}

// GrowthRate returns the growth rate currently in effect.
func (d *Driver) GrowthRate() float64 { return d.growthRate }

// EnableVoronoiTransfers arms the optional VoronoiTransfer refinement
// (spec.md §4.6) over a precomputed set of per-particle inscribed-sphere
// bounds, one entry per particle, and re-seeds every event so the new
// provider/processor pair takes effect immediately. Without a call to
// this method the driver runs the core C1-C6 pipeline only, which is
// sufficient for every compression strategy in spec.md §4.7.
func (d *Driver) EnableVoronoiTransfers(spheres []InscribedSphere) {
	growth := func() (float64, float64) { return d.DiameterRatio(), d.growthRate }
	provider := NewVoronoiTransferEventProvider(spheres, growth)
	processor := NewVoronoiTransferEventProcessor()

	d.provider.providers = append(d.provider.providers, provider)
	d.processor.byKind[VoronoiTransfer] = processor

	d.initializeEvents()
}
