package lsjam

import "math"

// CompressionContext is the read-only snapshot a CompressionStrategy
// consults to pick the next cycle's growth rate (spec.md §4.7's five
// rate-control strategies). Grounded on
// LubachevsckyStillingerStep.cpp's per-strategy methods, which all
// close over the same handful of running quantities.
type CompressionContext struct {
	CurrentRate      float64
	FinalRate        float64
	ReducedPressure  float64
	PreviousPressure float64
	MaxPressure      float64
	Density          float64
	TargetDensity    float64
	CyclesStalled    int
}

// CompressionStrategy decides the growth rate for the next cycle and
// reports whether the run has reached its jamming condition. Each
// strategy defines "done" differently (spec.md §4.7: Simple and
// EquilibrationBetweenCompressions jam the moment pressure reaches
// MaxPressure; GradualDensification, ConstantPower and Biazzo only jam
// once the rate has also been driven down to FinalRate), so Done, not a
// single generic pressure check, is what Driver.Run must consult.
type CompressionStrategy interface {
	NextRate(ctx CompressionContext) (float64, error)
	Done(ctx CompressionContext) bool
}

// SimpleStrategy never changes the growth rate: the baseline "-ls"
// mode from spec.md §4.7. It jams as soon as the reduced pressure
// reaches MaxPressure.
type SimpleStrategy struct{}

func (SimpleStrategy) NextRate(ctx CompressionContext) (float64, error) {
	return ctx.CurrentRate, nil
}

func (SimpleStrategy) Done(ctx CompressionContext) bool {
	return ctx.ReducedPressure >= ctx.MaxPressure
}

// GradualDensificationStrategy is
// LubachevsckyStillingerStep::DecreaseCompressionRate: a two-phase
// state machine. While growing (CurrentRate > 0) it holds the rate
// steady until the pressure first reaches MaxPressure, at which point
// it suppresses growth to zero. While suppressed (CurrentRate == 0) it
// waits for the pause to relax the pressure back under MaxPressure,
// then resumes growth at InitialRate/Factor^k for the k-th resumption,
// one notch slower each time. It gives up with a TimeoutError on the
// 51st resumption, once growth has already been resumed 50 times. The
// number of consecutive suppressed cycles is not limited: while the
// pressure stays at or above MaxPressure it keeps returning zero.
type GradualDensificationStrategy struct {
	InitialRate float64
	Factor      float64 // f; rate after k decreases is InitialRate / f^k
	decreases   int
	attempts    int
}

func NewGradualDensificationStrategy(initialRate, factor float64) *GradualDensificationStrategy {
	return &GradualDensificationStrategy{InitialRate: initialRate, Factor: factor}
}

func (s *GradualDensificationStrategy) NextRate(ctx CompressionContext) (float64, error) {
	if ctx.CurrentRate > 0 {
		if ctx.ReducedPressure >= ctx.MaxPressure && ctx.CurrentRate > ctx.FinalRate {
			return 0, nil
		}
		return ctx.CurrentRate, nil
	}

	// Suppressed: wait for the pressure to relax before resuming growth
	// at a slower rate.
	if ctx.ReducedPressure < ctx.MaxPressure {
		if s.attempts >= 50 {
			return 0, &TimeoutError{Reason: "gradual densification gave up after 50 attempts to resume growth"}
		}
		s.attempts++
		s.decreases++
		return s.InitialRate / math.Pow(s.Factor, float64(s.decreases)), nil
	}
	return 0, nil
}

func (s *GradualDensificationStrategy) Done(ctx CompressionContext) bool {
	return ctx.ReducedPressure >= ctx.MaxPressure && ctx.CurrentRate <= ctx.FinalRate
}

// EquilibrationBetweenCompressionsStrategy is
// LubachevsckyStillingerStep::SwitchCompressionRateWithZero: growth
// continues at the nominal rate until the reduced pressure reaches
// MaxPressure, at which point it is suppressed to zero and restored
// once the pressure has settled (its relative change between cycles
// drops under 1%).
type EquilibrationBetweenCompressionsStrategy struct {
	NominalRate float64
	suppressed  bool
}

func NewEquilibrationBetweenCompressionsStrategy(nominalRate float64) *EquilibrationBetweenCompressionsStrategy {
	return &EquilibrationBetweenCompressionsStrategy{NominalRate: nominalRate}
}

func (s *EquilibrationBetweenCompressionsStrategy) NextRate(ctx CompressionContext) (float64, error) {
	if !s.suppressed {
		if ctx.ReducedPressure >= ctx.MaxPressure {
			s.suppressed = true
			return 0, nil
		}
		return ctx.CurrentRate, nil
	}
	if ctx.PreviousPressure > 0 {
		relative := math.Abs(ctx.ReducedPressure-ctx.PreviousPressure) / ctx.PreviousPressure
		if relative < 0.01 {
			s.suppressed = false
			return s.NominalRate, nil
		}
	}
	return 0, nil
}

func (s *EquilibrationBetweenCompressionsStrategy) Done(ctx CompressionContext) bool {
	return ctx.ReducedPressure >= ctx.MaxPressure
}

// ConstantPowerStrategy is LubachevsckyStillingerStep::EnsureConstantPower:
// it targets a growth rate that keeps the compression power
// (pressure times rate of volume change) constant as density
// approaches the target, only ever lowering the rate and never below
// half the final rate. It jams once the candidate rate itself would
// fall below FinalRate and the pressure has reached MaxPressure.
type ConstantPowerStrategy struct {
	FinalRate float64
}

func (s ConstantPowerStrategy) candidateRate(ctx CompressionContext) (float64, bool) {
	if ctx.ReducedPressure <= 0 || ctx.TargetDensity <= 0 {
		return 0, false
	}
	densityRatio := ctx.Density / ctx.TargetDensity
	candidate := s.FinalRate * ctx.MaxPressure / ctx.ReducedPressure * math.Pow(densityRatio, 4.0/3.0)
	return candidate, true
}

func (s ConstantPowerStrategy) NextRate(ctx CompressionContext) (float64, error) {
	candidate, ok := s.candidateRate(ctx)
	if !ok {
		return ctx.CurrentRate, nil
	}
	if candidate < ctx.CurrentRate && candidate >= s.FinalRate/2 {
		return candidate, nil
	}
	return ctx.CurrentRate, nil
}

func (s ConstantPowerStrategy) Done(ctx CompressionContext) bool {
	candidate, ok := s.candidateRate(ctx)
	if !ok {
		return false
	}
	return candidate < s.FinalRate && ctx.ReducedPressure >= ctx.MaxPressure
}

// biazzoThresholds/biazzoRates is the lookup table from
// LubachevsckyStillingerStep::DecreaseCompressionRateAsBiazzo: the
// rate drops to biazzoRates[k] once ReducedPressure reaches
// biazzoThresholds[k].
var (
	biazzoThresholds = []float64{1e2, 1e3, 1e9, 1e12}
	biazzoRates      = []float64{1e-2, 1e-3, 1e-4, 0.9e-4}
)

// BiazzoStrategy is the table-driven strategy named after Biazzo et
// al.'s protocol: the growth rate steps down through a fixed schedule
// as the reduced pressure crosses each threshold, jamming once
// pressure exceeds MaxPressure with the table rate already down at or
// below FinalRate.
type BiazzoStrategy struct{}

func (BiazzoStrategy) tableRate(ctx CompressionContext) float64 {
	rate := biazzoRates[0]
	for i, threshold := range biazzoThresholds {
		if ctx.ReducedPressure >= threshold {
			rate = biazzoRates[i]
		}
	}
	return rate
}

func (s BiazzoStrategy) NextRate(ctx CompressionContext) (float64, error) {
	return s.tableRate(ctx), nil
}

func (s BiazzoStrategy) Done(ctx CompressionContext) bool {
	return ctx.ReducedPressure > ctx.MaxPressure && s.tableRate(ctx) <= ctx.FinalRate
}
