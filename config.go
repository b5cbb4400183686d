package lsjam

// CompressionMode names one of the five rate-control strategies from
// spec.md §4.7.
type CompressionMode int

const (
	CompressionSimple CompressionMode = iota
	CompressionGradualDensification
	CompressionEquilibrationBetweenCompressions
	CompressionConstantPower
	CompressionBiazzo
)

// DriverConfig is every tunable the EDMD driver needs to build its
// services (spec.md §6's generation parameters, minus the file-format
// concerns that belong to the packingio package).
type DriverConfig struct {
	InitialGrowthRate float64
	FinalGrowthRate   float64
	MaxPressure       float64
	Temperature       float64
	Seed              int64
	EventsPerParticle int
	VerletCutoff      float64

	CompressionMode CompressionMode
	GradualFactor   float64 // exponential base for CompressionGradualDensification

	MinEquilibrationCycles int
	PressureTolerance      float64
	ErrorRateWindow         int
	MaxErrorRate            float64
	ScatterThreshold        float64

	SuppressGrowth bool

	// InnerDiameterRatioMargin is the allowed undershoot of the
	// closest-pair invariant (spec.md §5), normally 1e-14.
	InnerDiameterRatioMargin float64
}

// DefaultDriverConfig returns the parameter set
// LubachevsckyStillingerStep.cpp uses when the caller does not
// override anything: a modest growth rate, the standard jamming
// pressure 1e12, and simple (non-adaptive) compression.
func DefaultDriverConfig() DriverConfig {
	return DriverConfig{
		InitialGrowthRate:        1e-3,
		FinalGrowthRate:          1e-3,
		MaxPressure:              1e12,
		Temperature:              defaultTemperature,
		Seed:                     1,
		EventsPerParticle:        1,
		VerletCutoff:             0.5,
		CompressionMode:          CompressionSimple,
		GradualFactor:            1.2,
		MinEquilibrationCycles:   1,
		PressureTolerance:        0.01,
		ErrorRateWindow:          50,
		MaxErrorRate:             0.1,
		ScatterThreshold:         1e-6,
		InnerDiameterRatioMargin: 1e-14,
	}
}

// Validate reports the first malformed field it finds.
func (c DriverConfig) Validate() error {
	switch {
	case c.MaxPressure <= 1:
		return &ConfigError{Field: "MaxPressure", Reason: "must exceed 1 (the unjammed reduced pressure floor)"}
	case c.Temperature <= 0:
		return &ConfigError{Field: "Temperature", Reason: "must be positive"}
	case c.EventsPerParticle <= 0:
		return &ConfigError{Field: "EventsPerParticle", Reason: "must be positive"}
	case c.VerletCutoff <= 0:
		return &ConfigError{Field: "VerletCutoff", Reason: "must be positive"}
	case c.InnerDiameterRatioMargin < 0:
		return &ConfigError{Field: "InnerDiameterRatioMargin", Reason: "must be non-negative"}
	}
	return nil
}

func (c DriverConfig) buildStrategy() CompressionStrategy {
	switch c.CompressionMode {
	case CompressionGradualDensification:
		return NewGradualDensificationStrategy(c.InitialGrowthRate, c.GradualFactor)
	case CompressionEquilibrationBetweenCompressions:
		return NewEquilibrationBetweenCompressionsStrategy(c.InitialGrowthRate)
	case CompressionConstantPower:
		return ConstantPowerStrategy{FinalRate: c.FinalGrowthRate}
	case CompressionBiazzo:
		return BiazzoStrategy{}
	default:
		return SimpleStrategy{}
	}
}
