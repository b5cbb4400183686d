// Command lsjam drives the Lubachevsky-Stillinger packing generator
// described in spec.md from the command line: read an initial
// configuration, grow the spheres under one of five compression-rate
// strategies until the packing jams, and write the result back out.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/vbaranau/lsjam"
	"github.com/vbaranau/lsjam/packingio"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "lsjam:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("lsjam", flag.ContinueOnError)

	simple := fs.Bool("ls", false, "simple constant-rate compression")
	gradual := fs.Bool("lsgd", false, "gradual densification compression")
	equilibrated := fs.Bool("lsebc", false, "equilibration-between-compressions")
	constantPower := fs.Bool("lscp", false, "constant-power compression")
	biazzo := fs.Bool("lsb", false, "Biazzo table-driven compression")

	suppress := fs.Bool("suppress", false, "suppress growth; run as a fixed-radius equilibration")
	particlesPath := fs.String("particles", "packing.xyzd", "input/output packing snapshot path")
	diametersPath := fs.String("diameters", "diameters.txt", "initial diameters file, used only when particlesPath does not exist")
	boxSize := fs.Float64("box", 1.0, "cubic box edge length, used only for a fresh initial configuration")
	cycles := fs.Int("cycles", 10000, "maximum number of LS cycles to run")
	seed := fs.Int64("seed", 1, "random seed for velocity sampling and initial placement")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := lsjam.DefaultDriverConfig()
	cfg.SuppressGrowth = *suppress
	cfg.Seed = *seed

	switch {
	case *gradual:
		cfg.CompressionMode = lsjam.CompressionGradualDensification
	case *equilibrated:
		cfg.CompressionMode = lsjam.CompressionEquilibrationBetweenCompressions
	case *constantPower:
		cfg.CompressionMode = lsjam.CompressionConstantPower
	case *biazzo:
		cfg.CompressionMode = lsjam.CompressionBiazzo
	case *simple:
		cfg.CompressionMode = lsjam.CompressionSimple
	default:
		cfg.CompressionMode = lsjam.CompressionSimple
	}

	if fs.NArg() > 0 {
		rate, err := parseRate(fs.Arg(0))
		if err != nil {
			return err
		}
		cfg.InitialGrowthRate = rate
		cfg.FinalGrowthRate = rate
	}

	box, particles, err := loadOrGenerate(*particlesPath, *diametersPath, *boxSize, *seed)
	if err != nil {
		return err
	}

	logger := lsjam.NewDefaultLogger("lsjam", false)
	driver, err := lsjam.NewDriver(cfg, box, particles, logger)
	if err != nil {
		return err
	}

	stats, runErr := driver.Run(*cycles)
	if runErr != nil {
		logger.Warnf("run ended early: %v", runErr)
	}

	if err := packingio.WritePacking(*particlesPath, box, driver.DiameterRatio(), driver.Particles()); err != nil {
		return err
	}
	if err := packingio.WriteReport("packing.nfo", stats, *cycles, len(particles)); err != nil {
		return err
	}
	return nil
}

func parseRate(s string) (float64, error) {
	var rate float64
	if _, err := fmt.Sscanf(s, "%g", &rate); err != nil {
		return 0, fmt.Errorf("invalid growth rate %q: %w", s, err)
	}
	return rate, nil
}

// loadOrGenerate reads an existing packing snapshot, or, if none
// exists yet, builds a fresh one from a diameters file scattered
// uniformly at random in a cubic box of the given edge length.
func loadOrGenerate(particlesPath, diametersPath string, boxSize float64, seed int64) (lsjam.Box, []lsjam.Particle, error) {
	if _, err := os.Stat(particlesPath); err == nil {
		box, _, particles, err := packingio.ReadPacking(particlesPath)
		return box, particles, err
	}

	diameters, err := packingio.ReadDiameters(diametersPath)
	if err != nil {
		return lsjam.Box{}, nil, err
	}

	box := lsjam.NewBox(mgl64.Vec3{boxSize, boxSize, boxSize})
	rng := rand.New(rand.NewSource(seed))
	particles := make([]lsjam.Particle, len(diameters))
	for i, d := range diameters {
		particles[i] = lsjam.Particle{
			Diameter: d,
			Position: mgl64.Vec3{rng.Float64() * boxSize, rng.Float64() * boxSize, rng.Float64() * boxSize},
		}
	}
	return box, particles, nil
}
