package packingio

import (
	"bufio"
	"fmt"
	"os"

	"github.com/vbaranau/lsjam"
)

// WriteReport writes the human-readable packing.nfo summary of a
// finished (or interrupted) run: final diameter ratio, reduced
// pressure, and cycle count, the same handful of numbers a user
// skimming a generation log looks for first.
func WriteReport(path string, stats lsjam.CycleStatistics, cycles int, particleCount int) error {
	f, err := os.Create(path)
	if err != nil {
		return &lsjam.IOError{Path: path, Err: err}
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "Particles: %d\n", particleCount)
	fmt.Fprintf(w, "Cycles: %d\n", cycles)
	fmt.Fprintf(w, "DiameterRatio: %.15g\n", stats.DiameterRatio)
	fmt.Fprintf(w, "ReducedPressure: %.15g\n", stats.ReducedPressure)
	fmt.Fprintf(w, "KineticEnergy: %.15g\n", stats.KineticEnergy)
	if err := w.Flush(); err != nil {
		return &lsjam.IOError{Path: path, Err: err}
	}
	return nil
}
