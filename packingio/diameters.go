package packingio

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/vbaranau/lsjam"
)

// ReadDiameters parses a plain-text list of nominal diameters, one per
// line, used as the initial-condition input before any positions are
// generated (a polydisperse packing's diameters are fixed up front;
// only positions and the growth schedule evolve during generation).
func ReadDiameters(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &lsjam.IOError{Path: path, Err: err}
	}
	defer f.Close()

	var diameters []float64
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		d, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, &lsjam.IOError{Path: path, Err: fmt.Errorf("malformed diameter %q", line)}
		}
		diameters = append(diameters, d)
	}
	if err := scanner.Err(); err != nil {
		return nil, &lsjam.IOError{Path: path, Err: err}
	}
	return diameters, nil
}

// WriteDiameters is the inverse of ReadDiameters.
func WriteDiameters(path string, diameters []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return &lsjam.IOError{Path: path, Err: err}
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, d := range diameters {
		fmt.Fprintf(w, "%.15g\n", d)
	}
	return w.Flush()
}
