package packingio

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/vbaranau/lsjam"
)

// Config is the ASCII "Key: value" generation.conf format from
// spec.md §6. Entries are kept in an ordered slice rather than a map
// so a round-tripped file preserves the field order (and any unknown
// keys) of the file it was read from, the way a hand-edited config
// file is expected to behave.
type Config struct {
	entries []configEntry
	index   map[string]int
}

type configEntry struct {
	key   string
	value string
}

// NewConfig returns an empty, ready-to-populate Config.
func NewConfig() *Config {
	return &Config{index: make(map[string]int)}
}

// Set inserts or updates a key, preserving the position of an
// existing key and appending new ones at the end.
func (c *Config) Set(key, value string) {
	if i, ok := c.index[key]; ok {
		c.entries[i].value = value
		return
	}
	c.index[key] = len(c.entries)
	c.entries = append(c.entries, configEntry{key: key, value: value})
}

func (c *Config) Get(key string) (string, bool) {
	i, ok := c.index[key]
	if !ok {
		return "", false
	}
	return c.entries[i].value, true
}

func (c *Config) GetFloat(key string, fallback float64) float64 {
	v, ok := c.Get(key)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func (c *Config) GetInt(key string, fallback int) int {
	v, ok := c.Get(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func (c *Config) GetBool(key string, fallback bool) bool {
	v, ok := c.Get(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// ReadConfig parses a "Key: value" file, one entry per line, blank
// lines and lines starting with '#' ignored.
func ReadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &lsjam.IOError{Path: path, Err: err}
	}
	defer f.Close()

	cfg := NewConfig()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			return nil, &lsjam.IOError{Path: path, Err: fmt.Errorf("malformed line %q: expected \"Key: value\"", line)}
		}
		cfg.Set(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]))
	}
	if err := scanner.Err(); err != nil {
		return nil, &lsjam.IOError{Path: path, Err: err}
	}
	return cfg, nil
}

// WriteConfig writes entries back out in their stored order.
func WriteConfig(path string, cfg *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return &lsjam.IOError{Path: path, Err: err}
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, e := range cfg.entries {
		if _, err := fmt.Fprintf(w, "%s: %s\n", e.key, e.value); err != nil {
			return &lsjam.IOError{Path: path, Err: err}
		}
	}
	if err := w.Flush(); err != nil {
		return &lsjam.IOError{Path: path, Err: err}
	}
	return nil
}

// DriverConfigFromConfig fills an lsjam.DriverConfig from the parsed
// generation.conf, falling back to lsjam's own defaults for any key
// the file omits.
func DriverConfigFromConfig(cfg *Config) lsjam.DriverConfig {
	d := lsjam.DefaultDriverConfig()
	d.InitialGrowthRate = cfg.GetFloat("InitialGrowthRate", d.InitialGrowthRate)
	d.FinalGrowthRate = cfg.GetFloat("FinalGrowthRate", d.FinalGrowthRate)
	d.MaxPressure = cfg.GetFloat("MaxPressure", d.MaxPressure)
	d.Temperature = cfg.GetFloat("Temperature", d.Temperature)
	d.Seed = int64(cfg.GetInt("Seed", int(d.Seed)))
	d.EventsPerParticle = cfg.GetInt("EventsPerParticle", d.EventsPerParticle)
	d.VerletCutoff = cfg.GetFloat("VerletCutoff", d.VerletCutoff)
	d.SuppressGrowth = cfg.GetBool("SuppressGrowth", d.SuppressGrowth)
	return d
}

// ConfigFromDriverConfig is the inverse for the keys
// DriverConfigFromConfig reads (SuppressGrowth included), so a
// DriverConfig can be written out with WriteConfig. Nothing in this
// module calls it during a run.
func ConfigFromDriverConfig(d lsjam.DriverConfig) *Config {
	cfg := NewConfig()
	cfg.Set("InitialGrowthRate", strconv.FormatFloat(d.InitialGrowthRate, 'g', -1, 64))
	cfg.Set("FinalGrowthRate", strconv.FormatFloat(d.FinalGrowthRate, 'g', -1, 64))
	cfg.Set("MaxPressure", strconv.FormatFloat(d.MaxPressure, 'g', -1, 64))
	cfg.Set("Temperature", strconv.FormatFloat(d.Temperature, 'g', -1, 64))
	cfg.Set("Seed", strconv.FormatInt(d.Seed, 10))
	cfg.Set("EventsPerParticle", strconv.Itoa(d.EventsPerParticle))
	cfg.Set("VerletCutoff", strconv.FormatFloat(d.VerletCutoff, 'g', -1, 64))
	cfg.Set("SuppressGrowth", strconv.FormatBool(d.SuppressGrowth))
	return cfg
}
