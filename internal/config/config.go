// Package config loads cleanbots run configuration from YAML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"cleanbots/internal/sims/cleaning"

	"gopkg.in/yaml.v3"
)

// File is the on-disk run configuration.
type File struct {
	// Sim holds the model constructor parameters.
	Sim SimConfig `yaml:"sim"`

	// Budget bounds the run loop.
	Budget BudgetConfig `yaml:"budget"`

	// Logging configures log level and format.
	Logging LoggingConfig `yaml:"logging"`

	// Output selects which run artifacts are written.
	Output OutputConfig `yaml:"output"`
}

// SimConfig mirrors cleaning.Config in a YAML-friendly shape.
type SimConfig struct {
	Agents        int     `yaml:"agents"`
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	DirtyFraction float64 `yaml:"dirty_fraction"`
	Seed          int64   `yaml:"seed"`

	// Edge is "clip" (default) or "wrap".
	Edge string `yaml:"edge,omitempty"`

	// Start is the shared start cell as "x,y". Empty means (1,1).
	Start string `yaml:"start,omitempty"`

	// DirtyCells lists explicit [x, y] dirty cells and overrides DirtyFraction.
	DirtyCells [][2]int `yaml:"dirty_cells,omitempty"`

	Shuffle bool `yaml:"shuffle,omitempty"`
}

// BudgetConfig bounds a run. Zero values mean unlimited.
type BudgetConfig struct {
	MaxTicks    int           `yaml:"max_ticks"`
	MaxDuration time.Duration `yaml:"max_duration"`
}

// LoggingConfig configures the zerolog logger.
type LoggingConfig struct {
	// Level is one of trace, debug, info, warn, error.
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// OutputConfig selects run artifacts.
type OutputConfig struct {
	// Dir receives the artifacts. Empty disables all output.
	Dir string `yaml:"dir,omitempty"`

	Summary bool `yaml:"summary"`
	Moves   bool `yaml:"moves"`
	GIF     bool `yaml:"gif"`

	// GIFScale is the pixel size of one cell.
	GIFScale int `yaml:"gif_scale"`
	// GIFDelay is the frame delay in 100ths of a second.
	GIFDelay int `yaml:"gif_delay"`
}

// Default returns the stock experiment: 10 agents on a
// 100x100 grid with 10% dirt and a half-second wall-clock budget.
func Default() *File {
	sim := cleaning.DefaultConfig()
	return &File{
		Sim: SimConfig{
			Agents:        sim.Agents,
			Width:         sim.Width,
			Height:        sim.Height,
			DirtyFraction: sim.DirtyFraction,
			Seed:          sim.Seed,
			Edge:          sim.Edge.String(),
		},
		Budget: BudgetConfig{
			MaxDuration: 500 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Pretty: true,
		},
		Output: OutputConfig{
			Summary:  true,
			Moves:    true,
			GIF:      false,
			GIFScale: 4,
			GIFDelay: 5,
		},
	}
}

// Load reads a YAML file over the defaults. ${VAR} references are expanded
// from the environment.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Marshal renders the configuration as YAML.
func (f *File) Marshal() ([]byte, error) {
	return yaml.Marshal(f)
}

// Validate checks every section. The error wraps
// cleaning.ErrInvalidConfiguration.
func (f *File) Validate() error {
	var errs []error
	if _, err := f.Cleaning(); err != nil {
		errs = append(errs, err)
	}
	if f.Budget.MaxTicks < 0 {
		errs = append(errs, fmt.Errorf("%w: max_ticks must be non-negative, got %d", cleaning.ErrInvalidConfiguration, f.Budget.MaxTicks))
	}
	if f.Budget.MaxDuration < 0 {
		errs = append(errs, fmt.Errorf("%w: max_duration must be non-negative, got %s", cleaning.ErrInvalidConfiguration, f.Budget.MaxDuration))
	}
	if f.Output.GIF && f.Output.GIFScale <= 0 {
		errs = append(errs, fmt.Errorf("%w: gif_scale must be positive, got %d", cleaning.ErrInvalidConfiguration, f.Output.GIFScale))
	}
	if f.Output.GIFDelay < 0 {
		errs = append(errs, fmt.Errorf("%w: gif_delay must be non-negative, got %d", cleaning.ErrInvalidConfiguration, f.Output.GIFDelay))
	}
	return errors.Join(errs...)
}

// Cleaning converts the sim section into a validated cleaning.Config.
func (f *File) Cleaning() (cleaning.Config, error) {
	edge, err := cleaning.ParseEdgePolicy(f.Sim.Edge)
	if err != nil {
		return cleaning.Config{}, err
	}
	c := cleaning.Config{
		Agents:          f.Sim.Agents,
		Width:           f.Sim.Width,
		Height:          f.Sim.Height,
		DirtyFraction:   f.Sim.DirtyFraction,
		Seed:            f.Sim.Seed,
		Edge:            edge,
		ShuffleSchedule: f.Sim.Shuffle,
	}
	if f.Sim.Start != "" {
		p, err := cleaning.ParsePoint(f.Sim.Start)
		if err != nil {
			return cleaning.Config{}, err
		}
		c.Start = &p
	}
	for _, xy := range f.Sim.DirtyCells {
		c.DirtyCells = append(c.DirtyCells, cleaning.Point{X: xy[0], Y: xy[1]})
	}
	if err := c.Validate(); err != nil {
		return cleaning.Config{}, err
	}
	return c, nil
}
