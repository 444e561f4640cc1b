package cleaning

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// EdgePolicy selects how neighborhoods behave at the grid border.
type EdgePolicy uint8

const (
	// EdgeClip drops neighbors that fall outside the grid.
	EdgeClip EdgePolicy = iota
	// EdgeWrap treats the grid as a torus.
	EdgeWrap
)

func (p EdgePolicy) String() string {
	switch p {
	case EdgeWrap:
		return "wrap"
	default:
		return "clip"
	}
}

// ParseEdgePolicy maps "clip" or "wrap" to an EdgePolicy.
func ParseEdgePolicy(s string) (EdgePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "clip":
		return EdgeClip, nil
	case "wrap", "torus":
		return EdgeWrap, nil
	}
	return EdgeClip, fmt.Errorf("unknown edge policy %q: %w", s, ErrInvalidConfiguration)
}

// Config controls the cleaning simulation.
type Config struct {
	Agents        int
	Width         int
	Height        int
	DirtyFraction float64

	Seed int64

	Edge EdgePolicy

	// Start is the shared start cell for every agent. When nil the agents
	// start at (1,1), clamped into the grid.
	Start *Point

	// DirtyCells, when non-empty, replaces the random dirty placement.
	DirtyCells []Point

	// ShuffleSchedule randomizes activation order every tick. Simultaneous
	// activation makes the outcome independent of it.
	ShuffleSchedule bool
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Agents:        10,
		Width:         100,
		Height:        100,
		DirtyFraction: 0.1,
		Seed:          1337,
	}
}

// StartCell returns the cell every agent is placed on.
func (c Config) StartCell() Point {
	if c.Start != nil {
		return *c.Start
	}
	return Point{X: min(1, c.Width-1), Y: min(1, c.Height-1)}
}

// DirtyCount returns the number of tiles that start dirty: len(DirtyCells)
// when set, otherwise int(float64(W*H) * DirtyFraction). The float product is
// truncated, not rounded, so fractions without an exact binary form can land
// one short (10x10 at 0.29 gives 28).
func (c Config) DirtyCount() int {
	if len(c.DirtyCells) > 0 {
		return len(c.DirtyCells)
	}
	total := c.Width * c.Height
	n := int(float64(total) * c.DirtyFraction)
	if n > total {
		n = total
	}
	return n
}

// Validate reports every problem with the configuration. The returned error
// wraps ErrInvalidConfiguration.
func (c Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("grid dimensions must be positive, got %dx%d", c.Width, c.Height))
	}
	if c.Agents < 0 {
		errs = append(errs, fmt.Errorf("agent count must be non-negative, got %d", c.Agents))
	}
	if c.DirtyFraction < 0 || c.DirtyFraction > 1 || c.DirtyFraction != c.DirtyFraction {
		errs = append(errs, fmt.Errorf("dirty fraction must be within [0,1], got %v", c.DirtyFraction))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfiguration, errors.Join(errs...))
	}

	if c.Agents > 0 && c.Width*c.Height == 1 {
		errs = append(errs, errors.New("agents on a 1x1 grid have no neighbor to move to"))
	}
	start := c.StartCell()
	if !inBounds(start, c.Width, c.Height) {
		errs = append(errs, fmt.Errorf("start cell %v outside %dx%d grid", start, c.Width, c.Height))
	}
	seen := make(map[Point]bool, len(c.DirtyCells))
	for _, p := range c.DirtyCells {
		if !inBounds(p, c.Width, c.Height) {
			errs = append(errs, fmt.Errorf("dirty cell %v outside %dx%d grid", p, c.Width, c.Height))
			continue
		}
		if seen[p] {
			errs = append(errs, fmt.Errorf("dirty cell %v listed twice", p))
		}
		seen[p] = true
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfiguration, errors.Join(errs...))
	}
	return nil
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) (Config, error) {
	c := DefaultConfig()
	if cfg == nil {
		return c, nil
	}
	if v, ok := cfg["agents"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Agents = parsed
		}
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Height = parsed
		}
	}
	if v, ok := cfg["dirty"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.DirtyFraction = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["edge"]; ok {
		edge, err := ParseEdgePolicy(v)
		if err != nil {
			return c, err
		}
		c.Edge = edge
	}
	if v, ok := cfg["shuffle"]; ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			c.ShuffleSchedule = parsed
		}
	}
	if v, ok := cfg["start"]; ok {
		p, err := ParsePoint(v)
		if err != nil {
			return c, err
		}
		c.Start = &p
	}
	return c, c.Validate()
}

// ParsePoint parses "x,y".
func ParsePoint(s string) (Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Point{}, fmt.Errorf("point %q must be x,y: %w", s, ErrInvalidConfiguration)
	}
	x, errX := strconv.Atoi(strings.TrimSpace(parts[0]))
	y, errY := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errX != nil || errY != nil {
		return Point{}, fmt.Errorf("point %q must be integers: %w", s, ErrInvalidConfiguration)
	}
	return Point{X: x, Y: y}, nil
}
