package cleaning

import (
	"fmt"

	"cleanbots/internal/core"
	pcore "cleanbots/pkg/core"

	"github.com/rs/zerolog"
)

// Model owns the grid, tiles and agents of one run and drives the two-phase
// tick. It is not safe for concurrent use.
type Model struct {
	cfg Config

	grid   *Grid
	tiles  []*Tile
	agents []*Agent

	// schedule is the decide/commit order.
	schedule []AgentID

	clean      int
	dirty      int
	totalMoves int
	tick       int

	display *core.ByteGrid

	rng      *pcore.RNG
	recorder Recorder
	log      zerolog.Logger
}

// Option customizes a Model.
type Option func(*Model)

// WithRecorder attaches a per-tick recorder.
func WithRecorder(r Recorder) Option {
	return func(m *Model) { m.recorder = r }
}

// WithLogger sets the logger used during construction.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Model) { m.log = l }
}

// WithRNG replaces the seeded source derived from Config.Seed. Agent streams
// are derived from its seed.
func WithRNG(r *pcore.RNG) Option {
	return func(m *Model) {
		if r != nil {
			m.rng = r
		}
	}
}

// NewModel validates cfg and builds a fully initialized model.
func NewModel(cfg Config, opts ...Option) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := &Model{cfg: cfg, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(m)
	}
	if m.rng == nil {
		m.rng = pcore.NewRNG(cfg.Seed)
	}
	if err := m.build(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Model) build() error {
	cfg := m.cfg
	grid, err := NewGrid(cfg.Width, cfg.Height, cfg.Edge)
	if err != nil {
		return err
	}
	total := m.Size().Cells()

	dirtyIdx := make([]bool, total)
	if len(cfg.DirtyCells) > 0 {
		for _, p := range cfg.DirtyCells {
			dirtyIdx[grid.index(p)] = true
		}
	} else {
		for _, i := range m.rng.Sample(total, cfg.DirtyCount()) {
			dirtyIdx[i] = true
		}
	}

	tiles := make([]*Tile, 0, total)
	dirty := 0
	for p := range grid.Coordinates() {
		state := Clean
		if dirtyIdx[grid.index(p)] {
			state = Dirty
			dirty++
		}
		t := newTile(state)
		if err := grid.PlaceTile(t, p); err != nil {
			return err
		}
		tiles = append(tiles, t)
	}

	start := cfg.StartCell()
	agents := make([]*Agent, cfg.Agents)
	schedule := make([]AgentID, cfg.Agents)
	for i := range agents {
		a := newAgent(AgentID(i), m.rng.Stream(uint64(i)+1))
		if err := grid.PlaceAgent(a, start); err != nil {
			return err
		}
		agents[i] = a
		schedule[i] = a.id
	}

	m.grid = grid
	m.tiles = tiles
	m.agents = agents
	m.schedule = schedule
	m.dirty = dirty
	m.clean = total - dirty
	m.totalMoves = 0
	m.tick = 0
	m.display = core.NewByteGrid(cfg.Width, cfg.Height)
	m.rebuildDisplay()

	m.log.Debug().
		Int("agents", cfg.Agents).
		Int("width", cfg.Width).
		Int("height", cfg.Height).
		Int("dirty", dirty).
		Int64("seed", m.rng.Seed()).
		Stringer("start", start).
		Stringer("edge", cfg.Edge).
		Msg("cleaning model initialized")
	return nil
}

// Tick runs one simultaneous-activation step: every agent decides against the
// state at the start of the tick, then every agent commits in the same order.
func (m *Model) Tick() error {
	if m.recorder != nil {
		m.recorder.RecordSnapshot(m.tick, m.display.Clone())
	}
	if m.cfg.ShuffleSchedule {
		m.rng.Shuffle(len(m.schedule), func(i, j int) {
			m.schedule[i], m.schedule[j] = m.schedule[j], m.schedule[i]
		})
	}

	for _, id := range m.schedule {
		if err := m.agents[id].decide(m.grid, m.tick); err != nil {
			return fmt.Errorf("tick %d: decide: %w", m.tick, err)
		}
	}
	for _, id := range m.schedule {
		res, err := m.agents[id].advance(m.grid, m.tick)
		if err != nil {
			return fmt.Errorf("tick %d: commit: %w", m.tick, err)
		}
		if res.cleaned {
			m.clean++
			m.dirty--
		}
		if res.moved {
			m.totalMoves++
		}
	}

	m.rebuildDisplay()
	if m.recorder != nil {
		moves := make([]int, len(m.agents))
		for i, a := range m.agents {
			moves[i] = a.moves
		}
		m.recorder.RecordMoves(m.tick, moves)
	}
	m.tick++
	return nil
}

func (m *Model) rebuildDisplay() {
	cells := m.display.Cells()
	for p := range m.grid.Coordinates() {
		cells[m.grid.index(p)] = m.grid.renderValue(p)
	}
}

// Config returns the configuration the model was built from.
func (m *Model) Config() Config { return m.cfg }

// Ticks returns the number of completed ticks.
func (m *Model) Ticks() int { return m.tick }

// CleanCount returns the number of clean tiles.
func (m *Model) CleanCount() int { return m.clean }

// DirtyCount returns the number of dirty tiles.
func (m *Model) DirtyCount() int { return m.dirty }

// IsClean reports whether every tile is clean.
func (m *Model) IsClean() bool { return m.clean == m.Size().Cells() }

// CleanFraction returns the share of clean tiles in [0,1].
func (m *Model) CleanFraction() float64 {
	return float64(m.clean) / float64(m.Size().Cells())
}

// TotalMoves returns the sum of every agent's move count.
func (m *Model) TotalMoves() int { return m.totalMoves }

// NumAgents returns the agent count.
func (m *Model) NumAgents() int { return len(m.agents) }

// AgentMoves returns the move count of agent id.
func (m *Model) AgentMoves(id AgentID) (int, bool) {
	if id < 0 || int(id) >= len(m.agents) {
		return 0, false
	}
	return m.agents[id].moves, true
}

// AgentPosition returns the committed position of agent id.
func (m *Model) AgentPosition(id AgentID) (Point, bool) {
	if id < 0 || int(id) >= len(m.agents) {
		return Point{}, false
	}
	return m.agents[id].pos, true
}

// Moves returns the move count of every agent indexed by AgentID.
func (m *Model) Moves() []int {
	out := make([]int, len(m.agents))
	for i, a := range m.agents {
		out[i] = a.moves
	}
	return out
}

// TileState returns the published state of the tile at p.
func (m *Model) TileState(p Point) (TileState, error) {
	t, err := m.grid.TileAt(p)
	if err != nil {
		return Clean, err
	}
	return t.state, nil
}

// Snapshot returns a copy of the current render matrix.
func (m *Model) Snapshot() *core.ByteGrid { return m.display.Clone() }

// Audit rescans the grid and checks the counters and agent occupancy.
func (m *Model) Audit() error {
	total := m.Size().Cells()
	clean, dirty, placed := 0, 0, 0
	for p := range m.grid.Coordinates() {
		tile, agents, err := m.grid.OccupantsAt(p)
		if err != nil {
			return err
		}
		if tile == nil {
			return fmt.Errorf("audit: cell %v has no tile", p)
		}
		if tile.state == Dirty {
			dirty++
		} else {
			clean++
		}
		for _, a := range agents {
			if a.pos != p {
				return fmt.Errorf("audit: agent %d recorded at %v but positioned at %v", a.id, p, a.pos)
			}
		}
		placed += len(agents)
	}
	if clean+dirty != total {
		return fmt.Errorf("audit: %d clean + %d dirty != %d cells", clean, dirty, total)
	}
	if clean != m.clean || dirty != m.dirty {
		return fmt.Errorf("audit: counters clean=%d dirty=%d, grid has clean=%d dirty=%d", m.clean, m.dirty, clean, dirty)
	}
	if placed != len(m.agents) {
		return fmt.Errorf("audit: %d agent records on grid for %d agents", placed, len(m.agents))
	}
	sum := 0
	for _, a := range m.agents {
		sum += a.moves
	}
	if sum != m.totalMoves {
		return fmt.Errorf("audit: move counter %d, agents sum to %d", m.totalMoves, sum)
	}
	return nil
}

// Name returns the simulation identifier.
func (m *Model) Name() string { return "cleaning" }

// Size reports the grid dimensions.
func (m *Model) Size() core.Size { return core.Size{W: m.cfg.Width, H: m.cfg.Height} }

// Cells exposes the current render buffer.
func (m *Model) Cells() []uint8 { return m.display.Cells() }

// Step advances the model by one tick.
func (m *Model) Step() error { return m.Tick() }

// Done reports whether the grid is fully clean.
func (m *Model) Done() bool { return m.IsClean() }

// Reset rebuilds the model from a fresh NewRNG(seed). A zero seed reuses the
// seed of the current source, which is the WithRNG source's seed when one was
// injected, so Reset(0) replays the run the model was built with. Seed 0
// itself can only be chosen through NewModel. Config().Seed reports the seed
// in use afterwards.
func (m *Model) Reset(seed int64) error {
	if seed == 0 {
		seed = m.rng.Seed()
	}
	m.cfg.Seed = seed
	m.rng = pcore.NewRNG(seed)
	if c, ok := m.recorder.(interface{ Clear() }); ok {
		c.Clear()
	}
	return m.build()
}

func init() {
	core.Register("cleaning", func(cfg map[string]string) (core.Sim, error) {
		c, err := FromMap(cfg)
		if err != nil {
			return nil, err
		}
		return NewModel(c)
	})
}
