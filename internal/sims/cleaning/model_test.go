package cleaning

import (
	"slices"
	"testing"

	"cleanbots/internal/core"
	pcore "cleanbots/pkg/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(agents, w, h int, dirty float64, seed int64) Config {
	cfg := DefaultConfig()
	cfg.Agents = agents
	cfg.Width = w
	cfg.Height = h
	cfg.DirtyFraction = dirty
	cfg.Seed = seed
	return cfg
}

func TestNewModelRejectsInvalidConfig(t *testing.T) {
	outside := Point{X: 9, Y: 9}
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative fraction", func(c *Config) { c.DirtyFraction = -0.1 }},
		{"fraction above one", func(c *Config) { c.DirtyFraction = 1.5 }},
		{"negative agents", func(c *Config) { c.Agents = -1 }},
		{"zero width", func(c *Config) { c.Width = 0 }},
		{"negative height", func(c *Config) { c.Height = -3 }},
		{"agents on single cell", func(c *Config) { c.Width, c.Height = 1, 1 }},
		{"start off grid", func(c *Config) { c.Start = &outside }},
		{"dirty cell off grid", func(c *Config) { c.DirtyCells = []Point{{0, 0}, {5, 0}} }},
		{"duplicate dirty cell", func(c *Config) { c.DirtyCells = []Point{{1, 1}, {1, 1}} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(2, 5, 5, 0.2, 1)
			tt.mutate(&cfg)
			m, err := NewModel(cfg)
			require.ErrorIs(t, err, ErrInvalidConfiguration)
			assert.Nil(t, m)
		})
	}
}

func TestSingleCellWithoutAgentsIsValid(t *testing.T) {
	m, err := NewModel(testConfig(0, 1, 1, 1, 1))
	require.NoError(t, err)
	require.NoError(t, m.Tick())
	assert.False(t, m.IsClean())
	assert.Equal(t, Point{0, 0}, m.Config().StartCell())
}

func TestStartCellClampsOnNarrowGrid(t *testing.T) {
	m, err := NewModel(testConfig(3, 1, 5, 0, 1))
	require.NoError(t, err)
	for id := AgentID(0); id < 3; id++ {
		pos, ok := m.AgentPosition(id)
		require.True(t, ok)
		assert.Equal(t, Point{0, 1}, pos)
	}
}

func TestZeroDirtIsCleanBeforeFirstTick(t *testing.T) {
	m, err := NewModel(testConfig(3, 5, 5, 0, 42))
	require.NoError(t, err)
	assert.True(t, m.IsClean())
	assert.Equal(t, 1.0, m.CleanFraction())
	assert.Equal(t, 0, m.Ticks())
}

func TestAllDirtyInitialSnapshot(t *testing.T) {
	hist := NewHistory()
	m, err := NewModel(testConfig(4, 6, 4, 1.0, 7), WithRecorder(hist))
	require.NoError(t, err)
	assert.Equal(t, 0.0, m.CleanFraction())
	assert.Equal(t, 24, m.DirtyCount())

	require.NoError(t, m.Tick())
	require.Len(t, hist.Snapshots(), 1)
	snap := hist.Snapshots()[0]
	start := m.Config().StartCell()
	for y := 0; y < snap.H; y++ {
		for x := 0; x < snap.W; x++ {
			want := uint8(1)
			if (Point{x, y}) == start {
				want = 2
			}
			assert.Equal(t, want, snap.At(x, y), "cell (%d,%d)", x, y)
		}
	}
}

func TestThreeByThreeSingleDirtyTile(t *testing.T) {
	cfg := testConfig(1, 3, 3, 0.12, 5)
	assert.Equal(t, 1, cfg.DirtyCount())

	cfg.DirtyCells = []Point{{2, 2}}
	m, err := NewModel(cfg)
	require.NoError(t, err)

	pos, _ := m.AgentPosition(0)
	assert.Equal(t, Point{1, 1}, pos)
	state, err := m.TileState(Point{2, 2})
	require.NoError(t, err)
	assert.Equal(t, Dirty, state)

	for i := 0; i < 200 && !m.IsClean(); i++ {
		require.NoError(t, m.Tick())
	}
	assert.True(t, m.IsClean())
	// seed 5 walks the agent onto (2,2) in 17 moves and cleans it on tick 18
	assert.Equal(t, 18, m.Ticks())
	assert.Equal(t, 17, m.TotalMoves())
	pos, _ = m.AgentPosition(0)
	assert.Equal(t, Point{2, 2}, pos)
}

func TestAgentOnDirtyStartCleansWithoutMoving(t *testing.T) {
	cfg := testConfig(1, 3, 3, 0, 5)
	cfg.DirtyCells = []Point{{1, 1}}
	m, err := NewModel(cfg)
	require.NoError(t, err)

	require.NoError(t, m.Tick())
	assert.True(t, m.IsClean())
	assert.Equal(t, 0, m.TotalMoves())
	pos, _ := m.AgentPosition(0)
	assert.Equal(t, Point{1, 1}, pos)
}

func TestConservationMonotonicAndMoveAccounting(t *testing.T) {
	for _, edge := range []EdgePolicy{EdgeClip, EdgeWrap} {
		cfg := testConfig(6, 20, 15, 0.3, 99)
		cfg.Edge = edge
		m, err := NewModel(cfg)
		require.NoError(t, err)
		require.NoError(t, m.Audit())

		total := cfg.Width * cfg.Height
		for tick := 0; tick < 300; tick++ {
			beforeDirty := m.DirtyCount()
			beforeTotal := m.TotalMoves()
			beforePos := make([]Point, m.NumAgents())
			beforeMoves := m.Moves()
			for i := range beforePos {
				beforePos[i], _ = m.AgentPosition(AgentID(i))
			}

			require.NoError(t, m.Tick(), "protocol must hold under Tick")
			require.NoError(t, m.Audit())

			assert.Equal(t, total, m.CleanCount()+m.DirtyCount())
			assert.LessOrEqual(t, m.DirtyCount(), beforeDirty)
			assert.GreaterOrEqual(t, m.TotalMoves(), beforeTotal)

			for i, moves := range m.Moves() {
				pos, _ := m.AgentPosition(AgentID(i))
				delta := moves - beforeMoves[i]
				if pos != beforePos[i] {
					assert.Equal(t, 1, delta, "agent %d moved", i)
				} else {
					assert.Equal(t, 0, delta, "agent %d stayed", i)
				}
			}
		}
	}
}

func modelState(t *testing.T, m *Model) ([]uint8, []TileState, []Point) {
	t.Helper()
	var tiles []TileState
	for p := range m.grid.Coordinates() {
		s, err := m.TileState(p)
		require.NoError(t, err)
		tiles = append(tiles, s)
	}
	positions := make([]Point, m.NumAgents())
	for i := range positions {
		positions[i], _ = m.AgentPosition(AgentID(i))
	}
	return slices.Clone(m.Cells()), tiles, positions
}

func TestTickIsOrderIndependent(t *testing.T) {
	cfg := testConfig(12, 10, 10, 0.4, 2024)

	forward, err := NewModel(cfg)
	require.NoError(t, err)
	reversed, err := NewModel(cfg)
	require.NoError(t, err)
	slices.Reverse(reversed.schedule)

	shuffledCfg := cfg
	shuffledCfg.ShuffleSchedule = true
	shuffled, err := NewModel(shuffledCfg)
	require.NoError(t, err)

	for tick := 0; tick < 150; tick++ {
		require.NoError(t, forward.Tick())
		require.NoError(t, reversed.Tick())
		require.NoError(t, shuffled.Tick())

		cells, tiles, positions := modelState(t, forward)
		for _, other := range []*Model{reversed, shuffled} {
			oc, ot, op := modelState(t, other)
			require.Equal(t, cells, oc, "snapshot diverged at tick %d", tick)
			require.Equal(t, tiles, ot, "tiles diverged at tick %d", tick)
			require.Equal(t, positions, op, "positions diverged at tick %d", tick)
		}
		assert.Equal(t, forward.TotalMoves(), reversed.TotalMoves())
		assert.Equal(t, forward.TotalMoves(), shuffled.TotalMoves())
	}
}

func TestSharedDirtyTileCountsOnce(t *testing.T) {
	cfg := testConfig(5, 4, 4, 0, 3)
	cfg.DirtyCells = []Point{{1, 1}}
	m, err := NewModel(cfg)
	require.NoError(t, err)

	require.NoError(t, m.Tick())
	assert.Equal(t, 16, m.CleanCount())
	assert.Equal(t, 0, m.DirtyCount())
	assert.Equal(t, 0, m.TotalMoves(), "every agent stays to clean")
	require.NoError(t, m.Audit())
}

func TestSingleAgentEventuallyCleans(t *testing.T) {
	m, err := NewModel(testConfig(1, 10, 10, 0.1, 31337))
	require.NoError(t, err)

	for i := 0; i < 50000 && !m.IsClean(); i++ {
		require.NoError(t, m.Tick())
	}
	require.True(t, m.IsClean(), "not clean after %d ticks", m.Ticks())
	assert.Equal(t, 1.0, m.CleanFraction())
	assert.Positive(t, m.TotalMoves())
}

func TestHistoryRecordsEveryTick(t *testing.T) {
	hist := NewHistory()
	m, err := NewModel(testConfig(3, 8, 8, 0.25, 12), WithRecorder(hist))
	require.NoError(t, err)

	initial := m.Snapshot()
	for i := 0; i < 25; i++ {
		require.NoError(t, m.Tick())
	}

	require.Len(t, hist.Snapshots(), 25)
	require.Equal(t, 25, hist.Len())
	assert.Equal(t, initial.Cells(), hist.Snapshots()[0].Cells())

	for id := AgentID(0); id < 3; id++ {
		series := hist.AgentSeries(id)
		require.Len(t, series, 25)
		assert.True(t, slices.IsSorted(series), "agent %d series must not decrease", id)
		final, _ := m.AgentMoves(id)
		assert.Equal(t, final, series[len(series)-1])
	}

	require.NoError(t, m.Reset(0))
	assert.Zero(t, hist.Len(), "reset clears recorded history")
}

func TestResetDeterministic(t *testing.T) {
	m, err := NewModel(testConfig(4, 16, 16, 0.3, 77))
	require.NoError(t, err)
	initial := slices.Clone(m.Cells())

	for i := 0; i < 10; i++ {
		require.NoError(t, m.Tick())
	}
	require.NoError(t, m.Reset(0))
	assert.Equal(t, initial, m.Cells())
	assert.Equal(t, 0, m.Ticks())
	assert.Equal(t, 0, m.TotalMoves())

	require.NoError(t, m.Reset(78))
	assert.NotEqual(t, initial, m.Cells())
	assert.Equal(t, int64(78), m.Config().Seed)
}

func TestResetReplaysInjectedSource(t *testing.T) {
	cfg := testConfig(3, 12, 12, 0.4, 1)
	m, err := NewModel(cfg, WithRNG(pcore.NewRNG(99)))
	require.NoError(t, err)

	same, err := NewModel(testConfig(3, 12, 12, 0.4, 99))
	require.NoError(t, err)
	initial := slices.Clone(m.Cells())
	assert.Equal(t, same.Cells(), initial)

	for i := 0; i < 5; i++ {
		require.NoError(t, m.Tick())
	}
	require.NoError(t, m.Reset(0))
	assert.Equal(t, initial, m.Cells())
	assert.Equal(t, int64(99), m.Config().Seed)
}

func TestRegisteredFactory(t *testing.T) {
	factory, ok := core.Sims()["cleaning"]
	require.True(t, ok)

	sim, err := factory(map[string]string{"agents": "2", "w": "7", "h": "5", "dirty": "0.5", "seed": "3"})
	require.NoError(t, err)
	assert.Equal(t, "cleaning", sim.Name())
	assert.Equal(t, core.Size{W: 7, H: 5}, sim.Size())
	assert.Len(t, sim.Cells(), 35)
	require.NoError(t, sim.Step())

	_, err = factory(map[string]string{"dirty": "2"})
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestParametersReportProgress(t *testing.T) {
	m, err := NewModel(testConfig(2, 4, 4, 0.5, 1))
	require.NoError(t, err)
	require.NoError(t, m.Tick())

	snap := m.Parameters()
	p, ok := snap.Lookup("tick")
	require.True(t, ok)
	assert.Equal(t, "1", p.Value)
	p, ok = snap.Lookup("dirty_count")
	require.True(t, ok)
	assert.Equal(t, "8", p.Value)
}
