package sweep

import (
	"context"
	"testing"

	"cleanbots/internal/run"
	"cleanbots/internal/sims/cleaning"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() cleaning.Config {
	cfg := cleaning.DefaultConfig()
	cfg.Width = 8
	cfg.Height = 8
	cfg.DirtyFraction = 0.25
	return cfg
}

func TestRunCoversEveryScenarioInOrder(t *testing.T) {
	plan := Plan{
		AgentCounts: []int{4, 1},
		Seeds:       []int64{3, 1, 2},
		Budget:      run.Budget{MaxTicks: 20000},
		Workers:     3,
	}
	outcomes, err := Run(context.Background(), baseConfig(), plan, zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, outcomes, 6)

	want := []Scenario{{1, 1}, {1, 2}, {1, 3}, {4, 1}, {4, 2}, {4, 3}}
	for i, o := range outcomes {
		assert.Equal(t, want[i], o.Scenario)
		assert.Len(t, o.Moves, o.Agents)
		assert.True(t, o.Result.Clean, "scenario %+v", o.Scenario)

		sum := 0
		for _, mv := range o.Moves {
			sum += mv
		}
		assert.Equal(t, o.Result.TotalMoves, sum)
	}
}

func TestRunIsDeterministic(t *testing.T) {
	plan := Plan{AgentCounts: []int{2, 3}, Seeds: []int64{7, 8}, Budget: run.Budget{MaxTicks: 500}, Workers: 4}
	a, err := Run(context.Background(), baseConfig(), plan, zerolog.Nop())
	require.NoError(t, err)
	b, err := Run(context.Background(), baseConfig(), plan, zerolog.Nop())
	require.NoError(t, err)

	require.Len(t, b, len(a))
	for i := range a {
		assert.Equal(t, a[i].Moves, b[i].Moves)
		assert.Equal(t, a[i].Result.Ticks, b[i].Result.Ticks)
	}
}

func TestRunReportsInvalidScenario(t *testing.T) {
	plan := Plan{AgentCounts: []int{-1}, Seeds: []int64{1}, Budget: run.Budget{MaxTicks: 10}}
	_, err := Run(context.Background(), baseConfig(), plan, zerolog.Nop())
	assert.ErrorIs(t, err, cleaning.ErrInvalidConfiguration)
}

func TestSummarize(t *testing.T) {
	outcomes := []Outcome{
		{Scenario: Scenario{Agents: 2, Seed: 1}, Result: run.Result{Ticks: 10, TotalMoves: 6, Clean: true}, Moves: []int{2, 4}},
		{Scenario: Scenario{Agents: 2, Seed: 2}, Result: run.Result{Ticks: 30, TotalMoves: 10, Clean: false}, Moves: []int{1, 9}},
		{Scenario: Scenario{Agents: 1, Seed: 1}, Result: run.Result{Ticks: 5, TotalMoves: 3, Clean: true}, Moves: []int{3}},
		{Scenario: Scenario{Agents: 0, Seed: 1}, Result: run.Result{Ticks: 0, Clean: true}},
	}

	got := Summarize(outcomes)
	require.Len(t, got, 3)

	assert.Equal(t, Summary{Agents: 0, Runs: 1, CleanRuns: 1}, got[0])
	assert.Equal(t, Summary{
		Agents: 1, Runs: 1, CleanRuns: 1,
		MeanTicks: 5, MeanTotalMoves: 3,
		MinAgentMoves: 3, MeanAgentMoves: 3, MaxAgentMoves: 3,
	}, got[1])
	assert.Equal(t, Summary{
		Agents: 2, Runs: 2, CleanRuns: 1,
		MeanTicks: 20, MeanTotalMoves: 8,
		MinAgentMoves: 1, MeanAgentMoves: 4, MaxAgentMoves: 9,
	}, got[2])
}
