package run

import (
	"context"
	"errors"
	"testing"
	"time"

	"cleanbots/internal/sims/cleaning"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newModel(t *testing.T, agents, w, h int, dirty float64) *cleaning.Model {
	t.Helper()
	cfg := cleaning.DefaultConfig()
	cfg.Agents = agents
	cfg.Width = w
	cfg.Height = h
	cfg.DirtyFraction = dirty
	cfg.Seed = 5
	m, err := cleaning.NewModel(cfg)
	require.NoError(t, err)
	return m
}

func TestRunStopsWhenClean(t *testing.T) {
	m := newModel(t, 4, 6, 6, 0.3)
	res, err := New(Budget{MaxTicks: 100000}, zerolog.Nop()).Run(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, StopClean, res.Reason)
	assert.True(t, res.Clean)
	assert.Equal(t, 1.0, res.CleanFraction)
	assert.Equal(t, m.Ticks(), res.Ticks)
	assert.Equal(t, m.TotalMoves(), res.TotalMoves)
}

func TestRunAlreadyClean(t *testing.T) {
	m := newModel(t, 2, 5, 5, 0)
	res, err := New(Budget{}, zerolog.Nop()).Run(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, StopClean, res.Reason)
	assert.Zero(t, res.Ticks)
}

func TestRunTickBudget(t *testing.T) {
	m := newModel(t, 0, 5, 5, 0.5)
	res, err := New(Budget{MaxTicks: 17}, zerolog.Nop()).Run(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, StopTickBudget, res.Reason)
	assert.Equal(t, 17, res.Ticks)
	assert.False(t, res.Clean)
}

func TestRunTimeBudget(t *testing.T) {
	m := newModel(t, 0, 5, 5, 0.5)
	clock := time.Unix(0, 0)
	r := New(Budget{MaxDuration: time.Second}, zerolog.Nop())
	r.Now = func() time.Time {
		clock = clock.Add(100 * time.Millisecond)
		return clock
	}

	res, err := r.Run(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, StopTimeBudget, res.Reason)
	assert.Positive(t, res.Ticks)
	assert.Less(t, res.Ticks, 20)
}

func TestRunCanceled(t *testing.T) {
	m := newModel(t, 1, 5, 5, 0.5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := New(Budget{}, zerolog.Nop()).Run(ctx, m)
	require.NoError(t, err)
	assert.Equal(t, StopCanceled, res.Reason)
	assert.Zero(t, res.Ticks)
}

type failingModel struct{ ticks int }

func (f *failingModel) Tick() error {
	f.ticks++
	if f.ticks == 3 {
		return cleaning.ErrProtocolViolation
	}
	return nil
}
func (f *failingModel) IsClean() bool          { return false }
func (f *failingModel) Ticks() int             { return f.ticks }
func (f *failingModel) CleanFraction() float64 { return 0 }
func (f *failingModel) TotalMoves() int        { return 0 }

func TestRunPropagatesTickError(t *testing.T) {
	res, err := New(Budget{MaxTicks: 10}, zerolog.Nop()).Run(context.Background(), &failingModel{})
	require.True(t, errors.Is(err, cleaning.ErrProtocolViolation))
	assert.Equal(t, 3, res.Ticks)
	assert.Equal(t, StopError, res.Reason)
	assert.False(t, res.Clean)
}
