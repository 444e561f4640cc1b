// Package run drives a model until it is clean or a budget runs out.
package run

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Model is the part of the cleaning model the run loop needs.
type Model interface {
	Tick() error
	IsClean() bool
	Ticks() int
	CleanFraction() float64
	TotalMoves() int
}

// StopReason says why a run ended.
type StopReason string

const (
	StopClean      StopReason = "clean"
	StopTickBudget StopReason = "tick_budget"
	StopTimeBudget StopReason = "time_budget"
	StopCanceled   StopReason = "canceled"
	// StopError marks a run cut short by a failing tick. Run also returns the
	// error.
	StopError StopReason = "error"
)

// Budget bounds a run. Zero fields are unlimited.
type Budget struct {
	MaxTicks    int
	MaxDuration time.Duration
}

// Result is what a finished run reports.
type Result struct {
	Ticks         int           `yaml:"ticks"`
	Clean         bool          `yaml:"clean"`
	CleanFraction float64       `yaml:"clean_fraction"`
	TotalMoves    int           `yaml:"total_moves"`
	Elapsed       time.Duration `yaml:"elapsed"`
	Reason        StopReason    `yaml:"reason"`
}

// Runner ticks a model under a budget.
type Runner struct {
	Budget Budget

	// ProgressEvery logs a debug line every n ticks. Zero disables it.
	ProgressEvery int

	Log zerolog.Logger
	Now func() time.Time
}

// New returns a Runner with the given budget and logger.
func New(b Budget, log zerolog.Logger) *Runner {
	return &Runner{Budget: b, ProgressEvery: 1000, Log: log, Now: time.Now}
}

// Run calls Tick until the model is clean, a budget is exhausted or ctx is
// done. Budgets are checked between ticks, so a tick is never cut short.
func (r *Runner) Run(ctx context.Context, m Model) (Result, error) {
	now := r.Now
	if now == nil {
		now = time.Now
	}
	start := now()
	startTicks := m.Ticks()

	var reason StopReason
	for {
		if m.IsClean() {
			reason = StopClean
			break
		}
		if r.Budget.MaxTicks > 0 && m.Ticks()-startTicks >= r.Budget.MaxTicks {
			reason = StopTickBudget
			break
		}
		if r.Budget.MaxDuration > 0 && now().Sub(start) >= r.Budget.MaxDuration {
			reason = StopTimeBudget
			break
		}
		if ctx.Err() != nil {
			reason = StopCanceled
			break
		}

		if err := m.Tick(); err != nil {
			r.Log.Error().Err(err).Int("tick", m.Ticks()).Msg("run failed")
			return r.result(m, start, StopError), err
		}
		if r.ProgressEvery > 0 && m.Ticks()%r.ProgressEvery == 0 {
			r.Log.Debug().
				Int("tick", m.Ticks()).
				Float64("clean_fraction", m.CleanFraction()).
				Int("total_moves", m.TotalMoves()).
				Msg("progress")
		}
	}

	res := r.result(m, start, reason)
	r.Log.Info().
		Str("reason", string(res.Reason)).
		Int("ticks", res.Ticks).
		Float64("clean_fraction", res.CleanFraction).
		Int("total_moves", res.TotalMoves).
		Dur("elapsed", res.Elapsed).
		Msg("run finished")
	return res, nil
}

func (r *Runner) result(m Model, start time.Time, reason StopReason) Result {
	now := r.Now
	if now == nil {
		now = time.Now
	}
	return Result{
		Ticks:         m.Ticks(),
		Clean:         m.IsClean(),
		CleanFraction: m.CleanFraction(),
		TotalMoves:    m.TotalMoves(),
		Elapsed:       now().Sub(start),
		Reason:        reason,
	}
}
