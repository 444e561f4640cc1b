// Package sweep runs batches of independent cleaning models in parallel and
// aggregates their move statistics.
package sweep

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"cleanbots/internal/run"
	"cleanbots/internal/sims/cleaning"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Plan lists the scenarios of a sweep. Every agent count is run with every
// seed.
type Plan struct {
	AgentCounts []int
	Seeds       []int64
	Budget      run.Budget
	Workers     int
}

// Scenario identifies one run.
type Scenario struct {
	Agents int
	Seed   int64
}

// Outcome is the result of one scenario.
type Outcome struct {
	Scenario
	Result run.Result
	// Moves holds the final move count of every agent.
	Moves []int
}

// Run executes the plan on top of base. Each worker builds its own model, so
// no state is shared between goroutines. Outcomes are sorted by agent count
// then seed.
func Run(ctx context.Context, base cleaning.Config, plan Plan, log zerolog.Logger) ([]Outcome, error) {
	workers := plan.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var scenarios []Scenario
	for _, agents := range plan.AgentCounts {
		for _, seed := range plan.Seeds {
			scenarios = append(scenarios, Scenario{Agents: agents, Seed: seed})
		}
	}
	log.Info().
		Int("scenarios", len(scenarios)).
		Int("workers", workers).
		Msg("sweep starting")

	var (
		mu       sync.Mutex
		outcomes = make([]Outcome, 0, len(scenarios))
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, sc := range scenarios {
		g.Go(func() error {
			out, err := runScenario(ctx, base, sc, plan.Budget)
			if err != nil {
				return fmt.Errorf("agents=%d seed=%d: %w", sc.Agents, sc.Seed, err)
			}
			log.Debug().
				Int("agents", sc.Agents).
				Int64("seed", sc.Seed).
				Int("ticks", out.Result.Ticks).
				Str("reason", string(out.Result.Reason)).
				Msg("scenario finished")

			mu.Lock()
			outcomes = append(outcomes, out)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(outcomes, func(i, j int) bool {
		if outcomes[i].Agents != outcomes[j].Agents {
			return outcomes[i].Agents < outcomes[j].Agents
		}
		return outcomes[i].Seed < outcomes[j].Seed
	})
	return outcomes, nil
}

func runScenario(ctx context.Context, base cleaning.Config, sc Scenario, budget run.Budget) (Outcome, error) {
	cfg := base
	cfg.Agents = sc.Agents
	cfg.Seed = sc.Seed

	m, err := cleaning.NewModel(cfg)
	if err != nil {
		return Outcome{}, err
	}
	r := run.New(budget, zerolog.Nop())
	r.ProgressEvery = 0
	res, err := r.Run(ctx, m)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Scenario: sc, Result: res, Moves: m.Moves()}, nil
}

// Summary aggregates the outcomes that share an agent count.
type Summary struct {
	Agents    int
	Runs      int
	CleanRuns int

	MeanTicks      float64
	MeanTotalMoves float64

	// Per-agent final move counts across every run.
	MinAgentMoves  int
	MeanAgentMoves float64
	MaxAgentMoves  int
}

// Summarize groups outcomes by agent count, ordered by agent count.
func Summarize(outcomes []Outcome) []Summary {
	byAgents := map[int]*Summary{}
	agentSamples := map[int]int{}
	agentTotal := map[int]int{}

	for _, o := range outcomes {
		s, ok := byAgents[o.Agents]
		if !ok {
			s = &Summary{Agents: o.Agents, MinAgentMoves: -1}
			byAgents[o.Agents] = s
		}
		s.Runs++
		if o.Result.Clean {
			s.CleanRuns++
		}
		s.MeanTicks += float64(o.Result.Ticks)
		s.MeanTotalMoves += float64(o.Result.TotalMoves)
		for _, mv := range o.Moves {
			if s.MinAgentMoves < 0 || mv < s.MinAgentMoves {
				s.MinAgentMoves = mv
			}
			if mv > s.MaxAgentMoves {
				s.MaxAgentMoves = mv
			}
			agentTotal[o.Agents] += mv
			agentSamples[o.Agents]++
		}
	}

	out := make([]Summary, 0, len(byAgents))
	for agents, s := range byAgents {
		s.MeanTicks /= float64(s.Runs)
		s.MeanTotalMoves /= float64(s.Runs)
		if n := agentSamples[agents]; n > 0 {
			s.MeanAgentMoves = float64(agentTotal[agents]) / float64(n)
		}
		if s.MinAgentMoves < 0 {
			s.MinAgentMoves = 0
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Agents < out[j].Agents })
	return out
}
