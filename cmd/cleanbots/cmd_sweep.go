package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"cleanbots/internal/run"
	"cleanbots/internal/sweep"

	"github.com/spf13/cobra"
)

func newSweepCmd() *cobra.Command {
	var (
		agents  []int
		seeds   []int64
		workers int
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run many seeds for several agent counts in parallel",
		Long: `Run every agent count with every seed on top of the configured grid and
print per-agent move statistics for each agent count.`,
		Example: `  cleanbots sweep --agents 1,2,4,8 --seeds 1,2,3,4,5
  cleanbots sweep --agents 10 --seeds 1,2,3 --max-ticks 20000 --workers 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := applyRunFlags(cmd, cfg); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			base, err := cfg.Cleaning()
			if err != nil {
				return err
			}
			if len(agents) == 0 {
				agents = []int{base.Agents}
			}
			if len(seeds) == 0 {
				seeds = []int64{base.Seed}
			}

			log := newLogger(cmd, cfg)
			plan := sweep.Plan{
				AgentCounts: agents,
				Seeds:       seeds,
				Budget:      run.Budget{MaxTicks: cfg.Budget.MaxTicks, MaxDuration: cfg.Budget.MaxDuration},
				Workers:     workers,
			}
			outcomes, err := sweep.Run(cmd.Context(), base, plan, log)
			if err != nil {
				return err
			}
			summaries := sweep.Summarize(outcomes)

			out := cmd.OutOrStdout()
			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(summaries)
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "agents\truns\tclean\tmean ticks\tmean moves\tmin/agent\tmean/agent\tmax/agent\t")
			for _, s := range summaries {
				fmt.Fprintf(tw, "%d\t%d\t%d\t%.1f\t%.1f\t%d\t%.1f\t%d\t\n",
					s.Agents, s.Runs, s.CleanRuns, s.MeanTicks, s.MeanTotalMoves,
					s.MinAgentMoves, s.MeanAgentMoves, s.MaxAgentMoves)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().IntSliceVar(&agents, "agents", nil, "agent counts to sweep (comma separated)")
	cmd.Flags().Int64SliceVar(&seeds, "seeds", nil, "seeds to run for every agent count")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel runs (0 = one per CPU)")
	cmd.Flags().Int("width", 0, "grid width")
	cmd.Flags().Int("height", 0, "grid height")
	cmd.Flags().Float64("dirty", 0, "initial dirty fraction in [0,1]")
	cmd.Flags().String("edge", "", "edge policy: clip or wrap")
	cmd.Flags().String("start", "", "agent start cell as x,y")
	cmd.Flags().Bool("shuffle", false, "shuffle activation order every tick")
	cmd.Flags().Int("max-ticks", 0, "tick ceiling per run (0 = unlimited)")
	cmd.Flags().Duration("max-duration", 0, "wall-clock ceiling per run (0 = unlimited)")

	return cmd
}
