package main

import (
	"encoding/json"
	"fmt"
	"time"

	"cleanbots/internal/config"
	"cleanbots/internal/report"
	"cleanbots/internal/run"
	"cleanbots/internal/sims/cleaning"

	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one simulation until the grid is clean or the budget is spent",
		Example: `  cleanbots run
  cleanbots run --agents 4 --width 20 --height 20 --dirty 0.3 --max-ticks 5000
  cleanbots run --config run.yaml --out out/ --gif`,
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
			return runOnce(cmd, cfg)
		},
	}

	cmd.Flags().Int("agents", 0, "number of agents")
	cmd.Flags().Int("width", 0, "grid width")
	cmd.Flags().Int("height", 0, "grid height")
	cmd.Flags().Float64("dirty", 0, "initial dirty fraction in [0,1]")
	cmd.Flags().Int64("seed", 0, "random seed")
	cmd.Flags().String("edge", "", "edge policy: clip or wrap")
	cmd.Flags().String("start", "", "agent start cell as x,y")
	cmd.Flags().Bool("shuffle", false, "shuffle activation order every tick")
	cmd.Flags().Int("max-ticks", 0, "tick ceiling (0 = unlimited)")
	cmd.Flags().Duration("max-duration", 0, "wall-clock ceiling (0 = unlimited)")
	cmd.Flags().String("out", "", "directory for run artifacts")
	cmd.Flags().Bool("gif", false, "write grid.gif to the output directory")
	cmd.Flags().Bool("no-moves", false, "skip moves.csv")

	return cmd
}

// applyRunFlags overlays explicitly set flags onto cfg.
func applyRunFlags(cmd *cobra.Command, cfg *config.File) error {
	f := cmd.Flags()
	// sweep reuses the name for a list of counts
	if fl := f.Lookup("agents"); fl != nil && fl.Changed && fl.Value.Type() == "int" {
		cfg.Sim.Agents, _ = f.GetInt("agents")
	}
	if f.Changed("width") {
		cfg.Sim.Width, _ = f.GetInt("width")
	}
	if f.Changed("height") {
		cfg.Sim.Height, _ = f.GetInt("height")
	}
	if f.Changed("dirty") {
		cfg.Sim.DirtyFraction, _ = f.GetFloat64("dirty")
	}
	if f.Changed("seed") {
		cfg.Sim.Seed, _ = f.GetInt64("seed")
	}
	if f.Changed("edge") {
		cfg.Sim.Edge, _ = f.GetString("edge")
	}
	if f.Changed("start") {
		cfg.Sim.Start, _ = f.GetString("start")
	}
	if f.Changed("shuffle") {
		cfg.Sim.Shuffle, _ = f.GetBool("shuffle")
	}
	if f.Changed("max-ticks") {
		cfg.Budget.MaxTicks, _ = f.GetInt("max-ticks")
	}
	if f.Changed("max-duration") {
		cfg.Budget.MaxDuration, _ = f.GetDuration("max-duration")
	}
	if f.Changed("out") {
		cfg.Output.Dir, _ = f.GetString("out")
	}
	if f.Changed("gif") {
		cfg.Output.GIF, _ = f.GetBool("gif")
	}
	if noMoves, _ := f.GetBool("no-moves"); noMoves {
		cfg.Output.Moves = false
	}
	if cfg.Output.GIF && cfg.Output.Dir == "" {
		return fmt.Errorf("--gif needs an output directory (--out or output.dir)")
	}
	return nil
}

type runReport struct {
	RunID  string     `json:"run_id,omitempty"`
	Result run.Result `json:"result"`
	Moves  []int      `json:"agent_moves"`
}

func runOnce(cmd *cobra.Command, cfg *config.File) error {
	log := newLogger(cmd, cfg)

	simCfg, err := cfg.Cleaning()
	if err != nil {
		return err
	}

	var writer *report.Writer
	if cfg.Output.Dir != "" {
		writer, err = report.NewWriter(cfg.Output.Dir)
		if err != nil {
			return err
		}
		log = log.With().Str("run_id", writer.RunID.String()).Logger()
	}

	opts := []cleaning.Option{cleaning.WithLogger(log)}
	var hist *cleaning.History
	if writer != nil && (cfg.Output.Moves || cfg.Output.GIF) {
		hist = cleaning.NewHistory()
		opts = append(opts, cleaning.WithRecorder(hist))
	}

	model, err := cleaning.NewModel(simCfg, opts...)
	if err != nil {
		return err
	}

	runner := run.New(run.Budget{MaxTicks: cfg.Budget.MaxTicks, MaxDuration: cfg.Budget.MaxDuration}, log)
	res, err := runner.Run(cmd.Context(), model)
	if err != nil {
		return err
	}

	if writer != nil {
		if err := writeArtifacts(writer, cfg, model, hist, res); err != nil {
			return err
		}
		log.Info().Str("dir", writer.Dir).Msg("artifacts written")
	}

	out := cmd.OutOrStdout()
	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		rep := runReport{Result: res, Moves: model.Moves()}
		if writer != nil {
			rep.RunID = writer.RunID.String()
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}

	fmt.Fprintf(out, "Execution time: %s\n", res.Elapsed.Round(time.Microsecond))
	fmt.Fprintf(out, "Ticks: %d (%s)\n", res.Ticks, res.Reason)
	fmt.Fprintf(out, "Clean percentage: %.2f%%\n", res.CleanFraction*100)
	fmt.Fprintf(out, "Total moves: %d\n", res.TotalMoves)
	return nil
}

func writeArtifacts(w *report.Writer, cfg *config.File, m *cleaning.Model, hist *cleaning.History, res run.Result) error {
	snapshots := 0
	if hist != nil {
		snapshots = len(hist.Snapshots())
	}
	if cfg.Output.Summary {
		if err := w.WriteSummary(m.Name(), cfg.Sim, res, m.Moves(), snapshots); err != nil {
			return err
		}
	}
	if hist == nil {
		return nil
	}
	if cfg.Output.Moves {
		if err := w.WriteMoves(hist.MoveSeries()); err != nil {
			return err
		}
	}
	if cfg.Output.GIF {
		// the final state has no tick of its own, so append it as the last frame
		frames := append(hist.Snapshots()[:len(hist.Snapshots()):len(hist.Snapshots())], m.Snapshot())
		if err := w.WriteGIF(frames, m.Palette(), cfg.Output.GIFScale, cfg.Output.GIFDelay); err != nil {
			return err
		}
	}
	return nil
}
