package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cleanbots/internal/config"
	"cleanbots/internal/logging"
	_ "cleanbots/internal/sims/cleaning"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cleanbots",
		Short: "Simulate cleaning agents on a grid of dirty tiles",
		Long: `cleanbots runs a population of cleaning agents over a grid of dirty and
clean tiles until every tile is clean or a budget runs out.

Agents clean the tile they stand on, or wander to a random neighbor when it
is already clean. Every tick is simultaneous: all agents decide from the
same state before any of them commits.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "YAML config file (defaults are used when empty)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")

	rootCmd.AddCommand(
		newRunCmd(),
		newSweepCmd(),
		newParamsCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// loadConfig reads --config when given and applies the global log flag.
func loadConfig(cmd *cobra.Command) (*config.File, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg := config.Default()
	if path != "" {
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return nil, err
		}
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg *config.File) zerolog.Logger {
	lc := logging.DefaultConfig()
	if cfg.Logging.Level != "" {
		lc.Level = cfg.Logging.Level
	}
	lc.Pretty = cfg.Logging.Pretty
	lc.Out = cmd.ErrOrStderr()
	return logging.New(lc)
}
