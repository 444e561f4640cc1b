package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"cleanbots/internal/app"
	"cleanbots/internal/core"

	"github.com/spf13/cobra"
)

func newParamsCmd() *cobra.Command {
	var (
		simName string
		sets    []string
	)

	cmd := &cobra.Command{
		Use:   "params",
		Short: "Describe the parameters of a registered sim",
		Example: `  cleanbots params
  cleanbots params --set agents=4 --set edge=wrap --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			factory, ok := core.Sims()[simName]
			if !ok {
				return fmt.Errorf("unknown sim %q (available: %s)", simName, strings.Join(core.SimNames(), ", "))
			}
			var pairs app.KVList
			for _, kv := range sets {
				if err := pairs.Set(kv); err != nil {
					return err
				}
			}
			sim, err := factory(pairs.Map())
			if err != nil {
				return err
			}
			provider, ok := sim.(core.ParameterProvider)
			if !ok {
				return fmt.Errorf("sim %q does not describe its parameters", simName)
			}
			snap := provider.Parameters()

			out := cmd.OutOrStdout()
			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(snap)
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			for _, g := range snap.Groups {
				fmt.Fprintf(tw, "%s\n", g.Name)
				for _, p := range g.Params {
					fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", p.Key, p.Type, p.Value, p.Description)
				}
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&simName, "sim", "cleaning", "registered sim name")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "sim parameter in key=value form (repeatable)")
	return cmd
}
