// Command gridplan solves multi-agent grid planning levels. It can solve
// a single level file, speak the judging-server protocol over
// stdin/stdout, run a benchmark suite, or serve the live visualizer.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdrpinto/gridplan/config"
)

var (
	cfgPath string
	cfg     config.Config
)

func main() {
	// The protocol mode owns stdout, so everything human goes to stderr.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	root := &cobra.Command{
		Use:          "gridplan",
		Short:        "multi-agent grid planning search client",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cfg, err = config.Load(cfgPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to gridplan.yaml (optional)")

	root.AddCommand(newSolveCmd())
	root.AddCommand(newBenchCmd())
	root.AddCommand(newVizCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
