package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdrpinto/gridplan/bench"
)

func newBenchCmd() *cobra.Command {
	var (
		levelsDir string
		strategy  string
		timeout   int
		maxMemMB  int
		filter    string
		dbPath    string
		outPath   string
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "solve every level in a directory and report metrics",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strategy == "" {
				strategy = cfg.Strategy
			}
			if !cmd.Flags().Changed("timeout") {
				timeout = cfg.TimeoutSeconds
			}
			if !cmd.Flags().Changed("max-mem-mb") {
				maxMemMB = cfg.MaxMemoryMB
			}

			runner := &bench.Runner{
				LevelsDir: levelsDir,
				Strategy:  strategy,
				Timeout:   time.Duration(timeout) * time.Second,
				MaxHeap:   uint64(maxMemMB) * 1024 * 1024,
				Filter:    filter,
				Logger:    slog.Default(),
			}
			if dbPath != "" {
				store, err := bench.OpenStore(dbPath)
				if err != nil {
					return fmt.Errorf("open benchmark db: %w", err)
				}
				defer store.Close()
				runner.Store = store
			}

			runs, err := runner.Run(context.Background())
			if err != nil {
				return err
			}

			out := os.Stdout
			if outPath != "" {
				f, err := os.Create(outPath)
				if err != nil {
					return err
				}
				defer f.Close()
				out = f
			}
			return bench.WriteMarkdown(out, strategy, runs)
		},
	}

	cmd.Flags().StringVar(&levelsDir, "levels", "levels", "directory of *.lvl files")
	cmd.Flags().StringVarP(&strategy, "strategy", "s", "", "bfs, dfs, astar, wastar or greedy")
	cmd.Flags().IntVarP(&timeout, "timeout", "t", 180, "per-level time budget in seconds")
	cmd.Flags().IntVar(&maxMemMB, "max-mem-mb", 4096, "per-level heap budget in MB")
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "only levels whose name contains this substring")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite file for run history (optional)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "markdown output file, default stdout")
	return cmd
}
