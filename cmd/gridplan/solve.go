package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdrpinto/gridplan"
	"github.com/pdrpinto/gridplan/level"
	"github.com/pdrpinto/gridplan/protocol"
	"github.com/pdrpinto/gridplan/trace"
)

func newSolveCmd() *cobra.Command {
	var (
		levelPath  string
		serverMode bool
		strategy   string
		timeout    int
		maxMemMB   int
		traceRuns  bool
	)

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "solve one level and emit the plan",
		Long: "Solve reads a level from --level, or from the judging server on\n" +
			"stdin with --server, searches under the configured budget and emits\n" +
			"the plan: one joint action per line to stdout (or to the server).",
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
			if !cmd.Flags().Changed("trace") {
				traceRuns = cfg.Trace.Enabled
			}

			var client *protocol.Client
			var lv *level.Level
			var err error
			if serverMode {
				client = protocol.NewClient(os.Stdin, os.Stdout)
				if err := client.Greet("gridplan"); err != nil {
					return fmt.Errorf("greet server: %w", err)
				}
				if lv, err = client.ReadLevel(); err != nil {
					return fmt.Errorf("read level from server: %w", err)
				}
			} else {
				if levelPath == "" {
					return errors.New("need --level or --server")
				}
				f, err := os.Open(levelPath)
				if err != nil {
					return err
				}
				lv, err = level.Parse(f)
				f.Close()
				if err != nil {
					return err
				}
			}

			frontier, err := gridplan.FrontierFor(strategy, lv)
			if err != nil {
				return err
			}
			slog.Info("starting search", "level", lv.Name, "frontier", frontier.Name())

			var res gridplan.Result
			var searchErr error

			options := []gridplan.Option{
				gridplan.WithBudget(gridplan.NewBudget(
					time.Duration(timeout)*time.Second,
					uint64(maxMemMB)*1024*1024,
				)),
				gridplan.WithStatusInterval(cfg.StatusInterval),
			}
			if traceRuns {
				rec, err := trace.NewRecorder(cfg.Trace.Dir, lv.Name, strategy)
				if err != nil {
					return fmt.Errorf("open trace: %w", err)
				}
				defer rec.Close()
				slog.Info("tracing run", "run_id", rec.RunID, "path", rec.Path)
				options = append(options, gridplan.WithStatusFunc(func(st gridplan.Status) {
					if err := rec.Status(st); err != nil {
						slog.Warn("trace write failed", "error", err)
					}
				}))
				defer func() { _ = rec.Finish(res, searchErr) }()
			}

			res, searchErr = gridplan.Search(context.Background(), gridplan.NewState(lv), frontier, options...)
			if err := searchErr; err != nil {
				slog.Error("search failed", "error", err, "phase", res.Phase,
					"expanded", res.Expanded, "elapsed", res.Elapsed)
				return err
			}
			slog.Info("found solution", "length", len(res.Plan),
				"expanded", res.Expanded, "generated", res.Generated,
				"elapsed", res.Elapsed)

			if serverMode {
				return client.SendPlan(res.Plan)
			}
			for _, joint := range res.Plan {
				fmt.Println(gridplan.FormatJoint(joint))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&levelPath, "level", "", "level file to solve")
	cmd.Flags().BoolVar(&serverMode, "server", false, "speak the server protocol on stdin/stdout")
	cmd.Flags().StringVarP(&strategy, "strategy", "s", "", "bfs, dfs, astar, wastar or greedy")
	cmd.Flags().IntVarP(&timeout, "timeout", "t", 180, "time budget in seconds, 0 for none")
	cmd.Flags().IntVar(&maxMemMB, "max-mem-mb", 4096, "heap budget in MB, 0 for none")
	cmd.Flags().BoolVar(&traceRuns, "trace", false, "record the run as compressed JSONL")
	return cmd
}
