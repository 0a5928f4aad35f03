package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdrpinto/gridplan/level"
	"github.com/pdrpinto/gridplan/viz"
)

func newVizCmd() *cobra.Command {
	var (
		levelPath string
		strategy  string
		addr      string
	)

	cmd := &cobra.Command{
		Use:   "viz",
		Short: "serve a live web view of the search on one level",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if levelPath == "" {
				return errors.New("need --level")
			}
			if strategy == "" {
				strategy = cfg.Strategy
			}
			if addr == "" {
				addr = cfg.Viz.Addr
			}

			f, err := os.Open(levelPath)
			if err != nil {
				return err
			}
			lv, err := level.Parse(f)
			f.Close()
			if err != nil {
				return err
			}

			server, err := viz.NewServer(lv, strategy, slog.Default())
			if err != nil {
				return err
			}
			return server.ListenAndServe(addr)
		},
	}

	cmd.Flags().StringVar(&levelPath, "level", "", "level file to visualize")
	cmd.Flags().StringVarP(&strategy, "strategy", "s", "", "bfs, dfs, astar, wastar or greedy")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, default from config")
	return cmd
}
