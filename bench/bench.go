// Package bench runs every level in a directory under a per-level budget
// and collects solver metrics for regression tracking: a markdown results
// table for humans, SQLite rows for history.
package bench

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pdrpinto/gridplan"
	"github.com/pdrpinto/gridplan/level"
)

// Run is one level solved (or not) under one strategy.
type Run struct {
	SuiteID    string
	Level      string
	Strategy   string
	Solved     bool
	PlanLength int
	Expanded   int
	Generated  int
	ElapsedMS  int64
	MemUsed    uint64
	Outcome    string
	RecordedAt time.Time
}

// Runner executes one suite.
type Runner struct {
	LevelsDir string
	Strategy  string
	Timeout   time.Duration
	MaxHeap   uint64
	Filter    string // substring match on level file names, empty = all
	Store     *Store // optional
	Logger    *slog.Logger
}

// Run solves each matching level in LevelsDir and returns one Run per
// level, in file-name order. Parse failures and budget blowouts are
// recorded as unsolved rows, not suite failures.
func (r *Runner) Run(ctx context.Context) ([]Run, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}
	paths, err := filepath.Glob(filepath.Join(r.LevelsDir, "*.lvl"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	suiteID := uuid.NewString()
	var runs []Run
	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), ".lvl")
		if r.Filter != "" && !strings.Contains(name, r.Filter) {
			continue
		}
		run := r.solveOne(ctx, path, name, logger)
		run.SuiteID = suiteID
		run.Strategy = r.Strategy
		run.RecordedAt = time.Now()
		runs = append(runs, run)
		if r.Store != nil {
			if err := r.Store.InsertRun(ctx, run); err != nil {
				return runs, fmt.Errorf("store run %s: %w", name, err)
			}
		}
		if err := ctx.Err(); err != nil {
			return runs, err
		}
	}
	return runs, nil
}

func (r *Runner) solveOne(ctx context.Context, path, name string, logger *slog.Logger) Run {
	run := Run{Level: name}

	f, err := os.Open(path)
	if err != nil {
		run.Outcome = "open: " + err.Error()
		return run
	}
	lv, err := level.Parse(f)
	f.Close()
	if err != nil {
		run.Outcome = "parse: " + err.Error()
		return run
	}

	frontier, err := gridplan.FrontierFor(r.Strategy, lv)
	if err != nil {
		run.Outcome = err.Error()
		return run
	}

	logger.Info("benchmarking level", "level", name, "strategy", r.Strategy)
	budget := gridplan.NewBudget(r.Timeout, r.MaxHeap)
	res, err := gridplan.Search(ctx, gridplan.NewState(lv), frontier,
		gridplan.WithBudget(budget),
		gridplan.WithLogger(logger),
	)
	run.Expanded = res.Expanded
	run.Generated = res.Generated
	run.ElapsedMS = res.Elapsed.Milliseconds()
	run.MemUsed = res.MemUsed
	switch {
	case err == nil:
		run.Solved = true
		run.PlanLength = len(res.Plan)
		run.Outcome = "solved"
	case errors.Is(err, gridplan.ErrBudgetExceeded):
		run.Outcome = "budget exceeded"
	case errors.Is(err, gridplan.ErrNoSolution):
		run.Outcome = "no solution"
	default:
		run.Outcome = err.Error()
	}
	return run
}

// WriteMarkdown renders the suite result table.
func WriteMarkdown(w io.Writer, strategy string, runs []Run) error {
	solved := 0
	for _, r := range runs {
		if r.Solved {
			solved++
		}
	}
	if _, err := fmt.Fprintf(w, "# Benchmark results (%s)\n\nSolved %d/%d levels.\n\n", strategy, solved, len(runs)); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "| Level | Solved | Plan | Expanded | Generated | Time (s) | Outcome |"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, "|---|---|---|---|---|---|---|"); err != nil {
		return err
	}
	for _, r := range runs {
		plan := "-"
		if r.Solved {
			plan = fmt.Sprintf("%d", r.PlanLength)
		}
		if _, err := fmt.Fprintf(w, "| %s | %v | %s | %d | %d | %.3f | %s |\n",
			r.Level, r.Solved, plan, r.Expanded, r.Generated,
			float64(r.ElapsedMS)/1000, r.Outcome); err != nil {
			return err
		}
	}
	return nil
}
