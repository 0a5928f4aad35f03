package gridplan

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/pdrpinto/gridplan/internal/sysmem"
)

// ErrNoSolution is returned when the frontier empties without reaching a
// goal state: the level is provably unsolvable under this model.
var ErrNoSolution = errors.New("no solution found")

// ErrBudgetExceeded is returned when the time or memory budget (or the
// caller's context) runs out first. It proves nothing about solvability.
var ErrBudgetExceeded = errors.New("search budget exceeded")

// Result contains the outcome of a search.
type Result struct {
	Plan      [][]Action
	Found     bool
	Expanded  int
	Generated int
	Frontier  int
	Elapsed   time.Duration
	MemUsed   uint64
	Phase     Phase
}

// Status is a periodic progress report. Advisory only.
type Status struct {
	Expanded  int
	Frontier  int
	Generated int
	Elapsed   time.Duration
	MemUsed   uint64
	Phase     Phase
}

// Options defines parameters for the search.
type Options struct {
	Budget         *Budget
	StatusInterval int
	StatusFunc     func(Status)
	Logger         *slog.Logger
}

// Option is a function that modifies Options.
type Option func(*Options)

// WithBudget bounds the search by wall clock and heap usage.
func WithBudget(b *Budget) Option {
	return func(options *Options) { options.Budget = b }
}

// WithStatusInterval sets how many pops pass between status reports.
func WithStatusInterval(n int) Option {
	return func(options *Options) { options.StatusInterval = n }
}

// WithStatusFunc registers a callback for every status report.
func WithStatusFunc(fn func(Status)) Option {
	return func(options *Options) { options.StatusFunc = fn }
}

// WithLogger routes status reports through the given logger.
func WithLogger(logger *slog.Logger) Option {
	return func(options *Options) { options.Logger = logger }
}

// Search runs graph search from the initial state until the frontier
// yields a goal state, empties, or the budget runs out. Successors are
// deduplicated against both the explored set and the frontier by value
// identity. The returned plan is one joint action per timestep in
// root-to-goal order; on ErrNoSolution and ErrBudgetExceeded the Result
// still carries the final counters.
func Search(ctx context.Context, initial *State, frontier Frontier, options ...Option) (Result, error) {
	searchOptions := Options{
		Budget:         NewBudget(0, 0),
		StatusInterval: 10000,
		Logger:         slog.Default(),
	}
	for _, option := range options {
		option(&searchOptions)
	}

	phases, err := newPhaseTracker()
	if err != nil {
		return Result{}, err
	}
	defer phases.stop()

	explored := make(map[string]struct{})
	frontier.Add(initial)
	generated := 1
	iterations := 0

	phases.fire(eventExpand)

	report := func() {
		status := Status{
			Expanded:  len(explored),
			Frontier:  frontier.Size(),
			Generated: generated,
			Elapsed:   searchOptions.Budget.Elapsed(),
			MemUsed:   sysmem.Used(),
			Phase:     phases.Phase(),
		}
		searchOptions.Logger.Info("search status",
			"expanded", status.Expanded,
			"frontier", status.Frontier,
			"generated", status.Generated,
			"elapsed", status.Elapsed,
			"memory", sysmem.String(status.MemUsed),
			"phase", status.Phase,
		)
		if searchOptions.StatusFunc != nil {
			searchOptions.StatusFunc(status)
		}
	}

	result := func() Result {
		return Result{
			Expanded:  len(explored),
			Generated: generated,
			Frontier:  frontier.Size(),
			Elapsed:   searchOptions.Budget.Elapsed(),
			MemUsed:   sysmem.Used(),
			Phase:     phases.Phase(),
		}
	}

	for {
		// Budget and cancellation are only observed here, between pops,
		// so no state is ever half-expanded.
		if ctx.Err() != nil || searchOptions.Budget.Exceeded() {
			phases.fire(eventBudget)
			report()
			return result(), ErrBudgetExceeded
		}

		if frontier.IsEmpty() {
			phases.fire(eventExhaust)
			report()
			return result(), ErrNoSolution
		}

		state := frontier.Pop()

		if state.IsGoal() {
			phases.fire(eventGoal)
			report()
			res := result()
			res.Found = true
			res.Plan = state.ExtractPlan()
			return res, nil
		}

		explored[state.Key()] = struct{}{}

		for _, child := range state.Expand() {
			generated++
			if _, seen := explored[child.Key()]; seen {
				continue
			}
			if !frontier.Contains(child) {
				frontier.Add(child)
			}
		}

		if iterations++; iterations%searchOptions.StatusInterval == 0 {
			report()
		}
	}
}
