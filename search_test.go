package gridplan

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdrpinto/gridplan/level"
)

func TestSearchSolvesSinglePush(t *testing.T) {
	lv := mustParse(t, pushLevel)
	res, err := Search(context.Background(), NewState(lv), NewFrontierBFS())
	require.NoError(t, err)

	require.True(t, res.Found)
	require.Len(t, res.Plan, 1)
	assert.Equal(t, "Push(E,E)", FormatJoint(res.Plan[0]))
	assert.Equal(t, PhaseGoalFound, res.Phase)
	assert.Greater(t, res.Generated, 0)

	goal, err := NewState(lv).Apply(res.Plan[0])
	require.NoError(t, err)
	assert.Equal(t, level.Position{Row: 1, Col: 2}, goal.Agent(0))
	assert.Equal(t, byte('A'), goal.BoxAt(level.Position{Row: 1, Col: 3}))
}

func TestSearchReportsUnsolvable(t *testing.T) {
	lv := mustParse(t, blueBoxLevel)
	res, err := Search(context.Background(), NewState(lv), NewFrontierBFS())

	assert.ErrorIs(t, err, ErrNoSolution)
	assert.False(t, res.Found)
	assert.Equal(t, PhaseExhausted, res.Phase)
}

func TestSearchBudgetExceededIsDistinct(t *testing.T) {
	lv := mustParse(t, pushLevel)
	budget := NewBudget(time.Nanosecond, 0)
	time.Sleep(time.Millisecond)

	res, err := Search(context.Background(), NewState(lv), NewFrontierBFS(),
		WithBudget(budget))

	assert.ErrorIs(t, err, ErrBudgetExceeded)
	assert.NotErrorIs(t, err, ErrNoSolution)
	assert.Equal(t, PhaseOutOfBudget, res.Phase)
}

func TestSearchHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Search(ctx, NewState(mustParse(t, pushLevel)), NewFrontierBFS())
	assert.ErrorIs(t, err, ErrBudgetExceeded)
}

func TestBFSPlansAreShortest(t *testing.T) {
	lv := mustParse(t, roomLevel)

	bfs, err := Search(context.Background(), NewState(lv), NewFrontierBFS())
	require.NoError(t, err)

	for _, strategy := range []string{"dfs", "greedy", "astar", "wastar"} {
		frontier, err := FrontierFor(strategy, lv)
		require.NoError(t, err)
		res, err := Search(context.Background(), NewState(lv), frontier)
		require.NoError(t, err, strategy)
		assert.LessOrEqual(t, len(bfs.Plan), len(res.Plan),
			"%s found a shorter plan than breadth-first", strategy)
	}
}

func TestPlanRoundTrip(t *testing.T) {
	levels := []string{pushLevel, pullLevel, roomLevel, meetLevel}
	for _, text := range levels {
		lv := mustParse(t, text)
		res, err := Search(context.Background(), NewState(lv), NewFrontierBFS())
		require.NoError(t, err)

		state := NewState(lv)
		for _, joint := range res.Plan {
			state, err = state.Apply(joint)
			require.NoError(t, err, "level %s", lv.Name)
		}
		assert.True(t, state.IsGoal(), "replayed plan must end in a goal state for %s", lv.Name)
		assert.Equal(t, len(res.Plan), state.G())
	}
}

func TestSearchStatusReporting(t *testing.T) {
	lv := mustParse(t, roomLevel)
	var statuses []Status
	res, err := Search(context.Background(), NewState(lv), NewFrontierBFS(),
		WithStatusInterval(1),
		WithStatusFunc(func(st Status) { statuses = append(statuses, st) }))
	require.NoError(t, err)
	require.True(t, res.Found)

	require.NotEmpty(t, statuses)
	final := statuses[len(statuses)-1]
	assert.Equal(t, PhaseGoalFound, final.Phase)
	assert.Equal(t, res.Expanded, final.Expanded)
	assert.Greater(t, final.MemUsed, uint64(0))
}

func TestStepperWalksToGoal(t *testing.T) {
	lv := mustParse(t, pushLevel)
	stepper, err := NewStepper(NewState(lv), NewFrontierBFS())
	require.NoError(t, err)
	defer stepper.Close()

	var snap StepSnapshot
	for i := 0; i < 100 && !stepper.Done(); i++ {
		snap, err = stepper.Step()
		require.NoError(t, err)
	}
	require.True(t, stepper.Done(), "tiny level must finish within 100 expansions")
	assert.True(t, snap.Found)
	assert.Equal(t, PhaseGoalFound, snap.Phase)
	assert.Equal(t, []string{"Push(E,E)"}, snap.Plan)

	// Further steps return the final snapshot unchanged.
	again, err := stepper.Step()
	require.NoError(t, err)
	assert.Equal(t, snap.StepIndex, again.StepIndex)
}

func TestStepperReportsExhaustion(t *testing.T) {
	stepper, err := NewStepper(NewState(mustParse(t, blueBoxLevel)), NewFrontierDFS())
	require.NoError(t, err)
	defer stepper.Close()

	for i := 0; i < 1000 && !stepper.Done(); i++ {
		if _, err = stepper.Step(); err != nil {
			break
		}
	}
	assert.ErrorIs(t, err, ErrNoSolution)
	assert.Equal(t, PhaseExhausted, stepper.phases.Phase())
}

func TestBudgetLimits(t *testing.T) {
	assert.False(t, (*Budget)(nil).Exceeded(), "nil budget never limits")

	b := NewBudget(0, 0)
	assert.False(t, b.Exceeded(), "zero limits disable the budget")
	assert.GreaterOrEqual(t, b.Elapsed(), time.Duration(0))

	b = NewBudget(time.Nanosecond, 0)
	time.Sleep(time.Millisecond)
	assert.True(t, b.Exceeded())
	assert.True(t, b.Exceeded(), "exceeded is sticky")

	b = NewBudget(0, 1) // one byte of heap
	assert.True(t, b.Exceeded())
}
