package gridplan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const detourLevel = `#domain
hospital
#levelname
detour
#colors
red: 0, A
#initial
+++++
+A+ +
+ + +
+0  +
+++++
#goal
+++++
+ +A+
+ + +
+   +
+++++
#end
`

func TestGoalCountZeroIffGoal(t *testing.T) {
	root := NewState(mustParse(t, pushLevel))
	gc := NewGoalCount()

	assert.Equal(t, 1, gc.H(root))

	goal, err := root.Apply([]Action{{Type: Push, AgentDir: East, BoxDir: East}})
	require.NoError(t, err)
	require.True(t, goal.IsGoal())
	assert.Equal(t, 0, gc.H(goal))
}

func TestGoalCountNonIncreasingOnSatisfyingPath(t *testing.T) {
	root := NewState(mustParse(t, roomLevel))
	gc := NewGoalCount()

	prev := gc.H(root)
	cur := root
	for _, joint := range [][]Action{
		{{Type: Move, AgentDir: East}},
		{{Type: Move, AgentDir: East}},
		{{Type: Move, AgentDir: South}},
	} {
		next, err := cur.Apply(joint)
		require.NoError(t, err)
		h := gc.H(next)
		assert.LessOrEqual(t, h, prev, "path only ever satisfies goals")
		prev, cur = h, next
	}
	assert.Equal(t, 0, prev)
	assert.True(t, cur.IsGoal())
}

func TestDistanceSumRespectsWalls(t *testing.T) {
	lv := mustParse(t, detourLevel)
	root := NewState(lv)
	ds := NewDistanceSum(lv)

	// Manhattan distance from the box at (1,1) to the goal at (1,3) is 2,
	// but the wall column forces the 6-step detour through row 3.
	assert.Equal(t, 6, ds.H(root))
}

func TestDistanceSumZeroAtGoal(t *testing.T) {
	root := NewState(mustParse(t, pushLevel))
	ds := NewDistanceSum(root.Level())

	assert.Equal(t, 1, ds.H(root), "box is one cell from its goal")
	goal, err := root.Apply([]Action{{Type: Push, AgentDir: East, BoxDir: East}})
	require.NoError(t, err)
	assert.Equal(t, 0, ds.H(goal))
}

func TestEvaluators(t *testing.T) {
	root := NewState(mustParse(t, roomLevel))
	child, err := root.Apply([]Action{{Type: Move, AgentDir: East}})
	require.NoError(t, err)

	est := NewDistanceSum(root.Level())
	astar := NewAStar(est)
	wastar1 := NewWeightedAStar(est, 1)
	wastar5 := NewWeightedAStar(est, 5)
	greedy := NewGreedy(est)

	assert.Equal(t, child.G()+est.H(child), astar.F(child))
	assert.Equal(t, astar.F(child), wastar1.F(child), "WA*(1) evaluates like A*")
	assert.Equal(t, child.G()+5*est.H(child), wastar5.F(child))
	assert.Equal(t, est.H(child), greedy.F(child))
	assert.Equal(t, est.H(child), astar.H(child))
}
