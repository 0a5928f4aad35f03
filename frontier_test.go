package gridplan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// threeStates returns a root and two of its distinct successors.
func threeStates(t *testing.T) (*State, *State, *State) {
	t.Helper()
	root := NewState(mustParse(t, roomLevel))
	east, err := root.Apply([]Action{{Type: Move, AgentDir: East}})
	require.NoError(t, err)
	south, err := root.Apply([]Action{{Type: Move, AgentDir: South}})
	require.NoError(t, err)
	return root, east, south
}

func TestFrontierBFSOrder(t *testing.T) {
	root, east, south := threeStates(t)
	f := NewFrontierBFS()

	assert.True(t, f.IsEmpty())
	f.Add(root)
	f.Add(east)
	f.Add(south)
	assert.Equal(t, 3, f.Size())
	assert.True(t, f.Contains(east))

	assert.Same(t, root, f.Pop())
	assert.Same(t, east, f.Pop())
	assert.False(t, f.Contains(east), "membership tracks pops")
	assert.Same(t, south, f.Pop())
	assert.True(t, f.IsEmpty())
}

func TestFrontierDFSOrder(t *testing.T) {
	root, east, south := threeStates(t)
	f := NewFrontierDFS()

	f.Add(root)
	f.Add(east)
	f.Add(south)

	assert.Same(t, south, f.Pop())
	assert.Same(t, east, f.Pop())
	assert.Same(t, root, f.Pop())
	assert.True(t, f.IsEmpty())
}

func TestFrontierContainsIsValueBased(t *testing.T) {
	root, _, _ := threeStates(t)
	twin := NewState(root.Level())

	f := NewFrontierBFS()
	f.Add(root)
	assert.True(t, f.Contains(twin), "distinct pointers, same configuration")
}

func TestFrontierBestFirstOrdersByEvaluation(t *testing.T) {
	root, east, south := threeStates(t)
	f := NewFrontierBestFirst(NewGreedy(NewDistanceSum(root.Level())))

	// Goal is agent 0 at (2,3): south is two steps away, east is closer
	// than the root.
	f.Add(south)
	f.Add(root)
	f.Add(east)

	first := f.Pop()
	assert.True(t, first == east || first == south,
		"a successor outranks the root under a goal-distance heuristic")
	assert.Equal(t, 2, f.Size())
}

func TestFrontierForStrategies(t *testing.T) {
	lv := mustParse(t, roomLevel)
	for _, strategy := range Strategies {
		f, err := FrontierFor(strategy, lv)
		require.NoError(t, err, strategy)
		assert.NotEmpty(t, f.Name())
	}
	_, err := FrontierFor("ids", lv)
	assert.Error(t, err)
}
