package gridplan

import (
	"container/heap"
	"fmt"

	"github.com/pdrpinto/gridplan/level"
)

// Frontier holds generated-but-not-yet-expanded states. Add, Pop and
// Contains all work on value identity (State.Key), never on pointer
// identity, so a configuration reached twice over different paths is one
// frontier member.
type Frontier interface {
	Add(*State)
	Pop() *State
	IsEmpty() bool
	Size() int
	Contains(*State) bool
	Name() string
}

// FrontierBFS pops states in first-in-first-out order, which makes the
// search breadth-first and, on this uniform-cost action space, optimal.
type FrontierBFS struct {
	queue []*State
	head  int
	set   map[string]struct{}
}

func NewFrontierBFS() *FrontierBFS {
	return &FrontierBFS{set: make(map[string]struct{})}
}

func (f *FrontierBFS) Add(s *State) {
	f.queue = append(f.queue, s)
	f.set[s.Key()] = struct{}{}
}

func (f *FrontierBFS) Pop() *State {
	s := f.queue[f.head]
	f.queue[f.head] = nil
	f.head++
	if f.head > 1024 && f.head*2 > len(f.queue) {
		f.queue = append([]*State(nil), f.queue[f.head:]...)
		f.head = 0
	}
	delete(f.set, s.Key())
	return s
}

func (f *FrontierBFS) IsEmpty() bool { return f.head == len(f.queue) }
func (f *FrontierBFS) Size() int     { return len(f.queue) - f.head }
func (f *FrontierBFS) Contains(s *State) bool {
	_, ok := f.set[s.Key()]
	return ok
}
func (f *FrontierBFS) Name() string { return "breadth-first search" }

// FrontierDFS pops states in last-in-first-out order.
type FrontierDFS struct {
	stack []*State
	set   map[string]struct{}
}

func NewFrontierDFS() *FrontierDFS {
	return &FrontierDFS{set: make(map[string]struct{})}
}

func (f *FrontierDFS) Add(s *State) {
	f.stack = append(f.stack, s)
	f.set[s.Key()] = struct{}{}
}

func (f *FrontierDFS) Pop() *State {
	n := len(f.stack)
	s := f.stack[n-1]
	f.stack[n-1] = nil
	f.stack = f.stack[:n-1]
	delete(f.set, s.Key())
	return s
}

func (f *FrontierDFS) IsEmpty() bool { return len(f.stack) == 0 }
func (f *FrontierDFS) Size() int     { return len(f.stack) }
func (f *FrontierDFS) Contains(s *State) bool {
	_, ok := f.set[s.Key()]
	return ok
}
func (f *FrontierDFS) Name() string { return "depth-first search" }

// FrontierBestFirst pops the state with the lowest evaluation f(state)
// under the configured heuristic. Membership is best-effort: the queue
// cannot update an already-queued entry when a cheaper path to the same
// configuration appears later, so with an admissible heuristic the first
// pop of a configuration is not guaranteed to carry its optimal g. That
// approximation is accepted here in exchange for O(log n) queue ops.
type FrontierBestFirst struct {
	heuristic Heuristic
	queue     priorityQueue
	set       map[string]struct{}
}

func NewFrontierBestFirst(h Heuristic) *FrontierBestFirst {
	f := &FrontierBestFirst{heuristic: h, set: make(map[string]struct{})}
	heap.Init(&f.queue)
	return f
}

func (f *FrontierBestFirst) Add(s *State) {
	heap.Push(&f.queue, &queueItem{state: s, fCost: f.heuristic.F(s)})
	f.set[s.Key()] = struct{}{}
}

func (f *FrontierBestFirst) Pop() *State {
	item := heap.Pop(&f.queue).(*queueItem)
	delete(f.set, item.state.Key())
	return item.state
}

func (f *FrontierBestFirst) IsEmpty() bool { return f.queue.Len() == 0 }
func (f *FrontierBestFirst) Size() int     { return f.queue.Len() }
func (f *FrontierBestFirst) Contains(s *State) bool {
	_, ok := f.set[s.Key()]
	return ok
}
func (f *FrontierBestFirst) Name() string {
	return fmt.Sprintf("best-first search using %s", f.heuristic.Name())
}

// Strategies lists the frontier strategies FrontierFor accepts.
var Strategies = []string{"bfs", "dfs", "astar", "wastar", "greedy"}

// FrontierFor builds the frontier for a strategy name. The informed
// strategies evaluate with the distance-sum estimator precomputed from lv.
func FrontierFor(strategy string, lv *level.Level) (Frontier, error) {
	switch strategy {
	case "bfs":
		return NewFrontierBFS(), nil
	case "dfs":
		return NewFrontierDFS(), nil
	case "astar":
		return NewFrontierBestFirst(NewAStar(NewDistanceSum(lv))), nil
	case "wastar":
		return NewFrontierBestFirst(NewWeightedAStar(NewDistanceSum(lv), 5)), nil
	case "greedy":
		return NewFrontierBestFirst(NewGreedy(NewDistanceSum(lv))), nil
	}
	return nil, fmt.Errorf("unknown strategy %q", strategy)
}
