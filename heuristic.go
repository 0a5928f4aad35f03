package gridplan

import (
	"fmt"

	"github.com/pdrpinto/gridplan/level"
)

// Estimator computes h(state), an estimate of the remaining cost to a
// goal state. h is always >= 0 and 0 for every goal state.
type Estimator interface {
	H(*State) int
	Name() string
}

// Heuristic orders a best-first frontier through its evaluation F.
type Heuristic interface {
	F(*State) int
	H(*State) int
	Name() string
}

type evaluator struct {
	est    Estimator
	weight int
	greedy bool
}

func (e evaluator) H(s *State) int { return e.est.H(s) }

func (e evaluator) F(s *State) int {
	if e.greedy {
		return e.est.H(s)
	}
	return s.G() + e.weight*e.est.H(s)
}

func (e evaluator) Name() string {
	switch {
	case e.greedy:
		return fmt.Sprintf("greedy evaluation of %s", e.est.Name())
	case e.weight != 1:
		return fmt.Sprintf("WA*(%d) evaluation of %s", e.weight, e.est.Name())
	default:
		return fmt.Sprintf("A* evaluation of %s", e.est.Name())
	}
}

// NewAStar evaluates f = g + h. Optimal when est never overestimates.
func NewAStar(est Estimator) Heuristic {
	return evaluator{est: est, weight: 1}
}

// NewWeightedAStar evaluates f = g + w*h, trading optimality for speed.
func NewWeightedAStar(est Estimator, w int) Heuristic {
	if w < 1 {
		w = 1
	}
	return evaluator{est: est, weight: w}
}

// NewGreedy evaluates f = h alone. No optimality guarantee.
func NewGreedy(est Estimator) Heuristic {
	return evaluator{est: est, greedy: true}
}

// GoalCount estimates remaining cost as the number of goal cells whose
// required occupant is absent. Admissible, and cheap enough to need no
// precomputation.
type GoalCount struct{}

func NewGoalCount() GoalCount { return GoalCount{} }

func (GoalCount) Name() string { return "goal count" }

func (GoalCount) H(s *State) int {
	h := 0
	for _, g := range s.level.GoalCells {
		if g.IsBox() {
			if s.boxes[g.Pos.Row][g.Pos.Col] != g.Need {
				h++
			}
		} else if s.agents[g.Need-'0'] != g.Pos {
			h++
		}
	}
	return h
}

// DistanceSum sums, over every unsatisfied goal, the wall-respecting
// shortest-path distance from the nearest matching occupant to the goal
// cell. Distances are precomputed once per goal at construction by a
// breadth-first sweep over the static grid, ignoring dynamic occupants,
// and reused for every state of the search.
type DistanceSum struct {
	level *level.Level
	dists []goalGrid
}

type goalGrid struct {
	goal level.Goal
	dist [][]int // -1 where unreachable
}

func NewDistanceSum(lv *level.Level) *DistanceSum {
	ds := &DistanceSum{level: lv}
	for _, g := range lv.GoalCells {
		ds.dists = append(ds.dists, goalGrid{goal: g, dist: sweep(lv, g.Pos)})
	}
	return ds
}

// sweep floods outward from the goal cell through non-wall cells.
func sweep(lv *level.Level, from level.Position) [][]int {
	dist := make([][]int, lv.Rows)
	for r := range dist {
		dist[r] = make([]int, lv.Cols)
		for c := range dist[r] {
			dist[r][c] = -1
		}
	}
	if lv.Wall(from) {
		return dist
	}
	dist[from.Row][from.Col] = 0
	queue := []level.Position{from}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, d := range directions {
			q := step(p, d)
			if lv.Wall(q) || dist[q.Row][q.Col] >= 0 {
				continue
			}
			dist[q.Row][q.Col] = dist[p.Row][p.Col] + 1
			queue = append(queue, q)
		}
	}
	return dist
}

func (ds *DistanceSum) Name() string { return "distance sum" }

func (ds *DistanceSum) H(s *State) int {
	h := 0
	for _, gg := range ds.dists {
		g := gg.goal
		if g.IsBox() {
			if s.boxes[g.Pos.Row][g.Pos.Col] == g.Need {
				continue
			}
			h += ds.nearestBox(s, gg)
		} else {
			pos := s.agents[g.Need-'0']
			if pos == g.Pos {
				continue
			}
			h += gg.at(pos, ds.unreachable())
		}
	}
	return h
}

func (ds *DistanceSum) nearestBox(s *State, gg goalGrid) int {
	best := -1
	for r := range s.boxes {
		for c, letter := range s.boxes[r] {
			if letter != gg.goal.Need {
				continue
			}
			if d := gg.dist[r][c]; d >= 0 && (best < 0 || d < best) {
				best = d
			}
		}
	}
	if best < 0 {
		return ds.unreachable()
	}
	return best
}

func (gg goalGrid) at(p level.Position, unreachable int) int {
	if d := gg.dist[p.Row][p.Col]; d >= 0 {
		return d
	}
	return unreachable
}

// unreachable is the penalty charged when no matching occupant can ever
// reach a goal; large enough to dominate any real distance on this grid.
func (ds *DistanceSum) unreachable() int {
	return ds.level.Rows * ds.level.Cols
}
