package gridplan

import (
	"encoding/binary"
	"fmt"

	"github.com/pdrpinto/gridplan/level"
)

// State is one immutable configuration of the world: agent positions and
// box occupancy over a shared read-only Level. Every state except the root
// links to the parent it was expanded from and the joint action that
// produced it; the links form a tree (depth strictly increases) and are
// only walked for plan extraction.
//
// Two states are the same search node iff their agent positions and box
// grids match; parent, action and depth never enter the comparison. Key
// encodes exactly that identity.
type State struct {
	level  *level.Level
	agents []level.Position
	boxes  [][]byte

	parent *State
	action []Action
	g      int

	key string
}

// NewState builds the root state from a parsed level.
func NewState(lv *level.Level) *State {
	s := &State{
		level:  lv,
		agents: make([]level.Position, len(lv.Agents)),
		boxes:  make([][]byte, lv.Rows),
	}
	copy(s.agents, lv.Agents)
	for r := range s.boxes {
		s.boxes[r] = make([]byte, lv.Cols)
		copy(s.boxes[r], lv.Boxes[r])
	}
	return s
}

// Level returns the shared static level.
func (s *State) Level() *level.Level { return s.level }

// G is the depth from the root; every edge costs 1.
func (s *State) G() int { return s.g }

// Agent returns the position of agent id.
func (s *State) Agent(id int) level.Position { return s.agents[id] }

// NumAgents returns the number of agents.
func (s *State) NumAgents() int { return len(s.agents) }

// BoxAt returns the box letter at p, or 0.
func (s *State) BoxAt(p level.Position) byte {
	if !s.level.InBounds(p) {
		return 0
	}
	return s.boxes[p.Row][p.Col]
}

// Action returns the joint action that produced this state, nil for the root.
func (s *State) Action() []Action { return s.action }

func (s *State) agentAt(p level.Position) bool {
	for _, a := range s.agents {
		if a == p {
			return true
		}
	}
	return false
}

// free reports whether p can be moved into: inside the grid, not a wall,
// no box, no agent. Occupancy is always the start-of-timestep occupancy.
func (s *State) free(p level.Position) bool {
	if s.level.Wall(p) {
		return false
	}
	if s.boxes[p.Row][p.Col] != 0 {
		return false
	}
	return !s.agentAt(p)
}

func step(p level.Position, d Direction) level.Position {
	dr, dc := d.Delta()
	return level.Position{Row: p.Row + dr, Col: p.Col + dc}
}

// Applicable tests a single agent's action against this state in isolation.
func (s *State) Applicable(agent int, a Action) bool {
	pos := s.agents[agent]
	switch a.Type {
	case NoOp:
		return true
	case Move:
		return s.free(step(pos, a.AgentDir))
	case Push:
		boxPos := step(pos, a.AgentDir)
		letter := s.BoxAt(boxPos)
		if letter == 0 {
			return false
		}
		if c, ok := s.level.BoxColor(letter); !ok || c != s.level.AgentColors[agent] {
			return false
		}
		return s.free(step(boxPos, a.BoxDir))
	case Pull:
		boxPos := step(pos, a.BoxDir.Opposite())
		letter := s.BoxAt(boxPos)
		if letter == 0 {
			return false
		}
		if c, ok := s.level.BoxColor(letter); !ok || c != s.level.AgentColors[agent] {
			return false
		}
		return s.free(step(pos, a.AgentDir))
	}
	return false
}

// IsGoal reports whether every constrained goal cell holds its required
// occupant.
func (s *State) IsGoal() bool {
	for _, g := range s.level.GoalCells {
		if g.IsBox() {
			if s.boxes[g.Pos.Row][g.Pos.Col] != g.Need {
				return false
			}
		} else if s.agents[g.Need-'0'] != g.Pos {
			return false
		}
	}
	return true
}

// Expand generates every successor reachable by one conflict-free joint
// action. Per-agent applicable actions are combined as a Cartesian
// product; any combination where two agents claim the same destination
// cell or the same box is rejected whole, never half-applied.
func (s *State) Expand() []*State {
	n := len(s.agents)
	applicable := make([][]Action, n)
	for i := 0; i < n; i++ {
		for _, a := range AllActions {
			if s.Applicable(i, a) {
				applicable[i] = append(applicable[i], a)
			}
		}
	}

	joint := make([]Action, n)
	idx := make([]int, n)
	var out []*State
	for {
		for i := 0; i < n; i++ {
			joint[i] = applicable[i][idx[i]]
		}
		if !s.conflicting(joint) {
			out = append(out, s.successor(joint))
		}

		// Odometer increment over the per-agent action lists.
		i := 0
		for ; i < n; i++ {
			idx[i]++
			if idx[i] < len(applicable[i]) {
				break
			}
			idx[i] = 0
		}
		if i == n {
			return out
		}
	}
}

// conflicting checks a joint action against start-of-timestep occupancy.
// For each non-NoOp agent it tracks the one cell the action newly occupies
// (the agent's destination for Move and Pull, the box's destination for
// Push) and the cell of the box it manipulates, if any. Two equal
// destination cells or two equal box cells reject the combination.
func (s *State) conflicting(joint []Action) bool {
	n := len(joint)
	dest := make([]level.Position, n)
	box := make([]level.Position, n)
	moves := make([]bool, n)
	hasBox := make([]bool, n)

	for i, a := range joint {
		pos := s.agents[i]
		switch a.Type {
		case NoOp:
			continue
		case Move:
			moves[i] = true
			dest[i] = step(pos, a.AgentDir)
		case Push:
			moves[i] = true
			hasBox[i] = true
			box[i] = step(pos, a.AgentDir)
			dest[i] = step(box[i], a.BoxDir)
		case Pull:
			moves[i] = true
			hasBox[i] = true
			box[i] = step(pos, a.BoxDir.Opposite())
			dest[i] = step(pos, a.AgentDir)
		}
	}

	for i := 0; i < n; i++ {
		if !moves[i] {
			continue
		}
		for j := i + 1; j < n; j++ {
			if !moves[j] {
				continue
			}
			if dest[i] == dest[j] {
				return true
			}
			if hasBox[i] && hasBox[j] && box[i] == box[j] {
				return true
			}
		}
	}
	return false
}

// successor applies a validated joint action, producing the new immutable
// state with parent and action references and depth g+1.
func (s *State) successor(joint []Action) *State {
	child := &State{
		level:  s.level,
		agents: make([]level.Position, len(s.agents)),
		boxes:  make([][]byte, len(s.boxes)),
		parent: s,
		action: make([]Action, len(joint)),
		g:      s.g + 1,
	}
	copy(child.agents, s.agents)
	copy(child.action, joint)
	for r := range s.boxes {
		child.boxes[r] = make([]byte, len(s.boxes[r]))
		copy(child.boxes[r], s.boxes[r])
	}

	for i, a := range joint {
		pos := child.agents[i]
		switch a.Type {
		case Move:
			child.agents[i] = step(pos, a.AgentDir)
		case Push:
			from := step(pos, a.AgentDir)
			to := step(from, a.BoxDir)
			child.boxes[to.Row][to.Col] = child.boxes[from.Row][from.Col]
			child.boxes[from.Row][from.Col] = 0
			child.agents[i] = from
		case Pull:
			from := step(pos, a.BoxDir.Opposite())
			child.agents[i] = step(pos, a.AgentDir)
			child.boxes[pos.Row][pos.Col] = child.boxes[from.Row][from.Col]
			child.boxes[from.Row][from.Col] = 0
		}
	}
	return child
}

// Apply validates joint against this state and returns the successor, or
// an error naming the first agent whose action is inapplicable or in
// conflict. Replaying an extracted plan through Apply from the root
// reproduces the goal state.
func (s *State) Apply(joint []Action) (*State, error) {
	if len(joint) != len(s.agents) {
		return nil, fmt.Errorf("joint action has %d entries, want %d", len(joint), len(s.agents))
	}
	for i, a := range joint {
		if !s.Applicable(i, a) {
			return nil, fmt.Errorf("agent %d: %s not applicable", i, a)
		}
	}
	if s.conflicting(joint) {
		return nil, fmt.Errorf("joint action %s conflicts", FormatJoint(joint))
	}
	return s.successor(joint), nil
}

// Key is the value identity of the state, usable as a map key. Agent
// positions and occupied box cells are packed as uint16 coordinates; the
// box section is scanned in row-major order so equal configurations
// always encode identically.
func (s *State) Key() string {
	if s.key != "" {
		return s.key
	}
	buf := make([]byte, 0, 4*len(s.agents)+16)
	var u [2]byte
	for _, a := range s.agents {
		binary.BigEndian.PutUint16(u[:], uint16(a.Row))
		buf = append(buf, u[:]...)
		binary.BigEndian.PutUint16(u[:], uint16(a.Col))
		buf = append(buf, u[:]...)
	}
	buf = append(buf, '|')
	for r := range s.boxes {
		for c, letter := range s.boxes[r] {
			if letter == 0 {
				continue
			}
			binary.BigEndian.PutUint16(u[:], uint16(r))
			buf = append(buf, u[:]...)
			binary.BigEndian.PutUint16(u[:], uint16(c))
			buf = append(buf, u[:]...)
			buf = append(buf, letter)
		}
	}
	s.key = string(buf)
	return s.key
}

// ExtractPlan walks the parent chain and returns the joint actions in
// root-to-goal order.
func (s *State) ExtractPlan() [][]Action {
	plan := make([][]Action, s.g)
	for cur := s; cur.parent != nil; cur = cur.parent {
		plan[cur.g-1] = cur.action
	}
	return plan
}
