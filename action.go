package gridplan

import "fmt"

// Direction is one of the four grid directions.
type Direction uint8

const (
	North Direction = iota
	South
	East
	West
)

func (d Direction) String() string {
	return [...]string{"N", "S", "E", "W"}[d]
}

// Delta returns the (row, col) displacement of one step in d.
func (d Direction) Delta() (int, int) {
	switch d {
	case North:
		return -1, 0
	case South:
		return 1, 0
	case East:
		return 0, 1
	default:
		return 0, -1
	}
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	default:
		return East
	}
}

var directions = [...]Direction{North, South, East, West}

// ActionType tags the four action variants.
type ActionType uint8

const (
	NoOp ActionType = iota
	Move
	Push
	Pull
)

// Action is one agent's contribution to a joint action. AgentDir is the
// direction the agent moves for Move and Pull, and the direction of the
// adjacent box for Push. BoxDir is the direction the box moves.
type Action struct {
	Type     ActionType
	AgentDir Direction
	BoxDir   Direction
}

func (a Action) String() string {
	switch a.Type {
	case NoOp:
		return "NoOp"
	case Move:
		return fmt.Sprintf("Move(%s)", a.AgentDir)
	case Push:
		return fmt.Sprintf("Push(%s,%s)", a.AgentDir, a.BoxDir)
	default:
		return fmt.Sprintf("Pull(%s,%s)", a.AgentDir, a.BoxDir)
	}
}

// AllActions enumerates every structurally possible single-agent action:
// NoOp, 4 moves, 12 pushes and 12 pulls. For both Push and Pull the
// combination boxDir == opposite(agentDir) is omitted: the box would have
// to move into a cell that is still occupied when the timestep starts
// (the agent's cell for a push, the agent's destination for a pull), so
// no state can ever make it applicable.
var AllActions = buildActions()

func buildActions() []Action {
	actions := make([]Action, 0, 29)
	actions = append(actions, Action{Type: NoOp})
	for _, d := range directions {
		actions = append(actions, Action{Type: Move, AgentDir: d})
	}
	for _, ad := range directions {
		for _, bd := range directions {
			if bd == ad.Opposite() {
				continue
			}
			actions = append(actions, Action{Type: Push, AgentDir: ad, BoxDir: bd})
		}
	}
	for _, ad := range directions {
		for _, bd := range directions {
			if bd == ad.Opposite() {
				continue
			}
			actions = append(actions, Action{Type: Pull, AgentDir: ad, BoxDir: bd})
		}
	}
	return actions
}

// FormatJoint renders one timestep the way the server protocol expects,
// e.g. "Move(N)|Push(E,E)|NoOp".
func FormatJoint(joint []Action) string {
	out := make([]byte, 0, len(joint)*10)
	for i, a := range joint {
		if i > 0 {
			out = append(out, '|')
		}
		out = append(out, a.String()...)
	}
	return string(out)
}
