// Package level holds the static part of a planning problem: the wall
// layout, the goal grid, and the color assignment of agents and boxes,
// together with the initial placement parsed from a level file.
package level

import "fmt"

// Color is one of the ten entity colors a level may assign.
type Color uint8

const (
	Blue Color = iota
	Red
	Cyan
	Purple
	Green
	Orange
	Pink
	Grey
	Lightblue
	Brown
)

var colorNames = [...]string{
	"blue", "red", "cyan", "purple", "green",
	"orange", "pink", "grey", "lightblue", "brown",
}

func (c Color) String() string {
	if int(c) < len(colorNames) {
		return colorNames[c]
	}
	return fmt.Sprintf("color(%d)", uint8(c))
}

// ParseColor maps a case-insensitive color name to its Color value.
func ParseColor(name string) (Color, error) {
	for i, n := range colorNames {
		if n == lower(name) {
			return Color(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown color %q", ErrMalformed, name)
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// Position is a grid cell, row-major.
type Position struct {
	Row, Col int
}

// Goal is one constrained cell. Need is a box letter 'A'..'Z' or an agent
// digit '0'..'9'.
type Goal struct {
	Pos  Position
	Need byte
}

// IsBox reports whether the goal requires a box rather than an agent.
func (g Goal) IsBox() bool { return g.Need >= 'A' && g.Need <= 'Z' }

// Level is the static problem description shared read-only by every search
// state. Agents and Boxes carry the initial placement only; the dynamic
// configuration lives in the search package.
type Level struct {
	Domain string
	Name   string

	Rows, Cols int
	Walls      [][]bool
	Goals      [][]byte // 0 for unconstrained cells

	AgentColors []Color
	BoxColors   [26]Color
	hasBoxColor [26]bool

	Agents []Position // initial position, indexed by agent id
	Boxes  [][]byte   // initial occupancy, 0 for empty

	GoalCells []Goal
}

// InBounds reports whether p lies inside the grid.
func (l *Level) InBounds(p Position) bool {
	return p.Row >= 0 && p.Row < l.Rows && p.Col >= 0 && p.Col < l.Cols
}

// Wall reports whether p is out of bounds or a wall cell.
func (l *Level) Wall(p Position) bool {
	return !l.InBounds(p) || l.Walls[p.Row][p.Col]
}

// NumAgents returns the number of agents in the level.
func (l *Level) NumAgents() int { return len(l.Agents) }

// BoxColor returns the color assigned to a box letter and whether the
// letter appears in the color section at all.
func (l *Level) BoxColor(letter byte) (Color, bool) {
	i := int(letter - 'A')
	if i < 0 || i >= 26 {
		return 0, false
	}
	return l.BoxColors[i], l.hasBoxColor[i]
}
