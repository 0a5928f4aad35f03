package level

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrMalformed is wrapped by every validation failure raised while reading
// a level: wall mismatch between the initial and goal maps, duplicate or
// non-dense agent ids, unknown colors, entities without an assigned color.
var ErrMalformed = errors.New("malformed level")

// Parse reads a level in the plaintext hospital format:
//
//	#domain
//	hospital
//	#levelname
//	<name>
//	#colors
//	red: 0, A
//	#initial
//	<map rows; '+' wall, '0'..'9' agent, 'A'..'Z' box, ' ' free>
//	#goal
//	<map rows, same walls>
//	#end
//
// Parse consumes exactly through the #end line, so it can read a level off
// a shared stream (the server protocol sends one on the same connection).
func Parse(r io.Reader) (*Level, error) {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	p := &parser{r: br}
	return p.parse()
}

type parser struct {
	r    *bufio.Reader
	line int
}

func (p *parser) next() (string, error) {
	s, err := p.r.ReadString('\n')
	if err != nil && (err != io.EOF || s == "") {
		return "", fmt.Errorf("%w: unexpected end of level at line %d", ErrMalformed, p.line)
	}
	p.line++
	return strings.TrimRight(s, "\r\n"), nil
}

func (p *parser) expect(header string) error {
	s, err := p.next()
	if err != nil {
		return err
	}
	if s != header {
		return fmt.Errorf("%w: expected %q at line %d, got %q", ErrMalformed, header, p.line, s)
	}
	return nil
}

func (p *parser) parse() (*Level, error) {
	lv := &Level{}

	if err := p.expect("#domain"); err != nil {
		return nil, err
	}
	domain, err := p.next()
	if err != nil {
		return nil, err
	}
	lv.Domain = domain

	if err := p.expect("#levelname"); err != nil {
		return nil, err
	}
	name, err := p.next()
	if err != nil {
		return nil, err
	}
	lv.Name = name

	if err := p.expect("#colors"); err != nil {
		return nil, err
	}
	agentColors := map[int]Color{}
	line, err := p.next()
	if err != nil {
		return nil, err
	}
	for line != "#initial" {
		if err := p.parseColorLine(lv, line, agentColors); err != nil {
			return nil, err
		}
		if line, err = p.next(); err != nil {
			return nil, err
		}
	}

	initialRows, goalRows := []string{}, []string{}
	if line, err = p.next(); err != nil {
		return nil, err
	}
	for line != "#goal" {
		initialRows = append(initialRows, line)
		if line, err = p.next(); err != nil {
			return nil, err
		}
	}
	if line, err = p.next(); err != nil {
		return nil, err
	}
	for line != "#end" {
		goalRows = append(goalRows, line)
		if line, err = p.next(); err != nil {
			return nil, err
		}
	}

	if err := p.buildGrids(lv, initialRows, goalRows, agentColors); err != nil {
		return nil, err
	}
	return lv, nil
}

// parseColorLine handles one "red: 0, A, B" assignment.
func (p *parser) parseColorLine(lv *Level, line string, agentColors map[int]Color) error {
	name, rest, found := strings.Cut(line, ":")
	if !found {
		return fmt.Errorf("%w: bad color line %q", ErrMalformed, line)
	}
	color, err := ParseColor(strings.TrimSpace(name))
	if err != nil {
		return err
	}
	for _, tok := range strings.Split(rest, ",") {
		tok = strings.TrimSpace(tok)
		if len(tok) != 1 {
			return fmt.Errorf("%w: bad color entity %q", ErrMalformed, tok)
		}
		switch c := tok[0]; {
		case c >= '0' && c <= '9':
			id := int(c - '0')
			if _, dup := agentColors[id]; dup {
				return fmt.Errorf("%w: agent %d assigned two colors", ErrMalformed, id)
			}
			agentColors[id] = color
		case c >= 'A' && c <= 'Z':
			if lv.hasBoxColor[c-'A'] {
				return fmt.Errorf("%w: box %c assigned two colors", ErrMalformed, c)
			}
			lv.BoxColors[c-'A'] = color
			lv.hasBoxColor[c-'A'] = true
		default:
			return fmt.Errorf("%w: bad color entity %q", ErrMalformed, tok)
		}
	}
	return nil
}

func (p *parser) buildGrids(lv *Level, initial, goal []string, agentColors map[int]Color) error {
	rows := len(initial)
	cols := 0
	for _, r := range initial {
		if len(r) > cols {
			cols = len(r)
		}
	}
	if rows == 0 || cols == 0 {
		return fmt.Errorf("%w: empty initial map", ErrMalformed)
	}
	lv.Rows, lv.Cols = rows, cols

	lv.Walls = make([][]bool, rows)
	lv.Boxes = make([][]byte, rows)
	lv.Goals = make([][]byte, rows)
	for r := 0; r < rows; r++ {
		lv.Walls[r] = make([]bool, cols)
		lv.Boxes[r] = make([]byte, cols)
		lv.Goals[r] = make([]byte, cols)
	}

	agents := map[int]Position{}
	for r, row := range initial {
		for c := 0; c < len(row); c++ {
			switch ch := row[c]; {
			case ch == '+':
				lv.Walls[r][c] = true
			case ch >= '0' && ch <= '9':
				id := int(ch - '0')
				if _, dup := agents[id]; dup {
					return fmt.Errorf("%w: duplicate agent %d", ErrMalformed, id)
				}
				if _, ok := agentColors[id]; !ok {
					return fmt.Errorf("%w: agent %d has no color", ErrMalformed, id)
				}
				agents[id] = Position{r, c}
			case ch >= 'A' && ch <= 'Z':
				if !lv.hasBoxColor[ch-'A'] {
					return fmt.Errorf("%w: box %c has no color", ErrMalformed, ch)
				}
				lv.Boxes[r][c] = ch
			case ch == ' ':
			default:
				return fmt.Errorf("%w: bad map character %q", ErrMalformed, ch)
			}
		}
	}

	// Agent ids must be dense 0..N-1.
	lv.AgentColors = make([]Color, len(agents))
	lv.Agents = make([]Position, len(agents))
	for id := 0; id < len(agents); id++ {
		pos, ok := agents[id]
		if !ok {
			return fmt.Errorf("%w: agent ids not dense, missing %d", ErrMalformed, id)
		}
		lv.Agents[id] = pos
		lv.AgentColors[id] = agentColors[id]
	}
	if len(agents) == 0 {
		return fmt.Errorf("%w: no agents", ErrMalformed)
	}

	if len(goal) != rows {
		return fmt.Errorf("%w: goal map has %d rows, initial has %d", ErrMalformed, len(goal), rows)
	}
	for r, row := range goal {
		for c := 0; c < cols; c++ {
			ch := byte(' ')
			if c < len(row) {
				ch = row[c]
			}
			wall := ch == '+'
			if wall != lv.Walls[r][c] {
				return fmt.Errorf("%w: wall mismatch at (%d,%d)", ErrMalformed, r, c)
			}
			switch {
			case wall || ch == ' ':
			case ch >= '0' && ch <= '9':
				if int(ch-'0') >= len(agents) {
					return fmt.Errorf("%w: goal for unknown agent %c", ErrMalformed, ch)
				}
				lv.Goals[r][c] = ch
			case ch >= 'A' && ch <= 'Z':
				if !lv.hasBoxColor[ch-'A'] {
					return fmt.Errorf("%w: goal for box %c with no color", ErrMalformed, ch)
				}
				lv.Goals[r][c] = ch
			default:
				return fmt.Errorf("%w: bad goal character %q", ErrMalformed, ch)
			}
			if lv.Goals[r][c] != 0 {
				lv.GoalCells = append(lv.GoalCells, Goal{Pos: Position{r, c}, Need: lv.Goals[r][c]})
			}
		}
	}
	return nil
}
