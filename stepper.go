package gridplan

import (
	"github.com/pdrpinto/gridplan/level"
)

// BoxCell is one occupied box cell in a snapshot.
type BoxCell struct {
	Pos    level.Position `json:"pos"`
	Letter string         `json:"letter"`
}

// StepSnapshot exposes the per-iteration state of the search.
type StepSnapshot struct {
	StepIndex int              `json:"step"`
	Agents    []level.Position `json:"agents"`
	Boxes     []BoxCell        `json:"boxes"`
	G         int              `json:"g"`
	Expanded  int              `json:"expanded"`
	Frontier  int              `json:"frontier"`
	Generated int              `json:"generated"`
	Phase     Phase            `json:"phase"`
	Done      bool             `json:"done"`
	Found     bool             `json:"found"`
	Plan      []string         `json:"plan,omitempty"`
}

// Stepper runs the same search loop as Search one expansion at a time,
// for driving UIs or debugging tools. It is not safe for concurrent use.
type Stepper struct {
	frontier  Frontier
	explored  map[string]struct{}
	phases    *phaseTracker
	budget    *Budget
	generated int
	steps     int

	done  bool
	found bool
	last  *State
	plan  [][]Action
}

// NewStepper seeds the frontier with the initial state.
func NewStepper(initial *State, frontier Frontier, options ...Option) (*Stepper, error) {
	searchOptions := Options{Budget: NewBudget(0, 0)}
	for _, option := range options {
		option(&searchOptions)
	}
	phases, err := newPhaseTracker()
	if err != nil {
		return nil, err
	}
	frontier.Add(initial)
	phases.fire(eventExpand)
	return &Stepper{
		frontier:  frontier,
		explored:  make(map[string]struct{}),
		phases:    phases,
		budget:    searchOptions.Budget,
		generated: 1,
		last:      initial,
	}, nil
}

// Close releases the phase machine.
func (s *Stepper) Close() {
	s.phases.stop()
}

// Step advances the search by one expansion and returns a snapshot. Once
// the search is done, further calls return the final snapshot unchanged.
func (s *Stepper) Step() (StepSnapshot, error) {
	if s.done {
		return s.snapshot(), nil
	}

	if s.budget.Exceeded() {
		s.done = true
		s.phases.fire(eventBudget)
		return s.snapshot(), ErrBudgetExceeded
	}

	if s.frontier.IsEmpty() {
		s.done = true
		s.phases.fire(eventExhaust)
		return s.snapshot(), ErrNoSolution
	}

	state := s.frontier.Pop()
	s.last = state
	s.steps++

	if state.IsGoal() {
		s.done = true
		s.found = true
		s.plan = state.ExtractPlan()
		s.phases.fire(eventGoal)
		return s.snapshot(), nil
	}

	s.explored[state.Key()] = struct{}{}
	for _, child := range state.Expand() {
		s.generated++
		if _, seen := s.explored[child.Key()]; seen {
			continue
		}
		if !s.frontier.Contains(child) {
			s.frontier.Add(child)
		}
	}
	return s.snapshot(), nil
}

// Done reports whether the search has terminated.
func (s *Stepper) Done() bool { return s.done }

func (s *Stepper) snapshot() StepSnapshot {
	snap := StepSnapshot{
		StepIndex: s.steps,
		G:         s.last.G(),
		Expanded:  len(s.explored),
		Frontier:  s.frontier.Size(),
		Generated: s.generated,
		Phase:     s.phases.Phase(),
		Done:      s.done,
		Found:     s.found,
	}
	snap.Agents = append(snap.Agents, s.last.agents...)
	for r := range s.last.boxes {
		for c, letter := range s.last.boxes[r] {
			if letter == 0 {
				continue
			}
			snap.Boxes = append(snap.Boxes, BoxCell{
				Pos:    level.Position{Row: r, Col: c},
				Letter: string(letter),
			})
		}
	}
	for _, joint := range s.plan {
		snap.Plan = append(snap.Plan, FormatJoint(joint))
	}
	return snap
}
