package gridplan

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// Phase is the driver's position in its lifecycle. GoalFound, Exhausted
// and OutOfBudget are terminal; the driver never resumes from them.
type Phase string

const (
	PhaseInitializing Phase = "initializing"
	PhaseExpanding    Phase = "expanding"
	PhaseGoalFound    Phase = "goal_found"
	PhaseExhausted    Phase = "exhausted"
	PhaseOutOfBudget  Phase = "out_of_budget"
)

const (
	stateInitializing = statekit.StateID(PhaseInitializing)
	stateExpanding    = statekit.StateID(PhaseExpanding)
	stateGoalFound    = statekit.StateID(PhaseGoalFound)
	stateExhausted    = statekit.StateID(PhaseExhausted)
	stateOutOfBudget  = statekit.StateID(PhaseOutOfBudget)
)

const (
	eventExpand  statekit.EventType = "EXPAND"
	eventGoal    statekit.EventType = "GOAL"
	eventExhaust statekit.EventType = "EXHAUST"
	eventBudget  statekit.EventType = "BUDGET"
)

// phaseContext carries bookkeeping through the machine.
type phaseContext struct {
	transitions int
}

func recordPhase(ctx **phaseContext, _ statekit.Event) {
	(*ctx).transitions++
}

func newPhaseMachine() (*statekit.MachineConfig[*phaseContext], error) {
	return statekit.NewMachine[*phaseContext]("graph-search").
		WithInitial(stateInitializing).
		WithContext(&phaseContext{}).
		WithAction("record", recordPhase).
		State(stateInitializing).
		On(eventExpand).Target(stateExpanding).Do("record").
		Done().
		State(stateExpanding).
		On(eventGoal).Target(stateGoalFound).Do("record").
		On(eventExhaust).Target(stateExhausted).Do("record").
		On(eventBudget).Target(stateOutOfBudget).Do("record").
		Done().
		State(stateGoalFound).Final().Done().
		State(stateExhausted).Final().Done().
		State(stateOutOfBudget).Final().Done().
		Build()
}

// phaseTracker wraps the machine interpreter for the driver.
type phaseTracker struct {
	interp *statekit.Interpreter[*phaseContext]
	ctx    *phaseContext
}

func newPhaseTracker() (*phaseTracker, error) {
	machine, err := newPhaseMachine()
	if err != nil {
		return nil, fmt.Errorf("build phase machine: %w", err)
	}
	ctx := &phaseContext{}
	interp := statekit.NewInterpreter(machine)
	interp.UpdateContext(func(c **phaseContext) { *c = ctx })
	interp.Start()
	return &phaseTracker{interp: interp, ctx: ctx}, nil
}

func (p *phaseTracker) fire(event statekit.EventType) {
	p.interp.Send(statekit.Event{Type: event})
}

func (p *phaseTracker) Phase() Phase {
	return Phase(p.interp.State().Value)
}

func (p *phaseTracker) Terminal() bool {
	return p.interp.Done()
}

func (p *phaseTracker) stop() {
	p.interp.Stop()
}
