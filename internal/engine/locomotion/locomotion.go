// Package locomotion holds the five-state machine that classifies how an
// agent currently moves. Transitions are pure predicate evaluation over
// per-tick facts; side effects happen only through the entry hook.
package locomotion

// State is the locomotion mode of an agent.
type State int

// Locomotion states. An agent starts Falling until the first ground check
// says otherwise.
const (
	Grounded State = iota
	Falling
	Sliding
	Rising
	Jumping
)

func (s State) String() string {
	switch s {
	case Grounded:
		return "grounded"
	case Falling:
		return "falling"
	case Sliding:
		return "sliding"
	case Rising:
		return "rising"
	case Jumping:
		return "jumping"
	default:
		return "unknown"
	}
}

// Inputs are the facts a transition step is decided on. The caller gathers
// them once per tick; the machine never reaches back into the simulation.
type Inputs struct {
	Grounded      bool    // ground sensor found ground
	TooSteep      bool    // ground exists but exceeds the slope limit
	VerticalSpeed float32 // momentum along up, signed
	CeilingHit    bool    // ceiling contact latched this tick
	JumpRequested bool    // jump input active and allowed
	JumpTimerDone bool    // the jump-duration countdown elapsed
}

// EnterFunc runs exactly once whenever the machine enters a state it was
// not in before.
type EnterFunc func(from, to State)

// Machine steps an agent through the locomotion states.
type Machine struct {
	state   State
	onEnter EnterFunc
}

// NewMachine returns a machine in the Falling state. onEnter may be nil.
func NewMachine(onEnter EnterFunc) *Machine {
	return &Machine{state: Falling, onEnter: onEnter}
}

// State returns the current locomotion state.
func (m *Machine) State() State {
	return m.state
}

// Step evaluates the transition predicates for the current state in
// priority order, first true wins, and performs at most one transition.
// It returns the state after the step and whether a transition happened.
func (m *Machine) Step(in Inputs) (State, bool) {
	next, ok := Next(m.state, in)
	if !ok {
		return m.state, false
	}
	from := m.state
	m.state = next
	if m.onEnter != nil {
		m.onEnter(from, next)
	}
	return next, true
}

// Next returns the transition the inputs demand from the given state, or
// ok=false when none fires. It is a pure function, the full transition
// table in one place.
func Next(s State, in Inputs) (State, bool) {
	switch s {
	case Grounded:
		switch {
		case in.VerticalSpeed > 0:
			return Rising, true
		case in.Grounded && in.TooSteep:
			return Sliding, true
		case !in.Grounded:
			return Falling, true
		case in.JumpRequested:
			return Jumping, true
		}
	case Falling:
		switch {
		case in.VerticalSpeed > 0:
			return Rising, true
		case in.Grounded && !in.TooSteep:
			return Grounded, true
		case in.Grounded && in.TooSteep:
			return Sliding, true
		}
	case Sliding:
		switch {
		case in.VerticalSpeed > 0:
			return Rising, true
		case !in.Grounded:
			return Falling, true
		case in.Grounded && !in.TooSteep:
			return Grounded, true
		}
	case Rising:
		switch {
		case in.Grounded && !in.TooSteep:
			return Grounded, true
		case in.Grounded && in.TooSteep:
			return Sliding, true
		case in.VerticalSpeed < 0 || in.CeilingHit:
			return Falling, true
		}
	case Jumping:
		switch {
		case in.JumpTimerDone:
			return Rising, true
		case in.CeilingHit:
			return Falling, true
		}
	}
	return s, false
}
