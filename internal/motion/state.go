// internal/motion/state.go
package motion

// State is the phase a move is in.
type State int

const (
	StateIdle State = iota
	StateExecutingLeg
	StateStepLoop
	StateLegSettle
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateExecutingLeg:
		return "executing_leg"
	case StateStepLoop:
		return "step_loop"
	case StateLegSettle:
		return "leg_settle"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}
