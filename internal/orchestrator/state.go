package orchestrator

import "fmt"

// State is the generation run state. Transitions are one-directional per
// run: Idle through Completed in order, Failed reachable from any
// non-terminal state, ShuttingDown triggered externally.
type State int32

const (
	StateIdle State = iota
	StateAnalyzing
	StateStrategizing
	StateGenerating
	StateOptimizing
	StateValidating
	StateCompleted
	StateFailed
	StateShuttingDown
)

// String makes State satisfy fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateAnalyzing:
		return "Analyzing"
	case StateStrategizing:
		return "Strategizing"
	case StateGenerating:
		return "Generating"
	case StateOptimizing:
		return "Optimizing"
	case StateValidating:
		return "Validating"
	case StateCompleted:
		return "Completed"
	case StateFailed:
		return "Failed"
	case StateShuttingDown:
		return "ShuttingDown"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Terminal reports whether no further transition can occur.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}
