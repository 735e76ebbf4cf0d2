package orchestrator

// State is a stage of one task run.
type State string

const (
	StateIdle            State = "idle"
	StatePlanning        State = "planning"
	StateBrowserStarting State = "browser_starting"
	StateExecuting       State = "executing"
	StateSummarizing     State = "summarizing"
	StateClosed          State = "closed"
)

// transitions lists the forward edges; any state may also move to Closed.
var transitions = map[State][]State{
	StateIdle:            {StatePlanning},
	StatePlanning:        {StateBrowserStarting},
	StateBrowserStarting: {StateExecuting, StateSummarizing},
	StateExecuting:       {StateExecuting, StateSummarizing},
	StateSummarizing:     {},
}

// CanTransition reports whether a task may move from one state to another.
func CanTransition(from, to State) bool {
	if to == StateClosed {
		return from != StateClosed
	}
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
