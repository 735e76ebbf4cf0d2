package types

import "fmt"

// ActionKind identifies a single browser step in a plan.
type ActionKind string

const (
	ActionNavigate ActionKind = "navigate" // ActionNavigate loads a URL in the session page.
	ActionType     ActionKind = "type"     // ActionType fills a form field.
	ActionClick    ActionKind = "click"    // ActionClick clicks an element.
	ActionWait     ActionKind = "wait"     // ActionWait pauses for a number of milliseconds.
	ActionExtract  ActionKind = "extract"  // ActionExtract reads text content from the page.
	ActionScroll   ActionKind = "scroll"   // ActionScroll scrolls to the bottom of the page.
)

// IsKnown reports whether the executor has a handler for the kind.
func (k ActionKind) IsKnown() bool {
	switch k {
	case ActionNavigate, ActionType, ActionClick, ActionWait, ActionExtract, ActionScroll:
		return true
	}
	return false
}

// Action is one step of a plan produced by the planner.
// Selector and Value are optional and interpreted per kind.
type Action struct {
	Kind        ActionKind `json:"action" yaml:"action"`
	Selector    string     `json:"selector,omitempty" yaml:"selector,omitempty"`
	Value       string     `json:"value,omitempty" yaml:"value,omitempty"`
	Description string     `json:"description" yaml:"description"`
}

func (a Action) String() string {
	if a.Description != "" {
		return fmt.Sprintf("%s: %s", a.Kind, a.Description)
	}
	return string(a.Kind)
}

// ExecutionLogEntry records what happened when one action ran.
// Failed is the per-action tag: an action that fails never fails the task.
type ExecutionLogEntry struct {
	Action  Action `json:"action"`
	Outcome string `json:"result"`
	Failed  bool   `json:"failed"`
}

// NewOutcome returns a successful log entry.
func NewOutcome(action Action, outcome string) ExecutionLogEntry {
	return ExecutionLogEntry{Action: action, Outcome: outcome}
}

// NewFailedOutcome returns a log entry for an action that could not complete.
func NewFailedOutcome(action Action, outcome string) ExecutionLogEntry {
	return ExecutionLogEntry{Action: action, Outcome: outcome, Failed: true}
}
