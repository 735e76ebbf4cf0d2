package types

// TaskEventType defines the type of progress event emitted while a task runs.
type TaskEventType string

const (
	EventTypePlanning        TaskEventType = "planning"         // EventTypePlanning indicates the planner has been invoked.
	EventTypePlanReady       TaskEventType = "plan_ready"       // EventTypePlanReady indicates a plan is available.
	EventTypeBrowserStarting TaskEventType = "browser_starting" // EventTypeBrowserStarting indicates a session is being launched.
	EventTypeActionStart     TaskEventType = "action_start"     // EventTypeActionStart indicates an action is about to run.
	EventTypeActionDone      TaskEventType = "action_done"      // EventTypeActionDone indicates an action has produced its outcome.
	EventTypeSummarizing     TaskEventType = "summarizing"      // EventTypeSummarizing indicates the summarizer has been invoked.
	EventTypeCompleted       TaskEventType = "completed"        // EventTypeCompleted indicates the task finished with a result.
	EventTypeFailed          TaskEventType = "failed"           // EventTypeFailed indicates the task ended without running its plan.
)

// TaskEvent reports progress of a single task. Events are informational;
// a task behaves identically whether or not anyone consumes them.
type TaskEvent struct {
	// Metadata holds optional additional information about the event.
	Metadata map[string]interface{}

	// Action is the action being run (for action events).
	Action *Action

	// Entry is the outcome of the action (for action_done events).
	Entry *ExecutionLogEntry

	// Result is the final task result (for completed and failed events).
	Result *TaskResult

	// TaskID identifies the task the event belongs to.
	TaskID string

	// Message holds human readable detail.
	Message string

	// Type indicates the kind of event.
	Type TaskEventType

	// Step is the 1-based action index, Total the plan length.
	Step  int
	Total int
}

// EventSink receives task events. Implementations must not block for long.
type EventSink func(*TaskEvent)

// Emit delivers ev if the sink is non-nil.
func (s EventSink) Emit(ev *TaskEvent) {
	if s != nil {
		s(ev)
	}
}

// NewPlanningEvent creates a planning event.
func NewPlanningEvent(taskID, request string) *TaskEvent {
	return &TaskEvent{Type: EventTypePlanning, TaskID: taskID, Message: request}
}

// NewPlanReadyEvent creates a plan_ready event.
func NewPlanReadyEvent(taskID string, total int) *TaskEvent {
	return &TaskEvent{Type: EventTypePlanReady, TaskID: taskID, Total: total}
}

// NewBrowserStartingEvent creates a browser_starting event.
func NewBrowserStartingEvent(taskID string) *TaskEvent {
	return &TaskEvent{Type: EventTypeBrowserStarting, TaskID: taskID}
}

// NewActionStartEvent creates an action_start event.
func NewActionStartEvent(taskID string, step, total int, action Action) *TaskEvent {
	return &TaskEvent{Type: EventTypeActionStart, TaskID: taskID, Step: step, Total: total, Action: &action}
}

// NewActionDoneEvent creates an action_done event.
func NewActionDoneEvent(taskID string, step, total int, entry ExecutionLogEntry) *TaskEvent {
	return &TaskEvent{
		Type:    EventTypeActionDone,
		TaskID:  taskID,
		Step:    step,
		Total:   total,
		Action:  &entry.Action,
		Entry:   &entry,
		Message: entry.Outcome,
	}
}

// NewSummarizingEvent creates a summarizing event.
func NewSummarizingEvent(taskID string) *TaskEvent {
	return &TaskEvent{Type: EventTypeSummarizing, TaskID: taskID}
}

// NewCompletedEvent creates a completed event carrying the result.
func NewCompletedEvent(result TaskResult) *TaskEvent {
	return &TaskEvent{Type: EventTypeCompleted, TaskID: result.ID, Result: &result}
}

// NewFailedEvent creates a failed event carrying the result.
func NewFailedEvent(result TaskResult) *TaskEvent {
	return &TaskEvent{Type: EventTypeFailed, TaskID: result.ID, Result: &result, Message: result.Error}
}

// WithMetadata adds metadata to the event and returns the event for chaining.
func (e *TaskEvent) WithMetadata(key string, value interface{}) *TaskEvent {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// IsActionEvent returns true if this is an action-related event.
func (e *TaskEvent) IsActionEvent() bool {
	return e.Type == EventTypeActionStart || e.Type == EventTypeActionDone
}

// IsTerminal returns true if no further events follow for the task.
func (e *TaskEvent) IsTerminal() bool {
	return e.Type == EventTypeCompleted || e.Type == EventTypeFailed
}
