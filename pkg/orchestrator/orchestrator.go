// Package orchestrator runs one request end to end: plan, start a browser
// session, execute every action, summarize, and close the session.
//
// An Orchestrator holds no per-task state, so one value can serve
// concurrent requests; each ExecuteTask call gets its own session.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/browser"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/logging"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/metrics"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/telemetry"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/types"
)

// Planner produces a non-empty plan for a request.
type Planner interface {
	Plan(ctx context.Context, request string) []types.Action
}

// Executor runs one action; failures are reported in the entry.
type Executor interface {
	Execute(ctx context.Context, page browser.Page, action types.Action) types.ExecutionLogEntry
}

// Summarizer turns the extracted text into the final answer.
type Summarizer interface {
	Summarize(ctx context.Context, extracted, request string) types.SummaryResult
}

// Orchestrator sequences Planner, Executor and Summarizer around a
// browser session.
type Orchestrator struct {
	planner    Planner
	launcher   browser.Launcher
	executor   Executor
	summarizer Summarizer
	logger     *logging.Logger
	metrics    *metrics.Collector
	newID      func() string
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the orchestrator logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = l
	}
}

// WithMetrics records task outcomes on m.
func WithMetrics(m *metrics.Collector) Option {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

// WithIDGenerator overrides task ID generation.
func WithIDGenerator(fn func() string) Option {
	return func(o *Orchestrator) {
		o.newID = fn
	}
}

// New creates an Orchestrator.
func New(planner Planner, launcher browser.Launcher, executor Executor, summarizer Summarizer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		planner:    planner,
		launcher:   launcher,
		executor:   executor,
		summarizer: summarizer,
		logger:     logging.Nop(),
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// TaskOption configures a single ExecuteTask call.
type TaskOption func(*task)

// WithEvents delivers progress events for the task to sink.
func WithEvents(sink types.EventSink) TaskOption {
	return func(t *task) {
		t.sink = sink
	}
}

// task is the state of one ExecuteTask call.
type task struct {
	id     string
	sink   types.EventSink
	state  State
	logger *logging.Logger
}

func (t *task) enter(next State) {
	if !CanTransition(t.state, next) {
		t.logger.Warnf("unexpected state transition %s -> %s", t.state, next)
	}
	t.state = next
}

// ExecuteTask runs request to completion. Only a session start failure, a
// cancelled context or a panic yields Success=false; failed actions are
// recorded in the log and the run continues. The session, once started,
// is closed exactly once before ExecuteTask returns.
func (o *Orchestrator) ExecuteTask(ctx context.Context, request string, opts ...TaskOption) (result types.TaskResult) {
	t := &task{id: o.newID(), state: StateIdle}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = o.logger.With("task_id", t.id)

	started := time.Now()
	result = types.TaskResult{ID: t.id, Request: request, StartedAt: started, Log: []types.ExecutionLogEntry{}}

	ctx, span := telemetry.Start(ctx, "task", attribute.String("task.id", t.id))

	var session browser.Session
	defer func() {
		if r := recover(); r != nil {
			t.logger.Errorf("task panicked: %v", r)
			result.Success = false
			result.Error = fmt.Sprintf("task panicked: %v", r)
		}
		if session != nil {
			if err := session.Close(); err != nil {
				t.logger.Warnf("failed to close browser session: %v", err)
			}
		}
		t.enter(StateClosed)

		result.ActionsExecuted = len(result.Log)
		result.Duration = time.Since(started)
		o.metrics.RecordTask(result.Success, result.Duration)

		var taskErr error
		if !result.Success {
			taskErr = errors.New(result.Error)
			t.sink.Emit(types.NewFailedEvent(result))
		} else {
			t.sink.Emit(types.NewCompletedEvent(result))
		}
		telemetry.End(span, taskErr)
		t.logger.Infof("task finished success=%t actions=%d failed=%d in %s",
			result.Success, result.ActionsExecuted, result.FailedActions(), result.Duration.Round(time.Millisecond))
	}()

	t.enter(StatePlanning)
	t.sink.Emit(types.NewPlanningEvent(t.id, request))
	plan := o.plan(ctx, request)
	t.sink.Emit(types.NewPlanReadyEvent(t.id, len(plan)))
	t.logger.Infof("planned %d actions", len(plan))

	t.enter(StateBrowserStarting)
	t.sink.Emit(types.NewBrowserStartingEvent(t.id))
	var err error
	session, err = o.startSession(ctx)
	if err != nil {
		result.Error = fmt.Sprintf("failed to start browser session: %v", err)
		return result
	}

	extracted := ""
	for i, action := range plan {
		if err := ctx.Err(); err != nil {
			result.Error = fmt.Sprintf("task cancelled: %v", err)
			return result
		}

		t.enter(StateExecuting)
		step := i + 1
		t.sink.Emit(types.NewActionStartEvent(t.id, step, len(plan), action))
		t.logger.Debugf("executing action %d/%d: %s", step, len(plan), action)

		entry := o.execute(ctx, session.Page(), action, step)
		result.Log = append(result.Log, entry)
		if action.Kind == types.ActionExtract {
			extracted = entry.Outcome
		}
		t.sink.Emit(types.NewActionDoneEvent(t.id, step, len(plan), entry))
	}
	if err := ctx.Err(); err != nil {
		result.Error = fmt.Sprintf("task cancelled: %v", err)
		return result
	}

	t.enter(StateSummarizing)
	t.sink.Emit(types.NewSummarizingEvent(t.id))
	result.ExtractedText = extracted
	result.Summary = o.summarize(ctx, extracted, request)
	result.Success = true
	return result
}

func (o *Orchestrator) plan(ctx context.Context, request string) []types.Action {
	ctx, span := telemetry.Start(ctx, "plan")
	defer span.End()
	plan := o.planner.Plan(ctx, request)
	span.SetAttributes(attribute.Int("plan.actions", len(plan)))
	return plan
}

func (o *Orchestrator) startSession(ctx context.Context) (browser.Session, error) {
	ctx, span := telemetry.Start(ctx, "browser.start")
	session, err := o.launcher.Start(ctx)
	telemetry.End(span, err)
	return session, err
}

func (o *Orchestrator) execute(ctx context.Context, page browser.Page, action types.Action, step int) types.ExecutionLogEntry {
	ctx, span := telemetry.Start(ctx, "action",
		attribute.String("action.kind", string(action.Kind)),
		attribute.Int("action.step", step))
	entry := o.executor.Execute(ctx, page, action)
	var err error
	if entry.Failed {
		err = errors.New(entry.Outcome)
	}
	telemetry.End(span, err)
	return entry
}

func (o *Orchestrator) summarize(ctx context.Context, extracted, request string) types.SummaryResult {
	ctx, span := telemetry.Start(ctx, "summarize")
	defer span.End()
	summary := o.summarizer.Summarize(ctx, extracted, request)
	span.SetAttributes(attribute.String("summary.format", string(summary.Format)))
	return summary
}
