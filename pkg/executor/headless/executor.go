package headless

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/logging"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/orchestrator"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/types"
)

// Runner executes a single navigation request.
type Runner interface {
	ExecuteTask(ctx context.Context, request string, opts ...orchestrator.TaskOption) types.TaskResult
}

// Executor runs a batch of navigation requests and writes a report
type Executor struct {
	runner         Runner
	config         *Config
	artifactWriter *ArtifactWriter
	console        *Logger
	logger         *logging.Logger
	now            func() time.Time
}

// Option configures an Executor.
type Option func(*Executor)

// WithWriter sends console output to w instead of stdout.
func WithWriter(w io.Writer) Option {
	return func(e *Executor) {
		e.console = NewLogger(parseLogLevel(e.config.Logging.Verbosity), w)
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *Executor) {
		e.logger = l
	}
}

// NewExecutor creates a batch executor around runner.
func NewExecutor(runner Runner, config *Config, opts ...Option) (*Executor, error) {
	if runner == nil {
		return nil, fmt.Errorf("runner is required")
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	e := &Executor{
		runner:         runner,
		config:         config,
		artifactWriter: NewArtifactWriter(config.OutputDir, config.Artifacts.Markdown),
		console:        NewLogger(parseLogLevel(config.Logging.Verbosity), nil),
		logger:         logging.Nop(),
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Run executes every task in order. Without continue_on_failure the first
// failed task skips the rest. The returned error reports report-writing
// problems only; task failures are in the summary.
func (e *Executor) Run(ctx context.Context) (*BatchSummary, error) {
	summary := &BatchSummary{
		Status:    statusFailed,
		StartTime: e.now(),
		Tasks:     make([]TaskReport, 0, len(e.config.Tasks)),
	}
	e.console.Header(fmt.Sprintf("Web Navigator batch: %d tasks", len(e.config.Tasks)))

	stop := false
	for _, spec := range e.config.Tasks {
		if stop || ctx.Err() != nil {
			summary.Tasks = append(summary.Tasks, TaskReport{Name: spec.Name, Request: spec.Request, Skipped: true})
			summary.Metrics.Skipped++
			continue
		}

		report := e.runTask(ctx, spec)
		summary.Tasks = append(summary.Tasks, report)
		summary.Metrics.ActionsExecuted += report.Result.ActionsExecuted
		summary.Metrics.FailedActions += report.Result.FailedActions()
		if report.Result.FileCreated() {
			summary.Metrics.FilesCreated++
		}
		if report.Passed {
			summary.Metrics.Passed++
			continue
		}
		summary.Metrics.Failed++
		if !e.config.ContinueOnFailure {
			stop = true
		}
	}

	summary.EndTime = e.now()
	summary.Duration = summary.EndTime.Sub(summary.StartTime)
	summary.Status = summary.Metrics.status()

	e.console.Summary(summary)
	e.logger.Infof("batch finished: status=%s passed=%d failed=%d skipped=%d",
		summary.Status, summary.Metrics.Passed, summary.Metrics.Failed, summary.Metrics.Skipped)

	if err := e.artifactWriter.WriteAll(summary); err != nil {
		return summary, fmt.Errorf("failed to write batch report: %w", err)
	}
	return summary, nil
}

func (e *Executor) runTask(ctx context.Context, spec TaskSpec) TaskReport {
	e.console.Step(fmt.Sprintf("%s: %s", spec.Name, spec.Request))

	taskCtx := ctx
	if e.config.TaskTimeout > 0 {
		var cancel context.CancelFunc
		taskCtx, cancel = context.WithTimeout(ctx, e.config.TaskTimeout)
		defer cancel()
	}

	result := e.runner.ExecuteTask(taskCtx, spec.Request, orchestrator.WithEvents(e.console.Action))
	checks, passed := RunChecks(CreateChecks(spec.Expect), result)
	for _, c := range checks {
		e.console.Check(c)
	}

	if passed {
		e.console.Successf("%s passed in %s", spec.Name, result.Duration.Round(time.Millisecond))
	} else {
		e.console.Errorf("%s failed", spec.Name)
		e.logger.Warnf("batch task %s failed: %s", spec.Name, result.Error)
	}

	return TaskReport{
		Name:    spec.Name,
		Request: spec.Request,
		Result:  result,
		Checks:  checks,
		Passed:  passed,
	}
}
