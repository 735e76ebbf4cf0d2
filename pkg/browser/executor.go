package browser

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/logging"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/metrics"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/types"
)

// Defaults applied when an action leaves a field empty.
const (
	DefaultTypeSelector    = "textarea[name='q'], input[name='q']"
	DefaultClickSelector   = "input[value='Google Search'], button[type='submit']"
	DefaultExtractSelector = ".g, .rc, .tF2Cxc, .MjjYud, .sh-dlr__content"
	DefaultWait            = 2000 * time.Millisecond
	DefaultSettleDelay     = 3000 * time.Millisecond

	// ScrollScript scrolls the page to its bottom.
	ScrollScript = "window.scrollTo(0, document.body.scrollHeight)"
)

// Executor runs single actions against a Page.
type Executor struct {
	policy     *HostPolicy
	strategies []Strategy
	settle     time.Duration
	logger     *logging.Logger
	metrics    *metrics.Collector
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithHostPolicy restricts navigate actions.
func WithHostPolicy(p *HostPolicy) ExecutorOption {
	return func(e *Executor) {
		e.policy = p
	}
}

// WithSettleDelay sets the pause before extraction.
func WithSettleDelay(d time.Duration) ExecutorOption {
	return func(e *Executor) {
		e.settle = d
	}
}

// WithStrategies replaces the extraction strategies. They are tried in order.
func WithStrategies(s ...Strategy) ExecutorOption {
	return func(e *Executor) {
		e.strategies = s
	}
}

// WithLogger sets the executor logger.
func WithLogger(l *logging.Logger) ExecutorOption {
	return func(e *Executor) {
		e.logger = l
	}
}

// WithMetrics records every action outcome on m.
func WithMetrics(m *metrics.Collector) ExecutorOption {
	return func(e *Executor) {
		e.metrics = m
	}
}

// NewExecutor creates an Executor with the default extraction strategies.
func NewExecutor(opts ...ExecutorOption) *Executor {
	e := &Executor{
		strategies: DefaultStrategies(),
		settle:     DefaultSettleDelay,
		logger:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs action on page. It never fails: errors, including panics
// raised by the page, become a failed entry whose outcome describes them.
func (e *Executor) Execute(ctx context.Context, page Page, action types.Action) (entry types.ExecutionLogEntry) {
	defer func() {
		if r := recover(); r != nil {
			entry = types.NewFailedOutcome(action, fmt.Sprintf("Error executing %s: panic: %v", action.Kind, r))
		}
		if entry.Failed {
			e.logger.Warnf("action %s failed: %s", action.Kind, entry.Outcome)
		}
		e.metrics.RecordAction(string(action.Kind), entry.Failed)
	}()

	switch action.Kind {
	case types.ActionNavigate:
		url := normalizeURL(action.Value)
		if !e.policy.Allows(url) {
			return types.NewFailedOutcome(action, fmt.Sprintf("Error executing navigate: host of %s is not allowed", url))
		}
		if err := page.Goto(url); err != nil {
			return failed(action, err)
		}
		return types.NewOutcome(action, "Navigated to "+url)

	case types.ActionType:
		selector := orDefault(action.Selector, DefaultTypeSelector)
		if err := page.Fill(selector, action.Value); err != nil {
			return failed(action, err)
		}
		return types.NewOutcome(action, fmt.Sprintf("Typed '%s' into %s", action.Value, selector))

	case types.ActionClick:
		selector := orDefault(action.Selector, DefaultClickSelector)
		if err := page.Click(selector); err != nil {
			return failed(action, err)
		}
		return types.NewOutcome(action, "Clicked on "+selector)

	case types.ActionWait:
		d := waitDuration(action.Value)
		if err := sleep(ctx, d); err != nil {
			return failed(action, err)
		}
		return types.NewOutcome(action, fmt.Sprintf("Waited for %dms", d.Milliseconds()))

	case types.ActionScroll:
		if err := page.Evaluate(ScrollScript); err != nil {
			return failed(action, err)
		}
		return types.NewOutcome(action, "Scrolled to bottom")

	case types.ActionExtract:
		text, err := e.Extract(ctx, page, orDefault(action.Selector, DefaultExtractSelector))
		if err != nil {
			return types.NewFailedOutcome(action, "Extraction error: "+err.Error())
		}
		return types.NewOutcome(action, text)

	default:
		return types.NewFailedOutcome(action, fmt.Sprintf("Unknown action: %s", action.Kind))
	}
}

// Extract waits for the page to settle, then returns the text of the first
// strategy that finds any. NoContentSentinel is returned when none does.
func (e *Executor) Extract(ctx context.Context, page Page, selector string) (string, error) {
	if err := sleep(ctx, e.settle); err != nil {
		return "", err
	}
	for _, s := range e.strategies {
		if text, ok := s.Extract(page, selector); ok {
			e.logger.Debugf("extracted %d bytes with %s strategy", len(text), s.Name())
			return text, nil
		}
	}
	return NoContentSentinel, nil
}

func failed(action types.Action, err error) types.ExecutionLogEntry {
	return types.NewFailedOutcome(action, fmt.Sprintf("Error executing %s: %v", action.Kind, err))
}

func normalizeURL(value string) string {
	url := strings.TrimSpace(value)
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return url
	}
	return "https://" + url
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// waitDuration parses a millisecond count, falling back to DefaultWait.
func waitDuration(value string) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return DefaultWait
	}
	ms, err := strconv.ParseFloat(value, 64)
	if err != nil || ms < 0 {
		return DefaultWait
	}
	return time.Duration(ms) * time.Millisecond
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
