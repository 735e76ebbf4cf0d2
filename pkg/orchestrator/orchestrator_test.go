package orchestrator_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/browser"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/browser/browsertest"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/llm/llmtest"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/metrics"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/orchestrator"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/planner"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/summarizer"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/summarizer/export"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const resultsPage = `<html><body>
<form>
  <textarea name="q"></textarea>
  <input type="submit" value="Google Search">
</form>
<div id="search">
  <div class="g">Acer Aspire 5 Intel Core i5 laptop for ₹45,990 at Amazon</div>
  <div class="g">HP 15s Ryzen 5 5500U thin and light laptop ₹42,500 at Flipkart</div>
  <div class="g">Lenovo IdeaPad Slim 3 laptop with 16GB RAM ₹48,990 at Croma</div>
</div>
</body></html>`

const emptyPage = `<html><body>
<form>
  <textarea name="q"></textarea>
  <input type="submit" value="Google Search">
</form>
<p>Nothing here.</p>
</body></html>`

// quickPlan is the heuristic shape with a short wait.
const quickPlan = `Here is the plan:
[
  {"action": "navigate", "value": "https://www.google.com", "description": "Open Google"},
  {"action": "type", "selector": "textarea[name='q']", "value": "laptops under 50k", "description": "Type query"},
  {"action": "click", "selector": "input[value='Google Search']", "description": "Search"},
  {"action": "wait", "value": "10", "description": "Wait for results"},
  {"action": "extract", "selector": ".g", "description": "Extract results"}
]`

type harness struct {
	orch     *orchestrator.Orchestrator
	launcher *browsertest.Launcher
	provider *llmtest.Func
	dir      string
}

func newHarness(t *testing.T, site string, routes ...llmtest.Route) *harness {
	t.Helper()
	routes = append([]llmtest.Route{{Prefix: "Analyze the user's web navigation request", Reply: quickPlan}}, routes...)
	provider := llmtest.Router("", routes...)
	launcher := &browsertest.Launcher{NewPage: func() *browsertest.Page {
		return browsertest.NewPage(map[string]string{planner.SearchURL: site})
	}}
	dir := filepath.Join(t.TempDir(), "outputs")

	orch := orchestrator.New(
		planner.New(provider),
		launcher,
		browser.NewExecutor(browser.WithSettleDelay(0)),
		summarizer.New(provider, export.NewWriter(dir)),
	)
	return &harness{orch: orch, launcher: launcher, provider: provider, dir: dir}
}

func (h *harness) closes(t *testing.T) int {
	t.Helper()
	sessions := h.launcher.Sessions()
	require.Len(t, sessions, 1)
	return sessions[0].Closes()
}

func TestTextAnswer(t *testing.T) {
	h := newHarness(t, resultsPage, llmtest.Route{Prefix: "Summarize these search results", Reply: "AI news: three new laptops."})

	result := h.orch.ExecuteTask(context.Background(), "search for latest AI news")

	require.True(t, result.Success, result.Error)
	assert.Equal(t, types.FormatText, result.Summary.Format)
	assert.Empty(t, result.Summary.FilePath)
	assert.False(t, result.FileCreated())
	assert.Equal(t, "AI news: three new laptops.", result.Summary.Text)
	assert.Equal(t, 5, result.ActionsExecuted)
	assert.Len(t, result.Log, 5)
	assert.Zero(t, result.FailedActions())
	assert.Contains(t, result.ExtractedText, "Acer Aspire 5")
	assert.Equal(t, 1, h.closes(t))
}

func shoppingExtraction(n int) string {
	products := make([]map[string]any, n)
	for i := range products {
		products[i] = map[string]any{"name": fmt.Sprintf("Laptop %d", i+1), "price": "₹45,990"}
	}
	b, _ := json.Marshal(map[string]any{"products": products, "summary": "Found laptops"})
	return "```json\n" + string(b) + "\n```"
}

func TestJSONExport(t *testing.T) {
	h := newHarness(t, resultsPage, llmtest.Route{Prefix: "Extract product information", Reply: shoppingExtraction(8)})

	result := h.orch.ExecuteTask(context.Background(), "find laptops under 50k and save as json")

	require.True(t, result.Success, result.Error)
	assert.Equal(t, types.FormatJSON, result.Summary.Format)
	require.True(t, strings.HasSuffix(result.Summary.FilePath, ".json"), result.Summary.FilePath)
	assert.True(t, result.FileCreated())
	assert.Equal(t, filepath.Base(result.Summary.FilePath), result.FileName())

	raw, err := os.ReadFile(result.Summary.FilePath)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	products, ok := doc["products"].([]any)
	require.True(t, ok)
	assert.LessOrEqual(t, len(products), summarizer.MaxProducts)
	assert.Equal(t, 1, h.closes(t))
}

func TestSessionStartFailure(t *testing.T) {
	h := newHarness(t, resultsPage)
	h.launcher.Err = errors.New("chromium not installed")

	var events []*types.TaskEvent
	result := h.orch.ExecuteTask(context.Background(), "search for news",
		orchestrator.WithEvents(func(ev *types.TaskEvent) { events = append(events, ev) }))

	assert.False(t, result.Success)
	assert.Empty(t, result.Log)
	assert.Zero(t, result.ActionsExecuted)
	assert.Equal(t, "failed to start browser session: chromium not installed", result.Error)
	assert.Empty(t, h.launcher.Sessions())

	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, types.EventTypeFailed, last.Type)
	assert.Equal(t, result.Error, last.Message)
}

func TestNoDataApology(t *testing.T) {
	h := newHarness(t, emptyPage)

	request := "search for quantum gravity results"
	result := h.orch.ExecuteTask(context.Background(), request)

	require.True(t, result.Success, result.Error)
	assert.Equal(t, browser.NoContentSentinel, result.ExtractedText)
	assert.Equal(t, types.FormatText, result.Summary.Format)
	assert.Empty(t, result.Summary.FilePath)
	assert.Contains(t, result.Summary.Text, request)
	assert.True(t, strings.HasPrefix(result.Summary.Text, "Sorry"))
	assert.Equal(t, 1, h.provider.Calls(), "only the planner should call the LLM")

	_, err := os.Stat(h.dir)
	assert.True(t, os.IsNotExist(err), "no export directory expected")
}

func TestFailedActionsDoNotFailTask(t *testing.T) {
	h := newHarness(t, resultsPage, llmtest.Route{Prefix: "Summarize these search results", Reply: "ok"})
	h.launcher.NewPage = func() *browsertest.Page {
		return browsertest.NewPage(map[string]string{planner.SearchURL: resultsPage}).
			FailOn("Click", "", errors.New("timeout waiting for selector"))
	}

	result := h.orch.ExecuteTask(context.Background(), "search for news")

	require.True(t, result.Success)
	assert.Equal(t, 1, result.FailedActions())
	assert.True(t, result.Log[2].Failed)
	assert.Equal(t, "Error executing click: timeout waiting for selector", result.Log[2].Outcome)
	assert.Equal(t, 5, result.ActionsExecuted)
}

func TestEventOrder(t *testing.T) {
	h := newHarness(t, resultsPage, llmtest.Route{Prefix: "Summarize these search results", Reply: "done"})

	var got []types.TaskEventType
	result := h.orch.ExecuteTask(context.Background(), "search for news",
		orchestrator.WithEvents(func(ev *types.TaskEvent) { got = append(got, ev.Type) }))
	require.True(t, result.Success)

	want := []types.TaskEventType{
		types.EventTypePlanning,
		types.EventTypePlanReady,
		types.EventTypeBrowserStarting,
	}
	for i := 0; i < 5; i++ {
		want = append(want, types.EventTypeActionStart, types.EventTypeActionDone)
	}
	want = append(want, types.EventTypeSummarizing, types.EventTypeCompleted)
	assert.Equal(t, want, got)
}

type panickySummarizer struct{}

func (panickySummarizer) Summarize(context.Context, string, string) types.SummaryResult {
	panic("summarizer exploded")
}

func TestPanicClosesSessionOnce(t *testing.T) {
	launcher := &browsertest.Launcher{NewPage: func() *browsertest.Page {
		return browsertest.NewPage(map[string]string{planner.SearchURL: resultsPage})
	}}
	orch := orchestrator.New(
		planner.New(llmtest.Router(quickPlan)),
		launcher,
		browser.NewExecutor(browser.WithSettleDelay(0)),
		panickySummarizer{},
	)

	result := orch.ExecuteTask(context.Background(), "search for news")

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "summarizer exploded")
	assert.Len(t, result.Log, 5)
	require.Len(t, launcher.Sessions(), 1)
	assert.Equal(t, 1, launcher.Sessions()[0].Closes())
}

// cancellingExecutor cancels the task once it has run at actions
// (every action when at is zero).
type cancellingExecutor struct {
	cancel context.CancelFunc
	at     int
	calls  int
}

func (e *cancellingExecutor) Execute(_ context.Context, _ browser.Page, action types.Action) types.ExecutionLogEntry {
	e.calls++
	if e.calls >= e.at {
		e.cancel()
	}
	return types.NewOutcome(action, "done")
}

type countingSummarizer struct{ calls int }

func (s *countingSummarizer) Summarize(context.Context, string, string) types.SummaryResult {
	s.calls++
	return types.SummaryResult{Text: "summary", Format: types.FormatText}
}

func TestCancelledBetweenActions(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	launcher := &browsertest.Launcher{}
	exec := &cancellingExecutor{cancel: cancel}
	orch := orchestrator.New(planner.New(nil), launcher, exec, summarizer.New(nil, nil))

	result := orch.ExecuteTask(ctx, "search for news")

	assert.False(t, result.Success)
	assert.Equal(t, 1, exec.calls)
	assert.Len(t, result.Log, 1)
	assert.Contains(t, result.Error, "task cancelled")
	assert.Equal(t, 1, launcher.Sessions()[0].Closes())
}

func TestCancelledDuringLastActionSkipsSummary(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	launcher := &browsertest.Launcher{}
	plan := planner.HeuristicPlan("laptops")
	exec := &cancellingExecutor{cancel: cancel, at: len(plan)}
	summ := &countingSummarizer{}
	orch := orchestrator.New(planner.New(nil), launcher, exec, summ)

	result := orch.ExecuteTask(ctx, "find laptops")

	assert.False(t, result.Success)
	assert.Len(t, result.Log, len(plan))
	assert.Contains(t, result.Error, "task cancelled")
	assert.Zero(t, summ.calls)
	assert.Equal(t, 1, launcher.Sessions()[0].Closes())
}

func TestConcurrentTasksGetOwnSessions(t *testing.T) {
	h := newHarness(t, resultsPage, llmtest.Route{Prefix: "Summarize these search results", Reply: "ok"})

	var wg sync.WaitGroup
	ids := make([]string, 4)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = h.orch.ExecuteTask(context.Background(), "search for news").ID
		}(i)
	}
	wg.Wait()

	sessions := h.launcher.Sessions()
	require.Len(t, sessions, 4)
	for _, s := range sessions {
		assert.Equal(t, 1, s.Closes())
	}
	seen := map[string]bool{}
	for _, id := range ids {
		assert.NotEmpty(t, id)
		assert.False(t, seen[id], "duplicate task id %s", id)
		seen[id] = true
	}
}

func TestTaskMetrics(t *testing.T) {
	m := metrics.NewCollector()
	launcher := &browsertest.Launcher{Err: errors.New("boom")}
	orch := orchestrator.New(planner.New(nil), launcher, browser.NewExecutor(), summarizer.New(nil, nil),
		orchestrator.WithMetrics(m),
		orchestrator.WithIDGenerator(func() string { return "task-1" }))

	result := orch.ExecuteTask(context.Background(), "search")
	assert.Equal(t, "task-1", result.ID)

	families, err := m.Registry().Gather()
	require.NoError(t, err)
	var found bool
	for _, f := range families {
		if f.GetName() != "webnav_tasks_total" {
			continue
		}
		for _, metric := range f.GetMetric() {
			for _, l := range metric.GetLabel() {
				if l.GetName() == "status" && l.GetValue() == "error" {
					found = true
					assert.Equal(t, float64(1), metric.GetCounter().GetValue())
				}
			}
		}
	}
	assert.True(t, found, "expected a failed task count")
}

func TestCanTransition(t *testing.T) {
	assert.True(t, orchestrator.CanTransition(orchestrator.StateIdle, orchestrator.StatePlanning))
	assert.True(t, orchestrator.CanTransition(orchestrator.StateExecuting, orchestrator.StateExecuting))
	assert.True(t, orchestrator.CanTransition(orchestrator.StateBrowserStarting, orchestrator.StateClosed))
	assert.False(t, orchestrator.CanTransition(orchestrator.StateIdle, orchestrator.StateSummarizing))
	assert.False(t, orchestrator.CanTransition(orchestrator.StateClosed, orchestrator.StateClosed))
}
