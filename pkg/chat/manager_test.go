package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/llm/llmtest"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/orchestrator"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/prompts"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/types"
)

type stubRunner struct {
	mu       sync.Mutex
	result   types.TaskResult
	requests []string
	opts     int
}

func (r *stubRunner) ExecuteTask(_ context.Context, request string, opts ...orchestrator.TaskOption) types.TaskResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, request)
	r.opts += len(opts)
	return r.result
}

func TestIsWebRequest(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"search for latest AI news", true},
		{"Find me a LAPTOP", true},
		{"what's the price of gold", true},
		{"browse hacker news", true},
		{"hello there", false},
		{"tell me a joke", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, IsWebRequest(tt.input))
		})
	}
}

func TestNewConversationHasWelcome(t *testing.T) {
	now := time.Date(2026, 10, 14, 9, 30, 5, 0, time.UTC)
	m := NewManager(nil, nil, WithClock(func() time.Time { return now }))

	c := m.NewConversation()

	assert.True(t, strings.HasPrefix(c.ID(), "conv_20261014_093005_"), c.ID())
	history := c.History(0)
	require.Len(t, history, 1)
	assert.Equal(t, RoleAssistant, history[0].Role)
	assert.Equal(t, prompts.Welcome, history[0].Content)
	assert.Equal(t, c, m.Current())

	other := m.NewConversation()
	assert.NotEqual(t, c.ID(), other.ID(), "conversations in the same second must differ")
}

func TestProcessChatMessage(t *testing.T) {
	provider := llmtest.NewFunc(func(context.Context, string) (string, error) { return "Hi! How can I help?", nil })
	runner := &stubRunner{}
	m := NewManager(runner, provider)

	resp := m.Process(context.Background(), "hello there", "", nil)

	assert.True(t, resp.Success)
	assert.Equal(t, TypeChat, resp.Type)
	assert.Equal(t, "Hi! How can I help?", resp.Response)
	assert.Empty(t, runner.requests)

	prompt := provider.Prompts()[0]
	assert.Contains(t, prompt, "User: hello there")
	assert.Contains(t, prompt, "User's latest message: hello there")

	conv, err := m.Get(resp.ConversationID)
	require.NoError(t, err)
	history := conv.History(0)
	require.Len(t, history, 3)
	assert.Equal(t, map[string]any{"type": TypeChat}, history[2].Metadata)
}

func TestChatContextIsBounded(t *testing.T) {
	provider := llmtest.NewFunc(func(context.Context, string) (string, error) { return "ok", nil })
	m := NewManager(nil, provider)
	id := m.NewConversation().ID()

	for i := 0; i < 5; i++ {
		m.Process(context.Background(), "hello number "+string(rune('a'+i)), id, nil)
	}

	last := provider.Prompts()[provider.Calls()-1]
	assert.NotContains(t, last, "Web Navigator AI Assistant", "welcome message should have scrolled out")
	assert.Contains(t, last, "User: hello number e")
	assert.Equal(t, ContextMessages, strings.Count(last, "User: ")+strings.Count(last, "Assistant: "))
}

func TestProcessChatError(t *testing.T) {
	provider := llmtest.NewFunc(func(context.Context, string) (string, error) { return "", errors.New("connection refused") })
	m := NewManager(nil, provider)

	resp := m.Process(context.Background(), "hello", "", nil)

	assert.False(t, resp.Success)
	assert.Equal(t, TypeError, resp.Type)
	assert.Equal(t, "I apologize, but I'm having trouble responding right now. Error: connection refused", resp.Response)
}

func TestProcessWebRequest(t *testing.T) {
	runner := &stubRunner{result: types.TaskResult{
		ID:              "t1",
		Success:         true,
		ActionsExecuted: 5,
		ExtractedText:   "Result 1: something long enough to count",
		Summary: types.SummaryResult{
			Text:     "✅ saved",
			Format:   types.FormatJSON,
			FilePath: "outputs/laptops_20261014_093005.json",
		},
	}}
	m := NewManager(runner, nil)

	var events int
	resp := m.Process(context.Background(), "find laptops and save as json", "", func(*types.TaskEvent) { events++ })

	assert.True(t, resp.Success)
	assert.Equal(t, TypeWebNavigation, resp.Type)
	assert.Equal(t, "✅ saved", resp.Response)
	assert.True(t, resp.FileCreated)
	assert.Equal(t, "laptops_20261014_093005.json", resp.FileName)
	assert.Equal(t, "json", resp.OutputFormat)
	assert.Equal(t, []string{"find laptops and save as json"}, runner.requests)
	assert.Equal(t, 1, runner.opts)

	want := map[string]any{
		"type":          TypeWebNavigation,
		"success":       true,
		"actions_count": 5,
		"has_data":      true,
		"file_created":  true,
		"output_format": "json",
		"file_path":     "outputs/laptops_20261014_093005.json",
		"file_name":     "laptops_20261014_093005.json",
	}
	assert.Equal(t, want, resp.Metadata)

	conv, err := m.Get(resp.ConversationID)
	require.NoError(t, err)
	history := conv.History(0)
	require.Len(t, history, 3)
	assert.Equal(t, "✅ saved", history[2].Content, "placeholder should be replaced")
	assert.Equal(t, want, history[2].Metadata)
}

func TestProcessWebRequestFailure(t *testing.T) {
	runner := &stubRunner{result: types.TaskResult{Error: "failed to start browser session: boom"}}
	m := NewManager(runner, nil)

	resp := m.Process(context.Background(), "search for news", "", nil)

	assert.False(t, resp.Success)
	assert.Equal(t, TypeWebNavigation, resp.Type)
	assert.Equal(t, "❌ **Search Failed**\n\nSorry, I couldn't complete your search. Error: failed to start browser session: boom", resp.Response)
	assert.Equal(t, map[string]any{"type": TypeWebNavigation, "success": false}, resp.Metadata)
}

func TestProcessWithoutRunner(t *testing.T) {
	m := NewManager(nil, nil)
	resp := m.Process(context.Background(), "search for news", "", nil)
	assert.Equal(t, TypeError, resp.Type)
	assert.True(t, strings.HasPrefix(resp.Response, "❌ **Error**"))
}

func TestHasDataFlag(t *testing.T) {
	meta := TaskMetadata(types.TaskResult{Success: true, ExtractedText: "No data found"})
	assert.Equal(t, false, meta["has_data"])
	assert.NotContains(t, meta, "file_path")
}

func TestConversationLifecycle(t *testing.T) {
	m := NewManager(nil, nil)
	a := m.NewConversation()
	b := m.NewConversation()
	assert.Equal(t, b, m.Current())

	require.NoError(t, m.Switch(a.ID()))
	assert.Equal(t, a, m.Current())

	list := m.List()
	require.Len(t, list, 2)
	assert.Equal(t, 1, list[0].MessageCount)

	require.NoError(t, m.Delete(a.ID()))
	assert.Nil(t, m.Current())
	assert.ErrorIs(t, m.Delete(a.ID()), ErrNotFound)
	assert.ErrorIs(t, m.Switch("conv_missing"), ErrNotFound)
	_, err := m.Get(a.ID())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Len(t, m.List(), 1)
}

func TestProcessUnknownIDStartsConversation(t *testing.T) {
	provider := llmtest.NewFunc(func(context.Context, string) (string, error) { return "ok", nil })
	m := NewManager(nil, provider)

	resp := m.Process(context.Background(), "hi", "conv_does_not_exist", nil)

	assert.NotEqual(t, "conv_does_not_exist", resp.ConversationID)
	assert.Equal(t, resp.ConversationID, m.Current().ID())
}

func TestConversationHelpers(t *testing.T) {
	c := NewConversation(time.Now())
	assert.Equal(t, "", c.LastUserMessage())

	c.AddUser("first")
	c.AddAssistant("reply", nil)
	c.AddUser("second")
	c.AddAssistant("reply 2", nil)
	assert.Equal(t, "second", c.LastUserMessage())
	assert.Len(t, c.History(2), 2)
	assert.Equal(t, "second", c.History(2)[0].Content)

	snap := c.Snapshot()
	assert.Equal(t, 4, snap.MessageCount)
	assert.Equal(t, c.ID(), snap.ID)

	c.Replace(99, "ignored", nil)
	c.Clear()
	assert.Zero(t, c.Len())
	assert.Len(t, snap.Messages, 4, "snapshot must not alias")
}
