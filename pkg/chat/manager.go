// Package chat keeps conversations and routes each user message either to a
// web navigation task or to a plain LLM reply.
package chat

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/llm"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/logging"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/orchestrator"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/prompts"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/types"
)

// ContextMessages is how many recent messages feed a chat reply.
const ContextMessages = 6

// Response types.
const (
	TypeWebNavigation = "web_navigation"
	TypeChat          = "chat"
	TypeError         = "error"
)

// SearchingMessage is the placeholder stored while a task runs.
const SearchingMessage = "🔍 Searching the web for you..."

var navigationKeywords = []string{
	"search", "find", "look up", "browse", "navigate",
	"google", "website", "web", "internet", "online",
	"price", "buy", "shop", "product", "laptop", "phone",
}

// ErrNotFound is returned for an unknown conversation ID.
var ErrNotFound = errors.New("conversation not found")

// Runner executes a web navigation task.
type Runner interface {
	ExecuteTask(ctx context.Context, request string, opts ...orchestrator.TaskOption) types.TaskResult
}

// Response is the outcome of one processed message.
type Response struct {
	Metadata       map[string]any `json:"metadata,omitempty"`
	ConversationID string         `json:"conversation_id"`
	Response       string         `json:"response"`
	Type           string         `json:"type"`
	FilePath       string         `json:"file_path,omitempty"`
	FileName       string         `json:"file_name,omitempty"`
	OutputFormat   string         `json:"output_format,omitempty"`
	Success        bool           `json:"success"`
	FileCreated    bool           `json:"file_created,omitempty"`
}

// Manager owns a set of conversations. It is safe for concurrent use; each
// web request gets its own task run.
type Manager struct {
	runner        Runner
	provider      llm.Provider
	logger        *logging.Logger
	now           func() time.Time
	conversations map[string]*Conversation
	current       string
	mu            sync.RWMutex
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the manager logger.
func WithLogger(l *logging.Logger) Option {
	return func(m *Manager) {
		m.logger = l
	}
}

// WithClock overrides the time source used for new conversations.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a Manager that runs web requests on runner and answers
// the rest with provider.
func NewManager(runner Runner, provider llm.Provider, opts ...Option) *Manager {
	m := &Manager{
		runner:        runner,
		provider:      provider,
		logger:        logging.Nop(),
		now:           time.Now,
		conversations: make(map[string]*Conversation),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// IsWebRequest reports whether input asks for web navigation. Matching is by
// substring of the lower-cased input.
func IsWebRequest(input string) bool {
	q := strings.ToLower(input)
	for _, k := range navigationKeywords {
		if strings.Contains(q, k) {
			return true
		}
	}
	return false
}

// NewConversation starts a conversation holding the welcome message and
// makes it current.
func (m *Manager) NewConversation() *Conversation {
	c := NewConversation(m.now())
	c.AddAssistant(prompts.Welcome, nil)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.conversations[c.ID()] = c
	m.current = c.ID()
	return c
}

// Get returns the conversation with id.
func (m *Manager) Get(id string) (*Conversation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.conversations[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return c, nil
}

// Current returns the current conversation, or nil.
func (m *Manager) Current() *Conversation {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.conversations[m.current]
}

// Switch makes id the current conversation.
func (m *Manager) Switch(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.conversations[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	m.current = id
	return nil
}

// Delete removes a conversation, clearing the current one if it matches.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.conversations[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if m.current == id {
		m.current = ""
	}
	delete(m.conversations, id)
	return nil
}

// List returns every conversation, oldest first.
func (m *Manager) List() []Summary {
	m.mu.RLock()
	list := make([]Summary, 0, len(m.conversations))
	for _, c := range m.conversations {
		list = append(list, c.summary())
	}
	m.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].CreatedAt.Before(list[j].CreatedAt)
	})
	return list
}

// Process handles one user message in conversation id. An empty or unknown
// id starts a new conversation. Events of a web task are delivered to sink.
func (m *Manager) Process(ctx context.Context, input, id string, sink types.EventSink) Response {
	conv, err := m.Get(id)
	if err != nil {
		conv = m.NewConversation()
	} else if err := m.Switch(id); err != nil {
		m.logger.Warnf("failed to switch conversation: %v", err)
	}

	conv.AddUser(input)
	if IsWebRequest(input) {
		return m.handleWeb(ctx, conv, input, sink)
	}
	return m.handleChat(ctx, conv, input)
}

func (m *Manager) handleWeb(ctx context.Context, conv *Conversation, input string, sink types.EventSink) Response {
	idx := conv.AddAssistant(SearchingMessage, nil)
	if m.runner == nil {
		return m.fail(conv, idx, errors.New("no task runner configured"))
	}

	result := m.runner.ExecuteTask(ctx, input, orchestrator.WithEvents(sink))

	resp := Response{ConversationID: conv.ID(), Type: TypeWebNavigation, Success: result.Success}
	if !result.Success {
		errText := result.Error
		if errText == "" {
			errText = "Unknown error"
		}
		resp.Response = "❌ **Search Failed**\n\nSorry, I couldn't complete your search. Error: " + errText
		resp.Metadata = map[string]any{"type": TypeWebNavigation, "success": false}
		conv.Replace(idx, resp.Response, resp.Metadata)
		return resp
	}

	resp.Response = result.Summary.Text
	resp.Metadata = TaskMetadata(result)
	if result.FileCreated() {
		resp.FileCreated = true
		resp.FilePath = result.Summary.FilePath
		resp.FileName = result.FileName()
		resp.OutputFormat = string(result.Summary.Format)
	}
	conv.Replace(idx, resp.Response, resp.Metadata)
	m.logger.Infof("web task %s in %s: success=%t file=%t", result.ID, conv.ID(), result.Success, resp.FileCreated)
	return resp
}

// fail records an error reply in place of message idx.
func (m *Manager) fail(conv *Conversation, idx int, err error) Response {
	m.logger.Errorf("web task failed in %s: %v", conv.ID(), err)
	text := fmt.Sprintf("❌ **Error**\n\nSorry, I encountered an error: %v", err)
	meta := map[string]any{"type": TypeError}
	conv.Replace(idx, text, meta)
	return Response{ConversationID: conv.ID(), Response: text, Type: TypeError, Metadata: meta}
}

func (m *Manager) handleChat(ctx context.Context, conv *Conversation, input string) Response {
	reply, err := m.reply(ctx, conv, input)
	if err != nil {
		m.logger.Warnf("chat reply failed: %v", err)
		text := fmt.Sprintf("I apologize, but I'm having trouble responding right now. Error: %v", err)
		conv.AddAssistant(text, map[string]any{"type": TypeError})
		return Response{ConversationID: conv.ID(), Response: text, Type: TypeError}
	}

	meta := map[string]any{"type": TypeChat}
	conv.AddAssistant(reply, meta)
	return Response{ConversationID: conv.ID(), Response: reply, Type: TypeChat, Success: true, Metadata: meta}
}

func (m *Manager) reply(ctx context.Context, conv *Conversation, input string) (string, error) {
	if m.provider == nil {
		return "", errors.New("no llm provider configured")
	}
	return m.provider.Generate(ctx, prompts.Chat(conv.context(ContextMessages), input))
}

// TaskMetadata describes a successful task for storage with its message.
func TaskMetadata(result types.TaskResult) map[string]any {
	meta := map[string]any{
		"type":          TypeWebNavigation,
		"success":       result.Success,
		"actions_count": result.ActionsExecuted,
		"has_data":      !strings.Contains(result.ExtractedText, "No data"),
		"file_created":  result.FileCreated(),
		"output_format": string(result.Summary.Format),
	}
	if result.FileCreated() {
		meta["file_path"] = result.Summary.FilePath
		meta["file_name"] = result.FileName()
	}
	return meta
}
