// Package tui provides a full-screen terminal chat for the web navigator.
//
// The TUI codebase is split into multiple files:
// - executor.go: program lifecycle
// - model.go: model state and messages
// - update.go: Bubble Tea Update function and key handling
// - view.go: Bubble Tea View function and rendering
// - preview.go: export preview highlighting
// - helpers.go: text wrapping and loading messages
// - styles.go: color scheme
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/chat"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/logging"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/types"
)

// Conversations is the chat surface the TUI drives.
type Conversations interface {
	NewConversation() *chat.Conversation
	Current() *chat.Conversation
	Process(ctx context.Context, input, id string, sink types.EventSink) chat.Response
	List() []chat.Summary
}

// Executor runs the interactive chat UI.
type Executor struct {
	conversations Conversations
	logger        *logging.Logger
	header        string
}

// Option configures an Executor.
type Option func(*Executor)

// WithHeader replaces the banner shown above the conversation.
func WithHeader(header string) Option {
	return func(e *Executor) {
		e.header = header
	}
}

// WithLogger sets the executor logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *Executor) {
		e.logger = l
	}
}

// NewExecutor creates a new TUI executor.
func NewExecutor(conversations Conversations, opts ...Option) *Executor {
	e := &Executor{conversations: conversations, logger: logging.Nop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run starts the TUI and blocks until the user exits or ctx is cancelled.
func (e *Executor) Run(ctx context.Context) error {
	m := newModel(ctx, e.conversations)
	m.logger = e.logger
	if e.header != "" {
		m.header = e.header
	}

	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	m.send = program.Send

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI program: %w", err)
	}
	return nil
}
