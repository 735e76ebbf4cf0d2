// Package cli provides a line-based console chat for the web navigator.
//
// Example usage:
//
//	manager := chat.NewManager(orch, provider)
//	executor := cli.NewExecutor(manager, cli.WithShowProgress(true))
//	if err := executor.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/chat"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/types"
)

const help = `Web Navigator AI Chat Assistant

I combine AI chat with web browsing. I can search the web for you and summarize the results.

Commands:
  new           start a new conversation
  list          show conversations
  switch <id>   continue another conversation
  delete <id>   delete a conversation
  help          show this help message
  exit, quit    leave`

// Conversations is the chat surface the executor drives.
type Conversations interface {
	NewConversation() *chat.Conversation
	Current() *chat.Conversation
	Process(ctx context.Context, input, id string, sink types.EventSink) chat.Response
	List() []chat.Summary
	Switch(id string) error
	Delete(id string) error
}

// Executor runs a turn-by-turn chat through terminal input/output.
type Executor struct {
	conversations Conversations
	reader        *bufio.Reader
	writer        io.Writer

	showProgress bool
}

// ExecutorOption is a function that configures an Executor.
type ExecutorOption func(*Executor)

// WithShowProgress enables/disables printing task progress events.
func WithShowProgress(show bool) ExecutorOption {
	return func(e *Executor) {
		e.showProgress = show
	}
}

// WithWriter sets a custom output writer (default is os.Stdout).
func WithWriter(w io.Writer) ExecutorOption {
	return func(e *Executor) {
		e.writer = w
	}
}

// WithReader sets a custom input reader (default is os.Stdin).
func WithReader(r io.Reader) ExecutorOption {
	return func(e *Executor) {
		e.reader = bufio.NewReader(r)
	}
}

// NewExecutor creates a new CLI executor.
func NewExecutor(conversations Conversations, opts ...ExecutorOption) *Executor {
	e := &Executor{
		conversations: conversations,
		reader:        bufio.NewReader(os.Stdin),
		writer:        os.Stdout,
		showProgress:  true,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Run starts the conversation loop. It returns when the user exits, input
// ends or ctx is cancelled.
func (e *Executor) Run(ctx context.Context) error {
	fmt.Fprintln(e.writer, help)
	e.startConversation()

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(e.writer, "\n👋 Goodbye!")
			return ctx.Err()
		default:
		}

		fmt.Fprint(e.writer, "\n💬 Your message: ")
		input, err := e.reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("failed to read input: %w", err)
		}
		eof := err == io.EOF

		input = strings.TrimSpace(input)
		if input != "" {
			if done := e.handle(ctx, input); done {
				return nil
			}
		}
		if eof {
			fmt.Fprintln(e.writer, "\n👋 Goodbye!")
			return nil
		}
	}
}

// handle runs one command or message and reports whether to exit.
func (e *Executor) handle(ctx context.Context, input string) bool {
	cmd, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "exit", "quit", "q":
		if arg == "" {
			fmt.Fprintln(e.writer, "👋 Goodbye!")
			return true
		}
	case "new":
		if arg == "" {
			e.startConversation()
			return false
		}
	case "list":
		if arg == "" {
			e.showConversations()
			return false
		}
	case "help":
		if arg == "" {
			fmt.Fprintln(e.writer, help)
			return false
		}
	case "switch":
		if arg != "" {
			if err := e.conversations.Switch(arg); err != nil {
				fmt.Fprintf(e.writer, "❌ Error: %v\n", err)
			} else {
				fmt.Fprintf(e.writer, "Switched to %s\n", arg)
			}
			return false
		}
	case "delete":
		if arg != "" {
			if err := e.conversations.Delete(arg); err != nil {
				fmt.Fprintf(e.writer, "❌ Error: %v\n", err)
			} else {
				fmt.Fprintf(e.writer, "Deleted %s\n", arg)
			}
			return false
		}
	}

	e.send(ctx, input)
	return false
}

func (e *Executor) send(ctx context.Context, input string) {
	id := ""
	if c := e.conversations.Current(); c != nil {
		id = c.ID()
	}

	var sink types.EventSink
	if e.showProgress {
		sink = e.handleEvent
	}

	fmt.Fprintln(e.writer, "Thinking...")
	resp := e.conversations.Process(ctx, input, id, sink)
	e.printMessage(resp.Response)

	if resp.Type == chat.TypeWebNavigation {
		if resp.Success {
			fmt.Fprintln(e.writer, "✓ Web search completed successfully")
		} else {
			fmt.Fprintln(e.writer, "✗ Web search failed")
		}
		if resp.FileCreated {
			fmt.Fprintf(e.writer, "📄 Saved %s (%s)\n", resp.FileName, resp.FilePath)
		}
	}
}

// handleEvent renders task progress.
func (e *Executor) handleEvent(ev *types.TaskEvent) {
	switch ev.Type {
	case types.EventTypePlanReady:
		fmt.Fprintf(e.writer, "  planned %d actions\n", ev.Total)
	case types.EventTypeBrowserStarting:
		fmt.Fprintln(e.writer, "  starting browser")
	case types.EventTypeActionStart:
		fmt.Fprintf(e.writer, "  [%d/%d] %s\n", ev.Step, ev.Total, ev.Action.Description)
	case types.EventTypeActionDone:
		if ev.Entry != nil && ev.Entry.Failed {
			fmt.Fprintf(e.writer, "  ❌ %s\n", ev.Entry.Outcome)
		}
	case types.EventTypeSummarizing:
		fmt.Fprintln(e.writer, "  summarizing")
	}
}

func (e *Executor) startConversation() {
	c := e.conversations.NewConversation()
	if history := c.History(1); len(history) > 0 {
		e.printMessage(history[0].Content)
	}
}

func (e *Executor) printMessage(content string) {
	fmt.Fprintln(e.writer, "\n🤖 Assistant:")
	fmt.Fprintln(e.writer, content)
}

func (e *Executor) showConversations() {
	list := e.conversations.List()
	if len(list) == 0 {
		fmt.Fprintln(e.writer, "No conversations found.")
		return
	}
	fmt.Fprintln(e.writer, "\n📚 Your Conversations:")
	for i, c := range list {
		fmt.Fprintf(e.writer, "%d. %s (Messages: %d, Updated: %s)\n",
			i+1, c.ID, c.MessageCount, c.UpdatedAt.Format("2006-01-02T15:04:05"))
	}
}
