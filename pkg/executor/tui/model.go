package tui

import (
	"context"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/chat"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/logging"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/types"
)

const defaultHeader = `
 ██╗    ██╗███████╗██████╗ ███╗   ██╗ █████╗ ██╗   ██╗
 ██║    ██║██╔════╝██╔══██╗████╗  ██║██╔══██╗██║   ██║
 ██║ █╗ ██║█████╗  ██████╔╝██╔██╗ ██║███████║██║   ██║
 ██║███╗██║██╔══╝  ██╔══██╗██║╚██╗██║██╔══██║╚██╗ ██╔╝
 ╚███╔███╔╝███████╗██████╔╝██║ ╚████║██║  ██║ ╚████╔╝
  ╚══╝╚══╝ ╚══════╝╚═════╝ ╚═╝  ╚═══╝╚═╝  ╚═╝  ╚═══╝`

// model represents the state of the TUI application.
type model struct {
	ctx           context.Context
	conversations Conversations
	logger        *logging.Logger

	// send delivers messages from background work into the program.
	send func(tea.Msg)

	// writeClipboard writes text to the system clipboard.
	writeClipboard func(string) error

	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	header  string
	content *strings.Builder

	// last reply, for copying and previewing
	lastResponse *chat.Response

	busy           bool
	loadingMessage string
	progress       string
	toast          *toastNotification

	width  int
	height int
	ready  bool
}

// taskEventMsg carries a task progress event into the program.
type taskEventMsg struct{ event *types.TaskEvent }

// responseMsg signals that a message has been processed.
type responseMsg struct{ response chat.Response }

// toastNotification represents a temporary notification message
type toastNotification struct {
	active    bool
	message   string
	isError   bool
	showUntil time.Time
}

func newModel(ctx context.Context, conversations Conversations) *model {
	ta := textarea.New()
	ta.Placeholder = "Ask me to search the web..."
	ta.Prompt = "> "
	ta.ShowLineNumbers = false
	ta.SetHeight(1)
	ta.CharLimit = 0
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = headerStyle

	m := &model{
		ctx:            ctx,
		conversations:  conversations,
		logger:         logging.Nop(),
		send:           func(tea.Msg) {},
		writeClipboard: clipboard.WriteAll,
		viewport:       viewport.New(80, 20),
		textarea:       ta,
		spinner:        sp,
		header:         defaultHeader,
		content:        &strings.Builder{},
		toast:          &toastNotification{},
	}
	m.startConversation()
	return m
}

// Init implements tea.Model.
func (m *model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick)
}

func (m *model) startConversation() {
	c := m.conversations.NewConversation()
	m.content.Reset()
	for _, msg := range c.History(0) {
		m.appendMessage(msg.Role, msg.Content)
	}
	m.lastResponse = nil
}

func (m *model) currentID() string {
	if c := m.conversations.Current(); c != nil {
		return c.ID()
	}
	return ""
}

// process runs the message in the background, forwarding task events.
func (m *model) process(input string) tea.Cmd {
	ctx, id, send := m.ctx, m.currentID(), m.send
	return func() tea.Msg {
		sink := func(ev *types.TaskEvent) { send(taskEventMsg{event: ev}) }
		return responseMsg{response: m.conversations.Process(ctx, input, id, sink)}
	}
}

func (m *model) showToast(message string, isError bool) {
	m.toast.active = true
	m.toast.message = message
	m.toast.isError = isError
	m.toast.showUntil = time.Now().Add(3 * time.Second)
}
