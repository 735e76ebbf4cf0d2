package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/chat"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/types"
)

// Update handles all state updates for the TUI model.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	var spinnerCmd tea.Cmd
	m.spinner, spinnerCmd = m.spinner.Update(msg)
	cmds = append(cmds, spinnerCmd)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleWindowResize(msg)
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		if cmd, handled := m.handleKeyPress(msg); handled {
			return m, tea.Batch(append(cmds, cmd)...)
		}

	case tea.MouseMsg:
		var vpCmd tea.Cmd
		m.viewport, vpCmd = m.viewport.Update(msg)
		return m, tea.Batch(append(cmds, vpCmd)...)

	case taskEventMsg:
		m.handleTaskEvent(msg.event)
		return m, tea.Batch(cmds...)

	case responseMsg:
		m.handleResponse(msg.response)
		return m, tea.Batch(cmds...)
	}

	if !m.busy {
		var tiCmd tea.Cmd
		m.textarea, tiCmd = m.textarea.Update(msg)
		cmds = append(cmds, tiCmd)
	}
	return m, tea.Batch(cmds...)
}

func (m *model) handleWindowResize(msg tea.WindowSizeMsg) {
	m.width = msg.Width
	m.height = msg.Height
	m.viewport.Width = m.width - 4
	m.viewport.Height = m.calculateViewportHeight()
	m.textarea.SetWidth(m.width - 8)
	m.ready = true
	m.refresh()
}

// calculateViewportHeight computes the viewport height for the current window.
func (m *model) calculateViewportHeight() int {
	headerHeight := 9                      // ASCII art (7) + tips (1) + blank line (1)
	inputHeight := m.textarea.Height() + 2 // textarea height + border
	statusBarHeight := 1
	loadingHeight := 0
	if m.busy {
		loadingHeight = 1
	}
	h := m.height - headerHeight - inputHeight - statusBarHeight - loadingHeight
	if h < 5 {
		h = 5
	}
	return h
}

// handleKeyPress reports whether the key was consumed.
func (m *model) handleKeyPress(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return tea.Quit, true
	case tea.KeyCtrlY:
		m.copyLast()
		return nil, true
	case tea.KeyCtrlP:
		m.previewLast()
		return nil, true
	case tea.KeyCtrlN:
		if !m.busy {
			m.startConversation()
			m.refresh()
		}
		return nil, true
	case tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd, true
	case tea.KeyEnter:
		if m.busy {
			return nil, true
		}
		input := strings.TrimSpace(m.textarea.Value())
		m.textarea.Reset()
		if input == "" {
			return nil, true
		}
		return m.submit(input), true
	}
	return nil, false
}

// submit runs a slash command or sends input to the conversation.
func (m *model) submit(input string) tea.Cmd {
	switch strings.ToLower(input) {
	case "/quit", "/exit":
		return tea.Quit
	case "/new":
		m.startConversation()
		m.refresh()
		return nil
	case "/list":
		m.listConversations()
		return nil
	case "/copy":
		m.copyLast()
		return nil
	case "/preview":
		m.previewLast()
		return nil
	}

	m.appendMessage(chat.RoleUser, input)
	m.busy = true
	m.progress = ""
	m.loadingMessage = getRandomLoadingMessage()
	m.viewport.Height = m.calculateViewportHeight()
	m.refresh()
	return m.process(input)
}

func (m *model) handleTaskEvent(ev *types.TaskEvent) {
	switch ev.Type {
	case types.EventTypePlanning:
		m.progress = "planning"
	case types.EventTypePlanReady:
		m.progress = fmt.Sprintf("planned %d actions", ev.Total)
	case types.EventTypeBrowserStarting:
		m.progress = "starting browser"
	case types.EventTypeActionStart:
		m.progress = fmt.Sprintf("[%d/%d] %s", ev.Step, ev.Total, ev.Action.Description)
	case types.EventTypeActionDone:
		if ev.Entry != nil && ev.Entry.Failed {
			m.content.WriteString(formatEntry("  ⚠ ", ev.Entry.Outcome, errorStyle, m.width, false))
			m.content.WriteString("\n")
			m.refresh()
		}
	case types.EventTypeSummarizing:
		m.progress = "summarizing"
	}
}

func (m *model) handleResponse(resp chat.Response) {
	m.busy = false
	m.progress = ""
	m.lastResponse = &resp
	m.appendMessage(chat.RoleAssistant, resp.Response)

	if resp.Type == chat.TypeWebNavigation {
		if resp.Success {
			m.content.WriteString(successStyle.Render("  ✓ Web search completed successfully"))
		} else {
			m.content.WriteString(errorStyle.Render("  ✗ Web search failed"))
		}
		m.content.WriteString("\n")
		if resp.FileCreated {
			m.content.WriteString(successStyle.Render(fmt.Sprintf("  📄 %s (Ctrl+P to preview)", resp.FileName)))
			m.content.WriteString("\n")
		}
		m.content.WriteString("\n")
	}
	m.viewport.Height = m.calculateViewportHeight()
	m.refresh()
}

func (m *model) copyLast() {
	if m.lastResponse == nil {
		m.showToast("Nothing to copy yet", true)
		return
	}
	if err := m.writeClipboard(m.lastResponse.Response); err != nil {
		m.logger.Warnf("clipboard write failed: %v", err)
		m.showToast("Clipboard unavailable: "+err.Error(), true)
		return
	}
	m.showToast("Copied last answer", false)
}

func (m *model) previewLast() {
	if m.lastResponse == nil || !m.lastResponse.FileCreated {
		m.showToast("No exported file to preview", true)
		return
	}
	preview, err := renderPreview(m.lastResponse.FilePath)
	if err != nil {
		m.showToast(err.Error(), true)
		return
	}
	m.content.WriteString(headerStyle.Render("  " + m.lastResponse.FileName))
	m.content.WriteString("\n")
	m.content.WriteString(preview)
	m.content.WriteString("\n\n")
	m.refresh()
}

func (m *model) listConversations() {
	var b strings.Builder
	b.WriteString("📚 Your Conversations:\n")
	current := m.currentID()
	for i, c := range m.conversations.List() {
		marker := " "
		if c.ID == current {
			marker = "*"
		}
		fmt.Fprintf(&b, "%s %d. %s (Messages: %d)\n", marker, i+1, c.ID, c.MessageCount)
	}
	m.content.WriteString(tipsStyle.Render(b.String()))
	m.content.WriteString("\n")
	m.refresh()
}

func (m *model) appendMessage(role, text string) {
	if role == chat.RoleUser {
		m.content.WriteString(userStyle.Render("👤 You"))
	} else {
		m.content.WriteString(assistantStyle.Render("🤖 Assistant"))
	}
	m.content.WriteString("\n")
	m.content.WriteString(bodyStyle.Render(wordWrap(text, m.wrapWidth())))
	m.content.WriteString("\n\n")
}

func (m *model) wrapWidth() int {
	if m.width <= 8 {
		return 80
	}
	return m.width - 8
}

func (m *model) refresh() {
	m.viewport.SetContent(m.content.String())
	m.viewport.GotoBottom()
}
