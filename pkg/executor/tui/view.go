package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// View renders the entire TUI interface.
func (m *model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	sections := []string{
		headerStyle.Render(m.header),
		m.buildTips(),
		"",
		m.viewport.View(),
	}
	if m.busy {
		sections = append(sections, m.buildLoadingIndicator())
	}
	sections = append(sections, m.buildInputBox(), m.buildBottomBar())

	base := lipgloss.JoinVertical(lipgloss.Left, sections...)
	if m.toast.active && time.Now().Before(m.toast.showUntil) {
		base = renderToastOverlay(base, m.renderToast())
	}
	return base
}

func (m *model) buildTips() string {
	return tipsStyle.Render("  Tips: Enter to send • Ctrl+N new chat • /list conversations • Ctrl+Y copy answer • Ctrl+P preview export • Ctrl+C to exit")
}

func (m *model) buildLoadingIndicator() string {
	msg := fmt.Sprintf("%s %s", m.spinner.View(), m.loadingMessage)
	if m.progress != "" {
		msg += " " + progressStyle.Render(m.progress)
	}
	return lipgloss.NewStyle().
		Foreground(salmonPink).
		Width(m.width-4).
		Padding(0, 2).
		Render(msg)
}

func (m *model) buildInputBox() string {
	return inputBoxStyle.Width(m.width - 4).Render(m.textarea.View())
}

func (m *model) buildBottomBar() string {
	left := m.currentID()
	right := "Web Navigator"
	gap := m.width - len(left) - len(right) - 2
	if gap < 2 {
		gap = 2
	}
	return statusBarStyle.Width(m.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (m *model) renderToast() string {
	boxWidth := m.width - 4
	if boxWidth < 40 {
		boxWidth = 40
	}
	border := salmonPink
	icon := "✓"
	if m.toast.isError {
		border = alertRed
		icon = "✗"
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(boxWidth)
	return "\n" + box.Render(icon+" "+m.toast.message) + "\n"
}

// renderToastOverlay renders a toast-style overlay near the bottom of the
// screen without affecting the base view's layout
func renderToastOverlay(baseView string, toastContent string) string {
	if toastContent == "" {
		return baseView
	}

	baseLines := strings.Split(baseView, "\n")
	toastLines := strings.Split(strings.TrimRight(toastContent, "\n"), "\n")

	// just above the input box
	startLine := len(baseLines) - 5 - len(toastLines)
	if startLine < 0 {
		startLine = 0
	}

	var result strings.Builder
	for i, line := range baseLines {
		idx := i - startLine
		if idx >= 0 && idx < len(toastLines) {
			result.WriteString("  ")
			result.WriteString(toastLines[idx])
		} else {
			result.WriteString(line)
		}
		if i < len(baseLines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}
