package tui

import (
	"math/rand"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

var loadingMessages = []string{
	"Thinking...",
	"Searching the web...",
	"Reading the results...",
	"Clicking around...",
	"Skimming pages...",
	"Following links...",
	"Connecting the dots...",
	"Herding cats in the DOM...",
}

func getRandomLoadingMessage() string {
	return loadingMessages[rand.Intn(len(loadingMessages))] //nolint:gosec
}

// formatEntry renders icon+text wrapped to the viewport. With iconOnly set,
// only the icon takes the style.
func formatEntry(icon, text string, style lipgloss.Style, width int, iconOnly bool) string {
	wrapped := wordWrap(icon+text, width-4)
	if !iconOnly {
		return style.Render(wrapped)
	}
	return strings.Replace(wrapped, icon, style.Render(icon), 1)
}

// wordWrap greedily fills lines up to width runes. Blank lines are dropped
// and words longer than a line are split.
func wordWrap(text string, width int) string {
	if width <= 0 {
		width = 80
	}

	var lines []string
	for _, para := range strings.Split(text, "\n") {
		var line strings.Builder
		lineLen := 0
		flush := func() {
			if lineLen > 0 {
				lines = append(lines, line.String())
				line.Reset()
				lineLen = 0
			}
		}

		for _, word := range strings.Fields(para) {
			for utf8.RuneCountInString(word) > width {
				flush()
				runes := []rune(word)
				lines = append(lines, string(runes[:width]))
				word = string(runes[width:])
			}

			n := utf8.RuneCountInString(word)
			if lineLen > 0 && lineLen+1+n > width {
				flush()
			}
			if lineLen > 0 {
				line.WriteByte(' ')
				lineLen++
			}
			line.WriteString(word)
			lineLen += n
		}
		flush()
	}
	return strings.Join(lines, "\n")
}
