package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
)

// maxPreviewBytes bounds how much of an export is shown inline.
const maxPreviewBytes = 8 * 1024

// renderPreview returns a terminal rendering of an exported file. JSON is
// syntax highlighted; PDFs are only named.
func renderPreview(path string) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "pdf" {
		return tipsStyle.Render("  PDF saved to " + path), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read export: %w", err)
	}
	truncated := len(raw) > maxPreviewBytes
	if truncated {
		raw = raw[:maxPreviewBytes]
	}

	out := string(raw)
	if ext == "json" || ext == "csv" {
		lexer := ext
		var b strings.Builder
		if err := quick.Highlight(&b, out, lexer, "terminal256", "monokai"); err == nil {
			out = b.String()
		}
	}
	if truncated {
		out += "\n" + tipsStyle.Render("  ... truncated")
	}
	return out, nil
}
