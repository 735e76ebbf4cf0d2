// Package export writes structured summary data to files in the output
// directory as JSON, CSV, a plain-text report, or that report as a PDF.
package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/types"
)

// DefaultDir is the output directory used when none is configured.
const DefaultDir = "outputs"

const (
	maxSlugLength   = 50
	timestampLayout = "20060102_150405"
)

// ErrUnsupportedFormat is returned for formats that do not produce a file.
var ErrUnsupportedFormat = errors.New("unsupported export format")

var unsafeSlugChars = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)

// Writer writes export files into one directory.
type Writer struct {
	dir string
	now func() time.Time
}

// Option configures a Writer.
type Option func(*Writer)

// WithClock overrides the timestamp source used in file names.
func WithClock(now func() time.Time) Option {
	return func(w *Writer) {
		w.now = now
	}
}

// NewWriter returns a Writer for dir, or DefaultDir when dir is empty.
func NewWriter(dir string, opts ...Option) *Writer {
	if dir == "" {
		dir = DefaultDir
	}
	w := &Writer{dir: dir, now: time.Now}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Write renders data in format and returns the path of the new file.
func (w *Writer) Write(data map[string]any, request string, format types.Format) (string, error) {
	var (
		content []byte
		err     error
	)
	switch format {
	case types.FormatJSON:
		content, err = renderJSON(data)
	case types.FormatCSV:
		content, err = renderCSV(data)
	case types.FormatTXT:
		content = []byte(RenderText(data, request))
	case types.FormatPDF:
		content, err = renderPDF(RenderText(data, request))
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return "", fmt.Errorf("failed to render %s export: %w", format, err)
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(w.dir, FileName(request, format.Extension(), w.now()))
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}

// FileName returns "{slug}_{YYYYMMDD_HHMMSS}.{ext}" for request.
func FileName(request, ext string, t time.Time) string {
	return fmt.Sprintf("%s_%s.%s", Slug(request), t.Format(timestampLayout), ext)
}

// Slug lower-cases request, turns spaces into underscores, drops anything
// but letters, digits, underscores, whitespace and hyphens, and keeps the
// first 50 characters.
func Slug(request string) string {
	s := strings.ReplaceAll(strings.ToLower(request), " ", "_")
	s = unsafeSlugChars.ReplaceAllString(s, "")
	if r := []rune(s); len(r) > maxSlugLength {
		s = string(r[:maxSlugLength])
	}
	return s
}

func renderJSON(data map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
