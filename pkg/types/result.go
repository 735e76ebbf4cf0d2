package types

import (
	"encoding/json"
	"path/filepath"
	"time"
)

// Format is the output mode chosen for a summary.
type Format string

const (
	FormatText Format = "text" // FormatText is a conversational answer with no file.
	FormatJSON Format = "json" // FormatJSON exports an indented JSON document.
	FormatCSV  Format = "csv"  // FormatCSV exports one row per item.
	FormatTXT  Format = "txt"  // FormatTXT exports a plain-text report.
	FormatPDF  Format = "pdf"  // FormatPDF exports the plain-text report as a PDF.
)

// Extension returns the file extension used when exporting in this format.
func (f Format) Extension() string {
	if f == FormatText {
		return "txt"
	}
	return string(f)
}

// IsFile reports whether the format produces an exported file.
func (f Format) IsFile() bool {
	return f != FormatText && f != ""
}

// SummaryResult is the summarizer's answer for one task.
// FilePath is only set when an export was actually written.
type SummaryResult struct {
	Text           string         `json:"summary"`
	Format         Format         `json:"format"`
	FilePath       string         `json:"file_path,omitempty"`
	StructuredData map[string]any `json:"structured_data,omitempty"`
}

// TaskResult is the task-level outcome returned to callers.
// Success is false when the browser session could not be started, the
// context was cancelled mid-plan or the run panicked.
type TaskResult struct {
	ID              string              `json:"id"`
	Success         bool                `json:"success"`
	Request         string              `json:"original_query"`
	ActionsExecuted int                 `json:"actions_executed"`
	ExtractedText   string              `json:"extracted_data"`
	Log             []ExecutionLogEntry `json:"execution_log"`
	Summary         SummaryResult       `json:"-"`
	Error           string              `json:"error,omitempty"`
	StartedAt       time.Time           `json:"started_at"`
	Duration        time.Duration       `json:"duration"`
}

// FileCreated reports whether the summary produced an export.
func (r TaskResult) FileCreated() bool {
	return r.Summary.FilePath != ""
}

// FileName returns the base name of the exported file, or "".
func (r TaskResult) FileName() string {
	if r.Summary.FilePath == "" {
		return ""
	}
	return filepath.Base(r.Summary.FilePath)
}

// FailedActions counts log entries tagged as failed.
func (r TaskResult) FailedActions() int {
	n := 0
	for _, e := range r.Log {
		if e.Failed {
			n++
		}
	}
	return n
}

// MarshalJSON flattens the summary into the caller-facing result shape.
func (r TaskResult) MarshalJSON() ([]byte, error) {
	type plain TaskResult
	return json.Marshal(struct {
		plain
		FinalSummary   string         `json:"final_summary"`
		OutputFormat   Format         `json:"output_format"`
		FilePath       string         `json:"file_path,omitempty"`
		FileCreated    bool           `json:"file_created"`
		FileName       string         `json:"file_name,omitempty"`
		StructuredData map[string]any `json:"structured_data,omitempty"`
	}{
		plain:          plain(r),
		FinalSummary:   r.Summary.Text,
		OutputFormat:   r.Summary.Format,
		FilePath:       r.Summary.FilePath,
		FileCreated:    r.FileCreated(),
		FileName:       r.FileName(),
		StructuredData: r.Summary.StructuredData,
	})
}
