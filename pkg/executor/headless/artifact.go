package headless

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/types"
)

const (
	statusSuccess        = "success"
	statusPartialSuccess = "partial_success"
	statusFailed         = "failed"
)

// ArtifactWriter handles writing batch reports
type ArtifactWriter struct {
	outputDir string
	markdown  bool
}

// NewArtifactWriter creates a new artifact writer
func NewArtifactWriter(outputDir string, markdown bool) *ArtifactWriter {
	return &ArtifactWriter{
		outputDir: outputDir,
		markdown:  markdown,
	}
}

// WriteAll writes the JSON report and, if enabled, the markdown summary.
func (w *ArtifactWriter) WriteAll(summary *BatchSummary) error {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := w.WriteSummaryJSON(summary); err != nil {
		return err
	}

	if w.markdown {
		if err := w.WriteSummaryMarkdown(summary); err != nil {
			return err
		}
	}

	return nil
}

// WriteSummaryJSON writes the full batch summary as JSON
func (w *ArtifactWriter) WriteSummaryJSON(summary *BatchSummary) error {
	path := filepath.Join(w.outputDir, SummaryFile)

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal batch summary: %w", err)
	}

	if writeErr := os.WriteFile(path, data, 0644); writeErr != nil {
		return fmt.Errorf("failed to write batch summary: %w", writeErr)
	}

	return nil
}

// WriteSummaryMarkdown writes a human-readable markdown summary
func (w *ArtifactWriter) WriteSummaryMarkdown(summary *BatchSummary) error {
	path := filepath.Join(w.outputDir, "batch-summary.md")

	var md strings.Builder

	md.WriteString("# Web Navigator Batch Summary\n\n")
	md.WriteString(fmt.Sprintf("**Status:** %s\n\n", summary.Status))
	md.WriteString(fmt.Sprintf("**Started:** %s\n\n", summary.StartTime.Format(time.RFC3339)))
	md.WriteString(fmt.Sprintf("**Completed:** %s\n\n", summary.EndTime.Format(time.RFC3339)))
	md.WriteString(fmt.Sprintf("**Duration:** %s\n\n", summary.Duration.Round(time.Millisecond)))
	md.WriteString(fmt.Sprintf("**Tasks:** %d passed, %d failed, %d skipped\n\n",
		summary.Metrics.Passed, summary.Metrics.Failed, summary.Metrics.Skipped))

	md.WriteString("## Tasks\n\n")
	for _, t := range summary.Tasks {
		icon := "✅"
		switch {
		case t.Skipped:
			icon = "⏭"
		case !t.Passed:
			icon = "❌"
		}
		md.WriteString(fmt.Sprintf("### %s %s\n\n", icon, t.Name))
		md.WriteString(fmt.Sprintf("**Request:** %s\n\n", t.Request))
		if t.Skipped {
			continue
		}
		if t.Result.FileCreated() {
			md.WriteString(fmt.Sprintf("**File:** `%s`\n\n", t.Result.Summary.FilePath))
		}
		for _, c := range t.Checks {
			mark := "✅"
			if !c.Passed {
				mark = "❌"
			}
			md.WriteString(fmt.Sprintf("- %s %s", mark, c.Name))
			if c.Error != "" {
				md.WriteString(": " + c.Error)
			}
			md.WriteString("\n")
		}
		if text := strings.TrimSpace(t.Result.Summary.Text); text != "" {
			md.WriteString("\n")
			for _, line := range strings.Split(text, "\n") {
				md.WriteString("> " + line + "\n")
			}
		}
		md.WriteString("\n")
	}

	if writeErr := os.WriteFile(path, []byte(md.String()), 0644); writeErr != nil {
		return fmt.Errorf("failed to write summary markdown: %w", writeErr)
	}

	return nil
}

// BatchSummary contains a complete summary of a batch run
type BatchSummary struct {
	Status    string        `json:"status"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Tasks     []TaskReport  `json:"tasks"`
	Metrics   BatchMetrics  `json:"metrics"`
}

// TaskReport is the outcome of one batch task.
type TaskReport struct {
	Name    string           `json:"name"`
	Request string           `json:"request"`
	Result  types.TaskResult `json:"result"`
	Checks  []CheckResult    `json:"checks,omitempty"`
	Passed  bool             `json:"passed"`
	Skipped bool             `json:"skipped,omitempty"`
}

// BatchMetrics counts task outcomes.
type BatchMetrics struct {
	Passed          int `json:"passed"`
	Failed          int `json:"failed"`
	Skipped         int `json:"skipped"`
	ActionsExecuted int `json:"actions_executed"`
	FailedActions   int `json:"failed_actions"`
	FilesCreated    int `json:"files_created"`
}

// status derives the batch status from the metrics.
func (m BatchMetrics) status() string {
	switch {
	case m.Failed == 0 && m.Skipped == 0:
		return statusSuccess
	case m.Passed > 0:
		return statusPartialSuccess
	default:
		return statusFailed
	}
}
