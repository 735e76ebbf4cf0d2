package headless

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/types"
)

// LogLevel controls how much of a batch run reaches the console.
type LogLevel int

const (
	// LogLevelQuiet prints warnings, errors and the final summary.
	LogLevelQuiet LogLevel = iota
	// LogLevelNormal adds one line per task and per check.
	LogLevelNormal
	// LogLevelVerbose adds every planned action.
	LogLevelVerbose
	// LogLevelDebug adds every action outcome.
	LogLevelDebug
)

const (
	ansiReset     = "\033[0m"
	ansiGreen     = "\033[32m"
	ansiCyan      = "\033[36m"
	ansiYellow    = "\033[33m"
	ansiRed       = "\033[31m"
	ansiGray      = "\033[90m"
	ansiBoldGreen = "\033[1;32m"
	ansiBoldRed   = "\033[1;31m"
	ansiBoldWhite = "\033[1;37m"
)

var rule = strings.Repeat("=", 70)

// Logger prints batch progress to the console.
type Logger struct {
	level  LogLevel
	writer io.Writer
	steps  int
}

// NewLogger creates a console logger. A nil writer means os.Stdout.
func NewLogger(level LogLevel, w io.Writer) *Logger {
	if w == nil {
		w = os.Stdout
	}
	return &Logger{level: level, writer: w}
}

func (l *Logger) printf(at LogLevel, color, format string, args ...any) {
	if l.level < at {
		return
	}
	fmt.Fprintf(l.writer, "%s%s%s\n", color, fmt.Sprintf(format, args...), ansiReset)
}

// Header prints a banner.
func (l *Logger) Header(message string) {
	if l.level < LogLevelNormal {
		return
	}
	fmt.Fprintln(l.writer)
	l.banner(message)
}

func (l *Logger) banner(title string) {
	fmt.Fprintf(l.writer, "%s%s\n  %s\n%s%s\n", ansiBoldWhite, rule, title, rule, ansiReset)
}

// Step prints the next numbered task line.
func (l *Logger) Step(message string) {
	if l.level < LogLevelNormal {
		return
	}
	l.steps++
	fmt.Fprintf(l.writer, "\n%s[%d] %s%s\n", ansiCyan, l.steps, message, ansiReset)
}

func (l *Logger) Successf(format string, args ...any) {
	l.printf(LogLevelNormal, ansiBoldGreen, "✓ "+format, args...)
}

func (l *Logger) Warningf(format string, args ...any) {
	l.printf(LogLevelQuiet, ansiYellow, "⚠ Warning: "+format, args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.printf(LogLevelQuiet, ansiBoldRed, "✗ Error: "+format, args...)
}

func (l *Logger) Verbosef(format string, args ...any) {
	l.printf(LogLevelVerbose, ansiGray, "→ "+format, args...)
}

func (l *Logger) Debugf(format string, args ...any) {
	l.printf(LogLevelDebug, ansiGray, "[DEBUG] "+format, args...)
}

// Action is a types.EventSink for one task's progress.
func (l *Logger) Action(ev *types.TaskEvent) {
	switch ev.Type {
	case types.EventTypePlanReady:
		l.Verbosef("planned %d actions", ev.Total)
	case types.EventTypeActionStart:
		l.Verbosef("[%d/%d] %s", ev.Step, ev.Total, ev.Action.Description)
	case types.EventTypeActionDone:
		if ev.Entry != nil && ev.Entry.Failed {
			l.Warningf("action %d failed: %s", ev.Step, ev.Entry.Outcome)
			return
		}
		l.Debugf("action %d: %s", ev.Step, ev.Message)
	}
}

// Check prints one check result; the failure reason needs verbose mode.
func (l *Logger) Check(result CheckResult) {
	if result.Passed {
		l.printf(LogLevelNormal, ansiGreen, "  ✓ %s", result.Name)
		return
	}
	l.printf(LogLevelNormal, ansiRed, "  ✗ %s", result.Name)
	if result.Error != "" {
		l.printf(LogLevelVerbose, ansiGray, "    %s", result.Error)
	}
}

// Summary prints the final report at every level.
func (l *Logger) Summary(summary *BatchSummary) {
	w := l.writer
	fmt.Fprintln(w)
	l.banner("BATCH SUMMARY")

	fmt.Fprint(w, "  Status: ")
	switch summary.Status {
	case statusSuccess:
		fmt.Fprintf(w, "%s✓ SUCCESS%s\n", ansiBoldGreen, ansiReset)
	case statusPartialSuccess:
		fmt.Fprintf(w, "%s⚠ PARTIAL SUCCESS%s\n", ansiYellow, ansiReset)
	default:
		fmt.Fprintf(w, "%s✗ FAILED%s\n", ansiBoldRed, ansiReset)
	}
	fmt.Fprintf(w, "  Duration: %s\n", summary.Duration.Round(time.Second))

	m := summary.Metrics
	fmt.Fprintf(w, "\n  📊 Metrics:\n")
	fmt.Fprintf(w, "    Tasks: %d passed, %d failed, %d skipped\n", m.Passed, m.Failed, m.Skipped)
	fmt.Fprintf(w, "    Actions: %d (%d failed)\n", m.ActionsExecuted, m.FailedActions)
	if m.FilesCreated > 0 {
		fmt.Fprintf(w, "    Files exported: %d\n", m.FilesCreated)
	}

	if l.level >= LogLevelVerbose {
		fmt.Fprintf(w, "\n  📝 Tasks:\n")
		for _, t := range summary.Tasks {
			mark := "✓"
			switch {
			case t.Skipped:
				mark = "-"
			case !t.Passed:
				mark = "✗"
			}
			fmt.Fprintf(w, "    %s %s\n", mark, t.Name)
			if t.Result.FileCreated() {
				fmt.Fprintf(w, "      %s\n", t.Result.Summary.FilePath)
			}
		}
	}

	fmt.Fprintf(w, "%s%s%s\n\n", ansiBoldWhite, rule, ansiReset)
}

// parseLogLevel maps a verbosity name to a LogLevel, defaulting to normal.
func parseLogLevel(level string) LogLevel {
	switch level {
	case "quiet":
		return LogLevelQuiet
	case "verbose":
		return LogLevelVerbose
	case "debug":
		return LogLevelDebug
	default:
		return LogLevelNormal
	}
}
