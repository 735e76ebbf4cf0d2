package headless

import (
	"fmt"
	"os"
	"strings"

	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/types"
)

// Check is one validation of a task result.
type Check interface {
	// Name returns the name of the check
	Name() string

	// Evaluate returns an error if the result fails the check
	Evaluate(result types.TaskResult) error
}

// CheckResult is the outcome of one check.
type CheckResult struct {
	Name   string `json:"name"`
	Error  string `json:"error,omitempty"`
	Passed bool   `json:"passed"`
}

// CheckError represents a failed check.
type CheckError struct {
	Check  string
	Reason string
}

func (e *CheckError) Error() string {
	return fmt.Sprintf("check '%s' failed: %s", e.Check, e.Reason)
}

// checkFunc adapts a named function to Check.
type checkFunc struct {
	name string
	fn   func(types.TaskResult) string
}

func (c checkFunc) Name() string { return c.name }

func (c checkFunc) Evaluate(result types.TaskResult) error {
	if reason := c.fn(result); reason != "" {
		return &CheckError{Check: c.name, Reason: reason}
	}
	return nil
}

// CreateChecks builds the checks for an expectation. The success check is
// always first.
func CreateChecks(expect Expectation) []Check {
	checks := []Check{checkFunc{name: "success", fn: func(r types.TaskResult) string {
		if !r.Success {
			if r.Error == "" {
				return "task did not succeed"
			}
			return r.Error
		}
		return ""
	}}}

	if expect.Format != "" {
		want := expect.Format
		checks = append(checks, checkFunc{name: "format", fn: func(r types.TaskResult) string {
			if r.Summary.Format != want {
				return fmt.Sprintf("got format %s, want %s", r.Summary.Format, want)
			}
			return ""
		}})
	}

	if expect.File != nil {
		want := *expect.File
		checks = append(checks, checkFunc{name: "file", fn: func(r types.TaskResult) string {
			switch {
			case want && !r.FileCreated():
				return "no file was exported"
			case !want && r.FileCreated():
				return "unexpected export " + r.Summary.FilePath
			case want:
				if _, err := os.Stat(r.Summary.FilePath); err != nil {
					return err.Error()
				}
			}
			return ""
		}})
	}

	for _, s := range expect.Contains {
		needle := s
		checks = append(checks, checkFunc{name: "contains " + needle, fn: func(r types.TaskResult) string {
			if !strings.Contains(strings.ToLower(r.Summary.Text), strings.ToLower(needle)) {
				return fmt.Sprintf("summary does not mention %q", needle)
			}
			return ""
		}})
	}

	if expect.MinActions > 0 {
		atLeast := expect.MinActions
		checks = append(checks, checkFunc{name: "min_actions", fn: func(r types.TaskResult) string {
			if r.ActionsExecuted < atLeast {
				return fmt.Sprintf("ran %d actions, want at least %d", r.ActionsExecuted, atLeast)
			}
			return ""
		}})
	}

	return checks
}

// RunChecks evaluates every check and reports whether all passed.
func RunChecks(checks []Check, result types.TaskResult) ([]CheckResult, bool) {
	results := make([]CheckResult, 0, len(checks))
	passed := true
	for _, c := range checks {
		r := CheckResult{Name: c.Name(), Passed: true}
		if err := c.Evaluate(result); err != nil {
			r.Passed = false
			r.Error = err.Error()
			passed = false
		}
		results = append(results, r)
	}
	return results, passed
}
