package browser

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Extraction markers.
const (
	// NoContentSentinel is returned when no strategy finds any text.
	NoContentSentinel = "No extractable content found"

	// NoDataMarker is the per-selector "nothing matched" marker.
	NoDataMarker = "No data found"
)

// Extraction limits.
const (
	MaxSelectorResults   = 10
	MinResultLength      = 20
	MinContainerLength   = 100
	MinVisibleLineLength = 30
	MaxVisibleLines      = 15
)

// CommonSelectors lists organic and shopping result containers, most
// specific first.
var CommonSelectors = []string{
	".g", ".rc", ".tF2Cxc", ".MjjYud",
	".sh-dlr__content", ".pla-unit",
	".i0X6df", ".KZmu8e",
	"[data-sokoban-container]",
	".hlcw0c", ".yuRUbf",
}

// ContentContainers lists the containers probed for visible text.
var ContentContainers = []string{"#search", "#rso", "#center_col", "main", "body"}

// Strategy is one extraction attempt. Extract reports false when it found
// nothing, letting the next strategy run.
type Strategy interface {
	Name() string
	Extract(page Page, selector string) (string, bool)
}

// DefaultStrategies returns caller selector, common selectors and visible
// text, in that order.
func DefaultStrategies() []Strategy {
	return []Strategy{
		SelectorStrategy{},
		CommonSelectorStrategy{Selectors: CommonSelectors},
		VisibleTextStrategy{Containers: ContentContainers},
	}
}

// SelectorStrategy extracts the elements matching the action's selector.
type SelectorStrategy struct{}

func (SelectorStrategy) Name() string { return "selector" }

func (SelectorStrategy) Extract(page Page, selector string) (string, bool) {
	if strings.TrimSpace(selector) == "" {
		return "", false
	}
	return collect(page, selector)
}

// CommonSelectorStrategy tries each of Selectors in turn.
type CommonSelectorStrategy struct {
	Selectors []string
}

func (CommonSelectorStrategy) Name() string { return "common-selectors" }

func (s CommonSelectorStrategy) Extract(page Page, _ string) (string, bool) {
	for _, sel := range s.Selectors {
		if text, ok := collect(page, sel); ok {
			return fmt.Sprintf("Found with selector '%s':\n%s", sel, text), true
		}
	}
	return "", false
}

// VisibleTextStrategy returns the long lines of the first container with
// meaningful text.
type VisibleTextStrategy struct {
	Containers []string
}

func (VisibleTextStrategy) Name() string { return "visible-text" }

func (s VisibleTextStrategy) Extract(page Page, _ string) (string, bool) {
	for _, sel := range s.Containers {
		el, err := page.Query(sel)
		if err != nil || el == nil {
			continue
		}
		text, err := el.InnerText()
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if utf8.RuneCountInString(text) <= MinContainerLength {
			continue
		}

		var lines []string
		for _, line := range strings.Split(text, "\n") {
			line = strings.TrimSpace(line)
			if utf8.RuneCountInString(line) > MinVisibleLineLength {
				lines = append(lines, line)
			}
			if len(lines) == MaxVisibleLines {
				break
			}
		}
		return "Visible text content:\n" + strings.Join(lines, "\n"), true
	}
	return "", false
}

// collect formats the text of up to MaxSelectorResults matches. A query
// error counts as no match.
func collect(page Page, selector string) (string, bool) {
	elements, err := page.QueryAll(selector)
	if err != nil || len(elements) == 0 {
		return "", false
	}
	if len(elements) > MaxSelectorResults {
		elements = elements[:MaxSelectorResults]
	}

	var lines []string
	for i, el := range elements {
		text, err := el.InnerText()
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if utf8.RuneCountInString(text) > MinResultLength {
			lines = append(lines, fmt.Sprintf("Result %d: %s", i+1, text))
		}
	}
	if len(lines) == 0 {
		return "", false
	}
	return strings.Join(lines, "\n"), true
}
