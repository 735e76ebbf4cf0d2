package prompts

import (
	"fmt"
	"strings"
)

// Domain selects the summary and extraction prompt family.
type Domain int

const (
	DomainGeneral Domain = iota
	DomainShopping
)

func (d Domain) String() string {
	if d == DomainShopping {
		return "shopping"
	}
	return "general"
}

// Planning returns the prompt asking for a JSON array of browser actions.
func Planning(request string) string {
	return fmt.Sprintf(planningTemplate, request)
}

// Summary returns the plain-text summary prompt for domain.
func Summary(domain Domain, request, extracted string) string {
	tmpl := generalSummaryTemplate
	if domain == DomainShopping {
		tmpl = shoppingSummaryTemplate
	}
	return fmt.Sprintf(tmpl, request, Truncate(extracted, ExtractLimit))
}

// Extraction returns the strict-JSON extraction prompt for domain.
func Extraction(domain Domain, request, extracted string) string {
	tmpl := generalExtractionTemplate
	if domain == DomainShopping {
		tmpl = shoppingExtractionTemplate
	}
	return fmt.Sprintf(tmpl, request, Truncate(extracted, ExtractLimit))
}

// Chat builds the conversational prompt from prior turns, already rendered
// as "User: ..." / "Assistant: ..." lines, and the latest message.
func Chat(history []string, latest string) string {
	return fmt.Sprintf(chatTemplate, strings.Join(history, "\n"), latest)
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
