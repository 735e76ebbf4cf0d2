// Package summarizer turns extracted page text into the answer shown to the
// user and, when the request asks for a file, a structured export.
//
// Every failure degrades to a simpler answer: no data yields an apology
// without an LLM call, and LLM or export failures yield the raw-lines
// fallback in text format.
package summarizer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/browser"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/llm"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/llm/parser"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/logging"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/metrics"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/prompts"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/summarizer/export"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/types"
)

// MaxProducts caps the products kept from a shopping extraction.
const MaxProducts = 5

const (
	maxFallbackLines   = 10
	minFallbackLineLen = 20
)

// markers in extracted text meaning nothing useful was found
var noDataMarkers = []string{"No results", browser.NoDataMarker, browser.NoContentSentinel}

var (
	fileKeywords     = []string{"json", "file", "export", "download", "save"}
	shoppingKeywords = []string{"laptop", "phone", "buy", "price", "product"}
)

// Summarizer produces SummaryResults.
type Summarizer struct {
	provider llm.Provider
	writer   *export.Writer
	logger   *logging.Logger
	metrics  *metrics.Collector
	timeout  time.Duration
}

// Option configures a Summarizer.
type Option func(*Summarizer)

// WithLogger sets the summarizer logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Summarizer) {
		s.logger = l
	}
}

// WithMetrics counts exports on m.
func WithMetrics(m *metrics.Collector) Option {
	return func(s *Summarizer) {
		s.metrics = m
	}
}

// WithTimeout bounds each LLM call.
func WithTimeout(d time.Duration) Option {
	return func(s *Summarizer) {
		s.timeout = d
	}
}

// New creates a Summarizer. A nil writer exports into export.DefaultDir.
func New(provider llm.Provider, writer *export.Writer, opts ...Option) *Summarizer {
	if writer == nil {
		writer = export.NewWriter("")
	}
	s := &Summarizer{
		provider: provider,
		writer:   writer,
		logger:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summarize answers request from extracted. It never fails.
func (s *Summarizer) Summarize(ctx context.Context, extracted, request string) types.SummaryResult {
	if IsNoData(extracted) {
		return types.SummaryResult{Text: NoDataResponse(extracted, request), Format: types.FormatText}
	}

	format := DetectFormat(request)
	domain := prompts.DomainGeneral
	if IsShopping(request) {
		domain = prompts.DomainShopping
	}

	if format.IsFile() {
		result, err := s.export(ctx, domain, format, extracted, request)
		if err != nil {
			s.logger.Warnf("%s export failed, falling back to text: %v", format, err)
			return RawFallback(extracted, request)
		}
		return result
	}

	text, err := s.generate(ctx, prompts.Summary(domain, request, extracted))
	if err != nil || strings.TrimSpace(text) == "" {
		if err != nil {
			s.logger.Warnf("summary generation failed: %v", err)
		}
		return RawFallback(extracted, request)
	}
	return types.SummaryResult{Text: text, Format: types.FormatText}
}

func (s *Summarizer) export(ctx context.Context, domain prompts.Domain, format types.Format, extracted, request string) (types.SummaryResult, error) {
	response, err := s.generate(ctx, prompts.Extraction(domain, request, extracted))
	if err != nil {
		return types.SummaryResult{}, fmt.Errorf("extraction failed: %w", err)
	}

	payload, err := parser.FirstObject(response)
	if err != nil {
		return types.SummaryResult{}, err
	}
	var data map[string]any
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return types.SummaryResult{}, fmt.Errorf("failed to decode extraction: %w", err)
	}
	export.Normalize(data)
	if domain == prompts.DomainShopping {
		capProducts(data)
	}

	path, err := s.writer.Write(data, request, format)
	if err != nil {
		return types.SummaryResult{}, err
	}
	s.metrics.RecordExport(string(format))
	s.logger.Infof("exported %s results to %s", format, path)

	return types.SummaryResult{
		Text:           confirmation(domain, format, data),
		Format:         format,
		FilePath:       path,
		StructuredData: data,
	}, nil
}

func (s *Summarizer) generate(ctx context.Context, prompt string) (string, error) {
	if s.provider == nil {
		return "", fmt.Errorf("no llm provider configured")
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.provider.Generate(ctx, prompt)
}

func confirmation(domain prompts.Domain, format types.Format, data map[string]any) string {
	name := strings.ToUpper(string(format))
	if domain == prompts.DomainShopping {
		products, _ := data["products"].([]any)
		return fmt.Sprintf("✅ I've found %d products and saved the results to a %s file.\n\n", len(products), name) +
			summaryField(data, "Results have been exported successfully.")
	}
	return fmt.Sprintf("✅ Search completed! Results saved to %s file.\n\n", name) +
		summaryField(data, "Export successful.")
}

func summaryField(data map[string]any, def string) string {
	v, ok := data["summary"]
	if !ok {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func capProducts(data map[string]any) {
	if products, ok := data["products"].([]any); ok && len(products) > MaxProducts {
		data["products"] = products[:MaxProducts]
	}
}

// IsNoData reports whether extracted is empty or carries a no-data marker.
func IsNoData(extracted string) bool {
	if extracted == "" {
		return true
	}
	for _, m := range noDataMarkers {
		if strings.Contains(extracted, m) {
			return true
		}
	}
	return false
}

// NoDataResponse is the apology returned when nothing was extracted.
func NoDataResponse(extracted, request string) string {
	if strings.Contains(extracted, "Error") {
		return fmt.Sprintf("I encountered an error while searching for '%s'. The search may have been blocked or the page structure may have changed.", request)
	}
	return fmt.Sprintf("Sorry, I couldn't find any relevant information for '%s'. The search might need different search terms or the results may not be accessible.", request)
}

// RawFallback lists the first long lines of extracted, in text format.
func RawFallback(extracted, request string) types.SummaryResult {
	var lines []string
	for _, line := range strings.Split(extracted, "\n") {
		if utf8.RuneCountInString(strings.TrimSpace(line)) > minFallbackLineLen {
			lines = append(lines, line)
			if len(lines) == maxFallbackLines {
				break
			}
		}
	}

	text := fmt.Sprintf("I found some information for '%s' but couldn't process it properly.", request)
	if len(lines) > 0 {
		text = fmt.Sprintf("Here's what I found for '%s':\n\n", request) + strings.Join(lines, "\n")
	}
	return types.SummaryResult{Text: text, Format: types.FormatText}
}

// DetectFormat maps file keywords in request to an export format. Without
// any of json, file, export, download or save the result is FormatText.
func DetectFormat(request string) types.Format {
	q := strings.ToLower(request)
	if !containsAny(q, fileKeywords) {
		return types.FormatText
	}
	switch {
	case strings.Contains(q, "json"):
		return types.FormatJSON
	case strings.Contains(q, "csv"):
		return types.FormatCSV
	case strings.Contains(q, "pdf"):
		return types.FormatPDF
	case strings.Contains(q, "txt"), strings.Contains(q, "text"):
		return types.FormatTXT
	default:
		return types.FormatJSON
	}
}

// IsShopping reports whether request mentions a product keyword. Matching
// is by substring, so "price strategy" counts as shopping.
func IsShopping(request string) bool {
	return containsAny(strings.ToLower(request), shoppingKeywords)
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
