// Package planner turns a free-text request into an ordered list of browser
// actions. The LLM plan is untrusted: anything malformed falls back to a
// fixed search plan, so Plan never returns an empty list.
package planner

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/llm"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/llm/parser"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/logging"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/prompts"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/types"
)

// Selectors and locations used by the heuristic plan.
const (
	SearchURL              = "https://www.google.com"
	SearchBoxSelector      = "textarea[name='q'], input[name='q']"
	SearchButtonSelector   = "input[value='Google Search'], button[type='submit']"
	ResultsSelector        = ".g, .rc, .tF2Cxc, .MjjYud"
	DefaultExtractSelector = ".g, .rc, .tF2Cxc"
	ResultsWaitMS          = "5000"
)

// ErrEmptyPlan is returned by Validate when no usable action survives.
var ErrEmptyPlan = errors.New("plan contains no valid actions")

// command phrases removed from a request to derive a search term, in order
var commandPhrases = []string{
	"search for", "find", "look up", "show me", "list",
	"give me", "what is", "who is", "where is",
}

var whitespace = regexp.MustCompile(`\s+`)

// Planner builds action plans with an LLM and a heuristic fallback.
type Planner struct {
	provider llm.Provider
	logger   *logging.Logger
	timeout  time.Duration
}

// Option configures a Planner.
type Option func(*Planner)

// WithLogger sets the logger for fallback diagnostics.
func WithLogger(l *logging.Logger) Option {
	return func(p *Planner) {
		p.logger = l
	}
}

// WithTimeout bounds the planning LLM call. Zero means no planner-side limit.
func WithTimeout(d time.Duration) Option {
	return func(p *Planner) {
		p.timeout = d
	}
}

// New creates a Planner. A nil provider always yields the heuristic plan.
func New(provider llm.Provider, opts ...Option) *Planner {
	p := &Planner{
		provider: provider,
		logger:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Plan returns the actions for request. It never returns an empty slice and
// never fails: LLM errors and malformed plans yield HeuristicPlan(request).
func (p *Planner) Plan(ctx context.Context, request string) []types.Action {
	if p.provider == nil {
		return HeuristicPlan(request)
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	response, err := p.provider.Generate(ctx, prompts.Planning(request))
	if err != nil {
		p.logger.Warnf("planning failed, using heuristic plan: %v", err)
		return HeuristicPlan(request)
	}

	payload, err := parser.FirstArray(response)
	if err != nil {
		p.logger.Warnf("no action array in planner response, using heuristic plan")
		return HeuristicPlan(request)
	}

	actions, err := Validate(payload)
	if err != nil {
		p.logger.Warnf("%v, using heuristic plan for generic search", err)
		return HeuristicPlan("search")
	}

	p.logger.Debugf("planned %d actions for %q", len(actions), request)
	return actions
}

// Validate decodes a JSON array of actions. Entries that are not objects or
// lack "action" are dropped, a missing description gets a generic label and
// extract actions without a selector get DefaultExtractSelector. Field
// values are read laxly, so "value": 5000 becomes "5000".
func Validate(payload string) ([]types.Action, error) {
	parsed := gjson.Parse(payload)
	if !parsed.IsArray() {
		return nil, fmt.Errorf("expected JSON array: %w", ErrEmptyPlan)
	}

	var actions []types.Action
	parsed.ForEach(func(_, entry gjson.Result) bool {
		if !entry.IsObject() {
			return true
		}
		kind := entry.Get("action")
		if !kind.Exists() {
			return true
		}

		a := types.Action{
			Kind:        types.ActionKind(kind.String()),
			Selector:    entry.Get("selector").String(),
			Value:       entry.Get("value").String(),
			Description: entry.Get("description").String(),
		}
		if a.Description == "" {
			a.Description = fmt.Sprintf("Perform %s action", a.Kind)
		}
		if a.Kind == types.ActionExtract && strings.TrimSpace(a.Selector) == "" {
			a.Selector = DefaultExtractSelector
		}
		actions = append(actions, a)
		return true
	})

	if len(actions) == 0 {
		return nil, ErrEmptyPlan
	}
	return actions, nil
}

// HeuristicPlan returns the fixed five-step search plan for request.
func HeuristicPlan(request string) []types.Action {
	query := CleanQuery(request)
	return []types.Action{
		{
			Kind:        types.ActionNavigate,
			Value:       SearchURL,
			Description: "Navigate to Google search",
		},
		{
			Kind:        types.ActionType,
			Selector:    SearchBoxSelector,
			Value:       query,
			Description: "Type search query: " + query,
		},
		{
			Kind:        types.ActionClick,
			Selector:    SearchButtonSelector,
			Description: "Execute search",
		},
		{
			Kind:        types.ActionWait,
			Value:       ResultsWaitMS,
			Description: "Wait for results to load",
		},
		{
			Kind:        types.ActionExtract,
			Selector:    ResultsSelector,
			Description: "Extract search results",
		},
	}
}

// CleanQuery lower-cases request, removes command phrases such as
// "search for" or "show me", and collapses whitespace.
//
// Phrases are removed as substrings, so "finder" loses its "find" too.
func CleanQuery(request string) string {
	query := strings.ToLower(request)
	for _, phrase := range commandPhrases {
		query = strings.ReplaceAll(query, phrase, "")
	}
	return strings.TrimSpace(whitespace.ReplaceAllString(query, " "))
}
