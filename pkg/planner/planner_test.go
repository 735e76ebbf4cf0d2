package planner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/llm/llmtest"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/types"
)

func TestPlanUsesLLMPlan(t *testing.T) {
	provider := &llmtest.Mock{}
	provider.On("Generate", mock.Anything, mock.AnythingOfType("string")).Return(`Sure! Here is the plan:
[
  {"action": "navigate", "value": "https://news.ycombinator.com", "description": "Open HN"},
  {"action": "wait", "value": 1500},
  {"action": "extract"}
]
Hope that helps.`, nil).Once()

	got := New(provider).Plan(context.Background(), "show me hacker news")

	want := []types.Action{
		{Kind: types.ActionNavigate, Value: "https://news.ycombinator.com", Description: "Open HN"},
		{Kind: types.ActionWait, Value: "1500", Description: "Perform wait action"},
		{Kind: types.ActionExtract, Selector: DefaultExtractSelector, Description: "Perform extract action"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Plan() mismatch (-want +got):\n%s", diff)
	}
	provider.AssertExpectations(t)
}

func TestPlanFallsBack(t *testing.T) {
	request := "search for latest AI news"
	heuristic := HeuristicPlan(request)

	tests := []struct {
		name  string
		reply string
		err   error
		want  []types.Action
	}{
		{name: "llm error", err: errors.New("connection refused"), want: heuristic},
		{name: "no array", reply: "I cannot help with that.", want: heuristic},
		{name: "malformed array", reply: `[{"action": "navigate",}]`, want: heuristic},
		{
			name:  "malformed array with nested list",
			reply: `[{"action":"navigate","value":"https://www.amazon.in","tags":["shop"]},{"action":"extract"},]`,
			want:  heuristic,
		},
		{name: "no valid entries", reply: `[{"description": "nothing"}, 42, "click"]`, want: HeuristicPlan("search")},
		{name: "empty array", reply: `[]`, want: HeuristicPlan("search")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &llmtest.Mock{}
			provider.On("Generate", mock.Anything, mock.Anything).Return(tt.reply, tt.err).Once()

			got := New(provider).Plan(context.Background(), request)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Plan() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPlanNilProvider(t *testing.T) {
	got := New(nil).Plan(context.Background(), "find phones")
	assert.Equal(t, HeuristicPlan("find phones"), got)
}

func TestPlanTimeout(t *testing.T) {
	provider := llmtest.NewFunc(func(ctx context.Context, _ string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})

	start := time.Now()
	got := New(provider, WithTimeout(20*time.Millisecond)).Plan(context.Background(), "find phones")

	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, HeuristicPlan("find phones"), got)
}

func TestPlanPromptEmbedsRequest(t *testing.T) {
	provider := llmtest.NewFunc(func(context.Context, string) (string, error) {
		return `[{"action":"scroll"}]`, nil
	})
	New(provider).Plan(context.Background(), "find laptops under 50k")

	require.Equal(t, 1, provider.Calls())
	assert.Contains(t, provider.Prompts()[0], `User Request: "find laptops under 50k"`)
}

func TestHeuristicPlanShape(t *testing.T) {
	plan := HeuristicPlan("Search for  Laptops under 50k")
	require.Len(t, plan, 5)

	kinds := make([]types.ActionKind, 0, len(plan))
	for _, a := range plan {
		kinds = append(kinds, a.Kind)
	}
	assert.Equal(t, []types.ActionKind{
		types.ActionNavigate, types.ActionType, types.ActionClick, types.ActionWait, types.ActionExtract,
	}, kinds)
	assert.Equal(t, "laptops under 50k", plan[1].Value)
	assert.Equal(t, "Type search query: laptops under 50k", plan[1].Description)
	assert.Equal(t, ResultsSelector, plan[4].Selector)
}

func TestCleanQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "search for latest AI news", want: "latest ai news"},
		{in: "Show me the weather", want: "the weather"},
		{in: "what is   Go", want: "go"},
		{in: "find laptops under 50k and save as json", want: "laptops under 50k and save as json"},
		{in: "give me a list of books", want: "a of books"},
		{in: "   ", want: ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanQuery(tt.in), tt.in)
	}
}

func TestValidateKeepsExplicitFields(t *testing.T) {
	actions, err := Validate(`[{"action":"extract","selector":".item","description":"Items"},{"action":"teleport"}]`)
	require.NoError(t, err)
	require.Len(t, actions, 2)
	assert.Equal(t, ".item", actions[0].Selector)
	assert.Equal(t, types.ActionKind("teleport"), actions[1].Kind)
	assert.False(t, actions[1].Kind.IsKnown())
}

func TestValidateRejectsNonArray(t *testing.T) {
	_, err := Validate(`{"action":"click"}`)
	assert.ErrorIs(t, err, ErrEmptyPlan)
}

func TestPlanProperties(t *testing.T) {
	kinds := []string{"navigate", "type", "click", "wait", "extract", "scroll", "hover"}

	rapid.Check(t, func(t *rapid.T) {
		request := rapid.String().Draw(t, "request")
		reply := rapid.OneOf(
			rapid.String(),
			rapid.Custom(func(t *rapid.T) string {
				entries := rapid.SliceOfN(rapid.Custom(func(t *rapid.T) string {
					kind := rapid.SampledFrom(kinds).Draw(t, "kind")
					if rapid.Bool().Draw(t, "withSelector") {
						return `{"action":"` + kind + `","selector":".x"}`
					}
					if rapid.Bool().Draw(t, "dropKind") {
						return `{"selector":".x"}`
					}
					return `{"action":"` + kind + `"}`
				}), 0, 8).Draw(t, "entries")
				out := "["
				for i, e := range entries {
					if i > 0 {
						out += ","
					}
					out += e
				}
				return "plan: " + out + "]"
			}),
		).Draw(t, "reply")

		provider := llmtest.NewFunc(func(context.Context, string) (string, error) {
			return reply, nil
		})
		plan := New(provider).Plan(context.Background(), request)

		if len(plan) == 0 {
			t.Fatalf("empty plan for request %q reply %q", request, reply)
		}
		for _, a := range plan {
			if a.Kind == types.ActionExtract && a.Selector == "" {
				t.Fatalf("extract without selector in %v", plan)
			}
			if a.Description == "" {
				t.Fatalf("action without description in %v", plan)
			}
		}
	})
}
