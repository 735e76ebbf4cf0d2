// Package llmtest provides llm.Provider test doubles.
package llmtest

import (
	"context"
	"strings"
	"sync"

	"github.com/stretchr/testify/mock"
)

// Mock is a testify mock implementing llm.Provider and llm.Describer.
// A Mock with no expectations fails the test on any Generate call.
type Mock struct {
	mock.Mock
}

// Generate implements llm.Provider.
func (m *Mock) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *Mock) ProviderName() string { return "mock" }
func (m *Mock) GetModel() string     { return "mock-model" }

// Func adapts a function to llm.Provider and records the prompts it saw.
type Func struct {
	fn      func(ctx context.Context, prompt string) (string, error)
	mu      sync.Mutex
	prompts []string
}

// NewFunc returns a Func provider backed by fn.
func NewFunc(fn func(ctx context.Context, prompt string) (string, error)) *Func {
	return &Func{fn: fn}
}

// Generate implements llm.Provider.
func (f *Func) Generate(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	return f.fn(ctx, prompt)
}

// Prompts returns a copy of every prompt received so far.
func (f *Func) Prompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts...)
}

// Calls returns the number of Generate calls.
func (f *Func) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

// Route is one prompt-prefix match for a Router.
type Route struct {
	Prefix string
	Reply  string
	Err    error
}

// Router answers by the first route whose Prefix starts the prompt.
// Unmatched prompts return Fallback.
func Router(fallback string, routes ...Route) *Func {
	return NewFunc(func(_ context.Context, prompt string) (string, error) {
		for _, r := range routes {
			if strings.HasPrefix(prompt, r.Prefix) {
				return r.Reply, r.Err
			}
		}
		return fallback, nil
	})
}
