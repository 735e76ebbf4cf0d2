// Package gemini adapts the Google Gen AI SDK to llm.Provider.
package gemini

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"

	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/llm"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/llm/parser"
)

// DefaultModel is used when WithModel is not given.
const DefaultModel = "gemini-2.0-flash"

// Provider implements llm.Provider and llm.Chatter on the Gemini API.
type Provider struct {
	client       *genai.Client
	model        string
	systemPrompt string
	baseURL      string
}

// ProviderOption is a function that configures a Provider.
type ProviderOption func(*Provider)

// WithModel sets the model to use.
func WithModel(model string) ProviderOption {
	return func(p *Provider) {
		if model != "" {
			p.model = model
		}
	}
}

// WithBaseURL overrides the API endpoint.
func WithBaseURL(baseURL string) ProviderOption {
	return func(p *Provider) {
		p.baseURL = baseURL
	}
}

// WithSystemPrompt sets a system instruction sent with every request.
func WithSystemPrompt(prompt string) ProviderOption {
	return func(p *Provider) {
		p.systemPrompt = prompt
	}
}

// NewProvider creates a Gemini provider. An empty apiKey falls back to
// GEMINI_API_KEY.
func NewProvider(ctx context.Context, apiKey string, opts ...ProviderOption) (*Provider, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required (provide via parameter or GEMINI_API_KEY environment variable)")
	}

	p := &Provider{model: DefaultModel}
	for _, opt := range opts {
		opt(p)
	}

	cc := &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI}
	if p.baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: p.baseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	p.client = client
	return p, nil
}

// Generate implements llm.Provider.
func (p *Provider) Generate(ctx context.Context, prompt string) (string, error) {
	return p.generate(ctx, genai.Text(prompt), p.systemPrompt)
}

// Chat implements llm.Chatter. System messages become the system instruction.
func (p *Provider) Chat(ctx context.Context, messages []llm.Message) (string, error) {
	var system []string
	if p.systemPrompt != "" {
		system = append(system, p.systemPrompt)
	}
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case llm.RoleSystem:
			system = append(system, m.Content)
		case llm.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	return p.generate(ctx, contents, strings.Join(system, "\n\n"))
}

func (p *Provider) generate(ctx context.Context, contents []*genai.Content, system string) (string, error) {
	var cfg *genai.GenerateContentConfig
	if system != "" {
		cfg = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		}
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", err)
	}
	return parser.StripThinking(resp.Text()), nil
}

// ProviderName implements llm.Describer.
func (p *Provider) ProviderName() string {
	return "gemini"
}

// GetModel returns the model name being used.
func (p *Provider) GetModel() string {
	return p.model
}
