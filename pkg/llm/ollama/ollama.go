// Package ollama talks to a local Ollama server through its native
// /api/generate and /api/chat endpoints.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/llm"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/llm/parser"
)

const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama3.2:3b"
	DefaultTimeout = 120 * time.Second
)

// Provider implements llm.Provider and llm.Chatter against Ollama.
type Provider struct {
	httpClient   *http.Client
	baseURL      string
	model        string
	systemPrompt string
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

// WithBaseURL sets the server address.
func WithBaseURL(baseURL string) ProviderOption {
	return func(p *Provider) {
		if baseURL != "" {
			p.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ProviderOption {
	return func(p *Provider) {
		p.httpClient.Timeout = d
	}
}

// WithSystemPrompt sets the system field sent with every Generate call.
func WithSystemPrompt(prompt string) ProviderOption {
	return func(p *Provider) {
		p.systemPrompt = prompt
	}
}

// NewProvider creates a provider with the default address, model and timeout.
func NewProvider(opts ...ProviderOption) *Provider {
	p := &Provider{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    DefaultBaseURL,
		model:      DefaultModel,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	System string `json:"system,omitempty"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []llm.Message `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatResponse struct {
	Message llm.Message `json:"message"`
	Error   string      `json:"error,omitempty"`
}

// Generate implements llm.Provider.
func (p *Provider) Generate(ctx context.Context, prompt string) (string, error) {
	var out generateResponse
	err := p.post(ctx, "/api/generate", generateRequest{
		Model:  p.model,
		Prompt: prompt,
		System: p.systemPrompt,
	}, &out)
	if err != nil {
		return "", fmt.Errorf("ollama API error: %w", err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("ollama API error: %s", out.Error)
	}
	return parser.StripThinking(out.Response), nil
}

// Chat implements llm.Chatter.
func (p *Provider) Chat(ctx context.Context, messages []llm.Message) (string, error) {
	var out chatResponse
	if err := p.post(ctx, "/api/chat", chatRequest{Model: p.model, Messages: messages}, &out); err != nil {
		return "", fmt.Errorf("ollama chat error: %w", err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("ollama chat error: %s", out.Error)
	}
	return parser.StripThinking(out.Message.Content), nil
}

func (p *Provider) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// ProviderName implements llm.Describer.
func (p *Provider) ProviderName() string {
	return "ollama"
}

// GetModel returns the model name being used.
func (p *Provider) GetModel() string {
	return p.model
}
