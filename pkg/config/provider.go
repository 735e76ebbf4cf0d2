package config

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/llm"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/llm/gemini"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/llm/ollama"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/llm/openai"
)

// BuildProvider creates the LLM backend selected by cfg.Provider.
//
// For the openai provider a base URL left at the Ollama default is
// rewritten to Ollama's OpenAI-compatible /v1 endpoint, so switching
// providers against a local server needs no other change.
func BuildProvider(ctx context.Context, cfg LLMConfig) (llm.Provider, error) {
	switch cfg.Provider {
	case ProviderOllama, "":
		return ollama.NewProvider(
			ollama.WithBaseURL(cfg.BaseURL),
			ollama.WithModel(cfg.Model),
			ollama.WithTimeout(cfg.Timeout),
		), nil

	case ProviderOpenAI:
		opts := []openai.ProviderOption{
			openai.WithModel(cfg.Model),
			openai.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		}
		apiKey := cfg.APIKey
		if base := strings.TrimRight(cfg.BaseURL, "/"); base != "" {
			if base == ollama.DefaultBaseURL {
				base += "/v1"
				if apiKey == "" {
					apiKey = "ollama"
				}
			}
			opts = append(opts, openai.WithBaseURL(base))
		}
		p, err := openai.NewProvider(apiKey, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM provider: %w", err)
		}
		return p, nil

	case ProviderGemini:
		p, err := gemini.NewProvider(ctx, cfg.APIKey, gemini.WithModel(cfg.Model))
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM provider: %w", err)
		}
		return p, nil
	}
	return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
}
