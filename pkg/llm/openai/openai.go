// Package openai provides an OpenAI-compatible LLM provider implementation.
//
// Any server exposing /chat/completions works, including Ollama's /v1
// compatibility endpoint:
//
//	provider, _ := openai.NewProvider("ollama",
//	    openai.WithBaseURL("http://localhost:11434/v1"),
//	    openai.WithModel("llama3.2:3b"))
//
//	text, err := provider.Generate(ctx, "Plan a search for laptops")
package openai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/openai/openai-go"

	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/llm"
	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/llm/parser"
)

const (
	// DefaultBaseURL is the default OpenAI API base URL
	DefaultBaseURL = "https://api.openai.com/v1"

	// DefaultModel is used when WithModel is not given.
	DefaultModel = "gpt-4o-mini"
)

// Provider implements llm.Provider and llm.Chatter for OpenAI-compatible APIs.
type Provider struct {
	httpClient   *http.Client
	apiKey       string
	baseURL      string
	model        string
	systemPrompt string
}

// ProviderOption is a function that configures a Provider.
type ProviderOption func(*Provider)

// WithModel sets the model to use for completions.
func WithModel(model string) ProviderOption {
	return func(p *Provider) {
		p.model = model
	}
}

// WithBaseURL sets a custom base URL for OpenAI-compatible APIs.
func WithBaseURL(baseURL string) ProviderOption {
	return func(p *Provider) {
		p.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient replaces the HTTP client, e.g. to set a timeout.
func WithHTTPClient(c *http.Client) ProviderOption {
	return func(p *Provider) {
		p.httpClient = c
	}
}

// WithSystemPrompt prepends a system message to every Generate call.
func WithSystemPrompt(prompt string) ProviderOption {
	return func(p *Provider) {
		p.systemPrompt = prompt
	}
}

// NewProvider creates a new OpenAI provider with the given API key.
//
// If apiKey is empty, it will attempt to read from the OPENAI_API_KEY environment variable.
// If baseURL is not provided via WithBaseURL option, it will check OPENAI_BASE_URL environment variable.
func NewProvider(apiKey string, opts ...ProviderOption) (*Provider, error) {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required (provide via parameter or OPENAI_API_KEY environment variable)")
	}

	p := &Provider{
		model:      DefaultModel,
		apiKey:     apiKey,
		httpClient: &http.Client{},
		baseURL:    DefaultBaseURL,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.baseURL == DefaultBaseURL {
		if envBaseURL := os.Getenv("OPENAI_BASE_URL"); envBaseURL != "" {
			p.baseURL = strings.TrimRight(envBaseURL, "/")
		}
	}

	return p, nil
}

// Generate sends a single user prompt and returns the answer with any
// reasoning blocks removed.
func (p *Provider) Generate(ctx context.Context, prompt string) (string, error) {
	messages := make([]llm.Message, 0, 2)
	if p.systemPrompt != "" {
		messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: p.systemPrompt})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: prompt})
	return p.Chat(ctx, messages)
}

// Chat streams a completion for messages and accumulates the message content.
func (p *Provider) Chat(ctx context.Context, messages []llm.Message) (string, error) {
	stream, err := p.StreamCompletion(ctx, messages)
	if err != nil {
		return "", err
	}

	var content strings.Builder
	for chunk := range stream {
		if chunk.IsError() {
			return "", chunk.Error
		}
		if chunk.IsThinking() {
			continue
		}
		content.WriteString(chunk.Content)
	}
	return strings.TrimSpace(content.String()), nil
}

// StreamCompletion sends messages to the API and streams back response chunks.
//
// The channel is closed when streaming completes or an error occurs.
// Raw SSE handling keeps compatibility with servers that emit comments or
// slight format variations.
func (p *Provider) StreamCompletion(ctx context.Context, messages []llm.Message) (<-chan *llm.StreamChunk, error) {
	resp, err := p.sendStreamRequest(ctx, messages)
	if err != nil {
		return nil, err
	}

	chunks := make(chan *llm.StreamChunk, 10)
	go p.processStreamResponse(ctx, resp, chunks)
	return chunks, nil
}

func (p *Provider) sendStreamRequest(ctx context.Context, messages []llm.Message) (*http.Response, error) {
	reqBody := map[string]interface{}{
		"model":    p.model,
		"messages": convertToOpenAIMessages(messages),
		"stream":   true,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := p.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return nil, fmt.Errorf("API request failed with status %d (failed to read error body: %w)", resp.StatusCode, readErr)
		}
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	return resp, nil
}

func (p *Provider) processStreamResponse(ctx context.Context, resp *http.Response, chunks chan<- *llm.StreamChunk) {
	defer close(chunks)
	defer resp.Body.Close()

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	thinkingParser := parser.NewThinkingParser()

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, ":") || !strings.HasPrefix(line, "data: ") {
			continue
		}

		data := strings.TrimPrefix(line, "data: ")
		if data == "[DONE]" {
			p.flush(ctx, thinkingParser, chunks)
			send(ctx, &llm.StreamChunk{Finished: true}, chunks)
			return
		}

		if !p.processSSEChunk(ctx, data, thinkingParser, chunks) {
			return
		}
	}

	p.flush(ctx, thinkingParser, chunks)

	if err := scanner.Err(); err != nil {
		chunks <- &llm.StreamChunk{Error: fmt.Errorf("stream read error: %w", err)}
	}
}

func (p *Provider) flush(ctx context.Context, thinkingParser *parser.ThinkingParser, chunks chan<- *llm.StreamChunk) {
	thinking, message := thinkingParser.Flush()
	send(ctx, thinking, chunks)
	send(ctx, message, chunks)
}

// send delivers chunk unless ctx is done; nil chunks are skipped.
func send(ctx context.Context, chunk *llm.StreamChunk, chunks chan<- *llm.StreamChunk) bool {
	if chunk == nil {
		return true
	}
	select {
	case chunks <- chunk:
		return true
	case <-ctx.Done():
		chunks <- &llm.StreamChunk{Error: ctx.Err()}
		return false
	}
}

func (p *Provider) processSSEChunk(ctx context.Context, data string, thinkingParser *parser.ThinkingParser, chunks chan<- *llm.StreamChunk) bool {
	var chunk struct {
		Choices []struct {
			Delta struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"delta"`
			FinishReason *string `json:"finish_reason"`
		} `json:"choices"`
	}

	if err := json.Unmarshal([]byte(data), &chunk); err != nil {
		return true // Skip malformed chunks silently
	}
	if len(chunk.Choices) == 0 {
		return true
	}

	delta := chunk.Choices[0].Delta
	if delta.Content != "" {
		thinking, message := thinkingParser.Parse(delta.Content)
		if !send(ctx, thinking, chunks) || !send(ctx, message, chunks) {
			return false
		}
	}

	if reason := chunk.Choices[0].FinishReason; reason != nil && *reason == "stop" {
		return send(ctx, &llm.StreamChunk{Finished: true}, chunks)
	}
	return true
}

// ProviderName implements llm.Describer.
func (p *Provider) ProviderName() string {
	return "openai"
}

// GetModel returns the model name being used.
func (p *Provider) GetModel() string {
	return p.model
}

// GetBaseURL returns the base URL being used.
func (p *Provider) GetBaseURL() string {
	return p.baseURL
}

// convertToOpenAIMessages converts messages to OpenAI's ChatCompletionMessageParamUnion format.
func convertToOpenAIMessages(messages []llm.Message) []openai.ChatCompletionMessageParamUnion {
	openaiMessages := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))

	for _, msg := range messages {
		switch msg.Role {
		case llm.RoleSystem:
			openaiMessages = append(openaiMessages, openai.SystemMessage(msg.Content))
		case llm.RoleAssistant:
			openaiMessages = append(openaiMessages, openai.AssistantMessage(msg.Content))
		default:
			openaiMessages = append(openaiMessages, openai.UserMessage(msg.Content))
		}
	}

	return openaiMessages
}
