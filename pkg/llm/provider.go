// Package llm provides abstractions for LLM provider integration.
//
// Components that need text generation depend on Provider only, so a
// planner or summarizer can run against Ollama, any OpenAI-compatible
// endpoint, Gemini, or a test double without change.
//
// Example usage:
//
//	package main
//
//	import (
//	    "context"
//	    "fmt"
//	    "log"
//
//	    "github.com/Hitish07/Web-Navigator-AI-Agent/pkg/llm/ollama"
//	)
//
//	func main() {
//	    provider := ollama.NewProvider(ollama.WithModel("llama3.2:3b"))
//
//	    text, err := provider.Generate(context.Background(), "Say hello")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(text)
//	}
package llm

import (
	"context"
	"strings"
)

// Provider defines the interface for LLM integrations.
//
// Generate sends a single prompt and returns the complete response text.
// Implementations must honour ctx cancellation and may fail or time out;
// callers are expected to have a fallback for every failure.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Role identifies the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a multi-message conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Chatter is an optional interface for providers with a native
// multi-message endpoint.
type Chatter interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}

// Describer is an optional interface exposing provider identity for
// logging and metrics labels.
type Describer interface {
	ProviderName() string
	GetModel() string
}

// Chat sends messages through p. Providers that do not implement Chatter
// receive the conversation flattened into a single prompt.
func Chat(ctx context.Context, p Provider, messages []Message) (string, error) {
	if c, ok := p.(Chatter); ok {
		return c.Chat(ctx, messages)
	}
	return p.Generate(ctx, FlattenMessages(messages))
}

// FlattenMessages renders messages as a plain transcript prompt.
func FlattenMessages(messages []Message) string {
	var b strings.Builder
	for i, m := range messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		switch m.Role {
		case RoleSystem:
			b.WriteString(m.Content)
		case RoleAssistant:
			b.WriteString("Assistant: ")
			b.WriteString(m.Content)
		default:
			b.WriteString("User: ")
			b.WriteString(m.Content)
		}
	}
	if len(messages) > 0 && messages[len(messages)-1].Role != RoleAssistant {
		b.WriteString("\n\nAssistant:")
	}
	return b.String()
}

// Describe returns provider and model labels for p, or "unknown".
func Describe(p Provider) (name, model string) {
	if d, ok := p.(Describer); ok {
		return d.ProviderName(), d.GetModel()
	}
	return "unknown", "unknown"
}
