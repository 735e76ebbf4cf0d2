package chat

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	// IDPrefix is the prefix of every conversation ID.
	IDPrefix = "conv_"
)

// Message is one turn of a conversation.
type Message struct {
	Metadata  map[string]any `json:"metadata"`
	Timestamp time.Time      `json:"timestamp"`
	Role      string         `json:"role"`
	Content   string         `json:"content"`
}

// Conversation is an ordered list of messages. It is safe for concurrent
// use.
type Conversation struct {
	createdAt time.Time
	updatedAt time.Time
	id        string
	messages  []Message
	mu        sync.RWMutex
}

// Snapshot is a point-in-time copy of a Conversation.
type Snapshot struct {
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	ID           string    `json:"conversation_id"`
	Messages     []Message `json:"messages"`
	MessageCount int       `json:"message_count"`
}

// Summary describes a conversation without its messages.
type Summary struct {
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	ID           string    `json:"id"`
	MessageCount int       `json:"message_count"`
}

// NewConversation creates an empty conversation. The ID is the creation
// second plus a short random suffix so that two conversations started in the
// same second stay distinct.
func NewConversation(now time.Time) *Conversation {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return &Conversation{
		id:        fmt.Sprintf("%s%s_%s", IDPrefix, now.Format("20060102_150405"), suffix),
		createdAt: now,
		updatedAt: now,
	}
}

// ID returns the conversation ID.
func (c *Conversation) ID() string {
	return c.id
}

// Add appends a message and returns its index.
func (c *Conversation) Add(role, content string, metadata map[string]any) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if metadata == nil {
		metadata = map[string]any{}
	}
	now := time.Now()
	c.messages = append(c.messages, Message{Role: role, Content: content, Timestamp: now, Metadata: metadata})
	c.updatedAt = now
	return len(c.messages) - 1
}

// AddUser appends a user message.
func (c *Conversation) AddUser(content string) int {
	return c.Add(RoleUser, content, nil)
}

// AddAssistant appends an assistant message.
func (c *Conversation) AddAssistant(content string, metadata map[string]any) int {
	return c.Add(RoleAssistant, content, metadata)
}

// Replace overwrites the content and metadata of message i.
func (c *Conversation) Replace(i int, content string, metadata map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i < 0 || i >= len(c.messages) {
		return
	}
	if metadata == nil {
		metadata = map[string]any{}
	}
	c.messages[i].Content = content
	c.messages[i].Metadata = metadata
	c.updatedAt = time.Now()
}

// History returns the last limit messages, or all of them when limit <= 0.
func (c *Conversation) History(limit int) []Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	msgs := c.messages
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return append([]Message(nil), msgs...)
}

// LastUserMessage returns the most recent user message, or "".
func (c *Conversation) LastUserMessage() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Role == RoleUser {
			return c.messages[i].Content
		}
	}
	return ""
}

// Clear removes every message.
func (c *Conversation) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = nil
	c.updatedAt = time.Now()
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.messages)
}

// Snapshot copies the conversation.
func (c *Conversation) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Snapshot{
		ID:           c.id,
		Messages:     append([]Message{}, c.messages...),
		CreatedAt:    c.createdAt,
		UpdatedAt:    c.updatedAt,
		MessageCount: len(c.messages),
	}
}

func (c *Conversation) summary() Summary {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Summary{ID: c.id, CreatedAt: c.createdAt, UpdatedAt: c.updatedAt, MessageCount: len(c.messages)}
}

// context renders the last n messages as "User: ..." / "Assistant: ..." lines.
func (c *Conversation) context(n int) []string {
	history := c.History(n)
	lines := make([]string, 0, len(history))
	for _, m := range history {
		role := "Assistant"
		if m.Role == RoleUser {
			role = "User"
		}
		lines = append(lines, role+": "+m.Content)
	}
	return lines
}
