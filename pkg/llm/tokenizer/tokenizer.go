// Package tokenizer estimates prompt sizes for usage accounting.
package tokenizer

import (
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding covers most current chat models closely enough for
// accounting; exact counts differ per model family.
const DefaultEncoding = "cl100k_base"

// Tokenizer counts tokens with a tiktoken encoding. When the encoding
// cannot be loaded (it is fetched on first use) it falls back to a
// four-characters-per-token estimate.
type Tokenizer struct {
	encoding string
	once     sync.Once
	enc      *tiktoken.Tiktoken
	initErr  error
}

// New creates a tokenizer for DefaultEncoding.
func New() *Tokenizer {
	return NewWithEncoding(DefaultEncoding)
}

// NewWithEncoding creates a tokenizer for the named tiktoken encoding.
func NewWithEncoding(encoding string) *Tokenizer {
	return &Tokenizer{encoding: encoding}
}

func (t *Tokenizer) init() {
	t.once.Do(func() {
		t.enc, t.initErr = tiktoken.GetEncoding(t.encoding)
	})
}

// Count returns the number of tokens in text.
func (t *Tokenizer) Count(text string) int {
	if text == "" {
		return 0
	}
	t.init()
	if t.initErr != nil || t.enc == nil {
		return Estimate(text)
	}
	return len(t.enc.Encode(text, nil, nil))
}

// Exact reports whether counts come from the real encoding.
func (t *Tokenizer) Exact() bool {
	t.init()
	return t.initErr == nil && t.enc != nil
}

// Estimate approximates a token count from the rune length.
func Estimate(text string) int {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 0
	}
	return (n + 3) / 4
}
