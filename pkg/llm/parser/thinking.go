// Package parser extracts usable content from raw LLM output: it separates
// reasoning tags from the answer and locates JSON payloads embedded in
// free-form text.
package parser

import (
	"strings"

	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/llm"
)

var (
	openTags  = []string{"<thinking>", "<think>"}
	closeTags = []string{"</thinking>", "</think>"}
)

// ThinkingParser splits streamed model output into reasoning, wrapped in
// <thinking> or <think> tags, and answer text. Tags may be split across
// chunks; a trailing fragment that could still become a tag is held back
// until the next Parse or Flush.
type ThinkingParser struct {
	pending    string
	inThinking bool
}

// NewThinkingParser creates a parser positioned outside any reasoning block.
func NewThinkingParser() *ThinkingParser {
	return &ThinkingParser{}
}

// Parse consumes one chunk. Either result may be nil when the chunk held no
// text of that kind.
func (p *ThinkingParser) Parse(content string) (thinkingChunk, messageChunk *llm.StreamChunk) {
	var thinking, message strings.Builder
	emit := func(text string) {
		if p.inThinking {
			thinking.WriteString(text)
		} else {
			message.WriteString(text)
		}
	}

	s := p.pending + content
	p.pending = ""
	for s != "" {
		i := strings.IndexByte(s, '<')
		if i < 0 {
			emit(s)
			break
		}
		emit(s[:i])
		s = s[i:]

		if tag, ok := matchTag(s, p.tagsToWatch()); ok {
			p.inThinking = !p.inThinking
			s = s[len(tag):]
			continue
		}
		if couldBecomeTag(s) {
			p.pending = s
			break
		}
		emit("<")
		s = s[1:]
	}

	return chunkOf(thinking.String(), llm.ContentTypeThinking), chunkOf(message.String(), llm.ContentTypeMessage)
}

func (p *ThinkingParser) tagsToWatch() []string {
	if p.inThinking {
		return closeTags
	}
	return openTags
}

func matchTag(s string, tags []string) (string, bool) {
	for _, tag := range tags {
		if strings.HasPrefix(s, tag) {
			return tag, true
		}
	}
	return "", false
}

// couldBecomeTag reports whether s is a strict prefix of any known tag.
func couldBecomeTag(s string) bool {
	for _, tags := range [][]string{openTags, closeTags} {
		for _, tag := range tags {
			if len(s) < len(tag) && strings.HasPrefix(tag, s) {
				return true
			}
		}
	}
	return false
}

func chunkOf(text string, kind llm.ContentType) *llm.StreamChunk {
	if text == "" {
		return nil
	}
	return &llm.StreamChunk{Content: text, Type: kind}
}

// IsInThinking reports whether the parser is inside a reasoning block.
func (p *ThinkingParser) IsInThinking() bool {
	return p.inThinking
}

// Flush emits any held-back fragment as plain text in the current mode.
// Call it once the stream ends.
func (p *ThinkingParser) Flush() (thinkingChunk, messageChunk *llm.StreamChunk) {
	text := p.pending
	p.pending = ""
	if p.inThinking {
		return chunkOf(text, llm.ContentTypeThinking), nil
	}
	return nil, chunkOf(text, llm.ContentTypeMessage)
}

// Reset prepares the parser for a new stream.
func (p *ThinkingParser) Reset() {
	p.pending = ""
	p.inThinking = false
}

// StripThinking returns text with every reasoning block removed and the
// remaining answer trimmed.
func StripThinking(text string) string {
	p := NewThinkingParser()
	var out strings.Builder
	if _, msg := p.Parse(text); msg != nil {
		out.WriteString(msg.Content)
	}
	if _, msg := p.Flush(); msg != nil {
		out.WriteString(msg.Content)
	}
	return strings.TrimSpace(out.String())
}
