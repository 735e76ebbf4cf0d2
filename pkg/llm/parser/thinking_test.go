package parser

import (
	"strings"
	"testing"
)

func collect(p *ThinkingParser, chunks []string) (thinking, message string) {
	for _, c := range chunks {
		th, msg := p.Parse(c)
		if th != nil {
			thinking += th.Content
		}
		if msg != nil {
			message += msg.Content
		}
	}
	th, msg := p.Flush()
	if th != nil {
		thinking += th.Content
	}
	if msg != nil {
		message += msg.Content
	}
	return thinking, message
}

// Reasoning that compares numbers must not keep the parser stuck in thinking mode.
func TestThinkingParserComparisonsInsideBlock(t *testing.T) {
	p := NewThinkingParser()

	thinking, message := collect(p, []string{
		"<think>",
		"budget is price<50000 and rating>4\n",
		"</think>",
		`[{"action": "navigate", "value": "https://www.google.com"}]`,
	})

	if p.IsInThinking() {
		t.Error("parser still in thinking mode after </think>")
	}
	if !strings.Contains(thinking, "price<50000") || !strings.Contains(thinking, "rating>4") {
		t.Errorf("thinking should keep < and > characters, got %q", thinking)
	}
	if !strings.HasPrefix(message, `[{"action"`) {
		t.Errorf("message should hold the plan, got %q", message)
	}
}

func TestThinkingParserTagSplitAcrossChunks(t *testing.T) {
	p := NewThinkingParser()

	thinking, message := collect(p, []string{"<thin", "king>plan", " steps</thi", "nking>answer"})

	if thinking != "plan steps" {
		t.Errorf("expected thinking %q, got %q", "plan steps", thinking)
	}
	if message != "answer" {
		t.Errorf("expected message %q, got %q", "answer", message)
	}
}

func TestThinkingParserUnclosedAngle(t *testing.T) {
	p := NewThinkingParser()

	_, message := collect(p, []string{"prices < 500"})

	if message != "prices < 500" {
		t.Errorf("expected dangling < to be emitted as content, got %q", message)
	}
}

func TestThinkingParserReset(t *testing.T) {
	p := NewThinkingParser()
	p.Parse("<thinking>half")
	if !p.IsInThinking() {
		t.Fatal("expected thinking mode")
	}
	p.Reset()
	if p.IsInThinking() {
		t.Error("reset should leave thinking mode")
	}
}

func TestStripThinking(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "no tags", input: "  plain answer ", want: "plain answer"},
		{name: "think block", input: "<think>hmm</think>\nThe answer", want: "The answer"},
		{name: "thinking block", input: "<thinking>a<b</thinking>ok", want: "ok"},
		{name: "other tags kept", input: "<b>bold</b>", want: "<b>bold</b>"},
		{name: "only thinking", input: "<think>nothing else</think>", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripThinking(tt.input); got != tt.want {
				t.Errorf("StripThinking(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
