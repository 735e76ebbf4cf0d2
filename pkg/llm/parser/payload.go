package parser

import (
	"errors"
	"strings"

	"github.com/tidwall/gjson"
)

// ErrNoPayload is returned when no valid JSON value of the requested kind
// is embedded in the text.
var ErrNoPayload = errors.New("no JSON payload found")

// maxCandidates bounds how many opening brackets are tried before giving up.
const maxCandidates = 32

// FirstArray returns the first balanced [...] span in text that is valid JSON.
func FirstArray(text string) (string, error) {
	return first(text, '[', ']')
}

// FirstObject returns the first balanced {...} span in text that is valid JSON.
func FirstObject(text string) (string, error) {
	return first(text, '{', '}')
}

func first(text string, open, closing byte) (string, error) {
	start := strings.IndexByte(text, open)
	for tried := 0; start >= 0 && tried < maxCandidates; tried++ {
		from := start + 1
		if end, ok := matchSpan(text, start, open, closing); ok {
			candidate := text[start : end+1]
			if gjson.Valid(candidate) {
				return candidate, nil
			}
			// Spans nested in a rejected candidate are never tried.
			from = end + 1
		}
		next := strings.IndexByte(text[from:], open)
		if next < 0 {
			break
		}
		start = from + next
	}
	return "", ErrNoPayload
}

// matchSpan returns the index of the bracket closing the one at start.
// Brackets inside JSON strings are ignored.
func matchSpan(text string, start int, open, closing byte) (int, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
