package tokenizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimate(t *testing.T) {
	assert.Equal(t, 0, Estimate(""))
	assert.Equal(t, 1, Estimate("abc"))
	assert.Equal(t, 1, Estimate("abcd"))
	assert.Equal(t, 2, Estimate("abcde"))
	assert.Equal(t, 1, Estimate("日本"))
}

func TestCount(t *testing.T) {
	tok := New()

	assert.Equal(t, 0, tok.Count(""))

	short := tok.Count("find laptops under 50k")
	long := tok.Count(strings.Repeat("find laptops under 50k ", 20))
	assert.Greater(t, short, 0)
	assert.Greater(t, long, short)
}

func TestUnknownEncodingFallsBack(t *testing.T) {
	tok := NewWithEncoding("no_such_encoding")
	assert.False(t, tok.Exact())
	assert.Equal(t, Estimate("hello world"), tok.Count("hello world"))
}
