package browsertest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `<html><body>
<form><textarea name="q"></textarea><input type="submit" value="Google Search"></form>
<div id="search">
  <div class="g result"><h3>First title</h3><span>first body</span></div>
  <div class="g"><h3>Second</h3></div>
  <div class="other"><p class="rc">nested <b>bold</b> text</p></div>
</div>
<script>var ignored = 1;</script>
</body></html>`

func texts(t *testing.T, p *Page, selector string) []string {
	t.Helper()
	els, err := p.QueryAll(selector)
	require.NoError(t, err)
	out := make([]string, 0, len(els))
	for _, el := range els {
		s, err := el.InnerText()
		require.NoError(t, err)
		out = append(out, s)
	}
	return out
}

func TestSelectors(t *testing.T) {
	p := NewStaticPage(fixture)

	tests := []struct {
		selector string
		want     []string
	}{
		{selector: ".g", want: []string{"First title\nfirst body", "Second"}},
		{selector: ".g.result", want: []string{"First title\nfirst body"}},
		{selector: "#search .rc", want: []string{"nested bold text"}},
		{selector: "div.other p", want: []string{"nested bold text"}},
		{selector: ".rc, .g", want: []string{"First title\nfirst body", "Second", "nested bold text"}},
		{selector: "input[value='Google Search']", want: []string{""}},
		{selector: "[name=q]", want: []string{""}},
		{selector: ".missing", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			assert.Equal(t, tt.want, texts(t, p, tt.selector))
		})
	}
}

func TestInnerTextSkipsScripts(t *testing.T) {
	p := NewStaticPage(fixture)
	el, err := p.Query("body")
	require.NoError(t, err)
	require.NotNil(t, el)
	text, err := el.InnerText()
	require.NoError(t, err)
	assert.NotContains(t, text, "ignored")
	assert.Contains(t, text, "First title")
}

func TestQueryMissingReturnsNil(t *testing.T) {
	el, err := NewStaticPage(fixture).Query("#nope")
	require.NoError(t, err)
	assert.Nil(t, el)
}

func TestFillAndClick(t *testing.T) {
	p := NewStaticPage(fixture)
	require.NoError(t, p.Fill("textarea[name='q'], input[name='q']", "laptops"))
	assert.Equal(t, "laptops", p.Value("textarea[name='q']"))

	require.NoError(t, p.Click("input[value='Google Search'], button[type='submit']"))
	assert.Error(t, p.Click("#missing"))
}

func TestGoto(t *testing.T) {
	p := NewPage(map[string]string{"https://example.com": "<p class='x'>hello there</p>"})
	require.NoError(t, p.Goto("https://example.com"))
	assert.Equal(t, "https://example.com", p.URL())
	assert.Equal(t, []string{"hello there"}, texts(t, p, ".x"))

	assert.Error(t, p.Goto("https://unknown.invalid"))
}

func TestFailOnAndCalls(t *testing.T) {
	boom := errors.New("boom")
	p := NewStaticPage(fixture).FailOn("QueryAll", ".g", boom)

	_, err := p.QueryAll(".g")
	assert.ErrorIs(t, err, boom)
	_, err = p.QueryAll(".rc")
	assert.NoError(t, err)

	assert.Equal(t, []Call{{Method: "QueryAll", Arg: ".g"}, {Method: "QueryAll", Arg: ".rc"}}, p.Calls())
}

func TestInvalidSelector(t *testing.T) {
	_, err := NewStaticPage(fixture).QueryAll("div > p")
	assert.Error(t, err)
}

func TestLauncher(t *testing.T) {
	l := &Launcher{NewPage: func() *Page { return NewStaticPage(fixture) }}
	s, err := l.Start(context.Background())
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	require.Len(t, l.Sessions(), 1)
	assert.Equal(t, 2, l.Sessions()[0].Closes())

	failing := &Launcher{Err: errors.New("no chromium")}
	_, err = failing.Start(context.Background())
	assert.EqualError(t, err, "no chromium")
}
