// Package browsertest provides an in-memory browser.Page backed by static
// HTML, plus a counting Session and Launcher for orchestration tests.
package browsertest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/net/html"

	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/browser"
)

// Call is one recorded Page method invocation.
type Call struct {
	Method string
	Arg    string
}

// Page serves HTML documents keyed by URL. Goto to an unknown URL fails.
// Before any Goto the page holds an empty document.
type Page struct {
	mu      sync.Mutex
	site    map[string]string
	doc     *html.Node
	url     string
	calls   []Call
	failing map[string]error
}

var _ browser.Page = (*Page)(nil)

// NewPage returns a page serving site, a map from URL to HTML.
func NewPage(site map[string]string) *Page {
	doc, _ := html.Parse(strings.NewReader(""))
	return &Page{
		site:    site,
		doc:     doc,
		failing: make(map[string]error),
	}
}

// NewStaticPage returns a page already showing body.
func NewStaticPage(body string) *Page {
	p := NewPage(map[string]string{"about:blank": body})
	p.doc, _ = html.Parse(strings.NewReader(body))
	p.url = "about:blank"
	return p
}

// FailOn makes every call of method ("Goto", "Fill", "Click", "Evaluate",
// "QueryAll", "Query") with arg return err. An empty arg matches any.
func (p *Page) FailOn(method, arg string, err error) *Page {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failing[method+"\x00"+arg] = err
	return p
}

// Calls returns every recorded call in order.
func (p *Page) Calls() []Call {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Call(nil), p.calls...)
}

// URL returns the last URL loaded.
func (p *Page) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url
}

// Value returns the value attribute of the first element matching selector.
func (p *Page) Value(selector string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	sel, err := parseSelector(selector)
	if err != nil {
		return ""
	}
	if n := first(p.doc, sel); n != nil {
		return attr(n, "value")
	}
	return ""
}

func (p *Page) record(method, arg string) error {
	p.calls = append(p.calls, Call{Method: method, Arg: arg})
	if err, ok := p.failing[method+"\x00"+arg]; ok {
		return err
	}
	if err, ok := p.failing[method+"\x00"]; ok {
		return err
	}
	return nil
}

func (p *Page) Goto(url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.record("Goto", url); err != nil {
		return err
	}
	body, ok := p.site[url]
	if !ok {
		return fmt.Errorf("net::ERR_NAME_NOT_RESOLVED at %s", url)
	}
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return err
	}
	p.doc = doc
	p.url = url
	return nil
}

func (p *Page) Fill(selector, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.record("Fill", selector); err != nil {
		return err
	}
	n, err := p.find(selector)
	if err != nil {
		return err
	}
	setAttr(n, "value", value)
	return nil
}

func (p *Page) Click(selector string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.record("Click", selector); err != nil {
		return err
	}
	_, err := p.find(selector)
	return err
}

func (p *Page) Evaluate(script string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.record("Evaluate", script)
}

func (p *Page) QueryAll(selector string) ([]browser.Element, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.record("QueryAll", selector); err != nil {
		return nil, err
	}
	sel, err := parseSelector(selector)
	if err != nil {
		return nil, err
	}
	var out []browser.Element
	walk(p.doc, func(n *html.Node) bool {
		if sel.matches(n) {
			out = append(out, element{n})
		}
		return true
	})
	return out, nil
}

func (p *Page) Query(selector string) (browser.Element, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.record("Query", selector); err != nil {
		return nil, err
	}
	sel, err := parseSelector(selector)
	if err != nil {
		return nil, err
	}
	if n := first(p.doc, sel); n != nil {
		return element{n}, nil
	}
	return nil, nil
}

// find returns the first match or a timeout-style error like a real
// browser waiting for a missing selector.
func (p *Page) find(selector string) (*html.Node, error) {
	sel, err := parseSelector(selector)
	if err != nil {
		return nil, err
	}
	n := first(p.doc, sel)
	if n == nil {
		return nil, fmt.Errorf("timeout waiting for selector %q", selector)
	}
	return n, nil
}

func first(doc *html.Node, sel selector) *html.Node {
	var found *html.Node
	walk(doc, func(n *html.Node) bool {
		if sel.matches(n) {
			found = n
			return false
		}
		return true
	})
	return found
}

// walk visits nodes in document order until fn returns false.
func walk(n *html.Node, fn func(*html.Node) bool) bool {
	if !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

type element struct {
	n *html.Node
}

// InnerText approximates rendered text. Block elements start new lines,
// text nodes are joined by single spaces, and script and style are skipped.
func (e element) InnerText() (string, error) {
	var b strings.Builder
	renderText(e.n, &b)
	lines := strings.Split(b.String(), "\n")
	out := lines[:0]
	for _, l := range lines {
		if l = strings.Join(strings.Fields(l), " "); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n"), nil
}

func renderText(n *html.Node, b *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(" ")
		b.WriteString(strings.Join(strings.Fields(n.Data), " "))
		b.WriteString(" ")
		return
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "noscript", "head":
			return
		case "br":
			b.WriteString("\n")
			return
		}
	}
	block := n.Type == html.ElementNode && isBlock(n.Data)
	if block {
		b.WriteString("\n")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		renderText(c, b)
	}
	if block {
		b.WriteString("\n")
	}
}

func isBlock(tag string) bool {
	switch tag {
	case "address", "article", "aside", "blockquote", "div", "dl", "dt", "dd",
		"fieldset", "figure", "footer", "form", "h1", "h2", "h3", "h4", "h5", "h6",
		"header", "hr", "li", "main", "nav", "ol", "p", "pre", "section", "table",
		"tr", "ul", "body":
		return true
	}
	return false
}

// Session wraps a Page and counts Close calls.
type Session struct {
	page   *Page
	mu     sync.Mutex
	closes int
}

// NewSession returns a session around page.
func NewSession(page *Page) *Session {
	return &Session{page: page}
}

func (s *Session) Page() browser.Page { return s.page }

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closes++
	return nil
}

// Closes returns how many times Close was called.
func (s *Session) Closes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closes
}

// Launcher hands out sessions around pages from NewPage, or fails with Err.
type Launcher struct {
	NewPage func() *Page
	Err     error

	mu       sync.Mutex
	sessions []*Session
}

var _ browser.Launcher = (*Launcher)(nil)

func (l *Launcher) Start(ctx context.Context) (browser.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l.Err != nil {
		return nil, l.Err
	}
	page := NewPage(nil)
	if l.NewPage != nil {
		page = l.NewPage()
	}
	s := NewSession(page)
	l.mu.Lock()
	l.sessions = append(l.sessions, s)
	l.mu.Unlock()
	return s, nil
}

// Sessions returns every session started so far.
func (l *Launcher) Sessions() []*Session {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*Session(nil), l.sessions...)
}
