package browsertest

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// selector groups; an element matches when any group matches
type selector []chain

// descendant combinator chain, outermost first
type chain []compound

type compound struct {
	tag     string
	id      string
	classes []string
	attrs   []attrCond
}

type attrCond struct {
	name     string
	value    string
	hasValue bool
}

// parseSelector supports type, class, id and attribute selectors, compound
// selectors, the descendant combinator and selector lists.
func parseSelector(s string) (selector, error) {
	var sel selector
	for _, group := range split(s, ',') {
		group = strings.TrimSpace(group)
		if group == "" {
			return nil, fmt.Errorf("empty selector in %q", s)
		}
		var c chain
		for _, part := range splitSpace(group) {
			comp, err := parseCompound(part)
			if err != nil {
				return nil, err
			}
			c = append(c, comp)
		}
		sel = append(sel, c)
	}
	if len(sel) == 0 {
		return nil, fmt.Errorf("empty selector")
	}
	return sel, nil
}

// split cuts s at sep outside brackets and quotes.
func split(s string, sep byte) []string {
	var parts []string
	depth, quote, start := 0, byte(0), 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '[':
			depth++
		case c == ']':
			depth--
		case c == sep && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

func splitSpace(s string) []string {
	var out []string
	for _, p := range split(strings.Join(strings.Fields(s), " "), ' ') {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseCompound(s string) (compound, error) {
	var c compound
	i := 0
	readIdent := func() string {
		start := i
		for i < len(s) && !strings.ContainsRune(".#[", rune(s[i])) {
			i++
		}
		return s[start:i]
	}

	if i < len(s) && !strings.ContainsRune(".#[", rune(s[i])) {
		c.tag = strings.ToLower(readIdent())
		if c.tag == "*" {
			c.tag = ""
		} else if !isIdent(c.tag) {
			return c, fmt.Errorf("unsupported selector %q", s)
		}
	}
	for i < len(s) {
		switch s[i] {
		case '.':
			i++
			name := readIdent()
			if !isIdent(name) {
				return c, fmt.Errorf("invalid class in %q", s)
			}
			c.classes = append(c.classes, name)
		case '#':
			i++
			c.id = readIdent()
			if !isIdent(c.id) {
				return c, fmt.Errorf("invalid id in %q", s)
			}
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return c, fmt.Errorf("unterminated attribute selector in %q", s)
			}
			c.attrs = append(c.attrs, parseAttr(s[i+1:i+end]))
			i += end + 1
		default:
			return c, fmt.Errorf("unsupported selector %q", s)
		}
	}
	return c, nil
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r == '-' || r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}

func parseAttr(s string) attrCond {
	name, value, ok := strings.Cut(s, "=")
	cond := attrCond{name: strings.TrimSpace(name)}
	if ok {
		cond.hasValue = true
		cond.value = strings.Trim(strings.TrimSpace(value), `'"`)
	}
	return cond
}

func (sel selector) matches(n *html.Node) bool {
	for _, c := range sel {
		if c.matches(n) {
			return true
		}
	}
	return false
}

func (c chain) matches(n *html.Node) bool {
	if len(c) == 0 || !c[len(c)-1].matches(n) {
		return false
	}
	rest := c[:len(c)-1]
	for p := n.Parent; p != nil && len(rest) > 0; p = p.Parent {
		if rest[len(rest)-1].matches(p) {
			rest = rest[:len(rest)-1]
		}
	}
	return len(rest) == 0
}

func (c compound) matches(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if c.tag != "" && n.Data != c.tag {
		return false
	}
	if c.id != "" && attr(n, "id") != c.id {
		return false
	}
	classes := strings.Fields(attr(n, "class"))
	for _, want := range c.classes {
		if !contains(classes, want) {
			return false
		}
	}
	for _, a := range c.attrs {
		v, ok := lookup(n, a.name)
		if !ok || (a.hasValue && v != a.value) {
			return false
		}
	}
	return true
}

func attr(n *html.Node, name string) string {
	v, _ := lookup(n, name)
	return v
}

func lookup(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
