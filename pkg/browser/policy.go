package browser

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gobwas/glob"
)

// HostPolicy restricts which hosts navigate actions may load. Patterns are
// globs over the host name with '.' as separator, so "*.google.com" matches
// "www.google.com" and "**.google.com" matches any depth.
type HostPolicy struct {
	allowed []glob.Glob
	denied  []glob.Glob
}

// NewHostPolicy compiles allowed and denied host patterns.
func NewHostPolicy(allowed, denied []string) (*HostPolicy, error) {
	p := &HostPolicy{}

	for _, pattern := range allowed {
		g, err := glob.Compile(strings.ToLower(pattern), '.')
		if err != nil {
			return nil, fmt.Errorf("invalid allowed host pattern '%s': %w", pattern, err)
		}
		p.allowed = append(p.allowed, g)
	}

	for _, pattern := range denied {
		g, err := glob.Compile(strings.ToLower(pattern), '.')
		if err != nil {
			return nil, fmt.Errorf("invalid blocked host pattern '%s': %w", pattern, err)
		}
		p.denied = append(p.denied, g)
	}

	return p, nil
}

// Allows reports whether rawURL may be loaded. Denied patterns take
// precedence; with no allowed patterns every other host is allowed.
// A nil policy allows everything.
func (p *HostPolicy) Allows(rawURL string) bool {
	if p == nil {
		return true
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return false
	}
	host := strings.ToLower(u.Hostname())

	for _, g := range p.denied {
		if g.Match(host) {
			return false
		}
	}

	if len(p.allowed) == 0 {
		return true
	}

	for _, g := range p.allowed {
		if g.Match(host) {
			return true
		}
	}
	return false
}
