package browser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/browser"
)

func TestHostPolicyAllows(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		denied  []string
		url     string
		want    bool
	}{
		{name: "no patterns allow all", url: "https://example.com/a", want: true},
		{name: "allowed single label", allowed: []string{"*.google.com"}, url: "https://www.google.com/search?q=x", want: true},
		{name: "single star stops at dot", allowed: []string{"*.google.com"}, url: "https://a.b.google.com", want: false},
		{name: "double star any depth", allowed: []string{"**.google.com"}, url: "https://a.b.google.com", want: true},
		{name: "not in allow list", allowed: []string{"*.google.com"}, url: "https://bing.com", want: false},
		{name: "denied takes precedence", allowed: []string{"**"}, denied: []string{"*.evil.test"}, url: "https://www.evil.test", want: false},
		{name: "case insensitive", allowed: []string{"www.google.com"}, url: "https://WWW.Google.com", want: true},
		{name: "no host", url: "not a url", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := browser.NewHostPolicy(tt.allowed, tt.denied)
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Allows(tt.url))
		})
	}
}

func TestHostPolicyInvalidPattern(t *testing.T) {
	_, err := browser.NewHostPolicy([]string{"[unclosed"}, nil)
	assert.Error(t, err)
}

func TestNilHostPolicyAllowsAll(t *testing.T) {
	var p *browser.HostPolicy
	assert.True(t, p.Allows("https://anything.example"))
}
