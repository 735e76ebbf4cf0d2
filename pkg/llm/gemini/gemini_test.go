package gemini

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/llm"
)

func fakeGemini(t *testing.T, reply string, body *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, ":generateContent"), "unexpected path %s", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		if body != nil {
			*body = string(raw)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{{
				"content": map[string]any{
					"role":  "model",
					"parts": []map[string]any{{"text": reply}},
				},
			}},
		})
	}))
}

func TestNewProviderRequiresKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	_, err := NewProvider(context.Background(), "")
	assert.Error(t, err)
}

func TestGenerate(t *testing.T) {
	var body string
	srv := fakeGemini(t, "  [{\"action\":\"scroll\"}] ", &body)
	defer srv.Close()

	p, err := NewProvider(context.Background(), "key", WithBaseURL(srv.URL), WithModel("gemini-test"), WithSystemPrompt("plan only"))
	require.NoError(t, err)

	out, err := p.Generate(context.Background(), "find phones")
	require.NoError(t, err)
	assert.Equal(t, `[{"action":"scroll"}]`, out)
	assert.Contains(t, body, "find phones")
	assert.Contains(t, body, "plan only")
}

func TestChatMapsRoles(t *testing.T) {
	var body string
	srv := fakeGemini(t, "sure", &body)
	defer srv.Close()

	p, err := NewProvider(context.Background(), "key", WithBaseURL(srv.URL))
	require.NoError(t, err)

	out, err := llm.Chat(context.Background(), p, []llm.Message{
		{Role: llm.RoleSystem, Content: "helpful assistant"},
		{Role: llm.RoleUser, Content: "hello"},
		{Role: llm.RoleAssistant, Content: "hi there"},
		{Role: llm.RoleUser, Content: "thanks"},
	})
	require.NoError(t, err)
	assert.Equal(t, "sure", out)
	assert.Contains(t, body, `"model"`)
	assert.Contains(t, body, "helpful assistant")
}

func TestGenerateServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":500,"message":"boom"}}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	p, err := NewProvider(context.Background(), "key", WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = p.Generate(context.Background(), "x")
	assert.Error(t, err)
}
