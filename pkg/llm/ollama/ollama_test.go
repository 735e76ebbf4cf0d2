package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/llm"
)

func TestGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "phi3", req.Model)
		assert.Equal(t, "find laptops", req.Prompt)
		assert.Equal(t, "sys", req.System)
		assert.False(t, req.Stream)

		_ = json.NewEncoder(w).Encode(generateResponse{Response: "<think>x</think> answer "})
	}))
	defer srv.Close()

	p := NewProvider(WithBaseURL(srv.URL+"/"), WithModel("phi3"), WithSystemPrompt("sys"))
	out, err := p.Generate(context.Background(), "find laptops")
	require.NoError(t, err)
	assert.Equal(t, "answer", out)
}

func TestChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		assert.Equal(t, llm.RoleSystem, req.Messages[0].Role)

		_ = json.NewEncoder(w).Encode(chatResponse{Message: llm.Message{Role: llm.RoleAssistant, Content: "Hello!"}})
	}))
	defer srv.Close()

	p := NewProvider(WithBaseURL(srv.URL))
	out, err := llm.Chat(context.Background(), p, []llm.Message{
		{Role: llm.RoleSystem, Content: "be nice"},
		{Role: llm.RoleUser, Content: "hi"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello!", out)
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    string
	}{
		{
			name: "http status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "model 'x' not found", http.StatusNotFound)
			},
			want: "status 404",
		},
		{
			name: "error field",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(generateResponse{Error: "out of memory"})
			},
			want: "out of memory",
		},
		{
			name: "bad json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("not json"))
			},
			want: "decode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewProvider(WithBaseURL(srv.URL)).Generate(context.Background(), "x")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestGenerateTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	p := NewProvider(WithBaseURL(srv.URL), WithTimeout(50*time.Millisecond))
	_, err := p.Generate(context.Background(), "slow")
	assert.Error(t, err)
}

func TestDefaults(t *testing.T) {
	p := NewProvider(WithModel(""), WithBaseURL(""))
	assert.Equal(t, DefaultModel, p.GetModel())
	assert.Equal(t, DefaultBaseURL, p.baseURL)
	assert.Equal(t, DefaultTimeout, p.httpClient.Timeout)
}
