package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/llm"
)

// chdir runs the test from an empty directory so no stray webnav.yaml or
// .env is picked up.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(orig) })
	return dir
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, names := range legacyEnv {
		for _, n := range names {
			t.Setenv(n, "")
			os.Unsetenv(n)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	chdir(t)
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ProviderOllama, cfg.LLM.Provider)
	assert.Equal(t, "llama3.2:3b", cfg.LLM.Model)
	assert.Equal(t, "http://localhost:11434", cfg.LLM.BaseURL)
	assert.Equal(t, 120*time.Second, cfg.LLM.Timeout)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 30000.0, cfg.Browser.TimeoutMS)
	assert.Equal(t, 3000, cfg.Browser.SettleMS)
	assert.Equal(t, 1920, cfg.Browser.ViewportWidth)
	assert.Equal(t, 1080, cfg.Browser.ViewportHeight)
	assert.Equal(t, "outputs", cfg.Output.Dir)
	assert.NotContains(t, cfg.Logging.Dir, "~")
}

func TestLoadFileAndEnvPrecedence(t *testing.T) {
	dir := chdir(t)
	clearEnv(t)

	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
llm:
  provider: openai
  model: from-file
  timeout: 30s
browser:
  headless: false
  blocked_hosts: ["*.ads.example"]
`), 0600))

	t.Setenv("WEBNAV_LLM_MODEL", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "from-env", cfg.LLM.Model)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, []string{"*.ads.example"}, cfg.Browser.BlockedHosts)
}

func TestLoadLegacyEnvAndDotEnv(t *testing.T) {
	dir := chdir(t)
	clearEnv(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("OLLAMA_MODEL=mistral\nBROWSER_HEADLESS=false\n"), 0600))
	t.Cleanup(func() {
		os.Unsetenv("OLLAMA_MODEL")
		os.Unsetenv("BROWSER_HEADLESS")
	})

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "mistral", cfg.LLM.Model)
	assert.False(t, cfg.Browser.Headless)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	chdir(t)
	_, err := Load("does-not-exist.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *viper.Viper {
		v := viper.New()
		SetDefaults(v)
		return v
	}

	tests := []struct {
		name string
		key  string
		val  any
	}{
		{name: "bad provider", key: "llm.provider", val: "claude-local"},
		{name: "empty model", key: "llm.model", val: ""},
		{name: "zero timeout", key: "llm.timeout", val: "0s"},
		{name: "negative settle", key: "browser.settle_ms", val: -1},
		{name: "zero viewport", key: "browser.viewport_width", val: 0},
		{name: "zero burst", key: "server.burst", val: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := base()
			v.Set(tt.key, tt.val)
			_, err := FromViper(v)
			assert.Error(t, err)
		})
	}

	_, err := FromViper(base())
	assert.NoError(t, err)
}

func TestBuildProvider(t *testing.T) {
	ctx := context.Background()

	p, err := BuildProvider(ctx, LLMConfig{Provider: ProviderOllama, Model: "phi3", Timeout: time.Second})
	require.NoError(t, err)
	name, model := llm.Describe(p)
	assert.Equal(t, "ollama", name)
	assert.Equal(t, "phi3", model)

	p, err = BuildProvider(ctx, LLMConfig{Provider: ProviderOpenAI, Model: "llama3.2:3b", BaseURL: "http://localhost:11434", Timeout: time.Second})
	require.NoError(t, err)
	name, _ = llm.Describe(p)
	assert.Equal(t, "openai", name)

	t.Setenv("GEMINI_API_KEY", "")
	_, err = BuildProvider(ctx, LLMConfig{Provider: ProviderGemini, Model: "gemini-2.0-flash"})
	assert.Error(t, err)

	_, err = BuildProvider(ctx, LLMConfig{Provider: "nope"})
	assert.Error(t, err)
}
