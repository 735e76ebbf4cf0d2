// Package config loads runtime settings from defaults, an optional YAML
// file, a .env file and the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Supported LLM backends.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// EnvPrefix is prepended to every nested key when read from the environment,
// e.g. WEBNAV_BROWSER_HEADLESS.
const EnvPrefix = "WEBNAV"

// Config is the full settings tree.
type Config struct {
	LLM       LLMConfig       `mapstructure:"llm" yaml:"llm"`
	Browser   BrowserConfig   `mapstructure:"browser" yaml:"browser"`
	Output    OutputConfig    `mapstructure:"output" yaml:"output"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	Telemetry TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`
}

// LLMConfig selects and parameterizes the inference backend.
type LLMConfig struct {
	Provider string        `mapstructure:"provider" yaml:"provider"`
	Model    string        `mapstructure:"model" yaml:"model"`
	BaseURL  string        `mapstructure:"base_url" yaml:"base_url"`
	APIKey   string        `mapstructure:"api_key" yaml:"api_key"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// BrowserConfig controls the Playwright session.
type BrowserConfig struct {
	Headless       bool     `mapstructure:"headless" yaml:"headless"`
	TimeoutMS      float64  `mapstructure:"timeout_ms" yaml:"timeout_ms"`
	SettleMS       int      `mapstructure:"settle_ms" yaml:"settle_ms"`
	ViewportWidth  int      `mapstructure:"viewport_width" yaml:"viewport_width"`
	ViewportHeight int      `mapstructure:"viewport_height" yaml:"viewport_height"`
	UserAgent      string   `mapstructure:"user_agent" yaml:"user_agent"`
	AllowedHosts   []string `mapstructure:"allowed_hosts" yaml:"allowed_hosts"`
	BlockedHosts   []string `mapstructure:"blocked_hosts" yaml:"blocked_hosts"`
}

// OutputConfig controls where exports are written.
type OutputConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// LoggingConfig mirrors logging.Options.
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Dir        string `mapstructure:"dir" yaml:"dir"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// ServerConfig controls the web API.
type ServerConfig struct {
	Addr      string  `mapstructure:"addr" yaml:"addr"`
	RateLimit float64 `mapstructure:"rate_limit" yaml:"rate_limit"`
	Burst     int     `mapstructure:"burst" yaml:"burst"`
}

// TelemetryConfig enables OTLP trace export when Endpoint is set.
type TelemetryConfig struct {
	Endpoint    string `mapstructure:"otlp_endpoint" yaml:"otlp_endpoint"`
	Insecure    bool   `mapstructure:"insecure" yaml:"insecure"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
}

// unprefixed environment names honoured for compatibility with existing .env files
var legacyEnv = map[string][]string{
	"llm.base_url":       {"OLLAMA_BASE_URL"},
	"llm.model":          {"OLLAMA_MODEL"},
	"llm.api_key":        {"OPENAI_API_KEY", "GEMINI_API_KEY"},
	"browser.headless":   {"BROWSER_HEADLESS"},
	"browser.timeout_ms": {"DEFAULT_TIMEOUT"},
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("llm.provider", ProviderOllama)
	v.SetDefault("llm.model", "llama3.2:3b")
	v.SetDefault("llm.base_url", "http://localhost:11434")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.timeout", 120*time.Second)

	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.timeout_ms", 30000.0)
	v.SetDefault("browser.settle_ms", 3000)
	v.SetDefault("browser.viewport_width", 1920)
	v.SetDefault("browser.viewport_height", 1080)
	v.SetDefault("browser.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	v.SetDefault("browser.allowed_hosts", []string{})
	v.SetDefault("browser.blocked_hosts", []string{})

	v.SetDefault("output.dir", "outputs")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.dir", "~/.webnav/logs")
	v.SetDefault("logging.max_size", 10)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 7)
	v.SetDefault("logging.compress", false)

	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.rate_limit", 2.0)
	v.SetDefault("server.burst", 5)

	v.SetDefault("telemetry.otlp_endpoint", "")
	v.SetDefault("telemetry.insecure", true)
	v.SetDefault("telemetry.service_name", "webnav")
}

// Load builds a Config. path may be empty, in which case ./webnav.yaml is
// used if present. A .env file in the working directory is loaded into the
// process environment first; a missing .env is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("webnav")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range legacyEnv {
		args := append([]string{key, EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}, names...)
		if err := v.BindEnv(args...); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return FromViper(v)
}

// FromViper decodes, expands and validates the settings held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	var err error
	if cfg.Output.Dir, err = homedir.Expand(cfg.Output.Dir); err != nil {
		return nil, fmt.Errorf("invalid output.dir: %w", err)
	}
	if cfg.Logging.Dir, err = homedir.Expand(cfg.Logging.Dir); err != nil {
		return nil, fmt.Errorf("invalid logging.dir: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings for values no component can work with.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderOllama, ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("llm.provider must be one of %s, %s, %s; got %q",
			ProviderOllama, ProviderOpenAI, ProviderGemini, c.LLM.Provider)
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("llm.timeout must be positive")
	}
	if c.Browser.TimeoutMS <= 0 {
		return fmt.Errorf("browser.timeout_ms must be positive")
	}
	if c.Browser.SettleMS < 0 {
		return fmt.Errorf("browser.settle_ms must not be negative")
	}
	if c.Browser.ViewportWidth <= 0 || c.Browser.ViewportHeight <= 0 {
		return fmt.Errorf("browser viewport must be positive")
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir is required")
	}
	if c.Server.RateLimit <= 0 || c.Server.Burst <= 0 {
		return fmt.Errorf("server.rate_limit and server.burst must be positive")
	}
	return nil
}
