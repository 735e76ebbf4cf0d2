package headless

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Hitish07/Web-Navigator-AI-Agent/pkg/types"
)

// SummaryFile is the name of the JSON batch report.
const SummaryFile = "batch-summary.json"

// Config represents a batch file.
type Config struct {
	// Directory for the batch report
	OutputDir string `yaml:"output_dir" json:"output_dir"`

	// Tasks to run, in order
	Tasks []TaskSpec `yaml:"tasks" json:"tasks"`

	// Keep going after a failed task
	ContinueOnFailure bool `yaml:"continue_on_failure" json:"continue_on_failure"`

	// Upper bound for a single task; zero means none
	TaskTimeout time.Duration `yaml:"task_timeout" json:"task_timeout"`

	// Artifacts configuration
	Artifacts ArtifactConfig `yaml:"artifacts" json:"artifacts"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// TaskSpec is one request in a batch.
type TaskSpec struct {
	Name    string      `yaml:"name" json:"name"`
	Request string      `yaml:"request" json:"request"`
	Expect  Expectation `yaml:"expect" json:"expect"`
}

// Expectation lists checks run against a task result.
type Expectation struct {
	Format     types.Format `yaml:"format" json:"format,omitempty"`
	File       *bool        `yaml:"file" json:"file,omitempty"`
	Contains   []string     `yaml:"contains" json:"contains,omitempty"`
	MinActions int          `yaml:"min_actions" json:"min_actions,omitempty"`
}

// LoggingConfig defines console verbosity.
type LoggingConfig struct {
	// Verbosity controls logging level: quiet, normal, verbose, debug
	Verbosity string `yaml:"verbosity" json:"verbosity"`
}

// ArtifactConfig defines which reports are written.
type ArtifactConfig struct {
	Markdown bool `yaml:"markdown" json:"markdown"`
}

// LoadConfig reads and validates a batch file. Unset fields keep the
// values of DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse batch file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate validates the configuration and fills task names.
func (c *Config) Validate() error {
	if len(c.Tasks) == 0 {
		return fmt.Errorf("batch has no tasks")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	if c.TaskTimeout < 0 {
		return fmt.Errorf("task_timeout cannot be negative")
	}

	for i := range c.Tasks {
		t := &c.Tasks[i]
		if t.Request == "" {
			return fmt.Errorf("task %d: request is required", i+1)
		}
		if t.Name == "" {
			t.Name = fmt.Sprintf("task-%d", i+1)
		}
		if t.Expect.MinActions < 0 {
			return fmt.Errorf("task %s: min_actions cannot be negative", t.Name)
		}
		switch t.Expect.Format {
		case "", types.FormatText, types.FormatJSON, types.FormatCSV, types.FormatTXT, types.FormatPDF:
		default:
			return fmt.Errorf("task %s: unknown format %q", t.Name, t.Expect.Format)
		}
	}

	if c.Logging.Verbosity == "" {
		c.Logging.Verbosity = "normal"
	}
	validLevels := map[string]bool{
		"quiet":   true,
		"normal":  true,
		"verbose": true,
		"debug":   true,
	}
	if !validLevels[c.Logging.Verbosity] {
		return fmt.Errorf("invalid logging verbosity: %s (must be 'quiet', 'normal', 'verbose', or 'debug')", c.Logging.Verbosity)
	}

	return nil
}

// DefaultConfig returns a default configuration suitable for most use cases
func DefaultConfig() *Config {
	return &Config{
		OutputDir: "outputs",
		Artifacts: ArtifactConfig{Markdown: true},
		Logging:   LoggingConfig{Verbosity: "normal"},
	}
}
