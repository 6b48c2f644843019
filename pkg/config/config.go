// Package config loads babu interpreter settings from YAML files.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/babushona/babu/pkg/evaluator"
)

// File names searched when no explicit path is given.
const (
	ProjectFileName = ".babu.yml"
	UserDirName     = ".babu"
	UserFileName    = "config.yml"
)

// Diagnostic output formats.
const (
	FormatPretty = "pretty"
	FormatJSON   = "json"
)

// DefaultPrompt is the interpreter's built-in input prompt.
const DefaultPrompt = evaluator.DefaultPrompt

// Config holds the resolved interpreter settings.
type Config struct {
	// Path is the file the settings were read from, empty for defaults.
	Path            string
	Prompt          string
	Diagnostics     string
	ExitZeroOnError bool
	Budget          Budget
}

// Budget mirrors the optional execution limits. Nil means unlimited.
type Budget struct {
	MaxIterations *int64
	TimeMs        *int64
}

type configFile struct {
	Prompt          *string     `yaml:"prompt"`
	Diagnostics     string      `yaml:"diagnostics"`
	ExitZeroOnError bool        `yaml:"exit_zero_on_error"`
	Budget          *budgetFile `yaml:"budget"`
}

type budgetFile struct {
	MaxIterations *int64 `yaml:"max_iterations"`
	TimeMs        *int64 `yaml:"time_ms"`
}

// ValidationError aggregates configuration validation failures.
type ValidationError struct {
	Path   string
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed")
	if e.Path != "" {
		b.WriteString(" for ")
		b.WriteString(e.Path)
	}
	b.WriteString(":")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Prompt:      DefaultPrompt,
		Diagnostics: FormatPretty,
	}
}

// Resolve finds the active configuration.
// Precedence: explicit path → <projectDir>/.babu.yml → ~/.babu/config.yml → defaults.
// An explicit path must exist; the implicit locations are skipped when absent.
func Resolve(explicit, projectDir string) (*Config, error) {
	if explicit != "" {
		return Load(explicit)
	}

	candidates := []string{filepath.Join(projectDir, ProjectFileName)}
	if homeDir, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(homeDir, UserDirName, UserFileName))
	}
	for _, path := range candidates {
		cfg, err := Load(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return cfg, err
	}
	return Default(), nil
}

// Load parses a configuration file, returning validated settings.
// An empty file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	defer file.Close()

	cfg, err := Decode(file)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			verr.Path = absPath
			return nil, verr
		}
		return nil, fmt.Errorf("config: parse %s: %w", absPath, err)
	}
	cfg.Path = absPath
	return cfg, nil
}

// Decode reads YAML settings from r. Unknown keys are rejected.
func Decode(r io.Reader) (*Config, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var raw configFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return Default(), nil
		}
		return nil, err
	}

	cfg := raw.toConfig()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (f *configFile) toConfig() *Config {
	cfg := Default()
	if f.Prompt != nil {
		cfg.Prompt = *f.Prompt
	}
	if f.Diagnostics != "" {
		cfg.Diagnostics = strings.ToLower(strings.TrimSpace(f.Diagnostics))
	}
	cfg.ExitZeroOnError = f.ExitZeroOnError
	if f.Budget != nil {
		cfg.Budget.MaxIterations = f.Budget.MaxIterations
		cfg.Budget.TimeMs = f.Budget.TimeMs
	}
	return cfg
}

func (c *Config) validate() error {
	var errs ValidationError
	switch c.Diagnostics {
	case FormatPretty, FormatJSON:
	default:
		errs.Issues = append(errs.Issues, fmt.Sprintf("diagnostics must be %q or %q, got %q", FormatPretty, FormatJSON, c.Diagnostics))
	}
	if c.Prompt == "" {
		errs.Issues = append(errs.Issues, "prompt must not be empty")
	}
	if c.Budget.MaxIterations != nil && *c.Budget.MaxIterations <= 0 {
		errs.Issues = append(errs.Issues, fmt.Sprintf("budget.max_iterations must be positive, got %d", *c.Budget.MaxIterations))
	}
	if c.Budget.TimeMs != nil && *c.Budget.TimeMs <= 0 {
		errs.Issues = append(errs.Issues, fmt.Sprintf("budget.time_ms must be positive, got %d", *c.Budget.TimeMs))
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}
