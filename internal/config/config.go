package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/quocvuong92/devconsole/internal/constants"
	"github.com/quocvuong92/devconsole/internal/logging"
)

// Environment variable names
const (
	EnvLogLevel  = "DEVCONSOLE_LOG_LEVEL"
	EnvLogFormat = "DEVCONSOLE_LOG_FORMAT"
	EnvPrompt    = "DEVCONSOLE_PROMPT"
	EnvMarker    = "DEVCONSOLE_MARKER"
	EnvCvarFile  = "DEVCONSOLE_CVARS"
)

// Defaults - re-exported from constants for convenience
const (
	DefaultLogLevel  = constants.DefaultLogLevel
	DefaultLogFormat = constants.DefaultLogFormat
	DefaultPrompt    = constants.DefaultPrompt
	DefaultMarker    = constants.DefaultMarker
)

// Errors
var (
	ErrInvalidLogFormat = errors.New("invalid log format. Use 'text' or 'json'")
	ErrInvalidCvar      = errors.New("invalid cvar definition")
	ErrEmptyMarker      = errors.New("transcript marker must not be empty")
)

// CvarConfig declares a cvar in a config file.
type CvarConfig struct {
	Name        string   `yaml:"name" toml:"name"`
	Kind        string   `yaml:"kind,omitempty" toml:"kind,omitempty"` // "bool", "int", "float", "string"
	Default     string   `yaml:"default,omitempty" toml:"default,omitempty"`
	ReadOnly    bool     `yaml:"read_only,omitempty" toml:"read_only,omitempty"`
	Archive     bool     `yaml:"archive,omitempty" toml:"archive,omitempty"`
	Min         *float64 `yaml:"min,omitempty" toml:"min,omitempty"`
	Max         *float64 `yaml:"max,omitempty" toml:"max,omitempty"`
	Choices     []string `yaml:"choices,omitempty" toml:"choices,omitempty"`
	Description string   `yaml:"description,omitempty" toml:"description,omitempty"`
}

// Config holds the application configuration
type Config struct {
	// Logging
	LogLevel  string
	LogFormat string

	// Console
	Prompt string
	Marker string

	// CvarFile is an extra YAML or TOML file with cvar definitions
	CvarFile string
	Cvars    []CvarConfig

	// Flags
	Verbose bool
	Render  bool
}

// NewConfig creates a new Config with defaults unset; Validate fills them.
func NewConfig() *Config {
	return &Config{}
}

// Validate loads the config file and environment and checks the result.
// Precedence: flags (already set on c) > environment > config file > defaults.
func (c *Config) Validate() error {
	// Errors loading the config file are reported: a broken file is more
	// likely a typo than something to silently ignore.
	fileConfig, err := LoadConfigFile()
	if err != nil {
		return err
	}

	// Environment first so file values only fill what is still empty.
	c.applyEnv()
	c.ApplyFileConfig(fileConfig)

	if c.CvarFile != "" {
		extra, err := LoadCvarFile(c.CvarFile)
		if err != nil {
			return err
		}
		c.Cvars = append(c.Cvars, extra...)
	}

	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Verbose {
		c.LogLevel = "debug"
	}
	if c.LogFormat == "" {
		c.LogFormat = DefaultLogFormat
	}
	if _, ok := logging.ParseFormat(c.LogFormat); !ok {
		return ErrInvalidLogFormat
	}
	if c.Prompt == "" {
		c.Prompt = DefaultPrompt
	}
	if c.Marker == "" {
		c.Marker = DefaultMarker
	}
	if strings.TrimSpace(c.Marker) == "" {
		return ErrEmptyMarker
	}

	seen := make(map[string]bool, len(c.Cvars))
	for _, cv := range c.Cvars {
		if cv.Name == "" {
			return fmt.Errorf("%w: missing name", ErrInvalidCvar)
		}
		if seen[cv.Name] {
			return fmt.Errorf("%w: %s declared twice", ErrInvalidCvar, cv.Name)
		}
		seen[cv.Name] = true
	}

	return nil
}

func (c *Config) applyEnv() {
	if c.LogLevel == "" {
		c.LogLevel = os.Getenv(EnvLogLevel)
	}
	if c.LogFormat == "" {
		c.LogFormat = os.Getenv(EnvLogFormat)
	}
	if c.Prompt == "" {
		c.Prompt = os.Getenv(EnvPrompt)
	}
	if c.Marker == "" {
		c.Marker = os.Getenv(EnvMarker)
	}
	if c.CvarFile == "" {
		c.CvarFile = strings.TrimSpace(os.Getenv(EnvCvarFile))
	}
}

// NewLogger builds the logger described by c. Call after Validate.
func (c *Config) NewLogger() *logging.Logger {
	format, _ := logging.ParseFormat(c.LogFormat)
	return logging.New(logging.Options{
		Level:  logging.ParseLevel(c.LogLevel),
		Format: format,
		Output: os.Stderr,
	})
}
