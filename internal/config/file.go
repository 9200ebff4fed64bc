package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/quocvuong92/devconsole/internal/constants"
)

// Config file names, checked in this order in every directory
const (
	ConfigFileName     = "config.yaml"
	ConfigFileNameTOML = "config.toml"
)

// FileConfig represents the configuration file structure
type FileConfig struct {
	Log     *LogConfig     `yaml:"log,omitempty" toml:"log,omitempty"`
	Console *ConsoleConfig `yaml:"console,omitempty" toml:"console,omitempty"`

	// CvarFile points at an additional definitions file
	CvarFile string       `yaml:"cvar_file,omitempty" toml:"cvar_file,omitempty"`
	Cvars    []CvarConfig `yaml:"cvars,omitempty" toml:"cvars,omitempty"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `yaml:"level,omitempty" toml:"level,omitempty"`
	Format string `yaml:"format,omitempty" toml:"format,omitempty"` // "text", "json"
}

// ConsoleConfig holds console presentation settings
type ConsoleConfig struct {
	Prompt string `yaml:"prompt,omitempty" toml:"prompt,omitempty"`
	Marker string `yaml:"marker,omitempty" toml:"marker,omitempty"`
	Render bool   `yaml:"render,omitempty" toml:"render,omitempty"`
}

// cvarFile is the layout of a standalone cvar definitions file
type cvarFile struct {
	Cvars []CvarConfig `yaml:"cvars" toml:"cvars"`
}

// GetConfigDirs returns the directories to check for config files (in order of priority)
func GetConfigDirs() []string {
	var dirs []string

	// 1. Current directory
	dirs = append(dirs, filepath.Join(".", constants.ProjectDir))

	// 2. User config directory
	if configDir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, filepath.Join(configDir, constants.AppName))
	}

	// 3. Home directory
	if homeDir, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(homeDir, ".config", constants.AppName))
	}

	return dirs
}

// GetConfigPaths returns every candidate config file path in priority order
func GetConfigPaths() []string {
	var paths []string
	for _, dir := range GetConfigDirs() {
		paths = append(paths,
			filepath.Join(dir, ConfigFileName),
			filepath.Join(dir, ConfigFileNameTOML),
		)
	}
	return paths
}

// LoadConfigFile loads the first config file found.
// A missing file yields an empty config, not an error.
func LoadConfigFile() (*FileConfig, error) {
	for _, path := range GetConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			return loadConfigFromPath(path)
		}
	}
	return &FileConfig{}, nil
}

// loadConfigFromPath loads config from a specific path, choosing the
// decoder by extension
func loadConfigFromPath(path string) (*FileConfig, error) {
	var cfg FileConfig
	if err := decodeFile(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadCvarFile reads cvar definitions from a YAML or TOML file
func LoadCvarFile(path string) ([]CvarConfig, error) {
	var f cvarFile
	if err := decodeFile(path, &f); err != nil {
		return nil, err
	}
	return f.Cvars, nil
}

func decodeFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := toml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}
	return nil
}

// ApplyFileConfig applies file configuration to the main Config
// File config has lower priority than environment variables and CLI flags
func (c *Config) ApplyFileConfig(fc *FileConfig) {
	if fc == nil {
		return
	}

	if fc.Log != nil {
		if c.LogLevel == "" && fc.Log.Level != "" {
			c.LogLevel = fc.Log.Level
		}
		if c.LogFormat == "" && fc.Log.Format != "" {
			c.LogFormat = fc.Log.Format
		}
	}

	if fc.Console != nil {
		if c.Prompt == "" && fc.Console.Prompt != "" {
			c.Prompt = fc.Console.Prompt
		}
		if c.Marker == "" && fc.Console.Marker != "" {
			c.Marker = fc.Console.Marker
		}
		// A false flag can't be told apart from an unset one, so the file
		// can only turn rendering on.
		if fc.Console.Render && !c.Render {
			c.Render = true
		}
	}

	if c.CvarFile == "" && fc.CvarFile != "" {
		c.CvarFile = fc.CvarFile
	}

	// File definitions come first; later sources append.
	if len(fc.Cvars) > 0 {
		c.Cvars = append(append([]CvarConfig{}, fc.Cvars...), c.Cvars...)
	}
}

// CreateDefaultConfigFile creates a default config file at the user config directory
func CreateDefaultConfigFile() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("could not determine config directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	dir := filepath.Join(configDir, constants.AppName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	path := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		return path, fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, []byte(defaultConfigTemplate), 0600); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return path, nil
}

const defaultConfigTemplate = `# devconsole configuration
# Location: ~/.config/devconsole/config.yaml
# A config.toml with the same keys is accepted as well.

# Diagnostics (written to stderr, never to the transcript)
# log:
#   level: warn     # debug, info, warn, error, off
#   format: text    # text or json

# Console presentation
# console:
#   prompt: "] "
#   marker: ">"
#   render: false   # render help and cvar listings as markdown

# Additional definitions file (YAML or TOML with a top-level "cvars" list)
# cvar_file: ./cvars.yaml

# Console variables
# cvars:
#   - name: sv_gravity
#     kind: float
#     default: "800"
#     min: 0
#     archive: true
#     description: World gravity
#   - name: sv_cheats
#     kind: bool
#     default: "false"
#   - name: hostname
#     kind: string
#     default: "devconsole"
#     read_only: true
`
