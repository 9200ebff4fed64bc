package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// clearAllEnvVars clears all config-related environment variables for clean tests
func clearAllEnvVars(t *testing.T) {
	t.Helper()
	for _, env := range []string{EnvLogLevel, EnvLogFormat, EnvPrompt, EnvMarker, EnvCvarFile} {
		t.Setenv(env, "")
		os.Unsetenv(env)
	}
}

// runInTempDir runs the test in a temporary directory to isolate from config files
func runInTempDir(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	oldWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working dir: %v", err)
	}
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("failed to change to temp dir: %v", err)
	}
	t.Cleanup(func() {
		os.Chdir(oldWd)
	})

	// Override HOME and XDG_CONFIG_HOME to prevent loading user config files
	t.Setenv("HOME", tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, ".config"))
	return tmpDir
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	return path
}

func TestValidate_Defaults(t *testing.T) {
	clearAllEnvVars(t)
	runInTempDir(t)

	cfg := NewConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, DefaultLogLevel)
	}
	if cfg.LogFormat != DefaultLogFormat {
		t.Errorf("LogFormat = %q, want %q", cfg.LogFormat, DefaultLogFormat)
	}
	if cfg.Prompt != DefaultPrompt {
		t.Errorf("Prompt = %q, want %q", cfg.Prompt, DefaultPrompt)
	}
	if cfg.Marker != DefaultMarker {
		t.Errorf("Marker = %q, want %q", cfg.Marker, DefaultMarker)
	}
	if len(cfg.Cvars) != 0 {
		t.Errorf("Cvars = %v, want none", cfg.Cvars)
	}
}

func TestValidate_Precedence(t *testing.T) {
	clearAllEnvVars(t)
	dir := runInTempDir(t)

	writeFile(t, filepath.Join(dir, ".devconsole", ConfigFileName), `
log:
  level: info
  format: json
console:
  prompt: "file> "
  marker: "#"
`)
	t.Setenv(EnvLogLevel, "error")

	cfg := NewConfig()
	cfg.Prompt = "flag> "
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if cfg.Prompt != "flag> " {
		t.Errorf("Prompt = %q, flag should win", cfg.Prompt)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel = %q, env should win over file", cfg.LogLevel)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, want file value %q", cfg.LogFormat, "json")
	}
	if cfg.Marker != "#" {
		t.Errorf("Marker = %q, want file value %q", cfg.Marker, "#")
	}
}

func TestValidate_VerboseForcesDebug(t *testing.T) {
	clearAllEnvVars(t)
	runInTempDir(t)
	t.Setenv(EnvLogLevel, "error")

	cfg := NewConfig()
	cfg.Verbose = true
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestValidate_InvalidLogFormat(t *testing.T) {
	clearAllEnvVars(t)
	runInTempDir(t)
	t.Setenv(EnvLogFormat, "xml")

	err := NewConfig().Validate()
	if !errors.Is(err, ErrInvalidLogFormat) {
		t.Errorf("Validate() error = %v, want %v", err, ErrInvalidLogFormat)
	}
}

func TestValidate_BlankMarker(t *testing.T) {
	clearAllEnvVars(t)
	runInTempDir(t)

	cfg := NewConfig()
	cfg.Marker = "  "
	if err := cfg.Validate(); !errors.Is(err, ErrEmptyMarker) {
		t.Errorf("Validate() error = %v, want %v", err, ErrEmptyMarker)
	}
}

func TestValidate_DuplicateCvar(t *testing.T) {
	clearAllEnvVars(t)
	dir := runInTempDir(t)

	writeFile(t, filepath.Join(dir, ".devconsole", ConfigFileName), `
cvars:
  - name: sv_cheats
    kind: bool
  - name: sv_cheats
    kind: int
`)

	err := NewConfig().Validate()
	if !errors.Is(err, ErrInvalidCvar) {
		t.Errorf("Validate() error = %v, want %v", err, ErrInvalidCvar)
	}
}

func TestValidate_BrokenFileIsAnError(t *testing.T) {
	clearAllEnvVars(t)
	dir := runInTempDir(t)

	writeFile(t, filepath.Join(dir, ".devconsole", ConfigFileName), "log: [broken\n")

	if err := NewConfig().Validate(); err == nil {
		t.Error("Validate() should fail on an unparsable config file")
	}
}

func TestValidate_CvarFileFromEnv(t *testing.T) {
	clearAllEnvVars(t)
	dir := runInTempDir(t)

	writeFile(t, filepath.Join(dir, ".devconsole", ConfigFileName), `
cvars:
  - name: from_config
`)
	extra := writeFile(t, filepath.Join(dir, "extra.toml"), `
[[cvars]]
name = "from_toml"
kind = "int"
default = "3"
`)
	t.Setenv(EnvCvarFile, extra)

	cfg := NewConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if len(cfg.Cvars) != 2 {
		t.Fatalf("Cvars length = %d, want 2", len(cfg.Cvars))
	}
	if cfg.Cvars[0].Name != "from_config" || cfg.Cvars[1].Name != "from_toml" {
		t.Errorf("Cvars order = [%s %s], want [from_config from_toml]", cfg.Cvars[0].Name, cfg.Cvars[1].Name)
	}
}

func TestNewLogger(t *testing.T) {
	cfg := &Config{LogLevel: "info", LogFormat: "json"}
	if l := cfg.NewLogger(); l.Level().String() != "INFO" {
		t.Errorf("NewLogger().Level() = %v, want INFO", l.Level())
	}
}
