package cmd

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/quocvuong92/devconsole/internal/config"
	"github.com/quocvuong92/devconsole/internal/cvar"
	"github.com/quocvuong92/devconsole/internal/logging"
)

// isolate points config, data and working directories at temp dirs and
// clears the environment overrides.
func isolate(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	for _, env := range []string{
		config.EnvLogLevel,
		config.EnvLogFormat,
		config.EnvPrompt,
		config.EnvMarker,
		config.EnvCvarFile,
	} {
		t.Setenv(env, "")
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func ptr(f float64) *float64 { return &f }

func testCvars() []config.CvarConfig {
	return []config.CvarConfig{
		{Name: "sv_cheats", Kind: "bool", Description: "Allow cheat commands"},
		{Name: "sv_gravity", Kind: "float", Default: "800", Min: ptr(0), Max: ptr(10000)},
		{Name: "hostname", Kind: "string", Default: "devbox", Archive: true},
	}
}

func newTestSession(t *testing.T, logger *logging.Logger) *Session {
	t.Helper()
	cfg := config.NewConfig()
	cfg.Marker = ">"
	cfg.Cvars = testCvars()
	if logger == nil {
		logger = logging.Discard()
	}
	s, err := NewSession(cfg, logger)
	if err != nil {
		t.Fatalf("NewSession failed: %v", err)
	}
	return s
}

// run processes line and returns only what it added to the transcript.
func run(s *Session, line string) string {
	before := s.Console.Transcript().Snapshot()
	after := s.Console.ProcessInput(line)
	delta, _ := transcriptDelta(before, after)
	return delta
}

func TestNewSession_Commands(t *testing.T) {
	isolate(t)
	s := newTestSession(t, nil)

	want := []string{"help", "clear", "echo", "list", "reset", "describe"}
	if diff := cmp.Diff(want, s.Console.Commands()); diff != "" {
		t.Errorf("Commands() mismatch (-want +got):\n%s", diff)
	}
}

func TestNewSession_BuiltinCvars(t *testing.T) {
	isolate(t)
	s := newTestSession(t, nil)

	if got, want := run(s, "version"), ">version\nversion = "+version+"\n"; got != want {
		t.Errorf("version = %q, want %q", got, want)
	}
	if got, want := run(s, "version 2.0"), ">version 2.0\nFailed to assign to version\n"; got != want {
		t.Errorf("write to read-only = %q, want %q", got, want)
	}
}

func TestNewSession_ConfigCvars(t *testing.T) {
	isolate(t)
	s := newTestSession(t, nil)

	tests := []struct {
		line string
		want string
	}{
		{"sv_gravity", ">sv_gravity\nsv_gravity = 800\n"},
		{"sv_gravity 400", ">sv_gravity 400\n"},
		{"sv_gravity", ">sv_gravity\nsv_gravity = 400\n"},
		{"sv_gravity -1", ">sv_gravity -1\nFailed to assign to sv_gravity\n"},
		{"sv_cheats", ">sv_cheats\nsv_cheats = false\n"},
		{"sv_cheats maybe", ">sv_cheats maybe\nFailed to assign to sv_cheats\n"},
		{"hostname my   dev box", ">hostname my   dev box\n"},
		{"hostname", ">hostname\nhostname = my dev box\n"},
	}
	for _, tt := range tests {
		if got := run(s, tt.line); got != tt.want {
			t.Errorf("ProcessInput(%q) added %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestNewSession_InvalidCvarConfig(t *testing.T) {
	isolate(t)
	cfg := config.NewConfig()
	cfg.Marker = ">"
	cfg.Cvars = []config.CvarConfig{{Name: "bad", Kind: "complex"}}

	if _, err := NewSession(cfg, logging.Discard()); err == nil {
		t.Error("NewSession should fail on an unknown cvar kind")
	}
}

func TestNewSession_ArchivedValuesSurviveRestart(t *testing.T) {
	isolate(t)

	first := newTestSession(t, nil)
	run(first, "hostname arena")
	run(first, "sv_gravity 100") // not archived

	second := newTestSession(t, nil)
	if got, want := run(second, "hostname"), ">hostname\nhostname = arena\n"; got != want {
		t.Errorf("restored hostname = %q, want %q", got, want)
	}
	if got, want := run(second, "sv_gravity"), ">sv_gravity\nsv_gravity = 800\n"; got != want {
		t.Errorf("sv_gravity = %q, want %q", got, want)
	}
}

func TestNewSession_LogLevelCvar(t *testing.T) {
	isolate(t)
	var buf bytes.Buffer
	logger := logging.New(logging.Options{Level: logging.LevelWarn, Output: &buf})
	s := newTestSession(t, logger)

	if got, want := run(s, "log_level"), ">log_level\nlog_level = warn\n"; got != want {
		t.Errorf("log_level = %q, want %q", got, want)
	}

	run(s, "log_level debug")
	if logger.Level() != logging.LevelDebug {
		t.Errorf("logger level = %v, want DEBUG", logger.Level())
	}

	buf.Reset()
	run(s, "help")
	if !strings.Contains(buf.String(), "Executing command") {
		t.Errorf("debug log missing after log_level debug, got %q", buf.String())
	}
}

func TestNewSession_LogLevelRejectsUnknownNames(t *testing.T) {
	isolate(t)
	logger := logging.New(logging.Options{Level: logging.LevelError, Output: io.Discard})
	s := newTestSession(t, logger)

	if got, want := run(s, "log_level loud"), ">log_level loud\nFailed to assign to log_level\n"; got != want {
		t.Errorf("log_level loud = %q, want %q", got, want)
	}
	if got, want := run(s, "log_level"), ">log_level\nlog_level = error\n"; got != want {
		t.Errorf("log_level after rejected write = %q, want %q", got, want)
	}
	if logger.Level() != logging.LevelError {
		t.Errorf("logger level = %v, want ERROR", logger.Level())
	}

	run(s, "log_level INFO")
	if got, want := run(s, "log_level"), ">log_level\nlog_level = info\n"; got != want {
		t.Errorf("log_level = %q, want %q", got, want)
	}
	if logger.Level() != logging.LevelInfo {
		t.Errorf("logger level = %v, want INFO", logger.Level())
	}
}

func TestResetCommand(t *testing.T) {
	isolate(t)
	s := newTestSession(t, nil)
	run(s, "sv_gravity 250")

	tests := []struct {
		line string
		want string
	}{
		{"reset", ">reset\nusage: reset <cvar> [cvar...]\n"},
		{"reset sv_gravity", ">reset sv_gravity\nsv_gravity = 800\n"},
		{"reset version", ">reset version\nFailed to reset version\n"},
		{"reset nope sv_cheats", ">reset nope sv_cheats\nFailed to reset nope\nsv_cheats = false\n"},
	}
	for _, tt := range tests {
		if got := run(s, tt.line); got != tt.want {
			t.Errorf("ProcessInput(%q) added %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestDescribeCommand(t *testing.T) {
	isolate(t)
	s := newTestSession(t, nil)

	got := run(s, "describe sv_cheats nope")
	want := ">describe sv_cheats nope\n" +
		"sv_cheats (bool) = false [default false]\n" +
		"  Allow cheat commands\n" +
		"nope is not a cvar\n"
	if got != want {
		t.Errorf("describe = %q, want %q", got, want)
	}

	if got := run(s, "describe"); !strings.Contains(got, "usage: describe") {
		t.Errorf("describe without args = %q, want usage", got)
	}
}

func TestFormatInfo_Flags(t *testing.T) {
	isolate(t)
	s := newTestSession(t, nil)

	info, ok := s.Cvars.Get("version")
	if !ok {
		t.Fatal("version cvar missing")
	}
	got := formatInfo(info)
	if !strings.HasPrefix(got, "version (string, "+cvar.ReadOnly.String()+") = ") {
		t.Errorf("formatInfo = %q, want read-only flag in header", got)
	}
}

func TestTranscriptDelta(t *testing.T) {
	tests := []struct {
		name      string
		prev      string
		cur       string
		wantDelta string
		wantReset bool
	}{
		{"empty", "", "", "", false},
		{"append", ">a\n", ">a\n>b\nb = 1\n", ">b\nb = 1\n", false},
		{"unchanged", ">a\n", ">a\n", "", false},
		{"cleared", ">a\n>b\n", "", "", true},
		{"cleared then more", ">a\nx\n", ">c\n", ">c\n", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			delta, reset := transcriptDelta(tt.prev, tt.cur)
			if delta != tt.wantDelta || reset != tt.wantReset {
				t.Errorf("transcriptDelta(%q, %q) = (%q, %v), want (%q, %v)",
					tt.prev, tt.cur, delta, reset, tt.wantDelta, tt.wantReset)
			}
		})
	}
}

func TestCvarsMarkdown(t *testing.T) {
	isolate(t)
	s := newTestSession(t, nil)

	md := cvarsMarkdown(s.Cvars.All())
	lines := strings.Split(strings.TrimSpace(md), "\n")
	// header, separator, and one row per cvar
	if want := 2 + len(s.Cvars.CvarNames()); len(lines) != want {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), want, md)
	}
	if !strings.Contains(md, "| `sv_gravity` | float |") {
		t.Errorf("markdown missing sv_gravity row:\n%s", md)
	}
}

func TestRunBatch(t *testing.T) {
	isolate(t)
	app := NewApp()
	app.cfg.Cvars = testCvars()
	if err := app.cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	app.logger = logging.Discard()

	in := strings.NewReader("sv_gravity 400\n\n   \nsv_gravity\nbogus\n")
	var out bytes.Buffer
	if err := app.runBatch(in, &out); err != nil {
		t.Fatalf("runBatch failed: %v", err)
	}

	want := ">sv_gravity 400\n" +
		">sv_gravity\nsv_gravity = 400\n" +
		">bogus\nbogus is not a valid token\n"
	if got := out.String(); got != want {
		t.Errorf("batch output = %q, want %q", got, want)
	}
}

func TestRunBatch_ClearRestartsOutput(t *testing.T) {
	isolate(t)
	app := NewApp()
	if err := app.cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	app.logger = logging.Discard()

	var out bytes.Buffer
	if err := app.runBatch(strings.NewReader("echo a\nclear\necho b\n"), &out); err != nil {
		t.Fatalf("runBatch failed: %v", err)
	}

	want := ">echo a\na \n>echo b\nb \n"
	if got := out.String(); got != want {
		t.Errorf("batch output = %q, want %q", got, want)
	}
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, io.ErrClosedPipe }

func TestRunBatch_WriteError(t *testing.T) {
	isolate(t)
	app := NewApp()
	if err := app.cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	app.logger = logging.Discard()

	err := app.runBatch(strings.NewReader("help\n"), failingWriter{})
	if err != io.ErrClosedPipe {
		t.Errorf("runBatch error = %v, want %v", err, io.ErrClosedPipe)
	}
}
