package cmd

import (
	"fmt"
	"strings"

	"github.com/quocvuong92/devconsole/internal/config"
	"github.com/quocvuong92/devconsole/internal/console"
	"github.com/quocvuong92/devconsole/internal/cvar"
	"github.com/quocvuong92/devconsole/internal/logging"
	"github.com/quocvuong92/devconsole/internal/settings"
)

// version is overridden at build time with -ldflags "-X ...cmd.version=..."
var version = "dev"

// Session bundles a console with the cvar store and settings behind it.
type Session struct {
	Console  *console.Console
	Cvars    *cvar.Store
	Settings *settings.Manager
	log      *logging.FieldLogger
}

// NewSession builds a console from a validated config: built-in cvars,
// cvars declared in config files, archived values from earlier sessions,
// and the host commands.
func NewSession(cfg *config.Config, logger *logging.Logger) (*Session, error) {
	mgr := settings.NewManager()
	if err := mgr.Load(); err != nil {
		// Archived values are a convenience; start without them.
		logger.Warn("Could not load archived cvars", logging.Fields{"error": err.Error()})
	}

	store := cvar.NewStore(cvar.WithPersister(mgr), cvar.WithLogger(logger))
	defineBuiltinCvars(store, logger)

	defs, err := cvar.DefinitionsFromConfig(cfg.Cvars)
	if err != nil {
		return nil, err
	}
	if err := store.DefineAll(defs); err != nil {
		return nil, err
	}

	restored := store.Restore(mgr.Values())

	c := console.New(store,
		console.WithLogger(logger),
		console.WithMarker(cfg.Marker),
	)

	s := &Session{
		Console:  c,
		Cvars:    store,
		Settings: mgr,
		log:      logger.WithFields(logging.Fields{"session": c.ID()}),
	}
	s.registerHostCommands()

	s.log.Info("Console ready", logging.Fields{
		"commands": len(c.Commands()),
		"cvars":    len(store.CvarNames()),
		"restored": restored,
	})
	return s, nil
}

func defineBuiltinCvars(store *cvar.Store, logger *logging.Logger) {
	store.MustDefine(cvar.Definition{
		Name:        "version",
		Kind:        cvar.KindString,
		Default:     version,
		Flags:       cvar.ReadOnly,
		Description: "Console build version",
	})
	store.MustDefine(cvar.Definition{
		Name:        "log_level",
		Kind:        cvar.KindString,
		Default:     strings.ToLower(logger.Level().String()),
		Choices:     []string{"debug", "info", "warn", "error", "none"},
		Description: "Diagnostic log level: debug, info, warn, error, none",
		OnChange: func(v cvar.Value) {
			logger.SetLevel(logging.ParseLevel(v.String()))
		},
	})
}

// registerHostCommands adds commands beyond the console defaults.
func (s *Session) registerHostCommands() {
	s.Console.RegisterCommand(console.NewCommand("reset", s.resetCommand))
	s.Console.RegisterCommand(console.NewCommand("describe", s.describeCommand))
}

// resetCommand restores each named cvar to its default.
func (s *Session) resetCommand(args []string) string {
	if len(args) == 0 {
		return "usage: reset <cvar> [cvar...]\n"
	}
	var sb strings.Builder
	for _, name := range args {
		info, ok := s.Cvars.Get(name)
		if !ok || info.Flags.Has(cvar.ReadOnly) {
			fmt.Fprintf(&sb, "Failed to reset %s\n", name)
			continue
		}
		if err := s.Cvars.Reset(name); err != nil {
			fmt.Fprintf(&sb, "Failed to reset %s\n", name)
			continue
		}
		v, _ := s.Cvars.Value(name)
		fmt.Fprintf(&sb, "%s = %s\n", name, v)
	}
	return sb.String()
}

// describeCommand prints kind, flags, default and description of cvars.
func (s *Session) describeCommand(args []string) string {
	if len(args) == 0 {
		return "usage: describe <cvar> [cvar...]\n"
	}
	var sb strings.Builder
	for _, name := range args {
		info, ok := s.Cvars.Get(name)
		if !ok {
			fmt.Fprintf(&sb, "%s is not a cvar\n", name)
			continue
		}
		sb.WriteString(formatInfo(info))
	}
	return sb.String()
}

func formatInfo(info cvar.Info) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%s", info.Name, info.Kind)
	if f := info.Flags.String(); f != "" {
		fmt.Fprintf(&sb, ", %s", f)
	}
	fmt.Fprintf(&sb, ") = %s [default %s]\n", info.Value, info.Default)
	if info.Description != "" {
		fmt.Fprintf(&sb, "  %s\n", info.Description)
	}
	return sb.String()
}

// transcriptDelta returns what cur adds to prev. If cur does not extend
// prev the transcript was cleared, and all of cur is returned with reset set.
func transcriptDelta(prev, cur string) (delta string, reset bool) {
	if strings.HasPrefix(cur, prev) {
		return cur[len(prev):], false
	}
	return cur, true
}

// cvarsMarkdown renders the cvar table used by the cvars subcommand.
func cvarsMarkdown(infos []cvar.Info) string {
	var sb strings.Builder
	sb.WriteString("| Name | Kind | Flags | Value | Description |\n")
	sb.WriteString("|---|---|---|---|---|\n")
	for _, info := range infos {
		fmt.Fprintf(&sb, "| `%s` | %s | %s | `%s` | %s |\n",
			info.Name, info.Kind, info.Flags, info.Value, info.Description)
	}
	return sb.String()
}
