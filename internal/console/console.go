package console

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/quocvuong92/devconsole/internal/constants"
	"github.com/quocvuong92/devconsole/internal/logging"
)

// Gateway is the view of the cvar store the console needs.
type Gateway interface {
	// ContainsCvar reports whether a cvar named name exists
	ContainsCvar(name string) bool

	// LookUp returns the current value of a cvar
	LookUp(name string) (fmt.Stringer, bool)

	// WriteTo parses raw and assigns it to the cvar.
	// It returns an error if the value was rejected; the cvar is left unchanged.
	WriteTo(name, raw string) error

	// CvarNames returns the names of all known cvars
	CvarNames() []string
}

// Console owns a command registry and a transcript and interprets input
// lines against them and a cvar gateway.
type Console struct {
	mu         sync.Mutex
	id         string
	marker     string
	registry   *Registry
	transcript *Transcript
	cvars      Gateway
	log        *logging.FieldLogger
}

// Option configures a Console.
type Option func(*Console)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *logging.Logger) Option {
	return func(c *Console) {
		if l != nil {
			c.log = l.WithFields(logging.Fields{"session": c.id})
		}
	}
}

// WithMarker sets the prefix written before each echoed input line.
func WithMarker(marker string) Option {
	return func(c *Console) {
		c.marker = marker
	}
}

// New creates a console backed by cvars with the default commands
// (help, clear, echo, list) registered.
func New(cvars Gateway, opts ...Option) *Console {
	c := &Console{
		id:         uuid.New().String(),
		marker:     constants.DefaultMarker,
		registry:   NewRegistry(),
		transcript: NewTranscript(),
		cvars:      cvars,
	}
	c.log = logging.Discard().WithFields(logging.Fields{"session": c.id})

	for _, opt := range opts {
		opt(c)
	}

	c.registerDefaults()
	return c
}

// ID returns the unique identifier of this console session.
func (c *Console) ID() string {
	return c.id
}

// Transcript returns the console's scrollback.
func (c *Console) Transcript() *Transcript {
	return c.transcript
}

// Commands returns the registered command tokens in registration order.
func (c *Console) Commands() []string {
	return c.registry.Tokens()
}

// RegisterCommand adds cmd to the console. It may be called from a
// command callback. Returns false if a command with the same token is
// already registered.
func (c *Console) RegisterCommand(cmd *Command) bool {
	ok := c.registry.Register(cmd)
	if !ok {
		c.log.Debug("Command already registered", logging.Fields{"token": cmd.Token()})
	}
	return ok
}

// ProcessInput interprets one line of user input and returns the full
// transcript after processing. Blank input leaves the transcript untouched.
func (c *Console) ProcessInput(raw string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	expr, ok := Parse(raw)
	if !ok {
		return c.transcript.Snapshot()
	}

	c.transcript.Append(c.marker + strings.TrimSpace(raw) + "\n")
	c.transcript.Append(c.Dispatch(expr))

	return c.transcript.Snapshot()
}

// Dispatch resolves expr and returns the text it produces without touching
// the transcript or the input lock, so command callbacks can use it to run
// nested lines. Commands take precedence over cvars with the same name.
func (c *Console) Dispatch(expr Expression) string {
	if cmd, ok := c.registry.Lookup(expr.Token); ok {
		c.log.Debug("Executing command", logging.Fields{"token": expr.Token, "args": len(expr.Args)})
		return cmd.Execute(expr.Args)
	}

	if c.cvars != nil && c.cvars.ContainsCvar(expr.Token) {
		if len(expr.Args) == 0 {
			return c.readCvar(expr.Token)
		}
		return c.writeCvar(expr.Token, JoinArgs(expr.Args))
	}

	return expr.Token + " is not a valid token\n"
}

func (c *Console) readCvar(name string) string {
	value, ok := c.cvars.LookUp(name)
	if !ok {
		// Removed between the existence check and the read.
		return name + " is not a valid token\n"
	}
	return name + " = " + value.String() + "\n"
}

// writeCvar assigns value to the named cvar. Any failure reported by the
// gateway becomes the same user-facing line; the cause is only logged.
func (c *Console) writeCvar(name, value string) string {
	if err := c.cvars.WriteTo(name, value); err != nil {
		c.log.Warn("Cvar assignment rejected", logging.Fields{"cvar": name, "value": value, "error": err.Error()})
		return "Failed to assign to " + name + "\n"
	}
	c.log.Debug("Cvar assigned", logging.Fields{"cvar": name, "value": value})
	return ""
}
