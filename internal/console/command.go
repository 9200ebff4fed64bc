package console

// CommandFunc is the behavior of a console command. It receives the
// whitespace-separated arguments and returns the text to display.
//
// It runs while the console holds its input lock, so it must not call
// ProcessInput on the same console; use Dispatch to evaluate nested lines.
type CommandFunc func(args []string) string

// Command is a named, user-invokable action.
type Command struct {
	token string
	fn    CommandFunc
}

// NewCommand creates a command bound to token.
// It panics if token is empty or fn is nil: both indicate a bug in the
// registering code, not bad user input.
func NewCommand(token string, fn CommandFunc) *Command {
	if token == "" {
		panic("console: command token must not be empty")
	}
	if fn == nil {
		panic("console: command " + token + " has nil callback")
	}
	return &Command{token: token, fn: fn}
}

// Token returns the name the command is invoked by.
func (c *Command) Token() string {
	return c.token
}

// Execute runs the command with the given arguments.
func (c *Command) Execute(args []string) string {
	return c.fn(args)
}
