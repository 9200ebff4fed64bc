// Package console implements the command/cvar interpreter behind the
// developer console.
//
// # Pipeline
//
// A raw input line flows through the following stages:
//
//   - Parse: trims the line and splits it into a head token and arguments
//   - Dispatch: resolves the token against the command registry first,
//     then against the cvar gateway, and produces a result string
//   - Transcript: the echoed input line and the result are appended to the
//     scrollback, which is returned to the caller
//
// # Usage
//
//	store := cvar.NewStore()
//	c := console.New(store, console.WithLogger(logger))
//	c.RegisterCommand(console.NewCommand("quit", quitFn))
//	out := c.ProcessInput("echo hello")
package console
