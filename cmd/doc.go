// Package cmd implements the devconsole command line.
//
// # Layout
//
//   - root.go: App struct, cobra root command, flags, and mode selection
//   - session.go: Session assembly (cvar store, archived settings, console,
//     host commands reset and describe)
//   - interactive.go: go-prompt REPL with command and cvar completion
//   - batch.go: line-by-line processing of non-terminal stdin
//   - exec.go, cvars.go, init_config.go: subcommands
//
// # Modes
//
// With a terminal on stdin, devconsole runs a REPL. Each line goes
// through Console.ProcessInput and only what that line appended to the
// transcript is printed. Otherwise stdin is read to EOF and every
// line's transcript delta is written to stdout, so
//
//	printf 'sv_gravity 400\nsv_gravity\n' | devconsole
//
// prints the echoed lines together with their output.
//
// # Usage
//
//	func main() {
//	    cmd.Execute()
//	}
package cmd
