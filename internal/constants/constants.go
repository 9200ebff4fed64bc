// Package constants provides shared constants used across the application
// to avoid circular dependencies between packages.
package constants

import "time"

// Application identity
const (
	// AppName names the config and data directories
	AppName = "devconsole"
	// ProjectDir is the per-project directory holding config and settings
	ProjectDir = ".devconsole"
)

// Console defaults
const (
	// DefaultMarker prefixes every echoed input line in the transcript
	DefaultMarker = ">"
	// DefaultPrompt is shown by the interactive line editor
	DefaultPrompt = "] "
	// DefaultLogLevel keeps the console quiet unless something goes wrong
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"
)

// Timeout constants used across the application
const (
	// DefaultLockTimeout bounds how long a settings save waits for the file lock
	DefaultLockTimeout = 5 * time.Second
	// LockRetryDelay is the polling interval while waiting for the file lock
	LockRetryDelay = 50 * time.Millisecond
)
