// Package history persists console input lines between interactive sessions.
package history

// HistoryManager defines the interface for managing input history.
// This interface enables dependency injection and easier testing.
type HistoryManager interface {
	// Load reads the history from disk
	Load() error

	// Save writes the history to disk
	Save() error

	// Add records a line entered in the given session
	Add(sessionID, line string)

	// Lines returns the recorded lines, oldest first
	Lines() []string

	// Recent returns the n most recent entries, newest first
	Recent(n int) []Entry

	// Clear removes all history
	Clear()
}

// Ensure concrete type implements the interface
var _ HistoryManager = (*History)(nil)
