package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/quocvuong92/devconsole/internal/constants"
)

const (
	// HistoryFile is the file name under the data directory
	HistoryFile = "history.json"
	// DefaultMaxEntries bounds the number of stored lines
	DefaultMaxEntries = 500
)

// Entry is one line of input.
type Entry struct {
	Line      string    `json:"line"`
	SessionID string    `json:"session_id"`
	At        time.Time `json:"at"`
}

type historyFile struct {
	Entries []Entry `json:"entries"`
}

// History is a bounded list of input lines backed by a JSON file.
type History struct {
	mu         sync.Mutex
	path       string
	maxEntries int
	entries    []Entry
	// added counts entries appended since the last Load or Save
	added int
	now   func() time.Time
}

// NewHistory creates a history stored in the user data directory.
func NewHistory() *History {
	return &History{
		maxEntries: DefaultMaxEntries,
		now:        time.Now,
	}
}

// NewHistoryAt creates a history stored at path.
func NewHistoryAt(path string, maxEntries int) *History {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &History{
		path:       path,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func historyPath() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(dataDir, constants.AppName, HistoryFile), nil
}

func (h *History) resolvePath() (string, error) {
	if h.path != "" {
		return h.path, nil
	}
	path, err := historyPath()
	if err != nil {
		return "", err
	}
	h.path = path
	return path, nil
}

// Load reads the history file. A missing file is not an error.
func (h *History) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	path, err := h.resolvePath()
	if err != nil {
		return err
	}
	entries, err := readEntries(path)
	if err != nil {
		return err
	}
	h.entries = entries
	h.added = 0
	h.trim()
	return nil
}

func readEntries(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	var f historyFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse history: %w", err)
	}
	return f.Entries, nil
}

// Add appends a line. Blank lines and immediate repeats are skipped.
func (h *History) Add(sessionID, line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if n := len(h.entries); n > 0 && h.entries[n-1].Line == line {
		return
	}
	h.entries = append(h.entries, Entry{Line: line, SessionID: sessionID, At: h.now()})
	h.added++
	h.trim()
}

// Lines returns the recorded lines, oldest first.
func (h *History) Lines() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	lines := make([]string, len(h.entries))
	for i, e := range h.entries {
		lines[i] = e.Line
	}
	return lines
}

// Recent returns up to n entries, newest first.
func (h *History) Recent(n int) []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()

	if n > len(h.entries) {
		n = len(h.entries)
	}
	out := make([]Entry, 0, n)
	for i := len(h.entries) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, h.entries[i])
	}
	return out
}

// Clear forgets the in-memory entries. Lines already saved stay on disk.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = nil
	h.added = 0
}

// Save writes the history file. Lines added by other sessions since Load
// are kept: the file is re-read under a lock and this session's new lines
// are appended to it.
func (h *History) Save() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	path, err := h.resolvePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	lock := flock.New(path + ".lock")
	ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultLockTimeout)
	defer cancel()
	locked, err := lock.TryLockContext(ctx, constants.LockRetryDelay)
	if err != nil {
		return fmt.Errorf("failed to lock history: %w", err)
	}
	if !locked {
		return fmt.Errorf("failed to lock history: timed out")
	}
	defer lock.Unlock()

	onDisk, err := readEntries(path)
	if err != nil {
		return err
	}
	fresh := h.entries[len(h.entries)-min(h.added, len(h.entries)):]
	merged := append(onDisk, fresh...)
	h.entries = merged
	h.added = 0
	h.trim()

	data, err := json.MarshalIndent(historyFile{Entries: h.entries}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write history: %w", err)
	}
	return nil
}

// trim drops the oldest entries beyond maxEntries. Caller holds h.mu.
func (h *History) trim() {
	if over := len(h.entries) - h.maxEntries; over > 0 {
		h.entries = append([]Entry(nil), h.entries[over:]...)
	}
}
