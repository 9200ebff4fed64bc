package console

import (
	"strings"
	"sync"
)

// Transcript is the append-only scrollback shown to the user.
type Transcript struct {
	mu  sync.Mutex
	buf strings.Builder
}

// NewTranscript creates an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{}
}

// Append adds text verbatim to the end of the transcript.
func (t *Transcript) Append(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf.WriteString(text)
}

// Snapshot returns the full contents.
func (t *Transcript) Snapshot() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buf.String()
}

// Clear discards everything.
func (t *Transcript) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf.Reset()
}

// Len returns the transcript size in bytes.
func (t *Transcript) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buf.Len()
}
