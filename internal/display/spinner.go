package display

import (
	"time"

	"github.com/briandowns/spinner"
)

// Spinner shows progress on stderr while the host does slow startup work.
type Spinner struct {
	s *spinner.Spinner
}

// NewSpinner creates a stopped spinner with the given message
func NewSpinner(msg string) *Spinner {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(Stderr))
	s.Suffix = " " + msg
	return &Spinner{s: s}
}

// Start begins animating
func (sp *Spinner) Start() {
	sp.s.Start()
}

// UpdateMessage replaces the text next to the spinner
func (sp *Spinner) UpdateMessage(msg string) {
	sp.s.Lock()
	sp.s.Suffix = " " + msg
	sp.s.Unlock()
}

// Stop halts the spinner and clears its line
func (sp *Spinner) Stop() {
	sp.s.Stop()
}
