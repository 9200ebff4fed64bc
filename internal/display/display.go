// Package display handles terminal output for the console host.
package display

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

var (
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	rendererMu sync.Mutex
	renderer   *glamour.TermRenderer

	// Stdout and Stderr are swapped out in tests
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

// InitRenderer prepares the markdown renderer used by ShowRendered.
func InitRenderer() error {
	rendererMu.Lock()
	defer rendererMu.Unlock()

	if renderer != nil {
		return nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return err
	}
	renderer = r
	return nil
}

// ShowError prints an error message to stderr
func ShowError(msg string) {
	fmt.Fprintln(Stderr, errorStyle.Render("Error: "+msg))
}

// ShowHeader prints a highlighted line
func ShowHeader(msg string) {
	fmt.Fprintln(Stdout, headerStyle.Render(msg))
}

// ShowHint prints a dimmed line
func ShowHint(msg string) {
	fmt.Fprintln(Stdout, dimStyle.Render(msg))
}

// ShowOutput prints transcript text exactly as given
func ShowOutput(text string) {
	fmt.Fprint(Stdout, text)
}

// ShowRendered prints markdown through glamour, falling back to plain text
// if the renderer is not initialized or fails.
func ShowRendered(markdown string) {
	rendererMu.Lock()
	r := renderer
	rendererMu.Unlock()

	if r == nil {
		ShowOutput(ensureNewline(markdown))
		return
	}
	out, err := r.Render(markdown)
	if err != nil {
		ShowOutput(ensureNewline(markdown))
		return
	}
	fmt.Fprint(Stdout, out)
}

// MarkdownList formats items as a bullet list under a heading
func MarkdownList(heading string, items []string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", heading)
	for _, item := range items {
		fmt.Fprintf(&sb, "- `%s`\n", item)
	}
	return sb.String()
}

func ensureNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
