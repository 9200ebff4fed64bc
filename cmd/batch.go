package cmd

import (
	"bufio"
	"fmt"
	"io"

	"github.com/quocvuong92/devconsole/internal/display"
)

// runBatch feeds every line of r to a fresh console and writes what each
// line adds to the transcript to w.
func (app *App) runBatch(r io.Reader, w io.Writer) error {
	session, err := NewSession(app.cfg, app.logger)
	if err != nil {
		display.ShowError(err.Error())
		return err
	}

	scanner := bufio.NewScanner(r)
	prev := ""
	for scanner.Scan() {
		cur := session.Console.ProcessInput(scanner.Text())
		delta, _ := transcriptDelta(prev, cur)
		if _, err := io.WriteString(w, delta); err != nil {
			return err
		}
		prev = cur
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}
