package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/elk-language/go-prompt"
	istrings "github.com/elk-language/go-prompt/strings"

	"github.com/quocvuong92/devconsole/internal/console"
	"github.com/quocvuong92/devconsole/internal/cvar"
	"github.com/quocvuong92/devconsole/internal/display"
	"github.com/quocvuong92/devconsole/internal/history"
	"github.com/quocvuong92/devconsole/internal/logging"
)

// InteractiveSession drives a Session from a go-prompt REPL.
type InteractiveSession struct {
	*Session
	history  history.HistoryManager
	exitFlag bool
	// last is the transcript as of the previous line.
	last string
}

// newInteractiveSession wraps s and registers quit, exit and history.
func newInteractiveSession(s *Session, hist history.HistoryManager) *InteractiveSession {
	is := &InteractiveSession{Session: s, history: hist}
	quit := func(args []string) string {
		is.exitFlag = true
		return "Goodbye!\n"
	}
	s.Console.RegisterCommand(console.NewCommand("quit", quit))
	s.Console.RegisterCommand(console.NewCommand("exit", quit))
	s.Console.RegisterCommand(console.NewCommand("history", is.historyCommand))
	return is
}

// historyCommand prints the most recent input lines, oldest first.
// An optional argument sets how many.
func (s *InteractiveSession) historyCommand(args []string) string {
	n := 10
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v <= 0 {
			return "usage: history [count]\n"
		}
		n = v
	}
	recent := s.history.Recent(n)
	var sb strings.Builder
	for i := len(recent) - 1; i >= 0; i-- {
		fmt.Fprintf(&sb, "%s  %s\n", recent[i].At.Format("2006-01-02 15:04"), recent[i].Line)
	}
	return sb.String()
}

// saveHistory persists the lines entered in this session.
func (s *InteractiveSession) saveHistory() {
	if err := s.history.Save(); err != nil {
		s.log.Warn("Could not save history", logging.Fields{"error": err.Error()})
	}
}

// completer suggests commands and cvars for the first word, and values
// or cvar names for the words after it.
func (s *InteractiveSession) completer(d prompt.Document) ([]prompt.Suggest, istrings.RuneNumber, istrings.RuneNumber) {
	text := d.TextBeforeCursor()
	endIndex := d.CurrentRuneIndex()
	w := d.GetWordBeforeCursor()
	startIndex := endIndex - istrings.RuneCountInString(w)

	return prompt.FilterHasPrefix(s.suggestions(text), w, true), startIndex, endIndex
}

// suggestions returns the candidates for the word being typed in text.
func (s *InteractiveSession) suggestions(text string) []prompt.Suggest {
	fields := strings.Fields(text)
	typingFirst := len(fields) == 0 || (len(fields) == 1 && !strings.HasSuffix(text, " "))

	if typingFirst {
		var suggestions []prompt.Suggest
		for _, token := range s.Console.Commands() {
			suggestions = append(suggestions, prompt.Suggest{Text: token, Description: "command"})
		}
		for _, info := range s.Cvars.All() {
			suggestions = append(suggestions, prompt.Suggest{
				Text:        info.Name,
				Description: fmt.Sprintf("%s = %s", info.Kind, info.Value),
			})
		}
		return suggestions
	}

	switch head := fields[0]; head {
	case "reset", "describe":
		var suggestions []prompt.Suggest
		for _, info := range s.Cvars.All() {
			suggestions = append(suggestions, prompt.Suggest{Text: info.Name, Description: info.Description})
		}
		return suggestions
	default:
		info, ok := s.Cvars.Get(head)
		if ok && info.Kind == cvar.KindBool && !info.Flags.Has(cvar.ReadOnly) {
			return []prompt.Suggest{
				{Text: "true", Description: "current: " + info.Value.String()},
				{Text: "false", Description: "current: " + info.Value.String()},
			}
		}
	}
	return nil
}

// executor feeds one line to the console and prints what it added to the
// transcript. The echoed input line is skipped since the prompt already
// shows it.
func (s *InteractiveSession) executor(input string) {
	if s.exitFlag {
		return
	}

	s.history.Add(s.Console.ID(), input)
	cur := s.Console.ProcessInput(input)
	delta, reset := transcriptDelta(s.last, cur)
	s.last = cur

	// Non-blank input always appends its echo line, so an empty transcript
	// means clear ran even when there was nothing to clear.
	if reset || (cur == "" && strings.TrimSpace(input) != "") {
		// clear wiped the scrollback; wipe the screen to match.
		fmt.Fprint(display.Stdout, "\033[H\033[2J")
		return
	}
	if i := strings.IndexByte(delta, '\n'); i >= 0 {
		delta = delta[i+1:]
	}
	display.ShowOutput(delta)
}

// runInteractive starts the REPL and blocks until the user quits.
func (app *App) runInteractive() error {
	sp := display.NewSpinner("Loading cvars...")
	sp.Start()
	session, err := NewSession(app.cfg, app.logger)
	if err != nil {
		sp.Stop()
		display.ShowError(err.Error())
		return err
	}

	sp.UpdateMessage("Loading history...")
	hist := history.NewHistory()
	if err := hist.Load(); err != nil {
		// History load failed, continue without it
		app.logger.Warn("Could not load history", logging.Fields{"error": err.Error()})
	}
	sp.Stop()

	is := newInteractiveSession(session, hist)

	display.ShowHeader("devconsole " + version)
	if app.cfg.Render {
		display.ShowRendered(display.MarkdownList("Commands", session.Console.Commands()))
	}
	display.ShowHint("Type help for commands, list for cvars, Ctrl+D or quit to leave")
	fmt.Fprintln(display.Stdout)

	p := prompt.New(
		is.executor,
		prompt.WithCompleter(is.completer),
		prompt.WithPrefix(app.cfg.Prompt),
		prompt.WithTitle("devconsole"),
		prompt.WithPrefixTextColor(prompt.Green),
		prompt.WithSuggestionBGColor(prompt.DarkBlue),
		prompt.WithSuggestionTextColor(prompt.White),
		prompt.WithSelectedSuggestionBGColor(prompt.Cyan),
		prompt.WithSelectedSuggestionTextColor(prompt.Black),
		prompt.WithDescriptionBGColor(prompt.DarkBlue),
		prompt.WithDescriptionTextColor(prompt.LightGray),
		prompt.WithSelectedDescriptionBGColor(prompt.Cyan),
		prompt.WithSelectedDescriptionTextColor(prompt.Black),
		prompt.WithScrollbarBGColor(prompt.DarkGray),
		prompt.WithScrollbarThumbColor(prompt.White),
		prompt.WithHistory(hist.Lines()),
		prompt.WithMaxSuggestion(15),
		prompt.WithCompletionOnDown(),
		prompt.WithExitChecker(func(in string, breakline bool) bool {
			return is.exitFlag
		}),
		prompt.WithKeyBind(prompt.KeyBind{
			Key: prompt.ControlC,
			Fn: func(p *prompt.Prompt) bool {
				fmt.Fprintln(display.Stdout, "\nGoodbye!")
				is.exitFlag = true
				return false
			},
		}),
		prompt.WithKeyBind(prompt.KeyBind{
			Key: prompt.ControlD,
			Fn: func(p *prompt.Prompt) bool {
				if p.Buffer().Text() == "" {
					fmt.Fprintln(display.Stdout, "Goodbye!")
					is.exitFlag = true
				}
				return false
			},
		}),
	)

	p.Run()
	is.saveHistory()
	return nil
}
