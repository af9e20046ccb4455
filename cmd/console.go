package cmd

import (
	"errors"
	"io"
	"kaso/history"
	"kaso/report"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
)

// console is the source of a session's interactive input.
type console struct {
	// in is the input the session reads.
	in io.Reader

	// promptOut is where the session writes its prompt.  This is nil when the
	// line editor displays the prompt itself.
	promptOut io.Writer

	// close releases the terminal and the history store.
	close func()
}

// isInteractive returns whether standard input is a terminal.
func isInteractive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// openConsole opens the console for a session.  On a terminal, input is read
// through a line editor whose history is persisted in the history store.
// Otherwise, standard input is read directly.
func openConsole(conf *Config) *console {
	if !isInteractive() {
		return &console{
			in:        os.Stdin,
			promptOut: os.Stderr,
			close:     func() {},
		}
	}

	ln := liner.NewLiner()
	ln.SetCtrlCAborts(true)

	le := &lineEditor{
		ln:     ln,
		prompt: conf.Prompt,
	}

	if conf.HistoryEnabled {
		le.hist = openHistory(conf, ln)
	}

	return &console{
		in: le,
		close: func() {
			ln.Close()

			if le.hist != nil {
				le.hist.Close()
			}
		},
	}
}

// openHistory opens the history store and loads its most recent commands into
// the line editor.  Failure to open the store only disables history.
func openHistory(conf *Config, ln lineReader) *history.Store {
	store, err := history.Open(conf.HistoryFile)
	if err != nil {
		report.Default().ReportCompileWarning(conf.HistoryFile, nil, nil, "failed to open history: %s", err)
		return nil
	}

	cmds, err := store.LastCmds(conf.HistorySize)
	if err != nil {
		report.Default().ReportCompileWarning(conf.HistoryFile, nil, nil, "failed to load history: %s", err)
	}

	for _, cmd := range cmds {
		ln.AppendHistory(cmd)
	}

	return store
}

// -----------------------------------------------------------------------------

// lineReader reads lines of input from the user.  It is implemented by
// *liner.State.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// lineEditor is an io.Reader which reads input a line at a time through a line
// editor.  Lines continuing an unterminated statement are prompted for with a
// continuation prompt.
type lineEditor struct {
	ln     lineReader
	prompt string
	hist   *history.Store

	// pending is the part of the last line not yet read.
	pending []byte

	// continued indicates the last line did not end a statement.
	continued bool
}

func (le *lineEditor) Read(p []byte) (int, error) {
	for len(le.pending) == 0 {
		prompt := le.prompt
		if le.continued {
			prompt = strings.Repeat(".", len(strings.TrimRight(prompt, " "))) + " "
		}

		line, err := le.ln.Prompt(prompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return 0, io.EOF
			}

			return 0, err
		}

		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			le.record(line)
			le.continued = !strings.HasSuffix(trimmed, ";")
		}

		le.pending = append([]byte(line), '\n')
	}

	n := copy(p, le.pending)
	le.pending = le.pending[n:]
	return n, nil
}

// record adds a line to the editor's history and the history store.
func (le *lineEditor) record(line string) {
	le.ln.AppendHistory(line)

	if le.hist != nil {
		if _, err := le.hist.AddCmd(line); err != nil {
			report.Default().ReportCompileWarning("history", nil, nil, "failed to save history: %s", err)
		}
	}
}
