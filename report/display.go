package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
)

var (
	ErrorColorFG = pterm.FgRed
	ErrorStyleBG = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	WarnColorFG  = pterm.FgYellow
	InfoColorFG  = pterm.FgLightGreen
	InfoStyleBG  = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
)

// paint applies the color to s if the reporter is colored.
func (r *Reporter) paint(c pterm.Color, s string) string {
	if r.colored {
		return c.Sprint(s)
	}

	return s
}

// paintStyle applies the style to s if the reporter is colored.
func (r *Reporter) paintStyle(st *pterm.Style, s string) string {
	if r.colored {
		return st.Sprint(s)
	}

	return s
}

// -----------------------------------------------------------------------------

// displayICE displays an internal compiler error message.
func displayICE(r *Reporter, message string) {
	fmt.Fprintf(r.out, "%s %s\n", r.paintStyle(ErrorStyleBG, "internal compiler error:"), message)
	fmt.Fprint(r.out, "This error was not supposed to happen: the session cannot continue.\n\n")
}

// displayFatal displays a fatal error message.
func displayFatal(r *Reporter, message string) {
	fmt.Fprintf(r.out, "%s %s\n\n", r.paintStyle(ErrorStyleBG, "fatal error:"), message)
}

// displayInfo displays an informational message.
func displayInfo(r *Reporter, tag, message string) {
	fmt.Fprintf(r.out, "%s %s\n", r.paintStyle(InfoStyleBG, tag), r.paint(InfoColorFG, message))
}

// displayCompileMessage displays a compilation error or warning.  The label is
// the string to prefix the message with: eg. if we want to display an error,
// the label is "error".
func displayCompileMessage(r *Reporter, label, reprPath string, src SourceText, span *TextSpan, message string) {
	color := ErrorColorFG
	if label == "warning" {
		color = WarnColorFG
	}

	if span == nil {
		fmt.Fprintf(r.out, "%s: %s: %s\n", reprPath, r.paint(color, label), message)
	} else {
		fmt.Fprintf(r.out, "%s:%d:%d: %s: %s\n", reprPath, span.StartLine+1, span.StartCol+1, r.paint(color, label), message)

		if src != nil {
			displaySourceText(r, src, span)
		}
	}
}

// displayStdError displays a standard Go error.
func displayStdError(r *Reporter, reprPath string, err error) {
	fmt.Fprintf(r.out, "%s: %s: %s\n", reprPath, r.paint(ErrorColorFG, "error"), err)
}

// -----------------------------------------------------------------------------

// displaySourceText displays a segment of source text defined by a text span.
// Lines which are no longer available are silently skipped.
func displaySourceText(r *Reporter, src SourceText, span *TextSpan) {
	var lines []string
	for ln := span.StartLine; ln <= span.EndLine; ln++ {
		line, ok := src.Line(ln)
		if !ok {
			return
		}

		lines = append(lines, line)
	}

	// Calculate the maximum line number length.
	maxLineNumLen := len(strconv.Itoa(span.EndLine + 1))

	// Generate the format string for line numbers.
	lineNumFmtStr := "%-" + strconv.Itoa(maxLineNumLen) + "v | "

	for i, line := range lines {
		fmt.Fprintf(r.out, lineNumFmtStr, i+span.StartLine+1)
		fmt.Fprintln(r.out, line)
		fmt.Fprint(r.out, strings.Repeat(" ", maxLineNumLen), " | ")

		// The first line is underlined from the start column and the last line
		// up to and including the end column.  Lines in between are underlined
		// in full.
		start, end := 0, len(line)
		if i == 0 {
			start = span.StartCol
		}

		if i == len(lines)-1 && span.EndCol+1 < end {
			end = span.EndCol + 1
		}

		if start > end {
			start = end
		}

		fmt.Fprint(r.out, strings.Repeat(" ", start))
		fmt.Fprintln(r.out, r.paint(ErrorColorFG, strings.Repeat("^", end-start)))
	}
}
