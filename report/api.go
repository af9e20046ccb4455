package report

import (
	"errors"
	"fmt"
	"os"
)

// SourceText provides access to the lines of source text a diagnostic refers
// to.  Line numbers are zero-indexed.
type SourceText interface {
	Line(n int) (string, bool)
}

// -----------------------------------------------------------------------------

// ReportICE reports an internal compiler error.  These are errors that
// specifically result for a bug or unexpected condition occurring with the
// compiler: they are not intended to ever happen.  These errors are always
// displayed regardless of log level.
func ReportICE(message string, args ...interface{}) {
	r := Default()
	r.m.Lock()
	defer r.m.Unlock()

	displayICE(r, fmt.Sprintf(message, args...))

	os.Exit(-1)
}

// ReportFatal reports a fatal error.  These are errors that should cause the
// session to stop immediately.  However, they are expected errors that
// generally result from invalid configuration of some form: unreadable input
// file, malformed configuration, etc.
func ReportFatal(message string, args ...interface{}) {
	r := Default()
	if r.logLevel > LogLevelSilent {
		r.m.Lock()
		defer r.m.Unlock()

		displayFatal(r, fmt.Sprintf(message, args...))
	}

	os.Exit(1)
}

// -----------------------------------------------------------------------------

// ReportCompileError reports an error in user input.  The reprPath is the
// representative path of the input (eg. `<stdin>`).  The src may be nil in
// which case no source text is displayed.
func (r *Reporter) ReportCompileError(reprPath string, src SourceText, cerr *CompileError) {
	r.m.Lock()
	defer r.m.Unlock()

	r.errorCount++

	if r.logLevel > LogLevelSilent {
		displayCompileMessage(r, cerr.Kind.String(), reprPath, src, cerr.Span, cerr.Message)
	}
}

// ReportCompileWarning reports a warning about user input.  The arguments are
// of the same form as those to ReportCompileError.
func (r *Reporter) ReportCompileWarning(reprPath string, src SourceText, span *TextSpan, message string, args ...interface{}) {
	if r.logLevel > LogLevelError {
		r.m.Lock()
		defer r.m.Unlock()

		displayCompileMessage(r, "warning", reprPath, src, span, fmt.Sprintf(message, args...))
	}
}

// ReportStdError reports a non-fatal, standard Go error.
func (r *Reporter) ReportStdError(reprPath string, err error) {
	r.m.Lock()
	defer r.m.Unlock()

	r.errorCount++

	if r.logLevel > LogLevelSilent {
		displayStdError(r, reprPath, err)
	}
}

// ReportError reports err choosing the display based on its type.
func (r *Reporter) ReportError(reprPath string, src SourceText, err error) {
	var cerr *CompileError
	if errors.As(err, &cerr) {
		r.ReportCompileError(reprPath, src, cerr)
	} else {
		r.ReportStdError(reprPath, err)
	}
}

// ReportInfo reports an informational message.  These are only displayed at
// the verbose log level.
func (r *Reporter) ReportInfo(tag, message string, args ...interface{}) {
	if r.logLevel == LogLevelVerbose {
		r.m.Lock()
		defer r.m.Unlock()

		displayInfo(r, tag, fmt.Sprintf(message, args...))
	}
}
