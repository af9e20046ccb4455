package report

import (
	"fmt"
)

// TextSpan represents a range or "span" of source text.  Text spans are
// inclusive on both sides: the starting position is the position of the first
// character in the span and the ending position is the position of the last
// character in the span.  The line and column numbers are zero-indexed.
type TextSpan struct {
	// The line and column beginning the text span.
	StartLine, StartCol int

	// The line and column ending the text span.
	EndLine, EndCol int
}

// NewSpanOver returns a new text span which spans over and between the two
// given text spans.
func NewSpanOver(start, end *TextSpan) *TextSpan {
	if start == nil {
		return end
	} else if end == nil {
		return start
	}

	return &TextSpan{
		StartLine: start.StartLine,
		StartCol:  start.StartCol,
		EndLine:   end.EndLine,
		EndCol:    end.EndCol,
	}
}

// -----------------------------------------------------------------------------

// ErrorKind classifies a compile error by the phase which produced it.
type ErrorKind int

// Enumeration of error kinds.
const (
	KindSyntax   ErrorKind = iota // Wrong token where a production expected another.
	KindLowering                  // Unknown name, arity mismatch, missing operator.
	KindRuntime                   // Failure while executing compiled code.
)

func (k ErrorKind) String() string {
	switch k {
	case KindSyntax:
		return "syntax error"
	case KindLowering:
		return "error"
	case KindRuntime:
		return "runtime error"
	}

	return "error"
}

// CompileError is an error in user input.  It aborts only the construct which
// raised it: the session continues with subsequent input.
type CompileError struct {
	// The phase which produced the error.
	Kind ErrorKind

	// The error message.
	Message string

	// The span over which the error occurs.  This may be nil.
	Span *TextSpan
}

func (ce *CompileError) Error() string {
	return ce.Message
}

// Raise creates a new syntax error.
func Raise(span *TextSpan, msg string, args ...interface{}) *CompileError {
	return &CompileError{Kind: KindSyntax, Message: fmt.Sprintf(msg, args...), Span: span}
}

// RaiseLowering creates a new lowering error.
func RaiseLowering(span *TextSpan, msg string, args ...interface{}) *CompileError {
	return &CompileError{Kind: KindLowering, Message: fmt.Sprintf(msg, args...), Span: span}
}

// RaiseRuntime creates a new runtime error.
func RaiseRuntime(msg string, args ...interface{}) *CompileError {
	return &CompileError{Kind: KindRuntime, Message: fmt.Sprintf(msg, args...)}
}

// -----------------------------------------------------------------------------

// InternalError is an internal compiler error: a violated contract between
// components of the compiler.  It is never caused by user input alone and
// should stop the process.
type InternalError struct {
	Message string
}

func (ie *InternalError) Error() string {
	return "internal compiler error: " + ie.Message
}

// ICE creates a new internal compiler error.
func ICE(msg string, args ...interface{}) *InternalError {
	return &InternalError{Message: fmt.Sprintf(msg, args...)}
}
