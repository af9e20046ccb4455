package cmd

import (
	"bytes"
	"io"
)

// sourceRecorder is a reader which records everything read through it so that
// diagnostics can display the offending source lines.
type sourceRecorder struct {
	r   io.Reader
	buf bytes.Buffer

	// lineStarts holds the offset of the start of every line after the first.
	lineStarts []int
}

func (sr *sourceRecorder) Read(p []byte) (int, error) {
	n, err := sr.r.Read(p)

	for i, b := range p[:n] {
		if b == '\n' {
			sr.lineStarts = append(sr.lineStarts, sr.buf.Len()+i+1)
		}
	}
	sr.buf.Write(p[:n])

	return n, err
}

// Line returns the nth line read so far without its line terminator.
func (sr *sourceRecorder) Line(n int) (string, bool) {
	if n < 0 || n > len(sr.lineStarts) {
		return "", false
	}

	data := sr.buf.Bytes()

	start := 0
	if n > 0 {
		start = sr.lineStarts[n-1]
	}

	end := len(data)
	if n < len(sr.lineStarts) {
		end = sr.lineStarts[n] - 1
	}

	return string(bytes.TrimRight(data[start:end], "\r")), true
}
