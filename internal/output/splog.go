// Package output provides user-facing terminal output for diffstack.
package output

import (
	"fmt"
	"io"
	"os"
)

// Splog provides structured logging and output
type Splog struct {
	writer io.Writer
	errw   io.Writer
}

// NewSplog creates a new splog instance
func NewSplog() *Splog {
	return &Splog{
		writer: os.Stdout,
		errw:   os.Stderr,
	}
}

// NewSplogWithWriters creates a splog writing to the given streams, for tests.
func NewSplogWithWriters(out, errw io.Writer) *Splog {
	return &Splog{writer: out, errw: errw}
}

// Info writes an info message
func (s *Splog) Info(format string, args ...interface{}) {
	fmt.Fprintf(s.writer, format+"\n", args...)
}

// Newline writes a newline
func (s *Splog) Newline() {
	fmt.Fprintln(s.writer)
}

// Warn writes a warning message to the diagnostic stream
func (s *Splog) Warn(format string, args ...interface{}) {
	fmt.Fprintf(s.errw, "⚠️  "+format+"\n", args...)
}

// Error writes a one-line error message prefixed with the tool name to the
// diagnostic stream.
func (s *Splog) Error(format string, args ...interface{}) {
	fmt.Fprintf(s.errw, "diffstack: "+format+"\n", args...)
}
