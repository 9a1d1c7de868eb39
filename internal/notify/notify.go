// Package notify defines the user-facing notification capability.
// It replaces presentation-layer toasts with an injectable interface so
// the session layer never writes to the terminal directly.
package notify

import (
	"fmt"
	"io"
	"os"
)

// Notifier presents short status messages to the user
type Notifier interface {
	// Success reports a completed operation
	Success(msg string)

	// Error reports a failed operation
	Error(msg string)

	// Info reports a neutral status change
	Info(msg string)
}

// Terminal writes notifications to a terminal stream
type Terminal struct {
	out io.Writer
}

// NewTerminal creates a notifier writing to the given stream
func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{out: out}
}

// NewStderr creates a notifier writing to standard error
func NewStderr() *Terminal {
	return NewTerminal(os.Stderr)
}

func (t *Terminal) Success(msg string) {
	fmt.Fprintf(t.out, "✓ %s\n", msg)
}

func (t *Terminal) Error(msg string) {
	fmt.Fprintf(t.out, "✗ %s\n", msg)
}

func (t *Terminal) Info(msg string) {
	fmt.Fprintf(t.out, "• %s\n", msg)
}

// Nop discards all notifications. Useful in tests.
type Nop struct{}

func (Nop) Success(string) {}
func (Nop) Error(string)   {}
func (Nop) Info(string)    {}
