// Package terminal renders the user-facing report of an invocation.
package terminal

import (
	"io"
	"os"

	"golang.org/x/term"
)

// ANSI color codes.
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"
	Dim   = "\033[2m"
	Cyan  = "\033[36m"
	Green = "\033[32m"
	Red   = "\033[31m"
)

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
