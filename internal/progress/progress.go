// Package progress shows a single live status line for long-running work and
// settles it into a success, failure, or warning line when the work ends.
package progress

import (
	"io"
	"os"

	"golang.org/x/term"
)

// Reporter receives status text for one unit of work. After Success, Fail,
// Warn, or Clear the reporter is finished and further calls are ignored.
type Reporter interface {
	Update(text string)
	Success(text string)
	Fail(text string)
	Warn(text string)
	Clear()
}

// Factory starts a new Reporter showing initial.
type Factory func(initial string) Reporter

// Terminal reports whether w is an interactive terminal and, if so, its width.
func Terminal(w io.Writer) (bool, int) {
	f, ok := w.(*os.File)
	if !ok {
		return false, 0
	}
	fd := int(f.Fd()) //nolint:gosec // G115: file descriptors fit in int
	if !term.IsTerminal(fd) {
		return false, 0
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		return true, 0
	}
	return true, width
}

// Nop discards every status.
type Nop struct{}

func (Nop) Update(string)  {}
func (Nop) Success(string) {}
func (Nop) Fail(string)    {}
func (Nop) Warn(string)    {}
func (Nop) Clear()         {}

// NopFactory returns Nop reporters.
func NopFactory(string) Reporter { return Nop{} }
