// Package termio puts the terminal into raw mode for the editor's
// key-at-a-time input loop and lets that loop peek at how much input
// is already waiting before it decides whether to block for more.
package termio

import "golang.org/x/term"

// Terminal abstracts raw mode switching so the main loop can swap in
// a fake during tests instead of touching a real tty.
type Terminal interface {
	MakeRaw(fd int) (*term.State, error)
	Restore(fd int, state *term.State) error
}

// DefaultTerminal drives golang.org/x/term against the real terminal.
type DefaultTerminal struct{}

// MakeRaw switches the terminal into raw mode, disabling line
// buffering and echo so every keystroke reaches the editor as soon as
// it's typed.
func (DefaultTerminal) MakeRaw(fd int) (*term.State, error) {
	return term.MakeRaw(fd)
}

// Restore puts the terminal back the way MakeRaw found it; callers
// defer this right after a successful MakeRaw.
func (DefaultTerminal) Restore(fd int, state *term.State) error {
	return term.Restore(fd, state)
}

var pendingInputHook = pendingInput

// PendingInput reports how many bytes can be read from fd right now
// without blocking. A key-decoding loop that just read an ESC byte
// uses this to tell a standalone Escape keypress (nothing queued
// behind it) from the start of a longer escape sequence (the rest of
// which already arrived in the same burst) without hanging on a read
// that may never come.
func PendingInput(fd uintptr) (int, error) {
	return pendingInputHook(fd)
}

// SetPendingInputFunc swaps in fn as the pending-input probe so tests
// can simulate "nothing queued" or "more bytes waiting" without a real
// file descriptor; the returned closure restores whatever was
// installed before.
func SetPendingInputFunc(fn func(uintptr) (int, error)) func() {
	prev := pendingInputHook
	pendingInputHook = fn
	return func() { pendingInputHook = prev }
}
