// Package vimstate holds the process-wide modal state an editing
// session carries between keystrokes: the current mode, the visual
// selection anchor, the last completed Action (for "."), the
// in-progress insert session's key stream, search state, and the
// recording/playing register bookkeeping the macro recorder needs.
package vimstate

import (
	"regexp"

	"github.com/bmf-san/ce/internal/editor/buffer"
	"github.com/bmf-san/ce/internal/editor/key"
)

// Mode is one of the editor's four modes. Mode transitions are always
// an explicit output of the executor — never implicit.
type Mode int

// Modes.
const (
	Normal Mode = iota
	Insert
	VisualRange
	VisualLine
)

// Direction of a search or find-char command.
type Direction int

// Directions.
const (
	Forward Direction = iota
	Backward
)

// FindCharState remembers the last f/F/t/T invocation so ';' and ','
// can repeat or reverse it.
type FindCharState struct {
	Valid bool
	Till  bool // true for t/T, false for f/F
	Dir   Direction
	Char  rune
}

// SearchState remembers the last search so n/N can repeat it, and holds
// the compiled regex so an invalid pattern degenerates to an explicit
// error state rather than a nil-pointer sentinel.
type SearchState struct {
	Pattern string
	Dir     Direction
	Regex   *regexp.Regexp // nil if Pattern fails to compile
}

// State is the process-wide VimState.
type State struct {
	Mode Mode

	// VisualAnchor is the fixed endpoint of a visual selection, valid
	// only while Mode is VisualRange or VisualLine.
	VisualAnchor buffer.Point

	// PendingKeys is the parser's in-progress key buffer (CONTINUE state).
	PendingKeys []key.Key

	// LastActionKeys is the literal key sequence of the last completed
	// change, re-parsed and re-executed verbatim by ".".
	LastActionKeys []key.Key

	// InsertStartedAt / LastInsertKeys capture an insert session so it
	// can be chained into one undo step and repeated by ".".
	// InsertEntryKeys holds the keys of the action that opened the
	// session (i, a, cw, cc, o, ...): the Escape that ends the session
	// joins them with the typed keys into one repeatable key stream.
	InsertStartedAt buffer.Point
	InsertEntryKeys []key.Key
	LastInsertKeys  []key.Key

	Search SearchState

	// RecordingRegister is 0 if no macro is currently being recorded.
	RecordingRegister rune
	// PlayingRegister is 0 if no macro is currently playing; used to
	// suppress LastAction updates and force KeepGoing chaining during
	// playback.
	PlayingRegister rune

	FindChar FindCharState
}

// New returns a fresh VimState in Normal mode.
func New() *State {
	return &State{Mode: Normal, VisualAnchor: buffer.NoPoint}
}

// EnterVisual switches to a visual mode, anchoring at cursor.
func (s *State) EnterVisual(mode Mode, cursor buffer.Point) {
	s.Mode = mode
	s.VisualAnchor = cursor
}

// ExitVisual returns to Normal mode and clears the anchor.
func (s *State) ExitVisual() {
	s.Mode = Normal
	s.VisualAnchor = buffer.NoPoint
}

// InPlayback reports whether a macro is currently playing.
func (s *State) InPlayback() bool { return s.PlayingRegister != 0 }

// SetSearch compiles pattern and stores the result, leaving Regex nil
// (an explicit invalid-search state, not a null sentinel) on failure.
func (s *State) SetSearch(pattern string, dir Direction) error {
	re, err := regexp.Compile(pattern)
	s.Search = SearchState{Pattern: pattern, Dir: dir, Regex: re}
	return err
}
