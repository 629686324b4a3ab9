// Package macro records and replays keystrokes into a register: every
// key typed while recording is mirrored into the in-progress stream,
// the whole recorded span collapses to one undo step once recording
// stops, an undo mid-recording trims the last completed action back
// out of the stream, and playback decodes a register and redrives the
// caller's dispatch function one key at a time, refusing to play a
// macro from inside itself.
package macro

import (
	"errors"
	"fmt"

	"github.com/bmf-san/ce/internal/editor/commitlog"
	"github.com/bmf-san/ce/internal/editor/key"
	"github.com/bmf-san/ce/internal/editor/registers"
	"github.com/bmf-san/ce/internal/editor/vimstate"
)

// ErrSelfPlay is returned by Play when a macro attempts to play the
// register it is itself being played from.
var ErrSelfPlay = errors.New("macro: self-play refused")

// Recorder ties the in-progress recording's key stream to the
// commit-chain boundaries of the buffer being recorded on.
type Recorder struct {
	Macros *registers.Macros
	VS     *vimstate.State

	keys       key.Seq
	boundaries []int // key-index after each completed macro-commit node

	log     *commitlog.Log
	logFrom int
}

// New returns a Recorder bound to the process-wide macro table and
// VimState.
func New(macros *registers.Macros, vs *vimstate.State) *Recorder {
	return &Recorder{Macros: macros, VS: vs}
}

// Active reports whether a recording is currently in progress.
func (r *Recorder) Active() bool { return r.VS.RecordingRegister != 0 }

// Start begins recording into register reg, tying the chain-rewrite on
// Stop to log (the commit log of the buffer being recorded on).
func (r *Recorder) Start(reg rune, log *commitlog.Log) {
	r.VS.RecordingRegister = reg
	r.keys = nil
	r.boundaries = nil
	r.log = log
	r.logFrom = log.Tail()
}

// Stop serializes the recorded key stream into the macro register and
// rewrites the commit log's chain flags from the start of recording so
// the whole recorded span undoes as a single step.
func (r *Recorder) Stop() {
	if !r.Active() {
		return
	}
	r.Macros.Write(r.VS.RecordingRegister, key.Encode(r.keys))
	if r.log != nil {
		r.log.RewriteChain(r.logFrom)
	}
	r.VS.RecordingRegister = 0
	r.keys = nil
	r.boundaries = nil
	r.log = nil
}

// RecordKey mirrors one input key into the in-progress recording; a
// no-op when nothing is being recorded.
func (r *Recorder) RecordKey(k key.Key) {
	if !r.Active() {
		return
	}
	r.keys = append(r.keys, k)
}

// CompleteAction marks the key-stream boundary after one fully-applied
// Action (or the Escape that leaves Insert), the unit that an undo
// during recording discards as a whole.
func (r *Recorder) CompleteAction() {
	if !r.Active() {
		return
	}
	r.boundaries = append(r.boundaries, len(r.keys))
}

// UndoTrim discards the most recently completed macro-commit node and
// its keys from the record stream, keeping the recorded macro
// consistent with an undo applied while recording.
func (r *Recorder) UndoTrim() {
	if !r.Active() || len(r.boundaries) == 0 {
		return
	}
	r.boundaries = r.boundaries[:len(r.boundaries)-1]
	prev := 0
	if len(r.boundaries) > 0 {
		prev = r.boundaries[len(r.boundaries)-1]
	}
	r.keys = r.keys[:prev]
}

// Play decodes register reg's body and feeds each key through dispatch
// (the caller's full key->action->mutation pipeline), refusing self-play
// and stopping early on the first key dispatch reports unhandled or
// failed. log, if non-nil, has its tail commit forced to Stop once
// playback ends so the whole macro invocation undoes in one step.
func (r *Recorder) Play(reg rune, log *commitlog.Log, dispatch func(key.Key) bool) error {
	if r.VS.PlayingRegister == reg {
		return ErrSelfPlay
	}
	body, ok := r.Macros.Read(reg)
	if !ok || body == "" {
		return fmt.Errorf("macro: register %q is empty", string(reg))
	}
	seq, err := key.Decode(body)
	if err != nil {
		return fmt.Errorf("macro: %w", err)
	}

	prev := r.VS.PlayingRegister
	r.VS.PlayingRegister = reg
	for _, k := range seq {
		if !dispatch(k) {
			break
		}
	}
	r.VS.PlayingRegister = prev

	if log != nil {
		log.SetChain(commitlog.Stop)
	}
	return nil
}
