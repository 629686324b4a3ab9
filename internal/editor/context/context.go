// Package context bundles the editor's session-wide state — the set
// of open buffers, the shared registers, and the modal state — into
// one explicit value threaded through the event loop instead of a
// scatter of package-level globals. It also drives the key pipeline
// end to end: Dispatch feeds a key through the parser, the range
// resolver, and the executor, with the macro recorder observing every
// key along the way.
package context

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bmf-san/ce/internal/editor/buffer"
	"github.com/bmf-san/ce/internal/editor/commitlog"
	"github.com/bmf-san/ce/internal/editor/exec"
	"github.com/bmf-san/ce/internal/editor/key"
	"github.com/bmf-san/ce/internal/editor/macro"
	"github.com/bmf-san/ce/internal/editor/parser"
	"github.com/bmf-san/ce/internal/editor/registers"
	"github.com/bmf-san/ce/internal/editor/vimstate"
)

// ExKind distinguishes the three ex-commands the ':' command line
// queues for the CLI layer to act on: write, quit and write-then-quit
// (goto-line is applied directly against the active buffer and never
// queued).
type ExKind int

// Ex-command kinds.
const (
	ExWrite ExKind = iota
	ExQuit
	ExWriteQuit
)

// ExCommand is one ":w"/":q"/":wq" request for the CLI layer to act on
// (file I/O and process exit are outside this package's scope).
type ExCommand struct {
	Kind   ExKind
	Buffer BufferID
}

// BufferID is an opaque, stable handle to an open buffer: an index
// into EditorContext's buffer map rather than a pointer, so a buffer
// can be closed and its id safely forgotten without leaving a
// dangling reference anywhere else.
type BufferID int

// BufferState is everything one open buffer owns: its text, its
// commit log, and its mark table (marks are scoped per-buffer).
type BufferState struct {
	Buf    *buffer.Buffer
	Log    *commitlog.Log
	Marks  *registers.Marks
	Cursor buffer.Point
}

// EditorContext is the explicit, passed-around bundle of core state.
type EditorContext struct {
	buffers map[BufferID]*BufferState
	order   []BufferID
	active  BufferID
	nextID  BufferID

	Yanks    *registers.Yanks
	Macros   *registers.Macros
	VS       *vimstate.State
	Recorder *macro.Recorder

	// Messages is the status-line message stream: action/resource
	// failures land here for display.
	Messages []string

	// ExCommands queues ":w"/":q"/":wq" requests for the CLI layer to
	// drain after each Dispatch call.
	ExCommands []ExCommand

	searching bool
	searchDir vimstate.Direction
	searchBuf []rune

	exLine bool
	exBuf  []rune
}

// New returns an EditorContext with no buffers open yet.
func New() *EditorContext {
	vs := vimstate.New()
	macros := registers.NewMacros()
	return &EditorContext{
		buffers:  make(map[BufferID]*BufferState),
		Yanks:    registers.NewYanks(),
		Macros:   macros,
		VS:       vs,
		Recorder: macro.New(macros, vs),
	}
}

// AddBuffer attaches buf as a new open buffer, becoming the active one
// if it is the first. Returns the buffer's stable id.
func (ec *EditorContext) AddBuffer(buf *buffer.Buffer) BufferID {
	id := ec.nextID
	ec.nextID++
	ec.buffers[id] = &BufferState{Buf: buf, Log: commitlog.New(), Marks: registers.NewMarks()}
	ec.order = append(ec.order, id)
	if len(ec.order) == 1 {
		ec.active = id
	}
	return id
}

// ErrLastBuffer is returned by CloseBuffer when asked to close the only
// remaining buffer: closing it would leave the editor with no active
// view, so it is refused instead.
var ErrLastBuffer = fmt.Errorf("context: cannot close the last buffer")

// CloseBuffer removes the buffer id, refusing if it is the only one
// open. If the closed buffer was active, the previous buffer in open
// order becomes active.
func (ec *EditorContext) CloseBuffer(id BufferID) error {
	if len(ec.order) <= 1 {
		return ErrLastBuffer
	}
	if _, ok := ec.buffers[id]; !ok {
		return fmt.Errorf("context: no such buffer")
	}
	idx := -1
	for i, bid := range ec.order {
		if bid == id {
			idx = i
			break
		}
	}
	delete(ec.buffers, id)
	ec.order = append(ec.order[:idx], ec.order[idx+1:]...)
	if ec.active == id {
		next := idx - 1
		if next < 0 {
			next = 0
		}
		ec.active = ec.order[next]
	}
	return nil
}

// Active returns the currently active buffer's state, or nil if none
// are open.
func (ec *EditorContext) Active() *BufferState {
	return ec.buffers[ec.active]
}

// ActiveID returns the currently active buffer's id.
func (ec *EditorContext) ActiveID() BufferID { return ec.active }

// Buffer returns the state for id, or (nil, false) if unknown.
func (ec *EditorContext) Buffer(id BufferID) (*BufferState, bool) {
	bs, ok := ec.buffers[id]
	return bs, ok
}

// Order returns buffer ids in the order they were opened.
func (ec *EditorContext) Order() []BufferID {
	return append([]BufferID(nil), ec.order...)
}

// SetActive switches the active buffer, saving the outgoing buffer's
// cursor so it's restored when that buffer becomes active again.
func (ec *EditorContext) SetActive(id BufferID) bool {
	if _, ok := ec.buffers[id]; !ok {
		return false
	}
	if cur := ec.Active(); cur != nil {
		cur.Buf.Cursor = cur.Cursor
	}
	ec.active = id
	ec.VS.ExitVisual()
	return true
}

// fail records a message and returns an ActionFailure result.
func (ec *EditorContext) fail(format string, args ...interface{}) exec.Result {
	msg := fmt.Sprintf(format, args...)
	ec.Messages = append(ec.Messages, msg)
	return exec.Result{Status: exec.ActionFailure, Message: msg}
}

// Dispatch feeds one input key through the full pipeline: the parser
// accumulates it (or completes an Action), the macro recorder mirrors
// it if a recording is active, and a completed Action is resolved and
// applied by the executor. This is the single entry point the CLI's
// raw-mode key loop and macro playback both call.
func (ec *EditorContext) Dispatch(k key.Key) exec.Result {
	bs := ec.Active()
	if bs == nil {
		return exec.Result{Status: exec.UnhandledKey}
	}

	if ec.searching {
		ec.Recorder.RecordKey(k)
		return ec.dispatchSearchLine(k, bs)
	}
	if ec.exLine {
		ec.Recorder.RecordKey(k)
		return ec.dispatchExLine(k, bs)
	}

	recordingBefore := ec.Recorder.Active()

	// A bare 'q' while already recording stops it immediately. The
	// q<ch> grammar only has room for the start form, so a trailing
	// plain "q" needs this special case rather than forcing a
	// spurious register operand on stop.
	if recordingBefore && len(ec.VS.PendingKeys) == 0 && k.Kind == key.KindRune && k.Rune == 'q' {
		ec.Recorder.Stop()
		return exec.Result{Status: exec.ActionSuccess}
	}

	// ':' at the start of a Normal-mode command opens the ex-command
	// line; the key grammar has no production for it, so it is
	// intercepted here the same way the bare recording-stop 'q' is.
	if ec.VS.Mode == vimstate.Normal && len(ec.VS.PendingKeys) == 0 && k.Kind == key.KindRune && k.Rune == ':' {
		ec.exLine = true
		ec.exBuf = nil
		return exec.Result{Status: exec.ActionSuccess}
	}

	if recordingBefore {
		ec.Recorder.RecordKey(k)
	}

	ec.VS.PendingKeys = append(ec.VS.PendingKeys, k)
	pres := parser.Parse(ec.VS.PendingKeys, ec.VS.Mode)
	switch pres.Status {
	case parser.Invalid:
		ec.VS.PendingKeys = nil
		return ec.fail("unrecognized command")
	case parser.Continue:
		return exec.Result{Status: exec.HandledKey}
	}

	ec.VS.PendingKeys = nil
	action := pres.Action

	if action.Verb == parser.VerbToggleRecord {
		ec.Recorder.Start(action.MotionArg, bs.Log)
		return exec.Result{Status: exec.ActionSuccess}
	}
	if action.Verb == parser.VerbPlayMacro {
		return ec.playMacro(action.MotionArg, action.Count())
	}
	if action.Verb == parser.VerbSearch {
		ec.searching = true
		ec.searchBuf = nil
		if action.MotionArg == '?' {
			ec.searchDir = vimstate.Backward
		} else {
			ec.searchDir = vimstate.Forward
		}
		return exec.Result{Status: exec.ActionSuccess}
	}

	ex := exec.New(bs.Buf, bs.Log, bs.Marks, ec.Yanks, ec.Macros, ec.VS, bs.Cursor)
	res := ex.Execute(action)
	bs.Cursor = ex.Cursor()
	ec.Messages = append(ec.Messages, ex.Messages...)

	if recordingBefore {
		if action.Verb == parser.VerbUndo && res.Status == exec.ActionSuccess {
			ec.Recorder.UndoTrim()
		} else {
			ec.Recorder.CompleteAction()
		}
	}
	return res
}

// dispatchSearchLine accumulates the in-progress "/pattern" or
// "?pattern" command line, a sub-mode the normal key grammar does not
// cover.
func (ec *EditorContext) dispatchSearchLine(k key.Key, bs *BufferState) exec.Result {
	switch k.Kind {
	case key.KindEscape:
		ec.searching = false
		ec.searchBuf = nil
		return exec.Result{Status: exec.ActionSuccess}
	case key.KindEnter:
		ec.searching = false
		pattern := string(ec.searchBuf)
		ec.searchBuf = nil
		if err := ec.VS.SetSearch(pattern, ec.searchDir); err != nil {
			return ec.fail("invalid search pattern: %s", err)
		}
		ec.Yanks.WriteRaw(registers.SearchRegister, registers.Yank{Text: pattern})
		ex := exec.New(bs.Buf, bs.Log, bs.Marks, ec.Yanks, ec.Macros, ec.VS, bs.Cursor)
		res := ex.Execute(parser.Action{Verb: parser.VerbRepeatSearchFwd})
		bs.Cursor = ex.Cursor()
		ec.Messages = append(ec.Messages, ex.Messages...)
		return res
	case key.KindBackspace:
		if len(ec.searchBuf) > 0 {
			ec.searchBuf = ec.searchBuf[:len(ec.searchBuf)-1]
		}
		return exec.Result{Status: exec.HandledKey}
	case key.KindRune:
		ec.searchBuf = append(ec.searchBuf, k.Rune)
		return exec.Result{Status: exec.HandledKey}
	default:
		return exec.Result{Status: exec.HandledKey}
	}
}

// dispatchExLine accumulates the in-progress ":"-prefixed command
// line.
func (ec *EditorContext) dispatchExLine(k key.Key, bs *BufferState) exec.Result {
	switch k.Kind {
	case key.KindEscape:
		ec.exLine = false
		ec.exBuf = nil
		return exec.Result{Status: exec.ActionSuccess}
	case key.KindEnter:
		ec.exLine = false
		cmd := strings.TrimSpace(string(ec.exBuf))
		ec.exBuf = nil
		return ec.runExCommand(cmd, bs)
	case key.KindBackspace:
		if len(ec.exBuf) > 0 {
			ec.exBuf = ec.exBuf[:len(ec.exBuf)-1]
		}
		return exec.Result{Status: exec.HandledKey}
	case key.KindRune:
		ec.exBuf = append(ec.exBuf, k.Rune)
		return exec.Result{Status: exec.HandledKey}
	default:
		return exec.Result{Status: exec.HandledKey}
	}
}

// runExCommand interprets one completed ex-command line: "w"/"q"/"wq"
// (and vi's "x" alias for write-quit) queue an ExCommand for the CLI
// layer, and a bare line number jumps the cursor to that 1-based line
// directly.
func (ec *EditorContext) runExCommand(cmd string, bs *BufferState) exec.Result {
	switch cmd {
	case "w":
		ec.ExCommands = append(ec.ExCommands, ExCommand{Kind: ExWrite, Buffer: ec.active})
		return exec.Result{Status: exec.ActionSuccess}
	case "q":
		ec.ExCommands = append(ec.ExCommands, ExCommand{Kind: ExQuit, Buffer: ec.active})
		return exec.Result{Status: exec.ActionSuccess}
	case "wq", "x":
		ec.ExCommands = append(ec.ExCommands, ExCommand{Kind: ExWriteQuit, Buffer: ec.active})
		return exec.Result{Status: exec.ActionSuccess}
	}
	if n, err := strconv.Atoi(cmd); err == nil {
		bs.Cursor = bs.Buf.ClampPoint(buffer.Point{X: bs.Cursor.X, Y: n - 1})
		return exec.Result{Status: exec.ActionSuccess}
	}
	return ec.fail("unrecognized command: %s", cmd)
}

// Searching reports whether a "/" or "?" command line is being typed,
// and its current contents, so the CLI's status line can echo it.
func (ec *EditorContext) Searching() (active bool, buf string) {
	return ec.searching, string(ec.searchBuf)
}

// ExLine reports whether a ":"-command line is being typed, and its
// current contents, so the CLI's status line can echo it.
func (ec *EditorContext) ExLine() (active bool, buf string) {
	return ec.exLine, string(ec.exBuf)
}

// playMacro runs register reg's key stream through Dispatch count
// times, stopping at the first failure.
func (ec *EditorContext) playMacro(reg rune, count int) exec.Result {
	if count < 1 {
		count = 1
	}
	bs := ec.Active()
	for i := 0; i < count; i++ {
		err := ec.Recorder.Play(reg, bs.Log, func(k key.Key) bool {
			res := ec.Dispatch(k)
			return res.Status == exec.ActionSuccess || res.Status == exec.HandledKey
		})
		if err != nil {
			return ec.fail("%s", err)
		}
	}
	return exec.Result{Status: exec.ActionSuccess}
}
