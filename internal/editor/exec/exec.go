// Package exec applies a parsed Action to a buffer: it writes commits
// with the undo-chaining discipline described in the commitlog
// package, updates registers, and sets the next mode. Execute routes
// on the Action's Verb to a mutation function, one switch case per
// verb.
package exec

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/bmf-san/ce/internal/editor/buffer"
	"github.com/bmf-san/ce/internal/editor/commitlog"
	"github.com/bmf-san/ce/internal/editor/key"
	"github.com/bmf-san/ce/internal/editor/langreg"
	"github.com/bmf-san/ce/internal/editor/parser"
	"github.com/bmf-san/ce/internal/editor/registers"
	"github.com/bmf-san/ce/internal/editor/resolve"
	"github.com/bmf-san/ce/internal/editor/vimstate"
)

// Status is the outcome of applying an Action.
type Status int

// Executor outcomes.
const (
	UnhandledKey Status = iota
	HandledKey
	ActionSuccess
	ActionFailure
)

// Result carries the outcome plus a human-readable message for
// action-failed/resource-missing cases, destined for the message
// stream (the status buffer).
type Result struct {
	Status  Status
	Message string
}

var upper = cases.Upper(language.Und)
var lower = cases.Lower(language.Und)

// Executor applies Actions to one buffer at a time plus the process-wide
// registers and VimState.
type Executor struct {
	Buf      *buffer.Buffer
	Log      *commitlog.Log
	Marks    *registers.Marks
	Regs     *registers.Yanks
	Macros   *registers.Macros
	VS       *vimstate.State
	Messages []string

	cursor buffer.Point
}

// New builds an Executor bound to one buffer's state and the shared
// process-wide registers/VimState.
func New(buf *buffer.Buffer, log *commitlog.Log, marks *registers.Marks, regs *registers.Yanks, macros *registers.Macros, vs *vimstate.State, cursor buffer.Point) *Executor {
	return &Executor{Buf: buf, Log: log, Marks: marks, Regs: regs, Macros: macros, VS: vs, cursor: cursor}
}

// Cursor returns the executor's current cursor.
func (e *Executor) Cursor() buffer.Point { return e.cursor }

func (e *Executor) fail(format string, args ...interface{}) Result {
	msg := fmt.Sprintf(format, args...)
	e.Messages = append(e.Messages, msg)
	return Result{Status: ActionFailure, Message: msg}
}

func (e *Executor) langEntry() langreg.Entry {
	return langreg.Lookup(e.Buf.Type)
}

// Execute applies one Action end to end: resolve range, mutate, commit,
// update registers, set next mode.
func (e *Executor) Execute(a parser.Action) Result {
	register := a.Register
	if register == 0 {
		register = registers.DefaultRegister
	}

	switch a.Verb {
	case parser.VerbEscape:
		return e.execEscape()
	case parser.VerbMotion:
		if a.Motion == parser.MotionSelf {
			return e.execInsertKey(a)
		}
		return e.execMotion(a)
	case parser.VerbDelete:
		return e.finish(a, e.execDelete(a, register, false))
	case parser.VerbChange:
		// change enters Insert: the commit chain and the repeat keys
		// stay open until the Escape that ends the insert session.
		return e.execChange(a, register)
	case parser.VerbYank:
		return e.finish(a, e.execYank(a, register))
	case parser.VerbSubstituteChar:
		return e.execChange(parser.Action{Verb: parser.VerbChange, Motion: parser.MotionRight, Multiplier: a.Multiplier, MotionMult: a.MotionMult, Register: a.Register, Keys: a.Keys}, register)
	case parser.VerbSubstituteLine:
		return e.execChange(parser.Action{Verb: parser.VerbChange, Motion: parser.MotionLine, Register: a.Register, Keys: a.Keys}, register)
	case parser.VerbReplaceChar:
		return e.finish(a, e.execReplaceChar(a))
	case parser.VerbPasteAfter:
		return e.finish(a, e.execPaste(register, true))
	case parser.VerbPasteBefore:
		return e.finish(a, e.execPaste(register, false))
	case parser.VerbIndent:
		return e.finish(a, e.execIndentUnindent(a, true))
	case parser.VerbUnindent:
		return e.finish(a, e.execIndentUnindent(a, false))
	case parser.VerbComment:
		return e.finish(a, e.execCommentUncomment(a, true))
	case parser.VerbUncomment:
		return e.finish(a, e.execCommentUncomment(a, false))
	case parser.VerbFlipCase:
		return e.finish(a, e.execFlipCase(a))
	case parser.VerbJoin:
		return e.finish(a, e.execJoin(a))
	case parser.VerbOpenBelow:
		return e.execOpenLine(a, true)
	case parser.VerbOpenAbove:
		return e.execOpenLine(a, false)
	case parser.VerbSetMark:
		e.Marks.Set(a.MotionArg, e.cursor)
		return Result{Status: ActionSuccess}
	case parser.VerbGotoMark:
		return e.execGotoMark(a)
	case parser.VerbGotoFileBegin, parser.VerbRepeatSearchFwd, parser.VerbRepeatSearchRev,
		parser.VerbSearchWordForward, parser.VerbSearchWordBackward, parser.VerbRepeatFind, parser.VerbReverseFind:
		return e.execMotion(a)
	case parser.VerbEnterInsertBefore:
		e.beginInsert(e.cursor, a.Keys)
		return Result{Status: ActionSuccess}
	case parser.VerbEnterInsertAfter:
		if end := e.Buf.EndOfLine(e.cursor.Y); e.cursor.X < end {
			e.cursor.X++
		}
		e.beginInsert(e.cursor, a.Keys)
		return Result{Status: ActionSuccess}
	case parser.VerbEnterInsertLineEnd:
		e.cursor = buffer.Point{X: e.Buf.EndOfLine(e.cursor.Y), Y: e.cursor.Y}
		e.beginInsert(e.cursor, a.Keys)
		return Result{Status: ActionSuccess}
	case parser.VerbEnterInsertLineBeg:
		e.cursor = buffer.Point{X: e.Buf.SoftBeginning(e.cursor.Y), Y: e.cursor.Y}
		e.beginInsert(e.cursor, a.Keys)
		return Result{Status: ActionSuccess}
	case parser.VerbVisualToggleRange:
		return e.execVisualToggle(vimstate.VisualRange)
	case parser.VerbVisualToggleLine:
		return e.execVisualToggle(vimstate.VisualLine)
	case parser.VerbVisualSwap:
		e.cursor, e.VS.VisualAnchor = e.VS.VisualAnchor, e.cursor
		return Result{Status: ActionSuccess}
	case parser.VerbUndo:
		if p, ok := e.Log.Undo(e.Buf); ok {
			e.cursor = e.Buf.ClampPoint(p)
			return Result{Status: ActionSuccess}
		}
		return e.fail("already at oldest change")
	case parser.VerbRedo:
		if p, ok := e.Log.Redo(e.Buf); ok {
			e.cursor = e.Buf.ClampPoint(p)
			return Result{Status: ActionSuccess}
		}
		return e.fail("already at newest change")
	case parser.VerbRepeatLast:
		return e.execRepeatLast()
	case parser.VerbToggleRecord:
		return Result{Status: HandledKey} // handled by macro.Recorder, not here
	case parser.VerbPlayMacro:
		return Result{Status: HandledKey} // handled by macro.Recorder, not here
	case parser.VerbSearch:
		return Result{Status: HandledKey} // ex/search line handled by the CLI layer
	}
	return Result{Status: UnhandledKey}
}

// finish closes the commit chain for a simple action that completes
// in one step, unless a macro is currently playing back (playback
// forces keep-going for every inner commit so the whole macro
// invocation undoes as one step), and — on success — records the
// action as the one "." repeats next. Insert-entering actions never
// come through here: their chain and repeat keys stay open until the
// Escape that ends the insert session.
func (e *Executor) finish(a parser.Action, r Result) Result {
	if r.Status == ActionSuccess {
		if !e.VS.InPlayback() {
			e.Log.SetChain(commitlog.Stop)
			if a.Verb != parser.VerbRepeatLast {
				e.VS.LastActionKeys = append([]key.Key(nil), a.Keys...)
			}
		}
	}
	return r
}

// execRepeatLast replays the last repeatable key stream through the
// parser one action at a time, the way "." repeats the last change.
// A stream like "cwqux<Esc>" holds more than one parsed action (the
// change, the typed keys, the Escape), so a single Parse call is not
// enough.
func (e *Executor) execRepeatLast() Result {
	replay := append([]key.Key(nil), e.VS.LastActionKeys...)
	if len(replay) == 0 {
		return e.fail("nothing to repeat")
	}
	res := Result{Status: ActionSuccess}
	var pending key.Seq
	for _, k := range replay {
		pending = append(pending, k)
		pres := parser.Parse(pending, e.VS.Mode)
		switch pres.Status {
		case parser.Invalid:
			pending = nil
		case parser.Complete:
			pending = nil
			res = e.Execute(pres.Action)
			if res.Status == ActionFailure {
				return res
			}
		}
	}
	return res
}

func (e *Executor) execEscape() Result {
	if e.VS.Mode == vimstate.Insert {
		e.VS.Mode = vimstate.Normal
		if e.cursor.X > 0 {
			e.cursor.X--
		}
		e.cursor = e.Buf.ClampPoint(e.cursor)
		if !e.VS.InPlayback() {
			e.Log.SetChain(commitlog.Stop)
			if len(e.VS.InsertEntryKeys) > 0 {
				keys := append([]key.Key(nil), e.VS.InsertEntryKeys...)
				keys = append(keys, e.VS.LastInsertKeys...)
				keys = append(keys, key.Escape())
				e.VS.LastActionKeys = keys
			}
		}
		e.VS.InsertEntryKeys = nil
		return Result{Status: ActionSuccess}
	}
	e.VS.ExitVisual()
	return Result{Status: ActionSuccess}
}

// beginInsert enters Insert mode at p, starting a fresh insert
// session for coalesced undo and "."-style replay. entry is the key
// sequence that opened the session; the closing Escape captures it
// together with the typed keys as the next repeatable action.
func (e *Executor) beginInsert(p buffer.Point, entry key.Seq) {
	e.VS.InsertStartedAt = p
	e.VS.InsertEntryKeys = append([]key.Key(nil), entry...)
	e.VS.LastInsertKeys = nil
	e.VS.Mode = vimstate.Insert
}

func (e *Executor) execInsertKey(a parser.Action) Result {
	k := a.Keys[len(a.Keys)-1]
	switch k.Kind {
	case key.KindRune:
		ok := e.Buf.InsertChar(e.cursor, k.Rune)
		if !ok {
			return e.fail("cannot insert here")
		}
		e.Log.Write(commitlog.Commit{
			Kind: commitlog.InsertChar, At: e.cursor, Char: k.Rune,
			CursorBefore: e.cursor, CursorAfter: buffer.Point{X: e.cursor.X + 1, Y: e.cursor.Y},
			Chain: commitlog.KeepGoing,
		})
		e.cursor.X++
	case key.KindTab:
		ok := e.Buf.InsertChar(e.cursor, '\t')
		if !ok {
			return e.fail("cannot insert here")
		}
		e.Log.Write(commitlog.Commit{
			Kind: commitlog.InsertChar, At: e.cursor, Char: '\t',
			CursorBefore: e.cursor, CursorAfter: buffer.Point{X: e.cursor.X + 1, Y: e.cursor.Y},
			Chain: commitlog.KeepGoing,
		})
		e.cursor.X++
	case key.KindEnter:
		indent := ""
		if line, ok := e.Buf.Line(e.cursor.Y); ok {
			indent = leadingWhitespace(line)
		}
		s := "\n" + indent
		if !e.Buf.InsertString(e.cursor, s) {
			return e.fail("cannot insert here")
		}
		after := buffer.Point{X: len([]rune(indent)), Y: e.cursor.Y + 1}
		e.Log.Write(commitlog.Commit{
			Kind: commitlog.InsertString, At: e.cursor, String: s,
			CursorBefore: e.cursor, CursorAfter: after, Chain: commitlog.KeepGoing,
		})
		e.cursor = after
	case key.KindBackspace:
		if e.cursor.X > 0 {
			at := buffer.Point{X: e.cursor.X - 1, Y: e.cursor.Y}
			ch, ok := e.Buf.RemoveChar(at)
			if !ok {
				return e.fail("cannot delete here")
			}
			e.Log.Write(commitlog.Commit{
				Kind: commitlog.RemoveChar, At: at, Char: ch,
				CursorBefore: e.cursor, CursorAfter: at, Chain: commitlog.KeepGoing,
			})
			e.cursor = at
		} else if e.cursor.Y > 0 {
			at := buffer.Point{X: e.Buf.EndOfLine(e.cursor.Y - 1), Y: e.cursor.Y - 1}
			if _, ok := e.Buf.RemoveString(at, 1); !ok {
				return e.fail("cannot delete here")
			}
			e.Log.Write(commitlog.Commit{
				Kind: commitlog.RemoveString, At: at, String: "\n",
				CursorBefore: e.cursor, CursorAfter: at, Chain: commitlog.KeepGoing,
			})
			e.cursor = at
		}
	default:
		return Result{Status: UnhandledKey}
	}
	e.VS.LastInsertKeys = append(e.VS.LastInsertKeys, k)
	return Result{Status: ActionSuccess}
}

func (e *Executor) execMotion(a parser.Action) Result {
	r := resolve.Resolve(a, e.Buf, e.cursor, e.VS, e.Marks)
	if !r.Valid {
		return e.fail("motion failed")
	}
	if a.Motion == parser.MotionFindForward || a.Motion == parser.MotionFindBackward ||
		a.Motion == parser.MotionTillForward || a.Motion == parser.MotionTillBackward {
		e.VS.FindChar = vimstate.FindCharState{
			Valid: true,
			Till:  a.Motion == parser.MotionTillForward || a.Motion == parser.MotionTillBackward,
			Dir:   findDir(a.Motion),
			Char:  a.MotionArg,
		}
	}
	if a.Verb == parser.VerbSearchWordForward || a.Verb == parser.VerbSearchWordBackward {
		e.Regs.WriteRaw(registers.SearchRegister, registers.Yank{Text: e.VS.Search.Pattern})
	}
	e.cursor = r.Cursor
	// selection end follows the cursor implicitly in visual modes; the
	// anchor stays put.
	e.Buf.PreferredColumn = e.cursor.X
	return Result{Status: ActionSuccess}
}

func findDir(m parser.MotionKind) vimstate.Direction {
	if m == parser.MotionFindForward || m == parser.MotionTillForward {
		return vimstate.Forward
	}
	return vimstate.Backward
}

// execDelete removes the Action's resolved range. forChange marks a
// change-operator delete: the cursor lands on the insertion point
// (one past the last character is legal there), and a linewise change
// clears the line's text while the line itself survives for the
// insert that follows; a plain linewise delete removes the line and
// its newline separator entirely.
func (e *Executor) execDelete(a parser.Action, register rune, forChange bool) Result {
	r := resolve.Resolve(a, e.Buf, e.cursor, e.VS, e.Marks)
	if !r.Valid {
		return e.fail("nothing to delete")
	}
	text, ok := e.Buf.Dupe(r.SortedStart, r.SortedEnd)
	if !ok || text == "" {
		return e.fail("nothing to delete")
	}
	n := len([]rune(text))
	removeAt := r.SortedStart
	if r.YankMode == registers.ModeLine && !forChange {
		if r.SortedEnd.Y < e.Buf.LineCount()-1 {
			// the trailing newline goes with the deleted lines
			n++
		} else if r.SortedStart.Y > 0 {
			// last line: consume the preceding newline instead
			removeAt = buffer.Point{X: e.Buf.EndOfLine(r.SortedStart.Y - 1), Y: r.SortedStart.Y - 1}
			n++
		}
	}
	before := e.cursor
	removedText, removed := e.Buf.RemoveString(removeAt, n)
	if !removed {
		return e.fail("nothing to delete")
	}
	switch {
	case forChange:
		e.cursor = r.SortedStart
	case r.YankMode == registers.ModeLine:
		y := e.Buf.ClampPoint(buffer.Point{X: 0, Y: r.SortedStart.Y}).Y
		e.cursor = e.Buf.ClampPoint(buffer.Point{X: e.Buf.SoftBeginning(y), Y: y})
	default:
		e.cursor = e.Buf.ClampPoint(r.SortedStart)
	}
	e.Log.Write(commitlog.Commit{
		Kind: commitlog.RemoveString, At: removeAt, String: removedText,
		CursorBefore: before, CursorAfter: e.cursor, Chain: commitlog.KeepGoing,
	})
	e.Regs.WriteDelete(register, registers.Yank{Text: text, Mode: r.YankMode})
	if e.VS.Mode != vimstate.Normal {
		e.VS.ExitVisual()
	}
	return Result{Status: ActionSuccess}
}

func (e *Executor) execChange(a parser.Action, register rune) Result {
	linewise := a.Motion == parser.MotionLine || e.VS.Mode == vimstate.VisualLine
	indent := ""
	if linewise {
		if line, ok := e.Buf.Line(e.cursor.Y); ok {
			indent = leadingWhitespace(line)
		}
	}
	res := e.execDelete(a, register, true)
	if res.Status != ActionSuccess {
		return res
	}
	if linewise && indent != "" {
		// cc leaves a blank line to type into, preserving indent.
		before := e.cursor
		at := buffer.Point{X: 0, Y: e.cursor.Y}
		e.Buf.InsertString(at, indent)
		e.cursor = buffer.Point{X: len([]rune(indent)), Y: e.cursor.Y}
		e.Log.Write(commitlog.Commit{Kind: commitlog.InsertString, At: at, String: indent, CursorBefore: before, CursorAfter: e.cursor, Chain: commitlog.KeepGoing})
	}
	e.beginInsert(e.cursor, a.Keys)
	return Result{Status: ActionSuccess}
}

func leadingWhitespace(s string) string {
	n := 0
	for _, r := range s {
		if r != ' ' && r != '\t' {
			break
		}
		n++
	}
	return string([]rune(s)[:n])
}

func (e *Executor) execYank(a parser.Action, register rune) Result {
	r := resolve.Resolve(a, e.Buf, e.cursor, e.VS, e.Marks)
	if !r.Valid {
		return e.fail("nothing to yank")
	}
	text, ok := e.Buf.Dupe(r.SortedStart, r.SortedEnd)
	if !ok {
		return e.fail("nothing to yank")
	}
	e.Regs.Write(register, registers.Yank{Text: text, Mode: r.YankMode})
	e.cursor = r.SortedStart
	if e.VS.Mode != vimstate.Normal {
		e.VS.ExitVisual()
	}
	return Result{Status: ActionSuccess}
}

func (e *Executor) execReplaceChar(a parser.Action) Result {
	old, ok := e.Buf.Get(e.cursor)
	if !ok {
		return e.fail("nothing to replace")
	}
	before := e.cursor
	if _, ok := e.Buf.Set(e.cursor, a.MotionArg); !ok {
		return e.fail("cannot replace here")
	}
	e.Log.Write(commitlog.Commit{
		Kind: commitlog.ChangeChar, At: e.cursor, New: "", Old: "",
		NewChar: a.MotionArg, OldChar: old,
		CursorBefore: before, CursorAfter: e.cursor, Chain: commitlog.KeepGoing,
	})
	return Result{Status: ActionSuccess}
}

func (e *Executor) execPaste(register rune, after bool) Result {
	y, ok := e.Regs.Read(register)
	if !ok || y.Text == "" {
		return e.fail("register empty")
	}
	before := e.cursor
	if y.Mode == registers.ModeLine {
		lineY := e.cursor.Y
		if after {
			lineY++
		}
		at := buffer.Point{X: 0, Y: lineY}
		text := y.Text + "\n"
		if lineY >= e.Buf.LineCount() {
			at = buffer.Point{X: e.Buf.EndOfLine(e.Buf.LineCount() - 1), Y: e.Buf.LineCount() - 1}
			text = "\n" + y.Text
		}
		e.Buf.InsertString(at, text)
		e.cursor = buffer.Point{X: e.Buf.SoftBeginning(lineY), Y: lineY}
		e.Log.Write(commitlog.Commit{Kind: commitlog.InsertString, At: at, String: text, CursorBefore: before, CursorAfter: e.cursor, Chain: commitlog.KeepGoing})
		return Result{Status: ActionSuccess}
	}
	at := e.cursor
	lineLen := e.Buf.EndOfLine(e.cursor.Y)
	if after && lineLen > 0 {
		at.X++
	}
	if at.X > lineLen {
		at.X = lineLen
	}
	e.Buf.InsertString(at, y.Text)
	e.cursor = buffer.Point{X: at.X + len([]rune(y.Text)) - 1, Y: at.Y}
	if e.cursor.X < at.X {
		e.cursor.X = at.X
	}
	e.Log.Write(commitlog.Commit{Kind: commitlog.InsertString, At: at, String: y.Text, CursorBefore: before, CursorAfter: e.cursor, Chain: commitlog.KeepGoing})
	return Result{Status: ActionSuccess}
}

func (e *Executor) execIndentUnindent(a parser.Action, indent bool) Result {
	r := resolve.Resolve(forceLineMotion(a), e.Buf, e.cursor, e.VS, e.Marks)
	if !r.Valid {
		return e.fail("nothing to indent")
	}
	tab := e.langEntry().TabString()
	any := false
	for y := r.SortedStart.Y; y <= r.SortedEnd.Y; y++ {
		before := e.cursor
		if indent {
			at := buffer.Point{X: 0, Y: y}
			e.Buf.InsertString(at, tab)
			e.Log.Write(commitlog.Commit{Kind: commitlog.InsertString, At: at, String: tab, CursorBefore: before, CursorAfter: before, Chain: commitlog.KeepGoing})
			any = true
			continue
		}
		line, _ := e.Buf.Line(y)
		n := commonPrefixLen(line, tab)
		if n == 0 {
			continue
		}
		removed, _ := e.Buf.RemoveString(buffer.Point{X: 0, Y: y}, n)
		e.Log.Write(commitlog.Commit{Kind: commitlog.RemoveString, At: buffer.Point{X: 0, Y: y}, String: removed, CursorBefore: before, CursorAfter: before, Chain: commitlog.KeepGoing})
		any = true
	}
	if !any {
		return e.fail("nothing to unindent")
	}
	e.cursor = buffer.Point{X: e.Buf.SoftBeginning(r.SortedStart.Y), Y: r.SortedStart.Y}
	if e.VS.Mode != vimstate.Normal {
		e.VS.ExitVisual()
	}
	return Result{Status: ActionSuccess}
}

func commonPrefixLen(line, tab string) int {
	lr, tr := []rune(line), []rune(tab)
	n := 0
	for n < len(lr) && n < len(tr) && lr[n] == tr[n] {
		n++
	}
	if n == 0 && len(lr) > 0 && lr[0] == '\t' {
		return 1
	}
	return n
}

func forceLineMotion(a parser.Action) parser.Action {
	a.Motion = parser.MotionLine
	return a
}

func (e *Executor) execCommentUncomment(a parser.Action, comment bool) Result {
	r := resolve.Resolve(forceLineMotion(a), e.Buf, e.cursor, e.VS, e.Marks)
	if !r.Valid {
		return e.fail("nothing to comment")
	}
	prefix := e.langEntry().Comment
	if prefix == "" {
		return e.fail("no comment syntax for this buffer type")
	}
	any := false
	for y := r.SortedStart.Y; y <= r.SortedEnd.Y; y++ {
		line, _ := e.Buf.Line(y)
		if trimSpace(line) == "" {
			continue
		}
		col := e.Buf.SoftBeginning(y)
		before := e.cursor
		if comment {
			at := buffer.Point{X: col, Y: y}
			e.Buf.InsertString(at, prefix)
			e.Log.Write(commitlog.Commit{Kind: commitlog.InsertString, At: at, String: prefix, CursorBefore: before, CursorAfter: before, Chain: commitlog.KeepGoing})
			any = true
			continue
		}
		runes := []rune(line)
		pre := []rune(prefix)
		if col+len(pre) > len(runes) || string(runes[col:col+len(pre)]) != prefix {
			continue
		}
		removed, _ := e.Buf.RemoveString(buffer.Point{X: col, Y: y}, len(pre))
		e.Log.Write(commitlog.Commit{Kind: commitlog.RemoveString, At: buffer.Point{X: col, Y: y}, String: removed, CursorBefore: before, CursorAfter: before, Chain: commitlog.KeepGoing})
		any = true
	}
	if !any {
		return e.fail("nothing to (un)comment")
	}
	e.cursor = buffer.Point{X: e.Buf.SoftBeginning(r.SortedStart.Y), Y: r.SortedStart.Y}
	if e.VS.Mode != vimstate.Normal {
		e.VS.ExitVisual()
	}
	return Result{Status: ActionSuccess}
}

func trimSpace(s string) string {
	start, end := 0, len(s)
	runes := []rune(s)
	for start < len(runes) && (runes[start] == ' ' || runes[start] == '\t') {
		start++
	}
	for end > start && (runes[end-1] == ' ' || runes[end-1] == '\t') {
		end--
	}
	if start >= end {
		return ""
	}
	return string(runes[start:end])
}

func (e *Executor) execFlipCase(a parser.Action) Result {
	r := resolve.Resolve(a, e.Buf, e.cursor, e.VS, e.Marks)
	if !r.Valid {
		return e.fail("nothing to flip")
	}
	y := r.SortedStart.Y
	before := e.cursor
	for x := r.SortedStart.X; x < r.SortedEnd.X || (y < r.SortedEnd.Y && r.SortedEnd.Y != y); {
		p := buffer.Point{X: x, Y: y}
		ch, ok := e.Buf.Get(p)
		if !ok {
			y++
			x = 0
			if y > r.SortedEnd.Y {
				break
			}
			continue
		}
		flipped := flipRune(ch)
		if flipped != ch {
			old, _ := e.Buf.Set(p, flipped)
			e.Log.Write(commitlog.Commit{Kind: commitlog.ChangeChar, At: p, NewChar: flipped, OldChar: old, CursorBefore: before, CursorAfter: before, Chain: commitlog.KeepGoing})
		}
		x++
	}
	e.cursor = r.SortedStart
	if e.VS.Mode != vimstate.Normal {
		e.VS.ExitVisual()
	}
	return Result{Status: ActionSuccess}
}

func flipRune(r rune) rune {
	upperR := []rune(upper.String(string(r)))[0]
	if upperR != r {
		return upperR
	}
	return []rune(lower.String(string(r)))[0]
}

// execJoin joins the next line onto the current one, once per line in
// the resolved range: "J" joins one, "3J" joins three lines into one,
// and a visual J joins every selected line.
func (e *Executor) execJoin(a parser.Action) Result {
	r := resolve.Resolve(a, e.Buf, e.cursor, e.VS, e.Marks)
	if !r.Valid {
		return e.fail("no next line to join")
	}
	joins := r.SortedEnd.Y - r.SortedStart.Y
	if joins < 1 {
		joins = 1
	}
	if r.SortedStart.Y+1 >= e.Buf.LineCount() {
		return e.fail("no next line to join")
	}
	before := e.cursor
	y := r.SortedStart.Y
	var joinAt buffer.Point
	for i := 0; i < joins && y+1 < e.Buf.LineCount(); i++ {
		curLine, _ := e.Buf.Line(y)
		joinAt = buffer.Point{X: len([]rune(curLine)), Y: y}
		nextLine, _ := e.Buf.Line(y + 1)
		trimmed := trimLeadingSpace(nextLine)
		sep := " "
		if trimmed == "" {
			sep = ""
		}
		// remove the implicit newline and the next line's leading
		// whitespace, then insert the single separating space.
		lead := len([]rune(nextLine)) - len([]rune(trimmed))
		e.Buf.RemoveString(joinAt, 1+lead)
		if sep != "" {
			e.Buf.InsertString(joinAt, sep)
		}
		e.Log.Write(commitlog.Commit{Kind: commitlog.ChangeString, At: joinAt, New: sep, Old: "\n" + string([]rune(nextLine)[:lead]), CursorBefore: before, CursorAfter: joinAt, Chain: commitlog.KeepGoing})
	}
	e.cursor = joinAt
	if e.VS.Mode != vimstate.Normal {
		e.VS.ExitVisual()
	}
	return Result{Status: ActionSuccess}
}

func trimLeadingSpace(s string) string {
	runes := []rune(s)
	i := 0
	for i < len(runes) && (runes[i] == ' ' || runes[i] == '\t') {
		i++
	}
	return string(runes[i:])
}

func (e *Executor) execOpenLine(a parser.Action, below bool) Result {
	indent := ""
	if line, ok := e.Buf.Line(e.cursor.Y); ok {
		indent = leadingWhitespace(line)
	}
	y := e.cursor.Y
	if below {
		y++
	}
	before := e.cursor
	if below {
		e.Buf.InsertString(buffer.Point{X: e.Buf.EndOfLine(e.cursor.Y), Y: e.cursor.Y}, "\n"+indent)
		e.Log.Write(commitlog.Commit{Kind: commitlog.InsertString, At: buffer.Point{X: e.Buf.EndOfLine(e.cursor.Y), Y: e.cursor.Y}, String: "\n" + indent, CursorBefore: before, CursorAfter: buffer.Point{X: len([]rune(indent)), Y: y}, Chain: commitlog.KeepGoing})
	} else {
		e.Buf.InsertString(buffer.Point{X: 0, Y: e.cursor.Y}, indent+"\n")
		e.Log.Write(commitlog.Commit{Kind: commitlog.InsertString, At: buffer.Point{X: 0, Y: e.cursor.Y}, String: indent + "\n", CursorBefore: before, CursorAfter: buffer.Point{X: len([]rune(indent)), Y: e.cursor.Y}, Chain: commitlog.KeepGoing})
	}
	e.cursor = buffer.Point{X: len([]rune(indent)), Y: y}
	e.beginInsert(e.cursor, a.Keys)
	return Result{Status: ActionSuccess}
}

func (e *Executor) execGotoMark(a parser.Action) Result {
	p, ok := e.Marks.Get(a.MotionArg)
	if !ok {
		return e.fail("mark not set: %c", a.MotionArg)
	}
	if p.Y >= e.Buf.LineCount() {
		return e.fail("mark out of range")
	}
	e.cursor = buffer.Point{X: e.Buf.SoftBeginning(p.Y), Y: p.Y}
	return Result{Status: ActionSuccess}
}

func (e *Executor) execVisualToggle(mode vimstate.Mode) Result {
	if e.VS.Mode == mode {
		e.VS.ExitVisual()
		return Result{Status: ActionSuccess}
	}
	e.VS.EnterVisual(mode, e.cursor)
	return Result{Status: ActionSuccess}
}

// SetCursor overrides the executor's working cursor.
func (e *Executor) SetCursor(p buffer.Point) { e.cursor = p }
