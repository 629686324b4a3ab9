// Package commitlog is an append-only, per-buffer chain of reversible
// edit records. Commits are held in a slice addressed by index rather
// than a pointer-linked list, so undo/redo just walks the tail cursor
// back and forth instead of unlinking and relinking nodes.
package commitlog

import "github.com/bmf-san/ce/internal/editor/buffer"

// Chain marks whether a commit is part of the same undo step as the
// one following it.
type Chain int

// Chain values.
const (
	KeepGoing Chain = iota
	Stop
)

// Kind identifies which of the six commit variants a Commit carries.
type Kind int

// Commit kinds, one per reversible edit primitive a buffer supports.
const (
	InsertChar Kind = iota
	RemoveChar
	InsertString
	RemoveString
	ChangeChar
	ChangeString
)

// Commit is one atomic, reversible edit.
type Commit struct {
	Kind Kind
	At   buffer.Point

	Char    rune
	String  string
	NewChar rune
	OldChar rune
	New     string
	Old     string

	CursorBefore, CursorAfter buffer.Point
	Chain                     Chain
}

// Log is the commit chain for one buffer, kept as a slice addressed by index,
// with a tail cursor: commits [0:tail] are "done", commits [tail:] are
// redoable history truncated by the next write.
type Log struct {
	commits []Commit
	tail    int // number of commits currently applied
}

// New returns an empty commit log.
func New() *Log { return &Log{} }

// Write appends a new commit, truncating any forward (redo) history.
func (l *Log) Write(c Commit) {
	l.commits = l.commits[:l.tail]
	l.commits = append(l.commits, c)
	l.tail++
}

// SetChain rewrites the Chain flag of the most recently written commit,
// used by the executor to mark the Escape that leaves Insert mode, and
// by macro recording to force KeepGoing/Stop on playback boundaries.
func (l *Log) SetChain(c Chain) {
	if l.tail == 0 {
		return
	}
	l.commits[l.tail-1].Chain = c
}

// Tail returns the number of applied commits, used by the macro recorder
// to detect how many commits a span of recording produced.
func (l *Log) Tail() int { return l.tail }

// CanUndo reports whether there is anything to undo.
func (l *Log) CanUndo() bool { return l.tail > 0 }

// CanRedo reports whether there is anything to redo.
func (l *Log) CanRedo() bool { return l.tail < len(l.commits) }

// undoOne applies the inverse of a single commit to b.
func undoOne(b *buffer.Buffer, c Commit) {
	switch c.Kind {
	case InsertChar:
		b.RemoveChar(c.At)
	case RemoveChar:
		b.InsertChar(c.At, c.Char)
	case InsertString:
		n := len([]rune(c.String))
		b.RemoveString(c.At, n)
	case RemoveString:
		b.InsertString(c.At, c.String)
	case ChangeChar:
		b.Set(c.At, c.OldChar)
	case ChangeString:
		n := len([]rune(c.New))
		b.RemoveString(c.At, n)
		b.InsertString(c.At, c.Old)
	}
}

// redoOne re-applies a single commit to b.
func redoOne(b *buffer.Buffer, c Commit) {
	switch c.Kind {
	case InsertChar:
		b.InsertChar(c.At, c.Char)
	case RemoveChar:
		b.RemoveChar(c.At)
	case InsertString:
		b.InsertString(c.At, c.String)
	case RemoveString:
		n := len([]rune(c.String))
		b.RemoveString(c.At, n)
	case ChangeChar:
		b.Set(c.At, c.NewChar)
	case ChangeString:
		n := len([]rune(c.Old))
		b.RemoveString(c.At, n)
		b.InsertString(c.At, c.New)
	}
}

// Undo reverses the current tail commit and every commit behind it that
// belongs to the same chain, stopping once the next older commit is
// itself the Stop (last-written) member of an earlier chain. It
// returns the cursor to restore to, and whether anything was undone.
func (l *Log) Undo(b *buffer.Buffer) (buffer.Point, bool) {
	if l.tail == 0 {
		return buffer.Point{}, false
	}
	var cursor buffer.Point
	for l.tail > 0 {
		c := l.commits[l.tail-1]
		undoOne(b, c)
		cursor = c.CursorBefore
		l.tail--
		if l.tail == 0 || l.commits[l.tail-1].Chain == Stop {
			break
		}
	}
	return cursor, true
}

// Redo re-applies commits forward across the symmetric Stop boundary.
func (l *Log) Redo(b *buffer.Buffer) (buffer.Point, bool) {
	if l.tail >= len(l.commits) {
		return buffer.Point{}, false
	}
	var cursor buffer.Point
	for l.tail < len(l.commits) {
		c := l.commits[l.tail]
		redoOne(b, c)
		cursor = c.CursorAfter
		l.tail++
		if c.Chain == Stop {
			break
		}
	}
	return cursor, true
}

// Truncate drops the last n applied commits without undoing them.
func (l *Log) Truncate(n int) {
	if n > l.tail {
		n = l.tail
	}
	l.tail -= n
	l.commits = l.commits[:l.tail]
}

// Since returns the commits written at or after index from (used by the
// macro recorder to rewrite chain flags across a recorded span).
func (l *Log) Since(from int) []Commit {
	if from < 0 || from > l.tail {
		return nil
	}
	return l.commits[from:l.tail]
}

// RewriteChain sets every commit in [from, l.tail) to KeepGoing except
// the last, which is set to Stop — collapsing a span into one undo
// step. The macro recorder uses this to make a whole recorded
// keystroke span undo as a single step.
func (l *Log) RewriteChain(from int) {
	for i := from; i < l.tail; i++ {
		if i == l.tail-1 {
			l.commits[i].Chain = Stop
		} else {
			l.commits[i].Chain = KeepGoing
		}
	}
}
