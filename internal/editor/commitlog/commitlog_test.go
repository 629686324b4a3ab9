package commitlog

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bmf-san/ce/internal/editor/buffer"
)

func TestUndoRedoSingleCommit(t *testing.T) {
	b := buffer.FromLines("t", []string{"hello"})
	log := New()

	b.InsertChar(buffer.Point{X: 5, Y: 0}, '!')
	log.Write(Commit{
		Kind: InsertChar, At: buffer.Point{X: 5, Y: 0}, Char: '!',
		CursorBefore: buffer.Point{X: 5, Y: 0}, CursorAfter: buffer.Point{X: 6, Y: 0},
		Chain: Stop,
	})

	line, _ := b.Line(0)
	require.Equal(t, "hello!", line)

	cursor, ok := log.Undo(b)
	require.True(t, ok)
	require.Equal(t, buffer.Point{X: 5, Y: 0}, cursor)
	line, _ = b.Line(0)
	require.Equal(t, "hello", line)

	cursor, ok = log.Redo(b)
	require.True(t, ok)
	require.Equal(t, buffer.Point{X: 6, Y: 0}, cursor)
	line, _ = b.Line(0)
	require.Equal(t, "hello!", line)
}

func TestUndoChainRestoresPreChainState(t *testing.T) {
	b := buffer.FromLines("t", []string{""})
	log := New()

	// simulate three chained inserts forming one undo step ("abc" typed).
	for i, ch := range []rune{'a', 'b', 'c'} {
		b.InsertChar(buffer.Point{X: i, Y: 0}, ch)
		chain := KeepGoing
		if i == 2 {
			chain = Stop
		}
		log.Write(Commit{
			Kind: InsertChar, At: buffer.Point{X: i, Y: 0}, Char: ch,
			CursorBefore: buffer.Point{X: i, Y: 0}, CursorAfter: buffer.Point{X: i + 1, Y: 0},
			Chain: chain,
		})
	}

	line, _ := b.Line(0)
	require.Equal(t, "abc", line)

	cursor, ok := log.Undo(b)
	require.True(t, ok)
	require.Equal(t, buffer.Point{X: 0, Y: 0}, cursor)
	line, _ = b.Line(0)
	require.Equal(t, "", line)
	require.False(t, log.CanUndo())
}

func TestWriteTruncatesRedoHistory(t *testing.T) {
	b := buffer.FromLines("t", []string{""})
	log := New()

	b.InsertChar(buffer.Point{X: 0, Y: 0}, 'a')
	log.Write(Commit{Kind: InsertChar, At: buffer.Point{X: 0, Y: 0}, Char: 'a', Chain: Stop})
	log.Undo(b)
	require.True(t, log.CanRedo())

	b.InsertChar(buffer.Point{X: 0, Y: 0}, 'z')
	log.Write(Commit{Kind: InsertChar, At: buffer.Point{X: 0, Y: 0}, Char: 'z', Chain: Stop})
	require.False(t, log.CanRedo())

	line, _ := b.Line(0)
	require.Equal(t, "z", line)
}

func TestRewriteChainCollapsesSpan(t *testing.T) {
	log := New()
	from := log.Tail()
	log.Write(Commit{Kind: InsertChar, Chain: Stop})
	log.Write(Commit{Kind: InsertChar, Chain: Stop})
	log.Write(Commit{Kind: InsertChar, Chain: Stop})

	log.RewriteChain(from)

	commits := log.Since(from)
	require.Len(t, commits, 3)
	require.Equal(t, KeepGoing, commits[0].Chain)
	require.Equal(t, KeepGoing, commits[1].Chain)
	require.Equal(t, Stop, commits[2].Chain)
}

func TestTruncateDiscardsWithoutUndoing(t *testing.T) {
	b := buffer.FromLines("t", []string{""})
	log := New()
	b.InsertChar(buffer.Point{X: 0, Y: 0}, 'a')
	log.Write(Commit{Kind: InsertChar, At: buffer.Point{X: 0, Y: 0}, Char: 'a', Chain: Stop})

	log.Truncate(1)
	require.False(t, log.CanUndo())
	line, _ := b.Line(0)
	require.Equal(t, "a", line) // buffer unchanged; only the log entry is dropped
}
