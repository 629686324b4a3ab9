package resolve

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bmf-san/ce/internal/editor/buffer"
	"github.com/bmf-san/ce/internal/editor/parser"
	"github.com/bmf-san/ce/internal/editor/registers"
	"github.com/bmf-san/ce/internal/editor/vimstate"
)

func TestResolveMotionOnly(t *testing.T) {
	buf := buffer.FromLines("t", []string{"hello world"})
	vs := vimstate.New()
	r := Resolve(parser.Action{Verb: parser.VerbMotion, Motion: parser.MotionRight}, buf, buffer.Point{X: 0, Y: 0}, vs, registers.NewMarks())
	require.True(t, r.Valid)
	require.Equal(t, buffer.Point{X: 1, Y: 0}, r.Cursor)
}

func TestResolveWordMotionOperandExcludesNextWord(t *testing.T) {
	buf := buffer.FromLines("t", []string{"foo bar"})
	vs := vimstate.New()
	r := Resolve(parser.Action{Verb: parser.VerbDelete, Motion: parser.MotionWordNext}, buf, buffer.Point{X: 0, Y: 0}, vs, registers.NewMarks())
	require.True(t, r.Valid)
	require.Equal(t, buffer.Point{X: 0, Y: 0}, r.SortedStart)
	require.Equal(t, buffer.Point{X: 4, Y: 0}, r.SortedEnd) // "foo " only, not into "bar"
}

func TestResolveChangeWordStopsAtWordEnd(t *testing.T) {
	buf := buffer.FromLines("t", []string{"foo bar baz"})
	vs := vimstate.New()
	r := Resolve(parser.Action{Verb: parser.VerbChange, Motion: parser.MotionWordNext}, buf, buffer.Point{X: 4, Y: 0}, vs, registers.NewMarks())
	require.True(t, r.Valid)
	text, _ := buf.Dupe(r.SortedStart, r.SortedEnd)
	require.Equal(t, "bar", text) // trailing space stays, unlike dw
}

func TestResolveCountedMotionRepeats(t *testing.T) {
	buf := buffer.FromLines("t", []string{"a", "b", "c", "d"})
	vs := vimstate.New()
	r := Resolve(parser.Action{Verb: parser.VerbMotion, Motion: parser.MotionDown, Multiplier: 3}, buf, buffer.Point{X: 0, Y: 0}, vs, registers.NewMarks())
	require.True(t, r.Valid)
	require.Equal(t, 3, r.Cursor.Y)
}

func TestResolveGotoLineWithCount(t *testing.T) {
	buf := buffer.FromLines("t", []string{"one", "two", "three"})
	vs := vimstate.New()
	r := Resolve(parser.Action{Verb: parser.VerbMotion, Motion: parser.MotionFileEnd, Multiplier: 2}, buf, buffer.Point{X: 0, Y: 0}, vs, registers.NewMarks())
	require.True(t, r.Valid)
	require.Equal(t, 1, r.Cursor.Y) // 2G lands on the second line

	r = Resolve(parser.Action{Verb: parser.VerbMotion, Motion: parser.MotionFileEnd, Multiplier: 99}, buf, buffer.Point{X: 0, Y: 0}, vs, registers.NewMarks())
	require.Equal(t, 2, r.Cursor.Y) // clamped to the last line
}

func TestResolveLinewiseDoubledVerb(t *testing.T) {
	buf := buffer.FromLines("t", []string{"one", "two", "three"})
	vs := vimstate.New()
	r := Resolve(parser.Action{Verb: parser.VerbDelete, Motion: parser.MotionLine, MotionMult: 2}, buf, buffer.Point{X: 1, Y: 0}, vs, registers.NewMarks())
	require.True(t, r.Valid)
	require.Equal(t, registers.ModeLine, r.YankMode)
	require.Equal(t, 0, r.SortedStart.Y)
	require.Equal(t, 1, r.SortedEnd.Y)
}

func TestResolveQuoteObjectHomogeneousAdjacents(t *testing.T) {
	buf := buffer.FromLines("t", []string{`say "hello" now`})
	vs := vimstate.New()
	r := Resolve(parser.Action{Verb: parser.VerbDelete, Motion: parser.MotionTextObjectInner, MotionArg: '"'}, buf, buffer.Point{X: 6, Y: 0}, vs, registers.NewMarks())
	require.True(t, r.Valid)
	text, _ := buf.Dupe(r.SortedStart, r.SortedEnd)
	require.Equal(t, "hello", text)
}

func TestResolvePairObjectNesting(t *testing.T) {
	buf := buffer.FromLines("t", []string{"f(a(b)c)"})
	vs := vimstate.New()
	r := Resolve(parser.Action{Verb: parser.VerbDelete, Motion: parser.MotionTextObjectInner, MotionArg: '('}, buf, buffer.Point{X: 4, Y: 0}, vs, registers.NewMarks())
	require.True(t, r.Valid)
	text, _ := buf.Dupe(r.SortedStart, r.SortedEnd)
	require.Equal(t, "b", text)
}

func TestResolveVisualRangeSpan(t *testing.T) {
	buf := buffer.FromLines("t", []string{"hello world"})
	vs := vimstate.New()
	vs.EnterVisual(vimstate.VisualRange, buffer.Point{X: 2, Y: 0})
	r := Resolve(parser.Action{Verb: parser.VerbDelete}, buf, buffer.Point{X: 6, Y: 0}, vs, registers.NewMarks())
	require.True(t, r.Valid)
	require.Equal(t, buffer.Point{X: 2, Y: 0}, r.SortedStart)
	require.Equal(t, buffer.Point{X: 6, Y: 0}, r.SortedEnd)
}

func TestResolveVisualLineSpan(t *testing.T) {
	buf := buffer.FromLines("t", []string{"one", "two", "three"})
	vs := vimstate.New()
	vs.EnterVisual(vimstate.VisualLine, buffer.Point{X: 2, Y: 0})
	r := Resolve(parser.Action{Verb: parser.VerbYank}, buf, buffer.Point{X: 0, Y: 1}, vs, registers.NewMarks())
	require.True(t, r.Valid)
	require.Equal(t, registers.ModeLine, r.YankMode)
	require.Equal(t, 0, r.SortedStart.Y)
	require.Equal(t, 1, r.SortedEnd.Y)
}

func TestResolveGotoMarkMissing(t *testing.T) {
	buf := buffer.FromLines("t", []string{"abc"})
	vs := vimstate.New()
	r := Resolve(parser.Action{Verb: parser.VerbGotoMark, MotionArg: 'z'}, buf, buffer.Point{X: 0, Y: 0}, vs, registers.NewMarks())
	require.False(t, r.Valid)
}

func TestResolveSearchFailsPastLastMatch(t *testing.T) {
	buf := buffer.FromLines("t", []string{"needle here", "nothing", "another needle"})
	vs := vimstate.New()
	require.NoError(t, vs.SetSearch("needle", vimstate.Forward))
	r := Resolve(parser.Action{Verb: parser.VerbRepeatSearchFwd}, buf, buffer.Point{X: 13, Y: 2}, vs, registers.NewMarks())
	require.False(t, r.Valid)
}

func TestFindCharRepeatAndReverse(t *testing.T) {
	buf := buffer.FromLines("t", []string{"a.b.c.d"})
	vs := vimstate.New()
	vs.FindChar = vimstate.FindCharState{Valid: true, Dir: vimstate.Forward, Char: '.'}

	r := Resolve(parser.Action{Verb: parser.VerbRepeatFind}, buf, buffer.Point{X: 0, Y: 0}, vs, registers.NewMarks())
	require.True(t, r.Valid)
	require.Equal(t, buffer.Point{X: 1, Y: 0}, r.Cursor)

	r = Resolve(parser.Action{Verb: parser.VerbReverseFind}, buf, buffer.Point{X: 3, Y: 0}, vs, registers.NewMarks())
	require.True(t, r.Valid)
	require.Equal(t, buffer.Point{X: 1, Y: 0}, r.Cursor) // reversed: searches backward instead
}

func TestWordUnderCursor(t *testing.T) {
	buf := buffer.FromLines("t", []string{"hello world"})
	word, ok := WordUnderCursor(buf, buffer.Point{X: 7, Y: 0})
	require.True(t, ok)
	require.Equal(t, "world", word)

	_, ok = WordUnderCursor(buf, buffer.Point{X: 5, Y: 0})
	require.False(t, ok) // the space is not a word character
}
