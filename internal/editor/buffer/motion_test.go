package buffer

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNextWordStartCrossesLine(t *testing.T) {
	b := FromLines("t", []string{"foo", "bar"})
	p := b.NextWordStart(Point{X: 0, Y: 0}, false)
	require.Equal(t, Point{X: 0, Y: 1}, p)
}

func TestNextWordStartSkipsPunctuation(t *testing.T) {
	b := FromLines("t", []string{"foo, bar"})
	p := b.NextWordStart(Point{X: 0, Y: 0}, false)
	require.Equal(t, Point{X: 3, Y: 0}, p) // comma is its own little-word
}

func TestPrevWordStart(t *testing.T) {
	b := FromLines("t", []string{"foo bar baz"})
	p := b.PrevWordStart(Point{X: 8, Y: 0}, false)
	require.Equal(t, Point{X: 4, Y: 0}, p)
}

func TestWordEnd(t *testing.T) {
	b := FromLines("t", []string{"foo bar"})
	p := b.WordEnd(Point{X: 0, Y: 0}, false)
	require.Equal(t, Point{X: 2, Y: 0}, p)
}

func TestMatchingPairNesting(t *testing.T) {
	b := FromLines("t", []string{"(a(b)c)"})
	p, ok := b.MatchingPair(Point{X: 0, Y: 0})
	require.True(t, ok)
	require.Equal(t, Point{X: 6, Y: 0}, p)

	p, ok = b.MatchingPair(Point{X: 2, Y: 0})
	require.True(t, ok)
	require.Equal(t, Point{X: 4, Y: 0}, p)
}

func TestFindCharForwardBackward(t *testing.T) {
	b := FromLines("t", []string{"a.b.c"})
	p, ok := b.FindCharForward(Point{X: 0, Y: 0}, '.')
	require.True(t, ok)
	require.Equal(t, Point{X: 1, Y: 0}, p)

	p, ok = b.FindCharBackward(Point{X: 4, Y: 0}, '.')
	require.True(t, ok)
	require.Equal(t, Point{X: 3, Y: 0}, p)

	_, ok = b.FindCharForward(Point{X: 4, Y: 0}, 'z')
	require.False(t, ok)
}

func TestSearchForwardFindsLaterLine(t *testing.T) {
	b := FromLines("t", []string{"needle here", "nothing", "another needle"})
	re := regexp.MustCompile("needle")

	p, ok := b.SearchForward(Point{X: 0, Y: 0}, re)
	require.True(t, ok)
	require.Equal(t, Point{X: 8, Y: 2}, p)
}

func TestSearchForwardFailsPastLastLine(t *testing.T) {
	b := FromLines("t", []string{"needle here", "nothing", "another needle"})
	re := regexp.MustCompile("needle")

	_, ok := b.SearchForward(Point{X: 8, Y: 2}, re)
	require.False(t, ok)
}

func TestSearchBackwardFindsEarlierLine(t *testing.T) {
	b := FromLines("t", []string{"needle here", "nothing", "another needle"})
	re := regexp.MustCompile("needle")

	p, ok := b.SearchBackward(Point{X: 0, Y: 2}, re)
	require.True(t, ok)
	require.Equal(t, Point{X: 0, Y: 0}, p)
}

func TestSearchColumnsAreRuneIndices(t *testing.T) {
	// multi-byte runes before the match must not skew the column.
	b := FromLines("t", []string{"héllo wörld héllo"})
	re := regexp.MustCompile("héllo")

	p, ok := b.SearchForward(Point{X: 0, Y: 0}, re)
	require.True(t, ok)
	require.Equal(t, Point{X: 12, Y: 0}, p)

	p, ok = b.SearchBackward(Point{X: 12, Y: 0}, re)
	require.True(t, ok)
	require.Equal(t, Point{X: 0, Y: 0}, p)
}

func TestSearchBackwardFailsBeforeFirstLine(t *testing.T) {
	b := FromLines("t", []string{"needle here", "nothing", "another needle"})
	re := regexp.MustCompile("needle")

	_, ok := b.SearchBackward(Point{X: 0, Y: 0}, re)
	require.False(t, ok)
}
