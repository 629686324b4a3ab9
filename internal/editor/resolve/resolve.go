// Package resolve turns a parsed Action into the text region it
// affects: given the buffer, the cursor, the visual anchor, find-char
// state and search state, it computes the start/end span a motion or
// text object names.
package resolve

import (
	"fmt"
	"regexp"

	"github.com/bmf-san/ce/internal/editor/buffer"
	"github.com/bmf-san/ce/internal/editor/parser"
	"github.com/bmf-san/ce/internal/editor/registers"
	"github.com/bmf-san/ce/internal/editor/vimstate"
)

// Range is a resolved text region: a start/end pair (in whatever
// order the motion produced them), their sorted form, and the
// resulting yank mode.
type Range struct {
	Start, End             buffer.Point
	SortedStart, SortedEnd buffer.Point
	YankMode               registers.YankMode
	Valid                  bool
	// Cursor is where the cursor should land for a pure motion Action;
	// operators instead land the cursor at SortedStart after mutation.
	Cursor buffer.Point
}

func sortedRange(a, b buffer.Point, mode registers.YankMode) Range {
	s, e := buffer.Sorted(a, b)
	return Range{Start: a, End: b, SortedStart: s, SortedEnd: e, YankMode: mode, Valid: true, Cursor: b}
}

// Resolve computes the range for a completed Action.
func Resolve(a parser.Action, buf *buffer.Buffer, cursor buffer.Point, vs *vimstate.State, marks *registers.Marks) Range {
	if vs.Mode == vimstate.VisualRange && isVisualOperator(a) {
		return visualRangeSpan(cursor, vs.VisualAnchor)
	}
	if vs.Mode == vimstate.VisualLine && isVisualOperator(a) {
		return visualLineSpan(buf, cursor, vs.VisualAnchor)
	}

	switch a.Verb {
	case parser.VerbDelete, parser.VerbChange, parser.VerbYank, parser.VerbIndent,
		parser.VerbUnindent, parser.VerbComment, parser.VerbUncomment, parser.VerbFlipCase:
		if a.Motion == parser.MotionLine {
			return linewiseSpan(buf, cursor, a.Count())
		}
		return motionOperandSpan(buf, cursor, a, vs)
	case parser.VerbJoin:
		return linewiseSpan(buf, cursor, a.Count())
	case parser.VerbMotion:
		return motionOnlySpan(buf, cursor, a, vs)
	case parser.VerbGotoMark:
		p, ok := marks.Get(a.MotionArg)
		if !ok {
			return Range{}
		}
		p = buffer.Point{X: buf.SoftBeginning(p.Y), Y: p.Y}
		return Range{Start: cursor, End: p, SortedStart: cursor, SortedEnd: p, Valid: true, Cursor: p}
	case parser.VerbGotoFileBegin:
		p := buf.BeginningOfFile()
		if a.Multiplier > 1 {
			y := a.Multiplier - 1
			if y >= buf.LineCount() {
				y = buf.LineCount() - 1
			}
			p = buffer.Point{X: buf.SoftBeginning(y), Y: y}
		}
		return Range{Start: cursor, End: p, SortedStart: cursor, SortedEnd: p, Valid: true, Cursor: p}
	case parser.VerbRepeatSearchFwd, parser.VerbRepeatSearchRev, parser.VerbSearchWordForward, parser.VerbSearchWordBackward:
		return searchSpan(buf, cursor, a, vs)
	case parser.VerbRepeatFind, parser.VerbReverseFind:
		return findRepeatSpan(buf, cursor, vs, a.Verb == parser.VerbReverseFind)
	}
	return Range{Start: cursor, End: cursor, SortedStart: cursor, SortedEnd: cursor, Valid: true, Cursor: cursor}
}

// isVisualOperator reports whether a applies to the active visual
// selection as a whole; plain motions are excluded, since they move
// the selection end rather than consuming it.
func isVisualOperator(a parser.Action) bool {
	switch a.Verb {
	case parser.VerbDelete, parser.VerbChange, parser.VerbYank, parser.VerbIndent,
		parser.VerbUnindent, parser.VerbComment, parser.VerbUncomment, parser.VerbFlipCase, parser.VerbJoin:
		return true
	}
	return false
}

func visualRangeSpan(cursor, anchor buffer.Point) Range {
	s, e := buffer.Sorted(cursor, anchor)
	return Range{Start: cursor, End: anchor, SortedStart: s, SortedEnd: e, YankMode: registers.ModeNormal, Valid: true, Cursor: s}
}

func visualLineSpan(buf *buffer.Buffer, cursor, anchor buffer.Point) Range {
	s, e := buffer.Sorted(cursor, anchor)
	s.X = 0
	e.X = buf.EndOfLine(e.Y)
	return Range{Start: s, End: e, SortedStart: s, SortedEnd: e, YankMode: registers.ModeLine, Valid: true, Cursor: buffer.Point{X: 0, Y: s.Y}}
}

// linewiseSpan builds the span for dd/yy/cc/>>/<</J/S across count
// lines starting at cursor.Y.
func linewiseSpan(buf *buffer.Buffer, cursor buffer.Point, count int) Range {
	if count < 1 {
		count = 1
	}
	startY := cursor.Y
	endY := startY + count - 1
	if endY >= buf.LineCount() {
		endY = buf.LineCount() - 1
	}
	start := buffer.Point{X: 0, Y: startY}
	end := buffer.Point{X: buf.EndOfLine(endY), Y: endY}
	return Range{Start: start, End: end, SortedStart: start, SortedEnd: end, YankMode: registers.ModeLine, Valid: true, Cursor: buffer.Point{X: 0, Y: startY}}
}

// motionOnlySpan resolves a bare motion (no operator), used to move the
// cursor or, in visual mode, extend the selection. The motion repeats
// count times; "G" with an explicit count jumps to that 1-based line
// instead of file end.
func motionOnlySpan(buf *buffer.Buffer, cursor buffer.Point, a parser.Action, vs *vimstate.State) Range {
	if a.Motion == parser.MotionFileEnd && a.Multiplier > 0 {
		y := a.Multiplier - 1
		if y >= buf.LineCount() {
			y = buf.LineCount() - 1
		}
		dest := buffer.Point{X: buf.SoftBeginning(y), Y: y}
		s, e := buffer.Sorted(cursor, dest)
		return Range{Start: cursor, End: dest, SortedStart: s, SortedEnd: e, Valid: true, Cursor: dest}
	}
	dest := cursor
	ok := true
	for i := 0; i < a.Count(); i++ {
		dest, ok = motionDestination(buf, dest, a, vs)
		if !ok {
			return Range{Start: cursor, End: cursor, SortedStart: cursor, SortedEnd: cursor, Valid: false, Cursor: cursor}
		}
	}
	s, e := buffer.Sorted(cursor, dest)
	return Range{Start: cursor, End: dest, SortedStart: s, SortedEnd: e, Valid: true, Cursor: dest}
}

// motionOperandSpan resolves an operator (d/c/y/>/</gc/gu) applied to
// a motion operand, applying the word-motion-exclusion and
// end-before-start trimming rules below.
func motionOperandSpan(buf *buffer.Buffer, cursor buffer.Point, a parser.Action, vs *vimstate.State) Range {
	if a.Motion == parser.MotionTextObjectInner || a.Motion == parser.MotionTextObjectAround {
		return textObjectSpan(buf, cursor, a)
	}

	count := a.Count()

	// "cw" on a non-blank character behaves like "ce": the change stops
	// at the end of the word, leaving any trailing whitespace alone.
	if a.Verb == parser.VerbChange && (a.Motion == parser.MotionWordNext || a.Motion == parser.MotionWordNextBig) {
		if ch, ok := buf.Get(cursor); ok && ch != ' ' && ch != '\t' {
			big := a.Motion == parser.MotionWordNextBig
			dest := cursor
			for i := 0; i < count; i++ {
				dest = buf.WordEnd(dest, big)
			}
			if dest.Y != cursor.Y {
				dest = buffer.Point{X: buf.EndOfLine(cursor.Y) - 1, Y: cursor.Y}
			}
			end := buffer.Point{X: dest.X + 1, Y: dest.Y}
			s, e := buffer.Sorted(cursor, end)
			return Range{Start: cursor, End: end, SortedStart: s, SortedEnd: e, YankMode: registers.ModeNormal, Valid: true, Cursor: s}
		}
	}
	dest := cursor
	ok := true
	for i := 0; i < count; i++ {
		dest, ok = motionDestination(buf, dest, parser.Action{Verb: parser.VerbMotion, Motion: a.Motion, MotionArg: a.MotionArg}, vs)
		if !ok {
			break
		}
	}
	if !ok {
		return Range{Valid: false}
	}

	start, end := cursor, dest
	switch a.Motion {
	case parser.MotionWordNext, parser.MotionWordNextBig:
		// do not include the next word's first character, and do not
		// span into the next line.
		if dest.Y != cursor.Y {
			end = buffer.Point{X: buf.EndOfLine(cursor.Y), Y: cursor.Y}
		}
	case parser.MotionTillForward:
		end = buffer.Point{X: dest.X + 1, Y: dest.Y}
	case parser.MotionTillBackward:
		end = dest
	case parser.MotionFindForward:
		end = buffer.Point{X: dest.X + 1, Y: dest.Y}
	case parser.MotionLineEnd:
		end = buffer.Point{X: buf.EndOfLine(dest.Y), Y: dest.Y}
	}

	s, e := buffer.Sorted(start, end)
	if e.Less(s) || e == s {
		// degenerate/backwards: trim so the character under the cursor
		// is excluded.
		s, e = cursor, cursor
	}
	return Range{Start: start, End: end, SortedStart: s, SortedEnd: e, YankMode: registers.ModeNormal, Valid: true, Cursor: s}
}

// motionDestination resolves a single motion step to a destination
// Point, or false if the motion cannot be performed (e.g. find-char
// miss).
func motionDestination(buf *buffer.Buffer, cursor buffer.Point, a parser.Action, vs *vimstate.State) (buffer.Point, bool) {
	switch a.Motion {
	case parser.MotionLeft:
		if cursor.X == 0 {
			return cursor, true
		}
		return buffer.Point{X: cursor.X - 1, Y: cursor.Y}, true
	case parser.MotionRight:
		end := buf.EndOfLine(cursor.Y)
		if cursor.X >= end {
			return cursor, true
		}
		return buffer.Point{X: cursor.X + 1, Y: cursor.Y}, true
	case parser.MotionUp:
		if cursor.Y == 0 {
			return cursor, true
		}
		y := cursor.Y - 1
		return buffer.Point{X: clampCol(buf, y, preferredCol(buf, cursor)), Y: y}, true
	case parser.MotionDown:
		if cursor.Y >= buf.LineCount()-1 {
			return cursor, true
		}
		y := cursor.Y + 1
		return buffer.Point{X: clampCol(buf, y, preferredCol(buf, cursor)), Y: y}, true
	case parser.MotionWordNext:
		return buf.NextWordStart(cursor, false), true
	case parser.MotionWordNextBig:
		return buf.NextWordStart(cursor, true), true
	case parser.MotionWordPrev:
		return buf.PrevWordStart(cursor, false), true
	case parser.MotionWordPrevBig:
		return buf.PrevWordStart(cursor, true), true
	case parser.MotionWordEnd:
		return buf.WordEnd(cursor, false), true
	case parser.MotionWordEndBig:
		return buf.WordEnd(cursor, true), true
	case parser.MotionLineHardBegin:
		return buffer.Point{X: 0, Y: cursor.Y}, true
	case parser.MotionLineSoftBegin:
		return buffer.Point{X: buf.SoftBeginning(cursor.Y), Y: cursor.Y}, true
	case parser.MotionLineEnd:
		end := buf.EndOfLine(cursor.Y)
		if end > 0 {
			end--
		}
		return buffer.Point{X: end, Y: cursor.Y}, true
	case parser.MotionFileBegin:
		return buf.BeginningOfFile(), true
	case parser.MotionFileEnd:
		return buf.EndOfFile(), true
	case parser.MotionParaNext, parser.MotionParaPrev:
		return paragraphMotion(buf, cursor, a.Motion == parser.MotionParaNext), true
	case parser.MotionMatchPair:
		p, ok := buf.MatchingPair(cursor)
		if !ok {
			return cursor, false
		}
		return p, true
	case parser.MotionFindForward:
		return buf.FindCharForward(cursor, a.MotionArg)
	case parser.MotionFindBackward:
		return buf.FindCharBackward(cursor, a.MotionArg)
	case parser.MotionTillForward:
		p, ok := buf.FindCharForward(cursor, a.MotionArg)
		if !ok || p.X == 0 {
			return cursor, ok && p.X != 0
		}
		return buffer.Point{X: p.X - 1, Y: p.Y}, true
	case parser.MotionTillBackward:
		p, ok := buf.FindCharBackward(cursor, a.MotionArg)
		if !ok {
			return cursor, false
		}
		return buffer.Point{X: p.X + 1, Y: p.Y}, true
	}
	return cursor, false
}

func preferredCol(buf *buffer.Buffer, cursor buffer.Point) int {
	if buf.PreferredColumn > cursor.X {
		return buf.PreferredColumn
	}
	return cursor.X
}

func clampCol(buf *buffer.Buffer, y, col int) int {
	end := buf.EndOfLine(y)
	if end > 0 {
		end--
	}
	if col > end {
		return end
	}
	if col < 0 {
		return 0
	}
	return col
}

func paragraphMotion(buf *buffer.Buffer, cursor buffer.Point, forward bool) buffer.Point {
	y := cursor.Y
	if forward {
		for y++; y < buf.LineCount(); y++ {
			if line, _ := buf.Line(y); line == "" {
				return buffer.Point{X: 0, Y: y}
			}
		}
		return buf.EndOfFile()
	}
	for y--; y >= 0; y-- {
		if line, _ := buf.Line(y); line == "" {
			return buffer.Point{X: 0, Y: y}
		}
	}
	return buffer.Point{X: 0, Y: 0}
}

// textObjectSpan resolves an i<pair>/a<pair> text object.
func textObjectSpan(buf *buffer.Buffer, cursor buffer.Point, a parser.Action) Range {
	inner := a.Motion == parser.MotionTextObjectInner
	switch a.MotionArg {
	case 'w', 'W':
		return wordObjectSpan(buf, cursor, a.MotionArg == 'W', inner)
	case '"', '\'':
		return quoteObjectSpan(buf, cursor, a.MotionArg, inner)
	case '(', ')':
		return pairObjectSpan(buf, cursor, '(', ')', inner)
	case '[', ']':
		return pairObjectSpan(buf, cursor, '[', ']', inner)
	case '{', '}':
		return pairObjectSpan(buf, cursor, '{', '}', inner)
	}
	return Range{Valid: false}
}

func wordObjectSpan(buf *buffer.Buffer, cursor buffer.Point, big, inner bool) Range {
	start := buf.PrevWordStart(buffer.Point{X: cursor.X + 1, Y: cursor.Y}, big)
	if start.Y != cursor.Y || start.X > cursor.X {
		start = buffer.Point{X: 0, Y: cursor.Y}
	}
	end := buf.WordEnd(cursor, big)
	end.X++
	if !inner {
		// around: swallow trailing whitespace
		line, _ := buf.Line(end.Y)
		runes := []rune(line)
		for end.X < len(runes) && (runes[end.X] == ' ' || runes[end.X] == '\t') {
			end.X++
		}
	}
	return Range{Start: start, End: end, SortedStart: start, SortedEnd: end, Valid: true, Cursor: start}
}

// quoteObjectSpan resolves i"/a" etc. using a "homogeneous adjacents"
// rule: extend left/right over non-delimiter characters on the same
// line to find the enclosing pair.
func quoteObjectSpan(buf *buffer.Buffer, cursor buffer.Point, q rune, inner bool) Range {
	line, ok := buf.Line(cursor.Y)
	if !ok {
		return Range{Valid: false}
	}
	runes := []rune(line)
	left, right := -1, -1
	for i := cursor.X; i >= 0; i-- {
		if i < len(runes) && runes[i] == q {
			left = i
			break
		}
	}
	if left == -1 {
		return Range{Valid: false}
	}
	for i := left + 1; i < len(runes); i++ {
		if runes[i] == q {
			right = i
			break
		}
	}
	if right == -1 {
		return Range{Valid: false}
	}
	start, end := left, right+1
	if inner {
		start, end = left+1, right
	}
	s := buffer.Point{X: start, Y: cursor.Y}
	e := buffer.Point{X: end, Y: cursor.Y}
	return Range{Start: s, End: e, SortedStart: s, SortedEnd: e, Valid: true, Cursor: s}
}

func pairObjectSpan(buf *buffer.Buffer, cursor buffer.Point, open, close rune, inner bool) Range {
	openP, closeP, ok := enclosingPair(buf, cursor, open, close)
	if !ok {
		return Range{Valid: false}
	}
	start, end := openP, closeP
	end.X++
	if inner {
		start.X++
		if start.X > buf.EndOfLine(start.Y) {
			start = buffer.Point{X: 0, Y: start.Y + 1}
		}
		end = closeP
	}
	return Range{Start: start, End: end, SortedStart: start, SortedEnd: end, Valid: true, Cursor: start}
}

func enclosingPair(buf *buffer.Buffer, cursor buffer.Point, open, close rune) (buffer.Point, buffer.Point, bool) {
	ch, _ := buf.Get(cursor)
	if ch == open {
		if m, ok := buf.MatchingPair(cursor); ok {
			return cursor, m, true
		}
		return buffer.Point{}, buffer.Point{}, false
	}
	if ch == close {
		if m, ok := buf.MatchingPair(cursor); ok {
			return m, cursor, true
		}
		return buffer.Point{}, buffer.Point{}, false
	}
	depth := 0
	y, x := cursor.Y, cursor.X
	for y >= 0 {
		line, _ := buf.Line(y)
		runes := []rune(line)
		if x >= len(runes) {
			x = len(runes) - 1
		}
		for ; x >= 0; x-- {
			switch runes[x] {
			case close:
				depth++
			case open:
				if depth == 0 {
					openP := buffer.Point{X: x, Y: y}
					if m, ok := buf.MatchingPair(openP); ok {
						return openP, m, true
					}
					return buffer.Point{}, buffer.Point{}, false
				}
				depth--
			}
		}
		y--
		if y >= 0 {
			line, _ = buf.Line(y)
			x = len([]rune(line)) - 1
		}
	}
	return buffer.Point{}, buffer.Point{}, false
}

// WordUnderCursor returns the little-word under cursor and its bounds,
// used by */# to build a word-boundary search regex.
func WordUnderCursor(buf *buffer.Buffer, cursor buffer.Point) (string, bool) {
	line, ok := buf.Line(cursor.Y)
	if !ok {
		return "", false
	}
	runes := []rune(line)
	if cursor.X >= len(runes) {
		return "", false
	}
	start, end := cursor.X, cursor.X
	isWord := func(r rune) bool {
		return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
	}
	if !isWord(runes[start]) {
		return "", false
	}
	for start > 0 && isWord(runes[start-1]) {
		start--
	}
	for end+1 < len(runes) && isWord(runes[end+1]) {
		end++
	}
	return string(runes[start : end+1]), true
}

func searchSpan(buf *buffer.Buffer, cursor buffer.Point, a parser.Action, vs *vimstate.State) Range {
	var re *regexp.Regexp
	dir := vs.Search.Dir

	switch a.Verb {
	case parser.VerbSearchWordForward, parser.VerbSearchWordBackward:
		word, ok := WordUnderCursor(buf, cursor)
		if !ok {
			return Range{Valid: false}
		}
		pattern := fmt.Sprintf(`\b%s\b`, regexp.QuoteMeta(word))
		compiled, err := regexp.Compile(pattern)
		if err != nil {
			return Range{Valid: false}
		}
		re = compiled
		vs.Search = vimstate.SearchState{Pattern: pattern, Regex: re}
		if a.Verb == parser.VerbSearchWordForward {
			dir = vimstate.Forward
		} else {
			dir = vimstate.Backward
		}
		vs.Search.Dir = dir
	case parser.VerbRepeatSearchFwd:
		if vs.Search.Regex == nil {
			return Range{Valid: false}
		}
		re = vs.Search.Regex
	case parser.VerbRepeatSearchRev:
		if vs.Search.Regex == nil {
			return Range{Valid: false}
		}
		re = vs.Search.Regex
		if dir == vimstate.Forward {
			dir = vimstate.Backward
		} else {
			dir = vimstate.Forward
		}
	}

	var dest buffer.Point
	var ok bool
	if dir == vimstate.Forward {
		dest, ok = buf.SearchForward(cursor, re)
	} else {
		dest, ok = buf.SearchBackward(cursor, re)
	}
	if !ok {
		return Range{Valid: false}
	}
	s, e := buffer.Sorted(cursor, dest)
	return Range{Start: cursor, End: dest, SortedStart: s, SortedEnd: e, Valid: true, Cursor: dest}
}

func findRepeatSpan(buf *buffer.Buffer, cursor buffer.Point, vs *vimstate.State, reverse bool) Range {
	if !vs.FindChar.Valid {
		return Range{Valid: false}
	}
	dir := vs.FindChar.Dir
	till := vs.FindChar.Till
	ch := vs.FindChar.Char
	if reverse {
		if dir == vimstate.Forward {
			dir = vimstate.Backward
		} else {
			dir = vimstate.Forward
		}
	}

	var dest buffer.Point
	var ok bool
	if dir == vimstate.Forward {
		dest, ok = buf.FindCharForward(cursor, ch)
	} else {
		dest, ok = buf.FindCharBackward(cursor, ch)
	}
	if !ok {
		return Range{Valid: false}
	}
	if till {
		if dir == vimstate.Forward && dest.X > 0 {
			dest.X--
		} else if dir == vimstate.Backward {
			dest.X++
		}
	}
	s, e := buffer.Sorted(cursor, dest)
	return Range{Start: cursor, End: dest, SortedStart: s, SortedEnd: e, Valid: true, Cursor: dest}
}
