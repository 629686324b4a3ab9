package buffer

import "regexp"

func isIdentRune(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func isSpaceRune(r rune) bool {
	return r == ' ' || r == '\t'
}

type charClass int

const (
	classSpace charClass = iota
	classIdent
	classPunct
)

func classOf(r rune, big bool) charClass {
	if isSpaceRune(r) {
		return classSpace
	}
	if big {
		return classIdent
	}
	if isIdentRune(r) {
		return classIdent
	}
	return classPunct
}

// NextWordStart returns the start of the next little/big word after p.
// It crosses line boundaries onto the first word of a later line,
// stopping at (0, y) on an empty line. On the last line with no
// following word it returns the end of that line.
func (b *Buffer) NextWordStart(p Point, big bool) Point {
	y, x := p.Y, p.X
	line := []rune(b.mustLine(y))
	if x >= len(line) {
		if y+1 >= b.LineCount() {
			return p
		}
		return Point{0, y + 1}
	}
	start := classOf(line[x], big)
	// advance through the current run
	for x < len(line) && classOf(line[x], big) == start {
		x++
	}
	for {
		if x >= len(line) {
			if y+1 >= b.LineCount() {
				return Point{len(line), y}
			}
			y++
			line = []rune(b.mustLine(y))
			x = 0
			if len(line) == 0 {
				return Point{0, y}
			}
			continue
		}
		if classOf(line[x], big) != classSpace {
			return Point{x, y}
		}
		x++
	}
}

// PrevWordStart returns the start of the word before p.
func (b *Buffer) PrevWordStart(p Point, big bool) Point {
	y, x := p.Y, p.X
	line := []rune(b.mustLine(y))
	for {
		if x == 0 {
			if y == 0 {
				return Point{0, 0}
			}
			y--
			line = []rune(b.mustLine(y))
			x = len(line)
			continue
		}
		x--
		if x < len(line) && classOf(line[x], big) != classSpace {
			break
		}
	}
	cls := classOf(line[x], big)
	for x > 0 && classOf(line[x-1], big) == cls {
		x--
	}
	return Point{x, y}
}

// WordEnd returns the end column (inclusive) of the current/next word.
func (b *Buffer) WordEnd(p Point, big bool) Point {
	y, x := p.Y, p.X
	line := []rune(b.mustLine(y))
	if x < len(line)-1 && classOf(line[x], big) == classOf(line[x+1], big) && classOf(line[x], big) != classSpace {
		x++
	} else {
		x++
		for {
			if x >= len(line) {
				if y+1 >= b.LineCount() {
					return Point{max(len(line)-1, 0), y}
				}
				y++
				line = []rune(b.mustLine(y))
				x = 0
				continue
			}
			if classOf(line[x], big) != classSpace {
				break
			}
			x++
		}
	}
	cls := classOf(line[x], big)
	for x+1 < len(line) && classOf(line[x+1], big) == cls {
		x++
	}
	return Point{x, y}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func (b *Buffer) mustLine(y int) string {
	l, _ := b.Line(y)
	return l
}

// BeginningOfFile returns (0,0).
func (b *Buffer) BeginningOfFile() Point { return Point{0, 0} }

// EndOfFile returns the soft-beginning of the last line (the "G" target).
func (b *Buffer) EndOfFile() Point {
	y := b.LineCount() - 1
	if y < 0 {
		y = 0
	}
	return Point{b.SoftBeginning(y), y}
}

// Matching pairs recognized by %.
var pairOpen = map[rune]rune{'(': ')', '[': ']', '{': '}'}
var pairClose = map[rune]rune{')': '(', ']': '[', '}': '{'}

// MatchingPair finds the matching bracket for the bracket under p,
// scanning forward for an opener or backward for a closer, respecting
// nesting depth.
func (b *Buffer) MatchingPair(p Point) (Point, bool) {
	ch, ok := b.Get(p)
	if !ok {
		return Point{}, false
	}
	if close, isOpen := pairOpen[ch]; isOpen {
		return b.scanForward(p, ch, close)
	}
	if open, isClose := pairClose[ch]; isClose {
		return b.scanBackward(p, ch, open)
	}
	return Point{}, false
}

func (b *Buffer) scanForward(p Point, open, close rune) (Point, bool) {
	depth := 0
	y, x := p.Y, p.X
	for y < b.LineCount() {
		line := []rune(b.mustLine(y))
		for x < len(line) {
			switch line[x] {
			case open:
				depth++
			case close:
				depth--
				if depth == 0 {
					return Point{x, y}, true
				}
			}
			x++
		}
		y++
		x = 0
	}
	return Point{}, false
}

func (b *Buffer) scanBackward(p Point, close, open rune) (Point, bool) {
	depth := 0
	y, x := p.Y, p.X
	for y >= 0 {
		line := []rune(b.mustLine(y))
		if x >= len(line) {
			x = len(line) - 1
		}
		for x >= 0 {
			switch line[x] {
			case close:
				depth++
			case open:
				depth--
				if depth == 0 {
					return Point{x, y}, true
				}
			}
			x--
		}
		y--
		if y >= 0 {
			line = []rune(b.mustLine(y))
			x = len(line) - 1
		}
	}
	return Point{}, false
}

// FindCharForward scans line y from x+1 for ch, returning the column,
// or (Point{}, false) if ch doesn't occur later on that line — a
// find that doesn't land leaves the caller's range cursor-only.
func (b *Buffer) FindCharForward(p Point, ch rune) (Point, bool) {
	line := []rune(b.mustLine(p.Y))
	for x := p.X + 1; x < len(line); x++ {
		if line[x] == ch {
			return Point{x, p.Y}, true
		}
	}
	return Point{}, false
}

// FindCharBackward scans line y backward from x-1 for ch.
func (b *Buffer) FindCharBackward(p Point, ch rune) (Point, bool) {
	line := []rune(b.mustLine(p.Y))
	limit := p.X - 1
	if limit > len(line)-1 {
		limit = len(line) - 1
	}
	for x := limit; x >= 0; x-- {
		if line[x] == ch {
			return Point{x, p.Y}, true
		}
	}
	return Point{}, false
}

// SearchForward searches for re starting strictly after p, scanning
// forward to the last line. It does not wrap back to the top: a
// search that reaches the end of the buffer without a match fails and
// leaves the caller's cursor untouched. Columns are rune indices, so
// the line is re-sliced rune-wise before regexp sees it and the byte
// offset of a match is converted back.
func (b *Buffer) SearchForward(p Point, re *regexp.Regexp) (Point, bool) {
	n := b.LineCount()
	for y := p.Y; y < n; y++ {
		runes := []rune(b.mustLine(y))
		start := 0
		if y == p.Y {
			start = p.X + 1
		}
		if start > len(runes) {
			continue
		}
		tail := string(runes[start:])
		loc := re.FindStringIndex(tail)
		if loc != nil {
			return Point{X: start + len([]rune(tail[:loc[0]])), Y: y}, true
		}
	}
	return Point{}, false
}

// SearchBackward searches for re ending strictly before p, scanning
// back to the first line. It does not wrap past line 0.
func (b *Buffer) SearchBackward(p Point, re *regexp.Regexp) (Point, bool) {
	for y := p.Y; y >= 0; y-- {
		runes := []rune(b.mustLine(y))
		end := len(runes)
		if y == p.Y && p.X < end {
			end = p.X
		}
		if end < 0 {
			continue
		}
		head := string(runes[:end])
		locs := re.FindAllStringIndex(head, -1)
		if len(locs) == 0 {
			continue
		}
		last := locs[len(locs)-1]
		return Point{X: len([]rune(head[:last[0]])), Y: y}, true
	}
	return Point{}, false
}
