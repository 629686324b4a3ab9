// Package parser turns a key sequence into an Action. Parse is given
// the whole pending sequence and returns Invalid, Continue, or
// Complete(Action); the
// parser owns no buffer state and no mode state beyond what the
// caller passes in each call, and is prefix-deterministic: replaying
// the same key sequence up to any point always reaches the same
// Continue/Invalid/Complete verdict.
package parser

import (
	"github.com/bmf-san/ce/internal/editor/key"
	"github.com/bmf-san/ce/internal/editor/vimstate"
)

// Status is the outcome of parsing a key sequence.
type Status int

// Parser outcomes.
const (
	Invalid Status = iota
	Continue
	Complete
)

// Verb is the change part of an Action.
type Verb int

// Verbs recognized by the grammar.
const (
	VerbMotion Verb = iota
	VerbDelete
	VerbChange
	VerbYank
	VerbReplaceChar
	VerbPasteAfter
	VerbPasteBefore
	VerbIndent
	VerbUnindent
	VerbFlipCase
	VerbJoin
	VerbOpenBelow
	VerbOpenAbove
	VerbSetMark
	VerbGotoMark
	VerbToggleRecord
	VerbPlayMacro
	VerbComment
	VerbUncomment
	VerbGotoFileBegin
	VerbSearchWordForward
	VerbSearchWordBackward
	VerbRepeatSearchFwd
	VerbRepeatSearchRev
	VerbRepeatFind
	VerbReverseFind
	VerbEnterInsertBefore  // i
	VerbEnterInsertAfter   // a
	VerbEnterInsertLineEnd // A
	VerbEnterInsertLineBeg // I
	VerbSubstituteChar     // s
	VerbSubstituteLine     // S
	VerbVisualToggleRange  // v
	VerbVisualToggleLine   // V
	VerbVisualSwap         // o while in visual
	VerbUndo
	VerbRedo
	VerbRepeatLast // .
	VerbSearch     // / or ?
	VerbEscape     // leave Insert/Visual
)

// MotionKind is the motion part of an Action.
type MotionKind int

// Motions recognized by the grammar.
const (
	MotionNone MotionKind = iota
	MotionLeft
	MotionDown
	MotionUp
	MotionRight
	MotionWordNext
	MotionWordNextBig
	MotionWordPrev
	MotionWordPrevBig
	MotionWordEnd
	MotionWordEndBig
	MotionLineHardBegin
	MotionLineSoftBegin
	MotionLineEnd
	MotionFileBegin
	MotionFileEnd // G
	MotionParaNext
	MotionParaPrev
	MotionMatchPair
	MotionFindForward  // f
	MotionFindBackward // F
	MotionTillForward  // t
	MotionTillBackward // T
	MotionGotoMarkLine
	MotionTextObjectInner
	MotionTextObjectAround
	MotionSelf // Insert-mode key passed through to the executor as typed text
	MotionLine // linewise operator (dd/yy/cc/>>/<</J target)
)

// Action is a fully parsed editing intent (the grammar's terminal).
type Action struct {
	Multiplier int  // action-multiplier (default 1)
	Register   rune // 0 if none supplied
	Verb       Verb
	Motion     MotionKind
	MotionArg  rune // f/F/t/T/'/`/m char, r replacement char, text-object pair char
	MotionMult int  // motion-multiplier (default 1)
	Keys       key.Seq
}

// Count returns the total repetition: action-multiplier * motion-multiplier.
func (a Action) Count() int {
	n := a.Multiplier
	if n < 1 {
		n = 1
	}
	m := a.MotionMult
	if m < 1 {
		m = 1
	}
	return n * m
}

// Result is the outcome of a Parse call.
type Result struct {
	Status Status
	Action Action
}

type cursor struct {
	keys []key.Key
	pos  int
}

func (c *cursor) done() bool { return c.pos >= len(c.keys) }
func (c *cursor) peek() key.Key {
	if c.done() {
		return key.Key{}
	}
	return c.keys[c.pos]
}
func (c *cursor) next() key.Key {
	k := c.peek()
	c.pos++
	return k
}

func isDigit(k key.Key) bool {
	return k.Kind == key.KindRune && k.Rune >= '0' && k.Rune <= '9'
}

// parseCount reads a decimal multiplier. A leading '0' is never
// consumed as part of a count, since a bare '0' is its own motion
// (hard beginning-of-line), not the start of a repeat count.
func parseCount(c *cursor) (n int, consumed bool) {
	if c.done() || !isDigit(c.peek()) || c.peek().Rune == '0' {
		return 0, false
	}
	n = 0
	for !c.done() && isDigit(c.peek()) {
		n = n*10 + int(c.peek().Rune-'0')
		c.next()
		consumed = true
	}
	return n, consumed
}

// Parse parses keys as far as the grammar allows, given the current
// mode (used for Insert-mode pass-through and visual-mode operators).
// It never mutates the input.
func Parse(keys key.Seq, mode vimstate.Mode) Result {
	if len(keys) == 0 {
		return Result{Status: Continue}
	}
	if mode == vimstate.Insert {
		return parseInsert(keys)
	}
	c := &cursor{keys: keys}

	actionMult, _ := parseCount(c)
	if c.done() {
		return Result{Status: Continue}
	}

	register := rune(0)
	if c.peek().Kind == key.KindRune && c.peek().Rune == '"' {
		c.next()
		if c.done() {
			return Result{Status: Continue}
		}
		rk := c.next()
		if rk.Kind != key.KindRune {
			return Result{Status: Invalid}
		}
		register = rk.Rune
		if c.done() {
			return Result{Status: Continue}
		}
	}

	if c.peek().Kind == key.KindEscape {
		c.next()
		return Result{Status: Complete, Action: Action{Verb: VerbEscape, Keys: cloneKeys(keys)}}
	}

	// In a visual mode the selection itself is the operand, so operator
	// keys complete immediately instead of waiting for a motion; keys
	// without a visual meaning fall through to ordinary parsing and
	// move the selection end.
	if mode == vimstate.VisualRange || mode == vimstate.VisualLine {
		if r, handled := parseVisualVerb(c, actionMult, register, keys); handled {
			return r
		}
	}

	return parseVerb(c, actionMult, register, keys)
}

// parseVisualVerb intercepts the keys whose meaning changes inside a
// visual selection: operators apply to the selection at once, and 'o'
// swaps cursor and anchor. The second return value reports whether the
// key was intercepted at all.
func parseVisualVerb(c *cursor, actionMult int, register rune, all key.Seq) (Result, bool) {
	k := c.peek()
	if k.Kind != key.KindRune {
		return Result{}, false
	}
	visualComplete := func(verb Verb) (Result, bool) {
		c.next()
		return Result{Status: Complete, Action: Action{Multiplier: actionMult, Register: register, Verb: verb, Keys: cloneKeys(all)}}, true
	}
	switch k.Rune {
	case 'o':
		return visualComplete(VerbVisualSwap)
	case 'd', 'x':
		return visualComplete(VerbDelete)
	case 'c', 's':
		return visualComplete(VerbChange)
	case 'y':
		return visualComplete(VerbYank)
	case '>':
		return visualComplete(VerbIndent)
	case '<':
		return visualComplete(VerbUnindent)
	case '~':
		return visualComplete(VerbFlipCase)
	case 'J':
		return visualComplete(VerbJoin)
	case 'g':
		c.next()
		if c.done() {
			return Result{Status: Continue}, true
		}
		gk := c.next()
		if gk.Kind == key.KindRune && gk.Rune == 'c' {
			return Result{Status: Complete, Action: Action{Multiplier: actionMult, Register: register, Verb: VerbComment, Keys: cloneKeys(all)}}, true
		}
		if gk.Kind == key.KindRune && gk.Rune == 'u' {
			return Result{Status: Complete, Action: Action{Multiplier: actionMult, Register: register, Verb: VerbUncomment, Keys: cloneKeys(all)}}, true
		}
		if gk.Kind == key.KindRune && gk.Rune == 'g' {
			return Result{Status: Complete, Action: Action{Multiplier: actionMult, Register: register, Verb: VerbGotoFileBegin, Keys: cloneKeys(all)}}, true
		}
		return Result{Status: Invalid}, true
	}
	return Result{}, false
}

func cloneKeys(keys key.Seq) key.Seq {
	out := make(key.Seq, len(keys))
	copy(out, keys)
	return out
}

func parseInsert(keys key.Seq) Result {
	k := keys[0]
	if k.Kind == key.KindEscape {
		return Result{Status: Complete, Action: Action{Verb: VerbEscape, Keys: cloneKeys(keys)}}
	}
	// Every other key in Insert mode is handled by the executor directly
	// (plain text insertion); the parser reports it complete, one key
	// at a time, carrying the raw key through for replay.
	return Result{Status: Complete, Action: Action{Verb: VerbMotion, Motion: MotionSelf, Keys: cloneKeys(keys)}}
}

// parseVerb reads the change keyword and whatever operand it takes,
// completing immediately for the keys whose Action needs no further
// operand.
func parseVerb(c *cursor, actionMult int, register rune, all key.Seq) Result {
	if c.done() {
		return Result{Status: Continue}
	}
	k := c.next()
	if k.Kind != key.KindRune {
		switch k.Kind {
		case key.KindUp:
			return finishMotion(c, actionMult, register, MotionUp, 0, all)
		case key.KindDown:
			return finishMotion(c, actionMult, register, MotionDown, 0, all)
		case key.KindLeft:
			return finishMotion(c, actionMult, register, MotionLeft, 0, all)
		case key.KindRight:
			return finishMotion(c, actionMult, register, MotionRight, 0, all)
		case key.KindCtrl:
			if k.Rune == 'r' {
				return parseCtrlR(c, actionMult, register, all)
			}
		}
		return Result{Status: Invalid}
	}

	switch k.Rune {
	case 'h':
		return finishMotion(c, actionMult, register, MotionLeft, 0, all)
	case 'j':
		return finishMotion(c, actionMult, register, MotionDown, 0, all)
	case 'k':
		return finishMotion(c, actionMult, register, MotionUp, 0, all)
	case 'l':
		return finishMotion(c, actionMult, register, MotionRight, 0, all)
	case 'w':
		return finishMotion(c, actionMult, register, MotionWordNext, 0, all)
	case 'W':
		return finishMotion(c, actionMult, register, MotionWordNextBig, 0, all)
	case 'b':
		return finishMotion(c, actionMult, register, MotionWordPrev, 0, all)
	case 'B':
		return finishMotion(c, actionMult, register, MotionWordPrevBig, 0, all)
	case 'e':
		return finishMotion(c, actionMult, register, MotionWordEnd, 0, all)
	case 'E':
		return finishMotion(c, actionMult, register, MotionWordEndBig, 0, all)
	case '0':
		return Result{Status: Complete, Action: Action{Multiplier: actionMult, Register: register, Verb: VerbMotion, Motion: MotionLineHardBegin, Keys: cloneKeys(all)}}
	case '^':
		return finishMotion(c, actionMult, register, MotionLineSoftBegin, 0, all)
	case '$':
		return finishMotion(c, actionMult, register, MotionLineEnd, 0, all)
	case '{':
		return finishMotion(c, actionMult, register, MotionParaPrev, 0, all)
	case '}':
		return finishMotion(c, actionMult, register, MotionParaNext, 0, all)
	case '%':
		return finishMotion(c, actionMult, register, MotionMatchPair, 0, all)
	case 'G':
		return Result{Status: Complete, Action: Action{Multiplier: actionMult, Register: register, Verb: VerbMotion, Motion: MotionFileEnd, Keys: cloneKeys(all)}}
	case 'g':
		return parseG(c, actionMult, register, all)
	case '*':
		return Result{Status: Complete, Action: Action{Multiplier: actionMult, Register: register, Verb: VerbSearchWordForward, Keys: cloneKeys(all)}}
	case '#':
		return Result{Status: Complete, Action: Action{Multiplier: actionMult, Register: register, Verb: VerbSearchWordBackward, Keys: cloneKeys(all)}}
	case 'n':
		return Result{Status: Complete, Action: Action{Multiplier: actionMult, Register: register, Verb: VerbRepeatSearchFwd, Keys: cloneKeys(all)}}
	case 'N':
		return Result{Status: Complete, Action: Action{Multiplier: actionMult, Register: register, Verb: VerbRepeatSearchRev, Keys: cloneKeys(all)}}
	case ';':
		return Result{Status: Complete, Action: Action{Multiplier: actionMult, Register: register, Verb: VerbRepeatFind, Keys: cloneKeys(all)}}
	case ',':
		return Result{Status: Complete, Action: Action{Multiplier: actionMult, Register: register, Verb: VerbReverseFind, Keys: cloneKeys(all)}}
	case '/':
		return Result{Status: Complete, Action: Action{Multiplier: actionMult, Register: register, Verb: VerbSearch, MotionArg: '/', Keys: cloneKeys(all)}}
	case '?':
		return Result{Status: Complete, Action: Action{Multiplier: actionMult, Register: register, Verb: VerbSearch, MotionArg: '?', Keys: cloneKeys(all)}}
	case 'f', 'F', 't', 'T':
		return parseFindChar(c, actionMult, register, k.Rune, all)
	case '\'':
		return parseMarkOperand(c, actionMult, register, MotionGotoMarkLine, all)
	case 'm':
		return parseCharOperand(c, actionMult, register, VerbSetMark, all)
	case 'd':
		return parseOperator(c, actionMult, register, VerbDelete, all)
	case 'c':
		return parseOperator(c, actionMult, register, VerbChange, all)
	case 'y':
		return parseOperator(c, actionMult, register, VerbYank, all)
	case '>':
		return parseLinewiseOrOperator(c, actionMult, register, VerbIndent, '>', all)
	case '<':
		return parseLinewiseOrOperator(c, actionMult, register, VerbUnindent, '<', all)
	case 'D':
		return Result{Status: Complete, Action: Action{Multiplier: actionMult, Register: register, Verb: VerbDelete, Motion: MotionLineEnd, Keys: cloneKeys(all)}}
	case 'C':
		return Result{Status: Complete, Action: Action{Multiplier: actionMult, Register: register, Verb: VerbChange, Motion: MotionLineEnd, Keys: cloneKeys(all)}}
	case 'Y':
		return Result{Status: Complete, Action: Action{Multiplier: actionMult, Register: register, Verb: VerbYank, Motion: MotionLine, Keys: cloneKeys(all)}}
	case 'x':
		return Result{Status: Complete, Action: Action{Multiplier: actionMult, Register: register, Verb: VerbDelete, Motion: MotionRight, Keys: cloneKeys(all)}}
	case 's':
		return Result{Status: Complete, Action: Action{Multiplier: actionMult, Register: register, Verb: VerbSubstituteChar, Motion: MotionRight, Keys: cloneKeys(all)}}
	case 'S':
		return Result{Status: Complete, Action: Action{Multiplier: actionMult, Register: register, Verb: VerbSubstituteLine, Motion: MotionLine, Keys: cloneKeys(all)}}
	case 'r':
		return parseCharOperand(c, actionMult, register, VerbReplaceChar, all)
	case 'p':
		return Result{Status: Complete, Action: Action{Multiplier: actionMult, Register: register, Verb: VerbPasteAfter, Keys: cloneKeys(all)}}
	case 'P':
		return Result{Status: Complete, Action: Action{Multiplier: actionMult, Register: register, Verb: VerbPasteBefore, Keys: cloneKeys(all)}}
	case '~':
		return Result{Status: Complete, Action: Action{Multiplier: actionMult, Register: register, Verb: VerbFlipCase, Motion: MotionRight, Keys: cloneKeys(all)}}
	case 'J':
		return Result{Status: Complete, Action: Action{Multiplier: actionMult, Register: register, Verb: VerbJoin, Keys: cloneKeys(all)}}
	case 'O':
		return Result{Status: Complete, Action: Action{Multiplier: actionMult, Register: register, Verb: VerbOpenAbove, Keys: cloneKeys(all)}}
	case 'o':
		return Result{Status: Complete, Action: Action{Multiplier: actionMult, Register: register, Verb: VerbOpenBelow, Keys: cloneKeys(all)}}
	case 'q':
		return parseToggleRecord(c, actionMult, register, all)
	case '@':
		return parseCharOperand(c, actionMult, register, VerbPlayMacro, all)
	case 'i':
		return Result{Status: Complete, Action: Action{Multiplier: actionMult, Register: register, Verb: VerbEnterInsertBefore, Keys: cloneKeys(all)}}
	case 'a':
		return Result{Status: Complete, Action: Action{Multiplier: actionMult, Register: register, Verb: VerbEnterInsertAfter, Keys: cloneKeys(all)}}
	case 'A':
		return Result{Status: Complete, Action: Action{Multiplier: actionMult, Register: register, Verb: VerbEnterInsertLineEnd, Keys: cloneKeys(all)}}
	case 'I':
		return Result{Status: Complete, Action: Action{Multiplier: actionMult, Register: register, Verb: VerbEnterInsertLineBeg, Keys: cloneKeys(all)}}
	case 'v':
		return Result{Status: Complete, Action: Action{Multiplier: actionMult, Register: register, Verb: VerbVisualToggleRange, Keys: cloneKeys(all)}}
	case 'V':
		return Result{Status: Complete, Action: Action{Multiplier: actionMult, Register: register, Verb: VerbVisualToggleLine, Keys: cloneKeys(all)}}
	case 'u':
		return Result{Status: Complete, Action: Action{Multiplier: actionMult, Register: register, Verb: VerbUndo, Keys: cloneKeys(all)}}
	case '.':
		return Result{Status: Complete, Action: Action{Multiplier: actionMult, Register: register, Verb: VerbRepeatLast, Keys: cloneKeys(all)}}
	default:
		return Result{Status: Invalid}
	}
}

func parseCtrlR(c *cursor, actionMult int, register rune, all key.Seq) Result {
	return Result{Status: Complete, Action: Action{Multiplier: actionMult, Register: register, Verb: VerbRedo, Keys: cloneKeys(all)}}
}

func parseG(c *cursor, actionMult int, register rune, all key.Seq) Result {
	if c.done() {
		return Result{Status: Continue}
	}
	k := c.next()
	if k.Kind != key.KindRune {
		return Result{Status: Invalid}
	}
	switch k.Rune {
	case 'g':
		return Result{Status: Complete, Action: Action{Multiplier: actionMult, Register: register, Verb: VerbGotoFileBegin, Keys: cloneKeys(all)}}
	case 'c':
		return parseMotionOperand(c, actionMult, register, VerbComment, all)
	case 'u':
		return parseMotionOperand(c, actionMult, register, VerbUncomment, all)
	default:
		return Result{Status: Invalid}
	}
}

func parseToggleRecord(c *cursor, actionMult int, register rune, all key.Seq) Result {
	if c.done() {
		return Result{Status: Continue}
	}
	rk := c.next()
	if rk.Kind != key.KindRune {
		return Result{Status: Invalid}
	}
	return Result{Status: Complete, Action: Action{Multiplier: actionMult, Register: register, Verb: VerbToggleRecord, MotionArg: rk.Rune, Keys: cloneKeys(all)}}
}

func parseCharOperand(c *cursor, actionMult int, register rune, verb Verb, all key.Seq) Result {
	if c.done() {
		return Result{Status: Continue}
	}
	rk := c.next()
	if rk.Kind != key.KindRune {
		return Result{Status: Invalid}
	}
	return Result{Status: Complete, Action: Action{Multiplier: actionMult, Register: register, Verb: verb, MotionArg: rk.Rune, Keys: cloneKeys(all)}}
}

func parseMarkOperand(c *cursor, actionMult int, register rune, motion MotionKind, all key.Seq) Result {
	if c.done() {
		return Result{Status: Continue}
	}
	rk := c.next()
	if rk.Kind != key.KindRune {
		return Result{Status: Invalid}
	}
	return Result{Status: Complete, Action: Action{Multiplier: actionMult, Register: register, Verb: VerbGotoMark, Motion: motion, MotionArg: rk.Rune, Keys: cloneKeys(all)}}
}

func parseFindChar(c *cursor, actionMult int, register rune, verbKey rune, all key.Seq) Result {
	if c.done() {
		return Result{Status: Continue}
	}
	rk := c.next()
	if rk.Kind != key.KindRune {
		return Result{Status: Invalid}
	}
	var m MotionKind
	switch verbKey {
	case 'f':
		m = MotionFindForward
	case 'F':
		m = MotionFindBackward
	case 't':
		m = MotionTillForward
	case 'T':
		m = MotionTillBackward
	}
	return finishMotion(c, actionMult, register, m, rk.Rune, all)
}

// finishMotion completes a plain motion Action from the motion keys
// already consumed by the caller. It reads no further keys and takes
// no motion-multiplier; it simply packages the Action.
func finishMotion(c *cursor, actionMult int, register rune, m MotionKind, arg rune, all key.Seq) Result {
	return Result{Status: Complete, Action: Action{Multiplier: actionMult, Register: register, Verb: VerbMotion, Motion: m, MotionArg: arg, Keys: cloneKeys(all)}}
}

// parseOperator parses the d/c/y family: an optional motion-multiplier,
// then a motion, or a doubled verb key for the linewise form (dd/cc/yy).
func parseOperator(c *cursor, actionMult int, register rune, verb Verb, all key.Seq) Result {
	if c.done() {
		return Result{Status: Continue}
	}
	motionMult, _ := parseCount(c)
	if c.done() {
		return Result{Status: Continue}
	}
	k := c.peek()
	// doubled verb key => linewise
	if k.Kind == key.KindRune && isDoubledVerb(verb, k.Rune) {
		c.next()
		return Result{Status: Complete, Action: Action{Multiplier: actionMult, Register: register, Verb: verb, Motion: MotionLine, MotionMult: motionMult, Keys: cloneKeys(all)}}
	}
	return parseMotionInto(c, actionMult, register, verb, motionMult, all)
}

func isDoubledVerb(verb Verb, r rune) bool {
	switch verb {
	case VerbDelete:
		return r == 'd'
	case VerbChange:
		return r == 'c'
	case VerbYank:
		return r == 'y'
	}
	return false
}

func parseLinewiseOrOperator(c *cursor, actionMult int, register rune, verb Verb, doubled rune, all key.Seq) Result {
	if c.done() {
		return Result{Status: Continue}
	}
	motionMult, _ := parseCount(c)
	if c.done() {
		return Result{Status: Continue}
	}
	k := c.peek()
	if k.Kind == key.KindRune && k.Rune == doubled {
		c.next()
		return Result{Status: Complete, Action: Action{Multiplier: actionMult, Register: register, Verb: verb, Motion: MotionLine, MotionMult: motionMult, Keys: cloneKeys(all)}}
	}
	return parseMotionInto(c, actionMult, register, verb, motionMult, all)
}

func parseMotionOperand(c *cursor, actionMult int, register rune, verb Verb, all key.Seq) Result {
	if c.done() {
		return Result{Status: Continue}
	}
	motionMult, _ := parseCount(c)
	if c.done() {
		return Result{Status: Continue}
	}
	return parseMotionInto(c, actionMult, register, verb, motionMult, all)
}

// parseMotionInto reads one motion (including text objects) as the
// operand of an operator verb.
func parseMotionInto(c *cursor, actionMult int, register rune, verb Verb, motionMult int, all key.Seq) Result {
	if c.done() {
		return Result{Status: Continue}
	}
	k := c.next()
	if k.Kind != key.KindRune {
		switch k.Kind {
		case key.KindLeft:
			return complete(actionMult, register, verb, MotionLeft, 0, motionMult, all)
		case key.KindRight:
			return complete(actionMult, register, verb, MotionRight, 0, motionMult, all)
		case key.KindUp:
			return complete(actionMult, register, verb, MotionUp, 0, motionMult, all)
		case key.KindDown:
			return complete(actionMult, register, verb, MotionDown, 0, motionMult, all)
		}
		return Result{Status: Invalid}
	}
	switch k.Rune {
	case 'h':
		return complete(actionMult, register, verb, MotionLeft, 0, motionMult, all)
	case 'j':
		return complete(actionMult, register, verb, MotionDown, 0, motionMult, all)
	case 'k':
		return complete(actionMult, register, verb, MotionUp, 0, motionMult, all)
	case 'l':
		return complete(actionMult, register, verb, MotionRight, 0, motionMult, all)
	case 'w':
		return complete(actionMult, register, verb, MotionWordNext, 0, motionMult, all)
	case 'W':
		return complete(actionMult, register, verb, MotionWordNextBig, 0, motionMult, all)
	case 'b':
		return complete(actionMult, register, verb, MotionWordPrev, 0, motionMult, all)
	case 'B':
		return complete(actionMult, register, verb, MotionWordPrevBig, 0, motionMult, all)
	case 'e':
		return complete(actionMult, register, verb, MotionWordEnd, 0, motionMult, all)
	case 'E':
		return complete(actionMult, register, verb, MotionWordEndBig, 0, motionMult, all)
	case '0':
		return complete(actionMult, register, verb, MotionLineHardBegin, 0, motionMult, all)
	case '^':
		return complete(actionMult, register, verb, MotionLineSoftBegin, 0, motionMult, all)
	case '$':
		return complete(actionMult, register, verb, MotionLineEnd, 0, motionMult, all)
	case '{':
		return complete(actionMult, register, verb, MotionParaPrev, 0, motionMult, all)
	case '}':
		return complete(actionMult, register, verb, MotionParaNext, 0, motionMult, all)
	case '%':
		return complete(actionMult, register, verb, MotionMatchPair, 0, motionMult, all)
	case 'G':
		return complete(actionMult, register, verb, MotionFileEnd, 0, motionMult, all)
	case 'f', 'F', 't', 'T':
		if c.done() {
			return Result{Status: Continue}
		}
		rk := c.next()
		if rk.Kind != key.KindRune {
			return Result{Status: Invalid}
		}
		var m MotionKind
		switch k.Rune {
		case 'f':
			m = MotionFindForward
		case 'F':
			m = MotionFindBackward
		case 't':
			m = MotionTillForward
		case 'T':
			m = MotionTillBackward
		}
		return complete(actionMult, register, verb, m, rk.Rune, motionMult, all)
	case 'i', 'a':
		if c.done() {
			return Result{Status: Continue}
		}
		objK := c.next()
		if objK.Kind != key.KindRune || !isTextObjectChar(objK.Rune) {
			return Result{Status: Invalid}
		}
		m := MotionTextObjectAround
		if k.Rune == 'i' {
			m = MotionTextObjectInner
		}
		return complete(actionMult, register, verb, m, objK.Rune, motionMult, all)
	case 'g':
		if c.done() {
			return Result{Status: Continue}
		}
		gk := c.next()
		if gk.Kind != key.KindRune || gk.Rune != 'g' {
			return Result{Status: Invalid}
		}
		return complete(actionMult, register, verb, MotionFileBegin, 0, motionMult, all)
	default:
		return Result{Status: Invalid}
	}
}

func isTextObjectChar(r rune) bool {
	switch r {
	case 'w', 'W', '"', '\'', '(', ')', '[', ']', '{', '}':
		return true
	}
	return false
}

func complete(actionMult int, register rune, verb Verb, motion MotionKind, arg rune, motionMult int, all key.Seq) Result {
	return Result{Status: Complete, Action: Action{
		Multiplier: actionMult,
		Register:   register,
		Verb:       verb,
		Motion:     motion,
		MotionArg:  arg,
		MotionMult: motionMult,
		Keys:       cloneKeys(all),
	}}
}
