// Package key provides a typed input-key type used by the modal command
// pipeline, replacing the raw int key codes of a C-style editor core.
package key

import (
	"fmt"
	"strings"
)

// Kind distinguishes a printable character key from a named special key.
type Kind int

// Key kinds recognized by the parser and macro codec.
const (
	KindRune Kind = iota
	KindEscape
	KindEnter
	KindBackspace
	KindTab
	KindUp
	KindDown
	KindLeft
	KindRight
	KindCtrl
)

// Key is one unit of an input key stream: either a printable rune or one
// of a small set of named special keys.
type Key struct {
	Kind Kind
	Rune rune // valid when Kind == KindRune or KindCtrl (the ctrl'd letter)
}

// Rune builds a printable-character Key.
func Rune(r rune) Key { return Key{Kind: KindRune, Rune: r} }

// Ctrl builds a Ctrl+letter Key (e.g. Ctrl('r') for redo).
func Ctrl(letter rune) Key { return Key{Kind: KindCtrl, Rune: letter} }

// Escape, Enter, Backspace, Tab, Up, Down, Left and Right build the
// corresponding named-key values.
func Escape() Key    { return Key{Kind: KindEscape} }
func Enter() Key     { return Key{Kind: KindEnter} }
func Backspace() Key { return Key{Kind: KindBackspace} }
func Tab() Key       { return Key{Kind: KindTab} }
func Up() Key        { return Key{Kind: KindUp} }
func Down() Key      { return Key{Kind: KindDown} }
func Left() Key      { return Key{Kind: KindLeft} }
func Right() Key     { return Key{Kind: KindRight} }

// Printable reports whether the key is a printable rune.
func (k Key) Printable() bool { return k.Kind == KindRune }

// String renders the key for display and debug output.
func (k Key) String() string {
	switch k.Kind {
	case KindRune:
		return string(k.Rune)
	case KindEscape:
		return "<Esc>"
	case KindEnter:
		return "<Enter>"
	case KindBackspace:
		return "<BS>"
	case KindTab:
		return "<Tab>"
	case KindUp:
		return "<Up>"
	case KindDown:
		return "<Down>"
	case KindLeft:
		return "<Left>"
	case KindRight:
		return "<Right>"
	case KindCtrl:
		return fmt.Sprintf("<C-%c>", k.Rune)
	default:
		return "<?>"
	}
}

// Equal reports whether two keys represent the same input unit.
func (k Key) Equal(other Key) bool {
	if k.Kind != other.Kind {
		return false
	}
	if k.Kind == KindRune || k.Kind == KindCtrl {
		return k.Rune == other.Rune
	}
	return true
}

// Seq is a sequence of keys, the unit a macro register stores and a
// recorded or played-back key stream is built from.
type Seq []Key

// String joins the keys' String forms with no separator.
func (s Seq) String() string {
	var b strings.Builder
	for _, k := range s {
		b.WriteString(k.String())
	}
	return b.String()
}

// escapeOf maps the named specials to a one-letter backslash escape,
// the only place their raw control bytes would otherwise leak into a
// saved macro register.
var escapeOf = map[Kind]byte{
	KindBackspace: 'b',
	KindEscape:    'e',
	KindEnter:     'r',
	KindTab:       't',
	KindUp:        'u',
	KindDown:      'd',
	KindLeft:      'l',
	KindRight:     'i',
}

var unescapeOf = map[byte]Key{
	'b': Backspace(),
	'e': Escape(),
	'r': Enter(),
	't': Tab(),
	'u': Up(),
	'd': Down(),
	'l': Left(),
	'i': Right(),
}

// Encode serializes a key sequence into a printable backslash-escape
// form so a macro register's keystrokes can be written out as plain
// text (to a session file, for instance) and read back unchanged.
// Ctrl keys have no escape and are left out of the output.
func Encode(seq Seq) string {
	var b strings.Builder
	for _, k := range seq {
		if k.Kind == KindRune {
			if k.Rune == '\\' {
				b.WriteString(`\\`)
				continue
			}
			b.WriteRune(k.Rune)
			continue
		}
		esc, ok := escapeOf[k.Kind]
		if !ok {
			continue
		}
		b.WriteByte('\\')
		b.WriteByte(esc)
	}
	return b.String()
}

// Decode parses the backslash-escape scheme back into a key sequence.
// Any unrecognized escape is rejected rather than silently dropped or
// passed through.
func Decode(s string) (Seq, error) {
	runes := []rune(s)
	seq := make(Seq, 0, len(runes))
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '\\' {
			seq = append(seq, Rune(r))
			continue
		}
		if i+1 >= len(runes) {
			return nil, fmt.Errorf("key: dangling escape at end of %q", s)
		}
		i++
		esc := byte(runes[i])
		if esc == '\\' {
			seq = append(seq, Rune('\\'))
			continue
		}
		k, ok := unescapeOf[esc]
		if !ok {
			return nil, fmt.Errorf("key: unrecognized escape \\%c in %q", esc, s)
		}
		seq = append(seq, k)
	}
	return seq, nil
}
