package main

import (
	"bufio"

	"github.com/bmf-san/ce/internal/editor/key"
	"github.com/bmf-san/ce/internal/termio"
)

// readKey decodes one input unit from fd/r: plain bytes become a
// rune, C0 control bytes become the named specials the parser
// expects, and ESC '[' sequences are decoded into arrow keys.
func readKey(r *bufio.Reader, fd uintptr) (key.Key, error) {
	b, err := r.ReadByte()
	if err != nil {
		return key.Key{}, err
	}

	switch b {
	case 0x1b:
		return readEscape(r, fd), nil
	case '\r', '\n':
		return key.Enter(), nil
	case 0x7f, 0x08:
		return key.Backspace(), nil
	case '\t':
		return key.Tab(), nil
	}
	if b > 0 && b < 0x20 {
		return key.Ctrl(rune(b) + 'a' - 1), nil
	}
	if b < 0x80 {
		return key.Rune(rune(b)), nil
	}

	if uerr := r.UnreadByte(); uerr != nil {
		return key.Rune(rune(b)), nil
	}
	ch, _, rerr := r.ReadRune()
	if rerr != nil {
		return key.Rune(rune(b)), nil
	}
	return key.Rune(ch), nil
}

// readEscape consumes the remainder of an ESC-prefixed sequence. A
// terminal sends a standalone Escape keypress as a lone 0x1b with
// nothing following it, and an arrow/function key as 0x1b '[' ... all
// arriving in the same burst; the only way to tell them apart without
// hanging on a Peek that would otherwise block for the next keystroke
// is to check whether a byte is already waiting. When none is,
// readEscape returns Escape immediately; otherwise it reads ahead and
// decodes "ESC [ <params> <final>" into the four arrow keys, folding
// anything else back to a bare Escape.
func readEscape(r *bufio.Reader, fd uintptr) key.Key {
	if n, err := termio.PendingInput(fd); err != nil || n == 0 {
		return key.Escape()
	}
	peek, err := r.Peek(1)
	if err != nil || peek[0] != '[' {
		return key.Escape()
	}
	_, _ = r.ReadByte()

	for {
		nb, err := r.ReadByte()
		if err != nil {
			return key.Escape()
		}
		switch nb {
		case 'A':
			return key.Up()
		case 'B':
			return key.Down()
		case 'C':
			return key.Right()
		case 'D':
			return key.Left()
		}
		if nb == ';' || (nb >= '0' && nb <= '9') {
			continue
		}
		return key.Escape()
	}
}
