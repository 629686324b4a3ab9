package main

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bmf-san/ce/internal/editor/key"
	"github.com/bmf-san/ce/internal/termio"
)

func readAll(t *testing.T, input string) []key.Key {
	t.Helper()
	r := bufio.NewReader(bytes.NewReader([]byte(input)))
	var out []key.Key
	for {
		k, err := readKey(r, 0)
		if err != nil {
			break
		}
		out = append(out, k)
	}
	return out
}

func TestReadKeyPlainRune(t *testing.T) {
	require.Equal(t, []key.Key{key.Rune('x')}, readAll(t, "x"))
}

func TestReadKeyEnterAndBackspace(t *testing.T) {
	got := readAll(t, "\r\x7f")
	require.Equal(t, []key.Key{key.Enter(), key.Backspace()}, got)
}

func TestReadKeyBareEscape(t *testing.T) {
	// nothing queued behind the ESC: readEscape must not try to peek
	// ahead and block waiting for a byte that will never come.
	restore := termio.SetPendingInputFunc(func(uintptr) (int, error) { return 0, nil })
	defer restore()

	got := readAll(t, "\x1bx")
	require.Equal(t, []key.Key{key.Escape(), key.Rune('x')}, got)
}

func TestReadKeyArrowSequences(t *testing.T) {
	// the terminal delivered the whole "ESC [ A" burst at once.
	restore := termio.SetPendingInputFunc(func(uintptr) (int, error) { return 2, nil })
	defer restore()

	got := readAll(t, "\x1b[A\x1b[B\x1b[C\x1b[D")
	require.Equal(t, []key.Key{key.Up(), key.Down(), key.Right(), key.Left()}, got)
}

func TestReadKeyCtrlLetter(t *testing.T) {
	got := readAll(t, string([]byte{0x12})) // Ctrl-R
	require.Equal(t, []key.Key{key.Ctrl('r')}, got)
}

func TestReadKeyUnicodeRune(t *testing.T) {
	got := readAll(t, "é")
	require.Equal(t, []key.Key{key.Rune('é')}, got)
}
