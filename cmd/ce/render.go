package main

import (
	"bufio"
	"fmt"

	"github.com/bmf-san/ce/internal/editor/context"
	"github.com/bmf-san/ce/internal/editor/vimstate"
)

const (
	ansiClear    = "\x1b[2J\x1b[H"
	ansiHideCurs = "\x1b[?25l"
	ansiShowCurs = "\x1b[?25h"
)

// draw redraws the active buffer's lines followed by one status line,
// the minimum an interactive terminal session needs; there is no
// curses-like screen abstraction behind it, just a fixed sequence of
// ANSI escapes written straight to w.
func draw(w *bufio.Writer, ec *context.EditorContext) {
	bs := ec.Active()
	if bs == nil {
		return
	}

	fmt.Fprint(w, ansiHideCurs, ansiClear)
	for _, line := range bs.Buf.Lines() {
		fmt.Fprint(w, line, "\r\n")
	}

	fmt.Fprint(w, statusLine(ec, bs))

	if active, buf := ec.Searching(); active {
		fmt.Fprintf(w, "\r\n/%s", buf)
	} else if active, buf := ec.ExLine(); active {
		fmt.Fprintf(w, "\r\n:%s", buf)
	} else {
		fmt.Fprintf(w, "\x1b[%d;%dH", bs.Cursor.Y+1, bs.Cursor.X+1)
	}
	fmt.Fprint(w, ansiShowCurs)
	_ = w.Flush()
}

func statusLine(ec *context.EditorContext, bs *context.BufferState) string {
	mode := "NORMAL"
	switch ec.VS.Mode {
	case vimstate.Insert:
		mode = "INSERT"
	case vimstate.VisualRange:
		mode = "VISUAL"
	case vimstate.VisualLine:
		mode = "V-LINE"
	}
	name := bs.Buf.Name
	if name == "" {
		name = "[No Name]"
	}
	msg := ""
	if n := len(ec.Messages); n > 0 {
		msg = " " + ec.Messages[n-1]
	}
	return fmt.Sprintf("\r\n-- %s -- %s%s", mode, name, msg)
}
