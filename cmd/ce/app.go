// Package main is the entry point for the ce editor core.
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmf-san/ce/internal/editor/buffer"
	"github.com/bmf-san/ce/internal/editor/context"
	"github.com/bmf-san/ce/internal/editor/session"
	"github.com/bmf-san/ce/internal/editor/vimstate"
	"github.com/bmf-san/ce/internal/termio"
)

// RunApp contains the main application logic, separated from main so
// it can be driven directly in tests. Positional args become buffers;
// the first is the primary view. It returns the process exit code.
func RunApp(args []string) int {
	ec := context.New()
	for _, a := range args {
		buf, err := loadBuffer(a)
		if err != nil {
			fmt.Fprintln(os.Stderr, "ce:", err)
			continue
		}
		ec.AddBuffer(buf)
	}
	if len(ec.Order()) == 0 {
		ec.AddBuffer(buffer.FromLines("", []string{""}))
	}

	home, _ := os.UserHomeDir()
	restoreSession(ec, home)

	term := termio.DefaultTerminal{}
	fd := int(os.Stdin.Fd())
	state, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintln(os.Stderr, "ce:", err)
		return 1
	}
	defer func() { _ = term.Restore(fd, state) }()

	in := bufio.NewReader(os.Stdin)
	out := bufio.NewWriter(os.Stdout)

	for {
		draw(out, ec)
		k, err := readKey(in, uintptr(fd))
		if err != nil {
			break
		}
		ec.Dispatch(k)
		if drainExCommands(ec) {
			break
		}
	}

	if home != "" {
		if err := session.Save(home, sessionState(ec)); err != nil {
			fmt.Fprintln(os.Stderr, "ce:", err)
		}
	}
	return 0
}

// displayName canonicalizes path for display, trimming the current
// working directory prefix when path lives under it.
func displayName(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	cwd, err := os.Getwd()
	if err != nil {
		return abs
	}
	rel, err := filepath.Rel(cwd, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return abs
	}
	return rel
}

// fileType returns the langreg lookup tag for path's extension.
func fileType(path string) string {
	return strings.TrimPrefix(filepath.Ext(path), ".")
}

// loadBuffer loads path as a buffer: directories are refused, a
// missing file produces an empty "new file" buffer, an existing file
// is read and split into lines.
func loadBuffer(path string) (*buffer.Buffer, error) {
	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		return nil, fmt.Errorf("%s: is a directory", path)
	}

	name := displayName(path)

	if err != nil {
		if os.IsNotExist(err) {
			buf := buffer.FromLines(name, []string{""})
			buf.Filename = path
			buf.Status = buffer.StatusNewFile
			buf.Type = fileType(path)
			return buf, nil
		}
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(string(data), "\n")
	if len(lines) > 1 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		lines = []string{""}
	}

	buf := buffer.FromLines(name, lines)
	buf.Filename = path
	buf.Type = fileType(path)
	return buf, nil
}

// writeBuffer persists bs to its Filename. A buffer opened without a
// path (the default scratch buffer) has nothing to write to.
func writeBuffer(bs *context.BufferState) error {
	if bs.Buf.Filename == "" {
		return fmt.Errorf("no file name")
	}
	data := strings.Join(bs.Buf.Lines(), "\n") + "\n"
	return os.WriteFile(bs.Buf.Filename, []byte(data), 0o644)
}

// drainExCommands applies every ExCommand context.Dispatch queued
// since the last call, returning true once the program should exit
// (the last open buffer was closed).
func drainExCommands(ec *context.EditorContext) bool {
	cmds := ec.ExCommands
	ec.ExCommands = nil

	quit := false
	for _, c := range cmds {
		bs, ok := ec.Buffer(c.Buffer)
		if !ok {
			continue
		}
		switch c.Kind {
		case context.ExWrite:
			if err := writeBuffer(bs); err != nil {
				ec.Messages = append(ec.Messages, err.Error())
			}
		case context.ExQuit:
			if closeOrQuit(ec, c.Buffer) {
				quit = true
			}
		case context.ExWriteQuit:
			if err := writeBuffer(bs); err != nil {
				ec.Messages = append(ec.Messages, err.Error())
				continue
			}
			if closeOrQuit(ec, c.Buffer) {
				quit = true
			}
		}
	}
	return quit
}

// closeOrQuit closes id, reporting that the whole program should exit
// when it was the last buffer open (context.ErrLastBuffer).
func closeOrQuit(ec *context.EditorContext, id context.BufferID) bool {
	return ec.CloseBuffer(id) != nil
}

// restoreSession applies a prior run's $HOME/.ce session file: the
// last search pattern and each open buffer's cursor line, matched by
// buffer name.
func restoreSession(ec *context.EditorContext, home string) {
	if home == "" {
		return
	}
	st, err := session.Load(home)
	if err != nil {
		return
	}
	if st.SearchPattern != "" {
		_ = ec.VS.SetSearch(st.SearchPattern, vimstate.Forward)
	}

	lineByName := make(map[string]int, len(st.Buffers))
	for _, bp := range st.Buffers {
		lineByName[bp.Name] = bp.Line
	}
	for _, id := range ec.Order() {
		bs, ok := ec.Buffer(id)
		if !ok {
			continue
		}
		if line, ok := lineByName[bs.Buf.Name]; ok {
			bs.Cursor = bs.Buf.ClampPoint(buffer.Point{X: 0, Y: line - 1})
		}
	}
}

// sessionState builds the $HOME/.ce payload to persist on exit.
func sessionState(ec *context.EditorContext) session.State {
	st := session.State{SearchPattern: ec.VS.Search.Pattern}
	for _, id := range ec.Order() {
		bs, ok := ec.Buffer(id)
		if !ok {
			continue
		}
		st.Buffers = append(st.Buffers, session.BufferPosition{Name: bs.Buf.Name, Line: bs.Cursor.Y + 1})
	}
	return st
}
