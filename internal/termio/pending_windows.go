//go:build windows

package termio

// pendingInput always reports nothing queued on Windows: the console
// API doesn't expose a POSIX-style poll, so the ESC-vs-arrow-key
// disambiguation in the key reader falls back to treating every ESC
// as a standalone Escape here.
func pendingInput(uintptr) (int, error) {
	return 0, nil
}
