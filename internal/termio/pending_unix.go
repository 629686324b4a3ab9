//go:build !windows

package termio

import "golang.org/x/sys/unix"

// pendingInput reports the number of bytes queued on fd without
// blocking: an escape sequence arrives as one burst, so the count
// right after an ESC byte is what distinguishes a standalone Escape
// keypress from the start of an arrow-key sequence.
func pendingInput(fd uintptr) (int, error) {
	n, err := unix.IoctlGetInt(int(fd), unix.TIOCINQ)
	if err != nil {
		return 0, err
	}
	return n, nil
}
