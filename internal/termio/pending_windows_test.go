//go:build windows

package termio

import "testing"

// On Windows PendingInput always reports nothing queued, so
// readEscape treats every ESC byte as a bare Escape.
func TestPendingInputStub(t *testing.T) {
	n, err := PendingInput(0)
	if err != nil {
		t.Fatalf("PendingInput returned error: %v", err)
	}
	if n != 0 {
		t.Fatalf("PendingInput returned %d, want 0", n)
	}
}
