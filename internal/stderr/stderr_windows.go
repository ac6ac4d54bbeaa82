//go:build windows

// Package stderr provides a no-op implementation for Windows, where
// the audio stack does not spray fd 2 the way ALSA does.
package stderr

import "os"

// Messages receives stderr lines captured from C libraries. Nothing is
// ever sent on Windows; it exists so callers compile unchanged.
var Messages = make(chan string, 100)

// Start is a no-op on Windows.
func Start() error {
	return nil
}

// WriteOriginal writes to stderr.
func WriteOriginal(msg string) {
	_, _ = os.Stderr.WriteString(msg)
}

// Stop is a no-op on Windows.
func Stop() {}
