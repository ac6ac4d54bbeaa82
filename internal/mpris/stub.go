//go:build !linux

package mpris

import (
	"time"

	"github.com/llehouerou/kanta/internal/playback"
)

// Bridge is a no-op on platforms without D-Bus.
type Bridge struct{}

var _ playback.Bridge = (*Bridge)(nil)

// New returns a no-op bridge on non-Linux platforms.
func New() (*Bridge, error) {
	return &Bridge{}, nil
}

// Poll never has pending events on non-Linux platforms.
func (b *Bridge) Poll() (playback.Event, bool) {
	return playback.Event{}, false
}

// UpdateMetadata is a no-op on non-Linux platforms.
func (b *Bridge) UpdateMetadata(_ playback.Metadata) {}

// UpdateStatus is a no-op on non-Linux platforms.
func (b *Bridge) UpdateStatus(_ playback.Status, _ time.Duration) {}

// UpdateVolume is a no-op on non-Linux platforms.
func (b *Bridge) UpdateVolume(_ float64) {}

// Close is a no-op on non-Linux platforms.
func (b *Bridge) Close() error {
	return nil
}
