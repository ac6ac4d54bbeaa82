package playback

import (
	"time"

	"github.com/llehouerou/kanta/internal/player"
)

// Output is the audio output the controller drives. The player
// package's speaker-backed Output is the production implementation;
// tests substitute a fake.
type Output interface {
	Play()
	Pause()
	IsPaused() bool
	IsEmpty() bool
	Enqueue(src player.Source) error
	SkipCurrent()
	Volume() float64
	SetVolume(level float64)
	Position() time.Duration
	Seek(pos time.Duration) error
}

// Verify the speaker-backed output satisfies the contract at compile
// time.
var _ Output = (*player.Output)(nil)

// DecodeFunc turns a file path into a playable source.
type DecodeFunc func(path string) (player.Source, error)
