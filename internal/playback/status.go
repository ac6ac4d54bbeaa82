package playback

// Status is the derived tri-state of the controller.
//
// It is computed in exactly one place (Controller.Status) from the
// playlist cursor and the output flags:
//
//	Idle:    no current track, or the output holds no source
//	Paused:  a source is in flight and the output is paused
//	Playing: a source is in flight and the output is running
//
// Idleness is defined by emptiness alone: a track that played to
// completion leaves the engine Idle regardless of the pause flag,
// which is what the UI and the media-control surface should show.
type Status int

const (
	StatusIdle Status = iota
	StatusPlaying
	StatusPaused
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "Idle"
	case StatusPlaying:
		return "Playing"
	case StatusPaused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// IsActive returns true if a track is in flight (playing or paused).
func (s Status) IsActive() bool {
	return s == StatusPlaying || s == StatusPaused
}
