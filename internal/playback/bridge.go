package playback

import "time"

// Metadata is the outbound track description pushed to the OS
// media-control surface.
type Metadata struct {
	Path     string
	Title    string
	Artist   string
	Album    string
	Duration time.Duration
}

// Bridge connects the controller to an OS media-control surface.
//
// Inbound commands arrive from OS callback threads; implementations
// must only enqueue them into a bounded queue and never touch
// controller state. The controller drains the queue with Poll on every
// tick, so the controller goroutine stays the sole mutator.
// UpdateMetadata and UpdateStatus are called from the controller
// goroutine after state-changing tick work.
type Bridge interface {
	// Poll returns the next pending inbound event, if any. It never
	// blocks.
	Poll() (Event, bool)
	// UpdateMetadata publishes the current track description. A zero
	// Metadata means no current track.
	UpdateMetadata(meta Metadata)
	// UpdateStatus publishes the playback status and elapsed time.
	UpdateStatus(status Status, elapsed time.Duration)
	// UpdateVolume publishes the output volume level in [0, 1].
	UpdateVolume(level float64)
}
