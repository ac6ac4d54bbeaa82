package playback

import "time"

// EventKind enumerates the inbound media-control commands.
type EventKind int

const (
	EventPlay EventKind = iota
	EventPause
	EventNext
	EventPrevious
	EventSetVolume
	EventSetPosition
	EventSeekRelative
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventPlay:
		return "Play"
	case EventPause:
		return "Pause"
	case EventNext:
		return "Next"
	case EventPrevious:
		return "Previous"
	case EventSetVolume:
		return "SetVolume"
	case EventSetPosition:
		return "SetPosition"
	case EventSeekRelative:
		return "SeekRelative"
	default:
		return "Unknown"
	}
}

// SeekDirection is the direction of a relative seek.
type SeekDirection int

const (
	SeekForward SeekDirection = iota
	SeekBackward
)

// Event is one inbound media-control command. Only the fields relevant
// to the Kind are set.
type Event struct {
	Kind      EventKind
	Volume    float64       // EventSetVolume, in [0, 1]
	Position  time.Duration // EventSetPosition
	Direction SeekDirection // EventSeekRelative
	Offset    time.Duration // EventSeekRelative
}
