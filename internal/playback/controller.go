// Package playback owns the playlist cursor and coordinates the audio
// output, the decoder, and the OS media-control bridge.
package playback

import (
	"time"

	"github.com/llehouerou/kanta/internal/playlist"
)

// Controller is the playback state machine. It owns the playlist and
// the output handle, maps navigation onto pause-preserving source
// swaps, and reconciles inbound media-control commands with outbound
// state reporting.
//
// The controller is single-threaded by design: every method, including
// Tick, must be called from the same goroutine (the UI event loop).
// The bridge's producer threads only enqueue; Tick is the sole
// consumer. No locks needed.
type Controller struct {
	queue  *playlist.Playlist
	out    Output
	bridge Bridge // may be nil when no media-control surface exists
	decode DecodeFunc
	load   func(path string) (playlist.Track, error)

	// lastMetaPath deduplicates outbound metadata pushes.
	lastMetaPath string

	onError func(error)
}

// New creates a controller. decode may be nil to use the default
// file decoder; bridge may be nil when no media-control surface is
// available.
func New(out Output, decode DecodeFunc, bridge Bridge) *Controller {
	c := &Controller{
		queue:  playlist.New(),
		out:    out,
		bridge: bridge,
		decode: decode,
		load:   LoadTrack,
	}
	if c.decode == nil {
		c.decode = defaultDecode
	}
	return c
}

// OnError registers a handler for errors that are swallowed by
// steady-state operations (navigation decode failures). The handler
// runs on the controller goroutine.
func (c *Controller) OnError(fn func(error)) {
	c.onError = fn
}

// Play resumes the output. With no current track there is nothing to
// play and the output is left unchanged.
func (c *Controller) Play() {
	if c.queue.Current() == nil {
		return
	}
	c.out.Play()
}

// Pause pauses the output.
func (c *Controller) Pause() {
	c.out.Pause()
}

// Toggle switches between play and pause for the current track.
func (c *Controller) Toggle() {
	if c.out.IsPaused() {
		c.Play()
	} else {
		c.Pause()
	}
}

// AddTrack appends a track to the playlist. When the playlist was
// empty, playback of the new track starts automatically; later adds
// leave the cursor alone.
func (c *Controller) AddTrack(t playlist.Track) {
	wasEmpty := c.queue.Len() == 0
	c.queue.Add(t)
	if wasEmpty {
		c.Next()
	}
}

// Next advances the cursor and swaps to the new track. At the last
// track this is a no-op.
func (c *Controller) Next() {
	if c.queue.Advance() {
		c.swapToCurrent()
	}
}

// Previous moves the cursor back and swaps to the new track. At the
// first track this is a no-op.
func (c *Controller) Previous() {
	if c.queue.Retreat() {
		c.swapToCurrent()
	}
}

// JumpTo moves the cursor to index and swaps to that track.
// Out-of-range indices are silently ignored; jumping to the current
// index does not restart the track.
func (c *Controller) JumpTo(index int) {
	if c.queue.JumpTo(index) {
		c.swapToCurrent()
	}
}

// Clear empties the playlist and discards the in-flight source.
func (c *Controller) Clear() {
	c.queue.Clear()
	c.out.SkipCurrent()
	c.publish()
}

// swapToCurrent replaces the in-flight source with the current track's.
// The output's pause flag survives the swap, so navigating while paused
// stays paused. Decode failures leave the output empty and are routed
// to the error handler rather than the caller.
func (c *Controller) swapToCurrent() {
	t := c.queue.Current()
	if t == nil {
		c.out.SkipCurrent()
		return
	}
	src, err := c.decode(t.Path)
	if err != nil {
		c.out.SkipCurrent()
		c.reportError(err)
		return
	}
	if err := c.out.Enqueue(src); err != nil {
		c.reportError(err)
	}
	c.publish()
}

// SetVolume forwards to the output, which clamps to [0, 1].
func (c *Controller) SetVolume(v float64) {
	c.out.SetVolume(v)
}

// Volume returns the output's volume level.
func (c *Controller) Volume() float64 {
	return c.out.Volume()
}

// Position returns the elapsed time of the current source.
func (c *Controller) Position() time.Duration {
	return c.out.Position()
}

// NormalizedPosition returns elapsed/total in [0, 1] for the current
// track. ok is false with no current track or an unknown duration.
func (c *Controller) NormalizedPosition() (pos float64, ok bool) {
	t := c.queue.Current()
	if t == nil || t.Duration <= 0 {
		return 0, false
	}
	pos = float64(c.out.Position()) / float64(t.Duration)
	if pos < 0 {
		pos = 0
	}
	if pos > 1 {
		pos = 1
	}
	return pos, true
}

// SeekTo seeks to an absolute position. Best-effort: failures
// (no source, position past stream bounds) are swallowed and playback
// continues unaffected.
func (c *Controller) SeekTo(pos time.Duration) {
	_ = c.out.Seek(pos)
}

// SeekBy seeks relative to the current position, best-effort.
func (c *Controller) SeekBy(delta time.Duration) {
	c.SeekTo(c.out.Position() + delta)
}

// SeekFraction seeks to a normalized [0, 1] fraction of the current
// track's duration, best-effort. With no current track or an unknown
// duration it does nothing.
func (c *Controller) SeekFraction(f float64) {
	t := c.queue.Current()
	if t == nil || t.Duration <= 0 {
		return
	}
	c.SeekTo(time.Duration(f * float64(t.Duration)))
}

// Status derives the tri-state from the cursor and the output flags.
// This is the single place idleness is defined; see the Status type.
func (c *Controller) Status() Status {
	if c.queue.Current() == nil || c.out.IsEmpty() {
		return StatusIdle
	}
	if c.out.IsPaused() {
		return StatusPaused
	}
	return StatusPlaying
}

// CurrentTrack returns the track at the cursor, or nil.
func (c *Controller) CurrentTrack() *playlist.Track {
	return c.queue.Current()
}

// Cursor returns the playlist cursor (-1 if none).
func (c *Controller) Cursor() int {
	return c.queue.Cursor()
}

// Tracks returns a copy of the playlist's tracks.
func (c *Controller) Tracks() []playlist.Track {
	return c.queue.Tracks()
}

// Len returns the number of tracks in the playlist.
func (c *Controller) Len() int {
	return c.queue.Len()
}

// Tick is the single periodic entry point, called at a fixed short
// interval. It detects track completion and auto-advances, drains
// pending media-control events, and pushes updated state outbound.
// The tick interval bounds both auto-advance latency and media-key
// responsiveness.
func (c *Controller) Tick() {
	// Auto-advance: the output went empty while a track is current,
	// so it finished. At the last track Advance is a no-op and the
	// status decays to Idle; playback stops rather than looping.
	if c.queue.Current() != nil && c.out.IsEmpty() {
		c.Next()
	}

	if c.bridge == nil {
		return
	}

	for {
		ev, ok := c.bridge.Poll()
		if !ok {
			break
		}
		c.apply(ev)
	}

	c.publish()
}

// apply translates one inbound media-control event into the
// corresponding controller call.
func (c *Controller) apply(ev Event) {
	switch ev.Kind {
	case EventPlay:
		c.Play()
	case EventPause:
		c.Pause()
	case EventNext:
		c.Next()
	case EventPrevious:
		c.Previous()
	case EventSetVolume:
		c.SetVolume(ev.Volume)
	case EventSetPosition:
		c.SeekTo(ev.Position)
	case EventSeekRelative:
		delta := ev.Offset
		if ev.Direction == SeekBackward {
			delta = -delta
		}
		c.SeekBy(delta)
	}
}

// publish pushes status every time and metadata only when the current
// track changed.
func (c *Controller) publish() {
	if c.bridge == nil {
		return
	}

	c.bridge.UpdateStatus(c.Status(), c.out.Position())
	c.bridge.UpdateVolume(c.out.Volume())

	t := c.queue.Current()
	path := ""
	if t != nil {
		path = t.Path
	}
	if path == c.lastMetaPath {
		return
	}
	c.lastMetaPath = path

	var meta Metadata
	if t != nil {
		meta = Metadata{
			Path:     t.Path,
			Title:    t.DisplayTitle(),
			Artist:   t.Artist,
			Album:    t.Album,
			Duration: t.Duration,
		}
	}
	c.bridge.UpdateMetadata(meta)
}

func (c *Controller) reportError(err error) {
	if c.onError != nil {
		c.onError(err)
	}
}
