package player

import (
	"errors"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
)

// Seek errors. Callers that treat seeking as best-effort can ignore
// them wholesale; they exist so tests and logs can tell the cases
// apart.
var (
	ErrNoSource       = errors.New("no source to seek")
	ErrSeekOutOfRange = errors.New("seek position out of range")
)

// The process owns a single speaker; it is initialized lazily with the
// sample rate of the first enqueued source and later sources are
// resampled to it.
var (
	speakerInitialized bool
	speakerSampleRate  beep.SampleRate
)

// Output plays one source at a time through the speaker. It remembers
// the pause flag and volume level across source swaps: enqueueing a new
// source while paused starts it paused, and never changes the level.
//
// Output is not safe for concurrent use; it is driven from the single
// control goroutine. The speaker's own mixing goroutine is isolated
// behind speaker.Lock.
type Output struct {
	src    Source
	ctrl   *beep.Ctrl
	volume *effects.Volume
	paused bool
	level  float64
	done   chan struct{}
}

// NewOutput creates an output at full volume.
func NewOutput() *Output {
	return &Output{level: 1.0}
}

// Enqueue discards any current source and starts streaming the given
// one. The pause flag carries over from the previous source.
func (o *Output) Enqueue(src Source) error {
	o.SkipCurrent()

	format := src.Format()
	if !speakerInitialized {
		speakerSampleRate = format.SampleRate
		if err := speaker.Init(speakerSampleRate, speakerSampleRate.N(time.Second/10)); err != nil {
			src.Close()
			return err
		}
		speakerInitialized = true
	}

	var streamer beep.Streamer = src.Streamer()
	if format.SampleRate != speakerSampleRate {
		streamer = beep.Resample(4, format.SampleRate, speakerSampleRate, streamer)
	}

	ctrl := &beep.Ctrl{Streamer: streamer, Paused: o.paused}
	vol := &effects.Volume{Streamer: ctrl, Base: 2, Volume: levelToVolume(o.level), Silent: o.level <= 0}
	done := make(chan struct{})

	o.src = src
	o.ctrl = ctrl
	o.volume = vol
	o.done = done

	speaker.Play(beep.Seq(vol, beep.Callback(func() {
		close(done)
	})))

	return nil
}

// SkipCurrent discards the in-flight source, if any. The pause flag is
// left as-is so the next enqueue resumes in the same play/pause state.
func (o *Output) SkipCurrent() {
	if o.src == nil {
		return
	}
	speaker.Clear()
	_ = o.src.Close()
	o.src = nil
	o.ctrl = nil
	o.volume = nil
	o.done = nil
}

// Play clears the pause flag and resumes the current source, if any.
func (o *Output) Play() {
	o.paused = false
	if o.ctrl != nil {
		speaker.Lock()
		o.ctrl.Paused = false
		speaker.Unlock()
	}
}

// Pause sets the pause flag and pauses the current source, if any.
func (o *Output) Pause() {
	o.paused = true
	if o.ctrl != nil {
		speaker.Lock()
		o.ctrl.Paused = true
		speaker.Unlock()
	}
}

// IsPaused reports the pause flag. The flag survives source swaps.
func (o *Output) IsPaused() bool {
	return o.paused
}

// IsEmpty reports whether no source is in flight: nothing was enqueued,
// the source was skipped, or it played to completion.
func (o *Output) IsEmpty() bool {
	if o.src == nil {
		return true
	}
	select {
	case <-o.done:
		return true
	default:
		return false
	}
}

// Position returns the elapsed time of the current source. The
// streamer's position is read under the speaker lock; the mixer
// goroutine advances it concurrently.
func (o *Output) Position() time.Duration {
	if o.src == nil {
		return 0
	}
	speaker.Lock()
	n := o.src.Streamer().Position()
	speaker.Unlock()
	return o.src.Format().SampleRate.D(n)
}

// Seek moves playback of the current source to an absolute position.
// Seeking with no source or past the stream bounds fails.
func (o *Output) Seek(pos time.Duration) error {
	if o.IsEmpty() {
		return ErrNoSource
	}
	streamer := o.src.Streamer()
	n := o.src.Format().SampleRate.N(pos)
	speaker.Lock()
	defer speaker.Unlock()
	if n < 0 || n >= streamer.Len() {
		return ErrSeekOutOfRange
	}
	return streamer.Seek(n)
}

// Volume returns the volume level in [0, 1].
func (o *Output) Volume() float64 {
	return o.level
}

// SetVolume sets the volume level, clamped to [0, 1]. The level applies
// to the current source and carries over to later ones.
func (o *Output) SetVolume(level float64) {
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	o.level = level

	if o.volume != nil {
		speaker.Lock()
		o.volume.Volume = levelToVolume(level)
		o.volume.Silent = level <= 0
		speaker.Unlock()
	}
}

// Close discards any in-flight source. The speaker itself stays
// initialized for the process lifetime.
func (o *Output) Close() {
	o.SkipCurrent()
}
