//go:build linux

// Package mpris exposes the player on the org.mpris.MediaPlayer2 D-Bus
// interface so desktop media keys and applets can drive playback.
package mpris

import (
	"fmt"
	"hash/fnv"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/quarckster/go-mpris-server/pkg/types"

	"github.com/llehouerou/kanta/internal/playback"
)

// Bridge serves the MPRIS interface and shuttles commands to the
// playback controller. D-Bus handlers never touch controller state:
// they enqueue events and read the last published snapshot, keeping
// the controller goroutine the sole mutator.
type Bridge struct {
	events *eventQueue
	state  *stateStore
	server *server.Server
}

var _ playback.Bridge = (*Bridge)(nil)

// New creates the bridge and starts serving MPRIS in the background.
func New() (*Bridge, error) {
	b := &Bridge{
		events: newEventQueue(),
		state:  &stateStore{volume: 1.0},
	}

	b.server = server.NewServer("kanta", &rootAdapter{}, &playerAdapter{bridge: b})
	go func() {
		_ = b.server.Listen()
	}()

	return b, nil
}

// Poll returns the next pending media-control command, if any.
func (b *Bridge) Poll() (playback.Event, bool) {
	return b.events.poll()
}

// UpdateMetadata publishes the current track description.
func (b *Bridge) UpdateMetadata(meta playback.Metadata) {
	b.state.setMetadata(meta)
}

// UpdateStatus publishes the playback status and elapsed time.
func (b *Bridge) UpdateStatus(status playback.Status, elapsed time.Duration) {
	b.state.setStatus(status, elapsed)
}

// UpdateVolume publishes the output volume level.
func (b *Bridge) UpdateVolume(level float64) {
	b.state.setVolume(level)
}

// Close stops the MPRIS server and releases the D-Bus name.
func (b *Bridge) Close() error {
	return b.server.Stop()
}

// rootAdapter implements OrgMprisMediaPlayer2Adapter.
type rootAdapter struct{}

func (r *rootAdapter) Raise() error { return nil }

func (r *rootAdapter) Quit() error { return nil }

func (r *rootAdapter) CanQuit() (bool, error) { return false, nil }

func (r *rootAdapter) CanRaise() (bool, error) { return false, nil }

func (r *rootAdapter) HasTrackList() (bool, error) { return false, nil }

func (r *rootAdapter) Identity() (string, error) { return "Kanta", nil }

//nolint:revive // Method name required by interface.
func (r *rootAdapter) SupportedUriSchemes() ([]string, error) {
	return []string{"file"}, nil
}

func (r *rootAdapter) SupportedMimeTypes() ([]string, error) {
	return []string{"audio/mpeg", "audio/flac", "audio/ogg", "audio/wav"}, nil
}

// playerAdapter implements OrgMprisMediaPlayer2PlayerAdapter. Commands
// are enqueued; property reads come from the snapshot.
type playerAdapter struct {
	bridge *Bridge
}

func (p *playerAdapter) push(ev playback.Event) error {
	p.bridge.events.push(ev)
	return nil
}

func (p *playerAdapter) Next() error {
	return p.push(playback.Event{Kind: playback.EventNext})
}

func (p *playerAdapter) Previous() error {
	return p.push(playback.Event{Kind: playback.EventPrevious})
}

func (p *playerAdapter) Pause() error {
	return p.push(playback.Event{Kind: playback.EventPause})
}

func (p *playerAdapter) PlayPause() error {
	status, _, _ := p.bridge.state.snapshot()
	if status == playback.StatusPlaying {
		return p.push(playback.Event{Kind: playback.EventPause})
	}
	return p.push(playback.Event{Kind: playback.EventPlay})
}

// Stop maps to pause: there is no distinct stopped state for a track
// in flight.
func (p *playerAdapter) Stop() error {
	return p.push(playback.Event{Kind: playback.EventPause})
}

func (p *playerAdapter) Play() error {
	return p.push(playback.Event{Kind: playback.EventPlay})
}

func (p *playerAdapter) Seek(offset types.Microseconds) error {
	ev := playback.Event{
		Kind:      playback.EventSeekRelative,
		Direction: playback.SeekForward,
		Offset:    time.Duration(offset) * time.Microsecond,
	}
	if ev.Offset < 0 {
		ev.Direction = playback.SeekBackward
		ev.Offset = -ev.Offset
	}
	return p.push(ev)
}

func (p *playerAdapter) SetPosition(_ string, position types.Microseconds) error {
	return p.push(playback.Event{
		Kind:     playback.EventSetPosition,
		Position: time.Duration(position) * time.Microsecond,
	})
}

//nolint:revive // Method name required by interface.
func (p *playerAdapter) OpenUri(_ string) error { return nil }

func (p *playerAdapter) PlaybackStatus() (types.PlaybackStatus, error) {
	status, _, _ := p.bridge.state.snapshot()
	switch status {
	case playback.StatusPlaying:
		return types.PlaybackStatusPlaying, nil
	case playback.StatusPaused:
		return types.PlaybackStatusPaused, nil
	case playback.StatusIdle:
		return types.PlaybackStatusStopped, nil
	}
	return types.PlaybackStatusStopped, nil
}

func (p *playerAdapter) Rate() (float64, error) { return 1.0, nil }

func (p *playerAdapter) SetRate(_ float64) error { return nil }

func (p *playerAdapter) Metadata() (types.Metadata, error) {
	_, _, meta := p.bridge.state.snapshot()
	if meta.Path == "" {
		return types.Metadata{}, nil
	}

	out := types.Metadata{
		TrackId: dbus.ObjectPath(formatTrackID(meta.Path)),
		Length:  types.Microseconds(meta.Duration.Microseconds()),
		Title:   meta.Title,
		Artist:  []string{meta.Artist},
		Album:   meta.Album,
	}
	if artPath := FindAlbumArt(meta.Path); artPath != "" {
		out.ArtUrl = "file://" + artPath
	}
	return out, nil
}

func (p *playerAdapter) Volume() (float64, error) {
	return p.bridge.state.volumeLevel(), nil
}

func (p *playerAdapter) SetVolume(volume float64) error {
	return p.push(playback.Event{Kind: playback.EventSetVolume, Volume: volume})
}

func (p *playerAdapter) Position() (int64, error) {
	_, elapsed, _ := p.bridge.state.snapshot()
	return elapsed.Microseconds(), nil
}

func (p *playerAdapter) MinimumRate() (float64, error) { return 1.0, nil }

func (p *playerAdapter) MaximumRate() (float64, error) { return 1.0, nil }

func (p *playerAdapter) CanGoNext() (bool, error) { return true, nil }

func (p *playerAdapter) CanGoPrevious() (bool, error) { return true, nil }

func (p *playerAdapter) CanPlay() (bool, error) {
	_, _, meta := p.bridge.state.snapshot()
	return meta.Path != "", nil
}

func (p *playerAdapter) CanPause() (bool, error) { return true, nil }

func (p *playerAdapter) CanSeek() (bool, error) { return true, nil }

func (p *playerAdapter) CanControl() (bool, error) { return true, nil }

func formatTrackID(path string) string {
	h := fnv.New64a()
	h.Write([]byte(path))
	return fmt.Sprintf("/org/mpris/MediaPlayer2/Track/%x", h.Sum64())
}
