package playback

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/kanta/internal/player"
	"github.com/llehouerou/kanta/internal/playlist"
)

// fakeSource is a decode result that carries only its origin path.
type fakeSource struct {
	path string
}

func (s *fakeSource) Streamer() beep.StreamSeekCloser { return nil }
func (s *fakeSource) Format() beep.Format             { return beep.Format{} }
func (s *fakeSource) TotalDuration() time.Duration    { return 0 }
func (s *fakeSource) Close() error                    { return nil }

// fakeOutput records the calls the controller makes.
type fakeOutput struct {
	paused   bool
	src      player.Source
	finished bool
	level    float64
	pos      time.Duration
	seekErr  error
	seeks    []time.Duration
	enqueued []string
}

func newFakeOutput() *fakeOutput {
	return &fakeOutput{level: 1.0}
}

func (o *fakeOutput) Play()          { o.paused = false }
func (o *fakeOutput) Pause()         { o.paused = true }
func (o *fakeOutput) IsPaused() bool { return o.paused }

func (o *fakeOutput) IsEmpty() bool {
	return o.src == nil || o.finished
}

func (o *fakeOutput) Enqueue(src player.Source) error {
	o.src = src
	o.finished = false
	if fs, ok := src.(*fakeSource); ok {
		o.enqueued = append(o.enqueued, fs.path)
	}
	return nil
}

func (o *fakeOutput) SkipCurrent() {
	o.src = nil
}

func (o *fakeOutput) Volume() float64 { return o.level }

func (o *fakeOutput) SetVolume(level float64) {
	if level < 0 {
		level = 0
	}
	if level > 1 {
		level = 1
	}
	o.level = level
}

func (o *fakeOutput) Position() time.Duration { return o.pos }

func (o *fakeOutput) Seek(pos time.Duration) error {
	if o.seekErr != nil {
		return o.seekErr
	}
	o.seeks = append(o.seeks, pos)
	o.pos = pos
	return nil
}

// finish simulates the current source playing to completion.
func (o *fakeOutput) finish() {
	o.finished = true
}

// fakeBridge records outbound pushes and serves queued inbound events.
type fakeBridge struct {
	pending  []Event
	metas    []Metadata
	statuses []Status
	elapsed  []time.Duration
	volumes  []float64
}

func (b *fakeBridge) Poll() (Event, bool) {
	if len(b.pending) == 0 {
		return Event{}, false
	}
	ev := b.pending[0]
	b.pending = b.pending[1:]
	return ev, true
}

func (b *fakeBridge) UpdateMetadata(meta Metadata) {
	b.metas = append(b.metas, meta)
}

func (b *fakeBridge) UpdateStatus(status Status, elapsed time.Duration) {
	b.statuses = append(b.statuses, status)
	b.elapsed = append(b.elapsed, elapsed)
}

func (b *fakeBridge) UpdateVolume(level float64) {
	b.volumes = append(b.volumes, level)
}

func fakeDecode(path string) (player.Source, error) {
	return &fakeSource{path: path}, nil
}

func newTestController() (*Controller, *fakeOutput, *fakeBridge) {
	out := newFakeOutput()
	bridge := &fakeBridge{}
	return New(out, fakeDecode, bridge), out, bridge
}

func track(path string, dur time.Duration) playlist.Track {
	return playlist.Track{Path: path, Duration: dur}
}

func TestAddTrack_AutoStartsFirstAddOnly(t *testing.T) {
	c, out, _ := newTestController()

	c.AddTrack(track("/a.mp3", 10*time.Second))

	require.Equal(t, 0, c.Cursor(), "first add should prime the cursor")
	require.Equal(t, []string{"/a.mp3"}, out.enqueued, "first add should prime the output")

	c.AddTrack(track("/b.mp3", 20*time.Second))

	assert.Equal(t, 0, c.Cursor(), "second add must not advance")
	assert.Len(t, out.enqueued, 1, "second add must not swap")
}

func TestNext_SwapsAndStopsAtLast(t *testing.T) {
	c, out, _ := newTestController()
	c.AddTrack(track("/a.mp3", 10*time.Second))
	c.AddTrack(track("/b.mp3", 20*time.Second))

	c.Next()

	require.Equal(t, 1, c.Cursor())
	require.Equal(t, []string{"/a.mp3", "/b.mp3"}, out.enqueued)

	c.Next() // at the last track: idempotent no-op

	assert.Equal(t, 1, c.Cursor())
	assert.Len(t, out.enqueued, 2)
}

func TestPrevious_StopsAtFirst(t *testing.T) {
	c, out, _ := newTestController()
	c.AddTrack(track("/a.mp3", 10*time.Second))
	c.AddTrack(track("/b.mp3", 20*time.Second))
	c.Next()

	c.Previous()

	require.Equal(t, 0, c.Cursor())

	c.Previous() // at the first track: idempotent no-op

	assert.Equal(t, 0, c.Cursor())
	assert.Equal(t, []string{"/a.mp3", "/b.mp3", "/a.mp3"}, out.enqueued)
}

func TestJumpTo_OutOfRangeIsSilentNoOp(t *testing.T) {
	c, out, _ := newTestController()
	c.AddTrack(track("/a.mp3", 10*time.Second))

	for _, index := range []int{-1, 1, 99} {
		c.JumpTo(index)
		assert.Equal(t, 0, c.Cursor(), "JumpTo(%d) must not move the cursor", index)
	}
	assert.Len(t, out.enqueued, 1, "no swap may occur on out-of-range jumps")
}

func TestSwap_PreservesPauseFlag(t *testing.T) {
	c, out, _ := newTestController()
	c.AddTrack(track("/a.mp3", 10*time.Second))
	c.AddTrack(track("/b.mp3", 20*time.Second))

	c.Pause()
	c.Next()

	assert.True(t, out.IsPaused(), "a swap must never implicitly resume")
	assert.Equal(t, StatusPaused, c.Status())

	c.Play()
	c.Previous()

	assert.False(t, out.IsPaused(), "a swap must never force-pause")
	assert.Equal(t, StatusPlaying, c.Status())
}

func TestPlay_WithNoTrackIsNoOp(t *testing.T) {
	c, out, _ := newTestController()
	out.Pause()

	c.Play()

	assert.True(t, out.IsPaused(), "Play with no current track must leave the output unchanged")
}

func TestClear(t *testing.T) {
	c, out, _ := newTestController()
	c.AddTrack(track("/a.mp3", 10*time.Second))
	c.AddTrack(track("/b.mp3", 20*time.Second))

	c.Clear()

	assert.Equal(t, -1, c.Cursor())
	assert.Equal(t, 0, c.Len())
	assert.True(t, out.IsEmpty())
	assert.Equal(t, StatusIdle, c.Status())
}

func TestTick_AutoAdvances(t *testing.T) {
	c, out, _ := newTestController()
	c.AddTrack(track("/a.mp3", 10*time.Second))
	c.AddTrack(track("/b.mp3", 20*time.Second))

	out.finish()
	c.Tick()

	assert.Equal(t, 1, c.Cursor())
	assert.Equal(t, []string{"/a.mp3", "/b.mp3"}, out.enqueued)
	assert.Equal(t, StatusPlaying, c.Status())
}

func TestTick_LastTrackFinishedGoesIdle(t *testing.T) {
	c, out, _ := newTestController()
	c.AddTrack(track("/a.mp3", 10*time.Second))
	c.AddTrack(track("/b.mp3", 20*time.Second))
	c.Next()

	out.finish()
	c.Tick()

	assert.Equal(t, 1, c.Cursor(), "advance past the end must be a no-op")
	assert.Len(t, out.enqueued, 2, "nothing further to enqueue")
	assert.Equal(t, StatusIdle, c.Status(), "playback stops rather than looping")
}

func TestTick_DrainsAllPendingEvents(t *testing.T) {
	c, out, bridge := newTestController()
	c.AddTrack(track("/a.mp3", 10*time.Second))
	c.AddTrack(track("/b.mp3", 20*time.Second))

	bridge.pending = []Event{
		{Kind: EventPause},
		{Kind: EventNext},
		{Kind: EventSetVolume, Volume: 0.3},
	}
	c.Tick()

	assert.Empty(t, bridge.pending, "tick must drain the queue to empty")
	assert.True(t, out.IsPaused())
	assert.Equal(t, 1, c.Cursor())
	assert.InDelta(t, 0.3, c.Volume(), 1e-9)

	require.NotEmpty(t, bridge.volumes, "tick must publish the volume level")
	assert.InDelta(t, 0.3, bridge.volumes[len(bridge.volumes)-1], 1e-9,
		"the published volume must reflect the applied event")
}

func TestTick_AppliesSeekEvents(t *testing.T) {
	c, out, bridge := newTestController()
	c.AddTrack(track("/a.mp3", 60*time.Second))
	out.pos = 30 * time.Second

	bridge.pending = []Event{
		{Kind: EventSeekRelative, Direction: SeekBackward, Offset: 10 * time.Second},
	}
	c.Tick()

	require.Equal(t, []time.Duration{20 * time.Second}, out.seeks)

	bridge.pending = []Event{
		{Kind: EventSetPosition, Position: 45 * time.Second},
	}
	c.Tick()

	assert.Equal(t, 45*time.Second, out.pos)
}

func TestTick_PushesStatusEveryTickAndMetadataOnChange(t *testing.T) {
	c, _, bridge := newTestController()
	c.AddTrack(playlist.Track{Path: "/a.mp3", Title: "A", Artist: "X", Duration: 10 * time.Second})

	metasAfterAdd := len(bridge.metas)
	require.Equal(t, 1, metasAfterAdd, "the swap should push metadata once")

	c.Tick()
	c.Tick()

	assert.Len(t, bridge.metas, metasAfterAdd, "unchanged track must not re-push metadata")
	assert.GreaterOrEqual(t, len(bridge.statuses), 2, "every tick pushes status")

	c.AddTrack(playlist.Track{Path: "/b.mp3", Title: "B", Duration: 20 * time.Second})
	c.Next()

	require.Len(t, bridge.metas, metasAfterAdd+1)
	assert.Equal(t, "B", bridge.metas[len(bridge.metas)-1].Title)
}

func TestSeekFraction(t *testing.T) {
	c, out, _ := newTestController()
	c.AddTrack(track("/a.mp3", 10*time.Second))

	c.SeekFraction(0.5)

	require.Equal(t, []time.Duration{5 * time.Second}, out.seeks)
}

func TestSeekFraction_NoTrackIsNoOp(t *testing.T) {
	c, out, _ := newTestController()

	c.SeekFraction(0.5)

	assert.Empty(t, out.seeks)
}

func TestSeek_FailureIsSwallowed(t *testing.T) {
	c, out, _ := newTestController()
	c.AddTrack(track("/a.mp3", 10*time.Second))
	out.pos = 3 * time.Second
	out.seekErr = player.ErrSeekOutOfRange

	c.SeekTo(99 * time.Second)
	c.SeekFraction(0.9)

	assert.Empty(t, out.seeks, "failed seeks must not move the position")
	assert.Equal(t, 3*time.Second, out.pos, "previous position unaffected")
}

func TestNormalizedPosition(t *testing.T) {
	c, out, _ := newTestController()

	_, ok := c.NormalizedPosition()
	require.False(t, ok, "no current track")

	c.AddTrack(track("/a.mp3", 10*time.Second))
	out.pos = 5 * time.Second

	pos, ok := c.NormalizedPosition()
	require.True(t, ok)
	assert.InDelta(t, 0.5, pos, 1e-9)

	out.pos = 15 * time.Second

	pos, ok = c.NormalizedPosition()
	require.True(t, ok)
	assert.Equal(t, 1.0, pos, "clamped to 1")
}

func TestNormalizedPosition_UnknownDuration(t *testing.T) {
	c, _, _ := newTestController()
	c.AddTrack(track("/a.mp3", 0))

	_, ok := c.NormalizedPosition()
	assert.False(t, ok)
}

func TestDecodeFailure_ReportedNotReturned(t *testing.T) {
	out := newFakeOutput()
	decodeErr := errors.New("corrupt stream")
	failAfterFirst := 0
	decode := func(path string) (player.Source, error) {
		failAfterFirst++
		if failAfterFirst > 1 {
			return nil, decodeErr
		}
		return &fakeSource{path: path}, nil
	}
	c := New(out, decode, nil)

	var reported error
	c.OnError(func(err error) { reported = err })

	c.AddTrack(track("/a.mp3", 10*time.Second))
	c.AddTrack(track("/b.mp3", 20*time.Second))
	c.Next()

	assert.Equal(t, decodeErr, reported)
	assert.True(t, out.IsEmpty(), "failed swap leaves the output empty")
	assert.Equal(t, 1, c.Cursor(), "cursor still moved")
}

func TestStatus_Derivation(t *testing.T) {
	tests := []struct {
		name     string
		hasTrack bool
		finished bool
		paused   bool
		expected Status
	}{
		{"no track", false, false, false, StatusIdle},
		{"track finished", true, true, false, StatusIdle},
		{"finished while paused is still idle", true, true, true, StatusIdle},
		{"in flight running", true, false, false, StatusPlaying},
		{"in flight paused", true, false, true, StatusPaused},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, out, _ := newTestController()
			if tt.hasTrack {
				c.AddTrack(track("/a.mp3", 10*time.Second))
			}
			if tt.finished {
				out.finish()
			}
			out.paused = tt.paused

			assert.Equal(t, tt.expected, c.Status())
		})
	}
}

func TestLoadPlaylistFile_ReplacesAndAutoStarts(t *testing.T) {
	c, out, _ := newTestController()
	c.load = func(path string) (playlist.Track, error) {
		return playlist.Track{Path: path, Duration: time.Second}, nil
	}
	c.AddTrack(track("/old.mp3", 10*time.Second))

	path := writePlaylistFile(t, "/a.mp3\n/b.mp3")
	require.NoError(t, c.LoadPlaylistFile(path))

	assert.Equal(t, []string{"/a.mp3", "/b.mp3"}, trackPaths(c.Tracks()))
	assert.Equal(t, 0, c.Cursor(), "first loaded track auto-starts")
	assert.Equal(t, "/a.mp3", out.enqueued[len(out.enqueued)-1])
}

func TestLoadPlaylistFile_FailFastLeavesPlaylistUntouched(t *testing.T) {
	c, _, _ := newTestController()
	loadErr := errors.New("unsupported format: .txt")
	c.load = func(path string) (playlist.Track, error) {
		if path == "/bad.txt" {
			return playlist.Track{}, loadErr
		}
		return playlist.Track{Path: path}, nil
	}
	c.AddTrack(track("/old.mp3", 10*time.Second))

	path := writePlaylistFile(t, "/a.mp3\n/bad.txt\n/c.mp3")
	err := c.LoadPlaylistFile(path)

	require.ErrorIs(t, err, loadErr)
	assert.Equal(t, []string{"/old.mp3"}, trackPaths(c.Tracks()), "failed load must not clobber the playlist")
}

func TestExportPlaylistFile(t *testing.T) {
	c, _, _ := newTestController()
	c.AddTrack(track("/a.mp3", 10*time.Second))
	c.AddTrack(track("/b.mp3", 20*time.Second))

	path := filepath.Join(t.TempDir(), "out.m3u8")
	require.NoError(t, c.ExportPlaylistFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "/a.mp3\n/b.mp3", string(data))
}

func TestPruneMissing_SkipsDeletedFiles(t *testing.T) {
	dir := t.TempDir()
	present := func(name string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	a := present("a.mp3")
	gone := filepath.Join(dir, "deleted.mp3")
	c := present("c.mp3")

	saved := []playlist.Track{
		track(a, 10*time.Second),
		track(gone, 20*time.Second),
		track(c, 30*time.Second),
	}

	tracks, cursor := PruneMissing(saved, 2)

	require.Equal(t, []string{a, c}, trackPaths(tracks))
	assert.Equal(t, 1, cursor, "cursor remaps past the dropped entry")
}

func TestPruneMissing_CursorOnDeletedTrack(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.mp3")
	if err := os.WriteFile(a, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	gone := filepath.Join(dir, "deleted.mp3")

	tracks, cursor := PruneMissing([]playlist.Track{
		track(a, 10*time.Second),
		track(gone, 20*time.Second),
	}, 1)

	require.Equal(t, []string{a}, trackPaths(tracks))
	assert.Equal(t, -1, cursor, "a cursor whose track is gone resolves to none")
}

func TestPruneMissing_AllGone(t *testing.T) {
	gone := filepath.Join(t.TempDir(), "deleted.mp3")

	tracks, cursor := PruneMissing([]playlist.Track{track(gone, time.Second)}, 0)

	assert.Empty(t, tracks)
	assert.Equal(t, -1, cursor)
}

func TestRestoreQueue_DoesNotAutoStart(t *testing.T) {
	c, out, _ := newTestController()

	c.RestoreQueue([]playlist.Track{
		track("/a.mp3", 10*time.Second),
		track("/b.mp3", 20*time.Second),
	})

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, -1, c.Cursor())
	assert.Empty(t, out.enqueued)
	assert.Equal(t, StatusIdle, c.Status())
}

func writePlaylistFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "list.m3u8")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing playlist file: %v", err)
	}
	return path
}

func trackPaths(tracks []playlist.Track) []string {
	paths := make([]string, len(tracks))
	for i, tr := range tracks {
		paths[i] = tr.Path
	}
	return paths
}
