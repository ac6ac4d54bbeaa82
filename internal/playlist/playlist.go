// Package playlist provides the ordered track collection and its cursor.
package playlist

// Playlist holds an ordered collection of tracks plus a cursor marking
// the current one. The cursor is -1 when nothing is current (empty
// playlist or playback not started). Invariant: cursor == -1 or
// 0 <= cursor < Len(). Navigation never wraps past either end.
//
// Playlist does no I/O; starting playback on cursor changes is the
// controller's job.
type Playlist struct {
	tracks []Track
	cursor int
}

// New creates a new empty playlist.
func New() *Playlist {
	return &Playlist{
		tracks: make([]Track, 0),
		cursor: -1,
	}
}

// Add appends tracks to the end of the playlist.
// The cursor is not touched, even on the first add.
func (p *Playlist) Add(tracks ...Track) {
	p.tracks = append(p.tracks, tracks...)
}

// Clear removes all tracks and resets the cursor.
func (p *Playlist) Clear() {
	p.tracks = p.tracks[:0]
	p.cursor = -1
}

// JumpTo sets the cursor to index. Out-of-range indices are silently
// ignored and the cursor is left unchanged.
// Returns true if the cursor changed.
func (p *Playlist) JumpTo(index int) bool {
	if index < 0 || index >= len(p.tracks) {
		return false
	}
	if index == p.cursor {
		return false
	}
	p.cursor = index
	return true
}

// Advance moves the cursor forward: from -1 to 0 when non-empty, by one
// otherwise. At the last index it is a no-op (no wraparound).
// Returns true if the cursor changed.
func (p *Playlist) Advance() bool {
	if len(p.tracks) == 0 {
		return false
	}
	switch {
	case p.cursor < 0:
		p.cursor = 0
	case p.cursor == len(p.tracks)-1:
		return false
	default:
		p.cursor++
	}
	return true
}

// Retreat moves the cursor back by one. With no cursor or at index 0 it
// is a no-op. Returns true if the cursor changed.
func (p *Playlist) Retreat() bool {
	if p.cursor <= 0 {
		return false
	}
	p.cursor--
	return true
}

// Current returns the track at the cursor, or nil if none.
func (p *Playlist) Current() *Track {
	if p.cursor < 0 || p.cursor >= len(p.tracks) {
		return nil
	}
	return &p.tracks[p.cursor]
}

// Cursor returns the cursor index (-1 if none).
func (p *Playlist) Cursor() int {
	return p.cursor
}

// Tracks returns a copy of all tracks.
func (p *Playlist) Tracks() []Track {
	result := make([]Track, len(p.tracks))
	copy(result, p.tracks)
	return result
}

// Track returns the track at the given index, or nil if out of bounds.
func (p *Playlist) Track(index int) *Track {
	if index < 0 || index >= len(p.tracks) {
		return nil
	}
	return &p.tracks[index]
}

// Len returns the number of tracks.
func (p *Playlist) Len() int {
	return len(p.tracks)
}
