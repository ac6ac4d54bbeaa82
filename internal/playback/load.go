package playback

import (
	"os"

	"github.com/llehouerou/kanta/internal/player"
	"github.com/llehouerou/kanta/internal/playlist"
	"github.com/llehouerou/kanta/internal/tags"
)

// defaultDecode is the production decoder.
func defaultDecode(path string) (player.Source, error) {
	return player.Decode(path)
}

// LoadTrack resolves a file into a Track: the decoder supplies the
// duration, the prober the tags. Open and decode failures are returned
// to the caller (user-initiated adds fail fast); missing tags are not
// an error.
func LoadTrack(path string) (playlist.Track, error) {
	src, err := player.Decode(path)
	if err != nil {
		return playlist.Track{}, err
	}
	duration := src.TotalDuration()
	_ = src.Close()

	meta, err := tags.Probe(path)
	if err != nil {
		return playlist.Track{}, err
	}

	return playlist.Track{
		Path:     path,
		Title:    meta.Title,
		Artist:   meta.Artist,
		Album:    meta.Album,
		Lyrics:   meta.Lyrics,
		Duration: duration,
	}, nil
}

// LoadPlaylistFile reads a playlist file, resolves every path into a
// Track, and replaces the current playlist content. The first
// resolution failure aborts the whole load and leaves the current
// playlist untouched. The first loaded track starts playing via the
// auto-start-on-first-add rule.
func (c *Controller) LoadPlaylistFile(path string) error {
	paths, err := playlist.ReadPathsFile(path)
	if err != nil {
		return err
	}

	tracks := make([]playlist.Track, 0, len(paths))
	for _, p := range paths {
		t, err := c.load(p)
		if err != nil {
			return err
		}
		tracks = append(tracks, t)
	}

	c.Clear()
	for _, t := range tracks {
		c.AddTrack(t)
	}
	return nil
}

// ExportPlaylistFile writes the playlist's track paths to a file, one
// per line.
func (c *Controller) ExportPlaylistFile(path string) error {
	return c.queue.ExportFile(path)
}

// RestoreQueue appends previously saved tracks without starting
// playback: unlike AddTrack, the auto-start rule does not apply, so a
// restored queue sits idle until the user (or a media key) acts.
func (c *Controller) RestoreQueue(tracks []playlist.Track) {
	c.queue.Add(tracks...)
}

// PruneMissing drops tracks whose files no longer exist and remaps
// cursor onto the surviving entries. Files deleted between runs are
// skipped on restore rather than failing it; a cursor whose own track
// is gone maps to -1.
func PruneMissing(tracks []playlist.Track, cursor int) ([]playlist.Track, int) {
	kept := make([]playlist.Track, 0, len(tracks))
	newCursor := -1
	for i, t := range tracks {
		if _, err := os.Stat(t.Path); err != nil {
			continue
		}
		if i == cursor {
			newCursor = len(kept)
		}
		kept = append(kept, t)
	}
	return kept, newCursor
}
