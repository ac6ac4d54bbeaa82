package playlist

import (
	"path/filepath"
	"time"
)

// Track represents a single playable item.
// Metadata fields may be empty when the file carries no tags; an empty
// string means "absent". A Track is immutable once constructed.
type Track struct {
	Path     string // file path for playback
	Title    string
	Artist   string
	Album    string
	Lyrics   string
	Duration time.Duration
}

// DisplayTitle returns the title, falling back to the file name.
func (t Track) DisplayTitle() string {
	if t.Title != "" {
		return t.Title
	}
	return filepath.Base(t.Path)
}
