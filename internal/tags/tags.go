// Package tags extracts display metadata from music files.
package tags

// Metadata holds the tag fields the player shows. Fields are
// independently optional; an empty string means the file carries no
// such tag. A file with no readable tags at all is not an error.
type Metadata struct {
	Title  string
	Artist string
	Album  string
	Lyrics string
}

// IsEmpty returns true when no field is set.
func (m Metadata) IsEmpty() bool {
	return m.Title == "" && m.Artist == "" && m.Album == "" && m.Lyrics == ""
}
