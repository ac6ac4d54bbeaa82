package tags

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
)

// Probe reads tag metadata from a music file. Unparseable or absent
// tags yield empty fields, not an error; only failing to open the file
// is reported.
func Probe(path string) (Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return Metadata{}, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		// dhowden/tag has issues with some UTF-16 encoded ID3 tags;
		// fall back to the id3v2 library for MP3 files.
		if strings.EqualFold(filepath.Ext(path), ".mp3") {
			return probeMP3Fallback(path), nil
		}
		return Metadata{}, nil
	}

	return Metadata{
		Title:  m.Title(),
		Artist: m.Artist(),
		Album:  m.Album(),
		Lyrics: m.Lyrics(),
	}, nil
}
