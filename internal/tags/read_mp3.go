package tags

import (
	"github.com/bogem/id3v2/v2"
)

// probeMP3Fallback reads MP3 metadata using only the id3v2 library.
// Used when dhowden/tag fails. Any parse failure degrades to empty
// metadata.
func probeMP3Fallback(path string) Metadata {
	id3tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return Metadata{}
	}
	defer id3tag.Close()

	return metadataFromID3(id3tag)
}

// metadataFromID3 extracts the displayed fields from a parsed ID3v2
// tag.
func metadataFromID3(id3tag *id3v2.Tag) Metadata {
	return Metadata{
		Title:  id3tag.Title(),
		Artist: id3tag.Artist(),
		Album:  id3tag.Album(),
		Lyrics: lyricsFromID3(id3tag),
	}
}

// lyricsFromID3 returns the first unsynchronised lyrics (USLT) frame.
func lyricsFromID3(id3tag *id3v2.Tag) string {
	frames := id3tag.GetFrames(id3tag.CommonID("Unsynchronised lyrics/text transcription"))
	for _, frame := range frames {
		if uslt, ok := frame.(id3v2.UnsynchronisedLyricsFrame); ok {
			return uslt.Lyrics
		}
	}
	return ""
}
