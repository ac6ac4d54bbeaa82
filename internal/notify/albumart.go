//go:build linux

package notify

import "github.com/llehouerou/kanta/internal/mpris"

// FindAlbumArtPath returns the album art path for a track, if any,
// for use as the notification icon.
func FindAlbumArtPath(trackPath string) string {
	return mpris.FindAlbumArt(trackPath)
}
