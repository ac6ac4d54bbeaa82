//go:build !linux

package notify

// FindAlbumArtPath always returns empty on non-Linux platforms.
func FindAlbumArtPath(_ string) string {
	return ""
}
