package playlist

import (
	"bufio"
	"io"
	"os"
	"strings"
)

// Playlist files are plain UTF-8 text, one file path per line, no
// header and no escaping. A path containing a literal newline is not
// representable; that is an accepted limitation of the format.

// WritePaths writes the paths of the given tracks, one per line.
func WritePaths(w io.Writer, tracks []Track) error {
	paths := make([]string, len(tracks))
	for i, t := range tracks {
		paths[i] = t.Path
	}
	_, err := io.WriteString(w, strings.Join(paths, "\n"))
	return err
}

// ReadPaths reads one path per line, skipping blank lines.
func ReadPaths(r io.Reader) ([]string, error) {
	var paths []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		paths = append(paths, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return paths, nil
}

// ExportFile writes the playlist's track paths to a file.
func (p *Playlist) ExportFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WritePaths(f, p.tracks); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadPathsFile reads track paths from a playlist file.
func ReadPathsFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadPaths(f)
}
