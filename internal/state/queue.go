package state

import (
	"database/sql"
	"errors"
	"time"

	dbutil "github.com/llehouerou/kanta/internal/db"
	"github.com/llehouerou/kanta/internal/playlist"
)

// QueueState is the persisted playlist content and cursor.
type QueueState struct {
	CurrentIndex int
	Tracks       []playlist.Track
}

// GetQueue returns the saved queue. A database with no saved queue
// yields an empty queue with no cursor.
func (m *Manager) GetQueue() (*QueueState, error) {
	var currentIndex int
	row := m.db.QueryRow(`SELECT current_index FROM player_state WHERE id = 1`)
	err := row.Scan(&currentIndex)
	if errors.Is(err, sql.ErrNoRows) {
		return &QueueState{CurrentIndex: -1}, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := m.db.Query(`
		SELECT path, title, artist, album, lyrics, duration_ms
		FROM queue_tracks
		ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tracks []playlist.Track
	for rows.Next() {
		var t playlist.Track
		var title, artist, album, lyrics sql.NullString
		var durationMS sql.NullInt64

		if err := rows.Scan(&t.Path, &title, &artist, &album, &lyrics, &durationMS); err != nil {
			return nil, err
		}

		t.Title = dbutil.NullStringValue(title)
		t.Artist = dbutil.NullStringValue(artist)
		t.Album = dbutil.NullStringValue(album)
		t.Lyrics = dbutil.NullStringValue(lyrics)
		t.Duration = time.Duration(dbutil.NullInt64Value(durationMS)) * time.Millisecond
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if currentIndex >= len(tracks) {
		currentIndex = -1
	}

	return &QueueState{
		CurrentIndex: currentIndex,
		Tracks:       tracks,
	}, nil
}

// SaveQueue replaces the saved queue with the given tracks and cursor.
func (m *Manager) SaveQueue(state QueueState) error {
	return dbutil.WithTx(m.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM queue_tracks`); err != nil {
			return err
		}

		_, err := tx.Exec(`
			INSERT INTO player_state (id, current_index)
			VALUES (1, ?)
			ON CONFLICT(id) DO UPDATE SET
				current_index = excluded.current_index
		`, state.CurrentIndex)
		if err != nil {
			return err
		}

		stmt, err := tx.Prepare(`
			INSERT INTO queue_tracks (position, path, title, artist, album, lyrics, duration_ms)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, t := range state.Tracks {
			_, err = stmt.Exec(i, t.Path, t.Title, t.Artist, t.Album, t.Lyrics, t.Duration.Milliseconds())
			if err != nil {
				return err
			}
		}
		return nil
	})
}
