package state

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	dbutil "github.com/llehouerou/tideline/internal/db"
	"github.com/llehouerou/tideline/internal/playback"
	"github.com/llehouerou/tideline/internal/playlist"
)

// QueueState represents the saved queue.
type QueueState struct {
	Tracks     []playlist.Track // natural order
	CurrentID  string           // empty when nothing had started
	RepeatMode playback.RepeatMode
	Shuffle    bool
}

// Current returns the saved current track, if it is still in Tracks.
func (q QueueState) Current() *playlist.Track {
	if q.CurrentID == "" {
		return nil
	}
	for _, t := range q.Tracks {
		if t.ID == q.CurrentID {
			return &t
		}
	}
	return nil
}

// getQueue returns nil if no queue was ever saved.
func getQueue(ctx context.Context, db *sql.DB) (*QueueState, error) {
	var currentID sql.NullString
	var repeat string
	var shuffle bool
	row := db.QueryRowContext(ctx, `SELECT current_id, repeat_mode, shuffle FROM queue_state WHERE id = 1`)
	err := row.Scan(&currentID, &repeat, &shuffle)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // no saved queue is not an error
	}
	if err != nil {
		return nil, errors.Wrap(err, "read queue state")
	}
	mode, err := playback.ParseRepeatMode(repeat)
	if err != nil {
		mode = playback.RepeatOff
	}

	rows, err := db.QueryContext(ctx, `
		SELECT track_id, path, title, artist, album, track_number, duration_ms
		FROM queue_tracks
		ORDER BY position
	`)
	if err != nil {
		return nil, errors.Wrap(err, "read queue tracks")
	}
	defer rows.Close()

	var tracks []playlist.Track
	for rows.Next() {
		var t playlist.Track
		var artist, album sql.NullString
		var trackNumber sql.NullInt64
		var durationMs int64

		err := rows.Scan(&t.ID, &t.Path, &t.Title, &artist, &album, &trackNumber, &durationMs)
		if err != nil {
			return nil, errors.Wrap(err, "scan queue track")
		}

		t.Artist = dbutil.NullStringValue(artist)
		t.Album = dbutil.NullStringValue(album)
		t.TrackNumber = int(dbutil.NullInt64Value(trackNumber))
		t.Duration = time.Duration(durationMs) * time.Millisecond
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "read queue tracks")
	}

	return &QueueState{
		Tracks:     tracks,
		CurrentID:  dbutil.NullStringValue(currentID),
		RepeatMode: mode,
		Shuffle:    shuffle,
	}, nil
}

func saveQueue(ctx context.Context, sqlDB *sql.DB, state QueueState) error {
	return dbutil.WithTx(ctx, sqlDB, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM queue_tracks`); err != nil {
			return err
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO queue_state (id, current_id, repeat_mode, shuffle, saved_at)
			VALUES (1, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				current_id = excluded.current_id,
				repeat_mode = excluded.repeat_mode,
				shuffle = excluded.shuffle,
				saved_at = excluded.saved_at
		`, dbutil.NullString(state.CurrentID), strings.ToLower(state.RepeatMode.String()), state.Shuffle, time.Now().Unix())
		if err != nil {
			return err
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO queue_tracks (position, track_id, path, title, artist, album, track_number, duration_ms)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, t := range state.Tracks {
			_, err = stmt.ExecContext(ctx, i, t.ID, t.Path, t.Title,
				dbutil.NullString(t.Artist), dbutil.NullString(t.Album),
				dbutil.NullInt64(int64(t.TrackNumber)), t.Duration.Milliseconds())
			if err != nil {
				return errors.Wrapf(err, "insert track %s", t.ID)
			}
		}
		return nil
	})
}
