package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrSongNotFound = errors.New("song not found")

// Song is a sheet a chat saved together with its preferred transposition
type Song struct {
	ID          int64
	ChatID      int64
	URL         string
	Artist      string
	Title       string
	OriginalKey sql.NullString
	Request     sql.NullString
	SavedAt     time.Time
	Counter     int
}

const songColumns = `id, chat_id, url, artist, title, original_key, request, saved_at, counter`

// SaveSong stores a song for a chat. Saving the same URL again updates the
// stored request and keeps the id.
func (d *DB) SaveSong(ctx context.Context, song Song) (Song, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	song.SavedAt = d.now().UTC().Truncate(time.Second)
	query := `
		INSERT INTO songbook (chat_id, url, artist, title, original_key, request, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (chat_id, url) DO UPDATE SET
			request = excluded.request,
			original_key = excluded.original_key,
			saved_at = excluded.saved_at
	`
	_, err := d.conn.ExecContext(ctx, query,
		song.ChatID,
		song.URL,
		song.Artist,
		song.Title,
		song.OriginalKey,
		song.Request,
		song.SavedAt.Unix(),
	)
	if err != nil {
		return Song{}, fmt.Errorf("failed to save song: %w", err)
	}

	row := d.conn.QueryRowContext(ctx,
		`SELECT `+songColumns+` FROM songbook WHERE chat_id = ? AND url = ?`,
		song.ChatID, song.URL)
	return scanSong(row)
}

// ListSongs returns the songbook of a chat in the order songs were first saved
func (d *DB) ListSongs(ctx context.Context, chatID int64) ([]Song, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	rows, err := d.conn.QueryContext(ctx,
		`SELECT `+songColumns+` FROM songbook WHERE chat_id = ? ORDER BY id`, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	var songs []Song
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, err
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration: %w", err)
	}
	return songs, nil
}

func (d *DB) FindSongByID(ctx context.Context, chatID, id int64) (Song, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	row := d.conn.QueryRowContext(ctx,
		`SELECT `+songColumns+` FROM songbook WHERE chat_id = ? AND id = ?`, chatID, id)
	return scanSong(row)
}

func (d *DB) IncrementSongCounter(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := d.conn.ExecContext(ctx, `UPDATE songbook SET counter = counter + 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to increment song counter: %w", err)
	}
	return checkAffected(result, id)
}

func (d *DB) DeleteSong(ctx context.Context, chatID, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := d.conn.ExecContext(ctx, `DELETE FROM songbook WHERE chat_id = ? AND id = ?`, chatID, id)
	if err != nil {
		return fmt.Errorf("failed to delete song: %w", err)
	}
	return checkAffected(result, id)
}

// FormatSongName renders "Artist - Title", with the saved request in brackets
func FormatSongName(song Song) string {
	var parts []string
	if song.Artist != "" {
		parts = append(parts, song.Artist+" - ")
	}
	parts = append(parts, song.Title)
	if song.Request.Valid && song.Request.String != "" {
		parts = append(parts, fmt.Sprintf(" [%s]", song.Request.String))
	}

	return strings.TrimSpace(strings.Join(parts, ""))
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSong(row scanner) (Song, error) {
	var song Song
	var savedAt int64
	err := row.Scan(&song.ID, &song.ChatID, &song.URL, &song.Artist, &song.Title,
		&song.OriginalKey, &song.Request, &savedAt, &song.Counter)
	if errors.Is(err, sql.ErrNoRows) {
		return Song{}, ErrSongNotFound
	}
	if err != nil {
		return Song{}, fmt.Errorf("error scanning row: %w", err)
	}
	song.SavedAt = time.Unix(savedAt, 0).UTC()
	return song, nil
}

func checkAffected(result sql.Result, id int64) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no song with id %d: %w", id, ErrSongNotFound)
	}
	return nil
}
