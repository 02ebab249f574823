package playlist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound indicates the requested playlist or item does not exist.
var ErrNotFound = errors.New("playlist not found")

// Service provides playlist persistence operations.
type Service struct {
	db *sql.DB
}

// NewService creates a playlist service.
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// Create inserts a new empty playlist and returns it.
func (s *Service) Create(ctx context.Context, name string) (*Playlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("playlist name is required")
	}

	now := time.Now().UTC()
	p := &Playlist{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO playlists (id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?)
	`, p.ID, p.Name, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("creating playlist: %w", err)
	}
	return p, nil
}

// List returns all playlists ordered by creation time, newest first.
func (s *Service) List(ctx context.Context) ([]Playlist, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.created_at, p.updated_at,
			(SELECT COUNT(*) FROM playlist_items i WHERE i.playlist_id = p.id)
		FROM playlists p ORDER BY p.created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("listing playlists: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var playlists []Playlist
	for rows.Next() {
		var p Playlist
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt, &p.ItemCount); err != nil {
			return nil, fmt.Errorf("scanning playlist: %w", err)
		}
		playlists = append(playlists, p)
	}
	return playlists, rows.Err()
}

// Get retrieves one playlist by id.
func (s *Service) Get(ctx context.Context, id string) (*Playlist, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT p.id, p.name, p.created_at, p.updated_at,
			(SELECT COUNT(*) FROM playlist_items i WHERE i.playlist_id = p.id)
		FROM playlists p WHERE p.id = ?
	`, id)

	var p Playlist
	err := row.Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt, &p.ItemCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting playlist: %w", err)
	}
	return &p, nil
}

// Rename updates a playlist's name.
func (s *Service) Rename(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("playlist name is required")
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE playlists SET name = ?, updated_at = ? WHERE id = ?
	`, name, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("renaming playlist: %w", err)
	}
	return requireRow(result)
}

// Delete removes a playlist; its items cascade.
func (s *Service) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM playlists WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting playlist: %w", err)
	}
	return requireRow(result)
}

// Items returns a playlist's items in playback order.
func (s *Service) Items(ctx context.Context, playlistID string) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, playlist_id, media_id, title, url, thumbnail,
			duration_seconds, channel_name, position, added_at
		FROM playlist_items WHERE playlist_id = ? ORDER BY position
	`, playlistID)
	if err != nil {
		return nil, fmt.Errorf("listing playlist items: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.PlaylistID, &it.MediaID, &it.Title, &it.URL,
			&it.Thumbnail, &it.DurationSeconds, &it.ChannelName, &it.Position, &it.AddedAt); err != nil {
			return nil, fmt.Errorf("scanning playlist item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// AddItem appends one item at the end of a playlist.
func (s *Service) AddItem(ctx context.Context, playlistID string, item Item) (*Item, error) {
	if item.MediaID == "" {
		return nil, fmt.Errorf("media id is required")
	}

	if _, err := s.Get(ctx, playlistID); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var next int
	row := tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(position), -1) + 1 FROM playlist_items WHERE playlist_id = ?
	`, playlistID)
	if err := row.Scan(&next); err != nil {
		return nil, fmt.Errorf("computing item position: %w", err)
	}

	item.ID = uuid.NewString()
	item.PlaylistID = playlistID
	item.Position = next
	item.AddedAt = time.Now().UTC()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO playlist_items
			(id, playlist_id, media_id, title, url, thumbnail, duration_seconds, channel_name, position, added_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, item.ID, item.PlaylistID, item.MediaID, item.Title, item.URL, item.Thumbnail,
		item.DurationSeconds, item.ChannelName, item.Position, item.AddedAt)
	if err != nil {
		return nil, fmt.Errorf("adding playlist item: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE playlists SET updated_at = ? WHERE id = ?
	`, item.AddedAt, playlistID); err != nil {
		return nil, fmt.Errorf("touching playlist: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing item: %w", err)
	}
	return &item, nil
}

// RemoveItem deletes one item from a playlist.
func (s *Service) RemoveItem(ctx context.Context, playlistID, itemID string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM playlist_items WHERE id = ? AND playlist_id = ?
	`, itemID, playlistID)
	if err != nil {
		return fmt.Errorf("removing playlist item: %w", err)
	}
	return requireRow(result)
}

// requireRow converts a zero-row write into ErrNotFound.
func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
