package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/desertthunder/tubelist/internal/models"
)

// PlaylistCacheRepository stores each user's full playlist collection as a single JSON row.
type PlaylistCacheRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewPlaylistCacheRepository creates a new PlaylistCacheRepository with the given database connection
func NewPlaylistCacheRepository(db *sql.DB) *PlaylistCacheRepository {
	return &PlaylistCacheRepository{db: db, now: time.Now}
}

// Get returns the cached playlists for username. ok is false when nothing has been cached yet.
func (r *PlaylistCacheRepository) Get(username string) (playlists []models.Playlist, ok bool, err error) {
	var payload string
	err = r.db.QueryRow(`SELECT payload FROM playlist_cache WHERE username = ?`, username).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read playlist cache: %w", err)
	}

	if err := json.Unmarshal([]byte(payload), &playlists); err != nil {
		return nil, false, fmt.Errorf("failed to decode playlist cache for %s: %w", username, err)
	}
	if playlists == nil {
		playlists = []models.Playlist{}
	}
	return playlists, true, nil
}

// Put replaces the cached playlists for username.
func (r *PlaylistCacheRepository) Put(username string, playlists []models.Playlist) error {
	if playlists == nil {
		playlists = []models.Playlist{}
	}

	payload, err := json.Marshal(playlists)
	if err != nil {
		return fmt.Errorf("failed to encode playlists: %w", err)
	}

	query := `
		INSERT INTO playlist_cache (username, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(username) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
	`
	if _, err := r.db.Exec(query, username, string(payload), r.now().UTC()); err != nil {
		return fmt.Errorf("failed to write playlist cache: %w", err)
	}
	return nil
}

// UpdatedAt returns when the cache for username was last written.
func (r *PlaylistCacheRepository) UpdatedAt(username string) (time.Time, error) {
	var ts time.Time
	err := r.db.QueryRow(`SELECT updated_at FROM playlist_cache WHERE username = ?`, username).Scan(&ts)
	if err != nil {
		return time.Time{}, notFound(err, "playlist cache for "+username)
	}
	return ts, nil
}

// Delete drops the cached playlists for username. Deleting an absent entry is not an error.
func (r *PlaylistCacheRepository) Delete(username string) error {
	if _, err := r.db.Exec(`DELETE FROM playlist_cache WHERE username = ?`, username); err != nil {
		return fmt.Errorf("failed to delete playlist cache: %w", err)
	}
	return nil
}
