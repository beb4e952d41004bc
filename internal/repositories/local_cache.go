package repositories

import (
	"github.com/charmbracelet/log"

	"github.com/desertthunder/tubelist/internal/models"
)

// LocalCache adapts [PlaylistCacheRepository] to the sync coordinator's local store.
//
// Reads and writes never return errors: storage failures are logged and a read
// failure looks like an empty cache.
type LocalCache struct {
	repo   *PlaylistCacheRepository
	logger *log.Logger
}

// NewLocalCache wraps repo, logging failures to logger.
func NewLocalCache(repo *PlaylistCacheRepository, logger *log.Logger) *LocalCache {
	return &LocalCache{repo: repo, logger: logger}
}

// Read returns the cached playlists for username and whether an entry existed.
func (c *LocalCache) Read(username string) ([]models.Playlist, bool) {
	playlists, ok, err := c.repo.Get(username)
	if err != nil {
		c.logger.Error("local cache read failed", "username", username, "error", err)
		return []models.Playlist{}, false
	}
	return playlists, ok
}

// Write replaces the cached playlists for username.
func (c *LocalCache) Write(username string, playlists []models.Playlist) {
	if err := c.repo.Put(username, playlists); err != nil {
		c.logger.Error("local cache write failed", "username", username, "error", err)
	}
}
