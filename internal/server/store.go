package server

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/desertthunder/tubelist/internal/models"
	"github.com/desertthunder/tubelist/internal/shared"
)

// UserStore persists accounts. Usernames are unique.
type UserStore interface {
	// CreateUser fails with [shared.ErrAlreadyExists] when the username is taken.
	CreateUser(ctx context.Context, a models.Account) error
	// GetUser fails with [shared.ErrNotFound] for unknown usernames.
	GetUser(ctx context.Context, username string) (models.Account, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

// PlaylistStore persists each user's full playlist collection.
type PlaylistStore interface {
	// GetPlaylists returns an empty, non-nil slice for users that never saved.
	GetPlaylists(ctx context.Context, username string) ([]models.Playlist, error)
	PutPlaylists(ctx context.Context, username string, playlists []models.Playlist) error
}

// Store is a complete storage backend.
type Store interface {
	UserStore
	PlaylistStore
	Close() error
}

// OpenStore opens the backend selected by config.Server.Storage.
func OpenStore(ctx context.Context, config *shared.Config) (Store, error) {
	switch config.Server.Storage {
	case "", "file":
		return NewFileStore(filepath.Clean(config.Server.DataDir))
	case "redis":
		return NewRedisStore(ctx, config.Redis)
	default:
		return nil, fmt.Errorf("%w: unknown server storage %q", shared.ErrInvalidConfig, config.Server.Storage)
	}
}
