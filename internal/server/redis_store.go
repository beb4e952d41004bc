package server

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/redis/go-redis/v9"

	"github.com/desertthunder/tubelist/internal/models"
	"github.com/desertthunder/tubelist/internal/shared"
)

// RedisStore keeps accounts in the hash <prefix>:users and each user's playlists under
// <prefix>:playlists:<username>.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisStore connects to redis and verifies the connection.
func NewRedisStore(ctx context.Context, config shared.RedisConfig) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("%w: redis at %s: %v", shared.ErrServiceUnavailable, config.Addr, err)
	}

	return NewRedisStoreWithClient(rdb, config.Prefix), nil
}

// NewRedisStoreWithClient wraps an existing client. The prefix defaults to "tubelist".
func NewRedisStoreWithClient(rdb *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "tubelist"
	}
	return &RedisStore{rdb: rdb, prefix: prefix}
}

func (s *RedisStore) usersKey() string { return s.prefix + ":users" }

func (s *RedisStore) playlistsKey(username string) string { return s.prefix + ":playlists:" + username }

func (s *RedisStore) CreateUser(ctx context.Context, a models.Account) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to encode account: %w", err)
	}

	ok, err := s.rdb.HSetNX(ctx, s.usersKey(), a.Username, data).Result()
	if err != nil {
		return fmt.Errorf("failed to store account: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: username %s", shared.ErrAlreadyExists, a.Username)
	}
	return nil
}

func (s *RedisStore) GetUser(ctx context.Context, username string) (models.Account, error) {
	data, err := s.rdb.HGet(ctx, s.usersKey(), username).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Account{}, fmt.Errorf("%w: user %s", shared.ErrNotFound, username)
	}
	if err != nil {
		return models.Account{}, fmt.Errorf("failed to load account: %w", err)
	}

	var a models.Account
	if err := json.Unmarshal(data, &a); err != nil {
		return models.Account{}, fmt.Errorf("failed to decode account %s: %w", username, err)
	}
	return a, nil
}

// ListUsers returns profiles ordered by registration time.
func (s *RedisStore) ListUsers(ctx context.Context) ([]models.User, error) {
	all, err := s.rdb.HGetAll(ctx, s.usersKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	accounts := make([]models.Account, 0, len(all))
	for username, data := range all {
		var a models.Account
		if err := json.Unmarshal([]byte(data), &a); err != nil {
			return nil, fmt.Errorf("failed to decode account %s: %w", username, err)
		}
		accounts = append(accounts, a)
	}

	slices.SortFunc(accounts, func(a, b models.Account) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Username, b.Username)
	})

	users := make([]models.User, 0, len(accounts))
	for _, a := range accounts {
		users = append(users, a.User)
	}
	return users, nil
}

func (s *RedisStore) GetPlaylists(ctx context.Context, username string) ([]models.Playlist, error) {
	data, err := s.rdb.Get(ctx, s.playlistsKey(username)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []models.Playlist{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load playlists: %w", err)
	}

	var playlists []models.Playlist
	if err := json.Unmarshal(data, &playlists); err != nil {
		return nil, fmt.Errorf("failed to decode playlists for %s: %w", username, err)
	}
	return models.ClonePlaylists(playlists), nil
}

// PutPlaylists replaces the collection with a single SET.
func (s *RedisStore) PutPlaylists(ctx context.Context, username string, playlists []models.Playlist) error {
	data, err := json.Marshal(models.ClonePlaylists(playlists))
	if err != nil {
		return fmt.Errorf("failed to encode playlists: %w", err)
	}
	if err := s.rdb.Set(ctx, s.playlistsKey(username), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store playlists: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error { return s.rdb.Close() }
