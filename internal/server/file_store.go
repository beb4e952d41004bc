package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/desertthunder/tubelist/internal/models"
	"github.com/desertthunder/tubelist/internal/shared"
)

const usersFile = "users.json"

// FileStore keeps accounts in users.json and each user's playlists in playlists/<username>.json.
//
// Writes go to a temp file that is renamed into place, so readers never see a partial document.
// Playlist writes for different users never contend.
type FileStore struct {
	dir string

	usersMu sync.Mutex

	mu    sync.Mutex
	locks map[string]*sync.RWMutex
}

// NewFileStore creates the data directory layout under dir.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Join(dir, "playlists"), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	return &FileStore{dir: dir, locks: make(map[string]*sync.RWMutex)}, nil
}

func (s *FileStore) CreateUser(ctx context.Context, a models.Account) error {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	accounts, err := s.readAccounts()
	if err != nil {
		return err
	}
	if slices.ContainsFunc(accounts, func(e models.Account) bool { return e.Username == a.Username }) {
		return fmt.Errorf("%w: username %s", shared.ErrAlreadyExists, a.Username)
	}

	return s.writeJSON(filepath.Join(s.dir, usersFile), append(accounts, a))
}

func (s *FileStore) GetUser(ctx context.Context, username string) (models.Account, error) {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	accounts, err := s.readAccounts()
	if err != nil {
		return models.Account{}, err
	}
	i := slices.IndexFunc(accounts, func(e models.Account) bool { return e.Username == username })
	if i < 0 {
		return models.Account{}, fmt.Errorf("%w: user %s", shared.ErrNotFound, username)
	}
	return accounts[i], nil
}

func (s *FileStore) ListUsers(ctx context.Context) ([]models.User, error) {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	accounts, err := s.readAccounts()
	if err != nil {
		return nil, err
	}
	users := make([]models.User, 0, len(accounts))
	for _, a := range accounts {
		users = append(users, a.User)
	}
	return users, nil
}

func (s *FileStore) GetPlaylists(ctx context.Context, username string) ([]models.Playlist, error) {
	l := s.lock(username)
	l.RLock()
	defer l.RUnlock()

	data, err := os.ReadFile(s.playlistPath(username))
	if errors.Is(err, fs.ErrNotExist) {
		return []models.Playlist{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read playlists: %w", err)
	}

	var playlists []models.Playlist
	if err := json.Unmarshal(data, &playlists); err != nil {
		return nil, fmt.Errorf("failed to decode playlists for %s: %w", username, err)
	}
	return models.ClonePlaylists(playlists), nil
}

func (s *FileStore) PutPlaylists(ctx context.Context, username string, playlists []models.Playlist) error {
	l := s.lock(username)
	l.Lock()
	defer l.Unlock()

	return s.writeJSON(s.playlistPath(username), models.ClonePlaylists(playlists))
}

// Close is a no-op.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) readAccounts() ([]models.Account, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, usersFile))
	if errors.Is(err, fs.ErrNotExist) {
		return []models.Account{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}

	var accounts []models.Account
	if err := json.Unmarshal(data, &accounts); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return accounts, nil
}

func (s *FileStore) playlistPath(username string) string {
	return filepath.Join(s.dir, "playlists", url.PathEscape(username)+".json")
}

// writeJSON replaces path atomically.
func (s *FileStore) writeJSON(path string, v any) error {
	data, err := shared.MarshalJSON(v, true)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (s *FileStore) lock(username string) *sync.RWMutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[username]
	if !ok {
		l = &sync.RWMutex{}
		s.locks[username] = l
	}
	return l
}
