package tasks

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/tubelist/internal/models"
)

// RemoteStore is the authoritative, possibly unreachable playlist store.
type RemoteStore interface {
	GetPlaylists(ctx context.Context, s models.Session) ([]models.Playlist, error)
	PutPlaylists(ctx context.Context, s models.Session, playlists []models.Playlist) error
}

// LocalStore is the device cache. It never reports errors.
type LocalStore interface {
	Read(username string) ([]models.Playlist, bool)
	Write(username string, playlists []models.Playlist)
}

// Coordinator merges the local cache and the remote store behind one read and one write.
type Coordinator struct {
	local  LocalStore
	remote RemoteStore
	logger *log.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewCoordinator creates a Coordinator. A nil remote behaves as permanently unreachable.
func NewCoordinator(local LocalStore, remote RemoteStore, logger *log.Logger) *Coordinator {
	return &Coordinator{
		local:  local,
		remote: remote,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}
}

// Load returns the user's playlists, preferring the remote copy.
func (c *Coordinator) Load(ctx context.Context, s models.Session) []models.Playlist {
	unlock := c.lock(s.Username)
	defer unlock()
	return c.load(ctx, s)
}

// Save writes playlists to the cache, then to the remote store, and reports whether the remote write succeeded.
func (c *Coordinator) Save(ctx context.Context, s models.Session, playlists []models.Playlist) bool {
	unlock := c.lock(s.Username)
	defer unlock()
	return c.save(ctx, s, playlists)
}

// Update runs fn against a freshly loaded copy and saves the result when fn reports a change.
// The whole cycle holds the user's lock.
func (c *Coordinator) Update(
	ctx context.Context,
	s models.Session,
	fn func(playlists []models.Playlist) ([]models.Playlist, bool),
) (playlists []models.Playlist, changed, synced bool) {
	unlock := c.lock(s.Username)
	defer unlock()

	playlists, changed = fn(c.load(ctx, s))
	if !changed {
		return playlists, false, false
	}
	return playlists, true, c.save(ctx, s, playlists)
}

// Cached returns the local copy without contacting the remote store.
func (c *Coordinator) Cached(username string) ([]models.Playlist, bool) {
	return c.local.Read(username)
}

func (c *Coordinator) load(ctx context.Context, s models.Session) []models.Playlist {
	if c.remote != nil {
		playlists, err := c.remote.GetPlaylists(ctx, s)
		if err == nil {
			playlists = models.ClonePlaylists(playlists)
			c.local.Write(s.Username, playlists)
			return playlists
		}
		c.logger.Warn("remote unavailable, using cached playlists", "username", s.Username, "error", err)
	}

	cached, _ := c.local.Read(s.Username)
	return models.ClonePlaylists(cached)
}

func (c *Coordinator) save(ctx context.Context, s models.Session, playlists []models.Playlist) bool {
	playlists = models.ClonePlaylists(playlists)
	c.local.Write(s.Username, playlists)

	if c.remote == nil {
		return false
	}
	if err := c.remote.PutPlaylists(ctx, s, playlists); err != nil {
		c.logger.Warn("remote save failed, playlists kept locally", "username", s.Username, "error", err)
		return false
	}
	return true
}

// lock acquires the per-username mutex and returns its release.
func (c *Coordinator) lock(username string) func() {
	c.mu.Lock()
	l, ok := c.locks[username]
	if !ok {
		l = &sync.Mutex{}
		c.locks[username] = l
	}
	c.mu.Unlock()

	l.Lock()
	return l.Unlock
}
