// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/tubelist/internal/models"
)

// MemoryRemote is an in-memory stand-in for the companion server's playlist endpoints.
//
// Set GetErr or PutErr to simulate an unreachable server.
type MemoryRemote struct {
	mu     sync.Mutex
	data   map[string][]models.Playlist
	GetErr error
	PutErr error
	Gets   int
	Puts   int
	// OnPut, when set, runs before a put is recorded. It is called without the lock held.
	OnPut func(username string, playlists []models.Playlist)
}

// NewMemoryRemote returns an empty remote store.
func NewMemoryRemote() *MemoryRemote {
	return &MemoryRemote{data: make(map[string][]models.Playlist)}
}

// Seed stores playlists for username without counting a put.
func (m *MemoryRemote) Seed(username string, playlists []models.Playlist) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[username] = models.ClonePlaylists(playlists)
}

// Stored returns what the remote currently holds for username.
func (m *MemoryRemote) Stored(username string) []models.Playlist {
	m.mu.Lock()
	defer m.mu.Unlock()
	return models.ClonePlaylists(m.data[username])
}

func (m *MemoryRemote) GetPlaylists(ctx context.Context, s models.Session) ([]models.Playlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Gets++
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	return models.ClonePlaylists(m.data[s.Username]), nil
}

func (m *MemoryRemote) PutPlaylists(ctx context.Context, s models.Session, playlists []models.Playlist) error {
	if m.OnPut != nil {
		m.OnPut(s.Username, playlists)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Puts++
	if m.PutErr != nil {
		return m.PutErr
	}
	m.data[s.Username] = models.ClonePlaylists(playlists)
	return nil
}

// SetErrors updates the simulated failures under the lock.
func (m *MemoryRemote) SetErrors(get, put error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetErr, m.PutErr = get, put
}

// MemoryCache is an in-memory local cache.
type MemoryCache struct {
	mu     sync.Mutex
	data   map[string][]models.Playlist
	Writes int
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{data: make(map[string][]models.Playlist)}
}

func (m *MemoryCache) Read(username string) ([]models.Playlist, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.data[username]
	if !ok {
		return []models.Playlist{}, false
	}
	return models.ClonePlaylists(p), true
}

func (m *MemoryCache) Write(username string, playlists []models.Playlist) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Writes++
	m.data[username] = models.ClonePlaylists(playlists)
}

// MockUploader records uploads and returns a fixed location.
type MockUploader struct {
	Result models.UploadResult
	Err    error
	Body   []byte
	Name   string
}

func (m *MockUploader) Upload(ctx context.Context, s models.Session, filename string, r io.Reader) (models.UploadResult, error) {
	if m.Err != nil {
		return models.UploadResult{}, m.Err
	}
	m.Name = filename
	m.Body, _ = io.ReadAll(r)
	return m.Result, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// StaticSearcher returns the same results for every query and records what was asked.
type StaticSearcher struct {
	Results []models.SearchResult
	Err     error
	Queries []string
}

func (s *StaticSearcher) Search(ctx context.Context, query string, limit int64) ([]models.SearchResult, error) {
	s.Queries = append(s.Queries, query)
	if s.Err != nil {
		return nil, s.Err
	}
	if limit > 0 && int(limit) < len(s.Results) {
		return s.Results[:limit], nil
	}
	return s.Results, nil
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
