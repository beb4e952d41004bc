package tasks

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/desertthunder/tubelist/internal/models"
	"github.com/desertthunder/tubelist/internal/playlist"
	"github.com/desertthunder/tubelist/internal/services"
	"github.com/desertthunder/tubelist/internal/shared"
)

// Uploader stores an audio file on the companion server.
type Uploader interface {
	Upload(ctx context.Context, s models.Session, filename string, r io.Reader) (models.UploadResult, error)
}

// Result is the outcome of a library operation.
type Result struct {
	Playlists []models.Playlist // authoritative collection after the operation
	Playlist  *models.Playlist  // the playlist the operation targeted, if it exists
	Changed   bool              // false for unknown ids and duplicate videos
	Synced    bool              // the remote store accepted the change
}

// Library exposes the user-facing playlist operations.
type Library struct {
	sync      *Coordinator
	uploader  Uploader
	serverURL string
}

// NewLibrary creates a Library. serverURL resolves relative upload locations.
func NewLibrary(sync *Coordinator, uploader Uploader, serverURL string) *Library {
	return &Library{sync: sync, uploader: uploader, serverURL: serverURL}
}

// Coordinator returns the underlying sync coordinator.
func (l *Library) Coordinator() *Coordinator { return l.sync }

// Playlists loads the user's playlists.
func (l *Library) Playlists(ctx context.Context, s models.Session) []models.Playlist {
	return l.sync.Load(ctx, s)
}

// Playlist loads a single playlist by id.
func (l *Library) Playlist(ctx context.Context, s models.Session, id string) (models.Playlist, bool) {
	return playlist.New(l.sync.Load(ctx, s)).Find(id)
}

// CreatePlaylist adds an empty playlist. A blank name is rejected before anything is loaded.
func (l *Library) CreatePlaylist(ctx context.Context, s models.Session, name string) (Result, error) {
	if strings.TrimSpace(name) == "" {
		return Result{}, shared.ErrEmptyPlaylistName
	}

	var created models.Playlist
	res := l.mutate(ctx, s, "", func(c *playlist.Collection) bool {
		p, err := c.Create(name)
		if err != nil {
			return false
		}
		created = p
		return true
	})
	res.Playlist = l.find(res.Playlists, created.ID)
	return res, nil
}

// RenamePlaylist changes a playlist's name.
func (l *Library) RenamePlaylist(ctx context.Context, s models.Session, id, name string) (Result, error) {
	if strings.TrimSpace(name) == "" {
		return Result{}, shared.ErrEmptyPlaylistName
	}

	return l.mutate(ctx, s, id, func(c *playlist.Collection) bool {
		ok, _ := c.Rename(id, name)
		return ok
	}), nil
}

// DeletePlaylist removes a playlist. Deleting an unknown id is a no-op.
func (l *Library) DeletePlaylist(ctx context.Context, s models.Session, id string) Result {
	return l.mutate(ctx, s, id, func(c *playlist.Collection) bool { return c.Delete(id) })
}

// AddVideo appends v to a playlist. Changed is false for unknown playlists and duplicates.
func (l *Library) AddVideo(ctx context.Context, s models.Session, id string, v models.Video) Result {
	return l.mutate(ctx, s, id, func(c *playlist.Collection) bool { return c.AddVideo(id, v) })
}

// AddSearchResult adds a search hit as a streamed video.
func (l *Library) AddSearchResult(ctx context.Context, s models.Session, id string, r models.SearchResult) Result {
	return l.AddVideo(ctx, s, id, services.StreamedVideo(r))
}

// SetRating stores a clamped rating.
func (l *Library) SetRating(ctx context.Context, s models.Session, id, videoID string, rating int) Result {
	return l.mutate(ctx, s, id, func(c *playlist.Collection) bool { return c.SetRating(id, videoID, rating) })
}

// AdjustRating moves a rating relative to the stored value rather than a caller's snapshot.
func (l *Library) AdjustRating(ctx context.Context, s models.Session, id, videoID string, delta int) Result {
	return l.mutate(ctx, s, id, func(c *playlist.Collection) bool { return c.AdjustRating(id, videoID, delta) })
}

// RemoveVideo removes a video. Removing an unknown video is a no-op.
func (l *Library) RemoveVideo(ctx context.Context, s models.Session, id, videoID string) Result {
	return l.mutate(ctx, s, id, func(c *playlist.Collection) bool { return c.RemoveVideo(id, videoID) })
}

// UploadAudio uploads an mp3 file and adds it to a playlist as local audio.
//
// The playlist must exist before the upload starts; otherwise [shared.ErrPlaylistNotFound] is returned.
func (l *Library) UploadAudio(ctx context.Context, s models.Session, id, filename, title string, r io.Reader) (Result, error) {
	if !strings.EqualFold(filepath.Ext(filename), ".mp3") {
		return Result{}, shared.ErrUnsupportedMedia
	}
	if l.uploader == nil {
		return Result{}, fmt.Errorf("%w: uploads need a server connection", shared.ErrServiceUnavailable)
	}
	if _, ok := l.Playlist(ctx, s, id); !ok {
		return Result{}, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}

	upload, err := l.uploader.Upload(ctx, s, filename, r)
	if err != nil {
		return Result{}, fmt.Errorf("upload failed: %w", err)
	}

	return l.AddVideo(ctx, s, id, services.LocalAudioVideo(upload, title, l.serverURL)), nil
}

// InPlaylists reports, for the loaded collection, which video ids are already saved.
func (l *Library) InPlaylists(ctx context.Context, s models.Session) func(videoID string) bool {
	c := playlist.New(l.sync.Load(ctx, s))
	return c.ContainsVideo
}

func (l *Library) mutate(ctx context.Context, s models.Session, id string, fn func(*playlist.Collection) bool) Result {
	playlists, changed, synced := l.sync.Update(ctx, s, func(current []models.Playlist) ([]models.Playlist, bool) {
		c := playlist.New(current)
		ok := fn(c)
		return c.Playlists(), ok
	})

	return Result{Playlists: playlists, Playlist: l.find(playlists, id), Changed: changed, Synced: synced}
}

func (l *Library) find(playlists []models.Playlist, id string) *models.Playlist {
	if id == "" {
		return nil
	}
	for i := range playlists {
		if playlists[i].ID == id {
			p := playlists[i].Clone()
			return &p
		}
	}
	return nil
}
