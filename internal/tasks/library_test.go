package tasks

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/tubelist/internal/models"
	"github.com/desertthunder/tubelist/internal/shared"
	tt "github.com/desertthunder/tubelist/internal/testing"
)

func newTestLibrary(t *testing.T) (*Library, *tt.MemoryRemote, *tt.MockUploader) {
	t.Helper()
	remote := tt.NewMemoryRemote()
	uploader := &tt.MockUploader{Result: models.UploadResult{URL: "/mp3/1-x-demo.mp3", Filename: "1-x-demo.mp3"}}
	coordinator := NewCoordinator(tt.NewMemoryCache(), remote, shared.NewLogger(io.Discard))
	return NewLibrary(coordinator, uploader, "http://127.0.0.1:3000"), remote, uploader
}

func video(id, title string) models.Video {
	return models.Video{VideoID: id, Title: title, URL: "https://www.youtube.com/watch?v=" + id, Type: models.MediaStreamed, Rating: 1}
}

func TestLibraryPlaylists(t *testing.T) {
	ctx := context.Background()
	s := testSession()

	t.Run("CreatePlaylist", func(t *testing.T) {
		lib, remote, _ := newTestLibrary(t)

		res, err := lib.CreatePlaylist(ctx, s, "  Road Trip ")
		require.NoError(t, err)
		require.NotNil(t, res.Playlist)
		assert.Equal(t, "Road Trip", res.Playlist.Name)
		assert.Empty(t, res.Playlist.Videos)
		assert.True(t, res.Changed)
		assert.True(t, res.Synced)
		assert.Len(t, remote.Stored("dana"), 1)
	})

	t.Run("CreatePlaylist rejects blank names", func(t *testing.T) {
		lib, remote, _ := newTestLibrary(t)

		_, err := lib.CreatePlaylist(ctx, s, "   ")
		assert.ErrorIs(t, err, shared.ErrEmptyPlaylistName)
		assert.Equal(t, 0, remote.Gets)
	})

	t.Run("RenamePlaylist", func(t *testing.T) {
		lib, _, _ := newTestLibrary(t)
		created, _ := lib.CreatePlaylist(ctx, s, "Old")

		res, err := lib.RenamePlaylist(ctx, s, created.Playlist.ID, "New")
		require.NoError(t, err)
		assert.Equal(t, "New", res.Playlist.Name)

		res, err = lib.RenamePlaylist(ctx, s, "missing", "New")
		require.NoError(t, err)
		assert.False(t, res.Changed)
		assert.Nil(t, res.Playlist)
	})

	t.Run("DeletePlaylist", func(t *testing.T) {
		lib, remote, _ := newTestLibrary(t)
		created, _ := lib.CreatePlaylist(ctx, s, "Temp")

		res := lib.DeletePlaylist(ctx, s, created.Playlist.ID)
		assert.True(t, res.Changed)
		assert.Empty(t, res.Playlists)
		assert.Empty(t, remote.Stored("dana"))

		puts := remote.Puts
		res = lib.DeletePlaylist(ctx, s, created.Playlist.ID)
		assert.False(t, res.Changed)
		assert.Equal(t, puts, remote.Puts, "no-op delete should not save")
	})

	t.Run("offline changes stay in the cache", func(t *testing.T) {
		lib, remote, _ := newTestLibrary(t)
		remote.SetErrors(errOffline, errOffline)

		res, err := lib.CreatePlaylist(ctx, s, "Offline")
		require.NoError(t, err)
		assert.True(t, res.Changed)
		assert.False(t, res.Synced)

		cached, ok := lib.Coordinator().Cached("dana")
		require.True(t, ok)
		assert.Equal(t, "Offline", cached[0].Name)
	})
}

func TestLibraryVideos(t *testing.T) {
	ctx := context.Background()
	s := testSession()

	setup := func(t *testing.T) (*Library, *tt.MemoryRemote, string) {
		lib, remote, _ := newTestLibrary(t)
		created, err := lib.CreatePlaylist(ctx, s, "Mix")
		require.NoError(t, err)
		return lib, remote, created.Playlist.ID
	}

	t.Run("AddVideo appends and rejects duplicates", func(t *testing.T) {
		lib, _, id := setup(t)

		res := lib.AddVideo(ctx, s, id, video("a", "Alpha"))
		assert.True(t, res.Changed)
		res = lib.AddVideo(ctx, s, id, video("b", "Beta"))
		require.Len(t, res.Playlist.Videos, 2)
		assert.Equal(t, "b", res.Playlist.Videos[1].VideoID)

		res = lib.AddVideo(ctx, s, id, video("a", "Alpha again"))
		assert.False(t, res.Changed)
		assert.Len(t, res.Playlist.Videos, 2)
	})

	t.Run("AddVideo to unknown playlist", func(t *testing.T) {
		lib, _, _ := setup(t)
		res := lib.AddVideo(ctx, s, "missing", video("a", "Alpha"))
		assert.False(t, res.Changed)
		assert.Nil(t, res.Playlist)
	})

	t.Run("AddSearchResult", func(t *testing.T) {
		lib, _, id := setup(t)
		res := lib.AddSearchResult(ctx, s, id, models.SearchResult{VideoID: "xyz", Title: "Found"})
		require.Len(t, res.Playlist.Videos, 1)
		assert.Equal(t, "https://www.youtube.com/watch?v=xyz", res.Playlist.Videos[0].URL)
		assert.Equal(t, 1, res.Playlist.Videos[0].Rating)

		assert.True(t, lib.InPlaylists(ctx, s)("xyz"))
		assert.False(t, lib.InPlaylists(ctx, s)("nope"))
	})

	t.Run("SetRating clamps", func(t *testing.T) {
		lib, remote, id := setup(t)
		lib.AddVideo(ctx, s, id, video("a", "Alpha"))

		res := lib.SetRating(ctx, s, id, "a", 42)
		assert.Equal(t, 10, res.Playlist.Videos[0].Rating)
		res = lib.SetRating(ctx, s, id, "a", -3)
		assert.Equal(t, 1, res.Playlist.Videos[0].Rating)
		assert.Equal(t, 1, remote.Stored("dana")[0].Videos[0].Rating)

		res = lib.SetRating(ctx, s, id, "missing", 5)
		assert.False(t, res.Changed)
	})

	t.Run("AdjustRating starts from the stored rating", func(t *testing.T) {
		lib, remote, id := setup(t)
		lib.AddVideo(ctx, s, id, video("a", "Alpha"))

		lib.AdjustRating(ctx, s, id, "a", 1)
		res := lib.AdjustRating(ctx, s, id, "a", 1)
		assert.True(t, res.Changed)
		assert.Equal(t, 3, res.Playlist.Videos[0].Rating)

		lib.SetRating(ctx, s, id, "a", 7)
		res = lib.AdjustRating(ctx, s, id, "a", -1)
		assert.Equal(t, 6, res.Playlist.Videos[0].Rating)
		assert.Equal(t, 6, remote.Stored("dana")[0].Videos[0].Rating)

		res = lib.AdjustRating(ctx, s, id, "a", 20)
		assert.Equal(t, 10, res.Playlist.Videos[0].Rating)
		res = lib.AdjustRating(ctx, s, id, "a", -20)
		assert.Equal(t, 1, res.Playlist.Videos[0].Rating)

		res = lib.AdjustRating(ctx, s, id, "missing", 1)
		assert.False(t, res.Changed)
	})

	t.Run("RemoveVideo", func(t *testing.T) {
		lib, _, id := setup(t)
		lib.AddVideo(ctx, s, id, video("a", "Alpha"))
		lib.AddVideo(ctx, s, id, video("b", "Beta"))

		res := lib.RemoveVideo(ctx, s, id, "a")
		assert.True(t, res.Changed)
		require.Len(t, res.Playlist.Videos, 1)
		assert.Equal(t, "b", res.Playlist.Videos[0].VideoID)

		res = lib.RemoveVideo(ctx, s, id, "a")
		assert.False(t, res.Changed)
	})
}

func TestLibraryUploadAudio(t *testing.T) {
	ctx := context.Background()
	s := testSession()

	t.Run("uploads and adds local audio", func(t *testing.T) {
		lib, _, uploader := newTestLibrary(t)
		created, _ := lib.CreatePlaylist(ctx, s, "Demos")

		res, err := lib.UploadAudio(ctx, s, created.Playlist.ID, "demo.mp3", "", strings.NewReader("ID3"))
		require.NoError(t, err)
		assert.Equal(t, "demo.mp3", uploader.Name)
		assert.Equal(t, []byte("ID3"), uploader.Body)

		require.Len(t, res.Playlist.Videos, 1)
		v := res.Playlist.Videos[0]
		assert.Equal(t, models.MediaLocalAudio, v.Type)
		assert.Equal(t, "http://127.0.0.1:3000/mp3/1-x-demo.mp3", v.URL)
		assert.True(t, strings.HasPrefix(v.VideoID, "mp3_"))
	})

	t.Run("rejects non mp3 files", func(t *testing.T) {
		lib, _, uploader := newTestLibrary(t)
		created, _ := lib.CreatePlaylist(ctx, s, "Demos")

		_, err := lib.UploadAudio(ctx, s, created.Playlist.ID, "demo.wav", "", strings.NewReader(""))
		assert.ErrorIs(t, err, shared.ErrUnsupportedMedia)
		assert.Empty(t, uploader.Name)
	})

	t.Run("unknown playlist", func(t *testing.T) {
		lib, _, uploader := newTestLibrary(t)

		_, err := lib.UploadAudio(ctx, s, "missing", "demo.mp3", "", strings.NewReader(""))
		assert.ErrorIs(t, err, shared.ErrPlaylistNotFound)
		assert.Empty(t, uploader.Name)
	})

	t.Run("upload failure", func(t *testing.T) {
		lib, _, uploader := newTestLibrary(t)
		created, _ := lib.CreatePlaylist(ctx, s, "Demos")
		uploader.Err = errors.New("too large")

		_, err := lib.UploadAudio(ctx, s, created.Playlist.ID, "demo.mp3", "", strings.NewReader(""))
		assert.ErrorContains(t, err, "too large")

		p, ok := lib.Playlist(ctx, s, created.Playlist.ID)
		require.True(t, ok)
		assert.Empty(t, p.Videos)
	})

	t.Run("no uploader", func(t *testing.T) {
		coordinator := NewCoordinator(tt.NewMemoryCache(), nil, shared.NewLogger(io.Discard))
		lib := NewLibrary(coordinator, nil, "")

		_, err := lib.UploadAudio(ctx, s, "any", "demo.mp3", "", strings.NewReader(""))
		assert.ErrorIs(t, err, shared.ErrServiceUnavailable)
	})
}
