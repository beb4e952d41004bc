package ui

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/tubelist/internal/models"
	"github.com/desertthunder/tubelist/internal/shared"
	"github.com/desertthunder/tubelist/internal/tasks"
	tt "github.com/desertthunder/tubelist/internal/testing"
	"github.com/desertthunder/tubelist/internal/view"
)

var session = models.Session{User: models.User{Username: "dana"}, Token: "t"}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T, opener func(string) error) (*Model, *tt.MemoryRemote) {
	t.Helper()

	remote := tt.NewMemoryRemote()
	remote.Seed("dana", []models.Playlist{
		{ID: "p1", Name: "Mix", Videos: []models.Video{
			{VideoID: "b", Title: "beta", Type: models.MediaStreamed, Rating: 2, URL: "https://www.youtube.com/watch?v=b"},
			{VideoID: "a", Title: "Alpha", Type: models.MediaStreamed, Rating: 9, URL: "https://www.youtube.com/watch?v=a"},
			{VideoID: "c", Title: "charlie", Type: models.MediaLocalAudio, Rating: 5, URL: "http://127.0.0.1:3000/mp3/c.mp3"},
		}},
		{ID: "p2", Name: "Empty", Videos: []models.Video{}},
	})

	coordinator := tasks.NewCoordinator(tt.NewMemoryCache(), remote, shared.NewLogger(io.Discard))
	m := NewModel(context.Background(), session, tasks.NewLibrary(coordinator, nil, ""), opener)
	m.input.Cursor.SetMode(cursor.CursorStatic)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m.Update(m.Init()())
	return m, remote
}

// send feeds msg to the model and runs any command it returns, one level deep.
func send(m *Model, msg tea.Msg) {
	_, cmd := m.Update(msg)
	if cmd == nil {
		return
	}
	if out, ok := cmd().(Msg); ok {
		m.Update(out)
	}
}

func titles(l view.Listing) []string {
	out := make([]string, len(l.Videos))
	for i, v := range l.Videos {
		out[i] = v.Title
	}
	return out
}

func TestModelNavigation(t *testing.T) {
	m, _ := newTestModel(t, nil)
	require.Len(t, m.playlists, 2)
	assert.Contains(t, m.View(), "Mix")

	send(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, VideoListView, m.view)
	assert.Equal(t, []string{"Alpha", "beta", "charlie"}, titles(m.listing))

	send(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, PlaylistListView, m.view)
	assert.Equal(t, view.StatusNoSelection, m.listing.Status)
}

func TestModelSortAndFilter(t *testing.T) {
	m, _ := newTestModel(t, nil)
	send(m, tea.KeyMsg{Type: tea.KeyEnter})

	send(m, runes("s"))
	assert.Equal(t, view.ByRating, m.opts.Sort)
	assert.Equal(t, []string{"Alpha", "charlie", "beta"}, titles(m.listing))

	send(m, runes("/"))
	require.Equal(t, inputFilter, m.mode)
	for _, r := range "ALP" {
		send(m, runes(string(r)))
	}
	assert.Equal(t, []string{"Alpha"}, titles(m.listing))

	send(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, inputNone, m.mode)
	assert.Equal(t, "ALP", m.opts.Filter)

	send(m, runes("/"))
	send(m, runes("z"))
	assert.True(t, m.listing.Empty())
	assert.Contains(t, m.View(), "No videos found.")

	send(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, m.opts.Filter)
	assert.Len(t, m.listing.Videos, 3)
}

func TestModelMutations(t *testing.T) {
	t.Run("rating re-derives the sorted list", func(t *testing.T) {
		m, remote := newTestModel(t, nil)
		send(m, tea.KeyMsg{Type: tea.KeyEnter})
		send(m, runes("s"))

		// the cursor stays on the first row, so each press lowers Alpha until it drops below charlie
		send(m, runes("-"))
		send(m, runes("-"))
		send(m, runes("-"))
		send(m, runes("-"))
		send(m, runes("-"))
		assert.Equal(t, []string{"charlie", "Alpha", "beta"}, titles(m.listing))
		assert.Equal(t, 4, remote.Stored("dana")[0].Videos[1].Rating)
		assert.Contains(t, m.View(), "rate: saved")
	})

	t.Run("rating builds on the stored value", func(t *testing.T) {
		m, remote := newTestModel(t, nil)
		send(m, tea.KeyMsg{Type: tea.KeyEnter})

		stored := remote.Stored("dana")
		stored[0].Videos[0].Rating = 7
		remote.Seed("dana", stored)

		send(m, runes("+"))
		assert.Equal(t, 8, remote.Stored("dana")[0].Videos[0].Rating)
	})

	t.Run("remove", func(t *testing.T) {
		m, remote := newTestModel(t, nil)
		send(m, tea.KeyMsg{Type: tea.KeyEnter})

		send(m, runes("d"))
		assert.Equal(t, []string{"beta", "charlie"}, titles(m.listing))
		assert.Len(t, remote.Stored("dana")[0].Videos, 2)
	})

	t.Run("offline changes are reported", func(t *testing.T) {
		m, remote := newTestModel(t, nil)
		send(m, tea.KeyMsg{Type: tea.KeyEnter})
		remote.SetErrors(errors.New("offline"), errors.New("offline"))

		send(m, runes("+"))
		assert.Contains(t, m.View(), "saved locally")
		assert.Equal(t, 10, m.listing.Videos[0].Rating)
	})

	t.Run("create playlist", func(t *testing.T) {
		m, remote := newTestModel(t, nil)

		send(m, runes("n"))
		require.Equal(t, inputPlaylistName, m.mode)
		for _, r := range "Road" {
			send(m, runes(string(r)))
		}
		send(m, tea.KeyMsg{Type: tea.KeyEnter})

		require.Len(t, m.playlists, 3)
		assert.Equal(t, "Road", m.playlists[2].Name)
		assert.Len(t, remote.Stored("dana"), 3)
	})

	t.Run("create playlist with blank name shows an error", func(t *testing.T) {
		m, _ := newTestModel(t, nil)

		send(m, runes("n"))
		send(m, tea.KeyMsg{Type: tea.KeyEnter})
		assert.ErrorIs(t, m.err, shared.ErrEmptyPlaylistName)
		assert.Contains(t, m.View(), "Error:")
	})
}

func TestModelOpen(t *testing.T) {
	var opened string
	m, _ := newTestModel(t, func(url string) error {
		opened = url
		return nil
	})
	send(m, tea.KeyMsg{Type: tea.KeyEnter})
	send(m, runes("o"))
	assert.Equal(t, "https://www.youtube.com/watch?v=a", opened)

	failing, _ := newTestModel(t, func(string) error { return errors.New("no browser") })
	send(failing, tea.KeyMsg{Type: tea.KeyEnter})
	send(failing, runes("o"))
	assert.True(t, strings.Contains(failing.View(), "no browser"))
}
