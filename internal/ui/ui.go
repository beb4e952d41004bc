package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/tubelist/internal/models"
	"github.com/desertthunder/tubelist/internal/tasks"
	"github.com/desertthunder/tubelist/internal/view"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PlaylistListView ViewState = iota
	VideoListView
)

// inputMode tells which field the text input is editing.
type inputMode int

const (
	inputNone inputMode = iota
	inputFilter
	inputPlaylistName
)

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	session models.Session
	library *tasks.Library
	opener  func(url string) error

	view   ViewState
	width  int
	height int

	playlists    []models.Playlist
	selectedID   string
	opts         view.Options
	listing      view.Listing
	playlistList list.Model
	videoList    list.Model

	input textinput.Model
	mode  inputMode

	status string
	err    error
	help   help.Model
	keys   keyMap
}

// NewModel creates a new TUI model. opener is used by the open key and may be nil.
func NewModel(ctx context.Context, session models.Session, library *tasks.Library, opener func(string) error) *Model {
	input := textinput.New()
	input.CharLimit = 120

	m := &Model{
		ctx:     ctx,
		session: session,
		library: library,
		opener:  opener,
		view:    PlaylistListView,
		input:   input,
		help:    help.New(),
		keys:    newKeyMap(),
	}
	m.playlistList = m.newList("Playlists", nil)
	m.videoList = m.newList("Videos", nil)
	return m
}

// Init loads the user's playlists.
func (m *Model) Init() tea.Cmd {
	return m.loadPlaylists()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.playlistList.SetSize(msg.Width-4, msg.Height-8)
		m.videoList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		if m.mode != inputNone {
			return m.handleInputKeys(msg)
		}
		switch m.view {
		case PlaylistListView:
			return m.handlePlaylistListKeys(msg)
		case VideoListView:
			return m.handleVideoListKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgPlaylistsLoaded:
		m.setPlaylists(msg.data.([]models.Playlist))

	case MsgLibraryResult:
		res := msg.data.(libraryResult)
		if res.err != nil {
			m.err = res.err
			return m, nil
		}
		m.err = nil
		m.setPlaylists(res.result.Playlists)
		m.status = resultStatus(res.action, res.result)

	case MsgOpened:
		if err, _ := msg.data.(error); err != nil {
			m.err = err
		}
	}
	return m, nil
}

// resultStatus describes the outcome of a mutation for the status line.
func resultStatus(action string, r tasks.Result) string {
	switch {
	case !r.Changed:
		return action + ": nothing changed"
	case !r.Synced:
		return styles.warn.Render(action + ": saved locally, server unreachable")
	default:
		return styles.ok.Render(action + ": saved")
	}
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	var b strings.Builder

	switch m.view {
	case PlaylistListView:
		b.WriteString(m.renderPlaylistList())
	case VideoListView:
		b.WriteString(m.renderVideoList())
	}

	if m.mode != inputNone {
		b.WriteString("\n" + m.input.View())
	}
	if m.err != nil {
		b.WriteString("\n" + styles.err.Render(fmt.Sprintf("Error: %v", m.err)))
	} else if m.status != "" {
		b.WriteString("\n" + m.status)
	}
	return b.String()
}

// setPlaylists replaces the model's collection and rebuilds both lists from it.
func (m *Model) setPlaylists(playlists []models.Playlist) {
	m.playlists = models.ClonePlaylists(playlists)

	items := make([]list.Item, len(m.playlists))
	for i, p := range m.playlists {
		items[i] = playlistItem{playlist: p}
	}
	m.playlistList.SetItems(items)

	m.refreshVideos()
}

// refreshVideos re-derives the visible videos from the current collection.
func (m *Model) refreshVideos() {
	m.listing = view.RenderPlaylist(m.selected(), m.opts)

	items := make([]list.Item, len(m.listing.Videos))
	for i, v := range m.listing.Videos {
		items[i] = videoItem{video: v}
	}
	m.videoList.SetItems(items)
	m.videoList.Title = m.videoTitle()
}

func (m *Model) selected() *models.Playlist {
	for i := range m.playlists {
		if m.playlists[i].ID == m.selectedID {
			return &m.playlists[i]
		}
	}
	return nil
}

func (m *Model) selectedVideo() (models.Video, bool) {
	item, ok := m.videoList.SelectedItem().(videoItem)
	if !ok {
		return models.Video{}, false
	}
	return item.video, true
}

func (m *Model) handlePlaylistListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.playlistList.SelectedItem().(playlistItem); ok {
			m.selectedID = item.playlist.ID
			m.view = VideoListView
			m.videoList.ResetSelected()
			m.refreshVideos()
		}
		return m, nil
	case key.Matches(msg, m.keys.create):
		return m, m.startInput(inputPlaylistName, "Playlist name: ", "")
	}

	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

func (m *Model) handleVideoListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = PlaylistListView
		m.selectedID = ""
		m.refreshVideos()
		return m, nil
	case key.Matches(msg, m.keys.sort):
		m.opts.Sort = m.opts.Sort.Toggle()
		m.refreshVideos()
		return m, nil
	case key.Matches(msg, m.keys.filter):
		return m, m.startInput(inputFilter, "Filter: ", m.opts.Filter)
	case key.Matches(msg, m.keys.rateUp):
		if v, ok := m.selectedVideo(); ok {
			return m, m.adjustRating(v, 1)
		}
	case key.Matches(msg, m.keys.rateDn):
		if v, ok := m.selectedVideo(); ok {
			return m, m.adjustRating(v, -1)
		}
	case key.Matches(msg, m.keys.remove):
		if v, ok := m.selectedVideo(); ok {
			return m, m.removeVideo(v)
		}
	case key.Matches(msg, m.keys.open):
		if v, ok := m.selectedVideo(); ok {
			return m, m.openVideo(v)
		}
	}

	var cmd tea.Cmd
	m.videoList, cmd = m.videoList.Update(msg)
	return m, cmd
}

func (m *Model) startInput(mode inputMode, prompt, value string) tea.Cmd {
	m.mode = mode
	m.input.Prompt = prompt
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) stopInput() {
	m.mode = inputNone
	m.input.Blur()
}

// handleInputKeys edits the filter live; a playlist name is submitted with enter.
func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		mode, value := m.mode, m.input.Value()
		m.stopInput()
		if mode == inputPlaylistName {
			return m, m.createPlaylist(value)
		}
		return m, nil
	case tea.KeyEsc:
		if m.mode == inputFilter {
			m.opts.Filter = ""
			m.refreshVideos()
		}
		m.stopInput()
		return m, nil
	case tea.KeyCtrlC:
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.mode == inputFilter {
		m.opts.Filter = m.input.Value()
		m.refreshVideos()
	}
	return m, cmd
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case PlaylistListView:
		m.playlistList, cmd = m.playlistList.Update(msg)
	case VideoListView:
		m.videoList, cmd = m.videoList.Update(msg)
	}
	return m, cmd
}

func (m *Model) loadPlaylists() tea.Cmd {
	return func() tea.Msg {
		return playlistsLoadedMsg(m.library.Playlists(m.ctx, m.session))
	}
}

func (m *Model) createPlaylist(name string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.library.CreatePlaylist(m.ctx, m.session, name)
		return libraryResultMsg("create playlist", res, err)
	}
}

func (m *Model) adjustRating(v models.Video, delta int) tea.Cmd {
	id := m.selectedID
	return func() tea.Msg {
		return libraryResultMsg("rate", m.library.AdjustRating(m.ctx, m.session, id, v.VideoID, delta), nil)
	}
}

func (m *Model) removeVideo(v models.Video) tea.Cmd {
	id := m.selectedID
	return func() tea.Msg {
		return libraryResultMsg("remove", m.library.RemoveVideo(m.ctx, m.session, id, v.VideoID), nil)
	}
}

func (m *Model) openVideo(v models.Video) tea.Cmd {
	if m.opener == nil {
		return nil
	}
	return func() tea.Msg {
		return openedMsg(m.opener(v.URL))
	}
}

func (m *Model) newList(title string, items []list.Item) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	return l
}

func (m *Model) videoTitle() string {
	p := m.selected()
	if p == nil {
		return "Videos"
	}
	title := fmt.Sprintf("%s (by %s)", p.Name, m.opts.Sort)
	if m.opts.Filter != "" {
		title += fmt.Sprintf(" [filter: %s]", m.opts.Filter)
	}
	return title
}

func (m *Model) renderPlaylistList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.create, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	if len(m.playlists) == 0 {
		return fmt.Sprintf("%s\n\n%s\n\n%s", styles.title.Render("Playlists"), styles.help.Render("No playlists yet. Press n to create one."), helpView)
	}
	return fmt.Sprintf("%s\n\n%s", m.playlistList.View(), helpView)
}

func (m *Model) renderVideoList() string {
	helpKeys := []key.Binding{m.keys.back, m.keys.sort, m.keys.filter, m.keys.rateUp, m.keys.rateDn, m.keys.remove, m.keys.open, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	if m.listing.Empty() {
		return fmt.Sprintf("%s\n\n%s\n\n%s", styles.title.Render(m.videoTitle()), styles.help.Render(m.listing.Status.String()), helpView)
	}
	return fmt.Sprintf("%s\n\n%s", m.videoList.View(), helpView)
}
