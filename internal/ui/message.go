package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/tubelist/internal/models"
	"github.com/desertthunder/tubelist/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgPlaylistsLoaded MsgKind = iota
	MsgLibraryResult
	MsgOpened
)

type libraryResult struct {
	action string
	result tasks.Result
	err    error
}

// playlistsLoadedMsg is the constructor for [MsgPlaylistsLoaded]
func playlistsLoadedMsg(playlists []models.Playlist) Msg {
	return Msg{kind: MsgPlaylistsLoaded, data: playlists}
}

// libraryResultMsg is the constructor for [MsgLibraryResult]
func libraryResultMsg(action string, result tasks.Result, err error) Msg {
	return Msg{kind: MsgLibraryResult, data: libraryResult{action: action, result: result, err: err}}
}

// openedMsg is the constructor for [MsgOpened]
func openedMsg(err error) Msg {
	return Msg{kind: MsgOpened, data: err}
}
