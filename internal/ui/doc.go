// Package ui implements the interactive playlist browser using bubbletea's Elm architecture.
//
// The TUI has two views:
//  1. [PlaylistListView] : browse playlists, create new ones
//  2. [VideoListView] : the selected playlist's videos, sorted and filtered
//
// Every mutation goes through [tasks.Library] and the returned collection replaces the
// model's copy; the visible video list is then rebuilt with [view.RenderPlaylist].
// The model never edits a rendered list in place.
//
// Keyboard: j/k or arrows move, enter opens, esc goes back, s toggles name/rating order,
// / edits the filter, + and - change the rating, d removes a video, o opens it in the
// browser, n creates a playlist and q quits.
package ui
