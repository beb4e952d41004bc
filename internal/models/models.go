package models

import (
	"fmt"
	"strings"
	"time"
)

// MediaType distinguishes streamed videos from uploaded audio.
type MediaType string

const (
	MediaStreamed   MediaType = "youtube"
	MediaLocalAudio MediaType = "mp3"
)

const (
	MinRating     = 1
	MaxRating     = 10
	DefaultRating = MinRating
)

// Video is a single playlist entry. VideoID is unique within a playlist.
type Video struct {
	VideoID   string    `json:"videoId"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Thumbnail string    `json:"thumbnail,omitempty"`
	Type      MediaType `json:"type"`
	Rating    int       `json:"rating"`
}

// EffectiveRating treats an unset rating as the default.
func (v Video) EffectiveRating() int {
	if v.Rating == 0 {
		return DefaultRating
	}
	return v.Rating
}

// Playlist is an ordered collection of videos. ID is generated at creation and never changes.
type Playlist struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Videos []Video `json:"videos"`
}

// Clone returns a copy of p that shares no backing storage with it.
func (p Playlist) Clone() Playlist {
	c := p
	c.Videos = make([]Video, len(p.Videos))
	copy(c.Videos, p.Videos)
	return c
}

// Validate reports structural problems: a missing id or name, or a repeated video.
func (p Playlist) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("playlist id is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("playlist %s: name is required", p.ID)
	}
	seen := make(map[string]bool, len(p.Videos))
	for _, v := range p.Videos {
		if seen[v.VideoID] {
			return fmt.Errorf("playlist %s: duplicate video %s", p.ID, v.VideoID)
		}
		seen[v.VideoID] = true
	}
	return nil
}

// ClonePlaylists deep-copies a playlist collection. A nil input yields an empty, non-nil slice.
func ClonePlaylists(playlists []Playlist) []Playlist {
	out := make([]Playlist, len(playlists))
	for i, p := range playlists {
		out[i] = p.Clone()
	}
	return out
}

// User is the public profile of an account.
type User struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl"`
}

// Account is the server-side record of a user. PasswordHash never leaves the server.
type Account struct {
	User
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Session identifies the signed-in user on the client.
type Session struct {
	User
	Token string `json:"token"`
}

// Valid reports whether s carries enough to call the companion server.
func (s Session) Valid() bool {
	return s.Username != "" && s.Token != ""
}

// SearchResult is one candidate video from the search adapter.
type SearchResult struct {
	VideoID      string `json:"videoId"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ChannelTitle string `json:"channelTitle"`
	Thumbnail    string `json:"thumbnail"`
	Duration     string `json:"duration"` // ISO-8601, e.g. PT4M13S
	ViewCount    uint64 `json:"viewCount"`
}

// UploadResult is the server location of an uploaded audio file.
type UploadResult struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// AuthResponse is returned by the register and login endpoints.
type AuthResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
	Token   string `json:"token"`
}
