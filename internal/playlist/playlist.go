// Package playlist implements the in-memory playlist collection of a single user.
//
// A [Collection] owns a private copy of the playlists it was built from; callers
// read the result back with [Collection.Playlists] and hand it to the sync layer
// for persistence. Unknown ids and duplicate videos are reported as booleans.
package playlist

import (
	"slices"
	"strings"

	"github.com/desertthunder/tubelist/internal/models"
	"github.com/desertthunder/tubelist/internal/shared"
)

// Collection is one user's ordered list of playlists.
type Collection struct {
	playlists []models.Playlist
	newID     func() string
}

// New builds a collection from playlists. The input is copied.
func New(playlists []models.Playlist) *Collection {
	return &Collection{playlists: models.ClonePlaylists(playlists), newID: shared.GenerateID}
}

// Playlists returns a deep copy of the current collection, in order.
func (c *Collection) Playlists() []models.Playlist {
	return models.ClonePlaylists(c.playlists)
}

// Len returns the number of playlists.
func (c *Collection) Len() int { return len(c.playlists) }

// Find returns a copy of the playlist with id.
func (c *Collection) Find(id string) (models.Playlist, bool) {
	i := c.index(id)
	if i < 0 {
		return models.Playlist{}, false
	}
	return c.playlists[i].Clone(), true
}

// Create appends an empty playlist named name (trimmed) and returns it.
func (c *Collection) Create(name string) (models.Playlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Playlist{}, shared.ErrEmptyPlaylistName
	}

	p := models.Playlist{ID: c.newID(), Name: name, Videos: []models.Video{}}
	c.playlists = append(c.playlists, p)
	return p.Clone(), nil
}

// Rename changes a playlist's name. It reports false when the playlist is unknown.
func (c *Collection) Rename(id, name string) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, shared.ErrEmptyPlaylistName
	}

	i := c.index(id)
	if i < 0 {
		return false, nil
	}
	c.playlists[i].Name = name
	return true, nil
}

// AddVideo appends v to the end of the playlist. It reports false when the playlist
// is unknown or already holds a video with the same id.
func (c *Collection) AddVideo(id string, v models.Video) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}

	p := &c.playlists[i]
	if slices.ContainsFunc(p.Videos, func(e models.Video) bool { return e.VideoID == v.VideoID }) {
		return false
	}

	v.Rating = ClampRating(v.Rating)
	p.Videos = append(p.Videos, v)
	return true
}

// SetRating stores rating, clamped into [1,10], on a video. It reports false when
// the playlist or video is unknown.
func (c *Collection) SetRating(id, videoID string, rating int) bool {
	p, j := c.video(id, videoID)
	if j < 0 {
		return false
	}
	p.Videos[j].Rating = ClampRating(rating)
	return true
}

// AdjustRating moves a video's current rating by delta, clamped into [1,10].
func (c *Collection) AdjustRating(id, videoID string, delta int) bool {
	p, j := c.video(id, videoID)
	if j < 0 {
		return false
	}
	p.Videos[j].Rating = ClampRating(p.Videos[j].EffectiveRating() + delta)
	return true
}

// RemoveVideo removes a video from a playlist. Removing an absent video is a no-op.
func (c *Collection) RemoveVideo(id, videoID string) bool {
	p, j := c.video(id, videoID)
	if j < 0 {
		return false
	}
	p.Videos = slices.Delete(p.Videos, j, j+1)
	return true
}

// Delete removes a playlist. Deleting an absent playlist is a no-op.
func (c *Collection) Delete(id string) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	c.playlists = slices.Delete(c.playlists, i, i+1)
	return true
}

// ContainsVideo reports whether any playlist holds videoID.
func (c *Collection) ContainsVideo(videoID string) bool {
	for _, p := range c.playlists {
		for _, v := range p.Videos {
			if v.VideoID == videoID {
				return true
			}
		}
	}
	return false
}

func (c *Collection) index(id string) int {
	return slices.IndexFunc(c.playlists, func(p models.Playlist) bool { return p.ID == id })
}

func (c *Collection) video(id, videoID string) (*models.Playlist, int) {
	i := c.index(id)
	if i < 0 {
		return nil, -1
	}
	p := &c.playlists[i]
	return p, slices.IndexFunc(p.Videos, func(v models.Video) bool { return v.VideoID == videoID })
}

// ClampRating forces r into [1,10]. Zero, meaning unset, becomes the default rating.
func ClampRating(r int) int {
	return max(models.MinRating, min(models.MaxRating, r))
}
