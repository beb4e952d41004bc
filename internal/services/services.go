// package services defines the clients used to reach the companion server and the video search API
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/tubelist/internal/models"
	"github.com/desertthunder/tubelist/internal/shared"
)

const watchURL = "https://www.youtube.com/watch?v="

// Searcher finds candidate videos for a free-text query.
type Searcher interface {
	Search(ctx context.Context, query string, limit int64) ([]models.SearchResult, error)
}

// StreamedVideo converts a search result into a playlist entry with the default rating.
func StreamedVideo(r models.SearchResult) models.Video {
	return models.Video{
		VideoID:   r.VideoID,
		Title:     r.Title,
		URL:       watchURL + r.VideoID,
		Thumbnail: r.Thumbnail,
		Type:      models.MediaStreamed,
		Rating:    models.DefaultRating,
	}
}

// LocalAudioVideo converts an upload into a playlist entry.
//
// Relative upload URLs are resolved against serverURL. A blank title falls back to the file name.
func LocalAudioVideo(r models.UploadResult, title, serverURL string) models.Video {
	title = strings.TrimSpace(title)
	if title == "" {
		title = r.Filename
	}

	url := r.URL
	if strings.HasPrefix(url, "/") {
		url = strings.TrimRight(serverURL, "/") + url
	}

	return models.Video{
		VideoID: "mp3_" + shared.GenerateID(),
		Title:   title,
		URL:     url,
		Type:    models.MediaLocalAudio,
		Rating:  models.DefaultRating,
	}
}

// VideoIDFromURL extracts the video id from a watch URL, a youtu.be link or a bare id.
func VideoIDFromURL(s string) (string, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.Contains(s, "youtube.com/watch"):
		_, rest, _ := strings.Cut(s, "v=")
		id, _, _ := strings.Cut(rest, "&")
		s = id
	case strings.Contains(s, "youtu.be/"):
		_, rest, _ := strings.Cut(s, "youtu.be/")
		id, _, _ := strings.Cut(rest, "?")
		s = id
	}

	if s == "" || strings.ContainsAny(s, "/?&= ") {
		return "", fmt.Errorf("%w: not a video id or url", shared.ErrInvalidArgument)
	}
	return s, nil
}
