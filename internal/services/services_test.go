package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/tubelist/internal/models"
	"github.com/desertthunder/tubelist/internal/shared"
)

func TestVideoFactories(t *testing.T) {
	t.Run("StreamedVideo", func(t *testing.T) {
		v := StreamedVideo(models.SearchResult{VideoID: "abc", Title: "Lo-fi", Thumbnail: "https://i.ytimg.com/abc.jpg"})
		if v.URL != "https://www.youtube.com/watch?v=abc" {
			t.Errorf("unexpected url %s", v.URL)
		}
		if v.Type != models.MediaStreamed || v.Rating != 1 {
			t.Errorf("expected streamed video with rating 1, got %#v", v)
		}
	})

	t.Run("LocalAudioVideo", func(t *testing.T) {
		r := models.UploadResult{URL: "/mp3/1-x-song.mp3", Filename: "1-x-song.mp3"}

		v := LocalAudioVideo(r, "", "http://127.0.0.1:3000/")
		if v.URL != "http://127.0.0.1:3000/mp3/1-x-song.mp3" {
			t.Errorf("expected resolved url, got %s", v.URL)
		}
		if v.Title != "1-x-song.mp3" {
			t.Errorf("expected filename as title, got %s", v.Title)
		}
		if !strings.HasPrefix(v.VideoID, "mp3_") || v.Type != models.MediaLocalAudio || v.Thumbnail != "" {
			t.Errorf("unexpected local audio video %#v", v)
		}

		other := LocalAudioVideo(r, "My Demo", "http://x")
		if other.VideoID == v.VideoID {
			t.Error("expected unique ids per upload")
		}
		if other.Title != "My Demo" {
			t.Errorf("expected explicit title, got %s", other.Title)
		}
	})
}

func TestVideoIDFromURL(t *testing.T) {
	tests := map[string]string{
		"dQw4w9WgXcQ": "dQw4w9WgXcQ",
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ":          "dQw4w9WgXcQ",
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s":    "dQw4w9WgXcQ",
		"https://youtu.be/dQw4w9WgXcQ?si=abc":                  "dQw4w9WgXcQ",
		"  https://m.youtube.com/watch?v=dQw4w9WgXcQ&list=PL ": "dQw4w9WgXcQ",
	}
	for in, want := range tests {
		got, err := VideoIDFromURL(in)
		if err != nil || got != want {
			t.Errorf("VideoIDFromURL(%q) = %q, %v", in, got, err)
		}
	}

	for _, bad := range []string{"", "https://example.com/a/b", "https://www.youtube.com/watch?list=PL"} {
		if _, err := VideoIDFromURL(bad); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("VideoIDFromURL(%q): expected ErrInvalidArgument, got %v", bad, err)
		}
	}
}
