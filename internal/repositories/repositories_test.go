package repositories

import (
	"bytes"
	"database/sql"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/tubelist/internal/models"
	"github.com/desertthunder/tubelist/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func samplePlaylists() []models.Playlist {
	return []models.Playlist{
		{ID: "p1", Name: "Focus", Videos: []models.Video{
			{VideoID: "abc", Title: "Lo-fi", URL: "https://www.youtube.com/watch?v=abc", Type: models.MediaStreamed, Rating: 7},
		}},
		{ID: "p2", Name: "Empty", Videos: []models.Video{}},
	}
}

func TestPlaylistCacheRepository(t *testing.T) {
	t.Run("Get on empty cache", func(t *testing.T) {
		repo := NewPlaylistCacheRepository(setupTestDB(t))

		playlists, ok, err := repo.Get("dana")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if ok || playlists != nil {
			t.Errorf("expected no entry, got ok=%v playlists=%v", ok, playlists)
		}
	})

	t.Run("Put then Get", func(t *testing.T) {
		repo := NewPlaylistCacheRepository(setupTestDB(t))

		if err := repo.Put("dana", samplePlaylists()); err != nil {
			t.Fatalf("failed to put: %v", err)
		}

		got, ok, err := repo.Get("dana")
		if err != nil || !ok {
			t.Fatalf("expected cached entry, got ok=%v err=%v", ok, err)
		}
		if len(got) != 2 || got[0].Videos[0].Rating != 7 || got[0].Videos[0].Type != models.MediaStreamed {
			t.Errorf("round trip lost data: %#v", got)
		}
	})

	t.Run("Put overwrites and isolates users", func(t *testing.T) {
		repo := NewPlaylistCacheRepository(setupTestDB(t))

		repo.Put("dana", samplePlaylists())
		repo.Put("lee", samplePlaylists()[:1])
		repo.Put("dana", []models.Playlist{{ID: "p9", Name: "Only"}})

		dana, _, _ := repo.Get("dana")
		lee, _, _ := repo.Get("lee")
		if len(dana) != 1 || dana[0].ID != "p9" {
			t.Errorf("expected dana overwritten, got %#v", dana)
		}
		if len(lee) != 1 || lee[0].ID != "p1" {
			t.Errorf("expected lee untouched, got %#v", lee)
		}
	})

	t.Run("Put nil stores an empty collection", func(t *testing.T) {
		repo := NewPlaylistCacheRepository(setupTestDB(t))

		if err := repo.Put("dana", nil); err != nil {
			t.Fatalf("failed to put: %v", err)
		}
		got, ok, _ := repo.Get("dana")
		if !ok || got == nil || len(got) != 0 {
			t.Errorf("expected present empty collection, got ok=%v %#v", ok, got)
		}
	})

	t.Run("UpdatedAt and Delete", func(t *testing.T) {
		repo := NewPlaylistCacheRepository(setupTestDB(t))
		fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		repo.now = func() time.Time { return fixed }

		repo.Put("dana", samplePlaylists())
		ts, err := repo.UpdatedAt("dana")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !ts.Equal(fixed) {
			t.Errorf("expected %v, got %v", fixed, ts)
		}

		if err := repo.Delete("dana"); err != nil {
			t.Fatalf("failed to delete: %v", err)
		}
		if err := repo.Delete("dana"); err != nil {
			t.Errorf("deleting twice should succeed, got %v", err)
		}
		if _, err := repo.UpdatedAt("dana"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestLocalCache(t *testing.T) {
	t.Run("Write then Read", func(t *testing.T) {
		var buf bytes.Buffer
		cache := NewLocalCache(NewPlaylistCacheRepository(setupTestDB(t)), shared.NewLogger(&buf))

		cache.Write("dana", samplePlaylists())
		got, ok := cache.Read("dana")
		if !ok || len(got) != 2 {
			t.Errorf("expected two cached playlists, got ok=%v %d", ok, len(got))
		}
		if buf.Len() != 0 {
			t.Errorf("expected no log output, got %q", buf.String())
		}
	})

	t.Run("storage failures are logged not returned", func(t *testing.T) {
		var buf bytes.Buffer
		db := setupTestDB(t)
		cache := NewLocalCache(NewPlaylistCacheRepository(db), shared.NewLogger(&buf))
		db.Close()

		cache.Write("dana", samplePlaylists())
		got, ok := cache.Read("dana")
		if ok || got == nil || len(got) != 0 {
			t.Errorf("expected empty miss, got ok=%v %#v", ok, got)
		}

		out := buf.String()
		if !strings.Contains(out, "local cache write failed") || !strings.Contains(out, "local cache read failed") {
			t.Errorf("expected both failures logged, got %q", out)
		}
	})
}

func TestSessionRepository(t *testing.T) {
	t.Run("Current without session", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))
		if _, err := repo.Current(); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("Save replaces the single session", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))

		first := models.Session{User: models.User{Username: "dana", DisplayName: "Dana"}, Token: "t1"}
		second := models.Session{User: models.User{Username: "lee", AvatarURL: "https://x/y.png"}, Token: "t2"}
		if err := repo.Save(first); err != nil {
			t.Fatalf("failed to save: %v", err)
		}
		if err := repo.Save(second); err != nil {
			t.Fatalf("failed to save: %v", err)
		}

		got, err := repo.Current()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != second {
			t.Errorf("expected %#v, got %#v", second, got)
		}
	})

	t.Run("Save rejects incomplete sessions", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))
		if err := repo.Save(models.Session{User: models.User{Username: "dana"}}); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		repo := NewSessionRepository(setupTestDB(t))
		repo.Save(models.Session{User: models.User{Username: "dana"}, Token: "t"})

		if err := repo.Clear(); err != nil {
			t.Fatalf("failed to clear: %v", err)
		}
		if _, err := repo.Current(); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated after clear, got %v", err)
		}
	})
}

func TestSearchHistoryRepository(t *testing.T) {
	repo := NewSearchHistoryRepository(setupTestDB(t))

	for _, q := range []string{"lofi", "jazz", "  ", "lofi", "synthwave"} {
		if err := repo.Record("dana", q); err != nil {
			t.Fatalf("failed to record %q: %v", q, err)
		}
	}
	repo.Record("lee", "metal")

	got, err := repo.Recent("dana", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"synthwave", "lofi", "jazz"}
	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	limited, _ := repo.Recent("dana", 1)
	if len(limited) != 1 || limited[0] != "synthwave" {
		t.Errorf("expected only newest query, got %v", limited)
	}

	if err := repo.Clear("dana"); err != nil {
		t.Fatalf("failed to clear: %v", err)
	}
	if got, _ := repo.Recent("dana", 10); len(got) != 0 {
		t.Errorf("expected empty history, got %v", got)
	}
	if got, _ := repo.Recent("lee", 10); len(got) != 1 {
		t.Errorf("expected other user's history untouched, got %v", got)
	}
}
