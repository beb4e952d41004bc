package formatter

import (
	"fmt"
	"os"
	"time"

	"github.com/desertthunder/tubelist/internal/shared"
)

// Manifest summarizes a bulk export.
type Manifest struct {
	ExportedAt      time.Time       `json:"exportedAt"`
	Username        string          `json:"username"`
	Format          string          `json:"format"`
	OutputDirectory string          `json:"outputDirectory"`
	Total           int             `json:"total"`
	Successful      int             `json:"successful"`
	Failed          int             `json:"failed"`
	Playlists       []ManifestEntry `json:"playlists"`
}

// ManifestEntry records the outcome for one playlist.
type ManifestEntry struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Success bool     `json:"success"`
	Files   []string `json:"files,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// WriteManifest writes m as indented JSON to path.
func WriteManifest(m Manifest, path string) error {
	data, err := shared.MarshalJSON(m, true)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
