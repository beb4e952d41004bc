// package formatter renders playlists for the terminal and exports them to files (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/desertthunder/tubelist/internal/models"
	"github.com/desertthunder/tubelist/internal/shared"
)

// maxImageBytes bounds thumbnail downloads.
const maxImageBytes = 5 << 20

// ExportToCSV converts a playlist to CSV with columns: Position, VideoID, Title, Type, Rating, URL
func ExportToCSV(p models.Playlist) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Position", "VideoID", "Title", "Type", "Rating", "URL"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, v := range p.Videos {
		record := []string{
			strconv.Itoa(i + 1),
			v.VideoID,
			v.Title,
			string(v.Type),
			strconv.Itoa(v.EffectiveRating()),
			v.URL,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a playlist to Markdown, linking each video and showing an optional cover image
func ExportToMarkdown(p models.Playlist, coverFilename string) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", p.Name)
	if coverFilename != "" {
		fmt.Fprintf(&buf, "![Cover](%s)\n\n", coverFilename)
	}

	fmt.Fprintf(&buf, "**Videos**: %d\n", len(p.Videos))
	if avg, ok := AverageRating(p); ok {
		fmt.Fprintf(&buf, "**Average rating**: %.1f/10\n", avg)
	}
	buf.WriteString("\n## Videos\n\n")

	for i, v := range p.Videos {
		kind := ""
		if v.Type == models.MediaLocalAudio {
			kind = " (audio)"
		}
		fmt.Fprintf(&buf, "%d. [%s](%s)%s: %d/10\n", i+1, v.Title, v.URL, kind, v.EffectiveRating())
	}

	return buf.Bytes(), nil
}

// ExportToText converts a playlist to plain text
func ExportToText(p models.Playlist) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Playlist: %s\n", p.Name)
	fmt.Fprintf(&buf, "Videos: %d\n\n", len(p.Videos))

	for i, v := range p.Videos {
		fmt.Fprintf(&buf, "%d. %s [%d/10] %s\n", i+1, v.Title, v.EffectiveRating(), v.URL)
	}

	return buf.Bytes(), nil
}

// AverageRating returns the mean rating of p's videos; ok is false for an empty playlist.
func AverageRating(p models.Playlist) (avg float64, ok bool) {
	if len(p.Videos) == 0 {
		return 0, false
	}
	total := 0
	for _, v := range p.Videos {
		total += v.EffectiveRating()
	}
	return float64(total) / float64(len(p.Videos)), true
}

// CoverURL returns the first thumbnail found in p, used as the Markdown cover image.
func CoverURL(p models.Playlist) string {
	for _, v := range p.Videos {
		if v.Thumbnail != "" {
			return v.Thumbnail
		}
	}
	return ""
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create image request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// PlaylistMetadata summarizes a playlist without its videos.
type PlaylistMetadata struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	VideoCount    int     `json:"videoCount"`
	AudioCount    int     `json:"audioCount"`
	AverageRating float64 `json:"averageRating"`
}

// ToMetadataJSON generates a JSON summary of playlist metadata (without videos)
func ToMetadataJSON(p models.Playlist) ([]byte, error) {
	meta := PlaylistMetadata{ID: p.ID, Name: p.Name, VideoCount: len(p.Videos)}
	for _, v := range p.Videos {
		if v.Type == models.MediaLocalAudio {
			meta.AudioCount++
		}
	}
	meta.AverageRating, _ = AverageRating(p)
	return shared.MarshalJSON(meta, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	VideosFile   string
	MetadataFile string
}

// WriteCSVExport writes {base}_videos.csv and {base}_metadata.json.
//
// The base path defaults to the playlist ID.
func WriteCSVExport(p models.Playlist, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = p.ID
	}

	csvData, err := ExportToCSV(p)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	videosFile := baseFilepath + "_videos.csv"
	if err := os.WriteFile(videosFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(p)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{VideosFile: videosFile, MetadataFile: metadataFile}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory  string
	Files      []string
	CoverImage string
}

// WriteMarkdownExport writes {dir}/README.md and, when cover is non-empty, {dir}/cover.jpg.
//
// The directory defaults to the playlist ID.
func WriteMarkdownExport(p models.Playlist, outputDir string, cover []byte) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = p.ID
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{Directory: outputDir, Files: []string{}}

	var coverFilename string
	if len(cover) > 0 {
		coverPath := filepath.Join(outputDir, "cover.jpg")
		if err := os.WriteFile(coverPath, cover, 0644); err != nil {
			return nil, fmt.Errorf("failed to save cover image: %w", err)
		}
		coverFilename = "cover.jpg"
		result.CoverImage = coverPath
		result.Files = append(result.Files, coverPath)
	}

	mdData, err := ExportToMarkdown(p, coverFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := filepath.Join(outputDir, "README.md")
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}
	result.Files = append(result.Files, mdFile)

	return result, nil
}

// WriteTextExport writes a plain text listing, defaulting to {playlist.ID}_videos.txt.
func WriteTextExport(p models.Playlist, path string) (string, error) {
	if path == "" {
		path = p.ID + "_videos.txt"
	}

	textData, err := ExportToText(p)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(path, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return path, nil
}

// WriteJSONExport writes the playlist as indented JSON, defaulting to {playlist.ID}.json.
func WriteJSONExport(p models.Playlist, path string) (string, error) {
	if path == "" {
		path = p.ID + ".json"
	}

	data, err := shared.MarshalJSON(p, true)
	if err != nil {
		return "", fmt.Errorf("JSON marshal failed: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("JSON write failed: %w", err)
	}
	return path, nil
}
