package tasks

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/desertthunder/tubelist/internal/formatter"
	"github.com/desertthunder/tubelist/internal/models"
	"github.com/desertthunder/tubelist/internal/shared"
)

// ExportFormats lists the accepted values of [BulkExportOpts.Format].
var ExportFormats = []string{"json", "csv", "markdown", "txt"}

// BulkExportOpts contains configuration for bulk playlist exports.
type BulkExportOpts struct {
	Format     string       // Export format: json, csv, markdown, txt
	OutputDir  string       // Base output directory (default: tubelist_export_{epoch})
	IDs        []string     // Playlists to export; empty exports all
	NumWorkers int          // Concurrent workers (default: 4, max: 10)
	RateLimit  float64      // Cover downloads per second (default: 5)
	Covers     bool         // Download the first thumbnail as a cover for markdown exports
	HTTPClient *http.Client // Client used for cover downloads
}

// PlaylistExportResult is the outcome for one playlist.
type PlaylistExportResult struct {
	PlaylistID   string
	PlaylistName string
	Success      bool
	Files        []string
	Error        error
}

// BulkExportResult summarizes a bulk export.
type BulkExportResult struct {
	TotalPlaylists    int
	SuccessfulExports int
	FailedExports     int
	OutputDirectory   string
	ManifestPath      string
	Results           []PlaylistExportResult
}

type exportJob struct {
	step     int
	playlist models.Playlist
}

// BulkExport exports the session user's playlists concurrently and writes export_manifest.json.
//
// Playlists are loaded through the coordinator, so an unreachable server falls back to the cache.
// Unknown ids in opts.IDs are reported as failed entries.
func (l *Library) BulkExport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	s models.Session,
	opts BulkExportOpts,
) (*BulkExportResult, error) {
	if opts.Format == "" {
		opts.Format = "json"
	}
	if !slices.Contains(ExportFormats, opts.Format) {
		return nil, fmt.Errorf("%w: export format %q", shared.ErrInvalidArgument, opts.Format)
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("tubelist_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	opts.NumWorkers = min(opts.NumWorkers, 10)
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	sendProgress(prog, fetchingPlaylistsUpdate(s.Username))
	selected, missing := selectPlaylists(l.sync.Load(ctx, s), opts.IDs)

	total := len(selected) + len(missing)
	result := &BulkExportResult{
		TotalPlaylists:  total,
		OutputDirectory: opts.OutputDir,
		Results:         make([]PlaylistExportResult, 0, total),
	}

	for _, id := range missing {
		result.Results = append(result.Results, PlaylistExportResult{
			PlaylistID:   id,
			PlaylistName: fmt.Sprintf("Unknown (%s)", id),
			Error:        fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id),
		})
		result.FailedExports++
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	jobs := make(chan exportJob)
	results := make(chan PlaylistExportResult, len(selected))

	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				sendProgress(prog, exportingPlaylistUpdate(job.step, total, job.playlist.Name))
				results <- exportPlaylist(ctx, prog, limiter, job.playlist, opts)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, p := range selected {
			select {
			case <-ctx.Done():
				return
			case jobs <- exportJob{step: i + 1, playlist: p}:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := len(missing)
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			sendProgress(prog, exportCompletedUpdate(completed, total, res.PlaylistName, len(res.Files)))
		} else {
			result.FailedExports++
			sendProgress(prog, exportFailedUpdate(completed, total, res.PlaylistName, res.Error))
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("export cancelled: %w", err)
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := formatter.WriteManifest(manifestFor(s, opts, result), manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	sendProgress(prog, manifestUpdate(manifestPath))

	return result, nil
}

// selectPlaylists keeps the playlists named by ids, in collection order. Empty ids selects all.
func selectPlaylists(all []models.Playlist, ids []string) (selected []models.Playlist, missing []string) {
	if len(ids) == 0 {
		return all, nil
	}

	for _, p := range all {
		if slices.Contains(ids, p.ID) {
			selected = append(selected, p)
		}
	}
	for _, id := range ids {
		if !slices.ContainsFunc(all, func(p models.Playlist) bool { return p.ID == id }) {
			missing = append(missing, id)
		}
	}
	return selected, missing
}

// exportPlaylist writes a single playlist in the requested format.
func exportPlaylist(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	limiter *rate.Limiter,
	p models.Playlist,
	opts BulkExportOpts,
) PlaylistExportResult {
	result := PlaylistExportResult{PlaylistID: p.ID, PlaylistName: p.Name, Files: []string{}}

	switch opts.Format {
	case "csv":
		res, err := formatter.WriteCSVExport(p, filepath.Join(opts.OutputDir, p.ID))
		if err != nil {
			result.Error = fmt.Errorf("CSV export failed: %w", err)
			return result
		}
		result.Files = []string{res.VideosFile, res.MetadataFile}

	case "markdown":
		var cover []byte
		if url := formatter.CoverURL(p); opts.Covers && url != "" {
			if err := limiter.Wait(ctx); err == nil {
				data, err := formatter.DownloadImage(ctx, opts.HTTPClient, url)
				if err != nil {
					sendProgress(prog, coverFailedUpdate(p.Name, err))
				}
				cover = data
			}
		}

		res, err := formatter.WriteMarkdownExport(p, filepath.Join(opts.OutputDir, p.ID), cover)
		if err != nil {
			result.Error = fmt.Errorf("markdown export failed: %w", err)
			return result
		}
		result.Files = res.Files

	case "txt":
		path, err := formatter.WriteTextExport(p, filepath.Join(opts.OutputDir, p.ID+"_videos.txt"))
		if err != nil {
			result.Error = fmt.Errorf("text export failed: %w", err)
			return result
		}
		result.Files = []string{path}

	default:
		path, err := formatter.WriteJSONExport(p, filepath.Join(opts.OutputDir, p.ID+".json"))
		if err != nil {
			result.Error = err
			return result
		}
		result.Files = []string{path}
	}

	result.Success = true
	return result
}

func manifestFor(s models.Session, opts BulkExportOpts, r *BulkExportResult) formatter.Manifest {
	m := formatter.Manifest{
		ExportedAt:      time.Now().UTC(),
		Username:        s.Username,
		Format:          opts.Format,
		OutputDirectory: r.OutputDirectory,
		Total:           r.TotalPlaylists,
		Successful:      r.SuccessfulExports,
		Failed:          r.FailedExports,
		Playlists:       make([]formatter.ManifestEntry, 0, len(r.Results)),
	}
	for _, res := range r.Results {
		entry := formatter.ManifestEntry{ID: res.PlaylistID, Name: res.PlaylistName, Success: res.Success, Files: res.Files}
		if res.Error != nil {
			entry.Error = res.Error.Error()
		}
		m.Playlists = append(m.Playlists, entry)
	}
	return m
}
