package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/tubelist/internal/shared"
	"github.com/desertthunder/tubelist/internal/tasks"
)

// Export writes the selected playlists to disk concurrently and prints a summary.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	session, err := r.session()
	if err != nil {
		return err
	}

	var ids []string
	if refs := cmd.StringSlice("id"); len(refs) > 0 {
		playlists := r.library.Playlists(ctx, session)
		for _, ref := range refs {
			if p, err := findPlaylist(playlists, ref); err == nil {
				ids = append(ids, p.ID)
			} else {
				ids = append(ids, ref)
			}
		}
	}

	opts := tasks.BulkExportOpts{
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("output"),
		IDs:        ids,
		NumWorkers: cmd.Int("workers"),
		Covers:     cmd.Bool("covers"),
		HTTPClient: r.httpClient,
	}
	asJSON := cmd.Bool("json")

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			if asJSON {
				continue
			}
			switch update.Phase {
			case tasks.FetchPlaylists:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.ExportPlaylist, tasks.DownloadCover:
				r.writePlain("   %s\n", update.Message)
			case tasks.WriteManifest:
				r.writePlain("📝 %s\n", update.Message)
			}
		}
	}()

	result, err := r.library.BulkExport(ctx, progressCh, session, opts)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	if asJSON {
		return r.writeJSON(exportSummary(result), true)
	}

	r.writePlainln("═══════════════════════════════════════")
	r.writePlain("Export Complete!\n")
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("Directory: %s\n", result.OutputDirectory)
	r.writePlain("Exported:  %d/%d\n", result.SuccessfulExports, result.TotalPlaylists)
	r.writePlain("Manifest:  %s\n", result.ManifestPath)

	if result.FailedExports > 0 {
		r.writePlain("\nFailed to export %d playlists:\n", result.FailedExports)
		for _, res := range result.Results {
			if res.Error != nil {
				r.writePlain("  - %s: %v\n", res.PlaylistName, res.Error)
			}
		}
	}
	return nil
}

type exportEntry struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Success bool     `json:"success"`
	Files   []string `json:"files,omitempty"`
	Error   string   `json:"error,omitempty"`
}

func exportSummary(result *tasks.BulkExportResult) map[string]any {
	entries := make([]exportEntry, 0, len(result.Results))
	for _, res := range result.Results {
		e := exportEntry{ID: res.PlaylistID, Name: res.PlaylistName, Success: res.Success, Files: res.Files}
		if res.Error != nil {
			e.Error = res.Error.Error()
		}
		entries = append(entries, e)
	}

	return map[string]any{
		"output_directory": result.OutputDirectory,
		"manifest":         result.ManifestPath,
		"total":            result.TotalPlaylists,
		"successful":       result.SuccessfulExports,
		"failed":           result.FailedExports,
		"playlists":        entries,
	}
}

// Upload sends an MP3 to the companion server and adds it to a playlist.
func (r *Runner) Upload(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("file")
	if path == "" {
		return fmt.Errorf("%w: file", shared.ErrMissingArgument)
	}

	session, p, err := r.playlist(ctx, cmd.StringArg("playlist"))
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r.logger.Info("uploading audio", "file", path, "playlist", p.ID)
	res, err := r.library.UploadAudio(ctx, session, p.ID, filepath.Base(path), cmd.String("title"), f)
	if errors.Is(err, shared.ErrUnsupportedMedia) {
		return fmt.Errorf("%w: %s", err, filepath.Base(path))
	} else if err != nil {
		return err
	}

	return r.reportResult(fmt.Sprintf("Uploaded %s to %q", filepath.Base(path), p.Name), res)
}

// Open plays a video in the default browser.
func (r *Runner) Open(ctx context.Context, cmd *cli.Command) error {
	_, p, err := r.playlist(ctx, cmd.StringArg("playlist"))
	if err != nil {
		return err
	}
	v, err := findVideo(p, cmd.StringArg("video"))
	if err != nil {
		return err
	}

	if err := r.opener(v.URL); err != nil {
		return fmt.Errorf("failed to open %s: %w", v.URL, err)
	}
	return r.writePlain("▶ %s\n", v.Title)
}
