package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/tubelist/internal/formatter"
	"github.com/desertthunder/tubelist/internal/models"
	"github.com/desertthunder/tubelist/internal/services"
	"github.com/desertthunder/tubelist/internal/shared"
	"github.com/desertthunder/tubelist/internal/view"
)

// PlaylistsList prints the user's playlists.
func (r *Runner) PlaylistsList(ctx context.Context, cmd *cli.Command) error {
	session, err := r.session()
	if err != nil {
		return err
	}

	playlists := r.library.Playlists(ctx, session)
	if cmd.Bool("json") {
		return r.writeJSON(playlists, true)
	}
	return formatter.WritePlaylistTable(r.output, playlists)
}

// PlaylistsShow prints one playlist, filtered and sorted.
func (r *Runner) PlaylistsShow(ctx context.Context, cmd *cli.Command) error {
	mode, err := view.ParseSortMode(cmd.String("sort"))
	if err != nil {
		return err
	}

	session, p, err := r.playlist(ctx, cmd.StringArg("playlist"))
	if err != nil {
		return err
	}
	r.logger.Debug("rendering playlist", "user", session.Username, "id", p.ID, "sort", mode)

	listing := view.RenderPlaylist(&p, view.Options{Sort: mode, Filter: cmd.String("filter")})
	if cmd.Bool("json") {
		return r.writeJSON(listing.Videos, true)
	}

	summary := fmt.Sprintf("%d videos", len(p.Videos))
	if avg, ok := formatter.AverageRating(p); ok {
		summary += fmt.Sprintf(" • avg %.1f/10", avg)
	}
	r.writePlainHeader(fmt.Sprintf("%s (%s)", p.Name, summary))
	return formatter.WriteVideoTable(r.output, listing)
}

// PlaylistsCreate adds an empty playlist.
func (r *Runner) PlaylistsCreate(ctx context.Context, cmd *cli.Command) error {
	session, err := r.session()
	if err != nil {
		return err
	}

	res, err := r.library.CreatePlaylist(ctx, session, cmd.StringArg("name"))
	if err != nil {
		return err
	}
	if res.Playlist == nil {
		return r.reportResult("Created playlist", res)
	}
	return r.reportResult(fmt.Sprintf("Created %q (%s)", res.Playlist.Name, res.Playlist.ID), res)
}

// PlaylistsRename changes a playlist's name.
func (r *Runner) PlaylistsRename(ctx context.Context, cmd *cli.Command) error {
	session, p, err := r.playlist(ctx, cmd.StringArg("playlist"))
	if err != nil {
		return err
	}

	name := cmd.StringArg("name")
	res, err := r.library.RenamePlaylist(ctx, session, p.ID, name)
	if err != nil {
		return err
	}
	return r.reportResult(fmt.Sprintf("Renamed %q to %q", p.Name, strings.TrimSpace(name)), res)
}

// PlaylistsDelete removes a playlist.
func (r *Runner) PlaylistsDelete(ctx context.Context, cmd *cli.Command) error {
	session, p, err := r.playlist(ctx, cmd.StringArg("playlist"))
	if err != nil {
		return err
	}

	res := r.library.DeletePlaylist(ctx, session, p.ID)
	return r.reportResult(fmt.Sprintf("Deleted %q", p.Name), res)
}

// PlaylistsAdd adds a streamed video by URL or id.
func (r *Runner) PlaylistsAdd(ctx context.Context, cmd *cli.Command) error {
	videoID, err := services.VideoIDFromURL(cmd.StringArg("video"))
	if err != nil {
		return err
	}

	session, p, err := r.playlist(ctx, cmd.StringArg("playlist"))
	if err != nil {
		return err
	}

	title := strings.TrimSpace(cmd.String("title"))
	if title == "" {
		title = videoID
	}
	v := services.StreamedVideo(models.SearchResult{VideoID: videoID, Title: title})
	v.Rating = cmd.Int("rating")

	res := r.library.AddVideo(ctx, session, p.ID, v)
	if !res.Changed {
		return r.writePlain("%s is already in %q.\n", videoID, p.Name)
	}
	return r.reportResult(fmt.Sprintf("Added %q to %q", title, p.Name), res)
}

// PlaylistsRate sets a video's rating. Values outside 1-10 are clamped.
func (r *Runner) PlaylistsRate(ctx context.Context, cmd *cli.Command) error {
	rating, err := strconv.Atoi(strings.TrimSpace(cmd.StringArg("rating")))
	if err != nil {
		return fmt.Errorf("%w: rating must be a number from %d to %d", shared.ErrInvalidArgument, models.MinRating, models.MaxRating)
	}

	session, p, err := r.playlist(ctx, cmd.StringArg("playlist"))
	if err != nil {
		return err
	}
	v, err := findVideo(p, cmd.StringArg("video"))
	if err != nil {
		return err
	}

	res := r.library.SetRating(ctx, session, p.ID, v.VideoID, rating)
	if res.Playlist != nil {
		if updated, err := findVideo(*res.Playlist, v.VideoID); err == nil {
			rating = updated.EffectiveRating()
		}
	}
	return r.reportResult(fmt.Sprintf("Rated %q %d/10", v.Title, rating), res)
}

// PlaylistsRemove removes a video from a playlist.
func (r *Runner) PlaylistsRemove(ctx context.Context, cmd *cli.Command) error {
	session, p, err := r.playlist(ctx, cmd.StringArg("playlist"))
	if err != nil {
		return err
	}
	v, err := findVideo(p, cmd.StringArg("video"))
	if err != nil {
		return err
	}

	res := r.library.RemoveVideo(ctx, session, p.ID, v.VideoID)
	return r.reportResult(fmt.Sprintf("Removed %q from %q", v.Title, p.Name), res)
}

// playlist loads the collection and resolves ref against it.
func (r *Runner) playlist(ctx context.Context, ref string) (models.Session, models.Playlist, error) {
	session, err := r.session()
	if err != nil {
		return models.Session{}, models.Playlist{}, err
	}

	p, err := findPlaylist(r.library.Playlists(ctx, session), ref)
	if err != nil {
		return models.Session{}, models.Playlist{}, err
	}
	return session, p, nil
}

// findVideo resolves ref as a video id, a watch URL, or a unique case-insensitive title.
func findVideo(p models.Playlist, ref string) (models.Video, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Video{}, fmt.Errorf("%w: video", shared.ErrMissingArgument)
	}

	id := ref
	if parsed, err := services.VideoIDFromURL(ref); err == nil {
		id = parsed
	}

	var matches []models.Video
	for _, v := range p.Videos {
		if v.VideoID == id {
			return v, nil
		}
		if strings.EqualFold(v.Title, ref) {
			matches = append(matches, v)
		}
	}

	switch len(matches) {
	case 0:
		return models.Video{}, fmt.Errorf("%w: %s in %q", shared.ErrVideoNotFound, ref, p.Name)
	case 1:
		return matches[0], nil
	default:
		return models.Video{}, fmt.Errorf("%w: %d videos are titled %q, use the id", shared.ErrInvalidArgument, len(matches), ref)
	}
}
