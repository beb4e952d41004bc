package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/tubelist/internal/formatter"
	"github.com/desertthunder/tubelist/internal/models"
	"github.com/desertthunder/tubelist/internal/shared"
)

const historyLimit = 10

// Search queries YouTube and prints the results.
//
// Results already saved in one of the user's playlists are marked. With --add-to the picked result
// is added to that playlist.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("history") {
		return r.searchHistory()
	}

	query := strings.TrimSpace(cmd.StringArg("query"))
	if query == "" {
		return fmt.Errorf("%w: query", shared.ErrMissingArgument)
	}

	target := cmd.String("add-to")
	session, err := r.session()
	signedIn := err == nil
	if err != nil && (target != "" || !errors.Is(err, shared.ErrNotAuthenticated)) {
		return err
	}

	searcher, err := r.search(ctx)
	if err != nil {
		return err
	}

	limit := int64(cmd.Int("limit"))
	if limit <= 0 {
		limit = r.config.YouTube.MaxResults
	}

	r.logger.Debug("searching", "query", query, "limit", limit)
	results, err := searcher.Search(ctx, query, limit)
	if err != nil {
		return err
	}

	if signedIn {
		if err := r.history.Record(session.Username, query); err != nil {
			r.logger.Warn("failed to record search", "error", err)
		}
	}

	if cmd.Bool("json") && target == "" {
		return r.writeJSON(results, true)
	}

	var added func(string) bool
	if signedIn {
		added = r.library.InPlaylists(ctx, session)
	}
	if err := formatter.WriteSearchTable(r.output, results, added); err != nil {
		return err
	}

	if target == "" {
		return nil
	}
	return r.addSearchResult(ctx, session, target, results, cmd.Int("pick"))
}

func (r *Runner) addSearchResult(ctx context.Context, session models.Session, target string, results []models.SearchResult, pick int) error {
	if pick < 1 || pick > len(results) {
		return fmt.Errorf("%w: --pick must be between 1 and %d", shared.ErrInvalidArgument, len(results))
	}

	p, err := findPlaylist(r.library.Playlists(ctx, session), target)
	if err != nil {
		return err
	}

	hit := results[pick-1]
	res := r.library.AddSearchResult(ctx, session, p.ID, hit)
	if !res.Changed {
		return r.writePlain("%q is already in %q.\n", hit.Title, p.Name)
	}
	return r.reportResult(fmt.Sprintf("Added %q to %q", hit.Title, p.Name), res)
}

func (r *Runner) searchHistory() error {
	session, err := r.session()
	if err != nil {
		return err
	}

	recent, err := r.history.Recent(session.Username, historyLimit)
	if err != nil {
		return err
	}
	if len(recent) == 0 {
		return r.writePlain("No recent searches.\n")
	}

	r.writePlainHeader("Recent searches")
	for i, q := range recent {
		r.writePlain("%2d. %s\n", i+1, q)
	}
	return nil
}
