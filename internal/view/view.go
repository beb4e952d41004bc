// Package view derives display lists from playlist videos.
//
// Rendering is pure: inputs are never modified and every call returns a fresh slice.
package view

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/desertthunder/tubelist/internal/models"
	"github.com/desertthunder/tubelist/internal/shared"
)

// SortMode selects the display order.
type SortMode int

const (
	ByName SortMode = iota
	ByRating
)

func (m SortMode) String() string {
	switch m {
	case ByRating:
		return "rating"
	default:
		return "name"
	}
}

// Toggle returns the other sort mode.
func (m SortMode) Toggle() SortMode {
	if m == ByName {
		return ByRating
	}
	return ByName
}

// ParseSortMode accepts "name" or "rating" (case-insensitive). Empty input means [ByName].
func ParseSortMode(s string) (SortMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "name":
		return ByName, nil
	case "rating":
		return ByRating, nil
	default:
		return ByName, fmt.Errorf("%w: sort mode %q (want name or rating)", shared.ErrInvalidArgument, s)
	}
}

// Status tells the UI why a listing looks the way it does.
type Status int

const (
	StatusOK Status = iota
	StatusNoResults
	StatusNoSelection
)

func (s Status) String() string {
	switch s {
	case StatusNoResults:
		return "No videos found."
	case StatusNoSelection:
		return "No playlist selected."
	default:
		return ""
	}
}

// Options controls filtering and ordering.
type Options struct {
	Sort   SortMode
	Filter string
}

// Listing is the output of a render.
type Listing struct {
	Videos []models.Video
	Status Status
	Total  int // videos before filtering
}

// Empty reports whether there is nothing to display.
func (l Listing) Empty() bool { return l.Status != StatusOK }

// Render filters and sorts videos according to opts.
//
// An empty result carries [StatusNoResults].
func Render(videos []models.Video, opts Options) Listing {
	out := Filter(videos, opts.Filter)
	Sort(out, opts.Sort)

	status := StatusOK
	if len(out) == 0 {
		status = StatusNoResults
	}
	return Listing{Videos: out, Status: status, Total: len(videos)}
}

// RenderPlaylist renders p's videos. A nil playlist yields [StatusNoSelection].
func RenderPlaylist(p *models.Playlist, opts Options) Listing {
	if p == nil {
		return Listing{Videos: []models.Video{}, Status: StatusNoSelection}
	}
	return Render(p.Videos, opts)
}

// Filter returns a new slice with the videos whose title contains query,
// compared under Unicode case folding. A blank query keeps every video.
func Filter(videos []models.Video, query string) []models.Video {
	query = strings.TrimSpace(query)
	if query == "" {
		return slices.Clone(videos)
	}

	fold := cases.Fold()
	needle := fold.String(query)

	out := make([]models.Video, 0, len(videos))
	for _, v := range videos {
		if strings.Contains(fold.String(v.Title), needle) {
			out = append(out, v)
		}
	}
	return out
}

// Sort orders videos in place. The sort is stable.
func Sort(videos []models.Video, mode SortMode) {
	byName := NameComparator()

	switch mode {
	case ByRating:
		slices.SortStableFunc(videos, func(a, b models.Video) int {
			if d := b.EffectiveRating() - a.EffectiveRating(); d != 0 {
				return d
			}
			return byName(a, b)
		})
	default:
		slices.SortStableFunc(videos, byName)
	}
}

var dashes = strings.NewReplacer("–", "-", "—", "-")

// NameComparator returns a title comparator that ignores case and accents, orders
// embedded numbers numerically and treats en and em dashes as hyphens.
//
// The returned function is not safe for concurrent use.
func NameComparator() func(a, b models.Video) int {
	c := collate.New(language.English, collate.IgnoreCase, collate.IgnoreDiacritics, collate.Numeric)
	return func(a, b models.Video) int {
		return c.CompareString(normalizeTitle(a.Title), normalizeTitle(b.Title))
	}
}

func normalizeTitle(s string) string {
	return dashes.Replace(strings.TrimSpace(s))
}
