package formatter

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/desertthunder/tubelist/internal/models"
	"github.com/desertthunder/tubelist/internal/view"
)

var isoDuration = regexp.MustCompile(`PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// ParseISODuration parses the time part of an ISO-8601 duration such as PT1H2M3S.
func ParseISODuration(s string) (time.Duration, error) {
	m := isoDuration.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid ISO-8601 duration %q", s)
	}

	var d time.Duration
	for i, unit := range []time.Duration{time.Hour, time.Minute, time.Second} {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return 0, fmt.Errorf("invalid ISO-8601 duration %q: %w", s, err)
		}
		d += time.Duration(n) * unit
	}
	return d, nil
}

// FormatDuration renders an ISO-8601 duration as h:mm:ss, or m:ss under an hour.
// Missing or unparseable durations render as N/A.
func FormatDuration(iso string) string {
	if iso == "" {
		return "N/A"
	}
	d, err := ParseISODuration(iso)
	if err != nil {
		return "N/A"
	}

	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatViewCount abbreviates a view count: 1234567 → "1.2M views".
func FormatViewCount(n uint64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM views", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK views", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d views", n)
	}
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// WriteVideoTable prints a rendered listing. Empty listings print their status message instead.
func WriteVideoTable(w io.Writer, l view.Listing) error {
	if l.Empty() {
		_, err := fmt.Fprintln(w, l.Status)
		return err
	}

	t := newTable("#", "Title", "Rating", "Type", "ID")
	for i, v := range l.Videos {
		t.Row(strconv.Itoa(i+1), v.Title, fmt.Sprintf("%d/10", v.EffectiveRating()), string(v.Type), v.VideoID)
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// WritePlaylistTable prints one row per playlist.
func WritePlaylistTable(w io.Writer, playlists []models.Playlist) error {
	if len(playlists) == 0 {
		_, err := fmt.Fprintln(w, "No playlists yet.")
		return err
	}

	t := newTable("ID", "Name", "Videos")
	for _, p := range playlists {
		t.Row(p.ID, p.Name, strconv.Itoa(len(p.Videos)))
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

// WriteSearchTable prints search results; added reports whether a video is already in a playlist.
func WriteSearchTable(w io.Writer, results []models.SearchResult, added func(videoID string) bool) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No videos found.")
		return err
	}

	t := newTable("#", "Title", "Channel", "Duration", "Views", "ID", "")
	for i, r := range results {
		mark := ""
		if added != nil && added(r.VideoID) {
			mark = "added"
		}
		t.Row(strconv.Itoa(i+1), r.Title, r.ChannelTitle, FormatDuration(r.Duration), FormatViewCount(r.ViewCount), r.VideoID, mark)
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}
