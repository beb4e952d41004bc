package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/desertthunder/tubelist/internal/models"
)

var styles = NewPalette("#FF0033", "#04B575", "#FF5F87", "#FFA500", "#626262")

// Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title    lipgloss.Style
	ok       lipgloss.Style
	err      lipgloss.Style
	warn     lipgloss.Style
	help     lipgloss.Style
	streamed lipgloss.Style
	local    lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title:    NewBold(t).MarginBottom(1),
		ok:       NewBold(s),
		err:      NewBold(e),
		warn:     NewStyle(w),
		help:     NewEm(h),
		streamed: NewStyle(t),
		local:    NewStyle(s),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// badge labels a video's media type.
func (p *Palette) badge(t models.MediaType) string {
	if t == models.MediaLocalAudio {
		return p.local.Render("MP3")
	}
	return p.streamed.Render("YouTube")
}
