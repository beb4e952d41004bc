package main

import (
	"context"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/tubelist/internal/shared"
	"github.com/desertthunder/tubelist/internal/ui"
)

// TUI launches the interactive playlist browser for the signed-in user.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	if r.config.Log.File == "" {
		fileLogger, err := shared.NewFileLogger(filepath.Join(shared.ConfigDir(), "tui.log"))
		if err != nil {
			return fmt.Errorf("failed to create file logger: %w", err)
		}
		fileLogger.SetLevel(r.logger.GetLevel())
		r.SetLogger(fileLogger)
	}

	session, err := r.session()
	if err != nil {
		return err
	}

	model := ui.NewModel(ctx, session, r.library, r.opener)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
