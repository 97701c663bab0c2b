package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"distream/internal/shared"
	"distream/internal/ui"
)

// TUI launches the interactive terminal UI for browsing the catalog.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuthenticated(); err != nil {
		return err
	}
	if r.engine == nil {
		return fmt.Errorf("%w: catalog engine not initialized", shared.ErrServiceUnavailable)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/distream-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	user, _ := r.session.User()

	model := ui.NewModel(ctx, r.movies, r.history, r.engine, user)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// tuiCommand returns the top-level TUI command for interactive browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "browse"},
		Usage:   "Launch interactive catalog browser",
		Action:  r.TUI,
	}
}
