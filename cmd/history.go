package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"distream/internal/shared"
)

// HistoryList shows the signed-in user's watch history.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuthenticated(); err != nil {
		return err
	}

	entries, err := r.history.List(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(entries, true)
	}

	if len(entries) == 0 {
		return r.writePlain("Watch history is empty\n")
	}

	r.writePlainHeader("Watch History")
	for _, entry := range entries {
		title := fmt.Sprintf("movie %d", entry.MovieID)
		if entry.Movie != nil && entry.Movie.Title != "" {
			title = entry.Movie.Title
		}
		r.writePlain("%s  %s\n", entry.WatchedAt, title)
	}
	return nil
}

// HistoryAdd records that the signed-in user watched a movie.
func (r *Runner) HistoryAdd(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuthenticated(); err != nil {
		return err
	}

	id := cmd.Int("id")
	if id <= 0 {
		return fmt.Errorf("%w: --id is required", shared.ErrMissingArgument)
	}

	user, _ := r.session.User()

	r.logger.Info("recording watch", "movie", id, "user", user.UserID)

	if err := r.history.Add(ctx, user.UserID, id); err != nil {
		return fmt.Errorf("failed to record watch: %w", err)
	}

	return r.writePlain("✓ Added movie %d to watch history\n", id)
}

// historyCommand handles watch history operations
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Manage your watch history",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "Show your watch history",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.HistoryList,
			},
			{
				Name:  "add",
				Usage: "Record a watched movie",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "id",
						Usage:    "Movie ID",
						Required: true,
					},
				},
				Action: r.HistoryAdd,
			},
		},
	}
}
