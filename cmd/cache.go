package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"distream/internal/repositories"
	"distream/internal/shared"
	"distream/internal/tasks"
)

// CacheSync replaces the local catalog cache with the current remote state.
func (r *Runner) CacheSync(ctx context.Context, cmd *cli.Command) error {
	if r.engine == nil {
		return fmt.Errorf("%w: catalog engine not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Info("syncing catalog cache")

	progress := make(chan tasks.ProgressUpdate, 20)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.writePlain("%s\n", update.Message)
		}
	}()

	result, err := r.engine.Sync(ctx, progress)
	close(progress)
	<-done
	if err != nil {
		return fmt.Errorf("cache sync failed: %w", err)
	}

	r.writePlainln("✓ Sync complete")
	r.writePlain("  Movies: %d\n", result.MoviesSynced)
	r.writePlain("  Genres: %d\n", result.GenresSynced)
	r.writePlain("  Pruned: %d stale rows\n", result.Pruned)
	return nil
}

// CacheSearch queries the local cache without touching the network.
func (r *Runner) CacheSearch(ctx context.Context, cmd *cli.Command) error {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open cache database: %w", err)
	}
	defer db.Close()

	repo := repositories.NewMovieRepository(db)
	movies, err := repo.List(cmd.String("search"))
	if err != nil {
		return fmt.Errorf("cache query failed: %w", err)
	}
	if limit := cmd.Int("limit"); limit > 0 && limit < len(movies) {
		movies = movies[:limit]
	}

	if cmd.Bool("json") {
		return r.writeJSON(movies, true)
	}

	if len(movies) == 0 {
		return r.writePlain("No cached movies match. Run 'distream cache sync' first.\n")
	}

	r.writePlainHeader("Cached Movies")
	for _, movie := range movies {
		r.writePlain("%4d  %-40s %d  %s\n",
			movie.MovieID, movie.Title, movie.Year, shared.FormatRating(movie.AverageRating))
	}
	return nil
}

// cacheCommand handles the local catalog cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Manage the local catalog cache",
		Commands: []*cli.Command{
			{
				Name:   "sync",
				Usage:  "Sync the remote catalog into the local cache",
				Action: r.CacheSync,
			},
			{
				Name:  "search",
				Usage: "Search the local cache (works offline)",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "search",
						Aliases: []string{"s"},
						Usage:   "Filter by title",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum rows to return",
						Value: 50,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.CacheSearch,
			},
		},
	}
}
