package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"distream/internal/formatter"
	"distream/internal/models"
	"distream/internal/services"
	"distream/internal/shared"
	"distream/internal/tasks"
)

// ExportMovies writes the current catalog listing to a CSV file.
func (r *Runner) ExportMovies(ctx context.Context, cmd *cli.Command) error {
	output := cmd.String("output")

	r.logger.Info("exporting movie catalog", "output", output)

	var movies []models.Movie
	var err error
	if cmd.Bool("all") {
		movies, _, err = r.movies.List(ctx, services.ListParams{Limit: 500})
	} else {
		movies, err = r.movies.Trending(ctx)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	data, err := formatter.ExportToCSV(movies)
	if err != nil {
		return fmt.Errorf("CSV export failed: %w", err)
	}

	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	r.writePlain("✓ Exported %d movies to %s\n", len(movies), output)
	return nil
}

// ExportGenres exports the movie listings of one or more genres.
func (r *Runner) ExportGenres(ctx context.Context, cmd *cli.Command) error {
	ids := cmd.IntSlice("ids")
	if len(ids) == 0 {
		return fmt.Errorf("%w: --ids is required", shared.ErrMissingArgument)
	}

	opts := tasks.BulkExportOpts{
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("output"),
		NumWorkers: cmd.Int("workers"),
		RateLimit:  cmd.Float64("rate-limit"),
	}

	r.logger.Info("bulk exporting genres", "count", len(ids), "format", opts.Format)

	progress := make(chan tasks.ProgressUpdate, 20)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.writePlain("%s (%d/%d)\n", update.Message, update.Current, update.Total)
		}
	}()

	result, err := r.engine.BulkExport(ctx, progress, ids, opts)
	close(progress)
	<-done
	if err != nil {
		return fmt.Errorf("bulk export failed: %w", err)
	}

	r.writePlainln("✓ Export complete")
	r.writePlain("  Successful: %d\n", result.SuccessfulExports)
	r.writePlain("  Failed: %d\n", result.FailedExports)
	r.writePlain("  Output: %s\n", result.OutputDirectory)
	if result.ManifestPath != "" {
		r.writePlain("  Manifest: %s\n", result.ManifestPath)
	}

	for _, res := range result.Results {
		if !res.Success {
			r.logger.Warn("genre export failed", "genre", res.GenreName, "error", res.Error)
		}
	}
	return nil
}

// exportCommand handles catalog exports
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export catalog data to files",
		Commands: []*cli.Command{
			{
				Name:  "movies",
				Usage: "Export the movie listing to CSV",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
						Value:   "movies.csv",
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Export the full listing instead of trending",
					},
				},
				Action: r.ExportMovies,
			},
			{
				Name:  "genres",
				Usage: "Export genre listings concurrently",
				Flags: []cli.Flag{
					&cli.IntSliceFlag{
						Name:     "ids",
						Usage:    "Genre IDs to export",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (json, csv, markdown, txt)",
						Value:   "json",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent export workers (max 10)",
						Value: 5,
					},
					&cli.Float64Flag{
						Name:  "rate-limit",
						Usage: "API requests per second",
						Value: 5,
					},
				},
				Action: r.ExportGenres,
			},
		},
	}
}
