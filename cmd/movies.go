package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"distream/internal/services"
	"distream/internal/shared"
)

// MoviesList lists the catalog with optional search and sorting.
func (r *Runner) MoviesList(ctx context.Context, cmd *cli.Command) error {
	params := services.ListParams{
		Search: cmd.String("search"),
		Sort:   cmd.String("sort"),
		Order:  cmd.String("order"),
		Page:   cmd.Int("page"),
		Limit:  cmd.Int("limit"),
	}

	r.logger.Info("listing movies", "search", params.Search, "page", params.Page)

	movies, pagination, err := r.movies.List(ctx, params)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(movies, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Movies")
	for _, movie := range movies {
		r.writePlain("%4d  %-40s %d  %s  %s\n",
			movie.MovieID, movie.Title, movie.Year,
			shared.FormatDuration(movie.Duration), shared.FormatRating(movie.AverageRating))
	}
	if pagination != nil {
		r.writePlainln("Page %d of %d (%d total)", pagination.Page, pagination.TotalPages, pagination.Total)
	}
	return nil
}

// MoviesTrending shows the newest titles, mirroring the storefront's
// trending rail.
func (r *Runner) MoviesTrending(ctx context.Context, cmd *cli.Command) error {
	movies, err := r.movies.Trending(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(movies, true)
	}

	r.writePlainHeader("Trending Now")
	for i, movie := range movies {
		r.writePlain("%2d. %s (%d)\n", i+1, movie.Title, movie.Year)
	}
	return nil
}

// MoviesGet shows a single movie's full details.
func (r *Runner) MoviesGet(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Int("id")
	if id <= 0 {
		return fmt.Errorf("%w: --id is required", shared.ErrMissingArgument)
	}

	movie, err := r.movies.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(movie, true)
	}

	r.writePlainHeader(movie.Title)
	r.writePlain("Year: %d\n", movie.Year)
	r.writePlain("Duration: %s\n", shared.FormatDuration(movie.Duration))
	r.writePlain("Rating: %s\n", shared.FormatRating(movie.AverageRating))
	if len(movie.Genres) > 0 {
		r.writePlain("Genres:")
		for _, genre := range movie.Genres {
			r.writePlain(" %s", genre.Name)
		}
		r.writePlain("\n")
	}
	if len(movie.Actors) > 0 {
		r.writePlain("Cast:")
		for _, actor := range movie.Actors {
			r.writePlain(" %s", actor.Name)
		}
		r.writePlain("\n")
	}
	if desc := movie.Description(); desc != "" {
		r.writePlainln("%s", desc)
	}
	return nil
}

// MoviesRate submits a 1-10 rating for a movie. Requires a session.
func (r *Runner) MoviesRate(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuthenticated(); err != nil {
		return err
	}

	id := cmd.Int("id")
	rating := cmd.Float64("rating")
	if id <= 0 {
		return fmt.Errorf("%w: --id is required", shared.ErrMissingArgument)
	}

	r.logger.Info("rating movie", "id", id, "rating", rating)

	result, err := r.movies.Rate(ctx, id, rating)
	if err != nil {
		return fmt.Errorf("failed to submit rating: %w", err)
	}

	// Some deployments return only the stored review.
	if result.Movie == nil {
		r.writePlain("✓ Rated movie %d %.1f\n", id, rating)
		return nil
	}

	r.writePlain("✓ Rated '%s' %.1f\n", result.Movie.Title, rating)
	r.writePlain("New average: %s\n", shared.FormatRating(result.Movie.AverageRating))
	return nil
}

// MoviesOpen opens a movie's poster in the default browser.
func (r *Runner) MoviesOpen(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Int("id")
	if id <= 0 {
		return fmt.Errorf("%w: --id is required", shared.ErrMissingArgument)
	}

	movie, err := r.movies.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if movie.Poster == "" {
		return fmt.Errorf("%w: movie %d has no poster", shared.ErrMovieNotFound, id)
	}

	r.logger.Info("opening poster", "url", movie.Poster)
	if err := shared.OpenBrowser(movie.Poster); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	return r.writePlain("✓ Opened poster for '%s'\n", movie.Title)
}

// moviesCommand handles catalog browsing operations
func moviesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "movies",
		Aliases: []string{"mov"},
		Usage:   "Browse the movie catalog",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List movies with optional search",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "search",
						Aliases: []string{"s"},
						Usage:   "Filter by title",
					},
					&cli.StringFlag{
						Name:  "sort",
						Usage: "Sort column (movie_title, production_year, movie_id)",
					},
					&cli.StringFlag{
						Name:  "order",
						Usage: "Sort order (asc or desc)",
					},
					&cli.IntFlag{
						Name:  "page",
						Usage: "Page number",
						Value: 1,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Results per page",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.MoviesList,
			},
			{
				Name:  "trending",
				Usage: "Show the newest titles",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.MoviesTrending,
			},
			{
				Name:  "get",
				Usage: "Show a movie's details",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "id",
						Usage:    "Movie ID",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.MoviesGet,
			},
			{
				Name:  "rate",
				Usage: "Rate a movie from 1 to 10",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "id",
						Usage:    "Movie ID",
						Required: true,
					},
					&cli.Float64Flag{
						Name:     "rating",
						Usage:    "Rating between 1 and 10",
						Required: true,
					},
				},
				Action: r.MoviesRate,
			},
			{
				Name:  "open",
				Usage: "Open a movie's poster in the browser",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "id",
						Usage:    "Movie ID",
						Required: true,
					},
				},
				Action: r.MoviesOpen,
			},
		},
	}
}
