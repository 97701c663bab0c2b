package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"distream/internal/services"
	"distream/internal/shared"
)

// GenresList lists all genres.
func (r *Runner) GenresList(ctx context.Context, cmd *cli.Command) error {
	params := services.ListParams{
		Search: cmd.String("search"),
		Page:   cmd.Int("page"),
		Limit:  cmd.Int("limit"),
	}

	genres, pagination, err := r.genres.List(ctx, params)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(genres, true)
	}

	r.writePlainHeader("Genres")
	for _, genre := range genres {
		r.writePlain("%4d  %s\n", genre.GenreID, genre.Name)
	}
	if pagination != nil {
		r.writePlainln("Page %d of %d (%d total)", pagination.Page, pagination.TotalPages, pagination.Total)
	}
	return nil
}

// GenresGet shows a genre and its movies.
func (r *Runner) GenresGet(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Int("id")
	if id <= 0 {
		return fmt.Errorf("%w: --id is required", shared.ErrMissingArgument)
	}

	genre, err := r.genres.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(genre, true)
	}

	r.writePlainHeader(genre.Name)
	for _, movie := range genre.Movies {
		r.writePlain("%4d  %s (%d)\n", movie.MovieID, movie.Title, movie.Year)
	}
	return nil
}

// ActorsList lists all actors.
func (r *Runner) ActorsList(ctx context.Context, cmd *cli.Command) error {
	params := services.ListParams{
		Search: cmd.String("search"),
		Page:   cmd.Int("page"),
		Limit:  cmd.Int("limit"),
	}

	actors, pagination, err := r.actors.List(ctx, params)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(actors, true)
	}

	r.writePlainHeader("Actors")
	for _, actor := range actors {
		r.writePlain("%4d  %s\n", actor.ActorID, actor.Name)
	}
	if pagination != nil {
		r.writePlainln("Page %d of %d (%d total)", pagination.Page, pagination.TotalPages, pagination.Total)
	}
	return nil
}

// ActorsGet shows an actor and their filmography.
func (r *Runner) ActorsGet(ctx context.Context, cmd *cli.Command) error {
	id := cmd.Int("id")
	if id <= 0 {
		return fmt.Errorf("%w: --id is required", shared.ErrMissingArgument)
	}

	actor, err := r.actors.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(actor, true)
	}

	r.writePlainHeader(actor.Name)
	for _, movie := range actor.Movies {
		r.writePlain("%4d  %s (%d)\n", movie.MovieID, movie.Title, movie.Year)
	}
	return nil
}

func listFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "search",
			Aliases: []string{"s"},
			Usage:   "Filter by name",
		},
		&cli.IntFlag{
			Name:  "page",
			Usage: "Page number",
			Value: 1,
		},
		&cli.IntFlag{
			Name:  "limit",
			Usage: "Results per page",
			Value: 50,
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
	}
}

func getFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:     "id",
			Required: true,
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
	}
}

// genresCommand handles genre browsing
func genresCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "genres",
		Usage: "Browse genres",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List genres",
				Flags:  listFlags(),
				Action: r.GenresList,
			},
			{
				Name:   "get",
				Usage:  "Show a genre and its movies",
				Flags:  getFlags(),
				Action: r.GenresGet,
			},
		},
	}
}

// actorsCommand handles actor browsing
func actorsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "actors",
		Usage: "Browse actors",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List actors",
				Flags:  listFlags(),
				Action: r.ActorsList,
			},
			{
				Name:   "get",
				Usage:  "Show an actor's filmography",
				Flags:  getFlags(),
				Action: r.ActorsGet,
			},
		},
	}
}
