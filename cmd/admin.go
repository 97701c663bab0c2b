package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v3"

	"distream/internal/models"
	"distream/internal/services"
	"distream/internal/shared"
)

// AdminUsersList lists all registered accounts.
func (r *Runner) AdminUsersList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAdmin(); err != nil {
		return err
	}

	params := services.ListParams{
		Search: cmd.String("search"),
		Page:   cmd.Int("page"),
		Limit:  cmd.Int("limit"),
	}

	users, pagination, err := r.auth.Users(ctx, params)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(users, true)
	}

	r.writePlainHeader("Users")
	for _, user := range users {
		r.writePlain("%4d  %-20s %-30s %-6s %s\n",
			user.UserID, user.Nickname, user.Email, user.Role, user.Plan)
	}
	if pagination != nil {
		r.writePlainln("Page %d of %d (%d total)", pagination.Page, pagination.TotalPages, pagination.Total)
	}
	return nil
}

// AdminUsersUpdate applies a partial update to an account.
func (r *Runner) AdminUsersUpdate(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAdmin(); err != nil {
		return err
	}

	id := cmd.Int("id")
	update := services.UserUpdate{
		Nickname: cmd.String("nickname"),
		Email:    cmd.String("email"),
	}
	if raw := cmd.String("plan"); raw != "" {
		plan, err := models.ParsePlan(raw)
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrInvalidFlag, err)
		}
		update.Plan = plan
	}
	if raw := cmd.String("role"); raw != "" {
		switch models.Role(raw) {
		case models.RoleUser, models.RoleAdmin:
			update.Role = models.Role(raw)
		default:
			return fmt.Errorf("%w: unknown role %q", shared.ErrInvalidFlag, raw)
		}
	}

	r.logger.Info("updating user", "id", id)

	user, err := r.auth.UpdateUser(ctx, id, update)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	r.writePlain("✓ Updated user %d (%s)\n", user.UserID, user.Email)
	return nil
}

// AdminUsersDelete removes an account.
func (r *Runner) AdminUsersDelete(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAdmin(); err != nil {
		return err
	}

	id := cmd.Int("id")
	r.logger.Info("deleting user", "id", id)

	if err := r.auth.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	return r.writePlain("✓ Deleted user %d\n", id)
}

// AdminMoviesCreate adds a movie to the catalog from a JSON document.
func (r *Runner) AdminMoviesCreate(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAdmin(); err != nil {
		return err
	}

	var movie models.Movie
	if err := json.Unmarshal([]byte(cmd.String("data")), &movie); err != nil {
		return fmt.Errorf("%w: data is not valid JSON: %v", shared.ErrInvalidInput, err)
	}

	created, err := r.movies.Create(ctx, movie)
	if err != nil {
		return fmt.Errorf("failed to create movie: %w", err)
	}

	r.writePlain("✓ Created movie %d: %s\n", created.MovieID, created.Title)
	return nil
}

// AdminMoviesUpdate updates a movie from a JSON document.
func (r *Runner) AdminMoviesUpdate(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAdmin(); err != nil {
		return err
	}

	id := cmd.Int("id")

	var movie models.Movie
	if err := json.Unmarshal([]byte(cmd.String("data")), &movie); err != nil {
		return fmt.Errorf("%w: data is not valid JSON: %v", shared.ErrInvalidInput, err)
	}

	updated, err := r.movies.Update(ctx, id, movie)
	if err != nil {
		return fmt.Errorf("failed to update movie: %w", err)
	}

	r.writePlain("✓ Updated movie %d: %s\n", updated.MovieID, updated.Title)
	return nil
}

// AdminMoviesDelete removes a movie from the catalog.
func (r *Runner) AdminMoviesDelete(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAdmin(); err != nil {
		return err
	}

	id := cmd.Int("id")
	if err := r.movies.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete movie: %w", err)
	}

	return r.writePlain("✓ Deleted movie %d\n", id)
}

// AdminMoviesLink attaches or detaches genres or actors on a movie.
func (r *Runner) AdminMoviesLink(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAdmin(); err != nil {
		return err
	}

	id := cmd.Int("id")
	detach := cmd.Bool("detach")

	genreIDs := cmd.IntSlice("genres")
	actorIDs := cmd.IntSlice("actors")
	if len(genreIDs) == 0 && len(actorIDs) == 0 {
		return fmt.Errorf("%w: provide --genres or --actors", shared.ErrMissingArgument)
	}

	if len(genreIDs) > 0 {
		op := r.movies.AttachGenres
		if detach {
			op = r.movies.DetachGenres
		}
		if err := op(ctx, id, genreIDs); err != nil {
			return fmt.Errorf("failed to update genre links: %w", err)
		}
	}
	if len(actorIDs) > 0 {
		op := r.movies.AttachActors
		if detach {
			op = r.movies.DetachActors
		}
		if err := op(ctx, id, actorIDs); err != nil {
			return fmt.Errorf("failed to update actor links: %w", err)
		}
	}

	verb := "Attached"
	if detach {
		verb = "Detached"
	}
	return r.writePlain("✓ %s %d genre(s), %d actor(s) on movie %d\n", verb, len(genreIDs), len(actorIDs), id)
}

// AdminGenres manages genre records.
func (r *Runner) AdminGenresCreate(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAdmin(); err != nil {
		return err
	}

	genre, err := r.genres.Create(ctx, cmd.String("name"))
	if err != nil {
		return fmt.Errorf("failed to create genre: %w", err)
	}

	return r.writePlain("✓ Created genre %d: %s\n", genre.GenreID, genre.Name)
}

func (r *Runner) AdminGenresUpdate(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAdmin(); err != nil {
		return err
	}

	id := cmd.Int("id")
	genre, err := r.genres.Update(ctx, id, cmd.String("name"))
	if err != nil {
		return fmt.Errorf("failed to update genre: %w", err)
	}

	return r.writePlain("✓ Renamed genre %d to %s\n", genre.GenreID, genre.Name)
}

func (r *Runner) AdminGenresDelete(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAdmin(); err != nil {
		return err
	}

	id := cmd.Int("id")
	if err := r.genres.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete genre: %w", err)
	}

	return r.writePlain("✓ Deleted genre %d\n", id)
}

// AdminActors manages actor records.
func (r *Runner) AdminActorsCreate(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAdmin(); err != nil {
		return err
	}

	actor := models.Actor{
		Name:  cmd.String("name"),
		Photo: cmd.String("photo"),
	}

	created, err := r.actors.Create(ctx, actor)
	if err != nil {
		return fmt.Errorf("failed to create actor: %w", err)
	}

	return r.writePlain("✓ Created actor %d: %s\n", created.ActorID, created.Name)
}

func (r *Runner) AdminActorsUpdate(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAdmin(); err != nil {
		return err
	}

	id := cmd.Int("id")
	actor := models.Actor{
		Name:  cmd.String("name"),
		Photo: cmd.String("photo"),
	}

	updated, err := r.actors.Update(ctx, id, actor)
	if err != nil {
		return fmt.Errorf("failed to update actor: %w", err)
	}

	return r.writePlain("✓ Updated actor %d: %s\n", updated.ActorID, updated.Name)
}

func (r *Runner) AdminActorsDelete(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAdmin(); err != nil {
		return err
	}

	id := cmd.Int("id")
	if err := r.actors.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete actor: %w", err)
	}

	return r.writePlain("✓ Deleted actor %d\n", id)
}

// AdminReviewsList lists reviews, optionally filtered by movie or user.
func (r *Runner) AdminReviewsList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAdmin(); err != nil {
		return err
	}

	params := services.ReviewParams{
		MovieID: cmd.Int("movie"),
		UserID:  cmd.Int("user"),
		Page:    cmd.Int("page"),
		Limit:   cmd.Int("limit"),
	}

	reviews, pagination, err := r.reviews.List(ctx, params)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(reviews, true)
	}

	r.writePlainHeader("Reviews")
	for _, review := range reviews {
		r.writePlain("%4d  movie=%d user=%d rating=%.1f\n",
			review.ReviewID, review.MovieID, review.UserID, review.Rating)
	}
	if pagination != nil {
		r.writePlainln("Page %d of %d (%d total)", pagination.Page, pagination.TotalPages, pagination.Total)
	}
	return nil
}

// AdminReviewsDelete removes a review.
func (r *Runner) AdminReviewsDelete(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAdmin(); err != nil {
		return err
	}

	id := cmd.Int("id")
	if err := r.reviews.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete review: %w", err)
	}

	return r.writePlain("✓ Deleted review %d\n", id)
}

// adminCommand groups catalog and account administration
func adminCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "Catalog and account administration (admin role required)",
		Commands: []*cli.Command{
			{
				Name:  "users",
				Usage: "Manage accounts",
				Commands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List accounts",
						Flags:  listFlags(),
						Action: r.AdminUsersList,
					},
					{
						Name:  "update",
						Usage: "Update an account",
						Flags: []cli.Flag{
							&cli.IntFlag{Name: "id", Required: true},
							&cli.StringFlag{Name: "nickname", Usage: "New display name"},
							&cli.StringFlag{Name: "email", Usage: "New email"},
							&cli.StringFlag{Name: "plan", Usage: "New plan"},
							&cli.StringFlag{Name: "role", Usage: "New role (user or admin)"},
						},
						Action: r.AdminUsersUpdate,
					},
					{
						Name:  "delete",
						Usage: "Delete an account",
						Flags: []cli.Flag{
							&cli.IntFlag{Name: "id", Required: true},
						},
						Action: r.AdminUsersDelete,
					},
				},
			},
			{
				Name:  "movies",
				Usage: "Manage the catalog",
				Commands: []*cli.Command{
					{
						Name:  "create",
						Usage: "Create a movie from JSON",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:     "data",
								Aliases:  []string{"d"},
								Usage:    "Movie JSON document",
								Required: true,
							},
						},
						Action: r.AdminMoviesCreate,
					},
					{
						Name:  "update",
						Usage: "Update a movie from JSON",
						Flags: []cli.Flag{
							&cli.IntFlag{Name: "id", Required: true},
							&cli.StringFlag{
								Name:     "data",
								Aliases:  []string{"d"},
								Usage:    "Movie JSON document",
								Required: true,
							},
						},
						Action: r.AdminMoviesUpdate,
					},
					{
						Name:  "delete",
						Usage: "Delete a movie",
						Flags: []cli.Flag{
							&cli.IntFlag{Name: "id", Required: true},
						},
						Action: r.AdminMoviesDelete,
					},
					{
						Name:  "link",
						Usage: "Attach or detach genres and actors",
						Flags: []cli.Flag{
							&cli.IntFlag{Name: "id", Required: true},
							&cli.IntSliceFlag{Name: "genres", Usage: "Genre IDs"},
							&cli.IntSliceFlag{Name: "actors", Usage: "Actor IDs"},
							&cli.BoolFlag{Name: "detach", Usage: "Detach instead of attach"},
						},
						Action: r.AdminMoviesLink,
					},
				},
			},
			{
				Name:  "genres",
				Usage: "Manage genres",
				Commands: []*cli.Command{
					{
						Name:  "create",
						Usage: "Create a genre",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "name", Required: true},
						},
						Action: r.AdminGenresCreate,
					},
					{
						Name:  "update",
						Usage: "Rename a genre",
						Flags: []cli.Flag{
							&cli.IntFlag{Name: "id", Required: true},
							&cli.StringFlag{Name: "name", Required: true},
						},
						Action: r.AdminGenresUpdate,
					},
					{
						Name:  "delete",
						Usage: "Delete a genre",
						Flags: []cli.Flag{
							&cli.IntFlag{Name: "id", Required: true},
						},
						Action: r.AdminGenresDelete,
					},
				},
			},
			{
				Name:  "actors",
				Usage: "Manage the cast roster",
				Commands: []*cli.Command{
					{
						Name:  "create",
						Usage: "Create an actor",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "name", Required: true},
							&cli.StringFlag{Name: "photo", Usage: "Photo URL"},
						},
						Action: r.AdminActorsCreate,
					},
					{
						Name:  "update",
						Usage: "Update an actor",
						Flags: []cli.Flag{
							&cli.IntFlag{Name: "id", Required: true},
							&cli.StringFlag{Name: "name", Required: true},
							&cli.StringFlag{Name: "photo", Usage: "Photo URL"},
						},
						Action: r.AdminActorsUpdate,
					},
					{
						Name:  "delete",
						Usage: "Delete an actor",
						Flags: []cli.Flag{
							&cli.IntFlag{Name: "id", Required: true},
						},
						Action: r.AdminActorsDelete,
					},
				},
			},
			{
				Name:  "reviews",
				Usage: "Moderate reviews",
				Commands: []*cli.Command{
					{
						Name:  "list",
						Usage: "List reviews",
						Flags: []cli.Flag{
							&cli.IntFlag{Name: "movie", Usage: "Filter by movie ID"},
							&cli.IntFlag{Name: "user", Usage: "Filter by user ID"},
							&cli.IntFlag{Name: "page", Value: 1},
							&cli.IntFlag{Name: "limit", Value: 50},
							&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
						},
						Action: r.AdminReviewsList,
					},
					{
						Name:  "delete",
						Usage: "Delete a review",
						Flags: []cli.Flag{
							&cli.IntFlag{Name: "id", Required: true},
						},
						Action: r.AdminReviewsDelete,
					},
				},
			},
		},
	}
}
