package services

import (
	"context"
	"fmt"
	"net/http"

	"distream/internal/api"
	"distream/internal/models"
)

// Genres implements the genre endpoints.
type Genres struct {
	client *api.Client
}

// NewGenres creates a Genres service backed by the given client.
func NewGenres(client *api.Client) *Genres {
	return &Genres{client: client}
}

// List retrieves a page of genres.
func (g *Genres) List(ctx context.Context, p ListParams) ([]models.Genre, *models.Pagination, error) {
	var genres []models.Genre
	env, err := g.client.Do(ctx, http.MethodGet, "/genres", p.Values(), nil, &genres)
	if err != nil {
		return nil, nil, err
	}
	return genres, env.Pagination, nil
}

// Get retrieves a genre with its movies.
func (g *Genres) Get(ctx context.Context, id int) (*models.Genre, error) {
	var genre models.Genre
	if _, err := g.client.Do(ctx, http.MethodGet, fmt.Sprintf("/genres/%d", id), nil, nil, &genre); err != nil {
		return nil, err
	}
	return &genre, nil
}

// Create adds a genre (admin only).
func (g *Genres) Create(ctx context.Context, name string) (*models.Genre, error) {
	body := map[string]any{"genre_name": name}

	var genre models.Genre
	if _, err := g.client.Do(ctx, http.MethodPost, "/genres", nil, body, &genre); err != nil {
		return nil, err
	}
	return &genre, nil
}

// Update renames a genre (admin only).
func (g *Genres) Update(ctx context.Context, id int, name string) (*models.Genre, error) {
	body := map[string]any{"genre_name": name}

	var genre models.Genre
	if _, err := g.client.Do(ctx, http.MethodPut, fmt.Sprintf("/genres/%d", id), nil, body, &genre); err != nil {
		return nil, err
	}
	return &genre, nil
}

// Delete removes a genre (admin only).
func (g *Genres) Delete(ctx context.Context, id int) error {
	_, err := g.client.Do(ctx, http.MethodDelete, fmt.Sprintf("/genres/%d", id), nil, nil, nil)
	return err
}

// Actors implements the actor endpoints.
type Actors struct {
	client *api.Client
}

// NewActors creates an Actors service backed by the given client.
func NewActors(client *api.Client) *Actors {
	return &Actors{client: client}
}

// List retrieves a page of actors.
func (a *Actors) List(ctx context.Context, p ListParams) ([]models.Actor, *models.Pagination, error) {
	var actors []models.Actor
	env, err := a.client.Do(ctx, http.MethodGet, "/actors", p.Values(), nil, &actors)
	if err != nil {
		return nil, nil, err
	}
	return actors, env.Pagination, nil
}

// Get retrieves an actor with their movies.
func (a *Actors) Get(ctx context.Context, id int) (*models.Actor, error) {
	var actor models.Actor
	if _, err := a.client.Do(ctx, http.MethodGet, fmt.Sprintf("/actors/%d", id), nil, nil, &actor); err != nil {
		return nil, err
	}
	return &actor, nil
}

// Create adds an actor (admin only).
func (a *Actors) Create(ctx context.Context, actor models.Actor) (*models.Actor, error) {
	var created models.Actor
	if _, err := a.client.Do(ctx, http.MethodPost, "/actors", nil, actor, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update replaces an actor's fields (admin only).
func (a *Actors) Update(ctx context.Context, id int, actor models.Actor) (*models.Actor, error) {
	var updated models.Actor
	if _, err := a.client.Do(ctx, http.MethodPut, fmt.Sprintf("/actors/%d", id), nil, actor, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes an actor (admin only).
func (a *Actors) Delete(ctx context.Context, id int) error {
	_, err := a.client.Do(ctx, http.MethodDelete, fmt.Sprintf("/actors/%d", id), nil, nil, nil)
	return err
}
