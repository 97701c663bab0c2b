package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"distream/internal/api"
	"distream/internal/models"
)

// Movies implements the movie catalog endpoints.
type Movies struct {
	client *api.Client
}

// NewMovies creates a Movies service backed by the given client.
func NewMovies(client *api.Client) *Movies {
	return &Movies{client: client}
}

// List retrieves a page of movies with optional search and sort parameters.
func (m *Movies) List(ctx context.Context, p ListParams) ([]models.Movie, *models.Pagination, error) {
	var movies []models.Movie
	env, err := m.client.Do(ctx, http.MethodGet, "/movies", p.Values(), nil, &movies)
	if err != nil {
		return nil, nil, err
	}
	return movies, env.Pagination, nil
}

// Trending retrieves the ten most recently added movies.
func (m *Movies) Trending(ctx context.Context) ([]models.Movie, error) {
	q := url.Values{}
	q.Set("sort", "movie_id")
	q.Set("order", "desc")
	q.Set("limit", "10")

	var movies []models.Movie
	if _, err := m.client.Do(ctx, http.MethodGet, "/movies", q, nil, &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

// Get retrieves a single movie with its genres and cast.
func (m *Movies) Get(ctx context.Context, id int) (*models.Movie, error) {
	var movie models.Movie
	if _, err := m.client.Do(ctx, http.MethodGet, fmt.Sprintf("/movies/%d", id), nil, nil, &movie); err != nil {
		return nil, err
	}
	return &movie, nil
}

// Create adds a movie to the catalog (admin only).
func (m *Movies) Create(ctx context.Context, movie models.Movie) (*models.Movie, error) {
	if err := movie.Validate(); err != nil {
		return nil, err
	}

	var created models.Movie
	if _, err := m.client.Do(ctx, http.MethodPost, "/movies", nil, movie, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update replaces a movie's fields (admin only).
func (m *Movies) Update(ctx context.Context, id int, movie models.Movie) (*models.Movie, error) {
	if err := movie.Validate(); err != nil {
		return nil, err
	}

	var updated models.Movie
	if _, err := m.client.Do(ctx, http.MethodPut, fmt.Sprintf("/movies/%d", id), nil, movie, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a movie from the catalog (admin only).
func (m *Movies) Delete(ctx context.Context, id int) error {
	_, err := m.client.Do(ctx, http.MethodDelete, fmt.Sprintf("/movies/%d", id), nil, nil, nil)
	return err
}

// RateResult is the payload returned after submitting a rating: the stored
// review plus the movie with its recalculated average.
type RateResult struct {
	Review *models.Review `json:"review,omitempty"`
	Movie  *models.Movie  `json:"movie,omitempty"`
}

// Rate submits a 1-10 star rating for a movie on behalf of the
// authenticated user. Rating aggregation happens server-side.
func (m *Movies) Rate(ctx context.Context, movieID int, rating float64) (*RateResult, error) {
	if rating < 1 || rating > 10 {
		return nil, fmt.Errorf("rating must be between 1 and 10")
	}

	body := map[string]any{
		"movie_id": movieID,
		"rating":   rating,
	}

	var result RateResult
	if _, err := m.client.Do(ctx, http.MethodPost, "/reviews", nil, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AttachGenres links genres to a movie (admin only).
func (m *Movies) AttachGenres(ctx context.Context, movieID int, genreIDs []int) error {
	body := map[string]any{"genre_ids": genreIDs}
	_, err := m.client.Do(ctx, http.MethodPost, fmt.Sprintf("/movies/%d/genres", movieID), nil, body, nil)
	return err
}

// DetachGenres unlinks genres from a movie (admin only).
func (m *Movies) DetachGenres(ctx context.Context, movieID int, genreIDs []int) error {
	body := map[string]any{"genre_ids": genreIDs}
	_, err := m.client.Do(ctx, http.MethodDelete, fmt.Sprintf("/movies/%d/genres", movieID), nil, body, nil)
	return err
}

// AttachActors links cast members to a movie (admin only).
func (m *Movies) AttachActors(ctx context.Context, movieID int, actorIDs []int) error {
	body := map[string]any{"actor_ids": actorIDs}
	_, err := m.client.Do(ctx, http.MethodPost, fmt.Sprintf("/movies/%d/actors", movieID), nil, body, nil)
	return err
}

// DetachActors unlinks cast members from a movie (admin only).
func (m *Movies) DetachActors(ctx context.Context, movieID int, actorIDs []int) error {
	body := map[string]any{"actor_ids": actorIDs}
	_, err := m.client.Do(ctx, http.MethodDelete, fmt.Sprintf("/movies/%d/actors", movieID), nil, body, nil)
	return err
}
