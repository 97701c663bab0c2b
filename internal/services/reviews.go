package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"distream/internal/api"
	"distream/internal/models"
)

// Reviews implements the review moderation endpoints. Rating submission
// lives on [Movies.Rate]; this service covers listing and removal.
type Reviews struct {
	client *api.Client
}

// NewReviews creates a Reviews service backed by the given client.
func NewReviews(client *api.Client) *Reviews {
	return &Reviews{client: client}
}

// ReviewParams filters a review listing.
type ReviewParams struct {
	MovieID int
	UserID  int
	Page    int
	Limit   int
}

func (p ReviewParams) values() url.Values {
	q := url.Values{}
	if p.MovieID > 0 {
		q.Set("movie_id", strconv.Itoa(p.MovieID))
	}
	if p.UserID > 0 {
		q.Set("user_id", strconv.Itoa(p.UserID))
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	return q
}

// List retrieves reviews matching the filter.
func (r *Reviews) List(ctx context.Context, p ReviewParams) ([]models.Review, *models.Pagination, error) {
	var reviews []models.Review
	env, err := r.client.Do(ctx, http.MethodGet, "/reviews", p.values(), nil, &reviews)
	if err != nil {
		return nil, nil, err
	}
	return reviews, env.Pagination, nil
}

// Delete removes a review (admin only).
func (r *Reviews) Delete(ctx context.Context, id int) error {
	_, err := r.client.Do(ctx, http.MethodDelete, fmt.Sprintf("/reviews/%d", id), nil, nil, nil)
	return err
}

// History implements the watch-history endpoints.
type History struct {
	client *api.Client
}

// NewHistory creates a History service backed by the given client.
func NewHistory(client *api.Client) *History {
	return &History{client: client}
}

// List retrieves the authenticated user's watch history.
func (h *History) List(ctx context.Context) ([]models.WatchEntry, error) {
	var entries []models.WatchEntry
	if _, err := h.client.Do(ctx, http.MethodGet, "/watch-history", nil, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Add records that the user watched a movie.
func (h *History) Add(ctx context.Context, userID, movieID int) error {
	body := map[string]any{
		"user_id":  userID,
		"movie_id": movieID,
	}
	_, err := h.client.Do(ctx, http.MethodPost, "/watch-history", nil, body, nil)
	return err
}
