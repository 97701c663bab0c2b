package models

import (
	"fmt"
	"strings"
)

// Role identifies the authorization level of a user account.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Plan identifies a subscription tier. PlanNone marks an account that has
// not selected a plan yet.
type Plan string

const (
	PlanNone     Plan = ""
	PlanMobile   Plan = "mobile"
	PlanBasic    Plan = "basic"
	PlanStandard Plan = "standard"
	PlanPremium  Plan = "premium"
)

// Plans lists the selectable subscription tiers in ascending price order.
func Plans() []Plan {
	return []Plan{PlanMobile, PlanBasic, PlanStandard, PlanPremium}
}

// ParsePlan converts a user-supplied plan name to a Plan.
func ParsePlan(s string) (Plan, error) {
	switch Plan(strings.ToLower(strings.TrimSpace(s))) {
	case PlanMobile:
		return PlanMobile, nil
	case PlanBasic:
		return PlanBasic, nil
	case PlanStandard:
		return PlanStandard, nil
	case PlanPremium:
		return PlanPremium, nil
	default:
		return PlanNone, fmt.Errorf("unknown plan %q (expected mobile, basic, standard or premium)", s)
	}
}

// User represents an account profile as returned by the API.
type User struct {
	UserID   int    `json:"user_id"`
	Nickname string `json:"user_nickname"`
	Email    string `json:"user_email"`
	Role     Role   `json:"role"`
	Plan     Plan   `json:"plan"`
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Validate checks the fields required for a profile to be usable locally.
func (u User) Validate() error {
	if u.UserID == 0 {
		return fmt.Errorf("user is missing an id")
	}
	if u.Email == "" {
		return fmt.Errorf("user is missing an email")
	}
	return nil
}

// Movie represents a catalog entry.
type Movie struct {
	MovieID       int     `json:"movie_id"`
	Title         string  `json:"movie_title"`
	DescriptionEN string  `json:"movie_description_en,omitempty"`
	DescriptionID string  `json:"movie_description_id,omitempty"`
	Poster        string  `json:"movie_poster,omitempty"`
	Duration      int     `json:"movie_duration,omitempty"` // minutes
	Year          int     `json:"production_year,omitempty"`
	AverageRating float64 `json:"average_rating,omitempty"` // 0-10, server aggregated
	Genres        []Genre `json:"genres,omitempty"`
	Actors        []Actor `json:"actors,omitempty"`
}

// Description returns the English description, falling back to the
// Indonesian one.
func (m Movie) Description() string {
	if m.DescriptionEN != "" {
		return m.DescriptionEN
	}
	return m.DescriptionID
}

// Validate checks the fields required to create or update a movie.
func (m Movie) Validate() error {
	if strings.TrimSpace(m.Title) == "" {
		return fmt.Errorf("movie title is required")
	}
	return nil
}

// Genre represents a catalog genre.
type Genre struct {
	GenreID int     `json:"genre_id"`
	Name    string  `json:"genre_name"`
	Movies  []Movie `json:"movies,omitempty"`
}

// Actor represents a cast member.
type Actor struct {
	ActorID int     `json:"actor_id"`
	Name    string  `json:"actor_name"`
	Photo   string  `json:"actor_photo,omitempty"`
	Movies  []Movie `json:"movies,omitempty"`
}

// Review represents a star rating a user left on a movie.
type Review struct {
	ReviewID  int     `json:"review_id"`
	UserID    int     `json:"user_id"`
	MovieID   int     `json:"movie_id"`
	Rating    float64 `json:"rating"` // 1-10, half-star granularity
	CreatedAt string  `json:"created_at,omitempty"`
	Movie     *Movie  `json:"movie,omitempty"`
	User      *User   `json:"user,omitempty"`
}

// WatchEntry represents one row of a user's watch history.
type WatchEntry struct {
	UserID    int    `json:"user_id"`
	MovieID   int    `json:"movie_id"`
	WatchedAt string `json:"watched_at,omitempty"`
	Movie     *Movie `json:"movie,omitempty"`
}

// Pagination describes the server-side paging metadata attached to list
// responses.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// HasNext reports whether another page follows the current one.
func (p Pagination) HasNext() bool {
	return p.Page < p.TotalPages
}
