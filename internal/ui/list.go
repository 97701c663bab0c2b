package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"distream/internal/models"
	"distream/internal/shared"
)

var (
	_ list.Item = movieItem{}
	_ list.Item = genreItem{}
)

// movieItem wraps [models.Movie] to implement [list.Item].
type movieItem struct {
	movie models.Movie
}

func (i movieItem) FilterValue() string { return i.movie.Title }
func (i movieItem) Title() string       { return i.movie.Title }
func (i movieItem) Description() string {
	parts := []string{}
	if i.movie.Year > 0 {
		parts = append(parts, fmt.Sprintf("%d", i.movie.Year))
	}
	if i.movie.Duration > 0 {
		parts = append(parts, shared.FormatDuration(i.movie.Duration))
	}
	parts = append(parts, shared.FormatRating(i.movie.AverageRating))
	return strings.Join(parts, " • ")
}

// genreItem wraps [models.Genre] to implement [list.Item].
type genreItem struct {
	genre models.Genre
}

func (i genreItem) FilterValue() string { return i.genre.Name }
func (i genreItem) Title() string       { return i.genre.Name }
func (i genreItem) Description() string {
	if n := len(i.genre.Movies); n > 0 {
		return fmt.Sprintf("%d movies", n)
	}
	return ""
}
