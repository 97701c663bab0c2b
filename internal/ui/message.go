package ui

import (
	"distream/internal/models"
	"distream/internal/tasks"
)

// moviesFetchedMsg carries the catalog listing, or the error fetching it.
type moviesFetchedMsg struct {
	movies []models.Movie
	err    error
}

// movieFetchedMsg carries a single movie's full detail.
type movieFetchedMsg struct {
	movie *models.Movie
	err   error
}

// watchAddedMsg reports the outcome of adding a movie to watch history.
type watchAddedMsg struct {
	movie *models.Movie
	err   error
}

// progressUpdateMsg wraps a [tasks.ProgressUpdate] from a running sync.
type progressUpdateMsg tasks.ProgressUpdate

// syncCompleteMsg carries the final sync result.
type syncCompleteMsg struct {
	result *tasks.SyncResult
	err    error
}
