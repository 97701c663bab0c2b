// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for browsing the catalog:
//  1. [MovieListView] : Browse the movie catalog
//  2. [MovieDetailView] : Inspect a movie's details and cast
//  3. [ConfirmView] : Confirm adding the movie to watch history
//  4. [SyncView] : Monitor real-time cache sync progress
//  5. [ResultView] : Display the outcome of the last operation
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the CatalogEngine, providing
// non-blocking status reporting during cache syncs.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
