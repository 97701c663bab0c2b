package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"distream/internal/models"
	"distream/internal/services"
	"distream/internal/shared"
	"distream/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	MovieListView ViewState = iota
	MovieDetailView
	ConfirmView
	SyncView
	ResultView
)

// tuiPageSize bounds how much of the catalog the browser loads at once.
const tuiPageSize = 100

// Model represents the TUI application state.
type Model struct {
	ctx           context.Context
	view          ViewState
	movies        *services.Movies
	history       *services.History
	engine        *tasks.CatalogEngine
	user          models.User
	width         int
	height        int
	movieList     list.Model
	listed        []models.Movie
	selectedMovie *models.Movie
	progressChan  chan tasks.ProgressUpdate
	progress      tasks.ProgressUpdate
	syncResult    *tasks.SyncResult
	watched       *models.Movie
	err           error
	help          help.Model
	keys          keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, movies *services.Movies, history *services.History, engine *tasks.CatalogEngine, user models.User) *Model {
	return &Model{
		ctx:     ctx,
		view:    MovieListView,
		movies:  movies,
		history: history,
		engine:  engine,
		user:    user,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init initializes the TUI by fetching the movie catalog.
func (m *Model) Init() tea.Cmd {
	return m.fetchMovies()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.movieList.Width() == 0 {
			m.movieList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case MovieListView:
			return m.handleMovieListKeys(msg)
		case MovieDetailView:
			return m.handleDetailKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case moviesFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.listed = msg.movies
		items := make([]list.Item, len(msg.movies))
		for i, movie := range msg.movies {
			items[i] = movieItem{movie: movie}
		}
		m.movieList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.movieList.Title = "DiStreaming Catalog"
		m.movieList.SetSize(m.width-4, m.height-8)
		return m, nil

	case movieFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = MovieListView
			return m, nil
		}
		m.selectedMovie = msg.movie
		m.view = MovieDetailView
		return m, nil

	case watchAddedMsg:
		m.watched = msg.movie
		m.err = msg.err
		m.view = ResultView
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case syncCompleteMsg:
		m.syncResult = msg.result
		m.err = msg.err
		m.view = ResultView
		if m.progressChan != nil {
			m.progressChan = nil
		}
		return m, nil
	}

	return m.updateList(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case MovieListView:
		return m.renderMovieList()
	case MovieDetailView:
		return m.renderDetail()
	case ConfirmView:
		return m.renderConfirm()
	case SyncView:
		return m.renderSync()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleMovieListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "s":
		if m.engine != nil {
			m.view = SyncView
			return m, m.startSync()
		}
	case "enter":
		selected := m.movieList.SelectedItem()
		if selected != nil {
			if item, ok := selected.(movieItem); ok {
				return m, m.fetchMovie(item.movie.MovieID)
			}
		}
	}

	var cmd tea.Cmd
	m.movieList, cmd = m.movieList.Update(msg)
	return m, cmd
}

func (m *Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = MovieListView
		m.selectedMovie = nil
		return m, nil
	case "w":
		m.view = ConfirmView
		return m, nil
	}
	return m, nil
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n", "esc":
		m.view = MovieDetailView
		return m, nil
	case "y":
		return m, m.addToHistory()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = MovieListView
		m.selectedMovie = nil
		m.syncResult = nil
		m.watched = nil
		m.err = nil
		return m, nil
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.view == MovieListView {
		m.movieList, cmd = m.movieList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchMovies() tea.Cmd {
	return func() tea.Msg {
		movies, _, err := m.movies.List(m.ctx, services.ListParams{Limit: tuiPageSize})
		return moviesFetchedMsg{movies: movies, err: err}
	}
}

func (m *Model) fetchMovie(id int) tea.Cmd {
	return func() tea.Msg {
		movie, err := m.movies.Get(m.ctx, id)
		return movieFetchedMsg{movie: movie, err: err}
	}
}

func (m *Model) addToHistory() tea.Cmd {
	movie := m.selectedMovie
	return func() tea.Msg {
		err := m.history.Add(m.ctx, m.user.UserID, movie.MovieID)
		return watchAddedMsg{movie: movie, err: err}
	}
}

func (m *Model) startSync() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	ch := m.progressChan

	go func() {
		result, err := m.engine.Sync(m.ctx, ch)
		m.syncResult = result
		m.err = err
		close(ch)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return syncCompleteMsg{result: m.syncResult, err: m.err}
		}

		update, ok := <-m.progressChan
		if !ok {
			return syncCompleteMsg{result: m.syncResult, err: m.err}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderMovieList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.sync, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.movieList.View(), helpView)
}

func (m *Model) renderDetail() string {
	movie := m.selectedMovie
	if movie == nil {
		return styles.err.Render("No movie selected\n\nPress esc to go back")
	}

	title := styles.title.Render(movie.Title)

	var b strings.Builder
	fmt.Fprintf(&b, "Year: %d\n", movie.Year)
	fmt.Fprintf(&b, "Duration: %s\n", shared.FormatDuration(movie.Duration))
	fmt.Fprintf(&b, "Rating: %s\n", shared.FormatRating(movie.AverageRating))
	if len(movie.Genres) > 0 {
		names := make([]string, len(movie.Genres))
		for i, genre := range movie.Genres {
			names[i] = genre.Name
		}
		fmt.Fprintf(&b, "Genres: %s\n", strings.Join(names, ", "))
	}
	if len(movie.Actors) > 0 {
		names := make([]string, len(movie.Actors))
		for i, actor := range movie.Actors {
			names[i] = actor.Name
		}
		fmt.Fprintf(&b, "Cast: %s\n", strings.Join(names, ", "))
	}
	if desc := movie.Description(); desc != "" {
		fmt.Fprintf(&b, "\n%s\n", desc)
	}

	helpKeys := []key.Binding{m.keys.watch, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, b.String(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Add '%s' to your watch history?", m.selectedMovie.Title))

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n\n%s", title, helpView)
}

func (m *Model) renderSync() string {
	title := styles.title.Render("Syncing Catalog Cache")

	var phase string
	switch m.progress.Phase {
	case tasks.FetchGenres:
		phase = "Fetching genres..."
	case tasks.SyncPage:
		phase = fmt.Sprintf("Caching movies (page %d/%d)", m.progress.Current, m.progress.Total)
	case tasks.PruneCache:
		phase = "Pruning stale rows..."
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Operation failed: %v\n\nPress r to go back, q to quit", m.err))
	}

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	if m.watched != nil {
		title := styles.ok.Render("✓ Added to watch history")
		return fmt.Sprintf("%s\n\n%s\n\n%s", title, m.watched.Title, helpView)
	}

	if m.syncResult != nil {
		title := styles.ok.Render("✓ Cache Sync Complete")
		info := fmt.Sprintf(
			"\nMovies synced: %d\nGenres synced: %d\nStale rows pruned: %d\nPages fetched: %d",
			m.syncResult.MoviesSynced,
			m.syncResult.GenresSynced,
			m.syncResult.Pruned,
			m.syncResult.Pages,
		)
		return fmt.Sprintf("%s%s\n\n%s", title, info, helpView)
	}

	return styles.warn.Render("Nothing to report\n\nPress r to go back, q to quit")
}
