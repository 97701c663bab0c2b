// package tasks implements long-running catalog operations: cache sync,
// state dumps, and bulk exports.
//
// The core abstraction is CatalogEngine, which orchestrates multi-request
// work against the remote API. Operations emit progress updates via channels
// for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"distream/internal/api"
	"distream/internal/models"
	"distream/internal/repositories"
	"distream/internal/services"
	"distream/internal/shared"
)

// MovieSource is the slice of the movie service the engine needs.
type MovieSource interface {
	List(ctx context.Context, p services.ListParams) ([]models.Movie, *models.Pagination, error)
}

// GenreSource is the slice of the genre service the engine needs.
type GenreSource interface {
	List(ctx context.Context, p services.ListParams) ([]models.Genre, *models.Pagination, error)
	Get(ctx context.Context, id int) (*models.Genre, error)
}

// APIClient is the raw passthrough used by Dump. Abstracted for testing.
type APIClient interface {
	Get(ctx context.Context, path string) (*api.Response, error)
}

// CatalogEngine orchestrates multi-request catalog operations.
type CatalogEngine struct {
	movies MovieSource
	genres GenreSource
	api    APIClient

	movieCache *repositories.MovieRepository
	genreCache *repositories.GenreRepository
}

// NewCatalogEngine creates an engine. The cache repositories may be nil when
// only Dump or BulkExport is used.
func NewCatalogEngine(movies MovieSource, genres GenreSource, apiClient APIClient,
	movieCache *repositories.MovieRepository, genreCache *repositories.GenreRepository) *CatalogEngine {
	return &CatalogEngine{
		movies:     movies,
		genres:     genres,
		api:        apiClient,
		movieCache: movieCache,
		genreCache: genreCache,
	}
}

// NewCatalogEngineWithDB creates an engine whose cache repositories share the
// given database connection.
func NewCatalogEngineWithDB(movies MovieSource, genres GenreSource, apiClient APIClient, db *sql.DB) *CatalogEngine {
	return NewCatalogEngine(movies, genres, apiClient,
		repositories.NewMovieRepository(db), repositories.NewGenreRepository(db))
}

// sendProgress sends a progress update through the channel without blocking.
func (e *CatalogEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// SyncResult summarizes a cache sync run.
type SyncResult struct {
	MoviesSynced int
	GenresSynced int
	Pruned       int64
	Pages        int
}

// syncPageSize is the page size used when walking the movie listing.
const syncPageSize = 50

// Sync replaces the local cache with the current remote catalog: all genres,
// then every page of the movie listing. Rows untouched by this run are
// pruned afterwards, so deletions on the server propagate locally.
func (e *CatalogEngine) Sync(ctx context.Context, progress chan<- ProgressUpdate) (*SyncResult, error) {
	if e.movies == nil || e.genres == nil {
		return nil, fmt.Errorf("%w: catalog services not initialized", shared.ErrServiceUnavailable)
	}
	if e.movieCache == nil || e.genreCache == nil {
		return nil, fmt.Errorf("%w: cache repositories not initialized", shared.ErrServiceUnavailable)
	}

	started := time.Now()
	result := &SyncResult{}

	e.sendProgress(progress, fetchGenresUpdate(1, 1))

	genrePage := 1
	for {
		genres, pagination, err := e.genres.List(ctx, services.ListParams{Page: genrePage, Limit: syncPageSize})
		if err != nil {
			return nil, fmt.Errorf("%w: failed to fetch genres: %v", shared.ErrAPIRequest, err)
		}

		for _, genre := range genres {
			if err := e.genreCache.Upsert(genre); err != nil {
				return nil, fmt.Errorf("failed to cache genre %d: %w", genre.GenreID, err)
			}
			result.GenresSynced++
		}

		if pagination == nil || !pagination.HasNext() {
			break
		}
		genrePage++
	}

	page := 1
	for {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		movies, pagination, err := e.movies.List(ctx, services.ListParams{Page: page, Limit: syncPageSize})
		if err != nil {
			return nil, fmt.Errorf("%w: failed to fetch movies page %d: %v", shared.ErrAPIRequest, page, err)
		}

		total := 0
		if pagination != nil {
			total = pagination.TotalPages
		}
		e.sendProgress(progress, syncPageUpdate(page, total, len(movies)))

		for _, movie := range movies {
			if err := e.movieCache.Upsert(movie); err != nil {
				return nil, fmt.Errorf("failed to cache movie %d: %w", movie.MovieID, err)
			}
			result.MoviesSynced++
		}

		result.Pages = page
		if pagination == nil || !pagination.HasNext() {
			break
		}
		page++
	}

	e.sendProgress(progress, pruneUpdate())
	for _, table := range []string{"movies", "genres"} {
		pruned, err := repositories.PruneBefore(e.movieCache.DB(), table, started)
		if err != nil {
			return result, fmt.Errorf("sync completed but prune failed: %w", err)
		}
		result.Pruned += pruned
	}

	return result, nil
}

// EndpointResult represents the result of fetching data from a single API endpoint.
type EndpointResult struct {
	Endpoint string
	Data     any
	Error    error
}

// DumpResult contains all data fetched from the API.
type DumpResult struct {
	Movies    any              // Movie catalog (first page)
	Genres    any              // Genres
	Actors    any              // Actors
	Reviews   any              // Reviews (admin)
	Users     any              // Accounts (admin)
	History   any              // Authenticated user's watch history
	Errors    []EndpointResult // Failed endpoint fetches
}

type endpointOperation struct {
	name    string
	path    string
	target  *any
	phase   Phase
	message string
}

// Dump fetches the state of every resource family for debugging. Endpoints
// the current session cannot access are recorded as errors rather than
// failing the whole dump.
func (e *CatalogEngine) Dump(ctx context.Context, progress chan<- ProgressUpdate) (*DumpResult, error) {
	if e.api == nil {
		return nil, fmt.Errorf("%w: API client not initialized", shared.ErrServiceUnavailable)
	}

	result := &DumpResult{
		Errors: []EndpointResult{},
	}

	endpoints := []endpointOperation{
		{name: "movies", path: "/movies", target: &result.Movies, phase: FetchMovies, message: "Fetching movies..."},
		{name: "genres", path: "/genres", target: &result.Genres, phase: FetchGenres, message: "Fetching genres..."},
		{name: "actors", path: "/actors", target: &result.Actors, phase: FetchActors, message: "Fetching actors..."},
		{name: "reviews", path: "/reviews", target: &result.Reviews, phase: FetchReviews, message: "Fetching reviews..."},
		{name: "users", path: "/users", target: &result.Users, phase: FetchUsers, message: "Fetching users..."},
		{name: "history", path: "/watch-history", target: &result.History, phase: FetchHistory, message: "Fetching watch history..."},
	}

	totalSteps := len(endpoints)

	for i, endpoint := range endpoints {
		e.sendProgress(progress, operationUpdate(endpoint, i+1, totalSteps))

		resp, err := e.api.Get(ctx, endpoint.path)
		if err != nil || resp.StatusCode < 200 || resp.StatusCode >= 300 {
			errMsg := ""
			if err != nil {
				errMsg = err.Error()
			} else {
				errMsg = fmt.Sprintf("status %d", resp.StatusCode)
			}
			result.Errors = append(result.Errors, EndpointResult{
				Endpoint: endpoint.path,
				Error:    fmt.Errorf("%s", errMsg),
			})
		} else {
			*endpoint.target = resp.JSONData
		}
	}

	return result, nil
}
