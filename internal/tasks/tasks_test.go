package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"

	"distream/internal/api"
	"distream/internal/models"
	"distream/internal/repositories"
	"distream/internal/services"
	"distream/internal/shared"
	tu "distream/internal/testing"
)

// mockMovieSource serves movies in fixed-size pages.
type mockMovieSource struct {
	movies  []models.Movie
	listErr error
}

func (m *mockMovieSource) List(ctx context.Context, p services.ListParams) ([]models.Movie, *models.Pagination, error) {
	if m.listErr != nil {
		return nil, nil, m.listErr
	}

	limit := p.Limit
	if limit <= 0 {
		limit = len(m.movies)
	}
	page := p.Page
	if page <= 0 {
		page = 1
	}

	totalPages := (len(m.movies) + limit - 1) / limit
	start := (page - 1) * limit
	if start >= len(m.movies) {
		return nil, &models.Pagination{Page: page, Limit: limit, Total: len(m.movies), TotalPages: totalPages}, nil
	}
	end := start + limit
	if end > len(m.movies) {
		end = len(m.movies)
	}

	return m.movies[start:end], &models.Pagination{
		Page:       page,
		Limit:      limit,
		Total:      len(m.movies),
		TotalPages: totalPages,
	}, nil
}

type mockGenreSource struct {
	genres  []models.Genre
	listErr error
	getErr  error
}

func (m *mockGenreSource) List(ctx context.Context, p services.ListParams) ([]models.Genre, *models.Pagination, error) {
	if m.listErr != nil {
		return nil, nil, m.listErr
	}
	return m.genres, &models.Pagination{Page: 1, TotalPages: 1, Total: len(m.genres)}, nil
}

func (m *mockGenreSource) Get(ctx context.Context, id int) (*models.Genre, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, genre := range m.genres {
		if genre.GenreID == id {
			g := genre
			return &g, nil
		}
	}
	return nil, fmt.Errorf("genre not found: %d", id)
}

// mockAPIClient serves canned raw responses keyed by path.
type mockAPIClient struct {
	responses map[string]*api.Response
	getErr    error
}

func (m *mockAPIClient) Get(ctx context.Context, path string) (*api.Response, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if resp, ok := m.responses[path]; ok {
		return resp, nil
	}
	return &api.Response{StatusCode: 404, Body: []byte("not found")}, nil
}

func setupCacheDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func catalogMovies(n int) []models.Movie {
	movies := make([]models.Movie, 0, n)
	for i := 1; i <= n; i++ {
		movies = append(movies, models.Movie{
			MovieID: i,
			Title:   fmt.Sprintf("Movie %d", i),
			Year:    2000 + i%20,
		})
	}
	return movies
}

func TestCatalogEngineSync(t *testing.T) {
	t.Run("caches every page", func(t *testing.T) {
		db := setupCacheDB(t)
		engine := NewCatalogEngineWithDB(
			&mockMovieSource{movies: catalogMovies(120)},
			&mockGenreSource{genres: []models.Genre{{GenreID: 1, Name: "Drama"}, {GenreID: 2, Name: "Action"}}},
			nil, db)

		result, err := engine.Sync(context.Background(), nil)
		if err != nil {
			t.Fatalf("Sync failed: %v", err)
		}

		if result.MoviesSynced != 120 {
			t.Errorf("expected 120 movies synced, got %d", result.MoviesSynced)
		}
		if result.GenresSynced != 2 {
			t.Errorf("expected 2 genres synced, got %d", result.GenresSynced)
		}
		if result.Pages != 3 {
			t.Errorf("expected 3 pages at page size %d, got %d", syncPageSize, result.Pages)
		}

		count, err := repositories.NewMovieRepository(db).Count()
		if err != nil {
			t.Fatalf("failed to count cached movies: %v", err)
		}
		if count != 120 {
			t.Errorf("expected 120 cached movies, got %d", count)
		}
	})

	t.Run("prunes rows the server stopped returning", func(t *testing.T) {
		db := setupCacheDB(t)
		movieCache := repositories.NewMovieRepository(db)

		// Pre-seed an entry the remote catalog no longer has.
		if err := movieCache.Upsert(models.Movie{MovieID: 999, Title: "Removed Upstream"}); err != nil {
			t.Fatalf("failed to seed cache: %v", err)
		}

		engine := NewCatalogEngineWithDB(
			&mockMovieSource{movies: catalogMovies(3)},
			&mockGenreSource{genres: []models.Genre{{GenreID: 1, Name: "Drama"}}},
			nil, db)

		result, err := engine.Sync(context.Background(), nil)
		if err != nil {
			t.Fatalf("Sync failed: %v", err)
		}

		if result.Pruned != 1 {
			t.Errorf("expected 1 pruned row, got %d", result.Pruned)
		}
		if _, err := movieCache.Get(999); err == nil {
			t.Error("removed movie should be pruned from the cache")
		}
		if _, err := movieCache.Get(1); err != nil {
			t.Errorf("synced movie should survive prune: %v", err)
		}
	})

	t.Run("reports progress without blocking", func(t *testing.T) {
		db := setupCacheDB(t)
		engine := NewCatalogEngineWithDB(
			&mockMovieSource{movies: catalogMovies(10)},
			&mockGenreSource{genres: []models.Genre{{GenreID: 1, Name: "Drama"}}},
			nil, db)

		// Unbuffered channel nobody reads: sends must be dropped, not block.
		progress := make(chan ProgressUpdate)
		if _, err := engine.Sync(context.Background(), progress); err != nil {
			t.Fatalf("Sync failed: %v", err)
		}
	})

	t.Run("propagates fetch errors", func(t *testing.T) {
		db := setupCacheDB(t)
		engine := NewCatalogEngineWithDB(
			&mockMovieSource{listErr: errors.New("connection refused")},
			&mockGenreSource{genres: []models.Genre{}},
			nil, db)

		if _, err := engine.Sync(context.Background(), nil); !errors.Is(err, shared.ErrAPIRequest) {
			t.Errorf("expected ErrAPIRequest, got %v", err)
		}
	})

	t.Run("requires cache repositories", func(t *testing.T) {
		engine := NewCatalogEngine(&mockMovieSource{}, &mockGenreSource{}, nil, nil, nil)

		if _, err := engine.Sync(context.Background(), nil); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("stops on cancelled context", func(t *testing.T) {
		db := setupCacheDB(t)
		engine := NewCatalogEngineWithDB(
			&mockMovieSource{movies: catalogMovies(200)},
			&mockGenreSource{genres: []models.Genre{}},
			nil, db)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := engine.Sync(ctx, nil); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestCatalogEngineDump(t *testing.T) {
	okResponse := func(data any) *api.Response {
		return &api.Response{StatusCode: 200, IsJSON: true, JSONData: data}
	}

	t.Run("collects all endpoints", func(t *testing.T) {
		client := &mockAPIClient{responses: map[string]*api.Response{
			"/movies":        okResponse([]any{map[string]any{"movie_id": 1}}),
			"/genres":        okResponse([]any{}),
			"/actors":        okResponse([]any{}),
			"/reviews":       okResponse([]any{}),
			"/users":         okResponse([]any{}),
			"/watch-history": okResponse([]any{}),
		}}

		engine := NewCatalogEngine(nil, nil, client, nil, nil)
		result, err := engine.Dump(context.Background(), nil)
		if err != nil {
			t.Fatalf("Dump failed: %v", err)
		}

		if len(result.Errors) != 0 {
			t.Errorf("expected no endpoint errors, got %v", result.Errors)
		}
		if result.Movies == nil {
			t.Error("expected movies payload")
		}
	})

	t.Run("records denied endpoints instead of failing", func(t *testing.T) {
		client := &mockAPIClient{responses: map[string]*api.Response{
			"/movies":        okResponse([]any{}),
			"/genres":        okResponse([]any{}),
			"/actors":        okResponse([]any{}),
			"/reviews":       {StatusCode: 403, Body: []byte("forbidden")},
			"/users":         {StatusCode: 403, Body: []byte("forbidden")},
			"/watch-history": {StatusCode: 401, Body: []byte("unauthorized")},
		}}

		engine := NewCatalogEngine(nil, nil, client, nil, nil)
		result, err := engine.Dump(context.Background(), nil)
		if err != nil {
			t.Fatalf("Dump failed: %v", err)
		}

		if len(result.Errors) != 3 {
			t.Fatalf("expected 3 endpoint errors, got %d", len(result.Errors))
		}
		if result.Users != nil {
			t.Error("denied endpoint should leave its payload empty")
		}
		if result.Movies == nil {
			t.Error("allowed endpoints should still be collected")
		}
	})

	t.Run("requires an API client", func(t *testing.T) {
		engine := NewCatalogEngine(nil, nil, nil, nil, nil)

		if _, err := engine.Dump(context.Background(), nil); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})
}

func TestCatalogEngineBulkExport(t *testing.T) {
	sampleGenres := []models.Genre{
		{GenreID: 1, Name: "Drama", Movies: []models.Movie{{MovieID: 1, Title: "Interstate", Year: 2020}}},
		{GenreID: 2, Name: "Action", Movies: []models.Movie{{MovieID: 2, Title: "Fast Lane", Year: 2021}}},
	}

	t.Run("exports each genre as JSON", func(t *testing.T) {
		engine := NewCatalogEngine(nil, &mockGenreSource{genres: sampleGenres}, nil, nil, nil)

		outputDir := t.TempDir()
		result, err := engine.BulkExport(context.Background(), nil, []int{1, 2}, BulkExportOpts{
			Format:    "json",
			OutputDir: outputDir,
			RateLimit: 100,
		})
		if err != nil {
			t.Fatalf("BulkExport failed: %v", err)
		}

		if result.SuccessfulExports != 2 || result.FailedExports != 0 {
			t.Errorf("expected 2 successes, got %+v", result)
		}
		if result.ManifestPath == "" {
			t.Error("expected a manifest path")
		}

		for _, id := range []int{1, 2} {
			tu.AssertFileExists(t, fmt.Sprintf("%s/genre_%d.json", outputDir, id))
		}

		manifest := tu.MustReadFile(t, result.ManifestPath)
		if !strings.Contains(manifest, `"total_genres": 2`) {
			t.Errorf("manifest missing run summary: %s", manifest)
		}
	})

	t.Run("defaults the output directory", func(t *testing.T) {
		engine := NewCatalogEngine(nil, &mockGenreSource{genres: sampleGenres}, nil, nil, nil)

		wd := tu.MustGetwd(t)
		tu.MustChdir(t, t.TempDir())
		defer tu.MustChdir(t, wd)

		result, err := engine.BulkExport(context.Background(), nil, []int{1}, BulkExportOpts{
			Format:    "json",
			RateLimit: 100,
		})
		if err != nil {
			t.Fatalf("BulkExport failed: %v", err)
		}

		if !strings.HasPrefix(result.OutputDirectory, "distream_export_") {
			t.Errorf("unexpected default output directory %s", result.OutputDirectory)
		}
		tu.AssertDirExists(t, result.OutputDirectory)
	})

	t.Run("collects per-genre failures", func(t *testing.T) {
		engine := NewCatalogEngine(nil, &mockGenreSource{genres: sampleGenres}, nil, nil, nil)

		result, err := engine.BulkExport(context.Background(), nil, []int{1, 404}, BulkExportOpts{
			Format:    "txt",
			OutputDir: t.TempDir(),
			RateLimit: 100,
		})
		if err != nil {
			t.Fatalf("BulkExport failed: %v", err)
		}

		if result.SuccessfulExports != 1 {
			t.Errorf("expected 1 success, got %d", result.SuccessfulExports)
		}
		if result.FailedExports != 1 {
			t.Errorf("expected 1 failure, got %d", result.FailedExports)
		}

		for _, res := range result.Results {
			if res.GenreID == 404 && res.Success {
				t.Error("missing genre should be recorded as a failure")
			}
		}
	})

	t.Run("caps the worker pool", func(t *testing.T) {
		engine := NewCatalogEngine(nil, &mockGenreSource{genres: sampleGenres}, nil, nil, nil)

		result, err := engine.BulkExport(context.Background(), nil, []int{1}, BulkExportOpts{
			Format:     "json",
			OutputDir:  t.TempDir(),
			NumWorkers: 50,
			RateLimit:  100,
		})
		if err != nil {
			t.Fatalf("BulkExport failed: %v", err)
		}
		if result.TotalGenres != 1 || result.SuccessfulExports != 1 {
			t.Errorf("unexpected result: %+v", result)
		}
	})
}
