package repositories

import (
	"database/sql"
	"testing"
	"time"

	"distream/internal/models"
	"distream/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
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

func testMovie(id int, title string) models.Movie {
	return models.Movie{
		MovieID:       id,
		Title:         title,
		DescriptionEN: "A movie about " + title,
		Duration:      120,
		Year:          2020,
		AverageRating: 7.5,
	}
}

func TestMovieRepository(t *testing.T) {
	t.Run("Upsert And Get", func(t *testing.T) {
		repo := NewMovieRepository(setupTestDB(t))

		movie := testMovie(1, "Interstate")
		movie.Genres = []models.Genre{{GenreID: 10, Name: "Drama"}}

		if err := repo.Upsert(movie); err != nil {
			t.Fatalf("failed to upsert movie: %v", err)
		}

		retrieved, err := repo.Get(1)
		if err != nil {
			t.Fatalf("failed to get movie: %v", err)
		}

		if retrieved.Title != "Interstate" {
			t.Errorf("expected title Interstate, got %s", retrieved.Title)
		}
		if retrieved.Duration != 120 {
			t.Errorf("expected duration 120, got %d", retrieved.Duration)
		}
		if retrieved.AverageRating != 7.5 {
			t.Errorf("expected rating 7.5, got %v", retrieved.AverageRating)
		}
	})

	t.Run("Upsert Replaces Existing Row", func(t *testing.T) {
		repo := NewMovieRepository(setupTestDB(t))

		if err := repo.Upsert(testMovie(1, "Original Title")); err != nil {
			t.Fatalf("failed to upsert movie: %v", err)
		}

		updated := testMovie(1, "Updated Title")
		if err := repo.Upsert(updated); err != nil {
			t.Fatalf("failed to upsert updated movie: %v", err)
		}

		retrieved, err := repo.Get(1)
		if err != nil {
			t.Fatalf("failed to get movie: %v", err)
		}
		if retrieved.Title != "Updated Title" {
			t.Errorf("expected updated title, got %s", retrieved.Title)
		}

		count, err := repo.Count()
		if err != nil {
			t.Fatalf("failed to count movies: %v", err)
		}
		if count != 1 {
			t.Errorf("expected 1 movie after replace, got %d", count)
		}
	})

	t.Run("Upsert Rejects Untitled Movie", func(t *testing.T) {
		repo := NewMovieRepository(setupTestDB(t))

		if err := repo.Upsert(models.Movie{MovieID: 1}); err == nil {
			t.Error("expected validation error for untitled movie")
		}
	})

	t.Run("Upsert Rewrites Genre Links", func(t *testing.T) {
		db := setupTestDB(t)
		movies := NewMovieRepository(db)
		genres := NewGenreRepository(db)

		if err := genres.Upsert(models.Genre{GenreID: 10, Name: "Drama"}); err != nil {
			t.Fatalf("failed to upsert genre: %v", err)
		}
		if err := genres.Upsert(models.Genre{GenreID: 20, Name: "Comedy"}); err != nil {
			t.Fatalf("failed to upsert genre: %v", err)
		}

		movie := testMovie(1, "Interstate")
		movie.Genres = []models.Genre{{GenreID: 10}}
		if err := movies.Upsert(movie); err != nil {
			t.Fatalf("failed to upsert movie: %v", err)
		}

		movie.Genres = []models.Genre{{GenreID: 20}}
		if err := movies.Upsert(movie); err != nil {
			t.Fatalf("failed to upsert movie second time: %v", err)
		}

		drama, err := genres.MoviesByGenre(10)
		if err != nil {
			t.Fatalf("failed to query drama movies: %v", err)
		}
		if len(drama) != 0 {
			t.Errorf("expected stale genre link removed, got %d movies", len(drama))
		}

		comedy, err := genres.MoviesByGenre(20)
		if err != nil {
			t.Fatalf("failed to query comedy movies: %v", err)
		}
		if len(comedy) != 1 {
			t.Errorf("expected 1 comedy movie, got %d", len(comedy))
		}
	})

	t.Run("Get Missing Movie", func(t *testing.T) {
		repo := NewMovieRepository(setupTestDB(t))

		if _, err := repo.Get(999); err == nil {
			t.Error("expected error for uncached movie")
		}
	})

	t.Run("List", func(t *testing.T) {
		repo := NewMovieRepository(setupTestDB(t))

		for id, title := range map[int]string{1: "Interstate", 2: "The Long Night", 3: "Night Shift"} {
			if err := repo.Upsert(testMovie(id, title)); err != nil {
				t.Fatalf("failed to upsert movie %d: %v", id, err)
			}
		}

		all, err := repo.List("")
		if err != nil {
			t.Fatalf("failed to list movies: %v", err)
		}
		if len(all) != 3 {
			t.Errorf("expected 3 movies, got %d", len(all))
		}
		for i := 1; i < len(all); i++ {
			if all[i].MovieID <= all[i-1].MovieID {
				t.Errorf("movies not ordered by id: %d after %d", all[i].MovieID, all[i-1].MovieID)
			}
		}

		night, err := repo.List("Night")
		if err != nil {
			t.Fatalf("failed to search movies: %v", err)
		}
		if len(night) != 2 {
			t.Errorf("expected 2 matches for Night, got %d", len(night))
		}
	})

	t.Run("Delete", func(t *testing.T) {
		repo := NewMovieRepository(setupTestDB(t))

		if err := repo.Upsert(testMovie(1, "Interstate")); err != nil {
			t.Fatalf("failed to upsert movie: %v", err)
		}

		if err := repo.Delete(1); err != nil {
			t.Fatalf("failed to delete movie: %v", err)
		}

		if _, err := repo.Get(1); err == nil {
			t.Error("expected error after delete")
		}

		if err := repo.Delete(1); err == nil {
			t.Error("expected error deleting a movie twice")
		}
	})
}

func TestGenreRepository(t *testing.T) {
	t.Run("Upsert And List", func(t *testing.T) {
		repo := NewGenreRepository(setupTestDB(t))

		for id, name := range map[int]string{1: "Drama", 2: "Action", 3: "Comedy"} {
			if err := repo.Upsert(models.Genre{GenreID: id, Name: name}); err != nil {
				t.Fatalf("failed to upsert genre %d: %v", id, err)
			}
		}

		genres, err := repo.List()
		if err != nil {
			t.Fatalf("failed to list genres: %v", err)
		}
		if len(genres) != 3 {
			t.Fatalf("expected 3 genres, got %d", len(genres))
		}
		if genres[0].Name != "Action" || genres[2].Name != "Drama" {
			t.Errorf("expected genres ordered by name, got %v", genres)
		}
	})

	t.Run("Upsert Rejects Unnamed Genre", func(t *testing.T) {
		repo := NewGenreRepository(setupTestDB(t))

		if err := repo.Upsert(models.Genre{GenreID: 1}); err == nil {
			t.Error("expected validation error for unnamed genre")
		}
	})

	t.Run("Delete Removes Movie Links", func(t *testing.T) {
		db := setupTestDB(t)
		movies := NewMovieRepository(db)
		genres := NewGenreRepository(db)

		if err := genres.Upsert(models.Genre{GenreID: 10, Name: "Drama"}); err != nil {
			t.Fatalf("failed to upsert genre: %v", err)
		}
		movie := testMovie(1, "Interstate")
		movie.Genres = []models.Genre{{GenreID: 10}}
		if err := movies.Upsert(movie); err != nil {
			t.Fatalf("failed to upsert movie: %v", err)
		}

		if err := genres.Delete(10); err != nil {
			t.Fatalf("failed to delete genre: %v", err)
		}

		var links int
		if err := db.QueryRow("SELECT COUNT(*) FROM movie_genres WHERE genre_id = 10").Scan(&links); err != nil {
			t.Fatalf("failed to count links: %v", err)
		}
		if links != 0 {
			t.Errorf("expected movie links removed with genre, got %d", links)
		}

		if err := genres.Delete(10); err == nil {
			t.Error("expected error deleting a genre twice")
		}
	})
}

func TestPruneBefore(t *testing.T) {
	t.Run("drops rows older than cutoff", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewMovieRepository(db)

		base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		defer func() { now = time.Now }()

		now = func() time.Time { return base.Add(-time.Hour) }
		if err := repo.Upsert(testMovie(1, "Stale Entry")); err != nil {
			t.Fatalf("failed to upsert stale movie: %v", err)
		}

		now = func() time.Time { return base.Add(time.Hour) }
		if err := repo.Upsert(testMovie(2, "Fresh Entry")); err != nil {
			t.Fatalf("failed to upsert fresh movie: %v", err)
		}

		pruned, err := PruneBefore(db, "movies", base)
		if err != nil {
			t.Fatalf("failed to prune movies: %v", err)
		}
		if pruned != 1 {
			t.Errorf("expected 1 pruned row, got %d", pruned)
		}

		if _, err := repo.Get(1); err == nil {
			t.Error("stale movie should be pruned")
		}
		if _, err := repo.Get(2); err != nil {
			t.Errorf("fresh movie should survive prune: %v", err)
		}
	})

	t.Run("rejects unknown tables", func(t *testing.T) {
		db := setupTestDB(t)

		if _, err := PruneBefore(db, "schema_migrations", time.Now()); err == nil {
			t.Error("expected error for non-cache table")
		}
	})
}
