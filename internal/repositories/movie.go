package repositories

import (
	"database/sql"
	"fmt"

	"distream/internal/models"
)

// MovieRepository reads and writes the cached movie rows.
type MovieRepository struct {
	db *sql.DB
}

// NewMovieRepository creates a repository over the given database connection.
func NewMovieRepository(db *sql.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// DB exposes the underlying connection for cross-table maintenance.
func (r *MovieRepository) DB() *sql.DB {
	return r.db
}

// Upsert inserts or replaces a cached movie and its genre links.
func (r *MovieRepository) Upsert(movie models.Movie) error {
	if err := movie.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO movies (movie_id, movie_title, movie_description_en, movie_description_id,
			movie_poster, movie_duration, production_year, average_rating, cached_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(movie_id) DO UPDATE SET
			movie_title = excluded.movie_title,
			movie_description_en = excluded.movie_description_en,
			movie_description_id = excluded.movie_description_id,
			movie_poster = excluded.movie_poster,
			movie_duration = excluded.movie_duration,
			production_year = excluded.production_year,
			average_rating = excluded.average_rating,
			cached_at = excluded.cached_at
	`

	_, err = tx.Exec(query, movie.MovieID, movie.Title, movie.DescriptionEN, movie.DescriptionID,
		movie.Poster, movie.Duration, movie.Year, movie.AverageRating, now())
	if err != nil {
		return fmt.Errorf("failed to upsert movie: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM movie_genres WHERE movie_id = ?", movie.MovieID); err != nil {
		return fmt.Errorf("failed to clear genre links: %w", err)
	}

	for _, genre := range movie.Genres {
		_, err := tx.Exec("INSERT OR IGNORE INTO movie_genres (movie_id, genre_id) VALUES (?, ?)",
			movie.MovieID, genre.GenreID)
		if err != nil {
			return fmt.Errorf("failed to link genre: %w", err)
		}
	}

	return tx.Commit()
}

// Get retrieves a cached movie by its server ID.
func (r *MovieRepository) Get(id int) (*models.Movie, error) {
	query := `
		SELECT movie_id, movie_title, movie_description_en, movie_description_id,
			movie_poster, movie_duration, production_year, average_rating
		FROM movies
		WHERE movie_id = ?
	`

	movie, err := scanMovie(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("movie not cached: %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query movie: %w", err)
	}

	return movie, nil
}

// List retrieves cached movies, optionally filtered by a title substring,
// ordered by movie ID.
func (r *MovieRepository) List(search string) ([]models.Movie, error) {
	query := `
		SELECT movie_id, movie_title, movie_description_en, movie_description_id,
			movie_poster, movie_duration, production_year, average_rating
		FROM movies
	`
	args := []any{}

	if search != "" {
		query += " WHERE movie_title LIKE ?"
		args = append(args, "%"+search+"%")
	}

	query += " ORDER BY movie_id ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query movies: %w", err)
	}
	defer rows.Close()

	var movies []models.Movie
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan movie: %w", err)
		}
		movies = append(movies, *movie)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return movies, nil
}

// Count returns the number of cached movies.
func (r *MovieRepository) Count() (int, error) {
	var count int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM movies").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count movies: %w", err)
	}
	return count, nil
}

// Delete removes a cached movie and its genre links.
func (r *MovieRepository) Delete(id int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM movie_genres WHERE movie_id = ?", id); err != nil {
		return fmt.Errorf("failed to clear genre links: %w", err)
	}

	result, err := tx.Exec("DELETE FROM movies WHERE movie_id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete movie: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("movie not cached: %d", id)
	}

	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMovie(row rowScanner) (*models.Movie, error) {
	var (
		movie         models.Movie
		descriptionEN sql.NullString
		descriptionID sql.NullString
		poster        sql.NullString
		duration      sql.NullInt64
		year          sql.NullInt64
		rating        sql.NullFloat64
	)

	err := row.Scan(&movie.MovieID, &movie.Title, &descriptionEN, &descriptionID,
		&poster, &duration, &year, &rating)
	if err != nil {
		return nil, err
	}

	movie.DescriptionEN = descriptionEN.String
	movie.DescriptionID = descriptionID.String
	movie.Poster = poster.String
	movie.Duration = int(duration.Int64)
	movie.Year = int(year.Int64)
	movie.AverageRating = rating.Float64

	return &movie, nil
}
