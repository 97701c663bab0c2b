package repositories

import (
	"database/sql"
	"fmt"

	"distream/internal/models"
)

// GenreRepository reads and writes the cached genre rows.
type GenreRepository struct {
	db *sql.DB
}

// NewGenreRepository creates a repository over the given database connection.
func NewGenreRepository(db *sql.DB) *GenreRepository {
	return &GenreRepository{db: db}
}

// Upsert inserts or replaces a cached genre.
func (r *GenreRepository) Upsert(genre models.Genre) error {
	if genre.Name == "" {
		return fmt.Errorf("validation failed: genre name is required")
	}

	query := `
		INSERT INTO genres (genre_id, genre_name, cached_at)
		VALUES (?, ?, ?)
		ON CONFLICT(genre_id) DO UPDATE SET
			genre_name = excluded.genre_name,
			cached_at = excluded.cached_at
	`

	if _, err := r.db.Exec(query, genre.GenreID, genre.Name, now()); err != nil {
		return fmt.Errorf("failed to upsert genre: %w", err)
	}

	return nil
}

// List retrieves all cached genres ordered by name.
func (r *GenreRepository) List() ([]models.Genre, error) {
	rows, err := r.db.Query("SELECT genre_id, genre_name FROM genres ORDER BY genre_name ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query genres: %w", err)
	}
	defer rows.Close()

	var genres []models.Genre
	for rows.Next() {
		var genre models.Genre
		if err := rows.Scan(&genre.GenreID, &genre.Name); err != nil {
			return nil, fmt.Errorf("failed to scan genre: %w", err)
		}
		genres = append(genres, genre)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return genres, nil
}

// MoviesByGenre retrieves cached movies linked to the given genre.
func (r *GenreRepository) MoviesByGenre(genreID int) ([]models.Movie, error) {
	query := `
		SELECT m.movie_id, m.movie_title, m.movie_description_en, m.movie_description_id,
			m.movie_poster, m.movie_duration, m.production_year, m.average_rating
		FROM movies m
		JOIN movie_genres mg ON mg.movie_id = m.movie_id
		WHERE mg.genre_id = ?
		ORDER BY m.movie_id ASC
	`

	rows, err := r.db.Query(query, genreID)
	if err != nil {
		return nil, fmt.Errorf("failed to query movies by genre: %w", err)
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

// Delete removes a cached genre and its movie links.
func (r *GenreRepository) Delete(id int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM movie_genres WHERE genre_id = ?", id); err != nil {
		return fmt.Errorf("failed to clear movie links: %w", err)
	}

	result, err := tx.Exec("DELETE FROM genres WHERE genre_id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete genre: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("genre not cached: %d", id)
	}

	return tx.Commit()
}
