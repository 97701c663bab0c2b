// package formatter provides functions to export catalog data to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"distream/internal/models"
	"distream/internal/shared"
)

// ExportToCSV converts a movie list to CSV with columns: ID, Title, Year, Duration, Rating, Genres
func ExportToCSV(movies []models.Movie) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Year", "Duration", "Rating", "Genres"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, movie := range movies {
		names := make([]string, 0, len(movie.Genres))
		for _, genre := range movie.Genres {
			names = append(names, genre.Name)
		}

		record := []string{
			strconv.Itoa(movie.MovieID),
			movie.Title,
			strconv.Itoa(movie.Year),
			strconv.Itoa(movie.Duration),
			strconv.FormatFloat(movie.AverageRating, 'f', 1, 64),
			strings.Join(names, "; "),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a genre and its movies to Markdown with an optional poster image
func ExportToMarkdown(genre *models.Genre, imageFilename string) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", genre.Name))

	if imageFilename != "" {
		buf.WriteString(fmt.Sprintf("![Poster](%s)\n\n", imageFilename))
	}

	buf.WriteString(fmt.Sprintf("**Movies**: %d\n\n", len(genre.Movies)))

	buf.WriteString("## Movies\n\n")
	for i, movie := range genre.Movies {
		yearPart := ""
		if movie.Year > 0 {
			yearPart = fmt.Sprintf(" (%d)", movie.Year)
		}
		buf.WriteString(fmt.Sprintf("%d. %s%s — %s [%s]\n", i+1, movie.Title, yearPart,
			shared.FormatRating(movie.AverageRating), shared.FormatDuration(movie.Duration)))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a genre and its movies to plain text
func ExportToText(genre *models.Genre) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Genre: %s\n", genre.Name))
	buf.WriteString(fmt.Sprintf("Movies: %d\n\n", len(genre.Movies)))

	for i, movie := range genre.Movies {
		buf.WriteString(fmt.Sprintf("%d. %s (%d)\n", i+1, movie.Title, movie.Year))
	}

	return buf.Bytes(), nil
}

// DownloadImage downloads an image from the given URL and returns the raw bytes
func DownloadImage(url string) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("empty URL provided")
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return imageData, nil
}

// ToMetadataJSON generates a JSON representation of genre metadata (without movies)
func ToMetadataJSON(genre models.Genre) ([]byte, error) {
	genre.Movies = nil
	return shared.MarshalJSON(genre, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	MoviesFile   string
	MetadataFile string
}

// WriteCSVExport exports a genre's movies to CSV with an accompanying metadata JSON file.
//
// Creates {base}_movies.csv and {base}_metadata.json
func WriteCSVExport(genre *models.Genre, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = strconv.Itoa(genre.GenreID)
	}

	csvData, err := ExportToCSV(genre.Movies)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	moviesFile := baseFilepath + "_movies.csv"
	if err := os.WriteFile(moviesFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(*genre)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		MoviesFile:   moviesFile,
		MetadataFile: metadataFile,
	}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory string
	Files     []string
	Poster    string
}

// WriteMarkdownExport exports a genre to Markdown in a dedicated directory.
//
// The posterURL parameter is optional; when provided the image is downloaded
// alongside the README. Creates {dir}/README.md and optionally {dir}/poster.jpg
func WriteMarkdownExport(genre *models.Genre, outputDir string, posterURL string) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = strconv.Itoa(genre.GenreID)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	var posterFilename string
	if posterURL != "" {
		imageData, err := DownloadImage(posterURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to download poster: %v\n", err)
		} else {
			posterFilename = "poster.jpg"
			posterPath := fmt.Sprintf("%s/%s", outputDir, posterFilename)
			if err := os.WriteFile(posterPath, imageData, 0644); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to save poster: %v\n", err)
				posterFilename = ""
			} else {
				result.Poster = posterPath
				result.Files = append(result.Files, posterPath)
			}
		}
	}

	mdData, err := ExportToMarkdown(genre, posterFilename)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := fmt.Sprintf("%s/README.md", outputDir)
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)

	return result, nil
}

// WriteTextExport exports a genre to plain text format.
func WriteTextExport(genre *models.Genre, path string) (string, error) {
	if path == "" {
		path = fmt.Sprintf("%d_movies.txt", genre.GenreID)
	}

	textData, err := ExportToText(genre)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(path, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return path, nil
}

// WriteBulkExportManifest writes a JSON manifest summarizing a bulk export run.
func WriteBulkExportManifest(result any, format, path string) error {
	manifest := struct {
		Format      string `json:"format"`
		GeneratedAt string `json:"generated_at"`
		Result      any    `json:"result"`
	}{
		Format:      format,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Result:      result,
	}

	data, err := shared.MarshalJSON(manifest, true)
	if err != nil {
		return fmt.Errorf("failed to generate manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}
