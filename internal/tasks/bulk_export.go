package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"distream/internal/formatter"
	"distream/internal/models"
	"distream/internal/shared"
	"golang.org/x/time/rate"
)

// BulkExportOpts contains configuration for bulk genre exports.
type BulkExportOpts struct {
	Format         string                                            // Export format: json, csv, markdown, txt
	OutputDir      string                                            // Base output directory (default: distream_export_{epoch})
	NumWorkers     int                                               // Concurrent workers (default: 5)
	RateLimit      float64                                           // Requests per second (default: 5)
	GetPosterImage func(ctx context.Context, genre *models.Genre) (string, error) // Poster URL resolver
}

// GenreExportJob pairs a genre ID with its fetched payload for a worker.
type GenreExportJob struct {
	GenreID int
	Genre   *models.Genre
}

// GenreExportResult records the outcome of exporting a single genre.
type GenreExportResult struct {
	GenreID   int      `json:"genre_id"`
	GenreName string   `json:"genre_name"`
	Success   bool     `json:"success"`
	Files     []string `json:"files,omitempty"`
	Error     error    `json:"-"`
}

// BulkExportResult summarizes a bulk export run.
type BulkExportResult struct {
	TotalGenres       int                 `json:"total_genres"`
	SuccessfulExports int                 `json:"successful_exports"`
	FailedExports     int                 `json:"failed_exports"`
	OutputDirectory   string              `json:"output_directory"`
	ManifestPath      string              `json:"manifest_path,omitempty"`
	Results           []GenreExportResult `json:"results"`
}

// BulkExport exports the movie listings of multiple genres concurrently with
// rate limiting and progress tracking.
//
// Fetches go through a rate limiter so the bulk path stays within the API's
// tolerance; file writes fan out to a bounded worker pool. Partial failures
// are collected per genre, and a manifest file summarizes the run.
func (e *CatalogEngine) BulkExport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	ids []int,
	opts BulkExportOpts,
) (*BulkExportResult, error) {
	if e.genres == nil {
		return nil, fmt.Errorf("%w: genre service not initialized", shared.ErrServiceUnavailable)
	}

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("distream_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkExportResult{
		TotalGenres:     len(ids),
		OutputDirectory: opts.OutputDir,
		Results:         make([]GenreExportResult, 0, len(ids)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan GenreExportJob, len(ids))
	results := make(chan GenreExportResult, len(ids))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		for i, genreID := range ids {
			select {
			case <-ctx.Done():
				close(jobs)
				return
			default:
			}

			if err := limiter.Wait(ctx); err != nil {
				close(jobs)
				return
			}

			genre, err := e.genres.Get(ctx, genreID)
			if err != nil {
				results <- GenreExportResult{
					GenreID:   genreID,
					GenreName: fmt.Sprintf("Unknown (%d)", genreID),
					Success:   false,
					Error:     fmt.Errorf("failed to fetch genre: %w", err),
				}
				continue
			}

			jobs <- GenreExportJob{
				GenreID: genreID,
				Genre:   genre,
			}

			e.sendProgress(prog, exportUpdate(genre.Name, i+1, len(ids)))
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
		} else {
			result.FailedExports++
		}
	}

	e.sendProgress(prog, doneUpdate(fmt.Sprintf("Exported %d/%d genres", result.SuccessfulExports, len(ids))))

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := formatter.WriteBulkExportManifest(result, opts.Format, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// exportWorker is a worker goroutine that exports genres from the jobs channel.
func (e *CatalogEngine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan GenreExportJob,
	results chan<- GenreExportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res := e.exportSingleGenre(ctx, job, opts)
		results <- res
	}
}

// exportSingleGenre writes a single genre's movie listing in the chosen format.
func (e *CatalogEngine) exportSingleGenre(
	ctx context.Context,
	j GenreExportJob,
	opts BulkExportOpts,
) GenreExportResult {
	result := GenreExportResult{
		GenreID:   j.GenreID,
		GenreName: j.Genre.Name,
		Success:   false,
		Files:     []string{},
	}

	slug := fmt.Sprintf("genre_%d", j.GenreID)

	switch opts.Format {
	case "csv":
		baseFilepath := filepath.Join(opts.OutputDir, slug)
		csvRes, err := formatter.WriteCSVExport(j.Genre, baseFilepath)
		if err != nil {
			result.Error = fmt.Errorf("CSV export failed: %w", err)
			return result
		}
		result.Files = []string{csvRes.MoviesFile, csvRes.MetadataFile}
		result.Success = true

	case "markdown":
		outputDir := filepath.Join(opts.OutputDir, slug)

		var posterURL string
		if opts.GetPosterImage != nil {
			if url, err := opts.GetPosterImage(ctx, j.Genre); err == nil {
				posterURL = url
			}
		}

		mdRes, err := formatter.WriteMarkdownExport(j.Genre, outputDir, posterURL)
		if err != nil {
			result.Error = fmt.Errorf("markdown export failed: %w", err)
			return result
		}
		result.Files = mdRes.Files
		result.Success = true

	case "txt":
		txtPath := filepath.Join(opts.OutputDir, fmt.Sprintf("%s_movies.txt", slug))
		written, err := formatter.WriteTextExport(j.Genre, txtPath)
		if err != nil {
			result.Error = fmt.Errorf("text export failed: %w", err)
			return result
		}
		result.Files = []string{written}
		result.Success = true
	case "json":
		fallthrough
	default:
		jsonPath := filepath.Join(opts.OutputDir, fmt.Sprintf("%s.json", slug))
		data, err := shared.MarshalJSON(j.Genre, true)
		if err != nil {
			result.Error = fmt.Errorf("JSON marshal failed: %w", err)
			return result
		}
		if err := os.WriteFile(jsonPath, data, 0644); err != nil {
			result.Error = fmt.Errorf("JSON write failed: %w", err)
			return result
		}
		result.Files = []string{jsonPath}
		result.Success = true
	}
	return result
}
