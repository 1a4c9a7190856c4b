package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"archivist/internal/config"
	"archivist/internal/jobs"
	"archivist/internal/logging"
	"archivist/internal/services"
	"archivist/internal/services/nara"
)

// Progress receives synchronous per-event updates while a range is fetched.
// It is invoked from the fetching goroutine itself, so update ordering
// matches the order events occur.
type Progress func(pagesDone, pagesTotal int, message string)

// Catalog is the slice of the NARA client the fetcher needs.
type Catalog interface {
	Lookup(ctx context.Context, naid string) ([]nara.DigitalObject, error)
	Download(ctx context.Context, objectURL, path string) error
}

// Fetcher downloads a page range into a directory, reporting progress.
// A returned error is fatal to the attempt; per-page failures are collected
// in the summary instead.
type Fetcher interface {
	FetchRange(ctx context.Context, catalogURL, outDir string, startPage, endPage int, progress Progress) (*jobs.FetchSummary, error)
}

// RangeFetcher is the production Fetcher backed by the catalog client.
type RangeFetcher struct {
	catalog  Catalog
	imageExt string
	delay    time.Duration
	logger   *slog.Logger
}

// New constructs a RangeFetcher from application configuration.
func New(cfg *config.Config, catalog Catalog, logger *slog.Logger) *RangeFetcher {
	return &RangeFetcher{
		catalog:  catalog,
		imageExt: cfg.Archive.ImageExt,
		delay:    time.Duration(cfg.Fetch.PolitenessDelay) * time.Millisecond,
		logger:   logging.NewComponentLogger(logger, "fetch"),
	}
}

// FetchRange resolves the catalog record, clamps the requested range against
// the available page count, and downloads each page sequentially with a
// politeness delay. Pages whose output file already exists are counted as
// skipped and left untouched.
func (f *RangeFetcher) FetchRange(ctx context.Context, catalogURL, outDir string, startPage, endPage int, progress Progress) (*jobs.FetchSummary, error) {
	report := func(done, total int, message string) {
		if progress != nil {
			progress(done, total, message)
		}
	}

	summary := &jobs.FetchSummary{Errors: []string{}}

	naid, err := nara.ExtractNAID(catalogURL)
	if err != nil {
		return nil, err
	}

	report(0, 0, fmt.Sprintf("Fetching record %s from catalog API...", naid))

	objects, err := f.catalog.Lookup(ctx, naid)
	if err != nil {
		return nil, err
	}

	total := len(objects)
	summary.TotalAvailable = total
	report(0, 0, fmt.Sprintf("Found %d images in record", total))

	if total == 0 {
		summary.Errors = append(summary.Errors, "no digital objects in record")
		return summary, nil
	}

	actualEnd := endPage
	if endPage > total {
		actualEnd = total
		report(0, 0, fmt.Sprintf("Warning: requested end page %d exceeds total %d, using %d", endPage, total, total))
	}
	if startPage < 1 {
		startPage = 1
	}
	if startPage > total {
		return nil, services.Wrap(services.ErrValidation, "fetch", "range",
			fmt.Sprintf("start page %d exceeds total pages %d", startPage, total), nil)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	pagesTotal := actualEnd - startPage + 1
	pagesDone := 0
	report(pagesDone, pagesTotal, fmt.Sprintf("Downloading pages %d to %d...", startPage, actualEnd))

	for page := startPage; page <= actualEnd; page++ {
		obj := objects[page-1]
		filename := fmt.Sprintf("%04d%s", page, f.imageExt)
		path := filepath.Join(outDir, filename)

		switch {
		case obj.URL == "":
			summary.Errors = append(summary.Errors, fmt.Sprintf("no object URL for page %d", page))
			pagesDone++
			report(pagesDone, pagesTotal, fmt.Sprintf("No object URL for page %d", page))
		case fileExists(path):
			summary.Skipped++
			pagesDone++
			report(pagesDone, pagesTotal, fmt.Sprintf("Skipped existing %s", filename))
		default:
			if err := f.catalog.Download(ctx, obj.URL, path); err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				summary.Errors = append(summary.Errors, fmt.Sprintf("failed to download page %d", page))
				pagesDone++
				report(pagesDone, pagesTotal, fmt.Sprintf("Failed to download %s", filename))
				f.logger.Warn("page download failed",
					logging.Int("page", page),
					logging.Error(err),
				)
			} else {
				summary.Downloaded++
				pagesDone++
				report(pagesDone, pagesTotal, fmt.Sprintf("Downloaded %s (%s)", filename, obj.Filename))
			}
		}

		if page < actualEnd && f.delay > 0 {
			select {
			case <-time.After(f.delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	summary.Success = len(summary.Errors) == 0
	report(pagesDone, pagesTotal, "Download complete")
	return summary, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
