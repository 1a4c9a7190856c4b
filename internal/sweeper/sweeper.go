package sweeper

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"archivist/internal/config"
	"archivist/internal/jobs"
	"archivist/internal/logging"
)

// Sweeper reclaims terminal job and batch directories older than a TTL,
// along with their status records. Age is computed from completed_at,
// falling back to created_at; directories with no surviving record fall
// back to filesystem modification time.
type Sweeper struct {
	cfg    *config.Config
	store  *jobs.Store
	logger *slog.Logger
}

// Result contains the outcome of one sweep pass.
type Result struct {
	Removed []string
	Errors  []SweepError
}

// SweepError pairs a path with its cleanup error.
type SweepError struct {
	Path string
	Err  error
}

// New constructs a Sweeper.
func New(cfg *config.Config, store *jobs.Store, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		cfg:    cfg,
		store:  store,
		logger: logging.NewComponentLogger(logger, "sweeper"),
	}
}

// Run executes sweep passes at the configured interval until ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	interval := time.Duration(s.cfg.Sweeper.Interval) * time.Minute
	ttl := time.Duration(s.cfg.Sweeper.TTLHours) * time.Hour

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			result := s.Sweep(ctx, ttl, false)
			if len(result.Removed) > 0 || len(result.Errors) > 0 {
				s.logger.Info("sweep pass finished",
					logging.Int("removed", len(result.Removed)),
					logging.Int("errors", len(result.Errors)),
				)
			}
		}
	}
}

// Sweep performs one pass. With dryRun set, nothing is deleted and Removed
// lists what would have been reclaimed.
func (s *Sweeper) Sweep(ctx context.Context, ttl time.Duration, dryRun bool) Result {
	result := Result{}
	cutoff := time.Now().Add(-ttl)

	s.sweepJobs(ctx, cutoff, dryRun, &result)
	s.sweepBatches(ctx, cutoff, dryRun, &result)
	s.sweepOrphans(ctx, s.cfg.JobsRoot(), cutoff, dryRun, &result)
	s.sweepOrphans(ctx, s.cfg.BatchesRoot(), cutoff, dryRun, &result)

	return result
}

func (s *Sweeper) sweepJobs(ctx context.Context, cutoff time.Time, dryRun bool, result *Result) {
	list, err := s.store.ListJobs(ctx, jobs.StatusCompleted, jobs.StatusFailed)
	if err != nil {
		result.Errors = append(result.Errors, SweepError{Path: s.cfg.JobsRoot(), Err: err})
		return
	}
	for _, job := range list {
		reference := job.CreatedAt
		if job.CompletedAt != nil {
			reference = *job.CompletedAt
		}
		if !reference.Before(cutoff) {
			continue
		}
		s.reclaim(ctx, job.Root(s.cfg.JobsRoot()), job.ID, reference, dryRun, result)
	}
}

func (s *Sweeper) sweepBatches(ctx context.Context, cutoff time.Time, dryRun bool, result *Result) {
	list, err := s.store.ListBatches(ctx)
	if err != nil {
		result.Errors = append(result.Errors, SweepError{Path: s.cfg.BatchesRoot(), Err: err})
		return
	}
	for _, batch := range list {
		if !batch.Status.IsTerminal() {
			continue
		}
		reference := batch.CreatedAt
		if batch.CompletedAt != nil {
			reference = *batch.CompletedAt
		}
		if !reference.Before(cutoff) {
			continue
		}
		s.reclaim(ctx, batch.Root(s.cfg.BatchesRoot()), batch.ID, reference, dryRun, result)
	}
}

func (s *Sweeper) reclaim(ctx context.Context, dir, recordID string, reference time.Time, dryRun bool, result *Result) {
	if dryRun {
		result.Removed = append(result.Removed, dir)
		return
	}
	if err := os.RemoveAll(dir); err != nil {
		result.Errors = append(result.Errors, SweepError{Path: dir, Err: err})
		s.logger.Warn("failed to remove expired directory",
			logging.String("path", dir),
			logging.Error(err),
		)
		return
	}
	if err := s.store.Delete(ctx, recordID); err != nil {
		result.Errors = append(result.Errors, SweepError{Path: dir, Err: err})
		return
	}
	result.Removed = append(result.Removed, dir)
	s.logger.Info("removed expired directory",
		logging.String("path", dir),
		logging.Duration("age", time.Since(reference)),
	)
}

// sweepOrphans removes directories whose status record no longer exists,
// judged by directory modification time.
func (s *Sweeper) sweepOrphans(ctx context.Context, root string, cutoff time.Time, dryRun bool, result *Result) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if !os.IsNotExist(err) {
			result.Errors = append(result.Errors, SweepError{Path: root, Err: err})
		}
		return
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		id := entry.Name()
		if known, err := s.recordExists(ctx, id); err != nil || known {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		dirPath := filepath.Join(root, id)
		if dryRun {
			result.Removed = append(result.Removed, dirPath)
			continue
		}
		if err := os.RemoveAll(dirPath); err != nil {
			result.Errors = append(result.Errors, SweepError{Path: dirPath, Err: err})
			continue
		}
		result.Removed = append(result.Removed, dirPath)
		s.logger.Info("removed orphaned directory", logging.String("path", dirPath))
	}
}

func (s *Sweeper) recordExists(ctx context.Context, id string) (bool, error) {
	job, err := s.store.GetJob(ctx, id)
	if err != nil {
		return false, err
	}
	if job != nil {
		return true, nil
	}
	batch, err := s.store.GetBatch(ctx, id)
	if err != nil {
		return false, err
	}
	return batch != nil, nil
}
