package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"archivist/internal/jobs"
	"archivist/internal/logging"
)

// runJob drives one job through queued -> running -> {completed, failed}.
// It is the only goroutine that writes this job's record.
func (m *Manager) runJob(ctx context.Context, job *jobs.Job) {
	logger := m.logger.With(logging.String(logging.FieldJobID, job.ID))
	jobsRoot := m.cfg.JobsRoot()

	job.MarkRunning()
	if err := m.writeJob(ctx, job, "Job started"); err != nil {
		logger.Error("failed to persist running status", logging.Error(err))
		return
	}

	progress := func(pagesDone, pagesTotal int, message string) {
		current := m.reloadJob(ctx, job)
		current.PagesDone = pagesDone
		if pagesTotal > 0 {
			current.PagesTotal = pagesTotal
		}
		current.Message = message
		*job = *current
		if err := m.writeJob(ctx, job, message); err != nil {
			logger.Warn("progress update lost", logging.Error(err))
		}
	}

	summary, err := m.fetcher.FetchRange(ctx, job.CatalogURL, job.ImagesDir(jobsRoot), job.StartPage, job.EndPage, progress)
	if err != nil {
		message := err.Error()
		if errors.Is(err, context.Canceled) {
			message = jobs.DaemonStopMessage
		}
		finalCtx := context.WithoutCancel(ctx)
		current := m.reloadJob(finalCtx, job)
		current.MarkFailed(message)
		if werr := m.writeJob(finalCtx, current, "Job failed: "+message); werr != nil {
			logger.Error("failed to persist failed status", logging.Error(werr))
		}
		logger.Error("job failed", logging.Error(err))
		return
	}

	zipAvailable := m.assembleZip(ctx, job, logger)
	pdfAvailable := m.assemblePDF(ctx, job, logger)

	finalCtx := context.WithoutCancel(ctx)
	current := m.reloadJob(finalCtx, job)
	current.Message = "Download complete"
	current.MarkCompleted(summary, zipAvailable, pdfAvailable)
	if err := m.writeJob(finalCtx, current, "Job completed"); err != nil {
		logger.Error("failed to persist completed status", logging.Error(err))
		return
	}
	logger.Info("job completed",
		logging.Int("downloaded", summary.Downloaded),
		logging.Int("skipped", summary.Skipped),
		logging.Int("errors", len(summary.Errors)),
		logging.Bool("pdf", pdfAvailable),
	)
}

// assembleZip builds the job ZIP. Failure downgrades availability only.
func (m *Manager) assembleZip(ctx context.Context, job *jobs.Job, logger *slog.Logger) bool {
	jobsRoot := m.cfg.JobsRoot()
	m.appendLog(ctx, job.ID, "Creating ZIP archive...")
	if err := m.assembler.BuildZip(job.ImagesDir(jobsRoot), job.ZipPath(jobsRoot)); err != nil {
		logger.Warn("zip assembly failed", logging.Error(err))
		m.appendLog(ctx, job.ID, "ZIP creation failed: "+err.Error())
		return false
	}
	return true
}

// assemblePDF builds the job PDF when the converter is present. Both
// converter absence and conversion failure leave the flag false.
func (m *Manager) assemblePDF(ctx context.Context, job *jobs.Job, logger *slog.Logger) bool {
	jobsRoot := m.cfg.JobsRoot()
	files, err := m.assembler.ListImages(job.ImagesDir(jobsRoot))
	if err != nil {
		logger.Warn("listing images for pdf failed", logging.Error(err))
		return false
	}
	m.appendLog(ctx, job.ID, "Creating PDF...")
	built, err := m.assembler.BuildPDF(ctx, files, job.PDFPath(jobsRoot))
	if err != nil {
		logger.Warn("pdf assembly failed", logging.Error(err))
		m.appendLog(ctx, job.ID, "PDF creation failed: "+err.Error())
		return false
	}
	if !built {
		m.appendLog(ctx, job.ID, "PDF skipped: converter unavailable or no images")
	}
	return built
}

// reloadJob re-reads the job record so updates follow read-modify-write of
// the stored state. If the record has disappeared (swept mid-run) the local
// copy stands in.
func (m *Manager) reloadJob(ctx context.Context, job *jobs.Job) *jobs.Job {
	current, err := m.store.GetJob(ctx, job.ID)
	if err != nil || current == nil {
		return job
	}
	return current
}

func (m *Manager) writeJob(ctx context.Context, job *jobs.Job, logLine string) error {
	if err := m.store.PutJob(ctx, job); err != nil {
		return err
	}
	if err := m.store.AppendLog(ctx, job.ID, logLine); err != nil {
		return fmt.Errorf("append job log: %w", err)
	}
	return nil
}

func (m *Manager) appendLog(ctx context.Context, recordID, line string) {
	if err := m.store.AppendLog(ctx, recordID, line); err != nil {
		m.logger.Warn("log append failed",
			logging.String("record", recordID),
			logging.Error(err),
		)
	}
}
