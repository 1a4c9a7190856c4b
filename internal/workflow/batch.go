package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"archivist/internal/jobs"
	"archivist/internal/logging"
)

// monitorBatch polls every referenced job until all are terminal, then
// finalizes the batch exactly once. The job id set is fixed at creation and
// never grows, so the loop is guaranteed to terminate once every runner has
// finished.
func (m *Manager) monitorBatch(ctx context.Context, batch *jobs.Batch) {
	logger := m.logger.With(logging.String(logging.FieldBatchID, batch.ID))

	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Runners record their own daemon-stop failures; the batch is
			// left non-terminal rather than finalized with partial state.
			logger.Info("batch monitor stopped before completion")
			return
		case <-ticker.C:
		}

		terminal, anyFailed, ok := m.pollJobs(ctx, batch, logger)
		if !ok || !terminal {
			continue
		}

		m.finalizeBatch(context.WithoutCancel(ctx), batch, anyFailed, logger)
		return
	}
}

// pollJobs reads every job in the batch. A transiently absent record (the
// monitor can start before a job's first write lands) counts as not yet
// terminal, never as an error.
func (m *Manager) pollJobs(ctx context.Context, batch *jobs.Batch, logger *slog.Logger) (terminal, anyFailed, ok bool) {
	anyFailed = false
	for _, jobID := range batch.JobIDs {
		job, err := m.store.GetJob(ctx, jobID)
		if err != nil {
			logger.Warn("batch poll read failed", logging.Error(err))
			return false, false, false
		}
		if job == nil || !job.Status.IsTerminal() {
			return false, false, true
		}
		if job.Status == jobs.StatusFailed {
			anyFailed = true
		}
	}
	return true, anyFailed, true
}

// finalizeBatch computes the aggregate status, attempts the combined PDF,
// and writes the terminal batch record once.
func (m *Manager) finalizeBatch(ctx context.Context, batch *jobs.Batch, anyFailed bool, logger *slog.Logger) {
	status := jobs.BatchCompleted
	if anyFailed {
		status = jobs.BatchCompletedWithErrors
	}

	built := m.buildCombinedPDF(ctx, batch, logger)

	current, err := m.store.GetBatch(ctx, batch.ID)
	if err != nil || current == nil {
		current = batch
	}
	if current.Status.IsTerminal() {
		return
	}
	current.Finalize(status, built)
	if err := m.store.PutBatch(ctx, current); err != nil {
		logger.Error("failed to persist batch finalization", logging.Error(err))
		return
	}
	m.appendLog(ctx, batch.ID, fmt.Sprintf("Batch finished: %s", status))
	logger.Info("batch finalized",
		logging.String("status", string(status)),
		logging.Bool("combined_pdf", built),
	)
}

// buildCombinedPDF concatenates each job's images in range order. Jobs that
// failed or produced nothing contribute no pages; assembly failure only
// clears the availability flag.
func (m *Manager) buildCombinedPDF(ctx context.Context, batch *jobs.Batch, logger *slog.Logger) bool {
	jobsRoot := m.cfg.JobsRoot()

	fileLists := make([][]string, 0, len(batch.JobIDs))
	for _, jobID := range batch.JobIDs {
		job, err := m.store.GetJob(ctx, jobID)
		if err != nil || job == nil || job.Status != jobs.StatusCompleted {
			continue
		}
		files, err := m.assembler.ListImages(job.ImagesDir(jobsRoot))
		if err != nil {
			logger.Warn("listing batch job images failed",
				logging.String(logging.FieldJobID, jobID),
				logging.Error(err),
			)
			continue
		}
		fileLists = append(fileLists, files)
	}

	m.appendLog(ctx, batch.ID, "Creating combined PDF...")
	built, err := m.assembler.BuildCombinedPDF(ctx, fileLists, batch.CombinedPDFPath(m.cfg.BatchesRoot()))
	if err != nil {
		logger.Warn("combined pdf assembly failed", logging.Error(err))
		m.appendLog(ctx, batch.ID, "Combined PDF creation failed: "+err.Error())
		return false
	}
	if !built {
		m.appendLog(ctx, batch.ID, "Combined PDF skipped: converter unavailable or no images")
	}
	return built
}
