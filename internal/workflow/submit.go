package workflow

import (
	"context"
	"fmt"

	"archivist/internal/jobs"
)

// JobRequest is a validated single-range download request. The HTTP layer
// guarantees start_page <= end_page and a well-formed catalog URL before the
// request reaches the manager.
type JobRequest struct {
	CatalogURL string
	StartPage  int
	EndPage    int
}

// BatchRequest is a validated multi-range download request.
type BatchRequest struct {
	CatalogURL string
	Ranges     []jobs.PageRange
}

// SubmitJob creates a queued job record and launches its runner goroutine.
func (m *Manager) SubmitJob(ctx context.Context, req JobRequest) (*jobs.Job, error) {
	job := jobs.NewJob(req.CatalogURL, req.StartPage, req.EndPage)
	if err := m.store.PutJob(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}
	if err := m.store.AppendLog(ctx, job.ID,
		fmt.Sprintf("Job created: %s pages %d-%d", job.CatalogURL, job.StartPage, job.EndPage)); err != nil {
		return nil, fmt.Errorf("log job creation: %w", err)
	}
	if err := m.launchJob(job); err != nil {
		return nil, err
	}
	return job, nil
}

// SubmitBatch creates a batch record with one job per range, index-aligned
// with the submitted order, launches every runner, and starts the batch
// monitor.
func (m *Manager) SubmitBatch(ctx context.Context, req BatchRequest) (*jobs.Batch, error) {
	batch := jobs.NewBatch(req.CatalogURL, req.Ranges)

	created := make([]*jobs.Job, 0, len(req.Ranges))
	for i, r := range req.Ranges {
		job := jobs.NewJob(req.CatalogURL, r.StartPage, r.EndPage)
		job.BatchID = batch.ID
		job.RangeIndex = i
		batch.JobIDs = append(batch.JobIDs, job.ID)
		created = append(created, job)
	}

	if err := m.store.PutBatch(ctx, batch); err != nil {
		return nil, fmt.Errorf("create batch: %w", err)
	}
	if err := m.store.AppendLog(ctx, batch.ID,
		fmt.Sprintf("Batch created: %s with %d ranges", batch.CatalogURL, len(batch.Ranges))); err != nil {
		return nil, fmt.Errorf("log batch creation: %w", err)
	}

	for _, job := range created {
		if err := m.store.PutJob(ctx, job); err != nil {
			return nil, fmt.Errorf("create batch job: %w", err)
		}
		if err := m.store.AppendLog(ctx, job.ID,
			fmt.Sprintf("Job created: %s pages %d-%d (batch %s, range %d)",
				job.CatalogURL, job.StartPage, job.EndPage, batch.ID, job.RangeIndex+1)); err != nil {
			return nil, fmt.Errorf("log batch job creation: %w", err)
		}
	}

	for _, job := range created {
		if err := m.launchJob(job); err != nil {
			return nil, err
		}
	}
	if err := m.launchMonitor(batch); err != nil {
		return nil, err
	}
	return batch, nil
}
