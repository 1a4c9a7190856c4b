package workflow

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"archivist/internal/config"
	"archivist/internal/fetch"
	"archivist/internal/jobs"
	"archivist/internal/logging"
)

// Assembler is the slice of the archive package the workflow needs.
type Assembler interface {
	PDFAvailable() bool
	ListImages(dir string) ([]string, error)
	BuildZip(imagesDir, zipPath string) error
	BuildPDF(ctx context.Context, files []string, outPath string) (bool, error)
	BuildCombinedPDF(ctx context.Context, fileLists [][]string, outPath string) (bool, error)
}

// Manager owns job and batch execution: it launches one runner goroutine per
// accepted job, one monitor goroutine per batch, and routes every mutation of
// a record through the goroutine that owns it.
type Manager struct {
	cfg       *config.Config
	store     *jobs.Store
	fetcher   fetch.Fetcher
	assembler Assembler
	logger    *slog.Logger

	pollInterval time.Duration

	mu            sync.Mutex
	running       bool
	runCtx        context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
	activeJobs    int
	activeBatches int
}

// StatusSummary describes the manager's runtime state for status surfaces.
type StatusSummary struct {
	Running       bool `json:"running"`
	ActiveJobs    int  `json:"active_jobs"`
	ActiveBatches int  `json:"active_batches"`
}

// NewManager constructs a workflow manager.
func NewManager(cfg *config.Config, store *jobs.Store, fetcher fetch.Fetcher, assembler Assembler, logger *slog.Logger) *Manager {
	return &Manager{
		cfg:          cfg,
		store:        store,
		fetcher:      fetcher,
		assembler:    assembler,
		logger:       logging.NewComponentLogger(logger, "workflow"),
		pollInterval: time.Duration(cfg.Workflow.BatchPollInterval) * time.Second,
	}
}

// Start enables job submission. Runner goroutines are created per submitted
// job rather than from a worker pool; admission control is the caller's
// concern.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return errors.New("workflow already running")
	}
	m.runCtx, m.cancel = context.WithCancel(ctx)
	m.running = true
	return nil
}

// Stop cancels in-flight work and waits for all runner and monitor
// goroutines to finish. In-flight jobs are recorded as failed with a daemon
// stop message by their own runners.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	cancel := m.cancel
	m.running = false
	m.cancel = nil
	m.mu.Unlock()

	cancel()
	m.wg.Wait()
}

// Status reports the manager's current runtime summary.
func (m *Manager) Status() StatusSummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return StatusSummary{
		Running:       m.running,
		ActiveJobs:    m.activeJobs,
		ActiveBatches: m.activeBatches,
	}
}

func (m *Manager) launchJob(job *jobs.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return errors.New("workflow not running")
	}
	runCtx := m.runCtx
	m.activeJobs++
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer func() {
			m.mu.Lock()
			m.activeJobs--
			m.mu.Unlock()
		}()
		m.runJob(runCtx, job)
	}()
	return nil
}

func (m *Manager) launchMonitor(batch *jobs.Batch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return errors.New("workflow not running")
	}
	runCtx := m.runCtx
	m.activeBatches++
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer func() {
			m.mu.Lock()
			m.activeBatches--
			m.mu.Unlock()
		}()
		m.monitorBatch(runCtx, batch)
	}()
	return nil
}
