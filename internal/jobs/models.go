package jobs

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle of a download job.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

var allStatuses = []Status{
	StatusQueued,
	StatusRunning,
	StatusCompleted,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllStatuses returns the ordered list of known job statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsTerminal reports whether no further transitions occur from this status.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// BatchStatus represents the aggregate lifecycle of a batch.
type BatchStatus string

const (
	BatchRunning             BatchStatus = "running"
	BatchCompleted           BatchStatus = "completed"
	BatchCompletedWithErrors BatchStatus = "completed_with_errors"
)

// IsTerminal reports whether the batch has been finalized.
func (s BatchStatus) IsTerminal() bool {
	return s == BatchCompleted || s == BatchCompletedWithErrors
}

// DaemonStopMessage is the error message recorded when in-flight jobs are
// failed due to daemon shutdown.
const DaemonStopMessage = "daemon stopped"

// PageRange is a 1-indexed inclusive page interval.
type PageRange struct {
	StartPage int `json:"start_page"`
	EndPage   int `json:"end_page"`
}

// Pages returns the number of pages covered by the range.
func (r PageRange) Pages() int {
	return r.EndPage - r.StartPage + 1
}

// FetchSummary captures the outcome of a completed fetch attempt.
// Success is true only when the error list is empty.
type FetchSummary struct {
	Success        bool     `json:"success"`
	TotalAvailable int      `json:"total_available"`
	Downloaded     int      `json:"downloaded"`
	Skipped        int      `json:"skipped"`
	Errors         []string `json:"errors"`
}

// Job is one page-range fetch-and-archive task. A Job is mutated only by the
// runner goroutine that owns it; all other components are readers.
type Job struct {
	ID           string        `json:"job_id"`
	BatchID      string        `json:"batch_id,omitempty"`
	RangeIndex   int           `json:"range_index"`
	Status       Status        `json:"status"`
	CatalogURL   string        `json:"catalog_url"`
	StartPage    int           `json:"start_page"`
	EndPage      int           `json:"end_page"`
	PagesDone    int           `json:"pages_done"`
	PagesTotal   int           `json:"pages_total"`
	Message      string        `json:"message"`
	CreatedAt    time.Time     `json:"created_at"`
	StartedAt    *time.Time    `json:"started_at,omitempty"`
	CompletedAt  *time.Time    `json:"completed_at,omitempty"`
	Result       *FetchSummary `json:"result,omitempty"`
	ZipAvailable bool          `json:"zip_available"`
	PDFAvailable bool          `json:"pdf_available"`
	Error        string        `json:"error,omitempty"`
}

// NewJob builds a queued job for the given range. The caller is responsible
// for having validated start <= end.
func NewJob(catalogURL string, startPage, endPage int) *Job {
	return &Job{
		ID:         uuid.NewString(),
		Status:     StatusQueued,
		CatalogURL: catalogURL,
		StartPage:  startPage,
		EndPage:    endPage,
		PagesTotal: endPage - startPage + 1,
		Message:    "Queued",
		CreatedAt:  time.Now().UTC(),
	}
}

// MarkRunning transitions the job to running and stamps started_at.
func (j *Job) MarkRunning() {
	now := time.Now().UTC()
	j.Status = StatusRunning
	j.StartedAt = &now
}

// MarkCompleted transitions the job to its terminal completed state.
func (j *Job) MarkCompleted(result *FetchSummary, zipAvailable, pdfAvailable bool) {
	now := time.Now().UTC()
	j.Status = StatusCompleted
	j.CompletedAt = &now
	j.Result = result
	j.ZipAvailable = zipAvailable
	j.PDFAvailable = pdfAvailable
}

// MarkFailed transitions the job to its terminal failed state.
func (j *Job) MarkFailed(message string) {
	now := time.Now().UTC()
	j.Status = StatusFailed
	j.CompletedAt = &now
	j.Error = message
	j.Message = message
}

// Batch groups jobs created from one multi-range request. JobIDs is
// index-aligned with Ranges and fixed at creation.
type Batch struct {
	ID                   string      `json:"batch_id"`
	CatalogURL           string      `json:"catalog_url"`
	Ranges               []PageRange `json:"ranges"`
	JobIDs               []string    `json:"job_ids"`
	Status               BatchStatus `json:"status"`
	CombinedPDFAvailable bool        `json:"combined_pdf_available"`
	CreatedAt            time.Time   `json:"created_at"`
	CompletedAt          *time.Time  `json:"completed_at,omitempty"`
}

// NewBatch builds a running batch shell; constituent jobs are created by the
// coordinator and their ids appended in range order.
func NewBatch(catalogURL string, ranges []PageRange) *Batch {
	return &Batch{
		ID:         uuid.NewString(),
		CatalogURL: catalogURL,
		Ranges:     ranges,
		Status:     BatchRunning,
		CreatedAt:  time.Now().UTC(),
	}
}

// Finalize records the terminal batch status exactly once. Calling it on an
// already-terminal batch is a no-op.
func (b *Batch) Finalize(status BatchStatus, combinedPDF bool) {
	if b.Status.IsTerminal() {
		return
	}
	now := time.Now().UTC()
	b.Status = status
	b.CombinedPDFAvailable = combinedPDF
	b.CompletedAt = &now
}
