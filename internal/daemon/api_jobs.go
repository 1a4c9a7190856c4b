package daemon

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"archivist/internal/jobs"
	"archivist/internal/workflow"
)

type createJobPayload struct {
	CatalogURL string `json:"catalog_url"`
	StartPage  int    `json:"start_page"`
	EndPage    int    `json:"end_page"`
}

type createBatchPayload struct {
	CatalogURL string           `json:"catalog_url"`
	Ranges     []jobs.PageRange `json:"ranges"`
}

type createdResponse struct {
	JobID     string `json:"job_id,omitempty"`
	BatchID   string `json:"batch_id,omitempty"`
	StatusURL string `json:"status_url"`
}

func (s *apiServer) handleJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var payload createJobPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.writeError(w, http.StatusBadRequest, "request body required")
		return
	}
	if err := s.validateRange(payload.CatalogURL, jobs.PageRange{StartPage: payload.StartPage, EndPage: payload.EndPage}); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	job, err := s.daemon.workflow.SubmitJob(r.Context(), workflow.JobRequest{
		CatalogURL: strings.TrimSpace(payload.CatalogURL),
		StartPage:  payload.StartPage,
		EndPage:    payload.EndPage,
	})
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusCreated, createdResponse{
		JobID:     job.ID,
		StatusURL: "/api/jobs/" + job.ID,
	})
}

func (s *apiServer) handleBatches(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var payload createBatchPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.writeError(w, http.StatusBadRequest, "request body required")
		return
	}
	if len(payload.Ranges) == 0 {
		s.writeError(w, http.StatusBadRequest, "at least one range is required")
		return
	}
	if max := s.daemon.cfg.Fetch.MaxRangesPerBatch; len(payload.Ranges) > max {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("maximum %d ranges per batch", max))
		return
	}
	for _, r := range payload.Ranges {
		if err := s.validateRange(payload.CatalogURL, r); err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	batch, err := s.daemon.workflow.SubmitBatch(r.Context(), workflow.BatchRequest{
		CatalogURL: strings.TrimSpace(payload.CatalogURL),
		Ranges:     payload.Ranges,
	})
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusCreated, createdResponse{
		BatchID:   batch.ID,
		StatusURL: "/api/batches/" + batch.ID,
	})
}

// validateRange enforces the invariants the workflow core trusts: a
// well-formed catalog URL on the allowed host and a bounded ascending range.
func (s *apiServer) validateRange(catalogURL string, r jobs.PageRange) error {
	trimmed := strings.TrimSpace(catalogURL)
	if trimmed == "" {
		return fmt.Errorf("catalog_url is required")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Host == "" {
		return fmt.Errorf("catalog_url is not a valid URL")
	}
	if allowed := s.daemon.cfg.Fetch.AllowedHost; allowed != "" && !strings.EqualFold(parsed.Hostname(), allowed) {
		return fmt.Errorf("catalog_url must be from %s", allowed)
	}
	if r.StartPage < 1 {
		return fmt.Errorf("start_page must be at least 1")
	}
	if r.EndPage < r.StartPage {
		return fmt.Errorf("end_page must be >= start_page")
	}
	if max := s.daemon.cfg.Fetch.MaxPagesPerJob; r.Pages() > max {
		return fmt.Errorf("maximum %d pages per range", max)
	}
	return nil
}

func (s *apiServer) handleJobResource(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
	id, sub := splitResource(rest)
	if id == "" {
		s.writeError(w, http.StatusNotFound, "job not found")
		return
	}

	job, err := s.daemon.store.GetJob(r.Context(), id)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if job == nil {
		s.writeError(w, http.StatusNotFound, "job not found")
		return
	}

	jobsRoot := s.daemon.cfg.JobsRoot()
	switch sub {
	case "":
		s.writeJSON(w, http.StatusOK, job)
	case "log":
		lines, err := s.daemon.store.ReadLog(r.Context(), id)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]any{"lines": lines})
	case "download.zip":
		if job.Status != jobs.StatusCompleted || !job.ZipAvailable {
			s.writeError(w, http.StatusConflict, "zip not available")
			return
		}
		s.serveArtifact(w, r, job.ZipPath(jobsRoot), "archivist-"+shortID(job.ID)+".zip", "application/zip")
	case "download.pdf":
		if job.Status != jobs.StatusCompleted || !job.PDFAvailable {
			s.writeError(w, http.StatusConflict, "pdf not available")
			return
		}
		s.serveArtifact(w, r, job.PDFPath(jobsRoot), "archivist-"+shortID(job.ID)+".pdf", "application/pdf")
	default:
		s.writeError(w, http.StatusNotFound, "unknown job resource")
	}
}

func (s *apiServer) handleBatchResource(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/api/batches/")
	id, sub := splitResource(rest)
	if id == "" {
		s.writeError(w, http.StatusNotFound, "batch not found")
		return
	}

	batch, err := s.daemon.store.GetBatch(r.Context(), id)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if batch == nil {
		s.writeError(w, http.StatusNotFound, "batch not found")
		return
	}

	switch sub {
	case "":
		s.writeJSON(w, http.StatusOK, batch)
	case "log":
		lines, err := s.daemon.store.ReadLog(r.Context(), id)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.writeJSON(w, http.StatusOK, map[string]any{"lines": lines})
	case "download.pdf":
		if !batch.Status.IsTerminal() || !batch.CombinedPDFAvailable {
			s.writeError(w, http.StatusConflict, "combined pdf not available")
			return
		}
		s.serveArtifact(w, r, batch.CombinedPDFPath(s.daemon.cfg.BatchesRoot()), "archivist-"+shortID(batch.ID)+".pdf", "application/pdf")
	default:
		s.writeError(w, http.StatusNotFound, "unknown batch resource")
	}
}

// serveArtifact streams an assembled file. The sweeper may reclaim a
// directory between the status read and this file read, so absence maps to
// 404 rather than 500.
func (s *apiServer) serveArtifact(w http.ResponseWriter, r *http.Request, path, downloadName, contentType string) {
	if _, err := os.Stat(path); err != nil {
		s.writeError(w, http.StatusNotFound, "artifact no longer on disk")
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", downloadName))
	http.ServeFile(w, r, path)
}

func splitResource(rest string) (id, sub string) {
	parts := strings.SplitN(rest, "/", 2)
	id = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		sub = parts[1]
	}
	return id, sub
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
