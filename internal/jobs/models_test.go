package jobs_test

import (
	"testing"

	"archivist/internal/jobs"
)

func TestParseStatus(t *testing.T) {
	cases := []struct {
		input string
		want  jobs.Status
		ok    bool
	}{
		{"queued", jobs.StatusQueued, true},
		{" Running ", jobs.StatusRunning, true},
		{"COMPLETED", jobs.StatusCompleted, true},
		{"failed", jobs.StatusFailed, true},
		{"", "", false},
		{"bogus", "bogus", false},
	}
	for _, tc := range cases {
		got, ok := jobs.ParseStatus(tc.input)
		if ok != tc.ok {
			t.Fatalf("ParseStatus(%q) ok=%v, want %v", tc.input, ok, tc.ok)
		}
		if ok && got != tc.want {
			t.Fatalf("ParseStatus(%q)=%q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestStatusIsTerminal(t *testing.T) {
	if jobs.StatusQueued.IsTerminal() || jobs.StatusRunning.IsTerminal() {
		t.Fatal("queued and running must not be terminal")
	}
	if !jobs.StatusCompleted.IsTerminal() || !jobs.StatusFailed.IsTerminal() {
		t.Fatal("completed and failed must be terminal")
	}
}

func TestNewJobDefaults(t *testing.T) {
	job := jobs.NewJob("https://catalog.archives.gov/id/123", 5, 14)
	if job.ID == "" {
		t.Fatal("expected job id to be assigned")
	}
	if job.Status != jobs.StatusQueued {
		t.Fatalf("expected queued, got %s", job.Status)
	}
	if job.PagesTotal != 10 {
		t.Fatalf("expected pages_total 10, got %d", job.PagesTotal)
	}
	if job.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be stamped")
	}
}

func TestJobTransitions(t *testing.T) {
	job := jobs.NewJob("https://catalog.archives.gov/id/123", 1, 3)

	job.MarkRunning()
	if job.Status != jobs.StatusRunning || job.StartedAt == nil {
		t.Fatalf("MarkRunning did not transition: %#v", job)
	}

	summary := &jobs.FetchSummary{Success: true, Downloaded: 3}
	job.MarkCompleted(summary, true, false)
	if job.Status != jobs.StatusCompleted || job.CompletedAt == nil {
		t.Fatalf("MarkCompleted did not transition: %#v", job)
	}
	if !job.ZipAvailable || job.PDFAvailable {
		t.Fatalf("artifact flags wrong: zip=%v pdf=%v", job.ZipAvailable, job.PDFAvailable)
	}
	if job.Result == nil || job.Result.Downloaded != 3 {
		t.Fatalf("result not recorded: %#v", job.Result)
	}
}

func TestMarkFailedRecordsMessage(t *testing.T) {
	job := jobs.NewJob("https://catalog.archives.gov/id/123", 1, 3)
	job.MarkRunning()
	job.MarkFailed("daemon stopped")

	if job.Status != jobs.StatusFailed {
		t.Fatalf("expected failed, got %s", job.Status)
	}
	if job.Error != "daemon stopped" || job.Message != "daemon stopped" {
		t.Fatalf("failure message not recorded: %#v", job)
	}
	if job.CompletedAt == nil {
		t.Fatal("expected completed_at on failure")
	}
}

func TestPageRangePages(t *testing.T) {
	r := jobs.PageRange{StartPage: 10, EndPage: 10}
	if r.Pages() != 1 {
		t.Fatalf("single page range: got %d", r.Pages())
	}
	r = jobs.PageRange{StartPage: 1, EndPage: 800}
	if r.Pages() != 800 {
		t.Fatalf("full range: got %d", r.Pages())
	}
}

func TestBatchFinalizeIsIdempotent(t *testing.T) {
	batch := jobs.NewBatch("https://catalog.archives.gov/id/9", []jobs.PageRange{{StartPage: 1, EndPage: 2}})
	batch.Finalize(jobs.BatchCompletedWithErrors, false)

	first := *batch.CompletedAt
	batch.Finalize(jobs.BatchCompleted, true)

	if batch.Status != jobs.BatchCompletedWithErrors {
		t.Fatalf("second Finalize overwrote status: %s", batch.Status)
	}
	if batch.CombinedPDFAvailable {
		t.Fatal("second Finalize overwrote combined pdf flag")
	}
	if !batch.CompletedAt.Equal(first) {
		t.Fatal("second Finalize moved completed_at")
	}
}
