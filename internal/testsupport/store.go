package testsupport

import (
	"context"
	"testing"

	"archivist/internal/config"
	"archivist/internal/jobs"
)

// MustOpenStore opens a jobs.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *jobs.Store {
	t.Helper()

	store, err := jobs.Open(cfg)
	if err != nil {
		t.Fatalf("jobs.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// MustPutJob persists a job and fails the test on error.
func MustPutJob(t testing.TB, store *jobs.Store, job *jobs.Job) {
	t.Helper()

	if err := store.PutJob(context.Background(), job); err != nil {
		t.Fatalf("store.PutJob: %v", err)
	}
}

// MustPutBatch persists a batch and fails the test on error.
func MustPutBatch(t testing.TB, store *jobs.Store, batch *jobs.Batch) {
	t.Helper()

	if err := store.PutBatch(context.Background(), batch); err != nil {
		t.Fatalf("store.PutBatch: %v", err)
	}
}
