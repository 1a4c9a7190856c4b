package fetch_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"archivist/internal/fetch"
	"archivist/internal/logging"
	"archivist/internal/services"
	"archivist/internal/services/nara"
	"archivist/internal/testsupport"
)

type fakeCatalog struct {
	objects     []nara.DigitalObject
	lookupErr   error
	failPages   map[string]error
	downloaded  []string
	downloadCnt int
}

func (f *fakeCatalog) Lookup(ctx context.Context, naid string) ([]nara.DigitalObject, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	return f.objects, nil
}

func (f *fakeCatalog) Download(ctx context.Context, objectURL, path string) error {
	f.downloadCnt++
	if err, ok := f.failPages[objectURL]; ok {
		return err
	}
	if err := os.WriteFile(path, []byte(objectURL), 0o644); err != nil {
		return err
	}
	f.downloaded = append(f.downloaded, filepath.Base(path))
	return nil
}

func objects(n int) []nara.DigitalObject {
	objs := make([]nara.DigitalObject, 0, n)
	for i := 1; i <= n; i++ {
		objs = append(objs, nara.DigitalObject{
			URL:      fmt.Sprintf("https://catalog.archives.gov/objects/%d.jpg", i),
			Filename: fmt.Sprintf("scan-%d.jpg", i),
		})
	}
	return objs
}

const testURL = "https://catalog.archives.gov/id/12345"

func newFetcher(t *testing.T, catalog fetch.Catalog) (*fetch.RangeFetcher, string) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	return fetch.New(cfg, catalog, logging.NewNop()), filepath.Join(testsupport.BaseDir(cfg), "out")
}

func TestFetchRangeDownloadsRequestedPages(t *testing.T) {
	catalog := &fakeCatalog{objects: objects(10)}
	fetcher, outDir := newFetcher(t, catalog)

	summary, err := fetcher.FetchRange(context.Background(), testURL, outDir, 3, 5, nil)
	if err != nil {
		t.Fatalf("FetchRange failed: %v", err)
	}
	if !summary.Success {
		t.Fatalf("expected success, errors: %v", summary.Errors)
	}
	if summary.Downloaded != 3 || summary.Skipped != 0 {
		t.Fatalf("unexpected counts: %#v", summary)
	}
	if summary.TotalAvailable != 10 {
		t.Fatalf("expected total 10, got %d", summary.TotalAvailable)
	}
	for _, name := range []string{"0003.jpg", "0004.jpg", "0005.jpg"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Fatalf("expected %s on disk: %v", name, err)
		}
	}
}

func TestFetchRangeClampsEndToTotal(t *testing.T) {
	catalog := &fakeCatalog{objects: objects(50)}
	fetcher, outDir := newFetcher(t, catalog)

	var lastDone, lastTotal int
	summary, err := fetcher.FetchRange(context.Background(), testURL, outDir, 1, 100, func(done, total int, msg string) {
		lastDone, lastTotal = done, total
	})
	if err != nil {
		t.Fatalf("FetchRange failed: %v", err)
	}
	if summary.Downloaded != 50 {
		t.Fatalf("expected 50 downloads after clamping, got %d", summary.Downloaded)
	}
	if lastDone != 50 || lastTotal != 50 {
		t.Fatalf("final progress %d/%d, want 50/50", lastDone, lastTotal)
	}
}

func TestFetchRangeStartBeyondTotalIsFatal(t *testing.T) {
	catalog := &fakeCatalog{objects: objects(10)}
	fetcher, outDir := newFetcher(t, catalog)

	_, err := fetcher.FetchRange(context.Background(), testURL, outDir, 11, 20, nil)
	if err == nil {
		t.Fatal("expected error when start page exceeds total")
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if catalog.downloadCnt != 0 {
		t.Fatalf("no downloads expected, got %d", catalog.downloadCnt)
	}
}

func TestFetchRangeEmptyRecordIsNotFatal(t *testing.T) {
	catalog := &fakeCatalog{}
	fetcher, outDir := newFetcher(t, catalog)

	summary, err := fetcher.FetchRange(context.Background(), testURL, outDir, 1, 10, nil)
	if err != nil {
		t.Fatalf("FetchRange failed: %v", err)
	}
	if summary.Success {
		t.Fatal("expected unsuccessful summary for empty record")
	}
	if summary.TotalAvailable != 0 || len(summary.Errors) != 1 {
		t.Fatalf("unexpected summary: %#v", summary)
	}
}

func TestFetchRangeSkipsExistingFiles(t *testing.T) {
	catalog := &fakeCatalog{objects: objects(5)}
	fetcher, outDir := newFetcher(t, catalog)

	if _, err := fetcher.FetchRange(context.Background(), testURL, outDir, 1, 5, nil); err != nil {
		t.Fatalf("first fetch failed: %v", err)
	}

	summary, err := fetcher.FetchRange(context.Background(), testURL, outDir, 1, 5, nil)
	if err != nil {
		t.Fatalf("second fetch failed: %v", err)
	}
	if summary.Downloaded != 0 || summary.Skipped != 5 {
		t.Fatalf("expected all pages skipped on re-fetch: %#v", summary)
	}
	if !summary.Success {
		t.Fatal("skip-only fetch should still succeed")
	}
}

func TestFetchRangePerPageFailuresAreCollected(t *testing.T) {
	objs := objects(4)
	objs[1].URL = ""
	catalog := &fakeCatalog{
		objects: objs,
		failPages: map[string]error{
			objs[2].URL: errors.New("http 500"),
		},
	}
	fetcher, outDir := newFetcher(t, catalog)

	var lastDone int
	summary, err := fetcher.FetchRange(context.Background(), testURL, outDir, 1, 4, func(done, total int, msg string) {
		if done < lastDone {
			t.Fatalf("pages_done regressed from %d to %d", lastDone, done)
		}
		lastDone = done
	})
	if err != nil {
		t.Fatalf("FetchRange failed: %v", err)
	}
	if summary.Success {
		t.Fatal("expected unsuccessful summary")
	}
	if summary.Downloaded != 2 {
		t.Fatalf("expected 2 downloads, got %d", summary.Downloaded)
	}
	if len(summary.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %v", summary.Errors)
	}
	// Failed pages still advance the counter, so done reaches the range size.
	if lastDone != 4 {
		t.Fatalf("final pages_done %d, want 4", lastDone)
	}
}

func TestFetchRangeInvalidURLIsFatal(t *testing.T) {
	catalog := &fakeCatalog{objects: objects(3)}
	fetcher, outDir := newFetcher(t, catalog)

	if _, err := fetcher.FetchRange(context.Background(), "https://example.com/nope", outDir, 1, 3, nil); err == nil {
		t.Fatal("expected error for URL without a record id")
	}
}

func TestFetchRangeCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	catalog := &fakeCatalog{objects: objects(3), failPages: map[string]error{}}
	fetcher, outDir := newFetcher(t, catalog)
	catalog.failPages[catalog.objects[0].URL] = context.Canceled

	_, err := fetcher.FetchRange(ctx, testURL, outDir, 1, 3, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
