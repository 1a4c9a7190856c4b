package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"archivist/internal/config"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, path, exists, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("file should not exist")
	}
	if path == "" {
		t.Fatal("resolved path should still be reported")
	}
	if cfg.Fetch.BaseURL != "https://catalog.archives.gov" {
		t.Fatalf("unexpected base url: %s", cfg.Fetch.BaseURL)
	}
	if cfg.Fetch.MaxPagesPerJob != 800 || cfg.Fetch.MaxRangesPerBatch != 10 {
		t.Fatalf("unexpected request caps: %d/%d", cfg.Fetch.MaxPagesPerJob, cfg.Fetch.MaxRangesPerBatch)
	}
	if cfg.Archive.ImageExt != ".jpg" || cfg.Archive.PDFBinary != "img2pdf" {
		t.Fatalf("unexpected archive defaults: %#v", cfg.Archive)
	}
	if !cfg.Sweeper.Enabled || cfg.Sweeper.TTLHours != 24 {
		t.Fatalf("unexpected sweeper defaults: %#v", cfg.Sweeper)
	}
}

func TestLoadOverridesFromFile(t *testing.T) {
	base := t.TempDir()
	path := writeConfig(t, `
[paths]
data_dir = "`+filepath.Join(base, "data")+`"
log_dir = "`+filepath.Join(base, "logs")+`"
api_bind = "127.0.0.1:9000"

[fetch]
politeness_delay_ms = 250
max_pages_per_job = 100

[archive]
image_ext = "PNG"

[sweeper]
enabled = false
ttl_hours = 2
`)

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be found")
	}
	if cfg.Paths.APIBind != "127.0.0.1:9000" {
		t.Fatalf("api_bind not applied: %s", cfg.Paths.APIBind)
	}
	if cfg.Fetch.PolitenessDelay != 250 || cfg.Fetch.MaxPagesPerJob != 100 {
		t.Fatalf("fetch overrides not applied: %#v", cfg.Fetch)
	}
	if cfg.Archive.ImageExt != ".png" {
		t.Fatalf("image_ext not normalized: %s", cfg.Archive.ImageExt)
	}
	if cfg.Sweeper.Enabled || cfg.Sweeper.TTLHours != 2 {
		t.Fatalf("sweeper overrides not applied: %#v", cfg.Sweeper)
	}
	if cfg.Fetch.BaseURL == "" || cfg.Fetch.AllowedHost != "catalog.archives.gov" {
		t.Fatalf("unset fields should keep defaults: %#v", cfg.Fetch)
	}
}

func TestLoadRejectsInvalidBaseURL(t *testing.T) {
	path := writeConfig(t, `
[fetch]
base_url = "not a url"
`)
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for bad base_url")
	}
}

func TestLoadRejectsUnknownLogFormat(t *testing.T) {
	path := writeConfig(t, `
[logging]
format = "xml"
`)
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for unknown log format")
	}
}

func TestJobsAndBatchesRoots(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.DataDir = "/var/lib/archivist"
	if cfg.JobsRoot() != filepath.Join("/var/lib/archivist", "jobs") {
		t.Fatalf("unexpected jobs root: %s", cfg.JobsRoot())
	}
	if cfg.BatchesRoot() != filepath.Join("/var/lib/archivist", "batches") {
		t.Fatalf("unexpected batches root: %s", cfg.BatchesRoot())
	}
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.JobsRoot(), cfg.BatchesRoot(), cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", dir, err)
		}
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[fetch]") {
		t.Fatalf("sample missing fetch section:\n%s", data)
	}

	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config should load cleanly: %v", err)
	}
}
