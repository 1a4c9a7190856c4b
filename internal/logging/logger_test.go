package logging_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"archivist/internal/logging"
)

func TestConsoleHandlerFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	logger, err := logging.New(logging.Options{
		Level:       "info",
		Format:      "console",
		OutputPaths: []string{path},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	component := logging.NewComponentLogger(logger, "fetch")
	component.Info("page downloaded", logging.Int("page", 7), logging.String("file", "0007.jpg"))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := strings.TrimSpace(string(data))
	if !strings.Contains(line, " INFO fetch: page downloaded") {
		t.Fatalf("unexpected line format: %q", line)
	}
	if !strings.Contains(line, "page=7") || !strings.Contains(line, "file=0007.jpg") {
		t.Fatalf("attrs missing: %q", line)
	}
}

func TestConsoleHandlerLevelFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	logger, err := logging.New(logging.Options{
		Level:       "warn",
		Format:      "console",
		OutputPaths: []string{path},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("dropped")
	logger.Warn("kept")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	content := string(data)
	if strings.Contains(content, "dropped") {
		t.Fatalf("info line should be filtered: %q", content)
	}
	if !strings.Contains(content, "kept") {
		t.Fatalf("warn line missing: %q", content)
	}
}

func TestJSONHandlerKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	logger, err := logging.New(logging.Options{
		Level:       "info",
		Format:      "json",
		OutputPaths: []string{path},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("batch finalized", logging.String(logging.FieldBatchID, "abc"))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var record map[string]any
	if err := json.Unmarshal(data, &record); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, data)
	}
	for _, key := range []string{"ts", "level", "msg"} {
		if _, ok := record[key]; !ok {
			t.Fatalf("missing %q key: %v", key, record)
		}
	}
	if record["msg"] != "batch finalized" {
		t.Fatalf("unexpected msg: %v", record["msg"])
	}
	if record[logging.FieldBatchID] != "abc" {
		t.Fatalf("attr lost: %v", record)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
