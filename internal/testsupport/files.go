package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile fills the target path with the given contents, creating parent
// directories as needed.
func WriteFile(t testing.TB, path string, contents []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteImages creates numbered image files under dir using the standard
// zero-padded page naming and returns their paths in page order.
func WriteImages(t testing.TB, dir, ext string, pages ...int) []string {
	t.Helper()

	paths := make([]string, 0, len(pages))
	for _, page := range pages {
		name := fmt.Sprintf("%04d%s", page, ext)
		path := filepath.Join(dir, name)
		WriteFile(t, path, []byte(name))
		paths = append(paths, path)
	}
	return paths
}
