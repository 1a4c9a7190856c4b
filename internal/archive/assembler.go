package archive

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"archivist/internal/config"
	"archivist/internal/logging"
	"archivist/internal/services"
)

// Assembler builds ZIP and PDF artifacts from a job's downloaded images.
// PDF assembly depends on an external converter binary and degrades to
// "not built" when it is absent.
type Assembler struct {
	imageExt  string
	pdfBinary string
	logger    *slog.Logger
}

// NewAssembler constructs an Assembler from application configuration.
func NewAssembler(cfg *config.Config, logger *slog.Logger) *Assembler {
	return &Assembler{
		imageExt:  cfg.Archive.ImageExt,
		pdfBinary: cfg.Archive.PDFBinary,
		logger:    logging.NewComponentLogger(logger, "archive"),
	}
}

// PDFAvailable reports whether the PDF converter binary is on PATH.
func (a *Assembler) PDFAvailable() bool {
	if strings.TrimSpace(a.pdfBinary) == "" {
		return false
	}
	_, err := exec.LookPath(a.pdfBinary)
	return err == nil
}

// ListImages returns the image files in dir as absolute paths in
// lexicographic filename order, filtered to the configured extension.
// A missing directory yields an empty list.
func (a *Assembler) ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read images directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), a.imageExt) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// BuildZip writes a ZIP of imagesDir to zipPath. Entries are added in
// lexicographically sorted filename order regardless of directory iteration
// order; an empty directory produces a valid zero-entry archive.
func (a *Assembler) BuildZip(imagesDir, zipPath string) error {
	files, err := a.ListImages(imagesDir)
	if err != nil {
		return err
	}

	out, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("create zip: %w", err)
	}

	writer := zip.NewWriter(out)
	for _, file := range files {
		if err := addZipEntry(writer, file); err != nil {
			_ = writer.Close()
			_ = out.Close()
			return err
		}
	}
	if err := writer.Close(); err != nil {
		_ = out.Close()
		return fmt.Errorf("finalize zip: %w", err)
	}
	return out.Close()
}

func addZipEntry(writer *zip.Writer, file string) error {
	in, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("open %s: %w", file, err)
	}
	defer in.Close()

	entry, err := writer.Create(filepath.Base(file))
	if err != nil {
		return fmt.Errorf("create zip entry %s: %w", filepath.Base(file), err)
	}
	if _, err := io.Copy(entry, in); err != nil {
		return fmt.Errorf("write zip entry %s: %w", filepath.Base(file), err)
	}
	return nil
}

// BuildPDF concatenates the given images, in order, into a single PDF at
// outPath. It returns (false, nil) when the converter is unavailable or the
// file list is empty; that is a normal condition, not an error.
func (a *Assembler) BuildPDF(ctx context.Context, files []string, outPath string) (bool, error) {
	if len(files) == 0 || !a.PDFAvailable() {
		return false, nil
	}

	if dir := filepath.Dir(outPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, fmt.Errorf("create pdf directory: %w", err)
		}
	}

	args := append([]string{"-o", outPath}, files...)
	cmd := exec.CommandContext(ctx, a.pdfBinary, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		_ = os.Remove(outPath)
		return false, services.Wrap(services.ErrExternalTool, "archive", "pdf convert",
			strings.TrimSpace(string(output)), err)
	}
	return true, nil
}

// BuildCombinedPDF concatenates multiple jobs' image lists into one PDF,
// preserving the given list order rather than re-sorting globally. Empty
// lists contribute nothing.
func (a *Assembler) BuildCombinedPDF(ctx context.Context, fileLists [][]string, outPath string) (bool, error) {
	var combined []string
	for _, list := range fileLists {
		combined = append(combined, list...)
	}
	return a.BuildPDF(ctx, combined, outPath)
}
