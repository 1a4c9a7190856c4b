package archive_test

import (
	"archive/zip"
	"context"
	"path/filepath"
	"testing"

	"archivist/internal/archive"
	"archivist/internal/logging"
	"archivist/internal/testsupport"
)

func TestListImagesSortedAndFiltered(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	dir := filepath.Join(testsupport.BaseDir(cfg), "images")
	testsupport.WriteImages(t, dir, ".jpg", 10, 2, 1)
	testsupport.WriteFile(t, filepath.Join(dir, "notes.txt"), []byte("ignore"))
	testsupport.WriteFile(t, filepath.Join(dir, "archive.zip"), []byte("ignore"))

	assembler := archive.NewAssembler(cfg, logging.NewNop())
	files, err := assembler.ListImages(dir)
	if err != nil {
		t.Fatalf("ListImages failed: %v", err)
	}
	want := []string{"0001.jpg", "0002.jpg", "0010.jpg"}
	if len(files) != len(want) {
		t.Fatalf("expected %d images, got %d: %v", len(want), len(files), files)
	}
	for i, name := range want {
		if filepath.Base(files[i]) != name {
			t.Fatalf("order wrong at %d: got %s want %s", i, filepath.Base(files[i]), name)
		}
	}
}

func TestListImagesMissingDirectory(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	assembler := archive.NewAssembler(cfg, logging.NewNop())

	files, err := assembler.ListImages(filepath.Join(testsupport.BaseDir(cfg), "missing"))
	if err != nil {
		t.Fatalf("ListImages failed: %v", err)
	}
	if len(files) != 0 {
		t.Fatalf("expected no images, got %v", files)
	}
}

func TestBuildZipSortedEntries(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	dir := filepath.Join(testsupport.BaseDir(cfg), "images")
	testsupport.WriteImages(t, dir, ".jpg", 3, 1, 2)

	assembler := archive.NewAssembler(cfg, logging.NewNop())
	zipPath := filepath.Join(testsupport.BaseDir(cfg), "archive.zip")
	if err := assembler.BuildZip(dir, zipPath); err != nil {
		t.Fatalf("BuildZip failed: %v", err)
	}

	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	defer reader.Close()

	want := []string{"0001.jpg", "0002.jpg", "0003.jpg"}
	if len(reader.File) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(reader.File))
	}
	for i, name := range want {
		if reader.File[i].Name != name {
			t.Fatalf("entry order wrong at %d: got %s want %s", i, reader.File[i].Name, name)
		}
	}
}

func TestBuildZipEmptyDirectoryIsValid(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	dir := filepath.Join(testsupport.BaseDir(cfg), "empty")
	testsupport.WriteFile(t, filepath.Join(dir, ".keep"), nil)

	assembler := archive.NewAssembler(cfg, logging.NewNop())
	zipPath := filepath.Join(testsupport.BaseDir(cfg), "empty.zip")
	if err := assembler.BuildZip(dir, zipPath); err != nil {
		t.Fatalf("BuildZip failed: %v", err)
	}

	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		t.Fatalf("zero-entry archive should still open: %v", err)
	}
	defer reader.Close()
	if len(reader.File) != 0 {
		t.Fatalf("expected no entries, got %d", len(reader.File))
	}
}

func TestBuildPDFUnavailableConverter(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Archive.PDFBinary = "definitely-not-installed-pdf-tool"

	dir := filepath.Join(testsupport.BaseDir(cfg), "images")
	files := testsupport.WriteImages(t, dir, ".jpg", 1, 2)

	assembler := archive.NewAssembler(cfg, logging.NewNop())
	if assembler.PDFAvailable() {
		t.Fatal("converter should be unavailable")
	}

	built, err := assembler.BuildPDF(context.Background(), files, filepath.Join(dir, "out.pdf"))
	if err != nil {
		t.Fatalf("BuildPDF failed: %v", err)
	}
	if built {
		t.Fatal("expected PDF build to be skipped")
	}
}

func TestBuildPDFWithStubbedConverter(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())

	dir := filepath.Join(testsupport.BaseDir(cfg), "images")
	files := testsupport.WriteImages(t, dir, ".jpg", 1, 2)

	assembler := archive.NewAssembler(cfg, logging.NewNop())
	if !assembler.PDFAvailable() {
		t.Fatal("stubbed converter should be available")
	}

	built, err := assembler.BuildPDF(context.Background(), files, filepath.Join(dir, "out.pdf"))
	if err != nil {
		t.Fatalf("BuildPDF failed: %v", err)
	}
	if !built {
		t.Fatal("expected PDF build to run")
	}
}

func TestBuildPDFNoImages(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	assembler := archive.NewAssembler(cfg, logging.NewNop())

	built, err := assembler.BuildPDF(context.Background(), nil, filepath.Join(testsupport.BaseDir(cfg), "out.pdf"))
	if err != nil {
		t.Fatalf("BuildPDF failed: %v", err)
	}
	if built {
		t.Fatal("expected no PDF for empty file list")
	}
}

func TestBuildCombinedPDFPreservesListOrder(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())

	first := testsupport.WriteImages(t, filepath.Join(testsupport.BaseDir(cfg), "a"), ".jpg", 1, 2)
	second := testsupport.WriteImages(t, filepath.Join(testsupport.BaseDir(cfg), "b"), ".jpg", 1)

	assembler := archive.NewAssembler(cfg, logging.NewNop())
	built, err := assembler.BuildCombinedPDF(context.Background(), [][]string{first, second},
		filepath.Join(testsupport.BaseDir(cfg), "combined.pdf"))
	if err != nil {
		t.Fatalf("BuildCombinedPDF failed: %v", err)
	}
	if !built {
		t.Fatal("expected combined PDF to build")
	}
}
