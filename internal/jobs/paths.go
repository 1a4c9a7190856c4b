package jobs

import "path/filepath"

// Per-job directory layout: <jobsRoot>/<job_id>/images/NNNN.jpg plus the
// assembled archive.zip and archive.pdf.

// Root returns the job's working directory under the jobs root.
func (j *Job) Root(jobsRoot string) string {
	return filepath.Join(jobsRoot, j.ID)
}

// ImagesDir returns the directory holding the downloaded page files.
func (j *Job) ImagesDir(jobsRoot string) string {
	return filepath.Join(jobsRoot, j.ID, "images")
}

// ZipPath returns the location of the job's ZIP artifact.
func (j *Job) ZipPath(jobsRoot string) string {
	return filepath.Join(jobsRoot, j.ID, "archive.zip")
}

// PDFPath returns the location of the job's PDF artifact.
func (j *Job) PDFPath(jobsRoot string) string {
	return filepath.Join(jobsRoot, j.ID, "archive.pdf")
}

// Root returns the batch's working directory under the batches root.
func (b *Batch) Root(batchesRoot string) string {
	return filepath.Join(batchesRoot, b.ID)
}

// CombinedPDFPath returns the location of the batch's combined PDF artifact.
func (b *Batch) CombinedPDFPath(batchesRoot string) string {
	return filepath.Join(batchesRoot, b.ID, "combined.pdf")
}
