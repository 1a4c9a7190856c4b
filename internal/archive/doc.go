// Package archive assembles downloadable artifacts from fetched page
// images: a deterministic ZIP per job and, when the external converter is
// available, a PDF per job or combined PDF per batch.
//
// Assembly failures are never fatal to the owning job or batch; callers log
// them and leave the corresponding availability flag false.
package archive
