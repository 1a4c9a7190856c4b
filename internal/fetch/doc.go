// Package fetch downloads a 1-indexed inclusive page range from a catalog
// record into a job's images directory.
//
// The fetcher is strictly sequential: one page completes and is reported
// before the next begins, with a fixed politeness delay between downloads.
// Existing output files are skipped rather than re-fetched, which makes a
// re-run against the same directory idempotent at page granularity.
package fetch
