// Package jobs defines the job and batch data model and persists their
// status records in SQLite.
//
// The Store keeps one row per job or batch with the whole record serialized
// as JSON, plus an append-only activity log per record. There is no partial
// update primitive: callers read, modify, and rewrite the full record. That
// is safe because each job has exactly one writer (its runner goroutine) and
// each batch one finalizing writer (its monitor); everything else only reads.
//
// Records are never deleted by the workflow; reclaiming terminal jobs is the
// sweeper's responsibility. Schema changes bump the version in schema.go.
package jobs
