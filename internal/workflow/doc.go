// Package workflow executes download jobs and coordinates batches.
//
// The Manager launches one runner goroutine per accepted job; the runner is
// the single writer of that job's status record and drives it through
// queued -> running -> {completed, failed}. Progress updates from the
// fetcher are synchronous callbacks, so the order of status writes matches
// the order fetch events occur.
//
// Batches fan out into independent jobs sharing a batch_id. Because jobs
// write to a shared store with no notification mechanism, a per-batch
// monitor goroutine polls job statuses at a fixed interval, tolerating
// transiently absent records, and finalizes the batch exactly once when
// every referenced job is terminal.
package workflow
