// Package sweeper reclaims disk space from expired terminal jobs and
// batches. It runs inside the daemon on an interval and on demand from the
// CLI; the workflow core itself never deletes records.
package sweeper
