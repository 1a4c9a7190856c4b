// Package daemon runs the archivist background service: a flock-guarded
// single instance hosting the workflow manager and the HTTP API that
// creates jobs and batches, reports their status, and serves assembled
// artifacts.
package daemon
