// Command archivist is the command line client for the archivist daemon. It
// submits jobs and batches over the daemon's HTTP API, inspects the shared
// status database directly for read-only views, and can run one-off fetches
// and sweeps without a daemon.
package main
