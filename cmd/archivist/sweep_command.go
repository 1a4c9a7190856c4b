package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"archivist/internal/jobs"
	"archivist/internal/logging"
	"archivist/internal/sweeper"
)

// newSweepCommand removes expired terminal jobs and batches immediately,
// without waiting for the daemon's interval sweeper.
func newSweepCommand(ctx *commandContext) *cobra.Command {
	var ttlHours int
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Remove expired jobs and batches from disk",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			ttl := time.Duration(cfg.Sweeper.TTLHours) * time.Hour
			if cmd.Flags().Changed("ttl") {
				if ttlHours < 0 {
					return fmt.Errorf("--ttl must not be negative")
				}
				ttl = time.Duration(ttlHours) * time.Hour
			}

			return ctx.withStore(func(store *jobs.Store) error {
				result := sweeper.New(cfg, store, logging.NewNop()).Sweep(cmd.Context(), ttl, dryRun)

				out := cmd.OutOrStdout()
				verb := "Removed"
				if dryRun {
					verb = "Would remove"
				}
				if len(result.Removed) == 0 {
					fmt.Fprintln(out, "Nothing to remove")
				}
				for _, path := range result.Removed {
					fmt.Fprintf(out, "%s %s\n", verb, path)
				}
				for _, sweepErr := range result.Errors {
					fmt.Fprintf(out, "error: %s: %v\n", sweepErr.Path, sweepErr.Err)
				}
				if len(result.Errors) > 0 {
					return fmt.Errorf("sweep finished with %d errors", len(result.Errors))
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&ttlHours, "ttl", 0, "Override the configured TTL in hours")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would be removed without deleting")
	return cmd
}
