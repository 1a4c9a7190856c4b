package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"archivist/internal/jobs"
)

// newSubmitCommand queues a single range job on the running daemon.
func newSubmitCommand(ctx *commandContext) *cobra.Command {
	var startPage, endPage int

	cmd := &cobra.Command{
		Use:   "submit <catalog-url>",
		Short: "Queue a download job on the daemon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := map[string]any{
				"catalog_url": args[0],
				"start_page":  startPage,
				"end_page":    endPage,
			}
			var created struct {
				JobID     string `json:"job_id"`
				StatusURL string `json:"status_url"`
			}
			if err := ctx.apiPost("/api/jobs", payload, &created); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Job %s queued\n", created.JobID)
			fmt.Fprintf(out, "Track it with `archivist show %s`\n", created.JobID)
			return nil
		},
	}

	cmd.Flags().IntVar(&startPage, "start", 1, "First page to download")
	cmd.Flags().IntVar(&endPage, "end", 1, "Last page to download")
	return cmd
}

// newBatchCommand queues several ranges of one record as a batch. Ranges are
// given as start-end pairs, for example 1-50 51-100.
func newBatchCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <catalog-url> <start-end> [<start-end>...]",
		Short: "Queue a batch of range jobs on the daemon",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ranges := make([]jobs.PageRange, 0, len(args)-1)
			for _, arg := range args[1:] {
				r, err := parsePageRange(arg)
				if err != nil {
					return err
				}
				ranges = append(ranges, r)
			}

			payload := map[string]any{
				"catalog_url": args[0],
				"ranges":      ranges,
			}
			var created struct {
				BatchID   string `json:"batch_id"`
				StatusURL string `json:"status_url"`
			}
			if err := ctx.apiPost("/api/batches", payload, &created); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Batch %s queued with %d ranges\n", created.BatchID, len(ranges))
			fmt.Fprintf(out, "Track it with `archivist show %s`\n", created.BatchID)
			return nil
		},
	}
	return cmd
}

func parsePageRange(arg string) (jobs.PageRange, error) {
	parts := strings.SplitN(strings.TrimSpace(arg), "-", 2)
	if len(parts) != 2 {
		return jobs.PageRange{}, fmt.Errorf("invalid range %q: expected start-end", arg)
	}
	start, err := strconv.Atoi(parts[0])
	if err != nil {
		return jobs.PageRange{}, fmt.Errorf("invalid range %q: %w", arg, err)
	}
	end, err := strconv.Atoi(parts[1])
	if err != nil {
		return jobs.PageRange{}, fmt.Errorf("invalid range %q: %w", arg, err)
	}
	if start < 1 || end < start {
		return jobs.PageRange{}, fmt.Errorf("invalid range %q: pages must ascend from 1", arg)
	}
	return jobs.PageRange{StartPage: start, EndPage: end}, nil
}
