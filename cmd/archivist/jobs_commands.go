package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"archivist/internal/jobs"
)

func newJobsCommand(ctx *commandContext) *cobra.Command {
	var listStatuses []string

	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List download jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *jobs.Store) error {
				var statuses []jobs.Status
				for _, raw := range listStatuses {
					status, ok := jobs.ParseStatus(raw)
					if !ok {
						return fmt.Errorf("unknown status %q", raw)
					}
					statuses = append(statuses, status)
				}

				list, err := store.ListJobs(cmd.Context(), statuses...)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(list) == 0 {
					fmt.Fprintln(out, "No jobs")
					return nil
				}

				colorize := shouldColorize(out)
				rows := make([][]string, 0, len(list))
				for _, job := range list {
					rows = append(rows, []string{
						shortID(job.ID),
						statusCell(string(job.Status), colorize),
						fmt.Sprintf("%d-%d", job.StartPage, job.EndPage),
						strconv.Itoa(job.PagesDone) + "/" + strconv.Itoa(job.PagesTotal),
						job.CreatedAt.Local().Format("2006-01-02 15:04"),
						job.Message,
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Status", "Range", "Pages", "Created", "Message"},
					rows,
					"Pages",
				))
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVar(&listStatuses, "status", nil, "Filter by status (queued, running, completed, failed)")
	return cmd
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	var showLog bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a job or batch with its progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *jobs.Store) error {
				id := args[0]

				job, err := store.GetJob(cmd.Context(), id)
				if err != nil {
					return err
				}
				if job != nil {
					printJob(cmd, job)
					if showLog {
						return printLog(cmd, store, id)
					}
					return nil
				}

				batch, err := store.GetBatch(cmd.Context(), id)
				if err != nil {
					return err
				}
				if batch == nil {
					return fmt.Errorf("no job or batch with id %s", id)
				}
				printBatch(cmd, store, batch)
				if showLog {
					return printLog(cmd, store, id)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&showLog, "log", false, "Include the progress log")
	return cmd
}

func printJob(cmd *cobra.Command, job *jobs.Job) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	fmt.Fprintf(out, "Job %s\n", job.ID)
	fmt.Fprintln(out, renderFieldLine("Status", statusCell(string(job.Status), colorize)))
	fmt.Fprintln(out, renderFieldLine("Catalog URL", job.CatalogURL))
	fmt.Fprintln(out, renderFieldLine("Range", fmt.Sprintf("%d-%d", job.StartPage, job.EndPage)))
	fmt.Fprintln(out, renderFieldLine("Pages", fmt.Sprintf("%d/%d", job.PagesDone, job.PagesTotal)))
	fmt.Fprintln(out, renderFieldLine("Message", job.Message))
	fmt.Fprintln(out, renderFieldLine("Created", formatTime(&job.CreatedAt)))
	fmt.Fprintln(out, renderFieldLine("Completed", formatTime(job.CompletedAt)))
	fmt.Fprintln(out, renderFieldLine("ZIP", yesNo(job.ZipAvailable)))
	fmt.Fprintln(out, renderFieldLine("PDF", yesNo(job.PDFAvailable)))
	if job.BatchID != "" {
		fmt.Fprintln(out, renderFieldLine("Batch", job.BatchID))
	}
	if result := job.Result; result != nil && len(result.Errors) > 0 {
		fmt.Fprintln(out, renderFieldLine("Errors", strconv.Itoa(len(result.Errors))))
		for _, e := range result.Errors {
			fmt.Fprintf(out, "    %s\n", e)
		}
	}
}

func printBatch(cmd *cobra.Command, store *jobs.Store, batch *jobs.Batch) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)

	fmt.Fprintf(out, "Batch %s\n", batch.ID)
	fmt.Fprintln(out, renderFieldLine("Status", statusCell(string(batch.Status), colorize)))
	fmt.Fprintln(out, renderFieldLine("Catalog URL", batch.CatalogURL))
	fmt.Fprintln(out, renderFieldLine("Jobs", strconv.Itoa(len(batch.JobIDs))))
	fmt.Fprintln(out, renderFieldLine("Created", formatTime(&batch.CreatedAt)))
	fmt.Fprintln(out, renderFieldLine("Completed", formatTime(batch.CompletedAt)))
	fmt.Fprintln(out, renderFieldLine("Combined PDF", yesNo(batch.CombinedPDFAvailable)))

	for i, jobID := range batch.JobIDs {
		job, err := store.GetJob(cmd.Context(), jobID)
		if err != nil || job == nil {
			fmt.Fprintf(out, "  range %d: %s (missing)\n", i+1, shortID(jobID))
			continue
		}
		fmt.Fprintf(out, "  range %d: %s %s %d-%d %d/%d\n",
			i+1, shortID(jobID), statusCell(string(job.Status), colorize),
			job.StartPage, job.EndPage, job.PagesDone, job.PagesTotal)
	}
}

func printLog(cmd *cobra.Command, store *jobs.Store, id string) error {
	lines, err := store.ReadLog(cmd.Context(), id)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	for _, line := range lines {
		fmt.Fprintf(out, "%s  %s\n", line.At.Local().Format(time.TimeOnly), line.Line)
	}
	return nil
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
