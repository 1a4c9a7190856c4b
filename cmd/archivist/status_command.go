package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"archivist/internal/config"
	"archivist/internal/deps"
)

type daemonStatusPayload struct {
	Running       bool   `json:"running"`
	PID           int    `json:"pid"`
	StatusDBPath  string `json:"status_db_path"`
	LockFilePath  string `json:"lock_file_path"`
	ActiveJobs    int    `json:"active_jobs"`
	ActiveBatches int    `json:"active_batches"`
	Dependencies  []struct {
		Name      string `json:"name"`
		Command   string `json:"command"`
		Optional  bool   `json:"optional"`
		Available bool   `json:"available"`
		Detail    string `json:"detail"`
	} `json:"dependencies"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status and tool availability",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			var payload daemonStatusPayload
			if err := ctx.apiGet("/api/status", &payload); err != nil {
				cfg, cfgErr := ctx.ensureConfig()
				if cfgErr != nil {
					return cfgErr
				}
				fmt.Fprintln(out, "Daemon: not reachable")
				fmt.Fprintf(out, "  %v\n", err)
				printDependencies(cmd, cfg)
				return nil
			}

			fmt.Fprintln(out, "Daemon: running")
			fmt.Fprintln(out, renderFieldLine("PID", strconv.Itoa(payload.PID)))
			fmt.Fprintln(out, renderFieldLine("Status DB", payload.StatusDBPath))
			fmt.Fprintln(out, renderFieldLine("Lock file", payload.LockFilePath))
			fmt.Fprintln(out, renderFieldLine("Active jobs", strconv.Itoa(payload.ActiveJobs)))
			fmt.Fprintln(out, renderFieldLine("Active batches", strconv.Itoa(payload.ActiveBatches)))
			for _, dep := range payload.Dependencies {
				detail := ""
				if dep.Detail != "" {
					detail = " (" + dep.Detail + ")"
				}
				fmt.Fprintf(out, "  dependency %s: available=%s optional=%s%s\n",
					dep.Command, yesNo(dep.Available), yesNo(dep.Optional), detail)
			}
			return nil
		},
	}
}

func printDependencies(cmd *cobra.Command, cfg *config.Config) {
	out := cmd.OutOrStdout()
	for _, status := range deps.CheckBinaries(deps.Requirements(cfg)) {
		detail := ""
		if status.Detail != "" {
			detail = " (" + status.Detail + ")"
		}
		fmt.Fprintf(out, "  dependency %s: available=%s optional=%s%s\n",
			status.Command, yesNo(status.Available), yesNo(status.Optional), detail)
	}
}
