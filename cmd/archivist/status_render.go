package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"archivist/internal/jobs"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

// statusCell renders a job or batch status, colorized when the output is a
// terminal.
func statusCell(status string, colorize bool) string {
	if !colorize {
		return status
	}
	switch status {
	case string(jobs.StatusCompleted):
		return ansiGreen + status + ansiReset
	case string(jobs.StatusFailed):
		return ansiRed + status + ansiReset
	case string(jobs.BatchCompletedWithErrors):
		return ansiYellow + status + ansiReset
	case string(jobs.StatusRunning):
		return ansiBlue + status + ansiReset
	default:
		return status
	}
}

func renderFieldLine(label, value string) string {
	return fmt.Sprintf("  %-16s %s", label+":", value)
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
