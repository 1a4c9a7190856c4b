package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"archivist/internal/config"
)

// Requirement defines an external binary archivist relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Requirements returns the external binaries for the given configuration.
// PDF conversion is the only one; when it is absent, PDF artifacts are
// skipped while fetching and ZIP assembly proceed normally.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{
			Name:        "pdf converter",
			Command:     cfg.Archive.PDFBinary,
			Description: "Concatenates page images into PDF artifacts",
			Optional:    true,
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}
