// Package deps reports whether the external binaries stockmeta shells out to
// are installed.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"stockmeta/internal/config"
)

// Requirement defines an external binary.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a requirement.
type Status struct {
	Requirement
	Available bool
	Detail    string
}

// Requirements lists the binaries used by the preprocessor. Both are only
// needed for video input, so neither blocks image-only folders.
func Requirements(cfg config.Preprocess) []Requirement {
	return []Requirement{
		{Name: "FFmpeg", Command: cfg.FFmpegBinary, Description: "extracts the first frame of videos", Optional: true},
		{Name: "FFprobe", Command: cfg.FFprobeBinary, Description: "checks videos for a decodable stream", Optional: true},
	}
}

// CheckBinaries evaluates each requirement with exec.LookPath.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		req.Command = strings.TrimSpace(req.Command)
		req.Description = strings.TrimSpace(req.Description)
		status := Status{Requirement: req}
		switch {
		case req.Command == "":
			status.Detail = "command not configured"
		default:
			if path, err := exec.LookPath(req.Command); err != nil {
				status.Detail = fmt.Sprintf("binary %q not found", req.Command)
			} else {
				status.Available = true
				status.Detail = path
			}
		}
		results = append(results, status)
	}
	return results
}
