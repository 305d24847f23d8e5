package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
)

// RunScript is the per-job dispatch target the array script executes:
// chemsmart_run_<label>.py, a python shim that re-invokes the chemsmart
// CLI with the arguments that reproduce the job.
type RunScript struct {
	Label string
	// Commands are the argument vectors passed to the chemsmart
	// executable, one per invocation. A plain job has one; batch
	// submissions with a follow-up single point carry two.
	Commands [][]string
}

// NewRunScript builds a run script for one CLI invocation.
func NewRunScript(label string, cliArgs []string) *RunScript {
	return &RunScript{Label: label, Commands: [][]string{cliArgs}}
}

// Filename returns the dispatch filename the array script looks for.
func (r *RunScript) Filename() string {
	return fmt.Sprintf("chemsmart_run_%s.py", r.Label)
}

// Render produces the script content. Each command runs in order; the
// first non-zero exit code aborts the task with that code so the cluster
// accounting sees the failure.
func (r *RunScript) Render() string {
	var b strings.Builder
	b.WriteString("#!/usr/bin/env python3\n")
	fmt.Fprintf(&b, "# Run script for job %s, generated by chemsmart.\n", r.Label)
	b.WriteString("import subprocess\n")
	b.WriteString("import sys\n")
	b.WriteString("\n")
	b.WriteString("COMMANDS = [\n")
	for _, command := range r.Commands {
		quoted := make([]string, 0, len(command)+1)
		quoted = append(quoted, `"chemsmart"`)
		for _, arg := range command {
			quoted = append(quoted, fmt.Sprintf("%q", arg))
		}
		fmt.Fprintf(&b, "    [%s],\n", strings.Join(quoted, ", "))
	}
	b.WriteString("]\n")
	b.WriteString("\n")
	b.WriteString("for command in COMMANDS:\n")
	b.WriteString("    code = subprocess.call(command)\n")
	b.WriteString("    if code != 0:\n")
	b.WriteString("        sys.exit(code)\n")
	b.WriteString("sys.exit(0)\n")
	return b.String()
}

// Write renders the run script into dir (the current working directory
// when dir is empty) and marks it executable. Returns the script path.
func (r *RunScript) Write(dir string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolving working directory: %w", err)
		}
		dir = cwd
	}
	path := filepath.Join(dir, r.Filename())
	if err := os.WriteFile(path, []byte(r.Render()), 0o755); err != nil {
		return "", fmt.Errorf("writing run script: %w", err)
	}
	log.Debugf("Written run script for %s to %s", r.Label, path)
	return path, nil
}
