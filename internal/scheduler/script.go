package scheduler

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
)

// RenderScript assembles the full submission script for the batch:
// directive block, working-directory change, job-label table, index
// selection, and the per-task execution block. Every family shares this
// assembly; the family-specific pieces come from the ArrayScheduler
// methods.
func RenderScript(s ArrayScheduler) string {
	var b strings.Builder

	b.WriteString("#!/bin/bash\n")
	b.WriteString("\n")

	s.WriteResourceDirectives(&b)
	b.WriteString("\n")
	b.WriteString("\n")

	s.WriteWorkingDirectoryChange(&b)
	b.WriteString("\n")

	// The table index is the array task index, so order must match the
	// batch's input order.
	b.WriteString("# Job labels array\n")
	b.WriteString("JOBS=(\n")
	for _, job := range s.Jobs() {
		fmt.Fprintf(&b, "    %q\n", job.Label())
	}
	b.WriteString(")\n")
	b.WriteString("\n")

	b.WriteString("# Get current job label\n")
	if prelude := s.TaskIndexPrelude(); prelude != "" {
		b.WriteString(prelude + "\n")
	}
	fmt.Fprintf(&b, "JOB_LABEL=${JOBS[%s]}\n", s.TaskIndexExpression())
	fmt.Fprintf(&b, "echo \"Running job: $JOB_LABEL (array task $%s)\"\n", s.ArrayIndexVariable())
	b.WriteString("\n")

	b.WriteString("# Execute the job\n")
	b.WriteString("if [ -f \"chemsmart_run_${JOB_LABEL}.py\" ]; then\n")
	b.WriteString("    chmod +x chemsmart_run_${JOB_LABEL}.py\n")
	b.WriteString("    python chemsmart_run_${JOB_LABEL}.py\n")
	b.WriteString("else\n")
	b.WriteString("    echo \"Error: Run script not found for job $JOB_LABEL\"\n")
	b.WriteString("    exit 1\n")
	b.WriteString("fi\n")
	b.WriteString("\n")

	b.WriteString("wait\n")

	return b.String()
}

// ScriptFilename derives the submission script filename from the batch's
// job name.
func ScriptFilename(s ArrayScheduler) string {
	if name := s.JobName(); name != "" {
		return fmt.Sprintf("chemsmart_array_sub_%s.sh", name)
	}
	return "chemsmart_array_sub.sh"
}

// WriteScript renders the submission script and writes it to dir (the
// current working directory when dir is empty). The written bytes are
// exactly RenderScript's output. Returns the script path.
func WriteScript(s ArrayScheduler, dir string) (string, error) {
	content := RenderScript(s)

	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolving working directory: %w", err)
		}
		dir = cwd
	}

	path := filepath.Join(dir, ScriptFilename(s))
	if err := os.WriteFile(path, []byte(content), 0o755); err != nil {
		return "", fmt.Errorf("writing submission script: %w", err)
	}

	log.Infof("Written %s array script to: %s", s.Family(), path)
	return path, nil
}

// formatWallHours renders a wall-hour count the way the directive
// writers embed it: shortest decimal form, no exponent (24 -> "24",
// 24.5 -> "24.5").
func formatWallHours(hours float64) string {
	return strconv.FormatFloat(hours, 'f', -1, 64)
}
