package scheduler

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"

	log "github.com/sirupsen/logrus"
)

// SubmitOptions controls how Submit runs.
type SubmitOptions struct {
	// Test renders and writes the script but skips the submission
	// command.
	Test bool

	// Directory is where the script is written and submitted from.
	// Empty means the current working directory.
	Directory string
}

// Submit writes the batch's submission script and hands it to the
// scheduler's submission command. It returns the scheduler-assigned job
// ID, or "" in test mode. An empty batch is rejected before any file is
// written.
func Submit(s ArrayScheduler, opts SubmitOptions) (string, error) {
	if len(s.Jobs()) == 0 {
		return "", ErrEmptyBatch
	}

	path, err := WriteScript(s, opts.Directory)
	if err != nil {
		return "", err
	}

	command := s.SubmissionCommand(path)
	if opts.Test {
		log.Infof("Test mode: not running submission command: %s", command)
		return "", nil
	}

	// Construction falls back to the bare binary name when PATH probing
	// fails, so a missing scheduler would otherwise surface as a shell
	// exit 127. Re-check here and return a typed error instead.
	bin := strings.Fields(command)[0]
	if _, err := exec.LookPath(bin); err != nil {
		return "", fmt.Errorf("%w: %s", ErrSchedulerNotFound, bin)
	}

	log.Infof("Submitting %d jobs to %s: %s", len(s.Jobs()), s.Family(), command)

	// bsub reads the script on stdin while sbatch and qsub take it as
	// an argument, so the command line runs through a shell.
	cmd := exec.Command("bash", "-c", command)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", NewSubmissionError(s.Family(), s.JobName(), strings.TrimSpace(stderr.String()), err)
	}

	output := stdout.String()
	id, ok := s.ParseSubmittedJobID(output)
	if !ok {
		trimmed := strings.TrimSpace(output)
		log.Warnf("Could not parse %s job ID from output: %q", s.Family(), trimmed)
		return trimmed, nil
	}

	log.Infof("Submitted %s array job: %s", s.Family(), id)
	return id, nil
}
