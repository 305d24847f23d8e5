package settings

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/Huiwen-Tan/chemsmart/internal/scheduler"
)

// Submit sends one job to this server's scheduler. The run script and a
// one-job submit script (chemsmart_sub_<label>.sh) are written to the
// current directory; in test mode submission stops there. cliArgs are
// the chemsmart arguments the run script replays on the compute node.
//
// Multi-job submissions go through scheduler.Submit instead; this path
// exists for the single-job case where a dedicated script name beats the
// array machinery.
func (s *Server) Submit(job scheduler.Job, test bool, cliArgs []string) (string, error) {
	if job == nil {
		return "", fmt.Errorf("no job to submit")
	}

	runScript := NewRunScript(job.Label(), cliArgs)
	if _, err := runScript.Write(""); err != nil {
		return "", err
	}

	spec := scheduler.BatchSpec{
		Jobs:      []scheduler.Job{job},
		Resources: s.ResourceProfile(),
		JobName:   job.Label(),
	}
	sched, err := scheduler.Resolve(s.Scheduler, spec)
	if err != nil {
		return "", err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolving working directory: %w", err)
	}
	path := filepath.Join(cwd, fmt.Sprintf("chemsmart_sub_%s.sh", job.Label()))
	if err := os.WriteFile(path, []byte(scheduler.RenderScript(sched)), 0o755); err != nil {
		return "", fmt.Errorf("writing submit script: %w", err)
	}
	log.Infof("Written %s submit script to: %s", sched.Family(), path)

	command := sched.SubmissionCommand(path)
	if test {
		log.Infof("Test mode: not running submission command: %s", command)
		return "", nil
	}

	bin := strings.Fields(command)[0]
	if _, err := exec.LookPath(bin); err != nil {
		return "", fmt.Errorf("%w: %s", scheduler.ErrSchedulerNotFound, bin)
	}

	log.Infof("Submitting job %s to %s: %s", job.Label(), sched.Family(), command)

	cmd := exec.Command("bash", "-c", command)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", scheduler.NewSubmissionError(sched.Family(), job.Label(),
			strings.TrimSpace(stderr.String()), err)
	}

	id, ok := sched.ParseSubmittedJobID(stdout.String())
	if !ok {
		trimmed := strings.TrimSpace(stdout.String())
		log.Warnf("Could not parse %s job ID from output: %q", sched.Family(), trimmed)
		return trimmed, nil
	}
	log.Infof("Submitted %s job: %s", sched.Family(), id)
	return id, nil
}
