package scheduler

import (
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// SlurmScheduler implements the ArrayScheduler contract for SLURM.
// Arrays are 0-indexed; the throttle is encoded as "%<limit>".
type SlurmScheduler struct {
	batch
	sbatchBin string
}

// NewSlurmScheduler creates a SLURM array scheduler using sbatch from PATH.
// A missing sbatch does not fail construction; scripts can still be
// rendered and written, only live submission would fail.
func NewSlurmScheduler(spec BatchSpec) (*SlurmScheduler, error) {
	return NewSlurmSchedulerWithBinary(spec, "")
}

// NewSlurmSchedulerWithBinary creates a SLURM array scheduler using an
// explicit sbatch path.
func NewSlurmSchedulerWithBinary(spec BatchSpec, sbatchBin string) (*SlurmScheduler, error) {
	b, err := newBatch(spec)
	if err != nil {
		return nil, err
	}
	if sbatchBin == "" {
		sbatchBin = lookPathOrName("sbatch")
	}
	return &SlurmScheduler{batch: b, sbatchBin: sbatchBin}, nil
}

// Family returns the scheduler family tag.
func (s *SlurmScheduler) Family() Family {
	return FamilySlurm
}

// ArraySpec returns the SLURM array expression, e.g. "0-99%4" for 100
// jobs capped at 4 concurrent tasks. A single job yields "0-0"; an empty
// batch yields "".
func (s *SlurmScheduler) ArraySpec() string {
	switch s.numJobs() {
	case 0:
		return ""
	case 1:
		return "0-0"
	}
	return fmt.Sprintf("0-%d%s", s.numJobs()-1, s.throttleSuffix())
}

// ArrayIndexVariable returns the SLURM task index variable.
func (s *SlurmScheduler) ArrayIndexVariable() string {
	return "SLURM_ARRAY_TASK_ID"
}

// TaskIndexPrelude returns "" — SLURM arrays are already 0-indexed.
func (s *SlurmScheduler) TaskIndexPrelude() string {
	return ""
}

// TaskIndexExpression returns the raw task index variable.
func (s *SlurmScheduler) TaskIndexExpression() string {
	return "$SLURM_ARRAY_TASK_ID"
}

// WriteResourceDirectives emits the #SBATCH directive block.
func (s *SlurmScheduler) WriteResourceDirectives(w io.Writer) {
	res := s.Resources()

	fmt.Fprintf(w, "#SBATCH --job-name=%s\n", s.JobName())
	if spec := s.ArraySpec(); spec != "" {
		fmt.Fprintf(w, "#SBATCH --array=%s\n", spec)
	}
	fmt.Fprintf(w, "#SBATCH --output=%s_%%A_%%a.slurmout\n", s.JobName())
	fmt.Fprintf(w, "#SBATCH --error=%s_%%A_%%a.slurmerr\n", s.JobName())

	if res.Gpus > 0 {
		fmt.Fprintf(w, "#SBATCH --gres=gpu:%d\n", res.Gpus)
	}

	fmt.Fprintln(w, "#SBATCH --nodes=1")
	fmt.Fprintf(w, "#SBATCH --ntasks-per-node=%d\n", res.Cores)
	fmt.Fprintf(w, "#SBATCH --mem=%dG\n", res.MemGB)

	if res.Queue != "" {
		fmt.Fprintf(w, "#SBATCH --partition=%s\n", res.Queue)
	}
	if res.WallHours > 0 {
		fmt.Fprintf(w, "#SBATCH --time=%s:00:00\n", formatWallHours(res.WallHours))
	}

	// Accounting and notification come from the process-wide user
	// settings, not the resource profile.
	user := CurrentUserSettings()
	if user.Account != "" {
		fmt.Fprintf(w, "#SBATCH --account=%s\n", user.Account)
	}
	if user.Email != "" {
		fmt.Fprintf(w, "#SBATCH --mail-user=%s\n", user.Email)
		fmt.Fprintln(w, "#SBATCH --mail-type=END,FAIL")
	}
}

// WriteWorkingDirectoryChange emits the cd into the submission directory.
func (s *SlurmScheduler) WriteWorkingDirectoryChange(w io.Writer) {
	fmt.Fprintln(w, "cd $SLURM_SUBMIT_DIR")
}

// SubmissionCommand returns the sbatch invocation for the script.
func (s *SlurmScheduler) SubmissionCommand(scriptPath string) string {
	return fmt.Sprintf("%s %s", s.sbatchBin, scriptPath)
}

// ParseSubmittedJobID extracts the job ID from sbatch output, which
// typically reads "Submitted batch job 12345".
func (s *SlurmScheduler) ParseSubmittedJobID(output string) (string, bool) {
	if !strings.Contains(output, "Submitted batch job") {
		return "", false
	}
	fields := strings.Fields(output)
	if len(fields) == 0 {
		return "", false
	}
	return fields[len(fields)-1], true
}

// lookPathOrName resolves a binary through PATH, falling back to the bare
// name so that script rendering works on machines without the scheduler.
func lookPathOrName(name string) string {
	if path, err := exec.LookPath(name); err == nil {
		return path
	}
	return name
}
