package scheduler

import (
	"fmt"
	"io"
	"strings"
)

// PbsScheduler implements the ArrayScheduler contract for PBS Pro.
// Arrays are 0-indexed; a single job uses the bare index "0" rather than
// a degenerate "0-0" range.
// EXPERIMENTAL: PBS is not tested on real clusters and may have edge cases. Feedback welcome.
type PbsScheduler struct {
	batch
	qsubBin string
}

// NewPbsScheduler creates a PBS array scheduler using qsub from PATH.
func NewPbsScheduler(spec BatchSpec) (*PbsScheduler, error) {
	return NewPbsSchedulerWithBinary(spec, "")
}

// NewPbsSchedulerWithBinary creates a PBS array scheduler using an
// explicit qsub path.
func NewPbsSchedulerWithBinary(spec BatchSpec, qsubBin string) (*PbsScheduler, error) {
	b, err := newBatch(spec)
	if err != nil {
		return nil, err
	}
	if qsubBin == "" {
		qsubBin = lookPathOrName("qsub")
	}
	return &PbsScheduler{batch: b, qsubBin: qsubBin}, nil
}

// Family returns the scheduler family tag.
func (s *PbsScheduler) Family() Family {
	return FamilyPbs
}

// ArraySpec returns the PBS array expression. A single job yields "0"
// (no "-0" range); an empty batch yields "".
func (s *PbsScheduler) ArraySpec() string {
	switch s.numJobs() {
	case 0:
		return ""
	case 1:
		return "0"
	}
	return fmt.Sprintf("0-%d%s", s.numJobs()-1, s.throttleSuffix())
}

// ArrayIndexVariable returns the PBS task index variable.
func (s *PbsScheduler) ArrayIndexVariable() string {
	return "PBS_ARRAY_INDEX"
}

// TaskIndexPrelude returns "" — PBS arrays are already 0-indexed.
func (s *PbsScheduler) TaskIndexPrelude() string {
	return ""
}

// TaskIndexExpression returns the raw task index variable.
func (s *PbsScheduler) TaskIndexExpression() string {
	return "$PBS_ARRAY_INDEX"
}

// WriteResourceDirectives emits the #PBS directive block.
func (s *PbsScheduler) WriteResourceDirectives(w io.Writer) {
	res := s.Resources()

	fmt.Fprintf(w, "#PBS -N %s\n", s.JobName())
	if spec := s.ArraySpec(); spec != "" {
		fmt.Fprintf(w, "#PBS -J %s\n", spec)
	}
	fmt.Fprintf(w, "#PBS -o %s.pbsout\n", s.JobName())
	fmt.Fprintf(w, "#PBS -e %s.pbserr\n", s.JobName())

	if res.Gpus > 0 {
		fmt.Fprintf(w, "#PBS -l gpus=%d\n", res.Gpus)
	}

	fmt.Fprintf(w, "#PBS -l select=1:ncpus=%d:mpiprocs=%d:mem=%dG\n",
		res.Cores, res.Cores, res.MemGB)

	if res.Queue != "" {
		fmt.Fprintf(w, "#PBS -q %s\n", res.Queue)
	}
	if res.WallHours > 0 {
		fmt.Fprintf(w, "#PBS -l walltime=%s:00:00\n", formatWallHours(res.WallHours))
	}

	// Accounting and notification come from the process-wide user
	// settings, not the resource profile.
	user := CurrentUserSettings()
	if user.Account != "" {
		fmt.Fprintf(w, "#PBS -P %s\n", user.Account)
	}
	if user.Email != "" {
		fmt.Fprintf(w, "#PBS -M %s\n", user.Email)
		fmt.Fprintln(w, "#PBS -m abe")
	}
}

// WriteWorkingDirectoryChange emits the cd into the submission directory.
func (s *PbsScheduler) WriteWorkingDirectoryChange(w io.Writer) {
	fmt.Fprintln(w, "cd $PBS_O_WORKDIR")
}

// SubmissionCommand returns the qsub invocation for the script.
func (s *PbsScheduler) SubmissionCommand(scriptPath string) string {
	return fmt.Sprintf("%s %s", s.qsubBin, scriptPath)
}

// ParseSubmittedJobID extracts the job ID from qsub output. PBS prints
// the identifier alone, often suffixed with the server name
// ("1234[].pbsserver"); the part before the first dot is the ID.
func (s *PbsScheduler) ParseSubmittedJobID(output string) (string, bool) {
	id := strings.TrimSpace(output)
	if id == "" {
		return "", false
	}
	if dot := strings.Index(id, "."); dot >= 0 {
		id = id[:dot]
	}
	return id, true
}
