package scheduler

import (
	"fmt"
	"io"
	"strings"
)

// LsfScheduler implements the ArrayScheduler contract for IBM Spectrum
// LSF. LSF numbers array tasks from 1, so the script derives a 0-based
// JOB_INDEX before the array lookup; this is the only family with an
// index-translation prelude.
// EXPERIMENTAL: LSF is not tested on real clusters and may have edge cases. Feedback welcome.
type LsfScheduler struct {
	batch
	bsubBin string
}

// NewLsfScheduler creates an LSF array scheduler using bsub from PATH.
func NewLsfScheduler(spec BatchSpec) (*LsfScheduler, error) {
	return NewLsfSchedulerWithBinary(spec, "")
}

// NewLsfSchedulerWithBinary creates an LSF array scheduler using an
// explicit bsub path.
func NewLsfSchedulerWithBinary(spec BatchSpec, bsubBin string) (*LsfScheduler, error) {
	b, err := newBatch(spec)
	if err != nil {
		return nil, err
	}
	if bsubBin == "" {
		bsubBin = lookPathOrName("bsub")
	}
	return &LsfScheduler{batch: b, bsubBin: bsubBin}, nil
}

// Family returns the scheduler family tag.
func (s *LsfScheduler) Family() Family {
	return FamilyLsf
}

// ArraySpec returns the LSF array expression, e.g. "[1-100]%4". A single
// job yields "[1]"; an empty batch yields "".
func (s *LsfScheduler) ArraySpec() string {
	switch s.numJobs() {
	case 0:
		return ""
	case 1:
		return "[1]"
	}
	return fmt.Sprintf("[1-%d]%s", s.numJobs(), s.throttleSuffix())
}

// ArrayIndexVariable returns the LSF task index variable.
func (s *LsfScheduler) ArrayIndexVariable() string {
	return "LSB_JOBINDEX"
}

// TaskIndexPrelude derives the 0-based index from LSF's 1-based task number.
func (s *LsfScheduler) TaskIndexPrelude() string {
	return "JOB_INDEX=$((LSB_JOBINDEX - 1))"
}

// TaskIndexExpression returns the derived 0-based index.
func (s *LsfScheduler) TaskIndexExpression() string {
	return "$JOB_INDEX"
}

// WriteResourceDirectives emits the #BSUB directive block. The array
// expression is appended to the job-name token; LSF has no separate
// array flag.
func (s *LsfScheduler) WriteResourceDirectives(w io.Writer) {
	res := s.Resources()

	fmt.Fprintf(w, "#BSUB -J %s%s\n", s.JobName(), s.ArraySpec())
	fmt.Fprintf(w, "#BSUB -o %s_%%J_%%I.lsfout\n", s.JobName())
	fmt.Fprintf(w, "#BSUB -e %s_%%J_%%I.lsferr\n", s.JobName())

	fmt.Fprintf(w, "#BSUB -n %d\n", res.Cores)
	fmt.Fprintf(w, "#BSUB -R \"rusage[mem=%dG]\"\n", res.MemGB)

	if res.Gpus > 0 {
		fmt.Fprintf(w, "#BSUB -R \"select[ngpus>0] rusage[ngpus_excl_p=%d]\"\n", res.Gpus)
	}

	if res.Queue != "" {
		fmt.Fprintf(w, "#BSUB -q %s\n", res.Queue)
	}
	if res.WallHours > 0 {
		fmt.Fprintf(w, "#BSUB -W %s:00\n", formatWallHours(res.WallHours))
	}

	// LSF takes accounting and notification from the resource profile.
	if res.Account != "" {
		fmt.Fprintf(w, "#BSUB -P %s\n", res.Account)
	}
	if res.Email != "" {
		fmt.Fprintf(w, "#BSUB -u %s\n", res.Email)
		fmt.Fprintln(w, "#BSUB -N")
	}
}

// WriteWorkingDirectoryChange emits the cd into the submission directory.
func (s *LsfScheduler) WriteWorkingDirectoryChange(w io.Writer) {
	fmt.Fprintln(w, "cd $LS_SUBCWD")
}

// SubmissionCommand returns the bsub invocation. bsub reads the script
// from stdin, so the script is fed via input redirection rather than as
// an argument.
func (s *LsfScheduler) SubmissionCommand(scriptPath string) string {
	return fmt.Sprintf("%s < %s", s.bsubBin, scriptPath)
}

// ParseSubmittedJobID extracts the job ID from bsub output, which reads
// "Job <12345> is submitted to queue <normal>".
func (s *LsfScheduler) ParseSubmittedJobID(output string) (string, bool) {
	start := strings.Index(output, "Job <")
	if start < 0 {
		return "", false
	}
	rest := output[start+len("Job <"):]
	end := strings.Index(rest, ">")
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}
