// Package scheduler maps batches of independent computational jobs onto
// single cluster array-job submissions for SLURM, PBS, and LSF.
package scheduler

import (
	"fmt"
	"io"
)

// Family identifies a cluster scheduler family.
type Family string

const (
	FamilyUnknown Family = ""
	FamilySlurm   Family = "SLURM"
	FamilyPbs     Family = "PBS"
	FamilyLsf     Family = "LSF"
)

// DefaultJobName is used when a batch is created without an explicit job name.
const DefaultJobName = "chemsmart_array"

// Job is the minimal contract a unit of work must satisfy to join an
// array batch. The scheduler reads nothing beyond the label: it is the
// array-table key and the run-script filename fragment
// (chemsmart_run_<label>.py), so it must be unique within a batch and
// filesystem-safe.
type Job interface {
	Label() string
}

// ResourceProfile describes the compute resources requested for every
// task of an array job. It is owned by the caller and only read by the
// directive writers.
type ResourceProfile struct {
	Cores     int     // CPU cores per task
	Gpus      int     // GPUs per task; 0 means no GPU directive
	MemGB     int     // memory per task in GB
	WallHours float64 // wall-time limit in hours; 0 means no time directive
	Queue     string  // queue/partition name; empty means scheduler default
	Account   string  // accounting project; consulted by the LSF writer only
	Email     string  // notification address; consulted by the LSF writer only
}

// Validate checks the profile against the ranges the directive writers assume.
func (r ResourceProfile) Validate() error {
	if r.Cores <= 0 {
		return fmt.Errorf("%w: cores must be positive, got %d", ErrInvalidResourceProfile, r.Cores)
	}
	if r.Gpus < 0 {
		return fmt.Errorf("%w: gpus must be non-negative, got %d", ErrInvalidResourceProfile, r.Gpus)
	}
	if r.MemGB <= 0 {
		return fmt.Errorf("%w: mem_gb must be positive, got %d", ErrInvalidResourceProfile, r.MemGB)
	}
	return nil
}

// BatchSpec bundles everything needed to construct one array submission.
// A batch is built fresh per submission and discarded after Submit returns.
type BatchSpec struct {
	Jobs        []Job           // ordered; order defines array indices
	Resources   ResourceProfile // applied to every task
	MaxParallel int             // max concurrent tasks; <=0 means unlimited
	JobName     string          // base name for script and output files; "" uses DefaultJobName
}

// ArrayScheduler is implemented once per scheduler family. It carries
// everything that varies between families: directive syntax, the array
// range expression, the task index variable, the submission command, and
// job-ID parsing. The shared assembly in RenderScript composes these
// pieces into one submission script.
type ArrayScheduler interface {
	// Family returns the scheduler family tag.
	Family() Family

	// Jobs returns the batch's jobs in array-index order.
	Jobs() []Job

	// JobName returns the base name used for the script and output files.
	JobName() string

	// Resources returns the profile applied to every task.
	Resources() ResourceProfile

	// MaxParallel returns the concurrency cap (<=0 means unlimited).
	MaxParallel() int

	// ArraySpec returns the scheduler-native range/throttle expression
	// for the batch. An empty batch yields "" and no array directive is
	// rendered in that case.
	ArraySpec() string

	// ArrayIndexVariable returns the environment variable the scheduler
	// populates with the current task's raw index.
	ArrayIndexVariable() string

	// TaskIndexPrelude returns an optional shell line emitted before the
	// array lookup. Families whose arrays are not 0-indexed derive a
	// 0-based index here; "" emits nothing.
	TaskIndexPrelude() string

	// TaskIndexExpression returns the shell expression used to index the
	// JOBS array.
	TaskIndexExpression() string

	// WriteResourceDirectives emits the family's directive block for the
	// attached ResourceProfile.
	WriteResourceDirectives(w io.Writer)

	// WriteWorkingDirectoryChange emits the cd into the scheduler's
	// submission directory.
	WriteWorkingDirectoryChange(w io.Writer)

	// SubmissionCommand returns the shell command that submits the
	// rendered script at scriptPath.
	SubmissionCommand(scriptPath string) string

	// ParseSubmittedJobID extracts a job identifier from the submission
	// command's stdout. ok is false when the family's pattern is absent;
	// callers fall back to the raw output in that case.
	ParseSubmittedJobID(output string) (id string, ok bool)
}

// batch holds the state shared by every scheduler family. Backends embed
// it and implement only the family-specific deltas.
type batch struct {
	jobs        []Job
	resources   ResourceProfile
	maxParallel int
	jobName     string
}

func newBatch(spec BatchSpec) (batch, error) {
	if err := spec.Resources.Validate(); err != nil {
		return batch{}, err
	}
	name := spec.JobName
	if name == "" {
		name = DefaultJobName
	}
	// Snapshot the job list; a batch is never mutated after construction.
	jobs := make([]Job, len(spec.Jobs))
	copy(jobs, spec.Jobs)
	return batch{
		jobs:        jobs,
		resources:   spec.Resources,
		maxParallel: spec.MaxParallel,
		jobName:     name,
	}, nil
}

// Jobs returns the batch's jobs in array-index order.
func (b *batch) Jobs() []Job {
	return b.jobs
}

// JobName returns the base name used for the script and output files.
func (b *batch) JobName() string {
	return b.jobName
}

// Resources returns the profile applied to every task.
func (b *batch) Resources() ResourceProfile {
	return b.resources
}

// MaxParallel returns the concurrency cap (<=0 means unlimited).
func (b *batch) MaxParallel() int {
	return b.maxParallel
}

func (b *batch) numJobs() int {
	return len(b.jobs)
}

// throttleSuffix returns "%<maxParallel>" when the cap actually throttles
// the batch, "" otherwise.
func (b *batch) throttleSuffix() string {
	if b.maxParallel > 0 && b.maxParallel < b.numJobs() {
		return fmt.Sprintf("%%%d", b.maxParallel)
	}
	return ""
}
