package scheduler

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrEmptyBatch indicates a live submission was attempted with no jobs
	ErrEmptyBatch = errors.New("cannot submit array with no jobs")

	// ErrUnknownScheduler indicates the requested scheduler family is not registered
	ErrUnknownScheduler = errors.New("unknown scheduler family")

	// ErrInvalidResourceProfile indicates the resource profile failed validation
	ErrInvalidResourceProfile = errors.New("invalid resource profile")

	// ErrSchedulerNotFound indicates no scheduler binary was found in PATH
	ErrSchedulerNotFound = errors.New("scheduler binary not found in PATH")
)

// SubmissionError represents a failed submission command: the child
// process exited non-zero. Output carries the captured stderr verbatim.
type SubmissionError struct {
	Family  Family // Scheduler family
	JobName string // Batch job name
	Output  string // Captured stderr from the submission command
	Err     error  // Underlying error
}

func (e *SubmissionError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("%s submission failed for job %s: %v\nOutput: %s",
			e.Family, e.JobName, e.Err, e.Output)
	}
	return fmt.Sprintf("%s submission failed for job %s: %v",
		e.Family, e.JobName, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// NewSubmissionError creates a new SubmissionError
func NewSubmissionError(family Family, jobName string, output string, err error) *SubmissionError {
	return &SubmissionError{
		Family:  family,
		JobName: jobName,
		Output:  output,
		Err:     err,
	}
}

// IsSubmissionError checks if an error is a SubmissionError
func IsSubmissionError(err error) bool {
	var se *SubmissionError
	return errors.As(err, &se)
}
