package xtb

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Huiwen-Tan/chemsmart/internal/jobs"
)

// Program is the executable name this job family runs under.
const Program = "xtb"

// Job type tags, used in logs and to pick the run-script subcommand.
const (
	TypeOpt  = "xtbopt"
	TypeFreq = "xtb_freq"
	TypeSP   = "xtb_sp"
)

// Job is one xTB calculation on an existing .xyz structure file. The
// structure is treated as an opaque payload; the label names every file
// the job reads and writes inside its folder.
type Job struct {
	label    string
	folder   string
	kind     string
	Settings Settings
}

var _ jobs.Job = (*Job)(nil)

// NewJob creates an xTB job with explicit settings. The kind is derived
// from the settings' job type.
func NewJob(folder, label string, settings Settings) (*Job, error) {
	if label == "" {
		return nil, fmt.Errorf("xtb job requires a label")
	}
	if strings.ContainsAny(label, "/ \t\n\"") {
		return nil, fmt.Errorf("xtb job label %q is not filesystem-safe", label)
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("xtb job %s: %w", label, err)
	}
	kind := TypeSP
	switch settings.JobType {
	case JobTypeOpt:
		kind = TypeOpt
	case JobTypeFreq:
		kind = TypeFreq
	}
	return &Job{label: label, folder: folder, kind: kind, Settings: settings}, nil
}

// NewOptJob creates a geometry-optimization job, forcing the job type.
func NewOptJob(folder, label string, settings Settings) (*Job, error) {
	settings.JobType = JobTypeOpt
	return NewJob(folder, label, settings)
}

// NewFreqJob creates a frequency (Hessian) job, forcing the job type.
func NewFreqJob(folder, label string, settings Settings) (*Job, error) {
	settings.JobType = JobTypeFreq
	return NewJob(folder, label, settings)
}

// NewSinglePointJob creates a single-point job, forcing the job type.
func NewSinglePointJob(folder, label string, settings Settings) (*Job, error) {
	settings.JobType = JobTypeSP
	return NewJob(folder, label, settings)
}

// Label returns the job's unique identifier.
func (j *Job) Label() string { return j.label }

// Folder returns the directory holding the job's files.
func (j *Job) Folder() string { return j.folder }

// Program returns "xtb".
func (j *Job) Program() string { return Program }

// Type returns the job kind tag (xtbopt, xtb_freq, xtb_sp).
func (j *Job) Type() string { return j.kind }

// InputFile is the structure file the calculation starts from.
func (j *Job) InputFile() string {
	return filepath.Join(j.folder, j.label+".xyz")
}

// OutputFile captures xtb's stdout.
func (j *Job) OutputFile() string {
	return filepath.Join(j.folder, j.label+".out")
}

// ErrFile captures xtb's stderr.
func (j *Job) ErrFile() string {
	return filepath.Join(j.folder, j.label+".err")
}

// OptimizedFile is where xtb writes the optimized geometry.
func (j *Job) OptimizedFile() string {
	return filepath.Join(j.folder, "xtbopt.xyz")
}

// HessianFile is where xtb writes the Hessian matrix.
func (j *Job) HessianFile() string {
	return filepath.Join(j.folder, "hessian")
}

// ChargesFile is where xtb writes per-atom charges.
func (j *Job) ChargesFile() string {
	return filepath.Join(j.folder, "charges")
}

// BackupOutputs copies the job's previous outputs into a timestamped
// backup folder before a rerun overwrites them.
func (j *Job) BackupOutputs() error {
	backupDir := jobs.BackupFolderName(j.folder)
	return jobs.BackupFiles(backupDir,
		j.InputFile(),
		j.OutputFile(),
		j.OptimizedFile(),
		j.HessianFile(),
		j.ChargesFile(),
	)
}

func (j *Job) String() string {
	return fmt.Sprintf("%s(%s)", j.kind, j.label)
}
