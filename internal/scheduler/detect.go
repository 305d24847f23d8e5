package scheduler

import (
	"os"
	"os/exec"
	"path/filepath"
)

// submitBinaries maps each family to the binary whose presence on PATH
// identifies it. Probe order is fixed so hosts with several schedulers
// installed resolve deterministically.
var submitBinaries = []struct {
	family Family
	binary string
}{
	{FamilySlurm, "sbatch"},
	{FamilyPbs, "qsub"},
	{FamilyLsf, "bsub"},
}

// DetectFamily probes PATH for the submission binaries and returns the
// first family found, or FamilyUnknown when none is installed.
func DetectFamily() Family {
	for _, probe := range submitBinaries {
		if _, err := exec.LookPath(probe.binary); err == nil {
			return probe.family
		}
	}
	return FamilyUnknown
}

// DetectFamilyWithBinary maps a configured submission binary to its
// family by basename. Unknown binaries yield FamilyUnknown.
func DetectFamilyWithBinary(binary string) Family {
	base := filepath.Base(binary)
	for _, probe := range submitBinaries {
		if base == probe.binary {
			return probe.family
		}
	}
	return FamilyUnknown
}

// jobEnvVars are set by each scheduler inside a running job.
var jobEnvVars = []string{"SLURM_JOB_ID", "PBS_JOBID", "LSB_JOBID"}

// InsideJob reports whether the process is already running inside a
// scheduler job. Submitting from inside a job usually nests allocations
// by accident, so callers warn or refuse when this is true.
func InsideJob() bool {
	for _, name := range jobEnvVars {
		if _, ok := os.LookupEnv(name); ok {
			return true
		}
	}
	return false
}
