package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubJob struct{ label string }

func (j stubJob) Label() string { return j.label }

func testServer() *Server {
	return &Server{
		Name:      "cluster1",
		Scheduler: "SLURM",
		NumCores:  16,
		MemGB:     64,
		NumHours:  24,
	}
}

// chdir moves the test into a temp directory; Submit writes its scripts
// to the working directory.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	previous, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(previous) })
	return dir
}

func TestSubmitTestModeWritesScripts(t *testing.T) {
	dir := chdir(t)
	server := testServer()
	job := stubJob{label: "mol_c1"}

	jobID, err := server.Submit(job, true, []string{"run", "xtb", "-f", "mol_c1.xyz"})
	require.NoError(t, err)
	assert.Empty(t, jobID, "test mode returns no job ID")

	runScript, err := os.ReadFile(filepath.Join(dir, "chemsmart_run_mol_c1.py"))
	require.NoError(t, err)
	assert.Contains(t, string(runScript), `"chemsmart", "run", "xtb"`)

	subScript, err := os.ReadFile(filepath.Join(dir, "chemsmart_sub_mol_c1.sh"))
	require.NoError(t, err)
	content := string(subScript)
	assert.Contains(t, content, "#!/bin/bash")
	assert.Contains(t, content, "#SBATCH --job-name=mol_c1")
	assert.Contains(t, content, "#SBATCH --array=0-0")
	assert.Contains(t, content, `"mol_c1"`)
	assert.Contains(t, content, "chemsmart_run_${JOB_LABEL}.py")
}

func TestSubmitUnknownSchedulerFamily(t *testing.T) {
	chdir(t)
	server := testServer()
	server.Scheduler = "CONDOR"

	_, err := server.Submit(stubJob{label: "mol_c1"}, true, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown scheduler family")
}

func TestSubmitNilJob(t *testing.T) {
	server := testServer()
	_, err := server.Submit(nil, true, nil)
	require.Error(t, err)
}
