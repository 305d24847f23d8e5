package scheduler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRenderScriptSlurm(t *testing.T) {
	ClearUserSettings()
	s := newTestSlurmScheduler(t, BatchSpec{
		Jobs:        makeJobs("mol_c1", "mol_c2", "mol_c3"),
		Resources:   ResourceProfile{Cores: 8, MemGB: 32},
		MaxParallel: 2,
		JobName:     "screen",
	})

	want := strings.Join([]string{
		"#!/bin/bash",
		"",
		"#SBATCH --job-name=screen",
		"#SBATCH --array=0-2%2",
		"#SBATCH --output=screen_%A_%a.slurmout",
		"#SBATCH --error=screen_%A_%a.slurmerr",
		"#SBATCH --nodes=1",
		"#SBATCH --ntasks-per-node=8",
		"#SBATCH --mem=32G",
		"",
		"",
		"cd $SLURM_SUBMIT_DIR",
		"",
		"# Job labels array",
		"JOBS=(",
		"    \"mol_c1\"",
		"    \"mol_c2\"",
		"    \"mol_c3\"",
		")",
		"",
		"# Get current job label",
		"JOB_LABEL=${JOBS[$SLURM_ARRAY_TASK_ID]}",
		"echo \"Running job: $JOB_LABEL (array task $SLURM_ARRAY_TASK_ID)\"",
		"",
		"# Execute the job",
		"if [ -f \"chemsmart_run_${JOB_LABEL}.py\" ]; then",
		"    chmod +x chemsmart_run_${JOB_LABEL}.py",
		"    python chemsmart_run_${JOB_LABEL}.py",
		"else",
		"    echo \"Error: Run script not found for job $JOB_LABEL\"",
		"    exit 1",
		"fi",
		"",
		"wait",
		"",
	}, "\n")

	if got := RenderScript(s); got != want {
		t.Errorf("RenderScript() mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderScriptLsfIndexLookup(t *testing.T) {
	s := newTestLsfScheduler(t, BatchSpec{
		Jobs:      makeJobs("mol_c1", "mol_c2"),
		Resources: ResourceProfile{Cores: 4, MemGB: 16},
		JobName:   "screen",
	})

	script := RenderScript(s)

	// LSF tasks are numbered from 1, so the script must derive a 0-based
	// index before the table lookup.
	wantSequence := strings.Join([]string{
		"# Get current job label",
		"JOB_INDEX=$((LSB_JOBINDEX - 1))",
		"JOB_LABEL=${JOBS[$JOB_INDEX]}",
		"echo \"Running job: $JOB_LABEL (array task $LSB_JOBINDEX)\"",
	}, "\n")
	if !strings.Contains(script, wantSequence) {
		t.Errorf("script missing LSF index translation sequence\n%s", script)
	}
	if !strings.Contains(script, "cd $LS_SUBCWD") {
		t.Errorf("script missing LSF working directory change\n%s", script)
	}
}

func TestRenderScriptHundredJobsInOrder(t *testing.T) {
	ClearUserSettings()
	s := newTestSlurmScheduler(t, BatchSpec{
		Jobs:        conformerJobs(100),
		Resources:   testProfile(),
		MaxParallel: 4,
	})

	script := RenderScript(s)

	if !strings.Contains(script, "#SBATCH --array=0-99%4") {
		t.Errorf("script missing array range for 100 jobs\n%s", script)
	}

	// Extract the JOBS table and verify every label in input order.
	lines := strings.Split(script, "\n")
	start := -1
	for i, line := range lines {
		if line == "JOBS=(" {
			start = i + 1
			break
		}
	}
	if start < 0 {
		t.Fatalf("script missing JOBS table\n%s", script)
	}

	var labels []string
	for _, line := range lines[start:] {
		if line == ")" {
			break
		}
		labels = append(labels, line)
	}

	if len(labels) != 100 {
		t.Fatalf("JOBS table has %d entries; want 100", len(labels))
	}
	for i, line := range labels {
		want := fmt.Sprintf("    %q", fmt.Sprintf("mol_c%d", i+1))
		if line != want {
			t.Errorf("JOBS[%d] = %q; want %q", i, line, want)
		}
	}
}

func TestScriptFilename(t *testing.T) {
	s := newTestSlurmScheduler(t, BatchSpec{
		Jobs:      conformerJobs(1),
		Resources: testProfile(),
		JobName:   "conformer_opt",
	})
	if got, want := ScriptFilename(s), "chemsmart_array_sub_conformer_opt.sh"; got != want {
		t.Errorf("ScriptFilename() = %q; want %q", got, want)
	}

	// A scheduler with no job name at all falls back to the bare filename.
	if got, want := ScriptFilename(&SlurmScheduler{}), "chemsmart_array_sub.sh"; got != want {
		t.Errorf("ScriptFilename() = %q; want %q", got, want)
	}
}

func TestWriteScriptRoundTrip(t *testing.T) {
	ClearUserSettings()
	dir := t.TempDir()
	s := newTestSlurmScheduler(t, BatchSpec{
		Jobs:        conformerJobs(5),
		Resources:   testProfile(),
		MaxParallel: 2,
		JobName:     "round_trip",
	})

	path, err := WriteScript(s, dir)
	if err != nil {
		t.Fatalf("Failed to write script: %v", err)
	}
	if got, want := filepath.Base(path), "chemsmart_array_sub_round_trip.sh"; got != want {
		t.Errorf("script filename = %q; want %q", got, want)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read script: %v", err)
	}
	if string(content) != RenderScript(s) {
		t.Errorf("written script differs from rendered script")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Failed to stat script: %v", err)
	}
	if info.Mode().Perm()&0o100 == 0 {
		t.Errorf("script mode = %v; want owner-executable", info.Mode())
	}
}

func TestFormatWallHours(t *testing.T) {
	tests := []struct {
		hours float64
		want  string
	}{
		{24, "24"},
		{24.5, "24.5"},
		{0.25, "0.25"},
		{100, "100"},
	}
	for _, tt := range tests {
		if got := formatWallHours(tt.hours); got != tt.want {
			t.Errorf("formatWallHours(%v) = %q; want %q", tt.hours, got, tt.want)
		}
	}
}
