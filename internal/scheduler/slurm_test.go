package scheduler

import (
	"strings"
	"testing"
)

// newTestSlurmScheduler creates a SLURM scheduler instance for testing
// without requiring sbatch to be installed.
func newTestSlurmScheduler(t *testing.T, spec BatchSpec) *SlurmScheduler {
	t.Helper()
	s, err := NewSlurmSchedulerWithBinary(spec, "/usr/bin/sbatch") // fake path for testing
	if err != nil {
		t.Fatalf("Failed to create scheduler: %v", err)
	}
	return s
}

func TestSlurmArraySpec(t *testing.T) {
	tests := []struct {
		name        string
		numJobs     int
		maxParallel int
		want        string
	}{
		{name: "100 jobs capped at 4", numJobs: 100, maxParallel: 4, want: "0-99%4"},
		{name: "5 jobs unlimited", numJobs: 5, maxParallel: 0, want: "0-4"},
		{name: "single job", numJobs: 1, maxParallel: 4, want: "0-0"},
		{name: "empty batch", numJobs: 0, maxParallel: 4, want: ""},
		{name: "cap equal to batch size", numJobs: 8, maxParallel: 8, want: "0-7"},
		{name: "cap above batch size", numJobs: 8, maxParallel: 16, want: "0-7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSlurmScheduler(t, BatchSpec{
				Jobs:        conformerJobs(tt.numJobs),
				Resources:   testProfile(),
				MaxParallel: tt.maxParallel,
			})
			if got := s.ArraySpec(); got != tt.want {
				t.Errorf("ArraySpec() = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestSlurmResourceDirectives(t *testing.T) {
	ClearUserSettings()
	s := newTestSlurmScheduler(t, BatchSpec{
		Jobs:        conformerJobs(10),
		Resources:   ResourceProfile{Cores: 16, Gpus: 2, MemGB: 64, WallHours: 24, Queue: "gpuq"},
		MaxParallel: 4,
		JobName:     "conformer_opt",
	})

	var b strings.Builder
	s.WriteResourceDirectives(&b)
	script := b.String()

	checks := []struct {
		label string
		want  string
	}{
		{"job name", "#SBATCH --job-name=conformer_opt"},
		{"array range", "#SBATCH --array=0-9%4"},
		{"stdout pattern", "#SBATCH --output=conformer_opt_%A_%a.slurmout"},
		{"stderr pattern", "#SBATCH --error=conformer_opt_%A_%a.slurmerr"},
		{"gpu request", "#SBATCH --gres=gpu:2"},
		{"nodes", "#SBATCH --nodes=1"},
		{"tasks per node", "#SBATCH --ntasks-per-node=16"},
		{"memory", "#SBATCH --mem=64G"},
		{"partition", "#SBATCH --partition=gpuq"},
		{"wall time", "#SBATCH --time=24:00:00"},
	}
	for _, c := range checks {
		if !strings.Contains(script, c.want) {
			t.Errorf("directives missing %s line %q\n%s", c.label, c.want, script)
		}
	}
}

func TestSlurmDirectivesWithoutGpu(t *testing.T) {
	ClearUserSettings()
	s := newTestSlurmScheduler(t, BatchSpec{
		Jobs:      conformerJobs(2),
		Resources: ResourceProfile{Cores: 8, MemGB: 32},
	})

	var b strings.Builder
	s.WriteResourceDirectives(&b)
	script := b.String()

	if strings.Contains(script, "--gres") {
		t.Errorf("directives contain a GPU request for a CPU-only profile\n%s", script)
	}
	if strings.Contains(script, "--partition") {
		t.Errorf("directives contain a partition line for an empty queue\n%s", script)
	}
	if strings.Contains(script, "--time") {
		t.Errorf("directives contain a time line for zero wall hours\n%s", script)
	}
}

func TestSlurmUserSettingsDirectives(t *testing.T) {
	SetUserSettings(UserSettings{Account: "proj123", Email: "user@lab.edu"})
	t.Cleanup(ClearUserSettings)

	s := newTestSlurmScheduler(t, BatchSpec{
		Jobs:      conformerJobs(2),
		Resources: testProfile(),
	})

	var b strings.Builder
	s.WriteResourceDirectives(&b)
	script := b.String()

	checks := []struct {
		label string
		want  string
	}{
		{"account", "#SBATCH --account=proj123"},
		{"mail user", "#SBATCH --mail-user=user@lab.edu"},
		{"mail type", "#SBATCH --mail-type=END,FAIL"},
	}
	for _, c := range checks {
		if !strings.Contains(script, c.want) {
			t.Errorf("directives missing %s line %q\n%s", c.label, c.want, script)
		}
	}
}

func TestSlurmSubmissionCommand(t *testing.T) {
	s := newTestSlurmScheduler(t, BatchSpec{
		Jobs:      conformerJobs(1),
		Resources: testProfile(),
	})

	got := s.SubmissionCommand("/work/chemsmart_array_sub.sh")
	want := "/usr/bin/sbatch /work/chemsmart_array_sub.sh"
	if got != want {
		t.Errorf("SubmissionCommand() = %q; want %q", got, want)
	}
}

func TestSlurmParseSubmittedJobID(t *testing.T) {
	s := newTestSlurmScheduler(t, BatchSpec{
		Jobs:      conformerJobs(1),
		Resources: testProfile(),
	})

	tests := []struct {
		name   string
		output string
		wantID string
		wantOK bool
	}{
		{name: "typical", output: "Submitted batch job 123456\n", wantID: "123456", wantOK: true},
		{name: "no trailing newline", output: "Submitted batch job 7", wantID: "7", wantOK: true},
		{name: "unrelated output", output: "sbatch: error: invalid partition", wantOK: false},
		{name: "empty output", output: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := s.ParseSubmittedJobID(tt.output)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v; want %v", ok, tt.wantOK)
			}
			if ok && id != tt.wantID {
				t.Errorf("id = %q; want %q", id, tt.wantID)
			}
		})
	}
}
