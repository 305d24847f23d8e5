package scheduler

import (
	"strings"
	"testing"
)

// newTestLsfScheduler creates an LSF scheduler instance for testing
// without requiring bsub to be installed.
func newTestLsfScheduler(t *testing.T, spec BatchSpec) *LsfScheduler {
	t.Helper()
	s, err := NewLsfSchedulerWithBinary(spec, "/usr/bin/bsub") // fake path for testing
	if err != nil {
		t.Fatalf("Failed to create scheduler: %v", err)
	}
	return s
}

func TestLsfArraySpec(t *testing.T) {
	tests := []struct {
		name        string
		numJobs     int
		maxParallel int
		want        string
	}{
		{name: "100 jobs capped at 4", numJobs: 100, maxParallel: 4, want: "[1-100]%4"},
		{name: "5 jobs unlimited", numJobs: 5, maxParallel: 0, want: "[1-5]"},
		{name: "single job", numJobs: 1, maxParallel: 4, want: "[1]"},
		{name: "empty batch", numJobs: 0, maxParallel: 4, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestLsfScheduler(t, BatchSpec{
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

func TestLsfResourceDirectives(t *testing.T) {
	s := newTestLsfScheduler(t, BatchSpec{
		Jobs: conformerJobs(10),
		Resources: ResourceProfile{
			Cores:     16,
			Gpus:      2,
			MemGB:     64,
			WallHours: 24,
			Queue:     "gpuq",
			Account:   "chem-lab",
			Email:     "user@lab.edu",
		},
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
		{"job name with array", "#BSUB -J conformer_opt[1-10]%4"},
		{"stdout pattern", "#BSUB -o conformer_opt_%J_%I.lsfout"},
		{"stderr pattern", "#BSUB -e conformer_opt_%J_%I.lsferr"},
		{"cores", "#BSUB -n 16"},
		{"memory", "#BSUB -R \"rusage[mem=64G]\""},
		{"gpu request", "#BSUB -R \"select[ngpus>0] rusage[ngpus_excl_p=2]\""},
		{"queue", "#BSUB -q gpuq"},
		{"wall time", "#BSUB -W 24:00"},
		{"project", "#BSUB -P chem-lab"},
		{"mail user", "#BSUB -u user@lab.edu"},
		{"mail flag", "#BSUB -N"},
	}
	for _, c := range checks {
		if !strings.Contains(script, c.want) {
			t.Errorf("directives missing %s line %q\n%s", c.label, c.want, script)
		}
	}
}

func TestLsfIndexTranslation(t *testing.T) {
	s := newTestLsfScheduler(t, BatchSpec{
		Jobs:      conformerJobs(3),
		Resources: testProfile(),
	})

	if got, want := s.TaskIndexPrelude(), "JOB_INDEX=$((LSB_JOBINDEX - 1))"; got != want {
		t.Errorf("TaskIndexPrelude() = %q; want %q", got, want)
	}
	if got, want := s.TaskIndexExpression(), "$JOB_INDEX"; got != want {
		t.Errorf("TaskIndexExpression() = %q; want %q", got, want)
	}
	if got, want := s.ArrayIndexVariable(), "LSB_JOBINDEX"; got != want {
		t.Errorf("ArrayIndexVariable() = %q; want %q", got, want)
	}
}

func TestLsfSubmissionCommandUsesStdin(t *testing.T) {
	s := newTestLsfScheduler(t, BatchSpec{
		Jobs:      conformerJobs(1),
		Resources: testProfile(),
	})

	got := s.SubmissionCommand("/work/chemsmart_array_sub.sh")
	want := "/usr/bin/bsub < /work/chemsmart_array_sub.sh"
	if got != want {
		t.Errorf("SubmissionCommand() = %q; want %q", got, want)
	}
}

func TestLsfParseSubmittedJobID(t *testing.T) {
	s := newTestLsfScheduler(t, BatchSpec{
		Jobs:      conformerJobs(1),
		Resources: testProfile(),
	})

	tests := []struct {
		name   string
		output string
		wantID string
		wantOK bool
	}{
		{
			name:   "typical",
			output: "Job <123456> is submitted to queue <normal>.\n",
			wantID: "123456",
			wantOK: true,
		},
		{name: "missing closing bracket", output: "Job <12345", wantOK: false},
		{name: "unrelated output", output: "Request aborted by esub.", wantOK: false},
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
