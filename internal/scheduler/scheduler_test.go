package scheduler

import (
	"errors"
	"fmt"
	"os"
	"testing"
)

// testJob is a minimal Job implementation for scheduler tests.
type testJob struct {
	label string
}

func (j testJob) Label() string { return j.label }

// makeJobs builds a job list from labels.
func makeJobs(labels ...string) []Job {
	jobs := make([]Job, len(labels))
	for i, label := range labels {
		jobs[i] = testJob{label: label}
	}
	return jobs
}

// conformerJobs builds n jobs labeled mol_c1..mol_c<n>, mirroring a
// conformer screening batch.
func conformerJobs(n int) []Job {
	jobs := make([]Job, n)
	for i := range jobs {
		jobs[i] = testJob{label: fmt.Sprintf("mol_c%d", i+1)}
	}
	return jobs
}

// testProfile returns a profile that passes validation.
func testProfile() ResourceProfile {
	return ResourceProfile{Cores: 16, MemGB: 64, WallHours: 24, Queue: "normal"}
}

// clearJobEnvVars removes the scheduler job environment variables for the
// duration of the test.
func clearJobEnvVars(t *testing.T) {
	t.Helper()
	for _, name := range jobEnvVars {
		if value, ok := os.LookupEnv(name); ok {
			name, value := name, value
			os.Unsetenv(name)
			t.Cleanup(func() { os.Setenv(name, value) })
		}
	}
}

func TestResourceProfileValidate(t *testing.T) {
	tests := []struct {
		name    string
		profile ResourceProfile
		wantErr bool
	}{
		{name: "valid", profile: ResourceProfile{Cores: 8, MemGB: 32}, wantErr: false},
		{name: "valid with gpus", profile: ResourceProfile{Cores: 8, Gpus: 2, MemGB: 32}, wantErr: false},
		{name: "zero cores", profile: ResourceProfile{Cores: 0, MemGB: 32}, wantErr: true},
		{name: "negative cores", profile: ResourceProfile{Cores: -4, MemGB: 32}, wantErr: true},
		{name: "negative gpus", profile: ResourceProfile{Cores: 8, Gpus: -1, MemGB: 32}, wantErr: true},
		{name: "zero memory", profile: ResourceProfile{Cores: 8, MemGB: 0}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v; wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidResourceProfile) {
				t.Errorf("Validate() error = %v; want ErrInvalidResourceProfile", err)
			}
		})
	}
}

func TestBatchDefaultsJobName(t *testing.T) {
	s, err := NewSlurmSchedulerWithBinary(BatchSpec{
		Jobs:      makeJobs("a"),
		Resources: testProfile(),
	}, "/usr/bin/sbatch") // fake path for testing
	if err != nil {
		t.Fatalf("Failed to create scheduler: %v", err)
	}
	if s.JobName() != DefaultJobName {
		t.Errorf("JobName() = %q; want %q", s.JobName(), DefaultJobName)
	}
}

func TestBatchSnapshotsJobs(t *testing.T) {
	jobs := makeJobs("first", "second")
	s, err := NewSlurmSchedulerWithBinary(BatchSpec{
		Jobs:      jobs,
		Resources: testProfile(),
	}, "/usr/bin/sbatch")
	if err != nil {
		t.Fatalf("Failed to create scheduler: %v", err)
	}

	// Mutating the caller's slice must not affect the batch.
	jobs[0] = testJob{label: "mutated"}

	if got := s.Jobs()[0].Label(); got != "first" {
		t.Errorf("Jobs()[0].Label() = %q; want %q", got, "first")
	}
}

func TestInvalidProfileRejectedAtConstruction(t *testing.T) {
	_, err := NewSlurmSchedulerWithBinary(BatchSpec{
		Jobs:      makeJobs("a"),
		Resources: ResourceProfile{Cores: 0, MemGB: 32},
	}, "/usr/bin/sbatch")
	if !errors.Is(err, ErrInvalidResourceProfile) {
		t.Errorf("error = %v; want ErrInvalidResourceProfile", err)
	}
}
