package cmd

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Huiwen-Tan/chemsmart/internal/jobs/xtb"
	"github.com/Huiwen-Tan/chemsmart/internal/scheduler"
	"github.com/Huiwen-Tan/chemsmart/internal/settings"
	"github.com/Huiwen-Tan/chemsmart/internal/utils"
)

// xtbJobFlags carries the calculation options shared by the xtb
// subcommands of sub, batch, and run. Each command owns its own instance
// so flag values never leak between commands.
type xtbJobFlags struct {
	files        []string
	directory    string
	charge       int
	multiplicity int
	method       string
	solventModel string
	solvent      string
	jobType      string
	optLevel     string
	iterations   int
	accuracy     float64
	etemp        float64
	parallel     int
	options      string
}

// register attaches the xtb calculation flags to cmd.
func (f *xtbJobFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.files, "file", "f", nil, "Input .xyz file (repeatable)")
	cmd.Flags().StringVarP(&f.directory, "directory", "d", "", "Directory of .xyz files, one job per file")
	cmd.Flags().IntVarP(&f.charge, "charge", "c", 0, "Molecular charge")
	cmd.Flags().IntVarP(&f.multiplicity, "multiplicity", "m", 1, "Spin multiplicity")
	cmd.Flags().StringVarP(&f.method, "method", "x", xtb.MethodGFN2, "xTB method (GFN2-xTB, GFN1-xTB, GFN0-xTB, GFN-FF)")
	cmd.Flags().StringVar(&f.solventModel, "solvent-model", "", "Solvation model (gbsa or alpb)")
	cmd.Flags().StringVar(&f.solvent, "solvent", "", "Solvent name (e.g. water, methanol)")
	cmd.Flags().StringVarP(&f.jobType, "jobtype", "j", xtb.JobTypeSP, "Calculation type (sp, opt, freq)")
	cmd.Flags().StringVar(&f.optLevel, "opt-level", "", "Optimization convergence level (crude..extreme)")
	cmd.Flags().IntVar(&f.iterations, "iterations", 0, "Maximum optimization iterations")
	cmd.Flags().Float64Var(&f.accuracy, "acc", 0, "SCF accuracy")
	cmd.Flags().Float64Var(&f.etemp, "etemp", 0, "Electronic temperature in Kelvin")
	cmd.Flags().IntVar(&f.parallel, "parallel", 0, "OMP threads for xtb")
	cmd.Flags().StringVarP(&f.options, "options", "o", "", "Additional raw xtb flags")
}

// settings converts the flag values into xtb job settings.
func (f *xtbJobFlags) settings() xtb.Settings {
	return xtb.Settings{
		Method:            f.method,
		Charge:            f.charge,
		Multiplicity:      f.multiplicity,
		SolventModel:      f.solventModel,
		SolventID:         f.solvent,
		JobType:           f.jobType,
		OptimizationLevel: f.optLevel,
		MaxIterations:     f.iterations,
		Accuracy:          f.accuracy,
		ElectronicTemp:    f.etemp,
		Parallel:          f.parallel,
		AdditionalOptions: f.options,
	}
}

// collectJobs builds one xtb job per input structure: each explicit -f
// file, plus every .xyz file in -d, sorted by name. The label is the
// basename without extension; no structure parsing happens here.
func (f *xtbJobFlags) collectJobs() ([]*xtb.Job, error) {
	inputs := append([]string{}, f.files...)

	if f.directory != "" {
		matches, err := filepath.Glob(filepath.Join(f.directory, "*.xyz"))
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", f.directory, err)
		}
		sort.Strings(matches)
		inputs = append(inputs, matches...)
	}

	if len(inputs) == 0 {
		return nil, fmt.Errorf("no input structures: use -f <file.xyz> or -d <directory>")
	}

	settings := f.settings()
	seen := make(map[string]string, len(inputs))
	result := make([]*xtb.Job, 0, len(inputs))
	for _, input := range inputs {
		if !utils.IsXyz(input) {
			return nil, fmt.Errorf("input %s is not an .xyz file", input)
		}
		if !utils.FileExists(input) {
			return nil, fmt.Errorf("input %s not found", input)
		}
		label := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		if previous, dup := seen[label]; dup {
			return nil, fmt.Errorf("duplicate job label %q (%s and %s)", label, previous, input)
		}
		seen[label] = input

		job, err := xtb.NewJob(filepath.Dir(input), label, settings)
		if err != nil {
			return nil, err
		}
		result = append(result, job)
	}
	return result, nil
}

// runArgs reconstructs the "run xtb ..." argument vector that reproduces
// the given job. The array run scripts replay these on the compute node.
// jobType overrides the flag value when non-empty (the auto-sp follow-up
// reuses everything but the calculation type).
func (f *xtbJobFlags) runArgs(job *xtb.Job, jobType string) []string {
	if jobType == "" {
		jobType = f.jobType
	}
	args := []string{"run", "xtb", "-f", job.InputFile(), "-j", jobType}
	if f.charge != 0 {
		args = append(args, "-c", strconv.Itoa(f.charge))
	}
	if f.multiplicity != 1 {
		args = append(args, "-m", strconv.Itoa(f.multiplicity))
	}
	if f.method != xtb.MethodGFN2 {
		args = append(args, "-x", f.method)
	}
	if f.solventModel != "" {
		args = append(args, "--solvent-model", f.solventModel)
	}
	if f.solvent != "" {
		args = append(args, "--solvent", f.solvent)
	}
	if f.optLevel != "" && jobType == xtb.JobTypeOpt {
		args = append(args, "--opt-level", f.optLevel)
	}
	if f.iterations > 0 {
		args = append(args, "--iterations", strconv.Itoa(f.iterations))
	}
	if f.accuracy > 0 {
		args = append(args, "--acc", strconv.FormatFloat(f.accuracy, 'f', -1, 64))
	}
	if f.etemp > 0 {
		args = append(args, "--etemp", strconv.FormatFloat(f.etemp, 'f', -1, 64))
	}
	if f.parallel > 0 {
		args = append(args, "--parallel", strconv.Itoa(f.parallel))
	}
	if f.options != "" {
		args = append(args, "-o", f.options)
	}
	return args
}

// asSchedulerJobs widens concrete xtb jobs to the scheduler's job
// contract.
func asSchedulerJobs(jobList []*xtb.Job) []scheduler.Job {
	result := make([]scheduler.Job, len(jobList))
	for i, job := range jobList {
		result[i] = job
	}
	return result
}

// submitAsArray bundles the jobs into one array submission on the
// server's scheduler. Run scripts are written first so every array task
// finds its dispatch target; in test mode the scripts stay on disk and
// no submission command runs.
func submitAsArray(server *settings.Server, jobList []scheduler.Job, runScripts []*settings.RunScript, maxParallel int, jobName string, test bool) error {
	for _, script := range runScripts {
		if _, err := script.Write(""); err != nil {
			return err
		}
	}

	spec := scheduler.BatchSpec{
		Jobs:        jobList,
		Resources:   server.ResourceProfile(),
		MaxParallel: maxParallel,
		JobName:     jobName,
	}
	sched, err := scheduler.Resolve(server.Scheduler, spec)
	if err != nil {
		return err
	}

	jobID, err := scheduler.Submit(sched, scheduler.SubmitOptions{Test: test})
	if err != nil {
		return err
	}
	if test {
		utils.PrintMessage("Test mode: array script %s written, not submitted",
			utils.StylePath(scheduler.ScriptFilename(sched)))
		return nil
	}
	utils.PrintSuccess("Submitted %s array job %s (%d tasks, max %d parallel)",
		sched.Family(), utils.StyleNumber(jobID), len(jobList), maxParallel)
	return nil
}
