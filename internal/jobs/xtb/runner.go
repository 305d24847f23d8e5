package xtb

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/mod/semver"

	"github.com/Huiwen-Tan/chemsmart/internal/utils"
)

// MinXtbVersion is the oldest xtb release the ALPB and --iterations flags
// are known to work with. Older binaries run anyway; a warning is logged.
const MinXtbVersion = "6.4.0"

// scratchSkipSuffixes are temporary and restart files that stay behind in
// the scratch directory after a run.
var scratchSkipSuffixes = []string{".tmp", "xtbrestart", ".xtboptok"}

// Runner executes xTB jobs as local subprocesses, optionally staging them
// through a scratch directory.
type Runner struct {
	XtbBin     string   // xtb executable; empty resolves "xtb" from PATH
	Scratch    bool     // stage the run in ScratchDir/<label>
	ScratchDir string   // scratch root; required when Scratch is true
	Env        []string // extra environment entries appended to os.Environ()
}

// NewRunner creates a runner for the given binary. Scratch staging is on
// by default when a scratch root is supplied; xTB writes many sidecar
// files and scratch keeps them off the shared filesystem until the run
// finishes.
func NewRunner(xtbBin, scratchDir string) *Runner {
	return &Runner{
		XtbBin:     xtbBin,
		Scratch:    scratchDir != "",
		ScratchDir: scratchDir,
	}
}

// Run executes one job to completion. The job's existing .xyz input is
// staged into the running directory, xtb runs with stdout and stderr
// redirected to the job's .out and .err files, and generated files are
// copied back into the job folder.
func (r *Runner) Run(job *Job) error {
	r.checkVersion()

	runDir, err := r.prepareRunDir(job)
	if err != nil {
		return err
	}

	if err := r.stageInput(job, runDir); err != nil {
		return err
	}

	outPath := filepath.Join(runDir, job.Label()+".out")
	errPath := filepath.Join(runDir, job.Label()+".err")

	args := append([]string{job.Label() + ".xyz"}, job.Settings.CommandArgs()...)
	command := r.binary()
	log.Infof("Running %s: %s %s", job, command, strings.Join(args, " "))

	outFile, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating output file %s: %w", outPath, err)
	}
	defer outFile.Close()

	errFile, err := os.Create(errPath)
	if err != nil {
		return fmt.Errorf("creating error file %s: %w", errPath, err)
	}
	defer errFile.Close()

	cmd := exec.Command(command, args...)
	cmd.Dir = runDir
	cmd.Stdout = outFile
	cmd.Stderr = errFile
	cmd.Env = append(os.Environ(), r.Env...)

	runErr := cmd.Run()

	if copyErr := r.copyBack(job, runDir); copyErr != nil {
		log.Errorf("Copy-back after %s failed: %v", job, copyErr)
		if runErr == nil {
			runErr = copyErr
		}
	}

	if runErr != nil {
		return fmt.Errorf("xtb run for %s failed: %w", job.Label(), runErr)
	}
	log.Infof("Finished %s; output in %s", job, job.OutputFile())
	return nil
}

func (r *Runner) binary() string {
	if r.XtbBin != "" {
		return r.XtbBin
	}
	if path, err := exec.LookPath("xtb"); err == nil {
		return path
	}
	return "xtb"
}

// prepareRunDir returns the directory the subprocess runs in: a per-label
// scratch directory when staging, the job folder otherwise.
func (r *Runner) prepareRunDir(job *Job) (string, error) {
	if !r.Scratch {
		if job.Folder() == "" {
			return ".", nil
		}
		return job.Folder(), nil
	}
	if r.ScratchDir == "" {
		return "", fmt.Errorf("scratch run for %s requires a scratch directory", job.Label())
	}
	runDir := filepath.Join(r.ScratchDir, job.Label())
	if err := utils.EnsureDir(runDir); err != nil {
		return "", fmt.Errorf("creating scratch directory %s: %w", runDir, err)
	}
	log.Debugf("Running directory: %s", runDir)
	return runDir, nil
}

// stageInput copies the job's .xyz file into the running directory. The
// structure file must already exist; this runner never creates it.
func (r *Runner) stageInput(job *Job, runDir string) error {
	src := job.InputFile()
	if !utils.FileExists(src) {
		return fmt.Errorf("input structure %s not found", src)
	}
	dst := filepath.Join(runDir, job.Label()+".xyz")
	if sameFile(src, dst) {
		return nil
	}
	if err := utils.CopyFile(src, dst); err != nil {
		return fmt.Errorf("staging input for %s: %w", job.Label(), err)
	}
	return nil
}

// copyBack moves everything xtb produced in scratch into the job folder,
// skipping temporary and restart files. Running directly in the job
// folder needs no copy.
func (r *Runner) copyBack(job *Job, runDir string) error {
	if !r.Scratch || runDir == job.Folder() {
		return nil
	}
	entries, err := os.ReadDir(runDir)
	if err != nil {
		return fmt.Errorf("reading scratch directory %s: %w", runDir, err)
	}
	if job.Folder() != "" {
		if err := utils.EnsureDir(job.Folder()); err != nil {
			return err
		}
	}
	for _, entry := range entries {
		if entry.IsDir() || skipOnCopyBack(entry.Name()) {
			continue
		}
		src := filepath.Join(runDir, entry.Name())
		log.Debugf("Copying %s back to %s", entry.Name(), job.Folder())
		if err := utils.CopyFile(src, job.Folder()); err != nil {
			return err
		}
	}
	return nil
}

func skipOnCopyBack(name string) bool {
	for _, suffix := range scratchSkipSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

// xtbVersionRe pulls the release number out of "xtb version 6.6.1 ...".
var xtbVersionRe = regexp.MustCompile(`version\s+(\d+\.\d+(?:\.\d+)?)`)

// checkVersion warns when the xtb binary predates MinXtbVersion. Any
// failure to determine the version is logged and ignored; the run
// proceeds either way.
func (r *Runner) checkVersion() {
	out, err := exec.Command(r.binary(), "--version").CombinedOutput()
	if err != nil {
		log.Debugf("Could not determine xtb version: %v", err)
		return
	}
	match := xtbVersionRe.FindStringSubmatch(string(out))
	if match == nil {
		log.Debugf("Could not parse xtb version from: %q", strings.TrimSpace(string(out)))
		return
	}
	version := "v" + match[1]
	if semver.Compare(version, "v"+MinXtbVersion) < 0 {
		log.Warnf("xtb %s is older than the supported minimum %s; some flags may be ignored",
			match[1], MinXtbVersion)
	}
}
