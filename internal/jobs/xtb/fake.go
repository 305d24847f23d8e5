package xtb

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/Huiwen-Tan/chemsmart/internal/utils"
)

// FakeRunner simulates xTB execution without invoking the binary. It
// writes a faithful skeleton of real xtb output so the output parsers and
// downstream tooling behave as they would after a real run.
type FakeRunner struct {
	Scratch    bool
	ScratchDir string
}

// Run stages the job like the real runner, writes fake output files, and
// copies results back to the job folder.
func (r *FakeRunner) Run(job *Job) error {
	real := &Runner{Scratch: r.Scratch, ScratchDir: r.ScratchDir}

	runDir, err := real.prepareRunDir(job)
	if err != nil {
		return err
	}
	if err := real.stageInput(job, runDir); err != nil {
		return err
	}

	log.Infof("Fake run for %s (no xtb invocation)", job)
	if err := writeFakeOutput(job, runDir); err != nil {
		return err
	}

	if err := real.copyBack(job, runDir); err != nil {
		return err
	}
	log.Infof("Finished fake %s; output in %s", job, job.OutputFile())
	return nil
}

// writeFakeOutput emits <label>.out with the banner, property printout,
// Mulliken block, and termination line real xtb prints, plus xtbopt.xyz
// for optimization jobs.
func writeFakeOutput(job *Job, runDir string) error {
	inputPath := filepath.Join(runDir, job.Label()+".xyz")
	numAtoms, coordLines, err := readXyz(inputPath)
	if err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString("      -----------------------------------------------------------\n")
	b.WriteString("     |                   =====================                   |\n")
	b.WriteString("     |                           x T B                           |\n")
	b.WriteString("     |                   =====================                   |\n")
	b.WriteString("      -----------------------------------------------------------\n")
	b.WriteString("\n")
	b.WriteString("   * xtb version 6.6.1 (fake)\n")
	b.WriteString("\n")
	fmt.Fprintf(&b, "      # atoms: %d\n", numAtoms)
	fmt.Fprintf(&b, "     charge: %d\n", job.Settings.Charge)
	fmt.Fprintf(&b, "     unpaired: %d\n", max(job.Settings.Multiplicity-1, 0))
	fmt.Fprintf(&b, "     method: %s\n", job.Settings.Method)
	b.WriteString("\n")

	if job.Settings.JobType == JobTypeOpt {
		b.WriteString("   *** GEOMETRY OPTIMIZATION ***\n")
		b.WriteString("   optimization converged!\n")
		b.WriteString("\n")
	}

	b.WriteString("         ::.................................................::\n")
	fmt.Fprintf(&b, "         :: %-22s %18.12f Eh    ::\n", "TOTAL ENERGY", -12.345678901234)
	b.WriteString("         ::.................................................::\n")
	b.WriteString("\n")
	b.WriteString("    Mulliken atomic charges\n")
	for i := 0; i < numAtoms; i++ {
		fmt.Fprintf(&b, "     %d   C   %9.6f\n", i+1, -0.123456)
	}
	b.WriteString("\n")
	b.WriteString("molecular dipole:\n")
	b.WriteString("   full:        0.000       0.000       0.000       0.000\n")
	b.WriteString("   total (Debye):    0.000\n")
	b.WriteString("\n")
	b.WriteString(" * finished run on 2026/01/01 at 12:00:00.000\n")
	b.WriteString("\n")
	b.WriteString(" normal termination of xtb\n")

	outPath := filepath.Join(runDir, job.Label()+".out")
	if err := os.WriteFile(outPath, []byte(b.String()), utils.PermFile); err != nil {
		return fmt.Errorf("writing fake output: %w", err)
	}

	if job.Settings.JobType == JobTypeOpt {
		var opt strings.Builder
		fmt.Fprintf(&opt, "%d\n", numAtoms)
		opt.WriteString("optimized geometry\n")
		for _, line := range coordLines {
			opt.WriteString(line + "\n")
		}
		optPath := filepath.Join(runDir, "xtbopt.xyz")
		if err := os.WriteFile(optPath, []byte(opt.String()), utils.PermFile); err != nil {
			return fmt.Errorf("writing fake xtbopt.xyz: %w", err)
		}
	}
	return nil
}

// readXyz returns the atom count and coordinate lines of an xyz file. The
// coordinates are carried through verbatim; no structure interpretation
// happens here.
func readXyz(path string) (int, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, nil, fmt.Errorf("reading input structure: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return 0, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(lines) < 1 {
		return 0, nil, fmt.Errorf("%s is not an xyz file: empty", path)
	}
	numAtoms, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil {
		return 0, nil, fmt.Errorf("%s is not an xyz file: bad atom count %q", path, lines[0])
	}
	end := 2 + numAtoms
	if end > len(lines) {
		end = len(lines)
	}
	var coords []string
	if len(lines) > 2 {
		coords = lines[2:end]
	}
	return numAtoms, coords, nil
}
