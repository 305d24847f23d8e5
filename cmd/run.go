package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Huiwen-Tan/chemsmart/internal/config"
	xtbio "github.com/Huiwen-Tan/chemsmart/internal/io/xtb"
	"github.com/Huiwen-Tan/chemsmart/internal/jobs/xtb"
	"github.com/Huiwen-Tan/chemsmart/internal/utils"
)

var (
	runFake    bool
	runScratch bool
	runBackup  bool

	runXtbJobFlags xtbJobFlags
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a job locally",
	Long: `Run one job on this machine.

This is the command the generated run scripts call back into on the
compute node: each array task executes chemsmart_run_<label>.py, which
replays "chemsmart run ..." with the job's options.`,
	Example: `  chemsmart run xtb -f mol.xyz -j opt
  chemsmart run xtb -f mol.xyz --fake`,
}

var runXtbCmd = &cobra.Command{
	Use:   "xtb",
	Short: "Run an xTB job locally",
	RunE:  runRunXtb,
}

func init() {
	runCmd.PersistentFlags().BoolVar(&runFake, "fake", false, "Simulate the calculation without invoking xtb")
	runCmd.PersistentFlags().BoolVar(&runScratch, "scratch", true, "Stage the run through the scratch directory")
	runCmd.PersistentFlags().BoolVar(&runBackup, "backup", true, "Back up previous outputs before rerunning")

	runXtbJobFlags.register(runXtbCmd)
	runCmd.AddCommand(runXtbCmd)
	rootCmd.AddCommand(runCmd)
}

func runRunXtb(cmd *cobra.Command, args []string) error {
	jobList, err := runXtbJobFlags.collectJobs()
	if err != nil {
		return err
	}
	if len(jobList) != 1 {
		return fmt.Errorf("run executes exactly one job, got %d inputs", len(jobList))
	}
	job := jobList[0]

	if runBackup {
		if err := job.BackupOutputs(); err != nil {
			utils.PrintWarning("Backup before rerun failed: %v", err)
		}
	}

	scratchDir := ""
	if runScratch {
		scratchDir = config.Global.ScratchDir
		if scratchDir == "" {
			utils.PrintDebug("No scratch directory configured; running in the job folder")
		}
	}

	utils.PrintMessage("%s %s (%s)", utils.StyleAction("Running"), utils.StyleName(job.Label()), job.Type())
	if runFake {
		utils.PrintNote("Fake run: writing synthetic output, xtb is not invoked")
		fake := &xtb.FakeRunner{Scratch: scratchDir != "", ScratchDir: scratchDir}
		if err := fake.Run(job); err != nil {
			return err
		}
	} else {
		runner := xtb.NewRunner(config.Global.XtbBin, scratchDir)
		if err := runner.Run(job); err != nil {
			return err
		}
	}

	reportXtbResult(job)
	return nil
}

// reportXtbResult prints a one-look summary from the parsed output.
// Parsing problems are reported but never fail the run; the output files
// are already on disk for inspection.
func reportXtbResult(job *xtb.Job) {
	output, err := xtbio.ReadOutput(job.OutputFile())
	if err != nil {
		utils.PrintWarning("Could not read output %s: %v", job.OutputFile(), err)
		return
	}

	if output.NormalTermination() {
		utils.PrintSuccess("%s terminated normally", job.Label())
	} else {
		utils.PrintWarning("%s did not terminate normally; check %s", job.Label(), utils.StylePath(job.OutputFile()))
	}
	if energy, ok := output.Energy(); ok {
		utils.PrintMessage("Total energy: %s Eh", utils.StyleNumber(fmt.Sprintf("%.12f", energy)))
	}
	if dipole, ok := output.DipoleMoment(); ok {
		utils.PrintMessage("Dipole moment: %s Debye", utils.StyleNumber(fmt.Sprintf("%.3f", dipole)))
	}
	if freqs := output.Frequencies(); len(freqs) > 0 {
		utils.PrintMessage("Frequencies: %d modes, lowest %s cm**-1",
			len(freqs), utils.StyleNumber(fmt.Sprintf("%.2f", freqs[0])))
	}

	folder := xtbio.NewFolder(job.Folder())
	if folder.HasOptimizedStructure() {
		utils.PrintMessage("Optimized structure: %s", utils.StylePath(folder.OptimizedStructureFile()))
	}
}
