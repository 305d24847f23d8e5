package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Huiwen-Tan/chemsmart/internal/config"
	"github.com/Huiwen-Tan/chemsmart/internal/scheduler"
	"github.com/Huiwen-Tan/chemsmart/internal/utils"
)

var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Display scheduler information",
	Long: `Display information about the cluster scheduler on this host.

Shows the detected scheduler family, the submission binary, whether the
process is already inside a scheduled job, and every family chemsmart can
submit to.`,
	Example: `  chemsmart scheduler`,
	Run:     runScheduler,
}

func init() {
	rootCmd.AddCommand(schedulerCmd)
}

func runScheduler(cmd *cobra.Command, args []string) {
	family := scheduler.DetectFamily()
	if family == scheduler.FamilyUnknown && config.Global.SchedulerBin != "" {
		// PATH probing failed but a binary was configured earlier; trust it.
		family = scheduler.DetectFamilyWithBinary(config.Global.SchedulerBin)
	}

	fmt.Println(utils.StyleTitle("Scheduler Information:"))
	if family == scheduler.FamilyUnknown {
		fmt.Printf("  Detected:  %s\n", utils.StyleError("None"))
	} else {
		fmt.Printf("  Detected:  %s\n", utils.StyleInfo(string(family)))
	}
	if config.Global.SchedulerBin != "" {
		fmt.Printf("  Binary:    %s\n", utils.StylePath(config.Global.SchedulerBin))
	}

	families := scheduler.Families()
	names := make([]string, len(families))
	for i, f := range families {
		names[i] = string(f)
	}
	fmt.Printf("  Supported: %v\n", names)

	if scheduler.InsideJob() {
		fmt.Printf("  Status:    %s (inside job)\n", utils.StyleWarning("Caution"))
		fmt.Println()
		fmt.Println("This process is already running inside a scheduled job.")
		fmt.Println("Submitting from here would nest allocations.")
		return
	}

	if family == scheduler.FamilyUnknown {
		fmt.Println()
		fmt.Println("No scheduler submission binary (sbatch, qsub, bsub) found on PATH.")
		fmt.Println("Scripts can still be written with --test and submitted manually.")
		return
	}

	fmt.Printf("  Status:    %s\n", utils.StyleSuccess("Available"))
}
