package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Huiwen-Tan/chemsmart/internal/settings"
	"github.com/Huiwen-Tan/chemsmart/internal/utils"
)

var (
	subServer       string
	subTimeHours    float64
	subQueue        string
	subTest         bool
	subPrintCommand bool
	subNumNodes     int

	subXtbJobFlags xtbJobFlags
)

var subCmd = &cobra.Command{
	Use:   "sub",
	Short: "Submit jobs to the cluster scheduler",
	Long: `Submit jobs to the cluster scheduler configured for a server.

Each input structure becomes one job. A single job is submitted with its
own script; with -N/--num-nodes, multiple jobs ride one array submission
where at most N tasks run concurrently.`,
	Example: `  chemsmart sub -s cluster1 xtb -f mol.xyz -j opt
  chemsmart sub -s cluster1 -N 4 xtb -d conformers/ -j opt`,
}

var subXtbCmd = &cobra.Command{
	Use:   "xtb",
	Short: "Submit xTB jobs",
	RunE:  runSubXtb,
}

func init() {
	subCmd.PersistentFlags().StringVarP(&subServer, "server", "s", "", "Server profile to submit through (required)")
	subCmd.PersistentFlags().Float64VarP(&subTimeHours, "time-hours", "t", 0, "Wall-time limit in hours (overrides the server profile)")
	subCmd.PersistentFlags().StringVarP(&subQueue, "queue", "q", "", "Queue name (overrides the server profile)")
	subCmd.PersistentFlags().BoolVar(&subTest, "test", false, "Write scripts without submitting")
	subCmd.PersistentFlags().BoolVar(&subPrintCommand, "print-command", false, "Print the reconstructed run command for each job")
	subCmd.PersistentFlags().IntVarP(&subNumNodes, "num-nodes", "N", 0, "Submit multiple jobs as one array with N tasks running in parallel")
	_ = subCmd.MarkPersistentFlagRequired("server")

	subXtbJobFlags.register(subXtbCmd)
	subCmd.AddCommand(subXtbCmd)
	rootCmd.AddCommand(subCmd)
}

func runSubXtb(cmd *cobra.Command, args []string) error {
	server, err := settings.FromServerName(subServer)
	if err != nil {
		return err
	}
	if subTimeHours > 0 {
		server.NumHours = subTimeHours
	}
	if subQueue != "" {
		server.QueueName = subQueue
	}

	jobList, err := subXtbJobFlags.collectJobs()
	if err != nil {
		return err
	}

	if subPrintCommand {
		for _, job := range jobList {
			fmt.Println(utils.StyleCommand("chemsmart " + strings.Join(subXtbJobFlags.runArgs(job, ""), " ")))
		}
	}

	// Multiple jobs with -N ride one array submission; everything else
	// goes through the per-job path.
	if subNumNodes > 0 && len(jobList) > 1 {
		runScripts := make([]*settings.RunScript, len(jobList))
		for i, job := range jobList {
			runScripts[i] = settings.NewRunScript(job.Label(), subXtbJobFlags.runArgs(job, ""))
		}
		return submitAsArray(server, asSchedulerJobs(jobList), runScripts, subNumNodes, jobList[0].Label(), subTest)
	}

	for _, job := range jobList {
		cliArgs := subXtbJobFlags.runArgs(job, "")
		jobID, err := server.Submit(job, subTest, cliArgs)
		if err != nil {
			return err
		}
		if subTest {
			utils.PrintMessage("Test mode: scripts written for %s, not submitted", utils.StyleName(job.Label()))
		} else {
			utils.PrintSuccess("Submitted %s as job %s", utils.StyleName(job.Label()), utils.StyleNumber(jobID))
		}
	}
	return nil
}
