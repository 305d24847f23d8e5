package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Huiwen-Tan/chemsmart/internal/jobs/xtb"
	"github.com/Huiwen-Tan/chemsmart/internal/settings"
)

var (
	batchServer      string
	batchMaxParallel int
	batchMode        string
	batchAutoSP      bool
	batchJobName     string
	batchTimeHours   float64
	batchQueue       string
	batchTest        bool

	batchXtbJobFlags xtbJobFlags
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Submit many jobs as one scheduler array",
	Long: `Submit many jobs as a single array submission.

The whole batch becomes one scheduler submission spawning one array task
per job, so a thousand conformers never flood the queue with a thousand
sbatch calls. At most -P tasks run concurrently.`,
	Example: `  chemsmart batch -s cluster1 xtb -d conformers/ -j opt
  chemsmart batch -s cluster1 -P 4 -n conformer_opt xtb -d conformers/ -j opt --auto-sp`,
}

var batchXtbCmd = &cobra.Command{
	Use:   "xtb",
	Short: "Batch-submit xTB jobs",
	RunE:  runBatchXtb,
}

func init() {
	batchCmd.PersistentFlags().StringVarP(&batchServer, "server", "s", "", "Server profile to submit through (required)")
	batchCmd.PersistentFlags().IntVarP(&batchMaxParallel, "max-parallel", "P", 10, "Maximum number of array tasks running at once")
	batchCmd.PersistentFlags().StringVarP(&batchMode, "mode", "M", "array", "Scheduling mode: array or worker")
	batchCmd.PersistentFlags().BoolVar(&batchAutoSP, "auto-sp", false, "Run a single-point calculation after each optimization task")
	batchCmd.PersistentFlags().StringVarP(&batchJobName, "job-name", "n", "chemsmart_batch", "Base name for the batch job")
	batchCmd.PersistentFlags().Float64VarP(&batchTimeHours, "time-hours", "t", 0, "Wall-time limit in hours (overrides the server profile)")
	batchCmd.PersistentFlags().StringVarP(&batchQueue, "queue", "q", "", "Queue name (overrides the server profile)")
	batchCmd.PersistentFlags().BoolVar(&batchTest, "test", false, "Write scripts without submitting")
	_ = batchCmd.MarkPersistentFlagRequired("server")

	batchXtbJobFlags.register(batchXtbCmd)
	batchCmd.AddCommand(batchXtbCmd)
	rootCmd.AddCommand(batchCmd)
}

func runBatchXtb(cmd *cobra.Command, args []string) error {
	switch strings.ToLower(batchMode) {
	case "array":
	case "worker":
		return fmt.Errorf("worker-pool mode is not implemented; use array mode")
	default:
		return fmt.Errorf("unknown scheduling mode %q (valid: array, worker)", batchMode)
	}

	server, err := settings.FromServerName(batchServer)
	if err != nil {
		return err
	}
	if batchTimeHours > 0 {
		server.NumHours = batchTimeHours
	}
	if batchQueue != "" {
		server.QueueName = batchQueue
	}

	jobList, err := batchXtbJobFlags.collectJobs()
	if err != nil {
		return err
	}

	if batchAutoSP && batchXtbJobFlags.jobType != xtb.JobTypeOpt {
		return fmt.Errorf("--auto-sp only applies to optimization batches (-j opt)")
	}

	runScripts := make([]*settings.RunScript, len(jobList))
	for i, job := range jobList {
		script := settings.NewRunScript(job.Label(), batchXtbJobFlags.runArgs(job, ""))
		if batchAutoSP {
			// A second invocation with -j sp runs in the same array task
			// once the optimization finishes.
			script.Commands = append(script.Commands, batchXtbJobFlags.runArgs(job, xtb.JobTypeSP))
		}
		runScripts[i] = script
	}

	return submitAsArray(server, asSchedulerJobs(jobList), runScripts, batchMaxParallel, batchJobName, batchTest)
}
