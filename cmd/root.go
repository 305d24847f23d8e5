package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Huiwen-Tan/chemsmart/internal/config"
	"github.com/Huiwen-Tan/chemsmart/internal/scheduler"
	"github.com/Huiwen-Tan/chemsmart/internal/utils"
)

var (
	debugMode  bool
	streamLogs bool
)

var rootCmd = &cobra.Command{
	Use:           "chemsmart",
	Short:         "Chemsmart: build, run, and submit batches of quantum-chemistry jobs on HPC clusters.",
	Version:       config.VERSION,
	SilenceErrors: true,

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Piped output gets no color anywhere; the stderr printers do not
		// auto-detect like the color package's stdout default does.
		if !utils.IsInteractiveShell() {
			color.NoColor = true
		}

		// Step 1: Load defaults (paths, directories, etc.)
		config.LoadDefaults()

		// Step 2: Initialize Viper (read config file, env vars)
		if err := config.InitViper(); err != nil {
			utils.PrintDebug("Error reading config file: %v", err)
		}

		// Step 3: Bind persistent flags so they override file and env values
		if err := config.BindFlags(cmd.Root().PersistentFlags()); err != nil {
			utils.PrintDebug("Failed to bind flags: %v", err)
		}

		// Step 4: Auto-detect binaries if needed and save to config
		updated, err := config.AutoDetectAndSave()
		if err != nil {
			utils.PrintDebug("Failed to save config: %v", err)
		} else if updated {
			if configPath, err := config.GetUserConfigPath(); err == nil {
				utils.PrintDebug("Auto-detected binaries saved to: %s", configPath)
			}
		}

		// Step 5: Load detected values from Viper into Global config
		config.LoadFromViper()

		// Step 6: Apply command-line flags (highest priority)
		if debugMode {
			config.Global.Debug = true
		}
		if err := utils.SetupLogger(config.Global.Debug, streamLogs, config.Global.LogFile); err != nil {
			utils.PrintWarning("Could not open log file: %v", err)
		}
		if config.Global.Debug {
			utils.PrintDebug("Debug mode enabled")
			utils.PrintDebug("Chemsmart Version: %s", utils.StyleInfo(config.VERSION))
			utils.PrintDebug("Home Directory: %s", config.Global.HomeDir)
			utils.PrintDebug("Server Directory: %s", config.Global.ServerDir)
			utils.PrintDebug("xTB Binary: %s", config.Global.XtbBin)
			if config.Global.SchedulerBin != "" {
				utils.PrintDebug("Scheduler Binary: %s", config.Global.SchedulerBin)
			}
		}

		// Step 7: Publish the account/email defaults the SLURM and PBS
		// directive writers consult.
		scheduler.SetUserSettings(scheduler.UserSettings{
			Account: config.Global.Account,
			Email:   config.Global.Email,
		})
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra's automatic error printing is silenced. For submission
		// failures print the scheduler's captured stderr (trimmed) so the
		// cluster's own message reaches the user; for other errors print
		// the default error string.
		if se, ok := err.(*scheduler.SubmissionError); ok {
			utils.PrintError("%s submission failed for job %s", se.Family, se.JobName)
			out := strings.TrimSpace(se.Output)
			if out != "" {
				fmt.Fprintln(os.Stderr, out)
			}
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Subcommands are attached to rootCmd in their respective init() functions
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug mode with verbose output")
	rootCmd.PersistentFlags().BoolVar(&streamLogs, "stream", false, "Mirror log output to stderr")
	rootCmd.PersistentFlags().String("account", "", "Billing account for SLURM/PBS directives")
	rootCmd.PersistentFlags().String("email", "", "Notification email for SLURM/PBS directives")
	rootCmd.PersistentFlags().String("scratch-dir", "", "Scratch root for local runs (defaults to $SCRATCH)")
}
