package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Huiwen-Tan/chemsmart/internal/config"
	"github.com/Huiwen-Tan/chemsmart/internal/utils"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the effective chemsmart configuration and where it lives.

Configuration priority (highest to lowest):
  1. Command-line flags
  2. Environment variables (CHEMSMART_*)
  3. User config file (~/.chemsmart/config.yaml)
  4. Auto-detected defaults`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(utils.StyleTitle("Configuration:"))
		fmt.Printf("  Version:        %s\n", utils.StyleNumber(config.VERSION))
		fmt.Printf("  Home:           %s\n", utils.StylePath(config.Global.HomeDir))
		fmt.Printf("  Servers:        %s\n", utils.StylePath(config.Global.ServerDir))
		fmt.Printf("  Log file:       %s\n", utils.StylePath(config.Global.LogFile))
		if config.Global.ScratchDir != "" {
			fmt.Printf("  Scratch:        %s\n", utils.StylePath(config.Global.ScratchDir))
		} else {
			fmt.Printf("  Scratch:        %s\n", utils.StyleWarning("not set"))
		}
		fmt.Printf("  xTB binary:     %s\n", utils.StylePath(config.Global.XtbBin))
		if config.Global.SchedulerBin != "" {
			fmt.Printf("  Scheduler:      %s (%s)\n",
				utils.StylePath(config.Global.SchedulerBin), utils.StyleInfo(config.Global.SchedulerType))
		} else {
			fmt.Printf("  Scheduler:      %s\n", utils.StyleWarning("not detected"))
		}
		if config.Global.Account != "" {
			fmt.Printf("  Account:        %s\n", config.Global.Account)
		}
		if config.Global.Email != "" {
			fmt.Printf("  Email:          %s\n", config.Global.Email)
		}
		if path, err := config.GetUserConfigPath(); err == nil {
			fmt.Printf("  Config file:    %s\n", utils.StylePath(path))
		}
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Re-detect binaries and write the config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		updated, err := config.ForceDetectAndSave()
		if err != nil {
			return err
		}
		path, pathErr := config.GetUserConfigPath()
		if pathErr != nil {
			path = "the user config file"
		}
		if updated {
			utils.PrintSuccess("Detected binaries written to %s", utils.StylePath(path))
		} else {
			utils.PrintMessage("Config already up to date: %s", utils.StylePath(path))
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
