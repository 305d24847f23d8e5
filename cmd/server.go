package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Huiwen-Tan/chemsmart/internal/config"
	"github.com/Huiwen-Tan/chemsmart/internal/settings"
	"github.com/Huiwen-Tan/chemsmart/internal/utils"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Inspect server submission profiles",
	Long: `Inspect the server profiles under ` + "~/.chemsmart/server/" + `.

A server profile names the cluster's scheduler family and the default
resources every submission through it requests.`,
}

var serverListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available server profiles",
	Run: func(cmd *cobra.Command, args []string) {
		names := settings.ListServerNames()
		if len(names) == 0 {
			utils.PrintMessage("No server profiles found in %s", utils.StylePath(config.Global.ServerDir))
			utils.PrintHint("Create one as %s", utils.StylePath(config.Global.ServerDir+"/<name>.yaml"))
			return
		}
		for _, name := range names {
			fmt.Println(name)
		}
	},
}

var serverShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show one server profile",
	Args:  cobra.ExactArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return settings.ListServerNames(), cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := settings.FromServerName(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s %s\n", utils.StyleTitle("Server:"), utils.StyleName(server.Name))
		fmt.Printf("  Scheduler:  %s\n", utils.StyleInfo(server.Scheduler))
		fmt.Printf("  Cores:      %s\n", utils.StyleNumber(server.NumCores))
		fmt.Printf("  GPUs:       %s\n", utils.StyleNumber(server.NumGpus))
		fmt.Printf("  Memory:     %s GB\n", utils.StyleNumber(server.MemGB))
		if server.NumHours > 0 {
			fmt.Printf("  Wall time:  %s h\n", utils.StyleNumber(server.NumHours))
		}
		if server.QueueName != "" {
			fmt.Printf("  Queue:      %s\n", server.QueueName)
		}
		if server.Account != "" {
			fmt.Printf("  Account:    %s\n", server.Account)
		}
		if server.Email != "" {
			fmt.Printf("  Email:      %s\n", server.Email)
		}
		if server.XTB.ExecutableFolder != "" || server.XTB.CondaEnv != "" || server.XTB.Modules != "" {
			fmt.Println("  xTB:")
			if server.XTB.ExecutableFolder != "" {
				fmt.Printf("    Binary:    %s\n", utils.StylePath(server.XTB.Binary()))
			}
			if server.XTB.CondaEnv != "" {
				fmt.Printf("    Conda env: %s\n", server.XTB.CondaEnv)
			}
			if server.XTB.Modules != "" {
				fmt.Printf("    Modules:   %s\n", server.XTB.Modules)
			}
		}
		return nil
	},
}

func init() {
	serverCmd.AddCommand(serverListCmd)
	serverCmd.AddCommand(serverShowCmd)
	rootCmd.AddCommand(serverCmd)
}
