package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var intuneCmd = &cobra.Command{
	Use:   "intune",
	Short: "intune commands",
	Long:  `Manage and report on Intune managed devices and apps.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
		os.Exit(1)
	},
}

var intuneMonitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Intune expiration monitors",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
		os.Exit(1)
	},
}

var intuneInventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Intune inventory exports",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
		os.Exit(1)
	},
}

var intuneManageCmd = &cobra.Command{
	Use:   "manage",
	Short: "Intune bulk management operations",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
		os.Exit(1)
	},
}

var intuneCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Intune cleanup operations",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
		os.Exit(1)
	},
}

func init() {
	intuneCmd.AddCommand(intuneMonitorCmd)
	intuneCmd.AddCommand(intuneInventoryCmd)
	intuneCmd.AddCommand(intuneManageCmd)
	intuneCmd.AddCommand(intuneCleanupCmd)
	rootCmd.AddCommand(intuneCmd)
}
