package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var powerCmd = &cobra.Command{
	Use:   "power",
	Short: "power platform commands",
	Long:  `Report on Power Platform environments, flows and apps.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
		os.Exit(1)
	},
}

var powerInventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Power Platform inventory exports",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
		os.Exit(1)
	},
}

func init() {
	powerCmd.AddCommand(powerInventoryCmd)
	rootCmd.AddCommand(powerCmd)
}
