package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var entraCmd = &cobra.Command{
	Use:   "entra",
	Short: "entra commands",
	Long:  `Report on and provision Entra ID identity configuration.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
		os.Exit(1)
	},
}

var entraMonitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Entra expiration monitors",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
		os.Exit(1)
	},
}

var entraInventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Entra inventory exports",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
		os.Exit(1)
	},
}

var entraProvisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Entra provisioning operations",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
		os.Exit(1)
	},
}

func init() {
	entraCmd.AddCommand(entraMonitorCmd)
	entraCmd.AddCommand(entraInventoryCmd)
	entraCmd.AddCommand(entraProvisionCmd)
	rootCmd.AddCommand(entraCmd)
}
