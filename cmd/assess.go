package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "tenant posture assessments",
	Long:  `Run posture checks across Intune, Entra ID and Power Platform.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(assessCmd)
}
