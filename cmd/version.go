package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tenantkit/tenantkit/internal/message"
	"github.com/tenantkit/tenantkit/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of tenantkit",
	Run: func(cmd *cobra.Command, args []string) {
		message.Info("%s", version.FullVersion())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
