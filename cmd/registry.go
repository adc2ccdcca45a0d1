package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tenantkit/tenantkit/internal/message"
	"github.com/tenantkit/tenantkit/internal/registry"
	"github.com/tenantkit/tenantkit/pkg/modules"
)

// categoryParent maps platform/category pairs onto the command tree
// declared in the platform files.
var categoryParent = map[string]*cobra.Command{
	"intune/monitor":   intuneMonitorCmd,
	"intune/inventory": intuneInventoryCmd,
	"intune/manage":    intuneManageCmd,
	"intune/cleanup":   intuneCleanupCmd,
	"entra/monitor":    entraMonitorCmd,
	"entra/inventory":  entraInventoryCmd,
	"entra/provision":  entraProvisionCmd,
	"power/inventory":  powerInventoryCmd,
	"universal/assess": assessCmd,
}

func init() {
	for platform, categories := range registry.GetHierarchy() {
		for category, names := range categories {
			parent, ok := categoryParent[platform+"/"+category]
			if !ok {
				continue
			}
			for _, name := range names {
				entry, found := registry.GetEntry(platform, category, name)
				if !found {
					continue
				}
				RegisterModule(parent, entry)
			}
		}
	}
}

func RegisterModule(parent *cobra.Command, entry registry.Entry) {
	c := &cobra.Command{
		Use:   entry.Metadata.Id,
		Short: entry.Metadata.Description,
		Run: func(cmd *cobra.Command, args []string) {
			options := getOpts(cmd, entry.Options)
			run := modules.NewRun()
			m, err := entry.New(options, run)
			if err != nil {
				message.Critical("%s", err)
				os.Exit(1)
			}
			runModule(m, entry.Metadata, run)
		},
	}

	options2Flag(entry.Options, c)
	parent.AddCommand(c)
}
