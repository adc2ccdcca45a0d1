package power

import (
	"context"

	"github.com/tenantkit/tenantkit/internal/message"
	op "github.com/tenantkit/tenantkit/internal/output_providers"
	"github.com/tenantkit/tenantkit/internal/registry"
	"github.com/tenantkit/tenantkit/pkg/modules"
	"github.com/tenantkit/tenantkit/pkg/options"
	"github.com/tenantkit/tenantkit/pkg/powerplatform"
	"github.com/tenantkit/tenantkit/pkg/types"
)

// Flows exports Power Automate flows across one or all environments.
type Flows struct {
	modules.BaseModule
}

var FlowsMetadata = modules.Metadata{
	Id:          "flows",
	Name:        "Power Automate Flows",
	Description: "Export Power Automate flows with their owners and state",
	Platform:    modules.Power,
	Category:    "inventory",
	Authors:     []string{"Tenantkit"},
	References: []string{
		"https://learn.microsoft.com/en-us/power-automate/admin-manage-flows",
	},
}

var FlowsOptions = []*types.Option{
	&options.FileNameOpt,
	&options.EnvironmentOpt,
	&options.TenantOpt,
	&options.ClientIDOpt,
	&options.ClientSecretOpt,
	&options.CredentialFileOpt,
}

var FlowsOutputProviders = []func(options []*types.Option) types.OutputProvider{
	op.NewCsvFileProvider,
	op.NewJsonFileProvider,
}

func init() {
	registry.Register(registry.Entry{
		Metadata: FlowsMetadata,
		Options:  FlowsOptions,
		New:      NewFlows,
	})
}

func NewFlows(opts []*types.Option, run modules.Run) (modules.Module, error) {
	return &Flows{
		BaseModule: modules.BaseModule{
			Metadata:        FlowsMetadata,
			Options:         opts,
			Run:             run,
			OutputProviders: modules.RenderOutputProviders(FlowsOutputProviders, opts),
		},
	}, nil
}

func (m *Flows) Invoke() error {
	defer close(m.Run.Data)

	ctx := context.Background()

	client, err := newPowerClient(ctx, m.Options)
	if err != nil {
		return err
	}

	environments, err := targetEnvironments(ctx, client, m.Options)
	if err != nil {
		return err
	}

	var rows types.ExportRows
	for _, env := range environments {
		flows, err := client.Flows(ctx, env)
		if err != nil {
			// keep going, one environment should not sink the whole run
			message.Warning("Failed to list flows in %s: %s", env, err)
			continue
		}
		for _, flow := range flows {
			rows = append(rows, flowRow(env, flow))
		}
	}

	message.Info("Enumerated %d flows across %d environments", len(rows), len(environments))
	m.Run.Data <- m.MakeResult(rows)
	return nil
}

func flowRow(environment string, flow powerplatform.Flow) types.ExportRow {
	return types.ExportRow{
		"Environment":      environment,
		"Name":             flow.Name,
		"DisplayName":      flow.Properties.DisplayName,
		"State":            flow.Properties.State,
		"Creator":          flow.Properties.Creator.DisplayName,
		"CreatedTime":      timeValue(flow.Properties.CreatedTime),
		"LastModifiedTime": timeValue(flow.Properties.LastModifiedTime),
	}
}
