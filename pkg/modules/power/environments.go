package power

import (
	"context"
	"strconv"

	"github.com/tenantkit/tenantkit/internal/message"
	op "github.com/tenantkit/tenantkit/internal/output_providers"
	"github.com/tenantkit/tenantkit/internal/registry"
	"github.com/tenantkit/tenantkit/pkg/modules"
	"github.com/tenantkit/tenantkit/pkg/options"
	"github.com/tenantkit/tenantkit/pkg/powerplatform"
	"github.com/tenantkit/tenantkit/pkg/types"
)

// Environments exports every Power Platform environment as flat rows.
type Environments struct {
	modules.BaseModule
}

var EnvironmentsMetadata = modules.Metadata{
	Id:          "environments",
	Name:        "Power Platform Environments",
	Description: "Export all Power Platform environments",
	Platform:    modules.Power,
	Category:    "inventory",
	Authors:     []string{"Tenantkit"},
	References: []string{
		"https://learn.microsoft.com/en-us/power-platform/admin/environments-overview",
	},
}

var EnvironmentsOptions = []*types.Option{
	&options.FileNameOpt,
	&options.TenantOpt,
	&options.ClientIDOpt,
	&options.ClientSecretOpt,
	&options.CredentialFileOpt,
}

var EnvironmentsOutputProviders = []func(options []*types.Option) types.OutputProvider{
	op.NewCsvFileProvider,
	op.NewJsonFileProvider,
}

func init() {
	registry.Register(registry.Entry{
		Metadata: EnvironmentsMetadata,
		Options:  EnvironmentsOptions,
		New:      NewEnvironments,
	})
}

func NewEnvironments(opts []*types.Option, run modules.Run) (modules.Module, error) {
	return &Environments{
		BaseModule: modules.BaseModule{
			Metadata:        EnvironmentsMetadata,
			Options:         opts,
			Run:             run,
			OutputProviders: modules.RenderOutputProviders(EnvironmentsOutputProviders, opts),
		},
	}, nil
}

func (m *Environments) Invoke() error {
	defer close(m.Run.Data)

	ctx := context.Background()

	client, err := newPowerClient(ctx, m.Options)
	if err != nil {
		return err
	}

	environments, err := client.Environments(ctx)
	if err != nil {
		return err
	}

	rows := make(types.ExportRows, 0, len(environments))
	for _, env := range environments {
		rows = append(rows, environmentRow(env))
	}

	message.Info("Enumerated %d environments", len(rows))
	m.Run.Data <- m.MakeResult(rows)
	return nil
}

func environmentRow(env powerplatform.Environment) types.ExportRow {
	return types.ExportRow{
		"Name":        env.Name,
		"DisplayName": env.Properties.DisplayName,
		"Location":    env.Location,
		"Sku":         env.Properties.EnvironmentSku,
		"IsDefault":   strconv.FormatBool(env.Properties.IsDefault),
		"CreatedTime": timeValue(env.Properties.CreatedTime),
		"CreatedBy":   env.Properties.CreatedBy.DisplayName,
	}
}
