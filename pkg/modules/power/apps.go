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

// Apps exports canvas apps across one or all environments.
type Apps struct {
	modules.BaseModule
}

var AppsMetadata = modules.Metadata{
	Id:          "apps",
	Name:        "Power Apps Inventory",
	Description: "Export canvas apps with their owners",
	Platform:    modules.Power,
	Category:    "inventory",
	Authors:     []string{"Tenantkit"},
	References: []string{
		"https://learn.microsoft.com/en-us/power-apps/maker/canvas-apps/getting-started",
	},
}

var AppsOptions = []*types.Option{
	&options.FileNameOpt,
	&options.EnvironmentOpt,
	&options.TenantOpt,
	&options.ClientIDOpt,
	&options.ClientSecretOpt,
	&options.CredentialFileOpt,
}

var AppsOutputProviders = []func(options []*types.Option) types.OutputProvider{
	op.NewCsvFileProvider,
	op.NewJsonFileProvider,
}

func init() {
	registry.Register(registry.Entry{
		Metadata: AppsMetadata,
		Options:  AppsOptions,
		New:      NewApps,
	})
}

func NewApps(opts []*types.Option, run modules.Run) (modules.Module, error) {
	return &Apps{
		BaseModule: modules.BaseModule{
			Metadata:        AppsMetadata,
			Options:         opts,
			Run:             run,
			OutputProviders: modules.RenderOutputProviders(AppsOutputProviders, opts),
		},
	}, nil
}

func (m *Apps) Invoke() error {
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
		apps, err := client.Apps(ctx, env)
		if err != nil {
			message.Warning("Failed to list apps in %s: %s", env, err)
			continue
		}
		for _, app := range apps {
			rows = append(rows, appRow(env, app))
		}
	}

	message.Info("Enumerated %d apps across %d environments", len(rows), len(environments))
	m.Run.Data <- m.MakeResult(rows)
	return nil
}

func appRow(environment string, app powerplatform.App) types.ExportRow {
	return types.ExportRow{
		"Environment":      environment,
		"Name":             app.Name,
		"DisplayName":      app.Properties.DisplayName,
		"Owner":            app.Properties.Owner.DisplayName,
		"CreatedTime":      timeValue(app.Properties.CreatedTime),
		"LastModifiedTime": timeValue(app.Properties.LastModifiedTime),
	}
}
