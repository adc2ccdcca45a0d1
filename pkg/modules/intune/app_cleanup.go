package intune

import (
	"context"
	"fmt"
	"sort"
	"time"

	msgraphsdk "github.com/microsoftgraph/msgraph-sdk-go"
	msgraphcore "github.com/microsoftgraph/msgraph-sdk-go-core"
	graphmodels "github.com/microsoftgraph/msgraph-sdk-go/models"
	"github.com/tenantkit/tenantkit/internal/helpers"
	"github.com/tenantkit/tenantkit/internal/message"
	op "github.com/tenantkit/tenantkit/internal/output_providers"
	"github.com/tenantkit/tenantkit/internal/registry"
	"github.com/tenantkit/tenantkit/pkg/modules"
	"github.com/tenantkit/tenantkit/pkg/options"
	"github.com/tenantkit/tenantkit/pkg/types"
)

// AppCleanup flags superseded duplicate versions of Intune mobile apps.
// Deletion only happens with --delete; the default run is report-only.
type AppCleanup struct {
	modules.BaseModule
}

var AppCleanupMetadata = modules.Metadata{
	Id:          "apps",
	Name:        "Mobile App Cleanup",
	Description: "Flag or delete superseded duplicate mobile app versions",
	Platform:    modules.Intune,
	Category:    "cleanup",
	Authors:     []string{"Tenantkit"},
	References: []string{
		"https://learn.microsoft.com/en-us/graph/api/intune-apps-mobileapp-list",
	},
}

var AppCleanupOptions = []*types.Option{
	&options.DeleteOpt,
	&options.TenantOpt,
	&options.ClientIDOpt,
	&options.ClientSecretOpt,
	&options.CredentialFileOpt,
	&options.DeviceCodeOpt,
}

var AppCleanupOutputProviders = []func(options []*types.Option) types.OutputProvider{
	op.NewCsvFileProvider,
	op.NewJsonFileProvider,
}

func init() {
	registry.Register(registry.Entry{
		Metadata: AppCleanupMetadata,
		Options:  AppCleanupOptions,
		New:      NewAppCleanup,
	})
}

func NewAppCleanup(opts []*types.Option, run modules.Run) (modules.Module, error) {
	return &AppCleanup{
		BaseModule: modules.BaseModule{
			Metadata:        AppCleanupMetadata,
			Options:         opts,
			Run:             run,
			OutputProviders: modules.RenderOutputProviders(AppCleanupOutputProviders, opts),
		},
	}, nil
}

// appInfo is the projection of a mobile app used for duplicate grouping.
type appInfo struct {
	ID          string
	DisplayName string
	Publisher   string
	Created     time.Time
}

func (m *AppCleanup) Invoke() error {
	defer close(m.Run.Data)

	ctx := context.Background()

	client, _, err := helpers.NewGraphClient(m.Options)
	if err != nil {
		return err
	}

	apps, err := collectMobileApps(ctx, client)
	if err != nil {
		return err
	}

	candidates := FindSupersededApps(apps)
	message.Info("Found %d superseded app versions out of %d apps", len(candidates), len(apps))

	doDelete := options.Bool(options.DeleteOpt.Name, m.Options)

	var rows types.ExportRows
	for _, app := range candidates {
		row := types.ExportRow{
			"Id":          app.ID,
			"DisplayName": app.DisplayName,
			"Publisher":   app.Publisher,
			"Created":     app.Created.Format(time.RFC3339),
			"Deleted":     "false",
		}

		if doDelete {
			err := client.DeviceAppManagement().MobileApps().ByMobileAppId(app.ID).Delete(ctx, nil)
			if err != nil {
				message.Error("Failed to delete %s (%s): %v", app.DisplayName, app.ID, err)
			} else {
				message.Success("Deleted %s (%s)", app.DisplayName, app.ID)
				row["Deleted"] = "true"
			}
		} else {
			message.Warning("Superseded: %s published %s", app.DisplayName, app.Created.Format("2006-01-02"))
		}

		rows = append(rows, row)
	}

	m.Run.Data <- m.MakeResult(rows)
	return nil
}

func collectMobileApps(ctx context.Context, client *msgraphsdk.GraphServiceClient) ([]appInfo, error) {
	result, err := client.DeviceAppManagement().MobileApps().Get(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list mobile apps: %w", err)
	}

	pageIterator, err := msgraphcore.NewPageIterator[graphmodels.MobileAppable](
		result,
		client.GetAdapter(),
		graphmodels.CreateMobileAppCollectionResponseFromDiscriminatorValue)
	if err != nil {
		return nil, fmt.Errorf("failed to create page iterator: %w", err)
	}

	var apps []appInfo
	err = pageIterator.Iterate(ctx, func(app graphmodels.MobileAppable) bool {
		apps = append(apps, appInfo{
			ID:          stringValue(app.GetId()),
			DisplayName: stringValue(app.GetDisplayName()),
			Publisher:   stringValue(app.GetPublisher()),
			Created:     timeValue(app.GetCreatedDateTime()),
		})
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate mobile apps: %w", err)
	}

	return apps, nil
}

// FindSupersededApps groups apps by display name and publisher and returns
// every version except the most recently created one of each group.
func FindSupersededApps(apps []appInfo) []appInfo {
	groups := make(map[string][]appInfo)
	for _, app := range apps {
		key := app.DisplayName + "\x00" + app.Publisher
		groups[key] = append(groups[key], app)
	}

	var superseded []appInfo
	for _, group := range groups {
		if len(group) < 2 {
			continue
		}
		sort.Slice(group, func(i, j int) bool {
			return group[i].Created.After(group[j].Created)
		})
		superseded = append(superseded, group[1:]...)
	}

	sort.Slice(superseded, func(i, j int) bool {
		if superseded[i].DisplayName != superseded[j].DisplayName {
			return superseded[i].DisplayName < superseded[j].DisplayName
		}
		return superseded[i].Created.Before(superseded[j].Created)
	})

	return superseded
}
