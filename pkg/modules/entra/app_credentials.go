package entra

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	msgraphsdk "github.com/microsoftgraph/msgraph-sdk-go"
	msgraphcore "github.com/microsoftgraph/msgraph-sdk-go-core"
	"github.com/microsoftgraph/msgraph-sdk-go/applications"
	graphmodels "github.com/microsoftgraph/msgraph-sdk-go/models"
	"github.com/tenantkit/tenantkit/internal/helpers"
	"github.com/tenantkit/tenantkit/internal/message"
	op "github.com/tenantkit/tenantkit/internal/output_providers"
	"github.com/tenantkit/tenantkit/internal/registry"
	"github.com/tenantkit/tenantkit/pkg/modules"
	"github.com/tenantkit/tenantkit/pkg/options"
	"github.com/tenantkit/tenantkit/pkg/stages"
	"github.com/tenantkit/tenantkit/pkg/teams"
	"github.com/tenantkit/tenantkit/pkg/types"
)

// AppCredentials checks every app registration secret and certificate for
// approaching expiration.
type AppCredentials struct {
	modules.BaseModule
}

var AppCredentialsMetadata = modules.Metadata{
	Id:          "app-credentials",
	Name:        "App Credential Monitor",
	Description: "Check app registration secrets and certificates for expiration",
	Platform:    modules.Entra,
	Category:    "monitor",
	Authors:     []string{"Tenantkit"},
	References: []string{
		"https://learn.microsoft.com/en-us/graph/api/application-list",
	},
}

var AppCredentialsOptions = []*types.Option{
	&options.ThresholdOpt,
	&options.WebhookOpt,
	&options.TenantOpt,
	&options.ClientIDOpt,
	&options.ClientSecretOpt,
	&options.CredentialFileOpt,
	&options.DeviceCodeOpt,
}

var AppCredentialsOutputProviders = []func(options []*types.Option) types.OutputProvider{
	op.NewHtmlReportProvider,
	op.NewCsvFileProvider,
}

func init() {
	registry.Register(registry.Entry{
		Metadata: AppCredentialsMetadata,
		Options:  AppCredentialsOptions,
		New:      NewAppCredentials,
	})
}

func NewAppCredentials(opts []*types.Option, run modules.Run) (modules.Module, error) {
	return &AppCredentials{
		BaseModule: modules.BaseModule{
			Metadata:        AppCredentialsMetadata,
			Options:         opts,
			Run:             run,
			OutputProviders: modules.RenderOutputProviders(AppCredentialsOutputProviders, opts),
		},
	}, nil
}

func (m *AppCredentials) Invoke() error {
	defer close(m.Run.Data)

	ctx := context.Background()
	now := time.Now().UTC()

	client, _, err := helpers.NewGraphClient(m.Options)
	if err != nil {
		return err
	}

	tenantName, _, err := helpers.GetTenantDetails(ctx, client)
	if err != nil {
		return err
	}

	resources, err := CollectAppCredentials(ctx, client)
	if err != nil {
		return err
	}

	pipeline, err := stages.ChainStages[modules.ExpiringResource, types.TestResult](
		modules.ClassifyStage(now),
	)
	if err != nil {
		return err
	}

	report := types.Report{
		Title:     "App Credential Expiration",
		RunID:     uuid.NewString(),
		Tenant:    tenantName,
		Generated: now,
	}

	for result := range pipeline(ctx, m.Options, stages.Generator(resources)) {
		report.Add(result)
	}

	summary := report.Summarize()
	message.Info("Checked %d credentials: %d pass, %d warning, %d fail",
		summary.Total(), summary.Pass, summary.Warning, summary.Fail)

	if webhook := options.Value(options.WebhookOpt.Name, m.Options); webhook != "" {
		if err := teams.NewNotifier(webhook).Post(ctx, teams.CardForReport(report)); err != nil {
			message.Error("Teams notification failed: %v", err)
		}
	}

	m.Run.Data <- m.MakeResult(report)
	return nil
}

// CollectAppCredentials returns one expiring resource per secret or
// certificate across every app registration.
func CollectAppCredentials(ctx context.Context, client *msgraphsdk.GraphServiceClient) ([]modules.ExpiringResource, error) {
	requestConfig := &applications.ApplicationsRequestBuilderGetRequestConfiguration{
		QueryParameters: &applications.ApplicationsRequestBuilderGetQueryParameters{
			Select: []string{"id", "appId", "displayName", "passwordCredentials", "keyCredentials"},
			Top:    int32Ptr(999),
		},
	}

	result, err := client.Applications().Get(ctx, requestConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}

	pageIterator, err := msgraphcore.NewPageIterator[graphmodels.Applicationable](
		result,
		client.GetAdapter(),
		graphmodels.CreateApplicationCollectionResponseFromDiscriminatorValue)
	if err != nil {
		return nil, fmt.Errorf("failed to create page iterator: %w", err)
	}

	var resources []modules.ExpiringResource
	err = pageIterator.Iterate(ctx, func(app graphmodels.Applicationable) bool {
		appName := stringValue(app.GetDisplayName())

		for _, secret := range app.GetPasswordCredentials() {
			if secret.GetEndDateTime() == nil {
				continue
			}
			resources = append(resources, modules.ExpiringResource{
				Category:   "App Secrets",
				Name:       credentialName(appName, stringValue(secret.GetDisplayName()), secret.GetKeyId()),
				Expiration: *secret.GetEndDateTime(),
			})
		}

		for _, cert := range app.GetKeyCredentials() {
			if cert.GetEndDateTime() == nil {
				continue
			}
			resources = append(resources, modules.ExpiringResource{
				Category:   "App Certificates",
				Name:       credentialName(appName, stringValue(cert.GetDisplayName()), cert.GetKeyId()),
				Expiration: *cert.GetEndDateTime(),
			})
		}

		return true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate applications: %w", err)
	}

	return resources, nil
}

func credentialName(app, credential string, keyID *uuid.UUID) string {
	if credential == "" && keyID != nil {
		credential = keyID.String()
	}
	if credential == "" {
		credential = "unnamed"
	}
	return fmt.Sprintf("%s / %s", app, credential)
}
