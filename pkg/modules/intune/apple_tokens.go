package intune

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	msgraphsdk "github.com/microsoftgraph/msgraph-sdk-go"
	msgraphcore "github.com/microsoftgraph/msgraph-sdk-go-core"
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

// AppleTokens checks the Apple MDM push certificate and every VPP token for
// approaching expiration.
type AppleTokens struct {
	modules.BaseModule
}

var AppleTokensMetadata = modules.Metadata{
	Id:          "apple-tokens",
	Name:        "Apple Token Monitor",
	Description: "Check Apple MDM push certificate and VPP token expiration",
	Platform:    modules.Intune,
	Category:    "monitor",
	Authors:     []string{"Tenantkit"},
	References: []string{
		"https://learn.microsoft.com/en-us/graph/api/intune-devices-applepushnotificationcertificate-get",
		"https://learn.microsoft.com/en-us/graph/api/intune-onboarding-vpptoken-list",
	},
}

var AppleTokensOptions = []*types.Option{
	&options.ThresholdOpt,
	&options.WebhookOpt,
	&options.TenantOpt,
	&options.ClientIDOpt,
	&options.ClientSecretOpt,
	&options.CredentialFileOpt,
	&options.DeviceCodeOpt,
}

var AppleTokensOutputProviders = []func(options []*types.Option) types.OutputProvider{
	op.NewHtmlReportProvider,
	op.NewCsvFileProvider,
}

func init() {
	registry.Register(registry.Entry{
		Metadata: AppleTokensMetadata,
		Options:  AppleTokensOptions,
		New:      NewAppleTokens,
	})
}

func NewAppleTokens(opts []*types.Option, run modules.Run) (modules.Module, error) {
	return &AppleTokens{
		BaseModule: modules.BaseModule{
			Metadata:        AppleTokensMetadata,
			Options:         opts,
			Run:             run,
			OutputProviders: modules.RenderOutputProviders(AppleTokensOutputProviders, opts),
		},
	}, nil
}

func (m *AppleTokens) Invoke() error {
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

	var resources []modules.ExpiringResource

	if cert, err := CollectPushCertificate(ctx, client); err != nil {
		message.Warning("Apple MDM push certificate not readable: %v", err)
	} else if cert != nil {
		resources = append(resources, *cert)
	}

	vpp, err := CollectVppTokens(ctx, client)
	if err != nil {
		return err
	}
	resources = append(resources, vpp...)

	if len(resources) == 0 {
		message.Warning("No Apple tokens found in tenant %s", tenantName)
	}

	pipeline, err := stages.ChainStages[modules.ExpiringResource, types.TestResult](
		modules.ClassifyStage(now),
	)
	if err != nil {
		return err
	}

	report := types.Report{
		Title:     "Apple Token Expiration",
		RunID:     uuid.NewString(),
		Tenant:    tenantName,
		Generated: now,
	}

	for result := range pipeline(ctx, m.Options, stages.Generator(resources)) {
		printResult(result)
		report.Add(result)
	}

	if webhook := options.Value(options.WebhookOpt.Name, m.Options); webhook != "" {
		if err := teams.NewNotifier(webhook).Post(ctx, teams.CardForReport(report)); err != nil {
			message.Error("Teams notification failed: %v", err)
		}
	}

	m.Run.Data <- m.MakeResult(report)
	return nil
}

func CollectPushCertificate(ctx context.Context, client *msgraphsdk.GraphServiceClient) (*modules.ExpiringResource, error) {
	cert, err := client.DeviceManagement().ApplePushNotificationCertificate().Get(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get Apple MDM push certificate: %w", err)
	}
	if cert == nil || cert.GetExpirationDateTime() == nil {
		return nil, nil
	}

	name := stringValue(cert.GetAppleIdentifier())
	if name == "" {
		name = "MDM push certificate"
	}

	return &modules.ExpiringResource{
		Category:   "Apple MDM Push Certificate",
		Name:       name,
		Expiration: *cert.GetExpirationDateTime(),
	}, nil
}

func CollectVppTokens(ctx context.Context, client *msgraphsdk.GraphServiceClient) ([]modules.ExpiringResource, error) {
	result, err := client.DeviceAppManagement().VppTokens().Get(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list VPP tokens: %w", err)
	}

	pageIterator, err := msgraphcore.NewPageIterator[graphmodels.VppTokenable](
		result,
		client.GetAdapter(),
		graphmodels.CreateVppTokenCollectionResponseFromDiscriminatorValue)
	if err != nil {
		return nil, fmt.Errorf("failed to create page iterator: %w", err)
	}

	var resources []modules.ExpiringResource
	err = pageIterator.Iterate(ctx, func(token graphmodels.VppTokenable) bool {
		if token.GetExpirationDateTime() == nil {
			return true
		}
		name := stringValue(token.GetOrganizationName())
		if name == "" {
			name = stringValue(token.GetAppleId())
		}
		resources = append(resources, modules.ExpiringResource{
			Category:   "Apple VPP Tokens",
			Name:       name,
			Expiration: *token.GetExpirationDateTime(),
		})
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate VPP tokens: %w", err)
	}

	return resources, nil
}

func printResult(result types.TestResult) {
	switch result.Status {
	case types.StatusFail:
		message.Error("%s: %s (%s)", result.Category, result.Name, result.Details)
	case types.StatusWarning:
		message.Warning("%s: %s (%s)", result.Category, result.Name, result.Details)
	default:
		message.Success("%s: %s (%s)", result.Category, result.Name, result.Details)
	}
}
