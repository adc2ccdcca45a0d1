// Package assess runs a battery of posture checks against a tenant and
// rolls the outcomes into a single report.
package assess

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	msgraphsdk "github.com/microsoftgraph/msgraph-sdk-go"
	"github.com/tenantkit/tenantkit/internal/helpers"
	"github.com/tenantkit/tenantkit/internal/message"
	op "github.com/tenantkit/tenantkit/internal/output_providers"
	"github.com/tenantkit/tenantkit/internal/registry"
	"github.com/tenantkit/tenantkit/pkg/modules"
	"github.com/tenantkit/tenantkit/pkg/modules/entra"
	"github.com/tenantkit/tenantkit/pkg/modules/intune"
	"github.com/tenantkit/tenantkit/pkg/options"
	"github.com/tenantkit/tenantkit/pkg/stages"
	"github.com/tenantkit/tenantkit/pkg/teams"
	"github.com/tenantkit/tenantkit/pkg/types"
)

// Baseline runs every posture check: conditional access coverage,
// security defaults, credential expiry and stale devices.
type Baseline struct {
	modules.BaseModule
}

var BaselineMetadata = modules.Metadata{
	Id:          "baseline",
	Name:        "Tenant Baseline Assessment",
	Description: "Run all posture checks and produce a combined report",
	Platform:    modules.Universal,
	Category:    "assess",
	Authors:     []string{"Tenantkit"},
	References: []string{
		"https://learn.microsoft.com/en-us/entra/identity/conditional-access/overview",
		"https://learn.microsoft.com/en-us/entra/fundamentals/security-defaults",
	},
}

var BaselineOptions = []*types.Option{
	&options.ThresholdOpt,
	&options.StaleDaysOpt,
	&options.WebhookOpt,
	&options.TenantOpt,
	&options.ClientIDOpt,
	&options.ClientSecretOpt,
	&options.CredentialFileOpt,
	&options.DeviceCodeOpt,
}

var BaselineOutputProviders = []func(options []*types.Option) types.OutputProvider{
	op.NewHtmlReportProvider,
	op.NewCsvFileProvider,
}

func init() {
	registry.Register(registry.Entry{
		Metadata: BaselineMetadata,
		Options:  BaselineOptions,
		New:      NewBaseline,
	})
}

func NewBaseline(opts []*types.Option, run modules.Run) (modules.Module, error) {
	return &Baseline{
		BaseModule: modules.BaseModule{
			Metadata:        BaselineMetadata,
			Options:         opts,
			Run:             run,
			OutputProviders: modules.RenderOutputProviders(BaselineOutputProviders, opts),
		},
	}, nil
}

func (m *Baseline) Invoke() error {
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

	report := types.Report{
		Title:     "Tenant Baseline Assessment",
		RunID:     uuid.NewString(),
		Tenant:    tenantName,
		Generated: now,
	}

	message.Section("Conditional access")
	if err := m.checkConditionalAccess(ctx, client, &report, now); err != nil {
		return err
	}

	message.Section("Expiring credentials")
	if err := m.checkExpirations(ctx, client, &report, now); err != nil {
		return err
	}

	message.Section("Stale devices")
	if err := m.checkStaleDevices(ctx, client, &report, now); err != nil {
		return err
	}

	summary := report.Summarize()
	message.Section("Summary")
	message.Info("%d checks: %d pass, %d warning, %d fail",
		summary.Total(), summary.Pass, summary.Warning, summary.Fail)

	if webhook := options.Value(options.WebhookOpt.Name, m.Options); webhook != "" {
		if err := teams.NewNotifier(webhook).Post(ctx, teams.CardForReport(report)); err != nil {
			message.Error("Teams notification failed: %v", err)
		}
	}

	m.Run.Data <- m.MakeResult(report)
	return nil
}

func (m *Baseline) checkConditionalAccess(ctx context.Context, client *msgraphsdk.GraphServiceClient, report *types.Report, now time.Time) error {
	templates, err := entra.LoadBaselineTemplates()
	if err != nil {
		return err
	}

	policies, err := entra.CollectPolicies(ctx, client)
	if err != nil {
		return err
	}

	securityDefaults := false
	sdPolicy, err := client.Policies().IdentitySecurityDefaultsEnforcementPolicy().Get(ctx, nil)
	if err != nil {
		message.Warning("Security defaults policy not readable: %v", err)
	} else if sdPolicy != nil && sdPolicy.GetIsEnabled() != nil {
		securityDefaults = *sdPolicy.GetIsEnabled()
	}

	for _, result := range caCoverageResults(templates, policies, now) {
		printResult(result)
		report.Add(result)
	}

	result := securityDefaultsResult(securityDefaults, enabledPolicyCount(policies), now)
	printResult(result)
	report.Add(result)
	return nil
}

func (m *Baseline) checkExpirations(ctx context.Context, client *msgraphsdk.GraphServiceClient, report *types.Report, now time.Time) error {
	var resources []modules.ExpiringResource

	appCreds, err := entra.CollectAppCredentials(ctx, client)
	if err != nil {
		return err
	}
	resources = append(resources, appCreds...)

	if cert, err := intune.CollectPushCertificate(ctx, client); err != nil {
		message.Warning("Apple MDM push certificate not readable: %v", err)
	} else if cert != nil {
		resources = append(resources, *cert)
	}

	if vpp, err := intune.CollectVppTokens(ctx, client); err != nil {
		message.Warning("VPP tokens not readable: %v", err)
	} else {
		resources = append(resources, vpp...)
	}

	pipeline, err := stages.ChainStages[modules.ExpiringResource, types.TestResult](
		modules.ClassifyStage(now),
	)
	if err != nil {
		return err
	}

	for result := range pipeline(ctx, m.Options, stages.Generator(resources)) {
		printResult(result)
		report.Add(result)
	}
	return nil
}

func (m *Baseline) checkStaleDevices(ctx context.Context, client *msgraphsdk.GraphServiceClient, report *types.Report, now time.Time) error {
	rows, err := intune.CollectManagedDevices(ctx, client, 0)
	if err != nil {
		return err
	}

	staleDays := options.Int(options.StaleDaysOpt.Name, m.Options, 90)
	result := staleDeviceResult(rows, staleDays, now)
	printResult(result)
	report.Add(result)
	return nil
}

// caCoverageResults matches every baseline template against the deployed
// policies by display name. A deployed and enabled policy passes, a policy
// that exists in any other state warns, a missing policy fails.
func caCoverageResults(templates []*entra.PolicyTemplate, policies []entra.ConditionalAccessPolicyResult, now time.Time) []types.TestResult {
	byName := make(map[string]entra.ConditionalAccessPolicyResult, len(policies))
	for _, policy := range policies {
		byName[strings.ToLower(policy.DisplayName)] = policy
	}

	var results []types.TestResult
	for _, tmpl := range templates {
		result := types.TestResult{
			Category:  "Conditional Access Coverage",
			Name:      tmpl.Name,
			Timestamp: now,
		}

		policy, found := byName[strings.ToLower(tmpl.Name)]
		switch {
		case !found:
			result.Status = types.StatusFail
			result.Details = "no policy with this name is deployed"
		case policy.State == "enabled":
			result.Status = types.StatusPass
			result.Details = "deployed and enabled"
		default:
			result.Status = types.StatusWarning
			result.Details = fmt.Sprintf("deployed but in state %s", policy.State)
		}
		results = append(results, result)
	}
	return results
}

func enabledPolicyCount(policies []entra.ConditionalAccessPolicyResult) int {
	count := 0
	for _, policy := range policies {
		if policy.State == "enabled" {
			count++
		}
	}
	return count
}

// securityDefaultsResult passes when either security defaults or at least
// one enabled conditional access policy protects the tenant.
func securityDefaultsResult(securityDefaults bool, enabledPolicies int, now time.Time) types.TestResult {
	result := types.TestResult{
		Category:  "Security Defaults",
		Name:      "Tenant protection",
		Timestamp: now,
	}

	switch {
	case securityDefaults:
		result.Status = types.StatusPass
		result.Details = "security defaults are enabled"
	case enabledPolicies > 0:
		result.Status = types.StatusPass
		result.Details = fmt.Sprintf("security defaults off, %d enabled conditional access policies", enabledPolicies)
	default:
		result.Status = types.StatusFail
		result.Details = "neither security defaults nor any enabled conditional access policy"
	}
	return result
}

// staleDeviceResult counts devices whose last sync is older than staleDays.
// Devices that never synced count as stale.
func staleDeviceResult(rows types.ExportRows, staleDays int, now time.Time) types.TestResult {
	cutoff := now.AddDate(0, 0, -staleDays)

	stale := 0
	for _, row := range rows {
		lastSync, err := time.Parse(time.RFC3339, row["LastSyncDateTime"])
		if err != nil || lastSync.Before(cutoff) {
			stale++
		}
	}

	result := types.TestResult{
		Category:  "Device Hygiene",
		Name:      "Stale managed devices",
		Timestamp: now,
		Data:      map[string]int{"total": len(rows), "stale": stale},
	}

	if stale == 0 {
		result.Status = types.StatusPass
		result.Details = fmt.Sprintf("all %d devices synced within %d days", len(rows), staleDays)
	} else {
		result.Status = types.StatusWarning
		result.Details = fmt.Sprintf("%d of %d devices have not synced in %d days", stale, len(rows), staleDays)
	}
	return result
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
