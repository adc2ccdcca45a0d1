package entra

import (
	"context"
	"fmt"
	"strings"
	"time"

	msgraphsdk "github.com/microsoftgraph/msgraph-sdk-go"
	"github.com/tenantkit/tenantkit/internal/helpers"
	"github.com/tenantkit/tenantkit/internal/message"
	op "github.com/tenantkit/tenantkit/internal/output_providers"
	"github.com/tenantkit/tenantkit/internal/registry"
	"github.com/tenantkit/tenantkit/pkg/modules"
	"github.com/tenantkit/tenantkit/pkg/options"
	"github.com/tenantkit/tenantkit/pkg/types"
)

// ProvisionOutcome records what happened to a single template during a
// provisioning run.
type ProvisionOutcome struct {
	Policy string `json:"policy"`
	Action string `json:"action"`
	Detail string `json:"detail,omitempty"`
}

const (
	actionCreated = "created"
	actionSkipped = "skipped"
	actionPlanned = "planned"
	actionFailed  = "failed"
)

// ProvisionConditionalAccess creates conditional access policies from
// YAML templates, skipping any policy whose display name already exists.
type ProvisionConditionalAccess struct {
	modules.BaseModule
}

var ProvisionConditionalAccessMetadata = modules.Metadata{
	Id:          "conditional-access",
	Name:        "Provision Conditional Access",
	Description: "Create conditional access policies from YAML templates",
	Platform:    modules.Entra,
	Category:    "provision",
	Authors:     []string{"Tenantkit"},
	References: []string{
		"https://learn.microsoft.com/en-us/graph/api/conditionalaccessroot-post-policies",
	},
}

var ProvisionConditionalAccessOptions = []*types.Option{
	&options.TemplateDirOpt,
	&options.PolicyStateOpt,
	&options.DryRunOpt,
	&options.TenantOpt,
	&options.ClientIDOpt,
	&options.ClientSecretOpt,
	&options.CredentialFileOpt,
	&options.DeviceCodeOpt,
}

var ProvisionConditionalAccessOutputProviders = []func(options []*types.Option) types.OutputProvider{
	op.NewJsonFileProvider,
	op.NewConsoleProvider,
}

func init() {
	registry.Register(registry.Entry{
		Metadata: ProvisionConditionalAccessMetadata,
		Options:  ProvisionConditionalAccessOptions,
		New:      NewProvisionConditionalAccess,
	})
}

func NewProvisionConditionalAccess(opts []*types.Option, run modules.Run) (modules.Module, error) {
	return &ProvisionConditionalAccess{
		BaseModule: modules.BaseModule{
			Metadata:        ProvisionConditionalAccessMetadata,
			Options:         opts,
			Run:             run,
			OutputProviders: modules.RenderOutputProviders(ProvisionConditionalAccessOutputProviders, opts),
		},
	}, nil
}

func (m *ProvisionConditionalAccess) Invoke() error {
	defer close(m.Run.Data)

	ctx := context.Background()

	templates, err := m.loadTemplates()
	if err != nil {
		return err
	}

	state := options.Value(options.PolicyStateOpt.Name, m.Options)
	dryRun := options.Bool(options.DryRunOpt.Name, m.Options)

	client, _, err := helpers.NewGraphClient(m.Options)
	if err != nil {
		return err
	}

	existing, err := CollectPolicies(ctx, client)
	if err != nil {
		return err
	}
	existingNames := make(map[string]bool, len(existing))
	for _, policy := range existing {
		existingNames[strings.ToLower(policy.DisplayName)] = true
	}

	var outcomes []ProvisionOutcome
	for _, tmpl := range templates {
		outcome := m.provisionOne(ctx, client, tmpl, state, dryRun, existingNames)
		printOutcome(outcome)
		outcomes = append(outcomes, outcome)
	}

	filename := fmt.Sprintf("ca-provision-%s.json", time.Now().UTC().Format("20060102-150405"))
	m.Run.Data <- m.MakeResult(outcomes, types.WithFilename(filename))
	return nil
}

func (m *ProvisionConditionalAccess) loadTemplates() ([]*PolicyTemplate, error) {
	dir := options.Value(options.TemplateDirOpt.Name, m.Options)
	if dir == "" {
		message.Info("No template directory given, using built-in baseline templates")
		return LoadBaselineTemplates()
	}
	return LoadTemplateDir(dir)
}

func (m *ProvisionConditionalAccess) provisionOne(ctx context.Context, client *msgraphsdk.GraphServiceClient, tmpl *PolicyTemplate, state string, dryRun bool, existingNames map[string]bool) ProvisionOutcome {
	outcome := ProvisionOutcome{Policy: tmpl.Name}

	if existingNames[strings.ToLower(tmpl.Name)] {
		outcome.Action = actionSkipped
		outcome.Detail = "a policy with this display name already exists"
		return outcome
	}

	policy, err := BuildPolicy(tmpl, state)
	if err != nil {
		outcome.Action = actionFailed
		outcome.Detail = err.Error()
		return outcome
	}

	if dryRun {
		outcome.Action = actionPlanned
		outcome.Detail = fmt.Sprintf("would create policy in state %s", state)
		return outcome
	}

	if _, err := client.Identity().ConditionalAccess().Policies().Post(ctx, policy, nil); err != nil {
		outcome.Action = actionFailed
		outcome.Detail = err.Error()
		return outcome
	}

	outcome.Action = actionCreated
	outcome.Detail = fmt.Sprintf("created in state %s", state)
	return outcome
}

func printOutcome(outcome ProvisionOutcome) {
	switch outcome.Action {
	case actionCreated:
		message.Success("%s: %s", outcome.Policy, outcome.Detail)
	case actionPlanned:
		message.Info("[dry-run] %s: %s", outcome.Policy, outcome.Detail)
	case actionSkipped:
		message.Warning("%s: %s", outcome.Policy, outcome.Detail)
	case actionFailed:
		message.Error("%s: %s", outcome.Policy, outcome.Detail)
	}
}
