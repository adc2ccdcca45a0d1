package entra

import (
	"context"
	"fmt"

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

// ConditionalAccessPolicyResult is the flattened projection of a CA policy
// used for inventory output.
type ConditionalAccessPolicyResult struct {
	ID               string                         `json:"id"`
	DisplayName      string                         `json:"displayName"`
	State            string                         `json:"state"`
	CreatedDateTime  string                         `json:"createdDateTime"`
	ModifiedDateTime string                         `json:"modifiedDateTime"`
	Conditions       *ConditionalAccessConditionSet `json:"conditions,omitempty"`
	GrantControls    *ConditionalAccessGrant        `json:"grantControls,omitempty"`
}

type ConditionalAccessConditionSet struct {
	Users            *ConditionalAccessUsers        `json:"users,omitempty"`
	Applications     *ConditionalAccessApplications `json:"applications,omitempty"`
	ClientAppTypes   []string                       `json:"clientAppTypes,omitempty"`
	SignInRiskLevels []string                       `json:"signInRiskLevels,omitempty"`
	UserRiskLevels   []string                       `json:"userRiskLevels,omitempty"`
}

type ConditionalAccessUsers struct {
	IncludeUsers  []string `json:"includeUsers,omitempty"`
	ExcludeUsers  []string `json:"excludeUsers,omitempty"`
	IncludeGroups []string `json:"includeGroups,omitempty"`
	ExcludeGroups []string `json:"excludeGroups,omitempty"`
	IncludeRoles  []string `json:"includeRoles,omitempty"`
	ExcludeRoles  []string `json:"excludeRoles,omitempty"`
}

type ConditionalAccessApplications struct {
	IncludeApplications []string `json:"includeApplications,omitempty"`
	ExcludeApplications []string `json:"excludeApplications,omitempty"`
	IncludeUserActions  []string `json:"includeUserActions,omitempty"`
}

type ConditionalAccessGrant struct {
	Operator        string   `json:"operator,omitempty"`
	BuiltInControls []string `json:"builtInControls,omitempty"`
}

// ConditionalAccessInventory pages every CA policy and flattens it.
type ConditionalAccessInventory struct {
	modules.BaseModule
}

var ConditionalAccessInventoryMetadata = modules.Metadata{
	Id:          "conditional-access",
	Name:        "Conditional Access Inventory",
	Description: "Export all conditional access policies",
	Platform:    modules.Entra,
	Category:    "inventory",
	Authors:     []string{"Tenantkit"},
	References: []string{
		"https://learn.microsoft.com/en-us/graph/api/conditionalaccessroot-list-policies",
	},
}

var ConditionalAccessInventoryOptions = []*types.Option{
	&options.FileNameOpt,
	&options.JqOpt,
	&options.TenantOpt,
	&options.ClientIDOpt,
	&options.ClientSecretOpt,
	&options.CredentialFileOpt,
	&options.DeviceCodeOpt,
}

var ConditionalAccessInventoryOutputProviders = []func(options []*types.Option) types.OutputProvider{
	op.NewJsonFileProvider,
	op.NewMarkdownFileProvider,
}

func init() {
	registry.Register(registry.Entry{
		Metadata: ConditionalAccessInventoryMetadata,
		Options:  ConditionalAccessInventoryOptions,
		New:      NewConditionalAccessInventory,
	})
}

func NewConditionalAccessInventory(opts []*types.Option, run modules.Run) (modules.Module, error) {
	return &ConditionalAccessInventory{
		BaseModule: modules.BaseModule{
			Metadata:        ConditionalAccessInventoryMetadata,
			Options:         opts,
			Run:             run,
			OutputProviders: modules.RenderOutputProviders(ConditionalAccessInventoryOutputProviders, opts),
		},
	}, nil
}

func (m *ConditionalAccessInventory) Invoke() error {
	defer close(m.Run.Data)

	ctx := context.Background()

	client, _, err := helpers.NewGraphClient(m.Options)
	if err != nil {
		return err
	}

	policies, err := CollectPolicies(ctx, client)
	if err != nil {
		return err
	}

	message.Info("Collected %d conditional access policies", len(policies))
	m.Run.Data <- m.MakeResult(policies)
	m.Run.Data <- m.MakeResult(policySummaryTable(policies))
	return nil
}

func policySummaryTable(policies []ConditionalAccessPolicyResult) types.MarkdownTable {
	table := types.MarkdownTable{
		TableHeading: "Conditional Access Policies",
		Headers:      []string{"Display Name", "State", "Modified"},
	}
	for _, policy := range policies {
		table.Rows = append(table.Rows, []string{
			policy.DisplayName, policy.State, policy.ModifiedDateTime,
		})
	}
	return table
}

// CollectPolicies pages every conditional access policy in the tenant.
func CollectPolicies(ctx context.Context, client *msgraphsdk.GraphServiceClient) ([]ConditionalAccessPolicyResult, error) {
	var allPolicies []ConditionalAccessPolicyResult

	result, err := client.Identity().ConditionalAccess().Policies().Get(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get conditional access policies: %w", err)
	}

	if result == nil {
		return allPolicies, nil
	}

	pageIterator, err := msgraphcore.NewPageIterator[graphmodels.ConditionalAccessPolicyable](
		result,
		client.GetAdapter(),
		graphmodels.CreateConditionalAccessPolicyCollectionResponseFromDiscriminatorValue)
	if err != nil {
		return nil, fmt.Errorf("failed to create page iterator: %w", err)
	}

	err = pageIterator.Iterate(ctx, func(policy graphmodels.ConditionalAccessPolicyable) bool {
		allPolicies = append(allPolicies, flattenPolicy(policy))
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate conditional access policies: %w", err)
	}

	return allPolicies, nil
}

func flattenPolicy(policy graphmodels.ConditionalAccessPolicyable) ConditionalAccessPolicyResult {
	flat := ConditionalAccessPolicyResult{
		ID:               stringValue(policy.GetId()),
		DisplayName:      stringValue(policy.GetDisplayName()),
		CreatedDateTime:  timeString(policy.GetCreatedDateTime()),
		ModifiedDateTime: timeString(policy.GetModifiedDateTime()),
	}

	if state := policy.GetState(); state != nil {
		flat.State = state.String()
	}

	if conditions := policy.GetConditions(); conditions != nil {
		set := &ConditionalAccessConditionSet{}

		if users := conditions.GetUsers(); users != nil {
			set.Users = &ConditionalAccessUsers{
				IncludeUsers:  users.GetIncludeUsers(),
				ExcludeUsers:  users.GetExcludeUsers(),
				IncludeGroups: users.GetIncludeGroups(),
				ExcludeGroups: users.GetExcludeGroups(),
				IncludeRoles:  users.GetIncludeRoles(),
				ExcludeRoles:  users.GetExcludeRoles(),
			}
		}

		if apps := conditions.GetApplications(); apps != nil {
			set.Applications = &ConditionalAccessApplications{
				IncludeApplications: apps.GetIncludeApplications(),
				ExcludeApplications: apps.GetExcludeApplications(),
				IncludeUserActions:  apps.GetIncludeUserActions(),
			}
		}

		for _, appType := range conditions.GetClientAppTypes() {
			set.ClientAppTypes = append(set.ClientAppTypes, appType.String())
		}
		for _, risk := range conditions.GetSignInRiskLevels() {
			set.SignInRiskLevels = append(set.SignInRiskLevels, risk.String())
		}
		for _, risk := range conditions.GetUserRiskLevels() {
			set.UserRiskLevels = append(set.UserRiskLevels, risk.String())
		}

		flat.Conditions = set
	}

	if grant := policy.GetGrantControls(); grant != nil {
		flatGrant := &ConditionalAccessGrant{
			Operator: stringValue(grant.GetOperator()),
		}
		for _, control := range grant.GetBuiltInControls() {
			flatGrant.BuiltInControls = append(flatGrant.BuiltInControls, control.String())
		}
		flat.GrantControls = flatGrant
	}

	return flat
}
