package options

import (
	"github.com/tenantkit/tenantkit/pkg/types"
)

// Intune module options

var RenamePatternOpt = types.Option{
	Name:        "pattern",
	Short:       "p",
	Description: "device name pattern, placeholders: {serial} {user} {type} {seq}",
	Required:    true,
	Type:        types.String,
	Value:       "",
}

var DryRunOpt = types.Option{
	Name:        "dry-run",
	Description: "report what would change without calling the rename action",
	Required:    false,
	Type:        types.Bool,
	Value:       "true",
}

var DeleteOpt = types.Option{
	Name:        "delete",
	Description: "delete flagged duplicate apps instead of only reporting them",
	Required:    false,
	Type:        types.Bool,
	Value:       "false",
}

var StaleDaysOpt = types.Option{
	Name:        "stale-days",
	Description: "days without a check-in before a device counts as stale",
	Required:    false,
	Type:        types.Int,
	Value:       "90",
}

// Entra module options

var TemplateDirOpt = types.Option{
	Name:        "templates",
	Description: "directory of conditional access policy templates (defaults to the built-in baseline set)",
	Required:    false,
	Type:        types.String,
	Value:       "",
}

var PolicyStateOpt = types.Option{
	Name:        "state",
	Description: "state for provisioned policies",
	Required:    false,
	Type:        types.String,
	Value:       "enabledForReportingButNotEnforced",
	ValueList:   []string{"enabled", "disabled", "enabledForReportingButNotEnforced"},
}

// Power Platform module options

var EnvironmentOpt = types.Option{
	Name:        "environment",
	Short:       "e",
	Description: "Power Platform environment name (all environments when empty)",
	Required:    false,
	Type:        types.String,
	Value:       "",
}
