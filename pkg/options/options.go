package options

import (
	"regexp"

	"github.com/tenantkit/tenantkit/pkg/types"
)

var OutputOpt = types.Option{
	Name:        "output",
	Short:       "o",
	Description: "output directory",
	Required:    false,
	Type:        types.String,
	Value:       "output",
}

var FileNameOpt = types.Option{
	Name:        "filename",
	Short:       "f",
	Description: "output file name",
	Required:    false,
	Type:        types.String,
	Value:       "",
}

var JqOpt = types.Option{
	Name:        "jq",
	Description: "jq filter applied to JSON output",
	Required:    false,
	Type:        types.String,
	Value:       "",
}

var TenantOpt = types.Option{
	Name:        "tenant",
	Short:       "t",
	Description: "Microsoft 365 tenant ID",
	Required:    false,
	Type:        types.String,
	Value:       "",
	ValueFormat: regexp.MustCompile("^$|^[0-9A-Fa-f]{8}-([0-9A-Fa-f]{4}-){3}[0-9A-Fa-f]{12}$"),
}

var ClientIDOpt = types.Option{
	Name:        "client-id",
	Description: "app registration client ID for client-credential auth",
	Required:    false,
	Type:        types.String,
	Value:       "",
}

var ClientSecretOpt = types.Option{
	Name:        "client-secret",
	Description: "app registration client secret",
	Required:    false,
	Type:        types.String,
	Value:       "",
	Sensitive:   true,
}

var CredentialFileOpt = types.Option{
	Name:        "credential-file",
	Description: "KEY=VALUE file with TENANT_ID, CLIENT_ID, CLIENT_SECRET",
	Required:    false,
	Type:        types.String,
	Value:       "",
}

var DeviceCodeOpt = types.Option{
	Name:        "device-code",
	Description: "authenticate interactively with the device code flow",
	Required:    false,
	Type:        types.Bool,
	Value:       "false",
}

var ThresholdOpt = types.Option{
	Name:        "threshold",
	Description: "days before expiration that trigger a warning",
	Required:    false,
	Type:        types.Int,
	Value:       "30",
}

var WebhookOpt = types.Option{
	Name:        "webhook",
	Description: "Teams incoming-webhook URL for the summary card",
	Required:    false,
	Type:        types.String,
	Value:       "",
	Sensitive:   true,
}

var SleepEveryOpt = types.Option{
	Name:        "sleep-every",
	Description: "sleep one second after this many enumerated objects (0 disables)",
	Required:    false,
	Type:        types.Int,
	Value:       "0",
}
