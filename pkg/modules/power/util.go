package power

import (
	"context"
	"fmt"
	"time"

	"github.com/tenantkit/tenantkit/internal/helpers"
	"github.com/tenantkit/tenantkit/pkg/options"
	"github.com/tenantkit/tenantkit/pkg/powerplatform"
	"github.com/tenantkit/tenantkit/pkg/types"
)

// newPowerClient builds an admin API client from the resolved credentials.
// The Power Platform admin endpoints sit outside Microsoft Graph and only
// support the client credentials flow, so the full triple is required.
func newPowerClient(ctx context.Context, opts []*types.Option) (*powerplatform.Client, error) {
	creds, err := helpers.ResolveCredentials(opts)
	if err != nil {
		return nil, err
	}
	if creds.TenantID == "" || creds.ClientID == "" || creds.ClientSecret == "" {
		return nil, fmt.Errorf("power platform modules require tenant, client-id and client-secret (or a credential file)")
	}
	return powerplatform.NewClient(ctx, creds.TenantID, creds.ClientID, creds.ClientSecret), nil
}

// targetEnvironments returns the environment names to enumerate: the one
// named by --environment, or every environment in the tenant.
func targetEnvironments(ctx context.Context, client *powerplatform.Client, opts []*types.Option) ([]string, error) {
	if env := options.Value(options.EnvironmentOpt.Name, opts); env != "" {
		return []string{env}, nil
	}

	environments, err := client.Environments(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(environments))
	for _, env := range environments {
		names = append(names, env.Name)
	}
	return names, nil
}

func timeValue(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
