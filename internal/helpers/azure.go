package helpers

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/joho/godotenv"
	msgraphsdk "github.com/microsoftgraph/msgraph-sdk-go"
	"github.com/tenantkit/tenantkit/internal/message"
	"github.com/tenantkit/tenantkit/pkg/options"
	"github.com/tenantkit/tenantkit/pkg/types"
)

// GraphScopes is the default scope set for Microsoft Graph access
var GraphScopes = []string{"https://graph.microsoft.com/.default"}

// Credentials is the client-credential triple resolved from flags, a
// KEY=VALUE credential file, or the ambient Azure environment.
type Credentials struct {
	TenantID     string
	ClientID     string
	ClientSecret string
}

// ResolveCredentials merges the credential file (when given) with explicit
// options. Explicit options win over file values.
func ResolveCredentials(opts []*types.Option) (Credentials, error) {
	creds := Credentials{
		TenantID:     options.Value(options.TenantOpt.Name, opts),
		ClientID:     options.Value(options.ClientIDOpt.Name, opts),
		ClientSecret: options.Value(options.ClientSecretOpt.Name, opts),
	}

	credFile := options.Value(options.CredentialFileOpt.Name, opts)
	if credFile == "" {
		return creds, nil
	}

	env, err := godotenv.Read(credFile)
	if err != nil {
		return creds, fmt.Errorf("failed to read credential file %s: %w", credFile, err)
	}

	if creds.TenantID == "" {
		creds.TenantID = env["TENANT_ID"]
	}
	if creds.ClientID == "" {
		creds.ClientID = env["CLIENT_ID"]
	}
	if creds.ClientSecret == "" {
		creds.ClientSecret = env["CLIENT_SECRET"]
	}

	return creds, nil
}

// NewCredential builds a token credential from the resolved options:
// client secret when the full triple is present, device code when requested,
// DefaultAzureCredential otherwise.
func NewCredential(opts []*types.Option) (azcore.TokenCredential, error) {
	creds, err := ResolveCredentials(opts)
	if err != nil {
		return nil, err
	}

	if creds.TenantID != "" && creds.ClientID != "" && creds.ClientSecret != "" {
		cred, err := azidentity.NewClientSecretCredential(creds.TenantID, creds.ClientID, creds.ClientSecret, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build client secret credential: %w", err)
		}
		return cred, nil
	}

	if options.Bool(options.DeviceCodeOpt.Name, opts) {
		cred, err := azidentity.NewDeviceCodeCredential(&azidentity.DeviceCodeCredentialOptions{
			TenantID: creds.TenantID,
			ClientID: creds.ClientID,
			UserPrompt: func(ctx context.Context, dc azidentity.DeviceCodeMessage) error {
				message.Info("%s", dc.Message)
				return nil
			},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to build device code credential: %w", err)
		}
		return cred, nil
	}

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get Azure credentials: %w", err)
	}
	return cred, nil
}

// NewGraphClient creates a Microsoft Graph client for the resolved credential.
func NewGraphClient(opts []*types.Option) (*msgraphsdk.GraphServiceClient, azcore.TokenCredential, error) {
	cred, err := NewCredential(opts)
	if err != nil {
		return nil, nil, err
	}

	client, err := msgraphsdk.NewGraphServiceClientWithCredentials(cred, GraphScopes)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Graph client: %w", err)
	}

	return client, cred, nil
}

// GraphToken fetches a bearer token for raw Graph REST calls outside the SDK.
func GraphToken(ctx context.Context, cred azcore.TokenCredential) (string, error) {
	token, err := cred.GetToken(ctx, policy.TokenRequestOptions{Scopes: GraphScopes})
	if err != nil {
		return "", fmt.Errorf("failed to get Graph token: %w", err)
	}
	return token.Token, nil
}

// GetTenantDetails gets the display name and ID of the signed-in tenant
func GetTenantDetails(ctx context.Context, client *msgraphsdk.GraphServiceClient) (string, string, error) {
	org, err := client.Organization().Get(ctx, nil)
	if err != nil {
		return "", "", fmt.Errorf("failed to get organization details: %w", err)
	}

	tenantName := "Unknown"
	tenantID := "Unknown"

	if orgValue := org.GetValue(); len(orgValue) > 0 {
		if displayName := orgValue[0].GetDisplayName(); displayName != nil {
			tenantName = *displayName
		}
		if id := orgValue[0].GetId(); id != nil {
			tenantID = *id
		}
	}

	return tenantName, tenantID, nil
}
