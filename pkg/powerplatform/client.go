// Package powerplatform is a thin client for the Power Platform admin APIs,
// which sit outside Microsoft Graph and its SDK. Enumeration follows the
// documented nextLink contract until exhaustion; throttling beyond a fixed
// inter-page pause is left to the service.
package powerplatform

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2/clientcredentials"
)

const (
	defaultBapBaseURL  = "https://api.bap.microsoft.com"
	defaultFlowBaseURL = "https://api.flow.microsoft.com"
	defaultAppsBaseURL = "https://api.powerapps.com"

	bapAPIVersion  = "2021-04-01"
	flowAPIVersion = "2016-11-01"
	appsAPIVersion = "2016-11-01"
)

type Client struct {
	HTTPClient  *http.Client
	BapBaseURL  string
	FlowBaseURL string
	AppsBaseURL string

	// PageDelay is slept between page fetches on large tenants.
	PageDelay time.Duration
}

// NewClient builds a client authenticated with the OAuth2 client-credentials
// flow against the tenant's token endpoint.
func NewClient(ctx context.Context, tenantID, clientID, clientSecret string) *Client {
	conf := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token", url.PathEscape(tenantID)),
		Scopes:       []string{"https://service.powerapps.com/.default"},
	}

	return &Client{
		HTTPClient:  conf.Client(ctx),
		BapBaseURL:  defaultBapBaseURL,
		FlowBaseURL: defaultFlowBaseURL,
		AppsBaseURL: defaultAppsBaseURL,
	}
}

type Principal struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	UserID      string `json:"userId"`
}

type Environment struct {
	Name       string                `json:"name"`
	ID         string                `json:"id"`
	Location   string                `json:"location"`
	Properties EnvironmentProperties `json:"properties"`
}

type EnvironmentProperties struct {
	DisplayName    string     `json:"displayName"`
	EnvironmentSku string     `json:"environmentSku"`
	IsDefault      bool       `json:"isDefault"`
	CreatedTime    *time.Time `json:"createdTime,omitempty"`
	CreatedBy      Principal  `json:"createdBy"`
}

type Flow struct {
	Name       string         `json:"name"`
	ID         string         `json:"id"`
	Properties FlowProperties `json:"properties"`
}

type FlowProperties struct {
	DisplayName      string     `json:"displayName"`
	State            string     `json:"state"`
	CreatedTime      *time.Time `json:"createdTime,omitempty"`
	LastModifiedTime *time.Time `json:"lastModifiedTime,omitempty"`
	Creator          Principal  `json:"creator"`
}

type App struct {
	Name       string        `json:"name"`
	ID         string        `json:"id"`
	Properties AppProperties `json:"properties"`
}

type AppProperties struct {
	DisplayName      string     `json:"displayName"`
	Owner            Principal  `json:"owner"`
	CreatedTime      *time.Time `json:"createdTime,omitempty"`
	LastModifiedTime *time.Time `json:"lastModifiedTime,omitempty"`
}

type page struct {
	Value         []json.RawMessage `json:"value"`
	NextLink      string            `json:"nextLink"`
	ODataNextLink string            `json:"@odata.nextLink"`
}

func (p page) next() string {
	if p.NextLink != "" {
		return p.NextLink
	}
	return p.ODataNextLink
}

// Environments lists every environment in the tenant.
func (c *Client) Environments(ctx context.Context) ([]Environment, error) {
	u := fmt.Sprintf("%s/providers/Microsoft.BusinessAppPlatform/scopes/admin/environments?api-version=%s",
		c.BapBaseURL, bapAPIVersion)
	return collect[Environment](ctx, c, u)
}

// Flows lists every flow in one environment.
func (c *Client) Flows(ctx context.Context, environment string) ([]Flow, error) {
	u := fmt.Sprintf("%s/providers/Microsoft.ProcessSimple/scopes/admin/environments/%s/v2/flows?api-version=%s",
		c.FlowBaseURL, url.PathEscape(environment), flowAPIVersion)
	return collect[Flow](ctx, c, u)
}

// Apps lists every canvas app in one environment.
func (c *Client) Apps(ctx context.Context, environment string) ([]App, error) {
	u := fmt.Sprintf("%s/providers/Microsoft.PowerApps/scopes/admin/environments/%s/apps?api-version=%s",
		c.AppsBaseURL, url.PathEscape(environment), appsAPIVersion)
	return collect[App](ctx, c, u)
}

// collect follows nextLink across pages, decoding every value entry into T.
func collect[T any](ctx context.Context, c *Client, firstURL string) ([]T, error) {
	var results []T

	next := firstURL
	for next != "" {
		p, err := c.getPage(ctx, next)
		if err != nil {
			return nil, err
		}

		for _, raw := range p.Value {
			var item T
			if err := json.Unmarshal(raw, &item); err != nil {
				return nil, fmt.Errorf("failed to decode list entry: %w", err)
			}
			results = append(results, item)
		}

		next = p.next()
		if next != "" && c.PageDelay > 0 {
			time.Sleep(c.PageDelay)
		}
	}

	return results, nil
}

func (c *Client) getPage(ctx context.Context, pageURL string) (page, error) {
	var p page

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return p, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return p, fmt.Errorf("failed to call %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return p, fmt.Errorf("admin API returned %d for %s: %s", resp.StatusCode, pageURL, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return p, fmt.Errorf("failed to decode response from %s: %w", pageURL, err)
	}

	return p, nil
}
