package powerplatform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(server *httptest.Server) *Client {
	return &Client{
		HTTPClient:  server.Client(),
		BapBaseURL:  server.URL,
		FlowBaseURL: server.URL,
		AppsBaseURL: server.URL,
	}
}

func TestEnvironmentsFollowsNextLink(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("page") {
		case "":
			fmt.Fprintf(w, `{"value":[{"name":"Default-1","properties":{"displayName":"Contoso (default)","isDefault":true}}],"nextLink":"%s/providers/Microsoft.BusinessAppPlatform/scopes/admin/environments?page=2"}`, server.URL)
		case "2":
			fmt.Fprint(w, `{"value":[{"name":"env-dev","properties":{"displayName":"Development"}}]}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := newTestClient(server)
	envs, err := client.Environments(context.Background())
	require.NoError(t, err)

	require.Len(t, envs, 2)
	assert.Equal(t, "Default-1", envs[0].Name)
	assert.True(t, envs[0].Properties.IsDefault)
	assert.Equal(t, "Development", envs[1].Properties.DisplayName)
}

func TestFlowsDecodesProperties(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/environments/env-dev/")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"value":[{"name":"flow-1","properties":{"displayName":"Notify on expiry","state":"Started","creator":{"userId":"u-1"}}}]}`)
	}))
	defer server.Close()

	client := newTestClient(server)
	flows, err := client.Flows(context.Background(), "env-dev")
	require.NoError(t, err)

	require.Len(t, flows, 1)
	assert.Equal(t, "Notify on expiry", flows[0].Properties.DisplayName)
	assert.Equal(t, "Started", flows[0].Properties.State)
	assert.Equal(t, "u-1", flows[0].Properties.Creator.UserID)
}

func TestAppsErrorsOnNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":"Throttled"}}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(server)
	_, err := client.Apps(context.Background(), "env-dev")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestPageNextPrefersNextLink(t *testing.T) {
	p := page{NextLink: "a", ODataNextLink: "b"}
	assert.Equal(t, "a", p.next())

	raw := []byte(`{"value":[],"@odata.nextLink":"odata-url"}`)
	var decoded page
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "odata-url", decoded.next())
}
