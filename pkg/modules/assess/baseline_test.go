package assess

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tenantkit/tenantkit/pkg/modules/entra"
	"github.com/tenantkit/tenantkit/pkg/types"
)

var testNow = time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

func TestCaCoverageResults(t *testing.T) {
	templates := []*entra.PolicyTemplate{
		{Name: "Require MFA for administrators"},
		{Name: "Block legacy authentication"},
		{Name: "Require compliant device"},
	}
	policies := []entra.ConditionalAccessPolicyResult{
		{DisplayName: "Require MFA for administrators", State: "enabled"},
		{DisplayName: "block legacy authentication", State: "enabledForReportingButNotEnforced"},
	}

	results := caCoverageResults(templates, policies, testNow)
	require.Len(t, results, 3)

	assert.Equal(t, types.StatusPass, results[0].Status)
	assert.Equal(t, types.StatusWarning, results[1].Status)
	assert.Equal(t, types.StatusFail, results[2].Status)
}

func TestSecurityDefaultsResult(t *testing.T) {
	tests := []struct {
		name            string
		securityDefault bool
		enabledPolicies int
		want            types.Status
	}{
		{"defaults enabled", true, 0, types.StatusPass},
		{"conditional access instead", false, 2, types.StatusPass},
		{"nothing enabled", false, 0, types.StatusFail},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := securityDefaultsResult(tc.securityDefault, tc.enabledPolicies, testNow)
			assert.Equal(t, tc.want, result.Status)
		})
	}
}

func TestStaleDeviceResult(t *testing.T) {
	rows := types.ExportRows{
		{"DeviceName": "fresh", "LastSyncDateTime": testNow.AddDate(0, 0, -5).Format(time.RFC3339)},
		{"DeviceName": "stale", "LastSyncDateTime": testNow.AddDate(0, 0, -120).Format(time.RFC3339)},
		{"DeviceName": "never-synced", "LastSyncDateTime": ""},
	}

	result := staleDeviceResult(rows, 90, testNow)
	assert.Equal(t, types.StatusWarning, result.Status)
	assert.Equal(t, map[string]int{"total": 3, "stale": 2}, result.Data)
}

func TestStaleDeviceResultAllFresh(t *testing.T) {
	rows := types.ExportRows{
		{"DeviceName": "a", "LastSyncDateTime": testNow.AddDate(0, 0, -1).Format(time.RFC3339)},
	}

	result := staleDeviceResult(rows, 90, testNow)
	assert.Equal(t, types.StatusPass, result.Status)
}
