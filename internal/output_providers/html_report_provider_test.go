package outputproviders

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tenantkit/tenantkit/pkg/types"
)

func sampleReport() types.Report {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return types.Report{
		Title:     "Tenant Baseline Assessment",
		RunID:     "run-1",
		Tenant:    "contoso.onmicrosoft.com",
		Generated: now,
		Results: []types.TestResult{
			{Category: "Apple Tokens", Name: "MDM push certificate", Status: types.StatusPass, Timestamp: now},
			{Category: "Apple Tokens", Name: "VPP token Contoso", Status: types.StatusWarning, Details: "expires in 12 days", Timestamp: now},
			{Category: "Conditional Access", Name: "Block legacy authentication", Status: types.StatusFail, Details: "no matching policy", Timestamp: now},
			{Category: "Conditional Access", Name: "Require MFA for admins", Status: types.StatusPass, Timestamp: now},
		},
	}
}

func TestSummaryEqualsCategorySums(t *testing.T) {
	report := sampleReport()
	view := buildReportView(report)

	var pass, warn, fail int
	for _, category := range view.Categories {
		pass += category.Summary.Pass
		warn += category.Summary.Warning
		fail += category.Summary.Fail
	}

	assert.Equal(t, view.Summary.Pass, pass)
	assert.Equal(t, view.Summary.Warning, warn)
	assert.Equal(t, view.Summary.Fail, fail)
	assert.Equal(t, len(report.Results), view.Summary.Total())
}

func TestHtmlProviderRendersReport(t *testing.T) {
	dir := t.TempDir()
	provider := &HtmlReportProvider{OutputPath: dir, FileName: "report.html"}

	result := types.NewResult("universal", "baseline", sampleReport())
	require.NoError(t, provider.Write(result))

	raw, err := os.ReadFile(filepath.Join(dir, "report.html"))
	require.NoError(t, err)
	html := string(raw)

	assert.Contains(t, html, "Tenant Baseline Assessment")
	assert.Contains(t, html, "Pass: 2")
	assert.Contains(t, html, "Warning: 1")
	assert.Contains(t, html, "Fail: 1")
	assert.Contains(t, html, "Block legacy authentication")
	// one section heading per category
	assert.Equal(t, 2, strings.Count(html, "<h2>"))
}

func TestHtmlProviderRejectsUnknownData(t *testing.T) {
	provider := &HtmlReportProvider{OutputPath: t.TempDir()}
	result := types.NewResult("universal", "baseline", "not a report")
	assert.Error(t, provider.Write(result))
}
