package outputproviders

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tenantkit/tenantkit/pkg/types"
)

func TestCsvProviderWritesAllRows(t *testing.T) {
	dir := t.TempDir()
	provider := &CsvFileProvider{OutputPath: dir, FileName: "devices.csv"}

	rows := types.ExportRows{
		{"Id": "1", "DeviceName": "LAPTOP-01", "OS": "Windows"},
		{"Id": "2", "DeviceName": "LAPTOP-02", "OS": "Windows"},
		{"Id": "3", "DeviceName": "ipad-17", "OS": "iOS"},
	}

	result := types.NewResult("intune", "devices", rows)
	require.NoError(t, provider.Write(result))

	records := readCsv(t, filepath.Join(dir, "devices.csv"))
	// header + one record per input row, no silent drops
	require.Len(t, records, len(rows)+1)
}

func TestCsvProviderBackfillsDynamicColumns(t *testing.T) {
	dir := t.TempDir()
	provider := &CsvFileProvider{OutputPath: dir, FileName: "flows.csv"}

	rows := types.ExportRows{
		{"Id": "a", "DisplayName": "Notify on expiry"},
		{"Id": "b", "DisplayName": "Sync approvals", "Owner": "jdoe@contoso.com"},
	}

	result := types.NewResult("power", "flows", rows)
	require.NoError(t, provider.Write(result))

	records := readCsv(t, filepath.Join(dir, "flows.csv"))
	require.Len(t, records, 3)

	// every row carries the same header set
	width := len(records[0])
	for _, record := range records {
		assert.Len(t, record, width)
	}

	// the dynamic Owner column exists and the first row was back-filled
	header := records[0]
	ownerIdx := -1
	for i, h := range header {
		if h == "Owner" {
			ownerIdx = i
		}
	}
	require.NotEqual(t, -1, ownerIdx)
	assert.Equal(t, "", records[1][ownerIdx])
	assert.Equal(t, "jdoe@contoso.com", records[2][ownerIdx])
}

func TestSharedFilenameYieldsOneFilePerFormat(t *testing.T) {
	dir := t.TempDir()

	// --filename applies to every file provider a module registers, and
	// runModule writes through them concurrently. Each provider must land
	// on its own path rather than clobber the others.
	csvProvider := &CsvFileProvider{OutputPath: dir, FileName: "devices.csv"}
	jsonProvider := &JsonFileProvider{OutputPath: dir, FileName: "devices.csv"}

	rows := types.ExportRows{
		{"Id": "1", "DeviceName": "LAPTOP-01", "OS": "Windows"},
	}
	result := types.NewResult("intune", "devices", rows)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, provider := range []types.OutputProvider{csvProvider, jsonProvider} {
		wg.Add(1)
		go func(i int, p types.OutputProvider) {
			defer wg.Done()
			errs[i] = p.Write(result)
		}(i, provider)
	}
	wg.Wait()
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	records := readCsv(t, filepath.Join(dir, "devices.csv"))
	require.Len(t, records, 2)

	data, err := os.ReadFile(filepath.Join(dir, "devices.json"))
	require.NoError(t, err)
	var decoded types.ExportRows
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, rows, decoded)
}

func TestForceExtension(t *testing.T) {
	assert.Equal(t, "devices.json", ForceExtension("devices.csv", "json"))
	assert.Equal(t, "devices.csv", ForceExtension("devices", "csv"))
	assert.Equal(t, "report.2026.html", ForceExtension("report.2026.md", "html"))
}

func TestCsvProviderRejectsUnknownData(t *testing.T) {
	provider := &CsvFileProvider{OutputPath: t.TempDir()}
	result := types.NewResult("intune", "devices", 42)
	assert.Error(t, provider.Write(result))
}

func readCsv(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}
