package intune

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	absauth "github.com/microsoft/kiota-abstractions-go/authentication"
	msgraphsdk "github.com/microsoftgraph/msgraph-sdk-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDeviceName(t *testing.T) {
	target := RenameTarget{
		Serial: "C02XK1234567",
		User:   "jdoe@contoso.com",
		Type:   "Windows",
	}

	testCases := []struct {
		name     string
		pattern  string
		windows  bool
		expected string
	}{
		{
			name:     "serial placeholder",
			pattern:  "CON-{serial}",
			windows:  false,
			expected: "CON-C02XK1234567",
		},
		{
			name:     "user local part",
			pattern:  "WS-{user}",
			windows:  false,
			expected: "WS-jdoe",
		},
		{
			name:     "sequence",
			pattern:  "LAB-{seq}",
			windows:  false,
			expected: "LAB-7",
		},
		{
			name:     "windows truncation to 15 chars",
			pattern:  "CONTOSO-{serial}",
			windows:  true,
			expected: "CONTOSO-C02XK12",
		},
		{
			name:     "invalid characters stripped",
			pattern:  "WS_{user}!",
			windows:  false,
			expected: "WSjdoe",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			name, err := FormatDeviceName(tc.pattern, target, 7, tc.windows)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, name)
			if tc.windows {
				assert.LessOrEqual(t, len(name), windowsNameLimit)
			}
		})
	}
}

func TestSweepRenamesDevicesAcrossPages(t *testing.T) {
	var server *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/deviceManagement/managedDevices", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{
			"@odata.nextLink": %q,
			"value": [
				{"id": "d1", "deviceName": "OLD-1", "serialNumber": "SER1", "operatingSystem": "Windows"},
				{"id": "d2", "deviceName": "OLD-2", "serialNumber": "SER2", "operatingSystem": "Windows"}
			]
		}`, server.URL+"/page2")
	})
	mux.HandleFunc("/page2", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"value": [
				{"id": "d3", "deviceName": "OLD-3", "serialNumber": "SER3", "operatingSystem": "iOS"}
			]
		}`)
	})
	server = httptest.NewServer(mux)
	defer server.Close()

	adapter, err := msgraphsdk.NewGraphRequestAdapter(&absauth.AnonymousAuthenticationProvider{})
	require.NoError(t, err)
	adapter.SetBaseUrl(server.URL)
	client := msgraphsdk.NewGraphServiceClient(adapter)

	module := &RenameDevices{}
	rows, err := module.sweep(context.Background(), client, "WS-{serial}", "", true, 0)
	require.NoError(t, err)

	// devices past the first response page still get swept
	require.Len(t, rows, 3)
	assert.Equal(t, "WS-SER1", rows[0]["NewName"])
	assert.Equal(t, "WS-SER2", rows[1]["NewName"])
	assert.Equal(t, "WS-SER3", rows[2]["NewName"])
	for _, row := range rows {
		assert.Equal(t, "false", row["Applied"])
	}
}

func TestFormatDeviceNameErrors(t *testing.T) {
	_, err := FormatDeviceName("", RenameTarget{}, 1, false)
	assert.Error(t, err)

	// nothing but invalid characters
	_, err = FormatDeviceName("___", RenameTarget{}, 1, false)
	assert.Error(t, err)
}
