package intune

import (
	"context"
	"fmt"
	"time"

	msgraphsdk "github.com/microsoftgraph/msgraph-sdk-go"
	msgraphcore "github.com/microsoftgraph/msgraph-sdk-go-core"
	"github.com/microsoftgraph/msgraph-sdk-go/devicemanagement"
	graphmodels "github.com/microsoftgraph/msgraph-sdk-go/models"
	"github.com/tenantkit/tenantkit/internal/helpers"
	"github.com/tenantkit/tenantkit/internal/message"
	op "github.com/tenantkit/tenantkit/internal/output_providers"
	"github.com/tenantkit/tenantkit/internal/registry"
	"github.com/tenantkit/tenantkit/pkg/modules"
	"github.com/tenantkit/tenantkit/pkg/options"
	"github.com/tenantkit/tenantkit/pkg/types"
)

// Devices exports the managed device inventory as flat rows.
type Devices struct {
	modules.BaseModule
}

var DevicesMetadata = modules.Metadata{
	Id:          "devices",
	Name:        "Managed Device Inventory",
	Description: "Export Intune managed devices to CSV/JSON",
	Platform:    modules.Intune,
	Category:    "inventory",
	Authors:     []string{"Tenantkit"},
	References: []string{
		"https://learn.microsoft.com/en-us/graph/api/intune-devices-manageddevice-list",
	},
}

var DevicesOptions = []*types.Option{
	&options.FileNameOpt,
	&options.SleepEveryOpt,
	&options.TenantOpt,
	&options.ClientIDOpt,
	&options.ClientSecretOpt,
	&options.CredentialFileOpt,
	&options.DeviceCodeOpt,
}

var DevicesOutputProviders = []func(options []*types.Option) types.OutputProvider{
	op.NewCsvFileProvider,
	op.NewJsonFileProvider,
}

func init() {
	registry.Register(registry.Entry{
		Metadata: DevicesMetadata,
		Options:  DevicesOptions,
		New:      NewDevices,
	})
}

func NewDevices(opts []*types.Option, run modules.Run) (modules.Module, error) {
	return &Devices{
		BaseModule: modules.BaseModule{
			Metadata:        DevicesMetadata,
			Options:         opts,
			Run:             run,
			OutputProviders: modules.RenderOutputProviders(DevicesOutputProviders, opts),
		},
	}, nil
}

func (m *Devices) Invoke() error {
	defer close(m.Run.Data)

	ctx := context.Background()

	client, _, err := helpers.NewGraphClient(m.Options)
	if err != nil {
		return err
	}

	sleepEvery := options.Int(options.SleepEveryOpt.Name, m.Options, 0)

	rows, err := CollectManagedDevices(ctx, client, sleepEvery)
	if err != nil {
		return err
	}

	message.Info("Enumerated %d managed devices", len(rows))
	m.Run.Data <- m.MakeResult(rows)
	return nil
}

func deviceListConfig() *devicemanagement.ManagedDevicesRequestBuilderGetRequestConfiguration {
	return &devicemanagement.ManagedDevicesRequestBuilderGetRequestConfiguration{
		QueryParameters: &devicemanagement.ManagedDevicesRequestBuilderGetQueryParameters{
			Select: []string{
				"id", "deviceName", "serialNumber", "userPrincipalName",
				"operatingSystem", "osVersion", "model", "manufacturer",
				"complianceState", "lastSyncDateTime", "enrolledDateTime",
			},
			Top: int32Ptr(999),
		},
	}
}

func CollectManagedDevices(ctx context.Context, client *msgraphsdk.GraphServiceClient, sleepEvery int) (types.ExportRows, error) {
	result, err := client.DeviceManagement().ManagedDevices().Get(ctx, deviceListConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to list managed devices: %w", err)
	}

	pageIterator, err := msgraphcore.NewPageIterator[graphmodels.ManagedDeviceable](
		result,
		client.GetAdapter(),
		graphmodels.CreateManagedDeviceCollectionResponseFromDiscriminatorValue)
	if err != nil {
		return nil, fmt.Errorf("failed to create page iterator: %w", err)
	}

	var rows types.ExportRows
	count := 0
	err = pageIterator.Iterate(ctx, func(device graphmodels.ManagedDeviceable) bool {
		rows = append(rows, deviceRow(device))
		count++
		// crude fixed-interval throttle for very large tenants
		if sleepEvery > 0 && count%sleepEvery == 0 {
			time.Sleep(time.Second)
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate managed devices: %w", err)
	}

	return rows, nil
}

func deviceRow(device graphmodels.ManagedDeviceable) types.ExportRow {
	row := types.ExportRow{
		"Id":                stringValue(device.GetId()),
		"DeviceName":        stringValue(device.GetDeviceName()),
		"SerialNumber":      stringValue(device.GetSerialNumber()),
		"UserPrincipalName": stringValue(device.GetUserPrincipalName()),
		"OperatingSystem":   stringValue(device.GetOperatingSystem()),
		"OsVersion":         stringValue(device.GetOsVersion()),
		"Model":             stringValue(device.GetModel()),
		"Manufacturer":      stringValue(device.GetManufacturer()),
	}

	if state := device.GetComplianceState(); state != nil {
		row["ComplianceState"] = state.String()
	}
	if t := device.GetLastSyncDateTime(); t != nil {
		row["LastSyncDateTime"] = t.Format(time.RFC3339)
	}
	if t := device.GetEnrolledDateTime(); t != nil {
		row["EnrolledDateTime"] = t.Format(time.RFC3339)
	}

	return row
}
