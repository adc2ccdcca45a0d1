package intune

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	msgraphsdk "github.com/microsoftgraph/msgraph-sdk-go"
	msgraphcore "github.com/microsoftgraph/msgraph-sdk-go-core"
	graphmodels "github.com/microsoftgraph/msgraph-sdk-go/models"
	"github.com/tenantkit/tenantkit/internal/helpers"
	"github.com/tenantkit/tenantkit/internal/message"
	op "github.com/tenantkit/tenantkit/internal/output_providers"
	"github.com/tenantkit/tenantkit/internal/registry"
	"github.com/tenantkit/tenantkit/pkg/modules"
	"github.com/tenantkit/tenantkit/pkg/options"
	"github.com/tenantkit/tenantkit/pkg/types"
)

// windowsNameLimit is the NetBIOS computer name ceiling.
const windowsNameLimit = 15

// RenameDevices computes new device names from a pattern and applies them
// through the Graph setDeviceName action. Dry-run by default.
type RenameDevices struct {
	modules.BaseModule
}

var RenameDevicesMetadata = modules.Metadata{
	Id:          "rename-devices",
	Name:        "Bulk Device Rename",
	Description: "Rename managed devices from a pattern with {serial}/{user}/{type}/{seq} placeholders",
	Platform:    modules.Intune,
	Category:    "manage",
	Authors:     []string{"Tenantkit"},
	References: []string{
		"https://learn.microsoft.com/en-us/graph/api/intune-devices-manageddevice-setdevicename",
	},
}

var RenameDevicesOptions = []*types.Option{
	&options.RenamePatternOpt,
	&options.DryRunOpt,
	&options.SleepEveryOpt,
	&options.TenantOpt,
	&options.ClientIDOpt,
	&options.ClientSecretOpt,
	&options.CredentialFileOpt,
	&options.DeviceCodeOpt,
}

var RenameDevicesOutputProviders = []func(options []*types.Option) types.OutputProvider{
	op.NewCsvFileProvider,
}

func init() {
	registry.Register(registry.Entry{
		Metadata: RenameDevicesMetadata,
		Options:  RenameDevicesOptions,
		New:      NewRenameDevices,
	})
}

func NewRenameDevices(opts []*types.Option, run modules.Run) (modules.Module, error) {
	return &RenameDevices{
		BaseModule: modules.BaseModule{
			Metadata:        RenameDevicesMetadata,
			Options:         opts,
			Run:             run,
			OutputProviders: modules.RenderOutputProviders(RenameDevicesOutputProviders, opts),
		},
	}, nil
}

// RenameTarget carries the fields substitutable into the name pattern.
type RenameTarget struct {
	Serial string
	User   string
	Type   string
}

// FormatDeviceName substitutes pattern placeholders, strips characters that
// are invalid in computer names, and truncates Windows names to 15 chars.
func FormatDeviceName(pattern string, target RenameTarget, seq int, windows bool) (string, error) {
	if pattern == "" {
		return "", fmt.Errorf("rename pattern is empty")
	}

	name := pattern
	name = strings.ReplaceAll(name, "{serial}", target.Serial)
	name = strings.ReplaceAll(name, "{user}", upnLocalPart(target.User))
	name = strings.ReplaceAll(name, "{type}", target.Type)
	name = strings.ReplaceAll(name, "{seq}", strconv.Itoa(seq))

	name = sanitizeDeviceName(name)
	if name == "" {
		return "", fmt.Errorf("pattern %q produced an empty name", pattern)
	}

	if windows && len(name) > windowsNameLimit {
		name = name[:windowsNameLimit]
	}

	return name, nil
}

func upnLocalPart(upn string) string {
	if idx := strings.Index(upn, "@"); idx >= 0 {
		return upn[:idx]
	}
	return upn
}

func sanitizeDeviceName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (m *RenameDevices) Invoke() error {
	defer close(m.Run.Data)

	ctx := context.Background()

	client, cred, err := helpers.NewGraphClient(m.Options)
	if err != nil {
		return err
	}

	pattern := options.Value(options.RenamePatternOpt.Name, m.Options)
	dryRun := options.Bool(options.DryRunOpt.Name, m.Options)
	sleepEvery := options.Int(options.SleepEveryOpt.Name, m.Options, 0)

	token, err := helpers.GraphToken(ctx, cred)
	if err != nil {
		return err
	}

	rows, err := m.sweep(ctx, client, pattern, token, dryRun, sleepEvery)
	if err != nil {
		return err
	}

	m.Run.Data <- m.MakeResult(rows)
	return nil
}

// sweep walks every managed device page and renames each device in turn.
func (m *RenameDevices) sweep(ctx context.Context, client *msgraphsdk.GraphServiceClient, pattern, token string, dryRun bool, sleepEvery int) (types.ExportRows, error) {
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
	seq := 0
	err = pageIterator.Iterate(ctx, func(device graphmodels.ManagedDeviceable) bool {
		seq++
		row, err := m.renameOne(ctx, device, pattern, seq, dryRun, token)
		if err != nil {
			// rename failures should not stop the sweep
			message.Error("%v", err)
			return true
		}
		rows = append(rows, row)
		if sleepEvery > 0 && seq%sleepEvery == 0 {
			time.Sleep(time.Second)
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate managed devices: %w", err)
	}

	return rows, nil
}

func (m *RenameDevices) renameOne(ctx context.Context, device graphmodels.ManagedDeviceable, pattern string, seq int, dryRun bool, token string) (types.ExportRow, error) {
	id := stringValue(device.GetId())
	current := stringValue(device.GetDeviceName())
	isWindows := strings.EqualFold(stringValue(device.GetOperatingSystem()), "Windows")

	target := RenameTarget{
		Serial: stringValue(device.GetSerialNumber()),
		User:   stringValue(device.GetUserPrincipalName()),
		Type:   stringValue(device.GetOperatingSystem()),
	}

	newName, err := FormatDeviceName(pattern, target, seq, isWindows)
	if err != nil {
		return nil, fmt.Errorf("device %s: %w", current, err)
	}

	row := types.ExportRow{
		"Id":      id,
		"OldName": current,
		"NewName": newName,
		"Applied": "false",
	}

	if newName == current {
		message.Info("%s already matches pattern", current)
		return row, nil
	}

	if dryRun {
		message.Info("[dry-run] %s -> %s", current, newName)
		return row, nil
	}

	if err := setDeviceName(ctx, id, newName, token); err != nil {
		return nil, fmt.Errorf("failed to rename %s: %w", current, err)
	}

	message.Success("%s -> %s", current, newName)
	row["Applied"] = "true"
	return row, nil
}

// setDeviceName posts the rename action directly; the action only exists on
// the beta endpoint, which the v1.0 SDK client does not expose.
func setDeviceName(ctx context.Context, deviceID, newName, token string) error {
	endpoint := fmt.Sprintf("https://graph.microsoft.com/beta/deviceManagement/managedDevices/%s/setDeviceName", deviceID)

	payload, err := json.Marshal(map[string]string{"deviceName": newName})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("setDeviceName returned %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
