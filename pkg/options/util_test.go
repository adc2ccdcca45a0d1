package options

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tenantkit/tenantkit/pkg/types"
)

func TestWithHelpersCopyTheOption(t *testing.T) {
	required := WithRequired(TenantOpt, true)
	assert.True(t, required.Required)
	assert.False(t, TenantOpt.Required)

	withDefault := WithDefaultValue(ThresholdOpt, "60")
	assert.Equal(t, "60", withDefault.Value)
	assert.Equal(t, "30", ThresholdOpt.Value)

	described := WithDescription(EnvironmentOpt, "changed")
	assert.Equal(t, "changed", described.Description)
	assert.NotEqual(t, "changed", EnvironmentOpt.Description)
}

func TestAccessors(t *testing.T) {
	opts := []*types.Option{
		{Name: "threshold", Type: types.Int, Value: "45"},
		{Name: "dry-run", Type: types.Bool, Value: "true"},
		{Name: "tenant", Type: types.String, Value: "contoso"},
		{Name: "broken", Type: types.Int, Value: "not-a-number"},
	}

	assert.Equal(t, 45, Int("threshold", opts, 30))
	assert.Equal(t, 30, Int("missing", opts, 30))
	assert.Equal(t, 30, Int("broken", opts, 30))
	assert.True(t, Bool("dry-run", opts))
	assert.False(t, Bool("missing", opts))
	assert.Equal(t, "contoso", Value("tenant", opts))
	assert.Equal(t, "", Value("missing", opts))
}

func TestValidateOptions(t *testing.T) {
	declared := []*types.Option{
		WithRequired(RenamePatternOpt, true),
		&PolicyStateOpt,
	}

	missing := []*types.Option{
		{Name: RenamePatternOpt.Name, Required: true, Type: types.String, Value: ""},
		{Name: PolicyStateOpt.Name, Type: types.String, Value: PolicyStateOpt.Value},
	}
	assert.Error(t, ValidateOptions(missing, declared))

	badState := []*types.Option{
		{Name: RenamePatternOpt.Name, Required: true, Type: types.String, Value: "PC-{serial}"},
		{Name: PolicyStateOpt.Name, Type: types.String, Value: "sideways"},
	}
	assert.Error(t, ValidateOptions(badState, declared))

	valid := []*types.Option{
		{Name: RenamePatternOpt.Name, Required: true, Type: types.String, Value: "PC-{serial}"},
		{Name: PolicyStateOpt.Name, Type: types.String, Value: "disabled"},
	}
	assert.NoError(t, ValidateOptions(valid, declared))
}
