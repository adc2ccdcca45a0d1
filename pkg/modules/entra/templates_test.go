package entra

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBaselineTemplates(t *testing.T) {
	templates, err := LoadBaselineTemplates()
	require.NoError(t, err)
	require.Len(t, templates, 3)

	names := make(map[string]bool)
	for _, tmpl := range templates {
		names[tmpl.Name] = true
	}
	assert.True(t, names["Require MFA for administrators"])
	assert.True(t, names["Block legacy authentication"])
	assert.True(t, names["Require compliant device"])
}

func TestParseTemplateValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "missing name",
			yaml: `
conditions:
  users:
    includeUsers: [All]
grantControls:
  builtInControls: [mfa]
`,
		},
		{
			name: "no targets",
			yaml: `
name: Empty policy
grantControls:
  builtInControls: [mfa]
`,
		},
		{
			name: "no grant controls",
			yaml: `
name: No controls
conditions:
  users:
    includeUsers: [All]
`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseTemplate([]byte(tc.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadTemplateDir(t *testing.T) {
	dir := t.TempDir()

	template := `
name: Test policy
conditions:
  users:
    includeUsers: [All]
  applications:
    includeApplications: [All]
  clientAppTypes: [all]
grantControls:
  operator: OR
  builtInControls: [mfa]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.yaml"), []byte(template), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	templates, err := LoadTemplateDir(dir)
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.Equal(t, "Test policy", templates[0].Name)
}

func TestLoadTemplateDirEmpty(t *testing.T) {
	_, err := LoadTemplateDir(t.TempDir())
	assert.Error(t, err)
}

func TestBuildPolicy(t *testing.T) {
	templates, err := LoadBaselineTemplates()
	require.NoError(t, err)

	for _, tmpl := range templates {
		policy, err := BuildPolicy(tmpl, "enabledForReportingButNotEnforced")
		require.NoError(t, err, tmpl.Name)
		assert.Equal(t, tmpl.Name, *policy.GetDisplayName())
		require.NotNil(t, policy.GetConditions())
		require.NotNil(t, policy.GetGrantControls())
	}
}

func TestBuildPolicyInvalidState(t *testing.T) {
	templates, err := LoadBaselineTemplates()
	require.NoError(t, err)

	_, err = BuildPolicy(templates[0], "bogus")
	assert.Error(t, err)
}

func TestBuildPolicyUnknownClientApp(t *testing.T) {
	tmpl, err := parseTemplate([]byte(`
name: Bad client app
conditions:
  users:
    includeUsers: [All]
  clientAppTypes: [telnet]
grantControls:
  builtInControls: [mfa]
`))
	require.NoError(t, err)

	_, err = BuildPolicy(tmpl, "disabled")
	assert.Error(t, err)
}
