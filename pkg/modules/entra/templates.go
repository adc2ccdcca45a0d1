package entra

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	graphmodels "github.com/microsoftgraph/msgraph-sdk-go/models"
	"gopkg.in/yaml.v3"
)

//go:embed templates/*.yaml
var baselineTemplates embed.FS

// PolicyTemplate is the YAML shape of a conditional access policy
// template. State is deliberately absent from the file format so that
// the operator always decides rollout state at provision time.
type PolicyTemplate struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Conditions  struct {
		Users struct {
			IncludeUsers  []string `yaml:"includeUsers"`
			ExcludeUsers  []string `yaml:"excludeUsers"`
			IncludeGroups []string `yaml:"includeGroups"`
			ExcludeGroups []string `yaml:"excludeGroups"`
			IncludeRoles  []string `yaml:"includeRoles"`
			ExcludeRoles  []string `yaml:"excludeRoles"`
		} `yaml:"users"`
		Applications struct {
			IncludeApplications []string `yaml:"includeApplications"`
			ExcludeApplications []string `yaml:"excludeApplications"`
		} `yaml:"applications"`
		ClientAppTypes []string `yaml:"clientAppTypes"`
	} `yaml:"conditions"`
	GrantControls struct {
		Operator        string   `yaml:"operator"`
		BuiltInControls []string `yaml:"builtInControls"`
	} `yaml:"grantControls"`
}

func (t *PolicyTemplate) validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("policy template missing name")
	}
	if len(t.Conditions.Users.IncludeUsers) == 0 &&
		len(t.Conditions.Users.IncludeGroups) == 0 &&
		len(t.Conditions.Users.IncludeRoles) == 0 {
		return fmt.Errorf("policy template %q targets no users, groups or roles", t.Name)
	}
	if len(t.GrantControls.BuiltInControls) == 0 {
		return fmt.Errorf("policy template %q has no grant controls", t.Name)
	}
	return nil
}

func parseTemplate(data []byte) (*PolicyTemplate, error) {
	var tmpl PolicyTemplate
	if err := yaml.Unmarshal(data, &tmpl); err != nil {
		return nil, fmt.Errorf("failed to parse policy template: %w", err)
	}
	if err := tmpl.validate(); err != nil {
		return nil, err
	}
	return &tmpl, nil
}

// LoadBaselineTemplates returns the policy templates shipped with the
// binary, sorted by filename.
func LoadBaselineTemplates() ([]*PolicyTemplate, error) {
	entries, err := baselineTemplates.ReadDir("templates")
	if err != nil {
		return nil, err
	}

	var templates []*PolicyTemplate
	for _, entry := range entries {
		data, err := baselineTemplates.ReadFile("templates/" + entry.Name())
		if err != nil {
			return nil, err
		}
		tmpl, err := parseTemplate(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", entry.Name(), err)
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}

// LoadTemplateDir reads every .yaml/.yml file in dir as a policy template.
func LoadTemplateDir(dir string) ([]*PolicyTemplate, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read template directory: %w", err)
	}

	var templates []*PolicyTemplate
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		tmpl, err := parseTemplate(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", entry.Name(), err)
		}
		templates = append(templates, tmpl)
	}

	if len(templates) == 0 {
		return nil, fmt.Errorf("no policy templates found in %s", dir)
	}
	return templates, nil
}

// BuildPolicy converts a template into a Graph policy object in the
// requested state.
func BuildPolicy(tmpl *PolicyTemplate, state string) (graphmodels.ConditionalAccessPolicyable, error) {
	policy := graphmodels.NewConditionalAccessPolicy()
	policy.SetDisplayName(&tmpl.Name)

	parsedState, err := graphmodels.ParseConditionalAccessPolicyState(state)
	if err != nil || parsedState == nil {
		return nil, fmt.Errorf("invalid policy state %q", state)
	}
	policy.SetState(parsedState.(*graphmodels.ConditionalAccessPolicyState))

	conditions := graphmodels.NewConditionalAccessConditionSet()

	users := graphmodels.NewConditionalAccessUsers()
	users.SetIncludeUsers(tmpl.Conditions.Users.IncludeUsers)
	users.SetExcludeUsers(tmpl.Conditions.Users.ExcludeUsers)
	users.SetIncludeGroups(tmpl.Conditions.Users.IncludeGroups)
	users.SetExcludeGroups(tmpl.Conditions.Users.ExcludeGroups)
	users.SetIncludeRoles(tmpl.Conditions.Users.IncludeRoles)
	users.SetExcludeRoles(tmpl.Conditions.Users.ExcludeRoles)
	conditions.SetUsers(users)

	apps := graphmodels.NewConditionalAccessApplications()
	apps.SetIncludeApplications(tmpl.Conditions.Applications.IncludeApplications)
	apps.SetExcludeApplications(tmpl.Conditions.Applications.ExcludeApplications)
	conditions.SetApplications(apps)

	var clientApps []graphmodels.ConditionalAccessClientApp
	for _, name := range tmpl.Conditions.ClientAppTypes {
		parsed, err := graphmodels.ParseConditionalAccessClientApp(name)
		if err != nil || parsed == nil {
			return nil, fmt.Errorf("policy %q: unknown client app type %q", tmpl.Name, name)
		}
		clientApps = append(clientApps, *parsed.(*graphmodels.ConditionalAccessClientApp))
	}
	conditions.SetClientAppTypes(clientApps)
	policy.SetConditions(conditions)

	grant := graphmodels.NewConditionalAccessGrantControls()
	operator := tmpl.GrantControls.Operator
	if operator == "" {
		operator = "OR"
	}
	grant.SetOperator(&operator)

	var controls []graphmodels.ConditionalAccessGrantControl
	for _, name := range tmpl.GrantControls.BuiltInControls {
		parsed, err := graphmodels.ParseConditionalAccessGrantControl(name)
		if err != nil || parsed == nil {
			return nil, fmt.Errorf("policy %q: unknown grant control %q", tmpl.Name, name)
		}
		controls = append(controls, *parsed.(*graphmodels.ConditionalAccessGrantControl))
	}
	grant.SetBuiltInControls(controls)
	policy.SetGrantControls(grant)

	return policy, nil
}
