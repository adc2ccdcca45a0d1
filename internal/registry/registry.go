package registry

import (
	"sync"

	"github.com/tenantkit/tenantkit/pkg/modules"
	"github.com/tenantkit/tenantkit/pkg/types"
)

// Factory builds a module instance bound to resolved options and a run.
type Factory func(opts []*types.Option, run modules.Run) (modules.Module, error)

type Entry struct {
	Metadata modules.Metadata
	Options  []*types.Option
	New      Factory
}

type ModuleRegistry struct {
	mu        sync.RWMutex
	modules   map[string]Entry
	hierarchy map[string]map[string][]string // platform -> category -> []name
}

var Registry = &ModuleRegistry{
	modules:   make(map[string]Entry),
	hierarchy: make(map[string]map[string][]string),
}

// key disambiguates modules that reuse an id across categories,
// e.g. inventory/conditional-access vs provision/conditional-access.
func key(platform, category, name string) string {
	return platform + "/" + category + "/" + name
}

func Register(entry Entry) {
	Registry.mu.Lock()
	defer Registry.mu.Unlock()

	platform := string(entry.Metadata.Platform)
	category := entry.Metadata.Category
	name := entry.Metadata.Id

	Registry.modules[key(platform, category, name)] = entry

	if _, exists := Registry.hierarchy[platform]; !exists {
		Registry.hierarchy[platform] = make(map[string][]string)
	}

	if _, exists := Registry.hierarchy[platform][category]; !exists {
		Registry.hierarchy[platform][category] = []string{}
	}

	Registry.hierarchy[platform][category] = append(Registry.hierarchy[platform][category], name)
}

// GetEntry gets a specific module entry by platform, category and id
func GetEntry(platform, category, name string) (Entry, bool) {
	Registry.mu.RLock()
	defer Registry.mu.RUnlock()

	entry, exists := Registry.modules[key(platform, category, name)]
	return entry, exists
}

// GetEntries retrieves all module entries for a given platform
func GetEntries(platform string) []Entry {
	Registry.mu.RLock()
	defer Registry.mu.RUnlock()

	var entries []Entry

	if categoryMap, exists := Registry.hierarchy[platform]; exists {
		for category, names := range categoryMap {
			for _, name := range names {
				entries = append(entries, Registry.modules[key(platform, category, name)])
			}
		}
	}

	return entries
}

// GetHierarchy exposes the platform/category/module tree for CLI generation
func GetHierarchy() map[string]map[string][]string {
	Registry.mu.RLock()
	defer Registry.mu.RUnlock()

	result := make(map[string]map[string][]string)
	for platform, categories := range Registry.hierarchy {
		result[platform] = make(map[string][]string)
		for category, names := range categories {
			result[platform][category] = append([]string{}, names...)
		}
	}

	return result
}
