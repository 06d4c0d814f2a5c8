package yaml

import (
	"fmt"
	"os"

	"github.com/ochairo/buildplan/internal/domain/entities"
	"gopkg.in/yaml.v3"
)

type yamlPluginCatalog struct {
	Plugins []yamlPluginSpec `yaml:"plugins"`
}

type yamlPluginSpec struct {
	ID       string   `yaml:"id"`
	Requires []string `yaml:"requires"`
	Provides []string `yaml:"provides"`
}

// LoadPluginCatalog layers the plugin specs of a YAML file over the built-in catalog.
// An empty path returns the built-in catalog.
func LoadPluginCatalog(filePath string) (entities.PluginCatalog, error) {
	catalog := entities.DefaultPluginCatalog()
	if filePath == "" {
		return catalog, nil
	}

	//nolint:gosec // G304: filePath comes from settings
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read plugin catalog %s: %w", filePath, err)
	}

	var raw yamlPluginCatalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse plugin catalog %s: %w", filePath, err)
	}

	specs := make([]entities.PluginSpec, 0, len(raw.Plugins))
	for i, p := range raw.Plugins {
		if p.ID == "" {
			return nil, fmt.Errorf("plugin catalog %s: plugins[%d] has no id", filePath, i)
		}
		specs = append(specs, entities.PluginSpec{ID: p.ID, Requires: p.Requires, Provides: p.Provides})
	}

	return catalog.With(specs...), nil
}
