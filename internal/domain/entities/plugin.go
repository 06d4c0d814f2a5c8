package entities

// PluginSpec describes what a plugin needs applied before it and what it contributes
type PluginSpec struct {
	ID       string
	Requires []string // Capabilities or plugin ids
	Provides []string // Capabilities
}

// PluginCatalog indexes plugin specs by id
type PluginCatalog map[string]PluginSpec

// Plugin ordering modes
const (
	PluginOrderDeclaration = "declaration"
	PluginOrderTopological = "topological"
)

// DefaultPluginCatalog returns the built-in plugin prerequisites
func DefaultPluginCatalog() PluginCatalog {
	specs := []PluginSpec{
		{ID: PluginAndroidApplication, Provides: []string{"android", "android-app"}},
		{ID: PluginAndroidLibrary, Provides: []string{"android"}},
		{ID: PluginKotlinAndroid, Requires: []string{"android"}, Provides: []string{"kotlin"}},
		{ID: PluginFlutter, Requires: []string{"android-app"}},
		{ID: PluginGoogleServices, Requires: []string{"android-app"}},
		{ID: PluginCrashlytics, Requires: []string{PluginGoogleServices}},
	}

	catalog := make(PluginCatalog, len(specs))
	for _, s := range specs {
		catalog[s.ID] = s
	}
	return catalog
}

// With returns a copy of the catalog with specs added or replaced by id
func (c PluginCatalog) With(specs ...PluginSpec) PluginCatalog {
	out := make(PluginCatalog, len(c)+len(specs))
	for k, v := range c {
		out[k] = v
	}
	for _, s := range specs {
		out[s.ID] = s
	}
	return out
}

// Satisfies reports whether the plugin with the given id fulfils a requirement,
// either by being that plugin or by providing that capability
func (c PluginCatalog) Satisfies(id, requirement string) bool {
	if id == requirement {
		return true
	}
	for _, p := range c[id].Provides {
		if p == requirement {
			return true
		}
	}
	return false
}
