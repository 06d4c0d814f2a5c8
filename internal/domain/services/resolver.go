// Package services implements domain business logic and use cases.
package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/ochairo/buildplan/internal/domain/entities"
	"github.com/ochairo/buildplan/internal/domain/interfaces"
)

// ResolverOptions configures plugin ordering for a resolver
type ResolverOptions struct {
	PluginOrder string
	Plugins     entities.PluginCatalog
}

// ResolverService turns manifests into build plans. It holds no per-call state
// and is safe for concurrent use.
type ResolverService struct {
	logger      interfaces.Logger
	plugins     entities.PluginCatalog
	pluginOrder string
}

// NewResolverService creates a resolver with the given plugin catalog and ordering mode
func NewResolverService(logger interfaces.Logger, opts ResolverOptions) *ResolverService {
	plugins := opts.Plugins
	if plugins == nil {
		plugins = entities.DefaultPluginCatalog()
	}
	order := opts.PluginOrder
	if order == "" {
		order = entities.PluginOrderDeclaration
	}
	return &ResolverService{
		logger:      interfaces.OrNoOp(logger),
		plugins:     plugins,
		pluginOrder: order,
	}
}

// Resolve validates the manifest and resolves plugins, dependencies and packaging.
// Inline manifest BoMs are layered over the catalog. The first failure is returned
// and no partial plan is produced.
func (s *ResolverService) Resolve(m *entities.Manifest, boms entities.BomCatalog) (*entities.BuildPlan, error) {
	vm, err := Validate(m)
	if err != nil {
		s.logger.Debug("Manifest validation failed", interfaces.F("error", err.Error()))
		return nil, err
	}

	plugins, err := ResolvePlugins(m.Plugins, s.plugins, s.pluginOrder)
	if err != nil {
		return nil, err
	}

	catalog := boms.Merge(m.Boms)
	deps, err := ResolveDependencies(m.Dependencies, catalog)
	if err != nil {
		return nil, err
	}

	plan := &entities.BuildPlan{
		Namespace:     m.Namespace,
		ApplicationID: m.DefaultConfig.ApplicationID,
		Sdk: entities.SdkLevels{
			Min:     m.DefaultConfig.MinSdk,
			Target:  m.DefaultConfig.TargetSdk,
			Compile: m.CompileSdk,
		},
		NdkVersion: m.NdkVersion,
		Version: entities.AppVersion{
			Code: m.DefaultConfig.VersionCode,
			Name: m.DefaultConfig.VersionName,
		},
		MultiDex: m.DefaultConfig.MultiDexEnabled,
		Java: entities.JavaTargets{
			Source:     FormatJavaVersion(vm.SourceJava),
			Target:     FormatJavaVersion(vm.TargetJava),
			JvmTarget:  FormatJavaVersion(vm.JvmTarget),
			Desugaring: m.CompileOptions.CoreLibraryDesugaringEnabled,
		},
		Plugins:       plugins,
		Platforms:     platformsOf(m.Dependencies),
		Dependencies:  deps,
		BuildTypes:    resolveBuildTypes(m.BuildTypes),
		Packaging:     BuildPackagingPlan(m.PackagingOptions.Excludes),
		SourceSets:    sourceSetsOf(m.SourceSets),
		FlutterSource: m.Flutter.Source,
	}
	plan.Warnings = collectWarnings(m, deps, catalog)

	fingerprint, err := Fingerprint(plan)
	if err != nil {
		return nil, err
	}
	plan.Fingerprint = fingerprint

	s.logger.Debug("Resolved build plan",
		interfaces.F("application_id", plan.ApplicationID),
		interfaces.F("plugins", len(plan.Plugins)),
		interfaces.F("dependencies", len(plan.Dependencies)),
		interfaces.F("warnings", len(plan.Warnings)),
	)

	return plan, nil
}

// Fingerprint returns the SHA-256 of the plan's canonical YAML form with the
// fingerprint field cleared
func Fingerprint(plan *entities.BuildPlan) (string, error) {
	canonical := *plan
	canonical.Fingerprint = ""

	data, err := yaml.Marshal(&canonical)
	if err != nil {
		return "", fmt.Errorf("failed to encode plan: %w", err)
	}

	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func resolveBuildTypes(types map[string]entities.BuildType) []entities.ResolvedBuildType {
	out := make([]entities.ResolvedBuildType, 0, len(types))
	for name, bt := range types {
		out = append(out, entities.ResolvedBuildType{
			Name:            name,
			Minify:          bt.Minify,
			ShrinkResources: bt.ShrinkResources,
			SigningConfig:   bt.SigningConfig,
			ProguardFiles:   append([]string(nil), bt.ProguardFiles...),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func platformsOf(deps []entities.Dependency) []entities.Coordinate {
	var out []entities.Coordinate
	for _, d := range deps {
		if d.Platform {
			out = append(out, d.Coordinate)
		}
	}
	return out
}

func sourceSetsOf(sets map[string]entities.SourceSet) map[string][]string {
	if len(sets) == 0 {
		return nil
	}
	out := make(map[string][]string, len(sets))
	for name, set := range sets {
		out[name] = append([]string(nil), set.Java...)
	}
	return out
}

func collectWarnings(m *entities.Manifest, deps []entities.ResolvedDependency, catalog entities.BomCatalog) []string {
	var warnings []string

	if !m.CompileOptions.CoreLibraryDesugaringEnabled {
		for i, d := range m.Dependencies {
			if d.Configuration == entities.ConfigCoreLibraryDesugaring {
				warnings = append(warnings, fmt.Sprintf(
					"dependencies[%d]: %s is ignored because compileOptions.coreLibraryDesugaringEnabled is false",
					i, d.Coordinate.Key()))
			}
		}
	}

	for i, d := range deps {
		if d.Source != entities.SourceExplicit || d.Platform {
			continue
		}
		for _, p := range m.Dependencies {
			if !p.Platform {
				continue
			}
			bom, ok := catalog.Lookup(p.Coordinate.Key(), p.Coordinate.Version)
			if !ok {
				continue
			}
			if pinned, ok := bom.Artifacts[d.Key()]; ok && pinned != d.Version {
				warnings = append(warnings, fmt.Sprintf(
					"dependencies[%d]: explicit version %s of %s overrides %s pinned by %s",
					i, d.Version, d.Key(), pinned, bom.Key()))
			}
		}
	}

	names := make([]string, 0, len(m.BuildTypes))
	for name := range m.BuildTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		bt := m.BuildTypes[name]
		if name == "release" && bt.SigningConfig == entities.DebugSigningConfig {
			warnings = append(warnings, "buildTypes.release: signed with the debug signing config")
		}
		for _, pf := range bt.ProguardFiles {
			if !bt.Minify {
				warnings = append(warnings, fmt.Sprintf("buildTypes.%s: proguard file %s has no effect without minify", name, pf))
			}
		}
	}

	for _, p := range InvalidPackagingPatterns(m.PackagingOptions.Excludes) {
		warnings = append(warnings, fmt.Sprintf("packagingOptions.excludes: %q is not a valid glob", p))
	}

	return warnings
}
