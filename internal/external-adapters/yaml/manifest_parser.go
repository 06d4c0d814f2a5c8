// Package yaml provides YAML-based manifest parsing, catalogs and repository implementations.
package yaml

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/ochairo/buildplan/internal/domain/entities"
	"gopkg.in/yaml.v3"
)

// yamlManifest represents the raw YAML structure
type yamlManifest struct {
	Namespace        string                       `yaml:"namespace"`
	CompileSdk       int                          `yaml:"compileSdk"`
	NdkVersion       string                       `yaml:"ndkVersion"`
	DefaultConfig    yamlDefaultConfig            `yaml:"defaultConfig"`
	CompileOptions   yamlCompileOptions           `yaml:"compileOptions"`
	KotlinOptions    yamlKotlinOptions            `yaml:"kotlinOptions"`
	SourceSets       map[string]yamlSourceSet     `yaml:"sourceSets"`
	SigningConfigs   map[string]yamlSigningConfig `yaml:"signingConfigs"`
	BuildTypes       map[string]yamlBuildType     `yaml:"buildTypes"`
	PackagingOptions yamlPackagingOptions         `yaml:"packagingOptions"`
	Dependencies     []yamlDependency             `yaml:"dependencies"`
	Plugins          []string                     `yaml:"plugins"`
	Boms             []yamlBom                    `yaml:"boms"`
	Flutter          yamlFlutter                  `yaml:"flutter"`
}

type yamlDefaultConfig struct {
	ApplicationID   string `yaml:"applicationId"`
	MinSdk          int    `yaml:"minSdk"`
	TargetSdk       int    `yaml:"targetSdk"`
	VersionCode     int    `yaml:"versionCode"`
	VersionName     string `yaml:"versionName"`
	MultiDexEnabled bool   `yaml:"multiDexEnabled"`
}

type yamlCompileOptions struct {
	SourceCompatibility          string `yaml:"sourceCompatibility"`
	TargetCompatibility          string `yaml:"targetCompatibility"`
	CoreLibraryDesugaringEnabled bool   `yaml:"coreLibraryDesugaringEnabled"`
}

type yamlKotlinOptions struct {
	JvmTarget string `yaml:"jvmTarget"`
}

type yamlSourceSet struct {
	Java []string `yaml:"java"`
}

type yamlSigningConfig struct {
	StoreFile     string `yaml:"storeFile"`
	StorePassword string `yaml:"storePassword"`
	KeyAlias      string `yaml:"keyAlias"`
	KeyPassword   string `yaml:"keyPassword"`
}

type yamlBuildType struct {
	Minify          bool     `yaml:"minify"`
	ShrinkResources bool     `yaml:"shrinkResources"`
	SigningConfig   string   `yaml:"signingConfig"`
	ProguardFiles   []string `yaml:"proguardFiles"`
}

type yamlPackagingOptions struct {
	Excludes []string `yaml:"excludes"`
}

type yamlBom struct {
	ID        string            `yaml:"id"`
	Version   string            `yaml:"version"`
	Artifacts map[string]string `yaml:"artifacts"`
}

type yamlFlutter struct {
	Source string `yaml:"source"`
}

// yamlDependency accepts either a "group:artifact[:version]" scalar or a mapping
type yamlDependency struct {
	Configuration string `yaml:"configuration"`
	Coordinate    string `yaml:"coordinate"`
	Group         string `yaml:"group"`
	Artifact      string `yaml:"artifact"`
	Version       string `yaml:"version"`
	Platform      bool   `yaml:"platform"`
	Bom           string `yaml:"bom"`
}

// UnmarshalYAML decodes the scalar shorthand or the full mapping form
func (d *yamlDependency) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		d.Configuration = entities.ConfigImplementation
		d.Coordinate = node.Value
		return nil
	}

	type plain yamlDependency
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*d = yamlDependency(p)
	return nil
}

// ManifestParser parses YAML manifest files
type ManifestParser struct{}

// NewManifestParser creates a new YAML parser
func NewManifestParser() *ManifestParser {
	return &ManifestParser{}
}

// ParseFile parses a YAML manifest file into a Manifest entity
func (p *ManifestParser) ParseFile(filePath string) (*entities.Manifest, error) {
	//nolint:gosec // G304: filePath is a manifest path from the repository
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	return p.Parse(data)
}

// Parse parses YAML bytes into a Manifest entity. Malformed documents, unknown
// or repeated keys at any depth and keys of the wrong shape are reported as
// *entities.SchemaError.
func (p *ManifestParser) Parse(data []byte) (*entities.Manifest, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &entities.SchemaError{Path: "$", Reason: "malformed YAML: " + err.Error()}
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, &entities.SchemaError{Path: "$", Reason: "manifest is empty"}
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, &entities.SchemaError{Path: "$", Reason: "manifest must be a mapping"}
	}

	if err := checkKeys(root, reflect.TypeOf(yamlManifest{}), ""); err != nil {
		return nil, err
	}

	var raw yamlManifest
	fields := raw.fields()

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i].Value, root.Content[i+1]

		target, ok := fields[key]
		if !ok {
			return nil, &entities.SchemaError{Path: key, Reason: fmt.Sprintf("unknown key (line %d)", root.Content[i].Line)}
		}

		if key == "dependencies" {
			if err := decodeDependencies(value, &raw.Dependencies); err != nil {
				return nil, err
			}
			continue
		}

		if err := value.Decode(target); err != nil {
			return nil, &entities.SchemaError{Path: key, Reason: decodeReason(err)}
		}
	}

	return raw.toEntity()
}

func (raw *yamlManifest) fields() map[string]interface{} {
	return map[string]interface{}{
		"namespace":        &raw.Namespace,
		"compileSdk":       &raw.CompileSdk,
		"ndkVersion":       &raw.NdkVersion,
		"defaultConfig":    &raw.DefaultConfig,
		"compileOptions":   &raw.CompileOptions,
		"kotlinOptions":    &raw.KotlinOptions,
		"sourceSets":       &raw.SourceSets,
		"signingConfigs":   &raw.SigningConfigs,
		"buildTypes":       &raw.BuildTypes,
		"packagingOptions": &raw.PackagingOptions,
		"dependencies":     &raw.Dependencies,
		"plugins":          &raw.Plugins,
		"boms":             &raw.Boms,
		"flutter":          &raw.Flutter,
	}
}

func decodeDependencies(node *yaml.Node, out *[]yamlDependency) error {
	if node.Kind != yaml.SequenceNode {
		if node.Tag == "!!null" {
			return nil
		}
		return &entities.SchemaError{Path: "dependencies", Reason: fmt.Sprintf("expected a list (line %d)", node.Line)}
	}

	deps := make([]yamlDependency, len(node.Content))
	for i, item := range node.Content {
		if err := item.Decode(&deps[i]); err != nil {
			return &entities.SchemaError{Path: fmt.Sprintf("dependencies[%d]", i), Reason: decodeReason(err)}
		}
	}
	*out = deps
	return nil
}

func decodeReason(err error) string {
	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) {
		return strings.Join(typeErr.Errors, "; ")
	}
	return err.Error()
}

func (raw *yamlManifest) toEntity() (*entities.Manifest, error) {
	m := &entities.Manifest{
		Namespace:  raw.Namespace,
		CompileSdk: raw.CompileSdk,
		NdkVersion: raw.NdkVersion,
		DefaultConfig: entities.DefaultConfig{
			ApplicationID:   raw.DefaultConfig.ApplicationID,
			MinSdk:          raw.DefaultConfig.MinSdk,
			TargetSdk:       raw.DefaultConfig.TargetSdk,
			VersionCode:     raw.DefaultConfig.VersionCode,
			VersionName:     raw.DefaultConfig.VersionName,
			MultiDexEnabled: raw.DefaultConfig.MultiDexEnabled,
		},
		CompileOptions: entities.CompileOptions{
			SourceCompatibility:          raw.CompileOptions.SourceCompatibility,
			TargetCompatibility:          raw.CompileOptions.TargetCompatibility,
			CoreLibraryDesugaringEnabled: raw.CompileOptions.CoreLibraryDesugaringEnabled,
		},
		KotlinOptions:    entities.KotlinOptions{JvmTarget: raw.KotlinOptions.JvmTarget},
		PackagingOptions: entities.PackagingOptions{Excludes: raw.PackagingOptions.Excludes},
		Plugins:          raw.Plugins,
		Flutter:          entities.FlutterConfig{Source: raw.Flutter.Source},
	}

	if len(raw.SourceSets) > 0 {
		m.SourceSets = make(map[string]entities.SourceSet, len(raw.SourceSets))
		for name, s := range raw.SourceSets {
			m.SourceSets[name] = entities.SourceSet{Java: s.Java}
		}
	}

	if len(raw.SigningConfigs) > 0 {
		m.SigningConfigs = make(map[string]entities.SigningConfig, len(raw.SigningConfigs))
		for name, s := range raw.SigningConfigs {
			m.SigningConfigs[name] = entities.SigningConfig{
				StoreFile:     s.StoreFile,
				StorePassword: s.StorePassword,
				KeyAlias:      s.KeyAlias,
				KeyPassword:   s.KeyPassword,
			}
		}
	}

	m.BuildTypes = make(map[string]entities.BuildType, len(raw.BuildTypes))
	for name, bt := range raw.BuildTypes {
		m.BuildTypes[name] = entities.BuildType{
			Minify:          bt.Minify,
			ShrinkResources: bt.ShrinkResources,
			SigningConfig:   bt.SigningConfig,
			ProguardFiles:   bt.ProguardFiles,
		}
	}

	for i, d := range raw.Dependencies {
		dep, err := convertDependency(d, fmt.Sprintf("dependencies[%d]", i))
		if err != nil {
			return nil, err
		}
		m.Dependencies = append(m.Dependencies, dep)
	}

	for _, b := range raw.Boms {
		m.Boms = append(m.Boms, entities.Bom{ID: b.ID, Version: b.Version, Artifacts: b.Artifacts})
	}

	return m, nil
}

func convertDependency(d yamlDependency, path string) (entities.Dependency, error) {
	dep := entities.Dependency{
		Configuration: d.Configuration,
		Platform:      d.Platform,
		Bom:           d.Bom,
	}
	if dep.Configuration == "" {
		dep.Configuration = entities.ConfigImplementation
	}

	if d.Coordinate != "" {
		if d.Group != "" || d.Artifact != "" || d.Version != "" {
			return dep, &entities.SchemaError{Path: path, Reason: "coordinate and group/artifact/version are mutually exclusive"}
		}
		c, err := entities.ParseCoordinate(d.Coordinate)
		if err != nil {
			return dep, &entities.SchemaError{Path: path + ".coordinate", Reason: err.Error()}
		}
		dep.Coordinate = c
		return dep, nil
	}

	dep.Coordinate = entities.Coordinate{Group: d.Group, Artifact: d.Artifact, Version: d.Version}
	return dep, nil
}
