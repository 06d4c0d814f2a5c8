// Package hcl provides HCL-based manifest parsing.
package hcl

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/ochairo/buildplan/internal/domain/entities"
	"github.com/zclconf/go-cty/cty"
)

// FlutterVariables are the values exposed to manifests as the `flutter` object,
// mirroring flutter.minSdkVersion and friends in Gradle scripts
type FlutterVariables struct {
	MinSdk      int
	TargetSdk   int
	CompileSdk  int
	NdkVersion  string
	VersionCode int
	VersionName string
}

// hclManifest is the top-level structure of a manifest file for decoding
type hclManifest struct {
	Namespace      string              `hcl:"namespace"`
	CompileSdk     int                 `hcl:"compile_sdk"`
	NdkVersion     string              `hcl:"ndk_version,optional"`
	Plugins        []string            `hcl:"plugins,optional"`
	DefaultConfig  *hclDefaultConfig   `hcl:"default_config,block"`
	CompileOptions *hclCompileOptions  `hcl:"compile_options,block"`
	KotlinOptions  *hclKotlinOptions   `hcl:"kotlin_options,block"`
	SourceSets     []*hclSourceSet     `hcl:"source_set,block"`
	SigningConfigs []*hclSigningConfig `hcl:"signing_config,block"`
	BuildTypes     []*hclBuildType     `hcl:"build_type,block"`
	Packaging      *hclPackaging       `hcl:"packaging,block"`
	Dependencies   []*hclDependency    `hcl:"dependency,block"`
	Boms           []*hclBom           `hcl:"bom,block"`
	Flutter        *hclFlutter         `hcl:"flutter,block"`
}

type hclDefaultConfig struct {
	ApplicationID   string `hcl:"application_id"`
	MinSdk          int    `hcl:"min_sdk"`
	TargetSdk       int    `hcl:"target_sdk"`
	VersionCode     int    `hcl:"version_code"`
	VersionName     string `hcl:"version_name"`
	MultiDexEnabled bool   `hcl:"multidex_enabled,optional"`
}

type hclCompileOptions struct {
	SourceCompatibility          string `hcl:"source_compatibility,optional"`
	TargetCompatibility          string `hcl:"target_compatibility,optional"`
	CoreLibraryDesugaringEnabled bool   `hcl:"core_library_desugaring_enabled,optional"`
}

type hclKotlinOptions struct {
	JvmTarget string `hcl:"jvm_target,optional"`
}

type hclSourceSet struct {
	Name string   `hcl:",label"`
	Java []string `hcl:"java,optional"`
}

type hclSigningConfig struct {
	Name          string `hcl:",label"`
	StoreFile     string `hcl:"store_file"`
	StorePassword string `hcl:"store_password,optional"`
	KeyAlias      string `hcl:"key_alias"`
	KeyPassword   string `hcl:"key_password,optional"`
}

type hclBuildType struct {
	Name            string   `hcl:",label"`
	Minify          bool     `hcl:"minify,optional"`
	ShrinkResources bool     `hcl:"shrink_resources,optional"`
	SigningConfig   string   `hcl:"signing_config,optional"`
	ProguardFiles   []string `hcl:"proguard_files,optional"`
}

type hclPackaging struct {
	Excludes []string `hcl:"excludes,optional"`
}

type hclDependency struct {
	Configuration string `hcl:",label"`
	Coordinate    string `hcl:"coordinate"`
	Platform      bool   `hcl:"platform,optional"`
	Bom           string `hcl:"bom,optional"`
}

type hclBom struct {
	ID        string            `hcl:",label"`
	Version   string            `hcl:"version"`
	Artifacts map[string]string `hcl:"artifacts,optional"`
}

type hclFlutter struct {
	Source string `hcl:"source"`
}

// ManifestParser parses HCL manifest files
type ManifestParser struct {
	vars FlutterVariables
}

// NewManifestParser creates a new HCL parser that resolves `flutter.*` references
// against the given values
func NewManifestParser(vars FlutterVariables) *ManifestParser {
	return &ManifestParser{vars: vars}
}

// ParseFile parses an HCL manifest file into a Manifest entity
func (p *ManifestParser) ParseFile(filePath string) (*entities.Manifest, error) {
	//nolint:gosec // G304: filePath is a manifest path from the repository
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	return p.Parse(data, filePath)
}

// Parse parses HCL bytes into a Manifest entity. Syntax and decode failures are
// reported as *entities.SchemaError carrying the source location.
func (p *ManifestParser) Parse(data []byte, filename string) (*entities.Manifest, error) {
	// A fresh parser per call: hclparse.Parser caches files by name
	parser := hclparse.NewParser()

	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, schemaErrorFromDiags("$", diags)
	}

	var raw hclManifest
	diags = gohcl.DecodeBody(file.Body, p.evalContext(), &raw)
	if diags.HasErrors() {
		return nil, schemaErrorFromDiags("$", diags)
	}

	return raw.toEntity()
}

func (p *ManifestParser) evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"flutter": cty.ObjectVal(map[string]cty.Value{
				"min_sdk":      cty.NumberIntVal(int64(p.vars.MinSdk)),
				"target_sdk":   cty.NumberIntVal(int64(p.vars.TargetSdk)),
				"compile_sdk":  cty.NumberIntVal(int64(p.vars.CompileSdk)),
				"ndk_version":  cty.StringVal(p.vars.NdkVersion),
				"version_code": cty.NumberIntVal(int64(p.vars.VersionCode)),
				"version_name": cty.StringVal(p.vars.VersionName),
			}),
		},
	}
}

func schemaErrorFromDiags(path string, diags hcl.Diagnostics) *entities.SchemaError {
	reason := diags.Error()
	for _, d := range diags {
		if d.Severity == hcl.DiagError && d.Subject != nil {
			reason = fmt.Sprintf("%s: %s (line %d)", d.Summary, d.Detail, d.Subject.Start.Line)
			break
		}
	}
	return &entities.SchemaError{Path: path, Reason: reason}
}

func (raw *hclManifest) toEntity() (*entities.Manifest, error) {
	m := &entities.Manifest{
		Namespace:  raw.Namespace,
		CompileSdk: raw.CompileSdk,
		NdkVersion: raw.NdkVersion,
		Plugins:    raw.Plugins,
		BuildTypes: make(map[string]entities.BuildType, len(raw.BuildTypes)),
	}

	if dc := raw.DefaultConfig; dc != nil {
		m.DefaultConfig = entities.DefaultConfig{
			ApplicationID:   dc.ApplicationID,
			MinSdk:          dc.MinSdk,
			TargetSdk:       dc.TargetSdk,
			VersionCode:     dc.VersionCode,
			VersionName:     dc.VersionName,
			MultiDexEnabled: dc.MultiDexEnabled,
		}
	}
	if co := raw.CompileOptions; co != nil {
		m.CompileOptions = entities.CompileOptions{
			SourceCompatibility:          co.SourceCompatibility,
			TargetCompatibility:          co.TargetCompatibility,
			CoreLibraryDesugaringEnabled: co.CoreLibraryDesugaringEnabled,
		}
	}
	if raw.KotlinOptions != nil {
		m.KotlinOptions = entities.KotlinOptions{JvmTarget: raw.KotlinOptions.JvmTarget}
	}
	if raw.Packaging != nil {
		m.PackagingOptions = entities.PackagingOptions{Excludes: raw.Packaging.Excludes}
	}
	if raw.Flutter != nil {
		m.Flutter = entities.FlutterConfig{Source: raw.Flutter.Source}
	}

	if len(raw.SourceSets) > 0 {
		m.SourceSets = make(map[string]entities.SourceSet, len(raw.SourceSets))
	}
	for _, s := range raw.SourceSets {
		if _, dup := m.SourceSets[s.Name]; dup {
			return nil, &entities.SchemaError{Path: "sourceSets." + s.Name, Reason: "declared more than once"}
		}
		m.SourceSets[s.Name] = entities.SourceSet{Java: s.Java}
	}

	if len(raw.SigningConfigs) > 0 {
		m.SigningConfigs = make(map[string]entities.SigningConfig, len(raw.SigningConfigs))
	}
	for _, s := range raw.SigningConfigs {
		if _, dup := m.SigningConfigs[s.Name]; dup {
			return nil, &entities.SchemaError{Path: "signingConfigs." + s.Name, Reason: "declared more than once"}
		}
		m.SigningConfigs[s.Name] = entities.SigningConfig{
			StoreFile:     s.StoreFile,
			StorePassword: s.StorePassword,
			KeyAlias:      s.KeyAlias,
			KeyPassword:   s.KeyPassword,
		}
	}

	for _, bt := range raw.BuildTypes {
		if _, dup := m.BuildTypes[bt.Name]; dup {
			return nil, &entities.SchemaError{Path: "buildTypes." + bt.Name, Reason: "declared more than once"}
		}
		m.BuildTypes[bt.Name] = entities.BuildType{
			Minify:          bt.Minify,
			ShrinkResources: bt.ShrinkResources,
			SigningConfig:   bt.SigningConfig,
			ProguardFiles:   bt.ProguardFiles,
		}
	}

	for i, d := range raw.Dependencies {
		c, err := entities.ParseCoordinate(d.Coordinate)
		if err != nil {
			return nil, &entities.SchemaError{Path: fmt.Sprintf("dependencies[%d].coordinate", i), Reason: err.Error()}
		}
		m.Dependencies = append(m.Dependencies, entities.Dependency{
			Configuration: d.Configuration,
			Coordinate:    c,
			Platform:      d.Platform,
			Bom:           d.Bom,
		})
	}

	for _, b := range raw.Boms {
		m.Boms = append(m.Boms, entities.Bom{ID: b.ID, Version: b.Version, Artifacts: b.Artifacts})
	}

	return m, nil
}
