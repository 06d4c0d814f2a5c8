package entities

// BuildPlan is the validated, resolved output consumed by a build executor
type BuildPlan struct {
	Namespace     string               `yaml:"namespace" json:"namespace"`
	ApplicationID string               `yaml:"applicationId" json:"applicationId"`
	Sdk           SdkLevels            `yaml:"sdk" json:"sdk"`
	NdkVersion    string               `yaml:"ndkVersion,omitempty" json:"ndkVersion,omitempty"`
	Version       AppVersion           `yaml:"version" json:"version"`
	MultiDex      bool                 `yaml:"multiDex" json:"multiDex"`
	Java          JavaTargets          `yaml:"java" json:"java"`
	Plugins       []string             `yaml:"plugins" json:"plugins"`
	Platforms     []Coordinate         `yaml:"platforms,omitempty" json:"platforms,omitempty"`
	Dependencies  []ResolvedDependency `yaml:"dependencies" json:"dependencies"`
	BuildTypes    []ResolvedBuildType  `yaml:"buildTypes" json:"buildTypes"`
	Packaging     []string             `yaml:"packagingExcludes" json:"packagingExcludes"`
	SourceSets    map[string][]string  `yaml:"sourceSets,omitempty" json:"sourceSets,omitempty"`
	FlutterSource string               `yaml:"flutterSource,omitempty" json:"flutterSource,omitempty"`
	Warnings      []string             `yaml:"warnings,omitempty" json:"warnings,omitempty"`
	Fingerprint   string               `yaml:"fingerprint" json:"fingerprint"`
}

// SdkLevels holds the validated SDK ordering minSdk <= targetSdk <= compileSdk
type SdkLevels struct {
	Min     int `yaml:"min" json:"min"`
	Target  int `yaml:"target" json:"target"`
	Compile int `yaml:"compile" json:"compile"`
}

// AppVersion holds the application version code and name
type AppVersion struct {
	Code int    `yaml:"code" json:"code"`
	Name string `yaml:"name" json:"name"`
}

// JavaTargets holds normalized Java/Kotlin targets
type JavaTargets struct {
	Source     string `yaml:"source,omitempty" json:"source,omitempty"`
	Target     string `yaml:"target,omitempty" json:"target,omitempty"`
	JvmTarget  string `yaml:"jvmTarget,omitempty" json:"jvmTarget,omitempty"`
	Desugaring bool   `yaml:"desugaring" json:"desugaring"`
}

// Version sources
const (
	SourceExplicit = "explicit"
	SourceBom      = "bom"
)

// ResolvedDependency is a dependency with a determined version
type ResolvedDependency struct {
	Configuration string `yaml:"configuration" json:"configuration"`
	Group         string `yaml:"group" json:"group"`
	Artifact      string `yaml:"artifact" json:"artifact"`
	Version       string `yaml:"version" json:"version"`
	Source        string `yaml:"source" json:"source"`
	Bom           string `yaml:"bom,omitempty" json:"bom,omitempty"`
	Platform      bool   `yaml:"platform,omitempty" json:"platform,omitempty"`
}

// Key returns the group:artifact identifier
func (d ResolvedDependency) Key() string {
	return d.Group + ":" + d.Artifact
}

// ResolvedVersion is the version table value for one artifact
type ResolvedVersion struct {
	Version string
	Source  string
	Bom     string
}

// ResolvedBuildType is a build type with its validated flag set
type ResolvedBuildType struct {
	Name            string   `yaml:"name" json:"name"`
	Minify          bool     `yaml:"minify" json:"minify"`
	ShrinkResources bool     `yaml:"shrinkResources" json:"shrinkResources"`
	SigningConfig   string   `yaml:"signingConfig,omitempty" json:"signingConfig,omitempty"`
	ProguardFiles   []string `yaml:"proguardFiles,omitempty" json:"proguardFiles,omitempty"`
}

// Versions returns the artifact -> resolved version table
func (p *BuildPlan) Versions() map[string]ResolvedVersion {
	table := make(map[string]ResolvedVersion, len(p.Dependencies))
	for _, d := range p.Dependencies {
		table[d.Key()] = ResolvedVersion{Version: d.Version, Source: d.Source, Bom: d.Bom}
	}
	return table
}
