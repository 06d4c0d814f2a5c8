package entities

// Manifest represents an application build manifest loaded from YAML or HCL
type Manifest struct {
	Name             string // Repository lookup name (file stem), not part of the document
	Namespace        string
	CompileSdk       int
	NdkVersion       string
	DefaultConfig    DefaultConfig
	CompileOptions   CompileOptions
	KotlinOptions    KotlinOptions
	SourceSets       map[string]SourceSet
	SigningConfigs   map[string]SigningConfig
	BuildTypes       map[string]BuildType
	PackagingOptions PackagingOptions
	Dependencies     []Dependency
	Plugins          []string
	Boms             []Bom // Inline BoM tables, merged over the catalog
	Flutter          FlutterConfig
}

// DefaultConfig represents the defaultConfig block
type DefaultConfig struct {
	ApplicationID   string
	MinSdk          int
	TargetSdk       int
	VersionCode     int
	VersionName     string
	MultiDexEnabled bool
}

// CompileOptions represents Java source/target compatibility settings
type CompileOptions struct {
	SourceCompatibility          string // e.g., "1.8", "VERSION_17", "17"
	TargetCompatibility          string
	CoreLibraryDesugaringEnabled bool
}

// KotlinOptions represents Kotlin compiler settings
type KotlinOptions struct {
	JvmTarget string
}

// SourceSet lists source directories of a named source set
type SourceSet struct {
	Java []string
}

// SigningConfig represents a named signing configuration
type SigningConfig struct {
	StoreFile     string
	StorePassword string `masq:"secret"`
	KeyAlias      string
	KeyPassword   string `masq:"secret"`
}

// BuildType represents per-build-type flags (debug, release, ...)
type BuildType struct {
	Minify          bool
	ShrinkResources bool
	SigningConfig   string
	ProguardFiles   []string
}

// PackagingOptions represents packaging conflict resolution settings
type PackagingOptions struct {
	Excludes []string
}

// FlutterConfig represents the flutter block
type FlutterConfig struct {
	Source string
}

// DebugSigningConfig is always available without being declared
const DebugSigningConfig = "debug"

// Well-known plugin identifiers
const (
	PluginAndroidApplication = "com.android.application"
	PluginAndroidLibrary     = "com.android.library"
	PluginKotlinAndroid      = "org.jetbrains.kotlin.android"
	PluginFlutter            = "dev.flutter.flutter-gradle-plugin"
	PluginGoogleServices     = "com.google.gms.google-services"
	PluginCrashlytics        = "com.google.firebase.crashlytics"
)

// HasPlugin reports whether the manifest declares the given plugin id
func (m *Manifest) HasPlugin(id string) bool {
	for _, p := range m.Plugins {
		if p == id {
			return true
		}
	}
	return false
}
