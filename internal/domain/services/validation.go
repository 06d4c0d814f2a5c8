package services

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ochairo/buildplan/internal/domain/entities"
)

var (
	reverseDomainRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*(\.[A-Za-z][A-Za-z0-9_]*)+$`)
	ndkVersionRegex    = regexp.MustCompile(`^\d+\.\d+\.\d+$`)
)

// ValidatedManifest is a manifest that passed every schema and constraint check
type ValidatedManifest struct {
	Manifest *entities.Manifest

	// Java feature releases normalized from compileOptions/kotlinOptions (0 when unset)
	SourceJava int
	TargetJava int
	JvmTarget  int
}

// Validate checks a manifest in a fixed order and returns the first violation.
// The returned error is always an entities.ConfigError.
func Validate(m *entities.Manifest) (*ValidatedManifest, error) {
	if m == nil {
		return nil, &entities.SchemaError{Path: "$", Reason: "manifest is empty"}
	}

	vm := &ValidatedManifest{Manifest: m}

	if err := validateSchema(m, vm); err != nil {
		return nil, err
	}
	if err := validateSdkOrdering(m); err != nil {
		return nil, err
	}
	if err := validateBuildTypes(m); err != nil {
		return nil, err
	}
	if err := validateJavaTargets(m, vm); err != nil {
		return nil, err
	}

	return vm, nil
}

func validateSchema(m *entities.Manifest, vm *ValidatedManifest) error {
	if err := requireReverseDomain("namespace", m.Namespace); err != nil {
		return err
	}
	if err := requirePositive("compileSdk", m.CompileSdk); err != nil {
		return err
	}
	if m.NdkVersion != "" && !ndkVersionRegex.MatchString(m.NdkVersion) {
		return &entities.SchemaError{Path: "ndkVersion", Reason: fmt.Sprintf("expected major.minor.build, got %q", m.NdkVersion)}
	}

	dc := m.DefaultConfig
	if err := requireReverseDomain("defaultConfig.applicationId", dc.ApplicationID); err != nil {
		return err
	}
	if err := requirePositive("defaultConfig.minSdk", dc.MinSdk); err != nil {
		return err
	}
	if err := requirePositive("defaultConfig.targetSdk", dc.TargetSdk); err != nil {
		return err
	}
	if err := requirePositive("defaultConfig.versionCode", dc.VersionCode); err != nil {
		return err
	}
	if strings.TrimSpace(dc.VersionName) == "" {
		return &entities.SchemaError{Path: "defaultConfig.versionName", Reason: "required"}
	}

	var err error
	if vm.SourceJava, err = parseJavaField("compileOptions.sourceCompatibility", m.CompileOptions.SourceCompatibility); err != nil {
		return err
	}
	if vm.TargetJava, err = parseJavaField("compileOptions.targetCompatibility", m.CompileOptions.TargetCompatibility); err != nil {
		return err
	}
	if vm.JvmTarget, err = parseJavaField("kotlinOptions.jvmTarget", m.KotlinOptions.JvmTarget); err != nil {
		return err
	}

	seen := make(map[string]int, len(m.Plugins))
	for i, p := range m.Plugins {
		path := fmt.Sprintf("plugins[%d]", i)
		if strings.TrimSpace(p) == "" {
			return &entities.SchemaError{Path: path, Reason: "plugin id must not be empty"}
		}
		if first, dup := seen[p]; dup {
			return &entities.SchemaError{Path: path, Reason: fmt.Sprintf("duplicate plugin %s (first declared at plugins[%d])", p, first)}
		}
		seen[p] = i
	}

	if m.HasPlugin(entities.PluginFlutter) && strings.TrimSpace(m.Flutter.Source) == "" {
		return &entities.SchemaError{Path: "flutter.source", Reason: "required when " + entities.PluginFlutter + " is applied"}
	}

	for i, d := range m.Dependencies {
		path := fmt.Sprintf("dependencies[%d]", i)
		if d.Coordinate.Group == "" || d.Coordinate.Artifact == "" {
			return &entities.SchemaError{Path: path + ".coordinate", Reason: "group and artifact are required"}
		}
		if d.Configuration == "" {
			return &entities.SchemaError{Path: path + ".configuration", Reason: "required"}
		}
		if d.Platform && d.Coordinate.Version == "" {
			return &entities.SchemaError{Path: path + ".coordinate", Reason: "a platform BoM must state its version"}
		}
		if d.Bom != "" && d.Coordinate.Version != "" {
			return &entities.SchemaError{Path: path + ".bom", Reason: "bom and an explicit version are mutually exclusive"}
		}
	}

	for i, b := range m.Boms {
		path := fmt.Sprintf("boms[%d]", i)
		if b.ID == "" || b.Version == "" {
			return &entities.SchemaError{Path: path, Reason: "id and version are required"}
		}
	}

	return nil
}

func validateSdkOrdering(m *entities.Manifest) error {
	minSdk, targetSdk := m.DefaultConfig.MinSdk, m.DefaultConfig.TargetSdk
	if targetSdk < minSdk {
		return &entities.ConstraintError{
			Path:   "defaultConfig.targetSdk",
			Rule:   "targetSdk<minSdk",
			Values: []string{"targetSdk=" + strconv.Itoa(targetSdk), "minSdk=" + strconv.Itoa(minSdk)},
		}
	}
	if m.CompileSdk < targetSdk {
		return &entities.ConstraintError{
			Path:   "compileSdk",
			Rule:   "compileSdk<targetSdk",
			Values: []string{"compileSdk=" + strconv.Itoa(m.CompileSdk), "targetSdk=" + strconv.Itoa(targetSdk)},
		}
	}
	return nil
}

func validateBuildTypes(m *entities.Manifest) error {
	names := make([]string, 0, len(m.BuildTypes))
	for name := range m.BuildTypes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		bt := m.BuildTypes[name]
		path := "buildTypes." + name

		if bt.ShrinkResources && !bt.Minify {
			return &entities.ConstraintError{
				Path:   path + ".shrinkResources",
				Rule:   "shrinkResources requires minify",
				Values: []string{"shrinkResources=true", "minify=false"},
			}
		}

		if bt.SigningConfig == "" || bt.SigningConfig == entities.DebugSigningConfig {
			continue
		}
		if _, ok := m.SigningConfigs[bt.SigningConfig]; !ok {
			return &entities.ConstraintError{
				Path:   path + ".signingConfig",
				Rule:   "signing config must be declared",
				Values: []string{"signingConfig=" + bt.SigningConfig},
			}
		}
	}
	return nil
}

func validateJavaTargets(m *entities.Manifest, vm *ValidatedManifest) error {
	if vm.SourceJava != 0 && vm.TargetJava != 0 && vm.TargetJava < vm.SourceJava {
		return &entities.ConstraintError{
			Path: "compileOptions.targetCompatibility",
			Rule: "targetCompatibility<sourceCompatibility",
			Values: []string{
				"targetCompatibility=" + m.CompileOptions.TargetCompatibility,
				"sourceCompatibility=" + m.CompileOptions.SourceCompatibility,
			},
		}
	}

	if vm.JvmTarget != 0 && vm.TargetJava != 0 && vm.JvmTarget != vm.TargetJava {
		return &entities.ConstraintError{
			Path: "kotlinOptions.jvmTarget",
			Rule: "jvmTarget must match targetCompatibility",
			Values: []string{
				"jvmTarget=" + m.KotlinOptions.JvmTarget,
				"targetCompatibility=" + m.CompileOptions.TargetCompatibility,
			},
		}
	}

	if m.CompileOptions.CoreLibraryDesugaringEnabled && !hasConfiguration(m, entities.ConfigCoreLibraryDesugaring) {
		return &entities.ConstraintError{
			Path:   "compileOptions.coreLibraryDesugaringEnabled",
			Rule:   "desugaring requires a coreLibraryDesugaring dependency",
			Values: []string{"coreLibraryDesugaringEnabled=true", "coreLibraryDesugaring dependencies=0"},
		}
	}
	return nil
}

func requirePositive(path string, v int) error {
	if v <= 0 {
		return &entities.SchemaError{Path: path, Reason: fmt.Sprintf("must be a positive integer, got %d", v)}
	}
	return nil
}

func requireReverseDomain(path, v string) error {
	if strings.TrimSpace(v) == "" {
		return &entities.SchemaError{Path: path, Reason: "required"}
	}
	if !reverseDomainRegex.MatchString(v) {
		return &entities.SchemaError{Path: path, Reason: fmt.Sprintf("expected a reverse-domain identifier, got %q", v)}
	}
	return nil
}

func parseJavaField(path, v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := ParseJavaVersion(v)
	if err != nil {
		return 0, &entities.SchemaError{Path: path, Reason: err.Error()}
	}
	return n, nil
}

// ParseJavaVersion normalizes "1.8", "8", "VERSION_1_8", "JavaVersion.VERSION_17"
// and "17" to the Java feature release number.
func ParseJavaVersion(v string) (int, error) {
	s := strings.TrimSpace(v)
	s = strings.TrimPrefix(s, "JavaVersion.")
	s = strings.TrimPrefix(s, "VERSION_")
	s = strings.ReplaceAll(s, "_", ".")
	s = strings.TrimPrefix(s, "1.")

	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("unrecognized Java version %q", v)
	}
	return n, nil
}

// FormatJavaVersion renders a feature release the way Gradle does ("1.8", "11", "17")
func FormatJavaVersion(n int) string {
	if n == 0 {
		return ""
	}
	if n <= 8 {
		return "1." + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

func hasConfiguration(m *entities.Manifest, configuration string) bool {
	for _, d := range m.Dependencies {
		if d.Configuration == configuration {
			return true
		}
	}
	return false
}
