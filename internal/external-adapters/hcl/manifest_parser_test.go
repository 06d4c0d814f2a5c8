package hcl

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ochairo/buildplan/internal/domain/entities"
)

var testVars = FlutterVariables{
	MinSdk:      21,
	TargetSdk:   34,
	CompileSdk:  35,
	NdkVersion:  "27.0.12077973",
	VersionCode: 7,
	VersionName: "1.0.7",
}

func TestManifestParser_ParseFile_LupusCare(t *testing.T) {
	parser := NewManifestParser(testVars)

	m, err := parser.ParseFile(filepath.Join("testdata", "lupuscare.hcl"))
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}

	if m.Namespace != "com.example.lupusCare" {
		t.Errorf("Namespace = %v", m.Namespace)
	}
	if m.NdkVersion != "27.0.12077973" {
		t.Errorf("NdkVersion = %v, want value from flutter.ndk_version", m.NdkVersion)
	}
	if m.DefaultConfig.MinSdk != 23 {
		t.Errorf("MinSdk = %d, want literal 23", m.DefaultConfig.MinSdk)
	}
	if m.DefaultConfig.TargetSdk != 34 || m.DefaultConfig.VersionCode != 7 || m.DefaultConfig.VersionName != "1.0.7" {
		t.Errorf("DefaultConfig = %+v, want flutter.* values", m.DefaultConfig)
	}
	if !m.DefaultConfig.MultiDexEnabled {
		t.Error("MultiDexEnabled should be true")
	}
	if len(m.Plugins) != 4 || m.Plugins[2] != entities.PluginFlutter {
		t.Errorf("Plugins = %v", m.Plugins)
	}
	if _, ok := m.BuildTypes["debug"]; !ok {
		t.Error("empty build_type block should still declare the build type")
	}
	if got := m.BuildTypes["release"]; got.SigningConfig != "debug" || len(got.ProguardFiles) != 2 {
		t.Errorf("release = %+v", got)
	}
	if got := m.SourceSets["main"].Java; len(got) != 1 || got[0] != "src/main/kotlin" {
		t.Errorf("SourceSets[main] = %v", got)
	}
	if len(m.PackagingOptions.Excludes) != 6 {
		t.Errorf("Excludes count = %d, want 6", len(m.PackagingOptions.Excludes))
	}
	if m.Flutter.Source != "../.." {
		t.Errorf("Flutter.Source = %v", m.Flutter.Source)
	}

	if len(m.Dependencies) != 5 {
		t.Fatalf("Dependencies count = %d, want 5", len(m.Dependencies))
	}
	if d := m.Dependencies[0]; d.Configuration != entities.ConfigCoreLibraryDesugaring || d.Coordinate.Version != "2.0.4" {
		t.Errorf("Dependencies[0] = %+v", d)
	}
	if d := m.Dependencies[1]; !d.Platform || d.Coordinate.Artifact != "firebase-bom" {
		t.Errorf("Dependencies[1] = %+v", d)
	}
}

func TestManifestParser_Parse_InlineBom(t *testing.T) {
	src := `
namespace   = "com.example.app"
compile_sdk = flutter.compile_sdk

bom "com.example:bom" {
  version   = "1.0"
  artifacts = {
    "com.example:lib" = "1.2.3"
  }
}

dependency "implementation" {
  coordinate = "com.example:lib"
  bom        = "com.example:bom"
}
`
	m, err := NewManifestParser(testVars).Parse([]byte(src), "inline.hcl")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if m.CompileSdk != 35 {
		t.Errorf("CompileSdk = %d, want 35", m.CompileSdk)
	}
	if len(m.Boms) != 1 || m.Boms[0].ID != "com.example:bom" || m.Boms[0].Artifacts["com.example:lib"] != "1.2.3" {
		t.Errorf("Boms = %+v", m.Boms)
	}
	if m.Dependencies[0].Bom != "com.example:bom" {
		t.Errorf("Dependencies[0].Bom = %q", m.Dependencies[0].Bom)
	}
}

func TestManifestParser_Parse_SchemaErrors(t *testing.T) {
	tests := []struct {
		name       string
		src        string
		wantPath   string
		wantReason string
	}{
		{
			name:       "syntax error",
			src:        "namespace = \n",
			wantPath:   "$",
			wantReason: "line ",
		},
		{
			name:     "missing required attribute",
			src:      `namespace = "com.example.app"`,
			wantPath: "$",
		},
		{
			name:     "unknown variable",
			src:      "namespace = \"com.example.app\"\ncompile_sdk = gradle.compile_sdk\n",
			wantPath: "$",
		},
		{
			name:     "wrong type",
			src:      "namespace = \"com.example.app\"\ncompile_sdk = \"thirty-five\"\n",
			wantPath: "$",
		},
		{
			name:     "unknown block",
			src:      "namespace = \"com.example.app\"\ncompile_sdk = 35\nandroid {}\n",
			wantPath: "$",
		},
		{
			name:     "bad coordinate",
			src:      "namespace = \"a.b\"\ncompile_sdk = 35\ndependency \"implementation\" {\n  coordinate = \"multidex\"\n}\n",
			wantPath: "dependencies[0].coordinate",
		},
		{
			name:     "duplicate build type",
			src:      "namespace = \"a.b\"\ncompile_sdk = 35\nbuild_type \"release\" {}\nbuild_type \"release\" {}\n",
			wantPath: "buildTypes.release",
		},
	}

	parser := NewManifestParser(testVars)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.Parse([]byte(tt.src), "test.hcl")

			var schemaErr *entities.SchemaError
			if !errors.As(err, &schemaErr) {
				t.Fatalf("Parse() error = %v, want *SchemaError", err)
			}
			if schemaErr.Path != tt.wantPath {
				t.Errorf("Path = %q, want %q", schemaErr.Path, tt.wantPath)
			}
			if tt.wantReason != "" && !strings.Contains(schemaErr.Reason, tt.wantReason) {
				t.Errorf("Reason = %q, want it to mention %q", schemaErr.Reason, tt.wantReason)
			}
		})
	}
}

func TestManifestParser_ParseFile_NotFound(t *testing.T) {
	_, err := NewManifestParser(testVars).ParseFile(filepath.Join(t.TempDir(), "missing.hcl"))
	if err == nil {
		t.Error("ParseFile() should return error for missing file")
	}
}
