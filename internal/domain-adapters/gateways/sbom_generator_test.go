package gateways

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ochairo/buildplan/internal/domain/entities"
)

func samplePlan() *entities.BuildPlan {
	return &entities.BuildPlan{
		Namespace:     "com.example.lupusCare",
		ApplicationID: "com.example.lupusCare",
		Version:       entities.AppVersion{Code: 7, Name: "1.2.0"},
		Dependencies: []entities.ResolvedDependency{
			{Configuration: "implementation", Group: "com.google.firebase", Artifact: "firebase-bom", Version: "33.1.2", Source: entities.SourceExplicit, Platform: true},
			{Configuration: "implementation", Group: "com.google.firebase", Artifact: "firebase-auth-ktx", Version: "23.0.0", Source: entities.SourceBom, Bom: "com.google.firebase:firebase-bom@33.1.2"},
			{Configuration: "compileOnly", Group: "javax.annotation", Artifact: "jsr250-api", Version: "1.0", Source: entities.SourceExplicit},
			{Configuration: "testImplementation", Group: "junit", Artifact: "junit", Version: "4.13.2", Source: entities.SourceExplicit},
			{Configuration: "api", Group: "junit", Artifact: "junit", Version: "4.13.2", Source: entities.SourceExplicit},
		},
	}
}

func TestGenerateSBOM(t *testing.T) {
	tmpDir := t.TempDir()
	manifest := filepath.Join(tmpDir, "lupuscare.yaml")
	if err := os.WriteFile(manifest, []byte("abc"), 0600); err != nil {
		t.Fatalf("Failed to create manifest: %v", err)
	}

	generator := NewSBOMGenerator("1.0.0")
	generator.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	sbom, err := generator.GenerateSBOM(context.Background(), samplePlan(), manifest)
	if err != nil {
		t.Fatalf("GenerateSBOM() error = %v", err)
	}

	if sbom.BOMFormat != "CycloneDX" || sbom.SpecVersion != "1.4" {
		t.Errorf("format = %s %s, want CycloneDX 1.4", sbom.BOMFormat, sbom.SpecVersion)
	}

	app := entities.Component{
		Type:    "application",
		Name:    "com.example.lupusCare",
		Version: "1.2.0",
		Hashes:  []entities.Hash{{Algorithm: "SHA-256", Value: "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"}},
	}
	want := []entities.Component{
		app,
		{Type: "platform", Group: "com.google.firebase", Name: "firebase-bom", Version: "33.1.2", PURL: "pkg:maven/com.google.firebase/firebase-bom@33.1.2", Scope: "required"},
		{Type: "library", Group: "com.google.firebase", Name: "firebase-auth-ktx", Version: "23.0.0", PURL: "pkg:maven/com.google.firebase/firebase-auth-ktx@23.0.0", Scope: "required"},
		{Type: "library", Group: "javax.annotation", Name: "jsr250-api", Version: "1.0", PURL: "pkg:maven/javax.annotation/jsr250-api@1.0", Scope: "optional"},
		{Type: "library", Group: "junit", Name: "junit", Version: "4.13.2", PURL: "pkg:maven/junit/junit@4.13.2", Scope: "excluded"},
	}
	if diff := cmp.Diff(want, sbom.Components); diff != "" {
		t.Errorf("Components mismatch (-want +got):\n%s", diff)
	}

	if sbom.Metadata.Component == nil || sbom.Metadata.Component.Name != app.Name {
		t.Errorf("Metadata.Component = %+v", sbom.Metadata.Component)
	}
	if len(sbom.Metadata.Tools) != 1 || sbom.Metadata.Tools[0].Name != "buildplan" {
		t.Errorf("Metadata.Tools = %+v", sbom.Metadata.Tools)
	}
}

func TestGenerateSBOM_WithoutManifest(t *testing.T) {
	sbom, err := NewSBOMGenerator("dev").GenerateSBOM(context.Background(), samplePlan(), "")
	if err != nil {
		t.Fatalf("GenerateSBOM() error = %v", err)
	}
	if len(sbom.Components[0].Hashes) != 0 {
		t.Errorf("application hashes = %v, want none", sbom.Components[0].Hashes)
	}
}

func TestGenerateSBOM_Errors(t *testing.T) {
	generator := NewSBOMGenerator("dev")

	if _, err := generator.GenerateSBOM(context.Background(), nil, ""); err == nil {
		t.Error("GenerateSBOM(nil) should fail")
	}
	if _, err := generator.GenerateSBOM(context.Background(), samplePlan(), filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("GenerateSBOM() should fail for a missing manifest")
	}
}

func TestEncodeCycloneDX(t *testing.T) {
	generator := NewSBOMGenerator("1.0.0")
	generator.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	sbom, err := generator.GenerateSBOM(context.Background(), samplePlan(), "")
	if err != nil {
		t.Fatal(err)
	}

	data, err := EncodeCycloneDX(sbom)
	if err != nil {
		t.Fatalf("EncodeCycloneDX() error = %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if doc["bomFormat"] != "CycloneDX" || doc["specVersion"] != "1.4" {
		t.Errorf("header = %v %v", doc["bomFormat"], doc["specVersion"])
	}
	metadata, _ := doc["metadata"].(map[string]any)
	if metadata["timestamp"] != "2026-01-02T03:04:05Z" {
		t.Errorf("timestamp = %v", metadata["timestamp"])
	}
	components, _ := doc["components"].([]any)
	if len(components) != 5 {
		t.Fatalf("components = %d, want 5", len(components))
	}
	auth, _ := components[2].(map[string]any)
	if auth["purl"] != "pkg:maven/com.google.firebase/firebase-auth-ktx@23.0.0" {
		t.Errorf("purl = %v", auth["purl"])
	}
}

func TestPackageURL(t *testing.T) {
	if got := PackageURL("androidx.core", "core-ktx", "1.13.1"); got != "pkg:maven/androidx.core/core-ktx@1.13.1" {
		t.Errorf("PackageURL() = %s", got)
	}
}
