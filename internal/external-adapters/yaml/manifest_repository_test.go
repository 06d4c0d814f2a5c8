package yaml

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ochairo/buildplan/internal/domain/entities"
	"github.com/ochairo/buildplan/internal/domain/interfaces"
)

const minimalManifest = `namespace: com.example.app
compileSdk: 35
defaultConfig:
  applicationId: com.example.app
  minSdk: 23
  targetSdk: 34
  versionCode: 1
  versionName: "1.0"
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
	return path
}

func TestManifestRepository_GetManifest_Success(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "app.yml", minimalManifest)

	repo := NewManifestRepository(tmpDir, &interfaces.NoOpLogger{})
	m, err := repo.GetManifest(context.Background(), "app")
	if err != nil {
		t.Fatalf("GetManifest() error = %v", err)
	}

	if m.Name != "app" {
		t.Errorf("GetManifest() name = %v, want app", m.Name)
	}
	if m.DefaultConfig.ApplicationID != "com.example.app" {
		t.Errorf("GetManifest() applicationId = %v", m.DefaultConfig.ApplicationID)
	}
}

func TestManifestRepository_GetManifest_ByPath(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeFile(t, tmpDir, "standalone.yaml", minimalManifest)

	repo := NewManifestRepository(t.TempDir(), nil)
	m, err := repo.GetManifest(context.Background(), path)
	if err != nil {
		t.Fatalf("GetManifest() error = %v", err)
	}
	if m.Name != "standalone" {
		t.Errorf("GetManifest() name = %v, want standalone", m.Name)
	}
}

func TestManifestRepository_GetManifest_NotFound(t *testing.T) {
	repo := NewManifestRepository(t.TempDir(), nil)

	_, err := repo.GetManifest(context.Background(), "nonexistent")
	if err == nil {
		t.Error("GetManifest() should return error for nonexistent manifest")
	}
}

type stubParser struct {
	calls int
}

func (s *stubParser) ParseFile(_ string) (*entities.Manifest, error) {
	s.calls++
	return &entities.Manifest{Namespace: "com.example.stub"}, nil
}

func TestManifestRepository_RegisterParser(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "app.hcl", "namespace = \"com.example.stub\"\n")

	stub := &stubParser{}
	repo := NewManifestRepository(tmpDir, nil)
	repo.RegisterParser(".hcl", stub)

	m, err := repo.GetManifest(context.Background(), "app")
	if err != nil {
		t.Fatalf("GetManifest() error = %v", err)
	}
	if stub.calls != 1 || m.Namespace != "com.example.stub" || m.Name != "app" {
		t.Errorf("GetManifest() = %+v after %d parser calls", m, stub.calls)
	}
}

func TestManifestRepository_ListManifests(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "zeta.yaml", minimalManifest)
	writeFile(t, tmpDir, "alpha.yml", minimalManifest)
	writeFile(t, tmpDir, "broken.yml", "compileSdk: [35]\n")
	writeFile(t, tmpDir, "README.md", "# manifests\n")
	if err := os.Mkdir(filepath.Join(tmpDir, "nested.yml"), 0o755); err != nil {
		t.Fatal(err)
	}

	repo := NewManifestRepository(tmpDir, nil)
	manifests, err := repo.ListManifests(context.Background())
	if err != nil {
		t.Fatalf("ListManifests() error = %v", err)
	}

	if len(manifests) != 2 {
		t.Fatalf("ListManifests() returned %d manifests, want 2", len(manifests))
	}
	if manifests[0].Name != "alpha" || manifests[1].Name != "zeta" {
		t.Errorf("ListManifests() order = %s, %s", manifests[0].Name, manifests[1].Name)
	}
}

func TestManifestRepository_ListManifests_MissingDir(t *testing.T) {
	repo := NewManifestRepository(filepath.Join(t.TempDir(), "missing"), nil)

	if _, err := repo.ListManifests(context.Background()); err == nil {
		t.Error("ListManifests() should fail for a missing directory")
	}
}
