package orchestrators

import (
	"context"
	"errors"

	"github.com/ochairo/buildplan/internal/domain/entities"
)

// Mock implementations for testing
type mockManifestRepository struct {
	manifest *entities.Manifest
	path     string
	err      error
}

func (m *mockManifestRepository) GetManifest(_ context.Context, _ string) (*entities.Manifest, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.manifest, nil
}

func (m *mockManifestRepository) ListManifests(_ context.Context) ([]*entities.Manifest, error) {
	return nil, errors.New("not implemented")
}

func (m *mockManifestRepository) ManifestPath(_ string) (string, error) {
	return m.path, nil
}

type mockBomRepository struct {
	catalog entities.BomCatalog
	err     error
}

func (m *mockBomRepository) LoadCatalog(_ context.Context) (entities.BomCatalog, error) {
	return m.catalog, m.err
}

type mockLockfileRepository struct {
	lock  *entities.Lockfile
	saved *entities.Lockfile
	err   error
}

func (m *mockLockfileRepository) Load(_ context.Context, _ string) (*entities.Lockfile, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.lock, nil
}

func (m *mockLockfileRepository) Save(_ context.Context, _ string, lock *entities.Lockfile) error {
	m.saved = lock
	return m.err
}

type mockVerifier struct {
	err   error
	calls int
}

func (m *mockVerifier) VerifySignatureFromFile(_, _ string) error {
	m.calls++
	return m.err
}

type mockAuditService struct {
	report    *entities.SecurityReport
	err       error
	block     bool
	threshold bool
}

func (m *mockAuditService) AuditPlan(_ context.Context, _ *entities.BuildPlan) (*entities.SecurityReport, error) {
	return m.report, m.err
}

func (m *mockAuditService) CalculateSecurityScore(report *entities.SecurityReport) float64 {
	return report.Score
}

func (m *mockAuditService) FilterVulnerabilities(vulns []entities.Vulnerability, minSeverity string) []entities.Vulnerability {
	var out []entities.Vulnerability
	for _, v := range vulns {
		if v.Severity == minSeverity || v.Severity == "CRITICAL" {
			out = append(out, v)
		}
	}
	return out
}

func (m *mockAuditService) ShouldBlockBuild(_ *entities.SecurityReport) bool {
	return m.block
}

func (m *mockAuditService) ExceedsThreshold(_ *entities.SecurityReport, _ string) bool {
	return m.threshold
}

type mockUpdateChecker struct {
	latest  map[string]string
	checked []string
}

func (m *mockUpdateChecker) CheckUpdate(_ context.Context, dep entities.ResolvedDependency) entities.UpdateInfo {
	m.checked = append(m.checked, dep.Key())
	latest, ok := m.latest[dep.Key()]
	if !ok {
		return entities.UpdateInfo{Artifact: dep.Key(), CurrentVersion: dep.Version, Error: "not found"}
	}
	return entities.UpdateInfo{
		Artifact:       dep.Key(),
		CurrentVersion: dep.Version,
		LatestVersion:  latest,
		UpdateNeeded:   latest != dep.Version,
	}
}

func testManifest() *entities.Manifest {
	return &entities.Manifest{
		Name:       "lupuscare",
		Namespace:  "com.example.lupusCare",
		CompileSdk: 35,
		DefaultConfig: entities.DefaultConfig{
			ApplicationID: "com.example.lupusCare",
			MinSdk:        23,
			TargetSdk:     34,
			VersionCode:   1,
			VersionName:   "1.0.0",
		},
		BuildTypes: map[string]entities.BuildType{"release": {SigningConfig: "debug"}},
		Dependencies: []entities.Dependency{
			{Configuration: "implementation", Platform: true, Coordinate: entities.Coordinate{Group: "com.google.firebase", Artifact: "firebase-bom", Version: "33.1.2"}},
			{Configuration: "implementation", Coordinate: entities.Coordinate{Group: "com.google.firebase", Artifact: "firebase-auth-ktx"}},
			{Configuration: "implementation", Coordinate: entities.Coordinate{Group: "androidx.core", Artifact: "core-ktx", Version: "1.12.0"}},
		},
		Plugins: []string{entities.PluginAndroidApplication, entities.PluginKotlinAndroid},
	}
}

func testCatalog() entities.BomCatalog {
	return entities.BomCatalog{}.Merge([]entities.Bom{{
		ID:        "com.google.firebase:firebase-bom",
		Version:   "33.1.2",
		Artifacts: map[string]string{"com.google.firebase:firebase-auth-ktx": "23.0.0"},
	}})
}
