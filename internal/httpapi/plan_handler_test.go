package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/ochairo/buildplan/internal/domain/entities"
	"github.com/ochairo/buildplan/internal/domain/services"
	hclparser "github.com/ochairo/buildplan/internal/external-adapters/hcl"
	yamlparser "github.com/ochairo/buildplan/internal/external-adapters/yaml"
)

const yamlManifest = `namespace: com.example.app
compileSdk: 35
defaultConfig:
  applicationId: com.example.app
  minSdk: 23
  targetSdk: 34
  versionCode: 1
  versionName: "1.0"
dependencies:
  - coordinate: com.google.firebase:firebase-bom:33.1.2
    platform: true
  - com.google.firebase:firebase-auth-ktx
`

const hclManifest = `
namespace   = "com.example.app"
compile_sdk = flutter.compile_sdk

default_config {
  application_id = "com.example.app"
  min_sdk        = flutter.min_sdk
  target_sdk     = flutter.target_sdk
  version_code   = flutter.version_code
  version_name   = flutter.version_name
}

dependency "implementation" {
  coordinate = "androidx.core:core-ktx:1.12.0"
}
`

func newTestRouter() http.Handler {
	catalog := entities.BomCatalog{}
	bom := entities.Bom{
		ID:        "com.google.firebase:firebase-bom",
		Version:   "33.1.2",
		Artifacts: map[string]string{"com.google.firebase:firebase-auth-ktx": "23.0.0"},
	}
	catalog[bom.Key()] = bom

	yp := yamlparser.NewManifestParser()
	hp := hclparser.NewManifestParser(hclparser.FlutterVariables{
		MinSdk: 21, TargetSdk: 34, CompileSdk: 34, VersionCode: 1, VersionName: "1.0.0",
	})

	handler := NewPlanHandler(
		services.NewResolverService(nil, services.ResolverOptions{}),
		catalog,
		yp.Parse,
		func(data []byte) (*entities.Manifest, error) { return hp.Parse(data, "request.hcl") },
		nil,
	)
	return NewRouter(handler)
}

func postPlan(t *testing.T, router http.Handler, contentType, accept, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/plans", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestLiveness(t *testing.T) {
	router := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}
}

func TestCreatePlan_YAML(t *testing.T) {
	rec := postPlan(t, newTestRouter(), "application/yaml", "", yamlManifest)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var plan entities.BuildPlan
	if err := json.Unmarshal(rec.Body.Bytes(), &plan); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if plan.ApplicationID != "com.example.app" {
		t.Errorf("ApplicationID = %q", plan.ApplicationID)
	}
	if plan.Fingerprint == "" {
		t.Error("Fingerprint is empty")
	}
	versions := plan.Versions()
	if got := versions["com.google.firebase:firebase-auth-ktx"].Version; got != "23.0.0" {
		t.Errorf("firebase-auth-ktx version = %q, want 23.0.0", got)
	}
}

func TestCreatePlan_NoContentTypeDefaultsToYAML(t *testing.T) {
	rec := postPlan(t, newTestRouter(), "", "", yamlManifest)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestCreatePlan_HCL(t *testing.T) {
	rec := postPlan(t, newTestRouter(), "application/hcl", "", hclManifest)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var plan entities.BuildPlan
	if err := json.Unmarshal(rec.Body.Bytes(), &plan); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if plan.Sdk.Min != 21 || plan.Sdk.Compile != 34 {
		t.Errorf("Sdk = %+v, want values from flutter variables", plan.Sdk)
	}
}

func TestCreatePlan_AcceptYAML(t *testing.T) {
	rec := postPlan(t, newTestRouter(), "application/yaml", "application/yaml", yamlManifest)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/yaml" {
		t.Errorf("Content-Type = %q, want application/yaml", ct)
	}
	var plan entities.BuildPlan
	if err := yaml.Unmarshal(rec.Body.Bytes(), &plan); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	if plan.Namespace != "com.example.app" {
		t.Errorf("Namespace = %q", plan.Namespace)
	}
}

func TestCreatePlan_ConfigErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantKind string
		wantPath string
	}{
		{
			name:     "target below min",
			body:     strings.Replace(yamlManifest, "targetSdk: 34", "targetSdk: 22", 1),
			wantKind: entities.KindConstraint,
			wantPath: "defaultConfig.targetSdk",
		},
		{
			name:     "unresolved version",
			body:     strings.Replace(yamlManifest, "firebase-auth-ktx", "firebase-unknown", 1),
			wantKind: entities.KindUnresolvedVersion,
			wantPath: "dependencies[1]",
		},
		{
			name:     "missing version name",
			body:     strings.Replace(yamlManifest, `  versionName: "1.0"`+"\n", "", 1),
			wantKind: entities.KindSchema,
			wantPath: "defaultConfig.versionName",
		},
	}

	router := newTestRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postPlan(t, router, "application/yaml", "", tt.body)

			if rec.Code != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d, want 422, body = %s", rec.Code, rec.Body.String())
			}
			var resp ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid JSON: %v", err)
			}
			if resp.Error.Kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", resp.Error.Kind, tt.wantKind)
			}
			if resp.Error.Path != tt.wantPath {
				t.Errorf("path = %q, want %q", resp.Error.Path, tt.wantPath)
			}
			if resp.Error.Message == "" {
				t.Error("message is empty")
			}
		})
	}
}

func TestCreatePlan_RequestErrors(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		wantStatus  int
	}{
		{"empty body", "application/yaml", "", http.StatusBadRequest},
		{"whitespace body", "application/yaml", "  \n", http.StatusBadRequest},
		{"unsupported content type", "application/xml", yamlManifest, http.StatusUnsupportedMediaType},
		{"malformed content type", "application/", yamlManifest, http.StatusUnsupportedMediaType},
		{"too large", "application/yaml", strings.Repeat("#", maxManifestBytes+1), http.StatusRequestEntityTooLarge},
	}

	router := newTestRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postPlan(t, router, tt.contentType, "", tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d, body = %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestCreatePlan_Concurrent(t *testing.T) {
	router := newTestRouter()

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	fingerprints := make(chan string, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			body := yamlManifest
			if i%2 == 1 {
				body = strings.Replace(body, "targetSdk: 34", "targetSdk: 22", 1)
			}
			req := httptest.NewRequest(http.MethodPost, "/v1/plans", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/yaml")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			want := http.StatusOK
			if i%2 == 1 {
				want = http.StatusUnprocessableEntity
			}
			if rec.Code != want {
				errs <- fmt.Errorf("request %d: status = %d, want %d", i, rec.Code, want)
				return
			}
			if want == http.StatusOK {
				var plan entities.BuildPlan
				if err := json.Unmarshal(rec.Body.Bytes(), &plan); err != nil {
					errs <- fmt.Errorf("request %d: %w", i, err)
					return
				}
				fingerprints <- plan.Fingerprint
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	close(fingerprints)

	for err := range errs {
		t.Error(err)
	}
	var first string
	for fp := range fingerprints {
		if first == "" {
			first = fp
		}
		if fp != first {
			t.Errorf("fingerprint %s differs from %s", fp, first)
		}
	}
}
