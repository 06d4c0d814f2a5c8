package gateways

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ochairo/buildplan/internal/domain/entities"
)

func resolvedDeps() []entities.ResolvedDependency {
	return []entities.ResolvedDependency{
		{Configuration: "implementation", Group: "com.google.firebase", Artifact: "firebase-bom", Version: "33.1.2", Source: entities.SourceExplicit, Platform: true},
		{Configuration: "implementation", Group: "com.google.firebase", Artifact: "firebase-auth-ktx", Version: "23.0.0", Source: entities.SourceBom},
		{Configuration: "implementation", Group: "com.squareup.okhttp3", Artifact: "okhttp", Version: "4.9.0", Source: entities.SourceExplicit},
		{Configuration: "implementation", Group: "androidx.core", Artifact: "core-ktx", Version: "1.13.1", Source: entities.SourceExplicit},
	}
}

func TestNewOSVGateway_Defaults(t *testing.T) {
	gateway := NewOSVGateway(OSVConfig{}, nil)

	if gateway.apiURL != DefaultOSVURL {
		t.Errorf("API URL = %s, want %s", gateway.apiURL, DefaultOSVURL)
	}
	if gateway.httpClient.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", gateway.httpClient.Timeout)
	}
}

func TestOSVGateway_ScanDependencies(t *testing.T) {
	var queried []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Method = %s, want POST", r.Method)
		}

		var req OSVQueryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if req.Package.Ecosystem != "Maven" {
			t.Errorf("Ecosystem = %s, want Maven", req.Package.Ecosystem)
		}
		queried = append(queried, req.Package.Name+"@"+req.Version)

		response := OSVQueryResponse{}
		if req.Package.Name == "com.squareup.okhttp3:okhttp" {
			response.Vulns = []OSVVulnerability{
				{
					ID:               "GHSA-w33c-445m-f8w7",
					Summary:          "Information exposure in okhttp",
					DatabaseSpecific: OSVDatabaseSpecific{Severity: "MODERATE"},
					Affected: []OSVAffected{{Ranges: []OSVRange{{
						Type:   "ECOSYSTEM",
						Events: []OSVEvent{{Introduced: "0"}, {Fixed: "4.9.2"}},
					}}}},
				},
				{
					ID:       "CVE-2099-0001",
					Summary:  "Scored issue",
					Severity: []OSVSeverity{{Type: "CVSS_V3", Score: "9.8"}},
				},
			}
		}
		_ = json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	gateway := NewOSVGateway(OSVConfig{URL: server.URL}, nil)

	report, err := gateway.ScanDependencies(context.Background(), resolvedDeps())
	if err != nil {
		t.Fatalf("ScanDependencies() error = %v", err)
	}

	// Platform entries are not queried
	if len(queried) != 3 {
		t.Errorf("queried %v, want 3 non-platform dependencies", queried)
	}
	if len(report.Skipped) != 0 {
		t.Errorf("Skipped = %v, want none", report.Skipped)
	}
	if len(report.Vulnerabilities) != 2 {
		t.Fatalf("Vulnerabilities count = %d, want 2", len(report.Vulnerabilities))
	}

	moderate := report.Vulnerabilities[0]
	if moderate.Severity != "MEDIUM" || moderate.FixedIn != "4.9.2" || moderate.Component != "com.squareup.okhttp3:okhttp@4.9.0" {
		t.Errorf("first vulnerability = %+v", moderate)
	}

	scored := report.Vulnerabilities[1]
	if scored.Severity != "CRITICAL" || scored.Score != 9.8 {
		t.Errorf("second vulnerability = %+v, want CRITICAL 9.8", scored)
	}

	if report.Metadata.Scanner != "OSV API" {
		t.Errorf("Scanner = %s, want OSV API", report.Metadata.Scanner)
	}
}

func TestOSVGateway_CircuitBreakerSkipsRemaining(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	gateway := NewOSVGateway(OSVConfig{URL: server.URL, MaxFailures: 1, BreakerTimeout: time.Minute}, nil)

	report, err := gateway.ScanDependencies(context.Background(), resolvedDeps())
	if err != nil {
		t.Fatalf("ScanDependencies() error = %v", err)
	}

	if got := hits.Load(); got != 1 {
		t.Errorf("server hits = %d, want 1 before the breaker opens", got)
	}
	want := []string{
		"com.google.firebase:firebase-auth-ktx@23.0.0",
		"com.squareup.okhttp3:okhttp@4.9.0",
		"androidx.core:core-ktx@1.13.1",
	}
	if len(report.Skipped) != len(want) {
		t.Fatalf("Skipped = %v, want %v", report.Skipped, want)
	}
	for i := range want {
		if report.Skipped[i] != want[i] {
			t.Errorf("Skipped[%d] = %s, want %s", i, report.Skipped[i], want[i])
		}
	}
}

func TestOSVGateway_CanceledContext(t *testing.T) {
	gateway := NewOSVGateway(OSVConfig{URL: "http://127.0.0.1:0"}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := gateway.ScanDependencies(ctx, resolvedDeps()); err == nil {
		t.Error("ScanDependencies() should fail for a canceled context")
	}
}

func TestExtractSeverity(t *testing.T) {
	tests := map[string]struct {
		vuln OSVVulnerability
		want string
	}{
		"database label": {vuln: OSVVulnerability{DatabaseSpecific: OSVDatabaseSpecific{Severity: "high"}}, want: "HIGH"},
		"moderate":       {vuln: OSVVulnerability{DatabaseSpecific: OSVDatabaseSpecific{Severity: "MODERATE"}}, want: "MEDIUM"},
		"numeric score":  {vuln: OSVVulnerability{Severity: []OSVSeverity{{Score: "5.3"}}}, want: "MEDIUM"},
		"low score":      {vuln: OSVVulnerability{Severity: []OSVSeverity{{Score: "2.0"}}}, want: "LOW"},
		"vector only":    {vuln: OSVVulnerability{Severity: []OSVSeverity{{Score: "CVSS:3.1/AV:N/AC:L"}}}, want: "UNKNOWN"},
		"nothing":        {vuln: OSVVulnerability{}, want: "UNKNOWN"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := extractSeverity(tt.vuln); got != tt.want {
				t.Errorf("extractSeverity() = %s, want %s", got, tt.want)
			}
		})
	}
}
