package gateways

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/ochairo/buildplan/internal/domain/entities"
	"github.com/ochairo/buildplan/internal/domain/interfaces"
)

// DefaultOSVURL is the public OSV query endpoint
const DefaultOSVURL = "https://api.osv.dev/v1/query"

// osvEcosystem is the OSV ecosystem name for Gradle/Maven coordinates
const osvEcosystem = "Maven"

// OSVConfig configures the OSV gateway and its circuit breaker
type OSVConfig struct {
	URL            string
	Timeout        time.Duration
	MaxFailures    int
	BreakerTimeout time.Duration
}

// osvGateway implements vulnerability scanning against the OSV HTTP API.
// Requests pass through a circuit breaker; once it opens the remaining
// dependencies are reported as skipped instead of failing the audit.
type osvGateway struct {
	apiURL     string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*OSVQueryResponse]
	logger     interfaces.Logger
}

// NewOSVGateway creates a new OSV gateway
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewOSVGateway(cfg OSVConfig, logger interfaces.Logger) *osvGateway {
	logger = interfaces.OrNoOp(logger)

	if cfg.URL == "" {
		cfg.URL = DefaultOSVURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = 3
	}

	cb := gobreaker.NewCircuitBreaker[*OSVQueryResponse](gobreaker.Settings{
		Name:        "osv",
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return int(counts.ConsecutiveFailures) >= cfg.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				interfaces.F("breaker", name),
				interfaces.F("from", from.String()),
				interfaces.F("to", to.String()),
			)
		},
	})

	return &osvGateway{
		apiURL:     cfg.URL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    cb,
		logger:     logger,
	}
}

// ScanDependencies queries OSV once per resolved, non-platform dependency
func (g *osvGateway) ScanDependencies(ctx context.Context, deps []entities.ResolvedDependency) (*entities.SecurityReport, error) {
	start := time.Now()
	report := &entities.SecurityReport{
		Vulnerabilities: []entities.Vulnerability{},
		ScanDate:        start.UTC().Format(time.RFC3339),
	}

	for _, dep := range deps {
		if dep.Platform {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		component := dep.Key() + "@" + dep.Version
		resp, err := g.breaker.Execute(func() (*OSVQueryResponse, error) {
			return g.query(ctx, dep)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				g.logger.Debug("OSV circuit open, skipping", interfaces.F("component", component))
			} else {
				g.logger.Warn("OSV query failed", interfaces.F("component", component), interfaces.F("error", err.Error()))
			}
			report.Skipped = append(report.Skipped, component)
			continue
		}

		for _, vuln := range resp.Vulns {
			report.Vulnerabilities = append(report.Vulnerabilities, entities.Vulnerability{
				ID:          vuln.ID,
				Severity:    extractSeverity(vuln),
				Description: vuln.Summary,
				Score:       extractCVSS(vuln),
				Component:   component,
				FixedIn:     fixedVersion(vuln),
			})
		}
	}

	report.Metadata = entities.ScanMetadata{
		Scanner:        "OSV API",
		ScannerVersion: "v1",
		Duration:       time.Since(start).Round(time.Millisecond).String(),
	}
	return report, nil
}

func (g *osvGateway) query(ctx context.Context, dep entities.ResolvedDependency) (*OSVQueryResponse, error) {
	payload := OSVQueryRequest{
		Package: OSVPackage{
			Name:      dep.Key(),
			Ecosystem: osvEcosystem,
		},
		Version: dep.Version,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("OSV API request failed: %w", err)
	}
	//nolint:errcheck // Defer close on HTTP response body
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OSV API returned status %d", resp.StatusCode)
	}

	var osvResp OSVQueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&osvResp); err != nil {
		return nil, fmt.Errorf("failed to parse OSV response: %w", err)
	}
	return &osvResp, nil
}

// extractSeverity prefers the advisory database label and falls back to the
// CVSS score bands
func extractSeverity(vuln OSVVulnerability) string {
	switch strings.ToUpper(vuln.DatabaseSpecific.Severity) {
	case "CRITICAL":
		return "CRITICAL"
	case "HIGH":
		return "HIGH"
	case "MODERATE", "MEDIUM":
		return "MEDIUM"
	case "LOW":
		return "LOW"
	}

	score := extractCVSS(vuln)
	switch {
	case score >= 9.0:
		return "CRITICAL"
	case score >= 7.0:
		return "HIGH"
	case score >= 4.0:
		return "MEDIUM"
	case score > 0:
		return "LOW"
	default:
		return "UNKNOWN"
	}
}

// extractCVSS reads a numeric score when the severity entry carries one.
// Vector strings (CVSS:3.1/AV:N/...) are not scored.
func extractCVSS(vuln OSVVulnerability) float64 {
	for _, s := range vuln.Severity {
		var score float64
		if _, err := fmt.Sscanf(s.Score, "%g", &score); err == nil && score >= 0 && score <= 10 {
			return score
		}
	}
	return 0.0
}

func fixedVersion(vuln OSVVulnerability) string {
	for _, affected := range vuln.Affected {
		for _, r := range affected.Ranges {
			for _, e := range r.Events {
				if e.Fixed != "" {
					return e.Fixed
				}
			}
		}
	}
	return ""
}

// OSV API request/response types

// OSVQueryRequest represents a query to the OSV API for vulnerability information.
type OSVQueryRequest struct {
	Package OSVPackage `json:"package"`
	Version string     `json:"version"`
}

// OSVPackage identifies a software package in a specific ecosystem.
type OSVPackage struct {
	Name      string `json:"name"`
	Ecosystem string `json:"ecosystem"`
}

// OSVQueryResponse contains the vulnerability results from the OSV API.
type OSVQueryResponse struct {
	Vulns []OSVVulnerability `json:"vulns"`
}

// OSVVulnerability represents a single vulnerability from the OSV database.
type OSVVulnerability struct {
	ID               string              `json:"id"`
	Summary          string              `json:"summary"`
	Details          string              `json:"details"`
	Severity         []OSVSeverity       `json:"severity,omitempty"`
	Affected         []OSVAffected       `json:"affected,omitempty"`
	DatabaseSpecific OSVDatabaseSpecific `json:"database_specific"`
}

// OSVSeverity contains severity scoring information for a vulnerability.
type OSVSeverity struct {
	Type  string `json:"type"`
	Score string `json:"score"`
}

// OSVAffected lists the affected version ranges of a package.
type OSVAffected struct {
	Ranges []OSVRange `json:"ranges,omitempty"`
}

// OSVRange is a sequence of introduced/fixed events.
type OSVRange struct {
	Type   string     `json:"type"`
	Events []OSVEvent `json:"events"`
}

// OSVEvent marks where a vulnerable range starts or ends.
type OSVEvent struct {
	Introduced string `json:"introduced,omitempty"`
	Fixed      string `json:"fixed,omitempty"`
}

// OSVDatabaseSpecific carries the advisory database's own severity label.
type OSVDatabaseSpecific struct {
	Severity string `json:"severity,omitempty"`
}
