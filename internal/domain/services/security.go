package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/ochairo/buildplan/internal/domain/entities"
	"github.com/ochairo/buildplan/internal/domain/interfaces/gateways"
	"github.com/ochairo/buildplan/internal/domain/interfaces/services"
)

// Severity levels reported by vulnerability scanners
const (
	SeverityCritical = "CRITICAL"
	SeverityHigh     = "HIGH"
	SeverityMedium   = "MEDIUM"
	SeverityLow      = "LOW"
	SeverityUnknown  = "UNKNOWN"
)

var severityOrder = map[string]int{
	SeverityCritical: 4,
	SeverityHigh:     3,
	SeverityMedium:   2,
	SeverityLow:      1,
	SeverityUnknown:  0,
}

// IsThresholdSeverity reports whether s, in any case, can serve as a fail-on
// threshold: LOW, MEDIUM, HIGH or CRITICAL
func IsThresholdSeverity(s string) bool {
	return severityOrder[strings.ToUpper(s)] > 0
}

// auditService implements AuditService with pure business logic
type auditService struct {
	scanner gateways.VulnerabilityScanner
}

// NewAuditService creates a new audit service with dependency injection
func NewAuditService(scanner gateways.VulnerabilityScanner) services.AuditService {
	return &auditService{scanner: scanner}
}

// AuditPlan scans the resolved dependencies of a plan. Platform (BoM) entries
// carry no code and are not scanned.
func (s *auditService) AuditPlan(ctx context.Context, plan *entities.BuildPlan) (*entities.SecurityReport, error) {
	deps := make([]entities.ResolvedDependency, 0, len(plan.Dependencies))
	seen := make(map[string]bool, len(plan.Dependencies))
	for _, d := range plan.Dependencies {
		if d.Platform || seen[d.Key()] {
			continue
		}
		seen[d.Key()] = true
		deps = append(deps, d)
	}

	report, err := s.scanner.ScanDependencies(ctx, deps)
	if err != nil {
		return nil, fmt.Errorf("vulnerability audit failed: %w", err)
	}

	report.Score = s.CalculateSecurityScore(report)

	return report, nil
}

// CalculateSecurityScore calculates a security score based on vulnerabilities
// Pure business logic - no I/O
func (s *auditService) CalculateSecurityScore(report *entities.SecurityReport) float64 {
	if len(report.Vulnerabilities) == 0 {
		return 10.0
	}

	score := 10.0
	for _, vuln := range report.Vulnerabilities {
		switch vuln.Severity {
		case SeverityCritical:
			score -= 3.0
		case SeverityHigh:
			score -= 2.0
		case SeverityMedium:
			score -= 1.0
		case SeverityLow:
			score -= 0.5
		default:
			// UNKNOWN or other
			score -= 0.1
		}
	}

	if score < 0 {
		return 0.0
	}
	return score
}

// FilterVulnerabilities filters vulnerabilities by minimum severity
// Pure business logic - no I/O
func (s *auditService) FilterVulnerabilities(vulnerabilities []entities.Vulnerability, minSeverity string) []entities.Vulnerability {
	minLevel := severityOrder[strings.ToUpper(minSeverity)]
	filtered := make([]entities.Vulnerability, 0)

	for _, vuln := range vulnerabilities {
		if severityOrder[vuln.Severity] >= minLevel {
			filtered = append(filtered, vuln)
		}
	}

	return filtered
}

// ShouldBlockBuild determines if a build should be blocked based on the audit report
// Pure business logic - no I/O
func (s *auditService) ShouldBlockBuild(report *entities.SecurityReport) bool {
	// Block if any CRITICAL vulnerabilities
	for _, vuln := range report.Vulnerabilities {
		if vuln.Severity == SeverityCritical {
			return true
		}
	}

	// Block if security score too low
	if report.Score < 5.0 {
		return true
	}

	return false
}

// ExceedsThreshold reports whether any vulnerability is at or above minSeverity.
// An empty minSeverity never fails.
func (s *auditService) ExceedsThreshold(report *entities.SecurityReport, minSeverity string) bool {
	if minSeverity == "" {
		return false
	}
	return len(s.FilterVulnerabilities(report.Vulnerabilities, minSeverity)) > 0
}
