package orchestrators

import (
	"context"
	"fmt"
	"time"

	"github.com/ochairo/buildplan/internal/domain/entities"
	"github.com/ochairo/buildplan/internal/domain/interfaces/services"
)

// AuditOrchestrator coordinates the vulnerability audit of a resolved plan
type AuditOrchestrator struct {
	auditService services.AuditService
	failOn       string
}

// NewAuditOrchestrator creates a new audit orchestrator. failOn is the minimum
// severity that fails the audit; empty disables the threshold.
func NewAuditOrchestrator(auditService services.AuditService, failOn string) *AuditOrchestrator {
	return &AuditOrchestrator{
		auditService: auditService,
		failOn:       failOn,
	}
}

// AuditResult contains the complete audit results
type AuditResult struct {
	Report      *entities.SecurityReport
	Blocked     bool
	BlockReason string
	Failed      bool
	Duration    time.Duration
}

// Audit scans every resolved dependency of the plan and applies the blocking
// rules and the fail-on threshold
func (o *AuditOrchestrator) Audit(ctx context.Context, plan *entities.BuildPlan) (*AuditResult, error) {
	startTime := time.Now()

	report, err := o.auditService.AuditPlan(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("vulnerability scan failed: %w", err)
	}

	result := &AuditResult{Report: report}
	if o.auditService.ShouldBlockBuild(report) {
		result.Blocked = true
		result.BlockReason = o.determineBlockReason(report)
	}
	result.Failed = result.Blocked || o.auditService.ExceedsThreshold(report, o.failOn)

	result.Duration = time.Since(startTime)
	return result, nil
}

// determineBlockReason analyzes the security report to determine why the plan was blocked
func (o *AuditOrchestrator) determineBlockReason(report *entities.SecurityReport) string {
	criticalCount := 0
	for _, vuln := range report.Vulnerabilities {
		if vuln.Severity == "CRITICAL" {
			criticalCount++
		}
	}

	if criticalCount > 0 {
		return fmt.Sprintf("%d CRITICAL vulnerabilities found", criticalCount)
	}

	if report.Score < 5.0 {
		return fmt.Sprintf("security score %.1f/10.0 below threshold (5.0)", report.Score)
	}

	return "security requirements not met"
}

// GetHighSeverityVulnerabilities returns vulnerabilities of HIGH or CRITICAL severity
func (o *AuditOrchestrator) GetHighSeverityVulnerabilities(report *entities.SecurityReport) []entities.Vulnerability {
	return o.auditService.FilterVulnerabilities(report.Vulnerabilities, "HIGH")
}

// GetAuditSummary generates a human-readable audit summary
func (o *AuditOrchestrator) GetAuditSummary(result *AuditResult) string {
	var summary string
	switch {
	case result.Blocked:
		summary = fmt.Sprintf("🚫 BLOCKED: %s\n", result.BlockReason)
	case result.Failed:
		summary = fmt.Sprintf("❌ FAILED: vulnerabilities at or above %s\n", o.failOn)
	default:
		summary = fmt.Sprintf("✅ PASSED: Security score %.1f/10.0\n", result.Report.Score)
	}

	summary += fmt.Sprintf("   Vulnerabilities: %d total\n", len(result.Report.Vulnerabilities))
	if len(result.Report.Skipped) > 0 {
		summary += fmt.Sprintf("   Skipped: %d dependencies (scanner unavailable)\n", len(result.Report.Skipped))
	}
	summary += fmt.Sprintf("   Duration: %v", result.Duration.Round(time.Millisecond))

	return summary
}
