// Package services defines interfaces for domain service contracts.
package services

import (
	"context"

	"github.com/ochairo/buildplan/internal/domain/entities"
)

// AuditService defines the interface for vulnerability audit decisions over a plan
type AuditService interface {
	// AuditPlan scans every non-platform dependency of the plan
	AuditPlan(ctx context.Context, plan *entities.BuildPlan) (*entities.SecurityReport, error)

	// Business logic
	CalculateSecurityScore(report *entities.SecurityReport) float64
	FilterVulnerabilities(vulnerabilities []entities.Vulnerability, minSeverity string) []entities.Vulnerability
	ShouldBlockBuild(report *entities.SecurityReport) bool
	ExceedsThreshold(report *entities.SecurityReport, minSeverity string) bool
}
