// Package gateways defines interfaces for infrastructure adapters.
package gateways

import (
	"context"

	"github.com/ochairo/buildplan/internal/domain/entities"
)

// SignatureVerifier verifies detached signatures of local files
type SignatureVerifier interface {
	VerifySignatureFromFile(filePath, sigPath string) error
}

// VulnerabilityScanner queries a vulnerability database for resolved dependencies
type VulnerabilityScanner interface {
	ScanDependencies(ctx context.Context, deps []entities.ResolvedDependency) (*entities.SecurityReport, error)
}

// UpdateChecker looks up the newest published version of a dependency
type UpdateChecker interface {
	CheckUpdate(ctx context.Context, dep entities.ResolvedDependency) entities.UpdateInfo
}
