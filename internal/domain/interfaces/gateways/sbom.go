package gateways

import (
	"context"

	"github.com/ochairo/buildplan/internal/domain/entities"
)

// SBOMGenerator builds a software bill of materials for a resolved plan
type SBOMGenerator interface {
	// GenerateSBOM describes the plan; manifestPath, when set, is hashed into the
	// application component
	GenerateSBOM(ctx context.Context, plan *entities.BuildPlan, manifestPath string) (*entities.SBOM, error)
}

// ChecksumVerifier computes and checks SHA-256 file digests
type ChecksumVerifier interface {
	CalculateChecksum(filePath string) (string, error)
	VerifyChecksum(ctx context.Context, filePath, expectedSum string) error
}
