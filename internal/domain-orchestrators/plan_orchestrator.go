// Package orchestrators coordinates complex workflows across multiple domain services.
package orchestrators

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ochairo/buildplan/internal/domain/entities"
	"github.com/ochairo/buildplan/internal/domain/interfaces"
	"github.com/ochairo/buildplan/internal/domain/interfaces/gateways"
	"github.com/ochairo/buildplan/internal/domain/interfaces/repositories"
	"github.com/ochairo/buildplan/internal/domain/services"
)

// PlanOrchestratorConfig holds configuration for the orchestrator
type PlanOrchestratorConfig struct {
	// LockfilePath, when set, is compared against every resolved plan
	LockfilePath string

	// RequireSignature fails planning when a manifest has no valid detached signature
	RequireSignature bool

	// SignatureLookup returns the detached signature stored next to a manifest, or ""
	SignatureLookup func(manifestPath string) string
}

// PlanOrchestrator coordinates loading, verifying and resolving a manifest
type PlanOrchestrator struct {
	manifests repositories.ManifestRepository
	boms      repositories.BomRepository
	locks     repositories.LockfileRepository
	verifier  gateways.SignatureVerifier
	resolver  *services.ResolverService
	logger    interfaces.Logger
	config    PlanOrchestratorConfig
}

// NewPlanOrchestrator creates a new plan orchestrator. verifier and locks may be
// nil when signatures and lockfiles are not used.
func NewPlanOrchestrator(
	manifests repositories.ManifestRepository,
	boms repositories.BomRepository,
	locks repositories.LockfileRepository,
	verifier gateways.SignatureVerifier,
	resolver *services.ResolverService,
	logger interfaces.Logger,
	config PlanOrchestratorConfig,
) *PlanOrchestrator {
	return &PlanOrchestrator{
		manifests: manifests,
		boms:      boms,
		locks:     locks,
		verifier:  verifier,
		resolver:  resolver,
		logger:    interfaces.OrNoOp(logger),
		config:    config,
	}
}

// PlanResult contains the result of a planning operation
type PlanResult struct {
	Plan              *entities.BuildPlan
	ManifestPath      string
	SignatureVerified bool
	Drift             []entities.LockDrift
	LockWarning       string
	Duration          time.Duration
}

// LockDriftError reports that a resolved plan no longer matches its lockfile
type LockDriftError struct {
	Path  string
	Drift []entities.LockDrift
}

func (e *LockDriftError) Error() string {
	parts := make([]string, 0, len(e.Drift))
	for _, d := range e.Drift {
		switch d.Kind {
		case entities.DriftAdded:
			parts = append(parts, fmt.Sprintf("%s added at %s", d.Artifact, d.Resolved))
		case entities.DriftRemoved:
			parts = append(parts, fmt.Sprintf("%s removed (locked %s)", d.Artifact, d.Locked))
		default:
			parts = append(parts, fmt.Sprintf("%s changed %s -> %s", d.Artifact, d.Locked, d.Resolved))
		}
	}
	return fmt.Sprintf("plan drifted from lockfile %s: %s", e.Path, strings.Join(parts, ", "))
}

// Plan executes the complete planning workflow for a manifest
func (o *PlanOrchestrator) Plan(ctx context.Context, name string) (*PlanResult, error) {
	startTime := time.Now()
	result := &PlanResult{}

	// Step 1: Load manifest
	manifest, err := o.manifests.GetManifest(ctx, name)
	if err != nil {
		return result, fmt.Errorf("failed to load manifest: %w", err)
	}
	if path, err := o.manifests.ManifestPath(name); err == nil {
		result.ManifestPath = path
	}

	// Step 2: Verify detached signature
	verified, err := o.verifySignature(result.ManifestPath)
	if err != nil {
		return result, err
	}
	result.SignatureVerified = verified

	// Step 3: Load BoM catalog
	catalog, err := o.boms.LoadCatalog(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to load BoM catalog: %w", err)
	}

	// Step 4: Resolve
	plan, err := o.resolver.Resolve(manifest, catalog)
	if err != nil {
		return result, err
	}
	result.Plan = plan

	// Step 5: Compare against the lockfile
	if o.config.LockfilePath != "" {
		if err := o.compareLock(ctx, result); err != nil {
			return result, err
		}
	}

	result.Duration = time.Since(startTime)
	o.logger.Info("Plan resolved",
		interfaces.F("manifest", manifest.Name),
		interfaces.F("fingerprint", plan.Fingerprint),
		interfaces.F("duration", result.Duration.String()),
	)
	return result, nil
}

// WriteLock snapshots a plan's resolved versions to path
func (o *PlanOrchestrator) WriteLock(ctx context.Context, plan *entities.BuildPlan, path string) error {
	if o.locks == nil {
		return fmt.Errorf("no lockfile store configured")
	}
	if err := o.locks.Save(ctx, path, services.NewLockfile(plan)); err != nil {
		return fmt.Errorf("failed to write lockfile: %w", err)
	}
	return nil
}

func (o *PlanOrchestrator) verifySignature(manifestPath string) (bool, error) {
	sigPath := ""
	if o.config.SignatureLookup != nil && manifestPath != "" {
		sigPath = o.config.SignatureLookup(manifestPath)
	}

	if sigPath == "" {
		if o.config.RequireSignature {
			return false, fmt.Errorf("signature required but none found for %s", manifestPath)
		}
		return false, nil
	}

	if o.verifier == nil {
		if o.config.RequireSignature {
			return false, fmt.Errorf("signature required but no keyring configured")
		}
		o.logger.Warn("Manifest signature present but no keyring configured", interfaces.F("signature", sigPath))
		return false, nil
	}

	if err := o.verifier.VerifySignatureFromFile(manifestPath, sigPath); err != nil {
		return false, fmt.Errorf("manifest signature check failed: %w", err)
	}
	o.logger.Debug("Manifest signature verified", interfaces.F("signature", sigPath))
	return true, nil
}

func (o *PlanOrchestrator) compareLock(ctx context.Context, result *PlanResult) error {
	if o.locks == nil {
		return fmt.Errorf("no lockfile store configured")
	}

	lock, err := o.locks.Load(ctx, o.config.LockfilePath)
	if err != nil {
		return fmt.Errorf("failed to load lockfile: %w", err)
	}

	result.Drift = services.CompareLock(result.Plan, lock)
	if len(result.Drift) > 0 {
		return &LockDriftError{Path: o.config.LockfilePath, Drift: result.Drift}
	}

	if lock.Fingerprint != result.Plan.Fingerprint {
		result.LockWarning = fmt.Sprintf("lockfile %s fingerprint %s differs from plan %s; versions match",
			o.config.LockfilePath, shortHash(lock.Fingerprint), shortHash(result.Plan.Fingerprint))
		o.logger.Warn("Lockfile fingerprint differs", interfaces.F("lockfile", o.config.LockfilePath))
	}
	return nil
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
