package services

import (
	"fmt"

	"github.com/ochairo/buildplan/internal/domain/entities"
)

// ReleaseStatus represents the readiness status of a plan for a store release
type ReleaseStatus string

// Release validation statuses
const (
	StatusReady            ReleaseStatus = "ready"
	StatusMissingBuildType ReleaseStatus = "missing_build_type"
	StatusUnsigned         ReleaseStatus = "unsigned"
	StatusDebugSigned      ReleaseStatus = "debug_signed"
	StatusNotMinified      ReleaseStatus = "not_minified"
	StatusHasWarnings      ReleaseStatus = "has_warnings"
)

// DefaultReleaseBuildType is the build type checked when none is given
const DefaultReleaseBuildType = "release"

// ReleaseValidation contains the release readiness result for a build plan
type ReleaseValidation struct {
	Status    ReleaseStatus
	BuildType string
	Warnings  []string
}

// IsReady returns true if the plan can be shipped as-is
func (rv *ReleaseValidation) IsReady() bool {
	return rv.Status == StatusReady
}

// ErrorMessage returns a human-readable error message if not ready
func (rv *ReleaseValidation) ErrorMessage() string {
	switch rv.Status {
	case StatusReady:
		return ""
	case StatusMissingBuildType:
		return fmt.Sprintf("Build type %q is not declared", rv.BuildType)
	case StatusUnsigned:
		return fmt.Sprintf("Build type %q has no signing config", rv.BuildType)
	case StatusDebugSigned:
		return fmt.Sprintf("Build type %q is signed with the debug key", rv.BuildType)
	case StatusNotMinified:
		return fmt.Sprintf("Build type %q ships without minify", rv.BuildType)
	case StatusHasWarnings:
		msg := fmt.Sprintf("Plan has %d warning(s)", len(rv.Warnings))
		for _, w := range rv.Warnings {
			msg += "\n   " + w
		}
		return msg
	default:
		return "Unknown status"
	}
}

// ReleaseService handles release readiness checks over resolved plans
type ReleaseService struct{}

// NewReleaseService creates a new release service
func NewReleaseService() *ReleaseService {
	return &ReleaseService{}
}

// ValidateRelease checks that the named build type of a plan is fit for a store upload.
// With strict set, any plan warning also makes the plan not ready.
func (s *ReleaseService) ValidateRelease(plan *entities.BuildPlan, buildType string, strict bool) *ReleaseValidation {
	if buildType == "" {
		buildType = DefaultReleaseBuildType
	}
	validation := &ReleaseValidation{BuildType: buildType, Warnings: plan.Warnings}

	bt, ok := s.findBuildType(plan, buildType)
	switch {
	case !ok:
		validation.Status = StatusMissingBuildType
	case bt.SigningConfig == "":
		validation.Status = StatusUnsigned
	case bt.SigningConfig == entities.DebugSigningConfig:
		validation.Status = StatusDebugSigned
	case !bt.Minify:
		validation.Status = StatusNotMinified
	case strict && len(plan.Warnings) > 0:
		validation.Status = StatusHasWarnings
	default:
		validation.Status = StatusReady
	}

	return validation
}

// findBuildType looks up a build type by name
func (s *ReleaseService) findBuildType(plan *entities.BuildPlan, name string) (entities.ResolvedBuildType, bool) {
	for _, bt := range plan.BuildTypes {
		if bt.Name == name {
			return bt, true
		}
	}
	return entities.ResolvedBuildType{}, false
}
