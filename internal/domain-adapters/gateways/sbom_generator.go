package gateways

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ochairo/buildplan/internal/domain/entities"
	"github.com/ochairo/buildplan/internal/domain/interfaces/gateways"
)

// sbomGenerator describes a resolved build plan as a CycloneDX 1.4 bill of materials
type sbomGenerator struct {
	checksums   gateways.ChecksumVerifier
	toolVersion string
	now         func() time.Time
}

// NewSBOMGenerator creates a new SBOM generator gateway
//
//nolint:revive // unexported-return: Intentionally returns concrete type for testability
func NewSBOMGenerator(toolVersion string) *sbomGenerator {
	return &sbomGenerator{
		checksums:   NewChecksumVerifier(),
		toolVersion: toolVersion,
		now:         time.Now,
	}
}

// GenerateSBOM generates a Software Bill of Materials for a build plan
func (g *sbomGenerator) GenerateSBOM(ctx context.Context, plan *entities.BuildPlan, manifestPath string) (*entities.SBOM, error) {
	if plan == nil {
		return nil, fmt.Errorf("plan cannot be nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	app := &entities.Component{
		Type:    "application",
		Name:    plan.ApplicationID,
		Version: plan.Version.Name,
	}
	if manifestPath != "" {
		hash, err := g.checksums.CalculateChecksum(manifestPath)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate manifest hash: %w", err)
		}
		app.Hashes = []entities.Hash{{Algorithm: "SHA-256", Value: hash}}
	}

	components := []entities.Component{*app}
	seen := make(map[string]bool, len(plan.Dependencies))
	for _, dep := range plan.Dependencies {
		purl := PackageURL(dep.Group, dep.Artifact, dep.Version)
		if seen[purl] {
			continue
		}
		seen[purl] = true

		component := entities.Component{
			Type:    "library",
			Group:   dep.Group,
			Name:    dep.Artifact,
			Version: dep.Version,
			PURL:    purl,
			Scope:   componentScope(dep.Configuration),
		}
		if dep.Platform {
			component.Type = "platform"
		}
		components = append(components, component)
	}

	return &entities.SBOM{
		BOMFormat:   "CycloneDX",
		SpecVersion: "1.4",
		Version:     1,
		Components:  components,
		Metadata: entities.Metadata{
			Timestamp: g.now().UTC(),
			Tools: []entities.Tool{
				{
					Name:    "buildplan",
					Version: g.toolVersion,
				},
			},
			Component: app,
		},
	}, nil
}

// PackageURL returns the Maven purl of a coordinate
func PackageURL(group, artifact, version string) string {
	return fmt.Sprintf("pkg:maven/%s/%s@%s", group, artifact, version)
}

// componentScope maps Gradle configurations onto CycloneDX scopes
func componentScope(configuration string) string {
	switch configuration {
	case entities.ConfigTestImplementation:
		return "excluded"
	case entities.ConfigCompileOnly:
		return "optional"
	default:
		return "required"
	}
}

// CycloneDX JSON document types

type cdxDocument struct {
	BOMFormat   string         `json:"bomFormat"`
	SpecVersion string         `json:"specVersion"`
	Version     int            `json:"version"`
	Metadata    cdxMetadata    `json:"metadata"`
	Components  []cdxComponent `json:"components"`
}

type cdxMetadata struct {
	Timestamp string        `json:"timestamp"`
	Tools     []cdxTool     `json:"tools,omitempty"`
	Component *cdxComponent `json:"component,omitempty"`
}

type cdxTool struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

type cdxComponent struct {
	Type    string    `json:"type"`
	Group   string    `json:"group,omitempty"`
	Name    string    `json:"name"`
	Version string    `json:"version,omitempty"`
	PURL    string    `json:"purl,omitempty"`
	Scope   string    `json:"scope,omitempty"`
	Hashes  []cdxHash `json:"hashes,omitempty"`
}

type cdxHash struct {
	Algorithm string `json:"alg"`
	Content   string `json:"content"`
}

// EncodeCycloneDX renders an SBOM as indented CycloneDX JSON
func EncodeCycloneDX(sbom *entities.SBOM) ([]byte, error) {
	doc := cdxDocument{
		BOMFormat:   sbom.BOMFormat,
		SpecVersion: sbom.SpecVersion,
		Version:     sbom.Version,
		Metadata: cdxMetadata{
			Timestamp: sbom.Metadata.Timestamp.Format(time.RFC3339),
		},
		Components: make([]cdxComponent, 0, len(sbom.Components)),
	}
	for _, tool := range sbom.Metadata.Tools {
		doc.Metadata.Tools = append(doc.Metadata.Tools, cdxTool(tool))
	}
	if sbom.Metadata.Component != nil {
		c := toCDX(*sbom.Metadata.Component)
		doc.Metadata.Component = &c
	}
	for _, c := range sbom.Components {
		doc.Components = append(doc.Components, toCDX(c))
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode SBOM: %w", err)
	}
	return append(data, '\n'), nil
}

func toCDX(c entities.Component) cdxComponent {
	out := cdxComponent{
		Type:    c.Type,
		Group:   c.Group,
		Name:    c.Name,
		Version: c.Version,
		PURL:    c.PURL,
		Scope:   c.Scope,
	}
	for _, h := range c.Hashes {
		out.Hashes = append(out.Hashes, cdxHash{Algorithm: h.Algorithm, Content: h.Value})
	}
	return out
}
