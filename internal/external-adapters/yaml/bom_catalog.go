package yaml

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ochairo/buildplan/internal/domain/entities"
	"gopkg.in/yaml.v3"
)

// BomCatalogRepository implements repositories.BomRepository over a directory
// holding one BoM release per YAML file
type BomCatalogRepository struct {
	bomDir string
}

// NewBomCatalogRepository creates a BoM catalog reader for the given directory
func NewBomCatalogRepository(bomDir string) *BomCatalogRepository {
	return &BomCatalogRepository{bomDir: bomDir}
}

// LoadCatalog reads every BoM file of the directory. A missing directory yields an
// empty catalog so manifests with explicit versions only still resolve.
func (r *BomCatalogRepository) LoadCatalog(_ context.Context) (entities.BomCatalog, error) {
	catalog := make(entities.BomCatalog)
	if r.bomDir == "" {
		return catalog, nil
	}

	entries, err := os.ReadDir(r.bomDir)
	if err != nil {
		if os.IsNotExist(err) {
			return catalog, nil
		}
		return nil, fmt.Errorf("failed to read BoM directory: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !(strings.HasSuffix(name, ".yml") || strings.HasSuffix(name, ".yaml")) {
			continue
		}

		bom, err := ParseBomFile(filepath.Join(r.bomDir, name))
		if err != nil {
			return nil, err
		}
		if prev, dup := catalog[bom.Key()]; dup {
			return nil, fmt.Errorf("duplicate BoM release %s in %s (already loaded with %d artifacts)", bom.Key(), name, len(prev.Artifacts))
		}
		catalog[bom.Key()] = bom
	}

	return catalog, nil
}

// ParseBomFile reads a single BoM release file
func ParseBomFile(filePath string) (entities.Bom, error) {
	//nolint:gosec // G304: filePath comes from the configured BoM directory
	data, err := os.ReadFile(filePath)
	if err != nil {
		return entities.Bom{}, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	var raw yamlBom
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return entities.Bom{}, fmt.Errorf("failed to parse BoM %s: %w", filePath, err)
	}

	if raw.ID == "" || raw.Version == "" {
		return entities.Bom{}, fmt.Errorf("BoM %s must have an id and a version", filePath)
	}
	if _, err := entities.ParseCoordinate(raw.ID); err != nil {
		return entities.Bom{}, fmt.Errorf("BoM %s has an invalid id: %w", filePath, err)
	}

	return entities.Bom{ID: raw.ID, Version: raw.Version, Artifacts: raw.Artifacts}, nil
}
