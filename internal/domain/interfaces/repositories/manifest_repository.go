// Package repositories defines interfaces for data access layers.
package repositories

import (
	"context"

	"github.com/ochairo/buildplan/internal/domain/entities"
)

// ManifestRepository defines the interface for accessing build manifests
type ManifestRepository interface {
	// GetManifest retrieves a manifest by name (file stem) or path
	GetManifest(ctx context.Context, name string) (*entities.Manifest, error)

	// ListManifests returns all available manifests
	ListManifests(ctx context.Context) ([]*entities.Manifest, error)

	// ManifestPath returns the file backing a manifest name
	ManifestPath(name string) (string, error)
}

// BomRepository defines the interface for accessing the BoM catalog
type BomRepository interface {
	// LoadCatalog returns every known BoM release keyed by id@version
	LoadCatalog(ctx context.Context) (entities.BomCatalog, error)
}

// LockfileRepository defines the interface for persisting lockfiles
type LockfileRepository interface {
	// Load reads a lockfile
	Load(ctx context.Context, path string) (*entities.Lockfile, error)

	// Save writes a lockfile
	Save(ctx context.Context, path string, lock *entities.Lockfile) error
}
