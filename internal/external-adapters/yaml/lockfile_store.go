package yaml

import (
	"context"
	"fmt"
	"os"

	"github.com/ochairo/buildplan/internal/domain/entities"
	"gopkg.in/yaml.v3"
)

// LockfileStore implements repositories.LockfileRepository with YAML files
type LockfileStore struct{}

// NewLockfileStore creates a new lockfile store
func NewLockfileStore() *LockfileStore {
	return &LockfileStore{}
}

// Load reads a lockfile
func (s *LockfileStore) Load(_ context.Context, path string) (*entities.Lockfile, error) {
	//nolint:gosec // G304: path is the lockfile given on the command line or in settings
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lockfile %s: %w", path, err)
	}

	var lock entities.Lockfile
	if err := yaml.Unmarshal(data, &lock); err != nil {
		return nil, fmt.Errorf("failed to parse lockfile %s: %w", path, err)
	}
	if lock.Version != entities.LockfileVersion {
		return nil, fmt.Errorf("unsupported lockfile version %d in %s (expected %d)", lock.Version, path, entities.LockfileVersion)
	}
	if lock.Dependencies == nil {
		lock.Dependencies = map[string]entities.LockedDependency{}
	}

	return &lock, nil
}

// Save writes a lockfile
func (s *LockfileStore) Save(_ context.Context, path string, lock *entities.Lockfile) error {
	data, err := yaml.Marshal(lock)
	if err != nil {
		return fmt.Errorf("failed to encode lockfile: %w", err)
	}

	header := []byte("# Generated by buildplan. Do not edit.\n")
	if err := os.WriteFile(path, append(header, data...), 0o600); err != nil {
		return fmt.Errorf("failed to write lockfile %s: %w", path, err)
	}
	return nil
}
