package yaml

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ochairo/buildplan/internal/domain/entities"
)

func TestLockfileStore_SaveLoad(t *testing.T) {
	store := NewLockfileStore()
	path := filepath.Join(t.TempDir(), "buildplan.lock")

	lock := &entities.Lockfile{
		Version:     entities.LockfileVersion,
		Fingerprint: "3f2a",
		Dependencies: map[string]entities.LockedDependency{
			"com.google.firebase:firebase-auth-ktx": {Version: "23.0.0", Source: entities.SourceBom, Bom: "com.google.firebase:firebase-bom@33.1.2"},
			"androidx.core:core-ktx":                {Version: "1.12.0", Source: entities.SourceExplicit},
		},
	}

	if err := store.Save(context.Background(), path, lock); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := store.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Fingerprint != "3f2a" {
		t.Errorf("Fingerprint = %q, want 3f2a", loaded.Fingerprint)
	}
	if got := loaded.Dependencies["com.google.firebase:firebase-auth-ktx"]; got != lock.Dependencies["com.google.firebase:firebase-auth-ktx"] {
		t.Errorf("firebase-auth-ktx = %+v", got)
	}
}

func TestLockfileStore_LoadErrors(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]string{
		"missing file":        filepath.Join(dir, "missing.lock"),
		"unsupported version": writeFile(t, dir, "v2.lock", "version: 2\nfingerprint: x\n"),
		"malformed":           writeFile(t, dir, "bad.lock", "version: [\n"),
	}

	store := NewLockfileStore()
	for name, path := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := store.Load(context.Background(), path); err == nil {
				t.Error("Load() should fail")
			}
		})
	}
}
