package services

import (
	"sort"

	"github.com/ochairo/buildplan/internal/domain/entities"
)

// NewLockfile snapshots the resolved versions of a plan
func NewLockfile(plan *entities.BuildPlan) *entities.Lockfile {
	lock := &entities.Lockfile{
		Version:      entities.LockfileVersion,
		Fingerprint:  plan.Fingerprint,
		Dependencies: make(map[string]entities.LockedDependency, len(plan.Dependencies)),
	}
	for key, v := range plan.Versions() {
		lock.Dependencies[key] = entities.LockedDependency{Version: v.Version, Source: v.Source, Bom: v.Bom}
	}
	return lock
}

// CompareLock reports artifacts added, removed or changed since the lockfile was
// written, sorted by artifact
func CompareLock(plan *entities.BuildPlan, lock *entities.Lockfile) []entities.LockDrift {
	resolved := plan.Versions()
	var drift []entities.LockDrift

	for key, v := range resolved {
		locked, ok := lock.Dependencies[key]
		switch {
		case !ok:
			drift = append(drift, entities.LockDrift{Artifact: key, Kind: entities.DriftAdded, Resolved: v.Version})
		case locked.Version != v.Version:
			drift = append(drift, entities.LockDrift{Artifact: key, Kind: entities.DriftChanged, Locked: locked.Version, Resolved: v.Version})
		}
	}
	for key, locked := range lock.Dependencies {
		if _, ok := resolved[key]; !ok {
			drift = append(drift, entities.LockDrift{Artifact: key, Kind: entities.DriftRemoved, Locked: locked.Version})
		}
	}

	sort.Slice(drift, func(i, j int) bool { return drift[i].Artifact < drift[j].Artifact })
	return drift
}
