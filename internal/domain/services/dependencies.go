package services

import (
	"fmt"

	"github.com/ochairo/buildplan/internal/domain/entities"
)

type bomScope struct {
	id      string
	version string
}

// ResolveDependencies assigns a version to every declared coordinate.
//
// Platform entries resolve to their own version and open a BoM scope for the
// whole dependency list. Explicit versions win. A coordinate naming a BoM takes
// its version from that BoM's table, and an unversioned coordinate takes it from
// the first declared BoM that pins it.
func ResolveDependencies(deps []entities.Dependency, catalog entities.BomCatalog) ([]entities.ResolvedDependency, error) {
	var scopes []bomScope
	for _, d := range deps {
		if d.Platform {
			scopes = append(scopes, bomScope{id: d.Coordinate.Key(), version: d.Coordinate.Version})
		}
	}

	resolved := make([]entities.ResolvedDependency, 0, len(deps))
	firstSeen := make(map[string]int, len(deps))

	for i, d := range deps {
		path := fmt.Sprintf("dependencies[%d]", i)

		r, err := resolveOne(d, path, scopes, catalog)
		if err != nil {
			return nil, err
		}

		if j, ok := firstSeen[r.Key()]; ok {
			prev := resolved[j]
			if prev.Version != r.Version {
				return nil, &entities.ConstraintError{
					Path: path,
					Rule: "conflicting versions for " + r.Key(),
					Values: []string{
						fmt.Sprintf("dependencies[%d]=%s", j, prev.Version),
						fmt.Sprintf("%s=%s", path, r.Version),
					},
				}
			}
		} else {
			firstSeen[r.Key()] = len(resolved)
		}

		resolved = append(resolved, r)
	}

	return resolved, nil
}

func resolveOne(d entities.Dependency, path string, scopes []bomScope, catalog entities.BomCatalog) (entities.ResolvedDependency, error) {
	c := d.Coordinate
	r := entities.ResolvedDependency{
		Configuration: d.Configuration,
		Group:         c.Group,
		Artifact:      c.Artifact,
		Platform:      d.Platform,
	}

	switch {
	case c.Version != "":
		r.Version = c.Version
		r.Source = entities.SourceExplicit
		return r, nil

	case d.Bom != "":
		scope, ok := findScope(scopes, d.Bom)
		if !ok {
			return r, &entities.UnresolvedVersionError{Artifact: c.Key(), Path: path, Bom: d.Bom}
		}
		bom, ok := catalog.Lookup(scope.id, scope.version)
		if !ok {
			return r, &entities.UnresolvedVersionError{Artifact: c.Key(), Path: path, Bom: entities.BomKey(scope.id, scope.version)}
		}
		v, ok := bom.Artifacts[c.Key()]
		if !ok {
			return r, &entities.UnresolvedVersionError{Artifact: c.Key(), Path: path, Bom: bom.Key()}
		}
		r.Version = v
		r.Source = entities.SourceBom
		r.Bom = bom.Key()
		return r, nil

	default:
		for _, scope := range scopes {
			bom, ok := catalog.Lookup(scope.id, scope.version)
			if !ok {
				continue
			}
			if v, ok := bom.Artifacts[c.Key()]; ok {
				r.Version = v
				r.Source = entities.SourceBom
				r.Bom = bom.Key()
				return r, nil
			}
		}
		unresolved := &entities.UnresolvedVersionError{Artifact: c.Key(), Path: path}
		if len(scopes) == 1 {
			unresolved.Bom = entities.BomKey(scopes[0].id, scopes[0].version)
		}
		return r, unresolved
	}
}

func findScope(scopes []bomScope, id string) (bomScope, bool) {
	for _, s := range scopes {
		if s.id == id {
			return s, true
		}
	}
	return bomScope{}, false
}
