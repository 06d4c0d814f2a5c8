package services

import (
	"fmt"

	"github.com/ochairo/buildplan/internal/domain/entities"
)

// ResolvePlugins orders plugin declarations.
//
// In declaration mode the input order is kept and every requirement must be
// satisfied by a plugin declared earlier. In topological mode plugins are
// reordered so prerequisites come first, with declaration order breaking ties.
func ResolvePlugins(decls []string, catalog entities.PluginCatalog, mode string) ([]string, error) {
	if catalog == nil {
		catalog = entities.DefaultPluginCatalog()
	}

	switch mode {
	case "", entities.PluginOrderDeclaration:
		return resolveDeclarationOrder(decls, catalog)
	case entities.PluginOrderTopological:
		return resolveTopologicalOrder(decls, catalog)
	default:
		return nil, fmt.Errorf("unknown plugin order mode %q", mode)
	}
}

func resolveDeclarationOrder(decls []string, catalog entities.PluginCatalog) ([]string, error) {
	ordered := make([]string, 0, len(decls))
	for i, id := range decls {
		for _, req := range catalog[id].Requires {
			if !anySatisfies(ordered, req, catalog) {
				return nil, &entities.DependencyOrderError{Plugin: id, Prerequisite: req, Index: i}
			}
		}
		ordered = append(ordered, id)
	}
	return ordered, nil
}

func resolveTopologicalOrder(decls []string, catalog entities.PluginCatalog) ([]string, error) {
	for i, id := range decls {
		for _, req := range catalog[id].Requires {
			if !satisfiedByOther(decls, i, req, catalog, nil) {
				return nil, &entities.DependencyOrderError{Plugin: id, Prerequisite: req, Index: i}
			}
		}
	}

	n := len(decls)
	done := make([]bool, n)
	ordered := make([]string, 0, n)
	for len(ordered) < n {
		// lowest declaration index whose requirements are all met by applied plugins
		next := -1
		for i := 0; i < n && next < 0; i++ {
			if !done[i] && ready(decls, i, catalog, done) {
				next = i
			}
		}
		if next < 0 {
			return nil, cycleError(decls, catalog, done)
		}

		done[next] = true
		ordered = append(ordered, decls[next])
	}

	return ordered, nil
}

func ready(decls []string, i int, catalog entities.PluginCatalog, done []bool) bool {
	for _, req := range catalog[decls[i]].Requires {
		if !satisfiedByOther(decls, i, req, catalog, done) {
			return false
		}
	}
	return true
}

// satisfiedByOther reports whether a plugin other than decls[i] meets the
// requirement; with a non-nil done slice only applied plugins count
func satisfiedByOther(decls []string, i int, req string, catalog entities.PluginCatalog, done []bool) bool {
	for j, other := range decls {
		if j == i || (done != nil && !done[j]) {
			continue
		}
		if catalog.Satisfies(other, req) {
			return true
		}
	}
	return false
}

// cycleError reports the first pending plugin and its first requirement that
// no applied plugin meets
func cycleError(decls []string, catalog entities.PluginCatalog, done []bool) error {
	for i, id := range decls {
		if done[i] {
			continue
		}
		for _, req := range catalog[id].Requires {
			if !satisfiedByOther(decls, i, req, catalog, done) {
				return &entities.DependencyOrderError{Plugin: id, Prerequisite: req, Index: i}
			}
		}
	}
	return fmt.Errorf("plugin requirements form a cycle")
}

func anySatisfies(applied []string, requirement string, catalog entities.PluginCatalog) bool {
	for _, a := range applied {
		if catalog.Satisfies(a, requirement) {
			return true
		}
	}
	return false
}
