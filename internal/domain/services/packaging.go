package services

import (
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// BuildPackagingPlan turns packaging exclusions into a minimal sorted pattern set.
// Patterns are normalized, brace alternations expanded, duplicates dropped and
// patterns already covered by a broader one removed. It never fails.
func BuildPackagingPlan(excludes []string) []string {
	unique := make(map[string]struct{}, len(excludes))
	for _, raw := range excludes {
		p := normalizePattern(raw)
		if p == "" {
			continue
		}
		for _, expanded := range expandBraces(p) {
			unique[normalizePattern(expanded)] = struct{}{}
		}
	}

	patterns := make([]string, 0, len(unique))
	for p := range unique {
		patterns = append(patterns, p)
	}
	sort.Strings(patterns)

	kept := make([]string, 0, len(patterns))
	for _, p := range patterns {
		covered := false
		for _, other := range patterns {
			if other != p && subsumes(other, p) {
				covered = true
				break
			}
		}
		if !covered {
			kept = append(kept, p)
		}
	}

	return kept
}

// InvalidPackagingPatterns returns the exclusions that are not valid globs
func InvalidPackagingPatterns(excludes []string) []string {
	var invalid []string
	for _, raw := range excludes {
		p := normalizePattern(raw)
		if p != "" && !doublestar.ValidatePattern(p) {
			invalid = append(invalid, raw)
		}
	}
	return invalid
}

func normalizePattern(raw string) string {
	p := strings.TrimSpace(raw)
	if p == "" {
		return ""
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	if len(p) > 1 {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}

// subsumes reports whether every path matched by b is also matched by a
func subsumes(a, b string) bool {
	if isLiteral(b) {
		ok, err := doublestar.Match(a, b)
		return err == nil && ok
	}

	// a trailing * covers any narrower last segment in the same directory
	aDir, aLast := splitLast(a)
	bDir, bLast := splitLast(b)
	if aLast == "*" && bLast != "**" && aDir == bDir {
		return true
	}

	prefix, ok := strings.CutSuffix(a, "/**")
	if !ok || !isLiteral(prefix) {
		return false
	}
	return prefix == "" || strings.HasPrefix(b, prefix+"/")
}

func splitLast(p string) (dir, last string) {
	i := strings.LastIndexByte(p, '/')
	return p[:i+1], p[i+1:]
}

func isLiteral(p string) bool {
	return !strings.ContainsAny(p, `*?[{\`)
}

// expandBraces expands the first top-level {a,b} group and recurses on the results
func expandBraces(p string) []string {
	open := strings.IndexByte(p, '{')
	if open < 0 {
		return []string{p}
	}

	depth := 0
	closeIdx := -1
	var parts []string
	start := open + 1
	for i := open; i < len(p) && closeIdx < 0; i++ {
		switch p[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				parts = append(parts, p[start:i])
				closeIdx = i
			}
		case ',':
			if depth == 1 {
				parts = append(parts, p[start:i])
				start = i + 1
			}
		}
	}
	if closeIdx < 0 {
		return []string{p}
	}

	prefix, suffix := p[:open], p[closeIdx+1:]
	var out []string
	for _, part := range parts {
		out = append(out, expandBraces(prefix+part+suffix)...)
	}
	return out
}
