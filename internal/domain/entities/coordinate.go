package entities

import (
	"fmt"
	"strings"
)

// Dependency configurations recognized by the resolver
const (
	ConfigImplementation        = "implementation"
	ConfigAPI                   = "api"
	ConfigCompileOnly           = "compileOnly"
	ConfigRuntimeOnly           = "runtimeOnly"
	ConfigCoreLibraryDesugaring = "coreLibraryDesugaring"
	ConfigTestImplementation    = "testImplementation"
)

// Dependency represents a single entry of the dependencies list
type Dependency struct {
	Configuration string
	Coordinate    Coordinate
	Platform      bool   // Declares a BoM scope (platform("g:a:v"))
	Bom           string // Explicit BoM scope reference (group:artifact), optional
}

// Coordinate is a Maven-style group:artifact[:version] triple
type Coordinate struct {
	Group    string
	Artifact string
	Version  string
}

// Key returns the group:artifact identifier
func (c Coordinate) Key() string {
	return c.Group + ":" + c.Artifact
}

// String returns the coordinate in group:artifact[:version] form
func (c Coordinate) String() string {
	if c.Version == "" {
		return c.Key()
	}
	return c.Key() + ":" + c.Version
}

// ParseCoordinate parses "group:artifact" or "group:artifact:version"
func ParseCoordinate(s string) (Coordinate, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Coordinate{}, fmt.Errorf("expected group:artifact[:version], got %q", s)
	}
	for _, p := range parts {
		if p == "" || strings.ContainsAny(p, " \t") {
			return Coordinate{}, fmt.Errorf("expected group:artifact[:version], got %q", s)
		}
	}

	c := Coordinate{Group: parts[0], Artifact: parts[1]}
	if len(parts) == 3 {
		c.Version = parts[2]
	}
	return c, nil
}
