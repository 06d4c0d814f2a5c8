package entities

import (
	"fmt"
	"strings"
)

// Error kinds reported by ConfigError.Kind
const (
	KindSchema            = "schema"
	KindConstraint        = "constraint"
	KindDependencyOrder   = "dependency_order"
	KindUnresolvedVersion = "unresolved_version"
)

// ConfigError is a manifest resolution failure that carries the offending field path
type ConfigError interface {
	error
	Kind() string
	FieldPath() string
}

// SchemaError reports a missing or malformed field
type SchemaError struct {
	Path   string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error at %s: %s", e.Path, e.Reason)
}

// Kind returns KindSchema
func (e *SchemaError) Kind() string { return KindSchema }

// FieldPath returns the offending field path
func (e *SchemaError) FieldPath() string { return e.Path }

// ConstraintError reports a violated invariant along with the offending values
type ConstraintError struct {
	Path   string
	Rule   string   // e.g., "targetSdk<minSdk"
	Values []string // e.g., ["targetSdk=22", "minSdk=23"]
}

func (e *ConstraintError) Error() string {
	if len(e.Values) == 0 {
		return fmt.Sprintf("constraint violated at %s: %s", e.Path, e.Rule)
	}
	return fmt.Sprintf("constraint violated at %s: %s (%s)", e.Path, e.Rule, strings.Join(e.Values, ", "))
}

// Kind returns KindConstraint
func (e *ConstraintError) Kind() string { return KindConstraint }

// FieldPath returns the offending field path
func (e *ConstraintError) FieldPath() string { return e.Path }

// DependencyOrderError reports a plugin whose prerequisite is not applied before it
type DependencyOrderError struct {
	Plugin       string
	Prerequisite string
	Index        int
}

func (e *DependencyOrderError) Error() string {
	return fmt.Sprintf("plugin %s requires %s to be applied first", e.Plugin, e.Prerequisite)
}

// Kind returns KindDependencyOrder
func (e *DependencyOrderError) Kind() string { return KindDependencyOrder }

// FieldPath returns the plugins[i] path of the offending declaration
func (e *DependencyOrderError) FieldPath() string { return fmt.Sprintf("plugins[%d]", e.Index) }

// UnresolvedVersionError reports a coordinate with no determinable version
type UnresolvedVersionError struct {
	Artifact string
	Path     string
	Bom      string // BoM scope that was consulted, if any
}

func (e *UnresolvedVersionError) Error() string {
	if e.Bom != "" {
		return fmt.Sprintf("cannot resolve version of %s at %s: not pinned by BoM %s", e.Artifact, e.Path, e.Bom)
	}
	return fmt.Sprintf("cannot resolve version of %s at %s: no explicit version and no declared BoM pins it", e.Artifact, e.Path)
}

// Kind returns KindUnresolvedVersion
func (e *UnresolvedVersionError) Kind() string { return KindUnresolvedVersion }

// FieldPath returns the dependencies[i] path of the offending coordinate
func (e *UnresolvedVersionError) FieldPath() string { return e.Path }
