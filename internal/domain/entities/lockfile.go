package entities

// LockfileVersion is the current lockfile format version
const LockfileVersion = 1

// Lockfile is a reproducible snapshot of resolved dependency versions
type Lockfile struct {
	Version      int                         `yaml:"version"`
	Fingerprint  string                      `yaml:"fingerprint"`
	Dependencies map[string]LockedDependency `yaml:"dependencies"`
}

// LockedDependency is one locked artifact
type LockedDependency struct {
	Version string `yaml:"version"`
	Source  string `yaml:"source"`
	Bom     string `yaml:"bom,omitempty"`
}

// Drift kinds
const (
	DriftAdded   = "added"
	DriftRemoved = "removed"
	DriftChanged = "changed"
)

// LockDrift describes one difference between a plan and its lockfile
type LockDrift struct {
	Artifact string
	Kind     string
	Locked   string
	Resolved string
}
