package entities

// SecurityReport represents the result of a vulnerability audit over resolved dependencies
type SecurityReport struct {
	Vulnerabilities []Vulnerability
	Skipped         []string // group:artifact entries not queried (e.g., circuit open)
	Score           float64
	ScanDate        string
	Metadata        ScanMetadata
}

// Vulnerability represents a single security vulnerability
type Vulnerability struct {
	ID          string
	Severity    string // CRITICAL, HIGH, MEDIUM, LOW, UNKNOWN
	Description string
	Score       float64 // CVSS score (0.0-10.0)
	Component   string  // group:artifact@version
	FixedIn     string  // Version where vulnerability is fixed (optional)
}

// ScanMetadata contains information about the scan execution
type ScanMetadata struct {
	Scanner        string
	ScannerVersion string
	Duration       string
}
