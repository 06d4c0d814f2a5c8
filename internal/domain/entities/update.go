package entities

// UpdateInfo reports the newest published version of a resolved dependency
type UpdateInfo struct {
	Artifact       string `json:"artifact"`
	CurrentVersion string `json:"current_version"`
	LatestVersion  string `json:"latest_version,omitempty"`
	Repository     string `json:"repository,omitempty"`
	UpdateNeeded   bool   `json:"update_needed"`
	Error          string `json:"error,omitempty"`
}
