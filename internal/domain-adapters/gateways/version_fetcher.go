package gateways

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ochairo/buildplan/internal/domain/entities"
)

// Default Maven repositories, queried in order
const (
	GoogleMavenURL  = "https://dl.google.com/dl/android/maven2"
	MavenCentralURL = "https://repo1.maven.org/maven2"
)

const (
	maxRetries  = 2
	baseBackoff = 500 * time.Millisecond
)

var errNotFound = errors.New("artifact not found")

// VersionFetcher looks up the newest published versions of Maven artifacts
// from maven-metadata.xml
type VersionFetcher struct {
	repositories []string
	httpClient   *http.Client
	backoff      time.Duration
}

// NewVersionFetcher creates a new version fetcher. With no repositories it
// queries Google Maven, then Maven Central.
func NewVersionFetcher(repositories []string, timeout time.Duration) *VersionFetcher {
	if len(repositories) == 0 {
		repositories = []string{GoogleMavenURL, MavenCentralURL}
	}
	if timeout <= 0 {
		timeout = 10 * time.Second // Reasonable timeout for version checks
	}

	repos := make([]string, 0, len(repositories))
	for _, r := range repositories {
		repos = append(repos, strings.TrimSuffix(r, "/"))
	}

	return &VersionFetcher{
		repositories: repos,
		httpClient:   &http.Client{Timeout: timeout},
		backoff:      baseBackoff,
	}
}

// MavenMetadata is the versioning section of maven-metadata.xml
type MavenMetadata struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Versioning struct {
		Latest   string   `xml:"latest"`
		Release  string   `xml:"release"`
		Versions []string `xml:"versions>version"`
	} `xml:"versioning"`
}

// CheckUpdate reports whether a newer release of dep is published. Lookup
// failures are reported in UpdateInfo.Error rather than returned.
func (vf *VersionFetcher) CheckUpdate(ctx context.Context, dep entities.ResolvedDependency) entities.UpdateInfo {
	info := entities.UpdateInfo{
		Artifact:       dep.Key(),
		CurrentVersion: dep.Version,
	}

	latest, repo, err := vf.FetchLatestVersion(ctx, dep.Group, dep.Artifact)
	if err != nil {
		info.Error = err.Error()
		return info
	}

	info.LatestVersion = latest
	info.Repository = repo
	info.UpdateNeeded = compareVersions(latest, dep.Version) > 0
	return info
}

// FetchLatestVersion returns the newest stable version of group:artifact and the
// repository it was found in
func (vf *VersionFetcher) FetchLatestVersion(ctx context.Context, group, artifact string) (string, string, error) {
	var lastErr error
	for _, repo := range vf.repositories {
		meta, err := vf.fetchMetadata(ctx, repo, group, artifact)
		if err != nil {
			if ctx.Err() != nil {
				return "", "", ctx.Err()
			}
			lastErr = err
			continue
		}

		if v := latestStable(meta); v != "" {
			return v, repo, nil
		}
		lastErr = fmt.Errorf("no versions listed for %s:%s in %s", group, artifact, repo)
	}

	if lastErr == nil || errors.Is(lastErr, errNotFound) {
		return "", "", fmt.Errorf("%s:%s not found in any repository", group, artifact)
	}
	return "", "", lastErr
}

// MetadataURL returns the maven-metadata.xml location of an artifact in repo
func MetadataURL(repo, group, artifact string) string {
	return fmt.Sprintf("%s/%s/%s/maven-metadata.xml", repo, strings.ReplaceAll(group, ".", "/"), artifact)
}

func (vf *VersionFetcher) fetchMetadata(ctx context.Context, repo, group, artifact string) (*MavenMetadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, MetadataURL(repo, group, artifact), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := vf.doWithRetry(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	//nolint:errcheck // Defer close
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, repo)
	}

	// Limit metadata size to 5MB
	body, err := io.ReadAll(io.LimitReader(resp.Body, 5*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var meta MavenMetadata
	if err := xml.Unmarshal(body, &meta); err != nil {
		return nil, fmt.Errorf("failed to parse maven-metadata.xml: %w", err)
	}
	return &meta, nil
}

// doWithRetry executes an HTTP request with exponential backoff retry
func (vf *VersionFetcher) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	var resp *http.Response
	var err error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(vf.backoff << (attempt - 1)):
			}
		}

		resp, err = vf.httpClient.Do(req)
		if err != nil {
			// Network errors are retryable
			if attempt < maxRetries && ctx.Err() == nil {
				continue
			}
			return nil, err
		}

		// Success or non-retryable error
		if !isRetryableStatus(resp.StatusCode) || attempt == maxRetries {
			return resp, nil
		}

		// Retryable error - close body and retry
		//nolint:errcheck,gosec // G104: Best effort close before retry
		resp.Body.Close()
	}

	return resp, err
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// latestStable picks the highest non-prerelease version listed in the metadata,
// falling back to <release> and then <latest>
func latestStable(meta *MavenMetadata) string {
	best := ""
	for _, v := range meta.Versioning.Versions {
		v = strings.TrimSpace(v)
		if v == "" || isPrerelease(v) {
			continue
		}
		if best == "" || compareVersions(v, best) > 0 {
			best = v
		}
	}
	if best != "" {
		return best
	}
	if meta.Versioning.Release != "" {
		return strings.TrimSpace(meta.Versioning.Release)
	}
	return strings.TrimSpace(meta.Versioning.Latest)
}

func isPrerelease(v string) bool {
	lower := strings.ToLower(v)
	for _, marker := range []string{"alpha", "beta", "-rc", ".rc", "snapshot", "-m", "-dev", "-eap", "-preview"} {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// compareVersions compares two version strings numerically, part by part
// Returns: 1 if v1 > v2, -1 if v1 < v2, 0 if equal
func compareVersions(v1, v2 string) int {
	parts1 := strings.Split(v1, ".")
	parts2 := strings.Split(v2, ".")

	maxLen := len(parts1)
	if len(parts2) > maxLen {
		maxLen = len(parts2)
	}

	for i := 0; i < maxLen; i++ {
		num1 := leadingNumber(parts1, i)
		num2 := leadingNumber(parts2, i)

		if num1 > num2 {
			return 1
		} else if num1 < num2 {
			return -1
		}
	}

	return 0
}

// leadingNumber extracts the numeric prefix of parts[i] (handles "1rc1" -> 1)
func leadingNumber(parts []string, i int) int {
	if i >= len(parts) {
		return 0
	}
	end := 0
	for end < len(parts[i]) && parts[i][end] >= '0' && parts[i][end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(parts[i][:end])
	if err != nil {
		return 0
	}
	return n
}
