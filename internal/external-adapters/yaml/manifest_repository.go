package yaml

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ochairo/buildplan/internal/domain/entities"
	"github.com/ochairo/buildplan/internal/domain/interfaces"
)

// FileParser parses one manifest file format
type FileParser interface {
	ParseFile(filePath string) (*entities.Manifest, error)
}

// ManifestRepository implements repositories.ManifestRepository over a directory of
// manifest files. YAML is always supported; other formats are registered by extension.
type ManifestRepository struct {
	manifestsDir string
	parsers      map[string]FileParser
	extensions   []string
	logger       interfaces.Logger
}

// NewManifestRepository creates a new file-based manifest repository
func NewManifestRepository(manifestsDir string, logger interfaces.Logger) *ManifestRepository {
	yamlParser := NewManifestParser()
	return &ManifestRepository{
		manifestsDir: manifestsDir,
		parsers: map[string]FileParser{
			".yml":  yamlParser,
			".yaml": yamlParser,
		},
		extensions: []string{".yml", ".yaml"},
		logger:     interfaces.OrNoOp(logger),
	}
}

// RegisterParser adds a parser for files with the given extension (e.g., ".hcl")
func (r *ManifestRepository) RegisterParser(ext string, parser FileParser) {
	if _, exists := r.parsers[ext]; !exists {
		r.extensions = append(r.extensions, ext)
	}
	r.parsers[ext] = parser
}

// GetManifest retrieves a manifest by name, or by file path when name points at a file
func (r *ManifestRepository) GetManifest(_ context.Context, name string) (*entities.Manifest, error) {
	filePath, err := r.ManifestPath(name)
	if err != nil {
		return nil, err
	}
	return r.LoadFile(filePath)
}

// ManifestPath resolves a manifest name to the file that holds it
func (r *ManifestRepository) ManifestPath(name string) (string, error) {
	if _, ok := r.parsers[filepath.Ext(name)]; ok {
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			return name, nil
		}
	}

	for _, ext := range r.extensions {
		filePath := filepath.Join(r.manifestsDir, name+ext)
		if _, err := os.Stat(filePath); err == nil {
			return filePath, nil
		}
	}

	return "", fmt.Errorf("manifest not found: %s", name)
}

// LoadFile parses a manifest file with the parser registered for its extension
func (r *ManifestRepository) LoadFile(filePath string) (*entities.Manifest, error) {
	ext := filepath.Ext(filePath)
	parser, ok := r.parsers[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported manifest format %q: %s", ext, filePath)
	}

	m, err := parser.ParseFile(filePath)
	if err != nil {
		return nil, err
	}
	m.Name = strings.TrimSuffix(filepath.Base(filePath), ext)
	return m, nil
}

// ListManifests returns all parsable manifests, sorted by name
func (r *ManifestRepository) ListManifests(_ context.Context) ([]*entities.Manifest, error) {
	entries, err := os.ReadDir(r.manifestsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifests directory: %w", err)
	}

	manifests := make([]*entities.Manifest, 0)
	for _, entry := range entries {
		// Skip directories and unknown formats
		if entry.IsDir() {
			continue
		}
		if _, ok := r.parsers[filepath.Ext(entry.Name())]; !ok {
			continue
		}

		m, err := r.LoadFile(filepath.Join(r.manifestsDir, entry.Name()))
		if err != nil {
			// Log warning but continue processing other files
			r.logger.Warn("Skipping unparsable manifest",
				interfaces.F("file", entry.Name()),
				interfaces.F("error", err.Error()))
			continue
		}

		manifests = append(manifests, m)
	}

	sort.Slice(manifests, func(i, j int) bool { return manifests[i].Name < manifests[j].Name })
	return manifests, nil
}
