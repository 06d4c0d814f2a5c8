package yaml

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ochairo/buildplan/internal/domain/entities"
)

// FuzzManifestParser tests the YAML parser against random/malformed inputs
// to detect crashes, panics, or unexpected behavior.
//
// Run with: go test -fuzz=FuzzManifestParser -fuzztime=30s
func FuzzManifestParser(f *testing.F) {
	// Seed corpus with valid YAML examples
	if data, err := os.ReadFile(filepath.Join("testdata", "lupuscare.yaml")); err == nil {
		f.Add(data)
	}

	f.Add([]byte(`namespace: com.example.app
compileSdk: 35
defaultConfig:
  applicationId: com.example.app
  minSdk: 23
  targetSdk: 34
dependencies:
  - androidx.core:core-ktx:1.12.0
`))

	// Seed with edge cases
	f.Add([]byte(``))                                    // Empty input
	f.Add([]byte(`{}`))                                  // Empty JSON-style YAML
	f.Add([]byte(`[]`))                                  // Array instead of object
	f.Add([]byte("namespace: a\n  bad"))                 // Invalid indentation
	f.Add([]byte("namespace: a\nnamespace: b"))          // Duplicate keys
	f.Add([]byte("dependencies:\n  - ~\n  - {}\n  - :")) // Odd dependency entries
	f.Add([]byte("&a [*a]"))                             // Alias cycle

	parser := NewManifestParser()

	f.Fuzz(func(t *testing.T, data []byte) {
		// The parser should handle any input without crashing; failures are
		// always schema errors
		_, err := parser.Parse(data)
		if err == nil {
			return
		}
		var schemaErr *entities.SchemaError
		if !errors.As(err, &schemaErr) {
			t.Errorf("Parse() returned %T, want *entities.SchemaError", err)
		}
	})
}
