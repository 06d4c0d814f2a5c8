package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Plan output formats
const (
	formatYAML = "yaml"
	formatJSON = "json"
)

func encode(v any, format string) ([]byte, error) {
	switch format {
	case formatYAML:
		return yaml.Marshal(v)
	case formatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("unknown format %q (want yaml or json)", format)
	}
}

// writeOutput writes data to path, or to w when path is empty or "-"
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // G306: output files are meant to be shared
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
