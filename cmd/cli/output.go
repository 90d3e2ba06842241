package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"ksboot/domain/run"
	"ksboot/internal/errors"

	"gopkg.in/yaml.v3"
)

func writeOutput(w io.Writer, format string, v interface{}) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}

// readManifest decodes a manifest written by writeOutput, choosing the
// format from the file extension.
func readManifest(path string) (*run.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound(fmt.Sprintf("manifest %s", path))
		}
		return nil, errors.Wrap(err, "failed to read manifest")
	}

	var m run.Manifest
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &m)
	default:
		err = json.Unmarshal(data, &m)
	}
	if err != nil {
		return nil, errors.Wrap(errors.InvalidInput(err.Error()), "failed to decode manifest")
	}
	return &m, nil
}
