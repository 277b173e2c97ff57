package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/crosscheck/internal/model"
)

// LoadBundle reads a source bundle from a .json, .yaml or .yml file
func LoadBundle(path string) (*model.SourceBundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bundle: %w", err)
	}

	var bundle model.SourceBundle
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&bundle); err != nil {
			return nil, fmt.Errorf("parse bundle %s: %w", path, err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&bundle); err != nil {
			return nil, fmt.Errorf("parse bundle %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported bundle format %q (want .json, .yaml or .yml)", ext)
	}

	for i, e := range bundle.Extractions {
		if strings.TrimSpace(e.SourceURL) == "" {
			return nil, fmt.Errorf("bundle %s: extraction %d has no sourceUrl", path, i)
		}
	}

	if bundle.Name == "" {
		base := filepath.Base(path)
		bundle.Name = strings.TrimSuffix(base, filepath.Ext(base))
	}

	return &bundle, nil
}
