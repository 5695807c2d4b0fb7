// Package catalogfile serves the lens catalog from a YAML or JSON file,
// for offline use and for demos without the inventory service.
package catalogfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lensfinder/backend/internal/domain"
	"github.com/lensfinder/backend/internal/infrastructure/inventory"
	"gopkg.in/yaml.v3"
)

// Source reads the catalog file on every call, so edits are picked up
// without a restart
type Source struct {
	path string
}

// document is the top-level file layout. A bare list of lenses is accepted too.
type document struct {
	Lenses []inventory.LensRecord `json:"lenses"`
}

// NewSource creates a file-backed catalog source
func NewSource(path string) *Source {
	return &Source{path: path}
}

// ListLenses implements domain.CatalogSource
func (s *Source) ListLenses(ctx context.Context) ([]domain.LensProduct, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	records, err := Parse(data, filepath.Ext(s.path))
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", s.path, err)
	}
	return inventory.MapToLensProducts(records), nil
}

// Parse decodes catalog records. YAML is converted to JSON first so both
// formats share the inventory record decoding.
func Parse(data []byte, ext string) ([]inventory.LensRecord, error) {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		var raw interface{}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		converted, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("catalog is not representable as JSON: %w", err)
		}
		data = converted
	case ".json", "":
	default:
		return nil, fmt.Errorf("unsupported catalog file extension %q", ext)
	}

	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var records []inventory.LensRecord
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, err
		}
		return records, nil
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Lenses, nil
}
