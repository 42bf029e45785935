package form

import (
	"encoding/json"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadDataFile reads a field/value map from a JSON or YAML file. The format
// is chosen by extension: .yaml and .yml parse as YAML, everything else as
// JSON.
func LoadDataFile(path string) (map[string]any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(b)
	default:
		return ParseJSON(b)
	}
}

// ReadData parses JSON field/value data from r, typically stdin.
func ReadData(r io.Reader) (map[string]any, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseJSON(b)
}

// ParseJSON accepts either a {field: value} object or a list of {name, value}
// records. Record names and string values arrive HTML-escaped from some form
// exporters and are entity-decoded during normalization.
func ParseJSON(b []byte) (map[string]any, error) {
	var probe any
	if err := json.Unmarshal(b, &probe); err != nil {
		return nil, fmt.Errorf("parse json data: %w", err)
	}
	switch v := probe.(type) {
	case map[string]any:
		return v, nil
	case []any:
		return normalizeRecords(v), nil
	}
	return nil, fmt.Errorf("unsupported data shape %T: want object or record list", probe)
}

// ParseYAML parses a {field: value} YAML mapping.
func ParseYAML(b []byte) (map[string]any, error) {
	var data map[string]any
	if err := yaml.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("parse yaml data: %w", err)
	}
	return data, nil
}

// normalizeRecords folds a list of {name, value} records into a value map.
// Records without a name are dropped.
func normalizeRecords(records []any) map[string]any {
	data := make(map[string]any, len(records))
	for _, r := range records {
		rec, ok := r.(map[string]any)
		if !ok {
			continue
		}
		name, _ := rec["name"].(string)
		if name == "" {
			continue
		}
		value, ok := rec["value"]
		if !ok {
			continue
		}
		if s, ok := value.(string); ok {
			value = html.UnescapeString(s)
		}
		data[html.UnescapeString(name)] = value
	}
	return data
}
