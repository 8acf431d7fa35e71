// Package seed loads the supplier catalogue from YAML.
package seed

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed suppliers.yaml
var defaultCatalogue []byte

// Entry is one supplier in a seed file.
type Entry struct {
	Name     string `yaml:"name"`
	Disabled bool   `yaml:"disabled"`
}

type document struct {
	Suppliers []Entry `yaml:"suppliers"`
}

// Load reads the seed file at path, or the embedded catalogue when path is
// empty.
func Load(path string) ([]Entry, error) {
	data := defaultCatalogue
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read supplier seed: %w", err)
		}
		data = raw
	}
	return Parse(data)
}

// Parse decodes a seed document. Names are trimmed and must be unique.
func Parse(data []byte) ([]Entry, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse supplier seed: %w", err)
	}
	seen := make(map[string]bool, len(doc.Suppliers))
	out := make([]Entry, 0, len(doc.Suppliers))
	for i, e := range doc.Suppliers {
		e.Name = strings.TrimSpace(e.Name)
		if e.Name == "" {
			return nil, fmt.Errorf("supplier seed entry %d: name is required", i)
		}
		if seen[e.Name] {
			return nil, fmt.Errorf("supplier seed: duplicate name %q", e.Name)
		}
		seen[e.Name] = true
		out = append(out, e)
	}
	return out, nil
}
