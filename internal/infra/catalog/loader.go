// Package catalog loads the static training price table.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"training-registration/internal/domain/model"
)

//go:embed catalog.yaml
var embedded []byte

type fileFormat struct {
	Categories map[string][]model.CatalogEntry `yaml:"categories"`
	Interests  []string                        `yaml:"interests"`
}

// Load reads the catalog at path, or the embedded default when path is empty.
func Load(path string) (*model.Catalog, error) {
	data := embedded
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
		data = b
	}
	return Parse(data)
}

func Parse(data []byte) (*model.Catalog, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	cats := make(map[model.Category][]model.CatalogEntry, len(f.Categories))
	for name, entries := range f.Categories {
		c, err := model.ParseCategory(name)
		if err != nil {
			return nil, err
		}
		cats[c] = entries
	}
	return model.NewCatalog(cats, f.Interests)
}
