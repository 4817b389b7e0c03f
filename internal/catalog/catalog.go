// Package catalog parses assessment catalogs from YAML and ships the default seed.
package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"bias-assessment-service/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

// Parse decodes and validates a YAML catalog. Zero weights default to 1.
func Parse(data []byte) (domain.Catalog, error) {
	var c domain.Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return domain.Catalog{}, fmt.Errorf("decode catalog: %w", err)
	}
	for i := range c.Questions {
		if c.Questions[i].Weight == 0 {
			c.Questions[i].Weight = 1
		}
	}
	if err := c.Validate(); err != nil {
		return domain.Catalog{}, err
	}
	return c, nil
}

// Seed returns the built-in catalog.
func Seed() domain.Catalog {
	c, err := Parse(seedYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// FileLoader reads a catalog from a YAML file on every load.
type FileLoader struct {
	path string
}

func NewFileLoader(path string) *FileLoader {
	return &FileLoader{path: path}
}

func (l *FileLoader) LoadCatalog(_ context.Context) (domain.Catalog, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("read catalog %s: %w", l.path, err)
	}
	return Parse(data)
}
