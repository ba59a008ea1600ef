// Package catalog loads the static clinic content: providers, services,
// articles and clinic contact details.
package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"github.com/clinicconnect/clinicconnect-api/internal/models"
	"github.com/clinicconnect/clinicconnect-api/pkg/logger"
	"github.com/clinicconnect/clinicconnect-api/pkg/slug"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embedded []byte

// Source reads the catalog from an optional YAML file, falling back to the
// document compiled into the binary.
type Source struct {
	path string
}

// NewSource creates a catalog source. An empty path selects the embedded catalog.
func NewSource(path string) *Source {
	return &Source{path: path}
}

// Load reads and validates the catalog
func (s *Source) Load(ctx context.Context) (*models.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data := embedded
	if s.path != "" {
		raw, err := os.ReadFile(s.path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog %s: %w", s.path, err)
		}
		data = raw
		logger.Debug("Loading catalog from file", zap.String("path", s.path))
	}

	return Parse(data)
}

// Parse decodes a YAML catalog document, fills in derived slugs and checks
// that identifiers are unique.
func Parse(data []byte) (*models.Catalog, error) {
	var c models.Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	if err := normalize(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func normalize(c *models.Catalog) error {
	providerIDs := make(map[int]struct{}, len(c.Providers))
	for _, p := range c.Providers {
		if p.ID <= 0 || p.Name == "" {
			return fmt.Errorf("provider entry needs a positive id and a name")
		}
		if _, dup := providerIDs[p.ID]; dup {
			return fmt.Errorf("duplicate provider id %d", p.ID)
		}
		providerIDs[p.ID] = struct{}{}
		if p.Slug == "" {
			p.Slug = slug.MakeWithID(p.Name, p.ID)
		}
	}

	serviceIDs := make(map[int]struct{}, len(c.Services))
	for _, s := range c.Services {
		if s.ID <= 0 || s.Name == "" {
			return fmt.Errorf("service entry needs a positive id and a name")
		}
		if _, dup := serviceIDs[s.ID]; dup {
			return fmt.Errorf("duplicate service id %d", s.ID)
		}
		serviceIDs[s.ID] = struct{}{}
	}

	articleIDs := make(map[int]struct{}, len(c.Articles))
	slugs := make(map[string]struct{}, len(c.Articles))
	for _, a := range c.Articles {
		if a.ID <= 0 || a.Title == "" {
			return fmt.Errorf("article entry needs a positive id and a title")
		}
		if _, dup := articleIDs[a.ID]; dup {
			return fmt.Errorf("duplicate article id %d", a.ID)
		}
		articleIDs[a.ID] = struct{}{}
		if a.Slug == "" {
			a.Slug = slug.Make(a.Title)
		}
		if _, dup := slugs[a.Slug]; dup {
			return fmt.Errorf("duplicate article slug %q", a.Slug)
		}
		slugs[a.Slug] = struct{}{}
	}

	return nil
}
