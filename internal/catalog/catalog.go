// Package catalog loads the bundled product catalog and seeds it into a
// product repository.
package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"io"
	"regexp"

	"aquatech-web/internal/entity"
	"aquatech-web/internal/repository/unitofwork"

	"gopkg.in/yaml.v3"
)

//go:embed products.yaml
var bundled []byte

var modelIdPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

type productFile struct {
	Products []productEntry `yaml:"products"`
}

type productEntry struct {
	ModelId     string            `yaml:"model_id"`
	Name        string            `yaml:"name"`
	Category    string            `yaml:"category"`
	Summary     string            `yaml:"summary"`
	Description string            `yaml:"description"`
	PriceCents  int64             `yaml:"price_cents"`
	Currency    string            `yaml:"currency"`
	ImageURL    string            `yaml:"image_url"`
	Specs       map[string]string `yaml:"specs"`
	Tags        []string          `yaml:"tags"`
	Hidden      bool              `yaml:"hidden"`
}

// Bundled returns the catalog compiled into the binary.
func Bundled() ([]*entity.Product, error) {
	return Load(bytes.NewReader(bundled))
}

// Load parses a catalog file. Unknown keys are rejected so typos surface at
// seed time.
func Load(r io.Reader) ([]*entity.Product, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f productFile
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	seen := make(map[string]struct{}, len(f.Products))
	out := make([]*entity.Product, 0, len(f.Products))
	for i, e := range f.Products {
		if !modelIdPattern.MatchString(e.ModelId) {
			return nil, fmt.Errorf("catalog entry %d: invalid model_id %q", i+1, e.ModelId)
		}
		if _, dup := seen[e.ModelId]; dup {
			return nil, fmt.Errorf("catalog entry %d: duplicate model_id %q", i+1, e.ModelId)
		}
		if e.Name == "" || e.Category == "" {
			return nil, fmt.Errorf("catalog entry %d (%s): name and category are required", i+1, e.ModelId)
		}
		seen[e.ModelId] = struct{}{}

		currency := e.Currency
		if currency == "" {
			currency = "USD"
		}
		out = append(out, &entity.Product{
			ModelId:     e.ModelId,
			Name:        e.Name,
			Category:    e.Category,
			Summary:     e.Summary,
			Description: e.Description,
			PriceCents:  e.PriceCents,
			Currency:    currency,
			ImageURL:    e.ImageURL,
			Specs:       e.Specs,
			Tags:        e.Tags,
			Published:   !e.Hidden,
		})
	}
	return out, nil
}

// Seed upserts products in one transaction and returns how many were written.
func Seed(ctx context.Context, factory unitofwork.RepositoryFactory, products []*entity.Product) (int, error) {
	err := unitofwork.Transact(ctx, factory, func(uow unitofwork.UnitOfWork) error {
		repo := uow.ProductRepository()
		for _, p := range products {
			if err := repo.Upsert(ctx, p); err != nil {
				return fmt.Errorf("failed to seed %s: %w", p.ModelId, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(products), nil
}
