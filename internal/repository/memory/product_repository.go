package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"aquatech-web/internal/entity"
	"aquatech-web/internal/repository/contract"

	"github.com/google/uuid"
)

// ProductRepository serves the catalog from memory when no database is configured.
type ProductRepository struct {
	mu       sync.RWMutex
	products map[string]*entity.Product
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{products: make(map[string]*entity.Product)}
}

var _ contract.ProductRepository = (*ProductRepository)(nil)

func clone(p *entity.Product) *entity.Product {
	c := *p
	c.Tags = append([]string(nil), p.Tags...)
	c.Specs = make(map[string]string, len(p.Specs))
	for k, v := range p.Specs {
		c.Specs[k] = v
	}
	return &c
}

func (r *ProductRepository) Upsert(ctx context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if existing, ok := r.products[product.ModelId]; ok {
		product.Id = existing.Id
		product.CreatedAt = existing.CreatedAt
	} else {
		if product.Id == uuid.Nil {
			product.Id = uuid.New()
		}
		product.CreatedAt = now
	}
	product.UpdatedAt = now

	r.products[product.ModelId] = clone(product)
	return nil
}

func (r *ProductRepository) FindByModelId(ctx context.Context, modelId string) (*entity.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[modelId]
	if !ok || !p.Published {
		return nil, nil
	}
	return clone(p), nil
}

func matches(p *entity.Product, q entity.ProductQuery) bool {
	if !p.Published {
		return false
	}
	if q.Category != "" && !strings.EqualFold(p.Category, q.Category) {
		return false
	}
	if term := strings.ToLower(strings.TrimSpace(q.Search)); term != "" {
		if !strings.Contains(strings.ToLower(p.Name), term) && !strings.Contains(strings.ToLower(p.Summary), term) {
			return false
		}
	}
	return true
}

func (r *ProductRepository) Search(ctx context.Context, q entity.ProductQuery) ([]*entity.Product, int64, error) {
	r.mu.RLock()
	var hits []*entity.Product
	for _, p := range r.products {
		if matches(p, q) {
			hits = append(hits, clone(p))
		}
	}
	r.mu.RUnlock()

	sort.Slice(hits, func(i, j int) bool { return hits[i].Name < hits[j].Name })

	total := int64(len(hits))
	start := (q.Page - 1) * q.PageSize
	if q.PageSize <= 0 || start < 0 {
		return hits, total, nil
	}
	if start >= len(hits) {
		return []*entity.Product{}, total, nil
	}
	end := start + q.PageSize
	if end > len(hits) {
		end = len(hits)
	}
	return hits[start:end], total, nil
}

func (r *ProductRepository) Categories(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	var out []string
	for _, p := range r.products {
		if !p.Published {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out, nil
}

func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.products)), nil
}
