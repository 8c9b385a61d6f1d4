package contract

import (
	"context"

	"aquatech-web/internal/entity"
)

type ProductRepository interface {
	// Upsert inserts the product or replaces the one with the same ModelId.
	Upsert(ctx context.Context, product *entity.Product) error
	// FindByModelId returns nil, nil when no published product matches.
	FindByModelId(ctx context.Context, modelId string) (*entity.Product, error)
	Search(ctx context.Context, query entity.ProductQuery) ([]*entity.Product, int64, error)
	Categories(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int64, error)
}
