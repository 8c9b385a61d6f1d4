package implementation

import (
	"context"
	"errors"

	"aquatech-web/internal/entity"
	"aquatech-web/internal/mapper"
	"aquatech-web/internal/model"
	"aquatech-web/internal/repository/contract"
	"aquatech-web/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ProductMapper
}

func NewProductRepository(db *gorm.DB) contract.ProductRepository {
	return &ProductRepositoryImpl{
		db:     db,
		mapper: mapper.NewProductMapper(),
	}
}

func (r *ProductRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ProductRepositoryImpl) Upsert(ctx context.Context, product *entity.Product) error {
	m := r.mapper.ToModel(product)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "model_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "category", "summary", "description", "price_cents",
			"currency", "image_url", "specs", "tags", "published", "updated_at",
		}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	*product = *r.mapper.ToEntity(m)
	return nil
}

func (r *ProductRepositoryImpl) FindByModelId(ctx context.Context, modelId string) (*entity.Product, error) {
	var m model.Product
	query := r.applySpecifications(r.db.WithContext(ctx),
		specification.ByModelId{ModelId: modelId},
		specification.PublishedOnly{},
	)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ProductRepositoryImpl) Search(ctx context.Context, q entity.ProductQuery) ([]*entity.Product, int64, error) {
	specs := []specification.Specification{specification.PublishedOnly{}}
	if q.Search != "" {
		specs = append(specs, specification.ProductSearchQuery{Query: q.Search})
	}
	if q.Category != "" {
		specs = append(specs, specification.ByCategory{Category: q.Category})
	}

	var total int64
	countQuery := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Product{}), specs...)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	specs = append(specs,
		specification.OrderBy{Field: "name"},
		specification.Page(q.Page, q.PageSize),
	)

	var models []*model.Product
	if err := r.applySpecifications(r.db.WithContext(ctx), specs...).Find(&models).Error; err != nil {
		return nil, 0, err
	}
	return r.mapper.ToEntities(models), total, nil
}

func (r *ProductRepositoryImpl) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Product{}), specification.PublishedOnly{}).
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *ProductRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Product{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
