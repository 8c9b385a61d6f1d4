package mapper

import (
	"fmt"

	"aquatech-web/internal/entity"
	"aquatech-web/internal/model"

	"gorm.io/datatypes"
)

type ProductMapper struct{}

func NewProductMapper() *ProductMapper {
	return &ProductMapper{}
}

func (m *ProductMapper) ToEntity(p *model.Product) *entity.Product {
	if p == nil {
		return nil
	}

	specs := make(map[string]string, len(p.Specs))
	for k, v := range p.Specs {
		if s, ok := v.(string); ok {
			specs[k] = s
		} else {
			specs[k] = fmt.Sprint(v)
		}
	}

	return &entity.Product{
		Id:          p.Id,
		ModelId:     p.ModelId,
		Name:        p.Name,
		Category:    p.Category,
		Summary:     p.Summary,
		Description: p.Description,
		PriceCents:  p.PriceCents,
		Currency:    p.Currency,
		ImageURL:    p.ImageURL,
		Specs:       specs,
		Tags:        append([]string(nil), p.Tags...),
		Published:   p.Published,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (m *ProductMapper) ToModel(p *entity.Product) *model.Product {
	if p == nil {
		return nil
	}

	specs := make(datatypes.JSONMap, len(p.Specs))
	for k, v := range p.Specs {
		specs[k] = v
	}

	return &model.Product{
		Id:          p.Id,
		ModelId:     p.ModelId,
		Name:        p.Name,
		Category:    p.Category,
		Summary:     p.Summary,
		Description: p.Description,
		PriceCents:  p.PriceCents,
		Currency:    p.Currency,
		ImageURL:    p.ImageURL,
		Specs:       specs,
		Tags:        datatypes.JSONSlice[string](p.Tags),
		Published:   p.Published,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (m *ProductMapper) ToEntities(products []*model.Product) []*entity.Product {
	out := make([]*entity.Product, 0, len(products))
	for _, p := range products {
		out = append(out, m.ToEntity(p))
	}
	return out
}
