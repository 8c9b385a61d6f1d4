package specification

import (
	"strings"

	"gorm.io/gorm"
)

// ProductSearchQuery matches name or summary, case-insensitive.
type ProductSearchQuery struct {
	Query string
}

func (s ProductSearchQuery) Apply(db *gorm.DB) *gorm.DB {
	pattern := "%" + strings.TrimSpace(s.Query) + "%"
	return db.Where("name ILIKE ? OR summary ILIKE ?", pattern, pattern)
}

type ByCategory struct {
	Category string
}

func (s ByCategory) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("LOWER(category) = LOWER(?)", s.Category)
}

type ByModelId struct {
	ModelId string
}

func (s ByModelId) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("model_id = ?", s.ModelId)
}

type PublishedOnly struct{}

func (s PublishedOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("published = ?", true)
}
