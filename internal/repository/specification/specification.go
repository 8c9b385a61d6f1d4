package specification

import "gorm.io/gorm"

// Specification narrows a catalog query. Specifications compose by applying
// them in order.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
