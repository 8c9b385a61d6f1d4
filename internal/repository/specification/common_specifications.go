package specification

import (
	"fmt"

	"gorm.io/gorm"
)

// OrderBy sorts by one column. Field is never taken from user input.
type OrderBy struct {
	Field string
	Desc  bool
}

func (s OrderBy) Apply(db *gorm.DB) *gorm.DB {
	direction := "ASC"
	if s.Desc {
		direction = "DESC"
	}
	return db.Order(fmt.Sprintf("%s %s", s.Field, direction))
}

type Pagination struct {
	Limit  int
	Offset int
}

// Page converts a 1-based page number into a limit/offset pair.
func Page(page, size int) Pagination {
	if page < 1 {
		page = 1
	}
	return Pagination{Limit: size, Offset: (page - 1) * size}
}

func (s Pagination) Apply(db *gorm.DB) *gorm.DB {
	return db.Limit(s.Limit).Offset(s.Offset)
}
