package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Product struct {
	Id          uuid.UUID                   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ModelId     string                      `gorm:"type:varchar(120);uniqueIndex;not null"`
	Name        string                      `gorm:"type:varchar(255);not null"`
	Category    string                      `gorm:"type:varchar(120);index;not null"`
	Summary     string                      `gorm:"type:text"`
	Description string                      `gorm:"type:text"`
	PriceCents  int64                       `gorm:"not null;default:0"`
	Currency    string                      `gorm:"type:varchar(3);not null;default:'USD'"`
	ImageURL    string                      `gorm:"type:text"`
	Specs       datatypes.JSONMap           `gorm:"type:jsonb"`
	Tags        datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	Published   bool                        `gorm:"not null;index"`
	CreatedAt   time.Time                   `gorm:"autoCreateTime"`
	UpdatedAt   time.Time                   `gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt              `gorm:"index"`
}

func (Product) TableName() string {
	return "products"
}
