package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Product struct {
	Id          uuid.UUID
	ModelId     string
	Name        string
	Category    string
	Summary     string
	Description string
	PriceCents  int64
	Currency    string
	ImageURL    string
	Specs       map[string]string
	Tags        []string
	Published   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DisplayPrice renders PriceCents as "USD 129.00".
func (p *Product) DisplayPrice() string {
	currency := p.Currency
	if currency == "" {
		currency = "USD"
	}
	return fmt.Sprintf("%s %d.%02d", currency, p.PriceCents/100, p.PriceCents%100)
}

type ProductQuery struct {
	Search   string
	Category string
	Page     int
	PageSize int
}

type ProductPage struct {
	Items      []*Product
	Total      int64
	Page       int
	PageSize   int
	TotalPages int
}
