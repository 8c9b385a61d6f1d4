package dto

import "github.com/google/uuid"

type ListProductsRequest struct {
	Search   string `query:"q"`
	Category string `query:"category"`
	Page     int    `query:"page" validate:"omitempty,min=1"`
	PageSize int    `query:"page_size" validate:"omitempty,min=1,max=100"`
}

type ProductResponse struct {
	Id          uuid.UUID         `json:"id"`
	ModelId     string            `json:"model_id"`
	Name        string            `json:"name"`
	Category    string            `json:"category"`
	Summary     string            `json:"summary"`
	Description string            `json:"description,omitempty"`
	PriceCents  int64             `json:"price_cents"`
	Currency    string            `json:"currency"`
	Price       string            `json:"price"`
	ImageURL    string            `json:"image_url,omitempty"`
	Specs       map[string]string `json:"specs,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	URL         string            `json:"url"`
}

type ListProductsResponse struct {
	Items      []*ProductResponse `json:"items"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
}

type InquiryRequest struct {
	Message string `json:"message" form:"message" validate:"required,min=10,max=2000"`
}
