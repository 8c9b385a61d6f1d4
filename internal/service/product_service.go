package service

import (
	"context"
	"errors"

	"aquatech-web/internal/dto"
	"aquatech-web/internal/entity"
	"aquatech-web/internal/repository/unitofwork"
	"aquatech-web/internal/routing"
)

var ErrProductNotFound = errors.New("product not found")

const (
	DefaultPageSize = 12
	MaxPageSize     = 100
)

type IProductService interface {
	List(ctx context.Context, req *dto.ListProductsRequest) (*dto.ListProductsResponse, error)
	Show(ctx context.Context, modelId string) (*dto.ProductResponse, error)
	Categories(ctx context.Context) ([]string, error)
}

type productService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewProductService(uowFactory unitofwork.RepositoryFactory) IProductService {
	return &productService{uowFactory: uowFactory}
}

func toProductResponse(p *entity.Product, withDetails bool) *dto.ProductResponse {
	res := &dto.ProductResponse{
		Id:         p.Id,
		ModelId:    p.ModelId,
		Name:       p.Name,
		Category:   p.Category,
		Summary:    p.Summary,
		PriceCents: p.PriceCents,
		Currency:   p.Currency,
		Price:      p.DisplayPrice(),
		ImageURL:   p.ImageURL,
		Tags:       p.Tags,
		URL:        routing.ProductPath(p.ModelId),
	}
	if withDetails {
		res.Description = p.Description
		res.Specs = p.Specs
	}
	return res
}

func (s *productService) List(ctx context.Context, req *dto.ListProductsRequest) (*dto.ListProductsResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	products, total, err := uow.ProductRepository().Search(ctx, entity.ProductQuery{
		Search:   req.Search,
		Category: req.Category,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		return nil, err
	}

	items := make([]*dto.ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, toProductResponse(p, false))
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return &dto.ListProductsResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func (s *productService) Show(ctx context.Context, modelId string) (*dto.ProductResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	p, err := uow.ProductRepository().FindByModelId(ctx, modelId)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	return toProductResponse(p, true), nil
}

func (s *productService) Categories(ctx context.Context) ([]string, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	categories, err := uow.ProductRepository().Categories(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}
