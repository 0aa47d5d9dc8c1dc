package services

import (
	"context"

	"backoffice/internal/common"
	"backoffice/internal/models"
	"backoffice/internal/repositories"

	"github.com/shopspring/decimal"
)

type ProductInput struct {
	Name     *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Price    *decimal.Decimal `json:"price" validate:"omitempty,gte=0"`
	Quantity *int             `json:"quantity" validate:"omitempty,gte=0"`
}

type ProductService interface {
	CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	UpdateProduct(ctx context.Context, id int64, in ProductInput, partial bool) (*models.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	ListProducts(ctx context.Context, search string, limit, offset int) ([]*models.Product, error)
}

type productService struct {
	productRepo repositories.ProductRepository
}

func NewProductService(productRepo repositories.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

func (s *productService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	if in.Name == nil {
		return nil, common.NewValidationError("name", "This field is required.")
	}
	product := &models.Product{}
	applyProduct(product, in)
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

func (s *productService) UpdateProduct(ctx context.Context, id int64, in ProductInput, partial bool) (*models.Product, error) {
	if !partial && in.Name == nil {
		return nil, common.NewValidationError("name", "This field is required.")
	}
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyProduct(product, in)
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func applyProduct(p *models.Product, in ProductInput) {
	assign(&p.Name, in.Name)
	assign(&p.Price, in.Price)
	assign(&p.Quantity, in.Quantity)
}

func (s *productService) DeleteProduct(ctx context.Context, id int64) error {
	return s.productRepo.Delete(ctx, id)
}

func (s *productService) ListProducts(ctx context.Context, search string, limit, offset int) ([]*models.Product, error) {
	return s.productRepo.List(ctx, search, limit, offset)
}
