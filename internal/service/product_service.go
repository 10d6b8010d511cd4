package service

import (
	"context"
	"fmt"

	"github.com/0Bleak/order-service/internal/models"
	"github.com/0Bleak/order-service/internal/repository"
)

type ProductService interface {
	CreateProduct(ctx context.Context, req *models.CreateProductRequest) (models.Product, error)
	GetProduct(ctx context.Context, id uint32) (models.Product, error)
	ListProducts(ctx context.Context, limit, offset int64) ([]models.Product, error)
}

type productService struct {
	repo repository.ProductRepository
}

func NewProductService(repo repository.ProductRepository) ProductService {
	return &productService{repo: repo}
}

func (s *productService) CreateProduct(ctx context.Context, req *models.CreateProductRequest) (models.Product, error) {
	if err := req.Validate(); err != nil {
		return models.Product{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	product, err := models.NewProduct(req.ID, req.Name, req.Price, req.Description)
	if err != nil {
		return models.Product{}, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return models.Product{}, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

func (s *productService) GetProduct(ctx context.Context, id uint32) (models.Product, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *productService) ListProducts(ctx context.Context, limit, offset int64) ([]models.Product, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	return s.repo.FindAll(ctx, limit, offset)
}
