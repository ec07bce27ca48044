package service

import (
	"errors"
	"strings"

	"github.com/stephens-stores/backend/internal/app/model"
	"github.com/stephens-stores/backend/internal/app/repository"
	"github.com/stephens-stores/backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrProductForbidden = errors.New("product belongs to another user")
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type ProductInput struct {
	Name          string
	Description   string
	Price         float64
	StockQuantity int
	CategoryID    uint
	ImageURL      string
}

type ProductUpdateInput struct {
	Name          *string
	Description   *string
	Price         *float64
	StockQuantity *int
	CategoryID    *uint
	ImageURL      *string
}

type ProductListInput struct {
	CategoryName string
	MinPrice     *float64
	MaxPrice     *float64
	Page         int
	PageSize     int
}

type ProductPage struct {
	Products []model.Product
	Total    int64
	Page     int
	PageSize int
}

type ProductService interface {
	CreateProduct(userID uint, input ProductInput) (*model.Product, error)
	ListProducts(input ProductListInput) (*ProductPage, error)
	GetProduct(id uint) (*model.Product, error)
	UpdateProduct(id, userID uint, input ProductUpdateInput) (*model.Product, error)
	DeleteProduct(id, userID uint) error
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

func (s *productService) CreateProduct(userID uint, input ProductInput) (*model.Product, error) {
	logger.Info("Creating product", map[string]interface{}{
		"name":    input.Name,
		"user_id": userID,
	})

	verr := NewValidationError()
	if strings.TrimSpace(input.Name) == "" {
		verr.Add("name", "This field is required.")
	}
	if input.Price <= 0 {
		verr.Add("price", "Price must be greater than zero.")
	}
	if input.StockQuantity < 0 {
		verr.Add("stock_quantity", "Stock quantity cannot be negative.")
	}
	if strings.TrimSpace(input.ImageURL) == "" {
		verr.Add("image", "This field is required.")
	}
	if input.CategoryID == 0 {
		verr.Add("category", "This field is required.")
	} else {
		if _, err := s.categoryRepo.FindByID(input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				verr.Add("category", "Invalid category.")
			} else {
				logger.Error("Failed to check category", err, map[string]interface{}{
					"category_id": input.CategoryID,
				})
				return nil, err
			}
		}
	}
	if verr.HasErrors() {
		logger.Warn("Product validation failed", map[string]interface{}{
			"fields": verr.Fields,
		})
		return nil, verr
	}

	product := &model.Product{
		Name:          input.Name,
		Description:   input.Description,
		Price:         input.Price,
		StockQuantity: input.StockQuantity,
		CategoryID:    input.CategoryID,
		ImageURL:      input.ImageURL,
		CreatedByID:   userID,
	}
	if err := s.productRepo.Create(product); err != nil {
		logger.Error("Failed to create product", err, map[string]interface{}{
			"name": input.Name,
		})
		return nil, err
	}

	logger.Info("Product created successfully", map[string]interface{}{
		"product_id": product.ID,
	})
	return product, nil
}

func (s *productService) ListProducts(input ProductListInput) (*ProductPage, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	pageSize := input.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	filter := repository.ProductFilter{
		CategoryName: input.CategoryName,
		MinPrice:     input.MinPrice,
		MaxPrice:     input.MaxPrice,
		Limit:        pageSize,
		Offset:       (page - 1) * pageSize,
	}

	products, total, err := s.productRepo.FindWithFilter(filter)
	if err != nil {
		logger.Error("Failed to list products", err, nil)
		return nil, err
	}

	return &ProductPage{
		Products: products,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func (s *productService) GetProduct(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return product, nil
}

func (s *productService) UpdateProduct(id, userID uint, input ProductUpdateInput) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product for update", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	if product.CreatedByID != userID {
		logger.Warn("Product update denied", map[string]interface{}{
			"product_id": id,
			"user_id":    userID,
		})
		return nil, ErrProductForbidden
	}

	verr := NewValidationError()
	if input.Price != nil && *input.Price <= 0 {
		verr.Add("price", "Price must be greater than zero.")
	}
	if input.StockQuantity != nil && *input.StockQuantity < 0 {
		verr.Add("stock_quantity", "Stock quantity cannot be negative.")
	}
	if input.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(*input.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				verr.Add("category", "Invalid category.")
			} else {
				return nil, err
			}
		}
	}
	if verr.HasErrors() {
		return nil, verr
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.StockQuantity != nil {
		product.StockQuantity = *input.StockQuantity
	}
	if input.CategoryID != nil {
		product.CategoryID = *input.CategoryID
	}
	if input.ImageURL != nil {
		product.ImageURL = *input.ImageURL
	}

	if err := s.productRepo.Update(product); err != nil {
		logger.Error("Failed to update product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	logger.Info("Product updated successfully", map[string]interface{}{
		"product_id": product.ID,
	})
	return product, nil
}

// DeleteProduct reports not-found for products owned by other users, so
// callers cannot probe foreign product IDs through the delete endpoint.
func (s *productService) DeleteProduct(id, userID uint) error {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		logger.Error("Failed to fetch product for delete", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}
	if product.CreatedByID != userID {
		return ErrProductNotFound
	}

	if err := s.productRepo.Delete(id); err != nil {
		logger.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}

	logger.Info("Product deleted successfully", map[string]interface{}{
		"product_id": id,
	})
	return nil
}
