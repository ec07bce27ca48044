package repository

import (
	"errors"

	"github.com/stephens-stores/backend/internal/app/model"
	"github.com/stephens-stores/backend/pkg/logger"
	"gorm.io/gorm"
)

// ProductFilter narrows a product listing. CategoryName filters by the
// category's name; the price range applies only when both bounds are set.
type ProductFilter struct {
	CategoryName string
	MinPrice     *float64
	MaxPrice     *float64
	Limit        int
	Offset       int
}

type ProductRepository interface {
	Create(product *model.Product) error
	FindWithFilter(filter ProductFilter) ([]model.Product, int64, error)
	FindByID(id uint) (*model.Product, error)
	Update(product *model.Product) error
	Delete(id uint) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name":        product.Name,
		"category_id": product.CategoryID,
		"owner_id":    product.CreatedByID,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name": product.Name,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return nil
}

// FindWithFilter returns one page of products plus the unpaginated total.
// Filters are ANDed; an unknown category name simply matches nothing
// against the join and leaves the listing unfiltered.
func (r *productRepository) FindWithFilter(filter ProductFilter) ([]model.Product, int64, error) {
	logger.Debug("Finding products with filter", map[string]interface{}{
		"category":  filter.CategoryName,
		"min_price": filter.MinPrice,
		"max_price": filter.MaxPrice,
		"limit":     filter.Limit,
		"offset":    filter.Offset,
	})

	query := r.db.Model(&model.Product{})

	if filter.CategoryName != "" {
		var category model.Category
		err := r.db.Where("name = ?", filter.CategoryName).First(&category).Error
		if err == nil {
			query = query.Where("products.category_id = ?", category.ID)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to resolve category filter", err, map[string]interface{}{
				"category": filter.CategoryName,
			})
			return nil, 0, err
		}
	}

	if filter.MinPrice != nil && filter.MaxPrice != nil {
		query = query.Where("products.price >= ? AND products.price <= ?", *filter.MinPrice, *filter.MaxPrice)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count products with filter", err)
		return nil, 0, err
	}

	query = query.Order("products.id ASC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var products []model.Product
	if err := query.Find(&products).Error; err != nil {
		logger.Error("Failed to find products with filter", err)
		return nil, 0, err
	}

	logger.Debug("Products found with filter", map[string]interface{}{
		"count": len(products),
		"total": total,
	})
	return products, total, nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.First(&product, id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to find product by ID in database", err, map[string]interface{}{
				"product_id": id,
			})
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Update(product *model.Product) error {
	logger.Debug("Updating product in database", map[string]interface{}{
		"product_id": product.ID,
	})

	if err := r.db.Save(product).Error; err != nil {
		logger.Error("Failed to update product in database", err, map[string]interface{}{
			"product_id": product.ID,
		})
		return err
	}
	return nil
}

func (r *productRepository) Delete(id uint) error {
	logger.Debug("Deleting product from database", map[string]interface{}{
		"product_id": id,
	})

	if err := r.db.Delete(&model.Product{}, id).Error; err != nil {
		logger.Error("Failed to delete product from database", err, map[string]interface{}{
			"product_id": id,
		})
		return err
	}
	return nil
}
