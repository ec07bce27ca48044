package repository

import (
	"errors"

	"github.com/stephens-stores/backend/internal/app/model"
	"github.com/stephens-stores/backend/pkg/logger"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(category *model.Category) error
	FindAll() ([]model.Category, error)
	FindByID(id uint) (*model.Category, error)
	FindByIDAndOwner(id, ownerID uint) (*model.Category, error)
	ExistsByName(name string) (bool, error)
	Update(category *model.Category) error
	Delete(id uint) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(category *model.Category) error {
	logger.Debug("Creating category in database", map[string]interface{}{
		"name":     category.Name,
		"owner_id": category.CreatedByID,
	})

	if err := r.db.Create(category).Error; err != nil {
		logger.Error("Failed to create category in database", err, map[string]interface{}{
			"name": category.Name,
		})
		return err
	}

	logger.Debug("Category created in database", map[string]interface{}{
		"category_id": category.ID,
		"name":        category.Name,
	})
	return nil
}

// FindAll returns all categories in insertion order.
func (r *categoryRepository) FindAll() ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.Order("id ASC").Find(&categories).Error; err != nil {
		logger.Error("Failed to list categories from database", err)
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) FindByID(id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.First(&category, id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to find category by ID in database", err, map[string]interface{}{
				"category_id": id,
			})
		}
		return nil, err
	}
	return &category, nil
}

// FindByIDAndOwner resolves a category only when the owner matches, so a
// mismatch is indistinguishable from a missing row.
func (r *categoryRepository) FindByIDAndOwner(id, ownerID uint) (*model.Category, error) {
	var category model.Category
	err := r.db.Where("id = ? AND created_by_id = ?", id, ownerID).First(&category).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to find category by ID and owner in database", err, map[string]interface{}{
				"category_id": id,
				"owner_id":    ownerID,
			})
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) ExistsByName(name string) (bool, error) {
	var count int64
	if err := r.db.Model(&model.Category{}).Where("name = ?", name).Count(&count).Error; err != nil {
		logger.Error("Failed to check category name in database", err, map[string]interface{}{
			"name": name,
		})
		return false, err
	}
	return count > 0, nil
}

func (r *categoryRepository) Update(category *model.Category) error {
	logger.Debug("Updating category in database", map[string]interface{}{
		"category_id": category.ID,
	})

	if err := r.db.Save(category).Error; err != nil {
		logger.Error("Failed to update category in database", err, map[string]interface{}{
			"category_id": category.ID,
		})
		return err
	}
	return nil
}

func (r *categoryRepository) Delete(id uint) error {
	logger.Debug("Deleting category from database", map[string]interface{}{
		"category_id": id,
	})

	if err := r.db.Delete(&model.Category{}, id).Error; err != nil {
		logger.Error("Failed to delete category from database", err, map[string]interface{}{
			"category_id": id,
		})
		return err
	}
	return nil
}
