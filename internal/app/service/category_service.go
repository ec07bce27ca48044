package service

import (
	"errors"
	"strings"

	"github.com/stephens-stores/backend/internal/app/model"
	"github.com/stephens-stores/backend/internal/app/repository"
	"github.com/stephens-stores/backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrCategoryNotFound = errors.New("category not found")

type CategoryInput struct {
	Name        string
	Description string
}

type CategoryService interface {
	CreateCategory(userID uint, input CategoryInput) (*model.Category, error)
	ListCategories() ([]model.Category, error)
	GetCategory(id uint) (*model.Category, error)
	UpdateCategory(id, userID uint, input CategoryInput) (*model.Category, error)
	DeleteCategory(id, userID uint) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) CreateCategory(userID uint, input CategoryInput) (*model.Category, error) {
	logger.Info("Creating category", map[string]interface{}{
		"name":    input.Name,
		"user_id": userID,
	})

	verr := NewValidationError()
	if strings.TrimSpace(input.Name) == "" {
		verr.Add("name", "This field is required.")
	} else {
		exists, err := s.categoryRepo.ExistsByName(input.Name)
		if err != nil {
			logger.Error("Failed to check category name", err, map[string]interface{}{
				"name": input.Name,
			})
			return nil, err
		}
		if exists {
			verr.Add("name", "Category with this name already exists.")
		}
	}
	if verr.HasErrors() {
		return nil, verr
	}

	category := &model.Category{
		Name:        input.Name,
		Description: input.Description,
		CreatedByID: userID,
	}
	if err := s.categoryRepo.Create(category); err != nil {
		logger.Error("Failed to create category", err, map[string]interface{}{
			"name": input.Name,
		})
		return nil, err
	}

	logger.Info("Category created successfully", map[string]interface{}{
		"category_id": category.ID,
	})
	return category, nil
}

func (s *categoryService) ListCategories() ([]model.Category, error) {
	categories, err := s.categoryRepo.FindAll()
	if err != nil {
		logger.Error("Failed to list categories", err, nil)
		return nil, err
	}
	return categories, nil
}

func (s *categoryService) GetCategory(id uint) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		logger.Error("Failed to fetch category", err, map[string]interface{}{
			"category_id": id,
		})
		return nil, err
	}
	return category, nil
}

// UpdateCategory only touches categories the caller created. A category
// owned by someone else looks the same as a missing one.
func (s *categoryService) UpdateCategory(id, userID uint, input CategoryInput) (*model.Category, error) {
	category, err := s.categoryRepo.FindByIDAndOwner(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		logger.Error("Failed to fetch category for update", err, map[string]interface{}{
			"category_id": id,
		})
		return nil, err
	}

	verr := NewValidationError()
	if input.Name != "" && input.Name != category.Name {
		exists, err := s.categoryRepo.ExistsByName(input.Name)
		if err != nil {
			return nil, err
		}
		if exists {
			verr.Add("name", "Category with this name already exists.")
		}
	}
	if verr.HasErrors() {
		return nil, verr
	}

	if input.Name != "" {
		category.Name = input.Name
	}
	if input.Description != "" {
		category.Description = input.Description
	}

	if err := s.categoryRepo.Update(category); err != nil {
		logger.Error("Failed to update category", err, map[string]interface{}{
			"category_id": id,
		})
		return nil, err
	}

	logger.Info("Category updated successfully", map[string]interface{}{
		"category_id": category.ID,
	})
	return category, nil
}

func (s *categoryService) DeleteCategory(id, userID uint) error {
	if _, err := s.categoryRepo.FindByIDAndOwner(id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		logger.Error("Failed to fetch category for delete", err, map[string]interface{}{
			"category_id": id,
		})
		return err
	}

	if err := s.categoryRepo.Delete(id); err != nil {
		logger.Error("Failed to delete category", err, map[string]interface{}{
			"category_id": id,
		})
		return err
	}

	logger.Info("Category deleted successfully", map[string]interface{}{
		"category_id": id,
	})
	return nil
}
