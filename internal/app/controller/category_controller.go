package controller

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stephens-stores/backend/internal/app/service"
	"github.com/stephens-stores/backend/internal/middleware"
	"github.com/stephens-stores/backend/internal/response"
)

type CategoryController struct {
	categoryService service.CategoryService
}

func NewCategoryController(categoryService service.CategoryService) *CategoryController {
	return &CategoryController{categoryService: categoryService}
}

type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// ListCategories returns all categories in insertion order
// GET /api/categories
func (ctrl *CategoryController) ListCategories(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	categories, err := ctrl.categoryService.ListCategories()
	if err != nil {
		log.Error("Failed to list categories", err, nil)
		response.Internal(c)
		return
	}

	response.OK(c, "Categories retrieved successfully", gin.H{
		"categories": categories,
	})
}

// GetCategory returns one category
// GET /api/categories/:id
func (ctrl *CategoryController) GetCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		response.NotFound(c, "Category not found")
		return
	}

	category, err := ctrl.categoryService.GetCategory(id)
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			response.NotFound(c, "Category not found")
			return
		}
		log.Error("Failed to fetch category", err, map[string]interface{}{
			"category_id": id,
		})
		response.Internal(c)
		return
	}

	response.OK(c, "Category retrieved successfully", category)
}

// CreateCategory creates a category owned by the requester
// POST /api/categories
func (ctrl *CategoryController) CreateCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Category creation failed", nil)
		return
	}

	_, err := ctrl.categoryService.CreateCategory(userID, service.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			response.BadRequest(c, "Category creation failed", verr.Fields)
			return
		}
		log.Error("Failed to create category", err, map[string]interface{}{
			"name": req.Name,
		})
		response.Internal(c)
		return
	}

	response.Created(c, "Category created successfully", nil)
}

// UpdateCategory applies a partial update to an owned category
// PUT /api/categories/:id
func (ctrl *CategoryController) UpdateCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	id, okID := parseIDParam(c)
	if !okID {
		response.NotFound(c, "Category not found or you do not have permission to update it")
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid data", nil)
		return
	}

	category, err := ctrl.categoryService.UpdateCategory(id, userID, service.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			response.NotFound(c, "Category not found or you do not have permission to update it")
			return
		}
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			response.BadRequest(c, "Invalid data", verr.Fields)
			return
		}
		log.Error("Failed to update category", err, map[string]interface{}{
			"category_id": id,
		})
		response.Internal(c)
		return
	}

	response.OK(c, "Category updated successfully", category)
}

// DeleteCategory removes an owned category
// DELETE /api/categories/:id
func (ctrl *CategoryController) DeleteCategory(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	id, okID := parseIDParam(c)
	if !okID {
		response.NotFound(c, "Category not found or you do not have permission to delete it")
		return
	}

	if err := ctrl.categoryService.DeleteCategory(id, userID); err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			response.NotFound(c, "Category not found or you do not have permission to delete it")
			return
		}
		log.Error("Failed to delete category", err, map[string]interface{}{
			"category_id": id,
		})
		response.Internal(c)
		return
	}

	response.OK(c, "Category deleted successfully", nil)
}
