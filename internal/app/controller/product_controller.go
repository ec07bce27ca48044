package controller

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stephens-stores/backend/internal/app/service"
	"github.com/stephens-stores/backend/internal/middleware"
	"github.com/stephens-stores/backend/internal/response"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{productService: productService}
}

type ProductRequest struct {
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	StockQuantity int     `json:"stock_quantity"`
	CategoryID    uint    `json:"category"`
	Image         string  `json:"image"`
}

type ProductUpdateRequest struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price"`
	StockQuantity *int     `json:"stock_quantity"`
	CategoryID    *uint    `json:"category"`
	Image         *string  `json:"image"`
}

func parseFloatQuery(c *gin.Context, key string) *float64 {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseIntQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// pageLink rebuilds the listing URL for an adjacent page, mirroring the
// next/previous links of a paginated listing. Returns nil at the edges.
func pageLink(c *gin.Context, page, pageSize int, total int64) (next, prev interface{}) {
	build := func(p int) string {
		q := c.Request.URL.Query()
		q.Set("page", strconv.Itoa(p))
		return fmt.Sprintf("%s?%s", c.Request.URL.Path, q.Encode())
	}
	if int64(page*pageSize) < total {
		next = build(page + 1)
	}
	if page > 1 {
		prev = build(page - 1)
	}
	return next, prev
}

// ListProducts returns a filtered, paginated product listing
// GET /api/products
func (ctrl *ProductController) ListProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	input := service.ProductListInput{
		CategoryName: c.Query("category"),
		MinPrice:     parseFloatQuery(c, "min_price"),
		MaxPrice:     parseFloatQuery(c, "max_price"),
		Page:         parseIntQuery(c, "page", 1),
		PageSize:     parseIntQuery(c, "page_size", 0),
	}

	page, err := ctrl.productService.ListProducts(input)
	if err != nil {
		log.Error("Failed to list products", err, nil)
		response.Internal(c)
		return
	}

	next, prev := pageLink(c, page.Page, page.PageSize, page.Total)
	response.OK(c, "Successfully retrieved all products", gin.H{
		"products": page.Products,
		"next":     next,
		"previous": prev,
	})
}

// GetProduct returns one product
// GET /api/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		response.NotFound(c, "Product not found")
		return
	}

	product, err := ctrl.productService.GetProduct(id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			response.NotFound(c, "Product not found")
			return
		}
		log.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		response.Internal(c)
		return
	}

	response.OK(c, "Successfully retrieved single product", product)
}

// CreateProduct creates a product owned by the requester
// POST /api/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid data", nil)
		return
	}

	product, err := ctrl.productService.CreateProduct(userID, service.ProductInput{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		CategoryID:    req.CategoryID,
		ImageURL:      req.Image,
	})
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			response.BadRequest(c, "Invalid data", verr.Fields)
			return
		}
		log.Error("Failed to create product", err, map[string]interface{}{
			"name": req.Name,
		})
		response.Internal(c)
		return
	}

	response.Created(c, "Product successfully created", product)
}

// UpdateProduct applies a partial update. Non-owners receive 403 here,
// unlike delete which hides foreign products behind a 404.
// PATCH /api/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	id, okID := parseIDParam(c)
	if !okID {
		response.NotFound(c, "Product not found")
		return
	}

	var req ProductUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid data", nil)
		return
	}

	product, err := ctrl.productService.UpdateProduct(id, userID, service.ProductUpdateInput{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		CategoryID:    req.CategoryID,
		ImageURL:      req.Image,
	})
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			response.NotFound(c, "Product not found")
			return
		}
		if errors.Is(err, service.ErrProductForbidden) {
			response.Forbidden(c, "You do not have permission to edit this product.")
			return
		}
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			response.BadRequest(c, "Invalid data", verr.Fields)
			return
		}
		log.Error("Failed to update product", err, map[string]interface{}{
			"product_id": id,
		})
		response.Internal(c)
		return
	}

	response.OK(c, "Product successfully updated", product)
}

// DeleteProduct removes an owned product
// DELETE /api/products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	id, okID := parseIDParam(c)
	if !okID {
		response.NotFound(c, "Product not found or you don't have permission to delete it.")
		return
	}

	if err := ctrl.productService.DeleteProduct(id, userID); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			response.NotFound(c, "Product not found or you don't have permission to delete it.")
			return
		}
		log.Error("Failed to delete product", err, map[string]interface{}{
			"product_id": id,
		})
		response.Internal(c)
		return
	}

	response.OK(c, "Product successfully deleted", nil)
}
