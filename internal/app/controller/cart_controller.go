package controller

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/stephens-stores/backend/internal/app/service"
	"github.com/stephens-stores/backend/internal/middleware"
	"github.com/stephens-stores/backend/internal/response"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{cartService: cartService}
}

type AddToCartRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  *int `json:"quantity"`
}

// AddToCart adds a product to the requester's cart, merging quantity
// onto an existing line for the same product
// POST /api/cart/add
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid data", nil)
		return
	}

	// Quantity defaults to one when the field is omitted.
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	item, err := ctrl.cartService.AddToCart(userID, req.ProductID, quantity)
	if err != nil {
		if errors.Is(err, service.ErrCartProductNotFound) {
			response.NotFound(c, "Product not found.")
			return
		}
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			response.BadRequest(c, verr.First(), nil)
			return
		}
		log.Error("Failed to add product to cart", err, map[string]interface{}{
			"user_id":    userID,
			"product_id": req.ProductID,
		})
		response.Internal(c)
		return
	}

	response.OK(c, "Product added to cart successfully.", item)
}
