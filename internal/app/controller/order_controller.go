package controller

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stephens-stores/backend/internal/app/service"
	"github.com/stephens-stores/backend/internal/middleware"
	"github.com/stephens-stores/backend/internal/response"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

type OrderLineRequest struct {
	ProductID uint     `json:"product_id"`
	Quantity  int      `json:"quantity"`
	Price     *float64 `json:"price"`
}

type CreateOrderRequest struct {
	Products        []OrderLineRequest `json:"products"`
	ShippingAddress string             `json:"shipping_address"`
	PaymentMethod   string             `json:"payment_method"`
}

type UpdateOrderStatusRequest struct {
	ShippingStatus string `json:"shipping_status"`
}

// CreateOrder validates every line and creates the order atomically
// POST /api/orders
func (ctrl *OrderController) CreateOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Failed to create order", nil)
		return
	}

	lines := make([]service.OrderLineInput, 0, len(req.Products))
	for _, p := range req.Products {
		lines = append(lines, service.OrderLineInput{
			ProductID: p.ProductID,
			Quantity:  p.Quantity,
			Price:     p.Price,
		})
	}

	_, err := ctrl.orderService.CreateOrder(userID, service.OrderInput{
		Items:           lines,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
	})
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			response.BadRequest(c, "Failed to create order", verr.Fields)
			return
		}
		log.Error("Failed to create order", err, map[string]interface{}{
			"user_id": userID,
		})
		response.Internal(c)
		return
	}

	response.Created(c, "Order successfully created", nil)
}

// ListOrders returns a paginated listing, optionally filtered by user
// GET /api/orders
func (ctrl *OrderController) ListOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	input := service.OrderListInput{
		Page:     parseIntQuery(c, "page", 1),
		PageSize: parseIntQuery(c, "page_size", 0),
	}
	if raw := c.Query("user_id"); raw != "" {
		// An unparseable or unknown user yields an empty listing, not
		// an error.
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			uid := uint(id)
			input.UserID = &uid
		} else {
			zero := uint(0)
			input.UserID = &zero
		}
	}

	page, err := ctrl.orderService.ListOrders(input)
	if err != nil {
		log.Error("Failed to list orders", err, nil)
		response.Internal(c)
		return
	}

	response.OK(c, "Orders retrieved successfully", gin.H{
		"orders":      page.Orders,
		"total_count": page.Total,
	})
}

// GetOrder returns one order with its items
// GET /api/orders/:id
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c)
	if !ok {
		response.NotFound(c, "Order not found")
		return
	}

	order, err := ctrl.orderService.GetOrder(id)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			response.NotFound(c, "Order not found")
			return
		}
		log.Error("Failed to fetch order", err, map[string]interface{}{
			"order_id": id,
		})
		response.Internal(c)
		return
	}

	response.OK(c, "Order retrieved successfully", order)
}

// UpdateStatus moves an owned order through the shipping state machine
// PUT /api/orders/:id/status
func (ctrl *OrderController) UpdateStatus(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	id, okID := parseIDParam(c)
	if !okID {
		response.NotFound(c, "Order not found")
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid data", nil)
		return
	}

	order, err := ctrl.orderService.UpdateStatus(id, userID, req.ShippingStatus)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			response.NotFound(c, "Order not found")
			return
		}
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			response.BadRequest(c, "Invalid data", verr.Fields)
			return
		}
		log.Error("Failed to update order status", err, map[string]interface{}{
			"order_id": id,
		})
		response.Internal(c)
		return
	}

	response.OK(c, "Order status updated successfully", order)
}

// ExportOrders streams the requester's orders as an xlsx workbook
// GET /api/orders/export
func (ctrl *OrderController) ExportOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Unauthorized(c)
		return
	}

	file, err := ctrl.orderService.ExportOrders(userID)
	if err != nil {
		log.Error("Failed to export orders", err, map[string]interface{}{
			"user_id": userID,
		})
		response.Internal(c)
		return
	}

	filename := fmt.Sprintf("orders-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := file.Write(c.Writer); err != nil {
		log.Error("Failed to stream export", err, map[string]interface{}{
			"user_id": userID,
		})
	}
}
