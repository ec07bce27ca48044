package service

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/stephens-stores/backend/internal/app/model"
	"github.com/stephens-stores/backend/internal/app/repository"
	"github.com/stephens-stores/backend/pkg/logger"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

var ErrOrderNotFound = errors.New("order not found")

// priceTolerance absorbs float noise when a client echoes a line total.
const priceTolerance = 0.01

type OrderLineInput struct {
	ProductID uint
	Quantity  int
	Price     *float64
}

type OrderInput struct {
	Items           []OrderLineInput
	ShippingAddress string
	PaymentMethod   string
}

type OrderListInput struct {
	UserID   *uint
	Page     int
	PageSize int
}

type OrderPage struct {
	Orders []model.Order
	Total  int64
}

type OrderService interface {
	CreateOrder(userID uint, input OrderInput) (*model.Order, error)
	ListOrders(input OrderListInput) (*OrderPage, error)
	GetOrder(id uint) (*model.Order, error)
	UpdateStatus(id, requesterID uint, status string) (*model.Order, error)
	ExportOrders(userID uint) (*excelize.File, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
	}
}

func roundPrice(v float64) float64 {
	return math.Round(v*100) / 100
}

// CreateOrder validates every line before anything is persisted, then
// creates the order and decrements stock in a single transaction. The
// validation pass collects all line errors instead of stopping at the
// first so the caller sees every problem at once.
func (s *orderService) CreateOrder(userID uint, input OrderInput) (*model.Order, error) {
	logger.Info("Creating order", map[string]interface{}{
		"user_id": userID,
		"lines":   len(input.Items),
	})

	verr := NewValidationError()

	if !model.ValidPaymentMethod(input.PaymentMethod) {
		verr.Add("payment_method", "Invalid payment method.")
	}
	if len(input.Items) == 0 {
		verr.Add("items", "This field is required.")
	}

	lines := make([]repository.OrderLine, 0, len(input.Items))
	for _, item := range input.Items {
		product, err := s.productRepo.FindByID(item.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				verr.Add(fmt.Sprintf("product_%d", item.ProductID),
					fmt.Sprintf("Product with ID %d does not exist.", item.ProductID))
				continue
			}
			logger.Error("Failed to fetch product for order", err, map[string]interface{}{
				"product_id": item.ProductID,
			})
			return nil, err
		}

		lineOK := true
		if item.Quantity > product.StockQuantity {
			verr.Add(fmt.Sprintf("product_%d", item.ProductID),
				fmt.Sprintf("Only %d units of %s are available.", product.StockQuantity, product.Name))
			lineOK = false
		}

		expected := roundPrice(product.Price * float64(item.Quantity))
		if item.Price != nil && math.Abs(*item.Price-expected) > priceTolerance {
			verr.Add(fmt.Sprintf("product_%d_price", item.ProductID),
				fmt.Sprintf("Invalid price for %s. The correct price should be %.2f.", product.Name, expected))
			lineOK = false
		}

		if !lineOK {
			continue
		}

		lines = append(lines, repository.OrderLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     expected,
		})
	}

	if verr.HasErrors() {
		logger.Warn("Order validation failed", map[string]interface{}{
			"user_id": userID,
			"fields":  verr.Fields,
		})
		return nil, verr
	}

	order := &model.Order{
		UserID:          userID,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   input.PaymentMethod,
		ShippingStatus:  model.ShippingStatusPending,
	}

	short, err := s.orderRepo.CreateWithStock(order, lines)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			// Stock moved between validation and the transaction.
			// Rebuild the same per-line errors from current stock.
			for _, id := range short {
				product, perr := s.productRepo.FindByID(id)
				if perr != nil {
					verr.Add(fmt.Sprintf("product_%d", id),
						fmt.Sprintf("Product with ID %d does not exist.", id))
					continue
				}
				verr.Add(fmt.Sprintf("product_%d", id),
					fmt.Sprintf("Only %d units of %s are available.", product.StockQuantity, product.Name))
			}
			return nil, verr
		}
		return nil, err
	}

	logger.Info("Order created successfully", map[string]interface{}{
		"order_id":    order.ID,
		"user_id":     userID,
		"total_price": order.TotalPrice,
	})
	return order, nil
}

// ListOrders accepts an optional user filter. An unknown user yields an
// empty page rather than an error.
func (s *orderService) ListOrders(input OrderListInput) (*OrderPage, error) {
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

	orders, total, err := s.orderRepo.FindWithFilter(repository.OrderFilter{
		UserID: input.UserID,
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	})
	if err != nil {
		logger.Error("Failed to list orders", err, nil)
		return nil, err
	}

	return &OrderPage{Orders: orders, Total: total}, nil
}

func (s *orderService) GetOrder(id uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		logger.Error("Failed to fetch order", err, map[string]interface{}{
			"order_id": id,
		})
		return nil, err
	}
	return order, nil
}

func statusTransitionError(current, next model.ShippingStatus) string {
	switch current {
	case model.ShippingStatusCancelled:
		return "Cannot change status of a cancelled order."
	case model.ShippingStatusDelivered:
		if next == model.ShippingStatusDelivered {
			return ""
		}
		return "Cannot change status of a delivered order."
	case model.ShippingStatusPending:
		if next == model.ShippingStatusShipped || next == model.ShippingStatusCancelled {
			return ""
		}
	case model.ShippingStatusShipped:
		if next == model.ShippingStatusDelivered {
			return ""
		}
	}
	return "Invalid status transition."
}

// UpdateStatus applies the shipping state machine for the order owner.
// Orders owned by other users are reported as missing.
func (s *orderService) UpdateStatus(id, requesterID uint, status string) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		logger.Error("Failed to fetch order for status update", err, map[string]interface{}{
			"order_id": id,
		})
		return nil, err
	}
	if order.UserID != requesterID {
		logger.Warn("Order status update denied", map[string]interface{}{
			"order_id": id,
			"user_id":  requesterID,
		})
		return nil, ErrOrderNotFound
	}

	next := model.ShippingStatus(status)
	if !next.Valid() {
		verr := NewValidationError()
		verr.Add("shipping_status", "Invalid status transition.")
		return nil, verr
	}

	if msg := statusTransitionError(order.ShippingStatus, next); msg != "" {
		verr := NewValidationError()
		verr.Add("shipping_status", msg)
		return nil, verr
	}

	if order.ShippingStatus != next {
		if err := s.orderRepo.UpdateStatus(id, next); err != nil {
			return nil, err
		}
		order.ShippingStatus = next
	}

	logger.Info("Order status updated", map[string]interface{}{
		"order_id": id,
		"status":   next,
	})
	return order, nil
}

// ExportOrders builds an xlsx workbook with one row per order owned by
// the user.
func (s *orderService) ExportOrders(userID uint) (*excelize.File, error) {
	orders, err := s.orderRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to fetch orders for export", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	file := excelize.NewFile()
	sheet := "Orders"
	if err := file.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headers := []string{"Order ID", "Status", "Payment Method", "Total Price", "Shipping Address", "Items", "Created At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := file.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, order := range orders {
		values := []interface{}{
			order.ID,
			string(order.ShippingStatus),
			order.PaymentMethod,
			order.TotalPrice,
			order.ShippingAddress,
			len(order.Items),
			order.CreatedAt.Format(time.RFC3339),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := file.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	logger.Info("Orders exported", map[string]interface{}{
		"user_id": userID,
		"count":   len(orders),
	})
	return file, nil
}
