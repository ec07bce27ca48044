package repository

import (
	"errors"
	"math"

	"github.com/stephens-stores/backend/internal/app/model"
	"github.com/stephens-stores/backend/pkg/logger"
	"gorm.io/gorm"
)

// ErrInsufficientStock marks an order creation rolled back because at
// least one conditional stock decrement matched no row.
var ErrInsufficientStock = errors.New("insufficient stock")

// OrderFilter narrows an order listing. A nil UserID lists all orders.
type OrderFilter struct {
	UserID *uint
	Limit  int
	Offset int
}

// OrderLine is one validated line of an order about to be persisted.
// Price carries the line-total snapshot taken at validation time.
type OrderLine struct {
	ProductID uint
	Quantity  int
	Price     float64
}

type OrderRepository interface {
	CreateWithStock(order *model.Order, lines []OrderLine) ([]uint, error)
	FindByID(id uint) (*model.Order, error)
	FindWithFilter(filter OrderFilter) ([]model.Order, int64, error)
	FindByUserID(userID uint) ([]model.Order, error)
	UpdateStatus(id uint, status model.ShippingStatus) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) preloadOrder() *gorm.DB {
	return r.db.Preload("Items")
}

// CreateWithStock persists the order and its items in one transaction.
// Each line decrements product stock with a conditional UPDATE guarded
// by stock_quantity >= quantity. If any decrement matches no row the
// whole transaction rolls back and the IDs of the short products are
// returned alongside ErrInsufficientStock. All lines are attempted so
// the caller can report every short product at once.
func (r *orderRepository) CreateWithStock(order *model.Order, lines []OrderLine) ([]uint, error) {
	logger.Debug("Creating order in database", map[string]interface{}{
		"user_id": order.UserID,
		"lines":   len(lines),
	})

	var short []uint
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		for _, line := range lines {
			result := tx.Model(&model.Product{}).
				Where("id = ? AND stock_quantity >= ?", line.ProductID, line.Quantity).
				UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", line.Quantity))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				short = append(short, line.ProductID)
				continue
			}

			item := model.OrderItem{
				OrderID:   order.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Price:     line.Price,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			order.Items = append(order.Items, item)
		}

		if len(short) > 0 {
			return ErrInsufficientStock
		}

		var total float64
		for _, line := range lines {
			total += line.Price
		}
		total = math.Round(total*100) / 100
		order.TotalPrice = total
		return tx.Model(order).Update("total_price", total).Error
	})

	if err != nil {
		if errors.Is(err, ErrInsufficientStock) {
			logger.Warn("Order creation rolled back on insufficient stock", map[string]interface{}{
				"user_id":     order.UserID,
				"product_ids": short,
			})
			return short, err
		}
		logger.Error("Failed to create order in database", err, map[string]interface{}{
			"user_id": order.UserID,
		})
		order.Items = nil
		return nil, err
	}

	logger.Debug("Order created in database", map[string]interface{}{
		"order_id":    order.ID,
		"total_price": order.TotalPrice,
	})
	return nil, nil
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	var order model.Order
	if err := r.preloadOrder().First(&order, id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to find order by ID in database", err, map[string]interface{}{
				"order_id": id,
			})
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindWithFilter(filter OrderFilter) ([]model.Order, int64, error) {
	logger.Debug("Finding orders with filter", map[string]interface{}{
		"user_id": filter.UserID,
		"limit":   filter.Limit,
		"offset":  filter.Offset,
	})

	query := r.db.Model(&model.Order{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count orders in database", err)
		return nil, 0, err
	}

	query = query.Preload("Items").Order("created_at DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var orders []model.Order
	if err := query.Find(&orders).Error; err != nil {
		logger.Error("Failed to find orders with filter", err)
		return nil, 0, err
	}

	logger.Debug("Orders found with filter", map[string]interface{}{
		"count": len(orders),
		"total": total,
	})
	return orders, total, nil
}

func (r *orderRepository) FindByUserID(userID uint) ([]model.Order, error) {
	var orders []model.Order
	if err := r.preloadOrder().Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		logger.Error("Failed to find orders by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) UpdateStatus(id uint, status model.ShippingStatus) error {
	logger.Debug("Updating order shipping status in database", map[string]interface{}{
		"order_id": id,
		"status":   status,
	})

	if err := r.db.Model(&model.Order{}).Where("id = ?", id).
		Update("shipping_status", status).Error; err != nil {
		logger.Error("Failed to update order shipping status in database", err, map[string]interface{}{
			"order_id": id,
			"status":   status,
		})
		return err
	}

	logger.Debug("Order shipping status updated in database", map[string]interface{}{
		"order_id": id,
		"status":   status,
	})
	return nil
}
